package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"geo-accessor/pkg/accessor"
	"geo-accessor/pkg/host"

	"github.com/duckdb/duckdb-go/v2"
	"github.com/spf13/cobra"
)

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Describe the geometry attribute of every row returned by a query.",
		Example: `  geo-accessor describe --query "select * from 'parcels.parquet'" --field shape --srid 32748`,
		RunE:  runDescribe,
	}

	cmd.Flags().StringP("query", "q", "", "DuckDB query returning the host rows")
	cmd.Flags().StringP("field", "f", "WKT", "column holding the geometry as WKT")
	cmd.Flags().Int("srid", 4326, "EPSG code for rows without a SRID column")
	cmd.Flags().Bool("notices", false, "log a deprecation notice for every accessor read")
	cmd.MarkFlagRequired("query")

	return cmd
}

func runDescribe(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	field, _ := cmd.Flags().GetString("field")
	srid, _ := cmd.Flags().GetInt("srid")
	notices, _ := cmd.Flags().GetBool("notices")

	a := newAccessor(notices)

	ref, err := a.SpatialReference(srid)
	if err != nil {
		return err
	}

	connector, err := duckdb.NewConnector("", nil)
	if err != nil {
		return fmt.Errorf("failed to create DuckDB connector: %w", err)
	}
	defer connector.Close()

	recs, err := host.QueryRecords(cmd.Context(), connector, query)
	if err != nil {
		return err
	}
	defer func() {
		for _, rec := range recs {
			rec.Release()
		}
	}()

	if len(recs) > 0 && len(recs[0].Schema().FieldIndices(field)) == 0 {
		return fmt.Errorf("field %s not found in query result", field)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ROW\tSRID\tAREA\tCENTROID\tWKT")

	f := accessor.Field{AttName: field}
	for i, h := range host.NewRecordHosts(recs, ref) {
		g, err := h.GeometryAttribute(field)
		if errors.Is(err, host.ErrAttributeNotFound) {
			fmt.Fprintf(w, "%d\t\t\t\t\n", i)
			continue
		}
		if err != nil {
			return err
		}

		// parsed once, read back through the accessors
		row := host.MapHost{field: g}

		text, err := a.WKT(row, f)
		if err != nil {
			return err
		}

		centroidText, err := a.CentroidWKT(row, f)
		if err != nil {
			return err
		}

		area, err := a.Area(row, f)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%d\t%d\t%g\t%s\t%s\n", i, g.SRID(), area, centroidText, text)
	}

	return w.Flush()
}
