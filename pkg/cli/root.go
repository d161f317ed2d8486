package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"geo-accessor/pkg/accessor"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the geo-accessor command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "geo-accessor",
		Short: "Derive WKT, centroid, area and spatial references from geometry attributes.",
		Long: `geo-accessor reads geometry attributes from rows returned by a DuckDB query
and prints the representations derived from them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newDescribeCmd(), newSRSCmd())
	return rootCmd
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newAccessor logs deprecation notices only when asked to
func newAccessor(notices bool) *accessor.Accessor {
	if notices {
		return accessor.New()
	}
	return accessor.New(accessor.WithNotifier(accessor.Discard))
}

func newSRSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "srs CODE",
		Short: "Describe the spatial reference of an EPSG code.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid EPSG code %q", args[0])
			}

			ref, err := newAccessor(false).SpatialReference(code)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Reference:\t%s\n", ref)
			fmt.Fprintf(w, "Name:\t%s\n", ref.Name)
			fmt.Fprintf(w, "Kind:\t%s\n", ref.Kind)
			fmt.Fprintf(w, "Units:\t%s\n", ref.Units)
			fmt.Fprintf(w, "Datum:\t%s\n", ref.Datum)
			fmt.Fprintf(w, "Proj4:\t%s\n", ref.Proj4)
			return w.Flush()
		},
	}
}
