package host

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/duckdb/duckdb-go/v2"
)

// QueryRecords runs a query through the DuckDB Arrow interface and returns the
// resulting record batches. The caller releases them.
//
// The Arrow interface is behind a build tag: build and test with
// -tags=duckdb_arrow.
func QueryRecords(ctx context.Context, connector *duckdb.Connector, query string) ([]arrow.RecordBatch, error) {
	conn, err := connector.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get db connection: %w", err)
	}
	defer conn.Close()

	ar, err := duckdb.NewArrowFromConn(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow from duckdb: %w", err)
	}

	reader, err := ar.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute host query: %w", err)
	}
	defer reader.Release()

	var recs []arrow.RecordBatch
	for reader.Next() {
		rec := reader.RecordBatch()
		rec.Retain()
		recs = append(recs, rec)
	}

	if err := reader.Err(); err != nil {
		releaseAll(recs)
		return nil, err
	}

	return recs, nil
}

func releaseAll(recs []arrow.RecordBatch) {
	for _, rec := range recs {
		rec.Release()
	}
}
