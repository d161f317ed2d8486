package cli

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"geo-accessor/pkg/srs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestDescribeCmd(t *testing.T) {
	t.Run(
		"rows from query", func(t *testing.T) {
			out, err := run(t, "describe",
				"--query", `select * from (values ('POLYGON ((0 0, 2 0, 2 2, 0 2, 0 0))'), (null)) t(shape)`,
				"--field", "shape",
				"--srid", "3857",
			)
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSpace(out), "\n")
			require.Len(t, lines, 3)
			assert.Contains(t, lines[0], "CENTROID")
			assert.Contains(t, lines[1], "3857")
			assert.Contains(t, lines[1], "POINT (1 1)")
			assert.Contains(t, lines[1], "4")
		},
	)

	t.Run(
		"missing field", func(t *testing.T) {
			_, err := run(t, "describe", "--query", `select 'POINT (1 1)' as shape`, "--field", "geom")
			assert.Error(t, err)
		},
	)

	t.Run(
		"invalid srid", func(t *testing.T) {
			_, err := run(t, "describe", "--query", `select 'POINT (1 1)' as WKT`, "--srid", "999999")
			assert.Error(t, err)
		},
	)

	t.Run(
		"query is required", func(t *testing.T) {
			_, err := run(t, "describe")
			assert.Error(t, err)
		},
	)
}

func TestDescribeNotices(t *testing.T) {
	var logs bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&logs)
	defer log.SetOutput(prev)

	query := `select 'POLYGON ((0 0, 2 0, 2 2, 0 2, 0 0))' as shape`

	t.Run(
		"silent by default", func(t *testing.T) {
			logs.Reset()
			_, err := run(t, "describe", "--query", query, "--field", "shape")
			require.NoError(t, err)
			assert.Empty(t, logs.String())
		},
	)

	t.Run(
		"logged with --notices", func(t *testing.T) {
			logs.Reset()
			_, err := run(t, "describe", "--query", query, "--field", "shape", "--notices")
			require.NoError(t, err)

			out := logs.String()
			assert.Equal(t, 3, strings.Count(out, "DeprecationWarning"))
			assert.Contains(t, out, "WKT: use model.shape.centroid.wkt")
			assert.Contains(t, out, "CentroidWKT: use model.shape.centroid.wkt")
			assert.Contains(t, out, "Area: use model.shape.area")
		},
	)
}

func TestSRSCmd(t *testing.T) {
	out, err := run(t, "srs", "27700")
	require.NoError(t, err)
	assert.Contains(t, out, "EPSG:27700")
	assert.Contains(t, out, "OSGB36 / British National Grid")

	// the error is returned once, cobra does not print it as well
	out, err = run(t, "srs", "999999")
	assert.ErrorIs(t, err, srs.ErrInvalidSpatialReference)
	assert.NotContains(t, out, "Error:")

	_, err = run(t, "srs", "wgs84")
	assert.Error(t, err)
}
