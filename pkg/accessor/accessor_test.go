package accessor

import (
	"sync"
	"testing"

	"geo-accessor/pkg/geom"
	"geo-accessor/pkg/host"
	"geo-accessor/pkg/srs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) take() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.notices
	r.notices = nil
	return out
}

func newFixture(t *testing.T) (*Accessor, *recorder, host.MapHost, *geom.Geometry) {
	t.Helper()

	wgs84, err := srs.FromEPSG(4326)
	require.NoError(t, err)

	g, err := geom.FromWKT("POLYGON ((0 0, 4 0, 4 2, 0 2, 0 0))", wgs84)
	require.NoError(t, err)

	rec := &recorder{}
	return New(WithNotifier(rec)), rec, host.MapHost{"shape": g}, g
}

func TestDeprecatedAccessors(t *testing.T) {
	a, rec, h, g := newFixture(t)
	field := Field{AttName: "shape"}

	t.Run(
		"geometry is returned unchanged", func(t *testing.T) {
			got, err := a.Geometry(h, field)
			require.NoError(t, err)
			assert.Same(t, g, got)

			notices := rec.take()
			require.Len(t, notices, 1)
			assert.Equal(t, "use model.shape", notices[0].Message)
			assert.Equal(t, "shape", notices[0].Field)
		},
	)

	t.Run(
		"srid is echoed", func(t *testing.T) {
			assert.Equal(t, 4326, a.SRID(4326))
			assert.Equal(t, 999999, a.SRID(999999))

			notices := rec.take()
			require.Len(t, notices, 2)
			assert.Equal(t, "use model.geometry_field.srid", notices[0].Message)
		},
	)

	t.Run(
		"wkt", func(t *testing.T) {
			got, err := a.WKT(h, field)
			require.NoError(t, err)

			want, err := g.WKT()
			require.NoError(t, err)
			assert.Equal(t, want, got)

			notices := rec.take()
			require.Len(t, notices, 1)
			assert.Equal(t, "use model.shape.centroid.wkt", notices[0].Message)
		},
	)

	t.Run(
		"centroid wkt", func(t *testing.T) {
			got, err := a.CentroidWKT(h, field)
			require.NoError(t, err)
			assert.Equal(t, "POINT (2 1)", got)

			notices := rec.take()
			require.Len(t, notices, 1)
			assert.Equal(t, "use model.shape.centroid.wkt", notices[0].Message)
			assert.Equal(t, "CentroidWKT", notices[0].Accessor)
		},
	)

	t.Run(
		"area", func(t *testing.T) {
			got, err := a.Area(h, field)
			require.NoError(t, err)
			assert.InDelta(t, 8.0, got, 1e-9)
			assert.Equal(t, g.Area(), got)

			notices := rec.take()
			require.Len(t, notices, 1)
			assert.Equal(t, "use model.shape.area", notices[0].Message)
		},
	)
}

func TestCollectionAccessors(t *testing.T) {
	a, rec, _, _ := newFixture(t)
	field := Field{AttName: "shape"}

	g, err := geom.FromWKT("GEOMETRYCOLLECTION (POLYGON ((0 0, 4 0, 4 2, 0 2, 0 0)))", nil)
	require.NoError(t, err)
	h := host.MapHost{"shape": g}

	area, err := a.Area(h, field)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, area, 1e-9)

	centroid, err := a.CentroidWKT(h, field)
	require.NoError(t, err)
	assert.Equal(t, "POINT (2 1)", centroid)

	points, err := geom.FromWKT("GEOMETRYCOLLECTION (POINT (1 1), POINT (3 3))", nil)
	require.NoError(t, err)

	centroid, err = a.CentroidWKT(host.MapHost{"shape": points}, field)
	require.NoError(t, err)
	assert.Equal(t, "POINT (2 2)", centroid)

	assert.Len(t, rec.take(), 3)
}

func TestConstructionAccessors(t *testing.T) {
	a, rec, _, _ := newFixture(t)

	pt, err := geom.FromWKT("POINT (1 1)", nil)
	require.NoError(t, err)
	h := host.MapHost{"point": pt}

	t.Run(
		"ogr geometry", func(t *testing.T) {
			got, err := a.OGRGeometry(h, Field{AttName: "point"}, 4326)
			require.NoError(t, err)

			text, err := got.WKT()
			require.NoError(t, err)
			assert.Equal(t, "POINT (1 1)", text)
			assert.Equal(t, "EPSG:4326", got.SpatialReference().String())

			// a new value, the stored one stays untagged
			assert.NotSame(t, pt, got)
			assert.Nil(t, pt.SpatialReference())
			assert.Empty(t, rec.take())
		},
	)

	t.Run(
		"spatial reference", func(t *testing.T) {
			ref, err := a.SpatialReference(3857)
			require.NoError(t, err)
			assert.Equal(t, "WGS 84 / Pseudo-Mercator", ref.Name)
			assert.Empty(t, rec.take())
		},
	)

	t.Run(
		"invalid epsg code", func(t *testing.T) {
			ref, err := a.SpatialReference(999999)
			assert.Nil(t, ref)
			assert.ErrorIs(t, err, srs.ErrInvalidSpatialReference)

			g, err := a.OGRGeometry(h, Field{AttName: "point"}, 999999)
			assert.Nil(t, g)
			assert.ErrorIs(t, err, srs.ErrInvalidSpatialReference)
			assert.Empty(t, rec.take())
		},
	)
}

func TestMissingAttribute(t *testing.T) {
	a, rec, h, _ := newFixture(t)
	field := Field{AttName: "geometry"}

	_, err := a.Geometry(h, field)
	assert.ErrorIs(t, err, host.ErrAttributeNotFound)

	_, err = a.OGRGeometry(h, field, 4326)
	assert.ErrorIs(t, err, host.ErrAttributeNotFound)

	// missing attribute is reported before the code is resolved
	_, err = a.OGRGeometry(h, field, 999999)
	assert.ErrorIs(t, err, host.ErrAttributeNotFound)

	_, err = a.WKT(h, field)
	assert.ErrorIs(t, err, host.ErrAttributeNotFound)

	_, err = a.CentroidWKT(h, field)
	assert.ErrorIs(t, err, host.ErrAttributeNotFound)

	area, err := a.Area(h, field)
	assert.ErrorIs(t, err, host.ErrAttributeNotFound)
	assert.Equal(t, 0.0, area)

	// failing deprecated calls still report once each
	assert.Len(t, rec.take(), 4)
}

func TestNotifiers(t *testing.T) {
	var got []Notice
	a := New(WithNotifier(NotifierFunc(func(n Notice) { got = append(got, n) })))
	a.SRID(4326)
	require.Len(t, got, 1)
	assert.Equal(t, "SRID: use model.geometry_field.srid", got[0].String())

	// nil notifier discards
	a = New(WithNotifier(nil))
	assert.Equal(t, 4326, a.SRID(4326))

	// default notifier logs
	assert.Equal(t, 4326, New().SRID(4326))
}

func TestWithRegistry(t *testing.T) {
	r, err := srs.NewRegistry([]byte(`references: []`))
	require.NoError(t, err)

	a := New(WithRegistry(r), WithNotifier(Discard))

	_, err = a.SpatialReference(4326)
	assert.ErrorIs(t, err, srs.ErrInvalidSpatialReference)

	ref, err := a.SpatialReference(32601)
	require.NoError(t, err)
	assert.Equal(t, "WGS 84 / UTM zone 1N", ref.Name)

	t.Run(
		"nil registry uses the default", func(t *testing.T) {
			a := New(WithRegistry(nil), WithNotifier(Discard))

			ref, err := a.SpatialReference(4326)
			require.NoError(t, err)
			assert.Equal(t, "EPSG:4326", ref.String())

			pt, err := geom.FromWKT("POINT (1 1)", nil)
			require.NoError(t, err)

			g, err := a.OGRGeometry(host.MapHost{"point": pt}, Field{AttName: "point"}, 3857)
			require.NoError(t, err)
			assert.Equal(t, 3857, g.SRID())
		},
	)
}
