package geom

import (
	"errors"
	"fmt"

	"geo-accessor/pkg/srs"

	gogeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"
	"github.com/twpayne/go-geom/xy"
)

type GeometryType string

const (
	POINT              GeometryType = "Point"
	LINESTRING         GeometryType = "LineString"
	LINEARRING         GeometryType = "LinearRing"
	POLYGON            GeometryType = "Polygon"
	MULTIPOINT         GeometryType = "MultiPoint"
	MULTILINESTRING    GeometryType = "MultiLineString"
	MULTIPOLYGON       GeometryType = "MultiPolygon"
	GEOMETRYCOLLECTION GeometryType = "GeometryCollection"
	UNKNOWN            GeometryType = "Unknown"
)

var ErrInvalidWKT = errors.New("invalid wkt")

// Geometry is a go-geom shape tagged with an optional spatial reference.
type Geometry struct {
	shape gogeom.T
	srs   *srs.SpatialReference
}

func New(shape gogeom.T, ref *srs.SpatialReference) *Geometry {
	return &Geometry{
		shape: shape,
		srs:   ref,
	}
}

// FromWKT parses well-known text into a Geometry tagged with ref. A nil ref
// leaves the geometry without a spatial reference.
func FromWKT(text string, ref *srs.SpatialReference) (*Geometry, error) {
	shape, err := wkt.Unmarshal(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWKT, err)
	}
	if shape == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWKT, text)
	}

	return New(shape, ref), nil
}

// Get the underlying go-geom shape
func (g *Geometry) Shape() gogeom.T {
	return g.shape
}

// Get spatial reference, nil when untagged
func (g *Geometry) SpatialReference() *srs.SpatialReference {
	return g.srs
}

// SRID of the spatial reference, falling back to the SRID stored on the shape.
func (g *Geometry) SRID() int {
	if g.srs != nil {
		return g.srs.SRID()
	}
	return g.shape.SRID()
}

// Get CRS as an authority string, empty when untagged
func (g *Geometry) GetCRS() string {
	if g.srs == nil {
		return ""
	}
	return g.srs.String()
}

// Get geometry type
func (g *Geometry) GetGeometryType() GeometryType {
	switch g.shape.(type) {
	case *gogeom.Point:
		return POINT
	case *gogeom.LineString:
		return LINESTRING
	case *gogeom.LinearRing:
		return LINEARRING
	case *gogeom.Polygon:
		return POLYGON
	case *gogeom.MultiPoint:
		return MULTIPOINT
	case *gogeom.MultiLineString:
		return MULTILINESTRING
	case *gogeom.MultiPolygon:
		return MULTIPOLYGON
	case *gogeom.GeometryCollection:
		return GEOMETRYCOLLECTION
	default:
		return UNKNOWN
	}
}

// Well-known text of the geometry
func (g *Geometry) WKT() (string, error) {
	return wkt.Marshal(g.shape)
}

// Centroid returns the geometric center as a point geometry carrying the same
// spatial reference. The centroid of an empty geometry is an empty point.
// Collections use only their members of highest dimension, weighted by area,
// length or point count.
func (g *Geometry) Centroid() (*Geometry, error) {
	parts, err := centroidParts(g.shape)
	if err != nil {
		return nil, fmt.Errorf("failed to compute centroid of %s: %w", g.GetGeometryType(), err)
	}
	if len(parts) == 0 {
		return New(gogeom.NewPointEmpty(gogeom.XY), g.srs), nil
	}

	c := combineCentroids(parts)
	pt, err := gogeom.NewPoint(gogeom.XY).SetCoords(gogeom.Coord{c[0], c[1]})
	if err != nil {
		return nil, err
	}

	return New(pt, g.srs), nil
}

// Planar area in the units of the projection. Puntal and lineal shapes have
// zero area; a collection sums the area of its members.
func (g *Geometry) Area() float64 {
	return area(g.shape)
}

func area(shape gogeom.T) float64 {
	switch s := shape.(type) {
	case *gogeom.GeometryCollection:
		var total float64
		for _, member := range s.Geoms() {
			total += area(member)
		}
		return total
	case interface{ Area() float64 }:
		return s.Area()
	default:
		return 0
	}
}

// centroidPart is the centroid of one non-empty member with its weight
type centroidPart struct {
	dim    int
	weight float64
	coord  gogeom.Coord
}

func centroidParts(shape gogeom.T) ([]centroidPart, error) {
	if c, ok := shape.(*gogeom.GeometryCollection); ok {
		var parts []centroidPart
		for _, member := range c.Geoms() {
			memberParts, err := centroidParts(member)
			if err != nil {
				return nil, err
			}
			parts = append(parts, memberParts...)
		}
		return parts, nil
	}

	if shape.Empty() {
		return nil, nil
	}

	c, err := xy.Centroid(shape)
	if err != nil {
		return nil, err
	}

	part := centroidPart{coord: c}
	switch s := shape.(type) {
	case *gogeom.Point:
		part.dim, part.weight = 0, 1
	case *gogeom.MultiPoint:
		part.dim, part.weight = 0, float64(s.NumPoints())
	case *gogeom.Polygon, *gogeom.MultiPolygon:
		part.dim, part.weight = 2, area(s)
	case interface{ Length() float64 }:
		part.dim, part.weight = 1, s.Length()
	default:
		return nil, fmt.Errorf("unsupported geometry %T", shape)
	}

	return []centroidPart{part}, nil
}

// combineCentroids averages the parts of highest dimension by weight. Parts
// with zero total weight fall back to a plain average.
func combineCentroids(parts []centroidPart) gogeom.Coord {
	if len(parts) == 1 {
		return parts[0].coord
	}

	dim := 0
	for _, p := range parts {
		dim = max(dim, p.dim)
	}

	var x, y, weight, n float64
	var mx, my float64
	for _, p := range parts {
		if p.dim != dim {
			continue
		}
		x += p.coord[0] * p.weight
		y += p.coord[1] * p.weight
		weight += p.weight
		mx += p.coord[0]
		my += p.coord[1]
		n++
	}

	if weight == 0 {
		return gogeom.Coord{mx / n, my / n}
	}
	return gogeom.Coord{x / weight, y / weight}
}

// GeoJSON geometry object
func (g *Geometry) GeoJSON() ([]byte, error) {
	return geojson.Marshal(g.shape)
}

// Equal reports whether both geometries have the same WKT and SRID.
func (g *Geometry) Equal(other *Geometry) bool {
	if g == nil || other == nil {
		return g == other
	}

	a, err := g.WKT()
	if err != nil {
		return false
	}
	b, err := other.WKT()
	if err != nil {
		return false
	}

	return a == b && g.SRID() == other.SRID()
}
