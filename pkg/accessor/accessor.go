// Package accessor exposes read accessors deriving geometric representations
// from a named geometry attribute of a host. Most of them are kept for
// compatibility only and report a deprecation notice on every call.
package accessor

import (
	"fmt"

	"geo-accessor/pkg/geom"
	"geo-accessor/pkg/host"
	"geo-accessor/pkg/srs"
)

// Field names the geometry attribute read from a host.
type Field struct {
	AttName string
}

// Accessor is stateless and safe for concurrent use.
type Accessor struct {
	notifier Notifier
	registry *srs.Registry
}

type Option func(*Accessor)

// WithNotifier sets the destination of deprecation notices.
func WithNotifier(n Notifier) Option {
	return func(a *Accessor) {
		if n == nil {
			n = Discard
		}
		a.notifier = n
	}
}

// WithRegistry sets the registry used to resolve EPSG codes. A nil registry
// keeps the default one.
func WithRegistry(r *srs.Registry) Option {
	return func(a *Accessor) {
		if r == nil {
			r = srs.Default()
		}
		a.registry = r
	}
}

// New returns an Accessor logging notices through the standard logger and
// resolving codes with the default registry unless overridden.
func New(opts ...Option) *Accessor {
	a := &Accessor{
		notifier: LogNotifier{},
		registry: srs.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *Accessor) warn(name string, field string, format string, args ...any) {
	a.notifier.Notify(Notice{
		Accessor: name,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Geometry returns the stored geometry unchanged.
//
// Deprecated: read the attribute from the host directly.
func (a *Accessor) Geometry(h host.Host, field Field) (*geom.Geometry, error) {
	a.warn("Geometry", field.AttName, "use model.%s", field.AttName)
	return h.GeometryAttribute(field.AttName)
}

// OGRGeometry builds a new geometry from the WKT of the stored value, tagged
// with the spatial reference of the given EPSG code.
func (a *Accessor) OGRGeometry(h host.Host, field Field, srid int) (*geom.Geometry, error) {
	g, err := h.GeometryAttribute(field.AttName)
	if err != nil {
		return nil, err
	}

	text, err := g.WKT()
	if err != nil {
		return nil, err
	}

	ref, err := a.registry.FromEPSG(srid)
	if err != nil {
		return nil, err
	}

	return geom.FromWKT(text, ref)
}

// SRID returns srid unchanged.
//
// Deprecated: read the SRID from the geometry field.
func (a *Accessor) SRID(srid int) int {
	a.warn("SRID", "", "use model.geometry_field.srid")
	return srid
}

// SpatialReference builds the spatial reference description of an EPSG code.
func (a *Accessor) SpatialReference(srid int) (*srs.SpatialReference, error) {
	return a.registry.FromEPSG(srid)
}

// WKT returns the well-known text of the stored geometry.
//
// Deprecated: use the WKT of the geometry attribute.
func (a *Accessor) WKT(h host.Host, field Field) (string, error) {
	a.warn("WKT", field.AttName, "use model.%s.centroid.wkt", field.AttName)

	g, err := h.GeometryAttribute(field.AttName)
	if err != nil {
		return "", err
	}

	return g.WKT()
}

// CentroidWKT returns the well-known text of the centroid of the stored
// geometry.
//
// Deprecated: use the WKT of the geometry attribute centroid.
func (a *Accessor) CentroidWKT(h host.Host, field Field) (string, error) {
	a.warn("CentroidWKT", field.AttName, "use model.%s.centroid.wkt", field.AttName)

	g, err := h.GeometryAttribute(field.AttName)
	if err != nil {
		return "", err
	}

	c, err := g.Centroid()
	if err != nil {
		return "", err
	}

	return c.WKT()
}

// Area returns the planar area of the stored geometry in projected units.
//
// Deprecated: use the Area of the geometry attribute.
func (a *Accessor) Area(h host.Host, field Field) (float64, error) {
	a.warn("Area", field.AttName, "use model.%s.area", field.AttName)

	g, err := h.GeometryAttribute(field.AttName)
	if err != nil {
		return 0, err
	}

	return g.Area(), nil
}
