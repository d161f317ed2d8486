package host

import (
	"errors"
	"fmt"

	"geo-accessor/pkg/geom"
)

// ErrAttributeNotFound is returned when a host has no attribute with the
// requested name.
var ErrAttributeNotFound = errors.New("attribute not found")

// Host is any object holding named geometry attributes.
type Host interface {
	GeometryAttribute(name string) (*geom.Geometry, error)
}

// AttributeError names the attribute that failed to resolve.
type AttributeError struct {
	Name string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%v: %s", ErrAttributeNotFound, e.Name)
}

func (e *AttributeError) Is(target error) bool {
	return target == ErrAttributeNotFound
}

// MapHost keeps geometry attributes in memory.
type MapHost map[string]*geom.Geometry

func (h MapHost) GeometryAttribute(name string) (*geom.Geometry, error) {
	g, ok := h[name]
	if !ok || g == nil {
		return nil, &AttributeError{Name: name}
	}
	return g, nil
}
