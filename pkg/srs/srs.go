package srs

import (
	"errors"
	"fmt"
)

// ErrInvalidSpatialReference is returned when an identifier does not resolve
// to a known spatial reference.
var ErrInvalidSpatialReference = errors.New("invalid spatial reference")

// Authority of every code resolved by this package.
const EPSG = "EPSG"

type Kind string

const (
	GEOGRAPHIC Kind = "geographic"
	PROJECTED  Kind = "projected"
)

// SpatialReference describes a coordinate system identified by an EPSG code.
type SpatialReference struct {
	Authority string `json:"authority" yaml:"-"`
	Code      int    `json:"code" yaml:"code"`
	Name      string `json:"name" yaml:"name"`
	Kind      Kind   `json:"kind" yaml:"kind"`
	Units     string `json:"units" yaml:"units"`
	Datum     string `json:"datum" yaml:"datum"`
	Proj4     string `json:"proj4" yaml:"proj4"`
}

// Get the spatial reference identifier
func (s *SpatialReference) SRID() int {
	return s.Code
}

// Authority string form, e.g. EPSG:4326
func (s *SpatialReference) String() string {
	return fmt.Sprintf("%s:%d", s.Authority, s.Code)
}

func (s *SpatialReference) Geographic() bool {
	return s.Kind == GEOGRAPHIC
}

func (s *SpatialReference) Projected() bool {
	return s.Kind == PROJECTED
}

// InvalidReferenceError reports the identifier that failed to resolve.
type InvalidReferenceError struct {
	Input string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidSpatialReference, e.Input)
}

func (e *InvalidReferenceError) Is(target error) bool {
	return target == ErrInvalidSpatialReference
}
