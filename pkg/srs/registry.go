package srs

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed epsg.yaml
var epsgYAML []byte

type registryFile struct {
	References []SpatialReference `yaml:"references"`
}

// Registry resolves EPSG codes into spatial reference descriptions. It is
// read-only once built and safe for concurrent use.
type Registry struct {
	refs map[int]SpatialReference
}

var defaultRegistry = mustLoadDefault()

func mustLoadDefault() *Registry {
	r, err := NewRegistry(epsgYAML)
	if err != nil {
		panic(fmt.Sprintf("srs: embedded registry: %v", err))
	}
	return r
}

// Default returns the registry built from the embedded EPSG table.
func Default() *Registry {
	return defaultRegistry
}

// NewRegistry builds a registry from a YAML document of references plus the
// generated UTM zones.
func NewRegistry(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal registry: %w", err)
	}

	r := &Registry{refs: make(map[int]SpatialReference)}
	r.addUTMZones()

	for _, ref := range f.References {
		if ref.Code <= 0 {
			return nil, fmt.Errorf("reference %q has invalid code %d", ref.Name, ref.Code)
		}
		if ref.Kind != GEOGRAPHIC && ref.Kind != PROJECTED {
			return nil, fmt.Errorf("reference %d has unknown kind %q", ref.Code, ref.Kind)
		}
		ref.Authority = EPSG
		r.refs[ref.Code] = ref
	}

	return r, nil
}

// WGS 84 UTM north (326xx) and south (327xx), NAD83 UTM north (269xx)
func (r *Registry) addUTMZones() {
	for zone := 1; zone <= 60; zone++ {
		r.refs[32600+zone] = SpatialReference{
			Authority: EPSG,
			Code:      32600 + zone,
			Name:      fmt.Sprintf("WGS 84 / UTM zone %dN", zone),
			Kind:      PROJECTED,
			Units:     "metre",
			Datum:     "WGS_1984",
			Proj4:     fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", zone),
		}
		r.refs[32700+zone] = SpatialReference{
			Authority: EPSG,
			Code:      32700 + zone,
			Name:      fmt.Sprintf("WGS 84 / UTM zone %dS", zone),
			Kind:      PROJECTED,
			Units:     "metre",
			Datum:     "WGS_1984",
			Proj4:     fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", zone),
		}
	}

	for zone := 1; zone <= 23; zone++ {
		r.refs[26900+zone] = SpatialReference{
			Authority: EPSG,
			Code:      26900 + zone,
			Name:      fmt.Sprintf("NAD83 / UTM zone %dN", zone),
			Kind:      PROJECTED,
			Units:     "metre",
			Datum:     "North_American_Datum_1983",
			Proj4:     fmt.Sprintf("+proj=utm +zone=%d +datum=NAD83 +units=m +no_defs", zone),
		}
	}
}

// FromEPSG builds the spatial reference for an EPSG code. The returned value
// is a copy owned by the caller.
func (r *Registry) FromEPSG(code int) (*SpatialReference, error) {
	ref, ok := r.refs[code]
	if !ok {
		return nil, &InvalidReferenceError{Input: fmt.Sprintf("%s:%d", EPSG, code)}
	}
	return &ref, nil
}

// Parse resolves an authority string such as "EPSG:4326" (case insensitive).
func (r *Registry) Parse(s string) (*SpatialReference, error) {
	authority, code, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || !strings.EqualFold(authority, EPSG) {
		return nil, &InvalidReferenceError{Input: s}
	}

	n, err := strconv.Atoi(code)
	if err != nil {
		return nil, &InvalidReferenceError{Input: s}
	}

	return r.FromEPSG(n)
}

// Len returns the number of known references.
func (r *Registry) Len() int {
	return len(r.refs)
}

// FromEPSG resolves a code against the default registry.
func FromEPSG(code int) (*SpatialReference, error) {
	return defaultRegistry.FromEPSG(code)
}

// Parse resolves an authority string against the default registry.
func Parse(s string) (*SpatialReference, error) {
	return defaultRegistry.Parse(s)
}
