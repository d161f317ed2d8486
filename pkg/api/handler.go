package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"geo-accessor/pkg/accessor"
	"geo-accessor/pkg/geom"
	"geo-accessor/pkg/host"
	"geo-accessor/pkg/srs"
)

// Default SRID when a request omits it
const DefaultSRID = 4326

// Attribute name the request geometry is stored under
const geometryField = "geometry"

// APIHandler handles REST API requests over the geometry accessors
type APIHandler struct {
	accessor *accessor.Accessor
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(a *accessor.Accessor) *APIHandler {
	return &APIHandler{
		accessor: a,
	}
}

// GeometryRequest carries a geometry as WKT and its SRID
type GeometryRequest struct {
	WKT  string `json:"wkt"`
	SRID int    `json:"srid"` // Optional, defaults to 4326
}

// DescribeResponse lists the representations derived from a geometry
type DescribeResponse struct {
	WKT      string                `json:"wkt"`
	Centroid string                `json:"centroid"`
	Area     float64               `json:"area"`
	SRID     int                   `json:"srid"`
	SRS      *srs.SpatialReference `json:"srs"`
	GeoJSON  json.RawMessage       `json:"geojson"`
}

// AccessorResponse wraps the value returned by a single accessor
type AccessorResponse struct {
	Accessor string `json:"accessor"`
	Value    any    `json:"value"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DescribeHandler handles POST requests returning every representation of a
// geometry tagged with the requested spatial reference
func (h *APIHandler) DescribeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "only POST method is allowed")
		return
	}

	req, hst, ok := h.readGeometry(w, r)
	if !ok {
		return
	}

	g, err := h.accessor.OGRGeometry(hst, accessor.Field{AttName: geometryField}, req.SRID)
	if err != nil {
		h.sendAccessorError(w, err)
		return
	}

	text, err := g.WKT()
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to serialize wkt: %v", err))
		return
	}

	centroid, err := g.Centroid()
	if err != nil {
		h.sendError(w, http.StatusUnprocessableEntity, fmt.Sprintf("failed to compute centroid: %v", err))
		return
	}

	centroidText, err := centroid.WKT()
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to serialize centroid: %v", err))
		return
	}

	geojsonBytes, err := g.GeoJSON()
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to serialize geojson: %v", err))
		return
	}

	h.sendJSON(w, http.StatusOK, DescribeResponse{
		WKT:      text,
		Centroid: centroidText,
		Area:     g.Area(),
		SRID:     g.SRID(),
		SRS:      g.SpatialReference(),
		GeoJSON:  geojsonBytes,
	})
}

// AccessorHandler handles POST requests invoking one accessor by name. It is
// the compatibility surface for clients still using the deprecated accessors.
func (h *APIHandler) AccessorHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "only POST method is allowed")
		return
	}

	name := r.PathValue("name")

	req, hst, ok := h.readGeometry(w, r)
	if !ok {
		return
	}

	field := accessor.Field{AttName: geometryField}

	var value any
	var err error

	switch name {
	case "geometry":
		var g *geom.Geometry
		if g, err = h.accessor.Geometry(hst, field); err == nil {
			value, err = g.WKT()
		}
	case "ogr":
		var g *geom.Geometry
		if g, err = h.accessor.OGRGeometry(hst, field, req.SRID); err == nil {
			value, err = g.WKT()
		}
	case "srid":
		value = h.accessor.SRID(req.SRID)
	case "srs":
		value, err = h.accessor.SpatialReference(req.SRID)
	case "wkt":
		value, err = h.accessor.WKT(hst, field)
	case "centroid":
		value, err = h.accessor.CentroidWKT(hst, field)
	case "area":
		value, err = h.accessor.Area(hst, field)
	default:
		h.sendError(w, http.StatusNotFound, fmt.Sprintf("unknown accessor: %s", name))
		return
	}

	if err != nil {
		h.sendAccessorError(w, err)
		return
	}

	h.sendJSON(w, http.StatusOK, AccessorResponse{Accessor: name, Value: value})
}

// SpatialReferenceHandler handles GET requests describing an EPSG code
func (h *APIHandler) SpatialReferenceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendError(w, http.StatusMethodNotAllowed, "only GET method is allowed")
		return
	}

	code, err := strconv.Atoi(r.PathValue("code"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, fmt.Sprintf("invalid EPSG code: %s", r.PathValue("code")))
		return
	}

	ref, err := h.accessor.SpatialReference(code)
	if err != nil {
		h.sendError(w, http.StatusNotFound, err.Error())
		return
	}

	h.sendJSON(w, http.StatusOK, ref)
}

// readGeometry decodes the request body into a single attribute host
func (h *APIHandler) readGeometry(w http.ResponseWriter, r *http.Request) (GeometryRequest, host.Host, bool) {
	var req GeometryRequest

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err))
		return req, nil, false
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, &req); err != nil {
		h.sendError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse JSON: %v", err))
		return req, nil, false
	}

	if req.WKT == "" {
		h.sendError(w, http.StatusBadRequest, "missing required wkt")
		return req, nil, false
	}

	if req.SRID == 0 {
		req.SRID = DefaultSRID
	}

	g, err := geom.FromWKT(req.WKT, nil)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return req, nil, false
	}

	return req, host.MapHost{geometryField: g}, true
}

func (h *APIHandler) sendAccessorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, srs.ErrInvalidSpatialReference):
		h.sendError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, host.ErrAttributeNotFound):
		h.sendError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, geom.ErrInvalidWKT):
		h.sendError(w, http.StatusBadRequest, err.Error())
	default:
		h.sendError(w, http.StatusUnprocessableEntity, err.Error())
	}
}

func (h *APIHandler) sendJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// sendError sends an error response as JSON
func (h *APIHandler) sendError(w http.ResponseWriter, statusCode int, message string) {
	h.sendJSON(w, statusCode, ErrorResponse{Error: message})
}
