package host

import (
	"fmt"

	"geo-accessor/pkg/geom"
	"geo-accessor/pkg/srs"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Column holding a per-row EPSG code. Rows without it use the default CRS.
const SRIDColumn = "SRID"

// RecordHost is a single row of an Arrow record batch. Every string column is
// an attribute holding well-known text.
type RecordHost struct {
	record     arrow.RecordBatch
	row        int
	defaultCRS *srs.SpatialReference
	registry   *srs.Registry
}

// NewRecordHosts returns one host per row across all record batches. The
// batches must outlive the returned hosts.
func NewRecordHosts(recs []arrow.RecordBatch, crs *srs.SpatialReference) []*RecordHost {
	var out []*RecordHost

	for _, rec := range recs {
		for i := range int(rec.NumRows()) {
			out = append(out, &RecordHost{
				record:     rec,
				row:        i,
				defaultCRS: crs,
				registry:   srs.Default(),
			})
		}
	}

	return out
}

// Row index inside the record batch
func (h *RecordHost) Row() int {
	return h.row
}

func (h *RecordHost) GeometryAttribute(name string) (*geom.Geometry, error) {
	indices := h.record.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return nil, &AttributeError{Name: name}
	}

	text, err := getStringValue(h.record.Column(indices[0]), h.row)
	if err != nil {
		return nil, fmt.Errorf("column %s row %d: %w", name, h.row, err)
	}
	if text == nil {
		return nil, &AttributeError{Name: name}
	}

	ref, err := h.spatialReference()
	if err != nil {
		return nil, err
	}

	return geom.FromWKT(*text, ref)
}

func (h *RecordHost) spatialReference() (*srs.SpatialReference, error) {
	indices := h.record.Schema().FieldIndices(SRIDColumn)
	if len(indices) == 0 {
		return h.defaultCRS, nil
	}

	code, err := getIntValue(h.record.Column(indices[0]), h.row)
	if err != nil {
		return nil, fmt.Errorf("column %s row %d: %w", SRIDColumn, h.row, err)
	}
	if code == nil {
		return h.defaultCRS, nil
	}

	return h.registry.FromEPSG(int(*code))
}

// getStringValue extracts text from an Arrow column, nil for null values
func getStringValue(col arrow.Array, idx int) (*string, error) {
	if col.IsNull(idx) {
		return nil, nil
	}

	var s string
	switch c := col.(type) {
	case *array.String:
		s = c.Value(idx)
	case *array.LargeString:
		s = c.Value(idx)
	case *array.StringView:
		s = c.Value(idx)
	case *array.Binary:
		s = string(c.Value(idx))
	case *array.LargeBinary:
		s = string(c.Value(idx))
	default:
		return nil, fmt.Errorf("unsupported column type for text: %s", col.DataType())
	}

	return &s, nil
}

// getIntValue extracts an integer from an Arrow column, nil for null values
func getIntValue(col arrow.Array, idx int) (*int64, error) {
	if col.IsNull(idx) {
		return nil, nil
	}

	var v int64
	switch c := col.(type) {
	case *array.Int64:
		v = c.Value(idx)
	case *array.Int32:
		v = int64(c.Value(idx))
	case *array.Int16:
		v = int64(c.Value(idx))
	case *array.Uint32:
		v = int64(c.Value(idx))
	case *array.Uint64:
		v = int64(c.Value(idx))
	default:
		return nil, fmt.Errorf("unsupported column type for integer: %s", col.DataType())
	}

	return &v, nil
}
