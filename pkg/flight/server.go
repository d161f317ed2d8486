package flight

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"geo-accessor/pkg/accessor"
	"geo-accessor/pkg/host"
	"geo-accessor/pkg/srs"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

const (
	OpDescribeGeometry = "describe_geometry"

	DefaultField = "WKT"
	DefaultSRID  = 4326

	DefaultSpillRows = 1000 * 1000
)

// Result columns of describe_geometry
var describeSchema = arrow.NewSchema(
	[]arrow.Field{
		{Name: "WKT", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "CENTROID", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "AREA", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "SRID", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		{Name: "SRS_NAME", Type: arrow.BinaryTypes.String, Nullable: true},
	},
	nil,
)

// Action is the JSON metadata sent with the first message of an exchange
type Action struct {
	Operation string `json:"operation"`
	Field     string `json:"field"`
	SRID      int    `json:"srid"`
}

type GeometryFlightServer struct {
	flight.BaseFlightServer
	accessor  *accessor.Accessor
	spillRows int64
	dataDir   string
}

func NewGeometryFlightServer(a *accessor.Accessor, spillRows int64, dataDir string) *GeometryFlightServer {
	if spillRows <= 0 {
		spillRows = DefaultSpillRows
	}

	return &GeometryFlightServer{
		accessor:  a,
		spillRows: spillRows,
		dataDir:   dataDir,
	}
}

func (s *GeometryFlightServer) DoExchange(stream flight.FlightService_DoExchangeServer) error {
	desc, err := stream.Recv()
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}

	action := Action{Field: DefaultField, SRID: DefaultSRID}

	// Operation from AppMetadata, falling back to the descriptor command
	var raw []byte
	if len(desc.AppMetadata) > 0 {
		raw = desc.AppMetadata
	} else if desc.FlightDescriptor != nil && len(desc.FlightDescriptor.Cmd) > 0 {
		raw = desc.FlightDescriptor.Cmd
	}

	if err := json.Unmarshal(raw, &action); err != nil || action.Operation == "" {
		// treat the metadata as the raw operation name
		action.Operation = string(raw)
	}

	log.Printf("Operation: %s, field: %s, SRID: %d", action.Operation, action.Field, action.SRID)

	switch action.Operation {
	case OpDescribeGeometry:
		return s.handleDescribeGeometry(stream, action)
	default:
		return fmt.Errorf("unsupported operation: %s", action.Operation)
	}
}

func (s *GeometryFlightServer) handleDescribeGeometry(stream flight.FlightService_DoExchangeServer, action Action) error {
	ctx := stream.Context()

	ref, err := s.accessor.SpatialReference(action.SRID)
	if err != nil {
		return err
	}

	reader, err := flight.NewRecordReader(stream)
	if err != nil {
		return err
	}
	defer reader.Release()

	var records []arrow.RecordBatch
	defer func() {
		for _, r := range records {
			r.Release()
		}
	}()

	var spill *host.Spill
	defer func() {
		if spill != nil {
			spill.Release()
		}
	}()

	var totalRows int64
	for reader.Next() {
		rec := reader.RecordBatch()
		rec.Retain()
		records = append(records, rec)

		totalRows += rec.NumRows()

		// Spill to parquet once the received rows pass the threshold
		if totalRows >= s.spillRows {
			if spill == nil {
				if spill, err = host.NewSpill(s.dataDir); err != nil {
					return fmt.Errorf("failed to create spill: %w", err)
				}
				log.Printf("Received %d rows, spilling to %s", totalRows, spill.Path())
			}

			if err := spillRecords(spill, records); err != nil {
				return err
			}
			records = nil
		}
	}

	if err := reader.Err(); err != nil {
		return err
	}

	if spill != nil {
		if err := spillRecords(spill, records); err != nil {
			return err
		}
		records = nil

		if err := spill.Close(); err != nil {
			return fmt.Errorf("failed to close spill: %w", err)
		}

		if records, err = host.Load(ctx, spill.Path()); err != nil {
			return err
		}
	}

	if len(records) == 0 {
		return fmt.Errorf("no records received")
	}

	if len(records[0].Schema().FieldIndices(action.Field)) == 0 {
		return fmt.Errorf("field %s not found in records", action.Field)
	}

	out, err := s.describe(host.NewRecordHosts(records, ref), action.Field)
	if err != nil {
		return err
	}
	defer out.Release()

	writer := flight.NewRecordWriter(stream, ipc.WithSchema(describeSchema))
	defer writer.Close()

	return writer.Write(out)
}

// describe builds one output row per host; null geometries give null rows
func (s *GeometryFlightServer) describe(hosts []*host.RecordHost, field string) (arrow.RecordBatch, error) {
	builder := array.NewRecordBuilder(memory.NewGoAllocator(), describeSchema)
	defer builder.Release()

	wktB := builder.Field(0).(*array.StringBuilder)
	centroidB := builder.Field(1).(*array.StringBuilder)
	areaB := builder.Field(2).(*array.Float64Builder)
	sridB := builder.Field(3).(*array.Int32Builder)
	nameB := builder.Field(4).(*array.StringBuilder)

	for i, h := range hosts {
		g, err := h.GeometryAttribute(field)
		if errors.Is(err, host.ErrAttributeNotFound) {
			for _, b := range builder.Fields() {
				b.AppendNull()
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		// parsed once, read back through the accessors
		row := host.MapHost{field: g}
		f := accessor.Field{AttName: field}

		text, err := s.accessor.WKT(row, f)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		centroidText, err := s.accessor.CentroidWKT(row, f)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		area, err := s.accessor.Area(row, f)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		wktB.Append(text)
		centroidB.Append(centroidText)
		areaB.Append(area)
		sridB.Append(int32(g.SRID()))
		nameB.Append(srsName(g.SpatialReference()))
	}

	return builder.NewRecordBatch(), nil
}

// spillRecords writes then releases recs; on error the caller still owns them
func spillRecords(spill *host.Spill, recs []arrow.RecordBatch) error {
	for _, r := range recs {
		if err := spill.Write(r); err != nil {
			return err
		}
	}
	for _, r := range recs {
		r.Release()
	}
	return nil
}

func srsName(ref *srs.SpatialReference) string {
	if ref == nil {
		return ""
	}
	return ref.Name
}
