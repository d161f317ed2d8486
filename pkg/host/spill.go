package host

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// Spill accumulates record batches into a parquet file inside its own
// temporary directory.
type Spill struct {
	tempDir  string
	filePath string
	file     *os.File
	writer   *pqarrow.FileWriter
	rows     int64
}

// NewSpill creates the temporary directory under dir; an empty dir uses the
// system default.
func NewSpill(dir string) (*Spill, error) {
	tempDir, err := os.MkdirTemp(dir, "geo_accessor_spill_*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}

	return &Spill{
		tempDir:  tempDir,
		filePath: filepath.Join(tempDir, "hosts.parquet"),
	}, nil
}

// Write appends a record batch. The schema of the first batch fixes the file
// schema.
func (s *Spill) Write(rec arrow.RecordBatch) error {
	if s.writer == nil {
		f, err := os.Create(s.filePath)
		if err != nil {
			return fmt.Errorf("failed to create parquet file: %w", err)
		}

		writer, err := pqarrow.NewFileWriter(
			rec.Schema(),
			f,
			parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy)),
			pqarrow.DefaultWriterProps(),
		)
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to create parquet writer: %w", err)
		}

		s.file = f
		s.writer = writer
	}

	if err := s.writer.WriteBuffered(rec); err != nil {
		return fmt.Errorf("failed to write record batch: %w", err)
	}
	s.rows += rec.NumRows()

	return nil
}

// Rows written so far
func (s *Spill) Rows() int64 {
	return s.rows
}

// Path of the parquet file
func (s *Spill) Path() string {
	return s.filePath
}

// Close flushes the parquet footer. Load requires a closed spill.
func (s *Spill) Close() error {
	if s.writer == nil {
		return nil
	}

	err := s.writer.Close()
	// the writer may already have closed the sink
	s.file.Close()
	s.writer = nil
	s.file = nil

	return err
}

// Release removes the temporary directory.
func (s *Spill) Release() {
	s.Close()
	os.RemoveAll(s.tempDir)
}

// Load reads every record batch of a parquet file. The caller releases them.
func Load(ctx context.Context, path string) ([]arrow.RecordBatch, error) {
	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file %s: %w", path, err)
	}
	defer pf.Close()

	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{
		BatchSize: 10000,
	}, memory.NewGoAllocator())
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader for %s: %w", path, err)
	}

	recordReader, err := reader.GetRecordReader(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get record reader for %s: %w", path, err)
	}
	defer recordReader.Release()

	var recs []arrow.RecordBatch
	for recordReader.Next() {
		rec := recordReader.RecordBatch()
		rec.Retain()
		recs = append(recs, rec)
	}

	if err := recordReader.Err(); err != nil {
		releaseAll(recs)
		return nil, err
	}

	return recs, nil
}
