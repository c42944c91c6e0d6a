// =============================================================================
// CSV Field Rewriter - CSV Writer Module
// =============================================================================
//
// This module is the last stage of the pipeline. It encodes records back into
// CSV text: one header line, then one line per record, in arrival order.
//
// OUTPUT STRUCTURE:
//   name,age,id,email                          <- fields of the first record
//   Alice,30,6f1c...-...,kayla@example.net     <- values in header order
//   "Smith, Bob",25,0b9e...-...,ron@example.org
//
// QUOTING:
//   Fields containing the delimiter, a quote, or a line break are quoted and
//   internal quotes are doubled (encoding/csv rules).
//
// =============================================================================

package csvwriter

import (
	"encoding/csv"
	"io"
	"iter"
	"os"

	"github.com/ginjaninja78/csv-field-rewriter/internal/config"
	"github.com/ginjaninja78/csv-field-rewriter/internal/types"
)

// =============================================================================
// WRITER
// =============================================================================

// Writer writes records to a CSV file.
type Writer struct {
	file    *os.File
	counter *countingWriter
	csv     *csv.Writer
	path    string

	// header is fixed by the first record written.
	header []string

	// fallback is written on Close when no record arrived.
	fallback []string

	records int
}

// countingWriter tracks how many bytes reached the file.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// New creates or truncates the output file.
//
// PARAMETERS:
//   - filePath: The output path.
//   - settings: The CSV dialect settings.
//
// RETURNS:
//   - A pointer to the Writer.
//   - An *types.IOError if the file cannot be created.
func New(filePath string, settings config.CSVSettings) (*Writer, error) {
	comma, err := settings.Comma()
	if err != nil {
		return nil, err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, &types.IOError{Op: "create", Path: filePath, Err: err}
	}

	counter := &countingWriter{w: file}
	w := csv.NewWriter(counter)
	w.Comma = comma

	return &Writer{
		file:    file,
		counter: counter,
		csv:     w,
		path:    filePath,
	}, nil
}

// SetFallbackHeader sets the header written when the run produces no records.
func (w *Writer) SetFallbackHeader(header []string) {
	w.fallback = header
}

// Write encodes one record. The first record fixes the header.
func (w *Writer) Write(rec *types.Record) error {
	if w.header == nil {
		w.header = rec.Fields()
		if err := w.csv.Write(w.header); err != nil {
			return w.wrapError(err)
		}
	}

	if err := w.csv.Write(rec.ValuesFor(w.header)); err != nil {
		return w.wrapError(err)
	}

	w.records++
	return nil
}

// WriteAll drains a record sequence, stopping at the first error from
// either the sequence or the file.
func (w *Writer) WriteAll(records iter.Seq2[*types.Record, error]) error {
	for rec, err := range records {
		if err != nil {
			return err
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Flush pushes buffered rows to the file.
func (w *Writer) Flush() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return w.wrapError(err)
	}
	return nil
}

// Close writes the fallback header if needed, flushes, and closes the file.
// The file is closed even when flushing fails.
func (w *Writer) Close() error {
	var flushErr error

	if w.header == nil && len(w.fallback) > 0 {
		w.header = w.fallback
		if err := w.csv.Write(w.header); err != nil {
			flushErr = w.wrapError(err)
		}
	}

	if err := w.Flush(); err != nil && flushErr == nil {
		flushErr = err
	}

	if err := w.file.Close(); err != nil && flushErr == nil {
		flushErr = &types.IOError{Op: "close", Path: w.path, Err: err}
	}

	return flushErr
}

func (w *Writer) wrapError(err error) error {
	return &types.IOError{Op: "write", Path: w.path, Err: err}
}

// Header returns the header written so far, nil before the first record.
func (w *Writer) Header() []string {
	return w.header
}

// Records returns the number of data rows written.
func (w *Writer) Records() int {
	return w.records
}

// BytesWritten returns the number of bytes that reached the file.
func (w *Writer) BytesWritten() int64 {
	return w.counter.n
}
