// =============================================================================
// CSV Field Rewriter - CSV Parser Module
// =============================================================================
//
// This module is the first stage of the pipeline. It decodes a CSV file into
// a lazy, forward-only sequence of records, naming each positional column
// after the header row.
//
// DIALECT:
//   - Configurable single-character delimiter (comma by default)
//   - First line is the header
//   - Empty lines are skipped
//   - Strict quoting: a bare or unbalanced quote is a parse error
//   - Every data row must have as many fields as the header
//   - Values are kept byte for byte (no trimming, line breaks inside quoted
//     fields are not normalised)
//
// USAGE:
//   parser, err := NewStreamingParser(filePath, settings)
//   if err != nil {
//       return err
//   }
//   defer parser.Close()
//
//   for record, err := range parser.Records() {
//       if err != nil {
//           return err
//       }
//       // Process the record...
//   }
//
// =============================================================================

package csvparser

import (
	"encoding/csv"
	"errors"
	"io"
	"iter"
	"os"

	"github.com/ginjaninja78/csv-field-rewriter/internal/config"
	"github.com/ginjaninja78/csv-field-rewriter/internal/types"
)

// =============================================================================
// STREAMING PARSER
// =============================================================================

// StreamingParser reads records one at a time so memory use does not grow
// with the size of the input file.
type StreamingParser struct {
	file       *os.File
	reader     *recordDecoder
	path       string
	headers    []string
	currentRow *types.Record
	rowNumber  int
	err        error
	done       bool
}

// NewStreamingParser opens a CSV file and reads its header row.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV dialect settings.
//
// RETURNS:
//   - A pointer to the StreamingParser.
//   - An *types.IOError if the file cannot be opened, or a *types.ParseError
//     if the header row cannot be decoded.
func NewStreamingParser(filePath string, settings config.CSVSettings) (*StreamingParser, error) {
	comma, err := settings.Comma()
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, &types.IOError{Op: "open", Path: filePath, Err: err}
	}

	parser := newParser(file, filePath, comma)
	parser.file = file

	if err := parser.readHeaders(); err != nil {
		file.Close()
		return nil, err
	}

	return parser, nil
}

// NewReaderParser builds a parser over an arbitrary reader. The name is used
// in error messages only.
func NewReaderParser(r io.Reader, name string, settings config.CSVSettings) (*StreamingParser, error) {
	comma, err := settings.Comma()
	if err != nil {
		return nil, err
	}

	parser := newParser(r, name, comma)
	if err := parser.readHeaders(); err != nil {
		return nil, err
	}

	return parser, nil
}

func newParser(r io.Reader, name string, comma rune) *StreamingParser {
	return &StreamingParser{
		reader: newRecordDecoder(r, comma),
		path:   name,
	}
}

// readHeaders reads the header row. An empty file has no header and no rows.
func (p *StreamingParser) readHeaders() error {
	row, err := p.reader.Read()
	if err == io.EOF {
		p.done = true
		return nil
	}
	if err != nil {
		return p.wrapError(err)
	}

	p.rowNumber++
	p.headers = make([]string, len(row))
	copy(p.headers, row)

	return nil
}

// Next advances to the next row. Returns false when there are no more rows
// or an error occurred; check Err afterwards.
func (p *StreamingParser) Next() bool {
	if p.err != nil || p.done {
		return false
	}

	row, err := p.reader.Read()
	if err == io.EOF {
		p.done = true
		return false
	}
	if err != nil {
		p.err = p.wrapError(err)
		return false
	}

	p.rowNumber++
	p.currentRow = types.NewRecord(p.headers, row)

	return true
}

// wrapError classifies a reader error. Decoding failures become ParseErrors,
// anything else came from the underlying file and is an IOError.
func (p *StreamingParser) wrapError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &types.ParseError{
			Path:   p.path,
			Line:   csvErr.Line,
			Column: csvErr.Column,
			Err:    csvErr.Err,
		}
	}
	return &types.IOError{Op: "read", Path: p.path, Err: err}
}

// Record returns the current row.
func (p *StreamingParser) Record() *types.Record {
	return p.currentRow
}

// Records returns the remaining rows as a single-use sequence. Iteration
// stops after the first error, which is yielded with a nil record.
func (p *StreamingParser) Records() iter.Seq2[*types.Record, error] {
	return func(yield func(*types.Record, error) bool) {
		for p.Next() {
			if !yield(p.Record(), nil) {
				return
			}
		}
		if err := p.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// Headers returns the parsed headers.
func (p *StreamingParser) Headers() []string {
	return p.headers
}

// RowNumber returns the number of CSV records consumed so far, header included.
func (p *StreamingParser) RowNumber() int {
	return p.rowNumber
}

// Err returns any error that occurred during parsing.
func (p *StreamingParser) Err() error {
	return p.err
}

// Close closes the underlying file, if the parser owns one.
func (p *StreamingParser) Close() error {
	if p.file == nil {
		return nil
	}
	if err := p.file.Close(); err != nil {
		return &types.IOError{Op: "close", Path: p.path, Err: err}
	}
	return nil
}
