// =============================================================================
// CSV Field Rewriter - XLSX Parser Module
// =============================================================================
//
// This module lets a workbook stand in for the input CSV file. A worksheet is
// read row by row with the excelize row iterator and decoded into the same
// record sequence the CSV parser produces, so the rest of the pipeline does
// not care where the records came from.
//
// SHEET LAYOUT:
//   | Column A | Column B | ... |
//   |----------|----------|-----|
//   | name     | email    | ... |   <- first non-blank row is the header
//   | Alice    | a@x.com  | ... |
//   |          |          |     |   <- blank rows are skipped
//   | Bob      | b@x.com  | ... |
//
// Cell values are read as formatted text. Trailing empty cells are padded
// with "", while a row wider than the header is a parse error.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"iter"
	"slices"

	"github.com/ginjaninja78/csv-field-rewriter/internal/config"
	"github.com/ginjaninja78/csv-field-rewriter/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// STREAMING PARSER
// =============================================================================

// StreamingParser reads worksheet rows one at a time.
type StreamingParser struct {
	file       *excelize.File
	rows       *excelize.Rows
	path       string
	sheet      string
	headers    []string
	currentRow *types.Record
	rowNumber  int
	err        error
	done       bool
}

// NewStreamingParser opens a workbook and reads the header row of the
// configured sheet (the first sheet when none is configured).
//
// RETURNS:
//   - A pointer to the StreamingParser.
//   - An *types.IOError if the workbook cannot be opened, or a
//     *types.ParseError if the sheet does not exist or cannot be decoded.
func NewStreamingParser(filePath string, settings config.XLSXSettings) (*StreamingParser, error) {
	file, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, &types.IOError{Op: "open", Path: filePath, Err: err}
	}

	sheet, err := selectSheet(file, settings.Sheet)
	if err != nil {
		file.Close()
		return nil, &types.ParseError{Path: filePath, Err: err}
	}

	rows, err := file.Rows(sheet)
	if err != nil {
		file.Close()
		return nil, &types.ParseError{Path: filePath, Err: fmt.Errorf("failed to read sheet %q: %w", sheet, err)}
	}

	parser := &StreamingParser{
		file:  file,
		rows:  rows,
		path:  filePath,
		sheet: sheet,
	}

	if err := parser.readHeaders(); err != nil {
		parser.Close()
		return nil, err
	}

	return parser, nil
}

// selectSheet returns the requested sheet, or the first one.
func selectSheet(file *excelize.File, name string) (string, error) {
	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("no sheets found in workbook")
	}

	if name == "" {
		return sheets[0], nil
	}

	if !slices.Contains(sheets, name) {
		return "", fmt.Errorf("sheet not found: %s", name)
	}

	return name, nil
}

// readHeaders consumes rows up to and including the first non-blank one.
func (p *StreamingParser) readHeaders() error {
	row, ok, err := p.nextNonBlank()
	if err != nil {
		return err
	}
	if !ok {
		p.done = true
		return nil
	}

	p.headers = row
	return nil
}

// nextNonBlank returns the next row that has at least one non-empty cell.
func (p *StreamingParser) nextNonBlank() ([]string, bool, error) {
	for p.rows.Next() {
		p.rowNumber++

		columns, err := p.rows.Columns()
		if err != nil {
			return nil, false, &types.ParseError{Path: p.path, Line: p.rowNumber, Err: err}
		}

		if !isRowEmpty(columns) {
			return columns, true, nil
		}
	}

	if err := p.rows.Error(); err != nil {
		return nil, false, &types.IOError{Op: "read", Path: p.path, Err: err}
	}

	return nil, false, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// Next advances to the next row. Returns false when there are no more rows
// or an error occurred; check Err afterwards.
func (p *StreamingParser) Next() bool {
	if p.err != nil || p.done {
		return false
	}

	row, ok, err := p.nextNonBlank()
	if err != nil {
		p.err = err
		return false
	}
	if !ok {
		p.done = true
		return false
	}

	if len(row) > len(p.headers) {
		p.err = &types.ParseError{
			Path: p.path,
			Line: p.rowNumber,
			Err:  fmt.Errorf("row has %d cells, header has %d", len(row), len(p.headers)),
		}
		return false
	}

	p.currentRow = types.NewRecord(p.headers, row)
	return true
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

// Sheet returns the name of the sheet being read.
func (p *StreamingParser) Sheet() string {
	return p.sheet
}

// Err returns any error that occurred during parsing.
func (p *StreamingParser) Err() error {
	return p.err
}

// Close releases the row iterator and the workbook.
func (p *StreamingParser) Close() error {
	var rowsErr error
	if p.rows != nil {
		rowsErr = p.rows.Close()
	}
	if err := p.file.Close(); err != nil {
		return &types.IOError{Op: "close", Path: p.path, Err: err}
	}
	if rowsErr != nil {
		return &types.IOError{Op: "close", Path: p.path, Err: rowsErr}
	}
	return nil
}
