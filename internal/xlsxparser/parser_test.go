package xlsxparser

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/csv-field-rewriter/internal/config"
	"github.com/ginjaninja78/csv-field-rewriter/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves rows into Sheet1 of a new workbook. A nil row is left blank.
func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func collect(t *testing.T, p *StreamingParser) ([][]string, error) {
	t.Helper()
	var rows [][]string
	for rec, err := range p.Records() {
		if err != nil {
			return rows, err
		}
		rows = append(rows, rec.Values())
	}
	return rows, nil
}

func TestNewStreamingParser(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"name", "age"},
		{"Alice", 30},
		nil,
		{"Bob", 25},
	})

	p, err := NewStreamingParser(path, config.XLSXSettings{})
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, "Sheet1", p.Sheet())
	assert.Equal(t, []string{"name", "age"}, p.Headers())

	rows, err := collect(t, p)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Alice", "30"}, {"Bob", "25"}}, rows)
}

func TestStreamingParser_PadsShortRows(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"a", "b", "c"},
		{"1"},
	})

	p, err := NewStreamingParser(path, config.XLSXSettings{})
	require.NoError(t, err)
	defer p.Close()

	rows, err := collect(t, p)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "", ""}}, rows)
}

func TestStreamingParser_WideRow(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"a"},
		{"1", "2"},
	})

	p, err := NewStreamingParser(path, config.XLSXSettings{})
	require.NoError(t, err)
	defer p.Close()

	_, err = collect(t, p)
	var parseErr *types.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 2, parseErr.Line)
}

func TestNewStreamingParser_UnknownSheet(t *testing.T) {
	path := writeWorkbook(t, [][]any{{"a"}})

	_, err := NewStreamingParser(path, config.XLSXSettings{Sheet: "Nope"})

	var parseErr *types.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestNewStreamingParser_MissingFile(t *testing.T) {
	_, err := NewStreamingParser(filepath.Join(t.TempDir(), "missing.xlsx"), config.XLSXSettings{})

	var ioErr *types.IOError
	assert.True(t, errors.As(err, &ioErr))
}
