package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"unicode/utf8"
)

// =============================================================================
// RECORD DECODER
// =============================================================================
// recordDecoder splits CSV input into records without rewriting any byte of a
// field value. Line breaks inside quoted fields ("\r\n" included) are kept as
// they appear in the file; only the record terminator ("\n" or "\r\n") and
// the quoting itself are removed.
//
// Decoding failures are reported as *csv.ParseError with the encoding/csv
// sentinels (ErrBareQuote, ErrQuote, ErrFieldCount).

type recordDecoder struct {
	r     *bufio.Reader
	comma []byte

	// line is the number of line breaks consumed so far.
	line int

	// col is the byte offset within the current line.
	col int

	// fields is the width fixed by the first record, 0 before it.
	fields int

	buf []byte
}

func newRecordDecoder(r io.Reader, comma rune) *recordDecoder {
	return &recordDecoder{
		r:     bufio.NewReader(r),
		comma: utf8.AppendRune(nil, comma),
	}
}

// Read returns the next record, skipping empty lines. It returns io.EOF
// when the input is exhausted.
func (d *recordDecoder) Read() ([]string, error) {
	if err := d.skipEmptyLines(); err != nil {
		return nil, err
	}

	startLine := d.line + 1

	var record []string
	for {
		field, end, err := d.readField()
		if err != nil {
			return nil, err
		}
		record = append(record, field)
		if end {
			break
		}
	}

	if d.fields == 0 {
		d.fields = len(record)
	} else if len(record) != d.fields {
		return record, &csv.ParseError{StartLine: startLine, Line: startLine, Column: 1, Err: csv.ErrFieldCount}
	}

	return record, nil
}

func (d *recordDecoder) skipEmptyLines() error {
	for {
		b, err := d.r.Peek(1)
		if err != nil {
			return err
		}

		switch {
		case b[0] == '\n':
			d.r.Discard(1)
			d.newLine()
		case b[0] == '\r':
			crlf, err := d.r.Peek(2)
			if err != nil || crlf[1] != '\n' {
				return nil
			}
			d.r.Discard(2)
			d.newLine()
		default:
			return nil
		}
	}
}

// readField reads one field. end reports whether it closed the record.
func (d *recordDecoder) readField() (string, bool, error) {
	d.buf = d.buf[:0]

	b, err := d.readByte()
	if err == io.EOF {
		return "", true, nil
	}
	if err != nil {
		return "", false, err
	}
	if b == '"' {
		return d.readQuoted()
	}
	d.r.UnreadByte()
	d.col--

	for {
		b, err := d.readByte()
		if err == io.EOF {
			return string(d.buf), true, nil
		}
		if err != nil {
			return "", false, err
		}

		switch {
		case d.atComma(b):
			return string(d.buf), false, nil
		case b == '\n':
			d.newLine()
			return string(d.buf), true, nil
		case b == '\r' && d.consumeLF():
			return string(d.buf), true, nil
		case b == '"':
			return "", false, d.parseError(csv.ErrBareQuote)
		default:
			d.buf = append(d.buf, b)
		}
	}
}

// readQuoted reads the rest of a field whose opening quote was consumed.
func (d *recordDecoder) readQuoted() (string, bool, error) {
	for {
		b, err := d.readByte()
		if err == io.EOF {
			return "", false, d.parseError(csv.ErrQuote)
		}
		if err != nil {
			return "", false, err
		}

		if b != '"' {
			d.buf = append(d.buf, b)
			if b == '\n' {
				d.newLine()
			}
			continue
		}

		next, err := d.readByte()
		if err == io.EOF {
			return string(d.buf), true, nil
		}
		if err != nil {
			return "", false, err
		}

		switch {
		case next == '"':
			d.buf = append(d.buf, '"')
		case d.atComma(next):
			return string(d.buf), false, nil
		case next == '\n':
			d.newLine()
			return string(d.buf), true, nil
		case next == '\r' && d.consumeLF():
			return string(d.buf), true, nil
		default:
			return "", false, d.parseError(csv.ErrQuote)
		}
	}
}

func (d *recordDecoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err == nil {
		d.col++
	}
	return b, err
}

// atComma reports whether b starts the delimiter, consuming the rest of a
// multi-byte delimiter when it does.
func (d *recordDecoder) atComma(b byte) bool {
	if b != d.comma[0] {
		return false
	}
	if len(d.comma) == 1 {
		return true
	}

	rest, err := d.r.Peek(len(d.comma) - 1)
	if err != nil || !bytes.Equal(rest, d.comma[1:]) {
		return false
	}
	d.r.Discard(len(rest))
	d.col += len(rest)
	return true
}

// consumeLF consumes a '\n' following a '\r' that was just read.
func (d *recordDecoder) consumeLF() bool {
	b, err := d.r.Peek(1)
	if err != nil || b[0] != '\n' {
		return false
	}
	d.r.Discard(1)
	d.newLine()
	return true
}

func (d *recordDecoder) newLine() {
	d.line++
	d.col = 0
}

func (d *recordDecoder) parseError(err error) error {
	return &csv.ParseError{StartLine: d.line + 1, Line: d.line + 1, Column: d.col, Err: err}
}
