// =============================================================================
// CSV Field Rewriter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser
//   - xlsxparser
//   - converter
//   - csvwriter
//
// =============================================================================

package types

// =============================================================================
// RECORD TYPE
// =============================================================================

// Record represents a single data row as an ordered mapping of field name to
// value. Field order is the order in which fields were first set, so the
// header derived from a record is stable for the whole run.
type Record struct {
	// fields holds the field names in insertion order.
	fields []string

	// values maps a field name to its current value.
	values map[string]string
}

// NewRecord builds a record from a header and a positional row.
// Missing trailing values are stored as empty strings. If a header name
// repeats, the later value wins and the field keeps its first position.
func NewRecord(header []string, row []string) *Record {
	r := &Record{
		fields: make([]string, 0, len(header)),
		values: make(map[string]string, len(header)),
	}

	for i, name := range header {
		value := ""
		if i < len(row) {
			value = row[i]
		}
		r.Set(name, value)
	}

	return r
}

// Get returns the value of a field, or "" if the field does not exist.
func (r *Record) Get(name string) string {
	return r.values[name]
}

// Has reports whether the field exists.
func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Set overwrites the field if it exists, otherwise appends it.
func (r *Record) Set(name, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[name]; !ok {
		r.fields = append(r.fields, name)
	}
	r.values[name] = value
}

// Fields returns a copy of the field names in order.
func (r *Record) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// Values returns the field values in field order.
func (r *Record) Values() []string {
	return r.ValuesFor(r.fields)
}

// ValuesFor returns the values for the given header, in header order.
// Fields absent from the record yield "".
func (r *Record) ValuesFor(header []string) []string {
	out := make([]string, len(header))
	for i, name := range header {
		out[i] = r.values[name]
	}
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.fields)
}
