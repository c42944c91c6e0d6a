// =============================================================================
// CSV Field Rewriter - Transformation Engine
// =============================================================================
//
// This module is the middle stage of the pipeline. It replaces configured
// fields of every record with freshly generated values and passes the record
// on immediately: one in, one out, no buffering and no reordering.
//
// FIELD SEMANTICS:
//   Each rule is an upsert. If the field exists its value is overwritten in
//   place; otherwise the field is appended after the existing ones. Rules are
//   applied in configuration order, so the resulting field order is the same
//   for every record of a run.
//
// GENERATORS:
//   - "uuid"       : random (version 4) UUID, unique across the run
//   - "email"      : plausible but fake email address
//   - "first_name" : fake given name
//   - "last_name"  : fake family name
//   - "phone"      : fake phone number
//   - "city"       : fake city name
//
// =============================================================================

package converter

import (
	"fmt"
	"iter"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/ginjaninja78/csv-field-rewriter/internal/config"
	"github.com/ginjaninja78/csv-field-rewriter/internal/types"
	"github.com/google/uuid"
)

// =============================================================================
// GENERATORS
// =============================================================================

// GeneratorFunc produces a new value for a field.
type GeneratorFunc func() string

// newGenerators returns the generator table backed by a single faker.
func newGenerators(faker *gofakeit.Faker) map[string]GeneratorFunc {
	return map[string]GeneratorFunc{
		config.GeneratorUUID:      uuid.NewString,
		config.GeneratorEmail:     faker.Email,
		config.GeneratorFirstName: faker.FirstName,
		config.GeneratorLastName:  faker.LastName,
		config.GeneratorPhone:     faker.Phone,
		config.GeneratorCity:      faker.City,
	}
}

// =============================================================================
// TRANSFORMER
// =============================================================================

// fieldRewrite is a resolved rule.
type fieldRewrite struct {
	field    string
	generate GeneratorFunc
}

// Transformer rewrites configured fields of each record.
type Transformer struct {
	rewrites []fieldRewrite
}

// NewTransformer resolves the rules against the generator table.
// Seed 0 seeds the faker randomly.
func NewTransformer(rules []config.FieldRule, seed uint64) (*Transformer, error) {
	generators := newGenerators(gofakeit.New(seed))

	rewrites := make([]fieldRewrite, 0, len(rules))
	for _, rule := range rules {
		generate, ok := generators[rule.Generator]
		if !ok {
			return nil, fmt.Errorf("unknown generator %q for field %q", rule.Generator, rule.Field)
		}
		rewrites = append(rewrites, fieldRewrite{field: rule.Field, generate: generate})
	}

	return &Transformer{rewrites: rewrites}, nil
}

// Transform upserts every rewritten field of rec and returns it.
func (t *Transformer) Transform(rec *types.Record) *types.Record {
	for _, rw := range t.rewrites {
		rec.Set(rw.field, rw.generate())
	}
	return rec
}

// Apply lazily transforms a record sequence. Errors pass through untouched
// and end the sequence.
func (t *Transformer) Apply(records iter.Seq2[*types.Record, error]) iter.Seq2[*types.Record, error] {
	return func(yield func(*types.Record, error) bool) {
		for rec, err := range records {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(t.Transform(rec), nil) {
				return
			}
		}
	}
}

// Fields returns the rewritten field names in rule order.
func (t *Transformer) Fields() []string {
	fields := make([]string, len(t.rewrites))
	for i, rw := range t.rewrites {
		fields[i] = rw.field
	}
	return fields
}

// WidenHeader returns header followed by any rewritten field it lacks,
// which is the field order every transformed record ends up with.
func (t *Transformer) WidenHeader(header []string) []string {
	rec := types.NewRecord(header, nil)
	for _, field := range t.Fields() {
		rec.Set(field, "")
	}
	return rec.Fields()
}
