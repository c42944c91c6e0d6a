// =============================================================================
// CSV Field Rewriter - Converter Module
// =============================================================================
//
// This module wires the three pipeline stages together for a single file:
//
//   source (csvparser / xlsxparser) -> Transformer -> csvwriter
//
// Records are pulled through the stages one at a time, so the writer's pace
// governs how fast the source is read and memory use stays flat for large
// inputs. Output order is input order.
//
// FAILURE MODEL:
//   The first IOError or ParseError ends the run. Nothing is retried and the
//   output file keeps whatever was written before the failure. The input is
//   opened before the output, so a missing input never creates an output file.
//
// =============================================================================

package converter

import (
	"fmt"
	"iter"
	"time"

	"github.com/ginjaninja78/csv-field-rewriter/internal/config"
	"github.com/ginjaninja78/csv-field-rewriter/internal/csvparser"
	"github.com/ginjaninja78/csv-field-rewriter/internal/csvwriter"
	"github.com/ginjaninja78/csv-field-rewriter/internal/types"
	"github.com/ginjaninja78/csv-field-rewriter/internal/xlsxparser"
	"github.com/ginjaninja78/csv-field-rewriter/pkg/utils"
	"github.com/rs/zerolog"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// InputFile is the path to the file that was read.
	InputFile string

	// OutputFile is the path to the file that was written.
	OutputFile string

	// SourceKind is the decoder used for the input.
	SourceKind utils.SourceKind

	// Header is the header line of the output, empty if nothing was written.
	Header []string

	// Records is the number of data rows written.
	Records int

	// BytesWritten is the size of the output produced.
	BytesWritten int64

	// Elapsed is the wall-clock time from start to the output being flushed.
	Elapsed time.Duration

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error
}

// =============================================================================
// SOURCE
// =============================================================================

// Source is the first pipeline stage: a forward-only record sequence.
type Source interface {
	Headers() []string
	Records() iter.Seq2[*types.Record, error]
	Close() error
}

// OpenSource opens the decoder matching the file extension.
func OpenSource(path string, cfg *config.Config) (Source, utils.SourceKind, error) {
	kind := utils.DetectSourceKind(path)

	switch kind {
	case utils.SourceXLSX:
		p, err := xlsxparser.NewStreamingParser(path, cfg.XLSXSettings)
		if err != nil {
			return nil, kind, err
		}
		return p, kind, nil
	default:
		p, err := csvparser.NewStreamingParser(path, cfg.CSVSettings)
		if err != nil {
			return nil, kind, err
		}
		return p, kind, nil
	}
}

// =============================================================================
// CONVERTER
// =============================================================================

// Converter runs the pipeline for one input/output pair.
type Converter struct {
	cfg  *config.Config
	log  zerolog.Logger
	seed uint64
}

// Option customizes a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Converter) {
		c.log = log
	}
}

// WithSeed fixes the faker seed. Zero, the default, seeds randomly.
// UUIDs are always random.
func WithSeed(seed uint64) Option {
	return func(c *Converter) {
		c.seed = seed
	}
}

// New creates a new converter.
func New(cfg *config.Config, opts ...Option) *Converter {
	c := &Converter{
		cfg: cfg,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes the pipeline.
//
// PIPELINE:
//   1. Resolve the rewrite rules
//   2. Open the input and read its header
//   3. Create the output file
//   4. Stream records: parse -> transform -> write
//   5. Flush and close the output
func (c *Converter) Run() Result {
	start := time.Now()

	result := Result{
		InputFile:  c.cfg.InputFile,
		OutputFile: c.cfg.OutputFile,
	}

	fail := func(err error) Result {
		result.Success = false
		result.Error = err
		result.Elapsed = time.Since(start)
		// The caller prints err itself.
		c.log.Debug().Err(err).Str("input", result.InputFile).Msg("processing failed")
		return result
	}

	if utils.SamePath(c.cfg.InputFile, c.cfg.OutputFile) {
		return fail(fmt.Errorf("input and output refer to the same file: %s", c.cfg.OutputFile))
	}

	// =========================================================================
	// STEP 1: RESOLVE REWRITE RULES
	// =========================================================================

	transformer, err := NewTransformer(c.cfg.Rewrites, c.seed)
	if err != nil {
		return fail(err)
	}

	// =========================================================================
	// STEP 2: OPEN THE SOURCE
	// =========================================================================

	source, kind, err := OpenSource(c.cfg.InputFile, c.cfg)
	result.SourceKind = kind
	if err != nil {
		return fail(err)
	}
	defer source.Close()

	event := c.log.Debug().
		Str("input", c.cfg.InputFile).
		Str("kind", string(kind))
	if size, err := utils.GetFileSize(c.cfg.InputFile); err == nil {
		event = event.Int64("size", size)
	}
	event.Strs("header", source.Headers()).Msg("source opened")

	// =========================================================================
	// STEP 3: CREATE THE OUTPUT
	// =========================================================================

	writer, err := csvwriter.New(c.cfg.OutputFile, c.cfg.CSVSettings)
	if err != nil {
		return fail(err)
	}

	if len(source.Headers()) > 0 {
		writer.SetFallbackHeader(transformer.WidenHeader(source.Headers()))
	}

	// =========================================================================
	// STEP 4: STREAM
	// =========================================================================

	streamErr := writer.WriteAll(transformer.Apply(source.Records()))

	// =========================================================================
	// STEP 5: FLUSH AND CLOSE
	// =========================================================================

	closeErr := writer.Close()

	result.Header = writer.Header()
	result.Records = writer.Records()
	result.BytesWritten = writer.BytesWritten()

	if streamErr != nil {
		return fail(streamErr)
	}
	if closeErr != nil {
		return fail(closeErr)
	}

	end := time.Now()
	result.Elapsed = end.Sub(start)
	result.Success = true

	c.log.Info().
		Str("input", result.InputFile).
		Str("output", result.OutputFile).
		Int("records", result.Records).
		Int64("bytes", result.BytesWritten).
		Dur("elapsed", result.Elapsed).
		Msg("processing complete")

	return result
}
