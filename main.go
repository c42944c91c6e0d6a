// =============================================================================
// CSV Field Rewriter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the CSV Field Rewriter CLI application.
// It delegates command execution to the Cobra commands in the cmd package.
//
// USAGE:
//   rewriter                - Rewrite random_data.csv into output.csv
//   rewriter process        - Same, with flags for input/output/config
//   rewriter version        - Display the application version
//
// ARCHITECTURE:
//   - cmd/                  : CLI command definitions (Cobra)
//   - internal/csvparser    : stage 1, CSV decoding
//   - internal/xlsxparser   : stage 1, XLSX decoding
//   - internal/converter    : stage 2 (field rewriting) and pipeline wiring
//   - internal/csvwriter    : stage 3, CSV encoding
//   - pkg/utils             : shared file helpers
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/csv-field-rewriter/cmd"
)

func main() {
	cmd.Execute()
}
