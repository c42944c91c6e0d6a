// =============================================================================
// CSV Field Rewriter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Run without a
// subcommand, the root command processes the configured input file, which by
// default means random_data.csv -> output.csv.
//
// COBRA CLI STRUCTURE:
//   rootCmd (rewriter)          same as 'rewriter process'
//   ├── processCmd (rewriter process)
//   └── versionCmd (rewriter version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/csv-field-rewriter/internal/config"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// inputFile overrides the configured input path.
var inputFile string

// outputFile overrides the configured output path.
var outputFile string

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rewriter",
	Short: "CSV Field Rewriter - replace identifiers and emails in a CSV file",
	Long: `CSV Field Rewriter streams a CSV file, replaces the "id" field of every
record with a new random UUID and the "email" field with a synthetic address,
and writes the result to a new CSV file. Fields that do not exist yet are
appended as new columns. All other values are copied unchanged.

Example Usage:
  rewriter                               # random_data.csv -> output.csv
  rewriter -i people.csv -o masked.csv   # explicit paths
  rewriter --config ./rewriter.yaml      # rewrite rules from a config file`,

	// Errors are printed once by Execute.
	SilenceErrors: true,
	SilenceUsage:  true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd)
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command and exits with status 1 on error.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// --config flag: optional YAML file. A missing file at the default path
	// is not an error.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.PersistentFlags().StringVarP(
		&inputFile,
		"input",
		"i",
		"",
		"Input file (default from config, else random_data.csv)",
	)

	rootCmd.PersistentFlags().StringVarP(
		&outputFile,
		"output",
		"o",
		"",
		"Output file (default from config, else output.csv)",
	)
}
