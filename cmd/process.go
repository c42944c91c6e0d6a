// =============================================================================
// CSV Field Rewriter - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs the pipeline once and
// reports how long it took.
//
// COMMAND USAGE:
//   rewriter process [flags]
//
// OUTPUT:
//   stdout: myFunction took 0.042 seconds to execute.
//   stderr: log lines, and "Error: ..." on failure (exit status 1)
//
// =============================================================================

package cmd

import (
	"fmt"
	"strconv"

	"github.com/ginjaninja78/csv-field-rewriter/internal/config"
	"github.com/ginjaninja78/csv-field-rewriter/internal/converter"
	"github.com/ginjaninja78/csv-field-rewriter/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Rewrite the id and email fields of a CSV file",
	Long: `The process command reads the input file record by record, rewrites the
configured fields, and writes every record to the output file in input order.

On success the elapsed wall-clock time is printed to standard output.

On error:
  - The error is printed to standard error and the exit status is 1
  - A missing input file never creates an output file
  - An output file that was already being written is left as-is`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess loads the configuration, runs the converter, and prints the timing line.
func runProcess(cmd *cobra.Command) error {
	cfg, found, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if verbose {
		level = zerolog.LevelDebugValue
	}
	log := logging.New(cmd.ErrOrStderr(), level)

	if found {
		log.Debug().Str("config", cfgFile).Msg("using config file")
	}

	log.Debug().
		Str("input", cfg.InputFile).
		Str("output", cfg.OutputFile).
		Int("rewrites", len(cfg.Rewrites)).
		Msg("starting")

	result := converter.New(cfg, converter.WithLogger(log)).Run()
	if !result.Success {
		return result.Error
	}

	fmt.Fprintf(cmd.OutOrStdout(), "myFunction took %s seconds to execute.\n",
		strconv.FormatFloat(result.Elapsed.Seconds(), 'f', -1, 64))

	return nil
}

// loadConfig reads the config file and applies flag overrides. found reports
// whether a config file was read.
func loadConfig(cmd *cobra.Command) (*config.Config, bool, error) {
	explicit := cmd.Flags().Changed("config")

	cfg, found, err := config.Load(cfgFile, explicit)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load config: %w", err)
	}

	if inputFile != "" {
		cfg.InputFile = inputFile
	}
	if outputFile != "" {
		cfg.OutputFile = outputFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, false, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, found, nil
}
