package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tstl-lang/tstl/internal/config"
)

var (
	noColor bool
	logFile string
)

var rootCmd = &cobra.Command{
	Use:   "tstl",
	Short: "tstl - Black-box test runner for command-line programs",
	Long: `Runs .tstl scripts against a program under test: scripted lines are
written to the program's standard input and its standard output is
checked line by line.

Examples:
    tstl run wc                       run the tests in the current directory
                                      on the command wc
    tstl run python3 ./myscript.py    run the tests in the current directory
                                      on the command 'python3 ./myscript.py'`,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Apply viper configuration if flags weren't explicitly set
		// Priority: flags > viper (config file + env vars) > defaults
		if !cmd.Flags().Changed("no-color") {
			noColor = config.GetBool("no-color")
		}
		if !cmd.Flags().Changed("log-file") && logFile == "" {
			logFile = config.GetString("log-file")
		}

		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	// Initialize viper configuration
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append a protocol trace to this file (default: no trace)")
}

func main() {
	// Handle --version flag (in addition to 'version' subcommand).
	// Only the first argument counts: anything later may belong to
	// the program under test ('tstl run cat --version').
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("tstl version %s (%s)\n", Version, Build)
		return
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Run 'tstl --help' for usage.\n")
		os.Exit(1)
	}
}
