package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tstl-lang/tstl/internal/config"
	"github.com/tstl-lang/tstl/internal/executor"
	"github.com/tstl-lang/tstl/internal/script"
)

var (
	runDir     string
	runPattern string
)

var runCmd = &cobra.Command{
	Use:     "run <command> [args...]",
	Aliases: []string{"r"},
	Short:   "Run the test scripts against a command",
	Long: `Discovers test scripts in the test directory (non-recursive) and runs
each one against a freshly launched instance of <command> [args...].
Prints per-test pass/fail with diagnostics and a final summary.`,
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("Invalid number of parameters provided to subcommand 'run'.")
			fmt.Println("USAGE: tstl run <command to test>")
			os.Exit(1)
		}

		// Pre-flight: the command must resolve before any test runs
		if _, err := exec.LookPath(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: '%s' is not executable. Exiting.\n", args[0])
			os.Exit(1)
		}

		if runDir == "" {
			runDir = config.GetString("dir")
		}
		if runPattern == "" {
			runPattern = config.GetString("pattern")
		}

		paths, err := discoverScripts(runDir, runPattern)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		trace := func(string, ...interface{}) {}
		var logC io.Closer
		if logFile != "" {
			logF, logTrace := setupRunLogger(logFile)
			logC = logF
			trace = logTrace
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		passed := 0
		for _, path := range paths {
			fmt.Printf("\nRunning test %s ... ", path)
			trace("=== %s", path)

			result := runScript(path, args, trace)
			if result.Passed {
				passed++
				fmt.Println(green("passed."))
			} else {
				fmt.Println(red("FAILED."))
				for _, line := range result.Diagnostics {
					fmt.Println("\t" + line)
				}
			}
			fmt.Println()
		}

		fmt.Printf("[%d/%d] tests passed.\n", passed, len(paths))

		// Close explicitly: os.Exit below would skip a defer
		if logC != nil {
			logC.Close()
		}

		if passed < len(paths) {
			os.Exit(1)
		}
	},
}

func init() {
	runCmd.Flags().StringVarP(&runDir, "dir", "d", "", "Directory to discover test scripts in (default: current directory)")
	runCmd.Flags().StringVarP(&runPattern, "pattern", "p", "", "Glob pattern for test scripts (default: *.tstl)")
	// Everything after the program under test belongs to it, flags included
	runCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(runCmd)
}

// discoverScripts lists matching script files in dir, non-recursively,
// skipping directories that happen to match the pattern.
func discoverScripts(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad script pattern %q: %w", pattern, err)
	}

	var paths []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		paths = append(paths, m)
	}
	return paths, nil
}

// runScript runs one script file against command with a fresh process.
// Every failure mode, including an unreadable or malformed script,
// becomes a failed result so the rest of the batch still runs.
func runScript(path string, command []string, trace func(string, ...interface{})) executor.Result {
	src, err := script.Open(path)
	if err != nil {
		return executor.Result{Diagnostics: []string{err.Error()}}
	}

	runner := &executor.Runner{Command: command, Trace: trace}
	result, err := runner.Run(src)
	if err != nil {
		return executor.Result{Diagnostics: []string{err.Error()}}
	}
	return result
}
