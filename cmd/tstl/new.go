package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exampleScript tests a wc-like counter: one line of input, close
// stdin, expect the line/word/byte counts, expect end of output.
const exampleScript = `# Test for wc
>>> Lorem ipsum dolor sit amet.
!>>
<<<       1       5      28
!<<
`

const defaultScriptName = "basic.tstl"

var newCmd = &cobra.Command{
	Use:     "new [filename]",
	Aliases: []string{"init", "i"},
	Short:   "Create an initial test file",
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filename := defaultScriptName
		if len(args) > 0 {
			filename = args[0]
		}

		if _, err := os.Stat(filename); err == nil {
			fmt.Printf("%s already exists.\n", filename)
			return
		}

		if err := os.WriteFile(filename, []byte(exampleScript), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("An example test was created in %s.\n", filename)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
