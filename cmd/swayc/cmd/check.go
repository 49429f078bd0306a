package cmd

import (
	"fmt"
	"io"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/fuellabs-lite/swayc/internal/compiler"
)

var checkWatch bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "run the compiler pipeline up to codegen without emitting a binary",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkWatch, "watch", false, "re-check on every Enter press in an interactive prompt")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	manifestPath, _ := cmd.Flags().GetString("manifest-path")
	noColor, _ := cmd.Flags().GetBool("no-color")

	if !checkWatch {
		return checkOnce(cmd, manifestPath, noColor)
	}
	return watchLoop(cmd, manifestPath, noColor)
}

func checkOnce(cmd *cobra.Command, manifestPath string, noColor bool) error {
	unit, err := loadUnit(manifestPath, 0)
	if err != nil {
		return userError(err)
	}
	artifact, err := compiler.CompileUnit(unit)
	printDiagnostics(cmd, artifact, noColor)
	if err != nil {
		if artifact != nil && len(artifact.Diagnostics) > 0 {
			return userError(err)
		}
		return internalError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), green("ok"), bold(unit.Name))
	return nil
}

// watchLoop re-runs checkOnce every time the user presses Enter at the
// interactive prompt, grounded on the teacher's own use of
// github.com/peterh/liner for its line-editing REPL loop.
func watchLoop(cmd *cobra.Command, manifestPath string, noColor bool) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Fprintln(cmd.OutOrStdout(), yellow("watching"), manifestPath, "- press Enter to re-check, Ctrl-C to stop")
	for {
		_, err := line.Prompt("swayc check> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				return nil
			}
			return internalError(err)
		}
		if err := checkOnce(cmd, manifestPath, noColor); err != nil {
			if ce, ok := err.(*cliError); ok && ce.code == ExitInternal {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), red("check failed:"), err)
		}
	}
}
