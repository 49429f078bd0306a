// Package cmd implements the swayc command-line front end: the thin,
// explicitly out-of-scope-per-spec "CLI/front-end glue" (spec.md line 10)
// that wires the in-scope core packages (manifest, lockfile, compiler,
// codegen, untyped) into a cobra CLI, grounded on
// CWBudde-go-dws/cmd/dwscript/cmd's root/subcommand structure and the
// teacher's own fatih/color diagnostic styling.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Exit codes per spec §6: 0 on success, 1 on user-visible errors
// (malformed manifest, semantic errors, failed build), 2 on internal
// compiler errors (a stage returning an error the user cannot act on).
const (
	ExitOK       = 0
	ExitUserErr  = 1
	ExitInternal = 2
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "swayc",
	Short: "swayc compiles and inspects Sway-style smart contract packages",
	Long: bold("swayc") + ` is the command-line front end for the register-based
blockchain VM smart-contract compiler core: semantic analysis, SSA IR
construction and optimization, register allocation, codegen, and ABI
descriptor generation.`,
	Version:      version,
	SilenceUsage: true,
}

// version is overwritten by -ldflags in release builds, following the same
// package-level var convention the teacher's cmd/ailang/main.go uses.
var version = "dev"

func init() {
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored diagnostic output")
	rootCmd.PersistentFlags().StringP("manifest-path", "m", "Forc.toml", "path to the package manifest")
}

// Execute runs the CLI and returns the process exit code (spec §6's
// 0/1/2 contract) instead of calling os.Exit itself, so main can keep
// process-lifetime concerns out of this package.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if ce, ok := err.(*cliError); ok {
			return ce.code
		}
		fmt.Fprintln(os.Stderr, red("error:"), err)
		return ExitUserErr
	}
	return ExitOK
}

// cliError lets a RunE handler report a specific exit code through
// cobra's normal error-return plumbing rather than calling os.Exit
// directly, which would skip cobra's own usage/error printing.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }

func userError(err error) error { return &cliError{code: ExitUserErr, err: err} }

func internalError(err error) error { return &cliError{code: ExitInternal, err: err} }
