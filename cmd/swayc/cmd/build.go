package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fuellabs-lite/swayc/internal/codegen"
	"github.com/fuellabs-lite/swayc/internal/compiler"
	"github.com/fuellabs-lite/swayc/internal/errors"
	"github.com/fuellabs-lite/swayc/internal/lockfile"
	"github.com/fuellabs-lite/swayc/internal/manifest"
	"github.com/fuellabs-lite/swayc/internal/untyped"
)

var (
	buildRelease  bool
	buildPrintAsm bool
	buildPrintIR  bool
	buildPrintABI bool
	buildOutput   string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "compile the package rooted at the manifest into a binary and ABI descriptor",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&buildRelease, "release", false, "accepted for compatibility; has no effect on the build")
	buildCmd.Flags().BoolVar(&buildPrintAsm, "print-asm", false, "print the finalized disassembly listing to stdout")
	buildCmd.Flags().BoolVar(&buildPrintIR, "print-ir", false, "print the lowered IR module to stdout")
	buildCmd.Flags().BoolVar(&buildPrintABI, "print-abi", false, "print the generated ABI JSON document to stdout")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output path for the finalized binary (defaults to <project-name>.bin)")
	rootCmd.AddCommand(buildCmd)
}

// moduleKindFor maps a manifest's declared [project].kind to the untyped
// tree's ModuleKind, the one piece of glue connecting the two otherwise
// independent "manifest" and "untyped tree" vocabularies spec §6 keeps
// separate.
func moduleKindFor(k manifest.ProjectKind) untyped.ModuleKind {
	switch k {
	case manifest.KindContract:
		return untyped.KindContract
	case manifest.KindPredicate:
		return untyped.KindPredicate
	case manifest.KindScript:
		return untyped.KindScript
	default:
		return untyped.KindLibrary
	}
}

// loadUnit resolves the manifest (and its lockfile, if present) rooted at
// manifestPath into a compiler.Unit. Source parsing is an external,
// out-of-scope collaborator (spec.md line 10); until front-end glue wires
// a real lexer/parser/desugaring bridge, the unit's module tree is the
// empty declaration set for the project's kind -- enough to exercise the
// full pipeline (and its diagnostics) against a package's manifest and
// dependency graph without fabricating source semantics this core does
// not own.
func loadUnit(manifestPath string, registers int) (*compiler.Unit, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	lockPath := filepath.Join(filepath.Dir(manifestPath), "Forc.lock")
	if _, statErr := os.Stat(lockPath); statErr == nil {
		if _, err := lockfile.Load(lockPath); err != nil {
			return nil, err
		}
	}

	mod := &untyped.Module{Name: m.Project.Name, Kind: moduleKindFor(m.Project.Kind)}
	return &compiler.Unit{Name: m.Project.Name, Manifest: m, Module: mod, Registers: registers}, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	manifestPath, _ := cmd.Flags().GetString("manifest-path")
	noColor, _ := cmd.Flags().GetBool("no-color")

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

	if buildPrintIR && artifact.Module != nil {
		fmt.Fprintln(cmd.OutOrStdout(), cyan("; lowered IR module"))
		for _, fn := range artifact.Module.Functions {
			fmt.Fprintln(cmd.OutOrStdout(), fn.String())
		}
	}
	if buildPrintAsm {
		fmt.Fprint(cmd.OutOrStdout(), codegen.Print(artifact.Binary))
	}
	if buildPrintABI {
		data, err := json.MarshalIndent(artifact.ABI, "", "  ")
		if err != nil {
			return internalError(fmt.Errorf("swayc: marshaling ABI document: %w", err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}

	out := buildOutput
	if out == "" {
		out = unit.Name + ".bin"
	}
	if err := writeBinary(out, artifact.Binary); err != nil {
		return internalError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), green("compiled"), bold(unit.Name), "->", out)
	return nil
}

func writeBinary(path string, bin *codegen.Binary) error {
	buf := make([]byte, 0, len(bin.Words)*4+len(bin.Data))
	for _, w := range bin.Words {
		buf = append(buf, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))
	}
	buf = append(buf, bin.Data...)
	return os.WriteFile(path, buf, 0o644)
}

func printDiagnostics(cmd *cobra.Command, a *compiler.Artifact, noColor bool) {
	if a == nil || len(a.Diagnostics) == 0 {
		return
	}
	h := errors.NewHandler()
	for _, r := range a.Diagnostics {
		h.Add(r)
	}
	p := errors.NewPrinter()
	p.NoColor = noColor
	p.Print(cmd.ErrOrStderr(), h)
}
