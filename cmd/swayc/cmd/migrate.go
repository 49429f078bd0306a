package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/fuellabs-lite/swayc/internal/manifest"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "apply manifest migrations",
}

var migrateAddCmd = &cobra.Command{
	Use:   "add <name>[@version] [--path <dir>]",
	Short: "add a dependency to the manifest (spec §4.10 Scenario E)",
	Args:  cobra.ExactArgs(1),
	RunE:  runMigrateAdd,
}

var migrateAddPath string

func init() {
	migrateAddCmd.Flags().StringVar(&migrateAddPath, "path", "", "path to a sibling workspace member providing the dependency")
	migrateCmd.AddCommand(migrateAddCmd)
	rootCmd.AddCommand(migrateCmd)
}

// runMigrateAdd implements `swayc migrate add dep@1.0.0`: a path-sourced
// manifest mutation (spec §4.10 Scenario E, grounded on
// forc-pkg/src/manifest/dep_modifier.rs's "add a path dependency" operation
// via internal/manifest.AddDependency). Without --path, the sibling member
// directory is assumed to share the dependency's name one level up from
// the manifest's own directory, the same layout forc workspaces use for
// path-sourced members.
func runMigrateAdd(cmd *cobra.Command, args []string) error {
	manifestPath, _ := cmd.Flags().GetString("manifest-path")

	name := args[0]
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return userError(err)
	}

	path := migrateAddPath
	statPath := path
	if path == "" {
		path = "../" + name
		statPath = filepath.Join(filepath.Dir(manifestPath), path)
	}
	if _, err := os.Stat(statPath); err != nil {
		return userError(fmt.Errorf("dependency %q source not specified", name))
	}

	m.AddDependency(name, path)

	f, err := os.Create(manifestPath)
	if err != nil {
		return internalError(fmt.Errorf("swayc: writing %s: %w", manifestPath, err))
	}
	defer f.Close()
	enc := toml.NewEncoder(f)
	if err := enc.Encode(m); err != nil {
		return internalError(fmt.Errorf("swayc: encoding %s: %w", manifestPath, err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), green("added"), bold(name), "->", path)
	return nil
}
