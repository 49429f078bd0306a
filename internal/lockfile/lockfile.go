// Package lockfile reads the project's resolved-dependency lockfile (spec
// §6 "Persistent compiler state"): the exact source each manifest
// dependency resolved to on the last successful build, consulted
// read-only during compilation and re-derived by a separate resolver this
// module does not implement.
package lockfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fuellabs-lite/swayc/internal/errors"
)

// FileName is the lockfile's conventional name alongside a project's
// manifest.
const FileName = "swayc.lock"

// Lockfile is the parsed, read-only lock document.
type Lockfile struct {
	Version  int        `yaml:"version"`
	Packages []Package  `yaml:"package"`

	path string
}

// Package is one resolved dependency: its exact name, the concrete source
// it was fetched from, and the names of its own dependencies. No version is
// recorded per package.
type Package struct {
	Name         string `yaml:"name"`
	Source       string `yaml:"source"`
	Dependencies []string `yaml:"dependencies,omitempty"`
}

// Load reads and parses path, returning a malformed-lockfile report if the
// YAML is invalid or the document carries an unsupported version.
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: reading %s: %w", path, err)
	}
	var lf Lockfile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		r := errors.New(errors.MAN001, fmt.Sprintf("malformed lockfile %s: %v", path, err), nil, nil)
		return nil, fmt.Errorf("%s", r.Message)
	}
	if lf.Version != 0 && lf.Version != 1 {
		r := errors.New(errors.MAN001, fmt.Sprintf("%s: unsupported lockfile version %d", path, lf.Version), nil, nil)
		return nil, fmt.Errorf("%s", r.Message)
	}
	lf.path = path
	return &lf, nil
}

// Find returns the resolved package entry for name, and whether it exists.
func (lf *Lockfile) Find(name string) (Package, bool) {
	for _, p := range lf.Packages {
		if p.Name == name {
			return p, true
		}
	}
	return Package{}, false
}

// Path returns the filesystem path the lockfile was loaded from.
func (lf *Lockfile) Path() string { return lf.path }
