// Package manifest parses and validates a package manifest: the
// project/dependency/contract-dependency declaration every compilation
// unit is rooted at (spec §6 "Manifest").
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/fuellabs-lite/swayc/internal/errors"
)

// ProjectKind mirrors untyped.ModuleKind: a manifest's [project] section
// names which of the four program kinds this package root builds.
type ProjectKind string

const (
	KindContract  ProjectKind = "contract"
	KindLibrary   ProjectKind = "library"
	KindPredicate ProjectKind = "predicate"
	KindScript    ProjectKind = "script"
)

// Project is the manifest's required [project] table.
type Project struct {
	Name         string   `toml:"name"`
	Authors      []string `toml:"authors,omitempty"`
	Entry        string   `toml:"entry,omitempty"`
	Kind         ProjectKind `toml:"kind,omitempty"`
	Organization string   `toml:"organization,omitempty"`
	License      string   `toml:"license,omitempty"`
	CoreVersion  string   `toml:"core-version,omitempty"`
}

// DependencyDetails is the long form of a dependency entry.
type DependencyDetails struct {
	Version string `toml:"version,omitempty"`
	Path    string `toml:"path,omitempty"`
	Git     string `toml:"git,omitempty"`
	Branch  string `toml:"branch,omitempty"`
	Tag     string `toml:"tag,omitempty"`
	Rev     string `toml:"rev,omitempty"`
	IPFS    string `toml:"ipfs,omitempty"`
	Package string `toml:"package,omitempty"`
}

// Dependency accepts either the short TOML form (`dep = "1.2.3"`) or the
// long table form (`dep = { git = "...", branch = "..." }`); it implements
// toml.Unmarshaler to collapse both into one shape, following the same
// sum-type-over-TOML pattern forc's own manifest parser uses for
// `Dependency`. DependencyDetails is embedded anonymously (rather than
// named) so github.com/BurntSushi/toml's encoder promotes its fields
// straight into the dependency's own table on the way back out, keeping a
// load-AddDependency-reencode round trip symmetric with UnmarshalTOML's
// flat key lookups.
type Dependency struct {
	DependencyDetails
}

// UnmarshalTOML implements github.com/BurntSushi/toml's Unmarshaler.
func (d *Dependency) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		d.DependencyDetails = DependencyDetails{Version: v}
		return nil
	case map[string]interface{}:
		d.DependencyDetails = DependencyDetails{
			Version: stringField(v, "version"),
			Path:    stringField(v, "path"),
			Git:     stringField(v, "git"),
			Branch:  stringField(v, "branch"),
			Tag:     stringField(v, "tag"),
			Rev:     stringField(v, "rev"),
			IPFS:    stringField(v, "ipfs"),
			Package: stringField(v, "package"),
		}
		return nil
	default:
		return fmt.Errorf("manifest: dependency entries must be a version string or a table, got %T", data)
	}
}

func stringField(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// ContractDependency is a [contract-dependencies] entry: a normal
// dependency plus the deployment salt used to derive its contract id.
type ContractDependency struct {
	Dependency
	Salt string `toml:"salt,omitempty"`
}

// UnmarshalTOML merges the embedded Dependency's flexible shape with the
// contract-only `salt` key.
func (c *ContractDependency) UnmarshalTOML(data interface{}) error {
	m, ok := data.(map[string]interface{})
	if !ok {
		return fmt.Errorf("manifest: contract-dependencies entries must be a table, got %T", data)
	}
	if err := c.Dependency.UnmarshalTOML(m); err != nil {
		return err
	}
	c.Salt = stringField(m, "salt")
	return nil
}

// Manifest is the parsed package manifest (the spec's Forc.toml-equivalent
// root file).
type Manifest struct {
	Project              Project                        `toml:"project"`
	Dependencies         map[string]Dependency           `toml:"dependencies,omitempty"`
	ContractDependencies map[string]ContractDependency   `toml:"contract-dependencies,omitempty"`

	dir string // directory the manifest file was loaded from; used to resolve path deps
}

// Load reads, parses, and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: reading %s: %w", path, err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, malformedError(path, err)
	}
	m.dir = filepath.Dir(path)
	if r := m.Validate(); r != nil {
		return nil, fmt.Errorf("%s", r.Message)
	}
	return &m, nil
}

func malformedError(path string, cause error) error {
	r := errors.New(errors.MAN001, fmt.Sprintf("malformed manifest %s: %v", path, cause), nil, nil)
	return fmt.Errorf("%s", r.Message)
}

// Validate checks the dependency and project sections for internal
// consistency, returning the first *errors.Report found (nil if the
// manifest is well formed).
func (m *Manifest) Validate() *errors.Report {
	if m.Project.Name == "" {
		return errors.New(errors.MAN001, "manifest is missing [project].name", nil, nil)
	}
	for name, dep := range m.Dependencies {
		if r := validateDependencySource(name, dep.DependencyDetails); r != nil {
			return r
		}
	}
	for name, dep := range m.ContractDependencies {
		if r := validateDependencySource(name, dep.DependencyDetails); r != nil {
			return r
		}
	}
	return nil
}

func validateDependencySource(name string, d DependencyDetails) *errors.Report {
	sources := 0
	if d.Path != "" {
		sources++
	}
	if d.Git != "" {
		sources++
	}
	if d.IPFS != "" {
		sources++
	}
	if d.Version != "" && d.Path == "" && d.Git == "" && d.IPFS == "" {
		sources++ // a bare registry version counts as one source
	}
	if sources == 0 {
		return errors.New(errors.MAN002, fmt.Sprintf("dependency %q specifies no source (path, git, ipfs, or version)", name), nil,
			map[string]any{"dependency": name})
	}
	if sources > 1 {
		return errors.New(errors.MAN002, fmt.Sprintf("dependency %q specifies more than one source", name), nil,
			map[string]any{"dependency": name})
	}
	if d.Version != "" {
		if _, err := semver.NewVersion(d.Version); err != nil {
			return errors.New(errors.MAN003, fmt.Sprintf("dependency %q has an invalid semantic version %q: %v", name, d.Version, err), nil,
				map[string]any{"dependency": name, "version": d.Version})
		}
	}
	return nil
}

// ResolvePathDependency resolves a path-sourced dependency relative to the
// manifest's own directory, falling back to a sibling workspace member with
// the matching package name when the literal path does not exist — the
// same fallback forc-pkg's workspace resolution performs for members that
// reference each other by name rather than by relative path.
func (m *Manifest) ResolvePathDependency(name string, d DependencyDetails, siblingMembers map[string]string) (string, *errors.Report) {
	if d.Path == "" {
		return "", errors.New(errors.MAN002, fmt.Sprintf("dependency %q is not path-sourced", name), nil, nil)
	}
	full := filepath.Join(m.dir, d.Path)
	if _, err := os.Stat(full); err == nil {
		return full, nil
	}
	if sib, ok := siblingMembers[name]; ok {
		return sib, nil
	}
	return "", errors.New(errors.MAN004, fmt.Sprintf("path dependency %q not found at %s and no workspace member named %q", name, full, name), nil,
		map[string]any{"dependency": name, "path": full})
}

// AddDependency inserts or replaces a path-sourced dependency entry in
// memory (spec §4.10 "dep_modifier-style manifest mutation", grounded on
// `forc-pkg/src/manifest/dep_modifier.rs`'s "add a path dependency pointing
// at a sibling workspace member" operation). It does not write the manifest
// back to disk; callers that want the change persisted re-marshal m
// themselves.
func (m *Manifest) AddDependency(name, path string) {
	if m.Dependencies == nil {
		m.Dependencies = map[string]Dependency{}
	}
	m.Dependencies[name] = Dependency{DependencyDetails: DependencyDetails{Path: path}}
}

// SortedDependencyNames returns the [dependencies] keys in deterministic
// order, used wherever dependency resolution order must be stable across
// runs (build-plan construction, lockfile generation).
func (m *Manifest) SortedDependencyNames() []string {
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
