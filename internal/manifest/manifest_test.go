package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "Swayc.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadParsesProjectAndDependencies(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[project]
name = "token"
kind = "contract"
authors = ["alice"]

[dependencies]
std = "0.60.0"
helper = { path = "../helper" }

[contract-dependencies]
registry = { path = "../registry", salt = "0x00" }
`)
	os.MkdirAll(filepath.Join(dir, "..", "helper"), 0755)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "token", m.Project.Name)
	assert.Equal(t, KindContract, m.Project.Kind)
	assert.Equal(t, "0.60.0", m.Dependencies["std"].Version)
	assert.Equal(t, "../helper", m.Dependencies["helper"].Path)
	assert.Equal(t, "0x00", m.ContractDependencies["registry"].Salt)
}

func TestValidateRejectsMissingProjectName(t *testing.T) {
	m := &Manifest{}
	r := m.Validate()
	require.NotNil(t, r)
	assert.Equal(t, "MAN001", r.Code)
}

func TestValidateRejectsDependencyWithNoSource(t *testing.T) {
	m := &Manifest{
		Project:      Project{Name: "x"},
		Dependencies: map[string]Dependency{"orphan": {}},
	}
	r := m.Validate()
	require.NotNil(t, r)
	assert.Equal(t, "MAN002", r.Code)
}

func TestValidateRejectsDependencyWithMultipleSources(t *testing.T) {
	m := &Manifest{
		Project: Project{Name: "x"},
		Dependencies: map[string]Dependency{
			"ambiguous": {DependencyDetails: DependencyDetails{Path: "../a", Git: "https://example.com/a"}},
		},
	}
	r := m.Validate()
	require.NotNil(t, r)
	assert.Equal(t, "MAN002", r.Code)
}

func TestValidateRejectsInvalidSemVer(t *testing.T) {
	m := &Manifest{
		Project: Project{Name: "x"},
		Dependencies: map[string]Dependency{
			"std": {DependencyDetails: DependencyDetails{Version: "not-a-version"}},
		},
	}
	r := m.Validate()
	require.NotNil(t, r)
	assert.Equal(t, "MAN003", r.Code)
}

func TestResolvePathDependencyFallsBackToWorkspaceMember(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{Project: Project{Name: "x"}, dir: dir}
	d := DependencyDetails{Path: "../does-not-exist"}

	resolved, r := m.ResolvePathDependency("sibling", d, map[string]string{"sibling": "/workspace/sibling"})
	require.Nil(t, r)
	assert.Equal(t, "/workspace/sibling", resolved)
}

func TestResolvePathDependencyReportsMAN004WhenNoFallback(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{Project: Project{Name: "x"}, dir: dir}
	d := DependencyDetails{Path: "../does-not-exist"}

	_, r := m.ResolvePathDependency("missing", d, nil)
	require.NotNil(t, r)
	assert.Equal(t, "MAN004", r.Code)
}

func TestAddDependencyInsertsPathDependency(t *testing.T) {
	m := &Manifest{Project: Project{Name: "x"}}
	m.AddDependency("helper", "../helper")

	dep, ok := m.Dependencies["helper"]
	require.True(t, ok)
	assert.Equal(t, "../helper", dep.Path)
}

func TestAddDependencyReplacesExistingEntry(t *testing.T) {
	m := &Manifest{Project: Project{Name: "x"}, Dependencies: map[string]Dependency{
		"helper": {DependencyDetails: DependencyDetails{Version: "1.0.0"}},
	}}
	m.AddDependency("helper", "../helper")

	dep := m.Dependencies["helper"]
	assert.Equal(t, "../helper", dep.Path)
	assert.Equal(t, "", dep.Version)
}

func TestSortedDependencyNamesIsDeterministic(t *testing.T) {
	m := &Manifest{Dependencies: map[string]Dependency{
		"zeta":  {DependencyDetails: DependencyDetails{Version: "1.0.0"}},
		"alpha": {DependencyDetails: DependencyDetails{Version: "1.0.0"}},
	}}
	assert.Equal(t, []string{"alpha", "zeta"}, m.SortedDependencyNames())
}
