// Package semantic builds the typed tree from the untyped module tree: name
// resolution across nested modules, type checking via the shared type
// engine, constant/configurable evaluation, and method-candidate selection.
// It performs no dead/unreachable-code analysis.
package semantic

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/errors"
	"github.com/fuellabs-lite/swayc/internal/untyped"
)

// normalizeIdent applies NFC normalization so two source spellings of the
// same identifier that differ only by confusable Unicode composition (e.g. a
// precomposed accented letter versus a base letter plus combining mark)
// intern to the same symbol-table entry.
func normalizeIdent(name string) string {
	if norm.NFC.IsNormalString(name) {
		return name
	}
	return norm.NFC.String(name)
}

// Scope is one module's symbol table: every top-level declaration visible
// by its bare name, plus child scopes for submodules and a parent pointer
// for falling back to enclosing modules. Impl declarations are also
// recorded in Impls, consulted by FindMethodForType.
type Scope struct {
	Name       string
	Kind       untyped.ModuleKind
	Parent     *Scope
	Submodules map[string]*Scope

	Symbols map[string]symbolEntry
	Impls   []implEntry
}

type symbolEntry struct {
	Id  declengine.DeclId
	Vis untyped.Visibility
}

type implEntry struct {
	Id declengine.DeclId // KindImpl
}

// NewScope creates an empty root scope for a module named name.
func NewScope(name string, kind untyped.ModuleKind, parent *Scope) *Scope {
	return &Scope{
		Name:       name,
		Kind:       kind,
		Parent:     parent,
		Submodules: map[string]*Scope{},
		Symbols:    map[string]symbolEntry{},
	}
}

// Declare registers a top-level symbol in this scope, reporting NR005 on a
// duplicate identifier.
func (s *Scope) Declare(name string, vis untyped.Visibility, id declengine.DeclId) *errors.Report {
	name = normalizeIdent(name)
	if _, exists := s.Symbols[name]; exists {
		return errors.New(errors.NR005, fmt.Sprintf("duplicate declaration %q in module %q", name, s.Name), nil, nil)
	}
	s.Symbols[name] = symbolEntry{Id: id, Vis: vis}
	return nil
}

// Child returns (creating if necessary) the named submodule scope.
func (s *Scope) Child(name string, kind untyped.ModuleKind) *Scope {
	name = normalizeIdent(name)
	if child, ok := s.Submodules[name]; ok {
		return child
	}
	child := NewScope(name, kind, s)
	s.Submodules[name] = child
	return child
}

// Resolve looks up a call path starting from s: relative paths try each
// prefix as a submodule chain from the current scope outward, falling back
// one level at a time toward the root; absolute paths always start at the
// root. Visibility is enforced against the scope the lookup started from: a
// Private symbol is only visible from within its own module.
func (s *Scope) Resolve(path untyped.CallPath) (declengine.DeclId, *errors.Report) {
	start := s
	root := s
	for root.Parent != nil {
		root = root.Parent
	}
	search := s
	if path.IsAbsolute {
		search = root
	}
	for search != nil {
		if id, vis, ok := search.lookupPath(path.Prefixes, path.Suffix); ok {
			if vis == untyped.Private && search != start && !isAncestorOrSelf(search, start) {
				return declengine.DeclId{}, errors.New(errors.NR003,
					fmt.Sprintf("%q is private to module %q", path.Suffix, search.Name), nil, nil)
			}
			return id, nil
		}
		if path.IsAbsolute {
			break
		}
		search = search.Parent
	}
	return declengine.DeclId{}, errors.New(errors.NR001, fmt.Sprintf("unknown symbol %q", path.String()), nil, nil)
}

func (s *Scope) lookupPath(prefixes []string, suffix string) (declengine.DeclId, untyped.Visibility, bool) {
	cur := s
	for _, p := range prefixes {
		next, ok := cur.Submodules[normalizeIdent(p)]
		if !ok {
			return declengine.DeclId{}, 0, false
		}
		cur = next
	}
	entry, ok := cur.Symbols[normalizeIdent(suffix)]
	if !ok {
		return declengine.DeclId{}, 0, false
	}
	return entry.Id, entry.Vis, true
}

// isAncestorOrSelf reports whether scope is the same as or an ancestor of
// candidate (a submodule can always see its own ancestors' private items it
// already resolved through, but the reverse direction is gated above).
func isAncestorOrSelf(scope, candidate *Scope) bool {
	for c := candidate; c != nil; c = c.Parent {
		if c == scope {
			return true
		}
	}
	return false
}
