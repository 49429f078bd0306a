// Package sourceengine maps source file ids to paths. The spans the other
// packages of this core carry (internal/ast.Span) name their file by path
// string and do not reference this engine.
package sourceengine

import "fmt"

// FileId is a dense index into the engine's file table.
type FileId int

// Span is a source range expressed in terms of a FileId rather than a raw
// path. No other package uses it.
type Span struct {
	File       FileId
	StartLine  int
	StartCol   int
	StartByte  int
	EndLine    int
	EndCol     int
	EndByte    int
}

// Engine is the append-only file table. It is process-scoped per
// compilation (spec §3) and safe to share read-only across concurrently
// compiled sibling units once fully populated; writers must hold Insert
// exclusively (spec §5).
type Engine struct {
	paths []string
	index map[string]FileId
}

// New creates an empty source engine.
func New() *Engine {
	return &Engine{index: make(map[string]FileId)}
}

// Insert registers a path, returning its existing id if already known.
func (e *Engine) Insert(path string) FileId {
	if id, ok := e.index[path]; ok {
		return id
	}
	id := FileId(len(e.paths))
	e.paths = append(e.paths, path)
	e.index[path] = id
	return id
}

// Path resolves a FileId back to its path. Panics on an id the engine never
// issued, matching the "dense ids, never freed" invariant shared with the
// type and declaration engines.
func (e *Engine) Path(id FileId) string {
	if int(id) < 0 || int(id) >= len(e.paths) {
		panic(fmt.Sprintf("sourceengine: unknown file id %d", id))
	}
	return e.paths[id]
}

// Render formats a span as `path:line:col-line:col` for diagnostics.
func (e *Engine) Render(s Span) string {
	path := "<unknown>"
	if int(s.File) >= 0 && int(s.File) < len(e.paths) {
		path = e.paths[s.File]
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", path, s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}
