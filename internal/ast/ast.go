// Package ast holds the source-position vocabulary every other package
// builds declarations, types, and diagnostics on top of: a Pos/Span pair
// threaded through internal/untyped, internal/typedtree, internal/declengine,
// internal/typeengine, internal/vasm, and internal/errors so a byte range in
// the original source can always be recovered from a declaration, a type, or
// a reported diagnostic, no matter how many lowering passes removed it from
// the parser that produced it.
//
// The parser that constructs spans from source text, and the concrete
// grammar it recognizes, are external collaborators this core does not
// implement (spec.md's front-end boundary): this package only carries the
// shared coordinate system those collaborators and this core's own passes
// both reference.
package ast

import "fmt"

// Pos is one byte-offset-addressed location in a named source file.
type Pos struct {
	Line   int
	Column int
	File   string
	Offset int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a half-open range between two positions, carried on every
// declaration, typed expression, and diagnostic report so errors and
// tooling can always point back at the source text that produced them.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	if s.Start.File == "" {
		return "<unknown>"
	}
	return s.Start.String() + "-" + fmt.Sprintf("%d:%d", s.End.Line, s.End.Column)
}
