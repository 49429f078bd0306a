// Package dtree compiles match-expression arms into a decision tree,
// avoiding redundant discriminant tests when several enum variants or
// literal patterns are matched side by side. The exhaustiveness checker
// (internal/semantic) walks the tree looking for a reachable FailNode; the
// match-lowering stage (internal/ir/lower) does not use it and tests arms
// in source order instead.
package dtree

import (
	"fmt"

	"github.com/fuellabs-lite/swayc/internal/untyped"
)

// DecisionTree is the compiled output of a match expression's arms.
type DecisionTree interface {
	isDecisionTree()
	String() string
}

// LeafNode is a successful match: dispatch to the body of MatchArm ArmIndex.
type LeafNode struct {
	ArmIndex int
	Body     untyped.Expr
	Guard    untyped.Expr // nil if the arm carries no guard
}

func (*LeafNode) isDecisionTree() {}
func (l *LeafNode) String() string { return fmt.Sprintf("Leaf(arm=%d)", l.ArmIndex) }

// FailNode means no arm matches; reachable only for a non-exhaustive match
// (errors.SEM005).
type FailNode struct{}

func (*FailNode) isDecisionTree() {}
func (*FailNode) String() string  { return "Fail" }

// SwitchNode tests the value reached by following Path from the scrutinee
// and dispatches on it.
type SwitchNode struct {
	Path    []int
	Cases   map[interface{}]DecisionTree // discriminant (literal value or enum variant name) -> subtree
	Default DecisionTree                 // wildcard/variable fallback, or *FailNode
}

func (*SwitchNode) isDecisionTree() {}
func (s *SwitchNode) String() string {
	return fmt.Sprintf("Switch(path=%v, cases=%d, default=%v)", s.Path, len(s.Cases), s.Default != nil)
}

// MatchArm is one arm of a match expression, expressed over the untyped
// tree (the semantic analyzer re-runs compilation over the typed tree once
// TyExpression exists, using the same algorithm).
type MatchArm struct {
	Pattern untyped.Pattern
	Guard   untyped.Expr
	Body    untyped.Expr
}

// Compiler compiles a set of match arms into a DecisionTree.
type Compiler struct {
	arms []MatchArm
}

// NewCompiler creates a decision-tree compiler for the given arms, tried in
// source order.
func NewCompiler(arms []MatchArm) *Compiler {
	return &Compiler{arms: arms}
}

// Compile builds the decision tree.
func (c *Compiler) Compile() DecisionTree {
	var matrix []matchRow
	for i, arm := range c.arms {
		matrix = append(matrix, matchRow{
			patterns: []untyped.Pattern{arm.Pattern},
			armIndex: i,
			guard:    arm.Guard,
			body:     arm.Body,
		})
	}
	return c.compileMatrix(matrix, []int{})
}

type matchRow struct {
	patterns []untyped.Pattern
	armIndex int
	guard    untyped.Expr
	body     untyped.Expr
}

func (c *Compiler) compileMatrix(matrix []matchRow, path []int) DecisionTree {
	if len(matrix) == 0 {
		return &FailNode{}
	}
	if c.isDefaultRow(matrix[0]) {
		return &LeafNode{ArmIndex: matrix[0].armIndex, Body: matrix[0].body, Guard: matrix[0].guard}
	}

	colIndex := 0
	if colIndex >= len(matrix[0].patterns) {
		return &LeafNode{ArmIndex: matrix[0].armIndex, Body: matrix[0].body, Guard: matrix[0].guard}
	}
	return c.buildSwitch(matrix, path, colIndex)
}

func (c *Compiler) isDefaultRow(row matchRow) bool {
	for _, pat := range row.patterns {
		switch pat.(type) {
		case *untyped.WildcardPattern, *untyped.VarPattern:
			continue
		default:
			return false
		}
	}
	return true
}

func (c *Compiler) buildSwitch(matrix []matchRow, path []int, colIndex int) DecisionTree {
	cases := make(map[interface{}][]matchRow)
	var order []interface{}
	var defaultRows []matchRow

	for _, row := range matrix {
		if colIndex >= len(row.patterns) {
			defaultRows = append(defaultRows, row)
			continue
		}
		switch p := row.patterns[colIndex].(type) {
		case *untyped.LiteralPattern:
			key := literalKey(p)
			if _, ok := cases[key]; !ok {
				order = append(order, key)
			}
			cases[key] = append(cases[key], row)
		case *untyped.EnumPattern:
			key := p.Variant
			if _, ok := cases[key]; !ok {
				order = append(order, key)
			}
			cases[key] = append(cases[key], row)
		case *untyped.StructPattern, *untyped.TuplePattern:
			// Structs and tuples have exactly one shape: they are never a
			// discriminant, only a further decomposition. Route to a single
			// synthetic case so their nested fields still get specialized.
			key := "."
			if _, ok := cases[key]; !ok {
				order = append(order, key)
			}
			cases[key] = append(cases[key], row)
		case *untyped.WildcardPattern, *untyped.VarPattern:
			defaultRows = append(defaultRows, row)
		default:
			defaultRows = append(defaultRows, row)
		}
	}

	if len(cases) == 0 && len(defaultRows) > 0 {
		return &LeafNode{ArmIndex: defaultRows[0].armIndex, Body: defaultRows[0].body, Guard: defaultRows[0].guard}
	}

	switchNode := &SwitchNode{
		Path:  append(append([]int{}, path...), colIndex),
		Cases: make(map[interface{}]DecisionTree),
	}
	for _, key := range order {
		rows := cases[key]
		specialized := c.specializeRows(rows, colIndex)
		switchNode.Cases[key] = c.compileMatrix(specialized, switchNode.Path)
	}
	if len(defaultRows) > 0 {
		specialized := c.specializeRows(defaultRows, colIndex)
		switchNode.Default = c.compileMatrix(specialized, switchNode.Path)
	} else {
		// A switch over both boolean literals covers every value of its
		// column, so it needs no fallback.
		_, hasTrue := cases[true]
		_, hasFalse := cases[false]
		if !(hasTrue && hasFalse && len(cases) == 2) {
			switchNode.Default = &FailNode{}
		}
	}
	return switchNode
}

func literalKey(p *untyped.LiteralPattern) interface{} {
	if p.Value == nil {
		return nil
	}
	return p.Value.Value
}

// specializeRows removes the matched column, expanding any nested
// sub-patterns (an enum variant's payload, a struct's fields, a tuple's
// elements) into fresh columns so the next call can keep discriminating.
func (c *Compiler) specializeRows(rows []matchRow, colIndex int) []matchRow {
	var result []matchRow
	for _, row := range rows {
		newPatterns := make([]untyped.Pattern, 0, len(row.patterns))
		for i, pat := range row.patterns {
			if i != colIndex {
				newPatterns = append(newPatterns, pat)
				continue
			}
			switch p := pat.(type) {
			case *untyped.EnumPattern:
				if p.Sub != nil {
					newPatterns = append(newPatterns, p.Sub)
				}
			case *untyped.TuplePattern:
				newPatterns = append(newPatterns, p.Elems...)
			case *untyped.StructPattern:
				for _, sub := range p.Fields {
					newPatterns = append(newPatterns, sub)
				}
			}
			// LiteralPattern, Wildcard, VarPattern carry nothing further.
		}
		result = append(result, matchRow{
			patterns: newPatterns,
			armIndex: row.armIndex,
			guard:    row.guard,
			body:     row.body,
		})
	}
	return result
}

// CanCompileToTree reports whether a decision tree is worth building: it
// pays for itself once at least two arms carry a testable (literal or enum)
// discriminant rather than a catch-all wildcard/variable.
func CanCompileToTree(arms []MatchArm) bool {
	count := 0
	for _, arm := range arms {
		switch arm.Pattern.(type) {
		case *untyped.LiteralPattern, *untyped.EnumPattern:
			count++
		}
	}
	return count >= 2
}

// IsExhaustive reports whether t contains no reachable FailNode, i.e. every
// input value dispatches to some arm (errors.SEM005 fires when this is
// false).
func IsExhaustive(t DecisionTree) bool {
	switch n := t.(type) {
	case *FailNode:
		return false
	case *LeafNode:
		return true
	case *SwitchNode:
		if n.Default != nil && !IsExhaustive(n.Default) {
			return false
		}
		for _, sub := range n.Cases {
			if !IsExhaustive(sub) {
				return false
			}
		}
		return true
	}
	return false
}
