package dtree

import (
	"testing"

	"github.com/fuellabs-lite/swayc/internal/untyped"
)

func litBool(b bool) *untyped.Literal {
	kind := untyped.LitBool
	return &untyped.Literal{Kind: kind, Value: b}
}

func TestDecisionTree_SimpleBoolMatch(t *testing.T) {
	arms := []MatchArm{
		{Pattern: &untyped.LiteralPattern{Value: litBool(true)}, Body: &untyped.VariableRef{Name: "one"}},
		{Pattern: &untyped.LiteralPattern{Value: litBool(false)}, Body: &untyped.VariableRef{Name: "zero"}},
	}

	tree := NewCompiler(arms).Compile()

	switchNode, ok := tree.(*SwitchNode)
	if !ok {
		t.Fatalf("expected SwitchNode, got %T", tree)
	}
	if len(switchNode.Cases) != 2 {
		t.Errorf("expected 2 cases, got %d", len(switchNode.Cases))
	}
	if _, ok := switchNode.Cases[true]; !ok {
		t.Error("missing case for true")
	}
	if _, ok := switchNode.Cases[false]; !ok {
		t.Error("missing case for false")
	}
	if !IsExhaustive(tree) {
		t.Error("true/false covers every bool value")
	}
}

func TestDecisionTree_WithWildcard(t *testing.T) {
	arms := []MatchArm{
		{Pattern: &untyped.LiteralPattern{Value: litBool(true)}, Body: &untyped.VariableRef{Name: "one"}},
		{Pattern: &untyped.WildcardPattern{}, Body: &untyped.VariableRef{Name: "zero"}},
	}

	tree := NewCompiler(arms).Compile()
	switchNode, ok := tree.(*SwitchNode)
	if !ok {
		t.Fatalf("expected SwitchNode, got %T", tree)
	}
	if switchNode.Default == nil {
		t.Error("expected default branch for wildcard")
	}
	if !IsExhaustive(tree) {
		t.Error("a trailing wildcard makes the match exhaustive")
	}
}

func TestDecisionTree_AllWildcards(t *testing.T) {
	arms := []MatchArm{
		{Pattern: &untyped.WildcardPattern{}, Body: &untyped.VariableRef{Name: "always"}},
	}
	tree := NewCompiler(arms).Compile()
	leaf, ok := tree.(*LeafNode)
	if !ok {
		t.Fatalf("expected LeafNode for wildcard-only match, got %T", tree)
	}
	if leaf.ArmIndex != 0 {
		t.Errorf("expected arm index 0, got %d", leaf.ArmIndex)
	}
}

func TestDecisionTree_NonExhaustiveEnum(t *testing.T) {
	arms := []MatchArm{
		{Pattern: &untyped.EnumPattern{Variant: "Some"}, Body: &untyped.VariableRef{Name: "a"}},
	}
	tree := NewCompiler(arms).Compile()
	if IsExhaustive(tree) {
		t.Error("missing the None arm should make this non-exhaustive")
	}
}

func TestDecisionTree_EnumWithSubPatternExpands(t *testing.T) {
	arms := []MatchArm{
		{
			Pattern: &untyped.EnumPattern{Variant: "Some", Sub: &untyped.VarPattern{Name: "x"}},
			Body:    &untyped.VariableRef{Name: "x"},
		},
		{Pattern: &untyped.EnumPattern{Variant: "None"}, Body: &untyped.VariableRef{Name: "zero"}},
	}
	tree := NewCompiler(arms).Compile()
	if !IsExhaustive(tree) {
		t.Error("Some(x)/None covers every Option value")
	}
}

func TestCanCompileToTree(t *testing.T) {
	tests := []struct {
		name     string
		arms     []MatchArm
		expected bool
	}{
		{
			name:     "single arm - not worth it",
			arms:     []MatchArm{{Pattern: &untyped.LiteralPattern{Value: litBool(true)}}},
			expected: false,
		},
		{
			name: "two wildcards - not worth it",
			arms: []MatchArm{
				{Pattern: &untyped.WildcardPattern{}},
				{Pattern: &untyped.WildcardPattern{}},
			},
			expected: false,
		},
		{
			name: "multiple literals - worth it",
			arms: []MatchArm{
				{Pattern: &untyped.LiteralPattern{Value: litBool(true)}},
				{Pattern: &untyped.LiteralPattern{Value: litBool(false)}},
				{Pattern: &untyped.WildcardPattern{}},
			},
			expected: true,
		},
		{
			name: "multiple enum variants - worth it",
			arms: []MatchArm{
				{Pattern: &untyped.EnumPattern{Variant: "Some"}},
				{Pattern: &untyped.EnumPattern{Variant: "None"}},
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanCompileToTree(tt.arms); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}
