package errors

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/fuellabs-lite/swayc/internal/ast"
)

// SchemaV1 is the schema tag stamped on every Report, per SPEC_FULL.md §0.
const SchemaV1 = "swayc.error/v1"

// Fix is a suggested remediation attached to a Report.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Report is the canonical structured diagnostic type. Every error builder
// across the compiler returns a *Report; it carries a primary span, optional
// secondary spans, and a stable machine-readable code (spec §7 "User-visible
// behavior").
type Report struct {
	Schema    string         `json:"schema"`
	Code      string         `json:"code"`
	Phase     string         `json:"phase"`
	Message   string         `json:"message"`
	Span      *ast.Span      `json:"span,omitempty"`
	Secondary []ast.Span     `json:"secondary,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Fix       *Fix           `json:"fix,omitempty"`
}

// New builds a Report for the given code, stamping Schema and deriving
// Phase from the error registry.
func New(code, message string, span *ast.Span, data map[string]any) *Report {
	phase := ""
	if info, ok := GetErrorInfo(code); ok {
		phase = info.Phase
	}
	return &Report{
		Schema:  SchemaV1,
		Code:    code,
		Phase:   phase,
		Message: message,
		Span:    span,
		Data:    data,
	}
}

// WithFix attaches a suggested fix and returns the same report for chaining.
func (r *Report) WithFix(suggestion string, confidence float64) *Report {
	r.Fix = &Fix{Suggestion: suggestion, Confidence: confidence}
	return r
}

// WithSecondary attaches secondary spans (spec §7: "optional secondary
// spans").
func (r *Report) WithSecondary(spans ...ast.Span) *Report {
	r.Secondary = append(r.Secondary, spans...)
	return r
}

// ReportError wraps a Report as an error
// This allows structured reports to survive errors.As() unwrapping
type ReportError struct {
	Rep *Report
}

// Error implements the error interface
func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport attempts to extract a Report from an error chain
// Returns the Report and true if found, nil and false otherwise
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as a ReportError
// Call sites should return errors.WrapReport(report) to preserve structure
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON converts a Report to JSON (deterministic: struct fields in declaration order)
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error

	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}

	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewGeneric creates a generic report for an arbitrary Go error, used at
// boundaries (manifest parsing, I/O) that sit outside the compiler's own
// diagnostic taxonomy.
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:  SchemaV1,
		Code:    "GENERIC",
		Phase:   phase,
		Message: err.Error(),
		Data:    map[string]any{},
	}
}

// Handler is the append-only diagnostic bag threaded through every pass
// (spec §7 "Propagation"). Passes continue past recoverable errors so a
// single run surfaces as many diagnostics as possible; callers check
// HasFatal after each stage and abort immediately when it is set (spec §7
// "Fatal errors... abort the current compilation unit immediately").
type Handler struct {
	reports []*Report
}

// NewHandler creates an empty handler.
func NewHandler() *Handler { return &Handler{} }

// Add appends a report to the bag.
func (h *Handler) Add(r *Report) {
	if r != nil {
		h.reports = append(h.reports, r)
	}
}

// Reports returns all accumulated reports in insertion order.
func (h *Handler) Reports() []*Report { return h.reports }

// HasErrors reports whether any non-warning diagnostic was recorded (spec
// §7: "warnings never block emission").
func (h *Handler) HasErrors() bool {
	for _, r := range h.reports {
		if !IsWarning(r.Code) {
			return true
		}
	}
	return false
}

// HasFatal reports whether any fatal diagnostic was recorded.
func (h *Handler) HasFatal() bool {
	for _, r := range h.reports {
		if IsFatal(r.Code) {
			return true
		}
	}
	return false
}

// Warnings returns only the warning-tier reports.
func (h *Handler) Warnings() []*Report {
	var out []*Report
	for _, r := range h.reports {
		if IsWarning(r.Code) {
			out = append(out, r)
		}
	}
	return out
}

// Errors returns only the non-warning reports, sorted for deterministic
// presentation (by span file then start line, falling back to code).
func (h *Handler) Errors() []*Report {
	var out []*Report
	for _, r := range h.reports {
		if !IsWarning(r.Code) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.Span != nil && b.Span != nil && a.Span.Start.File != b.Span.Start.File:
			return a.Span.Start.File < b.Span.Start.File
		case a.Span != nil && b.Span != nil && a.Span.Start.Line != b.Span.Start.Line:
			return a.Span.Start.Line < b.Span.Start.Line
		default:
			return a.Code < b.Code
		}
	})
	return out
}
