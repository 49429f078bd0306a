// Package compiler orchestrates the five-stage pipeline spec §4 lays out
// end to end: typed-tree construction, IR lowering, IR optimization,
// virtual-assembly lowering, register allocation, codegen finalization, and
// the parallel ABI descriptor emitter -- grounded on internal/iropt.Pipeline's
// fixed-order dispatch, generalized here to span every stage rather than
// just the middle one.
package compiler

import (
	"context"
	"fmt"
	"sync"

	"github.com/fuellabs-lite/swayc/internal/abi"
	"github.com/fuellabs-lite/swayc/internal/codegen"
	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/errors"
	"github.com/fuellabs-lite/swayc/internal/ir"
	"github.com/fuellabs-lite/swayc/internal/ir/lower"
	"github.com/fuellabs-lite/swayc/internal/iropt"
	"github.com/fuellabs-lite/swayc/internal/manifest"
	"github.com/fuellabs-lite/swayc/internal/regalloc"
	"github.com/fuellabs-lite/swayc/internal/semantic"
	"github.com/fuellabs-lite/swayc/internal/typeengine"
	"github.com/fuellabs-lite/swayc/internal/typedtree"
	"github.com/fuellabs-lite/swayc/internal/untyped"
	"github.com/fuellabs-lite/swayc/internal/vasm"
)

// Unit is one compilation unit: a package's already-parsed untyped module
// tree (spec §6's "untyped module tree from the parser" input contract --
// this core never parses source text itself) rooted at its manifest.
type Unit struct {
	Name     string
	Manifest *manifest.Manifest
	Module   *untyped.Module

	// Registers overrides the register allocator's working-set size.
	// Zero selects regalloc.Allocate's own default (every physical
	// register minus the architectural constants).
	Registers int
}

// Artifact is one unit's finished output: the finalized binary, its ABI
// descriptor, and every diagnostic accumulated along the way (including
// warnings, which never block emission -- spec §7).
type Artifact struct {
	Name        string
	Module      *ir.Module
	Binary      *codegen.Binary
	ABI         *abi.Program
	Diagnostics []*errors.Report
}

// CompileUnit runs one unit through every stage, returning as soon as a
// fatal diagnostic is recorded or a later stage fails outright (spec §7
// "Fatal errors... abort the current compilation unit immediately").
func CompileUnit(u *Unit) (*Artifact, error) {
	types := typeengine.New()
	decls := declengine.New()
	handler := errors.NewHandler()

	checker := semantic.NewChecker(types, decls, handler)
	checker.CheckModule(u.Module, nil)
	if handler.HasFatal() {
		return &Artifact{Name: u.Name, Diagnostics: handler.Reports()}, fmt.Errorf("compiler: %s: semantic analysis failed", u.Name)
	}

	mod, err := lowerModule(types, decls)
	if err != nil {
		return &Artifact{Name: u.Name, Diagnostics: handler.Reports()}, fmt.Errorf("compiler: %s: %w", u.Name, err)
	}

	if err := iropt.Pipeline(mod); err != nil {
		return &Artifact{Name: u.Name, Module: mod, Diagnostics: handler.Reports()}, fmt.Errorf("compiler: %s: %w", u.Name, err)
	}

	vprog := vasm.Lower(mod)

	allocated := make([]*regalloc.AllocatedFunction, 0, len(vprog.Functions))
	for _, fn := range vprog.Functions {
		af, err := regalloc.Allocate(fn, u.Registers)
		if err != nil {
			return &Artifact{Name: u.Name, Module: mod, Diagnostics: handler.Reports()}, fmt.Errorf("compiler: %s: register allocation failed for %s: %w", u.Name, fn.Name, err)
		}
		allocated = append(allocated, af)
	}

	bin, err := codegen.Finalize(vprog.Data, allocated)
	if err != nil {
		return &Artifact{Name: u.Name, Module: mod, Diagnostics: handler.Reports()}, fmt.Errorf("compiler: %s: %w", u.Name, err)
	}

	configOffsets := configByteOffsets(vprog, bin)
	program, err := abi.Generate(decls, types, mod, configOffsets)
	if err != nil {
		return &Artifact{Name: u.Name, Module: mod, Binary: bin, Diagnostics: handler.Reports()}, fmt.Errorf("compiler: %s: ABI generation failed: %w", u.Name, err)
	}

	return &Artifact{Name: u.Name, Module: mod, Binary: bin, ABI: program, Diagnostics: handler.Reports()}, nil
}

// configByteOffsets turns each configurable's data-section entry index into
// the absolute byte offset codegen laid the data section out at, for
// internal/abi's Configurable.Offset field.
func configByteOffsets(vprog *vasm.Program, bin *codegen.Binary) map[string]uint64 {
	offsets := map[string]uint64{}
	if len(vprog.ConfigIndex) == 0 {
		return offsets
	}
	perEntry := codegen.DataEntryOffsets(vprog.Data)
	base := uint64(bin.DataBase) * 4
	for name, idx := range vprog.ConfigIndex {
		offsets[name] = base + perEntry[idx]
	}
	return offsets
}

// lowerModule builds the whole-program ir.Module once the checker has
// populated every declaration's typed body: one ir.Function per interned
// function declaration, plus one ConfigVar per configurable block entry
// with its initializer folded to bytes (spec §4.6; the fold itself is the
// "compiler's constant-folding-to-bytes pass" internal/semantic/constants.go
// defers to this package).
func lowerModule(types *typeengine.Engine, decls *declengine.Engine) (*ir.Module, error) {
	lowerer := lower.New(types, decls)
	mod := &ir.Module{}

	for _, id := range decls.All(declengine.KindFunction) {
		decl := decls.Get(id)
		if decl.Function == nil || decl.Function.Body == nil {
			continue // trait method signature with no default body
		}
		mod.Functions = append(mod.Functions, lowerer.LowerFunction(id))
	}

	for _, id := range decls.All(declengine.KindConfigurable) {
		decl := decls.Get(id)
		cfg := decl.Configurable
		if cfg == nil || cfg.State != declengine.Resolved {
			continue
		}
		t := lowerer.LowerType(cfg.Type)
		init, err := foldConstantBytes(t, cfg.Value)
		if err != nil {
			return nil, fmt.Errorf("configurable %q: %w", decl.Name, err)
		}
		mod.Configs = append(mod.Configs, ir.ConfigVar{Name: decl.Name, Type: t, Init: init})
	}

	return mod, nil
}

// foldConstantBytes evaluates a resolved configurable's typed initializer
// expression down to its byte image. Only literal initializers are
// supported -- the same simplification internal/ir/lower/expr.go's
// literalBits already makes for constant references, generalized here to
// produce a full byte image rather than just a 64-bit register operand.
func foldConstantBytes(t ir.Type, value interface{}) (ir.Constant, error) {
	expr, ok := value.(*typedtree.TyExpression)
	if !ok || expr.Kind != typedtree.KLiteral {
		return ir.Constant{}, fmt.Errorf("unsupported configurable initializer (only literals are folded)")
	}
	bits, err := literalBits(expr.Literal)
	if err != nil {
		return ir.Constant{}, err
	}
	size := t.ByteSize()
	if size < 1 {
		size = 1
	}
	buf := make([]byte, size)
	for i := 0; i < size && i < 8; i++ {
		buf[size-1-i] = byte(bits >> (8 * uint(i)))
	}
	return ir.Constant{Type: t, Bytes: buf}, nil
}

func literalBits(lit *typedtree.TyLiteral) (uint64, error) {
	switch v := lit.Value.(type) {
	case uint8:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case uint64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported literal kind %v in configurable initializer", lit.Kind)
	}
}

// CompileUnits compiles every unit concurrently, one goroutine per unit
// bounded only by GOMAXPROCS' own scheduling (spec §5's units are
// independent compilations sharing no mutable state, so no additional
// worker-pool bookkeeping earns its keep here). Results preserve the input
// order; ctx cancellation stops launching new units but lets in-flight ones
// finish rather than discarding partial work.
func CompileUnits(ctx context.Context, units []*Unit) ([]*Artifact, error) {
	results := make([]*Artifact, len(units))
	errs := make([]error, len(units))

	var wg sync.WaitGroup
	for i, u := range units {
		select {
		case <-ctx.Done():
			errs[i] = ctx.Err()
			continue
		default:
		}
		wg.Add(1)
		go func(i int, u *Unit) {
			defer wg.Done()
			a, err := CompileUnit(u)
			results[i] = a
			errs[i] = err
		}(i, u)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, firstError(errs)
		}
	}
	return results, nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
