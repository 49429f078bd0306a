package errors

import "testing"

func TestErrorCodeTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		phase    string
		category string
	}{
		{"NR001", NR001, "name-resolution", "scope"},
		{"NR002", NR002, "name-resolution", "ambiguity"},
		{"TY001", TY001, "type", "unification"},
		{"TY003", TY003, "type", "trait"},
		{"SEM005", SEM005, "semantic", "match"},
		{"IR001", IR001, "ir-validation", "terminator"},
		{"CG001", CG001, "codegen", "encoding"},
		{"ABI001", ABI001, "abi", "hashing"},
		{"MAN002", MAN002, "manifest", "dependency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, exists := GetErrorInfo(tt.code)
			if !exists {
				t.Fatalf("error code %s not found in registry", tt.code)
			}
			if info.Code != tt.code {
				t.Errorf("code mismatch: got %s, want %s", info.Code, tt.code)
			}
			if info.Phase != tt.phase {
				t.Errorf("phase mismatch for %s: got %s, want %s", tt.code, info.Phase, tt.phase)
			}
			if info.Category != tt.category {
				t.Errorf("category mismatch for %s: got %s, want %s", tt.code, info.Category, tt.category)
			}
		})
	}
}

func TestIsFatalAndIsWarning(t *testing.T) {
	if !IsFatal(ABI001) {
		t.Errorf("ABI001 (hash collision) must be fatal per spec §7")
	}
	if !IsFatal(CG001) {
		t.Errorf("CG001 (jump immediate overflow) must be fatal per spec §7")
	}
	if !IsFatal(IR002) {
		t.Errorf("IR002 (ICE) must be fatal per spec §7")
	}
	if IsFatal(SEM001) {
		t.Errorf("SEM001 is a warning, not fatal")
	}
	if !IsWarning(SEM001) || !IsWarning(SEM002) {
		t.Errorf("SEM001/SEM002 (unreachable/dead code) must be warnings per spec §7")
	}
	if IsWarning(TY001) {
		t.Errorf("TY001 is a hard type error, not a warning")
	}
}

func TestAllErrorCodesInRegistry(t *testing.T) {
	allCodes := []string{
		NR001, NR002, NR003, NR004, NR005,
		TY001, TY002, TY003, TY004, TY005, TY006, TY007,
		SEM001, SEM002, SEM003, SEM004, SEM005, SEM006,
		IR001, IR002, IR003, IR004, IR005,
		CG001, CG002, CG003,
		ABI001, ABI002,
		MAN001, MAN002, MAN003, MAN004,
	}

	for _, code := range allCodes {
		if _, exists := GetErrorInfo(code); !exists {
			t.Errorf("error code %s is defined but not in registry", code)
		}
	}
	if len(ErrorRegistry) != len(allCodes) {
		t.Errorf("registry has %d codes, expected exactly %d", len(ErrorRegistry), len(allCodes))
	}
}

func TestErrorInfoConsistency(t *testing.T) {
	for code, info := range ErrorRegistry {
		if info.Code != code {
			t.Errorf("code mismatch in registry: key=%s, info.Code=%s", code, info.Code)
		}
		if len(code) < 4 || len(code) > 6 {
			t.Errorf("invalid code format: %s", code)
		}
		if info.Description == "" {
			t.Errorf("empty description for %s", code)
		}
	}
}
