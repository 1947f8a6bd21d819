package intrinsic

import (
	"errors"
	"testing"
)

func TestValidateArity(t *testing.T) {
	tests := []struct {
		name    string
		argc    int
		wantErr string
	}{
		{"MATMUL", 2, ""},
		{"MATMUL", 1, "Intrinsic 'MATMUL' expects 2 arg(s) but found 1."},
		{"matmul", 3, "Intrinsic 'MATMUL' expects 2 arg(s) but found 3."},
		{"PRODUCT", 0, "Intrinsic 'PRODUCT' expects between 1 and 3 args but found 0."},
		{"PRODUCT", 3, ""},
		{"PRODUCT", 4, "Intrinsic 'PRODUCT' expects between 1 and 3 args but found 4."},
		{"MIN", 1, "Intrinsic 'MIN' expects at least 2 args but found 1."},
		{"MIN", 4, ""},
		{"max", 40, ""},
		{"SIN", 2, "Intrinsic 'SIN' expects 1 arg(s) but found 2."},
		{"SYSTEM_CLOCK", 0, ""},
		{"SYSTEM_CLOCK", 3, ""},
		{"COMMAND_ARGUMENT_COUNT", 0, ""},
		{"COMMAND_ARGUMENT_COUNT", 1, "Intrinsic 'COMMAND_ARGUMENT_COUNT' expects 0 arg(s) but found 1."},
		{"DSIN", 2, "Intrinsic 'DSIN' expects 1 arg(s) but found 2."},
		{"dmax1", 1, "Intrinsic 'DMAX1' expects at least 2 args but found 1."},
	}
	for _, tt := range tests {
		err := Validate(tt.name, tt.argc)
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("Validate(%q, %d) unexpected error: %v", tt.name, tt.argc, err)
			}
			continue
		}
		var ae *ArityError
		if !errors.As(err, &ae) {
			t.Errorf("Validate(%q, %d) = %v, want *ArityError", tt.name, tt.argc, err)
			continue
		}
		if err.Error() != tt.wantErr {
			t.Errorf("Validate(%q, %d):\n got %q\nwant %q", tt.name, tt.argc, err.Error(), tt.wantErr)
		}
	}
}

func TestLookupSpecific(t *testing.T) {
	for _, name := range []string{"CCOS", "ccos", "CcoS", "DCOS"} {
		e, ok := Lookup(name)
		if !ok {
			t.Fatalf("%s not found", name)
		}
		if e.Generic != "COS" || !e.Specific || e.Min != 1 || e.Max != 1 {
			t.Errorf("Lookup(%q) = %+v", name, e)
		}
	}
	e, ok := Lookup("cos")
	if !ok || e.Specific || e.Name != "COS" {
		t.Errorf("Lookup(cos) = %+v, %v", e, ok)
	}
}

func TestLookupUnknown(t *testing.T) {
	if IsIntrinsic("NOT_AN_INTRINSIC") {
		t.Error("NOT_AN_INTRINSIC reported as intrinsic")
	}
	err := Validate("NOT_AN_INTRINSIC", 1)
	var ue *UnknownError
	if !errors.As(err, &ue) {
		t.Errorf("expected UnknownError, got %v", err)
	}
}

func TestSpecificsResolve(t *testing.T) {
	for specific, generic := range specifics {
		if _, ok := generics[generic]; !ok {
			t.Errorf("specific %s maps to missing generic %s", specific, generic)
		}
		if _, ok := generics[specific]; ok {
			t.Errorf("%s is both specific and generic", specific)
		}
	}
	names := Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("Names not sorted at %d: %s >= %s", i, names[i-1], names[i])
		}
	}
}
