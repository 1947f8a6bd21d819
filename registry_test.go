package fparser

import (
	"errors"
	"strings"
	"testing"

	"github.com/soypat/go-fparser/ast"
)

func TestRegistry_errors(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&Rule{Name: "Bad", Pattern: "(", Build: buildKeywordStmt}); err == nil {
		t.Error("expected error for bad pattern")
	}
	if err := r.Register(&Rule{Name: "NoBuild", Pattern: "x"}); err == nil || !strings.Contains(err.Error(), "has no constructor") {
		t.Errorf("got %v", err)
	}
	if err := r.RegisterConstruct(&Construct{}); err == nil {
		t.Error("expected error for construct without name")
	}
	err := r.Register(&Rule{Name: "Dangling", Class: ClassExec, Pattern: "x", Opens: "Nope", Build: buildKeywordStmt})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Seal(); err == nil || !strings.Contains(err.Error(), `opens unknown construct "Nope"`) {
		t.Errorf("got %v", err)
	}
}

func TestRegistry_sealed(t *testing.T) {
	r := DefaultRegistry()
	if !r.Sealed() {
		t.Fatal("default registry not sealed")
	}
	if err := r.Register(&Rule{Name: "Late", Pattern: "x", Build: buildKeywordStmt}); !errors.Is(err, errSealed) {
		t.Errorf("got %v", err)
	}
	if r != DefaultRegistry() {
		t.Error("default registry rebuilt")
	}
}

func TestRegistry_rulesFor(t *testing.T) {
	r := DefaultRegistry()
	names := func(rules []*Rule) map[string]int {
		m := make(map[string]int)
		for i, rule := range rules {
			if _, ok := m[rule.Name]; !ok {
				m[rule.Name] = i
			}
		}
		return m
	}
	inIf := names(r.RulesFor("IfThen"))
	if inIf["ElseIf"] != 0 || inIf["Else"] != 1 {
		t.Errorf("middle rules not first: ElseIf %d Else %d", inIf["ElseIf"], inIf["Else"])
	}
	for _, order := range [][2]string{
		{"IfThen", "ArithmeticIf"},
		{"ArithmeticIf", "LogicalIf"},
		{"Call", "Assignment"},
		{"PointerAssignment", "Assignment"},
	} {
		if inIf[order[0]] >= inIf[order[1]] {
			t.Errorf("%s must come before %s", order[0], order[1])
		}
	}
	if _, ok := inIf["TypeDeclaration"]; ok {
		t.Error("specification rule admitted in IF block")
	}
	root := names(r.RulesFor(RootConstruct))
	for _, name := range []string{"Program", "Module", "Subroutine", "Function", "BlockData", "Include"} {
		if _, ok := root[name]; !ok {
			t.Errorf("rule %s not admitted at top level", name)
		}
	}
	if _, ok := root["Assignment"]; ok {
		t.Error("assignment admitted at top level")
	}
	if r.RulesFor("NoSuchBlock") != nil || r.Construct("NoSuchBlock") != nil {
		t.Error("unknown construct resolved")
	}
}

func TestRegistry_custom(t *testing.T) {
	r := NewRegistry()
	if err := registerFortran(r); err != nil {
		t.Fatal(err)
	}
	err := r.RegisterConstruct(&Construct{
		Name: "Critical", Kind: ast.KindCustomBlock, Allows: ClassExec,
		End: &Rule{Name: "EndCritical", Pattern: `end\s*critical`, Build: func(m *Match) (ast.Statement, error) {
			return &ast.EndStmt{Keyword: "CRITICAL"}, nil
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = r.Register(&Rule{
		Name: "Critical", Class: ClassExec, Opens: "Critical",
		Pattern: `critical`,
		Build: func(m *Match) (ast.Statement, error) {
			return &ast.OpaqueStmt{Which: ast.KindCustomBegin, Text: "CRITICAL"}, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	const src = "program p\n  critical\n    x = x + 1\n  end critical\nend program p\n"
	file, err := Parse(src, Options{Mode: ModeFree, Logger: discardLogger, Registry: r})
	if err != nil {
		t.Fatal(err)
	}
	if !r.Sealed() {
		t.Error("parse did not seal the registry")
	}
	blocks := ast.Collect(file, ast.KindCustomBlock)
	if len(blocks) != 1 {
		t.Fatalf("got %d custom blocks, want 1", len(blocks))
	}
	want := "PROGRAM p\n  CRITICAL\n    x = x+1\n  END CRITICAL\nEND PROGRAM p"
	if got := ast.Render(file); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
	// The default registry knows nothing of CRITICAL.
	if _, err := Parse(src, Options{Mode: ModeFree, Logger: discardLogger}); err == nil {
		t.Error("default registry accepted CRITICAL")
	}
}
