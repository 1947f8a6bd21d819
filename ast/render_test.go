package ast

import (
	"testing"

	"github.com/soypat/go-fparser/token"
)

func TestRenderBlock(t *testing.T) {
	const want = `MODULE m
CONTAINS
  SUBROUTINE s(a)
    a = SIN(COS(b))
  END SUBROUTINE s
END MODULE m`
	if got := Render(testModule()); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderLabelsAndNames(t *testing.T) {
	one := &IntegerLiteral{Raw: "1"}
	n := &Identifier{Name: "n"}
	do := &Block{
		BlockKind: KindDoBlock,
		Begin: &DoStmt{
			StmtInfo: StmtInfo{ConstructName: "outer"},
			Var:      "i", Start: one, End: n,
		},
		Body: []Statement{
			&IfStmt{
				StmtInfo: StmtInfo{Label: "10"},
				Cond:     &BinaryExpr{Op: token.GT, X: &Identifier{Name: "i"}, Y: n},
				Then:     &KeywordStmt{Which: KindExit, Keyword: "EXIT", Operand: &Identifier{Name: "outer"}},
			},
		},
		End: &EndStmt{Keyword: "DO", Name: "outer"},
	}
	const want = "outer: DO i = 1, n\n  10 IF (i.GT.n) EXIT outer\nEND DO outer"
	if got := Render(do); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderMiddleStatements(t *testing.T) {
	x := &Identifier{Name: "x"}
	ifb := &Block{
		BlockKind: KindIfBlock,
		Begin:     &CondStmt{Which: KindIfThen, Cond: x},
		Body: []Statement{
			&KeywordStmt{Which: KindContinue, Keyword: "CONTINUE"},
			&CondStmt{Which: KindElseIf, Cond: x},
			&ElseStmt{},
			&Directive{Name: "ifdef", Args: "FOO"},
			&Comment{Text: " note"},
		},
		End: &EndStmt{Keyword: "IF"},
	}
	const want = "IF (x) THEN\n  CONTINUE\nELSE IF (x) THEN\nELSE\n#ifdef FOO\n  ! note\nEND IF"
	if got := Render(ifb); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderStatements(t *testing.T) {
	a, b := &Identifier{Name: "a"}, &Identifier{Name: "b"}
	one := &IntegerLiteral{Raw: "1"}
	tests := []struct {
		stmt Statement
		want string
	}{
		{&TypeDeclaration{Type: TypeSpec{Name: "INTEGER", Star: "4"}}, "INTEGER*4"},
		{&TypeDeclaration{
			Type:     TypeSpec{Name: "CHARACTER", Len: &Star{}},
			Attrs:    []Attribute{{Name: "INTENT", Spec: "IN"}},
			Entities: []DeclEntity{{Name: "a"}, {Name: "b", Dims: []Expression{one, &RangeExpr{}}}},
		}, "CHARACTER(LEN=*), INTENT(IN) :: a, b(1,:)"},
		{&TypeDeclaration{
			Type:     TypeSpec{Name: "REAL", KindParam: &IntegerLiteral{Raw: "8"}},
			Entities: []DeclEntity{{Name: "p", Init: a, PointerInit: true}},
		}, "REAL(KIND=8) :: p => a"},
		{&TypeDeclaration{Type: TypeSpec{Name: "CLASS", Derived: "*"}}, "CLASS(*)"},
		{&ImplicitStatement{}, "IMPLICIT NONE"},
		{&ImplicitStatement{Specs: []ImplicitSpec{
			{Type: TypeSpec{Name: "INTEGER"}, Ranges: []string{"i-m", "p"}},
			{Type: TypeSpec{Name: "REAL"}, Ranges: []string{"z"}},
		}}, "IMPLICIT INTEGER (i-m, p), REAL (z)"},
		{&UseStatement{Module: "a", Only: true, Items: []string{"b=>c"}}, "USE a, ONLY: b=>c"},
		{&UseStatement{Nature: "INTRINSIC", Module: "iso_c_binding"}, "USE, INTRINSIC :: iso_c_binding"},
		{&AttrStmt{Which: KindIntent, Keyword: "INTENT", Spec: "IN", Items: []DeclEntity{{Name: "a"}, {Name: "b"}}}, "INTENT (IN) a, b"},
		{&AttrStmt{Which: KindSequence, Keyword: "SEQUENCE"}, "SEQUENCE"},
		{&ParameterStmt{Consts: []NamedConstant{{Name: "a", Value: one}}}, "PARAMETER (a = 1)"},
		{&DataStmt{Sets: []DataSet{{Objects: []Expression{a}, Values: []Expression{b}}, {Objects: []Expression{a}, Values: []Expression{one}}}}, "DATA a / b / a / 1 /"},
		{&CommonStmt{Blocks: []CommonBlock{{Items: []DeclEntity{{Name: "a"}}}, {Name: "foo", Items: []DeclEntity{{Name: "b"}}}, {Items: []DeclEntity{{Name: "c"}}}}}, "COMMON a / foo / b // c"},
		{&EquivalenceStmt{Sets: [][]Expression{{a, b}, {b, a}}}, "EQUIVALENCE (a, b), (b, a)"},
		{&NamelistStmt{Groups: []NamelistGroup{{Name: "g", Items: []string{"a", "b"}}}}, "NAMELIST / g / a, b"},
		{&EntryStmt{Name: "a", Args: []string{"b", "*"}, Result: "g"}, "ENTRY a (b, *) RESULT (g)"},
		{&FormatStmt{Items: []string{"I3", "F10.2"}}, "FORMAT (I3, F10.2)"},
		{&IncludeStmt{Path: &StringLiteral{Raw: "'foo.h'"}}, "INCLUDE 'foo.h'"},
		{&ProcedureBinding{Bindings: []string{"a"}}, "PROCEDURE a"},
		{&ProcedureBinding{Attrs: []string{"NOPASS"}, Bindings: []string{"a => b"}}, "PROCEDURE, NOPASS :: a => b"},
		{&GenericBinding{Access: "PUBLIC", Spec: "a", Targets: []string{"b", "c"}}, "GENERIC, PUBLIC :: a => b, c"},
		{&AssignStmt{Target: "10", Var: "a"}, "ASSIGN 10 TO a"},
		{&CallStmt{Callee: a}, "CALL a"},
		{&CallStmt{Callee: a, Args: []Expression{one, &AlternateReturnArg{Label: "10"}}}, "CALL a(1, *10)"},
		{&ComputedGotoStmt{Labels: []string{"1", "2"}, Expr: a}, "GO TO (1, 2) a"},
		{&AssignedGotoStmt{Var: "a", Labels: []string{"1"}}, "GO TO a (1)"},
		{&ArithmeticIfStmt{Expr: a, Neg: "1", Zero: "2", Pos: "3"}, "IF (a) 1, 2, 3"},
		{&PrintStmt{Format: &Star{}, Items: []Expression{a, b}}, "PRINT *, a, b"},
		{&ReadStmt{Format: &Star{}, Items: []Expression{a}}, "READ *, a"},
		{&ReadStmt{Control: []ControlSpec{{Keyword: "UNIT", Value: one}}}, "READ (UNIT = 1)"},
		{&IOControlStmt{Which: KindWrite, Keyword: "WRITE", Control: []ControlSpec{{Value: &Star{}}, {Value: &Star{}}}, Items: []Expression{a}}, "WRITE (*, *) a"},
		{&AllocateStmt{Items: []Expression{a}, Opts: []ControlSpec{{Keyword: "STAT", Value: b}}}, "ALLOCATE (a, STAT = b)"},
		{&AllocateStmt{Dealloc: true, Items: []Expression{a}}, "DEALLOCATE (a)"},
		{&NullifyStmt{Items: []Expression{a, b}}, "NULLIFY (a, b)"},
		{&ForallStmt{
			Header: ForallHeader{Specs: []ForallSpec{{Var: "i", Lo: one, Hi: a}}, Mask: b},
			Assign: &AssignmentStmt{Target: a, Value: one},
		}, "FORALL (i = 1:a, b) a = 1"},
		{&FunctionStmt{Prefix: []string{"PURE"}, Type: &TypeSpec{Name: "REAL"}, Name: "f", Args: []string{"x"}, Result: "r"}, "PURE REAL FUNCTION f(x) RESULT(r)"},
		{&SubroutineStmt{Name: "s", Bind: "C"}, "SUBROUTINE s BIND(C)"},
		{&TypeStmt{Name: "t"}, "TYPE t"},
		{&TypeStmt{Attrs: []string{"PUBLIC"}, Name: "t"}, "TYPE, PUBLIC :: t"},
		{&CaseStmt{Values: []Expression{one, &RangeExpr{Lo: one, Hi: a}}}, "CASE (1, 1:a)"},
		{&CaseStmt{Default: true}, "CASE DEFAULT"},
		{&DoStmt{EndLabel: "10", Var: "i", Start: one, End: a, Step: b}, "DO 10 i = 1, a, b"},
		{&DoStmt{While: a}, "DO WHILE (a)"},
		{&DoStmt{}, "DO"},
		{&CondStmt{Which: KindElseWhere}, "ELSE WHERE"},
		{&AssociateStmt{Assocs: []NamedConstant{{Name: "x", Value: a}}}, "ASSOCIATE (x => a)"},
		{&EndStmt{Keyword: "BLOCK DATA"}, "END BLOCK DATA"},
		{&OpaqueStmt{Which: KindCustomBegin, StmtInfo: StmtInfo{Label: "5"}, Text: "THING x"}, "5 THING x"},
	}
	for _, tt := range tests {
		if got := Render(tt.stmt); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.stmt.Kind(), got, tt.want)
		}
	}
}
