package fparser

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/soypat/go-fparser/ast"
)

func TestParseStatement_render(t *testing.T) {
	for i, tc := range []struct {
		block string
		src   string
		want  string
		kind  ast.Kind
	}{
		0:  {"Program", "a (2)=b(n,m)", "a(2) = b(n,m)", ast.KindAssignment},
		1:  {"Program", "goto 19", "GO TO 19", ast.KindGoto},
		2:  {"Program", "go to 19", "GO TO 19", ast.KindGoto},
		3:  {"Program", "go to (1,2,3) a+b(2)", "GO TO (1, 2, 3) a+b(2)", ast.KindComputedGoto},
		4:  {"Program", "call a(1,2)", "CALL a(1, 2)", ast.KindCall},
		5:  {"Program", "print *", "PRINT *", ast.KindPrint},
		6:  {"Program", "print 12, a, b", "PRINT 12, a, b", ast.KindPrint},
		7:  {"Program", "read (unit=10)", "READ (UNIT = 10)", ast.KindRead},
		8:  {"Program", "write (10) a(1), b+2", "WRITE (10) a(1), b+2", ast.KindWrite},
		9:  {"Program", "rewind 1", "REWIND (1)", ast.KindRewind},
		10: {"Program", "allocate(a, stat=b)", "ALLOCATE (a, STAT = b)", ast.KindAllocate},
		11: {"Program", "if (a) 1, 2, 3", "IF (a) 1, 2, 3", ast.KindArithmeticIf},
		12: {"IfThen", "else if (a.eq.b(1,2)) then", "ELSE IF (a.EQ.b(1,2)) THEN", ast.KindElseIf},
		13: {"Program", "integer*4, external :: a", "INTEGER*4, EXTERNAL :: a", ast.KindTypeDeclaration},
		14: {"Program", "character(len=3,kind=2) c", "CHARACTER(LEN=3, KIND=2) :: c", ast.KindTypeDeclaration},
		15: {"Program", "implicit integer (i-m, p, q-r)", "IMPLICIT INTEGER (i-m, p, q-r)", ast.KindImplicit},
		16: {"Program", "IMPLICIT none", "IMPLICIT NONE", ast.KindImplicit},
		17: {"Program", "use a, only: b=>c", "USE a, ONLY: b=>c", ast.KindUse},
		18: {"Program", "intent (in) a", "INTENT (IN) a", ast.KindIntent},
		19: {"Program", "common /name/ a, c", "COMMON / name / a, c", ast.KindCommon},
		20: {"Program", "data a /b, c(1)/", "DATA a / b, c(1) /", ast.KindData},
		21: {"Program", "format (i3, f10.2)", "FORMAT (I3, F10.2)", ast.KindFormat},
		22: {"Module", "impure elemental module subroutine s", "IMPURE ELEMENTAL MODULE SUBROUTINE s", ast.KindSubroutineStmt},
		23: {"Program", "x = sin(cos(b))", "x = SIN(COS(b))", ast.KindAssignment},
		24: {"Program", "x = MATMUL(A,B)", "x = MATMUL(A, B)", ast.KindAssignment},
		25: {"Program", "if (x .gt. 0) call foo", "IF (x.GT.0) CALL foo", ast.KindLogicalIf},
		26: {"Program", "do 10 i = 1, n", "DO 10 i = 1, n", ast.KindDo},
		27: {"Do", "end do", "END DO", ast.KindEnd},
		28: {"Program", "outer: do i = 1, n", "outer: DO i = 1, n", ast.KindDo},
		29: {"Program", "exit outer", "EXIT outer", ast.KindExit},
		30: {"Program", "stop", "STOP", ast.KindStop},
		31: {"Program", "continue", "CONTINUE", ast.KindContinue},
		32: {"Program", "do while (i < 10)", "DO WHILE (i<10)", ast.KindDo},
		33: {"Program", "x%y(1) = 2", "x%y(1) = 2", ast.KindAssignment},
		34: {"Program", "end", "END", ast.KindEnd},
		35: {"Program", "end program p", "END PROGRAM p", ast.KindEnd},
	} {
		st, err := ParseStatement(tc.src, ModeFree, tc.block)
		if err != nil {
			t.Errorf("case %d %q: %v", i, tc.src, err)
			continue
		}
		if st.Kind() != tc.kind {
			t.Errorf("case %d %q: got kind %s, want %s", i, tc.src, st.Kind(), tc.kind)
		}
		got := ast.Render(st)
		if got != tc.want {
			t.Errorf("case %d %q: got %q, want %q", i, tc.src, got, tc.want)
			continue
		}
		again, err := ParseStatement(got, ModePyf, tc.block)
		if err != nil {
			t.Errorf("case %d: re-parsing %q: %v", i, got, err)
			continue
		}
		if second := ast.Render(again); second != got {
			t.Errorf("case %d: round trip %q became %q", i, got, second)
		}
	}
}

func TestParseStatement_source(t *testing.T) {
	st, err := ParseStatement("  call foo(1)  ", ModeFree, "Subroutine")
	if err != nil {
		t.Fatal(err)
	}
	src := st.Info().Source
	if src.Line != 1 || src.Text != "call foo(1)" {
		t.Errorf("got source %+v", src)
	}
}

func TestParseStatement_commentRetry(t *testing.T) {
	const text = "x = 1 ! one"
	st, diags, err := ParseStatementWith(text, "Program", Options{Mode: ModeFix})
	if err != nil {
		t.Fatal(err)
	}
	if got := ast.Render(st); got != "x = 1" {
		t.Errorf("got %q", got)
	}
	const want = "no parse pattern found for 'x = 1 ! one' in 'Program' block, trying to remove inline comment (not in Fortran 77)."
	if len(diags) != 1 || diags[0].Message != want || diags[0].Level != slog.LevelWarn {
		t.Errorf("got diagnostics %v", diags)
	}

	// Fortran 77 never strips comments.
	_, diags, err = ParseStatementWith(text, "Program", Options{Mode: ModeF77})
	var nme *NoMatchError
	if !errors.As(err, &nme) {
		t.Fatalf("want NoMatchError, got %v", err)
	}
	if want := "no parse pattern found for 'x = 1 ! one' in 'Program' block."; nme.Message() != want {
		t.Errorf("got %q, want %q", nme.Message(), want)
	}
	if len(diags) != 0 {
		t.Errorf("got diagnostics %v in strict mode", diags)
	}
}

func TestParseStatement_freeComment(t *testing.T) {
	for i, mode := range []Mode{ModeFree, ModePyf} {
		st, diags, err := ParseStatementWith("a = 1 ! hi", "Subroutine", Options{Mode: mode})
		if err != nil {
			t.Errorf("case %d (%s): %v", i, mode, err)
			continue
		}
		if got := ast.Render(st); got != "a = 1" {
			t.Errorf("case %d (%s): got %q", i, mode, got)
		}
		if len(diags) != 0 {
			t.Errorf("case %d (%s): got diagnostics %v", i, mode, diags)
		}
	}
	// Quoted '!' is not a comment.
	st, err := ParseStatement("print *, 'hi!' ! greet", ModePyf, "Program")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := ast.Render(st), "PRINT *, 'hi!'"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParse_fixedCommentRetry(t *testing.T) {
	const src = "      PROGRAM P\n      X = 1 ! set x\n      END\n"
	var p Parser
	if err := p.Reset("c.f", strings.NewReader(src), Options{Mode: ModeFix, Logger: discardLogger}); err != nil {
		t.Fatal(err)
	}
	file, err := p.Parse()
	if err != nil {
		t.Fatal(err)
	}
	diags := p.Diagnostics()
	if len(diags) != 1 || diags[0].Line != 2 || !strings.HasSuffix(diags[0].Message, ", trying to remove inline comment (not in Fortran 77).") {
		t.Errorf("got diagnostics %v", diags)
	}
	if got, want := ast.Render(file), "PROGRAM P\n  X = 1\nEND"; got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}

	// Fortran 77 has no inline comments to strip.
	_, err = Parse(src, Options{Mode: ModeF77, Logger: discardLogger})
	var nme *NoMatchError
	if !errors.As(err, &nme) || nme.Line() != 2 {
		t.Errorf("want NoMatchError at line 2, got %v", err)
	}
}

func TestParseStatement_noMatch(t *testing.T) {
	_, err := ParseStatement("FOO BAR BAZ", ModeFree, "Program")
	var nme *NoMatchError
	if !errors.As(err, &nme) {
		t.Fatalf("want NoMatchError, got %v", err)
	}
	if want := "no parse pattern found for 'foo bar baz' in 'Program' block."; nme.Message() != want {
		t.Errorf("got %q, want %q", nme.Message(), want)
	}
	// END IF only closes IF blocks.
	if _, err := ParseStatement("end if", ModeFree, "Do"); !errors.As(err, &nme) || nme.Block != "Do" {
		t.Errorf("got %v", err)
	}
	if _, err := ParseStatement("x = 1", ModeFree, "NoSuchBlock"); err == nil {
		t.Error("expected error for unknown block")
	}
}

func TestParseStatement_keywordsInStrings(t *testing.T) {
	st, err := ParseStatement("print *, 'if (x) then; call a'", ModeFree, "Program")
	if err != nil {
		t.Fatal(err)
	}
	if st.Kind() != ast.KindPrint {
		t.Errorf("got kind %s", st.Kind())
	}
	if got, want := ast.Render(st), "PRINT *, 'if (x) then; call a'"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
