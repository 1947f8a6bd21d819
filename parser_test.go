package fparser

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/soypat/go-fparser/ast"
	"github.com/soypat/go-fparser/intrinsic"
)

//go:embed testdata
var testdatadir embed.FS

var discardLogger = slog.New(slog.DiscardHandler)

func TestData_valid(t *testing.T) {
	entries, err := fs.ReadDir(testdatadir, "testdata")
	if err != nil || len(entries) == 0 {
		t.Fatal(err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "valid_") {
			continue
		}
		t.Run(name, func(t *testing.T) {
			path := "testdata/" + name
			src, err := fs.ReadFile(testdatadir, path)
			if err != nil {
				t.Fatal(err)
			}
			var p Parser
			err = p.Reset(path, strings.NewReader(string(src)), Options{Mode: testdataMode(name), Logger: discardLogger})
			if err != nil {
				t.Fatalf("Failed to reset parser: %v", err)
			}
			file, err := p.Parse()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(file.Units) == 0 {
				t.Fatalf("%s: parsed to an empty file", path)
			}
			if err := compareWarnings(path, expectedAnnotations(string(src), "WARNING"), p.Diagnostics()); err != nil {
				t.Error(err)
			}
			if want, ok := goldenRenders[name]; ok {
				if got := ast.Render(file); got != want {
					t.Errorf("got rendering\n%s\nwant\n%s", got, want)
				}
			}
			checkRoundTrip(t, file)
		})
	}
}

func TestData_invalid(t *testing.T) {
	entries, err := fs.ReadDir(testdatadir, "testdata")
	if err != nil || len(entries) == 0 {
		t.Fatal(err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "invalid_") {
			continue
		}
		t.Run(name, func(t *testing.T) {
			path := "testdata/" + name
			src, err := fs.ReadFile(testdatadir, path)
			if err != nil {
				t.Fatal(err)
			}
			expected := expectedAnnotations(string(src), "ERROR")
			if len(expected) != 1 {
				t.Fatalf("%s: want exactly one ERROR annotation, got %d", path, len(expected))
			}
			file, err := Parse(string(src), Options{Mode: testdataMode(name), Logger: discardLogger, Source: path})
			if err == nil {
				t.Fatal("expected error")
			}
			if file != nil {
				t.Error("expected nil file on error")
			}
			var lerr interface{ Line() int }
			if !errors.As(err, &lerr) {
				t.Fatalf("error %T carries no line", err)
			}
			pattern, ok := expected[lerr.Line()]
			if !ok {
				t.Fatalf("%s:%d: unexpected error: %v", path, lerr.Line(), err)
			}
			if !regexp.MustCompile(pattern).MatchString(err.Error()) {
				t.Errorf("%s:%d: expected error matching %q, got: %v", path, lerr.Line(), pattern, err)
			}
		})
	}
}

// goldenRenders holds the expected rendering of some valid testdata files.
var goldenRenders = map[string]string{
	"valid_implicit.f90": "x = 1\ny = MAX(x, 2.0, 3.0)\nPRINT *, x, y\nEND",
}

// testdataMode reads .f files in fixed form and everything else in free form.
func testdataMode(name string) Mode {
	if strings.HasSuffix(name, ".f") {
		return ModeFix
	}
	return ModeFree
}

var annotationRx = regexp.MustCompile(`!\s*(ERROR|WARNING)\s+"([^"]*)"`)

// expectedAnnotations maps 1-based line numbers to the patterns of the
// annotations of the given kind.
func expectedAnnotations(src, kind string) map[int]string {
	expect := make(map[int]string)
	for i, line := range strings.Split(src, "\n") {
		if m := annotationRx.FindStringSubmatch(line); len(m) == 3 && m[1] == kind {
			expect[i+1] = m[2]
		}
	}
	return expect
}

// compareWarnings checks that every non-critical diagnostic is annotated
// and every annotation matched.
func compareWarnings(srcpath string, expected map[int]string, diags []Diagnostic) error {
	seen := make(map[int]bool)
	for _, d := range diags {
		if d.Level >= LevelCritical {
			continue
		}
		pattern, ok := expected[d.Line]
		if !ok {
			return fmt.Errorf("%s:%d: unexpected diagnostic: %s", srcpath, d.Line, d.Message)
		}
		if !regexp.MustCompile(pattern).MatchString(d.Message) {
			return fmt.Errorf("%s:%d: expected diagnostic matching %q, got: %s", srcpath, d.Line, pattern, d.Message)
		}
		seen[d.Line] = true
	}
	for line, pattern := range expected {
		if !seen[line] {
			return fmt.Errorf("%s:%d: expected diagnostic matching %q, but none found", srcpath, line, pattern)
		}
	}
	return nil
}

// checkRoundTrip renders file, parses the rendering in pyf mode and checks
// the second rendering is identical.
func checkRoundTrip(t *testing.T, file *ast.File) {
	t.Helper()
	first := ast.Render(file)
	again, err := Parse(first, Options{Mode: ModePyf, Logger: discardLogger, Source: "rendered"})
	if err != nil {
		t.Fatalf("re-parsing rendered output: %v\n%s", err, first)
	}
	if second := ast.Render(again); second != first {
		t.Errorf("rendering not stable:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

// recordHandler is a slog.Handler keeping every record.
type recordHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler       { return h }
func (h *recordHandler) WithGroup(string) slog.Handler            { return h }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordHandler) messages(level slog.Level) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var msgs []string
	for _, r := range h.records {
		if r.Level == level {
			msgs = append(msgs, r.Message)
		}
	}
	return msgs
}

func kindsOf(list []ast.Statement) []ast.Kind {
	kinds := make([]ast.Kind, len(list))
	for i, s := range list {
		kinds[i] = s.Kind()
	}
	return kinds
}

func equalKinds(a, b []ast.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParse_ifBlock(t *testing.T) {
	const src = `if (a > 1) then
  x = 1
else if (a < 0) then
  x = 2
else
  x = 3
end if
`
	file, err := Parse(src, Options{Mode: ModeFree, Logger: discardLogger})
	if err != nil {
		t.Fatal(err)
	}
	if len(file.Units) != 1 {
		t.Fatalf("got %d units, want 1", len(file.Units))
	}
	prog, ok := file.Units[0].(*ast.Block)
	if !ok || prog.Kind() != ast.KindProgram || prog.Begin != nil || prog.End != nil {
		t.Fatalf("want implicit program block, got %#v", file.Units[0])
	}
	if len(prog.Body) != 1 {
		t.Fatalf("got %d statements in program, want 1", len(prog.Body))
	}
	ifBlock, ok := prog.Body[0].(*ast.Block)
	if !ok || ifBlock.Kind() != ast.KindIfBlock {
		t.Fatalf("want IF block, got %T", prog.Body[0])
	}
	want := []ast.Kind{
		ast.KindIfThen, ast.KindAssignment,
		ast.KindElseIf, ast.KindAssignment,
		ast.KindElse, ast.KindAssignment,
		ast.KindEnd,
	}
	if got := kindsOf(ifBlock.Children()); !equalKinds(got, want) {
		t.Errorf("got children %v, want %v", got, want)
	}
	const rendered = `IF (a>1) THEN
  x = 1
ELSE IF (a<0) THEN
  x = 2
ELSE
  x = 3
END IF`
	if got := ast.Render(file); got != rendered {
		t.Errorf("got rendering\n%s\nwant\n%s", got, rendered)
	}
}

func TestParse_program(t *testing.T) {
	const src = `program demo
  implicit none
  integer :: i, n
  real :: x(10)
  n = 10
  do i = 1, n
    x(i) = sqrt(real(i))
  end do
end program demo
`
	const want = `PROGRAM demo
  IMPLICIT NONE
  INTEGER :: i, n
  REAL :: x(10)
  n = 10
  DO i = 1, n
    x(i) = SQRT(REAL(i))
  END DO
END PROGRAM demo`
	file, err := Parse(src, Options{Mode: ModeFree, Logger: discardLogger})
	if err != nil {
		t.Fatal(err)
	}
	if got := ast.Render(file); got != want {
		t.Errorf("got rendering\n%s\nwant\n%s", got, want)
	}
	checkRoundTrip(t, file)
}

func TestParse_unterminated(t *testing.T) {
	for i, tc := range []struct {
		src   string
		block string
		line  int
		text  string
	}{
		0: {src: "subroutine s\n  x = 1\n", block: "Subroutine", line: 1, text: "subroutine s"},
		1: {src: "program p\n\n  if (x) then\n    x = 1\n", block: "IfThen", line: 3, text: "if (x) then"},
		2: {src: "module m\ncontains\nsubroutine s\nend\n", block: "Module", line: 1, text: "module m"},
	} {
		_, err := Parse(tc.src, Options{Mode: ModeFree, Logger: discardLogger, Source: "test.f90"})
		var ube *UnterminatedBlockError
		if !errors.As(err, &ube) {
			t.Errorf("case %d: want UnterminatedBlockError, got %v", i, err)
			continue
		}
		if ube.Block != tc.block || ube.Line() != tc.line || ube.Text != tc.text {
			t.Errorf("case %d: got block %q line %d text %q, want %q %d %q", i, ube.Block, ube.Line(), ube.Text, tc.block, tc.line, tc.text)
		}
		if !strings.HasPrefix(err.Error(), fmt.Sprintf("test.f90:%d:", tc.line)) {
			t.Errorf("case %d: error lacks position: %v", i, err)
		}
	}
	// A main program without PROGRAM statement may end with the input.
	file, err := Parse("x = 1\nprint *, x\n", Options{Mode: ModeFree, Logger: discardLogger})
	if err != nil {
		t.Fatalf("implicit program: %v", err)
	}
	if got, want := ast.Render(file), "x = 1\nPRINT *, x"; got != want {
		t.Errorf("implicit program: got %q, want %q", got, want)
	}
}

func TestParse_labeledDo(t *testing.T) {
	const src = `do 10 i = 1, 3
do 10 j = 1, 3
k = k + 1
10 continue
print *, k
`
	file, err := Parse(src, Options{Mode: ModeFree, Logger: discardLogger})
	if err != nil {
		t.Fatal(err)
	}
	if len(file.Units) != 1 {
		t.Fatalf("got %d units, want 1", len(file.Units))
	}
	prog, ok := file.Units[0].(*ast.Block)
	if !ok {
		t.Fatalf("want program block, got %T", file.Units[0])
	}
	if got := kindsOf(prog.Body); !equalKinds(got, []ast.Kind{ast.KindDoBlock, ast.KindPrint}) {
		t.Fatalf("got program body %v", got)
	}
	outer := prog.Body[0].(*ast.Block)
	if outer.End != nil || len(outer.Body) != 1 {
		t.Fatalf("outer loop: end %v, %d statements", outer.End, len(outer.Body))
	}
	inner, ok := outer.Body[0].(*ast.Block)
	if !ok || inner.Kind() != ast.KindDoBlock {
		t.Fatalf("want nested DO block, got %T", outer.Body[0])
	}
	if got := kindsOf(inner.Body); !equalKinds(got, []ast.Kind{ast.KindAssignment, ast.KindContinue}) {
		t.Errorf("got inner body %v", got)
	}
	if label := inner.Body[1].Info().Label; label != "10" {
		t.Errorf("got terminal label %q", label)
	}
	if ds := outer.Begin.(*ast.DoStmt); ds.EndLabel != "10" || ds.Var != "i" {
		t.Errorf("got DO end label %q var %q", ds.EndLabel, ds.Var)
	}
	checkRoundTrip(t, file)
}

func TestParse_constructNames(t *testing.T) {
	for i, tc := range []struct {
		src  string
		want string
	}{
		0: {src: "outer: do i = 1, 2\nend do inner\n", want: "construct name 'inner' does not match 'outer'"},
		1: {src: "do i = 1, 2\nend do inner\n", want: "construct name 'inner' given for unnamed construct"},
		2: {src: "chk: if (x) then\nend if\n", want: "missing construct name 'chk'"},
		3: {src: "chk: if (x) then\nelse other\nend if chk\n", want: "construct name 'other' does not match 'chk'"},
	} {
		_, err := Parse(tc.src, Options{Mode: ModeFree, Logger: discardLogger})
		var ise *InternalSyntaxError
		if !errors.As(err, &ise) {
			t.Errorf("case %d: want InternalSyntaxError, got %v", i, err)
			continue
		}
		if ise.Msg != tc.want {
			t.Errorf("case %d: got %q, want %q", i, ise.Msg, tc.want)
		}
	}
	const named = "outer: do i = 1, 2\n  if (i > 1) exit outer\nend do outer\n"
	file, err := Parse(named, Options{Mode: ModeFree, Logger: discardLogger})
	if err != nil {
		t.Fatal(err)
	}
	want := "outer: DO i = 1, 2\n  IF (i>1) EXIT outer\nEND DO outer"
	if got := ast.Render(file); got != want {
		t.Errorf("got rendering\n%s\nwant\n%s", got, want)
	}
}

func TestParse_unitNameWarning(t *testing.T) {
	var p Parser
	err := p.Reset("w.f90", strings.NewReader("subroutine foo\nend subroutine bar\n"), Options{Mode: ModeFree, Logger: discardLogger})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	diags := p.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	d := diags[0]
	if d.Level != slog.LevelWarn || d.Line != 2 || d.Message != "END name 'bar' does not match 'foo' of Subroutine block." {
		t.Errorf("got diagnostic %v", d)
	}
	if got := d.String(); !strings.HasPrefix(got, "w.f90:2") || !strings.Contains(got, "WARN") {
		t.Errorf("got diagnostic string %q", got)
	}
}

func TestParse_empty(t *testing.T) {
	h := &recordHandler{}
	file, err := Parse(" \n\t\n", Options{Mode: ModeFree, Logger: slog.New(h)})
	if err != nil {
		t.Fatal(err)
	}
	if len(file.Units) != 0 {
		t.Errorf("got %d units from blank input", len(file.Units))
	}
	if msgs := h.messages(slog.LevelInfo); len(msgs) != 1 || msgs[0] != "Nothing to analyze." {
		t.Errorf("got info messages %q", msgs)
	}
}

func TestParse_abortLog(t *testing.T) {
	h := &recordHandler{}
	var p Parser
	err := p.Reset("abort.f90", strings.NewReader("program p\n  x = = 1\nend\n"), Options{Mode: ModeFree, Logger: slog.New(h)})
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Parse()
	var nme *NoMatchError
	if !errors.As(err, &nme) {
		t.Fatalf("want NoMatchError, got %v", err)
	}
	if nme.Line() != 2 || nme.Block != "Program" {
		t.Errorf("got line %d block %q", nme.Line(), nme.Block)
	}
	if want := "no parse pattern found for 'x = = 1' in 'Program' block."; nme.Message() != want {
		t.Errorf("got message %q, want %q", nme.Message(), want)
	}
	want := []string{"While processing 'x = = 1' (line 2)", "STOPPED PARSING"}
	got := h.messages(LevelCritical)
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got critical messages %q, want %q", got, want)
	}
	var critical int
	for _, d := range p.Diagnostics() {
		if d.Level == LevelCritical {
			critical++
		}
	}
	if critical != 2 {
		t.Errorf("got %d critical diagnostics, want 2", critical)
	}
}

func TestParse_arity(t *testing.T) {
	for i, tc := range []struct {
		src  string
		want string
	}{
		0: {src: "x = matmul(a)", want: "Intrinsic 'MATMUL' expects 2 arg(s) but found 1."},
		1: {src: "x = product()", want: "Intrinsic 'PRODUCT' expects between 1 and 3 args but found 0."},
		2: {src: "x = min(a)", want: "Intrinsic 'MIN' expects at least 2 args but found 1."},
		3: {src: "call foo(abs(a, b))", want: "Intrinsic 'ABS' expects 1 arg(s) but found 2."},
	} {
		_, err := Parse(tc.src, Options{Mode: ModeFree, Logger: discardLogger})
		var ise *InternalSyntaxError
		var ae *intrinsic.ArityError
		if !errors.As(err, &ise) || !errors.As(err, &ae) {
			t.Errorf("case %d: want InternalSyntaxError wrapping ArityError, got %v", i, err)
			continue
		}
		if ise.Msg != tc.want || ise.Line() != 1 {
			t.Errorf("case %d: got %q at line %d, want %q", i, ise.Msg, ise.Line(), tc.want)
		}
	}
	const ok = "x = matmul(a, b)\ny = product(a, b, c)\nz = min(a, b, c, d)"
	file, err := Parse(ok, Options{Mode: ModeFree, Logger: discardLogger})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := ast.Render(file), "x = MATMUL(a, b)\ny = PRODUCT(a, b, c)\nz = MIN(a, b, c, d)"; got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestParse_collectIntrinsics(t *testing.T) {
	file, err := Parse("x = sin(cos(b))\n", Options{Mode: ModeFree, Logger: discardLogger})
	if err != nil {
		t.Fatal(err)
	}
	refs := ast.Collect(file, ast.KindIntrinsicRef)
	if len(refs) != 2 {
		t.Fatalf("got %d intrinsic references, want 2", len(refs))
	}
	for i, want := range []string{"SIN", "COS"} {
		if got := refs[i].(*ast.IntrinsicRef).Name; got != want {
			t.Errorf("reference %d: got %s, want %s", i, got, want)
		}
	}
}

func TestParse_declaredNamesShadowIntrinsics(t *testing.T) {
	const src = `subroutine s
  real :: sin(3)
  x = sin(1) + cos(2.0)
end
`
	file, err := Parse(src, Options{Mode: ModeFree, Logger: discardLogger})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(ast.Collect(file, ast.KindArrayRef)); n != 1 {
		t.Errorf("got %d array references, want 1", n)
	}
	refs := ast.Collect(file, ast.KindIntrinsicRef)
	if len(refs) != 1 || refs[0].(*ast.IntrinsicRef).Name != "COS" {
		t.Errorf("got intrinsic references %v", refs)
	}
}

func TestParse_directivesAndComments(t *testing.T) {
	const src = `#ifdef  DEBUG
! top comment
program p
  x = 1 ! trailing
end program p
#endif
`
	file, err := Parse(src, Options{Mode: ModeFree, Logger: discardLogger, KeepComments: true})
	if err != nil {
		t.Fatal(err)
	}
	want := []ast.Kind{ast.KindDirective, ast.KindComment, ast.KindProgram, ast.KindDirective}
	if got := kindsOf(file.Units); !equalKinds(got, want) {
		t.Fatalf("got units %v, want %v", got, want)
	}
	const rendered = `#ifdef DEBUG
! top comment
PROGRAM p
  x = 1
  ! trailing
END PROGRAM p
#endif`
	if got := ast.Render(file); got != rendered {
		t.Errorf("got rendering\n%s\nwant\n%s", got, rendered)
	}
	file, err = Parse(src, Options{Mode: ModeFree, Logger: discardLogger})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(ast.Collect(file, ast.KindComment)); n != 0 {
		t.Errorf("got %d comments without KeepComments", n)
	}
}

func TestParse_fixedForm(t *testing.T) {
	const src = `C     Sum of squares.
      PROGRAM SUMSQ
      INTEGER I, S
      S = 0
      DO 10 I = 1,
     +          10
         S = S + I**2
   10 CONTINUE
      WRITE (6, 100) S
  100 FORMAT (1X, 'S=', I6)
      END
`
	const want = `PROGRAM SUMSQ
  INTEGER :: I, S
  S = 0
  DO 10 I = 1, 10
    S = S+I**2
    10 CONTINUE
  WRITE (6, 100) S
  100 FORMAT (1X, 'S=', I6)
END`
	for _, mode := range []Mode{ModeFix, ModeF77} {
		file, err := Parse(src, Options{Mode: mode, Logger: discardLogger})
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if got := ast.Render(file); got != want {
			t.Errorf("%s: got rendering\n%s\nwant\n%s", mode, got, want)
		}
		checkRoundTrip(t, file)
	}
}

func TestParse_statementLimit(t *testing.T) {
	p := Parser{maxStatements: 2}
	err := p.Reset("", strings.NewReader("x = 1\ny = 2\nz = 3\n"), Options{Mode: ModeFree, Logger: discardLogger})
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Parse()
	var ise *InternalSyntaxError
	if !errors.As(err, &ise) || ise.Msg != "statement limit of 2 exceeded" || ise.Line() != 3 {
		t.Errorf("got %v", err)
	}
}

func TestParse_longInput(t *testing.T) {
	var b strings.Builder
	b.WriteString("program long\n")
	for i := 0; i < 20000; i++ {
		b.WriteString("  x = x + 1\n")
	}
	b.WriteString("  y = " + strings.Repeat("a+", 5000) + "a\n")
	b.WriteString("  z = " + strings.Repeat("(", 200) + "1" + strings.Repeat(")", 200) + "\n")
	b.WriteString("  s = '" + strings.Repeat("if then end ", 1000) + "'\n")
	b.WriteString("end program long\n")
	file, err := Parse(b.String(), Options{Mode: ModeFree, Logger: discardLogger})
	if err != nil {
		t.Fatal(err)
	}
	if len(file.Units) != 1 {
		t.Fatalf("got %d units, want 1", len(file.Units))
	}
	prog := file.Units[0].(*ast.Block)
	if len(prog.Body) != 20003 {
		t.Errorf("got %d statements, want 20003", len(prog.Body))
	}
}

func TestParser_reset(t *testing.T) {
	var p Parser
	for i, src := range []string{"subroutine a\nend subroutine b\n", "x = 1\n"} {
		if err := p.Reset("", strings.NewReader(src), Options{Mode: ModeFree, Logger: discardLogger}); err != nil {
			t.Fatal(err)
		}
		if _, err := p.Parse(); err != nil {
			t.Fatalf("parse %d: %v", i, err)
		}
	}
	if n := len(p.Diagnostics()); n != 0 {
		t.Errorf("diagnostics of a previous parse survived Reset: %d", n)
	}
}

func TestParse_concurrent(t *testing.T) {
	src, err := fs.ReadFile(testdatadir, "testdata/valid_program.f90")
	if err != nil {
		t.Fatal(err)
	}
	want, err := Parse(string(src), Options{Mode: ModeFree, Logger: discardLogger})
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			file, err := Parse(string(src), Options{Mode: ModeFree, Logger: discardLogger})
			if err != nil {
				errs <- err
				return
			}
			if ast.Render(file) != ast.Render(want) {
				errs <- errors.New("concurrent parse rendered differently")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func FuzzParse(f *testing.F) {
	entries, err := fs.ReadDir(testdatadir, "testdata")
	if err != nil {
		f.Fatal(err)
	}
	for _, entry := range entries {
		src, err := fs.ReadFile(testdatadir, "testdata/"+entry.Name())
		if err != nil {
			f.Fatal(err)
		}
		f.Add(string(src))
	}
	f.Add("x = (((1)\n")
	f.Add("      a = 'b\n     &c'\n")
	f.Fuzz(func(t *testing.T, src string) {
		for _, mode := range []Mode{ModeFree, ModeFix, ModeF77, ModePyf} {
			file, err := Parse(src, Options{Mode: mode, Logger: discardLogger})
			if err != nil {
				var ise *InternalSyntaxError
				if errors.As(err, &ise) && strings.HasPrefix(ise.Msg, "panicked") {
					t.Fatalf("%s: %v", mode, err)
				}
				continue
			}
			_ = ast.Render(file)
		}
	})
}
