package fparser

import (
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soypat/go-fparser/ast"
)

// frame is an open block on the builder stack.
type frame struct {
	c     *Construct
	block *ast.Block
	// label is the terminal statement label of a labeled DO.
	label string
	scope *scope
	// rules are the candidates inside the block: the end rule first.
	rules []*Rule
	// implicit marks a main program without PROGRAM statement.
	implicit bool
}

// builder assembles matched statements into nested blocks.
type builder struct {
	reg          *Registry
	lr           LineReader
	mt           *matcher
	rep          reporter
	file         *ast.File
	stack        []*frame
	keepComments bool
	// last is the line being processed, for abort diagnostics.
	last Line
	// max bounds the number of statements of one parse.
	max, n int
}

func newBuilder(reg *Registry, rep reporter, file *ast.File, keepComments bool) *builder {
	return &builder{
		reg:          reg,
		mt:           newMatcher(reg, rep.with("matcher")),
		rep:          rep.with("builder"),
		file:         file,
		keepComments: keepComments,
	}
}

func (b *builder) top() *frame {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

// run consumes all lines of the reader.
func (b *builder) run() error {
	for {
		ln, err := b.lr.Next()
		if err == io.EOF {
			return b.finish()
		}
		if err != nil {
			return err
		}
		b.last = ln
		switch ln.Kind {
		case LineComment:
			if b.keepComments {
				c := &ast.Comment{Text: ln.Text}
				c.Source = ast.Source{Line: ln.LineNo, Col: ln.Col, EndLine: ln.EndLine, Text: "!" + ln.Text}
				b.append(c)
			}
			continue
		case LineDirective:
			d := parseDirective(ln.Text)
			d.Source = ast.Source{Line: ln.LineNo, Col: ln.Col, EndLine: ln.EndLine, Text: ln.Text}
			b.append(d)
			continue
		}
		if err := b.statement(&ln); err != nil {
			return err
		}
	}
}

func (b *builder) append(st ast.Statement) {
	if f := b.top(); f != nil {
		f.block.Body = append(f.block.Body, st)
		return
	}
	b.file.Units = append(b.file.Units, st)
}

// statement matches one logical line and places it in the tree.
func (b *builder) statement(ln *Line) error {
	b.n++
	if b.max > 0 && b.n > b.max {
		return syntaxError(ln, errors.New("statement limit of "+strconv.Itoa(b.max)+" exceeded"))
	}
	if len(b.stack) == 0 {
		st, rule, err := b.matchRoot(ln)
		if err != nil {
			return err
		}
		if st != nil {
			return b.apply(ln, st, rule)
		}
		// Executable statements outside any unit start a main program.
		blk := &ast.Block{BlockKind: ast.KindProgram, Construct: "Program"}
		*blk.Info() = ast.StmtInfo{
			Source: ast.Source{Line: ln.LineNo, Col: ln.Col, EndLine: ln.EndLine, Text: ln.Text},
		}
		b.append(blk)
		b.push(b.reg.Construct("Program"), blk, "", true)
	}
	f := b.top()
	st, rule, err := b.mt.match(ln, f.rules, f.c.Name)
	if err != nil {
		return err
	}
	return b.apply(ln, st, rule)
}

// matchRoot quietly tries the rules admitted at top level. A nil statement
// without error means none matched.
func (b *builder) matchRoot(ln *Line) (ast.Statement, *Rule, error) {
	rules := b.reg.RulesFor(RootConstruct)
	st, rule, err := b.mt.matchText(ln, ln.Text, rules)
	if err == nil || isFatal(err) {
		return st, rule, err
	}
	if ln.Comment != "" && !ln.Mode.Strict {
		st, rule, err = b.mt.matchText(ln, ln.WithoutComment(), rules)
		if err == nil {
			b.rep.warnLine(ln, noMatchMessage(ln.Text, RootConstruct)+", trying to remove inline comment (not in Fortran 77).")
		}
		if err == nil || isFatal(err) {
			return st, rule, err
		}
	}
	return nil, nil, nil
}

func (b *builder) push(c *Construct, blk *ast.Block, label string, implicit bool) {
	sc := b.mt.scope
	if c.Scope {
		sc = newScope(sc)
	}
	rules := make([]*Rule, 0, 1+len(b.reg.RulesFor(c.Name)))
	rules = append(rules, c.End)
	rules = append(rules, b.reg.RulesFor(c.Name)...)
	b.stack = append(b.stack, &frame{c: c, block: blk, label: label, scope: sc, rules: rules, implicit: implicit})
	b.mt.scope = sc
}

func (b *builder) pop() {
	b.stack = b.stack[:len(b.stack)-1]
	if f := b.top(); f != nil {
		b.mt.scope = f.scope
	} else {
		b.mt.scope = nil
	}
}

// apply places a matched statement: it closes, opens or extends a block.
func (b *builder) apply(ln *Line, st ast.Statement, rule *Rule) error {
	f := b.top()
	switch {
	case f != nil && rule == f.c.End:
		if err := b.close(ln, f, st.(*ast.EndStmt)); err != nil {
			return err
		}
	case rule.Opens != "":
		c := b.reg.Construct(rule.Opens)
		blk := &ast.Block{BlockKind: c.Kind, Construct: c.Name, Begin: st}
		b.append(blk)
		var label string
		if ds, ok := st.(*ast.DoStmt); ok {
			label = ds.EndLabel
		}
		b.push(c, blk, label, false)
		b.rep.Log(slog.LevelDebug, "open block", slog.String("block", c.Name), slog.Int("line", ln.LineNo))
		return nil
	case f != nil && isInner(f.c, rule):
		if err := b.checkMiddle(ln, f, st); err != nil {
			return err
		}
		b.append(st)
	default:
		b.append(st)
	}
	if label := st.Info().Label; label != "" {
		b.closeLabeled(label)
	}
	return nil
}

func isInner(c *Construct, rule *Rule) bool {
	for _, r := range c.Inner {
		if r == rule {
			return true
		}
	}
	return false
}

// closeLabeled closes the labeled DO loops terminated by the statement
// labeled label. Nested loops may share a terminal statement.
func (b *builder) closeLabeled(label string) {
	for {
		f := b.top()
		if f == nil || f.label != label || f.c.Kind != ast.KindDoBlock {
			return
		}
		b.pop()
	}
}

// close ends the top block with end, checking END names.
func (b *builder) close(ln *Line, f *frame, end *ast.EndStmt) error {
	if f.c.Unit {
		if want := unitName(f.block.Begin); end.Name != "" && !strings.EqualFold(end.Name, want) {
			b.rep.warnLine(ln, "END name '"+end.Name+"' does not match '"+want+"' of "+f.c.Name+" block.")
		}
	} else if want := constructName(f.block); !strings.EqualFold(end.Name, want) {
		return syntaxError(ln, errors.New(nameMismatch(end.Name, want)))
	}
	f.block.End = end
	b.pop()
	b.rep.Log(slog.LevelDebug, "close block", slog.String("block", f.c.Name), slog.Int("line", ln.LineNo))
	return nil
}

// checkMiddle verifies the construct name trailing ELSE, CASE and friends.
func (b *builder) checkMiddle(ln *Line, f *frame, st ast.Statement) error {
	var name string
	switch st := st.(type) {
	case *ast.CondStmt:
		name = st.Name
	case *ast.ElseStmt:
		name = st.Name
	case *ast.CaseStmt:
		name = st.Name
	}
	if want := constructName(f.block); name != "" && !strings.EqualFold(name, want) {
		return syntaxError(ln, errors.New(nameMismatch(name, want)))
	}
	return nil
}

func nameMismatch(got, want string) string {
	if want == "" {
		return "construct name '" + got + "' given for unnamed construct"
	}
	if got == "" {
		return "missing construct name '" + want + "'"
	}
	return "construct name '" + got + "' does not match '" + want + "'"
}

func constructName(blk *ast.Block) string {
	if blk.Begin == nil {
		return ""
	}
	return blk.Begin.Info().ConstructName
}

// unitName returns the name declared by the begin statement of a program
// unit, interface or derived type.
func unitName(begin ast.Statement) string {
	switch st := begin.(type) {
	case *ast.ProgramStmt:
		return st.Name
	case *ast.SubroutineStmt:
		return st.Name
	case *ast.FunctionStmt:
		return st.Name
	case *ast.NamedStmt:
		return st.Name
	case *ast.TypeStmt:
		return st.Name
	}
	return ""
}

// finish checks the stack at end of input. An implicit main program may
// end without END.
func (b *builder) finish() error {
	f := b.top()
	if f == nil {
		return nil
	}
	if f.implicit && len(b.stack) == 1 {
		b.pop()
		return nil
	}
	info := f.block.Info()
	return &UnterminatedBlockError{
		sp:    sourcePos{Source: b.lr.source, Line: info.Source.Line, Col: info.Source.Col},
		Block: f.c.Name,
		Text:  info.Source.Text,
	}
}

// trace logs the open blocks, innermost last.
func (b *builder) trace() {
	for i, f := range b.stack {
		info := f.block.Info()
		b.rep.Log(slog.LevelDebug, "open block at abort",
			slog.Int("depth", i),
			slog.String("block", f.c.Name),
			slog.String("begin", info.Source.Text),
			slog.String("line", strconv.Itoa(info.Source.Line)),
		)
	}
}
