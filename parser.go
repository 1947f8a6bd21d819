package fparser

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soypat/go-fparser/ast"
)

// Options configures a parse.
type Options struct {
	// Mode selects fixed or free form and strictness.
	Mode Mode
	// Logger receives diagnostics. Nil uses [slog.Default].
	Logger *slog.Logger
	// Registry holds the grammar. Nil uses [DefaultRegistry]. An unsealed
	// registry is sealed by the parse.
	Registry *Registry
	// Source names the input in positions and diagnostics.
	Source string
	// KeepComments keeps comment lines as [ast.Comment] statements.
	KeepComments bool
}

// Parse parses a whole Fortran source.
func Parse(src string, opts Options) (*ast.File, error) {
	var p Parser
	if err := p.Reset(opts.Source, strings.NewReader(src), opts); err != nil {
		return nil, err
	}
	return p.Parse()
}

// Parser parses one source at a time. The zero value is ready for Reset.
// A Parser is not safe for concurrent use; parsers sharing a sealed
// registry may run concurrently.
type Parser struct {
	source string
	src    string
	opts   Options
	reg    *Registry
	diags  []Diagnostic

	maxStatements int
}

// Reset reads r and prepares the parser for a new parse of source.
func (p *Parser) Reset(source string, r io.Reader, opts Options) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading %s: %w", source, err)
	}
	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry()
	} else if err := reg.Seal(); err != nil {
		return err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if p.maxStatements == 0 {
		p.maxStatements = 1_000_000
	}
	opts.Source = source
	*p = Parser{
		source:        source,
		src:           string(b),
		opts:          opts,
		reg:           reg,
		diags:         p.diags[:0], // Reuse slice, clear contents.
		maxStatements: p.maxStatements,
	}
	return nil
}

// Diagnostics returns the warnings and errors recorded by the last Parse.
func (p *Parser) Diagnostics() []Diagnostic { return p.diags }

// Parse parses the source given to Reset. All errors abort the parse; the
// error carries the position and text of the offending line.
func (p *Parser) Parse() (file *ast.File, err error) {
	rep := reporter{L: p.opts.Logger, diags: &p.diags}
	file = &ast.File{Source: p.source}
	if strings.TrimSpace(p.src) == "" {
		rep.Log(slog.LevelInfo, "Nothing to analyze.", slog.String("source", p.source))
		return file, nil
	}
	b := newBuilder(p.reg, rep, file, p.opts.KeepComments)
	b.lr.reset(p.source, p.src, p.opts.Mode, rep.with("lines"))
	b.max = p.maxStatements
	defer func() {
		if r := recover(); r != nil {
			err = &InternalSyntaxError{sp: linePos(&b.last), Text: b.last.Text, Msg: "panicked while parsing: " + fmt.Sprint(r)}
			b.abort(err)
			file = nil
		}
	}()
	if err = b.run(); err != nil {
		b.abort(err)
		return nil, err
	}
	return file, nil
}

// abort logs the open blocks at debug severity and the abort summary at
// critical severity.
func (b *builder) abort(err error) {
	b.trace()
	text, line := b.last.Text, b.last.LineNo
	var ube *UnterminatedBlockError
	if errors.As(err, &ube) {
		text, line = ube.Text, ube.Line()
	}
	b.rep.Log(slog.LevelDebug, "parse failed", slog.String("err", err.Error()))
	b.rep.report(LevelCritical, b.lr.source, line, 0, text, "While processing '"+text+"' (line "+strconv.Itoa(line)+")")
	b.rep.report(LevelCritical, b.lr.source, line, 0, text, "STOPPED PARSING")
}

// ParseStatement matches one logical line of free-form text in the context
// of the named construct of the default registry, as if it appeared in the
// body of such a block. Constructs opened by the statement are not
// required to be closed.
func ParseStatement(text string, mode Mode, block string) (ast.Statement, error) {
	st, _, err := ParseStatementWith(text, block, Options{Mode: mode})
	return st, err
}

// ParseStatementWith is like [ParseStatement] with the registry and logger
// taken from opts. It returns the diagnostics recorded while matching, such
// as the inline comment retry warning.
func ParseStatementWith(text, block string, opts Options) (ast.Statement, []Diagnostic, error) {
	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry()
	} else if err := reg.Seal(); err != nil {
		return nil, nil, err
	}
	c := reg.Construct(block)
	if c == nil {
		return nil, nil, fmt.Errorf("unknown block %q", block)
	}
	ln := Line{Kind: LineStatement, Text: strings.TrimSpace(text), Source: opts.Source, Mode: opts.Mode, LineNo: 1, Col: 1, EndLine: 1}
	if name, rest, ok := constructPrefix(ln.Text); ok {
		ln.Name, ln.Text = name, strings.TrimSpace(rest)
	}
	// Free form drops inline comments like the line reader does; fixed form
	// keeps them for the matcher's retry.
	if i := indexTop(ln.Text, "!"); i > 0 {
		if opts.Mode.Free {
			ln.Text = strings.TrimSpace(ln.Text[:i])
		} else {
			ln.Comment = strings.TrimSpace(ln.Text[i:])
			ln.Text = strings.TrimSpace(ln.Text[:i]) + " " + ln.Comment
		}
	}
	var diags []Diagnostic
	mt := newMatcher(reg, reporter{L: opts.Logger, diags: &diags}.with("matcher"))
	mt.scope = newScope(nil)
	rules := reg.RulesFor(block)
	if c.End != nil {
		rules = append([]*Rule{c.End}, rules...)
	}
	st, _, err := mt.match(&ln, rules, block)
	return st, diags, err
}
