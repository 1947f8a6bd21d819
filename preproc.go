package fparser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/soypat/go-fparser/ast"
)

// directiveLexer splits preprocessor lines so that argument text can be
// normalized without touching quoted strings.
var directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Hash", Pattern: `#`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`},
	{Name: "Number", Pattern: `[0-9]+(?:\.[0-9]*)?`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
	{Name: "Punct", Pattern: `[^ \t]`},
})

var (
	directiveIdent      = directiveLexer.Symbols()["Ident"]
	directiveWhitespace = directiveLexer.Symbols()["Whitespace"]
)

var knownDirectives = map[string]bool{
	"include": true, "define": true, "undef": true, "ifdef": true,
	"ifndef": true, "if": true, "elif": true, "else": true, "endif": true,
	"error": true, "warning": true, "pragma": true, "line": true,
}

// parseDirective builds the directive node of a '#' line. Known directive
// names are lower-cased and their arguments have blank runs outside
// strings collapsed; unknown directives are kept verbatim.
func parseDirective(text string) *ast.Directive {
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "#"))
	lex, err := directiveLexer.LexString("", rest)
	if err != nil {
		return &ast.Directive{Args: rest}
	}
	var (
		d     ast.Directive
		b     strings.Builder
		first = true
		space = false
	)
	for {
		tok, err := lex.Next()
		if err != nil {
			return &ast.Directive{Args: rest}
		}
		if tok.EOF() {
			break
		}
		if first {
			first = false
			if tok.Type == directiveIdent && knownDirectives[strings.ToLower(tok.Value)] {
				d.Name = strings.ToLower(tok.Value)
				continue
			}
			if tok.Type == directiveIdent {
				d.Name = tok.Value
				d.Args = strings.TrimSpace(rest[len(tok.Value):])
				return &d
			}
		}
		if tok.Type == directiveWhitespace {
			space = b.Len() > 0
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteString(tok.Value)
	}
	d.Args = b.String()
	return &d
}
