package fparser

import (
	"errors"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// formatLexer tokenizes the parenthesized list of a FORMAT statement.
var formatLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `'(?:[^']|'')*'|"(?:[^"]|"")*"`},
	{Name: "Descriptor", Pattern: `(?i)[0-9]*[a-z]+[0-9]*(?:\.[0-9]+)?(?:e[0-9]+)?`},
	{Name: "Count", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[(),/:*$]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var (
	formatWhitespace = formatLexer.Symbols()["Whitespace"]
	formatString     = formatLexer.Symbols()["String"]
	formatPunct      = formatLexer.Symbols()["Punct"]
)

var errFormat = errors.New("malformed format specification")

// formatItems splits a "(...)" format specification into its top level
// edit descriptors, rendered in upper case. Nested groups render as
// "2(I3, /)". Strings keep their spelling.
func formatItems(spec string) ([]string, error) {
	lex, err := formatLexer.LexString("", spec)
	if err != nil {
		return nil, err
	}
	var toks []lexer.Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF() {
			break
		}
		if tok.Type != formatWhitespace {
			toks = append(toks, tok)
		}
	}
	if len(toks) < 2 || toks[0].Value != "(" {
		return nil, errFormat
	}
	fp := formatParser{toks: toks, pos: 1}
	items, err := fp.group()
	if err != nil {
		return nil, err
	}
	if fp.pos != len(toks) {
		return nil, errFormat
	}
	return items, nil
}

type formatParser struct {
	toks []lexer.Token
	pos  int
}

// group parses items up to and including the closing parenthesis.
func (fp *formatParser) group() ([]string, error) {
	var (
		items []string
		cur   strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			items = append(items, cur.String())
			cur.Reset()
		}
	}
	for fp.pos < len(fp.toks) {
		tok := fp.toks[fp.pos]
		fp.pos++
		switch {
		case tok.Type == formatString:
			cur.WriteString(tok.Value)
		case tok.Type != formatPunct:
			cur.WriteString(strings.ToUpper(tok.Value))
		case tok.Value == ")":
			flush()
			return items, nil
		case tok.Value == ",":
			flush()
		case tok.Value == "(":
			inner, err := fp.group()
			if err != nil {
				return nil, err
			}
			cur.WriteByte('(')
			cur.WriteString(strings.Join(inner, ", "))
			cur.WriteByte(')')
		case tok.Value == "*":
			cur.WriteByte('*')
		default: // '/', ':' and '$' are items of their own.
			flush()
			items = append(items, tok.Value)
		}
	}
	return nil, errFormat
}
