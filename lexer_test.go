package fparser

import (
	"testing"

	"github.com/soypat/go-fparser/token"
)

type testtoktuple struct {
	tok     token.Token
	literal string
}

func TestLexer_tokens(t *testing.T) {
	cases := []struct {
		src    string
		expect []testtoktuple
	}{
		0: {
			src: "IF(ILY.EQ.1.OR.ID.LT.366) GO TO 5",
			expect: []testtoktuple{
				{token.Identifier, "IF"},
				{token.LParen, "("},
				{token.Identifier, "ILY"},
				{token.EQ, ".EQ."},
				{token.IntLit, "1"},
				{token.OR, ".OR."},
				{token.Identifier, "ID"},
				{token.LT, ".LT."},
				{token.IntLit, "366"},
				{token.RParen, ")"},
				{token.Identifier, "GO"},
				{token.Identifier, "TO"},
				{token.IntLit, "5"},
			},
		},
		1: {
			src: "X = 100.D0 + 1.E5_8",
			expect: []testtoktuple{
				{token.Identifier, "X"},
				{token.Equals, "="},
				{token.FloatLit, "100.D0"},
				{token.Plus, "+"},
				{token.FloatLit, "1.E5_8"},
			},
		},
		2: {
			src: "a(/1,2/) // 'it''s'",
			expect: []testtoktuple{
				{token.Identifier, "a"},
				{token.LArray, "(/"},
				{token.IntLit, "1"},
				{token.Comma, ","},
				{token.IntLit, "2"},
				{token.RArray, "/)"},
				{token.StringConcat, "//"},
				{token.StringLit, "'it''s'"},
			},
		},
		3: {
			src: "Z'FF' .myop. b",
			expect: []testtoktuple{
				{token.BOZLit, "Z'FF'"},
				{token.DefinedOp, ".myop."},
				{token.Identifier, "b"},
			},
		},
		4: {
			src: ".true._1 .and. x**2 /= 3",
			expect: []testtoktuple{
				{token.TRUE, ".true._1"},
				{token.AND, ".and."},
				{token.Identifier, "x"},
				{token.DoubleStar, "**"},
				{token.IntLit, "2"},
				{token.NotEquals, "/="},
				{token.IntLit, "3"},
			},
		},
		5: {
			src: "a%b(1:2)",
			expect: []testtoktuple{
				{token.Identifier, "a"},
				{token.Percent, "%"},
				{token.Identifier, "b"},
				{token.LParen, "("},
				{token.IntLit, "1"},
				{token.Colon, ":"},
				{token.IntLit, "2"},
				{token.RParen, ")"},
			},
		},
		6: {
			src: "p => q",
			expect: []testtoktuple{
				{token.Identifier, "p"},
				{token.PointerAssign, "=>"},
				{token.Identifier, "q"},
			},
		},
	}
	var l Lexer
	for i, tc := range cases {
		l.Reset(tc.src)
		for j, want := range tc.expect {
			tok, _, lit := l.NextToken()
			if tok != want.tok || lit != want.literal {
				t.Errorf("case %d token %d: got %s %q, want %s %q", i, j, tok, lit, want.tok, want.literal)
				break
			}
		}
		if tok, _, lit := l.NextToken(); tok != token.EOF {
			t.Errorf("case %d: expected EOF, got %s %q", i, tok, lit)
		}
	}
}

func TestLexer_illegal(t *testing.T) {
	for _, src := range []string{"'abc", "Z'GG'", "a ? b"} {
		var l Lexer
		l.Reset(src)
		illegal := false
		for {
			tok, _, _ := l.NextToken()
			if tok == token.EOF {
				break
			}
			if tok == token.Illegal {
				illegal = true
				break
			}
		}
		if !illegal {
			t.Errorf("%q: expected an illegal token", src)
		}
	}
}

func TestLexer_parens(t *testing.T) {
	var l Lexer
	l.Reset("(a(b) + c")
	for {
		tok, _, _ := l.NextToken()
		if tok == token.EOF {
			break
		}
	}
	if l.Parens() != 1 {
		t.Errorf("got paren depth %d, want 1", l.Parens())
	}
	if l.Rest() != "" {
		t.Errorf("got rest %q at EOF", l.Rest())
	}
}
