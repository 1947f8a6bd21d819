package fparser

import (
	"strings"

	"github.com/soypat/go-fparser/token"
)

// This lexer is in the style of the Lexer described in "Writing An Interpreter In Go"
// by Thorsten Ball https://monkeylang.org/

// Lexer tokenizes the text of a single Fortran expression or expression list.
// Continuation lines and comments were already removed by the line reader,
// so the lexer works on one string.
type Lexer struct {
	input  string
	pos    int  // position of ch.
	ch     byte // current character, 0 at end of input.
	parens int  // '(' minus ')' seen so far.
	arrays int  // open '(/' constructors.
}

// Reset discards all state and begins lexing input.
func (l *Lexer) Reset(input string) {
	*l = Lexer{input: input, pos: -1}
	l.readChar()
}

// Pos returns the byte offset of the current character.
func (l *Lexer) Pos() int { return l.pos }

// Parens returns the parentheses depth at the current position.
func (l *Lexer) Parens() int { return l.parens }

// Rest returns the input from the current position on.
func (l *Lexer) Rest() string {
	if l.pos >= len(l.input) {
		return ""
	}
	return l.input[l.pos:]
}

// NextToken parses the upcoming token and returns the literal representation
// of the token for identifiers, literals and defined operators. Literals
// are substrings of the input and keep their original spelling.
func (l *Lexer) NextToken() (tok token.Token, startPos int, literal string) {
	l.skipWhitespace()
	startPos = l.pos
	if l.ch == 0 && l.pos >= len(l.input) {
		return token.EOF, startPos, ""
	}
	ch := l.ch
	switch ch {
	case '=':
		switch l.peekChar() {
		case '>':
			tok = token.PointerAssign
			l.readChar()
		case '=':
			tok = token.EqEq
			l.readChar()
		default:
			tok = token.Equals
		}
		l.readChar()
	case '+':
		tok = token.Plus
		l.readChar()
	case '-':
		tok = token.Minus
		l.readChar()
	case '*':
		tok = token.Asterisk
		if l.peekChar() == '*' {
			tok = token.DoubleStar
			l.readChar()
		}
		l.readChar()
	case '/':
		switch next := l.peekChar(); {
		case next == '=':
			tok = token.NotEquals
			l.readChar()
		case next == '/':
			tok = token.StringConcat
			l.readChar()
		case next == ')' && l.arrays > 0:
			tok = token.RArray
			l.arrays--
			l.parens--
			l.readChar()
		default:
			tok = token.Slash
		}
		l.readChar()
	case '<':
		tok = token.Less
		if l.peekChar() == '=' {
			tok = token.LessEq
			l.readChar()
		}
		l.readChar()
	case '>':
		tok = token.Greater
		if l.peekChar() == '=' {
			tok = token.GreaterEq
			l.readChar()
		}
		l.readChar()
	case '(':
		tok = token.LParen
		l.parens++
		if l.peekChar() == '/' && l.peek2Char() != '/' && l.peek2Char() != '=' {
			tok = token.LArray
			l.arrays++
			l.readChar()
		}
		l.readChar()
	case ')':
		tok = token.RParen
		l.parens--
		l.readChar()
	case ',':
		tok = token.Comma
		l.readChar()
	case ':':
		tok = token.Colon
		if l.peekChar() == ':' {
			tok = token.DoubleColon
			l.readChar()
		}
		l.readChar()
	case ';':
		tok = token.Semicolon
		l.readChar()
	case '[':
		tok = token.LBracket
		l.readChar()
	case ']':
		tok = token.RBracket
		l.readChar()
	case '%':
		tok = token.Percent
		l.readChar()
	case '\'', '"':
		if !l.readString(ch) {
			return token.Illegal, startPos, l.input[startPos:l.pos]
		}
		tok = token.StringLit
	case '.':
		// Could be a decimal number, a logical operator, or logical constant
		next := l.peekChar()
		if isDigit(next) {
			l.readNumber()
			tok = token.FloatLit
			if l.ch == '_' {
				l.readKindSpecifier()
			}
		} else if isLetter(next) {
			name := l.readDotOperator()
			tok = token.LookupDotOperator([]byte(name))
			if (tok == token.TRUE || tok == token.FALSE) && l.ch == '_' {
				l.readKindSpecifier()
			}
		} else {
			tok = token.Illegal
			l.readChar()
		}
	default:
		switch {
		case isLetter(ch):
			l.readIdentifier()
			literal = l.input[startPos:l.pos]
			tok = token.Identifier
			if l.ch == '\'' || l.ch == '"' {
				if len(literal) == 1 && strings.IndexByte("bBoOzZ", literal[0]) >= 0 {
					if !l.readBOZLiteral() {
						return token.Illegal, startPos, l.input[startPos:l.pos]
					}
					tok = token.BOZLit
				} else if strings.HasSuffix(literal, "_") {
					// Kind parameter prefix: kind_'text'.
					if !l.readString(l.ch) {
						return token.Illegal, startPos, l.input[startPos:l.pos]
					}
					tok = token.StringLit
				}
			}
		case isDigit(ch):
			tok = token.IntLit
			if l.readNumber() {
				tok = token.FloatLit
			}
			if l.ch == '_' {
				l.readKindSpecifier()
				if strings.HasSuffix(l.input[startPos:l.pos], "_") && (l.ch == '\'' || l.ch == '"') {
					if !l.readString(l.ch) {
						return token.Illegal, startPos, l.input[startPos:l.pos]
					}
					tok = token.StringLit
				}
			}
		default:
			tok = token.Illegal
			l.readChar()
		}
	}
	return tok, startPos, l.input[startPos:l.pos]
}

func (l *Lexer) readIdentifier() {
	for isNameByte(l.ch) {
		l.readChar()
	}
}

// readString consumes a quoted string, doubled quotes included. It reports
// false for an unterminated string.
func (l *Lexer) readString(quote byte) bool {
	l.readChar() // consume opening quote
	for l.pos < len(l.input) {
		if l.ch == quote {
			if l.peekChar() == quote {
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // consume closing quote
			return true
		}
		l.readChar()
	}
	return false
}

// readBOZLiteral reads the quoted digits of a Z'...', O'...' or B'...' constant.
func (l *Lexer) readBOZLiteral() bool {
	quote := l.ch
	l.readChar()
	digits := 0
	for l.pos < len(l.input) && l.ch != quote {
		if !isHexDigit(l.ch) {
			return false
		}
		digits++
		l.readChar()
	}
	if l.ch != quote || digits == 0 {
		return false
	}
	l.readChar()
	return true
}

func (l *Lexer) readDotOperator() string {
	l.readChar() // consume opening '.'
	start := l.pos
	for isLetter(l.ch) || l.ch == '_' && isLetter(l.peekChar()) {
		l.readChar()
	}
	name := l.input[start:l.pos]
	if l.ch != '.' {
		return ""
	}
	l.readChar() // consume closing '.'
	return name
}

// readNumber reads digits with an optional fraction and exponent and
// reports whether the number is real.
func (l *Lexer) readNumber() (isFloat bool) {
	for {
		ch := l.ch
		if isDigit(ch) {
			l.readChar()
			continue
		}
		if !isFloat && ch == '.' {
			// Peek at what comes after the '.'
			// The '.' is part of the number if next is:
			// - a digit (e.g., 1.5)
			// - E/D/Q for exponent (e.g., 1.E5, 100.D0, 1.Q0)
			// - whitespace/operator (e.g., 1. + 2)
			// The '.' is NOT part of the number if next is:
			// - a letter that's not E/D/Q (e.g., 1.OR., 1.AND.)
			// - E/D/Q followed by a letter (e.g., 1.EQ.1, 1.OR.x)
			next := l.peekChar()
			if isLetter(next) {
				if !isExponentLetter(next) {
					break
				}
				peek2 := l.peek2Char()
				if !isDigit(peek2) && peek2 != '+' && peek2 != '-' {
					break
				}
			}
			isFloat = true
			l.readChar()
			continue
		}
		if isExponentLetter(ch) {
			next := l.peekChar()
			if !isDigit(next) && !((next == '+' || next == '-') && isDigit(l.peek2Char())) {
				break
			}
			isFloat = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
		break
	}
	return isFloat
}

// readKindSpecifier reads a kind specifier after a literal (e.g., _INT32, _8, _REAL64).
// The underscore has already been detected, this function consumes it and the kind value.
func (l *Lexer) readKindSpecifier() {
	l.readChar()
	for isNameByte(l.ch) {
		l.readChar()
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) readChar() {
	l.pos++
	if l.pos >= len(l.input) {
		l.pos = len(l.input)
		l.ch = 0
		return
	}
	l.ch = l.input[l.pos]
}

func (l *Lexer) peekChar() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

// peek2Char looks two characters ahead without consuming. It is used to
// disambiguate patterns like 1.EQ.1 and 1.E5.
func (l *Lexer) peek2Char() byte {
	if l.pos+2 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+2]
}

func isExponentLetter(ch byte) bool {
	switch ch {
	case 'E', 'e', 'D', 'd', 'Q', 'q':
		return true
	}
	return false
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
