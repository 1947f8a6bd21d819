package token

import "bytes"

// Token identifies a lexical element of a Fortran expression.
// Statement keywords are recognised by the statement rules, not by the lexer,
// so the set below only covers what can appear inside an expression.
type Token int

// List of all expression tokens.
// When adding a new token add it in between blocks since we use comparison functions to check properties of tokens.
const (
	// Not to be used in code. Is to catch uninitialized tokens.
	Undefined Token = iota // <undefined>

	// ==================== OPERATORS ====================

	// Arithmetic operators
	Plus       // +
	Minus      // -
	Asterisk   // *
	Slash      // /
	DoubleStar // **

	// Assignment operators
	Equals        // =
	PointerAssign // =>

	// Relational operators (Fortran 77 style)
	EQ // .EQ.
	NE // .NE.
	LT // .LT.
	LE // .LE.
	GT // .GT.
	GE // .GE.

	// Relational operators (Fortran 90 style)
	EqEq      // ==
	NotEquals // /=
	Less      // <
	LessEq    // <=
	Greater   // >
	GreaterEq // >=

	// Logical operators
	AND  // .AND.
	OR   // .OR.
	NOT  // .NOT.
	EQV  // .EQV.
	NEQV // .NEQV.

	// String operator
	StringConcat // //

	// User defined operator such as .cross.; the literal carries the name.
	DefinedOp // <definedop>

	// ==================== DELIMITERS / PUNCTUATION ====================

	LParen      // (
	RParen      // )
	Comma       // ,
	Colon       // :
	DoubleColon // ::
	Semicolon   // ;
	LBracket    // [
	RBracket    // ]
	LArray      // (/
	RArray      // /)
	Percent     // %

	// ==================== LITERALS ====================

	// Logical constants
	TRUE  // .TRUE.
	FALSE // .FALSE.

	Identifier // <identifier>
	IntLit     // <integer>
	FloatLit   // <float>
	StringLit  // <string>
	BOZLit     // <boz>

	// ==================== SPECIAL TOKENS ====================

	EOF     // <EOF>
	Illegal // <illegal>
	numToks
)

var tokNames = [numToks]string{
	Undefined:     "<undefined>",
	Plus:          "+",
	Minus:         "-",
	Asterisk:      "*",
	Slash:         "/",
	DoubleStar:    "**",
	Equals:        "=",
	PointerAssign: "=>",
	EQ:            ".EQ.",
	NE:            ".NE.",
	LT:            ".LT.",
	LE:            ".LE.",
	GT:            ".GT.",
	GE:            ".GE.",
	EqEq:          "==",
	NotEquals:     "/=",
	Less:          "<",
	LessEq:        "<=",
	Greater:       ">",
	GreaterEq:     ">=",
	AND:           ".AND.",
	OR:            ".OR.",
	NOT:           ".NOT.",
	EQV:           ".EQV.",
	NEQV:          ".NEQV.",
	StringConcat:  "//",
	DefinedOp:     "<definedop>",
	LParen:        "(",
	RParen:        ")",
	Comma:         ",",
	Colon:         ":",
	DoubleColon:   "::",
	Semicolon:     ";",
	LBracket:      "[",
	RBracket:      "]",
	LArray:        "(/",
	RArray:        "/)",
	Percent:       "%",
	TRUE:          ".TRUE.",
	FALSE:         ".FALSE.",
	Identifier:    "<identifier>",
	IntLit:        "<integer>",
	FloatLit:      "<float>",
	StringLit:     "<string>",
	BOZLit:        "<boz>",
	EOF:           "<EOF>",
	Illegal:       "<illegal>",
}

// String returns the source representation of operators and delimiters and
// a bracketed class name for everything else.
func (tok Token) String() string {
	if tok < 0 || tok >= numToks {
		return "<invalid token>"
	}
	return tokNames[tok]
}

// IsOperator returns true if the token is an operator.
func (tok Token) IsOperator() bool {
	return tok >= Plus && tok <= DefinedOp
}

// IsRelational returns true for comparison operators in either spelling.
func (tok Token) IsRelational() bool {
	return tok >= EQ && tok <= GreaterEq
}

// IsDotOperator returns true for operators spelled between periods.
func (tok Token) IsDotOperator() bool {
	return (tok >= EQ && tok <= GE) || (tok >= AND && tok <= NEQV) || tok == DefinedOp
}

// IsDelimiter returns true if the token is a delimiter or punctuation.
func (tok Token) IsDelimiter() bool {
	return tok >= LParen && tok <= Percent
}

// IsLiteral returns true if the token is a literal value (logical constant or user-defined literal).
func (tok Token) IsLiteral() bool {
	return tok >= TRUE && tok <= BOZLit && tok != Identifier
}

func (tok Token) IsIllegalOrEOF() bool {
	return tok == EOF || tok == Illegal
}

// LookupDotOperator checks if the internal characters in a dot operator
// match with a token. Returns [DefinedOp] for any other letter sequence.
func LookupDotOperator(ident []byte) Token {
	upper := bytes.ToUpper(ident)
	switch string(upper) {
	case "TRUE":
		return TRUE
	case "FALSE":
		return FALSE
	case "EQ":
		return EQ
	case "NE":
		return NE
	case "LT":
		return LT
	case "LE":
		return LE
	case "GT":
		return GT
	case "GE":
		return GE
	case "AND":
		return AND
	case "OR":
		return OR
	case "NOT":
		return NOT
	case "EQV":
		return EQV
	case "NEQV":
		return NEQV
	}
	if len(ident) == 0 {
		return Illegal
	}
	return DefinedOp
}
