package ast

import (
	"strings"

	"github.com/soypat/go-fparser/token"
)

// Identifier represents a name reference.
type Identifier struct {
	Name string
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) Kind() Kind      { return KindIdentifier }
func (i *Identifier) AppendString(dst []byte) []byte {
	return append(dst, i.Name...)
}

// IntegerLiteral keeps the literal as written, kind suffix included.
type IntegerLiteral struct {
	Raw string
}

func (il *IntegerLiteral) expressionNode() {}
func (il *IntegerLiteral) Kind() Kind      { return KindIntegerLiteral }
func (il *IntegerLiteral) AppendString(dst []byte) []byte {
	return append(dst, il.Raw...)
}

// RealLiteral represents a floating-point literal
type RealLiteral struct {
	Raw string
}

func (rl *RealLiteral) expressionNode() {}
func (rl *RealLiteral) Kind() Kind      { return KindRealLiteral }
func (rl *RealLiteral) AppendString(dst []byte) []byte {
	return append(dst, rl.Raw...)
}

// StringLiteral holds a character constant including its delimiters.
type StringLiteral struct {
	Raw string // as written, e.g. 'it''s'
}

func (sl *StringLiteral) expressionNode() {}
func (sl *StringLiteral) Kind() Kind      { return KindStringLiteral }
func (sl *StringLiteral) AppendString(dst []byte) []byte {
	return append(dst, sl.Raw...)
}

// Value returns the string contents with delimiters removed and doubled quotes collapsed.
func (sl *StringLiteral) Value() string {
	raw := sl.Raw
	if i := strings.IndexAny(raw, `'"`); i >= 0 {
		raw = raw[i:]
	}
	if len(raw) < 2 {
		return raw
	}
	q := raw[:1]
	return strings.ReplaceAll(raw[1:len(raw)-1], q+q, q)
}

// LogicalLiteral represents .TRUE. or .FALSE.
type LogicalLiteral struct {
	Value     bool
	KindParam string // optional kind, as in .TRUE._4
}

func (ll *LogicalLiteral) expressionNode() {}
func (ll *LogicalLiteral) Kind() Kind      { return KindLogicalLiteral }
func (ll *LogicalLiteral) AppendString(dst []byte) []byte {
	if ll.Value {
		dst = append(dst, ".TRUE."...)
	} else {
		dst = append(dst, ".FALSE."...)
	}
	if ll.KindParam != "" {
		dst = append(dst, '_')
		dst = append(dst, ll.KindParam...)
	}
	return dst
}

// BOZLiteral is a binary, octal or hexadecimal constant such as Z'FF'.
type BOZLiteral struct {
	Raw string
}

func (bl *BOZLiteral) expressionNode() {}
func (bl *BOZLiteral) Kind() Kind      { return KindBOZLiteral }
func (bl *BOZLiteral) AppendString(dst []byte) []byte {
	return append(dst, bl.Raw...)
}

// ComplexLiteral is a (re,im) constant.
type ComplexLiteral struct {
	Re, Im Expression
}

func (cl *ComplexLiteral) expressionNode() {}
func (cl *ComplexLiteral) Kind() Kind      { return KindComplexLiteral }
func (cl *ComplexLiteral) AppendString(dst []byte) []byte {
	dst = append(dst, '(')
	dst = cl.Re.AppendString(dst)
	dst = append(dst, ',')
	dst = cl.Im.AppendString(dst)
	return append(dst, ')')
}

// BinaryExpr represents a binary operation (e.g., a + b, x .GT. y)
type BinaryExpr struct {
	Op token.Token
	// OpName is the operator name without periods when Op is [token.DefinedOp].
	OpName string
	X, Y   Expression
}

func (be *BinaryExpr) expressionNode() {}
func (be *BinaryExpr) Kind() Kind      { return KindBinaryExpr }
func (be *BinaryExpr) AppendString(dst []byte) []byte {
	dst = be.X.AppendString(dst)
	dst = appendOp(dst, be.Op, be.OpName)
	return be.Y.AppendString(dst)
}

// UnaryExpr represents a unary operation (e.g., -x, +y, .NOT. flag)
type UnaryExpr struct {
	Op     token.Token
	OpName string
	X      Expression
}

func (ue *UnaryExpr) expressionNode() {}
func (ue *UnaryExpr) Kind() Kind      { return KindUnaryExpr }
func (ue *UnaryExpr) AppendString(dst []byte) []byte {
	dst = appendOp(dst, ue.Op, ue.OpName)
	return ue.X.AppendString(dst)
}

func appendOp(dst []byte, op token.Token, name string) []byte {
	if op == token.DefinedOp {
		dst = append(dst, '.')
		dst = append(dst, name...)
		return append(dst, '.')
	}
	return append(dst, op.String()...)
}

// ParenExpr represents a parenthesized expression
type ParenExpr struct {
	X Expression
}

func (pe *ParenExpr) expressionNode() {}
func (pe *ParenExpr) Kind() Kind      { return KindParenExpr }
func (pe *ParenExpr) AppendString(dst []byte) []byte {
	dst = append(dst, '(')
	dst = pe.X.AppendString(dst)
	return append(dst, ')')
}

// FunctionCall is a reference name(args) to something that is not a
// declared array nor an intrinsic.
type FunctionCall struct {
	Name string
	Args []Expression
}

func (fc *FunctionCall) expressionNode() {}
func (fc *FunctionCall) Kind() Kind      { return KindFunctionCall }
func (fc *FunctionCall) AppendString(dst []byte) []byte {
	dst = append(dst, fc.Name...)
	return appendArgs(dst, fc.Args, ",")
}

// ArrayRef is a subscripted reference to a name declared as an array in scope.
type ArrayRef struct {
	Name       string
	Subscripts []Expression
}

func (ar *ArrayRef) expressionNode() {}
func (ar *ArrayRef) Kind() Kind      { return KindArrayRef }
func (ar *ArrayRef) AppendString(dst []byte) []byte {
	dst = append(dst, ar.Name...)
	return appendArgs(dst, ar.Subscripts, ",")
}

// IntrinsicRef is a reference to an intrinsic function whose argument count
// was checked against the intrinsic table.
type IntrinsicRef struct {
	Name    string // upper-cased name as referenced, e.g. DSIN.
	Generic string // generic the name resolves to, e.g. SIN.
	Args    []Expression
}

func (ir *IntrinsicRef) expressionNode() {}
func (ir *IntrinsicRef) Kind() Kind      { return KindIntrinsicRef }
func (ir *IntrinsicRef) AppendString(dst []byte) []byte {
	dst = append(dst, ir.Name...)
	return appendArgs(dst, ir.Args, ", ")
}

// ComponentAccess represents derived type component selection base%field.
type ComponentAccess struct {
	Base  Expression
	Field string
}

func (ca *ComponentAccess) expressionNode() {}
func (ca *ComponentAccess) Kind() Kind      { return KindComponentAccess }
func (ca *ComponentAccess) AppendString(dst []byte) []byte {
	dst = ca.Base.AppendString(dst)
	dst = append(dst, '%')
	return append(dst, ca.Field...)
}

// SubscriptExpr applies a subscript or substring list to a non-name base,
// as in a%b(1) or s(i)(1:3).
type SubscriptExpr struct {
	Base Expression
	Args []Expression
}

func (se *SubscriptExpr) expressionNode() {}
func (se *SubscriptExpr) Kind() Kind      { return KindSubscriptExpr }
func (se *SubscriptExpr) AppendString(dst []byte) []byte {
	dst = se.Base.AppendString(dst)
	return appendArgs(dst, se.Args, ",")
}

// RangeExpr is a subscript triplet lo:hi:stride. Any part may be nil.
type RangeExpr struct {
	Lo, Hi, Stride Expression
}

func (re *RangeExpr) expressionNode() {}
func (re *RangeExpr) Kind() Kind      { return KindRangeExpr }
func (re *RangeExpr) AppendString(dst []byte) []byte {
	if re.Lo != nil {
		dst = re.Lo.AppendString(dst)
	}
	dst = append(dst, ':')
	if re.Hi != nil {
		dst = re.Hi.AppendString(dst)
	}
	if re.Stride != nil {
		dst = append(dst, ':')
		dst = re.Stride.AppendString(dst)
	}
	return dst
}

// KeywordArg is an actual argument of the form keyword=value.
type KeywordArg struct {
	Keyword string
	Value   Expression
}

func (ka *KeywordArg) expressionNode() {}
func (ka *KeywordArg) Kind() Kind      { return KindKeywordArg }
func (ka *KeywordArg) AppendString(dst []byte) []byte {
	dst = append(dst, ka.Keyword...)
	dst = append(dst, '=')
	return ka.Value.AppendString(dst)
}

// ArrayConstructor represents (/ ... /) or [ ... ].
type ArrayConstructor struct {
	Brackets bool // written with square brackets.
	Values   []Expression
}

func (ac *ArrayConstructor) expressionNode() {}
func (ac *ArrayConstructor) Kind() Kind      { return KindArrayConstructor }
func (ac *ArrayConstructor) AppendString(dst []byte) []byte {
	open, close := "(/", "/)"
	if ac.Brackets {
		open, close = "[", "]"
	}
	dst = append(dst, open...)
	dst = appendList(dst, ac.Values, ",")
	return append(dst, close...)
}

// ImpliedDoLoop is an (items, var=start,end[,step]) list in I/O lists,
// DATA statements and array constructors.
type ImpliedDoLoop struct {
	Items []Expression
	Var   string

	Start, End, Step Expression // Step may be nil.
}

func (id *ImpliedDoLoop) expressionNode() {}
func (id *ImpliedDoLoop) Kind() Kind      { return KindImpliedDoLoop }
func (id *ImpliedDoLoop) AppendString(dst []byte) []byte {
	dst = append(dst, '(')
	dst = appendList(dst, id.Items, ",")
	dst = append(dst, ',')
	dst = append(dst, id.Var...)
	dst = append(dst, '=')
	dst = id.Start.AppendString(dst)
	dst = append(dst, ',')
	dst = id.End.AppendString(dst)
	if id.Step != nil {
		dst = append(dst, ',')
		dst = id.Step.AppendString(dst)
	}
	return append(dst, ')')
}

// Star is the lone asterisk of list-directed formats, assumed sizes and
// assumed character lengths.
type Star struct{}

func (s *Star) expressionNode()                {}
func (s *Star) Kind() Kind                     { return KindStar }
func (s *Star) AppendString(dst []byte) []byte { return append(dst, '*') }

// AlternateReturnArg is a *label actual argument in a CALL statement.
type AlternateReturnArg struct {
	Label string
}

func (ar *AlternateReturnArg) expressionNode() {}
func (ar *AlternateReturnArg) Kind() Kind      { return KindAlternateReturnArg }
func (ar *AlternateReturnArg) AppendString(dst []byte) []byte {
	dst = append(dst, '*')
	return append(dst, ar.Label...)
}

func appendArgs(dst []byte, args []Expression, sep string) []byte {
	dst = append(dst, '(')
	dst = appendList(dst, args, sep)
	return append(dst, ')')
}

func appendList(dst []byte, list []Expression, sep string) []byte {
	for i, e := range list {
		if i > 0 {
			dst = append(dst, sep...)
		}
		dst = e.AppendString(dst)
	}
	return dst
}
