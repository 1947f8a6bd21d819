package fparser

import (
	"errors"
	"strconv"

	"github.com/soypat/go-fparser/intrinsic"
)

// errInvalid is returned by rule constructors that reject their match so
// the matcher tries the next candidate.
var errInvalid = errors.New("invalid statement")

type sourcePos struct {
	Source string
	Line   int
	Col    int
}

func (l *sourcePos) String() string {
	return string(l.AppendString(nil))
}

func (l *sourcePos) AppendString(b []byte) []byte {
	if b == nil {
		b = make([]byte, 0, len(l.Source)+3+3)
	}
	b = append(b, l.Source...)
	b = append(b, ':')
	b = strconv.AppendInt(b, int64(l.Line), 10)
	if l.Col > 0 {
		b = append(b, ':')
		b = strconv.AppendInt(b, int64(l.Col), 10)
	}
	return b
}

func linePos(ln *Line) sourcePos {
	return sourcePos{Source: ln.Source, Line: ln.LineNo, Col: ln.Col}
}

func appendError(sp sourcePos, msg string) string {
	var dst []byte
	dst = sp.AppendString(dst)
	dst = append(dst, ':', ' ')
	dst = append(dst, msg...)
	return string(dst)
}

// MalformedLineError reports inconsistent continuation or column layout.
type MalformedLineError struct {
	sp   sourcePos
	Text string // offending physical line.
	Msg  string
}

func (e *MalformedLineError) Error() string { return appendError(e.sp, e.Msg) }

// Line returns the 1-based line number of the offending line.
func (e *MalformedLineError) Line() int { return e.sp.Line }

// NoMatchError reports a statement no grammar rule matched.
type NoMatchError struct {
	sp    sourcePos
	Text  string // statement text as read.
	Block string // name of the enclosing block, e.g. "Subroutine".
}

func (e *NoMatchError) Error() string { return appendError(e.sp, e.Message()) }

// Message returns the error message without position.
func (e *NoMatchError) Message() string {
	return noMatchMessage(e.Text, e.Block) + "."
}

// Line returns the 1-based line number of the statement.
func (e *NoMatchError) Line() int { return e.sp.Line }

func noMatchMessage(text, block string) string {
	return "no parse pattern found for '" + lower(text) + "' in '" + block + "' block"
}

// InternalSyntaxError reports a statement that matched a rule but failed a
// check during construction, such as an intrinsic called with the wrong
// number of arguments or a mismatched construct name.
type InternalSyntaxError struct {
	sp   sourcePos
	Text string
	Msg  string
	err  error
}

func (e *InternalSyntaxError) Error() string { return appendError(e.sp, e.Msg) }

// Unwrap returns the underlying error, an *intrinsic.ArityError for arity failures.
func (e *InternalSyntaxError) Unwrap() error { return e.err }

// Line returns the 1-based line number of the statement.
func (e *InternalSyntaxError) Line() int { return e.sp.Line }

// UnterminatedBlockError reports input exhausted while a block was open.
type UnterminatedBlockError struct {
	sp sourcePos
	// Block is the name of the open construct.
	Block string
	// Text is the statement that opened the block.
	Text string
}

func (e *UnterminatedBlockError) Error() string {
	return appendError(e.sp, "unterminated '"+e.Block+"' block started at line "+strconv.Itoa(e.sp.Line)+": "+e.Text)
}

// Line returns the 1-based line number where the open block started.
func (e *UnterminatedBlockError) Line() int { return e.sp.Line }

// syntaxError wraps a fatal construction failure with the statement's position.
func syntaxError(ln *Line, err error) error {
	var ise *InternalSyntaxError
	if errors.As(err, &ise) {
		if ise.sp.Line == 0 {
			ise.sp = linePos(ln)
			ise.Text = ln.Text
		}
		return ise
	}
	return &InternalSyntaxError{sp: linePos(ln), Text: ln.Text, Msg: err.Error(), err: err}
}

// isFatal reports whether err returned by a rule constructor must abort the
// parse instead of letting the matcher try the next candidate.
func isFatal(err error) bool {
	var ae *intrinsic.ArityError
	var ise *InternalSyntaxError
	return errors.As(err, &ae) || errors.As(err, &ise)
}
