package fparser

import (
	"context"
	"log/slog"
	"strconv"
)

// LevelCritical is the severity used when parsing aborts.
const LevelCritical = slog.Level(12)

// LevelString returns the conventional upper-case severity name of l,
// CRITICAL included.
func LevelString(l slog.Level) string {
	if l >= LevelCritical {
		return "CRITICAL"
	}
	return l.String()
}

// ReplaceLevel is a [slog.HandlerOptions] ReplaceAttr function that prints
// [LevelCritical] as CRITICAL.
func ReplaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(LevelString(l))
		}
	}
	return a
}

// Diagnostic is a warning or error condition encountered during a parse.
type Diagnostic struct {
	Level   slog.Level
	Message string
	Source  string
	Line    int
	Col     int
	Text    string // offending source text.
}

func (d Diagnostic) String() string {
	sp := sourcePos{Source: d.Source, Line: d.Line, Col: d.Col}
	b := sp.AppendString(nil)
	b = append(b, ": "...)
	b = append(b, LevelString(d.Level)...)
	b = append(b, ": "...)
	b = append(b, d.Message...)
	return string(b)
}

// reporter logs through an optional logger and collects diagnostics of
// warning severity and above. The zero value discards everything.
type reporter struct {
	L     *slog.Logger
	diags *[]Diagnostic
}

func (r reporter) with(component string) reporter {
	if r.L != nil {
		r.L = r.L.With(slog.String("component", component))
	}
	return r
}

// Log logs msg at level when a logger is set.
func (r reporter) Log(level slog.Level, msg string, attrs ...slog.Attr) {
	if r.L == nil || !r.L.Enabled(context.Background(), level) {
		return
	}
	r.L.LogAttrs(context.Background(), level, msg, attrs...)
}

// report logs a diagnostic tied to a source position and records it.
func (r reporter) report(level slog.Level, source string, line, col int, text, msg string) {
	if level >= slog.LevelWarn && r.diags != nil {
		*r.diags = append(*r.diags, Diagnostic{
			Level: level, Message: msg, Source: source, Line: line, Col: col, Text: text,
		})
	}
	r.Log(level, msg,
		slog.String("pos", source+":"+strconv.Itoa(line)),
		slog.String("text", text),
	)
}

func (r reporter) warnLine(ln *Line, msg string) {
	r.report(slog.LevelWarn, ln.Source, ln.LineNo, ln.Col, ln.Text, msg)
}
