package fparser

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/soypat/go-fparser/ast"
)

// Match is a successful pattern match handed to a rule constructor.
type Match struct {
	Rule *Rule
	Line *Line
	// Text is the matched statement text, without label and construct name.
	Text string

	groups []int
	scope  *scope
	m      *matcher
}

// Get returns the trimmed text captured by the named group or "" if the
// group did not participate.
func (m *Match) Get(name string) string {
	i := m.Rule.re.SubexpIndex(name)
	if i < 0 {
		return ""
	}
	return m.Group(i)
}

// Has reports whether the named group participated in the match.
func (m *Match) Has(name string) bool {
	i := m.Rule.re.SubexpIndex(name)
	return i >= 0 && m.groups[2*i] >= 0
}

// Group returns the trimmed text of group i.
func (m *Match) Group(i int) string {
	if 2*i+1 >= len(m.groups) || m.groups[2*i] < 0 {
		return ""
	}
	return strings.TrimSpace(m.Text[m.groups[2*i]:m.groups[2*i+1]])
}

// Expr parses s as an expression in the statement's declaration scope.
func (m *Match) Expr(s string) (ast.Expression, error) { return parseExpr(s, m.scope) }

// ExprList parses comma separated expressions.
func (m *Match) ExprList(s string) ([]ast.Expression, error) { return parseExprList(s, m.scope) }

// Args parses comma separated arguments allowing keywords, ranges and '*'.
func (m *Match) Args(s string) ([]ast.Expression, error) { return parseArgList(s, m.scope) }

// Statement matches s as a nested action statement, as in the body of a
// logical IF. Only rules of the executable class that open no construct
// are tried.
func (m *Match) Statement(s string) (ast.Statement, error) {
	if m.m == nil {
		return nil, errInvalid
	}
	ln := *m.Line
	ln.Text, ln.Label, ln.Name, ln.Comment = strings.TrimSpace(s), "", "", ""
	for _, rule := range m.m.actions {
		st, err := m.m.try(rule, &ln, ln.Text)
		if err == nil {
			return st, nil
		}
		if isFatal(err) {
			return nil, err
		}
	}
	return nil, errInvalid
}

// matcher matches logical lines against the rules of a registry.
type matcher struct {
	reg   *Registry
	rep   reporter
	scope *scope
	// actions are the rules allowed as the action of IF, WHERE and FORALL statements.
	actions []*Rule
}

func newMatcher(reg *Registry, rep reporter) *matcher {
	m := &matcher{reg: reg, rep: rep}
	for _, rule := range reg.rules {
		if rule.Class&ClassExec != 0 && rule.Opens == "" {
			m.actions = append(m.actions, rule)
		}
	}
	return m
}

// try matches one rule against text and runs its constructor.
func (mt *matcher) try(rule *Rule, ln *Line, text string) (ast.Statement, error) {
	masked := maskStrings(text)
	groups := rule.re.FindStringSubmatchIndex(masked)
	if groups == nil {
		return nil, errInvalid
	}
	st, err := rule.Build(&Match{Rule: rule, Line: ln, Text: text, groups: groups, scope: mt.scope, m: mt})
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errInvalid
	}
	info := st.Info()
	info.Label = ln.Label
	info.ConstructName = ln.Name
	info.Source = ast.Source{Line: ln.LineNo, Col: ln.Col, EndLine: ln.EndLine, Text: ln.Text}
	return st, nil
}

// match finds the first rule among rules matching ln. When none does, the
// text carries an inline comment and the mode is lenient, the match is
// retried once without the comment.
func (mt *matcher) match(ln *Line, rules []*Rule, block string) (ast.Statement, *Rule, error) {
	st, rule, err := mt.matchText(ln, ln.Text, rules)
	if err == nil || isFatal(err) {
		return st, rule, err
	}
	text := ln.Text
	if ln.Comment != "" && !ln.Mode.Strict {
		mt.rep.warnLine(ln, noMatchMessage(ln.Text, block)+", trying to remove inline comment (not in Fortran 77).")
		text = ln.WithoutComment()
		st, rule, err = mt.matchText(ln, text, rules)
		if err == nil || isFatal(err) {
			return st, rule, err
		}
	}
	return nil, nil, &NoMatchError{sp: linePos(ln), Text: text, Block: block}
}

func (mt *matcher) matchText(ln *Line, text string, rules []*Rule) (ast.Statement, *Rule, error) {
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		st, err := mt.try(rule, ln, text)
		if err == nil {
			return st, rule, nil
		}
		if isFatal(err) {
			return nil, rule, syntaxError(ln, err)
		}
		if !errors.Is(err, errInvalid) {
			mt.rep.Log(slog.LevelDebug, "rule rejected match",
				slog.String("rule", rule.Name), slog.String("err", err.Error()))
		}
	}
	return nil, nil, errInvalid
}
