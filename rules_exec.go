package fparser

import (
	"regexp"
	"strings"

	"github.com/soypat/go-fparser/ast"
)

// ifHead parses the "(cond) tail" following IF, WHERE and friends.
func ifHead(m *Match, group string) (cond ast.Expression, tail string, err error) {
	inner, tail, ok := splitParen(m.Get(group))
	if !ok || inner == "" {
		return nil, "", errInvalid
	}
	cond, err = m.Expr(inner)
	return cond, tail, err
}

var thenRe = regexp.MustCompile(`(?i)^then(?:\s+([a-z]\w*))?$`)

// execConstructRules open executable constructs, with the statement forms
// sharing their keyword.
func execConstructRules() []*Rule {
	return []*Rule{
		{
			Name: "IfThen", Class: ClassExec, Opens: "IfThen",
			Pattern: `if\s*(?P<rest>\(.*)`,
			Build: func(m *Match) (ast.Statement, error) {
				cond, tail, err := ifHead(m, "rest")
				if err != nil {
					return nil, err
				}
				if !strings.EqualFold(tail, "then") {
					return nil, errInvalid
				}
				return &ast.CondStmt{Which: ast.KindIfThen, Cond: cond}, nil
			},
		},
		{
			Name: "ArithmeticIf", Class: ClassExec,
			Pattern: `if\s*(?P<rest>\(.*)`,
			Build: func(m *Match) (ast.Statement, error) {
				cond, tail, err := ifHead(m, "rest")
				if err != nil {
					return nil, err
				}
				labels := splitTop(tail, ',')
				if len(labels) != 3 {
					return nil, errInvalid
				}
				for _, l := range labels {
					if !isDigits(l) {
						return nil, errInvalid
					}
				}
				return &ast.ArithmeticIfStmt{Expr: cond, Neg: labels[0], Zero: labels[1], Pos: labels[2]}, nil
			},
		},
		{
			Name: "LogicalIf", Class: ClassExec,
			Pattern: `if\s*(?P<rest>\(.*)`,
			Build: func(m *Match) (ast.Statement, error) {
				cond, tail, err := ifHead(m, "rest")
				if err != nil {
					return nil, err
				}
				if tail == "" {
					return nil, errInvalid
				}
				then, err := m.Statement(tail)
				if err != nil {
					return nil, err
				}
				return &ast.IfStmt{Cond: cond, Then: then}, nil
			},
		},
		{
			Name: "Do", Class: ClassExec, Opens: "Do",
			Pattern: `do(?P<rest>(?:\s.*|\d.*|while\s*\(.*|concurrent\s*\(.*)?)`,
			Build:   buildDo,
		},
		{
			Name: "SelectCase", Class: ClassExec, Opens: "SelectCase",
			Pattern: `select\s*case\s*(?P<rest>\(.*)`,
			Build: func(m *Match) (ast.Statement, error) {
				cond, tail, err := ifHead(m, "rest")
				if err != nil {
					return nil, err
				}
				if tail != "" {
					return nil, errInvalid
				}
				return &ast.CondStmt{Which: ast.KindSelectCase, Cond: cond}, nil
			},
		},
		{
			Name: "WhereConstruct", Class: ClassExec, Opens: "Where",
			Pattern: `where\s*(?P<rest>\(.*)`,
			Build: func(m *Match) (ast.Statement, error) {
				mask, tail, err := ifHead(m, "rest")
				if err != nil {
					return nil, err
				}
				if tail != "" {
					return nil, errInvalid
				}
				return &ast.CondStmt{Which: ast.KindWhereConstruct, Cond: mask}, nil
			},
		},
		{
			Name: "WhereStmt", Class: ClassExec,
			Pattern: `where\s*(?P<rest>\(.*)`,
			Build: func(m *Match) (ast.Statement, error) {
				mask, tail, err := ifHead(m, "rest")
				if err != nil {
					return nil, err
				}
				assign, err := maskedAssignment(m, tail)
				if err != nil {
					return nil, err
				}
				return &ast.WhereStmt{Mask: mask, Assign: assign}, nil
			},
		},
		{
			Name: "ForallConstruct", Class: ClassExec, Opens: "Forall",
			Pattern: `forall\s*(?P<rest>\(.*)`,
			Build: func(m *Match) (ast.Statement, error) {
				inner, tail, ok := splitParen(m.Get("rest"))
				if !ok || tail != "" {
					return nil, errInvalid
				}
				h, err := parseForallHeader(inner, m.scope)
				if err != nil {
					return nil, err
				}
				return &ast.ForallConstructStmt{Header: *h}, nil
			},
		},
		{
			Name: "ForallStmt", Class: ClassExec,
			Pattern: `forall\s*(?P<rest>\(.*)`,
			Build: func(m *Match) (ast.Statement, error) {
				inner, tail, ok := splitParen(m.Get("rest"))
				if !ok {
					return nil, errInvalid
				}
				h, err := parseForallHeader(inner, m.scope)
				if err != nil {
					return nil, err
				}
				assign, err := maskedAssignment(m, tail)
				if err != nil {
					return nil, err
				}
				return &ast.ForallStmt{Header: *h, Assign: assign}, nil
			},
		},
		{
			Name: "Associate", Class: ClassExec, Opens: "Associate",
			Pattern: `associate\s*(?P<rest>\(.*)`,
			Build: func(m *Match) (ast.Statement, error) {
				inner, tail, ok := splitParen(m.Get("rest"))
				if !ok || tail != "" {
					return nil, errInvalid
				}
				as := &ast.AssociateStmt{}
				for _, item := range splitTop(inner, ',') {
					i := indexTop(item, "=>")
					if i < 0 {
						return nil, errInvalid
					}
					name := strings.TrimSpace(item[:i])
					if !isName(name) {
						return nil, errInvalid
					}
					sel, err := m.Expr(item[i+2:])
					if err != nil {
						return nil, err
					}
					as.Assocs = append(as.Assocs, ast.NamedConstant{Name: name, Value: sel})
				}
				if len(as.Assocs) == 0 {
					return nil, errInvalid
				}
				return as, nil
			},
		},
		{
			Name: "Block", Class: ClassExec, Opens: "Block",
			Pattern: `block`,
			Build: func(m *Match) (ast.Statement, error) {
				return &ast.KeywordStmt{Which: ast.KindBlockStmt, Keyword: "BLOCK"}, nil
			},
		},
	}
}

// maskedAssignment parses the assignment controlled by a WHERE or FORALL statement.
func maskedAssignment(m *Match, text string) (ast.Statement, error) {
	if text == "" {
		return nil, errInvalid
	}
	st, err := m.Statement(text)
	if err != nil {
		return nil, err
	}
	switch st.(type) {
	case *ast.AssignmentStmt, *ast.PointerAssignmentStmt:
		return st, nil
	}
	return nil, errInvalid
}

var (
	doLabelRe = regexp.MustCompile(`^(\d+)\s*,?\s*`)
	whileRe   = regexp.MustCompile(`(?i)^while\s*\(`)
	concRe    = regexp.MustCompile(`(?i)^concurrent\s*\(`)
)

func buildDo(m *Match) (ast.Statement, error) {
	rest := m.Get("rest")
	ds := &ast.DoStmt{}
	if l := doLabelRe.FindStringSubmatch(rest); l != nil {
		ds.EndLabel = strings.TrimLeft(l[1], "0")
		if ds.EndLabel == "" {
			ds.EndLabel = "0"
		}
		rest = rest[len(l[0]):]
	}
	switch {
	case rest == "":
	case whileRe.MatchString(rest):
		open := strings.IndexByte(rest, '(')
		inner, tail, ok := splitParen(rest[open:])
		if !ok || tail != "" || inner == "" {
			return nil, errInvalid
		}
		cond, err := m.Expr(inner)
		if err != nil {
			return nil, err
		}
		ds.While = cond
	case concRe.MatchString(rest):
		open := strings.IndexByte(rest, '(')
		inner, tail, ok := splitParen(rest[open:])
		if !ok || tail != "" {
			return nil, errInvalid
		}
		h, err := parseForallHeader(inner, m.scope)
		if err != nil {
			return nil, err
		}
		ds.Concurrent = h
	default:
		name, value, ok := splitKeyword(rest)
		if !ok {
			return nil, errInvalid
		}
		parts := splitTop(value, ',')
		if len(parts) < 2 || len(parts) > 3 {
			return nil, errInvalid
		}
		bounds, err := m.ExprList(value)
		if err != nil {
			return nil, err
		}
		ds.Var, ds.Start, ds.End = name, bounds[0], bounds[1]
		if len(bounds) == 3 {
			ds.Step = bounds[2]
		}
	}
	return ds, nil
}

// ==================== MIDDLE STATEMENTS ====================

func elseIfRule() *Rule {
	return &Rule{
		Name:    "ElseIf",
		Pattern: `else\s*if\s*(?P<rest>\(.*)`,
		Build: func(m *Match) (ast.Statement, error) {
			cond, tail, err := ifHead(m, "rest")
			if err != nil {
				return nil, err
			}
			t := thenRe.FindStringSubmatch(tail)
			if t == nil {
				return nil, errInvalid
			}
			return &ast.CondStmt{Which: ast.KindElseIf, Cond: cond, Name: t[1]}, nil
		},
	}
}

func elseRule() *Rule {
	return &Rule{
		Name:    "Else",
		Pattern: `else(?:\s+(?P<name>[a-z]\w*))?`,
		Build: func(m *Match) (ast.Statement, error) {
			return &ast.ElseStmt{Name: m.Get("name")}, nil
		},
	}
}

func caseDefaultRule() *Rule {
	return &Rule{
		Name:    "CaseDefault",
		Pattern: `case\s*default(?:\s+(?P<name>[a-z]\w*))?`,
		Build: func(m *Match) (ast.Statement, error) {
			return &ast.CaseStmt{Default: true, Name: m.Get("name")}, nil
		},
	}
}

func caseRule() *Rule {
	return &Rule{
		Name:    "Case",
		Pattern: `case\s*(?P<rest>\(.*)`,
		Build: func(m *Match) (ast.Statement, error) {
			inner, tail, ok := splitParen(m.Get("rest"))
			if !ok || inner == "" {
				return nil, errInvalid
			}
			name, err := trailingName(tail)
			if err != nil {
				return nil, err
			}
			values, err := m.Args(inner)
			if err != nil {
				return nil, err
			}
			return &ast.CaseStmt{Values: values, Name: name}, nil
		},
	}
}

func elseWhereRule() *Rule {
	return &Rule{
		Name:    "ElseWhere",
		Pattern: `else\s*where\s*(?P<rest>.*)`,
		Build: func(m *Match) (ast.Statement, error) {
			cs := &ast.CondStmt{Which: ast.KindElseWhere}
			rest := m.Get("rest")
			if strings.HasPrefix(rest, "(") {
				mask, tail, err := ifHead(m, "rest")
				if err != nil {
					return nil, err
				}
				cs.Cond, rest = mask, tail
			}
			name, err := trailingName(rest)
			if err != nil {
				return nil, err
			}
			cs.Name = name
			return cs, nil
		},
	}
}

// ==================== ACTION STATEMENTS ====================

var ioKinds = map[string]ast.Kind{
	"OPEN":      ast.KindOpen,
	"CLOSE":     ast.KindClose,
	"INQUIRE":   ast.KindInquire,
	"REWIND":    ast.KindRewind,
	"BACKSPACE": ast.KindBackspace,
	"ENDFILE":   ast.KindEndfile,
	"FLUSH":     ast.KindFlush,
	"WAIT":      ast.KindWait,
}

// execRules are the executable action statements. Assignment is last so
// that keyword statements win.
func execRules() []*Rule {
	return []*Rule{
		{Name: "Allocate", Class: ClassExec, Pattern: `(?P<kw>allocate|deallocate)\s*(?P<rest>\(.*)`, Build: buildAllocate},
		{
			Name: "Nullify", Class: ClassExec,
			Pattern: `nullify\s*(?P<rest>\(.*)`,
			Build: func(m *Match) (ast.Statement, error) {
				inner, tail, ok := splitParen(m.Get("rest"))
				if !ok || tail != "" || inner == "" {
					return nil, errInvalid
				}
				items, err := targets(inner, m.scope)
				if err != nil {
					return nil, err
				}
				return &ast.NullifyStmt{Items: items}, nil
			},
		},
		{
			Name: "Assign", Class: ClassExec,
			Pattern: `assign\s*(?P<label>\d+)\s*to\s*(?P<var>[a-z]\w*)`,
			Build: func(m *Match) (ast.Statement, error) {
				return &ast.AssignStmt{Target: m.Get("label"), Var: m.Get("var")}, nil
			},
		},
		{
			Name: "Goto", Class: ClassExec,
			Pattern: `go\s*to\s*(?P<label>\d+)`,
			Build: func(m *Match) (ast.Statement, error) {
				return &ast.GotoStmt{Target: m.Get("label")}, nil
			},
		},
		{
			Name: "ComputedGoto", Class: ClassExec,
			Pattern: `go\s*to\s*\((?P<labels>[\d\s,]+)\)\s*,?\s*(?P<expr>.+)`,
			Build: func(m *Match) (ast.Statement, error) {
				labels, err := labelList(m.Get("labels"))
				if err != nil {
					return nil, err
				}
				x, err := m.Expr(m.Get("expr"))
				if err != nil {
					return nil, err
				}
				return &ast.ComputedGotoStmt{Labels: labels, Expr: x}, nil
			},
		},
		{
			Name: "AssignedGoto", Class: ClassExec,
			Pattern: `go\s*to\s*(?P<var>[a-z]\w*)(?:\s*,?\s*\((?P<labels>[\d\s,]+)\))?`,
			Build: func(m *Match) (ast.Statement, error) {
				st := &ast.AssignedGotoStmt{Var: m.Get("var")}
				if m.Has("labels") {
					labels, err := labelList(m.Get("labels"))
					if err != nil {
						return nil, err
					}
					st.Labels = labels
				}
				return st, nil
			},
		},
		{
			Name: "Call", Class: ClassExec,
			Pattern: `call\s+(?P<callee>[a-z]\w*(?:\s*%\s*[a-z]\w*)*)\s*(?P<rest>\(.*)?`,
			Build:   buildCall,
		},
		{
			Name: "Continue", Class: ClassExec,
			Pattern: `continue`,
			Build: func(m *Match) (ast.Statement, error) {
				return &ast.KeywordStmt{Which: ast.KindContinue, Keyword: "CONTINUE"}, nil
			},
		},
		{Name: "Return", Class: ClassExec, Pattern: `(?P<kw>return)\b\s*(?P<operand>.*)`, Build: buildKeywordStmt},
		{Name: "Stop", Class: ClassExec, Pattern: `(?P<kw>stop|pause)\b\s*(?P<operand>.*)`, Build: buildKeywordStmt},
		{
			Name: "CycleExit", Class: ClassExec,
			Pattern: `(?P<kw>cycle|exit)(?:\s+(?P<name>[a-z]\w*))?`,
			Build: func(m *Match) (ast.Statement, error) {
				st := &ast.KeywordStmt{Which: ast.KindCycle, Keyword: upper(m.Get("kw"))}
				if st.Keyword == "EXIT" {
					st.Which = ast.KindExit
				}
				if name := m.Get("name"); name != "" {
					st.Operand = &ast.Identifier{Name: name}
				}
				return st, nil
			},
		},
		{
			Name: "Print", Class: ClassExec,
			Pattern: `print\b\s*(?P<rest>.+)`,
			Build: func(m *Match) (ast.Statement, error) {
				format, items, err := shortIO(m, m.Get("rest"))
				if err != nil {
					return nil, err
				}
				return &ast.PrintStmt{Format: format, Items: items}, nil
			},
		},
		{
			Name: "Read", Class: ClassExec,
			Pattern: `read\s*(?P<rest>\(.*)`,
			Build: func(m *Match) (ast.Statement, error) {
				control, items, err := longIO(m, m.Get("rest"))
				if err != nil {
					return nil, err
				}
				return &ast.ReadStmt{Control: control, Items: items}, nil
			},
		},
		{
			Name: "ReadShort", Class: ClassExec,
			Pattern: `read\b\s*(?P<rest>[^(=].*)`,
			Build: func(m *Match) (ast.Statement, error) {
				format, items, err := shortIO(m, m.Get("rest"))
				if err != nil {
					return nil, err
				}
				return &ast.ReadStmt{Format: format, Items: items}, nil
			},
		},
		{
			Name: "Write", Class: ClassExec,
			Pattern: `write\s*(?P<rest>\(.*)`,
			Build: func(m *Match) (ast.Statement, error) {
				control, items, err := longIO(m, m.Get("rest"))
				if err != nil {
					return nil, err
				}
				return &ast.IOControlStmt{Which: ast.KindWrite, Keyword: "WRITE", Control: control, Items: items}, nil
			},
		},
		{
			Name: "FileControl", Class: ClassExec,
			Pattern: `(?P<kw>open|close|inquire|rewind|backspace|end\s*file|flush|wait)\s*(?P<rest>\(.*)`,
			Build: func(m *Match) (ast.Statement, error) {
				kw := upper(squeeze(m.Get("kw")))
				control, items, err := longIO(m, m.Get("rest"))
				if err != nil {
					return nil, err
				}
				if len(items) > 0 && kw != "INQUIRE" {
					return nil, errInvalid
				}
				return &ast.IOControlStmt{Which: ioKinds[kw], Keyword: kw, Control: control, Items: items}, nil
			},
		},
		{
			Name: "FileControlShort", Class: ClassExec,
			Pattern: `(?P<kw>rewind|backspace|end\s*file|flush)\s+(?P<unit>[^(=\s].*)`,
			Build: func(m *Match) (ast.Statement, error) {
				kw := upper(squeeze(m.Get("kw")))
				unit, err := m.Expr(m.Get("unit"))
				if err != nil {
					return nil, err
				}
				return &ast.IOControlStmt{Which: ioKinds[kw], Keyword: kw, Control: []ast.ControlSpec{{Value: unit}}}, nil
			},
		},
		{
			Name: "PointerAssignment", Class: ClassExec,
			Pattern: `(?P<lhs>[a-z][^=]*?)=>(?P<rhs>.+)`,
			Build: func(m *Match) (ast.Statement, error) {
				target, value, err := assignment(m)
				if err != nil {
					return nil, err
				}
				return &ast.PointerAssignmentStmt{Target: target, Value: value}, nil
			},
		},
		{
			Name: "Assignment", Class: ClassExec,
			Pattern: `(?P<lhs>[a-z][^=]*)=(?P<rhs>[^=>].*)`,
			Build: func(m *Match) (ast.Statement, error) {
				target, value, err := assignment(m)
				if err != nil {
					return nil, err
				}
				return &ast.AssignmentStmt{Target: target, Value: value}, nil
			},
		},
	}
}

func assignment(m *Match) (target, value ast.Expression, err error) {
	if target, err = parseTarget(m.Get("lhs"), m.scope); err != nil {
		return nil, nil, err
	}
	if value, err = m.Expr(m.Get("rhs")); err != nil {
		return nil, nil, err
	}
	return target, value, nil
}

func buildKeywordStmt(m *Match) (ast.Statement, error) {
	st := &ast.KeywordStmt{Keyword: upper(m.Get("kw"))}
	switch st.Keyword {
	case "RETURN":
		st.Which = ast.KindReturn
	case "STOP":
		st.Which = ast.KindStop
	case "PAUSE":
		st.Which = ast.KindPause
	}
	if op := m.Get("operand"); op != "" {
		x, err := m.Expr(op)
		if err != nil {
			return nil, err
		}
		st.Operand = x
	}
	return st, nil
}

func buildCall(m *Match) (ast.Statement, error) {
	parts := strings.Split(m.Get("callee"), "%")
	var callee ast.Expression = &ast.Identifier{Name: strings.TrimSpace(parts[0])}
	for _, f := range parts[1:] {
		callee = &ast.ComponentAccess{Base: callee, Field: strings.TrimSpace(f)}
	}
	st := &ast.CallStmt{Callee: callee}
	if m.Has("rest") {
		inner, tail, ok := splitParen(m.Get("rest"))
		if !ok || tail != "" {
			return nil, errInvalid
		}
		args, err := m.Args(inner)
		if err != nil {
			return nil, err
		}
		st.Args = args
	}
	return st, nil
}

// shortIO parses "format[, items]" of PRINT and the short READ.
func shortIO(m *Match, s string) (format ast.Expression, items []ast.Expression, err error) {
	parts := splitTop(s, ',')
	if len(parts) == 0 || parts[0] == "" {
		return nil, nil, errInvalid
	}
	if parts[0] == "*" {
		format = &ast.Star{}
	} else if format, err = m.Expr(parts[0]); err != nil {
		return nil, nil, err
	}
	if i := indexTop(s, ","); i >= 0 {
		if items, err = m.ExprList(s[i+1:]); err != nil {
			return nil, nil, err
		}
		if len(items) == 0 {
			return nil, nil, errInvalid
		}
	}
	return format, items, nil
}

// longIO parses "(control) items" of READ, WRITE and the file statements.
func longIO(m *Match, s string) ([]ast.ControlSpec, []ast.Expression, error) {
	inner, tail, ok := splitParen(s)
	if !ok || inner == "" {
		return nil, nil, errInvalid
	}
	args, err := m.Args(inner)
	if err != nil {
		return nil, nil, err
	}
	tail = strings.TrimSpace(strings.TrimPrefix(tail, ","))
	items, err := m.ExprList(tail)
	if err != nil {
		return nil, nil, err
	}
	return controlSpecs(args), items, nil
}

var allocOpts = map[string]bool{"STAT": true, "ERRMSG": true, "SOURCE": true, "MOLD": true}

func buildAllocate(m *Match) (ast.Statement, error) {
	inner, tail, ok := splitParen(m.Get("rest"))
	if !ok || tail != "" || inner == "" {
		return nil, errInvalid
	}
	st := &ast.AllocateStmt{Dealloc: strings.EqualFold(m.Get("kw"), "deallocate")}
	if i := indexTop(inner, "::"); i >= 0 {
		if st.Dealloc {
			return nil, errInvalid
		}
		ts, rest, err := parseTypeSpec(inner[:i], m.scope)
		if err != nil || rest != "" {
			return nil, errInvalid
		}
		st.Type = &ts
		inner = inner[i+2:]
	}
	for _, item := range splitTop(inner, ',') {
		if key, value, ok := splitKeyword(item); ok && allocOpts[upper(key)] {
			x, err := m.Expr(value)
			if err != nil {
				return nil, err
			}
			st.Opts = append(st.Opts, ast.ControlSpec{Keyword: upper(key), Value: x})
			continue
		}
		x, err := parseTarget(item, m.scope)
		if err != nil {
			return nil, err
		}
		st.Items = append(st.Items, x)
	}
	if len(st.Items) == 0 {
		return nil, errInvalid
	}
	return st, nil
}
