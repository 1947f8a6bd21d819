package fparser

import (
	"regexp"
	"strings"

	"github.com/soypat/go-fparser/ast"
)

// registerFortran registers the Fortran 77 to 2003 statement set. Order is
// load-bearing: within a construct, rules are tried in registration order.
func registerFortran(r *Registry) error {
	for _, c := range fortranConstructs() {
		if err := r.RegisterConstruct(c); err != nil {
			return err
		}
	}
	groups := [][]*Rule{unitRules(), specConstructRules(), specRules(), execConstructRules(), execRules()}
	for _, rules := range groups {
		for _, rule := range rules {
			if err := r.Register(rule); err != nil {
				return err
			}
		}
	}
	return nil
}

func fortranConstructs() []*Construct {
	contains := containsRule()
	body := ClassSpec | ClassExec | ClassProcedure
	return []*Construct{
		{Name: "Program", Kind: ast.KindProgram, End: endRule("program", "PROGRAM", true), Inner: []*Rule{contains}, Allows: body, Unit: true, Scope: true},
		{Name: "Subroutine", Kind: ast.KindSubroutine, End: endRule("subroutine", "SUBROUTINE", true), Inner: []*Rule{contains}, Allows: body, Unit: true, Scope: true},
		{Name: "Function", Kind: ast.KindFunction, End: endRule("function", "FUNCTION", true), Inner: []*Rule{contains}, Allows: body, Unit: true, Scope: true},
		{Name: "Module", Kind: ast.KindModule, End: endRule("module", "MODULE", true), Inner: []*Rule{contains}, Allows: ClassSpec | ClassProcedure, Unit: true, Scope: true},
		{Name: "BlockData", Kind: ast.KindBlockData, End: endRule(`block\s*data`, "BLOCK DATA", true), Allows: ClassSpec, Unit: true, Scope: true},
		{Name: "Interface", Kind: ast.KindInterface, End: endInterfaceRule(), Allows: ClassProcedure | ClassInterfaceItem, Unit: true},
		{Name: "Type", Kind: ast.KindTypeDef, End: endRule("type", "TYPE", false), Inner: []*Rule{contains}, Allows: ClassComponent | ClassBinding, Unit: true, Scope: true},
		{Name: "Enum", Kind: ast.KindEnum, End: endRule("enum", "ENUM", false), Allows: ClassEnum},
		{Name: "IfThen", Kind: ast.KindIfBlock, End: endRule("if", "IF", false), Inner: []*Rule{elseIfRule(), elseRule()}, Allows: ClassExec},
		{Name: "Do", Kind: ast.KindDoBlock, End: endRule("do", "DO", false), Allows: ClassExec},
		{Name: "SelectCase", Kind: ast.KindSelectBlock, End: endRule("select", "SELECT", false), Inner: []*Rule{caseDefaultRule(), caseRule()}, Allows: ClassExec},
		{Name: "Where", Kind: ast.KindWhereBlock, End: endRule("where", "WHERE", false), Inner: []*Rule{elseWhereRule()}, Allows: ClassExec},
		{Name: "Forall", Kind: ast.KindForallBlock, End: endRule("forall", "FORALL", false), Allows: ClassExec},
		{Name: "Associate", Kind: ast.KindAssociateBlock, End: endRule("associate", "ASSOCIATE", false), Allows: ClassExec},
		{Name: "Block", Kind: ast.KindBlockBlock, End: endRule("block", "BLOCK", false), Allows: ClassSpec | ClassExec, Scope: true},
	}
}

// endRule matches END keyword [name]. A bare END is accepted when bare is set.
func endRule(keyword, canonical string, bare bool) *Rule {
	pat := `end\s*(?P<kw>` + keyword + `)(?:\s+(?P<name>[a-z]\w*))?`
	if bare {
		pat = `end(?:\s*(?P<kw>` + keyword + `)(?:\s+(?P<name>[a-z]\w*))?)?`
	}
	return &Rule{
		Name:    "End" + canonical,
		Pattern: pat,
		Build: func(m *Match) (ast.Statement, error) {
			end := &ast.EndStmt{Name: m.Get("name")}
			if m.Has("kw") {
				end.Keyword = canonical
			}
			return end, nil
		},
	}
}

func endInterfaceRule() *Rule {
	return &Rule{
		Name:    "EndInterface",
		Pattern: `end\s*interface(?:\s+(?P<spec>\S.*))?`,
		Build: func(m *Match) (ast.Statement, error) {
			return &ast.EndStmt{Keyword: "INTERFACE", Name: genericSpec(m.Get("spec"))}, nil
		},
	}
}

func containsRule() *Rule {
	return &Rule{
		Name:    "Contains",
		Pattern: `contains`,
		Build: func(m *Match) (ast.Statement, error) {
			return &ast.KeywordStmt{Which: ast.KindContains, Keyword: "CONTAINS"}, nil
		},
	}
}

// ==================== SHARED HELPERS ====================

// splitParen splits "(inner) tail" at the parenthesis closing s[0].
func splitParen(s string) (inner, tail string, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] != '(' {
		return "", "", false
	}
	end := closeParen(s, 0)
	if end < 0 {
		return "", "", false
	}
	return strings.TrimSpace(s[1:end]), strings.TrimSpace(s[end+1:]), true
}

// nameList parses comma separated names. '*' entries are accepted when
// star is set.
func nameList(s string, star bool) ([]string, error) {
	var names []string
	for _, n := range splitTop(s, ',') {
		if !isName(n) && !(star && n == "*") {
			return nil, errInvalid
		}
		names = append(names, n)
	}
	return names, nil
}

func labelList(s string) ([]string, error) {
	var labels []string
	for _, l := range splitTop(s, ',') {
		if !isDigits(l) {
			return nil, errInvalid
		}
		labels = append(labels, l)
	}
	if len(labels) == 0 {
		return nil, errInvalid
	}
	return labels, nil
}

// squeeze removes blanks outside strings, as in "b => c" -> "b=>c".
func squeeze(s string) string {
	masked := maskStrings(s)
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if masked[i] != ' ' && masked[i] != '\t' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// upperHead upper-cases the keyword before any parenthesis: "pass(x)" -> "PASS(x)".
func upperHead(s string) string {
	s = squeeze(s)
	if i := strings.IndexByte(s, '('); i >= 0 {
		return upper(s[:i]) + s[i:]
	}
	return upper(s)
}

// genericSpec canonicalizes the generic specification of an interface:
// OPERATOR(+), ASSIGNMENT(=) or a generic name.
func genericSpec(s string) string {
	s = squeeze(s)
	ls := lower(s)
	for _, kw := range []string{"operator", "assignment", "read", "write"} {
		if strings.HasPrefix(ls, kw+"(") {
			return upper(kw) + s[len(kw):]
		}
	}
	return s
}

// bindSpec canonicalizes the inside of BIND(...): "c, name = 'f'" -> "C, NAME='f'".
func bindSpec(s string) string {
	parts := splitTop(s, ',')
	for i, p := range parts {
		if k, v, ok := splitKeyword(p); ok {
			parts[i] = upper(k) + "=" + v
		} else {
			parts[i] = upper(p)
		}
	}
	return strings.Join(parts, ", ")
}

var (
	resultRe = regexp.MustCompile(`(?i)^result\s*\(\s*([a-z]\w*)\s*\)\s*`)
	bindRe   = regexp.MustCompile(`(?i)^bind\s*\(([^()]*)\)\s*`)
)

// procSuffix parses the RESULT and BIND clauses trailing a FUNCTION,
// SUBROUTINE or ENTRY statement.
func procSuffix(s string) (result, bind string, err error) {
	s = strings.TrimSpace(s)
	for s != "" {
		if m := resultRe.FindStringSubmatch(s); m != nil && result == "" {
			result = m[1]
			s = s[len(m[0]):]
			continue
		}
		if m := bindRe.FindStringSubmatch(s); m != nil && bind == "" {
			bind = bindSpec(m[1])
			s = s[len(m[0]):]
			continue
		}
		return "", "", errInvalid
	}
	return result, bind, nil
}

var prefixRe = regexp.MustCompile(`(?i)^(recursive|non_recursive|pure|impure|elemental|module)\b\s*`)

// procPrefix splits the prefix keywords and optional type specifier in
// front of FUNCTION or SUBROUTINE.
func procPrefix(head string, sc *scope) (prefix []string, ts *ast.TypeSpec, err error) {
	head = strings.TrimSpace(head)
	for head != "" {
		if m := prefixRe.FindStringSubmatch(head); m != nil {
			prefix = append(prefix, upper(m[1]))
			head = head[len(m[0]):]
			continue
		}
		if ts != nil {
			return nil, nil, errInvalid
		}
		spec, rest, err := parseTypeSpec(head, sc)
		if err != nil {
			return nil, nil, errInvalid
		}
		ts = &spec
		head = strings.TrimSpace(rest)
	}
	return prefix, ts, nil
}

// controlSpecs converts parsed arguments into I/O control specifiers.
func controlSpecs(args []ast.Expression) []ast.ControlSpec {
	specs := make([]ast.ControlSpec, 0, len(args))
	for _, a := range args {
		if ka, ok := a.(*ast.KeywordArg); ok {
			specs = append(specs, ast.ControlSpec{Keyword: upper(ka.Keyword), Value: ka.Value})
			continue
		}
		specs = append(specs, ast.ControlSpec{Value: a})
	}
	return specs
}

// targets parses comma separated variables, allowing implied DO loops.
func targets(s string, sc *scope) ([]ast.Expression, error) {
	var list []ast.Expression
	for _, item := range splitTop(s, ',') {
		var (
			x   ast.Expression
			err error
		)
		if strings.HasPrefix(item, "(") {
			x, err = parseExpr(item, sc)
		} else {
			x, err = parseTarget(item, sc)
		}
		if err != nil {
			return nil, err
		}
		list = append(list, x)
	}
	return list, nil
}

// parseForallHeader parses "i = 1:n[:s], j = ..., mask" of FORALL and DO CONCURRENT.
func parseForallHeader(s string, sc *scope) (*ast.ForallHeader, error) {
	items := splitTop(s, ',')
	if len(items) == 0 {
		return nil, errInvalid
	}
	h := &ast.ForallHeader{}
	for i, item := range items {
		name, value, ok := splitKeyword(item)
		if !ok {
			if i != len(items)-1 || len(h.Specs) == 0 {
				return nil, errInvalid
			}
			mask, err := parseExpr(item, sc)
			if err != nil {
				return nil, err
			}
			h.Mask = mask
			break
		}
		parts := splitTop(value, ':')
		if len(parts) < 2 || len(parts) > 3 {
			return nil, errInvalid
		}
		spec := ast.ForallSpec{Var: name}
		var err error
		if spec.Lo, err = parseExpr(parts[0], sc); err != nil {
			return nil, err
		}
		if spec.Hi, err = parseExpr(parts[1], sc); err != nil {
			return nil, err
		}
		if len(parts) == 3 {
			if spec.Stride, err = parseExpr(parts[2], sc); err != nil {
				return nil, err
			}
		}
		h.Specs = append(h.Specs, spec)
	}
	return h, nil
}

// trailingName parses the optional construct name after a middle statement.
func trailingName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || isName(s) {
		return s, nil
	}
	return "", errInvalid
}
