package fparser

import (
	"regexp"
	"strings"

	"github.com/soypat/go-fparser/ast"
)

var typeNameRe = regexp.MustCompile(`(?i)^(integer|real|double\s*precision|double\s*complex|complex|logical|character|byte|type|class)`)

// parseTypeSpec parses the type specifier at the start of s and returns
// the text after it.
func parseTypeSpec(s string, sc *scope) (ts ast.TypeSpec, rest string, err error) {
	s = strings.TrimSpace(s)
	m := typeNameRe.FindString(s)
	if m == "" {
		return ts, "", errInvalid
	}
	rest = s[len(m):]
	if rest != "" && isNameByte(rest[0]) {
		// realx = 1 is an assignment.
		return ts, "", errInvalid
	}
	ts.Name = typeName(m)
	rest = strings.TrimSpace(rest)
	switch ts.Name {
	case "TYPE", "CLASS":
		inner, tail, ok := splitParen(rest)
		if !ok || inner == "" {
			return ts, "", errInvalid
		}
		ts.Derived = squeeze(inner)
		return ts, tail, nil
	}
	switch {
	case strings.HasPrefix(rest, "*"):
		rest = strings.TrimSpace(rest[1:])
		if strings.HasPrefix(rest, "(") {
			inner, tail, ok := splitParen(rest)
			if !ok || ts.Name != "CHARACTER" {
				return ts, "", errInvalid
			}
			if ts.Len, err = charLen(inner, sc); err != nil {
				return ts, "", err
			}
			return ts, tail, nil
		}
		n := leadingDigits(rest)
		if n == 0 {
			return ts, "", errInvalid
		}
		if ts.Name == "CHARACTER" {
			ts.Len = &ast.IntegerLiteral{Raw: rest[:n]}
		} else {
			ts.Star = rest[:n]
		}
		return ts, strings.TrimSpace(rest[n:]), nil
	case strings.HasPrefix(rest, "("):
		inner, tail, ok := splitParen(rest)
		if !ok || inner == "" {
			return ts, "", errInvalid
		}
		if err := parseSelectors(&ts, inner, sc); err != nil {
			return ts, "", err
		}
		return ts, tail, nil
	}
	return ts, rest, nil
}

func typeName(s string) string {
	switch key := strings.Join(strings.Fields(lower(s)), ""); key {
	case "doubleprecision":
		return "DOUBLE PRECISION"
	case "doublecomplex":
		return "DOUBLE COMPLEX"
	default:
		return upper(key)
	}
}

// parseSelectors parses the KIND and LEN selectors of a type specifier.
func parseSelectors(ts *ast.TypeSpec, inner string, sc *scope) (err error) {
	char := ts.Name == "CHARACTER"
	for i, part := range splitTop(inner, ',') {
		key, value, ok := splitKeyword(part)
		if !ok {
			value = part
			switch {
			case i == 0 && char:
				key = "len"
			case i == 0 || i == 1 && char:
				key = "kind"
			default:
				return errInvalid
			}
		}
		switch lower(key) {
		case "kind":
			ts.KindParam, err = parseExpr(value, sc)
		case "len":
			if !char {
				return errInvalid
			}
			ts.Len, err = charLen(value, sc)
		default:
			return errInvalid
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// charLen parses a character length: '*' is assumed, ':' deferred.
func charLen(s string, sc *scope) (ast.Expression, error) {
	switch strings.TrimSpace(s) {
	case "*":
		return &ast.Star{}, nil
	case ":":
		return &ast.RangeExpr{}, nil
	}
	return parseExpr(s, sc)
}

func leadingDigits(s string) int {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return n
}

// parseAttrs parses the attribute list between a type specifier and '::'.
func parseAttrs(s string, sc *scope) ([]ast.Attribute, error) {
	var attrs []ast.Attribute
	for _, part := range splitTop(s, ',') {
		name, inner, paren := part, "", false
		if i := strings.IndexByte(part, '('); i >= 0 {
			var tail string
			var ok bool
			inner, tail, ok = splitParen(part[i:])
			if !ok || tail != "" {
				return nil, errInvalid
			}
			name, paren = strings.TrimSpace(part[:i]), true
		}
		if !isName(name) {
			return nil, errInvalid
		}
		a := ast.Attribute{Name: upper(name)}
		if paren {
			switch a.Name {
			case "DIMENSION", "CODIMENSION":
				args, err := parseArgList(inner, sc)
				if err != nil || len(args) == 0 {
					return nil, errInvalid
				}
				a.Args = args
			case "INTENT":
				a.Spec = upper(squeeze(inner))
			case "BIND":
				a.Spec = bindSpec(inner)
			default:
				a.Spec = collapseSpace(inner)
			}
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

func hasAttr(attrs []ast.Attribute, name string) bool {
	for i := range attrs {
		if attrs[i].Name == name {
			return true
		}
	}
	return false
}

var entityNameRe = regexp.MustCompile(`(?i)^[a-z]\w*`)

// parseEntity parses name[(dims)][*len][= init | => init].
func parseEntity(s string, sc *scope) (e ast.DeclEntity, err error) {
	s = strings.TrimSpace(s)
	e.Name = entityNameRe.FindString(s)
	if e.Name == "" {
		return e, errInvalid
	}
	rest := strings.TrimSpace(s[len(e.Name):])
	if strings.HasPrefix(rest, "(") {
		inner, tail, ok := splitParen(rest)
		if !ok || inner == "" {
			return e, errInvalid
		}
		if e.Dims, err = parseArgList(inner, sc); err != nil {
			return e, err
		}
		rest = tail
	}
	if strings.HasPrefix(rest, "*") {
		rest = strings.TrimSpace(rest[1:])
		if strings.HasPrefix(rest, "(") {
			inner, tail, ok := splitParen(rest)
			if !ok {
				return e, errInvalid
			}
			if e.CharLen, err = charLen(inner, sc); err != nil {
				return e, err
			}
			rest = tail
		} else {
			n := leadingDigits(rest)
			if n == 0 {
				return e, errInvalid
			}
			e.CharLen = &ast.IntegerLiteral{Raw: rest[:n]}
			rest = strings.TrimSpace(rest[n:])
		}
	}
	switch {
	case rest == "":
	case strings.HasPrefix(rest, "=>"):
		e.PointerInit = true
		e.Init, err = parseExpr(rest[2:], sc)
	case strings.HasPrefix(rest, "=") && !strings.HasPrefix(rest, "=="):
		e.Init, err = parseExpr(rest[1:], sc)
	default:
		err = errInvalid
	}
	return e, err
}

// parseEntities parses a non-empty comma separated entity list.
func parseEntities(s string, sc *scope) ([]ast.DeclEntity, error) {
	parts := splitTop(s, ',')
	if len(parts) == 0 {
		return nil, errInvalid
	}
	list := make([]ast.DeclEntity, 0, len(parts))
	for _, p := range parts {
		e, err := parseEntity(p, sc)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, nil
}

// parseAttrItems parses the objects of an attribute statement: entities
// without initialization, /common/ block names and generic specifications.
func parseAttrItems(s string, sc *scope) ([]ast.DeclEntity, error) {
	var list []ast.DeclEntity
	for _, p := range splitTop(s, ',') {
		if strings.HasPrefix(p, "/") {
			name := squeeze(p)
			if len(name) < 3 || name[len(name)-1] != '/' || !isName(name[1:len(name)-1]) {
				return nil, errInvalid
			}
			list = append(list, ast.DeclEntity{Name: name})
			continue
		}
		if lp := lower(p); (strings.HasPrefix(lp, "operator") || strings.HasPrefix(lp, "assignment")) &&
			strings.IndexByte(p, '(') > 0 {
			list = append(list, ast.DeclEntity{Name: genericSpec(p)})
			continue
		}
		e, err := parseEntity(p, sc)
		if err != nil {
			return nil, err
		}
		if e.Init != nil {
			return nil, errInvalid
		}
		list = append(list, e)
	}
	return list, nil
}

// declareEntities records entities in the scope. Entities with bounds,
// or all of them when array is set, are arrays.
func declareEntities(sc *scope, list []ast.DeclEntity, array bool) {
	for i := range list {
		if isName(list[i].Name) {
			sc.declare(list[i].Name, array || len(list[i].Dims) > 0)
		}
	}
}
