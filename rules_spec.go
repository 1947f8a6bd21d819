package fparser

import (
	"strings"

	"github.com/soypat/go-fparser/ast"
)

var attrStmtKinds = map[string]ast.Kind{
	"EXTERNAL":     ast.KindExternal,
	"INTRINSIC":    ast.KindIntrinsicStmt,
	"OPTIONAL":     ast.KindOptional,
	"POINTER":      ast.KindPointer,
	"TARGET":       ast.KindTarget,
	"ALLOCATABLE":  ast.KindAllocatable,
	"PROTECTED":    ast.KindProtected,
	"VOLATILE":     ast.KindVolatile,
	"VALUE":        ast.KindValue,
	"ASYNCHRONOUS": ast.KindAsynchronous,
	"SAVE":         ast.KindSave,
	"PUBLIC":       ast.KindPublic,
	"PRIVATE":      ast.KindPrivate,
}

// specRules are the specification statements.
func specRules() []*Rule {
	return []*Rule{
		{
			Name: "ImplicitNone", Class: ClassSpec,
			Pattern: `implicit\s*none(?:\s*\([^()]*\))?`,
			Build: func(m *Match) (ast.Statement, error) {
				return &ast.ImplicitStatement{None: true}, nil
			},
		},
		{Name: "Implicit", Class: ClassSpec, Pattern: `implicit\s+(?P<rest>.+)`, Build: buildImplicit},
		{
			Name: "Use", Class: ClassSpec,
			Pattern: `use(?:\s*,\s*(?P<nature>intrinsic|non_intrinsic)\s*::|\s*::|\s+)\s*(?P<module>[a-z]\w*)\s*(?:,\s*(?P<only>only\s*:)?\s*(?P<items>.*))?`,
			Build:   buildUse,
		},
		{
			Name: "Import", Class: ClassSpec,
			Pattern: `import(?:(?:\s*::\s*|\s+)(?P<rest>[a-z].*))?`,
			Build: func(m *Match) (ast.Statement, error) {
				items, err := parseAttrItems(m.Get("rest"), m.scope)
				if err != nil {
					return nil, err
				}
				return &ast.AttrStmt{Which: ast.KindImport, Keyword: "IMPORT", Items: items}, nil
			},
		},
		{Name: "Parameter", Class: ClassSpec, Pattern: `parameter\s*(?P<rest>\(.*)`, Build: buildParameter},
		{
			Name: "TypeDeclaration", Class: ClassSpec | ClassComponent,
			Pattern: `(?:integer|real|double\s*precision|double\s*complex|complex|logical|character|byte|type|class)\b.*`,
			Build:   buildTypeDecl,
		},
		{
			Name: "Dimension", Class: ClassSpec,
			Pattern: `dimension\s*(?:::)?\s*(?P<rest>[a-z].*)`,
			Build: func(m *Match) (ast.Statement, error) {
				items, err := parseAttrItems(m.Get("rest"), m.scope)
				if err != nil {
					return nil, err
				}
				for i := range items {
					if len(items[i].Dims) == 0 {
						return nil, errInvalid
					}
				}
				declareEntities(m.scope, items, true)
				return &ast.AttrStmt{Which: ast.KindDimension, Keyword: "DIMENSION", Items: items}, nil
			},
		},
		{
			Name: "Intent", Class: ClassSpec,
			Pattern: `intent\s*\((?P<spec>[^()]*)\)\s*(?:::)?\s*(?P<rest>[a-z].*)`,
			Build: func(m *Match) (ast.Statement, error) {
				spec := upper(squeeze(m.Get("spec")))
				switch spec {
				case "IN", "OUT", "INOUT":
				default:
					return nil, errInvalid
				}
				items, err := parseAttrItems(m.Get("rest"), m.scope)
				if err != nil {
					return nil, err
				}
				return &ast.AttrStmt{Which: ast.KindIntent, Keyword: "INTENT", Spec: spec, Items: items}, nil
			},
		},
		{
			Name: "Access", Class: ClassSpec | ClassComponent | ClassBinding,
			Pattern: `(?P<kw>public|private)\s*(?:::\s*)?(?P<rest>.*)`,
			Build:   buildAttrStmt,
		},
		{
			Name: "AttrStmt", Class: ClassSpec,
			Pattern: `(?P<kw>external|intrinsic|optional|pointer|target|allocatable|protected|volatile|value|asynchronous|save)\s*(?:::\s*)?(?P<rest>.*)`,
			Build:   buildAttrStmt,
		},
		{
			Name: "Sequence", Class: ClassComponent,
			Pattern: `sequence`,
			Build: func(m *Match) (ast.Statement, error) {
				return &ast.AttrStmt{Which: ast.KindSequence, Keyword: "SEQUENCE"}, nil
			},
		},
		{
			Name: "Bind", Class: ClassSpec,
			Pattern: `bind\s*\((?P<spec>[^()]*)\)\s*(?:::)?\s*(?P<rest>[a-z/].*)`,
			Build: func(m *Match) (ast.Statement, error) {
				items, err := parseAttrItems(m.Get("rest"), m.scope)
				if err != nil {
					return nil, err
				}
				return &ast.AttrStmt{Which: ast.KindBind, Keyword: "BIND", Spec: bindSpec(m.Get("spec")), Items: items}, nil
			},
		},
		{Name: "Data", Class: ClassSpec | ClassExec, Pattern: `data\s*(?P<rest>[a-z(].*)`, Build: buildData},
		{Name: "Common", Class: ClassSpec, Pattern: `common\s*(?P<rest>[a-z/].*)`, Build: buildCommon},
		{
			Name: "Equivalence", Class: ClassSpec,
			Pattern: `equivalence\s*(?P<rest>\(.*)`,
			Build: func(m *Match) (ast.Statement, error) {
				es := &ast.EquivalenceStmt{}
				for _, set := range splitTop(m.Get("rest"), ',') {
					inner, ok := parenthesized(set)
					if !ok {
						return nil, errInvalid
					}
					items, err := targets(inner, m.scope)
					if err != nil {
						return nil, err
					}
					if len(items) < 2 {
						return nil, errInvalid
					}
					es.Sets = append(es.Sets, items)
				}
				return es, nil
			},
		},
		{Name: "Namelist", Class: ClassSpec, Pattern: `namelist\s*(?P<rest>/.*)`, Build: buildNamelist},
		{
			Name: "Entry", Class: ClassSpec | ClassExec,
			Pattern: `entry\s+(?P<name>[a-z]\w*)\s*(?:\((?P<args>[^()]*)\))?\s*(?P<suffix>.*)`,
			Build: func(m *Match) (ast.Statement, error) {
				args, err := nameList(m.Get("args"), true)
				if err != nil {
					return nil, err
				}
				result, bind, err := procSuffix(m.Get("suffix"))
				if err != nil {
					return nil, err
				}
				return &ast.EntryStmt{Name: m.Get("name"), Args: args, Result: result, Bind: bind}, nil
			},
		},
		{
			Name: "Format", Class: ClassSpec | ClassExec,
			Pattern: `format\s*(?P<spec>\(.*\))`,
			Build: func(m *Match) (ast.Statement, error) {
				items, err := formatItems(m.Get("spec"))
				if err != nil {
					return nil, errInvalid
				}
				return &ast.FormatStmt{Items: items}, nil
			},
		},
		{
			Name: "Include", Class: ClassAny,
			Pattern: `include\s*(?P<path>'[^']*'|"[^"]*")`,
			Build: func(m *Match) (ast.Statement, error) {
				return &ast.IncludeStmt{Path: &ast.StringLiteral{Raw: m.Get("path")}}, nil
			},
		},
		{
			Name: "ModuleProcedure", Class: ClassInterfaceItem,
			Pattern: `(?P<module>module\s+)?procedure\s*(?:::)?\s*(?P<names>[a-z].*)`,
			Build: func(m *Match) (ast.Statement, error) {
				names, err := nameList(m.Get("names"), false)
				if err != nil {
					return nil, err
				}
				return &ast.ModuleProcedureStmt{Module: m.Has("module"), Names: names}, nil
			},
		},
		{
			Name: "ProcedureBinding", Class: ClassBinding | ClassSpec,
			Pattern: `procedure\s*(?:\(\s*(?P<iface>[a-z]\w*)\s*\))?\s*(?P<rest>[,:a-z].*)`,
			Build:   buildProcedureBinding,
		},
		{
			Name: "Generic", Class: ClassBinding,
			Pattern: `generic\s*(?:,\s*(?P<access>public|private)\s*)?::\s*(?P<spec>.+?)\s*=>\s*(?P<targets>.+)`,
			Build: func(m *Match) (ast.Statement, error) {
				targets, err := nameList(m.Get("targets"), false)
				if err != nil {
					return nil, err
				}
				return &ast.GenericBinding{Access: upper(m.Get("access")), Spec: genericSpec(m.Get("spec")), Targets: targets}, nil
			},
		},
		{
			Name: "Final", Class: ClassBinding,
			Pattern: `final\s*(?:::)?\s*(?P<names>[a-z].*)`,
			Build: func(m *Match) (ast.Statement, error) {
				names, err := nameList(m.Get("names"), false)
				if err != nil {
					return nil, err
				}
				st := &ast.AttrStmt{Which: ast.KindFinal, Keyword: "FINAL"}
				for _, n := range names {
					st.Items = append(st.Items, ast.DeclEntity{Name: n})
				}
				return st, nil
			},
		},
		{
			Name: "Enumerator", Class: ClassEnum,
			Pattern: `enumerator\s*(?:::)?\s*(?P<rest>[a-z].*)`,
			Build: func(m *Match) (ast.Statement, error) {
				items, err := parseEntities(m.Get("rest"), m.scope)
				if err != nil {
					return nil, err
				}
				return &ast.AttrStmt{Which: ast.KindEnumerator, Keyword: "ENUMERATOR", Items: items}, nil
			},
		},
	}
}

func buildImplicit(m *Match) (ast.Statement, error) {
	is := &ast.ImplicitStatement{}
	for _, item := range splitTop(m.Get("rest"), ',') {
		open := lastGroup(item)
		if open <= 0 {
			return nil, errInvalid
		}
		ts, tail, err := parseTypeSpec(item[:open], m.scope)
		if err != nil || tail != "" {
			return nil, errInvalid
		}
		spec := ast.ImplicitSpec{Type: ts}
		for _, r := range splitTop(item[open+1:len(item)-1], ',') {
			r = squeeze(r)
			if !letterRange(r) {
				return nil, errInvalid
			}
			spec.Ranges = append(spec.Ranges, r)
		}
		if len(spec.Ranges) == 0 {
			return nil, errInvalid
		}
		is.Specs = append(is.Specs, spec)
	}
	return is, nil
}

// lastGroup returns the index of the parenthesis opening the group that
// ends s, or -1.
func lastGroup(s string) int {
	if !strings.HasSuffix(s, ")") {
		return -1
	}
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// letterRange reports whether s is "a" or "a-z".
func letterRange(s string) bool {
	switch len(s) {
	case 1:
		return isLetter(s[0])
	case 3:
		return isLetter(s[0]) && s[1] == '-' && isLetter(s[2])
	}
	return false
}

func buildUse(m *Match) (ast.Statement, error) {
	us := &ast.UseStatement{
		Nature: upper(m.Get("nature")),
		Module: m.Get("module"),
		Only:   m.Has("only"),
	}
	if m.Has("items") && !us.Only && m.Get("items") == "" {
		return nil, errInvalid
	}
	for _, item := range splitTop(m.Get("items"), ',') {
		if item == "" {
			return nil, errInvalid
		}
		us.Items = append(us.Items, genericSpec(item))
	}
	return us, nil
}

func buildParameter(m *Match) (ast.Statement, error) {
	inner, tail, ok := splitParen(m.Get("rest"))
	if !ok || tail != "" {
		return nil, errInvalid
	}
	ps := &ast.ParameterStmt{}
	for _, item := range splitTop(inner, ',') {
		name, value, ok := splitKeyword(item)
		if !ok {
			return nil, errInvalid
		}
		x, err := m.Expr(value)
		if err != nil {
			return nil, err
		}
		ps.Consts = append(ps.Consts, ast.NamedConstant{Name: name, Value: x})
	}
	if len(ps.Consts) == 0 {
		return nil, errInvalid
	}
	return ps, nil
}

func buildTypeDecl(m *Match) (ast.Statement, error) {
	ts, rest, err := parseTypeSpec(m.Text, m.scope)
	if err != nil {
		return nil, err
	}
	td := &ast.TypeDeclaration{Type: ts}
	switch {
	case strings.HasPrefix(rest, ","):
		i := indexTop(rest, "::")
		if i < 0 {
			return nil, errInvalid
		}
		if td.Attrs, err = parseAttrs(rest[1:i], m.scope); err != nil {
			return nil, err
		}
		rest = rest[i+2:]
	case strings.HasPrefix(rest, "::"):
		rest = rest[2:]
	}
	if td.Entities, err = parseEntities(rest, m.scope); err != nil {
		return nil, err
	}
	declareEntities(m.scope, td.Entities, hasAttr(td.Attrs, "DIMENSION"))
	return td, nil
}

func buildAttrStmt(m *Match) (ast.Statement, error) {
	kw := upper(m.Get("kw"))
	items, err := parseAttrItems(m.Get("rest"), m.scope)
	if err != nil {
		return nil, err
	}
	switch kw {
	case "SAVE", "PUBLIC", "PRIVATE":
	default:
		if len(items) == 0 {
			return nil, errInvalid
		}
	}
	switch kw {
	case "EXTERNAL":
		declareEntities(m.scope, items, false)
	case "ALLOCATABLE", "POINTER", "TARGET":
		for i := range items {
			if len(items[i].Dims) > 0 {
				m.scope.declare(items[i].Name, true)
			}
		}
	}
	return &ast.AttrStmt{Which: attrStmtKinds[kw], Keyword: kw, Items: items}, nil
}

// buildData parses "objects /values/ [,] objects /values/ ...".
func buildData(m *Match) (ast.Statement, error) {
	ds := &ast.DataStmt{}
	s := m.Get("rest")
	for s != "" {
		i := indexTop(s, "/")
		if i <= 0 {
			return nil, errInvalid
		}
		objs := s[:i]
		s = s[i+1:]
		j := indexTop(s, "/")
		if j < 0 {
			return nil, errInvalid
		}
		vals := s[:j]
		s = strings.TrimSpace(s[j+1:])
		s = strings.TrimSpace(strings.TrimPrefix(s, ","))
		objects, err := targets(objs, m.scope)
		if err != nil {
			return nil, err
		}
		values, err := m.ExprList(vals)
		if err != nil {
			return nil, err
		}
		if len(objects) == 0 || len(values) == 0 {
			return nil, errInvalid
		}
		ds.Sets = append(ds.Sets, ast.DataSet{Objects: objects, Values: values})
	}
	return ds, nil
}

// buildCommon parses "[/name/] items [[,] /name/ items] ...".
func buildCommon(m *Match) (ast.Statement, error) {
	cs := &ast.CommonStmt{}
	s := m.Get("rest")
	for s != "" {
		var blk ast.CommonBlock
		if s[0] == '/' {
			j := strings.IndexByte(s[1:], '/')
			if j < 0 {
				return nil, errInvalid
			}
			blk.Name = strings.TrimSpace(s[1 : j+1])
			if blk.Name != "" && !isName(blk.Name) {
				return nil, errInvalid
			}
			s = strings.TrimSpace(s[j+2:])
		}
		items := s
		if i := indexTop(s, "/"); i >= 0 {
			items, s = s[:i], s[i:]
		} else {
			s = ""
		}
		list, err := parseAttrItems(strings.TrimSuffix(strings.TrimSpace(items), ","), m.scope)
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, errInvalid
		}
		blk.Items = list
		cs.Blocks = append(cs.Blocks, blk)
	}
	for _, blk := range cs.Blocks {
		declareEntities(m.scope, blk.Items, false)
	}
	return cs, nil
}

func buildNamelist(m *Match) (ast.Statement, error) {
	ns := &ast.NamelistStmt{}
	s := m.Get("rest")
	for s != "" {
		if s[0] != '/' {
			return nil, errInvalid
		}
		j := strings.IndexByte(s[1:], '/')
		if j < 0 {
			return nil, errInvalid
		}
		g := ast.NamelistGroup{Name: strings.TrimSpace(s[1 : j+1])}
		if !isName(g.Name) {
			return nil, errInvalid
		}
		s = strings.TrimSpace(s[j+2:])
		items := s
		if i := strings.IndexByte(s, '/'); i >= 0 {
			items, s = s[:i], s[i:]
		} else {
			s = ""
		}
		names, err := nameList(strings.TrimSuffix(strings.TrimSpace(items), ","), false)
		if err != nil || len(names) == 0 {
			return nil, errInvalid
		}
		g.Items = names
		ns.Groups = append(ns.Groups, g)
	}
	return ns, nil
}

func buildProcedureBinding(m *Match) (ast.Statement, error) {
	pb := &ast.ProcedureBinding{Interface: m.Get("iface")}
	rest := m.Get("rest")
	switch {
	case strings.HasPrefix(rest, ","):
		i := indexTop(rest, "::")
		if i < 0 {
			return nil, errInvalid
		}
		for _, a := range splitTop(rest[1:i], ',') {
			if a == "" {
				return nil, errInvalid
			}
			pb.Attrs = append(pb.Attrs, upperHead(a))
		}
		rest = rest[i+2:]
	case strings.HasPrefix(rest, "::"):
		rest = rest[2:]
	}
	for _, b := range splitTop(rest, ',') {
		name, target, arrow := strings.Cut(b, "=>")
		name, target = strings.TrimSpace(name), strings.TrimSpace(target)
		switch {
		case !isName(name):
			return nil, errInvalid
		case arrow && !isName(target):
			// Procedure pointer initialization such as p => null().
			x, err := m.Expr(target)
			if err != nil {
				return nil, err
			}
			target = string(x.AppendString(nil))
		}
		if arrow {
			b = name + " => " + target
		} else {
			b = name
		}
		pb.Bindings = append(pb.Bindings, b)
	}
	if len(pb.Bindings) == 0 {
		return nil, errInvalid
	}
	return pb, nil
}
