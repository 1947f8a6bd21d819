package fparser

import (
	"strings"

	"github.com/soypat/go-fparser/ast"
)

// unitRules are the program unit and procedure headers.
func unitRules() []*Rule {
	return []*Rule{
		{
			Name: "Program", Class: ClassUnit, Opens: "Program",
			Pattern: `program\s+(?P<name>[a-z]\w*)`,
			Build: func(m *Match) (ast.Statement, error) {
				return &ast.ProgramStmt{Name: m.Get("name")}, nil
			},
		},
		{
			Name: "BlockData", Class: ClassUnit, Opens: "BlockData",
			Pattern: `block\s*data(?:\s+(?P<name>[a-z]\w*))?`,
			Build: func(m *Match) (ast.Statement, error) {
				return &ast.NamedStmt{Which: ast.KindBlockDataStmt, Keyword: "BLOCK DATA", Name: m.Get("name")}, nil
			},
		},
		{
			Name: "Module", Class: ClassUnit, Opens: "Module",
			Pattern: `module\s+(?P<name>[a-z]\w*)`,
			Build: func(m *Match) (ast.Statement, error) {
				name := m.Get("name")
				if strings.EqualFold(name, "procedure") {
					return nil, errInvalid
				}
				return &ast.NamedStmt{Which: ast.KindModuleStmt, Keyword: "MODULE", Name: name}, nil
			},
		},
		{
			Name: "Subroutine", Class: ClassProcedure, Opens: "Subroutine",
			Pattern: `(?P<head>[a-z_\s]*?)\bsubroutine\s+(?P<name>[a-z]\w*)\s*(?:\((?P<args>[^()]*)\))?\s*(?P<suffix>.*)`,
			Build:   buildSubroutine,
		},
		{
			Name: "Function", Class: ClassProcedure, Opens: "Function",
			Pattern: `(?P<head>.*?)\bfunction\s+(?P<name>[a-z]\w*)\s*\((?P<args>[^()]*)\)\s*(?P<suffix>.*)`,
			Build:   buildFunction,
		},
	}
}

func buildSubroutine(m *Match) (ast.Statement, error) {
	prefix, ts, err := procPrefix(m.Get("head"), m.scope)
	if err != nil || ts != nil {
		return nil, errInvalid
	}
	args, err := nameList(m.Get("args"), true)
	if err != nil {
		return nil, err
	}
	result, bind, err := procSuffix(m.Get("suffix"))
	if err != nil || result != "" {
		return nil, errInvalid
	}
	return &ast.SubroutineStmt{Prefix: prefix, Name: m.Get("name"), Args: args, Bind: bind}, nil
}

func buildFunction(m *Match) (ast.Statement, error) {
	prefix, ts, err := procPrefix(m.Get("head"), m.scope)
	if err != nil {
		return nil, err
	}
	args, err := nameList(m.Get("args"), false)
	if err != nil {
		return nil, err
	}
	result, bind, err := procSuffix(m.Get("suffix"))
	if err != nil {
		return nil, err
	}
	return &ast.FunctionStmt{Prefix: prefix, Type: ts, Name: m.Get("name"), Args: args, Result: result, Bind: bind}, nil
}

// specConstructRules open the blocks allowed in specification parts.
func specConstructRules() []*Rule {
	return []*Rule{
		{
			Name: "Interface", Class: ClassSpec, Opens: "Interface",
			Pattern: `(?P<abstract>abstract\s+)?interface(?:\s+(?P<spec>\S.*))?`,
			Build: func(m *Match) (ast.Statement, error) {
				ns := &ast.NamedStmt{Which: ast.KindInterfaceStmt, Keyword: "INTERFACE", Name: genericSpec(m.Get("spec"))}
				if m.Has("abstract") {
					if ns.Name != "" {
						return nil, errInvalid
					}
					ns.Keyword = "ABSTRACT INTERFACE"
				}
				return ns, nil
			},
		},
		{
			Name: "TypeDef", Class: ClassSpec, Opens: "Type",
			Pattern: `type(?:\s*,\s*(?P<attrs>.*?)\s*::|\s*::|\s+)\s*(?P<name>[a-z]\w*)`,
			Build: func(m *Match) (ast.Statement, error) {
				ts := &ast.TypeStmt{Name: m.Get("name")}
				for _, a := range splitTop(m.Get("attrs"), ',') {
					if a == "" {
						return nil, errInvalid
					}
					ts.Attrs = append(ts.Attrs, upperHead(a))
				}
				return ts, nil
			},
		},
		{
			Name: "Enum", Class: ClassSpec, Opens: "Enum",
			Pattern: `enum\s*,\s*bind\s*\(\s*c\s*\)`,
			Build: func(m *Match) (ast.Statement, error) {
				return &ast.EnumStmt{}, nil
			},
		},
	}
}
