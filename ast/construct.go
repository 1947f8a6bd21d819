package ast

// Statements that open, split and close blocks.

// ProgramStmt represents PROGRAM name.
type ProgramStmt struct {
	StmtInfo
	Name string
}

func (ps *ProgramStmt) statementNode() {}
func (ps *ProgramStmt) Kind() Kind     { return KindProgramStmt }
func (ps *ProgramStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "PROGRAM "...)
	return append(dst, ps.Name...)
}

// SubroutineStmt represents [prefix] SUBROUTINE name[(args)] [BIND(...)].
type SubroutineStmt struct {
	StmtInfo
	Prefix []string // upper-cased: RECURSIVE, PURE, ELEMENTAL, IMPURE, MODULE.
	Name   string
	Args   []string // dummy argument names, "*" for alternate returns.
	Bind   string
}

func (ss *SubroutineStmt) statementNode() {}
func (ss *SubroutineStmt) Kind() Kind     { return KindSubroutineStmt }
func (ss *SubroutineStmt) AppendString(dst []byte) []byte {
	dst = appendPrefix(dst, ss.Prefix)
	dst = append(dst, "SUBROUTINE "...)
	dst = append(dst, ss.Name...)
	if len(ss.Args) > 0 {
		dst = append(dst, '(')
		dst = appendStrings(dst, ss.Args, ", ")
		dst = append(dst, ')')
	}
	return appendBind(dst, ss.Bind)
}

// FunctionStmt represents [prefix] [type] FUNCTION name(args) [RESULT(r)] [BIND(...)].
type FunctionStmt struct {
	StmtInfo
	Prefix []string
	Type   *TypeSpec
	Name   string
	Args   []string
	Result string
	Bind   string
}

func (fs *FunctionStmt) statementNode() {}
func (fs *FunctionStmt) Kind() Kind     { return KindFunctionStmt }
func (fs *FunctionStmt) AppendString(dst []byte) []byte {
	dst = appendPrefix(dst, fs.Prefix)
	if fs.Type != nil {
		dst = fs.Type.AppendString(dst)
		dst = append(dst, ' ')
	}
	dst = append(dst, "FUNCTION "...)
	dst = append(dst, fs.Name...)
	dst = append(dst, '(')
	dst = appendStrings(dst, fs.Args, ", ")
	dst = append(dst, ')')
	if fs.Result != "" {
		dst = append(dst, " RESULT("...)
		dst = append(dst, fs.Result...)
		dst = append(dst, ')')
	}
	return appendBind(dst, fs.Bind)
}

func appendPrefix(dst []byte, prefix []string) []byte {
	for _, p := range prefix {
		dst = append(dst, p...)
		dst = append(dst, ' ')
	}
	return dst
}

func appendBind(dst []byte, bind string) []byte {
	if bind == "" {
		return dst
	}
	dst = append(dst, " BIND("...)
	dst = append(dst, bind...)
	return append(dst, ')')
}

// NamedStmt is a begin statement made of keywords and an optional name:
// MODULE name, BLOCK DATA [name], INTERFACE [spec], ABSTRACT INTERFACE.
type NamedStmt struct {
	StmtInfo
	Which   Kind
	Keyword string
	Name    string
}

func (ns *NamedStmt) statementNode() {}
func (ns *NamedStmt) Kind() Kind     { return ns.Which }
func (ns *NamedStmt) AppendString(dst []byte) []byte {
	dst = append(dst, ns.Keyword...)
	if ns.Name != "" {
		dst = append(dst, ' ')
		dst = append(dst, ns.Name...)
	}
	return dst
}

// TypeStmt opens a derived type definition.
type TypeStmt struct {
	StmtInfo
	Attrs []string // e.g. PUBLIC, EXTENDS(base), BIND(C), ABSTRACT.
	Name  string
}

func (ts *TypeStmt) statementNode() {}
func (ts *TypeStmt) Kind() Kind     { return KindTypeStmt }
func (ts *TypeStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "TYPE"...)
	if len(ts.Attrs) == 0 {
		dst = append(dst, ' ')
		return append(dst, ts.Name...)
	}
	for _, a := range ts.Attrs {
		dst = append(dst, ", "...)
		dst = append(dst, a...)
	}
	dst = append(dst, " :: "...)
	return append(dst, ts.Name...)
}

// EnumStmt represents ENUM, BIND(C).
type EnumStmt struct {
	StmtInfo
}

func (es *EnumStmt) statementNode() {}
func (es *EnumStmt) Kind() Kind     { return KindEnumStmt }
func (es *EnumStmt) AppendString(dst []byte) []byte {
	return append(dst, "ENUM, BIND(C)"...)
}

// CondStmt is a statement holding a parenthesized expression:
// IF (c) THEN, ELSE IF (c) THEN, SELECT CASE (x), WHERE (m), ELSE WHERE [(m)].
type CondStmt struct {
	StmtInfo
	Which Kind
	Cond  Expression // nil only for a bare ELSE WHERE.
	// Name is the construct name trailing middle statements.
	Name string
}

func (cs *CondStmt) statementNode() {}
func (cs *CondStmt) Kind() Kind     { return cs.Which }
func (cs *CondStmt) AppendString(dst []byte) []byte {
	var head, tail string
	switch cs.Which {
	case KindIfThen:
		head, tail = "IF", " THEN"
	case KindElseIf:
		head, tail = "ELSE IF", " THEN"
	case KindSelectCase:
		head = "SELECT CASE"
	case KindWhereConstruct:
		head = "WHERE"
	case KindElseWhere:
		head = "ELSE WHERE"
	}
	dst = append(dst, head...)
	if cs.Cond != nil {
		dst = append(dst, " ("...)
		dst = cs.Cond.AppendString(dst)
		dst = append(dst, ')')
	}
	dst = append(dst, tail...)
	return appendName(dst, cs.Name)
}

func appendName(dst []byte, name string) []byte {
	if name == "" {
		return dst
	}
	dst = append(dst, ' ')
	return append(dst, name...)
}

// ElseStmt represents ELSE [name].
type ElseStmt struct {
	StmtInfo
	Name string
}

func (es *ElseStmt) statementNode() {}
func (es *ElseStmt) Kind() Kind     { return KindElse }
func (es *ElseStmt) AppendString(dst []byte) []byte {
	return appendName(append(dst, "ELSE"...), es.Name)
}

// CaseStmt represents CASE (selectors) [name] or CASE DEFAULT [name].
type CaseStmt struct {
	StmtInfo
	Default bool
	Values  []Expression // values and RangeExpr selectors.
	Name    string
}

func (cs *CaseStmt) statementNode() {}
func (cs *CaseStmt) Kind() Kind     { return KindCase }
func (cs *CaseStmt) AppendString(dst []byte) []byte {
	if cs.Default {
		dst = append(dst, "CASE DEFAULT"...)
	} else {
		dst = append(dst, "CASE "...)
		dst = appendArgs(dst, cs.Values, ", ")
	}
	return appendName(dst, cs.Name)
}

// DoStmt opens a DO loop. Exactly one form is set: counted (Var), WHILE,
// CONCURRENT or none for an infinite loop.
type DoStmt struct {
	StmtInfo
	// EndLabel is the label of the terminal statement of a labeled DO.
	EndLabel         string
	Var              string
	Start, End, Step Expression
	While            Expression
	Concurrent       *ForallHeader
}

func (ds *DoStmt) statementNode() {}
func (ds *DoStmt) Kind() Kind     { return KindDo }
func (ds *DoStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "DO"...)
	dst = appendName(dst, ds.EndLabel)
	switch {
	case ds.Concurrent != nil:
		dst = append(dst, " CONCURRENT "...)
		dst = ds.Concurrent.AppendString(dst)
	case ds.While != nil:
		dst = append(dst, " WHILE ("...)
		dst = ds.While.AppendString(dst)
		dst = append(dst, ')')
	case ds.Var != "":
		dst = append(dst, ' ')
		dst = append(dst, ds.Var...)
		dst = append(dst, " = "...)
		dst = ds.Start.AppendString(dst)
		dst = append(dst, ", "...)
		dst = ds.End.AppendString(dst)
		if ds.Step != nil {
			dst = append(dst, ", "...)
			dst = ds.Step.AppendString(dst)
		}
	}
	return dst
}

// ForallConstructStmt opens a FORALL construct.
type ForallConstructStmt struct {
	StmtInfo
	Header ForallHeader
}

func (fc *ForallConstructStmt) statementNode() {}
func (fc *ForallConstructStmt) Kind() Kind     { return KindForallConstruct }
func (fc *ForallConstructStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "FORALL "...)
	return fc.Header.AppendString(dst)
}

// AssociateStmt represents ASSOCIATE (name => selector, ...).
type AssociateStmt struct {
	StmtInfo
	Assocs []NamedConstant
}

func (as *AssociateStmt) statementNode() {}
func (as *AssociateStmt) Kind() Kind     { return KindAssociate }
func (as *AssociateStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "ASSOCIATE ("...)
	for i, a := range as.Assocs {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = append(dst, a.Name...)
		dst = append(dst, " => "...)
		dst = a.Value.AppendString(dst)
	}
	return append(dst, ')')
}

// EndStmt closes a block: END [keyword [name]].
type EndStmt struct {
	StmtInfo
	Keyword string // upper-cased, e.g. "DO", "SUBROUTINE", "BLOCK DATA". Empty for a bare END.
	Name    string
}

func (es *EndStmt) statementNode() {}
func (es *EndStmt) Kind() Kind     { return KindEnd }
func (es *EndStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "END"...)
	dst = appendName(dst, es.Keyword)
	return appendName(dst, es.Name)
}
