package ast

// ControlSpec is one item of an I/O or ALLOCATE control list,
// either positional (Keyword empty) or KEYWORD = value.
type ControlSpec struct {
	Keyword string // upper-cased.
	Value   Expression
}

func (cs ControlSpec) AppendString(dst []byte) []byte {
	if cs.Keyword != "" {
		dst = append(dst, cs.Keyword...)
		dst = append(dst, " = "...)
	}
	return cs.Value.AppendString(dst)
}

// TypeSpec is an intrinsic or derived type specifier.
type TypeSpec struct {
	// Name is INTEGER, REAL, DOUBLE PRECISION, COMPLEX, DOUBLE COMPLEX,
	// LOGICAL, CHARACTER, TYPE or CLASS.
	Name string
	// Star is the length of the nonstandard INTEGER*4 form.
	Star string
	// KindParam is the KIND= selector.
	KindParam Expression
	// Len is the CHARACTER length: an expression, *Star for (*) or an
	// empty *RangeExpr for a deferred (:) length.
	Len Expression
	// Derived names the type of TYPE(name) and CLASS(name).
	Derived string
}

func (ts *TypeSpec) AppendString(dst []byte) []byte {
	dst = append(dst, ts.Name...)
	switch ts.Name {
	case "TYPE", "CLASS":
		dst = append(dst, '(')
		dst = append(dst, ts.Derived...)
		return append(dst, ')')
	case "CHARACTER":
		if ts.Len == nil && ts.KindParam == nil {
			return dst
		}
		dst = append(dst, '(')
		if ts.Len != nil {
			dst = append(dst, "LEN="...)
			dst = ts.Len.AppendString(dst)
			if ts.KindParam != nil {
				dst = append(dst, ", "...)
			}
		}
		if ts.KindParam != nil {
			dst = append(dst, "KIND="...)
			dst = ts.KindParam.AppendString(dst)
		}
		return append(dst, ')')
	}
	if ts.Star != "" {
		dst = append(dst, '*')
		dst = append(dst, ts.Star...)
	}
	if ts.KindParam != nil {
		dst = append(dst, "(KIND="...)
		dst = ts.KindParam.AppendString(dst)
		dst = append(dst, ')')
	}
	return dst
}

// Attribute is an attribute of a type declaration such as
// DIMENSION(10), INTENT(IN) or PARAMETER.
type Attribute struct {
	Name string // upper-cased.
	Spec string // canonical text inside parentheses for INTENT, BIND, EXTENDS...
	Args []Expression
}

func (a *Attribute) AppendString(dst []byte) []byte {
	dst = append(dst, a.Name...)
	if a.Spec != "" {
		dst = append(dst, '(')
		dst = append(dst, a.Spec...)
		dst = append(dst, ')')
	}
	if len(a.Args) > 0 {
		dst = appendArgs(dst, a.Args, ",")
	}
	return dst
}

// DeclEntity represents a single entity in a declaration or attribute statement.
type DeclEntity struct {
	Name        string
	Dims        []Expression // array bounds, RangeExpr for lo:hi, Star for assumed size.
	CharLen     Expression   // a*len form.
	Init        Expression
	PointerInit bool // initialized with => rather than =.
}

func (de *DeclEntity) AppendString(dst []byte) []byte {
	dst = append(dst, de.Name...)
	if len(de.Dims) > 0 {
		dst = appendArgs(dst, de.Dims, ",")
	}
	if de.CharLen != nil {
		dst = append(dst, '*')
		switch de.CharLen.(type) {
		case *IntegerLiteral:
			dst = de.CharLen.AppendString(dst)
		default:
			dst = append(dst, '(')
			dst = de.CharLen.AppendString(dst)
			dst = append(dst, ')')
		}
	}
	if de.Init != nil {
		if de.PointerInit {
			dst = append(dst, " => "...)
		} else {
			dst = append(dst, " = "...)
		}
		dst = de.Init.AppendString(dst)
	}
	return dst
}

func appendEntities(dst []byte, list []DeclEntity) []byte {
	for i := range list {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = list[i].AppendString(dst)
	}
	return dst
}

func appendStrings(dst []byte, list []string, sep string) []byte {
	for i, s := range list {
		if i > 0 {
			dst = append(dst, sep...)
		}
		dst = append(dst, s...)
	}
	return dst
}

func appendSpecs(dst []byte, specs []ControlSpec) []byte {
	dst = append(dst, '(')
	for i := range specs {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = specs[i].AppendString(dst)
	}
	return append(dst, ')')
}

// ==================== SPECIFICATION STATEMENTS ====================

// TypeDeclaration represents a type declaration with attributes
type TypeDeclaration struct {
	StmtInfo
	Type     TypeSpec
	Attrs    []Attribute
	Entities []DeclEntity
}

func (td *TypeDeclaration) statementNode() {}
func (td *TypeDeclaration) Kind() Kind     { return KindTypeDeclaration }
func (td *TypeDeclaration) AppendString(dst []byte) []byte {
	dst = td.Type.AppendString(dst)
	for i := range td.Attrs {
		dst = append(dst, ", "...)
		dst = td.Attrs[i].AppendString(dst)
	}
	if len(td.Entities) > 0 {
		dst = append(dst, " :: "...)
		dst = appendEntities(dst, td.Entities)
	}
	return dst
}

// ImplicitSpec is one TYPE (letter-ranges) item of an IMPLICIT statement.
type ImplicitSpec struct {
	Type   TypeSpec
	Ranges []string // "i-m", "p"
}

// ImplicitStatement represents an IMPLICIT statement
type ImplicitStatement struct {
	StmtInfo
	None  bool
	Specs []ImplicitSpec
}

func (is *ImplicitStatement) statementNode() {}
func (is *ImplicitStatement) Kind() Kind     { return KindImplicit }
func (is *ImplicitStatement) AppendString(dst []byte) []byte {
	if is.None || len(is.Specs) == 0 {
		return append(dst, "IMPLICIT NONE"...)
	}
	dst = append(dst, "IMPLICIT "...)
	for i := range is.Specs {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = is.Specs[i].Type.AppendString(dst)
		dst = append(dst, " ("...)
		dst = appendStrings(dst, is.Specs[i].Ranges, ", ")
		dst = append(dst, ')')
	}
	return dst
}

// UseStatement represents a USE statement
type UseStatement struct {
	StmtInfo
	Nature string // INTRINSIC or NON_INTRINSIC.
	Module string
	Only   bool
	Items  []string // only-list or rename-list items, e.g. "b=>c", "operator(+)".
}

func (us *UseStatement) statementNode() {}
func (us *UseStatement) Kind() Kind     { return KindUse }
func (us *UseStatement) AppendString(dst []byte) []byte {
	dst = append(dst, "USE"...)
	if us.Nature != "" {
		dst = append(dst, ", "...)
		dst = append(dst, us.Nature...)
		dst = append(dst, " ::"...)
	}
	dst = append(dst, ' ')
	dst = append(dst, us.Module...)
	if us.Only {
		dst = append(dst, ", ONLY:"...)
		if len(us.Items) > 0 {
			dst = append(dst, ' ')
		}
	} else if len(us.Items) > 0 {
		dst = append(dst, ", "...)
	}
	return appendStrings(dst, us.Items, ", ")
}

// AttrStmt is a statement made of a keyword, an optional parenthesized
// specifier and a list of names: EXTERNAL, INTRINSIC, SAVE, DIMENSION,
// INTENT, PUBLIC, PRIVATE, IMPORT, SEQUENCE, BIND, FINAL, ENUMERATOR, ...
type AttrStmt struct {
	StmtInfo
	Which   Kind
	Keyword string // upper-cased.
	Spec    string
	Items   []DeclEntity
}

func (as *AttrStmt) statementNode() {}
func (as *AttrStmt) Kind() Kind     { return as.Which }
func (as *AttrStmt) AppendString(dst []byte) []byte {
	dst = append(dst, as.Keyword...)
	if as.Spec != "" {
		dst = append(dst, " ("...)
		dst = append(dst, as.Spec...)
		dst = append(dst, ')')
	}
	if len(as.Items) > 0 {
		sep := " "
		for i := range as.Items {
			if as.Items[i].Init != nil {
				sep = " :: "
				break
			}
		}
		dst = append(dst, sep...)
		dst = appendEntities(dst, as.Items)
	}
	return dst
}

// NamedConstant is a name = value pair of PARAMETER and ASSOCIATE.
type NamedConstant struct {
	Name  string
	Value Expression
}

// ParameterStmt represents PARAMETER (name = value, ...).
type ParameterStmt struct {
	StmtInfo
	Consts []NamedConstant
}

func (ps *ParameterStmt) statementNode() {}
func (ps *ParameterStmt) Kind() Kind     { return KindParameter }
func (ps *ParameterStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "PARAMETER ("...)
	for i, c := range ps.Consts {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = append(dst, c.Name...)
		dst = append(dst, " = "...)
		dst = c.Value.AppendString(dst)
	}
	return append(dst, ')')
}

// DataSet is one object-list / value-list / pair of a DATA statement.
type DataSet struct {
	Objects []Expression
	Values  []Expression
}

// DataStmt represents a DATA statement.
type DataStmt struct {
	StmtInfo
	Sets []DataSet
}

func (ds *DataStmt) statementNode() {}
func (ds *DataStmt) Kind() Kind     { return KindData }
func (ds *DataStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "DATA"...)
	for _, set := range ds.Sets {
		dst = append(dst, ' ')
		dst = appendList(dst, set.Objects, ", ")
		dst = append(dst, " / "...)
		dst = appendList(dst, set.Values, ", ")
		dst = append(dst, " /"...)
	}
	return dst
}

// CommonBlock is one named (or blank, Name empty) block of a COMMON statement.
type CommonBlock struct {
	Name  string
	Items []DeclEntity
}

// CommonStmt represents a COMMON statement.
type CommonStmt struct {
	StmtInfo
	Blocks []CommonBlock
}

func (cs *CommonStmt) statementNode() {}
func (cs *CommonStmt) Kind() Kind     { return KindCommon }
func (cs *CommonStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "COMMON"...)
	for i, b := range cs.Blocks {
		switch {
		case b.Name != "":
			dst = append(dst, " / "...)
			dst = append(dst, b.Name...)
			dst = append(dst, " /"...)
		case i > 0:
			dst = append(dst, " //"...)
		}
		dst = append(dst, ' ')
		dst = appendEntities(dst, b.Items)
	}
	return dst
}

// EquivalenceStmt represents EQUIVALENCE (a, b), (c, d).
type EquivalenceStmt struct {
	StmtInfo
	Sets [][]Expression
}

func (es *EquivalenceStmt) statementNode() {}
func (es *EquivalenceStmt) Kind() Kind     { return KindEquivalence }
func (es *EquivalenceStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "EQUIVALENCE "...)
	for i, set := range es.Sets {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = appendArgs(dst, set, ", ")
	}
	return dst
}

// NamelistGroup is one /group/ item-list of a NAMELIST statement.
type NamelistGroup struct {
	Name  string
	Items []string
}

// NamelistStmt represents a NAMELIST statement.
type NamelistStmt struct {
	StmtInfo
	Groups []NamelistGroup
}

func (ns *NamelistStmt) statementNode() {}
func (ns *NamelistStmt) Kind() Kind     { return KindNamelist }
func (ns *NamelistStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "NAMELIST"...)
	for _, g := range ns.Groups {
		dst = append(dst, " / "...)
		dst = append(dst, g.Name...)
		dst = append(dst, " / "...)
		dst = appendStrings(dst, g.Items, ", ")
	}
	return dst
}

// EntryStmt represents an ENTRY statement.
type EntryStmt struct {
	StmtInfo
	Name   string
	Args   []string
	Result string
	Bind   string
}

func (es *EntryStmt) statementNode() {}
func (es *EntryStmt) Kind() Kind     { return KindEntry }
func (es *EntryStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "ENTRY "...)
	dst = append(dst, es.Name...)
	if len(es.Args) > 0 {
		dst = append(dst, " ("...)
		dst = appendStrings(dst, es.Args, ", ")
		dst = append(dst, ')')
	}
	if es.Result != "" {
		dst = append(dst, " RESULT ("...)
		dst = append(dst, es.Result...)
		dst = append(dst, ')')
	}
	if es.Bind != "" {
		dst = append(dst, " BIND ("...)
		dst = append(dst, es.Bind...)
		dst = append(dst, ')')
	}
	return dst
}

// FormatStmt represents a FORMAT statement. Items are rendered edit descriptors.
type FormatStmt struct {
	StmtInfo
	Items []string
}

func (fs *FormatStmt) statementNode() {}
func (fs *FormatStmt) Kind() Kind     { return KindFormat }
func (fs *FormatStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "FORMAT ("...)
	dst = appendStrings(dst, fs.Items, ", ")
	return append(dst, ')')
}

// IncludeStmt represents a Fortran INCLUDE line. Includes are not expanded.
type IncludeStmt struct {
	StmtInfo
	Path *StringLiteral
}

func (is *IncludeStmt) statementNode() {}
func (is *IncludeStmt) Kind() Kind     { return KindInclude }
func (is *IncludeStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "INCLUDE "...)
	return is.Path.AppendString(dst)
}

// ModuleProcedureStmt represents [MODULE] PROCEDURE names in an interface block.
type ModuleProcedureStmt struct {
	StmtInfo
	Module bool
	Names  []string
}

func (mp *ModuleProcedureStmt) statementNode() {}
func (mp *ModuleProcedureStmt) Kind() Kind     { return KindModuleProcedure }
func (mp *ModuleProcedureStmt) AppendString(dst []byte) []byte {
	if mp.Module {
		dst = append(dst, "MODULE "...)
	}
	dst = append(dst, "PROCEDURE "...)
	return appendStrings(dst, mp.Names, ", ")
}

// ProcedureBinding is a type-bound PROCEDURE statement.
type ProcedureBinding struct {
	StmtInfo
	Interface string
	Attrs     []string // upper-cased binding attributes, e.g. NOPASS, PASS(x).
	Bindings  []string // "a" or "a => b".
}

func (pb *ProcedureBinding) statementNode() {}
func (pb *ProcedureBinding) Kind() Kind     { return KindProcedureBinding }
func (pb *ProcedureBinding) AppendString(dst []byte) []byte {
	dst = append(dst, "PROCEDURE"...)
	if pb.Interface != "" {
		dst = append(dst, '(')
		dst = append(dst, pb.Interface...)
		dst = append(dst, ')')
	}
	if pb.Interface == "" && len(pb.Attrs) == 0 {
		dst = append(dst, ' ')
		return appendStrings(dst, pb.Bindings, ", ")
	}
	for _, a := range pb.Attrs {
		dst = append(dst, ", "...)
		dst = append(dst, a...)
	}
	dst = append(dst, " :: "...)
	return appendStrings(dst, pb.Bindings, ", ")
}

// GenericBinding is a type-bound GENERIC statement.
type GenericBinding struct {
	StmtInfo
	Access  string
	Spec    string
	Targets []string
}

func (gb *GenericBinding) statementNode() {}
func (gb *GenericBinding) Kind() Kind     { return KindGenericBinding }
func (gb *GenericBinding) AppendString(dst []byte) []byte {
	dst = append(dst, "GENERIC"...)
	if gb.Access != "" {
		dst = append(dst, ", "...)
		dst = append(dst, gb.Access...)
	}
	dst = append(dst, " :: "...)
	dst = append(dst, gb.Spec...)
	dst = append(dst, " => "...)
	return appendStrings(dst, gb.Targets, ", ")
}

// ==================== EXECUTABLE STATEMENTS ====================

// AssignmentStmt represents target = value.
type AssignmentStmt struct {
	StmtInfo
	Target Expression
	Value  Expression
}

func (as *AssignmentStmt) statementNode() {}
func (as *AssignmentStmt) Kind() Kind     { return KindAssignment }
func (as *AssignmentStmt) AppendString(dst []byte) []byte {
	dst = as.Target.AppendString(dst)
	dst = append(dst, " = "...)
	return as.Value.AppendString(dst)
}

// PointerAssignmentStmt represents target => value.
type PointerAssignmentStmt struct {
	StmtInfo
	Target Expression
	Value  Expression
}

func (pa *PointerAssignmentStmt) statementNode() {}
func (pa *PointerAssignmentStmt) Kind() Kind     { return KindPointerAssignment }
func (pa *PointerAssignmentStmt) AppendString(dst []byte) []byte {
	dst = pa.Target.AppendString(dst)
	dst = append(dst, " => "...)
	return pa.Value.AppendString(dst)
}

// AssignStmt represents the Fortran 77 ASSIGN label TO var statement.
type AssignStmt struct {
	StmtInfo
	Target string // label being assigned.
	Var    string
}

func (as *AssignStmt) statementNode() {}
func (as *AssignStmt) Kind() Kind     { return KindAssign }
func (as *AssignStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "ASSIGN "...)
	dst = append(dst, as.Target...)
	dst = append(dst, " TO "...)
	return append(dst, as.Var...)
}

// CallStmt represents a CALL statement.
type CallStmt struct {
	StmtInfo
	Callee Expression // Identifier or ComponentAccess chain.
	Args   []Expression
}

func (cs *CallStmt) statementNode() {}
func (cs *CallStmt) Kind() Kind     { return KindCall }
func (cs *CallStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "CALL "...)
	dst = cs.Callee.AppendString(dst)
	if len(cs.Args) > 0 {
		dst = appendArgs(dst, cs.Args, ", ")
	}
	return dst
}

// GotoStmt represents an unconditional GO TO.
type GotoStmt struct {
	StmtInfo
	Target string
}

func (gs *GotoStmt) statementNode() {}
func (gs *GotoStmt) Kind() Kind     { return KindGoto }
func (gs *GotoStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "GO TO "...)
	return append(dst, gs.Target...)
}

// ComputedGotoStmt represents GO TO (l1, l2, ...) expr.
type ComputedGotoStmt struct {
	StmtInfo
	Labels []string
	Expr   Expression
}

func (cg *ComputedGotoStmt) statementNode() {}
func (cg *ComputedGotoStmt) Kind() Kind     { return KindComputedGoto }
func (cg *ComputedGotoStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "GO TO ("...)
	dst = appendStrings(dst, cg.Labels, ", ")
	dst = append(dst, ") "...)
	return cg.Expr.AppendString(dst)
}

// AssignedGotoStmt represents GO TO var [(labels)].
type AssignedGotoStmt struct {
	StmtInfo
	Var    string
	Labels []string
}

func (ag *AssignedGotoStmt) statementNode() {}
func (ag *AssignedGotoStmt) Kind() Kind     { return KindAssignedGoto }
func (ag *AssignedGotoStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "GO TO "...)
	dst = append(dst, ag.Var...)
	if len(ag.Labels) > 0 {
		dst = append(dst, " ("...)
		dst = appendStrings(dst, ag.Labels, ", ")
		dst = append(dst, ')')
	}
	return dst
}

// ArithmeticIfStmt represents IF (expr) neg, zero, pos.
type ArithmeticIfStmt struct {
	StmtInfo
	Expr           Expression
	Neg, Zero, Pos string
}

func (ai *ArithmeticIfStmt) statementNode() {}
func (ai *ArithmeticIfStmt) Kind() Kind     { return KindArithmeticIf }
func (ai *ArithmeticIfStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "IF ("...)
	dst = ai.Expr.AppendString(dst)
	dst = append(dst, ") "...)
	return appendStrings(dst, []string{ai.Neg, ai.Zero, ai.Pos}, ", ")
}

// IfStmt represents the logical IF (cond) action-statement.
type IfStmt struct {
	StmtInfo
	Cond Expression
	Then Statement
}

func (is *IfStmt) statementNode() {}
func (is *IfStmt) Kind() Kind     { return KindLogicalIf }
func (is *IfStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "IF ("...)
	dst = is.Cond.AppendString(dst)
	dst = append(dst, ") "...)
	return is.Then.AppendString(dst)
}

// KeywordStmt is a statement with a keyword and an optional operand:
// CONTINUE, RETURN [expr], STOP [code], PAUSE [code], CYCLE [name],
// EXIT [name], CONTAINS, BLOCK.
type KeywordStmt struct {
	StmtInfo
	Which   Kind
	Keyword string
	Operand Expression
}

func (ks *KeywordStmt) statementNode() {}
func (ks *KeywordStmt) Kind() Kind     { return ks.Which }
func (ks *KeywordStmt) AppendString(dst []byte) []byte {
	dst = append(dst, ks.Keyword...)
	if ks.Operand != nil {
		dst = append(dst, ' ')
		dst = ks.Operand.AppendString(dst)
	}
	return dst
}

// PrintStmt represents PRINT format[, items].
type PrintStmt struct {
	StmtInfo
	Format Expression
	Items  []Expression
}

func (ps *PrintStmt) statementNode() {}
func (ps *PrintStmt) Kind() Kind     { return KindPrint }
func (ps *PrintStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "PRINT "...)
	dst = ps.Format.AppendString(dst)
	if len(ps.Items) > 0 {
		dst = append(dst, ", "...)
		dst = appendList(dst, ps.Items, ", ")
	}
	return dst
}

// ReadStmt represents READ (control) items or READ format[, items].
type ReadStmt struct {
	StmtInfo
	Control []ControlSpec // nil for the short form.
	Format  Expression    // short form only.
	Items   []Expression
}

func (rs *ReadStmt) statementNode() {}
func (rs *ReadStmt) Kind() Kind     { return KindRead }
func (rs *ReadStmt) AppendString(dst []byte) []byte {
	if rs.Control == nil {
		dst = append(dst, "READ "...)
		dst = rs.Format.AppendString(dst)
		if len(rs.Items) > 0 {
			dst = append(dst, ", "...)
			dst = appendList(dst, rs.Items, ", ")
		}
		return dst
	}
	dst = append(dst, "READ "...)
	dst = appendSpecs(dst, rs.Control)
	if len(rs.Items) > 0 {
		dst = append(dst, ' ')
		dst = appendList(dst, rs.Items, ", ")
	}
	return dst
}

// IOControlStmt represents WRITE, OPEN, CLOSE, INQUIRE, REWIND, BACKSPACE,
// ENDFILE, FLUSH and WAIT: a keyword, a control list and optional items.
type IOControlStmt struct {
	StmtInfo
	Which   Kind
	Keyword string
	Control []ControlSpec
	Items   []Expression
}

func (io *IOControlStmt) statementNode() {}
func (io *IOControlStmt) Kind() Kind     { return io.Which }
func (io *IOControlStmt) AppendString(dst []byte) []byte {
	dst = append(dst, io.Keyword...)
	dst = append(dst, ' ')
	dst = appendSpecs(dst, io.Control)
	if len(io.Items) > 0 {
		dst = append(dst, ' ')
		dst = appendList(dst, io.Items, ", ")
	}
	return dst
}

// AllocateStmt represents ALLOCATE and DEALLOCATE.
type AllocateStmt struct {
	StmtInfo
	Dealloc bool
	Type    *TypeSpec
	Items   []Expression
	Opts    []ControlSpec
}

func (as *AllocateStmt) statementNode() {}
func (as *AllocateStmt) Kind() Kind {
	if as.Dealloc {
		return KindDeallocate
	}
	return KindAllocate
}
func (as *AllocateStmt) AppendString(dst []byte) []byte {
	if as.Dealloc {
		dst = append(dst, "DEALLOCATE ("...)
	} else {
		dst = append(dst, "ALLOCATE ("...)
	}
	if as.Type != nil {
		dst = as.Type.AppendString(dst)
		dst = append(dst, " :: "...)
	}
	dst = appendList(dst, as.Items, ", ")
	for _, o := range as.Opts {
		dst = append(dst, ", "...)
		dst = o.AppendString(dst)
	}
	return append(dst, ')')
}

// NullifyStmt represents NULLIFY (pointers).
type NullifyStmt struct {
	StmtInfo
	Items []Expression
}

func (ns *NullifyStmt) statementNode() {}
func (ns *NullifyStmt) Kind() Kind     { return KindNullify }
func (ns *NullifyStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "NULLIFY "...)
	return appendArgs(dst, ns.Items, ", ")
}

// WhereStmt represents the single statement WHERE (mask) assignment.
type WhereStmt struct {
	StmtInfo
	Mask   Expression
	Assign Statement
}

func (ws *WhereStmt) statementNode() {}
func (ws *WhereStmt) Kind() Kind     { return KindWhereStmt }
func (ws *WhereStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "WHERE ("...)
	dst = ws.Mask.AppendString(dst)
	dst = append(dst, ") "...)
	return ws.Assign.AppendString(dst)
}

// ForallSpec is one index-name = lo:hi[:stride] triplet of a FORALL header.
type ForallSpec struct {
	Var            string
	Lo, Hi, Stride Expression
}

// ForallHeader is the parenthesized part of FORALL and DO CONCURRENT.
type ForallHeader struct {
	Specs []ForallSpec
	Mask  Expression
}

func (fh *ForallHeader) AppendString(dst []byte) []byte {
	dst = append(dst, '(')
	for i, s := range fh.Specs {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = append(dst, s.Var...)
		dst = append(dst, " = "...)
		dst = s.Lo.AppendString(dst)
		dst = append(dst, ':')
		dst = s.Hi.AppendString(dst)
		if s.Stride != nil {
			dst = append(dst, ':')
			dst = s.Stride.AppendString(dst)
		}
	}
	if fh.Mask != nil {
		dst = append(dst, ", "...)
		dst = fh.Mask.AppendString(dst)
	}
	return append(dst, ')')
}

// ForallStmt represents the single statement FORALL (header) assignment.
type ForallStmt struct {
	StmtInfo
	Header ForallHeader
	Assign Statement
}

func (fs *ForallStmt) statementNode() {}
func (fs *ForallStmt) Kind() Kind     { return KindForallStmt }
func (fs *ForallStmt) AppendString(dst []byte) []byte {
	dst = append(dst, "FORALL "...)
	dst = fs.Header.AppendString(dst)
	dst = append(dst, ' ')
	return fs.Assign.AppendString(dst)
}

// ==================== SOURCE LEVEL ITEMS ====================

// Comment is a comment line kept when parsing with comments enabled.
type Comment struct {
	StmtInfo
	Text string // text after the comment character.
}

func (c *Comment) statementNode() {}
func (c *Comment) Kind() Kind     { return KindComment }
func (c *Comment) AppendString(dst []byte) []byte {
	dst = append(dst, '!')
	return append(dst, c.Text...)
}

// Directive is a C preprocessor line. Directives are kept, not evaluated.
type Directive struct {
	StmtInfo
	Name string // lower-cased directive name: include, define, ifdef, ...
	Args string // normalized argument text.
}

func (d *Directive) statementNode() {}
func (d *Directive) Kind() Kind     { return KindDirective }
func (d *Directive) AppendString(dst []byte) []byte {
	dst = append(dst, '#')
	dst = append(dst, d.Name...)
	if d.Args != "" {
		dst = append(dst, ' ')
		dst = append(dst, d.Args...)
	}
	return dst
}

// OpaqueStmt is built by custom rules which only keep the statement's canonical text.
type OpaqueStmt struct {
	StmtInfo
	Which Kind
	Text  string
}

func (op *OpaqueStmt) statementNode() {}
func (op *OpaqueStmt) Kind() Kind     { return op.Which }
func (op *OpaqueStmt) AppendString(dst []byte) []byte {
	return append(dst, op.Text...)
}
