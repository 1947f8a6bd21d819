package ast

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with the visitor w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order: It starts by calling
// v.Visit(node); node must not be nil. If the visitor w returned by
// v.Visit(node) is not nil, Walk is invoked recursively with visitor
// w for each of the non-nil children of node, followed by a call of
// w.Visit(nil).
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *File:
		walkStmts(v, n.Units)
	case *Block:
		for _, s := range n.Children() {
			Walk(v, s)
		}

	// Begin, middle and end statements.
	case *FunctionStmt:
		if n.Type != nil {
			walkTypeSpec(v, n.Type)
		}
	case *CondStmt:
		walkOpt(v, n.Cond)
	case *CaseStmt:
		walkExprs(v, n.Values)
	case *DoStmt:
		walkOpt(v, n.Start)
		walkOpt(v, n.End)
		walkOpt(v, n.Step)
		walkOpt(v, n.While)
		if n.Concurrent != nil {
			walkForall(v, n.Concurrent)
		}
	case *ForallConstructStmt:
		walkForall(v, &n.Header)
	case *AssociateStmt:
		for _, a := range n.Assocs {
			Walk(v, a.Value)
		}

	// Specification statements.
	case *TypeDeclaration:
		walkTypeSpec(v, &n.Type)
		for i := range n.Attrs {
			walkExprs(v, n.Attrs[i].Args)
		}
		walkEntities(v, n.Entities)
	case *ImplicitStatement:
		for i := range n.Specs {
			walkTypeSpec(v, &n.Specs[i].Type)
		}
	case *AttrStmt:
		walkEntities(v, n.Items)
	case *ParameterStmt:
		for _, c := range n.Consts {
			Walk(v, c.Value)
		}
	case *DataStmt:
		for _, set := range n.Sets {
			walkExprs(v, set.Objects)
			walkExprs(v, set.Values)
		}
	case *CommonStmt:
		for _, b := range n.Blocks {
			walkEntities(v, b.Items)
		}
	case *EquivalenceStmt:
		for _, set := range n.Sets {
			walkExprs(v, set)
		}
	case *IncludeStmt:
		Walk(v, n.Path)

	// Executable statements.
	case *AssignmentStmt:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *PointerAssignmentStmt:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *CallStmt:
		Walk(v, n.Callee)
		walkExprs(v, n.Args)
	case *ComputedGotoStmt:
		Walk(v, n.Expr)
	case *ArithmeticIfStmt:
		Walk(v, n.Expr)
	case *IfStmt:
		Walk(v, n.Cond)
		Walk(v, n.Then)
	case *KeywordStmt:
		walkOpt(v, n.Operand)
	case *PrintStmt:
		Walk(v, n.Format)
		walkExprs(v, n.Items)
	case *ReadStmt:
		walkSpecs(v, n.Control)
		walkOpt(v, n.Format)
		walkExprs(v, n.Items)
	case *IOControlStmt:
		walkSpecs(v, n.Control)
		walkExprs(v, n.Items)
	case *AllocateStmt:
		if n.Type != nil {
			walkTypeSpec(v, n.Type)
		}
		walkExprs(v, n.Items)
		walkSpecs(v, n.Opts)
	case *NullifyStmt:
		walkExprs(v, n.Items)
	case *WhereStmt:
		Walk(v, n.Mask)
		Walk(v, n.Assign)
	case *ForallStmt:
		walkForall(v, &n.Header)
		Walk(v, n.Assign)

	// Expressions.
	case *ComplexLiteral:
		Walk(v, n.Re)
		Walk(v, n.Im)
	case *BinaryExpr:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *UnaryExpr:
		Walk(v, n.X)
	case *ParenExpr:
		Walk(v, n.X)
	case *FunctionCall:
		walkExprs(v, n.Args)
	case *ArrayRef:
		walkExprs(v, n.Subscripts)
	case *IntrinsicRef:
		walkExprs(v, n.Args)
	case *ComponentAccess:
		Walk(v, n.Base)
	case *SubscriptExpr:
		Walk(v, n.Base)
		walkExprs(v, n.Args)
	case *RangeExpr:
		walkOpt(v, n.Lo)
		walkOpt(v, n.Hi)
		walkOpt(v, n.Stride)
	case *KeywordArg:
		Walk(v, n.Value)
	case *ArrayConstructor:
		walkExprs(v, n.Values)
	case *ImpliedDoLoop:
		walkExprs(v, n.Items)
		Walk(v, n.Start)
		Walk(v, n.End)
		walkOpt(v, n.Step)
	}

	v.Visit(nil)
}

func walkStmts(v Visitor, list []Statement) {
	for _, s := range list {
		Walk(v, s)
	}
}

func walkExprs(v Visitor, list []Expression) {
	for _, e := range list {
		Walk(v, e)
	}
}

func walkOpt(v Visitor, e Expression) {
	if e != nil {
		Walk(v, e)
	}
}

func walkSpecs(v Visitor, specs []ControlSpec) {
	for _, s := range specs {
		Walk(v, s.Value)
	}
}

func walkTypeSpec(v Visitor, ts *TypeSpec) {
	walkOpt(v, ts.KindParam)
	walkOpt(v, ts.Len)
}

func walkEntities(v Visitor, list []DeclEntity) {
	for i := range list {
		walkExprs(v, list[i].Dims)
		walkOpt(v, list[i].CharLen)
		walkOpt(v, list[i].Init)
	}
}

func walkForall(v Visitor, h *ForallHeader) {
	for _, s := range h.Specs {
		Walk(v, s.Lo)
		Walk(v, s.Hi)
		walkOpt(v, s.Stride)
	}
	walkOpt(v, h.Mask)
}

// Inspect traverses an AST in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the non-nil children of node, followed by a
// call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Collect returns the nodes under root, root included, whose kind is one
// of kinds, in document order. With no kinds every node is returned.
func Collect(root Node, kinds ...Kind) []Node {
	var out []Node
	Inspect(root, func(n Node) bool {
		if n == nil {
			return false
		}
		if len(kinds) == 0 {
			out = append(out, n)
			return true
		}
		for _, k := range kinds {
			if n.Kind() == k {
				out = append(out, n)
				break
			}
		}
		return true
	})
	return out
}
