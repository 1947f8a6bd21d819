package ast

// Node is implemented by every element of the syntax tree.
type Node interface {
	// AppendString appends the canonical Fortran rendering of the node to dst.
	// Statements render as a single line without label or indentation,
	// blocks render as indented multi-line text.
	AppendString(dst []byte) []byte
	// Kind returns the node's variant tag.
	Kind() Kind
}

type Expression interface {
	Node
	expressionNode()
}

type Statement interface {
	Node
	statementNode()
	// Info returns the label, construct name and source location of the statement.
	Info() *StmtInfo
}

// Source locates a statement in the original text.
type Source struct {
	Line    int // 1-based first physical line.
	Col     int // 1-based column of the first statement character.
	EndLine int // last physical line of a continued statement.
	Text    string
}

// StmtInfo is embedded by every statement.
type StmtInfo struct {
	Label         string // statement label, e.g. "10".
	ConstructName string // name in a "name: DO ..." prefix.
	Source        Source
}

// Info returns s. It lets embedded StmtInfo satisfy [Statement].
func (s *StmtInfo) Info() *StmtInfo { return s }

// File is the root of a parsed source.
type File struct {
	Source string      // file or source name.
	Units  []Statement // program unit blocks, directives and top level comments.
}

func (f *File) Kind() Kind { return KindFile }

func (f *File) AppendString(dst []byte) []byte {
	for i, unit := range f.Units {
		if i > 0 {
			dst = append(dst, '\n')
		}
		dst = appendStatement(dst, unit, 0)
	}
	return dst
}

// Block is a construct delimited by a begin and an end statement:
// program units, IF, DO, SELECT CASE, WHERE, INTERFACE, derived types, ...
type Block struct {
	// BlockKind is one of the block kinds (KindProgram, KindIfBlock, ...).
	BlockKind Kind
	// Construct is the name of the construct in the registry that built the block.
	Construct string
	// Begin opens the block. Nil for a main program without PROGRAM statement.
	Begin Statement
	// Body holds statements and nested blocks in source order, including
	// middle statements such as ELSE IF, ELSE, CASE and CONTAINS.
	Body []Statement
	// End closes the block. Nil when the block was closed by a labeled DO
	// terminal statement or by the end of input for an implicit main program.
	End *EndStmt

	implicit StmtInfo
}

func (b *Block) statementNode() {}
func (b *Block) Kind() Kind     { return b.BlockKind }

// Info returns the begin statement's information so that labels and
// construct names render on the block's first line.
func (b *Block) Info() *StmtInfo {
	if b.Begin != nil {
		return b.Begin.Info()
	}
	return &b.implicit
}

func (b *Block) AppendString(dst []byte) []byte {
	return appendBlock(dst, b, 0)
}

// Children returns the block's begin statement, body and end statement
// in source order, skipping missing begin and end statements.
func (b *Block) Children() []Statement {
	out := make([]Statement, 0, len(b.Body)+2)
	if b.Begin != nil {
		out = append(out, b.Begin)
	}
	out = append(out, b.Body...)
	if b.End != nil {
		out = append(out, b.End)
	}
	return out
}

// Kind tags every node variant.
type Kind int

const (
	KindInvalid Kind = iota
	KindFile

	// Blocks.
	KindProgram
	KindSubroutine
	KindFunction
	KindModule
	KindBlockData
	KindInterface
	KindTypeDef
	KindEnum
	KindIfBlock
	KindDoBlock
	KindSelectBlock
	KindWhereBlock
	KindForallBlock
	KindAssociateBlock
	KindBlockBlock
	KindCustomBlock

	// Begin, middle and end statements.
	KindProgramStmt
	KindSubroutineStmt
	KindFunctionStmt
	KindModuleStmt
	KindBlockDataStmt
	KindInterfaceStmt
	KindTypeStmt
	KindEnumStmt
	KindIfThen
	KindElseIf
	KindElse
	KindDo
	KindSelectCase
	KindCase
	KindWhereConstruct
	KindElseWhere
	KindForallConstruct
	KindAssociate
	KindBlockStmt
	KindContains
	KindEnd
	KindCustomBegin

	// Specification statements.
	KindTypeDeclaration
	KindImplicit
	KindUse
	KindImport
	KindParameter
	KindDimension
	KindData
	KindCommon
	KindEquivalence
	KindNamelist
	KindSave
	KindIntent
	KindExternal
	KindIntrinsicStmt
	KindOptional
	KindPointer
	KindTarget
	KindAllocatable
	KindProtected
	KindVolatile
	KindValue
	KindAsynchronous
	KindPublic
	KindPrivate
	KindSequence
	KindBind
	KindEntry
	KindFormat
	KindInclude
	KindModuleProcedure
	KindProcedureBinding
	KindGenericBinding
	KindFinal
	KindEnumerator

	// Executable statements.
	KindAssignment
	KindPointerAssignment
	KindAssign
	KindCall
	KindGoto
	KindComputedGoto
	KindAssignedGoto
	KindArithmeticIf
	KindLogicalIf
	KindContinue
	KindReturn
	KindStop
	KindPause
	KindCycle
	KindExit
	KindPrint
	KindRead
	KindWrite
	KindOpen
	KindClose
	KindInquire
	KindRewind
	KindBackspace
	KindEndfile
	KindFlush
	KindWait
	KindAllocate
	KindDeallocate
	KindNullify
	KindWhereStmt
	KindForallStmt

	// Source level items.
	KindComment
	KindDirective

	// Expressions.
	KindIdentifier
	KindIntegerLiteral
	KindRealLiteral
	KindStringLiteral
	KindLogicalLiteral
	KindBOZLiteral
	KindComplexLiteral
	KindUnaryExpr
	KindBinaryExpr
	KindParenExpr
	KindFunctionCall
	KindArrayRef
	KindIntrinsicRef
	KindComponentAccess
	KindSubscriptExpr
	KindRangeExpr
	KindKeywordArg
	KindArrayConstructor
	KindImpliedDoLoop
	KindStar
	KindAlternateReturnArg
	numKinds
)

var kindNames = [numKinds]string{
	KindInvalid: "Invalid", KindFile: "File",
	KindProgram: "Program", KindSubroutine: "Subroutine", KindFunction: "Function",
	KindModule: "Module", KindBlockData: "BlockData", KindInterface: "Interface",
	KindTypeDef: "TypeDef", KindEnum: "Enum", KindIfBlock: "IfBlock",
	KindDoBlock: "DoBlock", KindSelectBlock: "SelectBlock", KindWhereBlock: "WhereBlock",
	KindForallBlock: "ForallBlock", KindAssociateBlock: "AssociateBlock",
	KindBlockBlock: "BlockBlock", KindCustomBlock: "CustomBlock",
	KindProgramStmt: "ProgramStmt", KindSubroutineStmt: "SubroutineStmt",
	KindFunctionStmt: "FunctionStmt", KindModuleStmt: "ModuleStmt",
	KindBlockDataStmt: "BlockDataStmt", KindInterfaceStmt: "InterfaceStmt",
	KindTypeStmt: "TypeStmt", KindEnumStmt: "EnumStmt", KindIfThen: "IfThen",
	KindElseIf: "ElseIf", KindElse: "Else", KindDo: "Do", KindSelectCase: "SelectCase",
	KindCase: "Case", KindWhereConstruct: "WhereConstruct", KindElseWhere: "ElseWhere",
	KindForallConstruct: "ForallConstruct", KindAssociate: "Associate",
	KindBlockStmt: "BlockStmt", KindContains: "Contains", KindEnd: "End",
	KindCustomBegin:     "CustomBegin",
	KindTypeDeclaration: "TypeDeclaration", KindImplicit: "Implicit", KindUse: "Use",
	KindImport: "Import", KindParameter: "Parameter", KindDimension: "Dimension",
	KindData: "Data", KindCommon: "Common", KindEquivalence: "Equivalence",
	KindNamelist: "Namelist", KindSave: "Save", KindIntent: "Intent",
	KindExternal: "External", KindIntrinsicStmt: "IntrinsicStmt", KindOptional: "Optional",
	KindPointer: "Pointer", KindTarget: "Target", KindAllocatable: "Allocatable",
	KindProtected: "Protected", KindVolatile: "Volatile", KindValue: "Value",
	KindAsynchronous: "Asynchronous", KindPublic: "Public", KindPrivate: "Private",
	KindSequence: "Sequence", KindBind: "Bind", KindEntry: "Entry", KindFormat: "Format",
	KindInclude: "Include", KindModuleProcedure: "ModuleProcedure",
	KindProcedureBinding: "ProcedureBinding", KindGenericBinding: "GenericBinding",
	KindFinal: "Final", KindEnumerator: "Enumerator",
	KindAssignment: "Assignment", KindPointerAssignment: "PointerAssignment",
	KindAssign: "Assign", KindCall: "Call", KindGoto: "Goto", KindComputedGoto: "ComputedGoto",
	KindAssignedGoto: "AssignedGoto", KindArithmeticIf: "ArithmeticIf",
	KindLogicalIf: "LogicalIf", KindContinue: "Continue", KindReturn: "Return",
	KindStop: "Stop", KindPause: "Pause", KindCycle: "Cycle", KindExit: "Exit",
	KindPrint: "Print", KindRead: "Read", KindWrite: "Write", KindOpen: "Open",
	KindClose: "Close", KindInquire: "Inquire", KindRewind: "Rewind",
	KindBackspace: "Backspace", KindEndfile: "Endfile", KindFlush: "Flush",
	KindWait: "Wait", KindAllocate: "Allocate", KindDeallocate: "Deallocate",
	KindNullify: "Nullify", KindWhereStmt: "WhereStmt", KindForallStmt: "ForallStmt",
	KindComment: "Comment", KindDirective: "Directive",
	KindIdentifier: "Identifier", KindIntegerLiteral: "IntegerLiteral",
	KindRealLiteral: "RealLiteral", KindStringLiteral: "StringLiteral",
	KindLogicalLiteral: "LogicalLiteral", KindBOZLiteral: "BOZLiteral",
	KindComplexLiteral: "ComplexLiteral", KindUnaryExpr: "UnaryExpr",
	KindBinaryExpr: "BinaryExpr", KindParenExpr: "ParenExpr",
	KindFunctionCall: "FunctionCall", KindArrayRef: "ArrayRef",
	KindIntrinsicRef: "IntrinsicRef", KindComponentAccess: "ComponentAccess",
	KindSubscriptExpr: "SubscriptExpr", KindRangeExpr: "RangeExpr",
	KindKeywordArg: "KeywordArg", KindArrayConstructor: "ArrayConstructor",
	KindImpliedDoLoop: "ImpliedDoLoop", KindStar: "Star",
	KindAlternateReturnArg: "AlternateReturnArg",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "Kind(?)"
	}
	return kindNames[k]
}

// LookupKind returns the kind with the given name, as printed by [Kind.String].
func LookupKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return KindInvalid, false
}

// IsBlock reports whether k tags a [*Block].
func (k Kind) IsBlock() bool { return k >= KindProgram && k <= KindCustomBlock }

// IsExpression reports whether k tags an expression node.
func (k Kind) IsExpression() bool { return k >= KindIdentifier && k < numKinds }

// IsProgramUnit reports whether k tags a program unit block.
func (k Kind) IsProgramUnit() bool {
	return k == KindProgram || k == KindSubroutine || k == KindFunction ||
		k == KindModule || k == KindBlockData
}

// isMiddle reports statements rendered at their block's indentation.
func (k Kind) isMiddle() bool {
	switch k {
	case KindElseIf, KindElse, KindCase, KindElseWhere, KindContains:
		return true
	}
	return false
}
