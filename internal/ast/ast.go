// Package ast defines the abstract syntax tree produced by the parser and
// consumed by the resolver and evaluator.
package ast

import "fmt"

// Identifier names a local, parameter, or object field.
type Identifier string

// Identifiers is a slice of Identifier.
type Identifiers []Identifier

// Location is a single point in a source file.
type Location struct {
	Line   int
	Column int
}

// String renders a location as "line:column".
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// LocationRange is a half-open span within a named source file.
type LocationRange struct {
	FileName string
	Begin    Location
	End      Location
}

// String renders a range as "file:startLine:startCol-endLine:endCol".
func (l LocationRange) String() string {
	if l.FileName == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%s-%s", l.FileName, l.Begin, l.End)
}

// Node is the common interface implemented by every AST expression node.
type Node interface {
	Loc() LocationRange
}

// Nodes is a slice of Node.
type Nodes []Node

// NodeBase holds the fields common to every node.
type NodeBase struct {
	LocRange LocationRange
}

// Loc returns the node's source span.
func (n *NodeBase) Loc() LocationRange { return n.LocRange }

// NewNodeBase builds a NodeBase from a location.
func NewNodeBase(loc LocationRange) NodeBase {
	return NodeBase{LocRange: loc}
}

// ---------------------------------------------------------------------------
// Literals

// NullLit is the `null` literal.
type NullLit struct{ NodeBase }

// BoolLit is `true` or `false`.
type BoolLit struct {
	NodeBase
	Value bool
}

// NumberLit is a numeric literal, already parsed to float64.
type NumberLit struct {
	NodeBase
	Value float64
	// OriginalString preserves the literal's source text for error
	// messages; evaluation always uses Value.
	OriginalString string
}

// StringKind distinguishes literal quoting styles; they are equivalent
// once lexed, kept only for diagnostics.
type StringKind int

// String literal kinds.
const (
	StringDouble StringKind = iota
	StringSingle
	StringVerbatimDouble
	StringVerbatimSingle
	StringBlock
)

// LiteralString is a string literal.
type LiteralString struct {
	NodeBase
	Value          string
	Kind           StringKind
	BlockIndent    string
	BlockTermIndent string
}

// ---------------------------------------------------------------------------
// Compound literals

// Array is an array literal `[a, b, c]`.
type Array struct {
	NodeBase
	Elements Nodes
}

// ForSpec is one `for x in e` clause of a comprehension.
type ForSpec struct {
	VarName Identifier
	Expr    Node
}

// IfSpec is one `if e` clause of a comprehension.
type IfSpec struct {
	Expr Node
}

// CompSpec is one clause of a comprehension: either a ForSpec or an
// IfSpec (exactly one of the two fields is non-nil/non-zero).
type CompSpec struct {
	Kind CompSpecKind
	For  ForSpec
	If   IfSpec
}

// CompSpecKind distinguishes CompSpec variants.
type CompSpecKind int

// CompSpec kinds.
const (
	CompFor CompSpecKind = iota
	CompIf
)

// ArrayComp is an array comprehension `[e for x in a if c ...]`.
type ArrayComp struct {
	NodeBase
	Body  Node
	Specs []CompSpec
}

// ObjectFieldHide is the visibility of an object field.
type ObjectFieldHide int

// Visibility values.
const (
	ObjectFieldHidden  ObjectFieldHide = iota // f:: e
	ObjectFieldInherit                        // f: e
	ObjectFieldVisible                        // f::: e
)

// ObjectFieldKind distinguishes the kinds of object member.
type ObjectFieldKind int

// Member kinds.
const (
	ObjectLocal ObjectFieldKind = iota
	ObjectAssert
	ObjectFieldExpr // computed key: [e]: body, or plain id/string key
)

// ObjectField is one member of an object literal: a local binding, an
// assertion, or a field.
type ObjectField struct {
	Kind ObjectFieldKind

	// Valid when Kind == ObjectFieldExpr.
	Hide       ObjectFieldHide
	PlusSuper  bool // f+: body
	Name       Node // the key expression; nil-valued computed keys are skipped at eval time
	Body       Node

	// Valid when Kind == ObjectLocal.
	LocalName Identifier
	LocalBody Node

	// Valid when Kind == ObjectAssert.
	AssertCond Node
	AssertMsg  Node // may be nil

	LocRange LocationRange
}

// ObjectFields is a slice of ObjectField.
type ObjectFields []ObjectField

// Object is an object literal `{ ... }`. A plain Object never mixes
// regular fields/locals/asserts with a comprehension; that combination is
// represented by ObjectComp instead (enforced by the parser).
type Object struct {
	NodeBase
	Fields ObjectFields
}

// ObjectComp is an object comprehension `{ [k]: v for x in a if c ... }`.
type ObjectComp struct {
	NodeBase
	Locals  ObjectFields // ObjectLocal members only, evaluated per iteration
	KeyExpr Node
	ValExpr Node
	Specs   []CompSpec
}

// ---------------------------------------------------------------------------
// Names and access

// Self is the `self` keyword.
type Self struct{ NodeBase }

// SuperIndex is `super.f` or `super[e]`.
type SuperIndex struct {
	NodeBase
	Index    Node // nil when IndexID is set
	IndexID  *Identifier
}

// Var is a reference to a name; the resolver fills in Binding.
type Var struct {
	NodeBase
	Name Identifier

	// Filled in by the resolver.
	Binding BindingRef
}

// BindingKind says what kind of name a Var (or a reference to a parameter
// default) resolves to.
type BindingKind int

// Binding kinds.
const (
	BindUnresolved BindingKind = iota
	BindLocal
	BindParam
	BindObjectLocal
	BindStdlib
	BindSelf
	BindTopLevel // the `$` outermost-self shorthand; `$` is parsed as a TopLevelSelf node, not a Var
)

// BindingRef is the resolver's verdict for a Var.
type BindingRef struct {
	Kind BindingKind
}

// Index is `e[i]` (or, after desugaring, a non-slice index expression).
type Index struct {
	NodeBase
	Target Node
	Index  Node
}

// Field is `e.f`.
type Field struct {
	NodeBase
	Target Node
	Name   Identifier
}

// Slice is `e[begin:end:step]`; any of Begin/End/Step may be nil.
type Slice struct {
	NodeBase
	Target     Node
	BeginIndex Node
	EndIndex   Node
	Step       Node
}

// ---------------------------------------------------------------------------
// Operators

// UnaryOp identifies a unary operator.
type UnaryOp int

// Unary operators.
const (
	UopNot UnaryOp = iota
	UopBitwiseNot
	UopPlus
	UopMinus
)

// Unary is a unary operator application.
type Unary struct {
	NodeBase
	Op   UnaryOp
	Expr Node
}

// BinaryOp identifies a binary operator.
type BinaryOp int

// Binary operators, in the precedence order documented in spec.md §4.2
// (loosest first): Or, And, BitOr, BitXor, BitAnd, equality/relational/In,
// shifts, additive, multiplicative.
const (
	BopOr BinaryOp = iota
	BopAnd
	BopBitOr
	BopBitXor
	BopBitAnd
	BopEqual
	BopNotEqual
	BopLess
	BopLessEq
	BopGreater
	BopGreaterEq
	BopIn
	BopShiftL
	BopShiftR
	BopPlus
	BopMinus
	BopMul
	BopDiv
	BopMod
)

// Binary is a binary operator application.
type Binary struct {
	NodeBase
	Op          BinaryOp
	Left, Right Node
}

// ---------------------------------------------------------------------------
// Control flow

// Conditional is `if cond then trueExpr [else falseExpr]`.
type Conditional struct {
	NodeBase
	Cond      Node
	TrueExpr  Node
	FalseExpr Node // nil for a missing else; evaluates as null
}

// LocalBind is one binding of a `local` group.
type LocalBind struct {
	VarName Identifier
	Body    Node
	// Fun is non-nil when this bind used method sugar: `local f(x) = ...`.
	Fun *Function
}

// Local is a `local a = e, b = e2; body` expression. Bindings within the
// same group may refer to each other (mutual/self recursion through
// closures), consistent with lazy evaluation.
type Local struct {
	NodeBase
	Binds Binds
	Body  Node
}

// Binds is a slice of LocalBind.
type Binds []LocalBind

// Error is the `error e` expression.
type Error struct {
	NodeBase
	Expr Node
}

// Assert is a standalone `assert cond : msg; rest` expression (distinct
// from an object-literal assertion, which is an ObjectField).
type Assert struct {
	NodeBase
	Cond Node
	Msg  Node // nil if omitted
	Rest Node
}

// ---------------------------------------------------------------------------
// Functions

// Param is one function parameter.
type Param struct {
	Name       Identifier
	DefaultArg Node // nil for a required positional-or-named parameter
}

// Params is a slice of Param.
type Params []Param

// Function is a function literal `function(params) body`.
type Function struct {
	NodeBase
	Params Params
	Body   Node
}

// NamedArg is one named argument of a call.
type NamedArg struct {
	Name Identifier
	Arg  Node
}

// Apply is a function call `f(args)`.
type Apply struct {
	NodeBase
	Target     Node
	Positional Nodes
	Named      []NamedArg
	TailStrict bool
}

// ---------------------------------------------------------------------------
// Imports

// ImportKind distinguishes the three import forms.
type ImportKind int

// Import kinds.
const (
	ImportJsonnet ImportKind = iota
	ImportString
	ImportBinary
)

// Import is `import`, `importstr`, or `importbin`.
type Import struct {
	NodeBase
	Kind ImportKind
	Path string
}

// ---------------------------------------------------------------------------

// TopLevelSelf is `$`, a reference to the outermost enclosing object's
// `self`, regardless of how many nested objects separate the use site
// from that object.
type TopLevelSelf struct{ NodeBase }
