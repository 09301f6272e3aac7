// Package ast defines the parser's output shape: the AST consumed by the
// checker. Every node carries an Address locating it in
// source; the checker never re-derives positions, only forwards them into
// diagnostics.
package ast

import "github.com/oil-lang/oil/internal/address"

// Node is implemented by every AST node.
type Node interface {
	Addr() address.Address
}

// Publicity marks pub vs private declarations.
type Publicity int

const (
	Private Publicity = iota
	Public
)

// UseKind is how a Dependency's names enter the importing module's
// namespace.
type UseKind int

const (
	AsName UseKind = iota
	ForNames
)

// Dependency is one `use` declaration.
type Dependency struct {
	Location address.Address
	Path     string // path.module, dot-joined
	Kind     UseKind
	Alias    string   // set when Kind == AsName
	Names    []string // set when Kind == ForNames
}

// File is the parser's output for one source file: a module carrying an
// ordered list of dependencies and declarations.
type File struct {
	Location     address.Address
	Dependencies []Dependency
	Decls        []Decl
}

func (f *File) Addr() address.Address { return f.Location }

// Decl is implemented by every top-level declaration.
type Decl interface {
	Node
	declNode()
}

// TypeParam names a single struct/enum field or function parameter.
type TypeParam struct {
	Name string
	Type TypeExpr
}

// StructDecl declares a nominal record type.
type StructDecl struct {
	Location  address.Address
	Name      string
	Publicity Publicity
	Generics  []string
	Fields    []TypeParam
}

func (d *StructDecl) Addr() address.Address { return d.Location }
func (*StructDecl) declNode()               {}

// VariantDecl is one constructor within an EnumDecl.
type VariantDecl struct {
	Name   string
	Fields []TypeParam
}

// EnumDecl declares a nominal sum type.
type EnumDecl struct {
	Location  address.Address
	Name      string
	Publicity Publicity
	Generics  []string
	Variants  []VariantDecl
}

func (d *EnumDecl) Addr() address.Address { return d.Location }
func (*EnumDecl) declNode()               {}

// FnDecl declares a function.
type FnDecl struct {
	Location  address.Address
	Name      string
	Publicity Publicity
	Generics  []string
	Params    []TypeParam
	Return    TypeExpr // nil => Unit
	Body      *Block
	Extern    bool // ExternFunction: no body, declared signature only
}

func (d *FnDecl) Addr() address.Address { return d.Location }
func (*FnDecl) declNode()               {}

// ConstDecl declares a module-level constant.
type ConstDecl struct {
	Location  address.Address
	Name      string
	Publicity Publicity
	Type      TypeExpr // optional annotation, nil if absent
	Value     Expr
}

func (d *ConstDecl) Addr() address.Address { return d.Location }
func (*ConstDecl) declNode()               {}

// ---- Type annotations (surface syntax, pre-resolution) ----

// TypeExpr is a parsed, unresolved type annotation.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedTypeExpr is `Name` or `Name[Arg, ...]`, resolved later against the
// module's struct/enum/prelude namespace.
type NamedTypeExpr struct {
	Location address.Address
	Name     string
	Args     []TypeExpr
}

func (t *NamedTypeExpr) Addr() address.Address { return t.Location }
func (*NamedTypeExpr) typeExprNode()            {}

// FnTypeExpr is `fn(Params...): Return`.
type FnTypeExpr struct {
	Location address.Address
	Params   []TypeExpr
	Return   TypeExpr
}

func (t *FnTypeExpr) Addr() address.Address { return t.Location }
func (*FnTypeExpr) typeExprNode()            {}

// DynTypeExpr is the `dyn` annotation.
type DynTypeExpr struct{ Location address.Address }

func (t *DynTypeExpr) Addr() address.Address { return t.Location }
func (*DynTypeExpr) typeExprNode()            {}

// ---- Expressions ----

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// IntLit, FloatLit, BoolLit, StringLit are the four prelude literals.
type IntLit struct {
	Location address.Address
	Value    int64
}
type FloatLit struct {
	Location address.Address
	Value    float64
}
type BoolLit struct {
	Location address.Address
	Value    bool
}
type StringLit struct {
	Location address.Address
	Value    string
}

func (e *IntLit) Addr() address.Address    { return e.Location }
func (e *FloatLit) Addr() address.Address  { return e.Location }
func (e *BoolLit) Addr() address.Address   { return e.Location }
func (e *StringLit) Addr() address.Address { return e.Location }
func (*IntLit) exprNode()                  {}
func (*FloatLit) exprNode()                {}
func (*BoolLit) exprNode()                 {}
func (*StringLit) exprNode()               {}

// Ident is a bare name reference, resolved by the name resolver.
type Ident struct {
	Location address.Address
	Name     string
}

func (e *Ident) Addr() address.Address { return e.Location }
func (*Ident) exprNode()                {}

// BinOp is one of the arithmetic/comparison/logical binary operators.
type BinOp string

const (
	OpAdd BinOp = "+"
	OpSub BinOp = "-"
	OpMul BinOp = "*"
	OpDiv BinOp = "/"
	OpMod BinOp = "%"
	OpEq  BinOp = "=="
	OpNeq BinOp = "!="
	OpLt  BinOp = "<"
	OpGt  BinOp = ">"
	OpLte BinOp = "<="
	OpGte BinOp = ">="
	OpAnd BinOp = "&&"
	OpOr  BinOp = "||"
)

// Binary is a binary-operator expression.
type Binary struct {
	Location address.Address
	Op       BinOp
	Left     Expr
	Right    Expr
}

func (e *Binary) Addr() address.Address { return e.Location }
func (*Binary) exprNode()                {}

// UnaryOp distinguishes negation from logical not.
type UnaryOp string

const (
	OpNeg UnaryOp = "-"
	OpNot UnaryOp = "!"
)

// Unary is a unary-operator expression.
type Unary struct {
	Location address.Address
	Op       UnaryOp
	Operand  Expr
}

func (e *Unary) Addr() address.Address { return e.Location }
func (*Unary) exprNode()                {}

// FieldAccess is `base.field`.
type FieldAccess struct {
	Location address.Address
	Base     Expr
	Field    string
}

func (e *FieldAccess) Addr() address.Address { return e.Location }
func (*FieldAccess) exprNode()                {}

// Call is `callee(args...)`.
type Call struct {
	Location address.Address
	Callee   Expr
	Args     []Expr
}

func (e *Call) Addr() address.Address { return e.Location }
func (*Call) exprNode()                {}

// FieldInit is one `name: value` binding in an instance construction.
type FieldInit struct {
	Name  string
	Value Expr
}

// Construct builds an instance of a named struct, by positional or named
// field bindings (never both).
type Construct struct {
	Location address.Address
	TypeName string
	Named    []FieldInit
	Position []Expr
}

func (e *Construct) Addr() address.Address { return e.Location }
func (*Construct) exprNode()                {}

// Range is `from..to` or `from..=to`; Inclusive distinguishes `..=` from
// `..`.
type Range struct {
	Location  address.Address
	From      Expr
	To        Expr
	Inclusive bool
}

func (e *Range) Addr() address.Address { return e.Location }
func (*Range) exprNode()                {}

// Block is `{ stmt...; tail }`; the block's type is the tail's type, or
// Unit if the block is empty.
type Block struct {
	Location   address.Address
	Statements []Stmt
}

func (e *Block) Addr() address.Address { return e.Location }
func (*Block) exprNode()                {}

// ElifClause is one `elif cond { body }` arm.
type ElifClause struct {
	Cond Expr
	Body *Block
}

// If is `if cond { then } elif ... else { else }`.
type If struct {
	Location address.Address
	Cond     Expr
	Then     *Block
	Elifs    []ElifClause
	Else     *Block // nil if absent
}

func (e *If) Addr() address.Address { return e.Location }
func (*If) exprNode()                {}

// Loop is `loop { body }` or `loop cond { body }`: an unconditional loop
// exited via break, or one that re-checks a Bool condition each pass.
type Loop struct {
	Location address.Address
	Cond     Expr // nil => unconditional
	Body     *Block
}

func (e *Loop) Addr() address.Address { return e.Location }
func (*Loop) exprNode()                {}

// MatchCase is one `pattern -> body` arm.
type MatchCase struct {
	Pattern Pattern
	Body    Expr
}

// Match dispatches on a scrutinee's pattern.
type Match struct {
	Location  address.Address
	Scrutinee Expr
	Cases     []MatchCase
}

func (e *Match) Addr() address.Address { return e.Location }
func (*Match) exprNode()                {}

// ---- Patterns ----

// Pattern is implemented by every match/let-pattern node.
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern is `_`, the default case.
type WildcardPattern struct{ Location address.Address }

func (p *WildcardPattern) Addr() address.Address { return p.Location }
func (*WildcardPattern) patternNode()             {}

// BindPattern binds the scrutinee to a name.
type BindPattern struct {
	Location address.Address
	Name     string
}

func (p *BindPattern) Addr() address.Address { return p.Location }
func (*BindPattern) patternNode()             {}

// LiteralPattern matches a literal value exactly.
type LiteralPattern struct {
	Location address.Address
	Value    Expr // one of IntLit/FloatLit/BoolLit/StringLit
}

func (p *LiteralPattern) Addr() address.Address { return p.Location }
func (*LiteralPattern) patternNode()             {}

// VariantPattern matches `Enum.Variant(bindings...)`.
type VariantPattern struct {
	Location address.Address
	Enum     string
	Variant  string
	Bindings []Pattern
}

func (p *VariantPattern) Addr() address.Address { return p.Location }
func (*VariantPattern) patternNode()             {}

// ---- Statements ----

// Stmt is implemented by every statement node. Let, assign, break and
// continue statements have type Unit; an ExprStmt has its expression's
// type and a ReturnStmt takes the enclosing function's return type.
type Stmt interface {
	Node
	stmtNode()
}

// ExprStmt is an expression used as a statement (its value discarded
// unless it is the block's tail).
type ExprStmt struct {
	Location address.Address
	Value    Expr
}

func (s *ExprStmt) Addr() address.Address { return s.Location }
func (*ExprStmt) stmtNode()                {}

// LetStmt introduces a new local binding.
type LetStmt struct {
	Location address.Address
	Name     string
	Type     TypeExpr // optional annotation
	Value    Expr
}

func (s *LetStmt) Addr() address.Address { return s.Location }
func (*LetStmt) stmtNode()                {}

// AssignStmt assigns through an existing binding.
type AssignStmt struct {
	Location address.Address
	Target   Expr // Ident or FieldAccess
	Value    Expr
}

func (s *AssignStmt) Addr() address.Address { return s.Location }
func (*AssignStmt) stmtNode()                {}

// BreakStmt exits the nearest enclosing loop.
type BreakStmt struct{ Location address.Address }

func (s *BreakStmt) Addr() address.Address { return s.Location }
func (*BreakStmt) stmtNode()                {}

// ContinueStmt restarts the nearest enclosing loop.
type ContinueStmt struct{ Location address.Address }

func (s *ContinueStmt) Addr() address.Address { return s.Location }
func (*ContinueStmt) stmtNode()                {}

// ReturnStmt returns from the enclosing function.
type ReturnStmt struct {
	Location address.Address
	Value    Expr // nil => Unit
}

func (s *ReturnStmt) Addr() address.Address { return s.Location }
func (*ReturnStmt) stmtNode()                {}
