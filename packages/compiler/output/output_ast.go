package output

import (
	"xgc-go/packages/compiler/metadata"
	"xgc-go/packages/compiler/util"
)

// BinaryOperator represents binary operators of the output language
type BinaryOperator int

const (
	BinaryOperatorEquals BinaryOperator = iota
	BinaryOperatorNotEquals
	BinaryOperatorBitwiseOr
	BinaryOperatorBitwiseAnd
	BinaryOperatorAnd
	BinaryOperatorOr
	BinaryOperatorPlus
)

// Expression is the base interface for all output expressions
type Expression interface {
	VisitExpression(visitor ExpressionVisitor, context interface{}) interface{}
	GetSourceSpan() *util.ParseSourceSpan
}

// ExpressionVisitor is the interface for visiting expressions
type ExpressionVisitor interface {
	VisitReadVarExpr(expr *ReadVarExpr, context interface{}) interface{}
	VisitLiteralExpr(expr *LiteralExpr, context interface{}) interface{}
	VisitTypeRefExpr(expr *TypeRefExpr, context interface{}) interface{}
	VisitTypeofExpr(expr *TypeofExpr, context interface{}) interface{}
	VisitReadPropExpr(expr *ReadPropExpr, context interface{}) interface{}
	VisitInvokeMethodExpr(expr *InvokeMethodExpr, context interface{}) interface{}
	VisitInstantiateExpr(expr *InstantiateExpr, context interface{}) interface{}
	VisitCastExpr(expr *CastExpr, context interface{}) interface{}
	VisitBinaryOperatorExpr(expr *BinaryOperatorExpr, context interface{}) interface{}
}

// ExpressionBase provides the common source-span capability
type ExpressionBase struct {
	SourceSpan *util.ParseSourceSpan
}

// GetSourceSpan returns the source span of the expression
func (e *ExpressionBase) GetSourceSpan() *util.ParseSourceSpan {
	return e.SourceSpan
}

// ReadVarExpr reads a local variable
type ReadVarExpr struct {
	ExpressionBase
	Name string
}

// NewReadVarExpr creates a new ReadVarExpr
func NewReadVarExpr(name string, sourceSpan *util.ParseSourceSpan) *ReadVarExpr {
	return &ReadVarExpr{
		ExpressionBase: ExpressionBase{SourceSpan: sourceSpan},
		Name:           name,
	}
}

// VisitExpression implements Expression interface
func (r *ReadVarExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitReadVarExpr(r, context)
}

// LiteralExpr is a literal value; a nil value emits the target language's
// null literal
type LiteralExpr struct {
	ExpressionBase
	Value interface{}
}

// NewLiteralExpr creates a new LiteralExpr
func NewLiteralExpr(value interface{}, sourceSpan *util.ParseSourceSpan) *LiteralExpr {
	return &LiteralExpr{
		ExpressionBase: ExpressionBase{SourceSpan: sourceSpan},
		Value:          value,
	}
}

// VisitExpression implements Expression interface
func (l *LiteralExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralExpr(l, context)
}

// NullExpr returns a null literal expression
func NullExpr(sourceSpan *util.ParseSourceSpan) *LiteralExpr {
	return NewLiteralExpr(nil, sourceSpan)
}

// TypeRefExpr names a type; as a receiver it yields static member access
type TypeRefExpr struct {
	ExpressionBase
	Type metadata.TypeRef
}

// NewTypeRefExpr creates a new TypeRefExpr
func NewTypeRefExpr(t metadata.TypeRef, sourceSpan *util.ParseSourceSpan) *TypeRefExpr {
	return &TypeRefExpr{
		ExpressionBase: ExpressionBase{SourceSpan: sourceSpan},
		Type:           t,
	}
}

// VisitExpression implements Expression interface
func (t *TypeRefExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitTypeRefExpr(t, context)
}

// TypeofExpr is a type-reference value expression
type TypeofExpr struct {
	ExpressionBase
	Type metadata.TypeRef
}

// NewTypeofExpr creates a new TypeofExpr
func NewTypeofExpr(t metadata.TypeRef, sourceSpan *util.ParseSourceSpan) *TypeofExpr {
	return &TypeofExpr{
		ExpressionBase: ExpressionBase{SourceSpan: sourceSpan},
		Type:           t,
	}
}

// VisitExpression implements Expression interface
func (t *TypeofExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitTypeofExpr(t, context)
}

// ReadPropExpr reads a property, field or enum member off a receiver
type ReadPropExpr struct {
	ExpressionBase
	Receiver Expression
	Name     string
}

// NewReadPropExpr creates a new ReadPropExpr
func NewReadPropExpr(receiver Expression, name string, sourceSpan *util.ParseSourceSpan) *ReadPropExpr {
	return &ReadPropExpr{
		ExpressionBase: ExpressionBase{SourceSpan: sourceSpan},
		Receiver:       receiver,
		Name:           name,
	}
}

// VisitExpression implements Expression interface
func (r *ReadPropExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitReadPropExpr(r, context)
}

// InvokeMethodExpr invokes a method on a receiver; a TypeRefExpr receiver
// yields a static call
type InvokeMethodExpr struct {
	ExpressionBase
	Receiver Expression
	Method   string
	Args     []Expression
}

// NewInvokeMethodExpr creates a new InvokeMethodExpr
func NewInvokeMethodExpr(receiver Expression, method string, args []Expression, sourceSpan *util.ParseSourceSpan) *InvokeMethodExpr {
	return &InvokeMethodExpr{
		ExpressionBase: ExpressionBase{SourceSpan: sourceSpan},
		Receiver:       receiver,
		Method:         method,
		Args:           args,
	}
}

// VisitExpression implements Expression interface
func (i *InvokeMethodExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitInvokeMethodExpr(i, context)
}

// InstantiateExpr constructs a new instance of a type
type InstantiateExpr struct {
	ExpressionBase
	Type metadata.TypeRef
	Args []Expression
}

// NewInstantiateExpr creates a new InstantiateExpr
func NewInstantiateExpr(t metadata.TypeRef, args []Expression, sourceSpan *util.ParseSourceSpan) *InstantiateExpr {
	return &InstantiateExpr{
		ExpressionBase: ExpressionBase{SourceSpan: sourceSpan},
		Type:           t,
		Args:           args,
	}
}

// VisitExpression implements Expression interface
func (i *InstantiateExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitInstantiateExpr(i, context)
}

// CastExpr casts an expression to a type
type CastExpr struct {
	ExpressionBase
	Type metadata.TypeRef
	Expr Expression
}

// NewCastExpr creates a new CastExpr
func NewCastExpr(t metadata.TypeRef, expr Expression, sourceSpan *util.ParseSourceSpan) *CastExpr {
	return &CastExpr{
		ExpressionBase: ExpressionBase{SourceSpan: sourceSpan},
		Type:           t,
		Expr:           expr,
	}
}

// VisitExpression implements Expression interface
func (c *CastExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitCastExpr(c, context)
}

// BinaryOperatorExpr combines two expressions with a binary operator
type BinaryOperatorExpr struct {
	ExpressionBase
	Operator BinaryOperator
	Lhs      Expression
	Rhs      Expression
}

// NewBinaryOperatorExpr creates a new BinaryOperatorExpr
func NewBinaryOperatorExpr(operator BinaryOperator, lhs, rhs Expression, sourceSpan *util.ParseSourceSpan) *BinaryOperatorExpr {
	return &BinaryOperatorExpr{
		ExpressionBase: ExpressionBase{SourceSpan: sourceSpan},
		Operator:       operator,
		Lhs:            lhs,
		Rhs:            rhs,
	}
}

// VisitExpression implements Expression interface
func (b *BinaryOperatorExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitBinaryOperatorExpr(b, context)
}

// StmtModifier represents statement modifiers
type StmtModifier int

const (
	StmtModifierNone    StmtModifier = 0
	StmtModifierPrivate StmtModifier = 1 << 0
	StmtModifierStatic  StmtModifier = 1 << 1
	StmtModifierPublic  StmtModifier = 1 << 2
)

// StatementVisitor is the interface for visiting statements
type StatementVisitor interface {
	VisitDeclareVarStmt(stmt *DeclareVarStmt, context interface{}) interface{}
	VisitAssignStmt(stmt *AssignStmt, context interface{}) interface{}
	VisitExpressionStmt(stmt *ExpressionStmt, context interface{}) interface{}
	VisitReturnStmt(stmt *ReturnStmt, context interface{}) interface{}
	VisitIfStmt(stmt *IfStmt, context interface{}) interface{}
	VisitDeclareFunctionStmt(stmt *DeclareFunctionStmt, context interface{}) interface{}
}

// Statement is the base interface for all output statements. Generated
// bodies only ever contain variable declarations, assignments, calls,
// returns, the connector's if-dispatch and nested helper declarations.
type Statement interface {
	GetSourceSpan() *util.ParseSourceSpan
	VisitStatement(visitor StatementVisitor, context interface{}) interface{}
}

// StatementBase provides the common source-span capability
type StatementBase struct {
	SourceSpan *util.ParseSourceSpan
}

// GetSourceSpan returns the source span of the statement
func (s *StatementBase) GetSourceSpan() *util.ParseSourceSpan {
	return s.SourceSpan
}

// DeclareVarStmt declares a local variable; a nil Type emits an inferred
// declaration
type DeclareVarStmt struct {
	StatementBase
	Name  string
	Type  *metadata.TypeRef
	Value Expression
}

// NewDeclareVarStmt creates a new DeclareVarStmt
func NewDeclareVarStmt(name string, t *metadata.TypeRef, value Expression, sourceSpan *util.ParseSourceSpan) *DeclareVarStmt {
	return &DeclareVarStmt{
		StatementBase: StatementBase{SourceSpan: sourceSpan},
		Name:          name,
		Type:          t,
		Value:         value,
	}
}

// VisitStatement implements Statement interface
func (d *DeclareVarStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitDeclareVarStmt(d, context)
}

// AssignStmt assigns a value to a settable target expression
type AssignStmt struct {
	StatementBase
	Target Expression
	Value  Expression
}

// NewAssignStmt creates a new AssignStmt
func NewAssignStmt(target, value Expression, sourceSpan *util.ParseSourceSpan) *AssignStmt {
	return &AssignStmt{
		StatementBase: StatementBase{SourceSpan: sourceSpan},
		Target:        target,
		Value:         value,
	}
}

// VisitStatement implements Statement interface
func (a *AssignStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitAssignStmt(a, context)
}

// ExpressionStmt evaluates an expression for its side effect
type ExpressionStmt struct {
	StatementBase
	Expr Expression
}

// NewExpressionStmt creates a new ExpressionStmt
func NewExpressionStmt(expr Expression, sourceSpan *util.ParseSourceSpan) *ExpressionStmt {
	return &ExpressionStmt{
		StatementBase: StatementBase{SourceSpan: sourceSpan},
		Expr:          expr,
	}
}

// VisitStatement implements Statement interface
func (e *ExpressionStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitExpressionStmt(e, context)
}

// ReturnStmt returns a value from the enclosing function
type ReturnStmt struct {
	StatementBase
	Value Expression
}

// NewReturnStmt creates a new ReturnStmt
func NewReturnStmt(value Expression, sourceSpan *util.ParseSourceSpan) *ReturnStmt {
	return &ReturnStmt{
		StatementBase: StatementBase{SourceSpan: sourceSpan},
		Value:         value,
	}
}

// VisitStatement implements Statement interface
func (r *ReturnStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitReturnStmt(r, context)
}

// IfStmt conditionally executes its body; used only by the generated
// event-connector dispatch
type IfStmt struct {
	StatementBase
	Condition Expression
	TrueCase  []Statement
}

// NewIfStmt creates a new IfStmt
func NewIfStmt(condition Expression, trueCase []Statement, sourceSpan *util.ParseSourceSpan) *IfStmt {
	return &IfStmt{
		StatementBase: StatementBase{SourceSpan: sourceSpan},
		Condition:     condition,
		TrueCase:      trueCase,
	}
}

// VisitStatement implements Statement interface
func (i *IfStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitIfStmt(i, context)
}

// FnParam is a typed parameter of a generated function
type FnParam struct {
	Name string
	Type metadata.TypeRef
}

// NewFnParam creates a new FnParam
func NewFnParam(name string, t metadata.TypeRef) *FnParam {
	return &FnParam{Name: name, Type: t}
}

// DeclareFunctionStmt declares a method of the generated class; a nil
// ReturnType emits void
type DeclareFunctionStmt struct {
	StatementBase
	Name       string
	Params     []*FnParam
	ReturnType *metadata.TypeRef
	Statements []Statement
	Modifiers  StmtModifier
}

// NewDeclareFunctionStmt creates a new DeclareFunctionStmt
func NewDeclareFunctionStmt(name string, params []*FnParam, returnType *metadata.TypeRef, statements []Statement, modifiers StmtModifier, sourceSpan *util.ParseSourceSpan) *DeclareFunctionStmt {
	return &DeclareFunctionStmt{
		StatementBase: StatementBase{SourceSpan: sourceSpan},
		Name:          name,
		Params:        params,
		ReturnType:    returnType,
		Statements:    statements,
		Modifiers:     modifiers,
	}
}

// VisitStatement implements Statement interface
func (d *DeclareFunctionStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitDeclareFunctionStmt(d, context)
}

// HasModifier checks if the function has a modifier
func (d *DeclareFunctionStmt) HasModifier(modifier StmtModifier) bool {
	return (d.Modifiers & modifier) != 0
}

// FieldDecl is a generated field of a class
type FieldDecl struct {
	Name     string
	Type     metadata.TypeRef
	Modifier string
}

// NewFieldDecl creates a new FieldDecl
func NewFieldDecl(name string, t metadata.TypeRef, modifier string) *FieldDecl {
	return &FieldDecl{Name: name, Type: t, Modifier: modifier}
}

// ClassDecl is one generated class
type ClassDecl struct {
	Name     string
	Partial  bool
	Sealed   bool
	BaseType *metadata.TypeRef
	Fields   []*FieldDecl
	Methods  []*DeclareFunctionStmt
}

// NewClassDecl creates a new ClassDecl
func NewClassDecl(name string) *ClassDecl {
	return &ClassDecl{Name: name}
}

// CompilationUnit is the single textual output produced per markup document
type CompilationUnit struct {
	Namespace string
	Classes   []*ClassDecl
}

// NewCompilationUnit creates a new CompilationUnit
func NewCompilationUnit(namespace string) *CompilationUnit {
	return &CompilationUnit{Namespace: namespace}
}
