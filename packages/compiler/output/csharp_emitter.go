package output

import (
	"fmt"
	"regexp"
	"strings"

	"xgc-go/packages/compiler/metadata"
)

var (
	legalIdentifierRe = regexp.MustCompile(`(?i)^[A-Z_][0-9A-Z_]*$`)
	indentWith        = "    "
)

// csharpReservedWords are identifiers that must be @-escaped in generated
// code
var csharpReservedWords = map[string]bool{
	"abstract": true, "as": true, "base": true, "bool": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true, "checked": true,
	"class": true, "const": true, "continue": true, "decimal": true,
	"default": true, "delegate": true, "do": true, "double": true,
	"else": true, "enum": true, "event": true, "explicit": true,
	"extern": true, "false": true, "finally": true, "fixed": true,
	"float": true, "for": true, "foreach": true, "goto": true, "if": true,
	"implicit": true, "in": true, "int": true, "interface": true,
	"internal": true, "is": true, "lock": true, "long": true,
	"namespace": true, "new": true, "null": true, "object": true,
	"operator": true, "out": true, "override": true, "params": true,
	"private": true, "protected": true, "public": true, "readonly": true,
	"ref": true, "return": true, "sbyte": true, "sealed": true,
	"short": true, "sizeof": true, "stackalloc": true, "static": true,
	"string": true, "struct": true, "switch": true, "this": true,
	"throw": true, "true": true, "try": true, "typeof": true, "uint": true,
	"ulong": true, "unchecked": true, "unsafe": true, "ushort": true,
	"using": true, "virtual": true, "void": true, "volatile": true,
	"while": true,
}

var binaryOperators = map[BinaryOperator]string{
	BinaryOperatorEquals:     "==",
	BinaryOperatorNotEquals:  "!=",
	BinaryOperatorBitwiseOr:  "|",
	BinaryOperatorBitwiseAnd: "&",
	BinaryOperatorAnd:        "&&",
	BinaryOperatorOr:         "||",
	BinaryOperatorPlus:       "+",
}

// EmittedLine represents a line being emitted
type EmittedLine struct {
	Parts  []string
	Indent int
}

// NewEmittedLine creates a new EmittedLine
func NewEmittedLine(indent int) *EmittedLine {
	return &EmittedLine{
		Parts:  []string{},
		Indent: indent,
	}
}

// EmitterContext tracks lines and indentation while serializing the IR
type EmitterContext struct {
	lines  []*EmittedLine
	indent int
}

// NewEmitterContext creates a new EmitterContext
func NewEmitterContext(indent int) *EmitterContext {
	return &EmitterContext{
		lines:  []*EmittedLine{NewEmittedLine(indent)},
		indent: indent,
	}
}

// currentLine returns the current line being built
func (ctx *EmitterContext) currentLine() *EmittedLine {
	return ctx.lines[len(ctx.lines)-1]
}

// LineIsEmpty checks if the current line is empty
func (ctx *EmitterContext) LineIsEmpty() bool {
	return len(ctx.currentLine().Parts) == 0
}

// Print appends a part to the current line
func (ctx *EmitterContext) Print(part string, newLine bool) {
	if len(part) > 0 {
		line := ctx.currentLine()
		line.Parts = append(line.Parts, part)
	}
	if newLine {
		ctx.lines = append(ctx.lines, NewEmittedLine(ctx.indent))
	}
}

// Println appends a part and terminates the line
func (ctx *EmitterContext) Println(lastPart string) {
	ctx.Print(lastPart, true)
}

// IncIndent increases the indent
func (ctx *EmitterContext) IncIndent() {
	ctx.indent++
	if ctx.LineIsEmpty() {
		ctx.currentLine().Indent = ctx.indent
	}
}

// DecIndent decreases the indent
func (ctx *EmitterContext) DecIndent() {
	ctx.indent--
	if ctx.LineIsEmpty() {
		ctx.currentLine().Indent = ctx.indent
	}
}

// ToSource converts the context to source code
func (ctx *EmitterContext) ToSource() string {
	result := []string{}
	for _, line := range ctx.sourceLines() {
		if len(line.Parts) > 0 {
			result = append(result, createIndent(line.Indent)+strings.Join(line.Parts, ""))
		} else {
			result = append(result, "")
		}
	}
	return strings.Join(result, "\n")
}

// sourceLines returns the lines excluding an empty trailing line
func (ctx *EmitterContext) sourceLines() []*EmittedLine {
	if len(ctx.lines) > 0 && len(ctx.lines[len(ctx.lines)-1].Parts) == 0 {
		return ctx.lines[:len(ctx.lines)-1]
	}
	return ctx.lines
}

// CSharpEmitterVisitor serializes the output IR to C# source
type CSharpEmitterVisitor struct{}

// NewCSharpEmitterVisitor creates a new CSharpEmitterVisitor
func NewCSharpEmitterVisitor() *CSharpEmitterVisitor {
	return &CSharpEmitterVisitor{}
}

// EmitUnit serializes one compilation unit
func (v *CSharpEmitterVisitor) EmitUnit(unit *CompilationUnit) string {
	ctx := NewEmitterContext(0)
	hasNamespace := unit.Namespace != ""
	if hasNamespace {
		ctx.Println(fmt.Sprintf("namespace %s {", unit.Namespace))
		ctx.IncIndent()
	}
	for i, class := range unit.Classes {
		if i > 0 {
			ctx.Println("")
		}
		v.emitClass(class, ctx)
	}
	if hasNamespace {
		ctx.DecIndent()
		ctx.Println("}")
	}
	return ctx.ToSource()
}

// emitClass serializes one class declaration
func (v *CSharpEmitterVisitor) emitClass(class *ClassDecl, ctx *EmitterContext) {
	ctx.Print("public ", false)
	if class.Sealed {
		ctx.Print("sealed ", false)
	}
	if class.Partial {
		ctx.Print("partial ", false)
	}
	ctx.Print("class "+class.Name, false)
	if class.BaseType != nil {
		ctx.Print(" : "+class.BaseType.FullName(), false)
	}
	ctx.Println(" {")
	ctx.IncIndent()
	for _, field := range class.Fields {
		modifier := field.Modifier
		if modifier == "" {
			modifier = "internal"
		}
		ctx.Println(fmt.Sprintf("%s %s %s;", modifier, field.Type.FullName(), field.Name))
	}
	if len(class.Fields) > 0 && len(class.Methods) > 0 {
		ctx.Println("")
	}
	for i, method := range class.Methods {
		if i > 0 {
			ctx.Println("")
		}
		method.VisitStatement(v, ctx)
	}
	ctx.DecIndent()
	ctx.Println("}")
}

// getContext converts interface{} to *EmitterContext
func (v *CSharpEmitterVisitor) getContext(context interface{}) *EmitterContext {
	if ctx, ok := context.(*EmitterContext); ok {
		return ctx
	}
	panic("context must be *EmitterContext")
}

// VisitDeclareVarStmt visits a variable declaration
func (v *CSharpEmitterVisitor) VisitDeclareVarStmt(stmt *DeclareVarStmt, context interface{}) interface{} {
	ctx := v.getContext(context)
	if stmt.Type != nil {
		ctx.Print(stmt.Type.FullName()+" ", false)
	} else {
		ctx.Print("var ", false)
	}
	ctx.Print(stmt.Name, false)
	if stmt.Value != nil {
		ctx.Print(" = ", false)
		stmt.Value.VisitExpression(v, ctx)
	}
	ctx.Println(";")
	return nil
}

// VisitAssignStmt visits an assignment statement
func (v *CSharpEmitterVisitor) VisitAssignStmt(stmt *AssignStmt, context interface{}) interface{} {
	ctx := v.getContext(context)
	stmt.Target.VisitExpression(v, ctx)
	ctx.Print(" = ", false)
	stmt.Value.VisitExpression(v, ctx)
	ctx.Println(";")
	return nil
}

// VisitExpressionStmt visits an expression statement
func (v *CSharpEmitterVisitor) VisitExpressionStmt(stmt *ExpressionStmt, context interface{}) interface{} {
	ctx := v.getContext(context)
	stmt.Expr.VisitExpression(v, ctx)
	ctx.Println(";")
	return nil
}

// VisitReturnStmt visits a return statement
func (v *CSharpEmitterVisitor) VisitReturnStmt(stmt *ReturnStmt, context interface{}) interface{} {
	ctx := v.getContext(context)
	if stmt.Value == nil {
		ctx.Println("return;")
		return nil
	}
	ctx.Print("return ", false)
	stmt.Value.VisitExpression(v, ctx)
	ctx.Println(";")
	return nil
}

// VisitIfStmt visits an if statement
func (v *CSharpEmitterVisitor) VisitIfStmt(stmt *IfStmt, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print("if (", false)
	stmt.Condition.VisitExpression(v, ctx)
	ctx.Println(") {")
	ctx.IncIndent()
	for _, s := range stmt.TrueCase {
		s.VisitStatement(v, ctx)
	}
	ctx.DecIndent()
	ctx.Println("}")
	return nil
}

// VisitDeclareFunctionStmt visits a method declaration
func (v *CSharpEmitterVisitor) VisitDeclareFunctionStmt(stmt *DeclareFunctionStmt, context interface{}) interface{} {
	ctx := v.getContext(context)
	if stmt.HasModifier(StmtModifierPublic) {
		ctx.Print("public ", false)
	}
	if stmt.HasModifier(StmtModifierPrivate) {
		ctx.Print("private ", false)
	}
	if stmt.HasModifier(StmtModifierStatic) {
		ctx.Print("static ", false)
	}
	if stmt.ReturnType != nil {
		ctx.Print(stmt.ReturnType.FullName()+" ", false)
	} else {
		ctx.Print("void ", false)
	}
	ctx.Print(stmt.Name+"(", false)
	for i, param := range stmt.Params {
		if i > 0 {
			ctx.Print(", ", false)
		}
		ctx.Print(param.Type.FullName()+" "+param.Name, false)
	}
	ctx.Println(") {")
	ctx.IncIndent()
	for _, s := range stmt.Statements {
		s.VisitStatement(v, ctx)
	}
	ctx.DecIndent()
	ctx.Println("}")
	return nil
}

// VisitReadVarExpr visits a read variable expression
func (v *CSharpEmitterVisitor) VisitReadVarExpr(expr *ReadVarExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print(expr.Name, false)
	return nil
}

// VisitLiteralExpr visits a literal expression
func (v *CSharpEmitterVisitor) VisitLiteralExpr(expr *LiteralExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	switch val := expr.Value.(type) {
	case nil:
		ctx.Print("null", false)
	case string:
		ctx.Print(EscapeStringLiteral(val), false)
	case bool:
		if val {
			ctx.Print("true", false)
		} else {
			ctx.Print("false", false)
		}
	default:
		ctx.Print(fmt.Sprintf("%v", val), false)
	}
	return nil
}

// VisitTypeRefExpr visits a type-reference receiver expression
func (v *CSharpEmitterVisitor) VisitTypeRefExpr(expr *TypeRefExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print(expr.Type.FullName(), false)
	return nil
}

// VisitTypeofExpr visits a typeof expression
func (v *CSharpEmitterVisitor) VisitTypeofExpr(expr *TypeofExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print(fmt.Sprintf("typeof(%s)", expr.Type.FullName()), false)
	return nil
}

// VisitReadPropExpr visits a property read expression
func (v *CSharpEmitterVisitor) VisitReadPropExpr(expr *ReadPropExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	expr.Receiver.VisitExpression(v, ctx)
	ctx.Print(".", false)
	ctx.Print(EscapeCSharpIdentifier(expr.Name), false)
	return nil
}

// VisitInvokeMethodExpr visits a method invocation expression
func (v *CSharpEmitterVisitor) VisitInvokeMethodExpr(expr *InvokeMethodExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	expr.Receiver.VisitExpression(v, ctx)
	ctx.Print("."+expr.Method+"(", false)
	v.visitAllExpressions(expr.Args, ctx)
	ctx.Print(")", false)
	return nil
}

// VisitInstantiateExpr visits an instantiate expression
func (v *CSharpEmitterVisitor) VisitInstantiateExpr(expr *InstantiateExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print("new "+expr.Type.FullName()+"(", false)
	v.visitAllExpressions(expr.Args, ctx)
	ctx.Print(")", false)
	return nil
}

// VisitCastExpr visits a cast expression
func (v *CSharpEmitterVisitor) VisitCastExpr(expr *CastExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print("(("+expr.Type.FullName()+")(", false)
	expr.Expr.VisitExpression(v, ctx)
	ctx.Print("))", false)
	return nil
}

// VisitBinaryOperatorExpr visits a binary operator expression
func (v *CSharpEmitterVisitor) VisitBinaryOperatorExpr(expr *BinaryOperatorExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	operator, ok := binaryOperators[expr.Operator]
	if !ok {
		panic(fmt.Sprintf("Unknown operator %d", expr.Operator))
	}
	expr.Lhs.VisitExpression(v, ctx)
	ctx.Print(" "+operator+" ", false)
	expr.Rhs.VisitExpression(v, ctx)
	return nil
}

// visitAllExpressions visits a comma-separated expression list
func (v *CSharpEmitterVisitor) visitAllExpressions(expressions []Expression, ctx *EmitterContext) {
	for i, expr := range expressions {
		if i > 0 {
			ctx.Print(", ", false)
		}
		expr.VisitExpression(v, ctx)
	}
}

// EmitStatements serializes a statement list; used by tests and by scope
// serialization diagnostics
func EmitStatements(statements []Statement) string {
	ctx := NewEmitterContext(0)
	v := NewCSharpEmitterVisitor()
	for _, stmt := range statements {
		stmt.VisitStatement(v, ctx)
	}
	return ctx.ToSource()
}

// EscapeCSharpIdentifier prefixes reserved words with @. Names already
// carrying the prefix pass through unchanged.
func EscapeCSharpIdentifier(name string) string {
	if strings.HasPrefix(name, "@") {
		return name
	}
	if csharpReservedWords[name] || !legalIdentifierRe.MatchString(name) {
		return "@" + name
	}
	return name
}

// EscapeStringLiteral renders a quoted C# string literal
func EscapeStringLiteral(input string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range input {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// createIndent creates an indent string
func createIndent(count int) string {
	return strings.Repeat(indentWith, count)
}

// used by generated type references for untyped parameters
var ObjectType = metadata.TypeRef{Name: "object"}

// IntType is the generated connector id parameter type
var IntType = metadata.TypeRef{Name: "int"}
