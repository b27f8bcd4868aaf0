package generator

import (
	"path"
	"strings"
	"unicode"

	"xgc-go/packages/compiler/markup"
	"xgc-go/packages/compiler/metadata"
	"xgc-go/packages/compiler/output"
)

var boolType = metadata.TypeRef{Name: "bool"}

// assemble turns the finished scope stack into the document's compilation
// unit. Exactly one shape is produced per document: a partial-class
// augmentation plus an activator when the document declares a code-behind
// class, a single sealed factory class otherwise.
func (g *Generator) assemble() (*output.CompilationUnit, error) {
	root := g.stack.Root()

	if g.doc.RootKind == markup.RootKindApplication && g.cfg.ResourcesPath != "" {
		root.Append(output.NewAssignStmt(
			output.NewReadPropExpr(output.NewReadVarExpr(root.RootRef, nil), "ResourcesPath", nil),
			output.NewLiteralExpr(g.cfg.ResourcesPath, nil), nil))
	}
	rootStmts := root.Serialize(g.cfg.nameScopeType(), g.cfg.parserContextType())

	if g.doc.HasCodeBehind {
		return g.assemblePartialClass(rootStmts), nil
	}
	return g.assembleFactory(rootStmts), nil
}

// assemblePartialClass builds the code-behind augmentation: the declared
// fields, InitializeComponent, the event connector, the factored helpers
// and the companion activator class
func (g *Generator) assemblePartialClass(rootStmts []output.Statement) *output.CompilationUnit {
	unit := output.NewCompilationUnit(g.doc.ClassNamespace)

	cls := output.NewClassDecl(g.doc.ClassName)
	cls.Partial = true
	baseType := g.rootFrame.typeRef
	cls.BaseType = &baseType

	cls.Fields = append(cls.Fields, output.NewFieldDecl("_contentLoaded", boolType, "private"))
	cls.Fields = append(cls.Fields, g.fields...)

	// InitializeComponent is re-entrancy guarded; a second call is a no-op
	body := []output.Statement{
		output.NewIfStmt(output.NewReadVarExpr("_contentLoaded", nil),
			[]output.Statement{output.NewReturnStmt(nil, nil)}, nil),
		output.NewAssignStmt(output.NewReadVarExpr("_contentLoaded", nil),
			output.NewLiteralExpr(true, nil), nil),
	}
	body = append(body, rootStmts...)
	for _, field := range g.fields {
		declaredName := strings.TrimPrefix(field.Name, "@")
		body = append(body, output.NewAssignStmt(
			output.NewReadPropExpr(output.NewReadVarExpr("this", nil), field.Name, nil),
			output.NewCastExpr(field.Type, output.NewInvokeMethodExpr(
				output.NewReadVarExpr("this", nil), "FindName",
				[]output.Expression{output.NewLiteralExpr(declaredName, nil)}, nil), nil),
			nil))
	}
	cls.Methods = append(cls.Methods, output.NewDeclareFunctionStmt(
		"InitializeComponent", nil, nil, body, output.StmtModifierPublic, nil))

	if len(g.connections) > 0 {
		cls.Methods = append(cls.Methods, g.connectorMethod())
	}
	cls.Methods = append(cls.Methods, g.stack.Methods...)

	unit.Classes = append(unit.Classes, cls, g.activatorClass())
	return unit
}

// connectorMethod builds the if-dispatch that attaches every deferred event
// handler by connection id
func (g *Generator) connectorMethod() *output.DeclareFunctionStmt {
	params := []*output.FnParam{
		output.NewFnParam("connectionId", output.IntType),
		output.NewFnParam("target", output.ObjectType),
	}
	var body []output.Statement
	for _, conn := range g.connections {
		span := conn.span
		cond := output.NewBinaryOperatorExpr(output.BinaryOperatorEquals,
			output.NewReadVarExpr("connectionId", span),
			output.NewLiteralExpr(int64(conn.id), span), span)
		attach := output.NewInvokeMethodExpr(
			output.NewCastExpr(conn.desc.DeclaringType, output.NewReadVarExpr("target", span), span),
			"AddHandler",
			[]output.Expression{
				output.NewReadPropExpr(
					output.NewTypeRefExpr(conn.desc.DeclaringType, span), conn.desc.Name+"Event", span),
				output.NewInstantiateExpr(conn.desc.ValueType,
					[]output.Expression{output.NewReadPropExpr(
						output.NewReadVarExpr("this", span), conn.handler, span)}, span),
			}, span)
		body = append(body, output.NewIfStmt(cond,
			[]output.Statement{
				output.NewExpressionStmt(attach, span),
				output.NewReturnStmt(nil, span),
			}, span))
	}
	return output.NewDeclareFunctionStmt("Connect", params, nil, body, output.StmtModifierPublic, nil)
}

// activatorClass builds the companion class that constructs the code-behind
// type and runs its initialization
func (g *Generator) activatorClass() *output.ClassDecl {
	classType := metadata.TypeRef{Namespace: g.doc.ClassNamespace, Name: g.doc.ClassName}
	act := output.NewClassDecl(g.doc.ClassName + "Activator")
	act.Sealed = true

	body := []output.Statement{
		output.NewDeclareVarStmt("instance", nil,
			output.NewInstantiateExpr(classType, nil, nil), nil),
		output.NewExpressionStmt(output.NewInvokeMethodExpr(
			output.NewReadVarExpr("instance", nil), "InitializeComponent", nil, nil), nil),
		output.NewReturnStmt(output.NewReadVarExpr("instance", nil), nil),
	}
	act.Methods = append(act.Methods, output.NewDeclareFunctionStmt(
		"Activate", nil, &classType, body, output.StmtModifierPublic|output.StmtModifierStatic, nil))
	return act
}

// assembleFactory builds the standalone loader for documents without a
// code-behind class
func (g *Generator) assembleFactory(rootStmts []output.Statement) *output.CompilationUnit {
	unit := output.NewCompilationUnit(g.doc.ClassNamespace)

	cls := output.NewClassDecl(factoryClassName(g.doc.RelativePath))
	cls.Sealed = true

	body := append([]output.Statement{}, rootStmts...)
	body = append(body, output.NewReturnStmt(
		output.NewReadVarExpr(g.stack.Root().RootRef, nil), nil))

	rootType := g.rootFrame.typeRef
	cls.Methods = append(cls.Methods, output.NewDeclareFunctionStmt(
		"Load", nil, &rootType, body, output.StmtModifierPublic|output.StmtModifierStatic, nil))
	cls.Methods = append(cls.Methods, g.stack.Methods...)

	unit.Classes = append(unit.Classes, cls)
	return unit
}

// factoryClassName derives a class identifier from the document's file name
func factoryClassName(relativePath string) string {
	base := path.Base(relativePath)
	base = strings.TrimSuffix(base, path.Ext(base))
	var b strings.Builder
	upperNext := true
	for _, r := range base {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upperNext = true
			continue
		}
		if b.Len() == 0 && unicode.IsDigit(r) {
			continue
		}
		if upperNext {
			r = unicode.ToUpper(r)
			upperNext = false
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "DocumentFactory"
	}
	return b.String() + "Factory"
}
