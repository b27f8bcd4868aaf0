package generator

import (
	"fmt"

	"xgc-go/packages/compiler/metadata"
	"xgc-go/packages/compiler/output"
	"xgc-go/packages/compiler/util"
)

// nameEntry records one declared name and the element reference it maps to
type nameEntry struct {
	name string
	ref  string
	span *util.ParseSourceSpan
}

// Scope is one nested code-generation context. Scopes own their output
// buffer and context identifier; they never hold a reference back to the
// generator.
type Scope interface {
	// ContextName returns the context variable usable inside this scope.
	ContextName() string
	// Append adds a statement to the scope's buffer.
	Append(stmt output.Statement)
	// RegisterName records a declared name; duplicate names within one
	// name-scope table fail with MalformedMarkupConstruct.
	RegisterName(name, ref string, span *util.ParseSourceSpan) error
	// OwnsNameTable reports whether this scope establishes a name-scope
	// boundary.
	OwnsNameTable() bool
}

// scopeBase carries the buffer and name table shared by all scope variants
type scopeBase struct {
	contextName string
	statements  []output.Statement
	names       []nameEntry
	hasTable    bool
}

// ContextName implements Scope
func (s *scopeBase) ContextName() string {
	return s.contextName
}

// Append implements Scope
func (s *scopeBase) Append(stmt output.Statement) {
	s.statements = append(s.statements, stmt)
}

// OwnsNameTable implements Scope
func (s *scopeBase) OwnsNameTable() bool {
	return s.hasTable
}

// RegisterName implements Scope
func (s *scopeBase) RegisterName(name, ref string, span *util.ParseSourceSpan) error {
	if !s.hasTable {
		return util.NewMarkupError(util.ErrorKindInternalGeneratorFault, span,
			"scope does not own a name-scope table")
	}
	for _, entry := range s.names {
		if entry.name == name {
			return util.NewMarkupError(util.ErrorKindMalformedMarkupConstruct, span,
				fmt.Sprintf("name '%s' is already registered in this name scope", name))
		}
	}
	s.names = append(s.names, nameEntry{name: name, ref: ref, span: span})
	return nil
}

// RootScope is the top-level object graph of the document. It owns the
// document's name-scope table unless the root is a resource-dictionary or
// application element.
type RootScope struct {
	scopeBase
	RootRef string
	// Construct holds the root element's construction statement when the
	// document has no code-behind class; it must precede the context
	// declaration, which references the root.
	Construct output.Statement
	// contextUsed tracks whether any statement referenced the context so
	// the context-creation statement is only emitted when needed.
	contextUsed bool
}

// NewRootScope creates the document's root scope
func NewRootScope(contextName, rootRef string, ownsNameTable bool) *RootScope {
	return &RootScope{
		scopeBase: scopeBase{contextName: contextName, hasTable: ownsNameTable},
		RootRef:   rootRef,
	}
}

// MarkContextUsed records that the root context variable is referenced
func (s *RootScope) MarkContextUsed() {
	s.contextUsed = true
}

// ContextUsed reports whether the root context variable is referenced
func (s *RootScope) ContextUsed() bool {
	return s.contextUsed
}

// Names returns the registered name entries in first-declaration order
func (s *RootScope) Names() []nameEntry {
	return s.names
}

// Serialize returns the root scope's complete statement list: the root
// construction, the context declaration if used, the buffer, then the
// name-scope initialization and one registration statement per recorded
// name when this scope owns a name-scope table.
func (s *RootScope) Serialize(nameScopeType, parserContextType metadata.TypeRef) []output.Statement {
	stmts := []output.Statement{}
	rootExpr := output.NewReadVarExpr(s.RootRef, nil)
	if s.Construct != nil {
		stmts = append(stmts, s.Construct)
	}
	if s.contextUsed {
		ctx := output.NewInstantiateExpr(parserContextType, []output.Expression{rootExpr}, nil)
		stmts = append(stmts, output.NewDeclareVarStmt(s.contextName, nil, ctx, nil))
	}
	stmts = append(stmts, s.statements...)
	if s.hasTable && len(s.names) > 0 {
		stmts = append(stmts, output.NewExpressionStmt(output.NewInvokeMethodExpr(
			output.NewTypeRefExpr(nameScopeType, nil),
			"SetNameScope",
			[]output.Expression{rootExpr, output.NewInstantiateExpr(nameScopeType, nil, nil)},
			nil,
		), nil))
		for _, entry := range s.names {
			stmts = append(stmts, output.NewExpressionStmt(output.NewInvokeMethodExpr(
				rootExpr,
				"RegisterName",
				[]output.Expression{
					output.NewLiteralExpr(entry.name, entry.span),
					output.NewReadVarExpr(entry.ref, entry.span),
				},
				entry.span,
			), entry.span))
		}
	}
	return stmts
}

// ObjectConstructionScope factors a non-trivial child object's construction
// into a private helper method, keeping generated bodies manageable and
// supporting forward uses before traversal completes.
type ObjectConstructionScope struct {
	scopeBase
	ElementRef  string
	ElementType metadata.TypeRef
	// EnclosingContext is the context identifier of the scope this helper
	// was opened under; it becomes the helper's parameter.
	EnclosingContext string
}

// NewObjectConstructionScope creates a helper scope for one element
func NewObjectConstructionScope(contextName, elementRef string, elementType metadata.TypeRef, enclosingContext string) *ObjectConstructionScope {
	return &ObjectConstructionScope{
		scopeBase:        scopeBase{contextName: enclosingContext},
		ElementRef:       elementRef,
		ElementType:      elementType,
		EnclosingContext: enclosingContext,
	}
}

// HelperName returns the generated helper method's name
func (s *ObjectConstructionScope) HelperName() string {
	return "Build_" + s.ElementRef
}

// Serialize wraps the buffer in a private method taking the enclosing
// context and returning the constructed element reference
func (s *ObjectConstructionScope) Serialize(parserContextType metadata.TypeRef, static bool) *output.DeclareFunctionStmt {
	stmts := append([]output.Statement{}, s.statements...)
	stmts = append(stmts, output.NewReturnStmt(output.NewReadVarExpr(s.ElementRef, nil), nil))
	modifiers := output.StmtModifierPrivate
	if static {
		modifiers |= output.StmtModifierStatic
	}
	elementType := s.ElementType
	return output.NewDeclareFunctionStmt(
		s.HelperName(),
		[]*output.FnParam{output.NewFnParam(s.EnclosingContext, parserContextType)},
		&elementType,
		stmts,
		modifiers,
		nil,
	)
}

// TemplateScope is the deferred-construction body of a framework template.
// Names registered here go to the template's own name-scope, resolved at
// template-instantiation time against the context parameter.
type TemplateScope struct {
	scopeBase
	OwnerRef string
	// OwnerParam is the templated-parent parameter name of the builder.
	OwnerParam string
	RootRef    string
	RootType   metadata.TypeRef
	index      int
}

// NewTemplateScope creates a template content scope
func NewTemplateScope(contextName, ownerRef string, index int) *TemplateScope {
	return &TemplateScope{
		scopeBase:  scopeBase{contextName: contextName, hasTable: true},
		OwnerRef:   ownerRef,
		OwnerParam: "owner",
		index:      index,
	}
}

// HelperName returns the generated builder method's name
func (s *TemplateScope) HelperName() string {
	return fmt.Sprintf("BuildTemplate_%d", s.index)
}

// Serialize wraps the buffer in a private method taking the template owner
// and context, registering every recorded name against the current context
// before returning the template's root
func (s *TemplateScope) Serialize(parserContextType metadata.TypeRef, static bool) *output.DeclareFunctionStmt {
	stmts := append([]output.Statement{}, s.statements...)
	ctxExpr := output.NewReadVarExpr(s.contextName, nil)
	for _, entry := range s.names {
		stmts = append(stmts, output.NewExpressionStmt(output.NewInvokeMethodExpr(
			ctxExpr,
			"RegisterName",
			[]output.Expression{
				output.NewLiteralExpr(entry.name, entry.span),
				output.NewReadVarExpr(entry.ref, entry.span),
			},
			entry.span,
		), entry.span))
	}
	stmts = append(stmts, output.NewReturnStmt(output.NewReadVarExpr(s.RootRef, nil), nil))
	modifiers := output.StmtModifierPrivate
	if static {
		modifiers |= output.StmtModifierStatic
	}
	rootType := s.RootType
	return output.NewDeclareFunctionStmt(
		s.HelperName(),
		[]*output.FnParam{
			output.NewFnParam(s.OwnerParam, output.ObjectType),
			output.NewFnParam(s.contextName, parserContextType),
		},
		&rootType,
		stmts,
		modifiers,
		nil,
	)
}

// ScopeStack is the strict stack of code-generation scopes. Exactly one
// RootScope exists per document compile and remains on the stack until
// traversal completes.
type ScopeStack struct {
	scopes []Scope
	// Methods accumulates the serialized helper methods of popped scopes.
	Methods           []*output.DeclareFunctionStmt
	parserContextType metadata.TypeRef
	staticHelpers     bool
}

// NewScopeStack creates a stack rooted at the given scope
func NewScopeStack(root *RootScope, parserContextType metadata.TypeRef, staticHelpers bool) *ScopeStack {
	return &ScopeStack{
		scopes:            []Scope{root},
		parserContextType: parserContextType,
		staticHelpers:     staticHelpers,
	}
}

// Push pushes a scope
func (s *ScopeStack) Push(scope Scope) {
	s.scopes = append(s.scopes, scope)
}

// Current returns the top scope
func (s *ScopeStack) Current() Scope {
	return s.scopes[len(s.scopes)-1]
}

// Root returns the bottom scope
func (s *ScopeStack) Root() *RootScope {
	return s.scopes[0].(*RootScope)
}

// CurrentContextID returns the current scope's context identifier
func (s *ScopeStack) CurrentContextID() string {
	return s.Current().ContextName()
}

// NameScopeOwner returns the nearest enclosing scope owning a name-scope
// table, or nil
func (s *ScopeStack) NameScopeOwner() Scope {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if s.scopes[i].OwnsNameTable() {
			return s.scopes[i]
		}
	}
	return nil
}

// Pop removes the top scope, serializing it into the method list. Popping
// the last remaining scope is an invalid state.
func (s *ScopeStack) Pop() (Scope, error) {
	if len(s.scopes) <= 1 {
		return nil, util.NewMarkupError(util.ErrorKindInternalGeneratorFault, nil,
			"invalid state: cannot pop the root scope during traversal")
	}
	top := s.scopes[len(s.scopes)-1]
	s.scopes = s.scopes[:len(s.scopes)-1]
	switch scope := top.(type) {
	case *ObjectConstructionScope:
		s.Methods = append(s.Methods, scope.Serialize(s.parserContextType, s.staticHelpers))
	case *TemplateScope:
		s.Methods = append(s.Methods, scope.Serialize(s.parserContextType, s.staticHelpers))
	}
	return top, nil
}

// Depth returns the number of scopes on the stack
func (s *ScopeStack) Depth() int {
	return len(s.scopes)
}
