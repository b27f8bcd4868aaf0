package extensions

import (
	"fmt"
	"strings"

	"xgc-go/packages/compiler/markup"
	"xgc-go/packages/compiler/metadata"
	"xgc-go/packages/compiler/output"
	"xgc-go/packages/compiler/util"
)

// Kind is the closed set of markup-extension kinds. Classification runs once
// per element; each kind owns one emission method.
type Kind int

const (
	KindNone Kind = iota
	KindNull
	KindStatic
	KindType
	KindStaticResource
	KindDynamicResource
	KindBinding
	KindMultiBinding
	KindTemplateBinding
	KindCustom
)

// String returns the name of the extension kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindStatic:
		return "Static"
	case KindType:
		return "Type"
	case KindStaticResource:
		return "StaticResource"
	case KindDynamicResource:
		return "DynamicResource"
	case KindBinding:
		return "Binding"
	case KindMultiBinding:
		return "MultiBinding"
	case KindTemplateBinding:
		return "TemplateBinding"
	case KindCustom:
		return "Custom"
	}
	return "None"
}

// NeedsInstance reports whether the extension kind requires a constructed
// extension object; Null, Static, Type and the resource lookups resolve to
// values without one.
func (k Kind) NeedsInstance() bool {
	switch k {
	case KindBinding, KindMultiBinding, KindTemplateBinding, KindCustom:
		return true
	}
	return false
}

// Target describes the property-receiving side of an extension emission:
// the referencing element (not the extension node itself), its type, and the
// resolved member or attached accessor pair.
type Target struct {
	OwnerRef  output.Expression
	OwnerType metadata.TypeRef
	// Member is nil for attached-property targets.
	Member *metadata.MemberDescriptor
	// AttachedOwner/AttachedProp identify the declaring class of a
	// Set<Property> call for attached targets.
	AttachedOwner metadata.TypeRef
	AttachedProp  string
	// DPField is the static dependency-property field backing the target,
	// empty when the target is not dependency-property-backed.
	DPField string
}

// IsAttached reports whether the target uses attached-property accessors
func (t *Target) IsAttached() bool {
	return t.AttachedProp != ""
}

// TypeNameResolver resolves a possibly-prefixed type name from an attribute
// value
type TypeNameResolver func(name string, span *util.ParseSourceSpan) (metadata.TypeRef, error)

// Resolver recognizes markup extensions and generates their value-producing
// statements
type Resolver struct {
	types            *metadata.Resolver
	paths            *PathResolver
	resolveTypeName  TypeNameResolver
	markupExtension  metadata.TypeRef
	bindingBase      metadata.TypeRef
	dataNamespace    string
	runtimeNamespace string
}

// NewResolver creates a new markup-extension Resolver. markupExtension and
// bindingBase are the framework base types custom extensions and bindings
// derive from; dataNamespace and runtimeNamespace qualify the generated
// binding-attach and provide-value helpers.
func NewResolver(types *metadata.Resolver, paths *PathResolver, markupExtension, bindingBase metadata.TypeRef, dataNamespace, runtimeNamespace string) *Resolver {
	return &Resolver{
		types:            types,
		paths:            paths,
		markupExtension:  markupExtension,
		bindingBase:      bindingBase,
		dataNamespace:    dataNamespace,
		runtimeNamespace: runtimeNamespace,
	}
}

// SetTypeNameResolver installs the document-scoped prefix resolver
func (r *Resolver) SetTypeNameResolver(fn TypeNameResolver) {
	r.resolveTypeName = fn
}

// Paths returns the property-path resolver
func (r *Resolver) Paths() *PathResolver {
	return r.paths
}

// Classify determines the extension kind of an element. nodeType may be the
// zero TypeRef when the element name is a directive that never resolves to a
// type.
func (r *Resolver) Classify(name markup.QualifiedName, nodeType metadata.TypeRef) Kind {
	if name.Namespace == markup.DirectiveNamespace {
		switch name.Local {
		case "Null", "NullExtension":
			return KindNull
		case "Static", "StaticExtension":
			return KindStatic
		case "Type", "TypeExtension":
			return KindType
		}
	}
	switch strings.TrimSuffix(name.Local, "Extension") {
	case "StaticResource":
		return KindStaticResource
	case "DynamicResource":
		return KindDynamicResource
	case "Binding":
		return KindBinding
	case "MultiBinding":
		return KindMultiBinding
	case "TemplateBinding":
		return KindTemplateBinding
	}
	if !nodeType.IsZero() && r.types.IsAssignableFrom(r.markupExtension, nodeType) {
		return KindCustom
	}
	return KindNone
}

// Emit generates the value-producing statements for one extension applied to
// one target. extRef is the constructed extension object's reference for
// kinds that need an instance, nil otherwise.
func (r *Resolver) Emit(kind Kind, node *markup.ObjectNode, extRef output.Expression, tgt *Target, span *util.ParseSourceSpan) ([]output.Statement, error) {
	switch kind {
	case KindNull:
		return r.emitNull(tgt, span), nil
	case KindStatic:
		return r.emitStatic(node, tgt, span)
	case KindType:
		return r.emitType(node, tgt, span)
	case KindStaticResource:
		return r.emitStaticResource(node, tgt, span)
	case KindDynamicResource:
		return r.emitDynamicResource(node, tgt, span)
	case KindBinding, KindMultiBinding:
		return r.emitBinding(extRef, tgt, span), nil
	case KindTemplateBinding:
		return r.emitTemplateBinding(node, extRef, tgt, span)
	case KindCustom:
		return r.emitCustom(extRef, tgt, span), nil
	}
	return nil, util.NewMarkupError(util.ErrorKindInternalGeneratorFault, span,
		fmt.Sprintf("element '%s' is not a markup extension", node.Name))
}

// assignTo produces the assignment of value to the target, using the
// declaring class's static setter for attached targets
func (r *Resolver) assignTo(tgt *Target, value output.Expression, span *util.ParseSourceSpan) output.Statement {
	if tgt.IsAttached() {
		return output.NewExpressionStmt(output.NewInvokeMethodExpr(
			output.NewTypeRefExpr(tgt.AttachedOwner, span),
			"Set"+tgt.AttachedProp,
			[]output.Expression{tgt.OwnerRef, value},
			span,
		), span)
	}
	return output.NewAssignStmt(
		output.NewReadPropExpr(tgt.OwnerRef, tgt.Member.Name, span),
		value,
		span,
	)
}

// emitNull assigns null; the extension object instance is never constructed
func (r *Resolver) emitNull(tgt *Target, span *util.ParseSourceSpan) []output.Statement {
	return []output.Statement{r.assignTo(tgt, output.NullExpr(span), span)}
}

// emitStatic resolves Type.Member to a field, property or enum value
func (r *Resolver) emitStatic(node *markup.ObjectNode, tgt *Target, span *util.ParseSourceSpan) ([]output.Statement, error) {
	memberAttr := node.Attribute("Member")
	text := node.Text
	if memberAttr != nil {
		text = memberAttr.Value
	}
	text = strings.TrimSpace(text)

	var ownerName, memberName string
	if typeAttr := node.Attribute("MemberType"); typeAttr != nil {
		ownerName = strings.TrimSpace(typeAttr.Value)
		memberName = text
	} else {
		dot := strings.LastIndexByte(text, '.')
		if dot <= 0 || dot == len(text)-1 {
			return nil, util.NewMarkupError(util.ErrorKindUnresolvedSymbol, span,
				fmt.Sprintf("static member reference '%s' must name Type.Member", text))
		}
		ownerName = text[:dot]
		memberName = text[dot+1:]
	}

	ownerType, err := r.resolveTypeName(ownerName, span)
	if err != nil {
		return nil, err
	}
	if r.types.MemberKind(memberName, ownerType) == metadata.MemberKindUnknown {
		if _, enumErr := r.types.EnumFieldName(memberName, ownerType, span); enumErr != nil {
			return nil, util.NewMarkupError(util.ErrorKindUnresolvedSymbol, span,
				fmt.Sprintf("type '%s' has no static member '%s'", ownerType.FullName(), memberName))
		}
	}
	value := output.NewReadPropExpr(output.NewTypeRefExpr(ownerType, span), memberName, span)
	return []output.Statement{r.assignTo(tgt, value, span)}, nil
}

// emitType resolves a type name to a typeof expression
func (r *Resolver) emitType(node *markup.ObjectNode, tgt *Target, span *util.ParseSourceSpan) ([]output.Statement, error) {
	name := node.Text
	if attr := node.Attribute("TypeName"); attr != nil {
		name = attr.Value
	} else if attr := node.Attribute("Type"); attr != nil {
		name = attr.Value
	}
	ref, err := r.resolveTypeName(strings.TrimSpace(name), span)
	if err != nil {
		return nil, err
	}
	return []output.Statement{r.assignTo(tgt, output.NewTypeofExpr(ref, span), span)}, nil
}

// ResourceKey extracts the lookup key of a resource extension
func ResourceKey(node *markup.ObjectNode) (string, bool) {
	if attr := node.Attribute("ResourceKey"); attr != nil {
		return attr.Value, true
	}
	if node.Text != "" {
		return node.Text, true
	}
	return "", false
}

// emitStaticResource looks the resource up relative to the referencing
// element; the cast preserves the target property's static type
func (r *Resolver) emitStaticResource(node *markup.ObjectNode, tgt *Target, span *util.ParseSourceSpan) ([]output.Statement, error) {
	key, ok := ResourceKey(node)
	if !ok {
		return nil, util.NewMarkupError(util.ErrorKindMissingKey, span,
			"static resource reference has no resource key")
	}
	lookup := output.NewInvokeMethodExpr(tgt.OwnerRef, "FindResource",
		[]output.Expression{output.NewLiteralExpr(key, span)}, span)

	var value output.Expression = lookup
	if !tgt.IsAttached() && tgt.Member != nil && !tgt.Member.ValueType.IsZero() {
		value = output.NewCastExpr(tgt.Member.ValueType, lookup, span)
	}
	return []output.Statement{r.assignTo(tgt, value, span)}, nil
}

// emitDynamicResource registers a deferred resource reference against the
// backing dependency property when one exists
func (r *Resolver) emitDynamicResource(node *markup.ObjectNode, tgt *Target, span *util.ParseSourceSpan) ([]output.Statement, error) {
	key, ok := ResourceKey(node)
	if !ok {
		return nil, util.NewMarkupError(util.ErrorKindMissingKey, span,
			"dynamic resource reference has no resource key")
	}
	if tgt.DPField != "" {
		dpOwner := tgt.OwnerType
		if tgt.IsAttached() {
			dpOwner = tgt.AttachedOwner
		}
		return []output.Statement{output.NewExpressionStmt(output.NewInvokeMethodExpr(
			tgt.OwnerRef,
			"SetResourceReference",
			[]output.Expression{
				output.NewReadPropExpr(output.NewTypeRefExpr(dpOwner, span), tgt.DPField, span),
				output.NewLiteralExpr(key, span),
			},
			span,
		), span)}, nil
	}
	return r.emitStaticResource(node, tgt, span)
}

// emitBinding attaches or assigns a constructed binding object depending on
// the target's shape
func (r *Resolver) emitBinding(extRef output.Expression, tgt *Target, span *util.ParseSourceSpan) []output.Statement {
	acceptsBindingBase := !tgt.IsAttached() && tgt.Member != nil &&
		r.types.IsAssignableFrom(tgt.Member.ValueType, r.bindingBase)
	if acceptsBindingBase {
		return []output.Statement{r.assignTo(tgt, extRef, span)}
	}
	if tgt.DPField != "" {
		dpOwner := tgt.OwnerType
		if tgt.IsAttached() {
			dpOwner = tgt.AttachedOwner
		}
		bindingOps := metadata.TypeRef{Namespace: r.dataNamespace, Name: "BindingOperations"}
		return []output.Statement{output.NewExpressionStmt(output.NewInvokeMethodExpr(
			output.NewTypeRefExpr(bindingOps, span),
			"SetBinding",
			[]output.Expression{
				tgt.OwnerRef,
				output.NewReadPropExpr(output.NewTypeRefExpr(dpOwner, span), tgt.DPField, span),
				extRef,
			},
			span,
		), span)}
	}
	return []output.Statement{r.assignTo(tgt, extRef, span)}
}

// emitTemplateBinding emits the dependency-property name and optional owner
// type as two statements; the binding is resolved against the templated
// parent at instantiation time, not compile time
func (r *Resolver) emitTemplateBinding(node *markup.ObjectNode, extRef output.Expression, tgt *Target, span *util.ParseSourceSpan) ([]output.Statement, error) {
	propAttr := node.Attribute("Property")
	if propAttr == nil {
		return nil, util.NewMarkupError(util.ErrorKindUnresolvedSymbol, span,
			"template binding has no Property")
	}
	text := strings.TrimSpace(propAttr.Value)
	propName := text
	var ownerType metadata.TypeRef
	if dot := strings.LastIndexByte(text, '.'); dot > 0 {
		resolved, err := r.resolveTypeName(text[:dot], span)
		if err != nil {
			return nil, err
		}
		ownerType = resolved
		propName = text[dot+1:]
	}

	stmts := []output.Statement{
		output.NewAssignStmt(output.NewReadPropExpr(extRef, "PropertyName", span),
			output.NewLiteralExpr(propName, span), span),
	}
	if !ownerType.IsZero() {
		stmts = append(stmts, output.NewAssignStmt(
			output.NewReadPropExpr(extRef, "PropertyOwnerType", span),
			output.NewTypeofExpr(ownerType, span), span))
	}
	stmts = append(stmts, r.assignTo(tgt, extRef, span))
	return stmts, nil
}

// emitCustom asks the constructed extension for its value through the
// provide-value protocol, passing the referencing target and the property's
// key name as positional context
func (r *Resolver) emitCustom(extRef output.Expression, tgt *Target, span *util.ParseSourceSpan) []output.Statement {
	keyName := tgt.AttachedProp
	if tgt.Member != nil {
		keyName = tgt.Member.Name
	}
	var keyExpr output.Expression = output.NullExpr(span)
	if keyName != "" {
		keyExpr = output.NewLiteralExpr(keyName, span)
	}
	context := output.NewInstantiateExpr(
		metadata.TypeRef{Namespace: r.runtimeNamespace, Name: "ProvideValueContext"},
		[]output.Expression{tgt.OwnerRef, keyExpr},
		span,
	)
	value := output.NewInvokeMethodExpr(extRef, "ProvideValue", []output.Expression{context}, span)
	return []output.Statement{r.assignTo(tgt, value, span)}
}
