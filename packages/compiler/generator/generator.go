package generator

import (
	"fmt"
	"strings"

	"xgc-go/packages/compiler/convert"
	"xgc-go/packages/compiler/extensions"
	"xgc-go/packages/compiler/markup"
	"xgc-go/packages/compiler/metadata"
	"xgc-go/packages/compiler/output"
	"xgc-go/packages/compiler/util"
)

// objectFrame tracks one open element during traversal
type objectFrame struct {
	node         *markup.ObjectNode
	ref          string
	typeRef      metadata.TypeRef
	extKind      extensions.Kind
	isRoot       bool
	isStyle      bool
	literal      bool
	supportsInit bool
	helper       *ObjectConstructionScope
}

// refExpr returns the element-reference expression for this frame
func (f *objectFrame) refExpr(span *util.ParseSourceSpan) output.Expression {
	return output.NewReadVarExpr(f.ref, span)
}

// memberFrame tracks one open member during traversal
type memberFrame struct {
	name          string
	owner         *objectFrame
	desc          *metadata.MemberDescriptor
	attachedOwner metadata.TypeRef
	attachedProp  string
	template      *TemplateScope
	children      []*objectFrame
	isCollection  bool
	isDictionary  bool
	span          *util.ParseSourceSpan
}

// eventConnection is one entry of the deferred event-connector table
type eventConnection struct {
	id      int
	desc    *metadata.MemberDescriptor
	handler string
	span    *util.ParseSourceSpan
}

// Generator walks one markup document's node stream and emits the
// compilation unit that reconstructs the document's object graph. One
// Generator compiles exactly one document; separate documents use separate
// instances and may run in parallel, sharing only the read-only oracle.
type Generator struct {
	cfg       *Config
	doc       *markup.Document
	resolver  *metadata.Resolver
	converter *convert.Converter
	ext       *extensions.Resolver

	stack        *ScopeStack
	objectFrames []*objectFrame
	memberFrames []*memberFrame
	lastClosed   *objectFrame

	rootFrame   *objectFrame
	refCount    int
	ctxCount    int
	tmplCount   int
	styleDepth  int
	fields      []*output.FieldDecl
	connections []eventConnection
}

// NewGenerator creates a generator for one document
func NewGenerator(cfg *Config, oracle metadata.TypeOracle, doc *markup.Document) *Generator {
	cfg.withDefaults()
	resolver := metadata.NewResolver(oracle)
	converter := convert.NewConverter(resolver, cfg.SystemTypes, cfg.CoreTypes, cfg.Namespaces.Windowing)

	g := &Generator{
		cfg:       cfg,
		doc:       doc,
		resolver:  resolver,
		converter: converter,
	}
	paths := extensions.NewPathResolver(func(name string) (metadata.TypeRef, bool) {
		ref, err := g.resolveTypeName(name, nil)
		if err != nil {
			return metadata.TypeRef{}, false
		}
		return ref, true
	})
	g.ext = extensions.NewResolver(resolver, paths,
		cfg.markupExtensionType(), cfg.bindingBaseType(),
		cfg.Namespaces.Data, cfg.Namespaces.Windowing+".Markup")
	g.ext.SetTypeNameResolver(g.resolveTypeName)
	converter.SetTypeNameResolver(g.resolveTypeName)
	return g
}

// Generate drives the node stream to exhaustion and returns the generated
// source. On failure the partial buffer is discarded; the returned error is
// always a *util.MarkupError.
func (g *Generator) Generate() (string, error) {
	for {
		ev := g.doc.Stream.Next()
		if ev == nil {
			break
		}
		// uniform per-node boundary: domain errors pass through, anything
		// else is wrapped with the node's position
		if err := g.handleEvent(ev); err != nil {
			return "", util.WrapInternal(err, ev.SourceSpan)
		}
	}
	if g.rootFrame == nil {
		return "", util.NewMarkupError(util.ErrorKindMalformedMarkupConstruct, nil,
			"document has no root element")
	}
	unit, err := g.assemble()
	if err != nil {
		return "", util.WrapInternal(err, nil)
	}
	return output.NewCSharpEmitterVisitor().EmitUnit(unit), nil
}

// handleEvent dispatches one structural event
func (g *Generator) handleEvent(ev *markup.Event) error {
	switch ev.Kind {
	case markup.EventStartObject:
		return g.handleStartObject(ev)
	case markup.EventEndObject:
		return g.handleEndObject(ev)
	case markup.EventStartMember:
		return g.handleStartMember(ev)
	case markup.EventEndMember:
		return g.handleEndMember(ev)
	case markup.EventEndMemberCollection:
		return g.handleEndMemberCollection(ev)
	}
	return util.NewMarkupError(util.ErrorKindInternalGeneratorFault, ev.SourceSpan,
		fmt.Sprintf("unknown event kind %d", ev.Kind))
}

// newRef allocates the next element reference
func (g *Generator) newRef() string {
	ref := fmt.Sprintf("e_%d", g.refCount)
	g.refCount++
	return ref
}

// newContextID allocates the next context identifier
func (g *Generator) newContextID() string {
	id := fmt.Sprintf("ctx_%d", g.ctxCount)
	g.ctxCount++
	return id
}

// resolveTypeName resolves a possibly-prefixed type name from an attribute
// value against the document's prefix bindings and the type oracle
func (g *Generator) resolveTypeName(name string, span *util.ParseSourceSpan) (metadata.TypeRef, error) {
	qn, ok := g.doc.ResolvePrefix(name)
	if !ok {
		return metadata.TypeRef{}, util.NewMarkupError(util.ErrorKindUnresolvedSymbol, span,
			fmt.Sprintf("undeclared namespace prefix in type name '%s'", name))
	}
	return g.resolver.ResolveQualifiedName(qn, span)
}

// markContextUsed records context usage when the current scope is the root
func (g *Generator) markContextUsed() {
	if root, ok := g.stack.Current().(*RootScope); ok {
		root.MarkContextUsed()
	}
}

// currentScope returns the scope receiving statements
func (g *Generator) currentScope() Scope {
	return g.stack.Current()
}

// handleStartObject decides the instantiation strategy for one element
func (g *Generator) handleStartObject(ev *markup.Event) error {
	node := ev.Object
	span := node.SourceSpan

	// classification precedes resolution because directive extensions never
	// resolve to oracle types
	var typeRef metadata.TypeRef
	kind := g.ext.Classify(node.Name, metadata.TypeRef{})
	if kind == extensions.KindNone || kind.NeedsInstance() {
		resolved, err := g.resolver.ResolveQualifiedName(node.Name, span)
		if err != nil {
			return err
		}
		typeRef = resolved
		if kind == extensions.KindNone {
			kind = g.ext.Classify(node.Name, typeRef)
		}
	}

	if g.rootFrame == nil {
		return g.startRoot(node, typeRef, span)
	}

	// second child of a template-content member is rejected up front
	if mf := g.topMember(); mf != nil && mf.template != nil && len(mf.children) >= 1 {
		return util.NewMarkupError(util.ErrorKindTooManyChildren, span,
			"template content must have exactly one child element")
	}

	frame := &objectFrame{node: node, ref: g.newRef(), typeRef: typeRef, extKind: kind}

	switch {
	case kind != extensions.KindNone && !kind.NeedsInstance():
		// the extension resolves to a value without an instance; no
		// construction statement is generated

	case kind == extensions.KindNone && g.converter.Knows(typeRef) && node.Text != "":
		expr, err := g.converter.Convert(node.Text, typeRef, nil, span)
		if err != nil {
			return err
		}
		frame.literal = true
		g.currentScope().Append(output.NewDeclareVarStmt(frame.ref, nil, expr, span))

	default:
		if err := g.constructObject(frame, span); err != nil {
			return err
		}
	}

	if err := g.checkStructure(frame, span); err != nil {
		return err
	}

	if mf := g.topMember(); mf != nil {
		mf.children = append(mf.children, frame)
	}
	g.objectFrames = append(g.objectFrames, frame)

	if !frame.literal && (frame.extKind == extensions.KindNone || frame.extKind.NeedsInstance()) {
		if err := g.processAttributes(frame); err != nil {
			return err
		}
	}
	return nil
}

// startRoot handles the document root, which receives a context-creation
// statement instead of a construction wrapper
func (g *Generator) startRoot(node *markup.ObjectNode, typeRef metadata.TypeRef, span *util.ParseSourceSpan) error {
	var rootRef string
	if g.doc.HasCodeBehind {
		rootRef = "this"
	} else {
		rootRef = g.newRef()
	}
	ownsTable := g.doc.RootKind == markup.RootKindOrdinary
	root := NewRootScope(g.newContextID(), rootRef, ownsTable)
	g.stack = NewScopeStack(root, g.cfg.parserContextType(), !g.doc.HasCodeBehind)

	frame := &objectFrame{node: node, ref: rootRef, typeRef: typeRef, isRoot: true}
	frame.supportsInit = g.resolver.IsAssignableFrom(g.cfg.supportInitializeType(), typeRef)
	g.rootFrame = frame
	g.objectFrames = append(g.objectFrames, frame)

	if !g.doc.HasCodeBehind {
		root.Construct = output.NewDeclareVarStmt(rootRef, nil,
			output.NewInstantiateExpr(typeRef, nil, span), span)
	}
	if err := g.checkStructure(frame, span); err != nil {
		return err
	}
	return g.processAttributes(frame)
}

// constructObject emits the general construction statement, optionally
// factored into an object-construction helper scope
func (g *Generator) constructObject(frame *objectFrame, span *util.ParseSourceSpan) error {
	factor := g.cfg.FactorHelpers && g.doc.HasCodeBehind &&
		frame.extKind == extensions.KindNone && g.inDictionaryMember()
	if factor {
		helper := NewObjectConstructionScope(g.newContextID(), frame.ref, frame.typeRef, g.stack.CurrentContextID())
		g.markContextUsed()
		call := output.NewInvokeMethodExpr(
			output.NewReadVarExpr("this", span),
			helper.HelperName(),
			[]output.Expression{output.NewReadVarExpr(helper.EnclosingContext, span)},
			span,
		)
		g.currentScope().Append(output.NewDeclareVarStmt(frame.ref, nil, call, span))
		g.stack.Push(helper)
		frame.helper = helper
	}

	g.currentScope().Append(output.NewDeclareVarStmt(frame.ref, nil,
		output.NewInstantiateExpr(frame.typeRef, nil, span), span))

	frame.supportsInit = g.resolver.IsAssignableFrom(g.cfg.supportInitializeType(), frame.typeRef)

	if frame.extKind == extensions.KindNone {
		g.emitObjectHooks(frame, span)
	}
	return nil
}

// emitObjectHooks emits the cross-cutting association statements for a
// freshly constructed object
func (g *Generator) emitObjectHooks(frame *objectFrame, span *util.ParseSourceSpan) {
	if ts, ok := g.currentScope().(*TemplateScope); ok {
		if g.resolver.IsAssignableFrom(g.cfg.frameworkElementType(), frame.typeRef) {
			g.currentScope().Append(output.NewExpressionStmt(output.NewInvokeMethodExpr(
				output.NewTypeRefExpr(g.cfg.frameworkTemplateType(), span),
				"SetTemplatedParent",
				[]output.Expression{frame.refExpr(span), output.NewReadVarExpr(ts.OwnerParam, span)},
				span,
			), span))
		}
	}
	if g.resolver.IsAssignableFrom(g.cfg.timelineType(), frame.typeRef) {
		g.markContextUsed()
		timelineContext := metadata.TypeRef{Namespace: g.cfg.Namespaces.Animation, Name: "TimelineContext"}
		g.currentScope().Append(output.NewExpressionStmt(output.NewInvokeMethodExpr(
			output.NewTypeRefExpr(timelineContext, span),
			"Associate",
			[]output.Expression{output.NewReadVarExpr(g.stack.CurrentContextID(), span), frame.refExpr(span)},
			span,
		), span))
	}
	if g.cfg.DesignTimeMetadata && g.resolver.IsAssignableFrom(g.cfg.uiElementType(), frame.typeRef) {
		designer := metadata.TypeRef{Namespace: g.cfg.Namespaces.Windowing, Name: "DesignerMetadata"}
		g.currentScope().Append(output.NewExpressionStmt(output.NewInvokeMethodExpr(
			output.NewTypeRefExpr(designer, span),
			"SetFilePath",
			[]output.Expression{frame.refExpr(span), output.NewLiteralExpr(g.doc.RelativePath, span)},
			span,
		), span))
	}
}

// checkStructure enforces structural constraints tied to element identity
func (g *Generator) checkStructure(frame *objectFrame, span *util.ParseSourceSpan) error {
	if frame.typeRef.IsZero() {
		return nil
	}
	if g.resolver.IsAssignableFrom(g.cfg.setterType(), frame.typeRef) && g.styleDepth == 0 {
		return util.NewMarkupError(util.ErrorKindMalformedMarkupConstruct, span,
			"Setter is only valid inside a Style")
	}
	if g.resolver.IsAssignableFrom(g.cfg.styleType(), frame.typeRef) {
		frame.isStyle = true
		g.styleDepth++
	}
	return nil
}

// inDictionaryMember reports whether the innermost open member is
// dictionary-shaped
func (g *Generator) inDictionaryMember() bool {
	mf := g.topMember()
	return mf != nil && mf.isDictionary
}

// topMember returns the innermost open member frame, or nil
func (g *Generator) topMember() *memberFrame {
	if len(g.memberFrames) == 0 {
		return nil
	}
	return g.memberFrames[len(g.memberFrames)-1]
}

// topObject returns the innermost open object frame, or nil
func (g *Generator) topObject() *objectFrame {
	if len(g.objectFrames) == 0 {
		return nil
	}
	return g.objectFrames[len(g.objectFrames)-1]
}

// processAttributes handles an element's attributes in document order
func (g *Generator) processAttributes(frame *objectFrame) error {
	for _, attr := range frame.node.Attributes {
		if markup.IsNamespaceDeclaration(attr.Name) {
			continue
		}
		if attr.Name.Namespace == markup.DirectiveNamespace && attr.Name.Local == "Name" {
			if err := g.handleName(frame, attr); err != nil {
				return err
			}
			continue
		}
		if markup.IsReservedDirective(attr.Name) {
			continue
		}
		if attr.Name.IsAttachedSyntax() {
			if err := g.handleAttachedAttribute(frame, attr); err != nil {
				return err
			}
			continue
		}
		if attr.Name.Prefix == "" && attr.Name.Local == "Name" {
			if err := g.handleName(frame, attr); err != nil {
				return err
			}
			continue
		}
		if attr.Name.Local == "RoutedEvent" {
			if err := g.handleRoutedEvent(frame, attr); err != nil {
				return err
			}
			continue
		}
		if err := g.handleMemberAttribute(frame, attr); err != nil {
			return err
		}
	}
	return nil
}

// handleName registers a declared name into the nearest name-scope and emits
// the name-set statement
func (g *Generator) handleName(frame *objectFrame, attr *markup.Attribute) error {
	name := attr.Value
	span := attr.SourceSpan

	owner := g.stack.NameScopeOwner()
	if owner != nil {
		if err := owner.RegisterName(name, frame.ref, span); err != nil {
			return err
		}
		if _, isRoot := owner.(*RootScope); isRoot && g.cfg.GenerateFields && g.doc.HasCodeBehind {
			modifier := g.cfg.FieldModifier
			if fm := frame.node.DirectiveAttribute("FieldModifier"); fm != nil {
				modifier = fm.Value
			}
			g.fields = append(g.fields, output.NewFieldDecl("@"+name, frame.typeRef, modifier))
		}
	}

	// direct dependency-property name-set when the object has no plain
	// runtime-name property
	if g.resolver.MemberKind("Name", frame.typeRef) == metadata.MemberKindProperty {
		g.currentScope().Append(output.NewAssignStmt(
			output.NewReadPropExpr(frame.refExpr(span), "Name", span),
			output.NewLiteralExpr(name, span), span))
	} else if dpField, ok := g.resolver.DependencyProperty(frame.typeRef, "Name"); ok {
		g.currentScope().Append(output.NewExpressionStmt(output.NewInvokeMethodExpr(
			frame.refExpr(span), "SetValue",
			[]output.Expression{
				output.NewReadPropExpr(output.NewTypeRefExpr(frame.typeRef, span), dpField, span),
				output.NewLiteralExpr(name, span),
			}, span), span))
	}
	return nil
}

// handleAttachedAttribute generates the static setter call for an
// attached-property attribute
func (g *Generator) handleAttachedAttribute(frame *objectFrame, attr *markup.Attribute) error {
	span := attr.SourceSpan
	ownerName, prop := attr.Name.SplitAttached()
	ownerType, err := g.resolver.ResolveQualifiedName(markup.QualifiedName{
		Prefix:    attr.Name.Prefix,
		Namespace: attr.Name.Namespace,
		Local:     ownerName,
	}, span)
	if err != nil {
		return err
	}
	valueType, err := g.resolver.ResolveAttached(ownerType, prop, span)
	if err != nil {
		return err
	}

	desc, ok := g.memberForAttached(ownerType, prop, valueType)
	if !ok {
		desc = &metadata.MemberDescriptor{
			Name:          prop,
			Kind:          metadata.MemberKindProperty,
			DeclaringType: ownerType,
			ValueType:     valueType,
		}
	}
	value, err := g.converter.Convert(attr.Value, valueType, desc, span)
	if err != nil {
		return err
	}
	g.currentScope().Append(output.NewExpressionStmt(output.NewInvokeMethodExpr(
		output.NewTypeRefExpr(ownerType, span),
		"Set"+prop,
		[]output.Expression{frame.refExpr(span), value},
		span,
	), span))
	return nil
}

// memberForAttached resolves the member descriptor backing an attached
// property when the oracle has one
func (g *Generator) memberForAttached(ownerType metadata.TypeRef, prop string, valueType metadata.TypeRef) (*metadata.MemberDescriptor, bool) {
	if g.resolver.MemberKind(prop, ownerType) == metadata.MemberKindUnknown {
		return nil, false
	}
	desc, err := g.resolver.ResolveMember(prop, ownerType, nil)
	if err != nil {
		return nil, false
	}
	return desc, true
}

// handleRoutedEvent handles the one sanctioned routed-event shortcut
// property; anywhere else the assignment is structural misuse
func (g *Generator) handleRoutedEvent(frame *objectFrame, attr *markup.Attribute) error {
	span := attr.SourceSpan
	if !g.resolver.IsAssignableFrom(g.cfg.eventTriggerType(), frame.typeRef) {
		return util.NewMarkupError(util.ErrorKindMalformedMarkupConstruct, span,
			fmt.Sprintf("RoutedEvent cannot be assigned on '%s'", frame.typeRef.FullName()))
	}
	text := strings.TrimSpace(attr.Value)
	dot := strings.LastIndexByte(text, '.')
	if dot <= 0 || dot == len(text)-1 {
		return util.NewMarkupError(util.ErrorKindUnresolvedSymbol, span,
			fmt.Sprintf("routed event reference '%s' must name Type.Event", text))
	}
	ownerType, err := g.resolveTypeName(text[:dot], span)
	if err != nil {
		return err
	}
	eventName := text[dot+1:]
	g.currentScope().Append(output.NewAssignStmt(
		output.NewReadPropExpr(frame.refExpr(span), "RoutedEvent", span),
		output.NewReadPropExpr(output.NewTypeRefExpr(ownerType, span), eventName+"Event", span),
		span))
	return nil
}

// handleMemberAttribute resolves an ordinary attribute by member kind
func (g *Generator) handleMemberAttribute(frame *objectFrame, attr *markup.Attribute) error {
	span := attr.SourceSpan
	desc, err := g.resolver.ResolveMember(attr.Name.Local, frame.typeRef, span)
	if err != nil {
		return err
	}

	if desc.Kind == metadata.MemberKindEvent {
		return g.connectEvent(frame, desc, attr)
	}

	// binding path values are normalized before generation; normalization
	// fails open
	if (frame.extKind == extensions.KindBinding || frame.extKind == extensions.KindMultiBinding) &&
		desc.Name == "Path" {
		normalized, _ := g.ext.Paths().Resolve(attr.Value)
		propertyPath := metadata.TypeRef{Namespace: g.cfg.Namespaces.Windowing, Name: "PropertyPath"}
		g.currentScope().Append(output.NewAssignStmt(
			output.NewReadPropExpr(frame.refExpr(span), "Path", span),
			output.NewInstantiateExpr(propertyPath, []output.Expression{output.NewLiteralExpr(normalized, span)}, span),
			span))
		return nil
	}

	text := g.rewriteResourcePath(attr.Value, desc.ValueType, frame.typeRef, desc.Name)
	value, err := g.converter.Convert(text, desc.ValueType, desc, span)
	if err != nil {
		return err
	}
	g.currentScope().Append(output.NewAssignStmt(
		output.NewReadPropExpr(frame.refExpr(span), desc.Name, span), value, span))
	return nil
}

// connectEvent records one entry of the deferred event-connector table and
// emits the connect call
func (g *Generator) connectEvent(frame *objectFrame, desc *metadata.MemberDescriptor, attr *markup.Attribute) error {
	span := attr.SourceSpan
	if !g.doc.HasCodeBehind {
		return util.NewMarkupError(util.ErrorKindMalformedMarkupConstruct, span,
			fmt.Sprintf("event '%s' requires a code-behind class", desc.Name))
	}
	id := len(g.connections) + 1
	g.connections = append(g.connections, eventConnection{id: id, desc: desc, handler: attr.Value, span: span})
	g.currentScope().Append(output.NewExpressionStmt(output.NewInvokeMethodExpr(
		output.NewReadVarExpr("this", span),
		"Connect",
		[]output.Expression{output.NewLiteralExpr(int64(id), span), frame.refExpr(span)},
		span,
	), span))
	return nil
}

// handleEndObject closes one element
func (g *Generator) handleEndObject(ev *markup.Event) error {
	frame := g.topObject()
	if frame == nil {
		return util.NewMarkupError(util.ErrorKindInternalGeneratorFault, ev.SourceSpan,
			"end-object without a matching start-object")
	}
	g.objectFrames = g.objectFrames[:len(g.objectFrames)-1]

	if frame.isStyle {
		g.styleDepth--
	}
	if !frame.literal && frame.extKind == extensions.KindNone && frame.supportsInit {
		g.currentScope().Append(output.NewExpressionStmt(output.NewInvokeMethodExpr(
			frame.refExpr(ev.SourceSpan), "EndInit", nil, ev.SourceSpan), ev.SourceSpan))
	}
	if frame.helper != nil {
		if _, err := g.stack.Pop(); err != nil {
			return err
		}
	}
	g.lastClosed = frame
	return nil
}

// handleStartMember opens a member, allocating a template scope for
// framework-template content properties
func (g *Generator) handleStartMember(ev *markup.Event) error {
	owner := g.topObject()
	if owner == nil {
		return util.NewMarkupError(util.ErrorKindInternalGeneratorFault, ev.SourceSpan,
			"start-member without an enclosing object")
	}
	name := ev.Member.Name
	span := ev.Member.SourceSpan
	mf := &memberFrame{owner: owner, span: span}

	prop := name.Local
	if name.IsAttachedSyntax() {
		ownerName, attachedProp := name.SplitAttached()
		resolvedOwner, err := g.resolver.ResolveQualifiedName(markup.QualifiedName{
			Prefix:    name.Prefix,
			Namespace: name.Namespace,
			Local:     ownerName,
		}, span)
		if err != nil {
			return err
		}
		if resolvedOwner != owner.typeRef && g.resolver.IsAttached(resolvedOwner, attachedProp) {
			mf.name = attachedProp
			mf.attachedOwner = resolvedOwner
			mf.attachedProp = attachedProp
			g.memberFrames = append(g.memberFrames, mf)
			return nil
		}
		prop = attachedProp
	}
	mf.name = prop

	if g.resolver.IsTemplateContentMember(prop, owner.typeRef, g.cfg.frameworkTemplateType()) {
		ts := NewTemplateScope(g.newContextID(), owner.ref, g.tmplCount)
		g.tmplCount++
		g.currentScope().Append(output.NewExpressionStmt(output.NewInvokeMethodExpr(
			output.NewTypeRefExpr(g.cfg.frameworkTemplateType(), span),
			"RegisterContentBuilder",
			[]output.Expression{owner.refExpr(span), g.helperGroupExpr(ts.HelperName(), span)},
			span,
		), span))
		g.stack.Push(ts)
		mf.template = ts
		g.memberFrames = append(g.memberFrames, mf)
		return nil
	}

	desc, err := g.resolver.ResolveMember(prop, owner.typeRef, span)
	if err != nil {
		return err
	}
	mf.desc = desc
	mf.isCollection = g.resolver.IsCollection(prop, owner.typeRef)
	mf.isDictionary = g.resolver.IsDictionary(prop, owner.typeRef)
	g.memberFrames = append(g.memberFrames, mf)
	return nil
}

// helperGroupExpr references a generated helper as a method group
func (g *Generator) helperGroupExpr(name string, span *util.ParseSourceSpan) output.Expression {
	if g.doc.HasCodeBehind {
		return output.NewReadPropExpr(output.NewReadVarExpr("this", span), name, span)
	}
	return output.NewReadVarExpr(name, span)
}

// handleEndMember closes a member and emits the value-transfer statements
// chosen by the child's element kind
func (g *Generator) handleEndMember(ev *markup.Event) error {
	mf := g.topMember()
	if mf == nil {
		return util.NewMarkupError(util.ErrorKindInternalGeneratorFault, ev.SourceSpan,
			"end-member without a matching start-member")
	}
	g.memberFrames = g.memberFrames[:len(g.memberFrames)-1]
	span := ev.SourceSpan

	if mf.template != nil {
		if len(mf.children) == 0 {
			return util.NewMarkupError(util.ErrorKindMalformedMarkupConstruct, span,
				"template content requires exactly one child element")
		}
		mf.template.RootRef = mf.children[0].ref
		mf.template.RootType = mf.children[0].typeRef
		_, err := g.stack.Pop()
		return err
	}

	if len(mf.children) == 0 {
		return nil
	}

	ownerExpr := mf.owner.refExpr(span)

	if mf.attachedProp != "" {
		return g.emitAttachedMember(mf, ownerExpr, span)
	}

	if mf.isDictionary {
		target := output.NewReadPropExpr(ownerExpr, mf.desc.Name, span)
		for _, child := range mf.children {
			if err := g.emitDictionaryAdd(target, child, span); err != nil {
				return err
			}
		}
		return nil
	}

	if mf.isCollection {
		if len(mf.children) == 1 && !mf.children[0].typeRef.IsZero() &&
			convert.IsWrapperChild(g.resolver, mf.children[0].typeRef, mf.desc.ValueType) {
			g.currentScope().Append(output.NewAssignStmt(
				output.NewReadPropExpr(ownerExpr, mf.desc.Name, span),
				mf.children[0].refExpr(span), span))
			return nil
		}
		target := output.NewReadPropExpr(ownerExpr, mf.desc.Name, span)
		for _, child := range mf.children {
			if err := g.requireInstance(child, span); err != nil {
				return err
			}
			g.currentScope().Append(output.NewExpressionStmt(output.NewInvokeMethodExpr(
				target, "Add", []output.Expression{child.refExpr(span)}, span), span))
		}
		return nil
	}

	if len(mf.children) > 1 {
		return util.NewMarkupError(util.ErrorKindTooManyChildren, span,
			fmt.Sprintf("property '%s' accepts a single child element", mf.desc.Name))
	}

	child := mf.children[0]
	if child.extKind != extensions.KindNone {
		tgt := &extensions.Target{
			OwnerRef:  ownerExpr,
			OwnerType: mf.owner.typeRef,
			Member:    mf.desc,
		}
		if dpField, ok := g.resolver.DependencyProperty(mf.owner.typeRef, mf.desc.Name); ok {
			tgt.DPField = dpField
		}
		stmts, err := g.ext.Emit(child.extKind, child.node, child.refExpr(span), tgt, span)
		if err != nil {
			return err
		}
		for _, stmt := range stmts {
			g.currentScope().Append(stmt)
		}
		return nil
	}

	g.currentScope().Append(output.NewAssignStmt(
		output.NewReadPropExpr(ownerExpr, mf.desc.Name, span),
		child.refExpr(span), span))
	return nil
}

// emitAttachedMember transfers an element-syntax attached member's value
func (g *Generator) emitAttachedMember(mf *memberFrame, ownerExpr output.Expression, span *util.ParseSourceSpan) error {
	if len(mf.children) > 1 {
		return util.NewMarkupError(util.ErrorKindTooManyChildren, span,
			fmt.Sprintf("attached property '%s.%s' accepts a single child element",
				mf.attachedOwner.FullName(), mf.attachedProp))
	}
	child := mf.children[0]
	if child.extKind != extensions.KindNone {
		tgt := &extensions.Target{
			OwnerRef:      ownerExpr,
			OwnerType:     mf.owner.typeRef,
			AttachedOwner: mf.attachedOwner,
			AttachedProp:  mf.attachedProp,
		}
		if dpField, ok := g.resolver.DependencyProperty(mf.attachedOwner, mf.attachedProp); ok {
			tgt.DPField = dpField
		}
		stmts, err := g.ext.Emit(child.extKind, child.node, child.refExpr(span), tgt, span)
		if err != nil {
			return err
		}
		for _, stmt := range stmts {
			g.currentScope().Append(stmt)
		}
		return nil
	}
	g.currentScope().Append(output.NewExpressionStmt(output.NewInvokeMethodExpr(
		output.NewTypeRefExpr(mf.attachedOwner, span),
		"Set"+mf.attachedProp,
		[]output.Expression{ownerExpr, child.refExpr(span)},
		span,
	), span))
	return nil
}

// requireInstance rejects instance-less extensions where a constructed
// object is needed
func (g *Generator) requireInstance(frame *objectFrame, span *util.ParseSourceSpan) error {
	if frame.extKind != extensions.KindNone && !frame.extKind.NeedsInstance() {
		return util.NewMarkupError(util.ErrorKindMalformedMarkupConstruct, span,
			fmt.Sprintf("%s extension cannot be used as a collection element", frame.extKind))
	}
	return nil
}

// emitDictionaryAdd inserts one child into a dictionary target, resolving
// implicit style and data-template keys
func (g *Generator) emitDictionaryAdd(target output.Expression, child *objectFrame, span *util.ParseSourceSpan) error {
	if err := g.requireInstance(child, span); err != nil {
		return err
	}
	key, err := g.dictionaryKey(child, span)
	if err != nil {
		return err
	}
	g.currentScope().Append(output.NewExpressionStmt(output.NewInvokeMethodExpr(
		target, "Add", []output.Expression{key, child.refExpr(span)}, span), span))
	return nil
}

// dictionaryKey determines a dictionary child's key: explicit x:Key or
// x:Name, implicit style target type, or implicit data-template data type
func (g *Generator) dictionaryKey(child *objectFrame, span *util.ParseSourceSpan) (output.Expression, error) {
	if attr := child.node.DirectiveAttribute("Key"); attr != nil {
		return output.NewLiteralExpr(attr.Value, attr.SourceSpan), nil
	}
	if attr := child.node.DirectiveAttribute("Name"); attr != nil {
		return output.NewLiteralExpr(attr.Value, attr.SourceSpan), nil
	}
	if g.resolver.IsAssignableFrom(g.cfg.styleType(), child.typeRef) {
		if attr := child.node.Attribute("TargetType"); attr != nil {
			ref, err := g.resolveTypeName(strings.TrimSpace(attr.Value), attr.SourceSpan)
			if err != nil {
				return nil, err
			}
			return output.NewTypeofExpr(ref, attr.SourceSpan), nil
		}
	}
	if g.resolver.IsAssignableFrom(g.cfg.dataTemplateType(), child.typeRef) {
		if attr := child.node.Attribute("DataType"); attr != nil {
			ref, err := g.resolveTypeName(strings.TrimSpace(attr.Value), attr.SourceSpan)
			if err != nil {
				return nil, err
			}
			return output.NewInstantiateExpr(g.cfg.dataTemplateKeyType(),
				[]output.Expression{output.NewTypeofExpr(ref, attr.SourceSpan)}, attr.SourceSpan), nil
		}
	}
	return nil, util.NewMarkupError(util.ErrorKindMissingKey, span,
		fmt.Sprintf("dictionary entry '%s' has no determinable key", child.node.Name))
}

// handleEndMemberCollection appends the last closed child directly to a
// collection-typed owner
func (g *Generator) handleEndMemberCollection(ev *markup.Event) error {
	owner := g.topObject()
	if owner == nil || g.lastClosed == nil {
		return util.NewMarkupError(util.ErrorKindInternalGeneratorFault, ev.SourceSpan,
			"end-member-collection without an owner and child")
	}
	span := ev.SourceSpan
	child := g.lastClosed

	if g.resolver.IsDictionaryType(owner.typeRef) {
		return g.emitDictionaryAdd(owner.refExpr(span), child, span)
	}
	if g.resolver.IsCollectionType(owner.typeRef) {
		if err := g.requireInstance(child, span); err != nil {
			return err
		}
		g.currentScope().Append(output.NewExpressionStmt(output.NewInvokeMethodExpr(
			owner.refExpr(span), "Add", []output.Expression{child.refExpr(span)}, span), span))
		return nil
	}
	return util.NewMarkupError(util.ErrorKindMalformedMarkupConstruct, span,
		fmt.Sprintf("'%s' does not accept direct content", owner.typeRef.FullName()))
}
