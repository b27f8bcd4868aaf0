package markup

import (
	"strings"

	"xgc-go/packages/compiler/util"
)

// EventKind represents the structural event kinds of the markup node stream
type EventKind int

const (
	EventStartObject EventKind = iota
	EventEndObject
	EventStartMember
	EventEndMember
	EventEndMemberCollection
)

// String returns the name of the event kind
func (k EventKind) String() string {
	switch k {
	case EventStartObject:
		return "StartObject"
	case EventEndObject:
		return "EndObject"
	case EventStartMember:
		return "StartMember"
	case EventEndMember:
		return "EndMember"
	case EventEndMemberCollection:
		return "EndMemberCollection"
	}
	return "Unknown"
}

// QualifiedName is a markup name split into its prefix, resolved namespace
// and local part
type QualifiedName struct {
	Prefix    string
	Namespace string
	Local     string
}

// String returns the prefixed form of the name
func (q QualifiedName) String() string {
	if q.Prefix == "" {
		return q.Local
	}
	return q.Prefix + ":" + q.Local
}

// IsAttachedSyntax reports whether the local name uses the dotted
// attached-property form (Owner.Property)
func (q QualifiedName) IsAttachedSyntax() bool {
	return strings.Contains(q.Local, ".")
}

// SplitAttached splits an attached-syntax local name into owner and property
func (q QualifiedName) SplitAttached() (owner, property string) {
	idx := strings.Index(q.Local, ".")
	if idx < 0 {
		return "", q.Local
	}
	return q.Local[:idx], q.Local[idx+1:]
}

// Attribute is a single markup attribute in document order
type Attribute struct {
	Name       QualifiedName
	Value      string
	SourceSpan *util.ParseSourceSpan
}

// ObjectNode describes a start-object event's element
type ObjectNode struct {
	Name       QualifiedName
	Attributes []*Attribute
	// Text holds inline character content, used for literal-from-string
	// instantiation of known types.
	Text       string
	SourceSpan *util.ParseSourceSpan
}

// Attribute returns the attribute with the given local name and empty
// prefix, or nil
func (o *ObjectNode) Attribute(local string) *Attribute {
	for _, attr := range o.Attributes {
		if attr.Name.Local == local && attr.Name.Prefix == "" {
			return attr
		}
	}
	return nil
}

// DirectiveAttribute returns the reserved directive attribute (x:Key,
// x:Name, ...) with the given local name, or nil
func (o *ObjectNode) DirectiveAttribute(local string) *Attribute {
	for _, attr := range o.Attributes {
		if attr.Name.Local == local && attr.Name.Namespace == DirectiveNamespace {
			return attr
		}
	}
	return nil
}

// MemberNode describes a start-member event's member
type MemberNode struct {
	Name       QualifiedName
	SourceSpan *util.ParseSourceSpan
}

// Event is one structural event of the node stream
type Event struct {
	Kind       EventKind
	Object     *ObjectNode
	Member     *MemberNode
	SourceSpan *util.ParseSourceSpan
}

// NodeStream is the ordered, forward-only event sequence produced by the
// external markup parser. It is consumed exactly once per compilation.
type NodeStream struct {
	events []*Event
	pos    int
}

// NewNodeStream creates a NodeStream over the given events
func NewNodeStream(events []*Event) *NodeStream {
	return &NodeStream{events: events}
}

// Next returns the next event, or nil when the stream is exhausted
func (s *NodeStream) Next() *Event {
	if s.pos >= len(s.events) {
		return nil
	}
	ev := s.events[s.pos]
	s.pos++
	return ev
}

// RootKind categorizes a document's root element
type RootKind int

const (
	RootKindOrdinary RootKind = iota
	RootKindResourceDictionary
	RootKindApplication
)

// Document is one parsed markup document plus the metadata the generator
// derives its output shape from
type Document struct {
	File           *util.ParseSourceFile
	RelativePath   string
	Stream         *NodeStream
	ClassName      string
	ClassNamespace string
	HasCodeBehind  bool
	RootKind       RootKind
	// Prefixes maps declared namespace prefixes to their namespace names;
	// the empty prefix maps to the default namespace. Needed to resolve
	// prefixed type names appearing inside attribute values.
	Prefixes map[string]string
}

// ResolvePrefix splits a possibly-prefixed type name from an attribute value
// into its namespace and local parts
func (d *Document) ResolvePrefix(name string) (QualifiedName, bool) {
	prefix := ""
	local := name
	if idx := strings.Index(name, ":"); idx >= 0 {
		prefix = name[:idx]
		local = name[idx+1:]
	}
	ns, ok := d.Prefixes[prefix]
	if !ok {
		return QualifiedName{}, false
	}
	return QualifiedName{Prefix: prefix, Namespace: ns, Local: local}, true
}

// DirectiveNamespace is the reserved markup-directive namespace (x:)
const DirectiveNamespace = "http://schemas.microsoft.com/winfx/2006/xaml"

// XmlnsNamespace is the XML namespace-declaration namespace
const XmlnsNamespace = "http://www.w3.org/2000/xmlns/"

// IsNamespaceDeclaration reports whether the attribute declares a namespace
// prefix rather than setting a member
func IsNamespaceDeclaration(name QualifiedName) bool {
	return name.Namespace == XmlnsNamespace || name.Prefix == "xmlns" ||
		(name.Prefix == "" && name.Local == "xmlns")
}

// reserved directives that never resolve to members
var reservedDirectives = map[string]bool{
	"Class":         true,
	"ClassModifier": true,
	"SubClass":      true,
	"Key":           true,
	"Name":          true,
	"Uid":           true,
	"FieldModifier": true,
	"TypeArguments": true,
}

// IsReservedDirective reports whether the attribute is a reserved directive
// the generator must skip during ordinary member processing
func IsReservedDirective(name QualifiedName) bool {
	return name.Namespace == DirectiveNamespace && reservedDirectives[name.Local]
}
