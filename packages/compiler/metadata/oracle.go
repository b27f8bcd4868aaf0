package metadata

// TypeRef identifies a resolved target-language type
type TypeRef struct {
	Namespace string
	Name      string
	Assembly  string
}

// FullName returns the namespace-qualified type name
func (t TypeRef) FullName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// IsZero reports whether the reference is empty
func (t TypeRef) IsZero() bool {
	return t.Name == ""
}

// MemberKind classifies a resolved member
type MemberKind int

const (
	MemberKindUnknown MemberKind = iota
	MemberKindEvent
	MemberKindField
	MemberKindProperty
)

// String returns the name of the member kind
func (k MemberKind) String() string {
	switch k {
	case MemberKindEvent:
		return "Event"
	case MemberKindField:
		return "Field"
	case MemberKindProperty:
		return "Property"
	}
	return "Unknown"
}

// MemberDescriptor is the result of resolving a member against the type
// oracle. Descriptors are recomputed on demand; the oracle is immutable for
// the duration of a compile, so no caching or invalidation is needed.
type MemberDescriptor struct {
	Name          string
	Kind          MemberKind
	DeclaringType TypeRef
	ValueType     TypeRef
	IsCollection  bool
	IsDictionary  bool
	IsEnum        bool
}

// TypeOracle is the external reflective type-metadata collaborator. All
// queries are pure and side-effect free; implementations must be safe for
// concurrent read-only use by multiple document compilations.
type TypeOracle interface {
	// ResolveType maps a markup namespace/local-name pair to a type.
	ResolveType(namespace, local string) (TypeRef, bool)
	// Member resolves a member declared on (or inherited by) owner.
	Member(owner TypeRef, name string) (*MemberDescriptor, bool)
	// IsCollectionType reports whether instances of t accept list appends.
	IsCollectionType(t TypeRef) bool
	// IsDictionaryType reports whether instances of t accept keyed inserts.
	IsDictionaryType(t TypeRef) bool
	// AttachedSetter reports whether owner declares a static setter for the
	// named attached property, and the property's value type.
	AttachedSetter(owner TypeRef, property string) (TypeRef, bool)
	// IsAssignableFrom reports whether a value of type derived can be
	// assigned to a location of type base.
	IsAssignableFrom(base, derived TypeRef) bool
	// EnumField resolves an enum value name to its declared field name.
	EnumField(enumType TypeRef, value string) (string, bool)
	// DependencyProperty reports the static dependency-property field
	// backing the named property on owner, if any.
	DependencyProperty(owner TypeRef, property string) (string, bool)
}
