package metadata

// TypeEntry describes one type registered with a StaticOracle
type TypeEntry struct {
	Ref TypeRef
	// BaseType is the full name of the base type, empty for roots.
	BaseType string
	// Members maps member name to its descriptor; descriptors registered
	// without a declaring type inherit the entry's Ref.
	Members map[string]*MemberDescriptor
	// Attached maps attached property name to its value type.
	Attached map[string]TypeRef
	// EnumFields maps markup value names to declared field names.
	EnumFields map[string]string
	// DependencyProperties maps property name to its static field name.
	DependencyProperties map[string]string
	IsCollection         bool
	IsDictionary         bool
}

// StaticOracle is a map-backed TypeOracle. It serves the tests and the CLI's
// built-in metadata; production metadata comes from the external
// assembly-inspection process behind the same interface.
type StaticOracle struct {
	byMarkupName map[string]TypeRef
	types        map[string]*TypeEntry
}

// NewStaticOracle creates an empty StaticOracle
func NewStaticOracle() *StaticOracle {
	return &StaticOracle{
		byMarkupName: map[string]TypeRef{},
		types:        map[string]*TypeEntry{},
	}
}

// Register adds a type reachable from the given markup namespace. Returns
// the oracle for chained registration.
func (o *StaticOracle) Register(markupNamespace, local string, entry *TypeEntry) *StaticOracle {
	o.byMarkupName[markupNamespace+"|"+local] = entry.Ref
	o.types[entry.Ref.FullName()] = entry
	for _, desc := range entry.Members {
		if desc.DeclaringType.IsZero() {
			desc.DeclaringType = entry.Ref
		}
	}
	return o
}

// ResolveType implements TypeOracle
func (o *StaticOracle) ResolveType(namespace, local string) (TypeRef, bool) {
	ref, ok := o.byMarkupName[namespace+"|"+local]
	return ref, ok
}

// Member implements TypeOracle; members are looked up along the base chain
func (o *StaticOracle) Member(owner TypeRef, name string) (*MemberDescriptor, bool) {
	for entry := o.types[owner.FullName()]; entry != nil; entry = o.types[entry.BaseType] {
		if desc, ok := entry.Members[name]; ok {
			return desc, true
		}
		if entry.BaseType == "" {
			break
		}
	}
	return nil, false
}

// IsCollectionType implements TypeOracle
func (o *StaticOracle) IsCollectionType(t TypeRef) bool {
	entry := o.types[t.FullName()]
	return entry != nil && entry.IsCollection
}

// IsDictionaryType implements TypeOracle
func (o *StaticOracle) IsDictionaryType(t TypeRef) bool {
	entry := o.types[t.FullName()]
	return entry != nil && entry.IsDictionary
}

// AttachedSetter implements TypeOracle
func (o *StaticOracle) AttachedSetter(owner TypeRef, property string) (TypeRef, bool) {
	entry := o.types[owner.FullName()]
	if entry == nil || entry.Attached == nil {
		return TypeRef{}, false
	}
	valueType, ok := entry.Attached[property]
	return valueType, ok
}

// IsAssignableFrom implements TypeOracle; walks derived's base chain
func (o *StaticOracle) IsAssignableFrom(base, derived TypeRef) bool {
	if base == derived {
		return true
	}
	for entry := o.types[derived.FullName()]; entry != nil; {
		if entry.Ref.FullName() == base.FullName() {
			return true
		}
		if entry.BaseType == "" {
			return false
		}
		entry = o.types[entry.BaseType]
	}
	return false
}

// EnumField implements TypeOracle
func (o *StaticOracle) EnumField(enumType TypeRef, value string) (string, bool) {
	entry := o.types[enumType.FullName()]
	if entry == nil || entry.EnumFields == nil {
		return "", false
	}
	field, ok := entry.EnumFields[value]
	return field, ok
}

// DependencyProperty implements TypeOracle; resolved along the base chain
func (o *StaticOracle) DependencyProperty(owner TypeRef, property string) (string, bool) {
	for entry := o.types[owner.FullName()]; entry != nil; entry = o.types[entry.BaseType] {
		if entry.DependencyProperties != nil {
			if field, ok := entry.DependencyProperties[property]; ok {
				return field, ok
			}
		}
		if entry.BaseType == "" {
			break
		}
	}
	return "", false
}
