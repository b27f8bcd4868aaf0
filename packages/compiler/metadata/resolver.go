package metadata

import (
	"fmt"

	"xgc-go/packages/compiler/markup"
	"xgc-go/packages/compiler/util"
)

// Resolver is a thin façade over the external type oracle. The generator
// talks only to this façade so that the metadata source's query mechanism
// can change without touching generation logic.
type Resolver struct {
	oracle TypeOracle
}

// NewResolver creates a new Resolver over the given oracle
func NewResolver(oracle TypeOracle) *Resolver {
	return &Resolver{oracle: oracle}
}

// ResolveQualifiedName converts a markup qualified name into a type
// reference, failing with UnresolvedSymbol when the oracle does not know it
func (r *Resolver) ResolveQualifiedName(name markup.QualifiedName, span *util.ParseSourceSpan) (TypeRef, error) {
	if ref, ok := r.oracle.ResolveType(name.Namespace, name.Local); ok {
		return ref, nil
	}
	return TypeRef{}, util.NewMarkupError(util.ErrorKindUnresolvedSymbol, span,
		fmt.Sprintf("cannot resolve markup type '%s'", name))
}

// MemberKind reports the kind of the named member on owner without failing;
// unresolvable members report MemberKindUnknown
func (r *Resolver) MemberKind(name string, owner TypeRef) MemberKind {
	if desc, ok := r.oracle.Member(owner, name); ok {
		return desc.Kind
	}
	return MemberKindUnknown
}

// ResolveMember resolves the named member on owner, failing with
// UnresolvedSymbol when generation needs the member but the oracle does not
// know it
func (r *Resolver) ResolveMember(name string, owner TypeRef, span *util.ParseSourceSpan) (*MemberDescriptor, error) {
	if desc, ok := r.oracle.Member(owner, name); ok {
		return desc, nil
	}
	return nil, util.NewMarkupError(util.ErrorKindUnresolvedSymbol, span,
		fmt.Sprintf("type '%s' has no member '%s'", owner.FullName(), name))
}

// IsCollection reports whether the named member's value accepts list appends
func (r *Resolver) IsCollection(member string, owner TypeRef) bool {
	desc, ok := r.oracle.Member(owner, member)
	if !ok {
		return false
	}
	return desc.IsCollection || r.oracle.IsCollectionType(desc.ValueType)
}

// IsDictionary reports whether the named member's value accepts keyed inserts
func (r *Resolver) IsDictionary(member string, owner TypeRef) bool {
	desc, ok := r.oracle.Member(owner, member)
	if !ok {
		return false
	}
	return desc.IsDictionary || r.oracle.IsDictionaryType(desc.ValueType)
}

// IsCollectionType reports whether the type itself accepts list appends
func (r *Resolver) IsCollectionType(t TypeRef) bool {
	return r.oracle.IsCollectionType(t)
}

// IsDictionaryType reports whether the type itself accepts keyed inserts
func (r *Resolver) IsDictionaryType(t TypeRef) bool {
	return r.oracle.IsDictionaryType(t)
}

// ResolveAttached resolves the attached property declared on owner, failing
// with UnresolvedSymbol when the static setter does not exist
func (r *Resolver) ResolveAttached(owner TypeRef, property string, span *util.ParseSourceSpan) (TypeRef, error) {
	if valueType, ok := r.oracle.AttachedSetter(owner, property); ok {
		return valueType, nil
	}
	return TypeRef{}, util.NewMarkupError(util.ErrorKindUnresolvedSymbol, span,
		fmt.Sprintf("type '%s' has no attached property '%s'", owner.FullName(), property))
}

// IsAttached reports whether owner declares a static setter for property
func (r *Resolver) IsAttached(owner TypeRef, property string) bool {
	_, ok := r.oracle.AttachedSetter(owner, property)
	return ok
}

// IsAssignableFrom reports whether derived is assignable to base
func (r *Resolver) IsAssignableFrom(base, derived TypeRef) bool {
	return r.oracle.IsAssignableFrom(base, derived)
}

// EnumFieldName resolves an enum value name to its declared field, failing
// with UnresolvedSymbol naming the specific value
func (r *Resolver) EnumFieldName(value string, enumType TypeRef, span *util.ParseSourceSpan) (string, error) {
	if field, ok := r.oracle.EnumField(enumType, value); ok {
		return field, nil
	}
	return "", util.NewMarkupError(util.ErrorKindUnresolvedSymbol, span,
		fmt.Sprintf("enum '%s' has no value '%s'", enumType.FullName(), value))
}

// DependencyProperty reports the static dependency-property field backing
// the named property on owner
func (r *Resolver) DependencyProperty(owner TypeRef, property string) (string, bool) {
	return r.oracle.DependencyProperty(owner, property)
}

// IsTemplateContentMember reports whether the member is a framework
// template's deferred content property
func (r *Resolver) IsTemplateContentMember(member string, owner TypeRef, frameworkTemplate TypeRef) bool {
	if !r.oracle.IsAssignableFrom(frameworkTemplate, owner) {
		return false
	}
	desc, ok := r.oracle.Member(owner, member)
	if !ok {
		return false
	}
	return desc.Name == "VisualTree" || desc.Name == "Template"
}
