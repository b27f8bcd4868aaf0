package convert

import (
	"fmt"
	"strings"

	"xgc-go/packages/compiler/metadata"
	"xgc-go/packages/compiler/output"
	"xgc-go/packages/compiler/util"
)

// KnownTypeTable answers "is this type known" and produces a literal
// expression for a markup string. The system-type and core-type tables are
// supplied by the caller as compile-time configuration.
type KnownTypeTable interface {
	Knows(t metadata.TypeRef) bool
	Literal(t metadata.TypeRef, text string, span *util.ParseSourceSpan) (output.Expression, error)
}

// TypeNameResolver resolves a possibly-prefixed type name appearing inside
// an attribute value
type TypeNameResolver func(name string, span *util.ParseSourceSpan) (metadata.TypeRef, error)

// Converter converts markup string literals into target-language literal
// expressions
type Converter struct {
	resolver         *metadata.Resolver
	systemTypes      KnownTypeTable
	coreTypes        KnownTypeTable
	runtimeNamespace string
	resolveTypeName  TypeNameResolver
}

// NewConverter creates a new Converter. runtimeNamespace qualifies the
// generated type-converter cache helper.
func NewConverter(resolver *metadata.Resolver, systemTypes, coreTypes KnownTypeTable, runtimeNamespace string) *Converter {
	return &Converter{
		resolver:         resolver,
		systemTypes:      systemTypes,
		coreTypes:        coreTypes,
		runtimeNamespace: runtimeNamespace,
	}
}

// SetTypeNameResolver installs the document-scoped resolver for type-valued
// attributes; prefix bindings are per document, so the generator installs a
// fresh one for each compile.
func (c *Converter) SetTypeNameResolver(fn TypeNameResolver) {
	c.resolveTypeName = fn
}

// Knows reports whether the target type has a known literal form
func (c *Converter) Knows(t metadata.TypeRef) bool {
	return c.systemTypes.Knows(t) || c.coreTypes.Knows(t)
}

// Convert converts a markup string literal to an expression of the target
// type. member carries the declaring member for enum detection and the
// cached-parse fallback; it may be nil for standalone conversions.
func (c *Converter) Convert(text string, target metadata.TypeRef, member *metadata.MemberDescriptor, span *util.ParseSourceSpan) (output.Expression, error) {
	if inner, nullable := NullableInner(target); nullable {
		// empty string means the null value of a nullable target
		if text == "" {
			return output.NullExpr(span), nil
		}
		target = inner
	}

	if member != nil && member.IsEnum {
		return c.convertEnumFlags(text, target, span)
	}

	if target.FullName() == "System.Type" {
		if c.resolveTypeName == nil {
			return nil, util.NewMarkupError(util.ErrorKindUnresolvedSymbol, span,
				fmt.Sprintf("cannot resolve type name '%s' outside a document compile", text))
		}
		ref, err := c.resolveTypeName(strings.TrimSpace(text), span)
		if err != nil {
			return nil, err
		}
		return output.NewTypeofExpr(ref, span), nil
	}

	if c.systemTypes.Knows(target) {
		return c.systemTypes.Literal(target, text, span)
	}
	if c.coreTypes.Knows(target) {
		return c.coreTypes.Literal(target, text, span)
	}

	if member == nil {
		return nil, util.NewMarkupError(util.ErrorKindUnresolvedSymbol, span,
			fmt.Sprintf("no literal form known for type '%s'", target.FullName()))
	}

	// Application-defined convertible type: parse at the declaring member,
	// cached by (declaring type, member name, literal text). The generated
	// runtime prefers the freshly parsed value; the cache only suppresses
	// repeated change notification.
	cacheType := metadata.TypeRef{Namespace: c.runtimeNamespace, Name: "TypeConverterCache"}
	return output.NewInvokeMethodExpr(
		output.NewTypeRefExpr(cacheType, span),
		"Parse",
		[]output.Expression{
			output.NewTypeofExpr(member.DeclaringType, span),
			output.NewLiteralExpr(member.Name, span),
			output.NewLiteralExpr(text, span),
		},
		span,
	), nil
}

// convertEnumFlags resolves a comma-separated flag list, combining the flags
// with bitwise-or in left-to-right source order
func (c *Converter) convertEnumFlags(text string, enumType metadata.TypeRef, span *util.ParseSourceSpan) (output.Expression, error) {
	parts := strings.Split(text, ",")
	var result output.Expression
	for _, part := range parts {
		value := strings.TrimSpace(part)
		field, err := c.resolver.EnumFieldName(value, enumType, span)
		if err != nil {
			return nil, err
		}
		flag := output.NewReadPropExpr(output.NewTypeRefExpr(enumType, span), field, span)
		if result == nil {
			result = flag
		} else {
			result = output.NewBinaryOperatorExpr(output.BinaryOperatorBitwiseOr, result, flag, span)
		}
	}
	if result == nil {
		return nil, util.NewMarkupError(util.ErrorKindUnresolvedSymbol, span,
			fmt.Sprintf("enum '%s' has no value ''", enumType.FullName()))
	}
	return result, nil
}

// NullableInner unwraps Nullable<T> and T? type references
func NullableInner(t metadata.TypeRef) (metadata.TypeRef, bool) {
	if t.Namespace == "System" && strings.HasPrefix(t.Name, "Nullable<") && strings.HasSuffix(t.Name, ">") {
		inner := t.Name[len("Nullable<") : len(t.Name)-1]
		return splitFullName(inner), true
	}
	if strings.HasSuffix(t.Name, "?") {
		return metadata.TypeRef{Namespace: t.Namespace, Name: strings.TrimSuffix(t.Name, "?"), Assembly: t.Assembly}, true
	}
	return t, false
}

// IsWrapperChild implements the collection edge policy: a single child whose
// type is itself assignable to the declared collection-property type is an
// explicit wrapper element and must be assigned, not appended.
func IsWrapperChild(r *metadata.Resolver, childType, collectionPropType metadata.TypeRef) bool {
	return r.IsAssignableFrom(collectionPropType, childType)
}

// splitFullName splits a dotted full name into a TypeRef
func splitFullName(full string) metadata.TypeRef {
	idx := strings.LastIndex(full, ".")
	if idx < 0 {
		return metadata.TypeRef{Name: full}
	}
	return metadata.TypeRef{Namespace: full[:idx], Name: full[idx+1:]}
}
