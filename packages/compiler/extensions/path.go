package extensions

import (
	"strings"

	"xgc-go/packages/compiler/metadata"
)

// PathTypeResolver resolves a possibly-prefixed type name found inside a
// property path
type PathTypeResolver func(name string) (metadata.TypeRef, bool)

// PathResolver normalizes relative property-path expressions. Unresolvable
// paths FAIL OPEN: the caller receives the input unchanged and generation
// proceeds with the unnormalized path. This is the one deliberate exception
// to the resolver's strict-fail posture.
type PathResolver struct {
	resolveType PathTypeResolver
}

// NewPathResolver creates a new PathResolver
func NewPathResolver(resolveType PathTypeResolver) *PathResolver {
	return &PathResolver{resolveType: resolveType}
}

// Resolve normalizes the path, expanding the (TypeName.PropertyName)
// indirect form to namespace-qualified names. The empty path and "." are
// identity. ok is false when normalization could not complete; the returned
// string is then the input unchanged.
func (p *PathResolver) Resolve(path string) (string, bool) {
	if path == "" || path == "." {
		return path, true
	}

	var b strings.Builder
	i := 0
	for i < len(path) {
		ch := path[i]
		if ch != '(' {
			b.WriteByte(ch)
			i++
			continue
		}
		end := strings.IndexByte(path[i:], ')')
		if end < 0 {
			return path, false
		}
		inner := path[i+1 : i+end]
		normalized, ok := p.resolveIndirect(inner)
		if !ok {
			return path, false
		}
		b.WriteByte('(')
		b.WriteString(normalized)
		b.WriteByte(')')
		i += end + 1
	}
	return b.String(), true
}

// resolveIndirect normalizes one parenthesized (TypeName.PropertyName)
// segment
func (p *PathResolver) resolveIndirect(inner string) (string, bool) {
	dot := strings.LastIndexByte(inner, '.')
	if dot <= 0 || dot == len(inner)-1 {
		return "", false
	}
	typeName := inner[:dot]
	property := inner[dot+1:]
	if p.resolveType == nil {
		return "", false
	}
	ref, ok := p.resolveType(typeName)
	if !ok {
		return "", false
	}
	return ref.FullName() + "." + property, true
}
