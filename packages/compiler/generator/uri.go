package generator

import (
	"path"
	"regexp"
	"strings"

	"xgc-go/packages/compiler/metadata"
)

// uriSchemePattern matches values that already carry a uri scheme
var uriSchemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)

// rewriteResourcePath rebases a relative resource reference onto the
// compiling assembly's pack uri so the value stays valid after the markup
// file itself is gone. Only resource-shaped value types participate, and
// only when implicit assembly redirection is enabled; navigation sources
// keep their author-written form because they are resolved against the
// navigation base uri at runtime.
func (g *Generator) rewriteResourcePath(value string, valueType, ownerType metadata.TypeRef, memberName string) string {
	if !g.cfg.ImplicitAssemblyRedirect || g.cfg.AssemblyName == "" || !g.isResourceValueType(valueType) {
		return value
	}
	if memberName == "Source" && g.isNavigationHost(ownerType) {
		return value
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || uriSchemePattern.MatchString(trimmed) {
		return value
	}
	if g.isFontFamilyValueType(valueType) && !isFontResourcePath(trimmed) {
		return value
	}
	if strings.HasPrefix(trimmed, "/") {
		trimmed = trimmed[1:]
	} else if dir := path.Dir(g.doc.RelativePath); dir != "." && dir != "" {
		trimmed = path.Join(dir, trimmed)
	}
	return "pack://application:,,,/" + g.cfg.AssemblyName + ";component/" + trimmed
}

// isResourceValueType reports whether a member's value type addresses
// binary resources
func (g *Generator) isResourceValueType(valueType metadata.TypeRef) bool {
	if valueType.IsZero() {
		return false
	}
	if valueType.FullName() == "System.Uri" {
		return true
	}
	return g.resolver.IsAssignableFrom(g.cfg.imageSourceType(), valueType) ||
		g.resolver.IsAssignableFrom(g.cfg.fontFamilyType(), valueType)
}

// isFontFamilyValueType reports whether a member's value type is a font
// family
func (g *Generator) isFontFamilyValueType(valueType metadata.TypeRef) bool {
	return g.resolver.IsAssignableFrom(g.cfg.fontFamilyType(), valueType)
}

// isFontResourcePath reports whether a font-family value addresses a
// packaged font location rather than an installed family. Packaged
// references carry a directory component ahead of the optional #Face part;
// a bare family name like "Arial" must pass through untouched.
func isFontResourcePath(value string) bool {
	location := value
	if i := strings.Index(location, "#"); i >= 0 {
		location = location[:i]
	}
	return strings.HasPrefix(location, ".") || strings.ContainsAny(location, `/\`)
}

// isNavigationHost reports whether a type navigates by uri
func (g *Generator) isNavigationHost(ownerType metadata.TypeRef) bool {
	return g.resolver.IsAssignableFrom(g.cfg.navigationFrameType(), ownerType) ||
		g.resolver.IsAssignableFrom(g.cfg.navigationWindowType(), ownerType)
}
