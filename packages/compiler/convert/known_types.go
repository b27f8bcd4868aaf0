package convert

import (
	"fmt"
	"strconv"
	"strings"

	"xgc-go/packages/compiler/metadata"
	"xgc-go/packages/compiler/output"
	"xgc-go/packages/compiler/util"
)

// LiteralFunc produces a literal expression for a markup string
type LiteralFunc func(text string, span *util.ParseSourceSpan) (output.Expression, error)

// MapTypeTable is a map-backed KnownTypeTable keyed by full type name
type MapTypeTable struct {
	entries map[string]LiteralFunc
}

// NewMapTypeTable creates an empty MapTypeTable
func NewMapTypeTable() *MapTypeTable {
	return &MapTypeTable{entries: map[string]LiteralFunc{}}
}

// Register adds a literal conversion for the named type
func (t *MapTypeTable) Register(fullName string, fn LiteralFunc) *MapTypeTable {
	t.entries[fullName] = fn
	return t
}

// Knows implements KnownTypeTable
func (t *MapTypeTable) Knows(ref metadata.TypeRef) bool {
	_, ok := t.entries[ref.FullName()]
	return ok
}

// Literal implements KnownTypeTable
func (t *MapTypeTable) Literal(ref metadata.TypeRef, text string, span *util.ParseSourceSpan) (output.Expression, error) {
	fn, ok := t.entries[ref.FullName()]
	if !ok {
		return nil, util.NewMarkupError(util.ErrorKindUnresolvedSymbol, span,
			fmt.Sprintf("no literal form known for type '%s'", ref.FullName()))
	}
	return fn(text, span)
}

// NewSystemTypeTable returns the default literal-conversion table for the
// built-in system types
func NewSystemTypeTable() *MapTypeTable {
	t := NewMapTypeTable()
	t.Register("System.String", func(text string, span *util.ParseSourceSpan) (output.Expression, error) {
		return output.NewLiteralExpr(text, span), nil
	})
	t.Register("System.Object", func(text string, span *util.ParseSourceSpan) (output.Expression, error) {
		return output.NewLiteralExpr(text, span), nil
	})
	t.Register("System.Char", func(text string, span *util.ParseSourceSpan) (output.Expression, error) {
		runes := []rune(text)
		if len(runes) != 1 {
			return nil, badLiteral(text, "System.Char", span)
		}
		return output.NewReadVarExpr(fmt.Sprintf("'%c'", runes[0]), span), nil
	})
	t.Register("System.Boolean", func(text string, span *util.ParseSourceSpan) (output.Expression, error) {
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "true":
			return output.NewLiteralExpr(true, span), nil
		case "false":
			return output.NewLiteralExpr(false, span), nil
		}
		return nil, badLiteral(text, "System.Boolean", span)
	})
	for _, name := range []string{"System.Byte", "System.SByte", "System.Int16", "System.UInt16", "System.Int32", "System.UInt32", "System.Int64", "System.UInt64"} {
		typeName := name
		t.Register(typeName, func(text string, span *util.ParseSourceSpan) (output.Expression, error) {
			v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
			if err != nil {
				return nil, badLiteral(text, typeName, span)
			}
			return output.NewLiteralExpr(v, span), nil
		})
	}
	// fractional Single and Decimal literals need their suffix to compile;
	// whole values convert implicitly from int and stay suffix-free
	for _, entry := range []struct{ name, suffix string }{
		{"System.Single", "f"},
		{"System.Double", ""},
		{"System.Decimal", "m"},
	} {
		typeName, suffix := entry.name, entry.suffix
		t.Register(typeName, func(text string, span *util.ParseSourceSpan) (output.Expression, error) {
			v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
			if err != nil {
				return nil, badLiteral(text, typeName, span)
			}
			if v == float64(int64(v)) {
				return output.NewLiteralExpr(int64(v), span), nil
			}
			if suffix != "" {
				return output.NewReadVarExpr(strconv.FormatFloat(v, 'g', -1, 64)+suffix, span), nil
			}
			return output.NewLiteralExpr(v, span), nil
		})
	}
	t.Register("System.TimeSpan", func(text string, span *util.ParseSourceSpan) (output.Expression, error) {
		return output.NewInvokeMethodExpr(
			output.NewTypeRefExpr(metadata.TypeRef{Namespace: "System", Name: "TimeSpan"}, span),
			"Parse",
			[]output.Expression{output.NewLiteralExpr(text, span)},
			span,
		), nil
	})
	t.Register("System.Uri", func(text string, span *util.ParseSourceSpan) (output.Expression, error) {
		return output.NewInstantiateExpr(
			metadata.TypeRef{Namespace: "System", Name: "Uri"},
			[]output.Expression{
				output.NewLiteralExpr(text, span),
				output.NewReadPropExpr(output.NewTypeRefExpr(metadata.TypeRef{Namespace: "System", Name: "UriKind"}, span), "RelativeOrAbsolute", span),
			},
			span,
		), nil
	})
	return t
}

// badLiteral reports an unparsable literal for a known type
func badLiteral(text, typeName string, span *util.ParseSourceSpan) error {
	return util.NewMarkupError(util.ErrorKindMalformedMarkupConstruct, span,
		fmt.Sprintf("'%s' is not a valid literal for type '%s'", text, typeName))
}
