package convert_test

import (
	"errors"
	"testing"

	"xgc-go/packages/compiler/convert"
	"xgc-go/packages/compiler/metadata"
	"xgc-go/packages/compiler/output"
	"xgc-go/packages/compiler/util"
)

const presentationNs = "http://schemas.example.com/presentation"

func testResolver() *metadata.Resolver {
	oracle := metadata.NewStaticOracle()
	oracle.Register(presentationNs, "Dock", &metadata.TypeEntry{
		Ref: metadata.TypeRef{Namespace: "System.Windows.Controls", Name: "Dock"},
		EnumFields: map[string]string{
			"Left":  "Left",
			"Right": "Right",
			"Top":   "Top",
		},
	})
	oracle.Register(presentationNs, "Brush", &metadata.TypeEntry{
		Ref: metadata.TypeRef{Namespace: "System.Windows.Media", Name: "Brush"},
	})
	oracle.Register(presentationNs, "SolidColorBrush", &metadata.TypeEntry{
		Ref:      metadata.TypeRef{Namespace: "System.Windows.Media", Name: "SolidColorBrush"},
		BaseType: "System.Windows.Media.Brush",
	})
	return metadata.NewResolver(oracle)
}

func newTestConverter() *convert.Converter {
	return convert.NewConverter(testResolver(),
		convert.NewSystemTypeTable(), convert.NewMapTypeTable(), "System.Windows")
}

// humanize renders a converted expression as a statement for comparison
func humanize(expr output.Expression) string {
	return output.EmitStatements([]output.Statement{output.NewExpressionStmt(expr, nil)})
}

func mustConvert(t *testing.T, c *convert.Converter, text string, target metadata.TypeRef, member *metadata.MemberDescriptor) string {
	t.Helper()
	expr, err := c.Convert(text, target, member, nil)
	if err != nil {
		t.Fatalf("Convert(%q) failed: %v", text, err)
	}
	return humanize(expr)
}

func TestConverter_SystemLiterals(t *testing.T) {
	c := newTestConverter()

	t.Run("should convert strings verbatim", func(t *testing.T) {
		got := mustConvert(t, c, "Hello", metadata.TypeRef{Namespace: "System", Name: "String"}, nil)
		if got != `"Hello";` {
			t.Errorf("Unexpected string literal: %s", got)
		}
	})

	t.Run("should convert booleans case-insensitively", func(t *testing.T) {
		got := mustConvert(t, c, "True", metadata.TypeRef{Namespace: "System", Name: "Boolean"}, nil)
		if got != "true;" {
			t.Errorf("Unexpected boolean literal: %s", got)
		}
	})

	t.Run("should convert whole doubles without a fraction", func(t *testing.T) {
		got := mustConvert(t, c, "100", metadata.TypeRef{Namespace: "System", Name: "Double"}, nil)
		if got != "100;" {
			t.Errorf("Unexpected double literal: %s", got)
		}
	})

	t.Run("should convert fractional doubles", func(t *testing.T) {
		got := mustConvert(t, c, "0.5", metadata.TypeRef{Namespace: "System", Name: "Double"}, nil)
		if got != "0.5;" {
			t.Errorf("Unexpected double literal: %s", got)
		}
	})

	t.Run("should suffix fractional singles", func(t *testing.T) {
		got := mustConvert(t, c, "0.5", metadata.TypeRef{Namespace: "System", Name: "Single"}, nil)
		if got != "0.5f;" {
			t.Errorf("Unexpected single literal: %s", got)
		}
	})

	t.Run("should convert whole singles without a suffix", func(t *testing.T) {
		got := mustConvert(t, c, "100", metadata.TypeRef{Namespace: "System", Name: "Single"}, nil)
		if got != "100;" {
			t.Errorf("Unexpected single literal: %s", got)
		}
	})

	t.Run("should suffix fractional decimals", func(t *testing.T) {
		got := mustConvert(t, c, "19.99", metadata.TypeRef{Namespace: "System", Name: "Decimal"}, nil)
		if got != "19.99m;" {
			t.Errorf("Unexpected decimal literal: %s", got)
		}
	})

	t.Run("should convert timespans through TimeSpan.Parse", func(t *testing.T) {
		got := mustConvert(t, c, "0:0:1", metadata.TypeRef{Namespace: "System", Name: "TimeSpan"}, nil)
		if got != `System.TimeSpan.Parse("0:0:1");` {
			t.Errorf("Unexpected timespan conversion: %s", got)
		}
	})

	t.Run("should convert uris through the relative-or-absolute constructor", func(t *testing.T) {
		got := mustConvert(t, c, "images/logo.png", metadata.TypeRef{Namespace: "System", Name: "Uri"}, nil)
		if got != `new System.Uri("images/logo.png", System.UriKind.RelativeOrAbsolute);` {
			t.Errorf("Unexpected uri conversion: %s", got)
		}
	})

	t.Run("should reject unparsable numerics as malformed", func(t *testing.T) {
		_, err := c.Convert("wide", metadata.TypeRef{Namespace: "System", Name: "Double"}, nil, nil)
		var me *util.MarkupError
		if !errors.As(err, &me) || me.Kind != util.ErrorKindMalformedMarkupConstruct {
			t.Errorf("Expected MalformedMarkupConstruct, got %v", err)
		}
	})
}

func TestConverter_Nullable(t *testing.T) {
	c := newTestConverter()

	t.Run("should convert an empty nullable to null", func(t *testing.T) {
		got := mustConvert(t, c, "", metadata.TypeRef{Namespace: "System", Name: "Nullable<System.Double>"}, nil)
		if got != "null;" {
			t.Errorf("Unexpected nullable conversion: %s", got)
		}
	})

	t.Run("should unwrap Nullable<T> to the inner literal form", func(t *testing.T) {
		got := mustConvert(t, c, "1.5", metadata.TypeRef{Namespace: "System", Name: "Nullable<System.Double>"}, nil)
		if got != "1.5;" {
			t.Errorf("Unexpected nullable conversion: %s", got)
		}
	})

	t.Run("should unwrap the question-mark shorthand", func(t *testing.T) {
		got := mustConvert(t, c, "42", metadata.TypeRef{Namespace: "System", Name: "Int32?"}, nil)
		if got != "42;" {
			t.Errorf("Unexpected nullable conversion: %s", got)
		}
	})
}

func TestConverter_EnumFlags(t *testing.T) {
	c := newTestConverter()
	dockType := metadata.TypeRef{Namespace: "System.Windows.Controls", Name: "Dock"}
	member := &metadata.MemberDescriptor{
		Name:          "Dock",
		Kind:          metadata.MemberKindProperty,
		DeclaringType: metadata.TypeRef{Namespace: "System.Windows.Controls", Name: "DockPanel"},
		ValueType:     dockType,
		IsEnum:        true,
	}

	t.Run("should resolve a single enum value", func(t *testing.T) {
		got := mustConvert(t, c, "Left", dockType, member)
		if got != "System.Windows.Controls.Dock.Left;" {
			t.Errorf("Unexpected enum conversion: %s", got)
		}
	})

	t.Run("should combine flag lists with bitwise or in source order", func(t *testing.T) {
		got := mustConvert(t, c, "Left, Right, Top", dockType, member)
		expected := "System.Windows.Controls.Dock.Left | System.Windows.Controls.Dock.Right | System.Windows.Controls.Dock.Top;"
		if got != expected {
			t.Errorf("Unexpected flag conversion: %s", got)
		}
	})

	t.Run("should fail on an unknown flag naming the value", func(t *testing.T) {
		_, err := c.Convert("Left, Sideways", dockType, member, nil)
		var me *util.MarkupError
		if !errors.As(err, &me) || me.Kind != util.ErrorKindUnresolvedSymbol {
			t.Errorf("Expected UnresolvedSymbol, got %v", err)
		}
	})
}

func TestConverter_TypeTargets(t *testing.T) {
	c := newTestConverter()
	c.SetTypeNameResolver(func(name string, span *util.ParseSourceSpan) (metadata.TypeRef, error) {
		if name == "Button" {
			return metadata.TypeRef{Namespace: "System.Windows.Controls", Name: "Button"}, nil
		}
		return metadata.TypeRef{}, util.NewMarkupError(util.ErrorKindUnresolvedSymbol, span, "unknown type "+name)
	})

	t.Run("should convert System.Type targets to typeof", func(t *testing.T) {
		got := mustConvert(t, c, "Button", metadata.TypeRef{Namespace: "System", Name: "Type"}, nil)
		if got != "typeof(System.Windows.Controls.Button);" {
			t.Errorf("Unexpected type conversion: %s", got)
		}
	})
}

func TestConverter_CachedFallback(t *testing.T) {
	c := newTestConverter()
	member := &metadata.MemberDescriptor{
		Name:          "Background",
		Kind:          metadata.MemberKindProperty,
		DeclaringType: metadata.TypeRef{Namespace: "System.Windows.Controls", Name: "Control"},
		ValueType:     metadata.TypeRef{Namespace: "System.Windows.Media", Name: "Brush"},
	}

	t.Run("should fall back to the cached converter parse", func(t *testing.T) {
		got := mustConvert(t, c, "Red", member.ValueType, member)
		expected := `System.Windows.TypeConverterCache.Parse(typeof(System.Windows.Controls.Control), "Background", "Red");`
		if got != expected {
			t.Errorf("Unexpected fallback conversion: %s", got)
		}
	})

	t.Run("should fail without a member to anchor the parse", func(t *testing.T) {
		_, err := c.Convert("Red", member.ValueType, nil, nil)
		var me *util.MarkupError
		if !errors.As(err, &me) || me.Kind != util.ErrorKindUnresolvedSymbol {
			t.Errorf("Expected UnresolvedSymbol, got %v", err)
		}
	})
}

func TestIsWrapperChild(t *testing.T) {
	r := testResolver()
	brush := metadata.TypeRef{Namespace: "System.Windows.Media", Name: "Brush"}
	solid := metadata.TypeRef{Namespace: "System.Windows.Media", Name: "SolidColorBrush"}

	t.Run("should treat an assignable child as an explicit wrapper", func(t *testing.T) {
		if !convert.IsWrapperChild(r, solid, brush) {
			t.Errorf("Expected SolidColorBrush to wrap a Brush-typed property")
		}
	})

	t.Run("should append unrelated children", func(t *testing.T) {
		unrelated := metadata.TypeRef{Namespace: "System.Windows.Controls", Name: "Button"}
		if convert.IsWrapperChild(r, unrelated, brush) {
			t.Errorf("Expected Button not to wrap a Brush-typed property")
		}
	})
}
