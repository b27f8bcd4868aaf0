package extensions_test

import (
	"testing"

	"xgc-go/packages/compiler/extensions"
	"xgc-go/packages/compiler/metadata"
)

func newTestPathResolver() *extensions.PathResolver {
	return extensions.NewPathResolver(func(name string) (metadata.TypeRef, bool) {
		switch name {
		case "Button":
			return metadata.TypeRef{Namespace: "System.Windows.Controls", Name: "Button"}, true
		case "local:Gauge":
			return metadata.TypeRef{Namespace: "MyApp.Controls", Name: "Gauge"}, true
		}
		return metadata.TypeRef{}, false
	})
}

func TestPathResolver(t *testing.T) {
	p := newTestPathResolver()

	t.Run("should treat the empty path and dot as identity", func(t *testing.T) {
		for _, input := range []string{"", "."} {
			got, ok := p.Resolve(input)
			if !ok || got != input {
				t.Errorf("Resolve(%q) = (%q, %v), want identity", input, got, ok)
			}
		}
	})

	t.Run("should pass plain member paths through", func(t *testing.T) {
		got, ok := p.Resolve("Customer.Name")
		if !ok || got != "Customer.Name" {
			t.Errorf("Resolve() = (%q, %v), want pass-through", got, ok)
		}
	})

	t.Run("should qualify parenthesized indirect segments", func(t *testing.T) {
		got, ok := p.Resolve("(Button.Content)")
		if !ok || got != "(System.Windows.Controls.Button.Content)" {
			t.Errorf("Resolve() = (%q, %v), want qualified segment", got, ok)
		}
	})

	t.Run("should qualify prefixed type names inside segments", func(t *testing.T) {
		got, ok := p.Resolve("Items[0].(local:Gauge.Value)")
		if !ok || got != "Items[0].(MyApp.Controls.Gauge.Value)" {
			t.Errorf("Resolve() = (%q, %v), want qualified segment", got, ok)
		}
	})

	t.Run("should fail open on an unknown type", func(t *testing.T) {
		got, ok := p.Resolve("(Mystery.Value)")
		if ok || got != "(Mystery.Value)" {
			t.Errorf("Resolve() = (%q, %v), want the input unchanged with ok=false", got, ok)
		}
	})

	t.Run("should fail open on an unterminated segment", func(t *testing.T) {
		got, ok := p.Resolve("(Button.Content")
		if ok || got != "(Button.Content" {
			t.Errorf("Resolve() = (%q, %v), want the input unchanged with ok=false", got, ok)
		}
	})
}
