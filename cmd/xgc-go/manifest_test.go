package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"xgc-go/packages/compiler/metadata"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	t.Run("should register types with members and attached properties", func(t *testing.T) {
		path := writeManifest(t, `{
  "types": [
    {
      "markupNamespace": "http://schemas.example.com/presentation",
      "namespace": "System.Windows.Controls",
      "name": "Grid",
      "baseType": "System.Windows.FrameworkElement",
      "members": [
        {"name": "ShowGridLines", "kind": "property", "valueType": "System.Boolean"},
        {"name": "Loaded", "kind": "event", "valueType": "System.Windows.RoutedEventHandler"}
      ],
      "attached": {"Row": "System.Int32"},
      "dependencyProperties": {"Background": "BackgroundProperty"}
    }
  ]
}`)
		oracle, err := loadManifest(path)
		if err != nil {
			t.Fatalf("loadManifest() failed: %v", err)
		}

		ref, ok := oracle.ResolveType("http://schemas.example.com/presentation", "Grid")
		if !ok || ref.FullName() != "System.Windows.Controls.Grid" {
			t.Errorf("ResolveType() = (%v, %v)", ref, ok)
		}
		if desc, ok := oracle.Member(ref, "Loaded"); !ok || desc.Kind != metadata.MemberKindEvent {
			t.Errorf("Member(Loaded) = (%v, %v)", desc, ok)
		}
		if valueType, ok := oracle.AttachedSetter(ref, "Row"); !ok || valueType.FullName() != "System.Int32" {
			t.Errorf("AttachedSetter(Row) = (%v, %v)", valueType, ok)
		}
		if field, ok := oracle.DependencyProperty(ref, "Background"); !ok || field != "BackgroundProperty" {
			t.Errorf("DependencyProperty(Background) = (%q, %v)", field, ok)
		}
	})

	t.Run("should default the markup name to the type name", func(t *testing.T) {
		path := writeManifest(t, `{
  "types": [
    {"markupNamespace": "clr-namespace:System", "markupName": "String", "namespace": "System", "name": "String"},
    {"markupNamespace": "clr-namespace:System", "namespace": "System", "name": "Int32"}
  ]
}`)
		oracle, err := loadManifest(path)
		if err != nil {
			t.Fatalf("loadManifest() failed: %v", err)
		}
		if _, ok := oracle.ResolveType("clr-namespace:System", "Int32"); !ok {
			t.Errorf("Expected Int32 to be reachable by its type name")
		}
	})

	t.Run("should reject unknown member kinds", func(t *testing.T) {
		path := writeManifest(t, `{
  "types": [
    {
      "markupNamespace": "http://schemas.example.com/presentation",
      "namespace": "System.Windows",
      "name": "Window",
      "members": [{"name": "Title", "kind": "column"}]
    }
  ]
}`)
		_, err := loadManifest(path)
		if err == nil || !strings.Contains(err.Error(), "unknown kind") {
			t.Errorf("Expected an unknown-kind error, got %v", err)
		}
	})
}
