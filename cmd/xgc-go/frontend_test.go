package main

import (
	"strings"
	"testing"

	"xgc-go/packages/compiler/markup"

	"github.com/google/go-cmp/cmp"
)

const (
	testPresentationNs = "http://schemas.example.com/presentation"
	testDirectiveNs    = "http://schemas.microsoft.com/winfx/2006/xaml"
)

// eventShapes humanizes a parsed stream for comparison
func eventShapes(doc *markup.Document) []string {
	var shapes []string
	for {
		ev := doc.Stream.Next()
		if ev == nil {
			return shapes
		}
		switch ev.Kind {
		case markup.EventStartObject:
			shapes = append(shapes, "StartObject "+ev.Object.Name.String())
		case markup.EventEndObject:
			shapes = append(shapes, "EndObject")
		case markup.EventStartMember:
			shapes = append(shapes, "StartMember "+ev.Member.Name.String())
		case markup.EventEndMember:
			shapes = append(shapes, "EndMember")
		case markup.EventEndMemberCollection:
			shapes = append(shapes, "EndMemberCollection")
		}
	}
}

func TestParseDocument(t *testing.T) {
	t.Run("should stream property elements and direct content", func(t *testing.T) {
		content := `<Window xmlns="` + testPresentationNs + `">
  <Window.Content>
    <Grid>
      <Button />
    </Grid>
  </Window.Content>
</Window>`
		doc, err := parseDocument([]byte(content), "view.xaml")
		if err != nil {
			t.Fatalf("parseDocument() failed: %v", err)
		}
		expected := []string{
			"StartObject Window",
			"StartMember Window.Content",
			"StartObject Grid",
			"StartObject Button",
			"EndObject",
			"EndMemberCollection",
			"EndObject",
			"EndMember",
			"EndObject",
		}
		if diff := cmp.Diff(expected, eventShapes(doc)); diff != "" {
			t.Errorf("Event stream mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should derive code-behind metadata from the class directive", func(t *testing.T) {
		content := `<Window xmlns="` + testPresentationNs + `" xmlns:x="` + testDirectiveNs + `" x:Class="MyApp.Views.MainWindow" />`
		doc, err := parseDocument([]byte(content), "main_window.xaml")
		if err != nil {
			t.Fatalf("parseDocument() failed: %v", err)
		}
		if !doc.HasCodeBehind || doc.ClassNamespace != "MyApp.Views" || doc.ClassName != "MainWindow" {
			t.Errorf("Unexpected class metadata: %+v", doc)
		}
	})

	t.Run("should categorize application and dictionary roots", func(t *testing.T) {
		app, err := parseDocument([]byte(`<Application xmlns="`+testPresentationNs+`" />`), "App.xaml")
		if err != nil {
			t.Fatalf("parseDocument() failed: %v", err)
		}
		if app.RootKind != markup.RootKindApplication {
			t.Errorf("Expected an application root, got %d", app.RootKind)
		}

		rd, err := parseDocument([]byte(`<ResourceDictionary xmlns="`+testPresentationNs+`" />`), "theme.xaml")
		if err != nil {
			t.Fatalf("parseDocument() failed: %v", err)
		}
		if rd.RootKind != markup.RootKindResourceDictionary {
			t.Errorf("Expected a resource dictionary root, got %d", rd.RootKind)
		}
	})

	t.Run("should track declared prefixes for attribute-value resolution", func(t *testing.T) {
		content := `<Window xmlns="` + testPresentationNs + `" xmlns:local="clr-namespace:MyApp.Controls" />`
		doc, err := parseDocument([]byte(content), "view.xaml")
		if err != nil {
			t.Fatalf("parseDocument() failed: %v", err)
		}
		qn, ok := doc.ResolvePrefix("local:Gauge")
		if !ok || qn.Namespace != "clr-namespace:MyApp.Controls" || qn.Local != "Gauge" {
			t.Errorf("Unexpected resolution: %+v (%v)", qn, ok)
		}
	})

	t.Run("should qualify unprefixed attributes with the default namespace", func(t *testing.T) {
		content := `<Grid xmlns="` + testPresentationNs + `">
  <Button Grid.Row="2" />
</Grid>`
		doc, err := parseDocument([]byte(content), "view.xaml")
		if err != nil {
			t.Fatalf("parseDocument() failed: %v", err)
		}
		doc.Stream.Next()
		button := doc.Stream.Next().Object
		attr := button.Attribute("Grid.Row")
		if attr == nil || attr.Name.Namespace != testPresentationNs {
			t.Errorf("Unexpected attached attribute: %+v", attr)
		}
	})

	t.Run("should collect inline text on object elements", func(t *testing.T) {
		content := `<Window xmlns="` + testPresentationNs + `" xmlns:sys="clr-namespace:System">
  <Window.Content>
    <sys:String>Hello</sys:String>
  </Window.Content>
</Window>`
		doc, err := parseDocument([]byte(content), "view.xaml")
		if err != nil {
			t.Fatalf("parseDocument() failed: %v", err)
		}
		doc.Stream.Next()
		doc.Stream.Next()
		str := doc.Stream.Next().Object
		if str.Name.Prefix != "sys" || str.Text != "Hello" {
			t.Errorf("Unexpected literal element: %+v", str)
		}
	})

	t.Run("should reject text inside property elements", func(t *testing.T) {
		content := `<Window xmlns="` + testPresentationNs + `">
  <Window.Content>plain text</Window.Content>
</Window>`
		_, err := parseDocument([]byte(content), "view.xaml")
		if err == nil || !strings.Contains(err.Error(), "property element") {
			t.Errorf("Expected a property-element text error, got %v", err)
		}
	})

	t.Run("should reject empty documents", func(t *testing.T) {
		if _, err := parseDocument([]byte("   "), "view.xaml"); err == nil {
			t.Errorf("Expected an error for an empty document")
		}
	})
}
