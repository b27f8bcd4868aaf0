package generator

import (
	"testing"

	"xgc-go/packages/compiler/markup"
	"xgc-go/packages/compiler/metadata"
)

func newURIGenerator(cfg *Config) *Generator {
	doc := &markup.Document{RelativePath: "views/page.xaml"}
	return NewGenerator(cfg, metadata.NewStaticOracle(), doc)
}

func TestRewriteResourcePath(t *testing.T) {
	cfg := &Config{ImplicitAssemblyRedirect: true, AssemblyName: "MyApp"}
	g := newURIGenerator(cfg)
	imageSource := metadata.TypeRef{Namespace: "System.Windows.Media", Name: "ImageSource"}
	uriType := metadata.TypeRef{Namespace: "System", Name: "Uri"}
	imageType := metadata.TypeRef{Namespace: "System.Windows.Controls", Name: "Image"}

	t.Run("should rebase document-relative values onto the assembly pack uri", func(t *testing.T) {
		result := g.rewriteResourcePath("logo.png", imageSource, imageType, "Source")
		if result != "pack://application:,,,/MyApp;component/views/logo.png" {
			t.Errorf("Unexpected rewrite: %s", result)
		}
	})

	t.Run("should rebase rooted values without the document directory", func(t *testing.T) {
		result := g.rewriteResourcePath("/assets/logo.png", uriType, imageType, "Source")
		if result != "pack://application:,,,/MyApp;component/assets/logo.png" {
			t.Errorf("Unexpected rewrite: %s", result)
		}
	})

	t.Run("should leave values with an explicit scheme alone", func(t *testing.T) {
		for _, value := range []string{
			"pack://application:,,,/Other;component/logo.png",
			"https://example.com/logo.png",
		} {
			if result := g.rewriteResourcePath(value, imageSource, imageType, "Source"); result != value {
				t.Errorf("Expected %q unchanged, got %s", value, result)
			}
		}
	})

	t.Run("should rebase packaged font locations", func(t *testing.T) {
		fontFamily := metadata.TypeRef{Namespace: "System.Windows.Media", Name: "FontFamily"}
		textBlock := metadata.TypeRef{Namespace: "System.Windows.Controls", Name: "TextBlock"}
		result := g.rewriteResourcePath("./#Custom Font", fontFamily, textBlock, "FontFamily")
		if result != "pack://application:,,,/MyApp;component/views/#Custom Font" {
			t.Errorf("Unexpected rewrite: %s", result)
		}
	})

	t.Run("should leave installed font family names alone", func(t *testing.T) {
		fontFamily := metadata.TypeRef{Namespace: "System.Windows.Media", Name: "FontFamily"}
		textBlock := metadata.TypeRef{Namespace: "System.Windows.Controls", Name: "TextBlock"}
		for _, value := range []string{"Arial", "Segoe UI, Arial"} {
			if result := g.rewriteResourcePath(value, fontFamily, textBlock, "FontFamily"); result != value {
				t.Errorf("Expected %q unchanged, got %s", value, result)
			}
		}
	})

	t.Run("should leave non-resource value types alone", func(t *testing.T) {
		stringType := metadata.TypeRef{Namespace: "System", Name: "String"}
		if result := g.rewriteResourcePath("logo.png", stringType, imageType, "Tag"); result != "logo.png" {
			t.Errorf("Expected value unchanged, got %s", result)
		}
	})

	t.Run("should leave navigation sources alone", func(t *testing.T) {
		frame := metadata.TypeRef{Namespace: "System.Windows.Controls", Name: "Frame"}
		if result := g.rewriteResourcePath("Pages/Start.xaml", uriType, frame, "Source"); result != "Pages/Start.xaml" {
			t.Errorf("Expected value unchanged, got %s", result)
		}
	})
}

func TestRewriteResourcePath_Disabled(t *testing.T) {
	imageSource := metadata.TypeRef{Namespace: "System.Windows.Media", Name: "ImageSource"}
	imageType := metadata.TypeRef{Namespace: "System.Windows.Controls", Name: "Image"}

	t.Run("should pass values through when redirection is off", func(t *testing.T) {
		g := newURIGenerator(&Config{AssemblyName: "MyApp"})
		if result := g.rewriteResourcePath("logo.png", imageSource, imageType, "Source"); result != "logo.png" {
			t.Errorf("Expected value unchanged, got %s", result)
		}
	})

	t.Run("should pass values through without an assembly name", func(t *testing.T) {
		g := newURIGenerator(&Config{ImplicitAssemblyRedirect: true})
		if result := g.rewriteResourcePath("logo.png", imageSource, imageType, "Source"); result != "logo.png" {
			t.Errorf("Expected value unchanged, got %s", result)
		}
	})
}
