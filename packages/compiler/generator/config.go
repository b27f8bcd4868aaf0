package generator

import (
	"xgc-go/packages/compiler/convert"
	"xgc-go/packages/compiler/metadata"
)

// Namespaces names the target framework namespaces for the windowing,
// controls, media, data and animation domains
type Namespaces struct {
	Windowing string
	Controls  string
	Media     string
	Data      string
	Animation string
}

// Config is the compile-time configuration for one generator. A zero value
// is usable after applying defaults; NewGenerator applies them.
type Config struct {
	Namespaces Namespaces
	// FieldModifier is the default visibility of generated fields;
	// x:FieldModifier overrides it per element.
	FieldModifier string
	SystemTypes   convert.KnownTypeTable
	CoreTypes     convert.KnownTypeTable
	// ImplicitAssemblyRedirect redirects unqualified assembly hints to the
	// compiling assembly.
	ImplicitAssemblyRedirect bool
	// AssemblyName is the compiling assembly's name, used for packaged
	// resource uris.
	AssemblyName string
	// ResourcesPath configures the application's resource root; consumed
	// only when the document root is an application-class element.
	ResourcesPath string
	// GenerateFields controls emission of fields for x:Name elements in the
	// root name-scope.
	GenerateFields bool
	// FactorHelpers factors dictionary-entry construction into private
	// helper methods, enabling forward uses before traversal completes.
	// Only applies to the code-behind compilation mode.
	FactorHelpers bool
	// DesignTimeMetadata emits source-file metadata on UI elements.
	DesignTimeMetadata bool
}

// withDefaults fills unset configuration values
func (c *Config) withDefaults() {
	if c.FieldModifier == "" {
		c.FieldModifier = "internal"
	}
	if c.SystemTypes == nil {
		c.SystemTypes = convert.NewSystemTypeTable()
	}
	if c.CoreTypes == nil {
		c.CoreTypes = convert.NewMapTypeTable()
	}
	if c.Namespaces.Windowing == "" {
		c.Namespaces = Namespaces{
			Windowing: "System.Windows",
			Controls:  "System.Windows.Controls",
			Media:     "System.Windows.Media",
			Data:      "System.Windows.Data",
			Animation: "System.Windows.Media.Animation",
		}
	}
}

// Well-known framework types derived from the configured namespaces.

func (c *Config) frameworkElementType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: c.Namespaces.Windowing, Name: "FrameworkElement"}
}

func (c *Config) uiElementType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: c.Namespaces.Windowing, Name: "UIElement"}
}

func (c *Config) frameworkTemplateType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: c.Namespaces.Windowing, Name: "FrameworkTemplate"}
}

func (c *Config) styleType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: c.Namespaces.Windowing, Name: "Style"}
}

func (c *Config) setterType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: c.Namespaces.Windowing, Name: "Setter"}
}

func (c *Config) dataTemplateType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: c.Namespaces.Windowing, Name: "DataTemplate"}
}

func (c *Config) dataTemplateKeyType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: c.Namespaces.Windowing, Name: "DataTemplateKey"}
}

func (c *Config) eventTriggerType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: c.Namespaces.Windowing, Name: "EventTrigger"}
}

func (c *Config) timelineType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: c.Namespaces.Animation, Name: "Timeline"}
}

func (c *Config) bindingBaseType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: c.Namespaces.Data, Name: "BindingBase"}
}

func (c *Config) markupExtensionType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: c.Namespaces.Windowing + ".Markup", Name: "MarkupExtension"}
}

func (c *Config) supportInitializeType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: "System.ComponentModel", Name: "ISupportInitialize"}
}

func (c *Config) imageSourceType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: c.Namespaces.Media, Name: "ImageSource"}
}

func (c *Config) fontFamilyType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: c.Namespaces.Media, Name: "FontFamily"}
}

func (c *Config) navigationFrameType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: c.Namespaces.Controls, Name: "Frame"}
}

func (c *Config) navigationWindowType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: c.Namespaces.Windowing + ".Navigation", Name: "NavigationWindow"}
}

func (c *Config) parserContextType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: c.Namespaces.Windowing, Name: "ParserContext"}
}

func (c *Config) nameScopeType() metadata.TypeRef {
	return metadata.TypeRef{Namespace: c.Namespaces.Windowing, Name: "NameScope"}
}
