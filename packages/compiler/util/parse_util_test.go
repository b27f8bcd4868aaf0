package util_test

import (
	"errors"
	"fmt"
	"testing"

	"xgc-go/packages/compiler/util"

	"github.com/google/go-cmp/cmp"
)

func TestParseLocation(t *testing.T) {
	file := util.NewParseSourceFile("<Window>\n  <Button />\n</Window>\n", "app.xaml")

	t.Run("should format as url@line:col", func(t *testing.T) {
		loc := util.NewParseLocation(file, 11, 1, 2)
		if loc.String() != "app.xaml@1:2" {
			t.Errorf("Expected app.xaml@1:2, got %s", loc)
		}
	})

	t.Run("should fall back to the url for unknown offsets", func(t *testing.T) {
		loc := util.NewParseLocation(file, -1, -1, -1)
		if loc.String() != "app.xaml" {
			t.Errorf("Expected app.xaml, got %s", loc)
		}
	})

	t.Run("should move forward across newlines", func(t *testing.T) {
		loc := util.NewParseLocation(file, 0, 0, 0)
		moved := loc.MoveBy(11)
		expected := []int{11, 1, 2}
		result := []int{moved.Offset, moved.Line, moved.Col}
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("MoveBy() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestErrorKind(t *testing.T) {
	t.Run("should name every kind", func(t *testing.T) {
		expected := []string{
			"UnresolvedSymbol",
			"MissingKey",
			"TooManyChildren",
			"MalformedMarkupConstruct",
			"InternalGeneratorFault",
		}
		kinds := []util.ErrorKind{
			util.ErrorKindUnresolvedSymbol,
			util.ErrorKindMissingKey,
			util.ErrorKindTooManyChildren,
			util.ErrorKindMalformedMarkupConstruct,
			util.ErrorKindInternalGeneratorFault,
		}
		result := []string{}
		for _, kind := range kinds {
			result = append(result, kind.String())
		}
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("ErrorKind.String() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestMarkupError(t *testing.T) {
	t.Run("should report the bare message without a span", func(t *testing.T) {
		err := util.NewMarkupError(util.ErrorKindMissingKey, nil, "dictionary entry has no key")
		if err.Error() != "dictionary entry has no key" {
			t.Errorf("Expected bare message, got %q", err.Error())
		}
	})

	t.Run("should append the start location when a span is present", func(t *testing.T) {
		file := util.NewParseSourceFile("<Window />", "app.xaml")
		start := util.NewParseLocation(file, 1, 0, 1)
		span := util.NewParseSourceSpan(start, start, nil)
		err := util.NewMarkupError(util.ErrorKindUnresolvedSymbol, span, "unknown element 'Window'")
		expected := "app.xaml@0:1"
		if got := err.Error(); len(got) < len(expected) || got[len(got)-len(expected):] != expected {
			t.Errorf("Expected error ending in %q, got %q", expected, got)
		}
	})
}

func TestWrapInternal(t *testing.T) {
	t.Run("should return nil for nil", func(t *testing.T) {
		if err := util.WrapInternal(nil, nil); err != nil {
			t.Errorf("Expected nil, got %v", err)
		}
	})

	t.Run("should pass a MarkupError through unchanged", func(t *testing.T) {
		original := util.NewMarkupError(util.ErrorKindTooManyChildren, nil, "too many children")
		wrapped := util.WrapInternal(original, nil)
		if wrapped != original {
			t.Errorf("Expected the same error instance, got %v", wrapped)
		}
	})

	t.Run("should wrap other errors as internal faults", func(t *testing.T) {
		cause := fmt.Errorf("oracle connection lost")
		wrapped := util.WrapInternal(cause, nil)
		if wrapped.Kind != util.ErrorKindInternalGeneratorFault {
			t.Errorf("Expected InternalGeneratorFault, got %s", wrapped.Kind)
		}
		if !errors.Is(wrapped, cause) {
			t.Errorf("Expected the wrapped error to unwrap to its cause")
		}
	})
}
