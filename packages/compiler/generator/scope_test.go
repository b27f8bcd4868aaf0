package generator

import (
	"errors"
	"testing"

	"xgc-go/packages/compiler/metadata"
	"xgc-go/packages/compiler/output"
	"xgc-go/packages/compiler/util"

	"github.com/google/go-cmp/cmp"
)

var (
	testParserContextType = metadata.TypeRef{Namespace: "System.Windows.Markup", Name: "ParserContext"}
	testNameScopeType     = metadata.TypeRef{Namespace: "System.Windows", Name: "NameScope"}
	testButtonType        = metadata.TypeRef{Namespace: "System.Windows.Controls", Name: "Button"}
)

func TestScopeStack_Pop(t *testing.T) {
	t.Run("should refuse to pop the root scope", func(t *testing.T) {
		stack := NewScopeStack(NewRootScope("ctx_0", "e_0", true), testParserContextType, false)
		_, err := stack.Pop()
		var me *util.MarkupError
		if !errors.As(err, &me) || me.Kind != util.ErrorKindInternalGeneratorFault {
			t.Fatalf("Expected InternalGeneratorFault, got %v", err)
		}
		if me.Error() != "invalid state: cannot pop the root scope during traversal" {
			t.Errorf("Unexpected message: %s", me.Error())
		}
	})

	t.Run("should collect helper methods from popped scopes", func(t *testing.T) {
		stack := NewScopeStack(NewRootScope("ctx_0", "e_0", true), testParserContextType, false)
		stack.Push(NewObjectConstructionScope("ctx_0", "e_1", testButtonType, "ctx_0"))
		if _, err := stack.Pop(); err != nil {
			t.Fatalf("Pop() failed: %v", err)
		}
		if len(stack.Methods) != 1 || stack.Methods[0].Name != "Build_e_1" {
			t.Errorf("Expected one Build_e_1 method, got %v", stack.Methods)
		}
		if stack.Depth() != 1 {
			t.Errorf("Expected depth 1 after pop, got %d", stack.Depth())
		}
	})
}

func TestScopeStack_NameScopeOwner(t *testing.T) {
	t.Run("should skip scopes without a name table", func(t *testing.T) {
		root := NewRootScope("ctx_0", "e_0", true)
		stack := NewScopeStack(root, testParserContextType, false)
		helper := NewObjectConstructionScope("ctx_0", "e_1", testButtonType, "ctx_0")
		stack.Push(helper)
		if owner := stack.NameScopeOwner(); owner != Scope(root) {
			t.Errorf("Expected the root scope to own names, got %v", owner)
		}
	})

	t.Run("should prefer an enclosing template scope", func(t *testing.T) {
		root := NewRootScope("ctx_0", "e_0", true)
		stack := NewScopeStack(root, testParserContextType, false)
		template := NewTemplateScope("ctx_1", "e_1", 1)
		stack.Push(template)
		if owner := stack.NameScopeOwner(); owner != Scope(template) {
			t.Errorf("Expected the template scope to own names, got %v", owner)
		}
	})
}

func TestScope_RegisterName(t *testing.T) {
	t.Run("should reject duplicate names within one name scope", func(t *testing.T) {
		root := NewRootScope("ctx_0", "e_0", true)
		if err := root.RegisterName("header", "e_1", nil); err != nil {
			t.Fatalf("RegisterName() failed: %v", err)
		}
		err := root.RegisterName("header", "e_2", nil)
		var me *util.MarkupError
		if !errors.As(err, &me) || me.Kind != util.ErrorKindMalformedMarkupConstruct {
			t.Errorf("Expected MalformedMarkupConstruct, got %v", err)
		}
	})

	t.Run("should reject registration on scopes without a table", func(t *testing.T) {
		root := NewRootScope("ctx_0", "e_0", false)
		err := root.RegisterName("header", "e_1", nil)
		var me *util.MarkupError
		if !errors.As(err, &me) || me.Kind != util.ErrorKindInternalGeneratorFault {
			t.Errorf("Expected InternalGeneratorFault, got %v", err)
		}
	})
}

func TestRootScope_Serialize(t *testing.T) {
	t.Run("should serialize the buffer with name registrations", func(t *testing.T) {
		root := NewRootScope("ctx_0", "e_0", true)
		root.Append(output.NewExpressionStmt(output.NewInvokeMethodExpr(
			output.NewReadVarExpr("e_0", nil), "BeginInit", nil, nil), nil))
		if err := root.RegisterName("header", "e_1", nil); err != nil {
			t.Fatalf("RegisterName() failed: %v", err)
		}

		result := output.EmitStatements(root.Serialize(testNameScopeType, testParserContextType))
		expected := "e_0.BeginInit();\n" +
			"System.Windows.NameScope.SetNameScope(e_0, new System.Windows.NameScope());\n" +
			`e_0.RegisterName("header", e_1);`
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("Serialize() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should declare the context variable only when used", func(t *testing.T) {
		root := NewRootScope("ctx_0", "e_0", false)
		root.MarkContextUsed()

		result := output.EmitStatements(root.Serialize(testNameScopeType, testParserContextType))
		expected := "var ctx_0 = new System.Windows.Markup.ParserContext(e_0);"
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("Serialize() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should place the root construction before the context declaration", func(t *testing.T) {
		root := NewRootScope("ctx_0", "e_0", false)
		root.Construct = output.NewDeclareVarStmt("e_0", nil,
			output.NewInstantiateExpr(testButtonType, nil, nil), nil)
		root.MarkContextUsed()

		result := output.EmitStatements(root.Serialize(testNameScopeType, testParserContextType))
		expected := "var e_0 = new System.Windows.Controls.Button();\n" +
			"var ctx_0 = new System.Windows.Markup.ParserContext(e_0);"
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("Serialize() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should omit name statements when the table is empty", func(t *testing.T) {
		root := NewRootScope("ctx_0", "e_0", true)
		if result := output.EmitStatements(root.Serialize(testNameScopeType, testParserContextType)); result != "" {
			t.Errorf("Expected no statements, got:\n%s", result)
		}
	})
}

func TestObjectConstructionScope_Serialize(t *testing.T) {
	t.Run("should wrap the buffer in a private helper method", func(t *testing.T) {
		scope := NewObjectConstructionScope("ctx_0", "e_1", testButtonType, "ctx_0")
		scope.Append(output.NewDeclareVarStmt("e_1", nil,
			output.NewInstantiateExpr(testButtonType, nil, nil), nil))

		result := output.EmitStatements([]output.Statement{scope.Serialize(testParserContextType, false)})
		expected := "private System.Windows.Controls.Button Build_e_1(System.Windows.Markup.ParserContext ctx_0) {\n" +
			"    var e_1 = new System.Windows.Controls.Button();\n" +
			"    return e_1;\n" +
			"}"
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("Serialize() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should mark helpers static for documents without code-behind", func(t *testing.T) {
		scope := NewObjectConstructionScope("ctx_0", "e_1", testButtonType, "ctx_0")
		result := output.EmitStatements([]output.Statement{scope.Serialize(testParserContextType, true)})
		if result[:len("private static ")] != "private static " {
			t.Errorf("Expected a static helper, got:\n%s", result)
		}
	})
}

func TestTemplateScope_Serialize(t *testing.T) {
	t.Run("should register template names against the context parameter", func(t *testing.T) {
		scope := NewTemplateScope("ctx_1", "e_1", 1)
		scope.RootRef = "e_2"
		scope.RootType = testButtonType
		scope.Append(output.NewDeclareVarStmt("e_2", nil,
			output.NewInstantiateExpr(testButtonType, nil, nil), nil))
		if err := scope.RegisterName("part", "e_2", nil); err != nil {
			t.Fatalf("RegisterName() failed: %v", err)
		}

		result := output.EmitStatements([]output.Statement{scope.Serialize(testParserContextType, false)})
		expected := "private System.Windows.Controls.Button BuildTemplate_1(object owner, System.Windows.Markup.ParserContext ctx_1) {\n" +
			"    var e_2 = new System.Windows.Controls.Button();\n" +
			"    ctx_1.RegisterName(\"part\", e_2);\n" +
			"    return e_2;\n" +
			"}"
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("Serialize() mismatch (-want +got):\n%s", diff)
		}
	})
}
