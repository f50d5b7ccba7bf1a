package parsers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mickleon/typdoc/internal/extraction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for C++ Header Parser:
// - Source without class blocks yields no declarations
// - Inheritance lists resolve access per base, defaulting to private
// - Fields, methods and constructors are classified per line
// - Access level follows the most recent marker and resets per class
// - Preceding // comments are joined top-to-bottom, blank lines ignored
// - Inline // comments attach to the member on the same line
// - Unterminated blocks extend to the end of input
// - Nested class/struct lines are recorded, the class header included
// - The "virtual" constructor looseness is preserved
// - Friend declarations are not fields
// - ReadFile names the unit after the file base name
// - A default/delete specifier on a constructor is followed by noexcept;
//   the noexcept keyword alone adds nothing
// - Parsing is deterministic

func parseOne(t *testing.T, source string) *extraction.Declaration {
	t.Helper()
	unit := NewCppParser().Parse("test.h", source)
	require.Len(t, unit.Declarations, 1)
	return unit.Declarations[0]
}

func TestCppParser_NoDeclarations(t *testing.T) {
	t.Parallel()

	unit := NewCppParser().Parse("empty.h", "#pragma once\n\nclass Forward;\nint global = 1;\n")

	assert.Equal(t, "empty.h", unit.Name)
	assert.Empty(t, unit.Declarations)
}

func TestCppParser_Inheritance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   []extraction.ParentRef
	}{
		{
			name:   "explicit access",
			source: "class D : public PublicType, protected HiddenType {\n};",
			want: []extraction.ParentRef{
				{Name: "PublicType", Access: extraction.AccessPublic},
				{Name: "HiddenType", Access: extraction.AccessProtected},
			},
		},
		{
			name:   "default private",
			source: "class D : Base {\n};",
			want:   []extraction.ParentRef{{Name: "Base", Access: extraction.AccessPrivate}},
		},
		{
			name:   "namespaced base",
			source: "class D: private std::exception {\n};",
			want:   []extraction.ParentRef{{Name: "std::exception", Access: extraction.AccessPrivate}},
		},
		{
			name:   "no bases",
			source: "class D {\n};",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			decl := parseOne(t, tt.source)
			assert.Equal(t, "D", decl.Name)
			assert.Equal(t, tt.want, decl.Parents)
		})
	}
}

func TestCppParser_FieldDefaultsToPrivate(t *testing.T) {
	t.Parallel()

	decl := parseOne(t, "class Counter {\n    int count;\n};")

	require.Len(t, decl.Fields, 1)
	assert.Equal(t, extraction.Member{
		Kind:   extraction.KindField,
		Type:   "int",
		Name:   "count",
		Access: extraction.AccessPrivate,
	}, decl.Fields[0])
	assert.Empty(t, decl.Methods)
	assert.Empty(t, decl.Constructors)
}

func TestCppParser_ConstMethod(t *testing.T) {
	t.Parallel()

	decl := parseOne(t, "class Task {\npublic:\n    void run() const;\n};")

	require.Len(t, decl.Methods, 1)
	assert.Equal(t, "void run() const", decl.Methods[0].Signature)
	assert.Equal(t, extraction.AccessPublic, decl.Methods[0].Access)
	assert.Equal(t, extraction.KindMethod, decl.Methods[0].Kind)
}

func TestCppParser_Constructors(t *testing.T) {
	t.Parallel()

	decl := parseOne(t, `class Widget {
public:
    Widget(int x);
    Widget(const Widget &other) = delete;
    ~Widget() noexcept;
    virtual Other(int y);
    explicit Widget(double d);
};`)

	signatures := make([]string, 0, len(decl.Constructors))
	for _, c := range decl.Constructors {
		signatures = append(signatures, c.Signature)
		assert.Equal(t, extraction.AccessPublic, c.Access)
	}
	assert.Equal(t, []string{
		"Widget(int x)",
		"Widget(const Widget &other) = delete noexcept",
		"~Widget()",
		"Other(int y)",
	}, signatures)

	// "explicit Widget(...)" has the method shape with the class name and is dropped.
	assert.Empty(t, decl.Methods)
	assert.Empty(t, decl.Fields)
}

func TestCppParser_AccessLevels(t *testing.T) {
	t.Parallel()

	unit := NewCppParser().Parse("test.h", `class First {
    int a;
protected:
    int b;
public:
    int c;
};

class Second {
    int d;
};`)

	require.Len(t, unit.Declarations, 2)
	first := unit.Declarations[0]
	assert.Equal(t, []extraction.Member{{Kind: extraction.KindField, Type: "int", Name: "a", Access: extraction.AccessPrivate}}, first.FieldsByAccess(extraction.AccessPrivate))
	assert.Equal(t, []extraction.Member{{Kind: extraction.KindField, Type: "int", Name: "b", Access: extraction.AccessProtected}}, first.FieldsByAccess(extraction.AccessProtected))
	assert.Equal(t, []extraction.Member{{Kind: extraction.KindField, Type: "int", Name: "c", Access: extraction.AccessPublic}}, first.FieldsByAccess(extraction.AccessPublic))

	second := unit.Declarations[1]
	require.Len(t, second.Fields, 1)
	assert.Equal(t, extraction.AccessPrivate, second.Fields[0].Access)
}

func TestCppParser_PrecedingComment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "two lines joined",
			source: "// First line\n// second line\nclass A {\n};",
			want:   "First line second line",
		},
		{
			name:   "blank lines skipped",
			source: "// Top\n\n// Bottom\n\nclass A {\n};",
			want:   "Top Bottom",
		},
		{
			name:   "code stops the run",
			source: "// Unrelated\nint x;\n// Doc\nclass A {\n};",
			want:   "Doc",
		},
		{
			name:   "no comment",
			source: "int x;\nclass A {\n};",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parseOne(t, tt.source).Comment)
		})
	}
}

func TestCppParser_InlineComments(t *testing.T) {
	t.Parallel()

	decl := parseOne(t, `class Item {
    int count; // Number of items
public:
    void reset(); // Clears the counter
};`)

	require.Len(t, decl.Fields, 1)
	assert.Equal(t, "Number of items", decl.Fields[0].Comment)
	require.Len(t, decl.Methods, 1)
	assert.Equal(t, "Clears the counter", decl.Methods[0].Comment)
}

func TestCppParser_UnterminatedBlock(t *testing.T) {
	t.Parallel()

	decl := parseOne(t, "class Open {\n    int a;\n    float b;\n")

	require.Len(t, decl.Fields, 2)
	assert.Equal(t, "a", decl.Fields[0].Name)
	assert.Equal(t, "b", decl.Fields[1].Name)
}

func TestCppParser_NestedClasses(t *testing.T) {
	t.Parallel()

	unit := NewCppParser().Parse("test.h", `class Outer {
public:
    class Inner { // Helper type
        int x;
    };
    int y;
};`)

	require.Len(t, unit.Declarations, 2)

	outer := unit.Declarations[0]
	assert.Equal(t, "Outer", outer.Name)
	assert.Equal(t, []extraction.NestedRef{
		{Name: "Outer", Access: extraction.AccessPrivate},
		{Name: "Inner", Access: extraction.AccessPublic, Comment: "Helper type"},
	}, outer.Nested)
	// The outer body spans the inner block, so its lines count for Outer too.
	require.Len(t, outer.Fields, 2)
	assert.Equal(t, extraction.AccessPublic, outer.Fields[0].Access)

	inner := unit.Declarations[1]
	assert.Equal(t, "Inner", inner.Name)
	require.Len(t, inner.Fields, 1)
	assert.Equal(t, "x", inner.Fields[0].Name)
	assert.Equal(t, extraction.AccessPrivate, inner.Fields[0].Access)
}

func TestCppParser_FieldShapes(t *testing.T) {
	t.Parallel()

	decl := parseOne(t, `class Shapes {
    vector<Wall *> walls;
    Point *start;
    const Color static color;
    int total = 0;
    friend Helper;
};`)

	require.Len(t, decl.Fields, 4)
	got := make([][2]string, 0, len(decl.Fields))
	for _, f := range decl.Fields {
		got = append(got, [2]string{f.Type, f.Name})
	}
	assert.Equal(t, [][2]string{
		{"vector<Wall *>", "walls"},
		{"Point", "*start"},
		{"const Color static", "color"},
		{"int", "total"},
	}, got)
}

func TestCppParser_MethodShapes(t *testing.T) {
	t.Parallel()

	decl := parseOne(t, `class Shapes {
public:
    Point *getStart() { return start; }
    virtual void update() {}
    static int instances();
    std::vector<int> values() const noexcept;
};`)

	signatures := make([]string, 0, len(decl.Methods))
	for _, m := range decl.Methods {
		signatures = append(signatures, m.Signature)
	}
	assert.Equal(t, []string{
		"Point *getStart()",
		"void update()",
		"int instances()",
		"std::vector<int> values() const",
	}, signatures)
}

func TestCppParser_ReadFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	parser := NewCppParser()

	name, source, err := parser.ReadFile(ctx, "../../testdata/headers/mirror.h")
	require.NoError(t, err)
	assert.Equal(t, "mirror.h", name)

	unit := parser.Parse(name, string(source))

	assert.Equal(t, "mirror.h", unit.Name)
	require.Len(t, unit.Declarations, 3)

	point := unit.Declarations[0]
	assert.Equal(t, "Point", point.Name)
	assert.Equal(t, "Point between mirrored walls", point.Comment)
	assert.Len(t, point.FieldsByAccess(extraction.AccessPrivate), 2)
	assert.Len(t, point.MethodsByAccess(extraction.AccessPublic), 4)
	require.Len(t, point.Constructors, 1)
	assert.Equal(t, "Point(const Vector2 &coord)", point.Constructors[0].Signature)

	wall := unit.Declarations[1]
	assert.Equal(t, "Wall", wall.Name)
	protected := wall.FieldsByAccess(extraction.AccessProtected)
	require.Len(t, protected, 2)
	assert.Equal(t, "Start point", protected[0].Comment)

	line := unit.Declarations[2]
	assert.Equal(t, "WallLine", line.Name)
	assert.Equal(t, []extraction.ParentRef{{Name: "Wall", Access: extraction.AccessPublic}}, line.Parents)
	require.Len(t, line.Constructors, 1)
	assert.Equal(t, "WallLine(Point *start, Point *end)", line.Constructors[0].Signature)
}

func TestCppParser_ReadFileErrors(t *testing.T) {
	t.Parallel()

	parser := NewCppParser()

	_, _, err := parser.ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.h"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = parser.ReadFile(ctx, "../../testdata/headers/mirror.h")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCppParser_Deterministic(t *testing.T) {
	t.Parallel()

	source, err := os.ReadFile("../../testdata/headers/scene.hpp")
	require.NoError(t, err)

	parser := NewCppParser()
	first := parser.Parse("scene.hpp", string(source))
	second := parser.Parse("scene.hpp", string(source))
	assert.Equal(t, first, second)

	require.Len(t, first.Declarations, 1)
	scene := first.Declarations[0]
	assert.Equal(t, "Scene graph root Owns every node", scene.Comment)
	assert.Equal(t, []extraction.ParentRef{
		{Name: "Node", Access: extraction.AccessPublic},
		{Name: "ns::Observable", Access: extraction.AccessProtected},
	}, scene.Parents)
}

func TestCppParser_ConstructorSpecifiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want string
	}{
		{"defaulted", "W() = default;", "W() = default noexcept"},
		{"deleted copy", "W(const W &) = delete;", "W(const W &) = delete noexcept"},
		{"noexcept keyword", "W(W &&other) noexcept;", "W(W &&other)"},
		{"noexcept destructor", "~W() noexcept;", "~W()"},
		{"defaulted destructor", "~W() = default;", "~W() = default noexcept"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			decl := parseOne(t, "class W {\npublic:\n    "+tt.line+"\n};")
			require.Len(t, decl.Constructors, 1)
			assert.Equal(t, tt.want, decl.Constructors[0].Signature)
		})
	}
}

func TestCppParser_SceneConstructors(t *testing.T) {
	t.Parallel()

	source, err := os.ReadFile("../../testdata/headers/scene.hpp")
	require.NoError(t, err)

	unit := NewCppParser().Parse("scene.hpp", string(source))
	require.Len(t, unit.Declarations, 1)

	signatures := make([]string, 0, len(unit.Declarations[0].Constructors))
	for _, c := range unit.Declarations[0].Constructors {
		signatures = append(signatures, c.Signature)
	}
	assert.Equal(t, []string{"Scene() = default noexcept", "~Scene()"}, signatures)
}
