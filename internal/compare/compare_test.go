package compare

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/re-centris/method-extractor/internal/analyzer/extractor"
	"github.com/re-centris/method-extractor/internal/analyzer/normalizer"
	"github.com/re-centris/method-extractor/internal/analyzer/parser"
	"github.com/re-centris/method-extractor/internal/collector"
)

func sourceFile(t *testing.T, name, content string) collector.SourceFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return collector.SourceFile{Path: path, RelPath: name}
}

func TestRun_BackendsAgree(t *testing.T) {
	files := []collector.SourceFile{
		sourceFile(t, "A.java", "class A {\n  // c\n  A() { init(); }\n  int f(int x) { return x; /* id */ }\n}\n"),
		sourceFile(t, "I.java", "interface I { void m(); }"),
	}

	cfg := parser.Config{}
	c := New(parser.NewTreeSitter(cfg), parser.NewNative(cfg), normalizer.Options{OneLine: true})
	report, err := c.Run(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 2, report.Agreed)
	assert.Empty(t, report.Mismatches)
}

func TestFile_Mismatch(t *testing.T) {
	f := sourceFile(t, "A.java", "class A {\n  void f() {\n    a();\n    b();\n  }\n}\n")

	cfg := parser.Config{}
	strict := parser.Config{MaxFileSize: 4}
	c := New(parser.NewNative(cfg), parser.NewNative(strict), normalizer.Options{})

	m, skipped, err := c.File(context.Background(), f)
	require.NoError(t, err)
	assert.False(t, skipped)
	require.NotNil(t, m)
	assert.ErrorIs(t, m.Err, parser.ErrParseFailure)
}

func TestFile_Skipped(t *testing.T) {
	f := sourceFile(t, "A.java", "class A { void f() {} }")

	small := parser.Config{MaxFileSize: 4}
	c := New(parser.NewNative(small), parser.NewTreeSitter(small), normalizer.Options{})

	m, skipped, err := c.File(context.Background(), f)
	require.NoError(t, err)
	assert.True(t, skipped)
	assert.Nil(t, m)
}

func TestDiff(t *testing.T) {
	left := []extractor.Method{
		{Name: "f", Decl: parser.DeclMethod, StartLine: 2, EndLine: 4, NormalizedContent: "void f() {\n    a();\n  }"},
	}
	right := []extractor.Method{
		{Name: "f", Decl: parser.DeclMethod, StartLine: 2, EndLine: 4, NormalizedContent: "void f() {\n    b();\n  }"},
	}

	diff, err := Diff("A.java", "treesitter", "native", left, left)
	require.NoError(t, err)
	assert.Empty(t, diff)

	diff, err = Diff("A.java", "treesitter", "native", left, right)
	require.NoError(t, err)
	assert.Contains(t, diff, "--- treesitter/A.java")
	assert.Contains(t, diff, "+++ native/A.java")
	assert.Contains(t, diff, "-    a();")
	assert.Contains(t, diff, "+    b();")
}

func TestRender(t *testing.T) {
	methods := []extractor.Method{
		{Name: "f", Decl: parser.DeclMethod, StartLine: 2, EndLine: 4, NormalizedContent: "void f() {\n    a();\n  }"},
	}
	assert.Equal(t, "== method f [2-4]\nvoid f() {\n    a();\n  }\n", render(methods))
	assert.Equal(t, "", render(nil))
}
