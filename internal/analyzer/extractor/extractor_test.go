package extractor

import (
	"context"
	"testing"

	"github.com/re-centris/method-extractor/internal/analyzer/normalizer"
	"github.com/re-centris/method-extractor/internal/analyzer/parser"
	"github.com/re-centris/method-extractor/internal/common/monitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samples = []struct {
	name    string
	input   string
	oneLine string
	multi   string
}{
	{
		name: "trailing comments",
		input: "public void test() {// method starts\n" +
			"  int x = 5;\n" +
			"} // end of method\n",
		oneLine: "public void test() { int x = 5; }",
		multi:   "public void test() {\n  int x = 5;\n}",
	},
	{
		name: "line and block comments",
		input: "// this is a full-line comment\n" +
			"public void test() {// method starts\n" +
			"  int x = 5;// initialize x\n" +
			"  /*\n" +
			"    this is a block comment\n" +
			"    that spans multiple lines\n" +
			"  */\n" +
			"  System.out.println(x);/* print value */\n" +
			"} // end of method\n",
		oneLine: "public void test() { int x = 5; System.out.println(x); }",
		multi:   "public void test() {\n  int x = 5;\n  System.out.println(x);\n}",
	},
	{
		name:    "tab indentation",
		input:   "public void foo() {\n\tSystem.out.println(\"Hello\");\n}\n",
		oneLine: "public void foo() { System.out.println(\"Hello\"); }",
		multi:   "public void foo() {\n\tSystem.out.println(\"Hello\");\n}",
	},
	{
		name: "comment marker inside string",
		input: "public void say() {\n" +
			"  System.out.println(\"http://example.com\"); // comment\n" +
			"}\n",
		oneLine: "public void say() { System.out.println(\"http://example.com\"); }",
		multi:   "public void say() {\n  System.out.println(\"http://example.com\");\n}",
	},
	{
		name: "block comments between statements",
		input: "public void nested() {\n" +
			"  int x = 10;/* first comment\n" +
			"  still inside\n" +
			"  */ int y = 20; /* another comment */ int z = x + y;\n" +
			"}\n",
		oneLine: "public void nested() { int x = 10; int y = 20; int z = x + y; }",
	},
}

func backends(cfg parser.Config) []parser.Backend {
	return []parser.Backend{parser.NewTreeSitter(cfg), parser.NewNative(cfg)}
}

func extract(t *testing.T, b parser.Backend, code string, opts normalizer.Options) []Method {
	t.Helper()
	src := []byte(code)
	tree, err := b.Parse(context.Background(), "Test.java", src)
	require.NoError(t, err)
	defer tree.Close()

	methods, err := New(b.Kind(), opts, nil).Extract(tree, src)
	require.NoError(t, err)
	return methods
}

func TestExtract_Samples(t *testing.T) {
	for _, b := range backends(parser.Config{}) {
		for _, policy := range []normalizer.Policy{normalizer.Blank, normalizer.Delete} {
			for _, s := range samples {
				t.Run(b.Name()+"/"+policy.String()+"/"+s.name, func(t *testing.T) {
					code := "class C { " + s.input + " }"

					methods := extract(t, b, code, normalizer.Options{OneLine: true, Policy: policy})
					require.Len(t, methods, 1)
					assert.Equal(t, s.oneLine, methods[0].NormalizedContent)

					if s.multi == "" {
						return
					}
					methods = extract(t, b, code, normalizer.Options{Policy: policy})
					require.Len(t, methods, 1)
					assert.Equal(t, s.multi, methods[0].NormalizedContent)
				})
			}
		}
	}
}

func TestExtract_TopLevel(t *testing.T) {
	for _, b := range backends(parser.Config{}) {
		t.Run(b.Name()+"/samples", func(t *testing.T) {
			for _, s := range samples {
				methods := extract(t, b, s.input, normalizer.Options{OneLine: true})
				require.Len(t, methods, 1, s.name)
				assert.Equal(t, s.oneLine, methods[0].NormalizedContent, s.name)
			}
		})

		t.Run(b.Name()+"/unwrapped method", func(t *testing.T) {
			methods := extract(t, b, samples[0].input, normalizer.Options{})
			require.Len(t, methods, 1)
			assert.Equal(t, "test", methods[0].Name)
			assert.Equal(t, parser.DeclMethod, methods[0].Decl)
			assert.Equal(t, "public void test() {\n  int x = 5;\n}", methods[0].NormalizedContent)
		})

		t.Run(b.Name()+"/implicit class", func(t *testing.T) {
			code := "void main() {\n  run(); // go\n}\nclass X { void y() {} }\n"
			methods := extract(t, b, code, normalizer.Options{OneLine: true})
			require.Len(t, methods, 2)
			assert.Equal(t, "main", methods[0].Name)
			assert.Equal(t, "void main() { run(); }", methods[0].NormalizedContent)
			assert.Equal(t, "y", methods[1].Name)
			assert.Equal(t, "void y() {}", methods[1].NormalizedContent)
		})
	}
}

func TestExtract_BackendParity(t *testing.T) {
	code := `package p;

import java.util.List;

/** Docs. */
public class Service<T> {
    private final List<T> items; // state

    public Service(List<T> items) {
        this.items = items; /* keep */
    }

    @Override
    public String toString() {
        return "Service{" + items + "}"; // "not a comment"
    }

    static class Helper {
        int twice(int x) {
            // doubled
            return x * 2;
        }
    }

    private final Runnable hook = new Runnable() {
        public void run() {
            System.out.println("/* not a comment */");
        }
    };

    interface Listener {
        void on(T value);
    }
}
`
	opts := normalizer.Options{MinLines: 2}
	var results [][]Method
	for _, b := range backends(parser.Config{}) {
		results = append(results, extract(t, b, code, opts))
	}

	require.Len(t, results[0], 4)
	require.Equal(t, len(results[0]), len(results[1]))
	for i := range results[0] {
		a, b := results[0][i], results[1][i]
		assert.Equal(t, a.Name, b.Name)
		assert.Equal(t, a.Decl, b.Decl)
		assert.Equal(t, a.Span, b.Span)
		assert.Equal(t, a.StartLine, b.StartLine)
		assert.Equal(t, a.EndLine, b.EndLine)
		assert.Equal(t, a.NormalizedContent, b.NormalizedContent)
	}

	got := results[0]
	assert.Equal(t, []string{"Service", "toString", "twice", "run"},
		[]string{got[0].Name, got[1].Name, got[2].Name, got[3].Name})
	assert.Equal(t, parser.DeclConstructor, got[0].Decl)
	assert.Equal(t, 9, got[0].StartLine)
	assert.Equal(t, 11, got[0].EndLine)
	assert.Equal(t, "@Override\n    public String toString() {\n        return \"Service{\" + items + \"}\";\n    }", got[1].NormalizedContent)
	assert.Equal(t, "int twice(int x) {\n            return x * 2;\n        }", got[2].NormalizedContent)
}

func TestExtract_MinLines(t *testing.T) {
	code := `class C {
		void one() {}
		void three() {
			call();
		}
		void five() {
			a();

			// only a comment
			b();
			c();
		}
	}`

	tests := []struct {
		minLines int
		want     []string
	}{
		{0, []string{"one", "three", "five"}},
		{1, []string{"one", "three", "five"}},
		{3, []string{"three", "five"}},
		{5, []string{"five"}},
		{6, nil},
	}

	for _, b := range backends(parser.Config{}) {
		for _, tt := range tests {
			methods := extract(t, b, code, normalizer.Options{MinLines: tt.minLines})
			var got []string
			for _, m := range methods {
				got = append(got, m.Name)
			}
			assert.Equal(t, tt.want, got, "%s minLines=%d", b.Name(), tt.minLines)
		}
	}
}

func TestExtract_NoMethods(t *testing.T) {
	tests := map[string]string{
		"empty file":     "",
		"interface only": "interface I {\n  void m1();\n}\n",
		"fields only":    "class C { int x = 1; }",
	}

	for _, b := range backends(parser.Config{}) {
		for name, code := range tests {
			t.Run(b.Name()+"/"+name, func(t *testing.T) {
				assert.Empty(t, extract(t, b, code, normalizer.Options{}))
			})
		}
	}
}

func TestExtract_RawContent(t *testing.T) {
	code := "class C {\n  void f() { /* x */ }\n}"
	for _, b := range backends(parser.Config{}) {
		methods := extract(t, b, code, normalizer.Options{})
		require.Len(t, methods, 1)
		assert.Equal(t, "void f() { /* x */ }", methods[0].RawContent)
		assert.Equal(t, "void f() {         }", methods[0].NormalizedContent)
		assert.Equal(t, 2, methods[0].StartLine)
	}
}

func TestExtract_ContractViolation(t *testing.T) {
	src := []byte("class C { void f() {} }")
	tree, err := parser.NewNative(parser.Config{}).Parse(context.Background(), "C.java", src)
	require.NoError(t, err)
	defer tree.Close()

	_, err = New(parser.KindTreeSitter, normalizer.Options{}, nil).Extract(tree, src)
	assert.ErrorIs(t, err, parser.ErrContractViolation)

	_, err = New(parser.KindNative, normalizer.Options{}, nil).Extract(nil, src)
	assert.ErrorIs(t, err, parser.ErrContractViolation)

	_, err = New(parser.KindNative, normalizer.Options{}, nil).Extract(tree, src[:5])
	assert.ErrorIs(t, err, parser.ErrContractViolation)
}

func TestExtract_RecordsTimings(t *testing.T) {
	metrics := monitor.NewMetrics()
	b := parser.NewNative(parser.Config{Recorder: metrics})
	src := []byte("class C { void f() {} void g() {} }")

	tree, err := b.Parse(context.Background(), "C.java", src)
	require.NoError(t, err)
	defer tree.Close()

	e := New(parser.KindNative, normalizer.Options{}, metrics)
	methods, err := e.Extract(tree, src)
	require.NoError(t, err)
	assert.Len(t, methods, 2)

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.ParseCount)
	assert.GreaterOrEqual(t, snap.ExtractionTime, snap.NormalizationTime)
}
