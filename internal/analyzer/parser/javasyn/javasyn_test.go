package javasyn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bodies lists the method-like declarations with bodies as "kind:name".
func bodies(tree *Tree) []string {
	var out []string
	Walk(tree.Root, func(n *Node) bool {
		switch n.Kind {
		case KindMethod, KindConstructor, KindCompactConstructor:
			if n.HasBody {
				out = append(out, string(n.Kind)+":"+n.Name)
			}
			return false
		}
		return true
	})
	return out
}

func TestLex(t *testing.T) {
	toks, errs := Lex([]byte(`a.b("x{", '}') // done` + "\n/* c */ 1.5e-3f"))
	require.Zero(t, errs)

	var kinds []TokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []TokenKind{
		Ident, Punct, Ident, Punct, String, Punct, Char, Punct,
		LineComment, BlockComment, Number,
	}, kinds)
	assert.Equal(t, "// done", toks[8].Text)
	assert.Equal(t, "1.5e-3f", toks[10].Text)
}

func TestLex_TextBlock(t *testing.T) {
	src := "String s = \"\"\"\n  a \"quoted\" } {\n  \"\"\";"
	toks, errs := Lex([]byte(src))
	require.Zero(t, errs)
	require.Len(t, toks, 5)
	assert.Equal(t, TextBlock, toks[3].Kind)
}

func TestLex_Unterminated(t *testing.T) {
	_, errs := Lex([]byte("a /* never closed"))
	assert.Equal(t, 1, errs)

	_, errs = Lex([]byte("s = \"open\nx"))
	assert.Equal(t, 1, errs)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{
			name: "methods and constructor in order",
			code: `class C {
				private int n;
				C(int n) { this.n = n; }
				public int get() { return n; }
				static <T> T id(T t) { return t; }
			}`,
			want: []string{"constructor_declaration:C", "method_declaration:get", "method_declaration:id"},
		},
		{
			name: "interface signatures have no body",
			code: `interface I {
				void m1();
				int m2(String s) throws Exception;
			}`,
		},
		{
			name: "default interface method",
			code: `interface I { void a(); default void b() { a(); } }`,
			want: []string{"method_declaration:b"},
		},
		{
			name: "local and anonymous classes stay inside their method",
			code: `class C {
				void outer() {
					class Local { void inner() {} }
					Runnable r = new Runnable() { public void run() {} };
				}
			}`,
			want: []string{"method_declaration:outer"},
		},
		{
			name: "anonymous class in field initializer",
			code: `class C {
				Runnable r = new Runnable() {
					@Override
					public void run() { System.out.println("{"); }
				};
				void after() {}
			}`,
			want: []string{"method_declaration:run", "method_declaration:after"},
		},
		{
			name: "nested and static nested types",
			code: `public class Outer {
				static class Inner { Inner() {} void a() {} }
				void b() {}
			}`,
			want: []string{"constructor_declaration:Inner", "method_declaration:a", "method_declaration:b"},
		},
		{
			name: "enum constants with bodies",
			code: `enum Op {
				PLUS("+") { int apply(int a, int b) { return a + b; } },
				MINUS("-");
				private final String sym;
				Op(String sym) { this.sym = sym; }
				int apply(int a, int b) { throw new UnsupportedOperationException(); }
			}`,
			want: []string{"method_declaration:apply", "constructor_declaration:Op", "method_declaration:apply"},
		},
		{
			name: "record with compact constructor",
			code: `record Point(int x, int y) {
				Point {
					if (x < 0) throw new IllegalArgumentException();
				}
				int sum() { return x + y; }
			}`,
			want: []string{"compact_constructor_declaration:Point", "method_declaration:sum"},
		},
		{
			name: "annotations generics and throws",
			code: `class C {
				@SuppressWarnings({"unchecked", "rawtypes"})
				@Deprecated(since = "1")
				public final Map<String, List<Integer>> load(@NonNull Path p) throws IOException, Error {
					return Map.of();
				}
				int[] arr() [] { return null; }
			}`,
			want: []string{"method_declaration:load", "method_declaration:arr"},
		},
		{
			name: "annotation type elements",
			code: `@interface Ann {
				String value() default "x";
				String[] names() default {"a", "b"};
			}
			class C { void f() {} }`,
			want: []string{"method_declaration:f"},
		},
		{
			name: "class literal and initializer blocks",
			code: `class C {
				static { register(C.class); }
				{ new Thread() { public void run() {} }.start(); }
				void f() { Class<?> k = String.class; }
			}`,
			want: []string{"method_declaration:run", "method_declaration:f"},
		},
		{
			name: "top-level method",
			code: "public void test() {// start\n  int x = 5;\n} // end\n",
			want: []string{"method_declaration:test"},
		},
		{
			name: "implicit class with a nested type",
			code: `import java.util.List;

			void main() { run(); }
			static <T> List<T> wrap(T t) throws Exception { return List.of(t); }
			class X { void y() {} }`,
			want: []string{"method_declaration:main", "method_declaration:wrap", "method_declaration:y"},
		},
		{
			name: "package and imports before a type",
			code: `package a.b;
			import static java.lang.Math.max;
			import java.util.*;
			public final class C { int f() { return max(1, 2); } }`,
			want: []string{"method_declaration:f"},
		},
		{
			name: "top-level statements are not methods",
			code: `int x = compute(1);
			return foo();
			if (x > 0) { go(); } else { stop(); }
			void after() {}`,
			want: []string{"method_declaration:after"},
		},
		{
			name: "empty source",
			code: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := Parse([]byte(tt.code))
			assert.False(t, tree.HasError())
			assert.Equal(t, tt.want, bodies(tree))
		})
	}
}

func TestParse_Spans(t *testing.T) {
	src := []byte("class C { /** doc */ @A void f() {} }")
	tree := Parse(src)

	var found *Node
	Walk(tree.Root, func(n *Node) bool {
		if n.Kind == KindMethod {
			found = n
			return false
		}
		return true
	})
	require.NotNil(t, found)
	assert.Equal(t, "@A void f() {}", string(src[found.Start:found.End]))

	require.Len(t, tree.Comments, 1)
	assert.Equal(t, "/** doc */", tree.Comments[0].Text)
	assert.Equal(t, BlockComment, tree.Comments[0].Kind)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"unclosed paren", "class C { void f( { } }"},
		{"unclosed class", "class C { void f() {}"},
		{"stray closer", "class C { } }"},
		{"unterminated comment", "class C { /* }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := Parse([]byte(tt.code))
			assert.True(t, tree.HasError())
		})
	}
}

func BenchmarkParse(b *testing.B) {
	src := []byte(`class C {
		private final java.util.Map<String, Integer> m = new java.util.HashMap<>();
		C() { m.put("a", 1); }
		int get(String k) { return m.getOrDefault(k, 0); }
		Runnable r = new Runnable() { public void run() { get("a"); } };
	}`)

	for i := 0; i < b.N; i++ {
		Parse(src)
	}
}
