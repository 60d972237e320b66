package mangle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFunc(t *testing.T) {
	t.Parallel()

	b, err := Parse("fn frob(x: i32, y: *const u8) -> i32;")
	require.NoError(t, err)
	require.Len(t, b.Decls, 1)
	assert.Empty(t, b.Passthrough)

	d := b.Decls[0]
	assert.Equal(t, KindFunc, d.Kind)
	assert.Equal(t, "frob", d.Name)
	assert.Equal(t, "(x: i32, y: *const u8)", d.Params)
	assert.Equal(t, "i32", d.Return)
	assert.False(t, d.Pub)
	assert.Empty(t, d.Attrs)
}

func TestParseDecls(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		src  string
		exp  Decl
	}{
		{
			"fn without return type",
			"fn init();",
			Decl{Kind: KindFunc, Name: "init", Params: "()"},
		},
		{
			"pub fn",
			"pub fn open(path: *const c_char) -> i32;",
			Decl{Kind: KindFunc, Pub: true, Name: "open", Params: "(path: *const c_char)", Return: "i32"},
		},
		{
			"static",
			"static ERRNO: i32;",
			Decl{Kind: KindData, Name: "ERRNO", Type: "i32"},
		},
		{
			"pub static with attribute",
			"#[doc = \"table\"] pub static TABLE: [u8; 256];",
			Decl{
				Kind: KindData, Pub: true, Name: "TABLE", Type: "[u8; 256]",
				Attrs: []string{"#[doc = \"table\"]"},
			},
		},
		{
			"stacked attributes",
			"#[cold]\n#[must_use]\nfn probe() -> bool;",
			Decl{
				Kind: KindFunc, Name: "probe", Params: "()", Return: "bool",
				Attrs: []string{"#[cold]", "#[must_use]"},
			},
		},
		{
			"nested parens in params",
			"fn apply(cb: extern fn(i32) -> i32, n: i32);",
			Decl{Kind: KindFunc, Name: "apply", Params: "(cb: extern fn(i32) -> i32, n: i32)"},
		},
		{
			"array length semicolon in return type",
			"fn digest() -> [u8; 32];",
			Decl{Kind: KindFunc, Name: "digest", Params: "()", Return: "[u8; 32]"},
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			b, err := Parse(tc.src)
			require.NoError(t, err)
			require.Len(t, b.Decls, 1)
			assert.Equal(t, tc.exp, b.Decls[0])
		})
	}
}

func TestParseMultipleDecls(t *testing.T) {
	t.Parallel()

	b, err := Parse(`
		// versioned entry points
		fn begin();
		pub static STATE: u32;
		fn end() -> i32;
	`)
	require.NoError(t, err)
	require.Len(t, b.Decls, 3)
	assert.Equal(t, "begin", b.Decls[0].Name)
	assert.Equal(t, "STATE", b.Decls[1].Name)
	assert.Equal(t, "end", b.Decls[2].Name)
}

func TestParsePassthrough(t *testing.T) {
	t.Parallel()

	t.Run("item between declarations", func(t *testing.T) {
		t.Parallel()
		b, err := Parse("fn a();\ntype Handle = u64;\nfn b();")
		require.NoError(t, err)
		require.Len(t, b.Decls, 2)
		assert.Equal(t, "a", b.Decls[0].Name)
		assert.Equal(t, "b", b.Decls[1].Name)
		require.Len(t, b.Passthrough, 1)
		assert.Equal(t, "type Handle = u64;", b.Passthrough[0])
	})

	t.Run("braced item", func(t *testing.T) {
		t.Parallel()
		b, err := Parse("struct Pair { a: i32, b: i32 }\nfn take(p: Pair);")
		require.NoError(t, err)
		require.Len(t, b.Decls, 1)
		require.Len(t, b.Passthrough, 1)
		assert.Equal(t, "struct Pair { a: i32, b: i32 }", b.Passthrough[0])
	})

	t.Run("attributes stay with a passthrough item", func(t *testing.T) {
		t.Parallel()
		b, err := Parse("#[repr(C)] struct Foo;")
		require.NoError(t, err)
		assert.Empty(t, b.Decls)
		require.Len(t, b.Passthrough, 1)
		assert.Equal(t, "#[repr(C)] struct Foo;", b.Passthrough[0])
	})

	t.Run("only trivia", func(t *testing.T) {
		t.Parallel()
		b, err := Parse("  \n\t// nothing here\n")
		require.NoError(t, err)
		assert.Empty(t, b.Decls)
		assert.Empty(t, b.Passthrough)
	})
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		expLine int
		expMsg  string
	}{
		{"fn without name", "fn (x: i32);", 1, "expected identifier after fn"},
		{"fn without params", "fn frob;", 1, "expected parameter list"},
		{"unterminated params", "fn frob(x: i32", 1, "unterminated"},
		{"missing semicolon", "fn frob()", 1, "expected ;"},
		{"missing return type", "fn frob() -> ;", 1, "expected return type"},
		{"static without type", "static X: ;", 1, "expected type"},
		{"static without colon", "static X i32;", 1, "expected :"},
		{"error past valid decls", "fn a();\nfn b(;", 2, "unterminated"},
		{"unterminated attribute", "#[cold\nfn a();", 2, "unterminated"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tc.src)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tc.expLine, perr.Line)
			assert.Contains(t, perr.Msg, tc.expMsg)
			assert.Contains(t, err.Error(), "malformed declaration batch")
		})
	}
}
