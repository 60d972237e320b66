// Package mangle rewrites batches of external-symbol declarations so that
// every declared symbol links under its version-mangled name.
//
// The input surface is the small declaration grammar that external-linkage
// blocks need:
//
//	#[attr]* pub? fn name(params) [-> Type] ;
//	#[attr]* pub? static name : Type ;
//
// Attribute annotations, parameter lists and type spans are opaque: they are
// carried through byte for byte. An item that does not start one of the two
// declaration heads is left alone and passes through unchanged.
package mangle

// DeclKind distinguishes callable symbols from data symbols.
type DeclKind int

// The two recognized declaration kinds.
const (
	KindFunc DeclKind = iota
	KindData
)

func (k DeclKind) String() string {
	if k == KindFunc {
		return "fn"
	}
	return "static"
}

// Decl is one recognized external declaration. The input batch is never
// mutated; rewriting produces new declarations.
type Decl struct {
	// Attrs holds the attribute annotations in source order, verbatim.
	Attrs []string
	// Pub marks public visibility; the default is module-private.
	Pub  bool
	Kind DeclKind
	// Name is the program-visible identifier. It stays unmangled in the
	// output; only the link target changes.
	Name string
	// Params is the parenthesized parameter list for KindFunc, verbatim,
	// delimiters included.
	Params string
	// Return is the return type for KindFunc, empty when the function
	// returns nothing.
	Return string
	// Type is the declared type for KindData.
	Type string
}

// LinkName returns the link target of the declaration under tag.
func (d *Decl) LinkName(tag string) string {
	return d.Name + "_" + tag
}

// Batch is an ordered sequence of recognized declarations plus the verbatim
// items that the rewriting pass does not touch. Declaration order is the
// textual order of the input and is preserved through rewriting: it can
// affect diagnostics and, in some toolchains, linkage precedence.
type Batch struct {
	Decls []Decl
	// Passthrough holds the items outside the declaration grammar, in
	// source order. They are emitted after the external-linkage block,
	// byte for byte.
	Passthrough []string
}
