package mangle

import (
	"fmt"
	"strings"

	"go.symver.io/symver/lib/vtag"
)

// Rewrite parses the declaration batch in src and emits the equivalent batch
// in which every recognized symbol carries an explicit link-name override of
// the form <name>_<tag>. The same src and tag always produce the same bytes.
//
// Rewriting the rewriter's own output is not supported: emitted declarations
// already carry link-name overrides and are outside the input grammar.
func Rewrite(src []byte, tag string) ([]byte, error) {
	if !vtag.IsIdentifierSafe(tag) {
		return nil, fmt.Errorf("invalid version tag %q: must contain only alphanumerics and underscore", tag)
	}
	b, err := Parse(string(src))
	if err != nil {
		return nil, err
	}
	return []byte(b.Emit(tag)), nil
}

// Emit renders the batch as one external-linkage block followed by the
// untouched passthrough items. Recognized declarations keep their original
// relative order, attributes and visibility; only the link-name override is
// added, so the program-visible identifier stays unmangled while the linker
// resolves the mangled name. An empty batch renders as nothing.
func (b *Batch) Emit(tag string) string {
	var out strings.Builder

	if len(b.Decls) > 0 {
		out.WriteString("extern {\n")
		for i := range b.Decls {
			if i > 0 {
				out.WriteByte('\n')
			}
			b.Decls[i].emit(&out, tag)
		}
		out.WriteString("}\n")
	}

	for i, item := range b.Passthrough {
		if i == 0 && len(b.Decls) > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(item)
		if !strings.HasSuffix(item, "\n") {
			out.WriteByte('\n')
		}
	}

	return out.String()
}

func (d *Decl) emit(out *strings.Builder, tag string) {
	fmt.Fprintf(out, "    #[link_name = %q]\n", d.LinkName(tag))
	for _, attr := range d.Attrs {
		out.WriteString("    ")
		out.WriteString(attr)
		out.WriteByte('\n')
	}
	out.WriteString("    ")
	if d.Pub {
		out.WriteString("pub ")
	}
	switch d.Kind {
	case KindFunc:
		out.WriteString("fn ")
		out.WriteString(d.Name)
		out.WriteString(d.Params)
		if d.Return != "" {
			out.WriteString(" -> ")
			out.WriteString(d.Return)
		}
	case KindData:
		out.WriteString("static ")
		out.WriteString(d.Name)
		out.WriteString(": ")
		out.WriteString(d.Type)
	}
	out.WriteString(";\n")
}
