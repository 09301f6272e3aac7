package ast

import (
	"fmt"
	"strings"
)

// Print renders a File as a deterministic, human-readable tree, used by
// the parser's golden tests.
func Print(f *File) string {
	var b strings.Builder
	for _, dep := range f.Dependencies {
		fmt.Fprintf(&b, "use %s\n", dep.Path)
	}
	for _, d := range f.Decls {
		printDecl(&b, d, 0)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func printDecl(b *strings.Builder, d Decl, depth int) {
	indent(b, depth)
	switch decl := d.(type) {
	case *StructDecl:
		fmt.Fprintf(b, "struct %s(%v) {\n", decl.Name, decl.Generics)
		for _, f := range decl.Fields {
			indent(b, depth+1)
			fmt.Fprintf(b, "%s\n", f.Name)
		}
		indent(b, depth)
		b.WriteString("}\n")
	case *EnumDecl:
		fmt.Fprintf(b, "enum %s(%v) {\n", decl.Name, decl.Generics)
		for _, v := range decl.Variants {
			indent(b, depth+1)
			fmt.Fprintf(b, "%s\n", v.Name)
		}
		indent(b, depth)
		b.WriteString("}\n")
	case *FnDecl:
		fmt.Fprintf(b, "fn %s(%v)\n", decl.Name, decl.Generics)
	case *ConstDecl:
		fmt.Fprintf(b, "const %s\n", decl.Name)
	}
}
