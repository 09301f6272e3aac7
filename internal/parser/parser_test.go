package parser

import (
	"testing"

	"github.com/oil-lang/oil/internal/ast"
	"github.com/oil-lang/oil/internal/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	l := lexer.New([]byte(src), "test://unit")
	file, errs := ParseFile(l)
	require.Empty(t, errs)
	return file
}

func TestParseStructDecl(t *testing.T) {
	file := parse(t, `struct Point { x: Int, y: Int }`)
	require.Len(t, file.Decls, 1)
	s, ok := file.Decls[0].(*ast.StructDecl)
	require.True(t, ok)
	assert.Equal(t, "Point", s.Name)
	require.Len(t, s.Fields, 2)
	assert.Equal(t, "x", s.Fields[0].Name)
	assert.Equal(t, "y", s.Fields[1].Name)
}

func TestParseEnumDecl(t *testing.T) {
	file := parse(t, `enum Color { R, G, B }`)
	e, ok := file.Decls[0].(*ast.EnumDecl)
	require.True(t, ok)
	assert.Equal(t, "Color", e.Name)
	require.Len(t, e.Variants, 3)
	assert.Equal(t, "R", e.Variants[0].Name)
}

func TestParseGenericFn(t *testing.T) {
	file := parse(t, `fn id[T](x: T): T { x }`)
	fn, ok := file.Decls[0].(*ast.FnDecl)
	require.True(t, ok)
	assert.Equal(t, []string{"T"}, fn.Generics)
	require.Len(t, fn.Params, 1)
	require.NotNil(t, fn.Body)
	require.Len(t, fn.Body.Statements, 1)
}

func TestParseIfElifElse(t *testing.T) {
	file := parse(t, `fn f(): Int { if true { 1 } elif false { 2 } else { 3 } }`)
	fn := file.Decls[0].(*ast.FnDecl)
	stmt := fn.Body.Statements[0].(*ast.ExprStmt)
	ifExpr, ok := stmt.Value.(*ast.If)
	require.True(t, ok)
	require.Len(t, ifExpr.Elifs, 1)
	require.NotNil(t, ifExpr.Else)
}

func TestParseMatchWithDefault(t *testing.T) {
	file := parse(t, `fn n(c: Color): Int { match c { Color.R -> 1, Color.G -> 2, _ -> 3 } }`)
	fn := file.Decls[0].(*ast.FnDecl)
	stmt := fn.Body.Statements[0].(*ast.ExprStmt)
	m, ok := stmt.Value.(*ast.Match)
	require.True(t, ok)
	require.Len(t, m.Cases, 3)
	vp, ok := m.Cases[0].Pattern.(*ast.VariantPattern)
	require.True(t, ok)
	assert.Equal(t, "Color", vp.Enum)
	assert.Equal(t, "R", vp.Variant)
	_, ok = m.Cases[2].Pattern.(*ast.WildcardPattern)
	assert.True(t, ok)
}

func TestParseRangeAndLoop(t *testing.T) {
	file := parse(t, `fn f() { loop { let i = 0..10; break } }`)
	fn := file.Decls[0].(*ast.FnDecl)
	stmt := fn.Body.Statements[0].(*ast.ExprStmt)
	loop, ok := stmt.Value.(*ast.Loop)
	require.True(t, ok)
	letStmt := loop.Body.Statements[0].(*ast.LetStmt)
	rng, ok := letStmt.Value.(*ast.Range)
	require.True(t, ok)
	assert.False(t, rng.Inclusive)
}

func TestParseConditionalLoop(t *testing.T) {
	file := parse(t, `fn f(go: Bool) { loop go { break } }`)
	fn := file.Decls[0].(*ast.FnDecl)
	stmt := fn.Body.Statements[0].(*ast.ExprStmt)
	loop, ok := stmt.Value.(*ast.Loop)
	require.True(t, ok)
	cond, ok := loop.Cond.(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "go", cond.Name)
}

func TestParseUseAsAndForNames(t *testing.T) {
	file := parse(t, "use std.io as io;\nuse std.math { sqrt, abs };\nfn main() {}")
	require.Len(t, file.Dependencies, 2)
	assert.Equal(t, ast.AsName, file.Dependencies[0].Kind)
	assert.Equal(t, "io", file.Dependencies[0].Alias)
	assert.Equal(t, ast.ForNames, file.Dependencies[1].Kind)
	assert.Equal(t, []string{"sqrt", "abs"}, file.Dependencies[1].Names)
}

func TestParseInstanceConstruction(t *testing.T) {
	file := parse(t, `fn f() { Point { x: 1, y: 2 } }`)
	fn := file.Decls[0].(*ast.FnDecl)
	stmt := fn.Body.Statements[0].(*ast.ExprStmt)
	c, ok := stmt.Value.(*ast.Construct)
	require.True(t, ok)
	assert.Equal(t, "Point", c.TypeName)
	require.Len(t, c.Named, 2)
}

func TestParseGoldenStructAndEnum(t *testing.T) {
	file := parse(t, "struct Point { x: Int, y: Int }\nenum Color { R, G, B }\n")
	goldenCompare(t, "struct_and_enum", ast.Print(file))
}

func TestParseOperatorPrecedence(t *testing.T) {
	file := parse(t, `const x: Int = 1 + 2 * 3`)
	c := file.Decls[0].(*ast.ConstDecl)
	bin, ok := c.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, bin.Op)
	rightMul, ok := bin.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, rightMul.Op)
}
