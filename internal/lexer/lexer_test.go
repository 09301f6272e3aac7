package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, input string) []Token {
	t.Helper()
	l := New([]byte(input), "test://unit")
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}
	return toks
}

func TestLexerKeywordsAndIdents(t *testing.T) {
	toks := collect(t, "fn struct enum match elif identifier_1")
	require.Len(t, toks, 7)
	assert.Equal(t, FN, toks[0].Type)
	assert.Equal(t, STRUCT, toks[1].Type)
	assert.Equal(t, ENUM, toks[2].Type)
	assert.Equal(t, MATCH, toks[3].Type)
	assert.Equal(t, ELIF, toks[4].Type)
	assert.Equal(t, IDENT, toks[5].Type)
	assert.Equal(t, "identifier_1", toks[5].Literal)
}

func TestLexerNumbers(t *testing.T) {
	toks := collect(t, "1 2.5 10")
	assert.Equal(t, INT, toks[0].Type)
	assert.Equal(t, FLOAT, toks[1].Type)
	assert.Equal(t, "2.5", toks[1].Literal)
	assert.Equal(t, INT, toks[2].Type)
}

func TestLexerStringEscapes(t *testing.T) {
	toks := collect(t, `"a\nb"`)
	require.Equal(t, STRING, toks[0].Type)
	assert.Equal(t, "a\nb", toks[0].Literal)
}

func TestLexerRanges(t *testing.T) {
	toks := collect(t, "0..10 0..=10")
	assert.Equal(t, DOTDOT, toks[1].Type)
	assert.Equal(t, DOTDOTEQ, toks[4].Type)
}

func TestLexerComments(t *testing.T) {
	toks := collect(t, "let x = 1 // trailing comment\nlet y = 2")
	var kinds []TokenType
	for _, tk := range toks {
		kinds = append(kinds, tk.Type)
	}
	assert.NotContains(t, kinds, ILLEGAL)
}

func TestLexerBOMAndNFC(t *testing.T) {
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte("let x = 1")...)
	toks := collect(t, string(withBOM))
	assert.Equal(t, LET, toks[0].Type)
}
