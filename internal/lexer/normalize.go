package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normalize strips a leading UTF-8 byte-order mark and applies Unicode NFC
// normalization, so that source files which are byte-different but
// visually identical (composed vs decomposed accents, a stray BOM) lex to
// the same token stream. Run once at the lexer boundary rather than
// repeatedly during scanning.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, utf8BOM)
	if norm.NFC.IsNormal(src) {
		return src
	}
	return norm.NFC.Bytes(src)
}
