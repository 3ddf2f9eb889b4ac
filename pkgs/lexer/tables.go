package lexer

import "github.com/latticec/wfc/pkgs/token"

// ASCII classification tables, pre-computed once at package init for a
// fast single-pass scan (teacher idiom: runtime/lexer array jumping).
var (
	isWhitespace [128]bool
	isDigit      [128]bool
	isIdentStart [128]bool
	isIdentPart  [128]bool
	singleChar   [128]token.Kind
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
		isDigit[i] = ch >= '0' && ch <= '9'
		isIdentStart[i] = (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
		isIdentPart[i] = isIdentStart[i] || isDigit[i]
		singleChar[i] = token.Invalid
	}

	for _, p := range "(){}[];,@" {
		singleChar[p] = token.Punctuation
	}
}

// keywords is the fixed promotion list from spec.md §4.1.
var keywords = map[string]bool{
	"region": true, "regime": true,
	"func": true, "fn": true,
	"var": true, "const": true,
	"if": true, "else": true, "while": true, "for": true, "return": true, "break": true, "continue": true,
	"collapse": true, "superpose": true, "periscope": true,
	"fifo": true, "filo": true, "seq": true, "rand": true,
	"int": true, "float": true, "string": true, "char": true, "bool": true,
	"true": true, "false": true, "null": true,
}

// KeywordNames returns the fixed keyword set, used by diagnostics for
// "did you mean" suggestions.
func KeywordNames() []string {
	names := make([]string, 0, len(keywords))
	for k := range keywords {
		names = append(names, k)
	}
	return names
}

// operators3, operators2, operators1 implement maximal-munch lookup:
// the scanner tries the longest match first.
var operators3 = map[string]bool{
	"<<=": true, ">>=": true,
}

var operators2 = map[string]bool{
	"++": true, "--": true, "&&": true, "||": true,
	"==": true, "!=": true, "<=": true, ">=": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true,
	"<<": true, ">>": true, "->": true,
}

var operators1 = map[byte]bool{
	'+': true, '-': true, '*': true, '/': true, '%': true,
	'=': true, '<': true, '>': true, '!': true,
	'&': true, '|': true, '^': true, '~': true, ':': true,
}

// compoundOf reports whether the two single-character operator bytes
// adjacent in source form one of the known two-byte compound
// operators from spec.md §4.3. Used by lexOperatorOrPunct's
// maximal-munch check for the two-byte case.
func compoundOf(a, b byte) (string, bool) {
	s := string([]byte{a, b})
	if operators2[s] {
		return s, true
	}
	return "", false
}
