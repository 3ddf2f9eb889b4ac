// Package lexer implements the single-pass, O(n) scanner that seeds
// the entropy field (spec.md §4.1).
package lexer

import (
	"strconv"
	"strings"

	"github.com/latticec/wfc/pkgs/diag"
	"github.com/latticec/wfc/pkgs/token"
)

// Option configures a Scanner at construction time, following the
// teacher's functional-option idiom (runtime/lexer/v2.LexerOpt).
type Option func(*Scanner)

// WithFileID attaches a file identifier to every token position the
// scanner produces.
func WithFileID(id int) Option {
	return func(s *Scanner) { s.fileID = id }
}

// Scanner turns a source buffer into a finite ordered sequence of
// tokens. It never aborts mid-stream: unrecognised or malformed
// lexemes become a single Invalid token and scanning resumes at the
// next byte, per spec.md §4.1.
type Scanner struct {
	input  []byte
	pos    int
	line   int
	column int
	fileID int

	pending []token.Token
	diags   diag.Bag
}

// New creates a Scanner over src.
func New(src []byte, opts ...Option) *Scanner {
	s := &Scanner{
		input:  src,
		line:   1,
		column: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Diagnostics returns the lexical diagnostics recorded so far: one
// error per Invalid token produced, plus an info-level keyword
// suggestion for each identifier that closely resembles a keyword.
func (s *Scanner) Diagnostics() []diag.Diagnostic {
	return s.diags.Items()
}

// Tokenize runs the scanner to completion and returns every token,
// including the trailing EOF token.
func Tokenize(src []byte, opts ...Option) ([]token.Token, []diag.Diagnostic) {
	s := New(src, opts...)
	var out []token.Token
	for {
		t := s.Next()
		out = append(out, t)
		if t.Kind == token.EOF {
			break
		}
	}
	return out, s.Diagnostics()
}

// Next returns the next token from the input.
func (s *Scanner) Next() token.Token {
	if len(s.pending) > 0 {
		t := s.pending[0]
		s.pending = s.pending[1:]
		return t
	}
	return s.lex()
}

func (s *Scanner) atEnd() bool { return s.pos >= len(s.input) }

func (s *Scanner) cur() byte {
	if s.atEnd() {
		return 0
	}
	return s.input[s.pos]
}

func (s *Scanner) peek(off int) byte {
	p := s.pos + off
	if p >= len(s.input) {
		return 0
	}
	return s.input[p]
}

func (s *Scanner) advance() byte {
	ch := s.input[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return ch
}

func (s *Scanner) posAt(startPos, startLine, startCol int) token.Position {
	return token.Position{
		FileID: s.fileID,
		Line:   startLine,
		Column: startCol,
		Offset: startPos,
		Length: s.pos - startPos,
	}
}

func (s *Scanner) lex() token.Token {
	startLine, startCol := s.line, s.column
	start := s.pos

	if s.atEnd() {
		return token.Token{Kind: token.EOF, Position: s.posAt(start, startLine, startCol)}
	}

	ch := s.cur()

	switch {
	case ch < 128 && isWhitespace[ch]:
		return s.lexWhitespace(start, startLine, startCol)
	case ch == '/' && s.peek(1) == '/':
		return s.lexLineComment(start, startLine, startCol)
	case ch == '/' && s.peek(1) == '*':
		return s.lexBlockComment(start, startLine, startCol)
	case ch < 128 && isIdentStart[ch]:
		return s.lexIdentifier(start, startLine, startCol)
	case ch < 128 && isDigit[ch]:
		return s.lexNumber(start, startLine, startCol)
	case ch == '"':
		return s.lexString(start, startLine, startCol)
	case ch == '\'':
		return s.lexChar(start, startLine, startCol)
	default:
		return s.lexOperatorOrPunct(start, startLine, startCol)
	}
}

func (s *Scanner) lexWhitespace(start, line, col int) token.Token {
	for !s.atEnd() && s.cur() < 128 && isWhitespace[s.cur()] {
		s.advance()
	}
	return token.Token{Kind: token.Whitespace, Text: string(s.input[start:s.pos]), Position: s.posAt(start, line, col)}
}

func (s *Scanner) lexLineComment(start, line, col int) token.Token {
	for !s.atEnd() && s.cur() != '\n' {
		s.advance()
	}
	return token.Token{Kind: token.Comment, Text: string(s.input[start:s.pos]), Position: s.posAt(start, line, col)}
}

// lexBlockComment scans a /* ... */ comment. Nested comments are not
// supported (spec.md §4.1): the first "*/" closes the comment.
func (s *Scanner) lexBlockComment(start, line, col int) token.Token {
	s.advance() // '/'
	s.advance() // '*'
	for {
		if s.atEnd() {
			return s.invalidDelimited(start, line, col, 2, "unterminated block comment")
		}
		if s.cur() == '*' && s.peek(1) == '/' {
			s.advance()
			s.advance()
			return token.Token{Kind: token.Comment, Text: string(s.input[start:s.pos]), Position: s.posAt(start, line, col)}
		}
		s.advance()
	}
}

func (s *Scanner) lexIdentifier(start, line, col int) token.Token {
	for !s.atEnd() && s.cur() < 128 && isIdentPart[s.cur()] {
		s.advance()
	}
	text := string(s.input[start:s.pos])
	kind := token.Identifier
	if keywords[text] {
		kind = token.Keyword
	}
	pos := s.posAt(start, line, col)
	if kind == token.Identifier {
		s.suggestKeyword(text, pos)
	}
	return token.Token{Kind: kind, Text: text, Position: pos}
}

func (s *Scanner) lexNumber(start, line, col int) token.Token {
	for !s.atEnd() && s.cur() < 128 && isDigit[s.cur()] {
		s.advance()
	}
	isFloat := false
	if s.cur() == '.' && s.peek(1) < 128 && isDigit[s.peek(1)] {
		isFloat = true
		s.advance() // '.'
		for !s.atEnd() && s.cur() < 128 && isDigit[s.cur()] {
			s.advance()
		}
	}

	if s.cur() == 'e' || s.cur() == 'E' {
		if ok, length := validExponent(s.input[s.pos:]); ok {
			isFloat = true
			for i := 0; i < length; i++ {
				s.advance()
			}
		} else {
			// Invalid exponent: emit the number scanned so far now,
			// and queue a single Invalid token for the offending 'e'/'E';
			// scanning resumes at the next byte (spec.md §4.1 errors).
			numTok := s.numberToken(start, line, col, isFloat)
			eLine, eCol, eStart := s.line, s.column, s.pos
			s.advance()
			inv := token.Token{Kind: token.Invalid, Text: string(s.input[eStart:s.pos]), Position: s.posAt(eStart, eLine, eCol)}
			s.diags.Add(diag.Diagnostic{Severity: diag.Error, Category: diag.Lexical, Position: inv.Position, Message: "invalid exponent"})
			s.pending = append(s.pending, inv)
			return numTok
		}
	}

	return s.numberToken(start, line, col, isFloat)
}

func (s *Scanner) numberToken(start, line, col int, isFloat bool) token.Token {
	text := string(s.input[start:s.pos])
	t := token.Token{Position: s.posAt(start, line, col), Text: text, HasValue: true}
	if isFloat {
		t.Kind = token.FloatLiteral
		f, _ := strconv.ParseFloat(text, 64)
		t.Value = token.Value{Float: f, IsReal: true}
	} else {
		t.Kind = token.IntLiteral
		n, _ := strconv.ParseInt(text, 10, 64)
		t.Value = token.Value{Int: n}
	}
	return t
}

// validExponent checks whether buf (starting at 'e'/'E') forms a valid
// exponent per spec.md §4.1: [eE][+-]?[0-9]+. Returns the byte length
// of the exponent if valid.
func validExponent(buf []byte) (bool, int) {
	i := 1 // skip e/E
	if i < len(buf) && (buf[i] == '+' || buf[i] == '-') {
		i++
	}
	digitsStart := i
	for i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
		i++
	}
	if i == digitsStart {
		return false, 0
	}
	return true, i
}

func (s *Scanner) lexString(start, line, col int) token.Token {
	s.advance() // opening quote
	var raw strings.Builder
	for {
		if s.atEnd() || s.cur() == '\n' {
			return s.invalidDelimited(start, line, col, 1, "unterminated string")
		}
		if s.cur() == '"' {
			s.advance()
			text := string(s.input[start:s.pos])
			return token.Token{
				Kind:     token.StringLiteral,
				Text:     text,
				Position: s.posAt(start, line, col),
				HasValue: true,
				Value:    token.Value{Str: raw.String()},
			}
		}
		if s.cur() == '\\' {
			s.advance()
			raw.WriteByte(unescape(s.cur()))
			if !s.atEnd() {
				s.advance()
			}
			continue
		}
		raw.WriteByte(s.cur())
		s.advance()
	}
}

func (s *Scanner) lexChar(start, line, col int) token.Token {
	s.advance() // opening quote
	if s.atEnd() || s.cur() == '\n' {
		return s.invalidDelimited(start, line, col, 1, "unterminated char literal")
	}
	var value byte
	if s.cur() == '\\' {
		s.advance()
		value = unescape(s.cur())
		if !s.atEnd() {
			s.advance()
		}
	} else {
		value = s.cur()
		s.advance()
	}
	if s.atEnd() || s.cur() != '\'' {
		return s.invalidDelimited(start, line, col, 1, "unterminated char literal")
	}
	s.advance() // closing quote
	return token.Token{
		Kind:     token.CharLiteral,
		Text:     string(s.input[start:s.pos]),
		Position: s.posAt(start, line, col),
		HasValue: true,
		Value:    token.Value{Str: string(value)},
	}
}

func unescape(ch byte) byte {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return ch
	}
}

// invalidDelimited emits a single Invalid token spanning only the
// offending delimiter (the already-consumed opener), rewinding so that
// scanning resumes at the byte right after it — the uniform recovery
// rule for unterminated strings/chars/block comments (spec.md §4.1).
func (s *Scanner) invalidDelimited(start, line, col, delimLen int, msg string) token.Token {
	s.pos = start + delimLen
	s.line, s.column = line, col+delimLen
	tok := token.Token{Kind: token.Invalid, Text: string(s.input[start:s.pos]), Position: s.posAt(start, line, col)}
	s.diags.Add(diag.Diagnostic{Severity: diag.Error, Category: diag.Lexical, Position: tok.Position, Message: msg})
	return tok
}

func (s *Scanner) lexOperatorOrPunct(start, line, col int) token.Token {
	b0 := s.cur()

	if b0 < 128 {
		if b1, b2 := s.peek(1), s.peek(2); b1 != 0 {
			if b2 != 0 {
				if operators3[string([]byte{b0, b1, b2})] {
					s.advance()
					s.advance()
					s.advance()
					return token.Token{Kind: token.Operator, Text: string(s.input[start:s.pos]), Position: s.posAt(start, line, col)}
				}
			}
			if _, ok := compoundOf(b0, b1); ok {
				s.advance()
				s.advance()
				return token.Token{Kind: token.Operator, Text: string(s.input[start:s.pos]), Position: s.posAt(start, line, col)}
			}
		}
		if operators1[b0] {
			s.advance()
			return token.Token{Kind: token.Operator, Text: string(s.input[start:s.pos]), Position: s.posAt(start, line, col)}
		}
		if singleChar[b0] == token.Punctuation {
			s.advance()
			return token.Token{Kind: token.Punctuation, Text: string(s.input[start:s.pos]), Position: s.posAt(start, line, col)}
		}
	}

	s.advance()
	tok := token.Token{Kind: token.Invalid, Text: string(s.input[start:s.pos]), Position: s.posAt(start, line, col)}
	s.diags.Add(diag.Diagnostic{Severity: diag.Error, Category: diag.Lexical, Position: tok.Position, Message: "unrecognised byte"})
	return tok
}
