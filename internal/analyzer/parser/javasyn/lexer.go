package javasyn

import (
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a lexical token
type TokenKind int

const (
	Ident TokenKind = iota
	Number
	String
	Char
	TextBlock
	Punct
	LineComment
	BlockComment
)

// Token is one lexical token. Start and End are byte offsets.
type Token struct {
	Kind  TokenKind
	Start int
	End   int
	Text  string
}

// IsComment reports whether the token is a comment
func (t Token) IsComment() bool {
	return t.Kind == LineComment || t.Kind == BlockComment
}

func (t Token) is(kind TokenKind, text string) bool {
	return t.Kind == kind && t.Text == text
}

type lexer struct {
	src  []byte
	pos  int
	toks []Token
	errs int
}

// Lex splits src into tokens. Whitespace is dropped; comments are kept.
// The second result counts unterminated literals and comments.
func Lex(src []byte) ([]Token, int) {
	l := &lexer{src: src}
	l.run()
	return l.toks, l.errs
}

func (l *lexer) emit(kind TokenKind, start int) {
	l.toks = append(l.toks, Token{Kind: kind, Start: start, End: l.pos, Text: string(l.src[start:l.pos])})
}

func (l *lexer) peek(off int) byte {
	if l.pos+off < len(l.src) {
		return l.src[l.pos+off]
	}
	return 0
}

func (l *lexer) run() {
	for l.pos < len(l.src) {
		start := l.pos
		c := l.src[l.pos]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			l.pos++
		case c == '/' && l.peek(1) == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' && l.src[l.pos] != '\r' {
				l.pos++
			}
			l.emit(LineComment, start)
		case c == '/' && l.peek(1) == '*':
			l.pos += 2
			l.until("*/")
			l.emit(BlockComment, start)
		case c == '"' && l.peek(1) == '"' && l.peek(2) == '"':
			l.pos += 3
			l.quoted('"', true)
			l.emit(TextBlock, start)
		case c == '"':
			l.pos++
			l.quoted('"', false)
			l.emit(String, start)
		case c == '\'':
			l.pos++
			l.quoted('\'', false)
			l.emit(Char, start)
		case isDigit(c) || (c == '.' && isDigit(l.peek(1))):
			l.number()
			l.emit(Number, start)
		default:
			r, size := utf8.DecodeRune(l.src[l.pos:])
			if isIdentStart(r) {
				l.ident()
				l.emit(Ident, start)
				continue
			}
			l.pos += size
			l.emit(Punct, start)
		}
	}
}

// until advances past the next occurrence of end, or to EOF.
func (l *lexer) until(end string) {
	for l.pos < len(l.src) {
		if l.src[l.pos] == end[0] && l.pos+len(end) <= len(l.src) && string(l.src[l.pos:l.pos+len(end)]) == end {
			l.pos += len(end)
			return
		}
		l.pos++
	}
	l.errs++
}

// quoted consumes a literal body up to and including its closing quote.
// Single-line literals stop at a line break.
func (l *lexer) quoted(q byte, block bool) {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\\':
			l.pos += 2
			continue
		case block && c == q && l.peek(1) == q && l.peek(2) == q:
			l.pos += 3
			return
		case !block && c == q:
			l.pos++
			return
		case !block && (c == '\n' || c == '\r'):
			l.errs++
			return
		}
		l.pos++
	}
	if l.pos > len(l.src) {
		l.pos = len(l.src)
	}
	l.errs++
}

func (l *lexer) number() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isDigit(c) || c == '.' || c == '_' || isLetter(c):
			l.pos++
		case (c == '+' || c == '-') && l.pos > 0 && isExponent(l.src[l.pos-1]):
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) ident() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRune(l.src[l.pos:])
		if !isIdentPart(r) {
			return
		}
		l.pos += size
	}
}

func isDigit(c byte) bool  { return '0' <= c && c <= '9' }
func isLetter(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }

func isExponent(c byte) bool {
	return c == 'e' || c == 'E' || c == 'p' || c == 'P'
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
