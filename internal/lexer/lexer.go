// Package lexer scans Lox source text into a token stream, the external
// collaborator spec.md §6 describes as the scanner: an infinite sequence of
// Token terminated by a sentinel EOF.
//
// Grounded on go-dws's internal/lexer.Lexer (byte-at-a-time scanning with
// explicit position/line tracking), scaled down from DWScript's much larger
// grammar (no directives, no Unicode-identifier edge cases beyond ASCII
// identifiers) to Lox's.
package lexer

import (
	"strings"

	"github.com/loxlang/golox/internal/diag"
	"github.com/loxlang/golox/internal/token"
)

// Lexer scans one source unit into tokens on demand.
type Lexer struct {
	source  string
	sink    diag.Sink
	start   int
	current int
	line    int
}

// New creates a Lexer over source, reporting scan errors to sink.
func New(source string, sink diag.Sink) *Lexer {
	return &Lexer{source: source, sink: sink, line: 1}
}

// ScanTokens scans the entire source and returns every token, terminated by
// a single EOF token (spec.md §6's "infinite sequence ... terminated by a
// sentinel EndOfFile", truncated here to a finite slice since golox parses
// whole units at a time rather than streaming).
func (l *Lexer) ScanTokens() []token.Token {
	var tokens []token.Token
	for {
		tok, ok := l.scanToken()
		if ok {
			tokens = append(tokens, tok)
		}
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

func (l *Lexer) scanToken() (token.Token, bool) {
	l.skipWhitespaceAndComments()
	l.start = l.current

	if l.isAtEnd() {
		return token.New(token.EOF, "", l.line), true
	}

	c := l.advance()
	switch {
	case c == '(':
		return l.make(token.LeftParen), true
	case c == ')':
		return l.make(token.RightParen), true
	case c == '{':
		return l.make(token.LeftBrace), true
	case c == '}':
		return l.make(token.RightBrace), true
	case c == ',':
		return l.make(token.Comma), true
	case c == '.':
		return l.make(token.Dot), true
	case c == '-':
		return l.make(token.Minus), true
	case c == '+':
		return l.make(token.Plus), true
	case c == ';':
		return l.make(token.Semicolon), true
	case c == '*':
		return l.make(token.Star), true
	case c == '/':
		return l.make(token.Slash), true
	case c == '!':
		if l.match('=') {
			return l.make(token.BangEqual), true
		}
		return l.make(token.Bang), true
	case c == '=':
		if l.match('=') {
			return l.make(token.EqualEqual), true
		}
		return l.make(token.Equal), true
	case c == '<':
		if l.match('=') {
			return l.make(token.LessEqual), true
		}
		return l.make(token.Less), true
	case c == '>':
		if l.match('=') {
			return l.make(token.GreaterEqual), true
		}
		return l.make(token.Greater), true
	case c == '"':
		return l.scanString()
	case isDigit(c):
		return l.scanNumber(), true
	case isAlpha(c):
		return l.scanIdentifier(), true
	default:
		l.sink.SyntaxAtLine(l.line, "Unexpected character.")
		return token.Token{}, false
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\r', '\t':
			l.current++
		case '\n':
			l.line++
			l.current++
		case '/':
			if l.peekNext() == '/' {
				for !l.isAtEnd() && l.peek() != '\n' {
					l.current++
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) scanString() (token.Token, bool) {
	for !l.isAtEnd() && l.peek() != '"' {
		if l.peek() == '\n' {
			l.line++
		}
		l.current++
	}

	if l.isAtEnd() {
		l.sink.SyntaxAtLine(l.line, "Unterminated string.")
		return token.Token{}, false
	}

	l.current++ // closing quote
	return l.make(token.String), true
}

func (l *Lexer) scanNumber() token.Token {
	for isDigit(l.peek()) {
		l.current++
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.current++ // consume '.'
		for isDigit(l.peek()) {
			l.current++
		}
	}
	return l.make(token.Number)
}

func (l *Lexer) scanIdentifier() token.Token {
	for isAlphaNumeric(l.peek()) {
		l.current++
	}
	text := l.source[l.start:l.current]
	if kind, ok := token.Keywords[text]; ok {
		return l.make(kind)
	}
	return l.make(token.Identifier)
}

func (l *Lexer) make(kind token.Kind) token.Token {
	return token.New(kind, l.source[l.start:l.current], l.line)
}

func (l *Lexer) isAtEnd() bool { return l.current >= len(l.source) }

func (l *Lexer) advance() byte {
	c := l.source[l.current]
	l.current++
	return c
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.current++
	return true
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }

// TrimQuotes strips the surrounding quote characters from a raw String
// lexeme, the step spec.md §6 assigns to the evaluator rather than the
// scanner.
func TrimQuotes(lexeme string) string {
	return strings.Trim(lexeme, `"`)
}
