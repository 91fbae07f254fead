package wgsl

import (
	"unicode"
	"unicode/utf8"
)

// TokenKind represents the type of token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenNumber
	TokenPunct
)

// String returns the string representation of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenIdent:
		return "Ident"
	case TokenNumber:
		return "Number"
	case TokenPunct:
		return "Punct"
	default:
		return "Unknown"
	}
}

// Token represents a lexical token.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Span   Span
}

// Is reports whether the token is the given punctuation.
func (t Token) Is(punct string) bool {
	return t.Kind == TokenPunct && t.Lexeme == punct
}

// IsIdent reports whether the token is the given identifier or keyword.
func (t Token) IsIdent(name string) bool {
	return t.Kind == TokenIdent && t.Lexeme == name
}

// Scanner tokenizes WGSL source code.
//
// The scanner is deliberately coarse: every identifier and keyword is a
// TokenIdent, numeric literals are permissive, and each operator character
// is its own TokenPunct. Composition only needs module-level structure,
// so classifying the full WGSL operator set would be wasted work.
type Scanner struct {
	source string
	pos    int
	line   int
	column int
}

// NewScanner creates a new scanner for the given source.
func NewScanner(source string) *Scanner {
	return &Scanner{
		source: source,
		pos:    0,
		line:   1,
		column: 1,
	}
}

// Tokenize returns all tokens from the source.
func Tokenize(source string) ([]Token, *SourceError) {
	s := NewScanner(source)
	// Estimate ~1 token per 5 characters of source.
	estTokens := len(source) / 5
	if estTokens < 16 {
		estTokens = 16
	}
	tokens := make([]Token, 0, estTokens)
	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

// Next returns the next token from the source.
func (s *Scanner) Next() (Token, *SourceError) {
	if err := s.skipTrivia(); err != nil {
		return Token{}, err
	}
	start := s.position()

	if s.isAtEnd() {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}, nil
	}

	r := s.peek()
	switch {
	case isIdentStart(r):
		startPos := s.pos
		for !s.isAtEnd() && isIdentContinue(s.peek()) {
			s.advance()
		}
		return Token{
			Kind:   TokenIdent,
			Lexeme: s.source[startPos:s.pos],
			Span:   Span{Start: start, End: s.position()},
		}, nil

	case unicode.IsDigit(r):
		startPos := s.pos
		for !s.isAtEnd() && isNumberContinue(s.peek()) {
			s.advance()
		}
		return Token{
			Kind:   TokenNumber,
			Lexeme: s.source[startPos:s.pos],
			Span:   Span{Start: start, End: s.position()},
		}, nil

	case isPunct(r):
		startPos := s.pos
		s.advance()
		// "->" is the one multi-character token composition cares about:
		// it introduces a return type.
		if r == '-' && !s.isAtEnd() && s.peek() == '>' {
			s.advance()
		}
		return Token{
			Kind:   TokenPunct,
			Lexeme: s.source[startPos:s.pos],
			Span:   Span{Start: start, End: s.position()},
		}, nil

	default:
		return Token{}, NewSourceErrorf(
			Span{Start: start, End: start},
			s.source,
			"unexpected character %q", r,
		)
	}
}

// skipTrivia consumes whitespace and comments. WGSL block comments nest.
func (s *Scanner) skipTrivia() *SourceError {
	for !s.isAtEnd() {
		r := s.peek()
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			s.advance()
		case r == '/' && s.peekAt(1) == '/':
			for !s.isAtEnd() && s.peek() != '\n' {
				s.advance()
			}
		case r == '/' && s.peekAt(1) == '*':
			open := s.position()
			s.advance()
			s.advance()
			depth := 1
			for depth > 0 {
				if s.isAtEnd() {
					return NewSourceError("unterminated block comment", Span{Start: open, End: open}, s.source)
				}
				if s.peek() == '/' && s.peekAt(1) == '*' {
					s.advance()
					s.advance()
					depth++
				} else if s.peek() == '*' && s.peekAt(1) == '/' {
					s.advance()
					s.advance()
					depth--
				} else {
					s.advance()
				}
			}
		default:
			return nil
		}
	}
	return nil
}

func (s *Scanner) position() Position {
	return Position{Line: s.line, Column: s.column, Offset: s.pos}
}

func (s *Scanner) isAtEnd() bool {
	return s.pos >= len(s.source)
}

func (s *Scanner) peek() rune {
	if s.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.source[s.pos:])
	return r
}

func (s *Scanner) peekAt(n int) rune {
	pos := s.pos
	for i := 0; i < n; i++ {
		if pos >= len(s.source) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(s.source[pos:])
		pos += size
	}
	if pos >= len(s.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.source[pos:])
	return r
}

func (s *Scanner) advance() rune {
	r, size := utf8.DecodeRuneInString(s.source[s.pos:])
	s.pos += size
	if r == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return r
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isNumberContinue is permissive: it accepts everything that can appear in
// a WGSL numeric literal body (digits, hex, suffixes, decimal point). An
// exponent sign splits the literal into extra tokens, which is harmless for
// structural scanning.
func isNumberContinue(r rune) bool {
	return r == '.' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isPunct(r rune) bool {
	switch r {
	case '(', ')', '{', '}', '[', ']', ',', '.', ':', ';', '@', '<', '>',
		'=', '+', '-', '*', '/', '%', '&', '|', '^', '~', '!':
		return true
	}
	return false
}
