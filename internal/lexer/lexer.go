// Package lexer provides tokenization for Yul source code.
//
// The lexer converts a Yul source string into a sequence of tokens,
// handling:
// - Keywords (let, function, if, switch, for, ...)
// - Identifiers (which may contain '.' and '$')
// - Numeric literals (decimal and hex), string literals and hex"..." strings
// - Punctuation including ":=" and "->"
// - Comments (line and block)
package lexer

// ----------------------------------------------------------------------------
// Token Types
// ----------------------------------------------------------------------------

// TokenKind represents the type of a token.
type TokenKind uint8

const (
	TokError TokenKind = iota
	TokEOF

	// Literals
	TokNumber
	TokString
	TokHexString
	TokTrue
	TokFalse

	// Identifiers
	TokIdent

	// Keywords
	TokLet
	TokFunction
	TokIf
	TokSwitch
	TokCase
	TokDefault
	TokFor
	TokBreak
	TokContinue
	TokLeave

	// Delimiters
	TokLBrace      // {
	TokRBrace      // }
	TokLParen      // (
	TokRParen      // )
	TokComma       // ,
	TokColon       // :
	TokColonAssign // :=
	TokArrow       // ->
)

// String returns the string representation of a token kind.
func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "unknown"
}

var tokenNames = [...]string{
	TokError:       "error",
	TokEOF:         "EOF",
	TokNumber:      "number",
	TokString:      "string",
	TokHexString:   "hex string",
	TokTrue:        "true",
	TokFalse:       "false",
	TokIdent:       "identifier",
	TokLet:         "let",
	TokFunction:    "function",
	TokIf:          "if",
	TokSwitch:      "switch",
	TokCase:        "case",
	TokDefault:     "default",
	TokFor:         "for",
	TokBreak:       "break",
	TokContinue:    "continue",
	TokLeave:       "leave",
	TokLBrace:      "{",
	TokRBrace:      "}",
	TokLParen:      "(",
	TokRParen:      ")",
	TokComma:       ",",
	TokColon:       ":",
	TokColonAssign: ":=",
	TokArrow:       "->",
}

// ----------------------------------------------------------------------------
// Token
// ----------------------------------------------------------------------------

// Token represents a lexical token.
type Token struct {
	Kind  TokenKind
	Start int    // Byte offset in source
	End   int    // Byte offset of end (exclusive)
	Value string // For identifiers, literals and error messages
}

// Text returns the source text of the token.
func (t Token) Text(source string) string {
	if t.Start >= 0 && t.End <= len(source) {
		return source[t.Start:t.End]
	}
	return ""
}

// ----------------------------------------------------------------------------
// Keywords
// ----------------------------------------------------------------------------

// Keywords maps keyword strings to their token kinds.
var Keywords = map[string]TokenKind{
	"break":    TokBreak,
	"case":     TokCase,
	"continue": TokContinue,
	"default":  TokDefault,
	"false":    TokFalse,
	"for":      TokFor,
	"function": TokFunction,
	"if":       TokIf,
	"leave":    TokLeave,
	"let":      TokLet,
	"switch":   TokSwitch,
	"true":     TokTrue,
}

// ----------------------------------------------------------------------------
// Lexer
// ----------------------------------------------------------------------------

// Lexer tokenizes Yul source code.
type Lexer struct {
	source string
	pos    int
	tokens []Token
}

// New creates a new lexer for the given source.
func New(source string) *Lexer {
	return &Lexer{
		source: source,
		tokens: make([]Token, 0, len(source)/4),
	}
}

// Tokenize returns all tokens in the source. The last token is always
// TokEOF or TokError.
func (l *Lexer) Tokenize() []Token {
	for {
		tok := l.Next()
		l.tokens = append(l.tokens, tok)
		if tok.Kind == TokEOF || tok.Kind == TokError {
			break
		}
	}
	return l.tokens
}

// Next returns the next token.
func (l *Lexer) Next() Token {
	if msg := l.skipWhitespaceAndComments(); msg != "" {
		return Token{Kind: TokError, Start: l.pos, End: l.pos, Value: msg}
	}

	if l.pos >= len(l.source) {
		return Token{Kind: TokEOF, Start: l.pos, End: l.pos}
	}

	ch := l.source[l.pos]

	if isIdentStart(ch) {
		return l.scanIdentOrKeyword()
	}

	if isDigit(ch) {
		return l.scanNumber()
	}

	if ch == '"' {
		return l.scanString()
	}

	return l.scanPunctuation()
}

// ----------------------------------------------------------------------------
// Scanning Helpers
// ----------------------------------------------------------------------------

// skipWhitespaceAndComments advances past insignificant input. It returns a
// non-empty message if a block comment is left open.
func (l *Lexer) skipWhitespaceAndComments() string {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]

		if isWhitespace(ch) {
			l.pos++
			continue
		}

		if ch == '/' && l.pos+1 < len(l.source) && l.source[l.pos+1] == '/' {
			l.pos += 2
			for l.pos < len(l.source) && l.source[l.pos] != '\n' {
				l.pos++
			}
			continue
		}

		// Block comments do not nest.
		if ch == '/' && l.pos+1 < len(l.source) && l.source[l.pos+1] == '*' {
			start := l.pos
			l.pos += 2
			for {
				if l.pos+1 >= len(l.source) {
					l.pos = start
					return "unterminated block comment"
				}
				if l.source[l.pos] == '*' && l.source[l.pos+1] == '/' {
					l.pos += 2
					break
				}
				l.pos++
			}
			continue
		}

		break
	}
	return ""
}

func (l *Lexer) scanIdentOrKeyword() Token {
	start := l.pos
	for l.pos < len(l.source) && isIdentContinue(l.source[l.pos]) {
		l.pos++
	}

	text := l.source[start:l.pos]
	if text == "hex" && l.pos < len(l.source) && (l.source[l.pos] == '"' || l.source[l.pos] == '\'') {
		return l.scanHexString(start)
	}
	if kind, ok := Keywords[text]; ok {
		return Token{Kind: kind, Start: start, End: l.pos, Value: text}
	}
	return Token{Kind: TokIdent, Start: start, End: l.pos, Value: text}
}

func (l *Lexer) scanNumber() Token {
	start := l.pos

	if l.source[l.pos] == '0' && l.pos+1 < len(l.source) && l.source[l.pos+1] == 'x' {
		l.pos += 2
		digits := l.pos
		for l.pos < len(l.source) && isHexDigit(l.source[l.pos]) {
			l.pos++
		}
		if l.pos == digits {
			return Token{Kind: TokError, Start: start, End: l.pos, Value: "hex literal without digits"}
		}
	} else {
		for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
			l.pos++
		}
	}

	// 123abc is not a number followed by an identifier.
	if l.pos < len(l.source) && isIdentContinue(l.source[l.pos]) {
		for l.pos < len(l.source) && isIdentContinue(l.source[l.pos]) {
			l.pos++
		}
		return Token{Kind: TokError, Start: start, End: l.pos, Value: "invalid number literal"}
	}

	return Token{Kind: TokNumber, Start: start, End: l.pos, Value: l.source[start:l.pos]}
}

// scanString scans a double-quoted string. Escapes are kept verbatim in
// Value so the printer can reproduce them unchanged.
func (l *Lexer) scanString() Token {
	start := l.pos
	l.pos++
	for l.pos < len(l.source) {
		switch l.source[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case '\n':
			return Token{Kind: TokError, Start: start, End: l.pos, Value: "unterminated string literal"}
		case '"':
			l.pos++
			return Token{Kind: TokString, Start: start, End: l.pos, Value: l.source[start+1 : l.pos-1]}
		}
		l.pos++
	}
	l.pos = len(l.source)
	return Token{Kind: TokError, Start: start, End: l.pos, Value: "unterminated string literal"}
}

// scanHexString scans the quoted part of hex"00ff" or hex'00_ff'. Digits
// come in pairs; a single underscore may separate two pairs. Value holds
// the text between the quotes.
func (l *Lexer) scanHexString(start int) Token {
	quote := l.source[l.pos]
	l.pos++
	contents := l.pos
	digits := 0
	for l.pos < len(l.source) && l.source[l.pos] != quote {
		ch := l.source[l.pos]
		switch {
		case isHexDigit(ch):
			digits++
		case ch == '_' && digits > 0 && digits%2 == 0 && l.source[l.pos-1] != '_':
		default:
			return Token{Kind: TokError, Start: start, End: l.pos, Value: "invalid character in hex string"}
		}
		l.pos++
	}
	if l.pos >= len(l.source) {
		return Token{Kind: TokError, Start: start, End: l.pos, Value: "unterminated hex string"}
	}
	if digits%2 != 0 || l.source[l.pos-1] == '_' {
		return Token{Kind: TokError, Start: start, End: l.pos + 1, Value: "hex string must contain whole bytes"}
	}
	value := l.source[contents:l.pos]
	l.pos++
	return Token{Kind: TokHexString, Start: start, End: l.pos, Value: value}
}

func (l *Lexer) scanPunctuation() Token {
	start := l.pos
	ch := l.source[l.pos]
	l.pos++

	var next byte
	if l.pos < len(l.source) {
		next = l.source[l.pos]
	}

	switch ch {
	case '{':
		return Token{Kind: TokLBrace, Start: start, End: l.pos}
	case '}':
		return Token{Kind: TokRBrace, Start: start, End: l.pos}
	case '(':
		return Token{Kind: TokLParen, Start: start, End: l.pos}
	case ')':
		return Token{Kind: TokRParen, Start: start, End: l.pos}
	case ',':
		return Token{Kind: TokComma, Start: start, End: l.pos}
	case ':':
		if next == '=' {
			l.pos++
			return Token{Kind: TokColonAssign, Start: start, End: l.pos}
		}
		return Token{Kind: TokColon, Start: start, End: l.pos}
	case '-':
		if next == '>' {
			l.pos++
			return Token{Kind: TokArrow, Start: start, End: l.pos}
		}
	}

	return Token{Kind: TokError, Start: start, End: l.pos, Value: "unexpected character"}
}

// ----------------------------------------------------------------------------
// Character Classification
// ----------------------------------------------------------------------------

var (
	// asciiIdentStart[c] is true if ASCII byte c can start an identifier
	asciiIdentStart [128]bool
	// asciiIdentContinue[c] is true if ASCII byte c can continue an identifier
	asciiIdentContinue [128]bool
	// asciiWhitespace[c] is true if ASCII byte c is whitespace
	asciiWhitespace [128]bool
)

func init() {
	for c := 'a'; c <= 'z'; c++ {
		asciiIdentStart[c] = true
		asciiIdentContinue[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		asciiIdentStart[c] = true
		asciiIdentContinue[c] = true
	}
	for _, c := range "_$" {
		asciiIdentStart[c] = true
		asciiIdentContinue[c] = true
	}

	for c := '0'; c <= '9'; c++ {
		asciiIdentContinue[c] = true
	}
	asciiIdentContinue['.'] = true

	asciiWhitespace[' '] = true
	asciiWhitespace['\t'] = true
	asciiWhitespace['\n'] = true
	asciiWhitespace['\r'] = true
	asciiWhitespace['\v'] = true
	asciiWhitespace['\f'] = true
}

func isWhitespace(ch byte) bool {
	return ch < 128 && asciiWhitespace[ch]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	return ch < 128 && asciiIdentStart[ch]
}

func isIdentContinue(ch byte) bool {
	return ch < 128 && asciiIdentContinue[ch]
}

// IsValidIdentifier reports whether name can be written as an identifier.
func IsValidIdentifier(name string) bool {
	if name == "" || !isIdentStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isIdentContinue(name[i]) {
			return false
		}
	}
	_, keyword := Keywords[name]
	return !keyword
}
