package compiler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/roach88/noisegraph/internal/ir"
)

// TokenType identifies a lexical token.
type TokenType int

const (
	EOF TokenType = iota
	NUMBER
	IDENT
	NODEREF // $N
	PLUS
	MINUS
	STAR
	SLASH
	CARET
	LPAREN
	RPAREN
	COMMA
)

var tokenNames = [...]string{
	EOF:     "end of expression",
	NUMBER:  "number",
	IDENT:   "identifier",
	NODEREF: "node reference",
	PLUS:    "'+'",
	MINUS:   "'-'",
	STAR:    "'*'",
	SLASH:   "'/'",
	CARET:   "'^'",
	LPAREN:  "'('",
	RPAREN:  "')'",
	COMMA:   "','",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is one lexeme with its byte offset in the source.
type Token struct {
	Type   TokenType
	Lexeme string
	Num    float64 // NUMBER value, or NODEREF index
	Pos    int
}

func (t Token) describe() string {
	switch t.Type {
	case EOF:
		return t.Type.String()
	case NUMBER, IDENT, NODEREF:
		return fmt.Sprintf("%s %q", t.Type, t.Lexeme)
	default:
		return t.Type.String()
	}
}

var punct = map[rune]TokenType{
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	'^': CARET,
	'(': LPAREN,
	')': RPAREN,
	',': COMMA,
}

// lex splits src into tokens, ending with EOF. Identifiers are NFC
// normalized.
func lex(src string) ([]Token, error) {
	var toks []Token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size

		case isDigit(src[i]) || (src[i] == '.' && i+1 < len(src) && isDigit(src[i+1])):
			end := scanNumber(src, i)
			v, err := strconv.ParseFloat(src[i:end], 64)
			if err != nil {
				return nil, newParseError(src, i, "malformed number %q", src[i:end])
			}
			toks = append(toks, Token{Type: NUMBER, Lexeme: src[i:end], Num: v, Pos: i})
			i = end

		case r == '$':
			end := i + 1
			for end < len(src) && isDigit(src[end]) {
				end++
			}
			if end == i+1 {
				return nil, newParseError(src, i, "expected node index after '$'")
			}
			n, err := strconv.ParseUint(src[i+1:end], 10, 32)
			if err != nil {
				return nil, newParseError(src, i, "node index %s out of range", src[i+1:end])
			}
			toks = append(toks, Token{Type: NODEREF, Lexeme: src[i:end], Num: float64(n), Pos: i})
			i = end

		case isIdentStart(r):
			end := i + size
			for end < len(src) {
				r2, s2 := utf8.DecodeRuneInString(src[end:])
				if !isIdentPart(r2) {
					break
				}
				end += s2
			}
			toks = append(toks, Token{Type: IDENT, Lexeme: ir.NormalizeName(src[i:end]), Pos: i})
			i = end

		default:
			tt, ok := punct[r]
			if !ok {
				return nil, newParseError(src, i, "unexpected character %q", r)
			}
			toks = append(toks, Token{Type: tt, Lexeme: string(r), Pos: i})
			i += size
		}
	}
	toks = append(toks, Token{Type: EOF, Pos: len(src)})
	return toks, nil
}

// scanNumber returns the end of the number starting at i: digits, an
// optional fraction and an optional exponent. The exponent is consumed only
// when digits follow it, so "2e" lexes as 2 followed by the identifier e.
func scanNumber(src string, i int) int {
	for i < len(src) && isDigit(src[i]) {
		i++
	}
	if i < len(src) && src[i] == '.' {
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
		}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(src[j]) {
			for j < len(src) && isDigit(src[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// validName reports whether s lexes as a single identifier.
func validName(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	toks, err := lex(s)
	return err == nil && len(toks) == 2 && toks[0].Type == IDENT
}
