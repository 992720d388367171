package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenKind int

const (
	TokIdent TokenKind = iota
	TokNumber
	TokString
	TokOperator
	TokPunct
	TokKeyword
)

func (k TokenKind) String() string {
	switch k {
	case TokIdent:
		return "identifier"
	case TokNumber:
		return "number"
	case TokString:
		return "string"
	case TokOperator:
		return "operator"
	case TokPunct:
		return "punctuation"
	case TokKeyword:
		return "keyword"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is one lexeme of a source line. For strings Text holds the literal
// content without quotes. Space reports whether whitespace precedes the token.
type Token struct {
	Kind  TokenKind
	Text  string
	Pos   int
	Space bool
}

var keywords = map[string]struct{}{
	"func":   {},
	"return": {},
	"if":     {},
	"button": {},
	"and":    {},
	"or":     {},
	"not":    {},
	"true":   {},
	"false":  {},
	"none":   {},
	"True":   {},
	"False":  {},
	"None":   {},
}

func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}

// Tokenize splits one source line. Blank and comment lines yield no tokens.
func Tokenize(line string) ([]Token, error) {
	line = strings.TrimRight(line, "\r\n")
	if IsBlank(line) {
		return nil, nil
	}
	toks := make([]Token, 0, len(line)/2)
	space := true
	for i := 0; i < len(line); {
		ch, size := utf8.DecodeRuneInString(line[i:])
		if unicode.IsSpace(ch) {
			space = true
			i += size
			continue
		}
		start := i
		switch {
		case isDigit(ch):
			j := i + 1
			for j < len(line) && isDigit(rune(line[j])) {
				j++
			}
			if j+1 < len(line) && line[j] == '.' && isDigit(rune(line[j+1])) {
				j += 2
				for j < len(line) && isDigit(rune(line[j])) {
					j++
				}
			}
			if j < len(line) && (line[j] == 'e' || line[j] == 'E') {
				k := j + 1
				if k < len(line) && (line[k] == '+' || line[k] == '-') {
					k++
				}
				if k < len(line) && isDigit(rune(line[k])) {
					for k < len(line) && isDigit(rune(line[k])) {
						k++
					}
					j = k
				}
			}
			if j < len(line) && (isIdentPart(rune(line[j])) || line[j] == '.') {
				return nil, &LexError{Pos: start, Msg: fmt.Sprintf("invalid number literal %q", line[i:j+1]), Text: line}
			}
			toks = append(toks, Token{Kind: TokNumber, Text: line[i:j], Pos: start, Space: space})
			i = j
		case ch == '"' || ch == '\'':
			end := strings.IndexRune(line[i+1:], ch)
			if end < 0 {
				return nil, &LexError{Pos: start, Msg: "unterminated string literal", Text: line}
			}
			toks = append(toks, Token{Kind: TokString, Text: line[i+1 : i+1+end], Pos: start, Space: space})
			i += end + 2
		case isIdentStart(ch):
			j := i + 1
			for j < len(line) && isIdentPart(rune(line[j])) {
				j++
			}
			word := line[i:j]
			kind := TokIdent
			if IsKeyword(word) {
				kind = TokKeyword
			}
			toks = append(toks, Token{Kind: kind, Text: word, Pos: start, Space: space})
			i = j
		case ch == '(' || ch == ')' || ch == ',':
			toks = append(toks, Token{Kind: TokPunct, Text: string(ch), Pos: start, Space: space})
			i++
		default:
			if i+1 < len(line) {
				two := line[i : i+2]
				switch two {
				case "==", "!=", "<=", ">=", "&&", "||":
					toks = append(toks, Token{Kind: TokOperator, Text: two, Pos: start, Space: space})
					i += 2
					space = false
					continue
				}
			}
			switch ch {
			case '+', '-', '*', '/', '%', '=', '<', '>', '!':
				toks = append(toks, Token{Kind: TokOperator, Text: string(ch), Pos: start, Space: space})
				i++
			default:
				return nil, &LexError{Pos: start, Msg: fmt.Sprintf("unexpected character %q", ch), Text: line}
			}
		}
		space = false
	}
	return toks, nil
}

// IsBlank reports whether a line is empty or a full-line comment.
func IsBlank(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

// IsIdent reports whether name is a valid function, variable or button name.
func IsIdent(name string) bool {
	if name == "" || IsKeyword(name) {
		return false
	}
	for i, r := range name {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}
