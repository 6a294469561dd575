package template

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	placeholderCode = iota
	textCode
	openBraceCode
)

var (
	placeholderToken = parsly.NewToken(placeholderCode, "Placeholder", &placeholderMatcher{})
	textToken        = parsly.NewToken(textCode, "Text", &textMatcher{})
	openBraceToken   = parsly.NewToken(openBraceCode, "{", matcher.NewByte('{'))
)

// placeholderMatcher matches {name} where name is an identifier optionally
// containing dots or dashes
type placeholderMatcher struct{}

func (m *placeholderMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos+2 >= size || input[pos] != '{' {
		return 0
	}
	if !isLetter(input[pos+1]) && input[pos+1] != '_' {
		return 0
	}
	for i := pos + 2; i < size; i++ {
		switch c := input[i]; {
		case c == '}':
			return i - pos + 1
		case isLetter(c), isDigit(c), c == '_', c == '.', c == '-':
		default:
			return 0
		}
	}
	return 0
}

// textMatcher matches everything up to the next open brace
type textMatcher struct{}

func (m *textMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if input[i] == '{' {
			break
		}
		matched++
	}
	return matched
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
