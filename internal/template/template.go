// Package template substitutes {name} placeholders in prompt text.
//
// Substitution is a single pass: values are inserted verbatim and never
// scanned for further placeholders, so input text containing braces is safe.
// Braces that do not form a placeholder, such as JSON examples, are kept as is,
// and so are placeholders without a binding.
package template

import (
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/toolbox"
)

type segment struct {
	text        string
	placeholder bool
}

// Template represents parsed prompt text
type Template struct {
	source   string
	segments []segment
}

// Parse parses text into a template
func Parse(text string) *Template {
	ret := &Template{source: text}
	cursor := parsly.NewCursor("", []byte(text), 0)
	for cursor.Pos < cursor.InputSize {
		matched := cursor.MatchAny(placeholderToken, textToken, openBraceToken)
		switch matched.Code {
		case placeholderToken.Code:
			raw := matched.Text(cursor)
			ret.segments = append(ret.segments, segment{text: raw[1 : len(raw)-1], placeholder: true})
		case textToken.Code, openBraceToken.Code:
			ret.appendText(matched.Text(cursor))
		default:
			ret.appendText(text[cursor.Pos:])
			cursor.Pos = cursor.InputSize
		}
	}
	return ret
}

func (t *Template) appendText(text string) {
	if count := len(t.segments); count > 0 && !t.segments[count-1].placeholder {
		t.segments[count-1].text += text
		return
	}
	t.segments = append(t.segments, segment{text: text})
}

// Names returns distinct placeholder names in order of appearance
func (t *Template) Names() []string {
	var ret []string
	seen := map[string]bool{}
	for _, seg := range t.segments {
		if !seg.placeholder || seen[seg.text] {
			continue
		}
		seen[seg.text] = true
		ret = append(ret, seg.text)
	}
	return ret
}

// Render substitutes placeholders with bindings
func (t *Template) Render(bindings map[string]interface{}) string {
	builder := strings.Builder{}
	builder.Grow(len(t.source))
	for _, seg := range t.segments {
		if !seg.placeholder {
			builder.WriteString(seg.text)
			continue
		}
		value, ok := bindings[seg.text]
		if !ok {
			builder.WriteString("{" + seg.text + "}")
			continue
		}
		builder.WriteString(toolbox.AsString(value))
	}
	return builder.String()
}

// String returns template source
func (t *Template) String() string {
	return t.source
}

// Expand parses and renders text in one step
func Expand(text string, bindings map[string]interface{}) string {
	if !strings.Contains(text, "{") || len(bindings) == 0 {
		return text
	}
	return Parse(text).Render(bindings)
}
