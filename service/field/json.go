package field

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var codeBlockPattern = regexp.MustCompile("(?s)```([a-zA-Z]*)\\s*\\n?(.*?)```")

// extractJSON returns the first valid JSON object or array found in model
// output, looking into markdown code blocks first
func extractJSON(output string) (string, error) {
	for _, match := range codeBlockPattern.FindAllStringSubmatch(output, -1) {
		lang := strings.ToLower(match[1])
		if lang != "" && lang != "json" {
			continue
		}
		content := strings.TrimSpace(match[2])
		if (strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[")) && json.Valid([]byte(content)) {
			return content, nil
		}
	}
	for offset := 0; offset < len(output); {
		index := strings.IndexAny(output[offset:], "{[")
		if index == -1 {
			break
		}
		start := offset + index
		if fragment := matchBrackets(output[start:]); fragment != "" && json.Valid([]byte(fragment)) {
			return fragment, nil
		}
		offset = start + 1
	}
	return "", fmt.Errorf("%w: no json found in %q", ErrParse, output)
}

// matchBrackets returns the prefix of s up to the bracket closing s[0]
func matchBrackets(s string) string {
	open := s[0]
	closing := byte('}')
	if open == '[' {
		closing = ']'
	}
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closing:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
