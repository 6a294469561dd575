package meta

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// expandEnvExpr replaces ${env.KEY} with the KEY environment variable value, unset keys expand to "".
// Keys other than letters, digits and '_' leave the prefix as literal text and scanning resumes after it.
func expandEnvExpr(value string) string {
	if !strings.Contains(value, envPrefix) {
		return value
	}
	var out strings.Builder
	for {
		before, rest, found := strings.Cut(value, envPrefix)
		out.WriteString(before)
		if !found {
			break
		}
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			out.WriteString(envPrefix)
			out.WriteString(rest)
			break
		}
		key := rest[:end]
		if !isEnvKey(key) {
			out.WriteString(envPrefix)
			value = rest
			continue
		}
		out.WriteString(os.Getenv(key))
		value = rest[end+1:]
	}
	return out.String()
}

func isEnvKey(key string) bool {
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
