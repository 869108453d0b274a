package command

import (
	"fmt"
	"strings"
	"unicode"
)

// Split tokenizes a line. Whitespace separates words; single quotes are
// literal; double quotes allow backslash escapes; a backslash outside quotes
// escapes the next rune.
func Split(line string) ([]string, error) {
	var (
		words   []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case quote == '"':
			switch r {
			case '"':
				quote = 0
			case '\\':
				escaped = true
			default:
				cur.WriteRune(r)
			}
		case r == '\\':
			escaped = true
			inWord = true
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case unicode.IsSpace(r):
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}

	if quote != 0 {
		return nil, &Error{Kind: ErrUsage, Detail: fmt.Sprintf("unterminated %c quote", quote)}
	}
	if escaped {
		return nil, &Error{Kind: ErrUsage, Detail: "trailing backslash"}
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}
