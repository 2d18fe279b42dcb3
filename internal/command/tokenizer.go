package command

import "strings"

// Tokenize splits a command line on spaces. A double quote starts a run that
// may contain spaces; the token ends at the closing quote, so `a"b c"d`
// yields "ab c" and "d". An unterminated quote runs to the end of the line.
func Tokenize(line string) []string {
	var tokens []string
	i, n := 0, len(line)
	for {
		for i < n && line[i] == ' ' {
			i++
		}
		if i >= n {
			return tokens
		}

		var sb strings.Builder
		for i < n && line[i] != ' ' {
			if line[i] == '"' {
				i++
				for i < n && line[i] != '"' {
					sb.WriteByte(line[i])
					i++
				}
				i++
				break
			}
			sb.WriteByte(line[i])
			i++
		}
		tokens = append(tokens, sb.String())
	}
}

// Parse tokenizes line and returns the lowercased command name and its
// arguments. The name is empty for a blank line.
func Parse(line string) (string, []string) {
	tokens := Tokenize(strings.TrimSpace(line))
	if len(tokens) == 0 {
		return "", nil
	}
	return strings.ToLower(tokens[0]), tokens[1:]
}
