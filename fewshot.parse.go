package fewshot

import "strings"

// segment is one parsed piece of a pattern: either literal text or a
// placeholder reference.
type segment struct {
	literal string // literal text when name is empty
	name    string // placeholder name when non-empty
}

// parsePattern splits a pattern into segments and collects the distinct
// placeholder names in first-appearance order. Doubled braces escape to
// literal braces; anything else between { and } must be an identifier.
func parsePattern(pattern string) ([]segment, []string, error) {
	var (
		segments []segment
		names    []string
		seen     = map[string]bool{}
		literal  strings.Builder
	)

	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, segment{literal: literal.String()})
			literal.Reset()
		}
	}

	i := 0
	for i < len(pattern) {
		c := pattern[i]
		switch c {
		case '{':
			if strings.HasPrefix(pattern[i:], EscapedOpenDelim) {
				literal.WriteByte('{')
				i += len(EscapedOpenDelim)
				continue
			}
			end := strings.IndexByte(pattern[i+1:], '}')
			if end == -1 {
				return nil, nil, NewMalformedTemplateError(ErrMsgUnbalancedOpen, positionAt(pattern, i))
			}
			name := pattern[i+1 : i+1+end]
			if strings.ContainsAny(name, OpenDelim) {
				return nil, nil, NewMalformedTemplateError(ErrMsgUnbalancedOpen, positionAt(pattern, i))
			}
			if name == "" {
				return nil, nil, NewInvalidPlaceholderError(ErrMsgEmptyPlaceholder, name, positionAt(pattern, i))
			}
			if !isIdentifier(name) {
				return nil, nil, NewInvalidPlaceholderError(ErrMsgInvalidPlaceholder, name, positionAt(pattern, i))
			}
			flush()
			segments = append(segments, segment{name: name})
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
			i += end + 2
		case '}':
			if strings.HasPrefix(pattern[i:], EscapedCloseDelim) {
				literal.WriteByte('}')
				i += len(EscapedCloseDelim)
				continue
			}
			return nil, nil, NewMalformedTemplateError(ErrMsgUnbalancedClose, positionAt(pattern, i))
		default:
			literal.WriteByte(c)
			i++
		}
	}
	flush()

	return segments, names, nil
}

// isIdentifier reports whether name is an identifier-shaped token:
// a letter or underscore followed by letters, digits, or underscores.
func isIdentifier(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return len(name) > 0
}
