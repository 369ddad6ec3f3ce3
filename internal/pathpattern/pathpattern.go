// Package pathpattern translates route patterns into gorilla/mux path templates.
//
// The accepted syntax:
//
//	/users/:id            named segment, becomes {id}
//	/files/:name(\w+\.go) named segment with a regular expression, becomes {name:\w+\.go}
//	/assets/*/icon        unnamed single segment, becomes {_0:[^/]+}
//	/static/**            catch-all tail, becomes {_:.*}
//	/static/**:path       named catch-all tail, becomes {path:.*}
//	/users/{id:[0-9]+}    gorilla templates pass through unchanged
package pathpattern

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Translate turns pattern into a gorilla/mux template.
func Translate(pattern string) (string, error) {
	if !strings.HasPrefix(pattern, "/") {
		return "", errors.Newf("pattern %q must start with a slash", pattern)
	}

	var (
		out     strings.Builder
		unnamed int
	)

	for i := 0; i < len(pattern); {
		atSegment := i > 0 && pattern[i-1] == '/'

		switch c := pattern[i]; {
		case c == '{':
			end, err := closing(pattern, i, '{', '}')
			if err != nil {
				return "", err
			}

			out.WriteString(pattern[i : end+1])
			i = end + 1
		case c == ':' && atSegment:
			name, n := readName(pattern[i+1:])
			if name == "" {
				return "", errors.Newf("pattern %q: missing parameter name at offset %d", pattern, i)
			}

			i += 1 + n
			expr := ""

			if i < len(pattern) && pattern[i] == '(' {
				end, err := closing(pattern, i, '(', ')')
				if err != nil {
					return "", err
				}

				expr = pattern[i+1 : end]
				i = end + 1
			}

			writeVar(&out, name, expr)
		case c == '*' && atSegment:
			if strings.HasPrefix(pattern[i:], "**") {
				i += 2
				name := "_"

				if i < len(pattern) && pattern[i] == ':' {
					var n int
					if name, n = readName(pattern[i+1:]); name == "" {
						return "", errors.Newf("pattern %q: missing catch-all name", pattern)
					}

					i += 1 + n
				}

				if i != len(pattern) {
					return "", errors.Newf("pattern %q: catch-all must be the last segment", pattern)
				}

				writeVar(&out, name, ".*")

				continue
			}

			writeVar(&out, "_"+strconv.Itoa(unnamed), "[^/]+")
			unnamed++
			i++
		default:
			out.WriteByte(c)
			i++
		}
	}

	return out.String(), nil
}

// MustTranslate is like Translate but panics on an invalid pattern.
func MustTranslate(pattern string) string {
	tmpl, err := Translate(pattern)
	if err != nil {
		panic("pathpattern: " + err.Error())
	}

	return tmpl
}

func writeVar(out *strings.Builder, name, expr string) {
	out.WriteByte('{')
	out.WriteString(name)

	if expr != "" {
		out.WriteByte(':')
		out.WriteString(expr)
	}

	out.WriteByte('}')
}

func readName(s string) (string, int) {
	n := 0
	for n < len(s) && isNameByte(s[n]) {
		n++
	}

	return s[:n], n
}

func isNameByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// closing returns the index of the delimiter that balances the one at start.
func closing(s string, start int, lb, rb byte) (int, error) {
	depth := 0

	for i := start; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case lb:
			depth++
		case rb:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}

	return 0, errors.Newf("pattern %q: unbalanced %q at offset %d", s, string(lb), start)
}
