package dsl

import (
	"html"
	"strings"

	derrors "github.com/matzehuels/dotflow/pkg/errors"
)

type attr struct {
	key   string
	value string
}

// splitAttrs splits `k=v, k2="a, b"` into pairs. Commas and '=' inside
// single or double quotes are kept; surrounding quotes are stripped.
func splitAttrs(s string) ([]attr, error) {
	var (
		out    []attr
		buf    strings.Builder
		quote  rune
		escape bool
	)
	pieces := make([]string, 0, 4)

	for _, r := range s {
		switch {
		case escape:
			escape = false
		case quote != 0 && r == '\\':
			escape = true
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
		case quote == 0 && r == ',':
			pieces = append(pieces, buf.String())
			buf.Reset()
			continue
		}
		buf.WriteRune(r)
	}
	if quote != 0 {
		return nil, derrors.New(derrors.ErrCodeParse, "unterminated quote in attribute list")
	}
	pieces = append(pieces, buf.String())

	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		eq := indexOutsideQuotes(p, '=')
		if eq <= 0 {
			return nil, derrors.New(derrors.ErrCodeParse, "attribute %q is not key=value", p)
		}
		key := strings.ToLower(strings.TrimSpace(p[:eq]))
		out = append(out, attr{key: key, value: unquote(strings.TrimSpace(p[eq+1:]))})
	}
	return out, nil
}

// indexOutsideQuotes returns the byte index of the first c not inside quotes.
func indexOutsideQuotes(s string, c byte) int {
	var quote byte
	for i := 0; i < len(s); i++ {
		switch {
		case quote != 0 && s[i] == '\\':
			i++
		case quote != 0 && s[i] == quote:
			quote = 0
		case quote == 0 && (s[i] == '"' || s[i] == '\''):
			quote = s[i]
		case quote == 0 && s[i] == c:
			return i
		}
	}
	return -1
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// unescapeLabel reverses the serializer's label escaping, so DOT output can
// be fed back in. It applies to every label source (label= values and the
// ": LABEL" suffix): \n, \\ and \" are decoded, and so are HTML entity
// references, so a literal "&lt;" must be written as "&amp;lt;".
func unescapeLabel(s string) string {
	if strings.ContainsRune(s, '\\') {
		var b strings.Builder
		for i := 0; i < len(s); i++ {
			if s[i] == '\\' && i+1 < len(s) {
				switch s[i+1] {
				case 'n':
					b.WriteByte('\n')
					i++
					continue
				case '\\', '"':
					b.WriteByte(s[i+1])
					i++
					continue
				}
			}
			b.WriteByte(s[i])
		}
		s = b.String()
	}
	return html.UnescapeString(s)
}
