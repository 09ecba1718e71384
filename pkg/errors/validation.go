package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxLabelLength is the label ceiling used when a graph does not
// configure its own.
const DefaultMaxLabelLength = 1000

// maxStyleValueLength bounds free-form style strings such as colors and font names.
const maxStyleValueLength = 100

var idPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NormalizeID removes every whitespace rune from id, so "Load Data"
// becomes "LoadData". It does not validate the result.
func NormalizeID(id string) string {
	if strings.IndexFunc(id, unicode.IsSpace) < 0 {
		return id
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, id)
}

// ValidateID normalizes id and checks it against [A-Za-z_][A-Za-z0-9_]*.
// It returns the normalized identifier on success.
func ValidateID(id string) (string, error) {
	norm := NormalizeID(id)
	if norm == "" {
		return "", New(ErrCodeValidation, "identifier cannot be empty")
	}
	if !idPattern.MatchString(norm) {
		return "", New(ErrCodeValidation,
			"invalid identifier %q: must start with a letter or underscore and contain only letters, digits and underscores", id)
	}
	return norm, nil
}

// ValidateLabel checks label content. An empty label is valid.
// maxLen <= 0 selects DefaultMaxLabelLength.
func ValidateLabel(label string, maxLen int) error {
	if maxLen <= 0 {
		maxLen = DefaultMaxLabelLength
	}
	if !utf8.ValidString(label) {
		return New(ErrCodeValidation, "label is not valid UTF-8: %q", label)
	}
	if n := utf8.RuneCountInString(label); n > maxLen {
		return New(ErrCodeValidation, "label too long: %d characters (max %d)", n, maxLen)
	}
	if strings.ContainsRune(label, 0) {
		return New(ErrCodeValidation, "label contains a NUL character: %q", label)
	}
	return nil
}

// ValidateStyleValue checks a free-form style string (color, font name, arrow).
func ValidateStyleValue(key, value string) error {
	if len(value) > maxStyleValueLength {
		return New(ErrCodeValidation, "style value for %s too long (max %d characters)", key, maxStyleValueLength)
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeValidation, "style value for %s contains control characters: %q", key, value)
		}
	}
	if strings.ContainsRune(value, '"') {
		return New(ErrCodeValidation, "style value for %s contains a quote: %q", key, value)
	}
	return nil
}
