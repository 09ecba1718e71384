package export

import (
	"path/filepath"
	"strings"

	derrors "github.com/matzehuels/dotflow/pkg/errors"
)

// Format is an output format token understood by Graphviz's -T flag.
type Format string

const (
	PNG Format = "png" // raster
	SVG Format = "svg" // vector
	PDF Format = "pdf" // document
	JPG Format = "jpg" // raster, embedded renderer only by default
	DOT Format = "dot" // source, written as-is without rendering
)

// Formats lists every supported format in display order.
func Formats() []Format { return []Format{PNG, SVG, PDF, JPG, DOT} }

// ParseFormat accepts a format token case-insensitively, with or without a
// leading dot. "jpeg" is an alias of jpg.
func ParseFormat(s string) (Format, error) {
	t := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if t == "jpeg" {
		t = string(JPG)
	}
	for _, f := range Formats() {
		if string(f) == t {
			return f, nil
		}
	}
	return "", derrors.New(derrors.ErrCodeUnsupportedFormat,
		"unsupported format %q (want one of png, svg, pdf, jpg, dot)", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", derrors.New(derrors.ErrCodeUnsupportedFormat, "%s has no file extension", path)
	}
	return ParseFormat(ext)
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// String implements fmt.Stringer.
func (f Format) String() string { return string(f) }

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case PNG:
		return "image/png"
	case SVG:
		return "image/svg+xml"
	case PDF:
		return "application/pdf"
	case JPG:
		return "image/jpeg"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}
