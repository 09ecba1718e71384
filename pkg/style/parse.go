package style

import (
	"sort"
	"strconv"
	"strings"

	derrors "github.com/matzehuels/dotflow/pkg/errors"
)

// NodeKeys lists the attribute keys accepted by [ParseNodeOverrides].
var NodeKeys = []string{"color", "fillcolor", "fontcolor", "fontname", "fontsize", "height", "style", "width"}

// EdgeKeys lists the attribute keys accepted by [ParseEdgeOverrides].
var EdgeKeys = []string{"arrowhead", "arrowtail", "color", "fontcolor", "fontname", "fontsize", "style"}

// ParseNodeOverrides converts DOT-style attribute text into node overrides.
// Keys are case-insensitive. "style" maps to the fill field. An unknown key
// or malformed number is a validation error.
func ParseNodeOverrides(attrs map[string]string) (NodeOverrides, error) {
	var o NodeOverrides
	for _, k := range sortedKeys(attrs) {
		v := attrs[k]
		var err error
		switch strings.ToLower(k) {
		case "color":
			o.Color = Ptr(v)
		case "fillcolor":
			o.FillColor = Ptr(v)
		case "fontcolor":
			o.FontColor = Ptr(v)
		case "fontname":
			o.FontName = Ptr(v)
		case "style":
			o.Fill = Ptr(v)
		case "fontsize":
			o.FontSize, err = parseInt(k, v)
		case "width":
			o.Width, err = parseFloat(k, v)
		case "height":
			o.Height, err = parseFloat(k, v)
		default:
			return NodeOverrides{}, unknownKey("node", k, NodeKeys)
		}
		if err != nil {
			return NodeOverrides{}, err
		}
	}
	return o, nil
}

// ParseEdgeOverrides converts DOT-style attribute text into edge overrides.
// "style" must name a line pattern (solid, dashed, dotted, bold).
func ParseEdgeOverrides(attrs map[string]string) (EdgeOverrides, error) {
	var o EdgeOverrides
	for _, k := range sortedKeys(attrs) {
		v := attrs[k]
		var err error
		switch strings.ToLower(k) {
		case "style":
			l, ok := ParseLine(v)
			if !ok {
				return EdgeOverrides{}, derrors.New(derrors.ErrCodeValidation,
					"invalid edge style %q: want solid, dashed, dotted or bold", v)
			}
			o.Line = &l
		case "color":
			o.Color = Ptr(v)
		case "fontcolor":
			o.FontColor = Ptr(v)
		case "fontname":
			o.FontName = Ptr(v)
		case "arrowhead":
			o.ArrowHead = Ptr(v)
		case "arrowtail":
			o.ArrowTail = Ptr(v)
		case "fontsize":
			o.FontSize, err = parseInt(k, v)
		default:
			return EdgeOverrides{}, unknownKey("edge", k, EdgeKeys)
		}
		if err != nil {
			return EdgeOverrides{}, err
		}
	}
	return o, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parseInt(key, v string) (*int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil, derrors.New(derrors.ErrCodeValidation, "%s must be an integer, got %q", key, v)
	}
	return &n, nil
}

func parseFloat(key, v string) (*float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil, derrors.New(derrors.ErrCodeValidation, "%s must be a number, got %q", key, v)
	}
	return &f, nil
}

func unknownKey(kind, key string, allowed []string) error {
	return derrors.New(derrors.ErrCodeValidation, "unknown %s attribute %q (allowed: %s)",
		kind, key, strings.Join(allowed, ", "))
}
