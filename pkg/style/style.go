package style

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	derrors "github.com/matzehuels/dotflow/pkg/errors"
)

// NodeStyle is the concrete appearance of a node.
// A zero field inside a [Theme] means "not set by this theme".
type NodeStyle struct {
	Color     string  `toml:"color" validate:"max=100"`
	FillColor string  `toml:"fill_color" validate:"max=100"`
	FontColor string  `toml:"font_color" validate:"max=100"`
	FontSize  int     `toml:"font_size" validate:"gte=0,lte=512"`
	FontName  string  `toml:"font_name" validate:"max=100"`
	Fill      string  `toml:"fill" validate:"max=100"` // Graphviz style list, e.g. "filled" or "rounded,filled"
	Width     float64 `toml:"width" validate:"gte=0,lte=100"`
	Height    float64 `toml:"height" validate:"gte=0,lte=100"`
}

// EdgeStyle is the concrete appearance of an edge.
// ArrowTail is the only field that may stay empty after resolution.
type EdgeStyle struct {
	Line      Line   `toml:"line"`
	Color     string `toml:"color" validate:"max=100"`
	FontColor string `toml:"font_color" validate:"max=100"`
	FontSize  int    `toml:"font_size" validate:"gte=0,lte=512"`
	FontName  string `toml:"font_name" validate:"max=100"`
	ArrowHead string `toml:"arrow_head" validate:"max=32"`
	ArrowTail string `toml:"arrow_tail" validate:"max=32"`
}

var baselineNode = NodeStyle{
	Color:     "black",
	FillColor: "white",
	FontColor: "black",
	FontSize:  12,
	FontName:  "Arial",
	Fill:      "filled",
	Width:     0.75,
	Height:    0.5,
}

var baselineEdge = EdgeStyle{
	Line:      Solid,
	Color:     "black",
	FontColor: "black",
	FontSize:  10,
	FontName:  "Arial",
	ArrowHead: "normal",
}

// NodeOverrides lists per-call node style changes. Nil fields are unset.
type NodeOverrides struct {
	Color     *string
	FillColor *string
	FontColor *string
	FontSize  *int
	FontName  *string
	Fill      *string
	Width     *float64
	Height    *float64
}

// EdgeOverrides lists per-call edge style changes. Nil fields are unset.
type EdgeOverrides struct {
	Line      *Line
	Color     *string
	FontColor *string
	FontSize  *int
	FontName  *string
	ArrowHead *string
	ArrowTail *string
}

// Ptr returns a pointer to v, for building overrides inline:
//
//	style.NodeOverrides{FillColor: style.Ptr("#ffcccc")}
func Ptr[T any](v T) *T { return &v }

// Merge returns o with every field set in other taking precedence.
func (o NodeOverrides) Merge(other NodeOverrides) NodeOverrides {
	mergePtrs(&o, &other)
	return o
}

// Merge returns o with every field set in other taking precedence.
func (o EdgeOverrides) Merge(other EdgeOverrides) EdgeOverrides {
	mergePtrs(&o, &other)
	return o
}

// IsZero reports whether no field is set.
func (o NodeOverrides) IsZero() bool { return o == NodeOverrides{} }

// IsZero reports whether no field is set.
func (o EdgeOverrides) IsZero() bool { return o == EdgeOverrides{} }

// mergePtrs copies every non-nil pointer field of src into dst.
// Both arguments must point to the same struct type made only of pointers.
func mergePtrs(dst, src any) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()
	for i := 0; i < sv.NumField(); i++ {
		if f := sv.Field(i); !f.IsNil() {
			dv.Field(i).Set(f)
		}
	}
}

// ResolveNode merges overrides over the theme's node defaults over the
// baseline. The result has every field populated and passes validation.
func ResolveNode(t Theme, o NodeOverrides) (NodeStyle, error) {
	s := baselineNode
	overlay(&s, t.Node)
	return ApplyNode(s, o)
}

// ApplyNode sets every field of o on a copy of s and validates the result.
func ApplyNode(s NodeStyle, o NodeOverrides) (NodeStyle, error) {
	if o.Color != nil {
		s.Color = *o.Color
	}
	if o.FillColor != nil {
		s.FillColor = *o.FillColor
	}
	if o.FontColor != nil {
		s.FontColor = *o.FontColor
	}
	if o.FontSize != nil {
		s.FontSize = *o.FontSize
	}
	if o.FontName != nil {
		s.FontName = *o.FontName
	}
	if o.Fill != nil {
		s.Fill = *o.Fill
	}
	if o.Width != nil {
		s.Width = *o.Width
	}
	if o.Height != nil {
		s.Height = *o.Height
	}

	if err := check(s); err != nil {
		return NodeStyle{}, err
	}
	if s.FontSize == 0 || s.Width == 0 || s.Height == 0 {
		return NodeStyle{}, derrors.New(derrors.ErrCodeValidation, "node font size, width and height must be positive")
	}
	return s, nil
}

// ResolveEdge merges overrides over the theme's edge defaults over the baseline.
func ResolveEdge(t Theme, o EdgeOverrides) (EdgeStyle, error) {
	s := baselineEdge
	overlay(&s, t.Edge)
	return ApplyEdge(s, o)
}

// ApplyEdge sets every field of o on a copy of s and validates the result.
func ApplyEdge(s EdgeStyle, o EdgeOverrides) (EdgeStyle, error) {
	if o.Line != nil {
		s.Line = *o.Line
	}
	if o.Color != nil {
		s.Color = *o.Color
	}
	if o.FontColor != nil {
		s.FontColor = *o.FontColor
	}
	if o.FontSize != nil {
		s.FontSize = *o.FontSize
	}
	if o.FontName != nil {
		s.FontName = *o.FontName
	}
	if o.ArrowHead != nil {
		s.ArrowHead = *o.ArrowHead
	}
	if o.ArrowTail != nil {
		s.ArrowTail = *o.ArrowTail
	}

	if err := check(s); err != nil {
		return EdgeStyle{}, err
	}
	if s.FontSize == 0 {
		return EdgeStyle{}, derrors.New(derrors.ErrCodeValidation, "edge font size must be positive")
	}
	return s, nil
}

// overlay copies every non-zero field of src into dst (same struct type).
func overlay[T NodeStyle | EdgeStyle](dst *T, src T) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src)
	for i := 0; i < sv.NumField(); i++ {
		if f := sv.Field(i); !f.IsZero() {
			dv.Field(i).Set(f)
		}
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// check runs struct tag validation and the free-form string rules.
func check(s any) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationErrors(err)
	}
	rv := reflect.ValueOf(s)
	for i := 0; i < rv.NumField(); i++ {
		if f := rv.Field(i); f.Kind() == reflect.String {
			if err := derrors.ValidateStyleValue(rv.Type().Field(i).Tag.Get("toml"), f.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

// formatValidationErrors converts the first validator failure into a coded error.
func formatValidationErrors(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return derrors.Wrap(derrors.ErrCodeValidation, err, "invalid style")
	}
	fe := ves[0]
	return derrors.New(derrors.ErrCodeValidation, "invalid style value for %s: %v (%s)",
		fe.Field(), fe.Value(), describeTag(fe))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max", "lte":
		return fmt.Sprintf("maximum is %s", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("minimum is %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}
