package style

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	derrors "github.com/matzehuels/dotflow/pkg/errors"
)

// themeFile is the on-disk layout:
//
//	[[theme]]
//	name = "ocean"
//	background = "#e0f2fe"
//
//	[theme.node]
//	fill_color = "#bae6fd"
//
//	[theme.edge]
//	line = "dashed"
type themeFile struct {
	Theme []Theme `toml:"theme"`
}

// LoadThemes decodes TOML theme definitions from r.
// Unknown keys are rejected so typos do not silently fall back to the baseline.
func LoadThemes(r io.Reader) ([]Theme, error) {
	var f themeFile
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "decode themes")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, derrors.New(derrors.ErrCodeInvalidConfig, "unknown theme keys: %s", strings.Join(keys, ", "))
	}
	return f.Theme, nil
}

// LoadThemeFile reads the TOML file at path and registers every theme in it.
func (r *Registry) LoadThemeFile(path string) error {
	fh, err := os.Open(path)
	if err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidConfig, err, "open theme file")
	}
	defer fh.Close()

	themes, err := LoadThemes(fh)
	if err != nil {
		return err
	}
	for _, t := range themes {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}
