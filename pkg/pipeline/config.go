package pipeline

import (
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/spotdeck/pkg/errors"
)

// LoadConfig reads pipeline options from a TOML file. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
//
//	symbols = "img_preprocessed"
//	out = "cards"
//	symbols_per_card = 8
//	iterations = 2000
//	seed = 42
//
//	[weights]
//	rotate = 1
//	rescale = 3
//	reposition = 6
func LoadConfig(path string) (Options, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Options{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Options{}, err
	}
	var opts Options
	meta, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return Options{}, errors.New(errors.ErrCodeInvalidConfig,
			"unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}

// WriteConfig writes opts as TOML, the inverse of [LoadConfig].
func WriteConfig(path string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
