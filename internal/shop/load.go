package shop

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadFile reads a shop catalog from a YAML, TOML or JSON file with a
// top-level "shops" list.
func LoadFile(path string) ([]Definition, error) {
	v := viper.New()
	v.SetConfigFile(strings.TrimSpace(path))
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read shops file %q: %w", path, err)
	}

	var defs []Definition
	if err := v.UnmarshalKey("shops", &defs); err != nil {
		return nil, fmt.Errorf("decode shops file %q: %w", path, err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("shops file %q: no shops defined", path)
	}
	return defs, nil
}
