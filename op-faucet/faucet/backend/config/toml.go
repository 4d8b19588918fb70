package config

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// TomlLoader is a Loader that loads a devnet configuration from a TOML file path.
// Settings missing from the file keep their default value.
type TomlLoader struct {
	Path string
}

var _ Loader = (*TomlLoader)(nil)

func (l *TomlLoader) Load(ctx context.Context) (*Config, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	out := DefaultConfig()
	md, err := toml.Decode(string(data), out)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config fields: %v", undecoded)
	}
	return out, nil
}
