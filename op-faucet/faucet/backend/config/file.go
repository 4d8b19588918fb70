package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileLoader picks the Loader for the config file, by file extension.
func FileLoader(path string) (Loader, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return &YamlLoader{Path: path}, nil
	case ".toml":
		return &TomlLoader{Path: path}, nil
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", ext)
	}
}
