// Package config loads engine settings from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultWorkers is the loader worker pool size.
	DefaultWorkers = 4
	// DefaultShadowSize is the cube shadow map face size in texels.
	DefaultShadowSize = 1024
	// DefaultShadowMinBias is the minimum depth bias of shadow lookups.
	DefaultShadowMinBias float32 = 0.005
	// DefaultShadowMaxBias is the maximum depth bias of shadow lookups.
	DefaultShadowMaxBias float32 = 0.05
)

// ErrUnsupportedFormat is returned for files that are neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Format is a config file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Loader configures glTF loading.
type Loader struct {
	// UnquantizeInShader keeps quantized attributes packed and decodes them in the vertex shader.
	UnquantizeInShader bool `yaml:"unquantize_in_shader" toml:"unquantize_in_shader"`
	// Progressive returns from Load before textures finish loading.
	Progressive bool `yaml:"progressive" toml:"progressive"`
	// Workers is the size of the resource loading worker pool.
	Workers int `yaml:"workers" toml:"workers"`
	// BaseDir is the directory relative resource URIs resolve against.
	BaseDir string `yaml:"base_dir" toml:"base_dir"`
}

// Shadow configures cube shadow maps.
type Shadow struct {
	Size    int     `yaml:"size" toml:"size"`
	MinBias float32 `yaml:"min_bias" toml:"min_bias"`
	MaxBias float32 `yaml:"max_bias" toml:"max_bias"`
}

// Config is the root engine configuration.
type Config struct {
	Loader Loader `yaml:"loader" toml:"loader"`
	Shadow Shadow `yaml:"shadow" toml:"shadow"`
}

// Default returns a Config with every field at its default.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Loader.Workers <= 0 {
		c.Loader.Workers = DefaultWorkers
	}
	if c.Shadow.Size <= 0 {
		c.Shadow.Size = DefaultShadowSize
	}
	if c.Shadow.MinBias == 0 {
		c.Shadow.MinBias = DefaultShadowMinBias
	}
	if c.Shadow.MaxBias == 0 {
		c.Shadow.MaxBias = DefaultShadowMaxBias
	}
}

// FormatFromPath picks the encoding from a file extension.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Format: the encoding
//   - error: ErrUnsupportedFormat for unknown extensions
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads and parses a config file. Zero fields take their defaults.
//
// Parameters:
//   - path: a .yaml, .yml or .toml file
//
// Returns:
//   - Config: the parsed configuration
//   - error: an error if the file cannot be read or parsed
func Load(path string) (Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes config data in the given encoding. Zero fields take their defaults.
//
// Parameters:
//   - data: the encoded config
//   - format: the encoding
//
// Returns:
//   - Config: the parsed configuration
//   - error: an error if decoding fails
func Parse(data []byte, format Format) (Config, error) {
	var c Config
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &c)
	case FormatTOML:
		err = toml.Unmarshal(data, &c)
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse %s config: %w", format, err)
	}
	c.applyDefaults()
	return c, nil
}
