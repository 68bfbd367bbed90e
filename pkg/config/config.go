package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"StegoLab/pkg/attack"
	"StegoLab/pkg/stego"
)

const DefaultFile = "stegolab.yaml"

type Config struct {
	Bits         []int         `yaml:"bits"`
	Methods      []string      `yaml:"methods"`
	Workers      int           `yaml:"workers"`
	PreviewLimit int           `yaml:"previewLimit"`
	Attacks      attack.Params `yaml:"attacks"`
	LogLevel     string        `yaml:"logLevel"`
	StorePath    string        `yaml:"storePath"`
}

// Default returns the configuration used when no file is present
func Default() Config {
	c := Config{}
	c.applyDefaults()
	return c
}

// Load reads a YAML file. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("error reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML data and fills every unset field with its default
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("error parsing config: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if len(c.Bits) == 0 {
		c.Bits = append([]int(nil), stego.BitDepths...)
	}
	if len(c.Methods) == 0 {
		for _, m := range stego.Methods {
			c.Methods = append(c.Methods, string(m))
		}
	}
	if c.PreviewLimit == 0 {
		c.PreviewLimit = 90
	}
	if c.LogLevel == "" {
		c.LogLevel = "warning"
	}
	if c.StorePath == "" {
		c.StorePath = ".stegolab/history"
	}

	def := attack.DefaultParams()
	a := &c.Attacks
	if a.JPEGQuality == 0 {
		a.JPEGQuality = def.JPEGQuality
	}
	if a.ResizeScale == 0 {
		a.ResizeScale = def.ResizeScale
	}
	if a.NoiseAmount == 0 {
		a.NoiseAmount = def.NoiseAmount
	}
	if a.NoiseAmplitude == 0 {
		a.NoiseAmplitude = def.NoiseAmplitude
	}
	if a.NoiseSeed == 0 {
		a.NoiseSeed = def.NoiseSeed
	}
	if a.BlurRadius == 0 {
		a.BlurRadius = def.BlurRadius
	}
}

// Validate checks the embedding modes and the logging level
func (c Config) Validate() error {
	for _, b := range c.Bits {
		if err := stego.ValidateParams(b, stego.Sequential); err != nil {
			return fmt.Errorf("invalid bits in config: %w", err)
		}
	}
	if _, err := c.ParsedMethods(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid logLevel: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if q := c.Attacks.JPEGQuality; q < 1 || q > 100 {
		return fmt.Errorf("attacks.jpegQuality must be in [1,100], got %d", q)
	}
	if s := c.Attacks.ResizeScale; s <= 0 || s > 1 {
		return fmt.Errorf("attacks.resizeScale must be in (0,1], got %g", s)
	}
	return nil
}

// ParsedMethods converts the configured method names
func (c Config) ParsedMethods() ([]stego.Method, error) {
	methods := make([]stego.Method, 0, len(c.Methods))
	for _, name := range c.Methods {
		m, err := stego.ParseMethod(name)
		if err != nil {
			return nil, fmt.Errorf("invalid method in config: %w", err)
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// Level returns the logrus level, falling back to warning
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return lvl
}
