package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/samarth/internal/dataset"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	RainfallPath string `mapstructure:"rainfall_path" yaml:"rainfall_path"`
	CropsPath    string `mapstructure:"crops_path" yaml:"crops_path"`
	// Delimiter overrides the field separator of delimited inputs; empty picks by extension.
	Delimiter   string           `mapstructure:"delimiter" yaml:"delimiter,omitempty"`
	CropRenames []dataset.Rename `mapstructure:"crop_renames" yaml:"crop_renames"`
	PeriodLabel string           `mapstructure:"period_label" yaml:"period_label"`

	// Dashboard server
	HTTPAddr           string `mapstructure:"http_addr" yaml:"http_addr"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// Chart size in inches
	ChartWidthIn  float64 `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn float64 `mapstructure:"chart_height_in" yaml:"chart_height_in"`
}

// Default file names of the two datasets, resolved against the working directory.
const (
	DefaultRainfallPath = "rainfall_area-wt_India_1901-2015.csv"
	DefaultCropsPath    = "RS_Session_266_AU_2112_A.csv"
)

// DelimiterRune returns the configured delimiter, or 0 when unset.
func (c *Global) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	r := []rune(c.Delimiter)
	if len(r) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q: must be a single character", c.Delimiter)
	}
	return r[0], nil
}

// Sources returns the dataset locations described by the configuration.
func (c *Global) Sources() (dataset.Sources, error) {
	d, err := c.DelimiterRune()
	if err != nil {
		return dataset.Sources{}, err
	}
	return dataset.Sources{RainfallPath: c.RainfallPath, CropsPath: c.CropsPath, Delimiter: d}, nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.samarth/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
// A .env file in the working directory, if present, seeds the environment.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SAMARTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("rainfall_path", DefaultRainfallPath)
	v.SetDefault("crops_path", DefaultCropsPath)
	v.SetDefault("delimiter", "")
	v.SetDefault("period_label", "2023–24")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("shutdown_timeout_sec", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("chart_width_in", 10.0)
	v.SetDefault("chart_height_in", 4.0)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.CropRenames) == 0 {
		c.CropRenames = dataset.DefaultCropRenames()
	}
	if _, err := c.DelimiterRune(); err != nil {
		return nil, err
	}
	return &c, nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".samarth"), nil
}
