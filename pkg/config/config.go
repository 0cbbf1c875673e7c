package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/yurifrl/pconv/pkg/parser"
)

// EnvPrefix prefixes every environment variable, e.g. PCONV_OUTPUT.
const EnvPrefix = "PCONV"

// Config holds all application configuration
type Config struct {
	OutputPath string        `mapstructure:"output"`
	CSV        bool          `mapstructure:"csv"`
	Preset     string        `mapstructure:"preset"`
	LogLevel   string        `mapstructure:"log_level"`
	Policy     parser.Policy `mapstructure:"policy"`
	Server     ServerConfig  `mapstructure:"server"`
}

type ServerConfig struct {
	Addr               string        `mapstructure:"addr"`
	MaxUploadMB        int64         `mapstructure:"max_upload_mb"`
	RateLimitPerSecond float64       `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst"`
	ResultTTL          time.Duration `mapstructure:"result_ttl"`
}

func (c *Config) GetOutputPath() string {
	return c.OutputPath
}

// Level is the configured log level, defaulting to info.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// New creates a new default configuration
func New(outputPath string) *Config {
	return &Config{
		OutputPath: outputPath,
		Preset:     parser.PresetSlash,
		LogLevel:   "info",
		Policy:     parser.DefaultPolicy(),
		Server: ServerConfig{
			Addr:               ":8080",
			MaxUploadMB:        32,
			RateLimitPerSecond: 5,
			RateLimitBurst:     10,
			ResultTTL:          30 * time.Minute,
		},
	}
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"output":              "output",
	"csv":                 "csv",
	"preset":              "preset",
	"log-level":           "log_level",
	"quantity-convention": "policy.quantity_convention",
	"name-join":           "policy.name_join",
	"max-name-lines":      "policy.max_name_lines",
	"continuation":        "policy.continuation",
	"addr":                "server.addr",
}

// Build layers configuration: defaults (taken from the selected preset), an
// optional YAML file, a .env file, PCONV_* environment variables and finally
// the flags that were set on the command line.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	setDefaults(v, New(""))
	base, err := parser.PresetPolicy(v.GetString("preset"))
	if err != nil {
		return nil, err
	}
	setPolicyDefaults(v, base)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("output", d.OutputPath)
	v.SetDefault("csv", d.CSV)
	v.SetDefault("preset", d.Preset)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.max_upload_mb", d.Server.MaxUploadMB)
	v.SetDefault("server.rate_limit_per_second", d.Server.RateLimitPerSecond)
	v.SetDefault("server.rate_limit_burst", d.Server.RateLimitBurst)
	v.SetDefault("server.result_ttl", d.Server.ResultTTL)
}

func setPolicyDefaults(v *viper.Viper, p parser.Policy) {
	v.SetDefault("policy.quantity_convention", string(p.QuantityConvention))
	v.SetDefault("policy.separator_rule", p.SeparatorRule)
	v.SetDefault("policy.name_window", p.NameWindow)
	v.SetDefault("policy.upper_case_rule", p.UpperCaseRule)
	v.SetDefault("policy.name_join", p.NameJoin)
	v.SetDefault("policy.max_name_lines", p.MaxNameLines)
	v.SetDefault("policy.stop_name_at_detail", p.StopNameAtDetail)
	v.SetDefault("policy.continuation", string(p.Continuation))
	v.SetDefault("policy.extra_noise", p.ExtraNoise)
	v.SetDefault("policy.extra_details", p.ExtraDetails)
}
