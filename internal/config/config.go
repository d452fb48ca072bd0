package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL  = "https://api.nature.global"
	DefaultTickRate = 200 * time.Millisecond
	DefaultTimeout  = 30 * time.Second
)

type Log struct {
	Level string `yaml:"level" envconfig:"REMO_LOG_LEVEL"`
	File  string `yaml:"file" envconfig:"REMO_LOG_FILE"`
	JSON  bool   `yaml:"json" envconfig:"REMO_LOG_JSON"`
}

type Config struct {
	Token    string        `yaml:"token" envconfig:"NATURE_REMO_CLOUD_API_TOKEN"`
	BaseURL  string        `yaml:"base_url" envconfig:"REMO_BASE_URL"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"REMO_TIMEOUT"`
	TickRate time.Duration `yaml:"tick_rate" envconfig:"REMO_TICK_RATE"`
	File     string        `yaml:"file" envconfig:"REMO_FILE"`
	PProf    string        `yaml:"pprof" envconfig:"REMO_PPROF"`

	Log Log `yaml:"log"`

	ConfigFile string `yaml:"-" ignored:"true"`
}

func New() *Config {
	return &Config{
		BaseURL:  DefaultBaseURL,
		Timeout:  DefaultTimeout,
		TickRate: DefaultTickRate,
		Log: Log{
			Level: "info",
		},
	}
}

// BindFlags registers the configuration flags on fs
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.BaseURL, "base-url", c.BaseURL, "Nature Remo cloud API endpoint")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "HTTP timeout for cloud API requests")
	fs.DurationVar(&c.TickRate, "tick-rate", c.TickRate, "Input sampling and tick interval")
	fs.StringVar(&c.File, "file", c.File, "Read appliances from a JSON dump (.json or .json.gz) instead of the cloud")
	fs.StringVar(&c.PProf, "pprof", c.PProf, "Host:port to expose pprof endpoints for self-inspection")

	fs.StringVar(&c.Log.Level, "log.level", c.Log.Level, "Log level (debug, info, warn, error)")
	fs.StringVar(&c.Log.File, "log.file", c.Log.File, "Write logs to this file (logging is off when empty)")
	fs.BoolVar(&c.Log.JSON, "log.json", c.Log.JSON, "Use JSON format for logs")

	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "Config file path")
}

// Load layers the config file and environment over the defaults; flags
// set explicitly on fs win over both. fs must already be parsed.
func (c *Config) Load(fs *pflag.FlagSet) error {
	// 1. Remember explicitly set flags before file and env overwrite the fields
	explicit := make(map[string]string)
	fs.Visit(func(f *pflag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	// 2. Load from config file if specified
	if c.ConfigFile != "" {
		if err := c.loadFromFile(c.ConfigFile); err != nil {
			return fmt.Errorf("loading config file: %w", err)
		}
	}

	// 3. Load from environment variables
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("processing env vars: %w", err)
	}

	// 4. Re-apply flags to override config file and env vars
	for name, value := range explicit {
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("re-applying flag --%s: %w", name, err)
		}
	}

	// 5. Validate
	return c.Validate()
}

func (c *Config) loadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	return decoder.Decode(c)
}

func (c *Config) Validate() error {
	// Validate log level
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
		c.Log.Level = strings.ToLower(c.Log.Level)
	default:
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	// Validate tick rate
	if c.TickRate < 10*time.Millisecond {
		return fmt.Errorf("tick rate must be at least 10ms")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if c.File == "" && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("invalid base url: %q", c.BaseURL)
	}

	return nil
}

// UseFile reports whether appliances come from a local dump
func (c *Config) UseFile() bool {
	return c.File != ""
}
