package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Scrape   ScrapeConfig   `yaml:"scrape" mapstructure:"scrape"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Metrics  MetricsConfig  `yaml:"metrics" mapstructure:"metrics"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// RegistryConfig points at the harbor register and sets the request headers.
type RegistryConfig struct {
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent      string `yaml:"user_agent" mapstructure:"user_agent"`
	Referer        string `yaml:"referer" mapstructure:"referer"`
	AcceptLanguage string `yaml:"accept_language" mapstructure:"accept_language"`
	TimeoutSecs    int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ScrapeConfig configures the detail fetch loop.
type ScrapeConfig struct {
	DelayMS     int `yaml:"delay_ms" mapstructure:"delay_ms"`
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
	Limit       int `yaml:"limit" mapstructure:"limit"`
	Offset      int `yaml:"offset" mapstructure:"offset"`
}

// OutputConfig selects the published files. An empty file name disables
// that form.
type OutputConfig struct {
	Dir          string `yaml:"dir" mapstructure:"dir"`
	PrettyFile   string `yaml:"pretty_file" mapstructure:"pretty_file"`
	CompactFile  string `yaml:"compact_file" mapstructure:"compact_file"`
	ScriptFile   string `yaml:"script_file" mapstructure:"script_file"`
	VarName      string `yaml:"var_name" mapstructure:"var_name"`
	MinifyScript bool   `yaml:"minify_script" mapstructure:"minify_script"`
	Shapefile    string `yaml:"shapefile" mapstructure:"shapefile"`
	XLSXFile     string `yaml:"xlsx_file" mapstructure:"xlsx_file"`
	Sort         bool   `yaml:"sort" mapstructure:"sort"`
}

// ServerConfig configures the static file server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// MetricsConfig configures metrics export after a scrape.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SADAMAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("registry.base_url", "https://www.sadamaregister.ee")
	v.SetDefault("registry.user_agent", "sadamad-data/1.0")
	v.SetDefault("registry.referer", "https://www.sadamaregister.ee/")
	v.SetDefault("registry.accept_language", "et-EE,et;q=0.9,en;q=0.8")
	v.SetDefault("registry.timeout_secs", 30)
	v.SetDefault("scrape.delay_ms", 200)
	v.SetDefault("scrape.concurrency", 1)
	v.SetDefault("scrape.limit", 0)
	v.SetDefault("scrape.offset", 0)
	v.SetDefault("output.dir", "public")
	v.SetDefault("output.pretty_file", "raw.json")
	v.SetDefault("output.compact_file", "data.json")
	v.SetDefault("output.script_file", "data.js")
	v.SetDefault("output.var_name", "sadamadgeoJson")
	v.SetDefault("output.minify_script", false)
	v.SetDefault("output.shapefile", "")
	v.SetDefault("output.xlsx_file", "")
	v.SetDefault("output.sort", true)
	v.SetDefault("server.port", 8080)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings the given command depends on.
func (c *Config) Validate(mode string) error {
	var problems []string
	switch mode {
	case "scrape":
		if c.Registry.BaseURL == "" {
			problems = append(problems, "registry.base_url is required")
		}
		if c.Scrape.Concurrency < 1 || c.Scrape.Concurrency > 16 {
			problems = append(problems, "scrape.concurrency must be between 1 and 16")
		}
		if c.Scrape.DelayMS < 0 {
			problems = append(problems, "scrape.delay_ms must be >= 0")
		}
		if c.Scrape.Limit < 0 || c.Scrape.Offset < 0 {
			problems = append(problems, "scrape.limit and scrape.offset must be >= 0")
		}
		if c.Output.Dir == "" {
			problems = append(problems, "output.dir is required")
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
		if c.Output.Dir == "" {
			problems = append(problems, "output.dir is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}
	if len(problems) > 0 {
		return eris.Errorf("config: invalid for %s: %s", mode, strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
