package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Generator GeneratorConfig `yaml:"generator" mapstructure:"generator"`
	Analysis  AnalysisConfig  `yaml:"analysis" mapstructure:"analysis"`
	Recommend RecommendConfig `yaml:"recommend" mapstructure:"recommend"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// GeneratorConfig configures synthetic network generation.
type GeneratorConfig struct {
	Seed          int64   `yaml:"seed" mapstructure:"seed"`
	RouteCount    int     `yaml:"route_count" mapstructure:"route_count"`
	FuelBasePrice float64 `yaml:"fuel_base_price" mapstructure:"fuel_base_price"` // USD per gallon
	FuelTrend     float64 `yaml:"fuel_trend" mapstructure:"fuel_trend"`           // Jan-to-Dec drift, fraction
	CatalogPath   string  `yaml:"catalog_path" mapstructure:"catalog_path"`       // optional airport catalog YAML
}

// AnalysisConfig configures the insight engine.
type AnalysisConfig struct {
	TopN int `yaml:"top_n" mapstructure:"top_n"`
}

// RecommendConfig holds the expand thresholds, in percent.
type RecommendConfig struct {
	ExpandMinMargin float64 `yaml:"expand_min_margin" mapstructure:"expand_min_margin"`
	ExpandMinROI    float64 `yaml:"expand_min_roi" mapstructure:"expand_min_roi"`
}

// ExportConfig configures result export and charts.
type ExportConfig struct {
	OutputDir string   `yaml:"output_dir" mapstructure:"output_dir"`
	Formats   []string `yaml:"formats" mapstructure:"formats"`
	Charts    bool     `yaml:"charts" mapstructure:"charts"`
}

// StoreConfig configures the run history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	File   string `yaml:"file" mapstructure:"file"` // copy of the log in addition to stderr; empty disables
}

// DefaultLogFile returns the per-run log file name for a start time.
func DefaultLogFile(t time.Time) string {
	return "analysis_" + t.Format("20060102_150405") + ".log"
}

// ExportFormats lists the export formats the exporter understands.
var ExportFormats = []string{"csv", "xlsx", "json"}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ROUTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("generator.seed", 42)
	v.SetDefault("generator.route_count", 50)
	v.SetDefault("generator.fuel_base_price", 2.80)
	v.SetDefault("generator.fuel_trend", 0.08)
	v.SetDefault("generator.catalog_path", "")
	v.SetDefault("analysis.top_n", 10)
	v.SetDefault("recommend.expand_min_margin", 15.0)
	v.SetDefault("recommend.expand_min_roi", 20.0)
	v.SetDefault("export.output_dir", "outputs")
	v.SetDefault("export.formats", ExportFormats)
	v.SetDefault("export.charts", true)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "routes.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", DefaultLogFile(time.Now()))

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

// Validate checks the settings required by the given command mode
// ("analyze", "serve" or "runs").
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "analyze", "serve":
		errs = append(errs, c.validateAnalysis()...)
		if mode == "serve" && c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	case "runs":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Store.Driver {
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	case "none":
	default:
		errs = append(errs, fmt.Sprintf("store.driver %q is not supported (sqlite, postgres, none)", c.Store.Driver))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateAnalysis() []string {
	var errs []string
	if c.Generator.RouteCount <= 0 {
		errs = append(errs, "generator.route_count must be > 0")
	}
	if c.Generator.FuelBasePrice <= 0 {
		errs = append(errs, "generator.fuel_base_price must be > 0")
	}
	if c.Generator.FuelTrend <= -1 {
		errs = append(errs, "generator.fuel_trend must be > -1")
	}
	if c.Analysis.TopN <= 0 {
		errs = append(errs, "analysis.top_n must be > 0")
	}
	if c.Recommend.ExpandMinMargin < 0 || c.Recommend.ExpandMinROI < 0 {
		errs = append(errs, "recommend thresholds must be >= 0")
	}
	for _, f := range c.Export.Formats {
		if !knownFormat(f) {
			errs = append(errs, fmt.Sprintf("export.formats: unknown format %q", f))
		}
	}
	return errs
}

func knownFormat(f string) bool {
	for _, k := range ExportFormats {
		if strings.EqualFold(k, f) {
			return true
		}
	}
	return false
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

	if cfg.File != "" {
		zapCfg.OutputPaths = append(zapCfg.OutputPaths, cfg.File)
		zapCfg.ErrorOutputPaths = append(zapCfg.ErrorOutputPaths, cfg.File)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
