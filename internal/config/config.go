package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/rentcomp/internal/comps"
	"github.com/sells-group/rentcomp/internal/export"
	"github.com/sells-group/rentcomp/internal/ingest"
	"github.com/sells-group/rentcomp/internal/numeric"
	"github.com/sells-group/rentcomp/internal/pipeline"
	"github.com/sells-group/rentcomp/internal/table"
)

// Config holds the full application configuration.
type Config struct {
	Calc   CalcConfig   `yaml:"calc" mapstructure:"calc"`
	Parse  ParseConfig  `yaml:"parse" mapstructure:"parse"`
	Match  MatchConfig  `yaml:"match" mapstructure:"match"`
	Export ExportConfig `yaml:"export" mapstructure:"export"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// CalcConfig holds the financial settings applied to every subject row.
type CalcConfig struct {
	DownpayPercent         float64 `yaml:"downpay_percent" mapstructure:"downpay_percent"`
	InterestRate           float64 `yaml:"interest_rate" mapstructure:"interest_rate"`
	MortgagePeriod         float64 `yaml:"mortgage_period" mapstructure:"mortgage_period"`
	AppreciationRate       float64 `yaml:"appreciation_rate" mapstructure:"appreciation_rate"`
	AdjustedSQFT           float64 `yaml:"adjusted_sqft" mapstructure:"adjusted_sqft"`
	DepreciationMultiplier float64 `yaml:"depreciation_multiplier" mapstructure:"depreciation_multiplier"`
	NullPolicy             string  `yaml:"null_policy" mapstructure:"null_policy"` // "propagate" or "zero"
}

// ParseConfig configures how listing files are read.
type ParseConfig struct {
	RecordSeparator string `yaml:"record_separator" mapstructure:"record_separator"` // cr, lf, crlf, auto
	Sheet           string `yaml:"sheet" mapstructure:"sheet"`
	Workers         int    `yaml:"workers" mapstructure:"workers"`
}

// MatchConfig names the listing columns used to pick comparables.
type MatchConfig struct {
	BedsField         string   `yaml:"beds_field" mapstructure:"beds_field"`
	SubdivisionFields []string `yaml:"subdivision_fields" mapstructure:"subdivision_fields"`
	SQFTFields        []string `yaml:"sqft_fields" mapstructure:"sqft_fields"`
	PriceField        string   `yaml:"price_field" mapstructure:"price_field"`
}

// ExportConfig configures result output.
type ExportConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
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
	v.SetEnvPrefix("RENTCOMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	calc := pipeline.DefaultConfiguration()
	keys := comps.DefaultKeys()
	v.SetDefault("calc.downpay_percent", calc.DownpayPercent)
	v.SetDefault("calc.interest_rate", calc.InterestRate)
	v.SetDefault("calc.mortgage_period", calc.MortgagePeriod)
	v.SetDefault("calc.appreciation_rate", calc.AppreciationRate)
	v.SetDefault("calc.adjusted_sqft", calc.AdjustedSQFT)
	v.SetDefault("calc.depreciation_multiplier", calc.DepreciationMultiplier)
	v.SetDefault("calc.null_policy", string(numeric.NullPropagate))
	v.SetDefault("parse.record_separator", string(table.SeparatorCR))
	v.SetDefault("parse.workers", 4)
	v.SetDefault("match.beds_field", keys.Beds)
	v.SetDefault("match.subdivision_fields", keys.Subdivision)
	v.SetDefault("match.sqft_fields", keys.SQFT)
	v.SetDefault("match.price_field", pipeline.ColCurrentPrice)
	v.SetDefault("export.format", string(export.TypeCSV))
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

// Validate checks settings that would otherwise fail mid-run.
func (c *Config) Validate() error {
	var errs []string

	if err := c.Configuration().Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	switch numeric.NullPolicy(strings.ToLower(strings.TrimSpace(c.Calc.NullPolicy))) {
	case numeric.NullPropagate, numeric.NullZero, "":
	default:
		errs = append(errs, fmt.Sprintf("calc.null_policy must be %q or %q", numeric.NullPropagate, numeric.NullZero))
	}

	if _, err := table.ParseSeparator(c.Parse.RecordSeparator); err != nil {
		errs = append(errs, "parse.record_separator must be one of cr, lf, crlf, auto")
	}
	if c.Parse.Workers < 1 || c.Parse.Workers > 32 {
		errs = append(errs, "parse.workers must be between 1 and 32")
	}

	if c.Match.BedsField == "" {
		errs = append(errs, "match.beds_field is required")
	}
	if len(c.Match.SubdivisionFields) == 0 {
		errs = append(errs, "match.subdivision_fields is required")
	}
	if len(c.Match.SQFTFields) == 0 {
		errs = append(errs, "match.sqft_fields is required")
	}
	if c.Match.PriceField == "" {
		errs = append(errs, "match.price_field is required")
	}

	if _, err := export.ParseType(c.Export.Format); err != nil {
		errs = append(errs, "export.format must be one of csv, json, xlsx")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Configuration converts the calc settings into pipeline form.
func (c *Config) Configuration() pipeline.Configuration {
	return pipeline.Configuration{
		DownpayPercent:         c.Calc.DownpayPercent,
		InterestRate:           c.Calc.InterestRate,
		MortgagePeriod:         c.Calc.MortgagePeriod,
		AppreciationRate:       c.Calc.AppreciationRate,
		AdjustedSQFT:           c.Calc.AdjustedSQFT,
		DepreciationMultiplier: c.Calc.DepreciationMultiplier,
	}
}

// Policy builds the pipeline policy from the match and calc settings.
func (c *Config) Policy() pipeline.Policy {
	return pipeline.Policy{
		Keys: comps.Keys{
			Beds:        c.Match.BedsField,
			Subdivision: c.Match.SubdivisionFields,
			SQFT:        c.Match.SQFTFields,
		},
		PriceField: c.Match.PriceField,
		NullPolicy: numeric.ParseNullPolicy(c.Calc.NullPolicy),
	}
}

// IngestOptions builds file loading options from the parse settings.
func (c *Config) IngestOptions() (ingest.Options, error) {
	sep, err := table.ParseSeparator(c.Parse.RecordSeparator)
	if err != nil {
		return ingest.Options{}, eris.Wrap(err, "config: record separator")
	}
	return ingest.Options{
		Parse:   table.ParseOptions{RecordSeparator: sep},
		Sheet:   c.Parse.Sheet,
		Workers: c.Parse.Workers,
	}, nil
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
