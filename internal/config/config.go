package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"

	apperrors "github.com/SamSkanse/Skye-Financials-Automation/internal/errors"
	"github.com/SamSkanse/Skye-Financials-Automation/internal/validation"
	"github.com/SamSkanse/Skye-Financials-Automation/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Tracing  TracingConfig  `yaml:"tracing" envconfig:"TRACING"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration. Relative
// directories are resolved against BaseDir, or the executable's directory
// when BaseDir is empty.
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	InputDir   string `yaml:"input_dir" envconfig:"INPUT_DIR" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// PipelineConfig holds the business constants used to reconcile and
// summarize a period.
type PipelineConfig struct {
	PerBarCOGS       string          `yaml:"per_bar_cogs" envconfig:"PER_BAR_COGS" validate:"required,numeric"`
	BarsPerBox       int             `yaml:"bars_per_box" envconfig:"BARS_PER_BOX" validate:"gt=0"`
	SendoutKeywords  []string        `yaml:"sendout_keywords" envconfig:"SENDOUT_KEYWORDS" validate:"dive,required"`
	OrderThresholds  ThresholdConfig `yaml:"order_thresholds" envconfig:"ORDER_THRESHOLDS"`
	SampleThresholds ThresholdConfig `yaml:"sample_thresholds" envconfig:"SAMPLE_THRESHOLDS"`
	Labels           LabelsConfig    `yaml:"labels" envconfig:"LABELS"`

	// ShipmentType filters the 3PL export to outbound shipments when it has
	// a Type column. Empty keeps every row.
	ShipmentType string `yaml:"shipment_type" envconfig:"SHIPMENT_TYPE"`
}

// ThresholdConfig is the box/bar split for one kind of price.
type ThresholdConfig struct {
	BoxAbove  string `yaml:"box_above" envconfig:"BOX_ABOVE" validate:"required,numeric"`
	BarBelow  string `yaml:"bar_below" envconfig:"BAR_BELOW" validate:"required,numeric"`
	Ambiguous string `yaml:"ambiguous" envconfig:"AMBIGUOUS" validate:"oneof=box bar unresolved"`
}

// LabelsConfig holds the literal email/source values written on 3PL-only rows.
type LabelsConfig struct {
	FreeSampleEmail  string `yaml:"free_sample_email" envconfig:"FREE_SAMPLE_EMAIL" validate:"required"`
	FreeSampleSource string `yaml:"free_sample_source" envconfig:"FREE_SAMPLE_SOURCE" validate:"required"`
	SendoutEmail     string `yaml:"sendout_email" envconfig:"SENDOUT_EMAIL" validate:"required"`
	SendoutSource    string `yaml:"sendout_source" envconfig:"SENDOUT_SOURCE" validate:"required"`
}

// TracingConfig selects where pipeline spans go.
type TracingConfig struct {
	Exporter    string  `yaml:"exporter" envconfig:"EXPORTER" validate:"oneof=none stdout file"`
	FilePath    string  `yaml:"file_path" envconfig:"FILE_PATH"`
	ServiceName string  `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// Load builds the configuration from defaults, the YAML file at configPath
// (or a well-known location when empty), a .env file and the environment.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		configPath = getConfigFilePath()
	}
	if configPath != "" {
		if err := cfg.loadFromFile(configPath); err != nil {
			return nil, apperrors.NewConfigError("failed to load config file", err).
				WithContext("path", configPath)
		}
	}

	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.NewConfigError("failed to load .env file", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML document at filePath onto c.
func (c *Config) loadFromFile(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Validate checks struct tags and that the pipeline converts to rules.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	if _, err := c.Pipeline.Rules(); err != nil {
		return err
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return apperrors.NewConfigError("logging.file_path is required when output is file or both", nil)
	}
	if c.Tracing.Exporter == "file" && c.Tracing.FilePath == "" {
		return apperrors.NewConfigError("tracing.file_path is required for the file exporter", nil)
	}
	return nil
}

// Rules converts the pipeline settings into reconciliation rules.
func (p PipelineConfig) Rules() (domain.ReconcileRules, error) {
	perBar, err := decimal.NewFromString(p.PerBarCOGS)
	if err != nil {
		return domain.ReconcileRules{}, apperrors.NewConfigError("invalid pipeline.per_bar_cogs", err)
	}
	if perBar.IsNegative() {
		return domain.ReconcileRules{}, apperrors.NewConfigError("pipeline.per_bar_cogs must not be negative", nil)
	}

	orders, err := p.OrderThresholds.thresholds("order_thresholds")
	if err != nil {
		return domain.ReconcileRules{}, err
	}
	samples, err := p.SampleThresholds.thresholds("sample_thresholds")
	if err != nil {
		return domain.ReconcileRules{}, err
	}

	return domain.NewReconcileRules(domain.ReconcileRules{
		PerBarCOGS:       perBar,
		BarsPerBox:       p.BarsPerBox,
		Orders:           orders,
		Samples:          samples,
		FreeSampleEmail:  p.Labels.FreeSampleEmail,
		FreeSampleSource: p.Labels.FreeSampleSource,
		SendoutEmail:     p.Labels.SendoutEmail,
		SendoutSource:    p.Labels.SendoutSource,
	}, p.SendoutKeywords), nil
}

func (t ThresholdConfig) thresholds(name string) (domain.Thresholds, error) {
	boxAbove, err := decimal.NewFromString(t.BoxAbove)
	if err != nil {
		return domain.Thresholds{}, apperrors.NewConfigError(fmt.Sprintf("invalid pipeline.%s.box_above", name), err)
	}
	barBelow, err := decimal.NewFromString(t.BarBelow)
	if err != nil {
		return domain.Thresholds{}, apperrors.NewConfigError(fmt.Sprintf("invalid pipeline.%s.bar_below", name), err)
	}
	if barBelow.GreaterThan(boxAbove) {
		return domain.Thresholds{}, apperrors.NewConfigError(
			fmt.Sprintf("pipeline.%s.bar_below must not exceed box_above", name), nil).
			WithContext("bar_below", t.BarBelow).
			WithContext("box_above", t.BoxAbove)
	}

	var ambiguous domain.UnitType
	switch t.Ambiguous {
	case "box":
		ambiguous = domain.UnitBox
	case "bar":
		ambiguous = domain.UnitBar
	default:
		ambiguous = domain.UnitUnresolved
	}

	return domain.Thresholds{BoxAbove: boxAbove, BarBelow: barBelow, Ambiguous: ambiguous}, nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if FileExists(location) {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogsDir + "/" + DefaultLogFile,
		},
		Paths: PathsConfig{
			InputDir:   DefaultInputDir,
			ReportsDir: DefaultReportsDir,
			LogsDir:    DefaultLogsDir,
		},
		Pipeline: defaultPipeline(),
		Tracing: TracingConfig{
			Exporter:    "none",
			FilePath:    DefaultLogsDir + "/" + DefaultTraceFile,
			ServiceName: "skye-reports",
			SampleRatio: 1,
		},
	}
}

func defaultPipeline() PipelineConfig {
	r := domain.DefaultReconcileRules()
	return PipelineConfig{
		PerBarCOGS:       r.PerBarCOGS.String(),
		BarsPerBox:       r.BarsPerBox,
		SendoutKeywords:  r.SendoutKeywords(),
		OrderThresholds:  thresholdConfig(r.Orders),
		SampleThresholds: thresholdConfig(r.Samples),
		Labels: LabelsConfig{
			FreeSampleEmail:  r.FreeSampleEmail,
			FreeSampleSource: r.FreeSampleSource,
			SendoutEmail:     r.SendoutEmail,
			SendoutSource:    r.SendoutSource,
		},
		ShipmentType: "Shipment Order",
	}
}

func thresholdConfig(t domain.Thresholds) ThresholdConfig {
	ambiguous := string(t.Ambiguous)
	if t.Ambiguous == domain.UnitUnresolved {
		ambiguous = "unresolved"
	}
	return ThresholdConfig{
		BoxAbove:  t.BoxAbove.String(),
		BarBelow:  t.BarBelow.String(),
		Ambiguous: ambiguous,
	}
}
