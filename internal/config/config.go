package config

import (
	"fmt"
	"os"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Source    SourceConfig    `yaml:"source" envconfig:"SOURCE"`
	Filter    FilterConfig    `yaml:"filter" envconfig:"FILTER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Publish   PublishConfig   `yaml:"publish" envconfig:"PUBLISH"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"required,oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"required,oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"required,oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system locations, relative to BaseDir unless absolute
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	StagingDir string `yaml:"staging_dir" envconfig:"STAGING_DIR" validate:"required"`
	OutputCSV  string `yaml:"output_csv" envconfig:"OUTPUT_CSV" validate:"required"`
	OutputZip  string `yaml:"output_zip" envconfig:"OUTPUT_ZIP" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// SourceConfig describes where archives are fetched from
type SourceConfig struct {
	BaseURL           string        `yaml:"base_url" envconfig:"BASE_URL" validate:"required,url"`
	Years             []string      `yaml:"years" envconfig:"YEARS" validate:"required,min=1,dive,numeric,len=4"`
	MaxDownloads      int           `yaml:"max_downloads" envconfig:"MAX_DOWNLOADS" validate:"gte=0"`
	ListingTimeout    time.Duration `yaml:"listing_timeout" envconfig:"LISTING_TIMEOUT" validate:"gt=0"`
	DownloadTimeout   time.Duration `yaml:"download_timeout" envconfig:"DOWNLOAD_TIMEOUT" validate:"gt=0"`
	RequestsPerSecond float64       `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND" validate:"gt=0"`
	UserAgent         string        `yaml:"user_agent" envconfig:"USER_AGENT"`
}

// FilterConfig holds the business filter vocabulary
type FilterConfig struct {
	Keywords         []string `yaml:"keywords" envconfig:"KEYWORDS" validate:"required,min=1,dive,required"`
	IdentifierSuffix string   `yaml:"identifier_suffix" envconfig:"IDENTIFIER_SUFFIX" validate:"required,numeric,len=6"`
	LabelPrefix      string   `yaml:"label_prefix" envconfig:"LABEL_PREFIX" validate:"required"`
}

// TelemetryConfig configures tracing and the metrics textfile
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Environment   string `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"required,oneof=stdout none"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// PublishConfig configures the optional upload of the packaged artifact
type PublishConfig struct {
	Bucket          string `yaml:"bucket" envconfig:"BUCKET"`
	Prefix          string `yaml:"prefix" envconfig:"PREFIX"`
	Endpoint        string `yaml:"endpoint" envconfig:"ENDPOINT" validate:"omitempty,url"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
}

// Enabled reports whether a publish target is configured
func (p PublishConfig) Enabled() bool {
	return p.Bucket != ""
}

// Load builds the configuration from defaults, an optional YAML file and
// ETL_* environment variables, in increasing order of precedence.
// An empty path searches the usual locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		fileConfig, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		if err := mergo.Merge(fileConfig, *cfg); err != nil {
			return nil, fmt.Errorf("failed to merge config defaults: %w", err)
		}
		cfg = fileConfig
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct constraints and normalizes logging settings
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	return nil
}

// getConfigFilePath returns the first config file found in the usual locations
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
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
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			StagingDir: DefaultStagingDir,
			OutputCSV:  DefaultOutputCSV,
			OutputZip:  DefaultOutputZip,
			LogsDir:    DefaultLogsDir,
		},
		Source: SourceConfig{
			BaseURL:           DefaultSourceBaseURL,
			Years:             append([]string(nil), DefaultSourceYears...),
			MaxDownloads:      DefaultMaxDownloads,
			ListingTimeout:    DefaultListingTimeout,
			DownloadTimeout:   DefaultDownloadTimeout,
			RequestsPerSecond: DefaultRequestsPerSecond,
			UserAgent:         DefaultUserAgent,
		},
		Filter: FilterConfig{
			Keywords:         append([]string(nil), DefaultCategoryKeywords...),
			IdentifierSuffix: DefaultIdentifierSuffix,
			LabelPrefix:      DefaultLabelPrefix,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   "ans-expense-etl",
			Environment:   "development",
			TraceExporter: "none",
		},
		Publish: PublishConfig{
			Prefix: "ans/consolidado",
		},
	}
}
