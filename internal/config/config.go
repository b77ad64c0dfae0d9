package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when SAMARTH_CONFIG is unset.
const DefaultPath = "config.yaml"

// Config holds every setting of the platform binaries.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Data     DataConfig     `yaml:"data"`
	Source   SourceConfig   `yaml:"source"`
	Model    ModelConfig    `yaml:"model"`
	Cache    CacheConfig    `yaml:"cache"`
	Database DatabaseConfig `yaml:"database"`
}

// ServerConfig configures the web dashboard.
type ServerConfig struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
	IdleTimeout  Duration `yaml:"idle_timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Output string `yaml:"output"` // stdout, stderr
}

// DataConfig locates raw downloads and canonical snapshots.
type DataConfig struct {
	RawDir       string `yaml:"raw_dir"`
	ProcessedDir string `yaml:"processed_dir"`
}

// SourceConfig configures the data.gov.in resource API.
type SourceConfig struct {
	BaseURL            string   `yaml:"base_url"`
	APIKey             string   `yaml:"api_key"`
	CropResourceID     string   `yaml:"crop_resource_id"`
	RainfallResourceID string   `yaml:"rainfall_resource_id"`
	PageSize           int      `yaml:"page_size"`
	Timeout            Duration `yaml:"timeout"`
	MaxRetries         int      `yaml:"max_retries"`
	RetryDelay         Duration `yaml:"retry_delay"`
}

// ModelConfig configures the local Ollama server.
type ModelConfig struct {
	Endpoint      string   `yaml:"endpoint"`
	Name          string   `yaml:"name"`
	Temperature   float64  `yaml:"temperature"`
	ContextWindow int      `yaml:"context_window"`
	Timeout       Duration `yaml:"timeout"`
}

type CacheConfig struct {
	TTL Duration `yaml:"ttl"`
}

// DatabaseConfig configures the embedded DuckDB session. An empty Path keeps
// the database in memory.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	Threads     int    `yaml:"threads"`
	MemoryLimit string `yaml:"memory_limit"`
}

// Duration is a time.Duration written as a Go duration string in YAML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{150 * time.Second},
			IdleTimeout:  Duration{60 * time.Second},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
		},
		Data: DataConfig{
			RawDir:       filepath.Join("data", "raw"),
			ProcessedDir: filepath.Join("data", "processed"),
		},
		Source: SourceConfig{
			BaseURL:            "https://api.data.gov.in",
			CropResourceID:     "35be999b-0208-4354-b557-f6ca9a5355de",
			RainfallResourceID: "8e0bd482-4aba-4d99-9cb9-ff124f6f1c2f",
			PageSize:           1000,
			Timeout:            Duration{90 * time.Second},
			MaxRetries:         3,
			RetryDelay:         Duration{3 * time.Second},
		},
		Model: ModelConfig{
			Endpoint:      "http://localhost:11434",
			Name:          "llama3.1:8b",
			Temperature:   0.0,
			ContextWindow: 4096,
			Timeout:       Duration{120 * time.Second},
		},
		Cache: CacheConfig{
			TTL: Duration{time.Hour},
		},
	}
}

// LoadConfig loads the file named by SAMARTH_CONFIG (or config.yaml) and
// applies .env and environment overrides.
func LoadConfig() (*Config, error) {
	path := os.Getenv("SAMARTH_CONFIG")
	if path == "" {
		path = DefaultPath
	}
	return Load(path)
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}
	setDuration := func(key string, dst *Duration) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		dst.Duration = d
		return nil
	}

	setString("SAMARTH_SERVER_HOST", &c.Server.Host)
	setString("SAMARTH_LOG_LEVEL", &c.Logging.Level)
	setString("SAMARTH_LOG_OUTPUT", &c.Logging.Output)
	setString("SAMARTH_RAW_DIR", &c.Data.RawDir)
	setString("SAMARTH_PROCESSED_DIR", &c.Data.ProcessedDir)
	setString("SAMARTH_SOURCE_URL", &c.Source.BaseURL)
	setString("DATA_GOV_API_KEY", &c.Source.APIKey)
	setString("SAMARTH_OLLAMA_URL", &c.Model.Endpoint)
	setString("SAMARTH_MODEL", &c.Model.Name)
	setString("SAMARTH_DB_PATH", &c.Database.Path)

	if err := setInt("SAMARTH_SERVER_PORT", &c.Server.Port); err != nil {
		return err
	}
	if err := setInt("SAMARTH_PAGE_SIZE", &c.Source.PageSize); err != nil {
		return err
	}
	if err := setDuration("SAMARTH_MODEL_TIMEOUT", &c.Model.Timeout); err != nil {
		return err
	}
	return setDuration("SAMARTH_CACHE_TTL", &c.Cache.TTL)
}

// Validate checks the settings every binary relies on.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q unknown", c.Logging.Level))
	}
	if c.Data.RawDir == "" || c.Data.ProcessedDir == "" {
		problems = append(problems, "data.raw_dir and data.processed_dir are required")
	}
	if c.Source.PageSize <= 0 {
		problems = append(problems, "source.page_size must be positive")
	}
	if c.Source.MaxRetries <= 0 {
		problems = append(problems, "source.max_retries must be positive")
	}
	if c.Model.Endpoint == "" || c.Model.Name == "" {
		problems = append(problems, "model.endpoint and model.name are required")
	}
	if c.Model.Timeout.Duration <= 0 {
		problems = append(problems, "model.timeout must be positive")
	}
	if c.Cache.TTL.Duration <= 0 {
		problems = append(problems, "cache.ttl must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ValidateSource checks the settings needed to call the resource API.
func (c *Config) ValidateSource() error {
	if c.Source.APIKey == "" {
		return errors.New("source.api_key is required (set DATA_GOV_API_KEY)")
	}
	if c.Source.BaseURL == "" {
		return errors.New("source.base_url is required")
	}
	return nil
}

// CropRawPath and the other helpers name the fixed pipeline files.
func (c *Config) CropRawPath() string {
	return filepath.Join(c.Data.RawDir, "crop_production_raw.csv")
}

func (c *Config) RainfallRawPath() string {
	return filepath.Join(c.Data.RawDir, "rainfall_subdiv_monthly_raw.csv")
}

func (c *Config) CropSnapshotPath() string {
	return filepath.Join(c.Data.ProcessedDir, "crop_clean.parquet")
}

func (c *Config) RainfallSnapshotPath() string {
	return filepath.Join(c.Data.ProcessedDir, "rainfall_long.parquet")
}
