package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"align-eval/eval-portal/report-backend/internal/reports/typeface"
	"align-eval/eval-portal/report-backend/pkg/storage"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig     `json:"server" yaml:"server"`
	Logging LoggingConfig    `json:"logging" yaml:"logging"`
	Fonts   FontsConfig      `json:"fonts" yaml:"fonts"`
	Storage storage.S3Config `json:"storage" yaml:"storage"`
	Reports ReportsConfig    `json:"reports" yaml:"reports"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host            string        `json:"host" yaml:"host"`
	Port            int           `json:"port" yaml:"port"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	Mode            string        `json:"mode" yaml:"mode"` // gin mode: debug, release, test
}

// LoggingConfig
type LoggingConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
}

// FontsConfig locates the report typefaces
type FontsConfig struct {
	typeface.CacheConfig `yaml:",inline"`
	Prewarm              bool `json:"prewarm" yaml:"prewarm"`
}

// ReportsConfig overrides parts of the default report layout
type ReportsConfig struct {
	Title         string `json:"title" yaml:"title"`
	Footer        string `json:"footer" yaml:"footer"`
	WatermarkText string `json:"watermark_text" yaml:"watermark_text"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			Mode:            "release",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Fonts: FontsConfig{
			CacheConfig: typeface.DefaultCacheConfig(),
		},
	}
}

// LoadConfig loads configuration from a .env file, the JSON or YAML config file
// and environment variables, later sources taking precedence. Missing
// files are skipped.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := unmarshal(configPath, data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := overrideWithEnv(config); err != nil {
		return nil, err
	}

	return config, nil
}

// unmarshal decodes JSON, or YAML for .yaml/.yml files. YAML accepts
// durations such as "30s".
func unmarshal(path string, data []byte, config *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, config)
	}
	return json.Unmarshal(data, config)
}

func overrideWithEnv(config *Config) error {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid SERVER_PORT %q: %w", port, err)
		}
		config.Server.Port = p
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		config.Server.Mode = mode
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if loc := os.Getenv("FONT_REGULAR_LOCATION"); loc != "" {
		config.Fonts.RegularLocation = loc
	}
	if loc := os.Getenv("FONT_BOLD_LOCATION"); loc != "" {
		config.Fonts.BoldLocation = loc
	}
	if timeout := os.Getenv("FONT_LOAD_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid FONT_LOAD_TIMEOUT %q: %w", timeout, err)
		}
		config.Fonts.LoadTimeout = d
	}
	if prewarm := os.Getenv("FONT_PREWARM"); prewarm != "" {
		b, err := strconv.ParseBool(prewarm)
		if err != nil {
			return fmt.Errorf("invalid FONT_PREWARM %q: %w", prewarm, err)
		}
		config.Fonts.Prewarm = b
	}

	if region := os.Getenv("S3_REGION"); region != "" {
		config.Storage.Region = region
	}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		config.Storage.Endpoint = endpoint
	}
	if key := os.Getenv("S3_ACCESS_KEY_ID"); key != "" {
		config.Storage.AccessKeyID = key
	}
	if secret := os.Getenv("S3_SECRET_ACCESS_KEY"); secret != "" {
		config.Storage.SecretAccessKey = secret
	}

	if title := os.Getenv("REPORT_TITLE"); title != "" {
		config.Reports.Title = title
	}
	if footer := os.Getenv("REPORT_FOOTER"); footer != "" {
		config.Reports.Footer = footer
	}
	if text := os.Getenv("REPORT_WATERMARK"); text != "" {
		config.Reports.WatermarkText = text
	}
	return nil
}

// UsesS3 reports whether any font is stored in S3
func (c *Config) UsesS3() bool {
	return typeface.IsS3Location(c.Fonts.RegularLocation) || typeface.IsS3Location(c.Fonts.BoldLocation)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
