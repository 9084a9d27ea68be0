// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Printer    PrinterConfig    `mapstructure:"printer"`
	Connection ConnectionConfig `mapstructure:"connection"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	App        AppConfig        `mapstructure:"app"`
}

// PrinterConfig represents encoder defaults applied to a printer session
type PrinterConfig struct {
	Model              string        `mapstructure:"model"`
	CodePage           int           `mapstructure:"code_page"`
	Charset            int           `mapstructure:"charset"`
	LineHeight         int           `mapstructure:"line_height"`
	BarcodeHeight      int           `mapstructure:"barcode_height"`
	EmitBarcodeHeight  bool          `mapstructure:"emit_barcode_height"`
	StatusPollAttempts int           `mapstructure:"status_poll_attempts"`
	StatusPollInterval time.Duration `mapstructure:"status_poll_interval"`
	ApplyDefaults      bool          `mapstructure:"apply_defaults"`
}

// ConnectionConfig selects the transport and carries its settings,
// parsed later by protocol.CreateProtocol
type ConnectionConfig struct {
	Type     string                 `mapstructure:"type"`
	Settings map[string]interface{} `mapstructure:"settings"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// Load reads configuration from path (optional), the default search
// locations and ESCPOS_* environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("escpos")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/escpos")
	}

	v.SetEnvPrefix("ESCPOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Printer defaults mirror the state after ESC @ and SetDefault
	v.SetDefault("printer.model", "generic")
	v.SetDefault("printer.code_page", 0)
	v.SetDefault("printer.charset", 0)
	v.SetDefault("printer.line_height", 30)
	v.SetDefault("printer.barcode_height", 50)
	v.SetDefault("printer.emit_barcode_height", false)
	v.SetDefault("printer.status_poll_attempts", 10)
	v.SetDefault("printer.status_poll_interval", "100ms")
	v.SetDefault("printer.apply_defaults", true)

	// Connection defaults
	v.SetDefault("connection.type", "serial")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)

	// App defaults
	v.SetDefault("app.name", "escpos")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "production")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Connection.Type == "" {
		return fmt.Errorf("connection.type is required")
	}

	if config.Printer.CodePage < 0 || config.Printer.CodePage > 255 {
		return fmt.Errorf("printer.code_page must be between 0 and 255")
	}
	if config.Printer.Charset < 0 || config.Printer.Charset > 255 {
		return fmt.Errorf("printer.charset must be between 0 and 255")
	}
	if config.Printer.StatusPollAttempts < 1 {
		return fmt.Errorf("printer.status_poll_attempts must be at least 1")
	}
	if config.Printer.StatusPollInterval <= 0 {
		return fmt.Errorf("printer.status_poll_interval must be positive")
	}

	validFormats := []string{"json", "console"}
	isValidFormat := false
	for _, format := range validFormats {
		if config.Logging.Format == format {
			isValidFormat = true
			break
		}
	}
	if !isValidFormat {
		return fmt.Errorf("logging.format must be one of: %v", validFormats)
	}

	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	isValidLevel := false
	for _, level := range validLevels {
		if config.Logging.Level == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	return nil
}

// IsDebugEnabled checks if debug logging is enabled
func (c *Config) IsDebugEnabled() bool {
	return c.Logging.Level == "debug"
}
