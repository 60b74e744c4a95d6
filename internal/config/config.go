package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	PDF      PDFConfig
	Console  ConsoleConfig
	Log      LogConfig
	Secrets  SecretsConfig
}

// ServerConfig holds REST backend settings.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// SMTPConfig holds the outgoing mail server used for verify/test/send.
type SMTPConfig struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// PDFConfig selects the invoice renderer.
type PDFConfig struct {
	Engine        string `mapstructure:"engine"`
	ChromeURL     string `mapstructure:"chrome_url"`
	CurrencyLabel string `mapstructure:"currency_label"`
}

// ConsoleConfig holds terminal console settings.
type ConsoleConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	ToastSeconds   int    `mapstructure:"toast_seconds"`
	DownloadDir    string `mapstructure:"download_dir"`
	LogFile        string `mapstructure:"log_file"`
}

// LogConfig mirrors logger.Config.
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// SecretsConfig locates the key used to seal stored SMTP passwords.
type SecretsConfig struct {
	KeyFile string `mapstructure:"key_file"`
}

// ToastDuration is how long a console notification stays visible.
func (c ConsoleConfig) ToastDuration() time.Duration {
	if c.ToastSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.ToastSeconds) * time.Second
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "invoicedesk")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "127.0.0.1:5000")
	v.SetDefault("database.path", filepath.Join(dataDir(), "invoicedesk.db"))
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 465)
	v.SetDefault("smtp.timeout", "15s")
	v.SetDefault("pdf.engine", "fpdf")
	v.SetDefault("pdf.chrome_url", "")
	v.SetDefault("pdf.currency_label", "INR ")
	v.SetDefault("console.base_url", "http://127.0.0.1:5000")
	v.SetDefault("console.currency_symbol", "₹")
	v.SetDefault("console.toast_seconds", 3)
	v.SetDefault("console.download_dir", filepath.Join(os.Getenv("HOME"), "Downloads"))
	v.SetDefault("console.log_file", filepath.Join(dataDir(), "console.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("secrets.key_file", filepath.Join(dataDir(), "secret.key"))
}

// Load reads configuration from file and env. Env var overrides use prefix INVOICEDESK_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("INVOICEDESK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "invoicedesk"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("INVOICEDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine; a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the binaries cannot start with.
func (c Config) Validate() error {
	switch strings.ToLower(c.PDF.Engine) {
	case "fpdf", "chrome":
	default:
		return fmt.Errorf("config: unknown pdf.engine %q", c.PDF.Engine)
	}
	if c.SMTP.Port <= 0 {
		return fmt.Errorf("config: smtp.port must be positive")
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("config: database.path is required")
	}
	return nil
}

// Save writes the non-secret settings to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("INVOICEDESK_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "invoicedesk", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("database.path", cfg.Database.Path)
	v.Set("smtp.host", cfg.SMTP.Host)
	v.Set("smtp.port", cfg.SMTP.Port)
	v.Set("smtp.timeout", cfg.SMTP.Timeout.String())
	v.Set("pdf.engine", cfg.PDF.Engine)
	v.Set("pdf.chrome_url", cfg.PDF.ChromeURL)
	v.Set("pdf.currency_label", cfg.PDF.CurrencyLabel)
	v.Set("console.base_url", cfg.Console.BaseURL)
	v.Set("console.currency_symbol", cfg.Console.CurrencySymbol)
	v.Set("console.toast_seconds", cfg.Console.ToastSeconds)
	v.Set("console.download_dir", cfg.Console.DownloadDir)
	v.Set("console.log_file", cfg.Console.LogFile)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("log.output", cfg.Log.Output)
	v.Set("secrets.key_file", cfg.Secrets.KeyFile)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
