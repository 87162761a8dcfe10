package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"

	"github.com/acestudios/print-server/pkg/zpl"
)

type Config struct {
	App       AppConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Receipt   ReceiptConfig
	Labels    LabelConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type ReceiptConfig struct {
	Currency string
	LogoPath string
}

type LabelConfig struct {
	Paper  string
	DPI    int
	Copies int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "print-server")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "3001")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 60)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("RECEIPT_CURRENCY", "PKR")
	viper.SetDefault("RECEIPT_LOGO_PATH", "")
	viper.SetDefault("LABEL_PAPER", string(zpl.Paper3x2Inch))
	viper.SetDefault("LABEL_DPI", zpl.DPI203)
	viper.SetDefault("LABEL_COPIES", 1)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Receipt: ReceiptConfig{
			Currency: viper.GetString("RECEIPT_CURRENCY"),
			LogoPath: viper.GetString("RECEIPT_LOGO_PATH"),
		},
		Labels: LabelConfig{
			Paper:  viper.GetString("LABEL_PAPER"),
			DPI:    viper.GetInt("LABEL_DPI"),
			Copies: viper.GetInt("LABEL_COPIES"),
		},
	}
}

// Validate rejects bad label and receipt defaults at startup so misconfigured
// presets fail the boot instead of the first print job.
func (c *Config) Validate() error {
	if !zpl.ValidPaper(zpl.Paper(c.Labels.Paper)) {
		return fmt.Errorf("config: unknown label paper preset %q", c.Labels.Paper)
	}
	if !zpl.ValidDPI(c.Labels.DPI) {
		return fmt.Errorf("config: unsupported label dpi %d", c.Labels.DPI)
	}
	if c.Labels.Copies < 1 {
		return fmt.Errorf("config: label copies must be at least 1")
	}
	if c.Receipt.Currency == "" {
		return fmt.Errorf("config: receipt currency must not be empty")
	}
	if c.RateLimit.Requests < 1 || c.RateLimit.Duration < 1 {
		return fmt.Errorf("config: rate limit requests and duration must be positive")
	}
	return nil
}
