package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/Govind-619/DonateHub/checkout"
	"github.com/Govind-619/DonateHub/donation"
	"github.com/Govind-619/DonateHub/utils"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the payment API
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"development"`

	RazorpayKey    string `env:"RAZORPAY_KEY,required,notEmpty"`
	RazorpaySecret string `env:"RAZORPAY_SECRET,required,notEmpty"`
	Currency       string `env:"PAYMENT_CURRENCY" envDefault:"INR"`

	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
	LogDir            string `env:"LOG_DIR" envDefault:"logs"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`
	ReceiptEmail string `env:"RECEIPT_EMAIL"`
}

// ReceiptsEnabled reports whether donation receipts can be mailed
func (c *Config) ReceiptsEnabled() bool {
	return c.ReceiptEmail != "" && c.SMTPHost != ""
}

// ClientConfig configures the donation flow host
type ClientConfig struct {
	APIBaseURL  string        `env:"DONATE_API_BASE_URL" envDefault:"http://localhost:8080"`
	ScriptURL   string        `env:"DONATE_SCRIPT_URL" envDefault:"https://checkout.razorpay.com/v1/checkout.js"`
	HTTPTimeout time.Duration `env:"DONATE_HTTP_TIMEOUT" envDefault:"15s"`
	LogDir      string        `env:"LOG_DIR" envDefault:"logs"`

	PrefillName    string `env:"DONATE_PREFILL_NAME"`
	PrefillEmail   string `env:"DONATE_PREFILL_EMAIL"`
	PrefillContact string `env:"DONATE_PREFILL_CONTACT"`
}

// DonationConfig merges the overrides into the donate page defaults
func (c *ClientConfig) DonationConfig() donation.Config {
	cfg := donation.DefaultConfig()
	if c.ScriptURL != "" {
		cfg.ScriptURL = c.ScriptURL
	}
	if c.PrefillName != "" {
		cfg.Prefill.Name = c.PrefillName
	}
	if c.PrefillEmail != "" {
		cfg.Prefill.Email = c.PrefillEmail
	}
	if c.PrefillContact != "" {
		cfg.Prefill.Contact = c.PrefillContact
	}
	return cfg
}

// LoadConfig loads the API configuration from the environment and an
// optional .env file
func LoadConfig() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	return cfg, nil
}

// LoadClientConfig loads the donation host configuration
func LoadClientConfig() (*ClientConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	cfg := &ClientConfig{ScriptURL: checkout.ScriptURL}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing client config: %w", err)
	}
	if err := utils.ValidatePrefill(cfg.PrefillName, cfg.PrefillEmail, cfg.PrefillContact); err != nil {
		return nil, fmt.Errorf("invalid prefill: %w", err)
	}
	return cfg, nil
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}
