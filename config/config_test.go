package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("RAZORPAY_KEY", "rzp_test_key")
	t.Setenv("RAZORPAY_SECRET", "secret")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "INR", cfg.Currency)
	assert.Equal(t, "*", cfg.CORSAllowedOrigin)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.False(t, cfg.ReceiptsEnabled())
}

func TestLoadConfig_RequiresRazorpayCredentials(t *testing.T) {
	t.Setenv("RAZORPAY_KEY", "")
	t.Setenv("RAZORPAY_SECRET", "")

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestLoadConfig_ReceiptsEnabled(t *testing.T) {
	t.Setenv("RAZORPAY_KEY", "k")
	t.Setenv("RAZORPAY_SECRET", "s")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("RECEIPT_EMAIL", "dev@example.com")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.True(t, cfg.ReceiptsEnabled())
}

func TestLoadClientConfig(t *testing.T) {
	t.Setenv("DONATE_API_BASE_URL", "https://api.example.com")
	t.Setenv("DONATE_HTTP_TIMEOUT", "3s")
	t.Setenv("DONATE_PREFILL_EMAIL", "donor@example.com")

	cfg, err := LoadClientConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)

	dc := cfg.DonationConfig()
	assert.Equal(t, "https://checkout.razorpay.com/v1/checkout.js", dc.ScriptURL)
	assert.Equal(t, "donor@example.com", dc.Prefill.Email)
	assert.Equal(t, "Ritik Raj Gupta", dc.Prefill.Name)
	assert.Equal(t, "#3399cc", dc.Theme.Color)
}

func TestLoadClientConfig_RejectsInvalidPrefill(t *testing.T) {
	t.Setenv("DONATE_PREFILL_CONTACT", "12345")

	_, err := LoadClientConfig()

	assert.ErrorContains(t, err, "contact")
}
