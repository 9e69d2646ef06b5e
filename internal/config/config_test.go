package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "openai", cfg.AdvisorProvider)
	assert.Equal(t, "https://api.paystack.co", cfg.PaystackBaseURL)
	assert.Equal(t, "leads.enc", cfg.LeadLogPath)
	assert.Equal(t, 100, cfg.TranscriptMaxTurns)
	assert.Equal(t, 30*time.Second, cfg.AdvisorTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ADVISOR_PROVIDER", "Gemini")
	t.Setenv("TRANSCRIPT_MAX_TURNS", "20")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("ADVISOR_TIMEOUT", "5s")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "gemini", cfg.AdvisorProvider)
	assert.Equal(t, 20, cfg.TranscriptMaxTurns)
	assert.True(t, cfg.RedisTLS)
	assert.Equal(t, 5*time.Second, cfg.AdvisorTimeout)
}

func TestGreeting(t *testing.T) {
	cfg := &Config{StoreName: "GlowCart Skincare Store"}
	assert.Equal(t, "Welcome to GlowCart Skincare Store! How can I help you today?", cfg.Greeting())

	cfg.GreetingText = "Hello there"
	assert.Equal(t, "Hello there", cfg.Greeting())
}

func TestInvalidIntFallsBack(t *testing.T) {
	t.Setenv("TRANSCRIPT_MAX_TURNS", "not-a-number")
	cfg := Load()
	assert.Equal(t, 100, cfg.TranscriptMaxTurns)
}
