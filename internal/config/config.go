package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	// Store selection: DATABASE_URL wins, then REDIS_ADDR, then in-memory.
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Advisory text generation
	AdvisorProvider string // openai | gemini
	OpenAIAPIKey    string
	OpenAIModel     string
	GeminiAPIKey    string
	GeminiModel     string
	AdvisorTimeout  time.Duration

	// Paystack payment gateway
	PaystackSecretKey string
	PaystackBaseURL   string

	// Lead archive
	LeadEncryptionKey string // base64, 32 bytes decoded
	LeadLogPath       string
	LeadLogBucket     string

	// Merchant notification
	EmailProvider       string // sendgrid | ses | ""
	SendGridAPIKey      string
	SendGridFromEmail   string
	SendGridFromName    string
	SESFromEmail        string
	MerchantNotifyEmail string

	// Admin surface
	AdminJWTSecret string

	// Conversation behavior
	StoreName          string
	GreetingText       string
	TranscriptMaxTurns int

	// AWS (S3 lead log, SES)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		AdvisorProvider: strings.ToLower(strings.TrimSpace(getEnv("ADVISOR_PROVIDER", "openai"))),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		AdvisorTimeout:  getEnvAsDuration("ADVISOR_TIMEOUT", 30*time.Second),

		PaystackSecretKey: getEnv("PAYSTACK_SECRET_KEY", ""),
		PaystackBaseURL:   getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),

		LeadEncryptionKey: getEnv("LEAD_ENCRYPTION_KEY", ""),
		LeadLogPath:       getEnv("LEAD_LOG_PATH", "leads.enc"),
		LeadLogBucket:     getEnv("LEAD_LOG_BUCKET", ""),

		EmailProvider:       strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", ""))),
		SendGridAPIKey:      getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail:   getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:    getEnv("SENDGRID_FROM_NAME", "GlowCart Sales"),
		SESFromEmail:        getEnv("SES_FROM_EMAIL", ""),
		MerchantNotifyEmail: getEnv("MERCHANT_NOTIFY_EMAIL", ""),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		StoreName:          getEnv("STORE_NAME", "GlowCart Skincare Store"),
		GreetingText:       getEnv("GREETING_TEXT", ""),
		TranscriptMaxTurns: getEnvAsInt("TRANSCRIPT_MAX_TURNS", 100),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// Greeting returns the configured greeting, or one derived from the store name.
func (c *Config) Greeting() string {
	if c.GreetingText != "" {
		return c.GreetingText
	}
	return "Welcome to " + c.StoreName + "! How can I help you today?"
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
