package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// API Configuration
	APIPort        string
	APIHost        string
	APIEnvironment string

	// Database
	MongoURI    string
	MongoDBName string

	// Redis
	RedisURL string

	// JWT & Security
	JWTSecret          string
	JWTExpirationHours int

	// CORS
	FrontendURL string

	// Rate Limiting
	RateLimitRequestsPerMinute int
	RateLimitBurst             int

	// Cloudflare R2 (S3-compatible)
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2Bucket          string
	R2Endpoint        string
	R2PublicURL       string

	// Completion API (OpenAI-compatible)
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string

	// Stripe
	StripeSecretKey         string
	StripeWebhookSecret     string
	StripePriceProfessional string
	StripePriceEnterprise   string

	// Email
	SendGridAPIKey string
	SMTPHost       string
	SMTPPort       string
	SMTPUser       string
	SMTPPassword   string
	EmailFrom      string
	EmailFromName  string

	// Sentry
	SentryDSN         string
	SentryEnvironment string

	// Logging
	LogLevel string

	// Jobs
	QuotaReconcileEnabled bool
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		// API
		APIPort:        getEnv("API_PORT", "5000"),
		APIHost:        getEnv("API_HOST", "0.0.0.0"),
		APIEnvironment: getEnv("API_ENVIRONMENT", "development"),

		// Database
		MongoURI:    getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGODB_DB", "lawcaseai"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		// JWT
		JWTSecret:          getEnv("JWT_SECRET", "change-this-in-production"),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 168),

		// CORS
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Rate Limiting
		RateLimitRequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 100),
		RateLimitBurst:             getEnvAsInt("RATE_LIMIT_BURST", 20),

		// R2
		R2AccessKeyID:     getEnv("CLOUDFLARE_R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("CLOUDFLARE_R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:          getEnv("CLOUDFLARE_R2_BUCKET_NAME", "lawcaseai-files"),
		R2Endpoint:        getEnv("CLOUDFLARE_R2_ENDPOINT", ""),
		R2PublicURL:       getEnv("CLOUDFLARE_R2_PUBLIC_URL", ""),

		// Completion API
		LLMAPIKey:  getEnv("FREELLM_API_KEY", ""),
		LLMBaseURL: getEnv("FREELLM_BASE_URL", "https://api.freellm.ai/v1"),
		LLMModel:   getEnv("FREELLM_MODEL", "gpt-3.5-turbo"),

		// Stripe
		StripeSecretKey:         getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret:     getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripePriceProfessional: getEnv("STRIPE_PRICE_PROFESSIONAL", ""),
		StripePriceEnterprise:   getEnv("STRIPE_PRICE_ENTERPRISE", ""),

		// Email
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUser:       getEnv("SMTP_USER", ""),
		SMTPPassword:   getEnv("SMTP_PASS", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "noreply@lawcaseai.com"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "LawCaseAI"),

		// Sentry
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", getEnv("API_ENVIRONMENT", "development")),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Jobs
		QuotaReconcileEnabled: getEnvAsBool("QUOTA_RECONCILE_ENABLED", true),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
