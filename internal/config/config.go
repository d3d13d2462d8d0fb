package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string
	DatabaseURL   string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// IntakeQ Directory Configuration
	IntakeQAPIKey  string
	IntakeQBaseURL string
	IntakeQTimeout time.Duration

	// Practice Configuration
	DefaultPractitionerEmail string
	DefaultServiceID         string
	DefaultLocationID        string
	TransferNumber           string
	BusinessHoursStart       string
	BusinessHoursEnd         string
	BusinessDays             []int
	PracticeTimezone         string

	// Staff Notification Configuration
	NotifyEnabled    bool
	NotifyRecipients []string
	NotifyFromEmail  string
	NotifyFromName   string
	EmailProvider    string
	SendGridAPIKey   string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	AdminJWTSecret     string
	AllowedOrigins     []string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		// IntakeQ Directory Configuration
		IntakeQAPIKey:  getEnv("INTAKEQ_API_KEY", ""),
		IntakeQBaseURL: getEnv("INTAKEQ_BASE_URL", ""),
		IntakeQTimeout: getEnvAsDuration("INTAKEQ_TIMEOUT", 15*time.Second),

		// Practice Configuration
		DefaultPractitionerEmail: getEnv("DEFAULT_PRACTITIONER_EMAIL", ""),
		DefaultServiceID:         getEnv("DEFAULT_SERVICE_ID", ""),
		DefaultLocationID:        getEnv("DEFAULT_LOCATION_ID", ""),
		TransferNumber:           getEnv("TRANSFER_NUMBER", ""),
		BusinessHoursStart:       getEnv("BUSINESS_HOURS_START", "09:00"),
		BusinessHoursEnd:         getEnv("BUSINESS_HOURS_END", "17:00"),
		BusinessDays:             getEnvAsIntSlice("BUSINESS_DAYS", []int{1, 2, 3, 4, 5}),
		PracticeTimezone:         getEnv("PRACTICE_TIMEZONE", "America/New_York"),

		// Staff Notification Configuration
		NotifyEnabled:    getEnvAsBool("NOTIFY_ENABLED", false),
		NotifyRecipients: getEnvAsSlice("NOTIFY_RECIPIENTS", nil),
		NotifyFromEmail:  getEnv("NOTIFY_FROM_EMAIL", ""),
		NotifyFromName:   getEnv("NOTIFY_FROM_NAME", "Front Desk Assistant"),
		EmailProvider:    strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "auto"))),
		SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		AllowedOrigins:     getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
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

// getEnvAsSlice retrieves a comma-separated environment variable or returns a
// default value. Empty entries are dropped.
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

// getEnvAsIntSlice retrieves a comma-separated list of integers. Entries that
// fail to parse invalidate the whole value and the default is returned.
func getEnvAsIntSlice(key string, defaultValue []int) []int {
	var values []int
	for _, part := range getEnvAsSlice(key, nil) {
		value, err := strconv.Atoi(part)
		if err != nil {
			return defaultValue
		}
		values = append(values, value)
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
