package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	DatabaseDriver string // postgres | sqlite
	DatabaseURL    string

	JWTPublicKeyPath  string
	JWTPrivateKeyPath string // only needed to mint tokens for local tooling
	JWTExpiryDays     int

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion   string
	SNSSenderID string

	DispatchChannel       string // whatsapp | sms
	WhatsAppAPIURL        string
	WhatsAppAPIToken      string
	WhatsAppPhoneNumberID string
	WhatsAppRatePerSecond int
	WhatsAppTimeoutSecs   int

	AlertTimezone            string
	SchedulerEnabled         bool
	SchedulerIntervalMinutes int

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table names.
type DynamoTables struct {
	Notifications    string
	NotificationKeys string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Notifications:    getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			NotificationKeys: getEnv("DYNAMO_TABLE_NOTIFICATION_KEYS", "notification_keys"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "alquila-alerts-exports"),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseURL:    getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=alquila port=5432 sslmode=disable"),

		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", ""),
		JWTExpiryDays:     getEnvInt("JWT_EXPIRY_DAYS", 7),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "alertas@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion:   getEnv("SNS_REGION", "us-east-1"),
		SNSSenderID: getEnv("SNS_SENDER_ID", "Alquila"),

		DispatchChannel:       getEnv("DISPATCH_CHANNEL", "whatsapp"),
		WhatsAppAPIURL:        getEnv("WHATSAPP_API_URL", "https://graph.facebook.com/v19.0"),
		WhatsAppAPIToken:      getEnv("WHATSAPP_API_TOKEN", ""),
		WhatsAppPhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		WhatsAppRatePerSecond: getEnvInt("WHATSAPP_RATE_PER_SECOND", 20),
		WhatsAppTimeoutSecs:   getEnvInt("WHATSAPP_TIMEOUT_SECONDS", 10),

		AlertTimezone:            getEnv("ALERT_TIMEZONE", "America/Lima"),
		SchedulerEnabled:         getEnvBool("SCHEDULER_ENABLED", true),
		SchedulerIntervalMinutes: getEnvInt("SCHEDULER_INTERVAL_MINUTES", 60),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
