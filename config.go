package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	awspkg "github.com/Ryan-gomezzz/Hush-gentle/pkg/aws"
	"github.com/joho/godotenv"
)

type Config struct {
	Port   string
	AppEnv string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret           string
	AdminEmail          string
	TrustGatewayHeaders bool
	CookieSecure        bool
	AllowedOrigins      []string

	PaymentsProvider    string
	StripeAPIKey        string
	StripeWebhookSecret string
	ChatbotProvider     string

	KafkaBrokers         []string
	AnalyticsKafkaTopic  string
	AnalyticsSNSTopicArn string

	AWSRegion         string
	AWSEndpoint       string
	UseSecrets        bool
	CloudWatchEnabled bool
	LogGroup          string
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "development"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "Asia/Kolkata"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret:           os.Getenv("JWT_SECRET"),
		AdminEmail:          os.Getenv("ADMIN_EMAIL"),
		TrustGatewayHeaders: os.Getenv("TRUST_GATEWAY_HEADERS") == "true",
		CookieSecure:        getEnv("COOKIE_SECURE", "true") == "true",
		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		PaymentsProvider:    getEnv("PAYMENTS_PROVIDER", "stub"),
		StripeAPIKey:        os.Getenv("STRIPE_API_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		ChatbotProvider:     getEnv("CHATBOT_PROVIDER", "stub"),

		KafkaBrokers:         splitList(os.Getenv("KAFKA_BROKERS")),
		AnalyticsKafkaTopic:  getEnv("ANALYTICS_KAFKA_TOPIC", "analytics.events"),
		AnalyticsSNSTopicArn: os.Getenv("ANALYTICS_SNS_TOPIC_ARN"),

		AWSRegion:         getEnv("AWS_REGION", "ap-south-1"),
		AWSEndpoint:       os.Getenv("AWS_ENDPOINT"),
		UseSecrets:        os.Getenv("AWS_USE_SECRETS") == "true",
		CloudWatchEnabled: os.Getenv("CLOUDWATCH_ENABLED") == "true",
		LogGroup:          getEnv("CLOUDWATCH_LOG_GROUP", "/hush-gentle/services"),
	}

	if cfg.UseSecrets {
		cfg.applySecrets(context.Background())
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" || cfg.PostgresHost == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.PaymentsProvider == "stripe" && cfg.StripeAPIKey == "" {
		return nil, fmt.Errorf("STRIPE_API_KEY is required when PAYMENTS_PROVIDER=stripe")
	}
	return cfg, nil
}

// applySecrets overrides database credentials from Secrets Manager. Failures keep the
// environment values.
func (cfg *Config) applySecrets(ctx context.Context) {
	awsCfg, err := awspkg.LoadAWSConfig(ctx, cfg.AWSRegion, cfg.AWSEndpoint)
	if err != nil {
		return
	}
	m, err := awspkg.NewSecretsClient(awsCfg).GetSecretMap(ctx, "hush/DB_CREDENTIALS")
	if err != nil {
		return
	}
	override := func(dst *string, key string) {
		if v, ok := m[key]; ok && v != "" {
			*dst = v
		}
	}
	override(&cfg.PostgresUser, "POSTGRES_USER")
	override(&cfg.PostgresPassword, "POSTGRES_PASSWORD")
	override(&cfg.PostgresDB, "POSTGRES_DB")
	override(&cfg.PostgresHost, "POSTGRES_HOST")
	override(&cfg.PostgresPort, "POSTGRES_PORT")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
