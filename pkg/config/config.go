package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	Environment     string
	BaseURL         string
	FirebaseProject string
	StorageBucket   string

	FirebaseCredentialsJSON string
	FirebaseCredentialsPath string

	RedisAddress     string
	RedisPassword    string
	DraftSnapshotTTL time.Duration

	NATSURL string

	StripeSecretKey             string
	StripeWebhookSecret         string
	FeaturedPlacementPriceCents int64
	NotarizedReceiptPriceCents  int64
	CheckoutExpiry              time.Duration
	CheckoutGracePeriod         time.Duration

	MaxUploadBytes            int64
	EnforceMinImageDimensions bool
	MinImageWidth             int
	MinImageHeight            int

	MetricsEnabled bool
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:5173"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		StorageBucket:   getEnv("STORAGE_BUCKET", ""),

		FirebaseCredentialsJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),

		RedisAddress:     getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		DraftSnapshotTTL: time.Duration(getEnvAsInt64("DRAFT_SNAPSHOT_TTL_HOURS", 72)) * time.Hour,

		NATSURL: getEnv("NATS_URL", ""),

		StripeSecretKey:             getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret:         getEnv("STRIPE_WEBHOOK_SECRET", ""),
		FeaturedPlacementPriceCents: getEnvAsInt64("FEATURED_PLACEMENT_PRICE_CENTS", 2900),
		NotarizedReceiptPriceCents:  getEnvAsInt64("NOTARIZED_RECEIPT_PRICE_CENTS", 4900),
		CheckoutExpiry:              time.Duration(getEnvAsInt64("CHECKOUT_EXPIRY_MINUTES", 60)) * time.Minute,
		CheckoutGracePeriod:         time.Duration(getEnvAsInt64("CHECKOUT_GRACE_MINUTES", 30)) * time.Minute,

		MaxUploadBytes:            getEnvAsInt64("MAX_UPLOAD_MB", 10) * 1024 * 1024,
		EnforceMinImageDimensions: getEnvAsBool("ENFORCE_MIN_IMAGE_DIMENSIONS", false),
		MinImageWidth:             int(getEnvAsInt64("MIN_IMAGE_WIDTH", 800)),
		MinImageHeight:            int(getEnvAsInt64("MIN_IMAGE_HEIGHT", 600)),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}
