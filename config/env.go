package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppEnv         string
	Port           string
	DatabaseURL    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	MigrationsDir  string
	JWTSecret      string
	JWTExpiry      time.Duration
	UploadDir      string
	MaxImageSizeKB int64
	TaxFactor      decimal.Decimal

	RedisURL      string
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	NotifyQueue         string
	NotifyWorkerEnabled bool
	CartTTL             time.Duration
	CartSweepInterval   time.Duration

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	ImageStorage        string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	S3Bucket            string
	S3Region            string

	HTTPBinURL      string
	HelloRecipient  string
	HelloAttachment string

	OriginURL      string
	OTelEnabled    bool
	SwaggerEnabled bool
}

var AppConfig *Config

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	taxFactor, err := decimal.NewFromString(getEnv("TAX_FACTOR", "1.1"))
	if err != nil || !taxFactor.IsPositive() {
		log.Printf("Warning: invalid TAX_FACTOR, falling back to 1.1")
		taxFactor = decimal.RequireFromString("1.1")
	}

	AppConfig = &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("APP_PORT", getEnv("PORT", "8082")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "storefront"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		MigrationsDir:  getEnv("MIGRATIONS_DIR", "database/migration"),
		JWTSecret:      getEnv("JWT_SECRET", "secret"),
		JWTExpiry:      getDuration("JWT_EXPIRY", 24*time.Hour),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		MaxImageSizeKB: getInt64("MAX_IMAGE_SIZE_KB", 500),
		TaxFactor:      taxFactor,

		RedisURL:      os.Getenv("REDIS_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:      getDuration("CACHE_TTL", 5*time.Minute),

		NotifyQueue:         getEnv("NOTIFY_QUEUE", "storefront:notify_customers"),
		NotifyWorkerEnabled: getBool("NOTIFY_WORKER_ENABLED", true),
		CartTTL:             getDuration("CART_TTL", 30*24*time.Hour),
		CartSweepInterval:   getDuration("CART_SWEEP_INTERVAL", time.Hour),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: int(getInt64("SMTP_PORT", 587)),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: getEnv("SMTP_FROM", "from@storefront.com"),

		ImageStorage:        getEnv("IMAGE_STORAGE", "local"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		S3Bucket:            os.Getenv("S3_BUCKET"),
		S3Region:            getEnv("S3_REGION", "us-east-1"),

		HTTPBinURL:      getEnv("HTTPBIN_URL", "https://httpbin.org"),
		HelloRecipient:  getEnv("HELLO_RECIPIENT", "john.smith@domain.com"),
		HelloAttachment: os.Getenv("HELLO_ATTACHMENT"),

		OriginURL:      os.Getenv("ORIGIN_URL"),
		OTelEnabled:    getBool("OTEL_ENABLED", false),
		SwaggerEnabled: getBool("SWAGGER_ENABLED", true),
	}

	return AppConfig
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}
