package configs

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/QuangMinh07/BE-NOM-sub000/pkg/logger"
)

type Config struct {
	Port      string
	GinMode   string
	DBDriver  string
	DBSource  string
	JWTSecret string
	JWTTTL    time.Duration

	Log logger.Config

	PayOS       PayOSConfig
	SMTP        SMTPConfig
	MinIO       MinIOConfig
	ExpoPushURL string

	RedisAddr     string
	RedisPassword string
	RabbitMQURL   string

	OrderAutoCancelAfter time.Duration
	OrderTimeoutPoll     time.Duration

	// StoreLocation is the zone store schedules are written in.
	StoreLocation *time.Location

	CORSOrigins []string

	RateLimitRPS   float64
	RateLimitBurst int

	AdminEmail    string
	AdminPassword string
}

type PayOSConfig struct {
	ClientID    string
	APIKey      string
	ChecksumKey string
	BaseURL     string
	ReturnURL   string
	CancelURL   string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8000")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_SOURCE", "nom.db")
	v.SetDefault("JWT_SECRET", "changeme")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("LOG_FILE", "logs/nom.log")
	v.SetDefault("PAYOS_BASE_URL", "https://api-merchant.payos.vn")
	v.SetDefault("PAYMENT_RETURN_URL", "http://localhost:8000/payment-success")
	v.SetDefault("PAYMENT_CANCEL_URL", "http://localhost:8000/payment-cancel")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MINIO_BUCKET", "nom")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send")
	v.SetDefault("ORDER_AUTO_CANCEL_AFTER", "15m")
	v.SetDefault("ORDER_TIMEOUT_POLL", "30s")
	v.SetDefault("STORE_TIMEZONE", "Asia/Ho_Chi_Minh")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
}

// LoadConfig reads .env (when present), then an optional CONFIG_FILE, then the
// process environment. Environment values win.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		Port:      v.GetString("PORT"),
		GinMode:   v.GetString("GIN_MODE"),
		DBDriver:  v.GetString("DB_DRIVER"),
		DBSource:  v.GetString("DB_SOURCE"),
		JWTSecret: v.GetString("JWT_SECRET"),
		JWTTTL:    v.GetDuration("JWT_TTL"),
		Log: logger.Config{
			Level:    v.GetString("LOG_LEVEL"),
			Format:   v.GetString("LOG_FORMAT"),
			Output:   v.GetString("LOG_OUTPUT"),
			FilePath: v.GetString("LOG_FILE"),
		},
		PayOS: PayOSConfig{
			ClientID:    v.GetString("PAYOS_CLIENT_ID"),
			APIKey:      v.GetString("PAYOS_API_KEY"),
			ChecksumKey: v.GetString("PAYOS_CHECKSUM_KEY"),
			BaseURL:     v.GetString("PAYOS_BASE_URL"),
			ReturnURL:   v.GetString("PAYMENT_RETURN_URL"),
			CancelURL:   v.GetString("PAYMENT_CANCEL_URL"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
		},
		ExpoPushURL:          v.GetString("EXPO_PUSH_URL"),
		RedisAddr:            v.GetString("REDIS_ADDR"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		RabbitMQURL:          v.GetString("RABBITMQ_URL"),
		OrderAutoCancelAfter: v.GetDuration("ORDER_AUTO_CANCEL_AFTER"),
		OrderTimeoutPoll:     v.GetDuration("ORDER_TIMEOUT_POLL"),
		CORSOrigins:          splitList(v.GetString("CORS_ORIGINS")),
		RateLimitRPS:         v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:       v.GetInt("RATE_LIMIT_BURST"),
		AdminEmail:           v.GetString("ADMIN_EMAIL"),
		AdminPassword:        v.GetString("ADMIN_PASSWORD"),
	}
	loc, err := time.LoadLocation(v.GetString("STORE_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("STORE_TIMEZONE: %w", err)
	}
	cfg.StoreLocation = loc
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.Username
	}
	return cfg, nil
}

// splitList parses a comma separated value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
