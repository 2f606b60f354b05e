package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Stock lock modes
const (
	LockModeNone  = "none"
	LockModeLocal = "local"
	LockModeRedis = "redis"
)

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	JWTSecret  string
	Port       string
	Env        string
	LogLevel   string
	LogDir     string

	RazorpayKey    string
	RazorpaySecret string

	CODMaxAmount           float64
	DefaultDeliveryCharge  float64
	GSTRate                float64
	StrictVariantSelection bool

	ReaperInterval   time.Duration
	AbandonThreshold time.Duration

	StockLockMode string
	StockLockTTL  time.Duration
	RedisAddr     string
	RedisPassword string

	KafkaBrokers    []string
	KafkaOrderTopic string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	DeliveryChargesFile string
}

// LoadConfig loads configuration from the environment, reading .env when present
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	p := &parser{}
	config := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "shopsphere"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       getEnv("PORT", "8080"),
		Env:        getEnv("ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogDir:     getEnv("LOG_DIR", "logs"),

		RazorpayKey:    os.Getenv("RAZORPAY_KEY"),
		RazorpaySecret: os.Getenv("RAZORPAY_SECRET"),

		CODMaxAmount:           p.floatVal("COD_MAX_AMOUNT", 2000),
		DefaultDeliveryCharge:  p.floatVal("DEFAULT_DELIVERY_CHARGE", 50),
		GSTRate:                p.floatVal("GST_RATE", 0.18),
		StrictVariantSelection: p.boolVal("STRICT_VARIANT_SELECTION", false),

		ReaperInterval:   p.durationVal("REAPER_INTERVAL", 15*time.Minute),
		AbandonThreshold: p.durationVal("ABANDON_THRESHOLD", 30*time.Minute),

		StockLockMode: strings.ToLower(getEnv("STOCK_LOCK_MODE", LockModeNone)),
		StockLockTTL:  p.durationVal("STOCK_LOCK_TTL", 5*time.Second),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic: getEnv("KAFKA_ORDER_TOPIC", "order-events"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     p.intVal("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "orders@shopsphere.local"),

		DeliveryChargesFile: os.Getenv("DELIVERY_CHARGES_FILE"),
	}
	if p.err != nil {
		return nil, p.err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the engine cannot run with
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StockLockMode {
	case LockModeNone, LockModeLocal, LockModeRedis:
	default:
		return fmt.Errorf("invalid STOCK_LOCK_MODE %q: want none, local or redis", c.StockLockMode)
	}
	if c.CODMaxAmount < 0 || c.DefaultDeliveryCharge < 0 || c.GSTRate < 0 {
		return errors.New("COD_MAX_AMOUNT, DEFAULT_DELIVERY_CHARGE and GST_RATE must not be negative")
	}
	if c.ReaperInterval <= 0 || c.AbandonThreshold <= 0 {
		return errors.New("REAPER_INTERVAL and ABANDON_THRESHOLD must be positive")
	}
	return nil
}

// DSN returns the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// parser collects the first conversion error so LoadConfig reports it once
type parser struct {
	err error
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid value %q for %s: %v", value, key, err)
	}
}

func (p *parser) floatVal(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return f
}

func (p *parser) intVal(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p *parser) boolVal(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return b
}

func (p *parser) durationVal(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return d
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
