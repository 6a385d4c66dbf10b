package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Reporting ReportingConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	AutoMigrate  bool
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Brokers []string
	GroupID string
	Topics  TopicConfig
	Enabled bool
}

type TopicConfig struct {
	SaleCompleted string
	SaleRefunded  string
}

// ReportingConfig fixes the policy knobs of the sales report: the
// commission fraction applied at ingestion, the trailing window used when
// no explicit date range is supplied, and the caps on the bucketed views.
type ReportingConfig struct {
	CommissionRate       float64
	DefaultPeriodDays    int
	DailySummaryDays     int
	MonthlySummaryMonths int
	TopEventsLimit       int
	CacheTTL             time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8085"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:          getEnv("POSTGRES_DSN", ""),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
			AutoMigrate:  getEnvBool("AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			GroupID: getEnv("KAFKA_GROUP_ID", "marketplace-reporting-group"),
			Enabled: getEnvBool("KAFKA_ENABLED", true),
			Topics: TopicConfig{
				SaleCompleted: getEnv("KAFKA_TOPIC_SALE_COMPLETED", "marketplace.sales.completed"),
				SaleRefunded:  getEnv("KAFKA_TOPIC_SALE_REFUNDED", "marketplace.sales.refunded"),
			},
		},
		Reporting: ReportingConfig{
			CommissionRate:       getEnvFloat("COMMISSION_RATE", 0.05),
			DefaultPeriodDays:    getEnvInt("REPORT_DEFAULT_PERIOD_DAYS", 30),
			DailySummaryDays:     getEnvInt("REPORT_DAILY_SUMMARY_DAYS", 30),
			MonthlySummaryMonths: getEnvInt("REPORT_MONTHLY_SUMMARY_MONTHS", 12),
			TopEventsLimit:       getEnvInt("REPORT_TOP_EVENTS_LIMIT", 20),
			CacheTTL:             time.Duration(getEnvInt("REPORT_CACHE_TTL_SECONDS", 60)) * time.Second,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
