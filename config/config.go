package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// OrdersTopic carries order lifecycle events from shop-svc to stats-svc.
const OrdersTopic = "orders"

// LoadDotEnv reads a .env file into the process environment when one exists.
// Variables already set in the environment win.
func LoadDotEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Printf("Failed to load .env: %v", err)
	}
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func GetEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Shop holds the shop-svc settings that are not stored in the database.
type Shop struct {
	Addr           string
	PublicBaseURL  string
	ImportAPIKey   string
	RestaurantName string
	SecureCookies  bool
	SessionTTL     time.Duration
	AllowedOrigins []string
	LogLevel       string
}

func LoadShop() Shop {
	env := GetEnv("APP_ENV", "development")
	return Shop{
		Addr:           ":" + GetEnv("PORT", "8081"),
		PublicBaseURL:  strings.TrimRight(GetEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		ImportAPIKey:   os.Getenv("IMPORT_API_KEY"),
		RestaurantName: GetEnv("RESTAURANT_NAME", "SIVIK Restaurant"),
		SecureCookies:  GetEnvBool("SECURE_COOKIES", env == "production" || env == "staging"),
		SessionTTL:     24 * time.Hour,
		AllowedOrigins: GetEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"}),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
	}
}

// Stats holds the stats-svc settings.
type Stats struct {
	Addr           string
	ConsumerGroup  string
	AllowedOrigins []string
	LogLevel       string
}

func LoadStats() Stats {
	return Stats{
		Addr:           ":" + GetEnv("PORT", "8082"),
		ConsumerGroup:  GetEnv("KAFKA_GROUP_ID", "stats-svc-consumer"),
		AllowedOrigins: GetEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"}),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
	}
}

// Gateway holds the api-gateway settings.
type Gateway struct {
	Addr           string
	ShopSvcURL     string
	StatsSvcURL    string
	StaticDir      string
	AllowedOrigins []string
	LogLevel       string
}

func LoadGateway() Gateway {
	return Gateway{
		Addr:           ":" + GetEnv("PORT", "8080"),
		ShopSvcURL:     strings.TrimRight(GetEnv("SHOP_SVC_URL", "http://shop-svc:8081"), "/"),
		StatsSvcURL:    strings.TrimRight(GetEnv("STATS_SVC_URL", "http://stats-svc:8082"), "/"),
		StaticDir:      GetEnv("STATIC_DIR", "./public"),
		AllowedOrigins: GetEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"}),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
	}
}

func MustInitPostgres() *sql.DB {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")

	connStr := "host=" + dbHost + " port=" + dbPort + " user=" + dbUser +
		" password=" + dbPassword + " dbname=" + dbName + " sslmode=" + GetEnv("DB_SSLMODE", "disable")

	if url := os.Getenv("DATABASE_URL"); url != "" {
		connStr = url
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: GetEnv("REDIS_HOST", "localhost") + ":" + GetEnv("REDIS_PORT", "6379"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

// NewKafkaReader returns nil when no broker is configured, like NewKafkaWriter.
func NewKafkaReader(topic, groupID string) *kafka.Reader {
	broker := os.Getenv("KAFKA_BROKER")
	if broker == "" {
		return nil
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: groupID,
	})
}

// NewKafkaWriter returns nil when no broker is configured so callers can run
// without event publishing. Messages are partitioned by key hash.
func NewKafkaWriter(topic string) *kafka.Writer {
	broker := os.Getenv("KAFKA_BROKER")
	if broker == "" {
		return nil
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}
