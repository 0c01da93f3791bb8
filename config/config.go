package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Sheet  SheetConfig
	Store  StoreConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
	Observ ObservabilityConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type SheetConfig struct {
	CSVURL          string
	SyncInterval    time.Duration
	FetchTimeout    time.Duration
	MinPayloadBytes int
}

type StoreConfig struct {
	SQLitePath string
}

// RedisConfig configures the optional hot snapshot cache; an empty Addr
// disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig configures the optional event stream; no brokers disables it.
type KafkaConfig struct {
	Brokers    []string
	TopicOrder string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	syncInterval, _ := strconv.Atoi(getEnv("SYNC_INTERVAL_SECONDS", "120"))
	fetchTimeout, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "30"))
	minPayload, _ := strconv.Atoi(getEnv("MIN_PAYLOAD_BYTES", "32"))

	var brokers []string
	if v := getEnv("KAFKA_BROKERS", ""); v != "" {
		brokers = strings.Split(v, ",")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Sheet: SheetConfig{
			CSVURL:          getEnv("SHEET_CSV_URL", ""),
			SyncInterval:    time.Duration(syncInterval) * time.Second,
			FetchTimeout:    time.Duration(fetchTimeout) * time.Second,
			MinPayloadBytes: minPayload,
		},
		Store: StoreConfig{
			SQLitePath: getEnv("SQLITE_PATH", "atelier.db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:    brokers,
			TopicOrder: getEnv("KAFKA_TOPIC_ORDER_EVENTS", "order-events"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, sync_interval=%s",
		cfg.Server.Env, cfg.Server.Port, cfg.Sheet.SyncInterval)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
