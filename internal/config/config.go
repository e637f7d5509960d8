package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Skotchmaster/web_store/internal/models"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	DB_HOST       string
	DB_PORT       string
	DB_USER       string
	DB_PASSWORD   string
	DB_NAME       string
	ES_URL        string
	ES_USER       string
	ES_PASSWORD   string
	ES_INDEX      string
	JWT_SECRET    string
	JWT_TTL_HOURS int
	KAFKA_ADDRESS string
	CATALOG_STORE string
	SNAPSHOT_PATH string
	LOG_LEVEL     string
	HTTP_ADDR     string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:       os.Getenv("DB_HOST"),
		DB_PORT:       os.Getenv("DB_PORT"),
		DB_USER:       os.Getenv("DB_USER"),
		DB_PASSWORD:   os.Getenv("DB_PASSWORD"),
		DB_NAME:       os.Getenv("DB_NAME"),
		ES_URL:        os.Getenv("ES_URL"),
		ES_USER:       os.Getenv("ES_USER"),
		ES_PASSWORD:   os.Getenv("ES_PASSWORD"),
		ES_INDEX:      getenvDefault("ES_INDEX", "products"),
		JWT_SECRET:    os.Getenv("JWT_SECRET"),
		JWT_TTL_HOURS: getenvIntDefault("JWT_TTL_HOURS", 168),
		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),
		CATALOG_STORE: getenvDefault("CATALOG_STORE", "live"),
		SNAPSHOT_PATH: getenvDefault("SNAPSHOT_PATH", "data/products_snapshot.json"),
		LOG_LEVEL:     getenvDefault("LOG_LEVEL", "info"),
		HTTP_ADDR:     getenvDefault("HTTP_ADDR", ":8080"),
	}

	return config, nil
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT_TTL_HOURS) * time.Hour
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("cannot run migrations: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
}
