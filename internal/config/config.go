package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	RedisAddr     string
	RedisPassword string

	JWTPublicKey string

	BatchPoolSize      int
	WorkerConcurrency  int
	RetrySweepInterval time.Duration

	ProcessingEnabled bool
	TaggingEnabled    bool
	WebhookEnabled    bool
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	for _, key := range []string{
		"MARIADB_DSN",
		"MARIADB_MAX_OPEN_CONN",
		"MARIADB_MAX_IDLE_CONNS",
		"MARIADB_CONN_MAX_LIFETIME",
		"SERVER_PORT",
		"MINIO_ENDPOINT",
		"MINIO_ACCESS_KEY",
		"MINIO_SECRET_KEY",
		"MINIO_BUCKET",
	} {
		if !viper.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	viper.SetDefault("BATCH_POOL_SIZE", 20)
	viper.SetDefault("WORKER_CONCURRENCY", 10)
	viper.SetDefault("RETRY_SWEEP_INTERVAL", 300)
	viper.SetDefault("PROCESSING_ENABLED", true)
	viper.SetDefault("TAGGING_ENABLED", false)
	viper.SetDefault("WEBHOOK_ENABLED", false)

	return &Settings{
		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      viper.GetInt("SERVER_PORT"),

		MinioEndpoint:  viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:    viper.GetBool("MINIO_USE_SSL"),
		MinioBucket:    viper.GetString("MINIO_BUCKET"),

		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),

		JWTPublicKey: viper.GetString("JWT_PUBLIC_KEY"),

		BatchPoolSize:      viper.GetInt("BATCH_POOL_SIZE"),
		WorkerConcurrency:  viper.GetInt("WORKER_CONCURRENCY"),
		RetrySweepInterval: time.Duration(viper.GetInt("RETRY_SWEEP_INTERVAL")) * time.Second,

		ProcessingEnabled: viper.GetBool("PROCESSING_ENABLED"),
		TaggingEnabled:    viper.GetBool("TAGGING_ENABLED"),
		WebhookEnabled:    viper.GetBool("WEBHOOK_ENABLED"),
	}, nil
}
