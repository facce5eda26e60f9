package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// VOICEVOX engine
	VoicevoxURL            string
	VoicevoxDefaultSpeaker int

	// Metrics
	MetricsNamespace string
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	defaultSpeaker, _ := strconv.Atoi(getEnv("VOICEVOX_DEFAULT_SPEAKER", "3"))
	return &Config{
		Port:                   getEnv("PORT", "8000"),
		DBHost:                 getEnv("DB_HOST", "localhost"),
		DBPort:                 getEnv("DB_PORT", "5432"),
		DBUser:                 getEnv("DB_USER", "postgres"),
		DBPassword:             getEnv("DB_PASSWORD", ""),
		DBName:                 getEnv("DB_NAME", "hogenchat_db"),
		DBSSLMode:              getEnv("DB_SSLMODE", "disable"),
		VoicevoxURL:            getEnv("VOICEVOX_URL", "http://voicevox:50021"),
		VoicevoxDefaultSpeaker: defaultSpeaker,
		MetricsNamespace:       getEnv("METRICS_NAMESPACE", "hogenchat"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
