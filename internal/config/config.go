package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	WorkerCount        int
	ReportFile         string
	ReportFormat       string
	Relaxed            bool
	AllowDuplicateZero bool
	MaxTextLen         int
	MaxWordLen         int
	Encoding           string
	Include            []string
	Exclude            []string
	DatabaseURL        string
	LogLevel           string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		WorkerCount:        getEnvInt("MSGSCAN_WORKERS", 8),
		ReportFile:         getEnv("MSGSCAN_REPORT_FILE", "ScanMsg.log"),
		ReportFormat:       getEnv("MSGSCAN_REPORT_FORMAT", "text"),
		Relaxed:            getEnvBool("MSGSCAN_RELAXED", false),
		AllowDuplicateZero: getEnvBool("MSGSCAN_ALLOW_DUPLICATE_ZERO", false),
		MaxTextLen:         getEnvInt("MSGSCAN_MAX_TEXT_LEN", 1024),
		MaxWordLen:         getEnvInt("MSGSCAN_MAX_WORD_LEN", 53),
		Encoding:           getEnv("MSGSCAN_ENCODING", "utf-8"),
		Include:            getEnvList("MSGSCAN_INCLUDE"),
		Exclude:            getEnvList("MSGSCAN_EXCLUDE"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// getEnvList splits a comma-separated value, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
