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
	// Base URL of the marketplace backend API.
	APIBaseURL string

	RequestTimeout time.Duration

	// Where the session token is persisted between runs.
	TokenPath string

	// Stock level at or below which a product shows up in the seller's
	// needs-restock list.
	RestockThreshold int
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using system environment")
	}

	return Config{
		APIBaseURL:       getenv("API_BASE_URL", "http://localhost:8080/api"),
		RequestTimeout:   parseDuration(getenv("REQUEST_TIMEOUT", "15s"), 15*time.Second),
		TokenPath:        getenv("TOKEN_PATH", defaultTokenPath()),
		RestockThreshold: parseInt(getenv("RESTOCK_THRESHOLD", "5"), 5),
	}
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storefront-token"
	}
	return home + string(os.PathSeparator) + ".storefront-token"
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseInt(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
