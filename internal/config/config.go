package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

type Config struct {
	DatabaseURL string
	JWTKey      string
	JWTTTL      time.Duration
	Port        string
}

func Load() *Config {
	_ = godotenv.Load()

	databaseUrl := os.Getenv("DATABASE_URL")
	if databaseUrl == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	jwtKey := os.Getenv("JWT_KEY")
	if jwtKey == "" {
		log.Fatal("JWT_KEY environment variable is required")
	}

	ttl := DefaultTokenTTL
	if raw := os.Getenv("JWT_EXPIRES_IN"); raw != "" {
		parsed, err := ParseTTL(raw)
		if err != nil {
			log.Fatalf("JWT_EXPIRES_IN: %v", err)
		}
		ttl = parsed
	}

	port := os.Getenv("PORT")

	return &Config{DatabaseURL: databaseUrl, JWTKey: jwtKey, JWTTTL: ttl, Port: port}
}

// ParseTTL accepts Go durations ("36h") and whole days ("7d").
func ParseTTL(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// Addr is the listen address, defaulting to :8080.
func (c *Config) Addr() string {
	if c.Port == "" {
		return ":8080"
	}
	return ":" + c.Port
}
