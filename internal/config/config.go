package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          string
	DatabaseDSN   string
	UsersJSON     string
	Env           string
	TokenTTLHours int
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func Load() Config {
	port := getenv("APP_PORT", "8080")
	dsn := getenv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=msgboard port=5432 sslmode=disable TimeZone=UTC")
	users := getenv("USERS", "[]")
	env := getenv("APP_ENV", "dev")
	ttlStr := getenv("TOKEN_TTL_HOURS", "24")
	ttl, _ := strconv.Atoi(ttlStr)
	if ttl <= 0 {
		ttl = 24
	}
	return Config{
		Port:          port,
		DatabaseDSN:   dsn,
		UsersJSON:     users,
		Env:           env,
		TokenTTLHours: ttl,
	}
}
