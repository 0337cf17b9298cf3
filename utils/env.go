package utils

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ridoystarlord/knexgen/logger"
)

// LoadEnv reads .env (or the given files) into the process environment.
// Variables already set are left alone.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logger.Debug("No .env file found, continuing...")
	}
}

// Getenv returns the variable or def when it is unset or blank.
func Getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// GetenvInt parses an integer variable, falling back to def when it is
// unset or malformed.
func GetenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("ignoring %s=%q: not an integer", key, v)
		return def
	}
	return n
}

// GetenvList splits a comma separated variable, dropping blank items.
func GetenvList(key string) []string {
	return SplitList(os.Getenv(key))
}

// SplitList splits s on commas and trims each item.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
