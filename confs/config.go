package confs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadConfig loads environment variables from a .env file if present
// and validates essential settings when needed.
func LoadConfig() error {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
	}
	return nil
}

// HTTPAddr returns the listen address for the HTTP/WebSocket server.
func HTTPAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return "0.0.0.0:" + port
	}
	return "0.0.0.0:3536"
}

// HTTPPort returns just the port component of the listen address.
func HTTPPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "3536"
}

// LogLevel returns the configured zerolog level name, "info" by default.
func LogLevel() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "info"
}

// LogPretty reports whether console (human) log output is requested.
func LogPretty() bool {
	v := os.Getenv("LOG_PRETTY")
	return v == "1" || v == "true"
}
