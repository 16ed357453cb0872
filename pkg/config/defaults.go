// Package config provides centralized default values for landingkit
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

// loadEnvFile applies .env overrides without clobbering variables already set
func loadEnvFile() {
	envLoaded.Do(func() {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
		log.Println("Loading configuration overrides from .env file...")
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Failed to load .env file: %v", err)
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	log.Printf("Config override: %s=%s", key, strings.Join(out, ","))
	return out
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	AllowedOrigins     []string

	// Editing Sessions
	MaxSessions            int
	SessionIdleTTL         time.Duration
	SessionCleanupInterval time.Duration
	CleanupVerbose         bool

	// Image Intake
	MaxUploadMB      int
	MediaMaxWidth    int
	MediaWebPQuality int
	MediaConcurrency int

	// Preview Surfaces
	PreviewWriteTimeout   time.Duration
	PreviewPingInterval   time.Duration
	MaxSurfacesPerSession int

	// Export
	ExportMinifyDefault bool

	// Logging
	LogDirectory string
	LogToFile    bool
	LogJSON      bool
	LogLevel     string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://localhost:8080",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
		"http://127.0.0.1:8080",
		"http://[::1]:3000", // IPv6 localhost
		"http://[::1]:5173",
		"http://[::1]:8080",
	})

	// Editing Sessions
	MaxSessions = getEnvInt("MAX_SESSIONS", 1000)
	SessionIdleTTL = getEnvDuration("SESSION_IDLE_TTL", 2*time.Hour)
	SessionCleanupInterval = getEnvDuration("SESSION_CLEANUP_INTERVAL", 5*time.Minute)
	CleanupVerbose = getEnvBool("SESSION_CLEANUP_VERBOSE", false)

	// Image Intake
	MaxUploadMB = getEnvInt("MAX_UPLOAD_MB", 20)
	MediaMaxWidth = getEnvInt("MEDIA_MAX_WIDTH", 0)
	MediaWebPQuality = getEnvInt("MEDIA_WEBP_QUALITY", 85)
	MediaConcurrency = getEnvInt("MEDIA_CONCURRENCY", 4)

	// Preview Surfaces
	PreviewWriteTimeout = getEnvDuration("PREVIEW_WRITE_TIMEOUT", 10*time.Second)
	PreviewPingInterval = getEnvDuration("PREVIEW_PING_INTERVAL", 30*time.Second)
	MaxSurfacesPerSession = getEnvInt("MAX_SURFACES_PER_SESSION", 8)

	// Export
	ExportMinifyDefault = getEnvBool("EXPORT_MINIFY_DEFAULT", false)

	// Logging
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
	LogToFile = getEnvBool("LOG_TO_FILE", false)
	LogJSON = getEnvBool("LOG_JSON", true)
	LogLevel = getEnvString("LOG_LEVEL", "INFO")
}
