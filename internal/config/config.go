// Package config provides configuration for the assistant backend.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the assistant configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database (turn/event audit log)
	DatabaseURL string

	// Decision oracle (OpenAI-compatible endpoint)
	OracleBaseURL string
	OracleAPIKey  string
	OracleModel   string
	OracleTimeout time.Duration

	// Pinecone retrieval store
	PineconeAPIKey  string
	PineconeIndex   string
	PineconeBaseURL string

	// Tavily web search
	TavilyAPIKey string

	// CTSV portal
	CTSVBaseURL string

	// Orchestration
	MaxTurnSteps int
	ToolTimeout  time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:        getEnvInt("HTTP_PORT", 8000),
		DatabaseURL:     getEnv("DATABASE_URL", "file:assistant.db?cache=shared&mode=rwc"),
		OracleBaseURL:   getEnv("ORACLE_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
		OracleAPIKey:    getEnv("ORACLE_API_KEY", os.Getenv("GEMINI_API_KEY")),
		OracleModel:     getEnv("ORACLE_MODEL", "gemini-2.5-flash"),
		OracleTimeout:   time.Duration(getEnvInt("ORACLE_TIMEOUT_MS", 60000)) * time.Millisecond,
		PineconeAPIKey:  getEnv("PINECONE_API_KEY", ""),
		PineconeIndex:   getEnv("PINECONE_INDEX", "sotayhust"),
		PineconeBaseURL: getEnv("PINECONE_BASE_URL", ""),
		TavilyAPIKey:    getEnv("TAVILY_API_KEY", ""),
		CTSVBaseURL:     getEnv("CTSV_BASE_URL", "https://ctsv.hust.edu.vn"),
		MaxTurnSteps:    getEnvInt("MAX_TURN_STEPS", 8),
		ToolTimeout:     time.Duration(getEnvInt("TOOL_TIMEOUT_MS", 15000)) * time.Millisecond,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
