package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	OCR      OCRConfig
	Batch    BatchConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string
}

// OCRConfig holds recognition-related configuration
type OCRConfig struct {
	Tesseract string
	Language  string
	PSM       int
	Enhance   bool
	WorkDir   string
}

// BatchConfig holds worker-pool configuration for batch runs
type BatchConfig struct {
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: getEnv("INVOICE_DB", "invoices.db"),
		},
		OCR: OCRConfig{
			Tesseract: getEnv("TESSERACT_BIN", "tesseract"),
			Language:  getEnv("TESSERACT_LANG", "eng"),
			PSM:       getEnvAsInt("TESSERACT_PSM", 6),
			Enhance:   getEnvAsBool("OCR_ENHANCE", true),
			WorkDir:   getEnv("OCR_WORK_DIR", os.TempDir()),
		},
		Batch: BatchConfig{
			Workers:        getEnvAsInt("BATCH_WORKERS", 4),
			QueueSize:      getEnvAsInt("BATCH_QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("BATCH_PROCESS_TIMEOUT", 2*time.Minute),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return NewAppError("CONFIG_ERROR", "INVOICE_DB is required", ErrInvalidInput)
	}
	if c.OCR.Tesseract == "" {
		return NewAppError("CONFIG_ERROR", "TESSERACT_BIN is required", ErrInvalidInput)
	}
	if c.Batch.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "BATCH_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
