package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Storage    StorageConfig
	Oracle     OracleConfig
	DocumentAI DocumentAIConfig
	Intake     IntakeConfig
	Registry   RegistryConfig
	Bootstrap  BootstrapConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
}

// StorageConfig holds remote object-storage configuration
type StorageConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	FolderPath string
}

// OracleConfig holds AI-oracle (LLM) configuration
type OracleConfig struct {
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
}

// DocumentAIConfig holds slow-path Document AI configuration
type DocumentAIConfig struct {
	ProjectID       string
	Location        string
	ProcessorID     string
	CredentialsFile string
	Timeout         time.Duration
}

// IntakeConfig holds pipeline and orchestrator tuning
type IntakeConfig struct {
	Workers         int
	QueueSize       int
	FileTimeout     time.Duration
	StorageAttempts int
	StorageMinWait  time.Duration
	StorageMaxWait  time.Duration
}

// RegistryConfig points at the authority/abbreviation lookup tables
type RegistryConfig struct {
	Path string // optional YAML file merged over the built-in tables
}

// BootstrapConfig holds the one-time administrator account settings
type BootstrapConfig struct {
	AdminUsername string
	AdminPassword string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Storage: StorageConfig{
			Endpoint:   getEnv("STORAGE_ENDPOINT", ""),
			AccessKey:  getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:  getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:     getEnv("STORAGE_BUCKET", "fleet-certificates"),
			UseSSL:     getEnvAsBool("STORAGE_USE_SSL", true),
			FolderPath: getEnv("STORAGE_FOLDER", "certificates"),
		},
		Oracle: OracleConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		DocumentAI: DocumentAIConfig{
			ProjectID:       getEnv("GOOGLE_PROJECT_ID", ""),
			Location:        getEnv("GOOGLE_LOCATION", "us"),
			ProcessorID:     getEnv("GOOGLE_PROCESSOR_ID", ""),
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
			Timeout:         getEnvAsDuration("DOCUMENT_AI_TIMEOUT", 120*time.Second),
		},
		Intake: IntakeConfig{
			Workers:         getEnvAsInt("INTAKE_WORKERS", 6),
			QueueSize:       getEnvAsInt("INTAKE_QUEUE_SIZE", 256),
			FileTimeout:     getEnvAsDuration("INTAKE_FILE_TIMEOUT", 3*time.Minute),
			StorageAttempts: getEnvAsInt("STORAGE_RETRY_ATTEMPTS", 3),
			StorageMinWait:  getEnvAsDuration("STORAGE_RETRY_MIN_WAIT", 500*time.Millisecond),
			StorageMaxWait:  getEnvAsDuration("STORAGE_RETRY_MAX_WAIT", 10*time.Second),
		},
		Registry: RegistryConfig{
			Path: getEnv("REGISTRY_FILE", ""),
		},
		Bootstrap: BootstrapConfig{
			AdminUsername: getEnv("BOOTSTRAP_ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
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

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Oracle.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}
