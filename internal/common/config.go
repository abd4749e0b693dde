package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Store     StoreConfig
	Server    ServerConfig
	OCR       OCRConfig
	Map       MapConfig
	Messaging MessagingConfig
	Log       LogConfig
}

// StoreConfig holds persistence-related configuration
type StoreConfig struct {
	Driver          string // json | sqlite | postgres
	CoordsFile      string
	SQLitePath      string
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr       string
	GRPCHealthAddr string // empty disables the gRPC health endpoint
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Engine        string // tesseract | azure
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	PSM           int
	AzureEndpoint string
	AzureKey      string
	WorkDir       string
}

// MapConfig holds map rendering configuration
type MapConfig struct {
	File     string
	Debounce time.Duration
	Title    string
}

// MessagingConfig holds messaging gateway configuration
type MessagingConfig struct {
	AccountSID      string
	AuthToken       string
	DownloadTimeout time.Duration
	MaxMediaBytes   int64
}

// LogConfig holds logging configuration
type LogConfig struct {
	Format string // text | json
	Level  slog.Level
}

// LoadConfig loads configuration from environment variables, after an optional .env file.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment only")
	}
	port := getEnv("PORT", "5000")
	return &Config{
		Store: StoreConfig{
			Driver:          strings.ToLower(getEnv("STORE_DRIVER", "json")),
			CoordsFile:      getEnv("COORDS_FILE", "coordenadas.json"),
			SQLitePath:      getEnv("SQLITE_PATH", "data/coordenadas.db"),
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			HTTPAddr:       getEnv("HTTP_ADDR", "0.0.0.0:"+port),
			GRPCHealthAddr: getEnv("GRPC_HEALTH_ADDR", ""),
			ReadTimeout:    getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("HTTP_WRITE_TIMEOUT", 2*time.Minute),
		},
		OCR: OCRConfig{
			Engine:        strings.ToLower(getEnv("OCR_ENGINE", "tesseract")),
			Tesseract:     getEnv("TESSERACT_CMD", "tesseract"),
			TesseractLang: getEnv("OCR_LANG", "por+eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			PSM:           getEnvAsInt("TESSERACT_PSM", 0),
			AzureEndpoint: getEnv("AZURE_VISION_ENDPOINT", ""),
			AzureKey:      getEnv("AZURE_VISION_KEY", ""),
			WorkDir:       getEnv("OCR_WORK_DIR", ""),
		},
		Map: MapConfig{
			File:     getEnv("MAP_FILE", "mapa.html"),
			Debounce: getEnvAsDuration("MAP_DEBOUNCE", 60*time.Second),
			Title:    getEnv("MAP_TITLE", "Clientes - Ourilândia"),
		},
		Messaging: MessagingConfig{
			AccountSID:      getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:       getEnv("TWILIO_AUTH_TOKEN", ""),
			DownloadTimeout: getEnvAsDuration("MEDIA_DOWNLOAD_TIMEOUT", 30*time.Second),
			MaxMediaBytes:   int64(getEnvAsInt("MEDIA_MAX_BYTES", 20<<20)),
		},
		Log: LogConfig{
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
			Level:  getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	if value := os.Getenv(key); value != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(value)); err == nil {
			return lvl
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "json":
		if c.Store.CoordsFile == "" {
			return NewAppError("CONFIG_ERROR", "COORDS_FILE is required for the json store", ErrInvalidInput)
		}
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return NewAppError("CONFIG_ERROR", "SQLITE_PATH is required for the sqlite store", ErrInvalidInput)
		}
	case "postgres":
		if c.Store.DSN == "" {
			return NewAppError("CONFIG_ERROR", "DB_URL is required for the postgres store", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "STORE_DRIVER must be one of json, sqlite, postgres", ErrInvalidInput)
	}
	switch c.OCR.Engine {
	case "tesseract":
	case "azure":
		if c.OCR.AzureEndpoint == "" || c.OCR.AzureKey == "" {
			return NewAppError("CONFIG_ERROR", "AZURE_VISION_ENDPOINT and AZURE_VISION_KEY are required for the azure engine", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "OCR_ENGINE must be tesseract or azure", ErrInvalidInput)
	}
	if c.Map.File == "" {
		return NewAppError("CONFIG_ERROR", "MAP_FILE is required", ErrInvalidInput)
	}
	if c.Map.Debounce <= 0 {
		return NewAppError("CONFIG_ERROR", "MAP_DEBOUNCE must be positive", ErrInvalidInput)
	}
	return nil
}

// NewLogger builds the process logger described by cfg.
func NewLogger(cfg LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
