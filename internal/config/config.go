package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// APIConfig represents the whole runtime configuration.
type APIConfig struct {
	RequestDump    bool
	Context        ContextConfig
	Authentication AuthenticationConfig
	DB             DBConfig
	LLM            LLMConfig
	Reports        ReportsConfig
	CORS           CORSConfig
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port     int
	Host     string
	GinMode  string
	LogDir   string
	LogLevel string
}

// AuthenticationConfig holds authentication settings.
type AuthenticationConfig struct {
	EnableTokenAuth bool
	AccessSecret    string
	RefreshSecret   string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Driver          string // postgres or sqlite
	DSN             string
	Path            string // sqlite file
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// LLMConfig configures the text generation client.
type LLMConfig struct {
	Provider    string // openai, ollama, mock
	APIKey      string
	Model       string
	BaseURL     string
	OllamaURL   string
	Temperature float64
	Timeout     time.Duration
	MaxAttempts int
}

// ReportsConfig configures report composition and persistence.
type ReportsConfig struct {
	OutputDir      string
	PersistFormats []string
	Parallelism    int
	CatalogPath    string
}

type CORSConfig struct {
	AllowOrigins []string
}

// LoadConfig loads optional dotenv files and reads the process environment.
// Missing dotenv files are ignored.
func LoadConfig(envFiles ...string) (*APIConfig, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &APIConfig{
		RequestDump: getEnvBool("REQUEST_DUMP", false),
		Context: ContextConfig{
			Port:     getEnvInt("PORT", 8000),
			Host:     getEnv("HOST", "0.0.0.0"),
			GinMode:  getEnv("GIN_MODE", "release"),
			LogDir:   getEnv("LOG_DIR", "logs"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Authentication: AuthenticationConfig{
			EnableTokenAuth: getEnvBool("AUTH_ENABLE_TOKEN", false),
			AccessSecret:    getEnv("JWT_ACCESS_SECRET", ""),
			RefreshSecret:   getEnv("JWT_REFRESH_SECRET", ""),
			AccessTTL:       getEnvDuration("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL:      getEnvDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		DB: DBConfig{
			DSN:             getEnv("DATABASE_URL", ""),
			Path:            getEnv("DB_PATH", "inkwell.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Model:       getEnv("LLM_MODEL", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			OllamaURL:   getEnv("OLLAMA_URL", "http://localhost:11434/api/generate"),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.7),
			Timeout:     getEnvDuration("LLM_TIMEOUT", 60*time.Second),
			MaxAttempts: getEnvInt("LLM_MAX_ATTEMPTS", 1),
		},
		Reports: ReportsConfig{
			OutputDir:      getEnv("REPORT_OUTPUT_DIR", "reports"),
			PersistFormats: getEnvList("REPORT_PERSIST_FORMATS"),
			Parallelism:    getEnvInt("REPORT_PARALLELISM", 1),
			CatalogPath:    getEnv("CATALOG_PATH", ""),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvList("CORS_ALLOW_ORIGINS"),
		},
	}

	cfg.DB.Driver = getEnv("DB_DRIVER", "")
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = "sqlite"
		if cfg.DB.DSN != "" {
			cfg.DB.Driver = "postgres"
		}
	}
	if cfg.LLM.Model == "" && cfg.LLM.Provider == "ollama" {
		cfg.LLM.Model = "mistral"
	} else if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-3.5-turbo"
	}
	if len(cfg.CORS.AllowOrigins) == 0 {
		cfg.CORS.AllowOrigins = []string{"*"}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail at first use.
func (c *APIConfig) Validate() error {
	switch c.LLM.Provider {
	case "openai":
		if c.LLM.APIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai provider")
		}
	case "ollama", "mock":
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}

	switch c.DB.Driver {
	case "postgres":
		if c.DB.DSN == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DB.Driver)
	}

	if c.Authentication.EnableTokenAuth && (c.Authentication.AccessSecret == "" || c.Authentication.RefreshSecret == "") {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required when AUTH_ENABLE_TOKEN is set")
	}
	if c.Reports.Parallelism < 1 {
		return fmt.Errorf("REPORT_PARALLELISM must be >= 1, got %d", c.Reports.Parallelism)
	}
	for _, f := range c.Reports.PersistFormats {
		switch f {
		case "json", "html", "pdf":
		default:
			return fmt.Errorf("unsupported REPORT_PERSIST_FORMATS entry %q", f)
		}
	}
	return nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvFloat(k string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getEnvList(k string) []string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
