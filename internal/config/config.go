package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	Server    ServerConfig
	Providers ProvidersConfig
	Prompt    PromptConfig
	Session   SessionConfig
	Storage   StorageConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	CORSOrigins string
}

type ProvidersConfig struct {
	QuestionProvider   string
	ScoringProvider    string
	AltScoringProvider string
	MaxOutputTokens    int
	Temperature        float32

	Gemini    ProviderCredentials
	OpenAI    ProviderCredentials
	Anthropic ProviderCredentials
}

type ProviderCredentials struct {
	APIKey  string
	Model   string
	BaseURL string
}

type PromptConfig struct {
	MaxDocumentTokens int
}

type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

type StorageConfig struct {
	MaxFileSize    int64
	Backend        string
	RecordingsPath string
	S3             S3Config
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type LoggingConfig struct {
	Level string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "5000"),
			Env:         getEnv("ENV", "development"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Providers: ProvidersConfig{
			QuestionProvider:   strings.ToLower(getEnv("QUESTION_PROVIDER", ProviderGemini)),
			ScoringProvider:    strings.ToLower(getEnv("SCORING_PROVIDER", ProviderGemini)),
			AltScoringProvider: strings.ToLower(getEnv("ALT_SCORING_PROVIDER", ProviderOpenAI)),
			MaxOutputTokens:    getEnvAsInt("LLM_MAX_OUTPUT_TOKENS", 4096),
			Temperature:        getEnvAsFloat32("LLM_TEMPERATURE", 0.7),
			Gemini: ProviderCredentials{
				APIKey:  getEnv("GEMINI_API_KEY", ""),
				Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
				BaseURL: getEnv("GEMINI_BASE_URL", ""),
			},
			OpenAI: ProviderCredentials{
				APIKey:  getEnv("OPENAI_API_KEY", ""),
				Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
				BaseURL: getEnv("OPENAI_BASE_URL", ""),
			},
			Anthropic: ProviderCredentials{
				APIKey:  getEnv("ANTHROPIC_API_KEY", ""),
				Model:   getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
				BaseURL: getEnv("ANTHROPIC_BASE_URL", ""),
			},
		},
		Prompt: PromptConfig{
			MaxDocumentTokens: getEnvAsInt("PROMPT_MAX_DOCUMENT_TOKENS", 6000),
		},
		Session: SessionConfig{
			TTL:             getEnvAsDuration("SESSION_TTL", "2h"),
			CleanupInterval: getEnvAsDuration("SESSION_CLEANUP_INTERVAL", "10m"),
		},
		Storage: StorageConfig{
			MaxFileSize:    getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			Backend:        strings.ToLower(getEnv("RECORDING_STORAGE", StorageLocal)),
			RecordingsPath: getEnv("RECORDINGS_PATH", "./recordings"),
			S3: S3Config{
				Bucket:    getEnv("S3_BUCKET", ""),
				Region:    getEnv("S3_REGION", "auto"),
				Endpoint:  getEnv("S3_ENDPOINT", ""),
				AccessKey: getEnv("S3_ACCESS_KEY", ""),
				SecretKey: getEnv("S3_SECRET_KEY", ""),
			},
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Validate reports configuration values the server cannot run with.
func (c *Config) Validate() error {
	for name, provider := range map[string]string{
		"QUESTION_PROVIDER":    c.Providers.QuestionProvider,
		"SCORING_PROVIDER":     c.Providers.ScoringProvider,
		"ALT_SCORING_PROVIDER": c.Providers.AltScoringProvider,
	} {
		if !IsKnownProvider(provider) {
			return fmt.Errorf("%s: unsupported provider %q", name, provider)
		}
	}

	switch c.Storage.Backend {
	case StorageLocal:
		if c.Storage.RecordingsPath == "" {
			return fmt.Errorf("RECORDINGS_PATH is required for local recording storage")
		}
	case StorageS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for s3 recording storage")
		}
	default:
		return fmt.Errorf("RECORDING_STORAGE: unsupported backend %q", c.Storage.Backend)
	}

	if c.Providers.MaxOutputTokens <= 0 || c.Providers.MaxOutputTokens > math.MaxInt32 {
		return fmt.Errorf("LLM_MAX_OUTPUT_TOKENS must be between 1 and %d", math.MaxInt32)
	}

	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}

	return nil
}

// Credentials returns the credentials block for a provider name.
func (p ProvidersConfig) Credentials(provider string) ProviderCredentials {
	switch provider {
	case ProviderOpenAI:
		return p.OpenAI
	case ProviderAnthropic:
		return p.Anthropic
	default:
		return p.Gemini
	}
}

func IsKnownProvider(name string) bool {
	switch name {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		return true
	}
	return false
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
