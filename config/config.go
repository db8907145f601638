package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment    string
	HTTPPort       string
	HTTPSPort      string
	Domains        []string
	CertCacheDir   string
	UploadDir      string
	LogDir         string
	MaxUploadBytes int64

	LLMProvider    string
	GeminiAPIKey   string
	GeminiAPIURL   string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	ModelName      string
	Temperature    float64
	TopP           float64
	MaxTokens      int
	ProcessTimeout time.Duration
}

var isTest bool

func init() {
	isTest = os.Getenv("GO_ENVIRONMENT") == "test"
	if !isTest {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}
}

func Load() Config {
	return Config{
		Environment:    getEnv("ENVIRONMENT", "development"),
		HTTPPort:       getEnv("HTTP_PORT", "5000"),
		HTTPSPort:      getEnv("HTTPS_PORT", "443"),
		Domains:        []string{getEnv("DOMAIN", "example.com")},
		CertCacheDir:   getEnv("CERT_CACHE_DIR", "./certs"),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		LogDir:         getEnv("LOG_DIR", "./logs"),
		MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_MB", 40)) << 20,

		LLMProvider:    getEnv("LLM_PROVIDER", "gemini"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiAPIURL:   getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash-exp:generateContent"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		ModelName:      getEnv("MODEL_NAME", ""),
		Temperature:    getEnvAsFloat("LLM_TEMPERATURE", 0.7),
		TopP:           getEnvAsFloat("LLM_TOP_P", 0.95),
		MaxTokens:      getEnvAsInt("LLM_MAX_TOKENS", 8192),
		ProcessTimeout: time.Duration(getEnvAsInt("PROCESS_TIMEOUT", 60)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
