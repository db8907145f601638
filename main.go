package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/urfave/negroni"
	"go.uber.org/zap"

	"github.com/noteforge/noteforge/config"
	"github.com/noteforge/noteforge/llm_service"
	"github.com/noteforge/noteforge/logging"
	"github.com/noteforge/noteforge/pipeline"
	"github.com/noteforge/noteforge/server"
)

func main() {
	cfg := config.Load()

	fileHandler, err := logging.NewDailyFileHandler(cfg.LogDir, &slog.HandlerOptions{Level: slog.LevelDebug})
	if err != nil {
		log.Fatal("Failed to initialize logging:", err)
	}
	logger := slog.New(fileHandler)

	llm := selectLLMService(cfg)

	orchestrator := pipeline.New(llm, logger, cfg.UploadDir, llm_service.Options{
		Model:       cfg.ModelName,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		MaxTokens:   cfg.MaxTokens,
	}, cfg.ProcessTimeout)

	serverCfg := server.Config{
		Domains:      cfg.Domains,
		CertCacheDir: cfg.CertCacheDir,
		HTTPPort:     cfg.HTTPPort,
		HTTPSPort:    cfg.HTTPSPort,
		UploadDir:    cfg.UploadDir,
		MaxUpload:    cfg.MaxUploadBytes,
	}

	r := server.SetupRoutes(orchestrator, logger, serverCfg)
	n := setupNegroni(r)

	logger.Info("Starting noteforge",
		slog.String("environment", cfg.Environment),
		slog.String("provider", cfg.LLMProvider),
		slog.String("port", cfg.HTTPPort))

	if cfg.Environment == "production" {
		server.ServeProduction(n, serverCfg)
	} else {
		srv := &http.Server{
			Addr:        ":" + cfg.HTTPPort,
			Handler:     n,
			IdleTimeout: time.Minute,
			ReadTimeout: 30 * time.Second,
			// The LLM round-trip can take tens of seconds on large
			// documents.
			WriteTimeout: 120 * time.Second,
		}
		server.ServeDevelopment(srv)
	}
}

func setupNegroni(r *mux.Router) *negroni.Negroni {
	n := negroni.New()

	n.Use(negroni.NewRecovery())
	n.Use(negroni.NewLogger())

	n.UseHandler(r)
	return n
}

// selectLLMService picks the provider client at startup. All providers
// satisfy the same gateway interface; configuration decides, not the
// callers.
func selectLLMService(cfg config.Config) llm_service.Service {
	zapLogger, _ := zap.NewProduction()

	switch cfg.LLMProvider {
	case "openai", "groq", "together":
		return llm_service.NewOpenAIService(zapLogger, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.ModelName)
	default:
		return llm_service.NewGeminiService(zapLogger, cfg.GeminiAPIURL, cfg.GeminiAPIKey)
	}
}
