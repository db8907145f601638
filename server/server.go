package server

import (
	"crypto/tls"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/urfave/negroni"
	"golang.org/x/crypto/acme/autocert"

	"github.com/noteforge/noteforge/handlers"
	"github.com/noteforge/noteforge/pipeline"
)

type Config struct {
	Domains      []string
	CertCacheDir string
	HTTPPort     string
	HTTPSPort    string
	UploadDir    string
	MaxUpload    int64
}

// SetupRoutes wires the document-to-notes API plus static serving of
// generated PDFs.
func SetupRoutes(orchestrator *pipeline.Orchestrator, logger *slog.Logger, cfg Config) *mux.Router {
	r := mux.NewRouter()

	uploadHandler := handlers.NewUploadHandler(orchestrator, logger, cfg.MaxUpload)
	askHandler := handlers.NewAskHandler(orchestrator, logger)
	scrapeHandler := handlers.NewScrapeHandler(orchestrator, logger)

	r.Handle("/api/upload", uploadHandler).Methods("POST")
	r.HandleFunc("/api/ask", askHandler.Ask).Methods("POST")
	r.HandleFunc("/api/ask/quiz", askHandler.Quiz).Methods("POST")
	r.Handle("/api/scrape", scrapeHandler).Methods("POST")

	// Generated notes PDFs and stored originals.
	fileServer := http.FileServer(http.Dir(cfg.UploadDir))
	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", fileServer)).Methods("GET")

	return r
}

// ServeProduction starts the server with autocert-managed TLS.
func ServeProduction(n *negroni.Negroni, cfg Config) {
	autocertManager := autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(cfg.Domains...),
		Cache:      autocert.DirCache(cfg.CertCacheDir),
	}

	// Port 80 serves ACME "http-01" challenges and redirects everything
	// else to HTTPS.
	go func() {
		srv := &http.Server{
			Addr:         ":" + cfg.HTTPPort,
			Handler:      autocertManager.HTTPHandler(nil),
			IdleTimeout:  time.Minute,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}

		err := srv.ListenAndServe()
		log.Fatal(err)
	}()

	tlsConfig := &tls.Config{
		GetCertificate:           autocertManager.GetCertificate,
		PreferServerCipherSuites: true,
		CurvePreferences:         []tls.CurveID{tls.X25519, tls.CurveP256},
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPSPort,
		Handler:      n,
		TLSConfig:    tlsConfig,
		IdleTimeout:  time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	err := srv.ListenAndServeTLS("", "") // Key and cert provided by autocert.
	log.Fatal(err)
}

// ServeDevelopment starts the plain HTTP server used outside production.
func ServeDevelopment(s *http.Server) {
	log.Fatal(s.ListenAndServe())
}
