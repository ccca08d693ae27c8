package server

import (
	"crypto/tls"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/serisow/knackflow/handlers"
	"github.com/serisow/knackflow/plugin_registry"
	"golang.org/x/crypto/acme/autocert"
)

type Config struct {
	Domains      []string
	CertCacheDir string
	HTTPPort     string
	IdleTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func SetupRoutes(registry *plugin_registry.PluginRegistry, objects handlers.ObjectLister, logger *slog.Logger) *mux.Router {
	r := mux.NewRouter()

	actionHandler := handlers.NewActionHandler(registry, logger)
	r.HandleFunc("/actions", actionHandler.ListActions).Methods("GET")
	r.HandleFunc("/actions/{name}/execute", actionHandler.ExecuteAction).Methods("POST")

	pipelineHandler := handlers.NewPipelineHandler(registry, logger)
	r.HandleFunc("/pipeline/{id}/execute", pipelineHandler.ExecutePipeline).Methods("POST")
	r.HandleFunc("/pipeline/{id}/execution/{execution_id}/status", pipelineHandler.GetExecutionStatus).Methods("GET")
	r.HandleFunc("/pipeline/{id}/execution/{execution_id}/results", pipelineHandler.GetExecutionResults).Methods("GET")

	knackHandler := handlers.NewKnackHandler(objects, logger)
	r.HandleFunc("/knack/objects", knackHandler.ListObjects).Methods("GET")

	return r
}

// ServeProduction serves h over TLS with certificates obtained through ACME
// for cfg.Domains.
func ServeProduction(h http.Handler, cfg Config) error {
	autocertManager := autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(cfg.Domains...),
		Cache:      autocert.DirCache(cfg.CertCacheDir),
	}

	// Port 80 answers the ACME "http-01" challenges and redirects everything
	// else to HTTPS.
	errCh := make(chan error, 2)
	go func() {
		srv := &http.Server{
			Addr:         ":80",
			Handler:      autocertManager.HTTPHandler(nil),
			IdleTimeout:  cfg.IdleTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}
		errCh <- srv.ListenAndServe()
	}()

	tlsConfig := &tls.Config{
		GetCertificate:   autocertManager.GetCertificate,
		CurvePreferences: []tls.CurveID{tls.X25519, tls.CurveP256},
		MinVersion:       tls.VersionTLS12,
	}

	go func() {
		srv := &http.Server{
			Addr:         ":443",
			Handler:      h,
			TLSConfig:    tlsConfig,
			IdleTimeout:  cfg.IdleTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}
		errCh <- srv.ListenAndServeTLS("", "") // Key and cert provided automatically by autocert.
	}()

	return <-errCh
}

// ServeDevelopment serves h over plain HTTP on cfg.HTTPPort.
func ServeDevelopment(h http.Handler, cfg Config) error {
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h,
		IdleTimeout:  cfg.IdleTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return srv.ListenAndServe()
}
