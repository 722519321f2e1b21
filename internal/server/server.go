// Package server provides the HTTP server setup for go-signpdf.
//
// NewServer creates and configures the HTTP server, session manager, file
// directories, and the pdfcpu-backed collaborators used by the handlers.
//
// Expected outputs:
// - Server listens on the configured port (default 8080)
// - Expired sessions and their files are cleaned up periodically
//
// Usage:
//
//	server := server.NewServer()
//	server.ListenAndServe()
//
// See internal/server/routes.go for route registration.
package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"go-signpdf/internal/handlers"
	"go-signpdf/internal/pdf"
	"go-signpdf/internal/placement"
	"go-signpdf/internal/session"

	_ "github.com/joho/godotenv/autoload"
)

type Server struct {
	port           int
	SessionManager *session.SessionManager
	UploadDir      string
	OutputDir      string

	// Collaborators behind the placement engine. Tests swap these for
	// fakes; production wiring is pdfcpu.
	Encoder   placement.Encoder
	Certifier handlers.Certifier
}

func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	uploadDir := envOr("UPLOAD_DIR", "uploads")
	outputDir := envOr("OUTPUT_DIR", "output")

	os.MkdirAll(uploadDir, 0755)
	os.MkdirAll(outputDir, 0755)

	srv := &Server{
		port:           port,
		SessionManager: session.NewSessionManager(),
		UploadDir:      uploadDir,
		OutputDir:      outputDir,
		Encoder:        pdf.Encoder{OutputDir: outputDir},
		Certifier:      handlers.CertifierFunc(pdf.WriteCertificate),
	}

	// Cleanup goroutine for expired sessions and their files.
	ttl := envDuration("SESSION_TTL", 30*time.Minute)
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			srv.SessionManager.Mutex.Lock()
			for id, s := range srv.SessionManager.Sessions {
				if time.Since(s.CreatedAt) > ttl {
					s.Cleanup()
					delete(srv.SessionManager.Sessions, id)
				}
			}
			srv.SessionManager.Mutex.Unlock()
		}
	}()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", srv.port),
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
