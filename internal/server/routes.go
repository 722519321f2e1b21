// Package server sets up the HTTP server and registers API routes for
// go-signpdf.
//
// RegisterRoutes returns an http.Handler with all API endpoints for session,
// document, artifact, placement, drag, and batch management.
//
// Expected outputs:
// - All API endpoints are available under /api/sessions
// - CORS and logging middleware are enabled
//
// See README.md for endpoint details and integration examples.
package server

import (
	"net"
	"net/http"

	_ "go-signpdf/docs"
	"go-signpdf/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Only allow requests from localhost to /swagger/*
func localhostOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, _ := net.SplitHostPort(r.RemoteAddr)
		if host != "127.0.0.1" && host != "::1" && host != "localhost" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.With(localhostOnly).Get("/swagger/*", httpSwagger.WrapHandler)
	h := handlers.NewAPIHandler(s.SessionManager, s.UploadDir, s.OutputDir, s.Encoder, s.Certifier)
	r.Route("/api/sessions", func(api chi.Router) {
		api.Post("/", h.CreateSession)
		api.Post("/{sessionID}/documents", h.UploadDocument)
		api.Get("/{sessionID}/documents/{documentID}/pages", h.ListPages)
		api.Post("/{sessionID}/artifacts", h.CreateArtifact)
		api.Delete("/{sessionID}/artifacts/{artifactID}", h.DeleteArtifact)
		api.Post("/{sessionID}/placements", h.ApplyPlacement)
		api.Post("/{sessionID}/placements/grid", h.SelectGridCell)
		api.Get("/{sessionID}/placements/{placementID}/certificate", h.Certificate)
		api.Post("/{sessionID}/drag/begin", h.BeginDrag)
		api.Post("/{sessionID}/drag/move", h.MoveDrag)
		api.Post("/{sessionID}/drag/release", h.ReleaseDrag)
		api.Post("/{sessionID}/drag/cancel", h.CancelDrag)
		api.Post("/{sessionID}/batch", h.ApplyBatch)
		api.Post("/{sessionID}/actions/merge", h.MergeSigned)
		api.Get("/{sessionID}/files/{filename}", h.DownloadFile)
	})

	return r
}
