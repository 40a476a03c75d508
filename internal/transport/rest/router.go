package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/izzatfaris/permohonan-intake/internal/submission"
	"github.com/izzatfaris/permohonan-intake/internal/transport/middleware"
	"github.com/izzatfaris/permohonan-intake/internal/transport/swagger"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, submissionHandler *submission.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1
	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if submissionHandler != nil {
			r.Route("/submissions", func(sr chi.Router) {
				sr.Post("/", submissionHandler.CreateSubmission)                  // POST /submissions
				sr.Get("/", submissionHandler.GetAllSubmissions)                  // GET /submissions
				sr.Get("/email/{email}", submissionHandler.GetSubmissionsByEmail) // GET /submissions/email/:email
				sr.Get("/{id}", submissionHandler.GetSubmission)                  // GET /submissions/:id
				sr.Put("/{id}/status", submissionHandler.UpdateStatus)            // PUT /submissions/:id/status
			})
		}
	})
}
