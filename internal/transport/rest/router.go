package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/Affo25/imsdashboard/internal/auth"
	"github.com/Affo25/imsdashboard/internal/transport/middleware"
	"github.com/Affo25/imsdashboard/internal/transport/swagger"
	"github.com/Affo25/imsdashboard/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, guard *auth.Guard, authHandler *auth.Handler, userHandler *user.Handler, specHandler http.HandlerFunc, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware. The guard sits innermost so every route,
	// including unknown ones, goes through the route table.
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(guard.Middleware)

	if specHandler != nil {
		router.Get(swagger.SpecPath, specHandler)
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", authHandler.Register)
			ar.Post("/login", authHandler.Login)
			ar.Get("/me", authHandler.Me)
			ar.Post("/logout", authHandler.Logout)
		})

		// role checks for these live in the guard's route table
		r.Get("/users", userHandler.ListUsers)
		r.Get("/admin/users", userHandler.ListUsers)
	})

	router.Get("/dashboard", userHandler.Dashboard)
	router.Get("/admin", userHandler.Admin)
}
