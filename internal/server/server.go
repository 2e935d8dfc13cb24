// Package server wires the application together: it owns the composition
// root (database → services → handlers), the route table, and the process
// lifecycle (start, signal handling, graceful shutdown).
//
// Each layer receives only what it needs — services get repository
// interfaces, handlers get services. Nothing outside this package knows how
// the pieces are assembled.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/campusworks/internboard/internal/auth"
	"github.com/campusworks/internboard/internal/config"
	"github.com/campusworks/internboard/internal/handler"
	"github.com/campusworks/internboard/internal/middleware"
	sqliteRepo "github.com/campusworks/internboard/internal/repository/sqlite"
	"github.com/campusworks/internboard/internal/service"
)

// Server holds the router, the configuration and the resources the process
// owns — the database connection is closed during shutdown.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain and registers all routes.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes builds the services and handlers and maps them to URLs.
//
// ROUTE TABLE:
//
//	public:
//	  POST /api/register             register (either role)
//	  POST /api/login                password login
//	  POST /api/logout               clear session cookie
//	  GET  /api/jobs                 job catalog (status/job_type/q filters)
//	  GET  /api/jobs/{id}            single posting
//	  GET  /auth/github/login        OAuth redirect (if configured)
//	  GET  /auth/github/callback     OAuth callback (if configured)
//
//	auth required:
//	  GET    /api/me                           current user
//	  POST   /api/jobs                         create posting (employer)
//	  PUT    /api/jobs/{id}                    edit posting (owner)
//	  DELETE /api/jobs/{id}                    delete posting (owner, cascades)
//	  POST   /api/jobs/{id}/rate               rate job (student)
//	  POST   /api/jobs/{id}/apply              apply (student)
//	  GET    /api/applications                 role-scoped listing
//	  GET    /api/applications/{id}            single view (owner sides only)
//	  PUT    /api/applications/{id}/status     move status (owning employer)
//	  POST   /api/applications/{id}/rate       rate application (author)
//	  GET    /api/profile                      own profile
//	  PUT    /api/profile                      partial profile update
//	  DELETE /api/account                      delete account (cascades)
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.cfg.JWT.Secret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	validate := validator.New()

	// One sqlite.DB satisfies all three repository interfaces; each service
	// receives only the interfaces it uses.
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	jobService := service.NewJobService(s.db, s.logger)
	applicationService := service.NewApplicationService(s.db, s.db, s.logger)
	ratingService := service.NewRatingService(s.db, s.db, s.logger)
	profileService := service.NewProfileService(s.db, s.logger)

	var github *auth.GitHubProvider
	if s.cfg.OAuthEnabled() {
		callbackURL := s.cfg.GitHub.CallbackURL
		if callbackURL == "" {
			callbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", s.cfg.Server.Port)
		}
		github = auth.NewGitHubProvider(s.cfg.GitHub.ClientID, s.cfg.GitHub.ClientSecret, callbackURL)
	}

	authHandler := handler.NewAuthHandler(authService, github, validate, s.logger)
	jobHandler := handler.NewJobHandler(jobService, ratingService, authService, validate, s.logger)
	applicationHandler := handler.NewApplicationHandler(applicationService, ratingService, authService, validate, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, authService, s.logger)

	if github != nil {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	} else {
		s.logger.Warn("GitHub OAuth not configured — OAuth routes disabled")
	}

	s.router.Route("/api", func(r chi.Router) {
		// Public: the catalog is browsable without an account, and the
		// auth endpoints obviously can't require one.
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
		r.Get("/jobs", jobHandler.HandleList)
		r.Get("/jobs/{id}", jobHandler.HandleGet)

		// Everything else needs a valid session.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", authHandler.HandleMe)

			r.Post("/jobs", jobHandler.HandleCreate)
			r.Put("/jobs/{id}", jobHandler.HandleUpdate)
			r.Delete("/jobs/{id}", jobHandler.HandleDelete)
			r.Post("/jobs/{id}/rate", jobHandler.HandleRate)
			r.Post("/jobs/{id}/apply", applicationHandler.HandleApply)

			r.Get("/applications", applicationHandler.HandleList)
			r.Get("/applications/{id}", applicationHandler.HandleGet)
			r.Put("/applications/{id}/status", applicationHandler.HandleUpdateStatus)
			r.Post("/applications/{id}/rate", applicationHandler.HandleRate)

			r.Get("/profile", profileHandler.HandleGet)
			r.Put("/profile", profileHandler.HandleUpdate)
			r.Delete("/account", profileHandler.HandleDeleteAccount)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, close
// the database (flushes the WAL and releases the file lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeout) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Server.Port),
			slog.String("database", s.cfg.Database.Path),
			slog.String("environment", s.cfg.Environment),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(),
			time.Duration(s.cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
