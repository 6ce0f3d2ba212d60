// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it:
// - Testable (we can create a test server without running main)
// - Reusable (multiple entry points could use the same server config)
// - Clean (main.go stays minimal — just "start the server")
//
// DEPENDENCY INJECTION FLOW:
// New() creates: sqlite.DB → repositories → services → handlers → routes.
// This is the "composition root" pattern — all dependencies are wired
// in one place rather than scattered across the codebase.
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

	"github.com/nafis/blog-platform/internal/auth"
	"github.com/nafis/blog-platform/internal/handler"
	"github.com/nafis/blog-platform/internal/mailer"
	"github.com/nafis/blog-platform/internal/middleware"
	sqliteRepo "github.com/nafis/blog-platform/internal/repository/sqlite"
	"github.com/nafis/blog-platform/internal/service"
)

// Config holds server configuration, loaded by main from the environment.
type Config struct {
	Port          int
	BaseURL       string // public origin, used to validate post-login redirects
	TemplateDir   string
	StaticDir     string
	DBPath        string
	SessionSecret string
	AdminUserID   int64 // the one account allowed to author posts
	Mailer        mailer.Mailer // nil when SMTP is not configured
}

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection. When the server shuts down we
// close it to flush the WAL and release the file lock; Start() handles that.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a new Server with the given config.
//
// Each layer only receives what it needs:
// - Services get repository interfaces (not the concrete sqlite.DB)
// - Handlers get services (not repositories or the DB)
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close() // clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET        /                  → Post index
// GET        /post/{id}         → Single post with comments
// POST       /post/{id}         → Add a comment           [login required]
// GET/POST   /register          → Create an account
// GET/POST   /login             → Log in (honours ?next=)
// GET        /logout            → Log out
// GET/POST   /new-post          → Create a post           [admin only]
// GET/POST   /edit-post/{id}    → Edit a post             [admin only]
// GET        /delete/{id}       → Delete a post           [admin only]
// GET        /about             → About page
// GET/POST   /contact           → Contact form
// GET        /static/*          → Static files (CSS, JS, images)
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID — assigns unique ID to each request (for tracing)
// 2. RealIP — extracts real client IP from proxy headers
// 3. Recoverer — catches panics and returns 500 instead of crashing
// 4. Logger — logs each request with timing info
// 5. CurrentUser — resolves the session cookie into a user for EVERY route,
//    so templates can show login state; guards (RequireAuth/RequireAdmin)
//    are applied per-route on top of it.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Static Files ===
	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// === Auth plumbing ===
	sessions, err := auth.NewSessionService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating session service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// === Services ===
	authService := service.NewAuthService(s.db.Users(), passwords, sessions, s.logger)
	blogService := service.NewBlogService(s.db.Posts(), s.db.Comments(), s.logger)

	// === Handlers ===
	renderer, err := handler.NewRenderer(s.config.TemplateDir, s.config.AdminUserID, s.logger)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	authHandler := handler.NewAuthHandler(authService, s.config.BaseURL, renderer, s.logger)
	blogHandler := handler.NewBlogHandler(blogService, renderer, s.logger)
	pagesHandler := handler.NewPagesHandler(s.config.Mailer, renderer, s.logger)

	// CurrentUser runs on every page route so templates always know who is
	// looking at them. It never rejects a request by itself.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.CurrentUser(sessions, s.db.Users()))

		// Public pages
		r.Get("/", blogHandler.HandleIndex)
		r.Get("/post/{id}", blogHandler.HandleShowPost)
		r.Get("/about", pagesHandler.HandleAbout)
		r.Get("/contact", pagesHandler.HandleContactPage)
		r.Post("/contact", pagesHandler.HandleContact)

		// Account pages
		r.Get("/register", authHandler.HandleRegisterPage)
		r.Post("/register", authHandler.HandleRegister)
		r.Get("/login", authHandler.HandleLoginPage)
		r.Post("/login", authHandler.HandleLogin)
		r.Get("/logout", authHandler.HandleLogout)

		// Commenting requires a logged-in user
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Post("/post/{id}", blogHandler.HandleCreateComment)
		})

		// Post authoring is restricted to the admin account
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Use(auth.RequireAdmin(s.config.AdminUserID))

			r.Get("/new-post", blogHandler.HandleNewPostPage)
			r.Post("/new-post", blogHandler.HandleCreatePost)
			r.Get("/edit-post/{id}", blogHandler.HandleEditPostPage)
			r.Post("/edit-post/{id}", blogHandler.HandleUpdatePost)
			r.Get("/delete/{id}", blogHandler.HandleDeletePost)
		})
	})

	return nil
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases file lock)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", s.config.BaseURL),
			slog.String("database", s.config.DBPath),
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

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
