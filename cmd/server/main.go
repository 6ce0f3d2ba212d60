// Package main is the entry point for the blog server.
//
// MAIN PACKAGE IN GO:
// Every Go program starts execution in the main() function of the "main" package.
// The main package should be kept minimal — its job is to:
// 1. Read configuration (from env vars, flags, or config files)
// 2. Create dependencies (logger, database connections, etc.)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
//
// WHY cmd/server/?
// The cmd/ directory is a Go convention for executable entry points.
// A project might have multiple executables (e.g., cmd/server, cmd/migrate).
// Each gets its own directory with its own main.go.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/nafis/blog-platform/internal/mailer"
	"github.com/nafis/blog-platform/internal/server"
)

func main() {
	// === 1. SET UP LOGGING ===
	// slog.New creates a structured logger. slog.NewTextHandler outputs
	// human-readable logs to the terminal.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// === 2. LOAD .env ===
	// godotenv.Load reads a .env file in the working directory into the
	// process environment. A missing file is fine — production sets real
	// env vars instead.
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", slog.String("reason", err.Error()))
	}

	// === 3. READ CONFIGURATION ===
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", port)
	}

	// SESSION_SECRET signs the session cookies. Generate one with:
	//   SESSION_SECRET=$(openssl rand -hex 32)
	// Without it we fall back to an ephemeral random secret: the server
	// works, but every restart logs all users out.
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			logger.Error("generating fallback session secret failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		sessionSecret = hex.EncodeToString(buf)
		logger.Warn("SESSION_SECRET not set — using an ephemeral secret, sessions will not survive restarts")
	}

	// The admin account (the only one allowed to author posts) defaults to
	// the first registered user.
	adminUserID := int64(1)
	if adminStr := os.Getenv("ADMIN_USER_ID"); adminStr != "" {
		var err error
		adminUserID, err = strconv.ParseInt(adminStr, 10, 64)
		if err != nil {
			logger.Error("invalid ADMIN_USER_ID value", slog.String("value", adminStr))
			os.Exit(1)
		}
	}

	// === 4. RESOLVE FILE PATHS ===
	// The "web" directory sits at the project root; running with `go run`
	// from the root makes these relative paths resolve correctly.
	templateDir, _ := filepath.Abs("web/templates")
	staticDir, _ := filepath.Abs("web/static")

	// === 5. DATABASE PATH ===
	// os.MkdirAll creates the data directory if needed (like `mkdir -p`).
	dbPath := "data/blog.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === 6. MAILER (OPTIONAL) ===
	// The contact form sends mail only when SMTP is configured; otherwise
	// the page still renders but submissions are refused with a notice.
	var m mailer.Mailer
	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost != "" {
		smtpPort := 587
		if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
			var err error
			smtpPort, err = strconv.Atoi(portStr)
			if err != nil {
				logger.Error("invalid SMTP_PORT value", slog.String("value", portStr))
				os.Exit(1)
			}
		}
		contactEmail := os.Getenv("CONTACT_EMAIL")
		if contactEmail == "" {
			contactEmail = os.Getenv("SMTP_USERNAME")
		}
		m = mailer.NewSMTPMailer(
			smtpHost,
			smtpPort,
			os.Getenv("SMTP_USERNAME"),
			os.Getenv("SMTP_PASSWORD"),
			contactEmail,
		)
	} else {
		logger.Warn("SMTP_HOST not set — contact form delivery is disabled")
	}

	// === 7. CREATE AND START THE SERVER ===
	cfg := server.Config{
		Port:          port,
		BaseURL:       baseURL,
		TemplateDir:   templateDir,
		StaticDir:     staticDir,
		DBPath:        dbPath,
		SessionSecret: sessionSecret,
		AdminUserID:   adminUserID,
		Mailer:        m,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
