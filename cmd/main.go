// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/masjidnoor/ramadan-volunteers/internal/auth"
	"github.com/masjidnoor/ramadan-volunteers/internal/commands"
	"github.com/masjidnoor/ramadan-volunteers/internal/database"
	"github.com/masjidnoor/ramadan-volunteers/internal/handler"
	"github.com/masjidnoor/ramadan-volunteers/internal/repository"
	"github.com/masjidnoor/ramadan-volunteers/internal/service"
)

func main() {
	// Subcommands before anything touches the environment or the database.
	if len(os.Args) > 1 && os.Args[1] == "hash-secret" {
		commands.HashSecret(os.Args[2:])
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	ctx := context.Background()

	// ── 1. Connect to PostgreSQL and migrate ─────────────────────────────
	pool, err := database.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	log.Println("✓ Connected to PostgreSQL")

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// ── 2. Wire up layers ────────────────────────────────────────────────
	admin := auth.FromEnv()
	if admin.Configured() {
		log.Println("✓ Admin secret configured")
	} else {
		log.Printf("⚠ %s not set - every admin request will be refused", auth.EnvSecretHash)
	}

	repo := repository.NewVolunteerRepository(pool)
	svc := service.NewRegistrationService(repo)
	volunteerHandler := handler.NewVolunteerHandler(svc, admin)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.RequestID)       // attach request IDs
	r.Use(handler.Logger)          // structured access log
	r.Use(handler.CORS)            // permissive CORS for the public board

	// Health
	r.Get("/health", handler.HealthCheck)

	// API routes
	r.Route("/volunteers", func(r chi.Router) {
		r.Get("/", volunteerHandler.Board)
		r.Post("/", volunteerHandler.Register)
		r.Delete("/", volunteerHandler.Delete)
	})
	r.Route("/admin", func(r chi.Router) {
		r.Post("/volunteers", volunteerHandler.AdminList)
		r.Post("/export", volunteerHandler.Export)
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Printf("✓ Server listening on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
