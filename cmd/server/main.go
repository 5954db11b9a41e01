package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"incubator/internal/api"
	"incubator/internal/auth"
	"incubator/internal/db"
	"incubator/internal/services"
	"incubator/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.ConnectFromEnv(ctx)
	if err != nil {
		log.Printf("database connection warning: %v", err)
	}

	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				log.Printf("database close error: %v", err)
			}
		}()
	}

	users := auth.NewUserStore(database)
	if database != nil {
		if err := users.Init(ctx); err != nil {
			log.Printf("credential tables warning: %v", err)
		}
		adminUser := db.Getenv("ADMIN_USERNAME", "admin")
		adminPass := db.Getenv("ADMIN_PASSWORD", "123")
		if err := users.EnsureAdmin(ctx, adminUser, adminPass); err != nil {
			log.Printf("seed admin warning: %v", err)
		}
	}

	st, err := store.New(db.Getenv("DATA_DIR", "excel_files"), db.Getenv("UPLOAD_DIR", "uploads"))
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}

	ttl := 12 * time.Hour
	if hours, err := strconv.Atoi(db.Getenv("SESSION_TTL_HOURS", "12")); err == nil && hours > 0 {
		ttl = time.Duration(hours) * time.Hour
	}
	sessions := auth.NewManager(ttl)
	forms := services.NewFormService(st)

	router := api.NewRouter(api.Config{
		Database: database,
		Users:    users,
		Sessions: sessions,
		Forms:    forms,
	})

	srv := &http.Server{
		Addr:              db.Getenv("ADDR", ":8080"),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
}
