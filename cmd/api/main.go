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
	_ "time/tzdata"

	"github.com/alquila-alerts/internal/app"
	"github.com/alquila-alerts/internal/config"
	jwtinfra "github.com/alquila-alerts/internal/infrastructure/jwt"
	transporthttp "github.com/alquila-alerts/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	a.Bootstrap(ctx)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	s3Store, err := a.ObjectStore(ctx)
	if err != nil {
		log.Fatalf("S3 store: %v", err)
	}

	if cfg.SchedulerEnabled {
		go a.Runner.Start(ctx)
	} else {
		log.Println("Scheduler disabled; alerts run only through /v1/alerts/run or the alerts CLI")
	}

	deps := &transporthttp.Deps{
		Runner:           a.Runner,
		Templates:        a.Templates,
		SettingsRepo:     a.Settings,
		OwnerRepo:        a.Owners,
		NotificationRepo: a.Notifications,
		ObjectStore:      s3Store,
		Channel:          a.Channel,
		Mailer:           a.Mailer,
		Verifier:         jwtProvider,
	}

	router := transporthttp.NewRouter(ctx, cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // manual runs dispatch synchronously
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
		os.Exit(1)
	}
	log.Println("Server stopped")
}
