package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roombook-client/config"
	"roombook-client/internal/api"
)

func main() {
	logger := log.New(os.Stdout, "mockapi ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded from %s", configPath)

	loc := time.Local
	if tz := cfg.MockServer.Timezone; tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			logger.Fatalf("invalid mock_server.timezone %q: %v", tz, err)
		}
	}

	backend := api.NewBackend(loc)
	if err := backend.Seed(); err != nil {
		logger.Fatalf("failed to seed backend: %v", err)
	}
	logger.Println("seeded accounts admin/admin123 and user/user123")

	tokens := api.NewTokenIssuer(cfg.MockServer.JWTSecret, time.Duration(cfg.MockServer.TokenTTLHours)*time.Hour)
	handler := api.NewHandler(backend, tokens)
	handler.IdentityInAuth = true

	router := api.NewRouter(handler, api.RouterOptions{
		RateLimitPerSec: cfg.MockServer.RateLimitPerSec,
		RateLimitBurst:  cfg.MockServer.RateLimitBurst,
		CacheTTL:        time.Duration(cfg.MockServer.CacheSeconds) * time.Second,
	})
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MockServer.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.MockServer.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("shutdown signal received, stopping server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("server gracefully stopped")
}
