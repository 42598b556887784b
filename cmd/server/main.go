// Command main is the entry point for the Warbler backend server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"warbler/internal/config"
	"warbler/internal/observability"
	"warbler/internal/server"
)

// @title Warbler API
// @version 1.0
// @description Microblogging API with 140-character messages, follows, and likes
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@warbler.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8471
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.TracingEnabled {
		shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
			Enabled:      cfg.TracingEnabled,
			Exporter:     cfg.TracingExporter,
			OTLPEndpoint: cfg.TracingOTLPEndpoint,
			SamplerRatio: cfg.TracingSamplerRatio,
			ServiceName:  "warbler-api",
			Environment:  cfg.Env,
		})
		if err != nil {
			log.Printf("Failed to initialize tracing: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownTracing(ctx); err != nil {
					log.Printf("Tracing shutdown error: %v", err)
				}
			}()
		}
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Fatal(srv.Start())
}
