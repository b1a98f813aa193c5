package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	consulapi "github.com/hashicorp/consul/api"

	"github.com/tempoapp/scheduling/internal/calendar"
	"github.com/tempoapp/scheduling/internal/config"
	"github.com/tempoapp/scheduling/internal/events"
	"github.com/tempoapp/scheduling/internal/handlers"
	"github.com/tempoapp/scheduling/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("Starting Scheduling Service", map[string]interface{}{
		"port": cfg.Server.Port,
	})

	// Initialize the event store and availability engine
	store := calendar.NewStore(cfg.Calendar.GetLocation())
	avail := calendar.NewAvailability(store, calendar.AvailabilityConfig{
		DayStart:        cfg.Calendar.GetDayStart(),
		DayEnd:          cfg.Calendar.GetDayEnd(),
		MaxDuration:     cfg.Calendar.GetMaxDuration(),
		LookaheadDays:   cfg.Calendar.LookaheadDays,
		SuggestionLimit: cfg.Calendar.SuggestionLimit,
	})

	// Initialize NATS publisher
	publisher, err := events.NewPublisher(cfg.NATS.URL, log)
	if err != nil {
		log.Fatal("Failed to create NATS publisher", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer publisher.Close()

	// Initialize service
	svc := calendar.NewService(store, avail, publisher, log)

	// Start upcoming-event notifier
	notifier := calendar.NewNotifier(
		store,
		publisher,
		log,
		cfg.Scheduler.GetCheckInterval(),
		cfg.Scheduler.GetLookaheadWindow(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go notifier.Start(ctx)

	// Register with Consul
	consulClient, err := registerWithConsul(cfg, log)
	if err != nil {
		log.Warn("Failed to register with Consul", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize HTTP handlers
	handler := handlers.New(svc, log)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("HTTP server listening", map[string]interface{}{
			"address": addr,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	// Stop notifier
	notifier.Stop()
	cancel()

	// Deregister from Consul
	if consulClient != nil {
		if err := consulClient.Agent().ServiceDeregister(cfg.Consul.ServiceID); err != nil {
			log.Error("Failed to deregister from Consul", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log.Info("Server stopped", nil)
}

func registerWithConsul(cfg *config.Config, log *logger.Logger) (*consulapi.Client, error) {
	consulCfg := consulapi.DefaultConfig()
	consulCfg.Address = cfg.Consul.Address

	client, err := consulapi.NewClient(consulCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %w", err)
	}

	registration := &consulapi.AgentServiceRegistration{
		ID:   cfg.Consul.ServiceID,
		Name: cfg.Consul.ServiceName,
		Port: cfg.Server.Port,
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", cfg.Server.Host, cfg.Server.Port),
			Interval:                       cfg.Consul.CheckInterval,
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: cfg.Consul.DeregisterCriticalServiceAfter,
		},
		Tags: []string{"scheduling", "calendar", "v1"},
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		return nil, fmt.Errorf("failed to register service: %w", err)
	}

	log.Info("Registered with Consul", map[string]interface{}{
		"service_id": cfg.Consul.ServiceID,
		"address":    cfg.Consul.Address,
	})

	return client, nil
}
