package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"payouts/config"
	"payouts/database"
	"payouts/events"
	"payouts/repository"
	"payouts/service"
	"payouts/web"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	// Load configuration
	cfg := config.Get()

	configureLogging(cfg)

	log.Info("Starting payouts server...")

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize event bus
	eventBus := events.NewBus()
	subscribeEventLogging(eventBus)

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	policy := service.NewModeratorPolicy(cfg.ModeratorEmails)
	authService := service.NewAuthService(uowFactory, eventBus, cfg.JWTSecret)
	leaderboardService := service.NewLeaderboardService(uowFactory, policy)

	// Initialize HTTP server
	server := web.New(cfg, authService, leaderboardService)
	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Infof("Server is running in %s mode", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for context cancellation or a server failure
	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}

	log.Info("Shutdown completed")
	return nil
}

func configureLogging(cfg *config.Config) {
	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
		log.SetLevel(log.InfoLevel)
		return
	}
	log.SetLevel(log.DebugLevel)
}

// subscribeEventLogging attaches audit-style logging to workflow events
func subscribeEventLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeUpdateApproved, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.UpdateApprovedEvent); ok {
			log.WithFields(log.Fields{
				"updateID":   e.UpdateID,
				"userID":     e.UserID,
				"oldBalance": e.OldBalance,
				"newBalance": e.NewBalance,
				"approvedBy": e.ApprovedBy,
			}).Info("Balance update approved")
		}
	})

	bus.Subscribe(events.EventTypeUpdateRequested, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.UpdateRequestedEvent); ok {
			log.WithFields(log.Fields{
				"updateID":   e.UpdateID,
				"userID":     e.UserID,
				"newBalance": e.NewBalance,
			}).Info("Balance update requested")
		}
	})

	bus.Subscribe(events.EventTypeSessionChange, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.SessionChangeEvent); ok {
			log.WithFields(log.Fields{
				"userID":   e.UserID,
				"signedIn": e.SignedIn,
			}).Debug("Session changed")
		}
	})
}
