package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"bridged/internal/email"
	"bridged/internal/logger"
	"bridged/internal/models"
	"bridged/internal/outbox"
	"bridged/internal/server"
)

func gracefulShutdown(apiServer *http.Server, dispatcher *outbox.Dispatcher, done chan bool) {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info("shutting down gracefully, press Ctrl+C again to force")

	dispatcher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("server exiting")
	done <- true
}

func main() {
	logger.Init()
	log := logger.Get()

	db, err := models.NewDB()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Deployed environments run the versioned SQL migrations; development
	// falls back to GORM auto-migration.
	if os.Getenv("RUN_MIGRATIONS") == "true" {
		migrator := models.NewMigrateAdapter(db.DB)
		if err := migrator.RunMigrations(); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		if version, dirty, err := migrator.GetMigrationVersion(); err == nil {
			log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("database migrated")
		}
	} else if err := db.AutoMigrate(); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	sender, err := email.NewHTTPSender()
	if err != nil {
		log.Fatalf("failed to configure email sender: %v", err)
	}

	dispatcher := outbox.NewDispatcher(db, sender, log)
	cronSpec := os.Getenv("OUTBOX_CRON")
	if cronSpec == "" {
		cronSpec = "* * * * *"
	}
	if err := dispatcher.Start(cronSpec); err != nil {
		log.Fatalf("failed to start outbox dispatcher: %v", err)
	}

	apiServer := server.NewServer(db)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dispatcher, done)

	log.WithField("addr", apiServer.Addr).Info("starting server")
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http server error: %v", err)
	}

	<-done
}
