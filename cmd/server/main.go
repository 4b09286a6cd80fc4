package main

import (
	"context"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-maintenance/internal/auth"
	"github.com/ukydev/fleet-maintenance/internal/config"
	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/events"
	"github.com/ukydev/fleet-maintenance/internal/handlers"
	"github.com/ukydev/fleet-maintenance/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	setupLogging(cfg)

	ctx := context.Background()
	client, err := db.Connect(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer client.Disconnect(ctx)

	database := client.Database(cfg.Database)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.WithError(err).Fatal("Failed to create indexes")
	}
	stores := db.NewStores(database)

	authSvc := auth.NewService(cfg, stores.Users)
	if err := authSvc.EnsureAdmin(ctx); err != nil {
		log.WithError(err).Fatal("Failed to ensure admin user")
	}

	bus := events.NewBus()
	if cfg.MQTTBroker != "" {
		publisher, err := events.NewMQTTPublisher(cfg.MQTTBroker, "fleet-maintenance", cfg.MQTTTopic)
		if err != nil {
			log.WithError(err).Warn("MQTT broker unreachable, events stay in-process")
		} else {
			publisher.AttachTo(bus)
			defer publisher.Close()
			log.WithField("broker", cfg.MQTTBroker).Info("Publishing events to MQTT")
		}
	}

	wf := workflow.NewStatusSyncWorkflow(stores, bus)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(stores, authSvc, wf)

	log.WithField("port", cfg.Port).Info("Starting fleet maintenance server")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}

func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.WithError(err).Warn("Failed to open log file, logging to stderr only")
			return
		}
		log.SetOutput(io.MultiWriter(os.Stderr, file))
	}
}
