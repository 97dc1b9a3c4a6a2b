package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"storefront/internal/autorespond"
	"storefront/internal/backupstore"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/email"
	"storefront/internal/events"
	"storefront/internal/jobs"
	"storefront/internal/matcher"
	"storefront/internal/metrics"
	"storefront/internal/server"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	if err := seed(ctx, database); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	metrics.Init(database)

	// Event publishing
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.IsKafkaEnabled() {
		kp, err := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopic,
			Username: cfg.KafkaUsername,
			Password: cfg.KafkaPassword,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Kafka: %v", err)
		}
		publisher = kp
		log.Printf("Publishing query events to Kafka topic %s", cfg.KafkaTopic)
	}
	defer publisher.Close()

	opts := []autorespond.Option{autorespond.WithPublisher(publisher)}
	if cfg.IsEmailEnabled() {
		opts = append(opts, autorespond.WithNotifier(email.NewNotifier(cfg)))
	}
	autoRespond := autorespond.NewService(database, matcher.NewResolver(cfg.MatchMinScore), opts...)

	// Off-site backup copies
	var uploader backupstore.Uploader
	if cfg.BackupBucket != "" {
		gcs, err := backupstore.NewGCSUploader(ctx, cfg.BackupBucket)
		if err != nil {
			log.Fatalf("Failed to create backup uploader: %v", err)
		}
		defer gcs.Close()
		uploader = gcs
	}

	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, autoRespond, uploader); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")
		return srv.Shutdown()
	})
	if cfg.AutoRespondInterval > 0 {
		g.Go(func() error {
			return jobs.NewAutoResponder(autoRespond, cfg.AutoRespondInterval).Start(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("Server error: %v", err)
	}

	metrics.Flush()
	log.Println("Server exited")
}
