package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vibast-solutions/ms-go-glucose/app/repository"
	"github.com/vibast-solutions/ms-go-glucose/app/service"
	"github.com/vibast-solutions/ms-go-glucose/app/storage"
	"github.com/vibast-solutions/ms-go-glucose/app/vision"
	"github.com/vibast-solutions/ms-go-glucose/config"

	"github.com/sirupsen/logrus"
)

// openDatabase connects and brings the schema up to date.
func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := repository.Open(ctx, repository.DBConfig{
		Driver:     cfg.DBDriver,
		MySQLDSN:   cfg.MySQLDSN,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, err
	}

	applied, err := repository.Migrate(ctx, db, cfg.DBDriver)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if applied > 0 {
		logrus.WithField("applied", applied).Info("Database migrations applied")
	}

	return db, nil
}

func newPhotoStore(ctx context.Context, cfg *config.Config) (storage.PhotoStore, error) {
	if cfg.Photos.Backend == config.PhotoBackendS3 {
		return storage.NewS3PhotoStore(ctx, storage.S3Config{
			Bucket:          cfg.Photos.S3Bucket,
			Region:          cfg.Photos.S3Region,
			Endpoint:        cfg.Photos.S3Endpoint,
			Prefix:          cfg.Photos.S3Prefix,
			PublicBaseURL:   cfg.Photos.PublicBaseURL,
			AccessKeyID:     cfg.Photos.S3AccessKeyID,
			SecretAccessKey: cfg.Photos.S3SecretAccessKey,
		})
	}
	return storage.NewLocalPhotoStore(cfg.Photos.LocalDir, cfg.Photos.PublicBaseURL)
}

// newDetector returns nil when no vision model is configured or it cannot be reached.
func newDetector(ctx context.Context, cfg *config.Config) service.GlucoseDetector {
	if !cfg.DetectionEnabled() {
		logrus.Info("Glucose value detection disabled")
		return nil
	}

	reader, err := vision.NewGeminiReader(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logrus.WithError(err).Warn("Glucose value detection unavailable")
		return nil
	}
	return reader
}

func newReadingService(ctx context.Context, cfg *config.Config, db *sql.DB) (*service.ReadingService, storage.PhotoStore, error) {
	photos, err := newPhotoStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create photo store: %w", err)
	}

	readings := service.NewReadingService(
		repository.NewReadingRepository(db),
		photos,
		newDetector(ctx, cfg),
		service.ReadingOptions{
			DefaultLimit:  cfg.ReadingsDefaultLimit,
			MaxLimit:      cfg.ReadingsMaxLimit,
			MaxPhotoBytes: cfg.Photos.MaxBytes,
		},
	)
	return readings, photos, nil
}
