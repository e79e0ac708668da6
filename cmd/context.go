package cmd

import (
	"fmt"

	"object-manager/core/config"
	"object-manager/core/logger"
	"object-manager/core/storage"
	"object-manager/feature/bucket"
	"object-manager/feature/file"

	"go.uber.org/zap"
)

// appContext holds what every command needs after configuration is loaded.
type appContext struct {
	cfg    *config.Config
	logger *zap.Logger
	store  storage.Client
}

func loadAppContext() (*appContext, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, err
	}

	return &appContext{cfg: cfg, logger: logg, store: store}, nil
}

func (a *appContext) fileOptions() file.Options {
	return file.Options{
		Region:        a.cfg.Storage.Region,
		EncodeKeys:    a.cfg.Storage.EncodeKeys,
		ReplacePolicy: a.cfg.Storage.ReplacePolicy,
	}
}

func (a *appContext) bucketService() *bucket.Service {
	return bucket.NewService(a.store, a.cfg.Storage.Region, a.logger)
}

func (a *appContext) fileService() *file.Service {
	return file.NewService(a.store, a.fileOptions(), a.logger)
}
