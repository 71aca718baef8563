package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/config"
	"github.com/Veraticus/spendwise/internal/llm"
	"github.com/Veraticus/spendwise/internal/service"
	"github.com/Veraticus/spendwise/internal/storage"
)

// initStorage opens the configured store and brings its schema up to date.
func initStorage(ctx context.Context) (storage.Store, error) {
	cfg, err := config.LoadStorageConfig(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("Database is not configured correctly", err)
	}

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// app bundles the collaborators most commands need.
type app struct {
	store      storage.Store
	generator  *generatorHandle
	classifier *llm.Classifier
	responder  *llm.ChatResponder
	service    *service.ExpenseService
}

// newApp opens storage and builds the model-backed classifier and chat
// responder. publisher may be nil.
func newApp(ctx context.Context, publisher service.EventPublisher) (*app, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}

	gen, err := createGenerator(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	classifier, responder := createModelClients(gen)
	logger := slog.Default()

	return &app{
		store:      store,
		generator:  gen,
		classifier: classifier,
		responder:  responder,
		service:    service.NewExpenseService(store, classifier, responder, publisher, logger),
	}, nil
}

// Close releases everything newApp opened.
func (a *app) Close() error {
	a.classifier.Close()
	a.generator.Close()
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
