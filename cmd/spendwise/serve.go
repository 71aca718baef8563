package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/spendwise/internal/config"
	"github.com/Veraticus/spendwise/internal/events"
	"github.com/Veraticus/spendwise/internal/server"
	"github.com/Veraticus/spendwise/internal/service"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the expense API used by the web dashboard:

  GET    /expenses      list expenses, newest first
  POST   /add-expense   record and categorize an expense
  POST   /chat          ask about recent spending
  DELETE /delete/{id}   remove an expense
  GET    /summary       totals per category`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :5000)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	publisher := connectPublisher(ctx, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close event publisher", "error", err)
		}
	}()

	a, err := newApp(ctx, publisher)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("Failed to close resources", "error", err)
		}
	}()

	srv := server.New(config.LoadServerConfig(viper.GetViper()), a.service, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", srv.Addr, "offline", a.generator.offline)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}

// eventPublisher is a service.EventPublisher that must be closed.
type eventPublisher interface {
	service.EventPublisher
	Close() error
}

// connectPublisher dials the broker when configured. A broker that cannot
// be reached only disables events.
func connectPublisher(ctx context.Context, logger *slog.Logger) eventPublisher {
	settings := config.LoadEventsConfig(viper.GetViper())
	if settings.AMQPURL == "" {
		logger.Info("AMQP disabled - expense events will not be published")
		return events.NopPublisher{}
	}

	pub, err := events.NewAMQPPublisher(ctx, settings.AMQPURL, settings.Exchange, logger)
	if err != nil {
		logger.Warn("Failed to connect to AMQP broker, continuing without events", "error", err)
		return events.NopPublisher{}
	}
	logger.Info("AMQP publisher connected", "exchange", settings.Exchange)
	return pub
}
