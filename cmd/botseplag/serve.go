package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/GibaTrindade/bot-seplag/internal/adapters/backend"
	"github.com/GibaTrindade/bot-seplag/internal/adapters/evolution"
	"github.com/GibaTrindade/bot-seplag/internal/adapters/httpserver"
	"github.com/GibaTrindade/bot-seplag/internal/config"
	"github.com/GibaTrindade/bot-seplag/internal/domain"
	"github.com/GibaTrindade/bot-seplag/internal/engine"
	"github.com/GibaTrindade/bot-seplag/internal/logging"
	"github.com/GibaTrindade/bot-seplag/internal/metrics"
	"github.com/GibaTrindade/bot-seplag/internal/ports"
	"github.com/GibaTrindade/bot-seplag/internal/quotes"
	"github.com/GibaTrindade/bot-seplag/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	Long:  `Starts the bot engine and listens for inbound message deliveries from the Evolution relay.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")

		logger := logging.New(slog.LevelInfo)

		cfg, err := config.Load(cfgPath)
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		reg := prometheus.NewRegistry()
		collectors := metrics.New(reg)
		hooks := collectors.Hooks()

		store := buildStore(cfg, hooks, logger)
		channel := evolution.New(cfg.EvolutionURL, cfg.EvolutionAPIKey, cfg.EvolutionInstance,
			evolution.WithLogger(logger))
		gateway := backend.New(cfg.BackendURL, backend.WithLogger(logger))
		picker := quotes.NewFilePicker(cfg.QuotesPath)

		eng := engine.New(store, gateway, picker, channel,
			engine.WithHooks(hooks),
			engine.WithLogger(logger),
		)

		handler := httpserver.NewHandler(eng,
			httpserver.WithLogger(logger),
			httpserver.WithInboundCounter(collectors.MessagesInbound),
			httpserver.WithRegistry(reg),
		)

		srv := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting webhook server",
				"addr", srv.Addr,
				"backend", cfg.BackendURL,
				"store", cfg.SessionStore,
			)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("starting shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "err", err)
				}
			}
			logger.Info("webhook server stopped")
		}
	},
}

// buildStore selects the session store backend from configuration.
func buildStore(cfg *config.Config, hooks domain.Hooks, logger *slog.Logger) ports.SessionStore {
	if cfg.SessionStore == "redis" {
		return session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			session.WithRedisTTL(cfg.SessionTTL.Std()),
		)
	}

	return session.NewMemoryStore(
		session.WithTTL(cfg.SessionTTL.Std()),
		session.WithLogger(logger),
		session.WithOnExpire(func(userID string, step domain.Step) {
			if hooks.OnSessionExpire != nil {
				hooks.OnSessionExpire(context.Background(), &domain.SessionEvent{UserID: userID, Step: step})
			}
		}),
	)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
