package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/eiescz/idiomasbot/internal/adapters/ai"
	"github.com/eiescz/idiomasbot/internal/adapters/memory"
	redisadapter "github.com/eiescz/idiomasbot/internal/adapters/redis"
	"github.com/eiescz/idiomasbot/internal/adapters/whatsapp"
	"github.com/eiescz/idiomasbot/internal/config"
	"github.com/eiescz/idiomasbot/internal/dispatch"
	"github.com/eiescz/idiomasbot/internal/flow"
	"github.com/eiescz/idiomasbot/internal/intent"
	"github.com/eiescz/idiomasbot/internal/logging"
	"github.com/eiescz/idiomasbot/internal/metrics"
	"github.com/eiescz/idiomasbot/internal/ports"
	"github.com/eiescz/idiomasbot/internal/reply"
	"github.com/eiescz/idiomasbot/internal/server"
	"github.com/eiescz/idiomasbot/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	Long:  `Starts the bot: webhook receiver, admin endpoints, CSV exports and metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd.Context()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	env, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	logger := logging.New(logging.ParseLevel(env.LogLevel))

	content, err := config.NewSnapshot(env.ContentPath)
	if err != nil {
		return fmt.Errorf("content: %w", err)
	}

	// Stores: Redis when configured, in-process otherwise.
	var (
		sessions ports.SessionStore
		records  ports.RecordStore
		locker   ports.Locker
	)
	if env.RedisAddr != "" {
		client := backend.NewClient(&backend.Options{
			Addr:     env.RedisAddr,
			Password: env.RedisPassword,
			DB:       env.RedisDB,
		})
		sessions = redisadapter.NewFromClient(client)
		records = redisadapter.NewRecords(client, "")
		locker = redisadapter.NewLocker(client, "")
		logger.Info("using redis stores", "addr", env.RedisAddr)
	} else {
		store := memory.New()
		sessions, records = store, store
		logger.Info("using in-memory stores")
	}

	managerOpts := []session.Option{session.WithLogger(logger)}
	if locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(locker))
	}
	manager := session.NewManager(sessions, managerOpts...)

	registry := prometheus.NewRegistry()
	counters := metrics.New(registry)

	classifier := intent.New(content)
	machine := flow.NewMachine(content, classifier, records,
		flow.WithLogger(logger),
		flow.WithOperatorChannel(env.AdminWhatsApp),
		flow.WithMetrics(counters),
	)

	menu := func() string { return reply.Menu(content.Current()) }
	var generator ports.AnswerGenerator
	if env.ArkAPIKey != "" && env.ArkModel != "" {
		g, err := ai.New(ctx, env.ArkAPIKey, env.ArkModel, content, menu, logger)
		if err != nil {
			return fmt.Errorf("answer generator: %w", err)
		}
		generator = g
		logger.Info("answer generator enabled", "model", env.ArkModel)
	} else {
		generator = ai.NewStatic(menu)
		logger.Info("answer generator disabled, degrading to menu")
	}

	messenger := whatsapp.NewClient(env.WhatsAppToken, env.PhoneNumberID, logger)

	dispatcher := dispatch.New(manager, machine, classifier, content, records, messenger, generator,
		dispatch.WithLogger(logger),
		dispatch.WithMetrics(counters),
	)

	srv := &http.Server{
		Addr:    env.ListenAddr,
		Handler: server.New(dispatcher, content, records, env.VerifyToken, env.AdminToken, registry, logger).Handler(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server: %w", err)
	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown did not complete, closing", "err", err)
			_ = srv.Close()
		}
	}
	return nil
}
