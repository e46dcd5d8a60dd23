package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"financeai/internal/amqp"
	"financeai/internal/cli"
	"financeai/internal/config"
	"financeai/internal/core"
	apphttp "financeai/internal/http"
	"financeai/internal/log"
	"financeai/internal/services"
	"financeai/internal/storage"
	"financeai/internal/store"
)

const shutdownTimeout = 30 * time.Second

// app holds everything main wires together so that shutdown can release it
// in order.
type app struct {
	logger     *log.Logger
	finance    *services.FinanceService
	chat       *services.ChatService
	server     *apphttp.Server
	exporter   *storage.SQLiteExporter
	amqpClient *amqp.Client
}

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := cli.GracefulShutdown(logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting financeai server", log.FieldOperation, log.OpStartup,
			"port", cfg.Port, "seeded", cfg.SeedFixtures,
			"amqp", a.amqpClient != nil, "export", a.exporter != nil)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := cli.ShutdownContext(shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	exitCode := 0
	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		exitCode = 1
	}
	stop()

	a.close()
	logger.Info("Server stopped gracefully", log.FieldOperation, log.OpShutdown)
	os.Exit(exitCode)
}

// newApp builds the store, the optional event publisher and exporter, the
// services and the HTTP server. An unreachable broker only disables events;
// an unusable export path is fatal.
func newApp(cfg *config.Config, logger *log.Logger) (*app, error) {
	var st *store.Store
	if cfg.SeedFixtures {
		st = store.NewSeeded()
	} else {
		st = store.New(core.State{})
	}

	a := &app{logger: logger}

	var publisher services.EventPublisher
	if cfg.AMQPEnabled() {
		c, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			logger.Warn("AMQP unavailable, finance events will not be published",
				log.FieldComponent, log.ComponentAMQP, log.FieldError, err)
		} else {
			a.amqpClient = c
			publisher = c
			logger.Info("Publishing finance events",
				log.FieldComponent, log.ComponentAMQP, "exchange", cfg.AMQPExchange)
		}
	}

	var serverExporter apphttp.Exporter
	if cfg.ExportEnabled() {
		e, err := storage.NewSQLiteExporter(cfg.ExportPath)
		if err != nil {
			if a.amqpClient != nil {
				_ = a.amqpClient.Close()
			}
			return nil, err
		}
		a.exporter = e
		serverExporter = e
	}

	a.finance = services.NewFinanceService(st, publisher, logger)
	a.chat = services.NewChatService(st, cfg.ChatReplyDelay, services.WithChatLogger(logger))
	a.server = apphttp.NewServer(a.finance, a.chat, apphttp.Options{
		Addr:           ":" + cfg.Port,
		DashboardDays:  cfg.DashboardWindowDays,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Logger:         logger,
		Exporter:       serverExporter,
	})
	return a, nil
}

// close drops pending chat replies, writes the final export and releases
// external connections.
func (a *app) close() {
	if err := a.chat.Close(); err != nil {
		a.logger.Warn("Chat service close error", log.FieldError, err)
	}
	if a.exporter != nil {
		exportOnShutdown(a.logger, a.exporter, a.finance.Snapshot())
		if err := a.exporter.Close(); err != nil {
			a.logger.Warn("Export database close error", log.FieldError, err)
		}
	}
	if a.amqpClient != nil {
		if err := a.amqpClient.Close(); err != nil {
			a.logger.Warn("AMQP close error", log.FieldError, err)
		}
	}
}

// exportOnShutdown writes the final session state so that it can be inspected
// after the process is gone.
func exportOnShutdown(logger *log.Logger, exporter *storage.SQLiteExporter, s core.State) {
	ctx, cancel := cli.ShutdownContext(10 * time.Second)
	defer cancel()

	summary, err := exporter.Export(ctx, s, time.Now())
	if err != nil {
		logger.Error("Final export failed", log.FieldOperation, log.OpExport, log.FieldError, err)
		return
	}
	logger.Info("Final export written", log.FieldOperation, log.OpExport,
		"path", exporter.Path(), "export_id", summary.ID, "transactions", summary.Transactions)
}
