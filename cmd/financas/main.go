package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"financas/internal/auth"
	"financas/internal/cli"
	"financas/internal/events"
	"financas/internal/export"
	apphttp "financas/internal/http"
	"financas/internal/ledger"
	applog "financas/internal/log"
	"financas/internal/report"
	"financas/internal/sheets/google"
	"financas/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("financas")
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Events are optional; without a broker every write still succeeds.
	var publisher ledger.Publisher
	if cfg.EventsEnabled() {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", "error", err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("Ledger events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	authSvc := auth.NewService(repo)
	ledgerSvc := ledger.NewService(repo, publisher)
	reportSvc := report.NewService(repo)

	exporter := export.NewExporter(repo, reportSvc, export.Format{
		Prefix:       cfg.CurrencyPrefix,
		DecimalSep:   cfg.DecimalSep,
		ThousandsSep: cfg.ThousandsSep,
	})
	if cfg.MirrorEnabled() {
		mirror, err := google.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleReportSheet)
		if err != nil {
			logger.Error("Failed to initialize spreadsheet mirror", "error", err)
		} else {
			exporter = exporter.WithMirror(mirror)
			logger.Info("Report mirror enabled", "sheet", cfg.GoogleReportSheet)
		}
	}

	if cfg.SeedDemo {
		seedDemo(ctx, logger, repo, authSvc)
	}

	srv := apphttp.NewServer(":"+cfg.Port, authSvc, ledgerSvc, reportSvc, exporter, cfg.ExportDir)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server terminated", "error", err)
		return
	}
	logger.Info("Server stopped")
}

// seedDemo provisions the demo account and a canonical month of data so a
// fresh instance has something to report on.
func seedDemo(ctx context.Context, logger *applog.Logger, repo *storage.SQLiteRepository, authSvc *auth.Service) {
	const demoEmail = "demo@financas.local"

	if _, err := authSvc.Register(ctx, "Demo User", demoEmail, "demo"); err != nil {
		logger.Error("Failed to register demo user", "error", err)
		return
	}
	user, err := repo.GetUserByEmail(ctx, demoEmail)
	if err != nil {
		logger.Error("Failed to load demo user", "error", err)
		return
	}
	if err := repo.SeedDemoData(ctx, user.ID); err != nil {
		logger.Error("Failed to seed demo data", "error", err)
		return
	}
	logger.Info("Demo data ready", "user_id", user.ID, "email", demoEmail)
}
