package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"dividas/internal/amqp"
	"dividas/internal/cli"
	"dividas/internal/notify"
	"dividas/internal/services"
	gsheet "dividas/internal/sheets/google"
	"dividas/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting dividas-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	var sheetsClient *gsheet.Client
	if cfg.SheetsEnabled() {
		var err error
		sheetsClient, err = gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	var mailer *notify.Mailer
	if cfg.MailEnabled() {
		mailer = notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername,
			cfg.SMTPPassword, cfg.MailFrom, cfg.MailTo)
		logger.Info("Reminder mailer initialized", "to", cfg.MailTo)
	} else {
		logger.Info("Reminder mail disabled - no SMTP_HOST provided")
	}

	ctx, cancel := cli.SignalContext()
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if sheetsClient != nil {
		syncWorker := worker.NewSyncWorker(repo, sheetsClient)

		g.Go(func() error {
			return amqp.ConsumeLoop(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
				func(msg *amqp.DebtSyncMessage) error {
					return syncWorker.HandleSyncMessage(ctx, msg)
				},
				func(msg *amqp.DebtDeleteMessage) error {
					return syncWorker.HandleDeleteMessage(ctx, msg)
				})
		})

		g.Go(func() error {
			return syncWorker.RunMirrorLoop(ctx, cfg.SyncInterval)
		})
	}

	if mailer != nil {
		notifier := services.NewReminderNotifier(repo, mailer)
		g.Go(func() error {
			return notifier.Run(ctx, cfg.ReminderInterval)
		})
	}

	if sheetsClient == nil && mailer != nil {
		// Mail-only mode still drains the queue so messages do not pile up.
		g.Go(func() error {
			return amqp.ConsumeLoop(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
				func(msg *amqp.DebtSyncMessage) error { return nil },
				func(msg *amqp.DebtDeleteMessage) error { return nil })
		})
	}

	if sheetsClient == nil && mailer == nil {
		logger.Warn("Nothing to do: both Google Sheets and mail are disabled")
		return
	}

	logger.Info("Worker running",
		"sheets", sheetsClient != nil,
		"mail", mailer != nil,
		"queue", cfg.AMQPQueue)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
