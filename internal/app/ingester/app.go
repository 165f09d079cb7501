// Package ingester implements the cwingest command line app.
package ingester

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"                  // Wrap errors with stacktrace.
	"go.uber.org/zap"                        // Logging.
	kingpin "gopkg.in/alecthomas/kingpin.v2" // Command line flag parsing.

	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs/cloudwatchlogsiface"

	"github.com/sjolander/cloudwatch-search/internal/pkg/cmd" // Common command line app tools.
	"github.com/sjolander/cloudwatch-search/pkg/cwingest"     // Batch-load documents into CloudWatch Logs.
)

const (
	Name  = "cwingest"
	Usage = "Batch-load a file of JSON documents into a CloudWatch Logs log group so they can be searched with cwsearch."
)

// App holds application state.
type App struct {
	*kingpin.Application

	flags *Flags // Command line flags

	// API clients.
	clients struct {
		CloudWatchLogs cloudwatchlogsiface.CloudWatchLogsAPI
	}
}

// NewApp returns a new App.
func NewApp() *App {
	app := &App{
		Application: kingpin.New(filepath.Base(os.Args[0]), Usage),
	}
	app.flags = NewFlags(app.Application)

	// Set up AWS client(s).
	app.Action(func(*kingpin.ParseContext) error {
		sess, err := app.flags.Session()
		if err != nil {
			return errors.Wrap(err, "error creating AWS session")
		}
		app.clients.CloudWatchLogs = cloudwatchlogs.New(sess)
		return nil
	})

	return app
}

// Main is the main method of App and should be called
// in main.main() after flag parsing.
func (app *App) Main() {
	logger := app.flags.NewLogger()
	defer func() { _ = logger.Sync() }()
	teardownLogger := cmd.SetGlobalLogger(logger)
	defer teardownLogger()

	docs, err := LoadDocuments(app.flags.File, logger)
	if err != nil {
		logger.Fatal("error reading document file",
			zap.String("file", app.flags.File),
			zap.Error(err),
		)
	}
	if len(docs) == 0 {
		logger.Fatal("no valid documents in file", zap.String("file", app.flags.File))
	}

	ctx, cancel := cmd.WithInterrupt(context.Background())
	defer cancel()

	ingester := cwingest.New(app.clients.CloudWatchLogs)
	if app.flags.BatchSize > 0 {
		ingester.BatchSize = app.flags.BatchSize
	}
	if app.flags.BatchDelay > 0 {
		ingester.BatchDelay = app.flags.BatchDelay
	}

	summary, err := ingester.Ingest(ctx, app.flags.LogGroup, app.flags.LogStream, docs)
	if err != nil {
		logger.Fatal("error ingesting documents", zap.Error(err))
	}

	logger.Info("ingested documents",
		zap.String("log_group", app.flags.LogGroup),
		zap.String("log_stream", summary.Stream),
		zap.Int("total", summary.Total),
		zap.Int("sent", summary.Sent),
		zap.Int("failed_batches", summary.FailedBatches),
		zap.Duration("elapsed", summary.Elapsed),
	)

	// Partial failure is survivable; sending nothing at all is not.
	if summary.Sent == 0 {
		_ = logger.Sync()
		teardownLogger()
		os.Exit(1)
	}
}
