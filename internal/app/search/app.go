// Package search implements the cwsearch command line app.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"                  // Wrap errors with stacktrace.
	"go.uber.org/zap"                        // Logging.
	kingpin "gopkg.in/alecthomas/kingpin.v2" // Command line flag parsing.

	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs/cloudwatchlogsiface"

	"github.com/sjolander/cloudwatch-search/internal/pkg/cmd" // Common command line app tools.
	"github.com/sjolander/cloudwatch-search/pkg/cwsearch"     // Search CloudWatch Logs like Elasticsearch.
)

const (
	Name  = "cwsearch"
	Usage = "Run an Elasticsearch-style query against a CloudWatch Logs log group and print the response as Elasticsearch-shaped JSON."
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

	ctx, cancel := cmd.WithInterrupt(context.Background())
	defer cancel()

	searcher := cwsearch.New(app.clients.CloudWatchLogs, app.flags.LogGroup)
	resp := searcher.Search(ctx, app.flags.Query(), app.flags.Options())

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		logger.Fatal("error marshaling response", zap.Error(err))
	}
	fmt.Println(string(out))

	if resp.Failed() {
		_ = logger.Sync()
		teardownLogger()
		os.Exit(1)
	}
}
