// Package bench implements the cwbench command line app, a load-test
// workload that runs repeated concurrent searches against a CloudWatch
// Logs log group.
package bench

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"                          // Wrap errors with stacktrace.
	"github.com/prometheus/client_golang/prometheus" // Prometheus metrics.
	"go.uber.org/zap"                                // Logging.
	kingpin "gopkg.in/alecthomas/kingpin.v2"         // Command line flag parsing.
	tomb "gopkg.in/tomb.v2"                          // Graceful goroutine group shutdown.

	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs/cloudwatchlogsiface"

	"github.com/sjolander/cloudwatch-search/internal/pkg/cmd"     // Common command line app tools.
	"github.com/sjolander/cloudwatch-search/internal/pkg/metrics" // Prometheus metrics tools.
	"github.com/sjolander/cloudwatch-search/pkg/cwsearch"         // Search CloudWatch Logs like Elasticsearch.
)

const (
	Name  = "cwbench"
	Usage = "Run concurrent repeated searches against a CloudWatch Logs log group as a load-test workload."
)

// App holds application state.
type App struct {
	*kingpin.Application

	flags  *Flags           // Command line flags
	health *Healthchecks    // Healthchecks HTTP handler
	inst   *Instrumentation // App-specific Prometheus metrics

	// API clients.
	clients struct {
		CloudWatchLogs cloudwatchlogsiface.CloudWatchLogsAPI
	}
}

// NewApp returns a new App.
func NewApp(r prometheus.Registerer) (*App, error) {
	namespace := cmd.BuildPromFQName("", Name)

	app := &App{
		Application: kingpin.New(filepath.Base(os.Args[0]), Usage),
		health:      NewHealthchecks(r),
	}
	app.flags = NewFlags(app.Application)
	app.inst = NewInstrumentation(namespace)
	if err := r.Register(app.inst); err != nil {
		return nil, err
	}

	// Set up AWS client(s).
	app.Action(func(*kingpin.ParseContext) error {
		sess, err := app.flags.Session()
		if err != nil {
			return errors.Wrap(err, "error creating AWS session")
		}
		if err := metrics.InstrumentAWS(&sess.Handlers, r, namespace, nil); err != nil {
			panic("error instrumenting AWS session: " + err.Error())
		}
		app.clients.CloudWatchLogs = cloudwatchlogs.New(sess)
		app.health.AWSSessionCreated = true
		return nil
	})

	return app, nil
}

// Main is the main method of App and should be called
// in main.main() after flag parsing.
func (app *App) Main(g prometheus.Gatherer) {
	logger := app.flags.NewLogger()
	defer func() { _ = logger.Sync() }()
	defer cmd.SetGlobalLogger(logger)()

	// Serve the healthchecks and Prometheus metrics.
	go func() {
		mux := app.flags.ConfigureMux(http.DefaultServeMux, app.health.Handler, g)
		srv := app.flags.Server(mux)
		if err := srv.ListenAndServe(); err != nil {
			logger.Fatal("error serving healthchecks/metrics", zap.Error(err))
		}
	}()

	searcher := cwsearch.New(app.clients.CloudWatchLogs, app.flags.LogGroup)
	query := app.flags.Query()
	opts := app.flags.Options()

	logger.Info("starting workload",
		zap.String("log_group", app.flags.LogGroup),
		zap.String("query", cwsearch.Translate(query)),
		zap.Int("clients", app.flags.Clients),
		zap.Int("iterations", app.flags.Iterations),
	)

	ctx, cancel := cmd.WithInterrupt(context.Background())
	defer cancel()
	t, ctx := tomb.WithContext(ctx)

	var searches, failures uint64
	start := time.Now()
	for n := 0; n < app.flags.Clients; n++ {
		t.Go(func() error {
			for i := 0; i < app.flags.Iterations; i++ {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				searchStart := time.Now()
				resp := searcher.Search(ctx, query, opts)
				app.inst.Observe(resp, time.Since(searchStart))
				atomic.AddUint64(&searches, 1)
				if resp.Failed() {
					atomic.AddUint64(&failures, 1)
				}
			}
			return nil
		})
	}
	if err := t.Wait(); err != nil {
		logger.Fatal("workload failed", zap.Error(err))
	}

	logger.Info("workload done",
		zap.Uint64("searches", atomic.LoadUint64(&searches)),
		zap.Uint64("failures", atomic.LoadUint64(&failures)),
		zap.Duration("elapsed", time.Since(start)),
	)
}
