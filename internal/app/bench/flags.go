package bench

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"               // JSON parsing.
	kingpin "gopkg.in/alecthomas/kingpin.v2" // Command line flag parsing.

	"github.com/sjolander/cloudwatch-search/internal/pkg/cmd" // Common command line app tools.
	"github.com/sjolander/cloudwatch-search/pkg/cwsearch"     // Search CloudWatch Logs like Elasticsearch.
)

const (
	defaultPort          = 8080
	defaultLogLevel      = "INFO"
	defaultAWSMaxRetries = 5
)

// Flags holds command line flags for the
// bench App.
type Flags struct {
	// Name of the CloudWatch Logs log group to search.
	LogGroup string

	// The query each worker runs, as given on the command line.
	// Empty means match-all.
	QueryDoc string

	// Number of concurrent workers.
	Clients int

	// Number of searches each worker runs.
	Iterations int

	// Search knobs, see cwsearch.Options.
	TimeRange time.Duration
	Limit     int64
	Timeout   time.Duration

	*cmd.AWSFlags
	*cmd.LoggingFlags
	*cmd.MonitoringFlags
}

// NewFlags returns a new Flags.
func NewFlags(app *kingpin.Application) *Flags {
	var f Flags

	app.Flag("log-group", "Name of the CloudWatch Logs log group to search.").
		Short('g').
		Required().
		StringVar(&f.LogGroup)

	app.Flag("clients", "Number of concurrent search workers.").
		Short('c').
		Default("4").
		IntVar(&f.Clients)

	app.Flag("iterations", "Number of searches each worker runs.").
		Short('i').
		Default("100").
		IntVar(&f.Iterations)

	app.Flag("time-range", "How far back from now to search.").
		Default(cwsearch.DefaultTimeRange.String()).
		DurationVar(&f.TimeRange)

	app.Flag("limit", "Max number of result rows per search.").
		Default("1000").
		Int64Var(&f.Limit)

	app.Flag("timeout", "Max wall-clock time to wait for each search.").
		Default(cwsearch.DefaultTimeout.String()).
		DurationVar(&f.Timeout)

	app.Arg("query", "Elasticsearch query document, or a bare string to match log messages against. Match-all if not given.").
		StringVar(&f.QueryDoc)

	f.AWSFlags = cmd.NewAWSFlags(app, defaultAWSMaxRetries)
	f.LoggingFlags = cmd.NewLoggingFlags(app, defaultLogLevel)
	f.MonitoringFlags = cmd.NewMonitoringFlags(app, defaultPort)

	return &f
}

// Query interprets the query argument the way the cwsearch app does.
func (f *Flags) Query() cwsearch.Node {
	q := strings.TrimSpace(f.QueryDoc)
	if q == "" {
		return cwsearch.MatchAll{}
	}
	if gjson.Valid(q) {
		return cwsearch.Parse([]byte(q))
	}
	return cwsearch.ParseString(q)
}

// Options returns the search options set by the flags.
func (f *Flags) Options() cwsearch.Options {
	return cwsearch.Options{
		TimeRange: f.TimeRange,
		Limit:     f.Limit,
		Timeout:   f.Timeout,
	}
}
