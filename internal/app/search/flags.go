package search

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"               // JSON parsing.
	kingpin "gopkg.in/alecthomas/kingpin.v2" // Command line flag parsing.

	"github.com/sjolander/cloudwatch-search/internal/pkg/cmd" // Common command line app tools.
	"github.com/sjolander/cloudwatch-search/pkg/cwsearch"     // Search CloudWatch Logs like Elasticsearch.
)

const (
	defaultLogLevel      = "INFO"
	defaultAWSMaxRetries = 5
)

// Flags holds command line flags for the
// search App.
type Flags struct {
	// Name of the CloudWatch Logs log group to search.
	LogGroup string

	// The query, as given on the command line.
	QueryDoc string

	// Search knobs, see cwsearch.Options.
	TimeRange time.Duration
	Limit     int64
	Timeout   time.Duration

	*cmd.AWSFlags
	*cmd.LoggingFlags
}

// NewFlags returns a new Flags.
func NewFlags(app *kingpin.Application) *Flags {
	var f Flags

	app.Flag("log-group", "Name of the CloudWatch Logs log group to search.").
		Short('g').
		Required().
		StringVar(&f.LogGroup)

	app.Flag("time-range", "How far back from now to search.").
		Default(cwsearch.DefaultTimeRange.String()).
		DurationVar(&f.TimeRange)

	app.Flag("limit", "Max number of result rows to return.").
		Default("1000").
		Int64Var(&f.Limit)

	app.Flag("timeout", "Max wall-clock time to wait for the query to finish.").
		Default(cwsearch.DefaultTimeout.String()).
		DurationVar(&f.Timeout)

	app.Arg("query", "Elasticsearch query document, or a bare string to match log messages against.").
		Required().
		StringVar(&f.QueryDoc)

	f.AWSFlags = cmd.NewAWSFlags(app, defaultAWSMaxRetries)
	f.LoggingFlags = cmd.NewLoggingFlags(app, defaultLogLevel)

	return &f
}

// Query interprets the query argument as an Elasticsearch query document
// when it is valid JSON, and as a bare match string otherwise.
func (f *Flags) Query() cwsearch.Node {
	q := strings.TrimSpace(f.QueryDoc)
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
