package ingester

import (
	"time"

	kingpin "gopkg.in/alecthomas/kingpin.v2" // Command line flag parsing.

	"github.com/sjolander/cloudwatch-search/internal/pkg/cmd" // Common command line app tools.
	"github.com/sjolander/cloudwatch-search/pkg/cwingest"     // Batch-load documents into CloudWatch Logs.
)

const (
	defaultLogLevel      = "INFO"
	defaultAWSMaxRetries = 5
)

// Flags holds command line flags for the
// ingester App.
type Flags struct {
	// Path of the JSON or JSONL file to ingest.
	File string

	// Name of the CloudWatch Logs log group to write to.
	LogGroup string

	// Name of the log stream to write to. Empty means a generated one.
	LogStream string

	// Batching knobs, see cwingest.Ingester.
	BatchSize  int
	BatchDelay time.Duration

	*cmd.AWSFlags
	*cmd.LoggingFlags
}

// NewFlags returns a new Flags.
func NewFlags(app *kingpin.Application) *Flags {
	var f Flags

	app.Flag("log-group", "Name of the CloudWatch Logs log group to write to.").
		Short('g').
		Required().
		StringVar(&f.LogGroup)

	app.Flag("log-stream", "Name of the log stream to write to. A name is generated if not set.").
		StringVar(&f.LogStream)

	app.Flag("batch-size", "Number of events per PutLogEvents call.").
		Default("1000").
		IntVar(&f.BatchSize)

	app.Flag("batch-delay", "Pause between batches.").
		Default(cwingest.DefaultBatchDelay.String()).
		DurationVar(&f.BatchDelay)

	app.Arg("file", "Path of the JSON or JSONL document file to ingest.").
		Required().
		ExistingFileVar(&f.File)

	f.AWSFlags = cmd.NewAWSFlags(app, defaultAWSMaxRetries)
	f.LoggingFlags = cmd.NewLoggingFlags(app, defaultLogLevel)

	return &f
}
