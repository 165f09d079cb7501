package cwsearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff" // Backoff/retry utils.
	"go.uber.org/zap"             // Logging.

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs/cloudwatchlogsiface"
)

//go:generate sh -c "mockery -name=CloudWatchLogsAPI -dir=$(go list -f '{{.Dir}}' github.com/aws/aws-sdk-go/service/cloudwatchlogs/cloudwatchlogsiface)"

// Option defaults.
const (
	DefaultTimeRange = 24 * time.Hour
	DefaultLimit     = 1000
	DefaultTimeout   = 5 * time.Minute
)

var (
	// Poll schedule defaults: aggressive at first so fast queries return
	// with low latency, bounded so slow queries don't hammer the API.
	defaultPollInitial    = 100 * time.Millisecond
	defaultPollMax        = 2 * time.Second
	defaultPollMultiplier = 1.5

	// Budget for the best-effort StopQuery call on an abandoned job.
	stopQueryTimeout = 5 * time.Second
)

// The SDK predates the Timeout query status and has no constant for it.
const queryStatusTimeout = "Timeout"

// Options are the per-search knobs. The zero value of any field means its
// default. Options are fixed once a search begins.
type Options struct {
	// How far back from now to search. Default 24h.
	TimeRange time.Duration

	// Max number of result rows. Default 1000.
	Limit int64

	// Wall-clock budget for the whole search. Default 5m.
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.TimeRange <= 0 {
		o.TimeRange = DefaultTimeRange
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Searcher runs queries against a single CloudWatch Logs log group.
//
// A Searcher is safe for concurrent use: each Search call owns its own
// query ID and timers, and the SDK client is safe for concurrent calls.
type Searcher struct {
	client   cloudwatchlogsiface.CloudWatchLogsAPI
	logGroup string
	logger   *zap.Logger

	// Poll schedule: start at PollInitial, multiply by PollMultiplier
	// after each poll, cap at PollMax.
	PollInitial    time.Duration
	PollMax        time.Duration
	PollMultiplier float64
}

// New returns a new Searcher for the given log group.
func New(client cloudwatchlogsiface.CloudWatchLogsAPI, logGroup string) *Searcher {
	return &Searcher{
		client:         client,
		logGroup:       logGroup,
		logger:         zap.L().Named("cwsearch"),
		PollInitial:    defaultPollInitial,
		PollMax:        defaultPollMax,
		PollMultiplier: defaultPollMultiplier,
	}
}

// Search translates query, submits it as a CloudWatch Logs Insights job,
// and polls until the job reaches a terminal status or opts.Timeout of
// wall-clock time has passed.
//
// Search never returns a Go error: every failure (rejected submission,
// remote failure or cancellation, client-side timeout, transport error) is
// folded into the failure form of the response envelope.
func (s *Searcher) Search(ctx context.Context, query Node, opts Options) *Response {
	opts = opts.withDefaults()
	queryString := Translate(query)
	start := time.Now()

	resp, err := s.run(ctx, queryString, opts, start)
	if err != nil {
		serr, ok := err.(*Error)
		if !ok {
			serr = &Error{Kind: KindTransportFailure, Reason: err.Error(), Cause: err}
		}
		s.logger.Warn("search failed",
			zap.String("log_group", s.logGroup),
			zap.String("kind", string(serr.Kind)),
			zap.Error(serr),
		)
		return newFailureResponse(serr, time.Since(start))
	}
	return resp
}

func (s *Searcher) run(ctx context.Context, queryString string, opts Options, start time.Time) (*Response, error) {
	logger := s.logger.With(zap.String("log_group", s.logGroup))
	logger.Debug("starting query",
		zap.String("query", queryString),
		zap.Duration("time_range", opts.TimeRange),
		zap.Int64("limit", opts.Limit),
	)

	out, err := s.client.StartQueryWithContext(ctx, &cloudwatchlogs.StartQueryInput{
		LogGroupName: aws.String(s.logGroup),
		StartTime:    aws.Int64(start.Add(-opts.TimeRange).Unix()),
		EndTime:      aws.Int64(start.Unix()),
		QueryString:  aws.String(queryString),
		Limit:        aws.Int64(opts.Limit),
	})
	if err != nil {
		return nil, classifySubmitError(err)
	}
	queryID := aws.StringValue(out.QueryId)
	logger = logger.With(zap.String("query_id", queryID))

	b := &backoff.ExponentialBackOff{
		InitialInterval:     s.PollInitial,
		RandomizationFactor: 0,
		Multiplier:          s.PollMultiplier,
		MaxInterval:         s.PollMax,
		MaxElapsedTime:      0,
		Clock:               backoff.SystemClock,
	}
	b.Reset()

	deadline := start.Add(opts.Timeout)
	for time.Now().Before(deadline) {
		res, err := s.client.GetQueryResultsWithContext(ctx, &cloudwatchlogs.GetQueryResultsInput{
			QueryId: aws.String(queryID),
		})
		if err != nil {
			return nil, &Error{
				Kind:   KindTransportFailure,
				Reason: "error getting query results: " + err.Error(),
				Cause:  err,
			}
		}

		status := aws.StringValue(res.Status)
		switch status {
		case cloudwatchlogs.QueryStatusComplete:
			logger.Debug("query complete",
				zap.Int("rows", len(res.Results)),
				zap.Duration("elapsed", time.Since(start)),
			)
			return newSuccessResponse(res, time.Since(start)), nil
		case cloudwatchlogs.QueryStatusFailed:
			return nil, &Error{Kind: KindRemoteFailure, Reason: "query failed on the remote side"}
		case cloudwatchlogs.QueryStatusCancelled, queryStatusTimeout:
			return nil, &Error{Kind: KindRemoteCancelled, Reason: "query " + strings.ToLower(status)}
		}

		// Still scheduled/running. Sleep and poll again. Results arriving
		// after the search gives up are discarded along with the job.
		select {
		case <-ctx.Done():
			s.stopQuery(queryID)
			return nil, contextError(ctx.Err())
		case <-time.After(b.NextBackOff()):
		}
	}

	s.stopQuery(queryID)
	return nil, &Error{
		Kind:   KindClientTimeout,
		Reason: fmt.Sprintf("query timed out after %s", opts.Timeout),
	}
}

// stopQuery cancels the remote job so an abandoned query doesn't keep
// consuming the account's concurrent-query quota. Best effort: the search
// outcome is already decided by the time this is called, so errors are
// only logged. Runs on its own context because the caller's may be dead.
func (s *Searcher) stopQuery(queryID string) {
	ctx, cancel := context.WithTimeout(context.Background(), stopQueryTimeout)
	defer cancel()
	_, err := s.client.StopQueryWithContext(ctx, &cloudwatchlogs.StopQueryInput{
		QueryId: aws.String(queryID),
	})
	if err != nil {
		s.logger.Warn("error stopping abandoned query",
			zap.String("query_id", queryID),
			zap.Error(err),
		)
	}
}

func classifySubmitError(err error) *Error {
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case cloudwatchlogs.ErrCodeMalformedQueryException,
			cloudwatchlogs.ErrCodeInvalidParameterException,
			cloudwatchlogs.ErrCodeResourceNotFoundException:
			return &Error{
				Kind:   KindSubmissionRejected,
				Reason: "query rejected: " + aerr.Message(),
				Cause:  err,
			}
		}
	}
	return &Error{
		Kind:   KindTransportFailure,
		Reason: "error starting query: " + err.Error(),
		Cause:  err,
	}
}

func contextError(err error) *Error {
	if err == context.DeadlineExceeded {
		return &Error{Kind: KindClientTimeout, Reason: "context deadline exceeded while polling", Cause: err}
	}
	return &Error{Kind: KindTransportFailure, Reason: "context cancelled while polling", Cause: err}
}
