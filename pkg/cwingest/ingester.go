package cwingest

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"              // UUIDs.
	cache "github.com/patrickmn/go-cache" // In-memory cache with expiry.
	"go.uber.org/zap"                     // Logging.

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs/cloudwatchlogsiface"
)

// Batching defaults.
const (
	// DefaultBatchSize is the number of events sent per PutLogEvents call.
	DefaultBatchSize = 1000

	// DefaultBatchDelay is the pause between batches, to stay under the
	// per-stream PutLogEvents rate limit.
	DefaultBatchDelay = 50 * time.Millisecond
)

// How long a created log stream is remembered before being re-checked.
const streamCacheTTL = 30 * time.Minute

// Summary reports what an Ingest call did.
type Summary struct {
	// Stream is the log stream the documents went to. Useful when the
	// stream name was generated.
	Stream string

	// Total is the number of documents given.
	Total int

	// Sent is the number of documents accepted by CloudWatch Logs.
	Sent int

	// FailedBatches counts batches that were dropped after a send error.
	FailedBatches int

	Elapsed time.Duration
}

// Ingester writes batches of JSON documents to CloudWatch Logs. Each
// document becomes one log event whose message is the document itself.
type Ingester struct {
	client cloudwatchlogsiface.CloudWatchLogsAPI
	logger *zap.Logger

	// Log streams already known to exist, so repeated Ingest calls to the
	// same stream skip the CreateLogStream round trip.
	streams *cache.Cache

	BatchSize  int
	BatchDelay time.Duration
}

// New returns a new Ingester.
func New(client cloudwatchlogsiface.CloudWatchLogsAPI) *Ingester {
	return &Ingester{
		client:     client,
		logger:     zap.L().Named("cwingest"),
		streams:    cache.New(streamCacheTTL, streamCacheTTL),
		BatchSize:  DefaultBatchSize,
		BatchDelay: DefaultBatchDelay,
	}
}

// EnsureLogGroup creates the log group if it doesn't exist yet.
func (i *Ingester) EnsureLogGroup(ctx context.Context, group string) error {
	_, err := i.client.CreateLogGroupWithContext(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: aws.String(group),
	})
	if err != nil && !isAlreadyExists(err) {
		return err
	}
	return nil
}

// Ingest writes docs to the given log group and stream. An empty stream
// name gets a generated one. Documents are sorted by event timestamp, as
// PutLogEvents requires, and sent in batches; a batch that CloudWatch Logs
// rejects is counted and dropped while the rest keep going. The returned
// error covers setup failures only, never per-batch ones.
func (i *Ingester) Ingest(ctx context.Context, group, stream string, docs [][]byte) (*Summary, error) {
	start := time.Now()
	if stream == "" {
		stream = "ingest-" + uuid.New().String()
	}
	logger := i.logger.With(
		zap.String("log_group", group),
		zap.String("log_stream", stream),
	)

	if err := i.EnsureLogGroup(ctx, group); err != nil {
		return nil, err
	}
	if err := i.ensureLogStream(ctx, group, stream); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	events := make([]*cloudwatchlogs.InputLogEvent, 0, len(docs))
	for _, doc := range docs {
		events = append(events, newEvent(doc, now))
	}
	sort.SliceStable(events, func(a, b int) bool {
		return aws.Int64Value(events[a].Timestamp) < aws.Int64Value(events[b].Timestamp)
	})

	summary := &Summary{Stream: stream, Total: len(events)}
	var token *string
	for first := 0; first < len(events); first += i.BatchSize {
		last := first + i.BatchSize
		if last > len(events) {
			last = len(events)
		}
		batch := events[first:last]

		if first > 0 {
			select {
			case <-ctx.Done():
				summary.Elapsed = time.Since(start)
				return summary, ctx.Err()
			case <-time.After(i.BatchDelay):
			}
		}

		next, err := i.putBatch(ctx, group, stream, batch, token)
		if err != nil {
			summary.FailedBatches++
			logger.Warn("dropping failed batch",
				zap.Int("events", len(batch)),
				zap.Error(err),
			)
			// The stream's token may have moved. Refresh it so the next
			// batch doesn't fail on a stale one.
			if t, terr := i.sequenceToken(ctx, group, stream); terr == nil {
				token = t
			}
			continue
		}
		token = next
		summary.Sent += len(batch)
	}

	summary.Elapsed = time.Since(start)
	logger.Info("ingest done",
		zap.Int("total", summary.Total),
		zap.Int("sent", summary.Sent),
		zap.Int("failed_batches", summary.FailedBatches),
		zap.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

// ensureLogStream creates the log stream if it doesn't exist, remembering
// streams it has already ensured.
func (i *Ingester) ensureLogStream(ctx context.Context, group, stream string) error {
	key := group + "/" + stream
	if _, known := i.streams.Get(key); known {
		return nil
	}
	_, err := i.client.CreateLogStreamWithContext(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(group),
		LogStreamName: aws.String(stream),
	})
	if err != nil && !isAlreadyExists(err) {
		return err
	}
	i.streams.SetDefault(key, true)
	return nil
}

// putBatch sends one batch and returns the stream's next sequence token.
// An InvalidSequenceTokenException gets one retry with a token fetched
// fresh from DescribeLogStreams.
func (i *Ingester) putBatch(ctx context.Context, group, stream string, batch []*cloudwatchlogs.InputLogEvent, token *string) (*string, error) {
	out, err := i.client.PutLogEventsWithContext(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(group),
		LogStreamName: aws.String(stream),
		LogEvents:     batch,
		SequenceToken: token,
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); !ok || aerr.Code() != cloudwatchlogs.ErrCodeInvalidSequenceTokenException {
			return nil, err
		}
		fresh, terr := i.sequenceToken(ctx, group, stream)
		if terr != nil {
			return nil, err
		}
		out, err = i.client.PutLogEventsWithContext(ctx, &cloudwatchlogs.PutLogEventsInput{
			LogGroupName:  aws.String(group),
			LogStreamName: aws.String(stream),
			LogEvents:     batch,
			SequenceToken: fresh,
		})
		if err != nil {
			return nil, err
		}
	}
	return out.NextSequenceToken, nil
}

// sequenceToken asks CloudWatch Logs for the stream's current upload
// sequence token.
func (i *Ingester) sequenceToken(ctx context.Context, group, stream string) (*string, error) {
	out, err := i.client.DescribeLogStreamsWithContext(ctx, &cloudwatchlogs.DescribeLogStreamsInput{
		LogGroupName:        aws.String(group),
		LogStreamNamePrefix: aws.String(stream),
	})
	if err != nil {
		return nil, err
	}
	for _, s := range out.LogStreams {
		if aws.StringValue(s.LogStreamName) == stream {
			return s.UploadSequenceToken, nil
		}
	}
	return nil, nil
}

func isAlreadyExists(err error) bool {
	aerr, ok := err.(awserr.Error)
	return ok && aerr.Code() == cloudwatchlogs.ErrCodeResourceAlreadyExistsException
}
