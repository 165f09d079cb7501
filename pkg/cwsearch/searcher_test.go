package cwsearch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"  // Test assertions e.g. equality.
	"github.com/stretchr/testify/mock"    // Mocking.
	"github.com/stretchr/testify/require" // Like assert but fails the test.

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"

	"github.com/sjolander/cloudwatch-search/pkg/cwsearch/mocks" // Mocked interfaces.
)

const testLogGroup = "/test/group"

// newTestSearcher returns a Searcher with a poll schedule fast enough for
// tests.
func newTestSearcher(client *mocks.CloudWatchLogs) *Searcher {
	s := New(client, testLogGroup)
	s.PollInitial = time.Millisecond
	s.PollMax = 2 * time.Millisecond
	return s
}

func completeOutput(rows ...[]*cloudwatchlogs.ResultField) *cloudwatchlogs.GetQueryResultsOutput {
	return &cloudwatchlogs.GetQueryResultsOutput{
		Status:  aws.String(cloudwatchlogs.QueryStatusComplete),
		Results: rows,
	}
}

func statusOutput(status string) *cloudwatchlogs.GetQueryResultsOutput {
	return &cloudwatchlogs.GetQueryResultsOutput{Status: aws.String(status)}
}

func resultField(field, value string) *cloudwatchlogs.ResultField {
	return &cloudwatchlogs.ResultField{Field: aws.String(field), Value: aws.String(value)}
}

func TestSearch_ImmediateComplete(t *testing.T) {
	m := new(mocks.CloudWatchLogs)
	m.On("StartQueryWithContext", mock.Anything, mock.MatchedBy(func(in *cloudwatchlogs.StartQueryInput) bool {
		return aws.StringValue(in.LogGroupName) == testLogGroup &&
			aws.StringValue(in.QueryString) == Translate(MatchAll{}) &&
			aws.Int64Value(in.Limit) == DefaultLimit &&
			aws.Int64Value(in.StartTime) < aws.Int64Value(in.EndTime)
	})).Return(&cloudwatchlogs.StartQueryOutput{QueryId: aws.String("query-1")}, nil).Once()
	m.On("GetQueryResultsWithContext", mock.Anything, &cloudwatchlogs.GetQueryResultsInput{
		QueryId: aws.String("query-1"),
	}).Return(completeOutput(
		[]*cloudwatchlogs.ResultField{
			resultField("@timestamp", "T"),
			resultField("@message", `{"a":1}`),
		},
	), nil).Once()

	s := newTestSearcher(m)
	resp := s.Search(context.Background(), MatchAll{}, Options{})

	require.False(t, resp.Failed())
	assert.False(t, resp.TimedOut)
	assert.Equal(t, int64(1), resp.Hits.Total.Value)
	assert.Equal(t, "eq", resp.Hits.Total.Relation)
	require.Len(t, resp.Hits.Hits, 1)
	assert.Equal(t, map[string]interface{}{
		"@timestamp": "T",
		"a":          float64(1),
	}, resp.Hits.Hits[0].Source)
	assert.Equal(t, &ShardsInfo{Total: 1, Successful: 1}, resp.Shards)
	m.AssertExpectations(t)
}

func TestSearch_PollsUntilComplete(t *testing.T) {
	m := new(mocks.CloudWatchLogs)
	m.On("StartQueryWithContext", mock.Anything, mock.Anything).
		Return(&cloudwatchlogs.StartQueryOutput{QueryId: aws.String("query-2")}, nil).Once()
	m.On("GetQueryResultsWithContext", mock.Anything, mock.Anything).
		Return(statusOutput(cloudwatchlogs.QueryStatusScheduled), nil).Once()
	m.On("GetQueryResultsWithContext", mock.Anything, mock.Anything).
		Return(statusOutput(cloudwatchlogs.QueryStatusRunning), nil).Once()
	m.On("GetQueryResultsWithContext", mock.Anything, mock.Anything).
		Return(completeOutput(), nil).Once()

	s := newTestSearcher(m)
	resp := s.Search(context.Background(), Term{Field: "status", Value: "500"}, Options{})

	require.False(t, resp.Failed())
	assert.Equal(t, int64(0), resp.Hits.Total.Value)
	assert.Empty(t, resp.Hits.Hits)
	m.AssertExpectations(t)
}

func TestSearch_RemoteFailure(t *testing.T) {
	m := new(mocks.CloudWatchLogs)
	m.On("StartQueryWithContext", mock.Anything, mock.Anything).
		Return(&cloudwatchlogs.StartQueryOutput{QueryId: aws.String("query-3")}, nil).Once()
	m.On("GetQueryResultsWithContext", mock.Anything, mock.Anything).
		Return(statusOutput(cloudwatchlogs.QueryStatusFailed), nil).Once()

	s := newTestSearcher(m)
	resp := s.Search(context.Background(), MatchAll{}, Options{})

	require.True(t, resp.Failed())
	assert.Equal(t, string(KindRemoteFailure), resp.Error.Type)
	assert.False(t, resp.TimedOut)
	assert.Equal(t, int64(0), resp.Hits.Total.Value)
	assert.NotNil(t, resp.Hits.Hits)
	assert.Empty(t, resp.Hits.Hits)
	m.AssertExpectations(t)
}

func TestSearch_RemoteCancelled(t *testing.T) {
	for _, status := range []string{cloudwatchlogs.QueryStatusCancelled, queryStatusTimeout} {
		t.Run(status, func(t *testing.T) {
			m := new(mocks.CloudWatchLogs)
			m.On("StartQueryWithContext", mock.Anything, mock.Anything).
				Return(&cloudwatchlogs.StartQueryOutput{QueryId: aws.String("query-4")}, nil).Once()
			m.On("GetQueryResultsWithContext", mock.Anything, mock.Anything).
				Return(statusOutput(status), nil).Once()

			s := newTestSearcher(m)
			resp := s.Search(context.Background(), MatchAll{}, Options{})

			require.True(t, resp.Failed())
			assert.Equal(t, string(KindRemoteCancelled), resp.Error.Type)
			m.AssertExpectations(t)
		})
	}
}

func TestSearch_SubmissionRejected(t *testing.T) {
	m := new(mocks.CloudWatchLogs)
	m.On("StartQueryWithContext", mock.Anything, mock.Anything).
		Return(nil, awserr.New(cloudwatchlogs.ErrCodeMalformedQueryException, "bad query", nil)).Once()

	s := newTestSearcher(m)
	resp := s.Search(context.Background(), Raw{Text: "/unbalanced"}, Options{})

	require.True(t, resp.Failed())
	assert.Equal(t, string(KindSubmissionRejected), resp.Error.Type)
	assert.Contains(t, resp.Error.Reason, "bad query")
	m.AssertExpectations(t)
}

func TestSearch_TransportFailure(t *testing.T) {
	m := new(mocks.CloudWatchLogs)
	m.On("StartQueryWithContext", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).Once()

	s := newTestSearcher(m)
	resp := s.Search(context.Background(), MatchAll{}, Options{})

	require.True(t, resp.Failed())
	assert.Equal(t, string(KindTransportFailure), resp.Error.Type)
	m.AssertExpectations(t)
}

func TestSearch_ClientTimeout(t *testing.T) {
	m := new(mocks.CloudWatchLogs)
	m.On("StartQueryWithContext", mock.Anything, mock.Anything).
		Return(&cloudwatchlogs.StartQueryOutput{QueryId: aws.String("query-5")}, nil).Once()
	// Never reaches a terminal status.
	m.On("GetQueryResultsWithContext", mock.Anything, mock.Anything).
		Return(statusOutput(cloudwatchlogs.QueryStatusRunning), nil)
	// The abandoned remote job gets cancelled.
	m.On("StopQueryWithContext", mock.Anything, &cloudwatchlogs.StopQueryInput{
		QueryId: aws.String("query-5"),
	}).Return(&cloudwatchlogs.StopQueryOutput{}, nil).Once()

	s := newTestSearcher(m)
	resp := s.Search(context.Background(), MatchAll{}, Options{Timeout: 30 * time.Millisecond})

	require.True(t, resp.Failed())
	assert.Equal(t, string(KindClientTimeout), resp.Error.Type)
	assert.True(t, resp.TimedOut)
	assert.Empty(t, resp.Hits.Hits)
	m.AssertExpectations(t)
}

func TestSearch_ContextCancelledWhilePolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	m := new(mocks.CloudWatchLogs)
	m.On("StartQueryWithContext", mock.Anything, mock.Anything).
		Return(&cloudwatchlogs.StartQueryOutput{QueryId: aws.String("query-6")}, nil).Once()
	m.On("GetQueryResultsWithContext", mock.Anything, mock.Anything).
		Return(statusOutput(cloudwatchlogs.QueryStatusRunning), nil).
		Run(func(mock.Arguments) { cancel() })
	m.On("StopQueryWithContext", mock.Anything, mock.Anything).
		Return(&cloudwatchlogs.StopQueryOutput{}, nil).Once()

	s := newTestSearcher(m)
	resp := s.Search(ctx, MatchAll{}, Options{})

	require.True(t, resp.Failed())
	assert.Equal(t, string(KindTransportFailure), resp.Error.Type)
	m.AssertExpectations(t)
}

func TestSearch_NeverPanicsOrErrors(t *testing.T) {
	// Whatever the remote does, the caller always gets an envelope.
	m := new(mocks.CloudWatchLogs)
	m.On("StartQueryWithContext", mock.Anything, mock.Anything).
		Return(&cloudwatchlogs.StartQueryOutput{QueryId: aws.String("query-7")}, nil)
	m.On("GetQueryResultsWithContext", mock.Anything, mock.Anything).
		Return(nil, errors.New("boom"))

	s := newTestSearcher(m)
	resp := s.Search(context.Background(), nil, Options{})

	require.NotNil(t, resp)
	require.True(t, resp.Failed())
	assert.Equal(t, string(KindTransportFailure), resp.Error.Type)
}
