package mocks

import (
	"github.com/stretchr/testify/mock" // Mocking for tests.

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs/cloudwatchlogsiface"
)

// CloudWatchLogs mocks cloudwatchlogsiface.CloudWatchLogsAPI for the
// methods the searcher calls.
type CloudWatchLogs struct {
	mock.Mock
	cloudwatchlogsiface.CloudWatchLogsAPI
}

func (m *CloudWatchLogs) StartQueryWithContext(ctx aws.Context, input *cloudwatchlogs.StartQueryInput, opts ...request.Option) (*cloudwatchlogs.StartQueryOutput, error) {
	ret := m.Called(ctx, input)
	var out *cloudwatchlogs.StartQueryOutput
	if v := ret.Get(0); v != nil {
		out = v.(*cloudwatchlogs.StartQueryOutput)
	}
	return out, ret.Error(1)
}

func (m *CloudWatchLogs) GetQueryResultsWithContext(ctx aws.Context, input *cloudwatchlogs.GetQueryResultsInput, opts ...request.Option) (*cloudwatchlogs.GetQueryResultsOutput, error) {
	ret := m.Called(ctx, input)
	var out *cloudwatchlogs.GetQueryResultsOutput
	if v := ret.Get(0); v != nil {
		out = v.(*cloudwatchlogs.GetQueryResultsOutput)
	}
	return out, ret.Error(1)
}

func (m *CloudWatchLogs) StopQueryWithContext(ctx aws.Context, input *cloudwatchlogs.StopQueryInput, opts ...request.Option) (*cloudwatchlogs.StopQueryOutput, error) {
	ret := m.Called(ctx, input)
	var out *cloudwatchlogs.StopQueryOutput
	if v := ret.Get(0); v != nil {
		out = v.(*cloudwatchlogs.StopQueryOutput)
	}
	return out, ret.Error(1)
}
