package mocks

import (
	"github.com/stretchr/testify/mock" // Mocking for tests.

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs/cloudwatchlogsiface"
)

// CloudWatchLogs mocks cloudwatchlogsiface.CloudWatchLogsAPI for the
// methods the ingester calls.
type CloudWatchLogs struct {
	mock.Mock
	cloudwatchlogsiface.CloudWatchLogsAPI
}

func (m *CloudWatchLogs) CreateLogGroupWithContext(ctx aws.Context, input *cloudwatchlogs.CreateLogGroupInput, opts ...request.Option) (*cloudwatchlogs.CreateLogGroupOutput, error) {
	ret := m.Called(ctx, input)
	var out *cloudwatchlogs.CreateLogGroupOutput
	if v := ret.Get(0); v != nil {
		out = v.(*cloudwatchlogs.CreateLogGroupOutput)
	}
	return out, ret.Error(1)
}

func (m *CloudWatchLogs) CreateLogStreamWithContext(ctx aws.Context, input *cloudwatchlogs.CreateLogStreamInput, opts ...request.Option) (*cloudwatchlogs.CreateLogStreamOutput, error) {
	ret := m.Called(ctx, input)
	var out *cloudwatchlogs.CreateLogStreamOutput
	if v := ret.Get(0); v != nil {
		out = v.(*cloudwatchlogs.CreateLogStreamOutput)
	}
	return out, ret.Error(1)
}

func (m *CloudWatchLogs) PutLogEventsWithContext(ctx aws.Context, input *cloudwatchlogs.PutLogEventsInput, opts ...request.Option) (*cloudwatchlogs.PutLogEventsOutput, error) {
	ret := m.Called(ctx, input)
	var out *cloudwatchlogs.PutLogEventsOutput
	if v := ret.Get(0); v != nil {
		out = v.(*cloudwatchlogs.PutLogEventsOutput)
	}
	return out, ret.Error(1)
}

func (m *CloudWatchLogs) DescribeLogStreamsWithContext(ctx aws.Context, input *cloudwatchlogs.DescribeLogStreamsInput, opts ...request.Option) (*cloudwatchlogs.DescribeLogStreamsOutput, error) {
	ret := m.Called(ctx, input)
	var out *cloudwatchlogs.DescribeLogStreamsOutput
	if v := ret.Get(0); v != nil {
		out = v.(*cloudwatchlogs.DescribeLogStreamsOutput)
	}
	return out, ret.Error(1)
}
