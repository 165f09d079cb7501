package cwsearch

import (
	"time"

	"github.com/tidwall/gjson" // JSON parsing.

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
)

// Reserved CloudWatch Logs Insights result fields.
const (
	timestampField = "@timestamp"
	messageField   = "@message"
)

// Response is an Elasticsearch-compatible search response envelope.
//
// On success Error is nil and Hits carries the result rows in the order the
// remote service returned them. On failure Error names one of the five
// ErrorKinds and Hits is present but empty, so the envelope shape stays
// fixed either way.
type Response struct {
	Took       int64       `json:"took"`
	TimedOut   bool        `json:"timed_out"`
	Error      *ErrorInfo  `json:"error,omitempty"`
	Hits       Hits        `json:"hits"`
	Shards     *ShardsInfo `json:"_shards,omitempty"`
	Statistics *Statistics `json:"statistics,omitempty"`
}

// Failed reports whether the envelope is the failure form.
func (r *Response) Failed() bool {
	return r.Error != nil
}

// ErrorInfo mirrors the error object of an Elasticsearch error response.
// Type is the ErrorKind of the failure.
type ErrorInfo struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// Hits is the hits section of the envelope.
type Hits struct {
	Total    TotalHits `json:"total"`
	MaxScore *float64  `json:"max_score"`
	Hits     []Hit     `json:"hits"`
}

// TotalHits is the total row count. Relation is "eq" on success and empty
// on failure.
type TotalHits struct {
	Value    int64  `json:"value"`
	Relation string `json:"relation,omitempty"`
}

// Hit is a single result row.
type Hit struct {
	Source map[string]interface{} `json:"_source"`
}

// ShardsInfo reports a fixed single-shard summary; CloudWatch Logs has no
// shards to speak of.
type ShardsInfo struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// Statistics are the CloudWatch Logs Insights query statistics, passed
// through to the caller.
type Statistics struct {
	BytesScanned   float64 `json:"bytesScanned"`
	RecordsMatched float64 `json:"recordsMatched"`
	RecordsScanned float64 `json:"recordsScanned"`
}

func newSuccessResponse(out *cloudwatchlogs.GetQueryResultsOutput, elapsed time.Duration) *Response {
	hits := make([]Hit, 0, len(out.Results))
	for _, row := range out.Results {
		hits = append(hits, Hit{Source: rowSource(row)})
	}
	resp := &Response{
		Took: durationMillis(elapsed),
		Hits: Hits{
			Total: TotalHits{Value: int64(len(hits)), Relation: "eq"},
			Hits:  hits,
		},
		Shards: &ShardsInfo{Total: 1, Successful: 1},
	}
	if st := out.Statistics; st != nil {
		resp.Statistics = &Statistics{
			BytesScanned:   aws.Float64Value(st.BytesScanned),
			RecordsMatched: aws.Float64Value(st.RecordsMatched),
			RecordsScanned: aws.Float64Value(st.RecordsScanned),
		}
	}
	return resp
}

func newFailureResponse(err *Error, elapsed time.Duration) *Response {
	return &Response{
		Took:     durationMillis(elapsed),
		TimedOut: err.Kind == KindClientTimeout,
		Error:    &ErrorInfo{Type: string(err.Kind), Reason: err.Reason},
		Hits:     Hits{Hits: []Hit{}},
	}
}

// rowSource maps one result row to a hit source. The timestamp field is
// stored verbatim under its reserved key. The message field is parsed as a
// JSON object and merged into the source when it is one, and stored as raw
// text under "message" when it isn't. Everything else is stored verbatim.
func rowSource(row []*cloudwatchlogs.ResultField) map[string]interface{} {
	source := make(map[string]interface{}, len(row))
	for _, f := range row {
		field := aws.StringValue(f.Field)
		value := aws.StringValue(f.Value)
		switch field {
		case timestampField:
			source[timestampField] = value
		case messageField:
			if doc, ok := parseMessage(value); ok {
				for k, v := range doc {
					source[k] = v
				}
			} else {
				source["message"] = value
			}
		case "":
			source["unknown"] = value
		default:
			source[field] = value
		}
	}
	return source
}

func parseMessage(value string) (map[string]interface{}, bool) {
	if !gjson.Valid(value) {
		return nil, false
	}
	doc, ok := gjson.Parse(value).Value().(map[string]interface{})
	return doc, ok && doc != nil
}

func durationMillis(d time.Duration) int64 {
	return int64(d / time.Millisecond)
}
