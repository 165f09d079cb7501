package cwingest

import (
	"time"

	"github.com/JohnCGriffin/overflow" // Integer overflow checks.
	"github.com/tidwall/gjson"         // JSON parsing.

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
)

// timestampKey is the document field the event timestamp is read from.
const timestampKey = "timestamp"

// newEvent wraps a raw JSON document as a log event. The event timestamp
// comes from the document's `timestamp` field when it carries one, and from
// now otherwise.
func newEvent(doc []byte, now time.Time) *cloudwatchlogs.InputLogEvent {
	t := eventTime(doc, now)
	return &cloudwatchlogs.InputLogEvent{
		Message:   aws.String(string(doc)),
		Timestamp: aws.Int64(t.UnixNano() / int64(time.Millisecond)),
	}
}

// eventTime interprets the document's timestamp field as either an RFC3339
// string or a number of epoch seconds, possibly fractional. Values that
// don't parse, or whose millisecond form would overflow an int64, fall back
// to now.
func eventTime(doc []byte, now time.Time) time.Time {
	ts := gjson.GetBytes(doc, timestampKey)
	switch ts.Type {
	case gjson.String:
		if t, err := time.Parse(time.RFC3339, ts.Str); err == nil {
			return t
		}
	case gjson.Number:
		secs := int64(ts.Num)
		if _, ok := overflow.Mul64(secs, 1000); ok {
			nanos := int64((ts.Num - float64(secs)) * float64(time.Second))
			return time.Unix(secs, nanos).UTC()
		}
	}
	return now
}
