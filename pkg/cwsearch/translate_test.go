package cwsearch

import (
	"testing"

	"github.com/stretchr/testify/assert" // Test assertions e.g. equality.
)

func strptr(s string) *string {
	return &s
}

func TestTranslate(t *testing.T) {
	testCases := []struct {
		desc string
		node Node
		want string
	}{
		{
			desc: "match-all",
			node: MatchAll{},
			want: "fields @timestamp, @message | limit 1000",
		},
		{
			desc: "nil-node",
			node: nil,
			want: "fields @timestamp, @message | limit 1000",
		},
		{
			desc: "match",
			node: Match{Field: "level", Value: "ERROR"},
			want: "fields @timestamp, level | filter level like /ERROR/",
		},
		{
			desc: "term",
			node: Term{Field: "status", Value: "500"},
			want: `fields @timestamp, status | filter status = "500"`,
		},
		{
			desc: "terms",
			node: Terms{Field: "status", Values: []string{"500", "502", "503"}},
			want: `fields @timestamp, status | filter status in ["500", "502", "503"]`,
		},
		{
			desc: "range-gte-lte",
			node: Range{Field: "latency", Bounds: Bounds{GTE: strptr("10"), LTE: strptr("20")}},
			want: "fields @timestamp, latency | filter latency >= 10 and latency <= 20",
		},
		{
			desc: "range-gt-lt",
			node: Range{Field: "latency", Bounds: Bounds{GT: strptr("10"), LT: strptr("20")}},
			want: "fields @timestamp, latency | filter latency > 10 and latency < 20",
		},
		{
			desc: "range-no-bounds",
			node: Range{Field: "latency"},
			want: "fields @timestamp, latency | filter true",
		},
		{
			desc: "wildcard",
			node: Wildcard{Field: "message", Pattern: "err*log?"},
			want: "fields @timestamp, message | filter message like /err.*log./",
		},
		{
			desc: "raw-string",
			node: Raw{Text: "ERROR"},
			want: "fields @timestamp, @message | filter @message like /ERROR/ | limit 1000",
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.want, Translate(tC.node))
		})
	}
}

func TestTranslateBool(t *testing.T) {
	testCases := []struct {
		desc string
		node Bool
		want string
	}{
		{
			desc: "must-should-must-not",
			node: Bool{
				Must:    []Node{Term{Field: "a", Value: "1"}},
				Should:  []Node{Term{Field: "b", Value: "2"}, Term{Field: "b", Value: "3"}},
				MustNot: []Node{Term{Field: "c", Value: "4"}},
			},
			want: `fields @timestamp, @message | filter (a = "1") and (b = "2" or b = "3") and not (c = "4")`,
		},
		{
			desc: "must-only",
			node: Bool{
				Must: []Node{
					Match{Field: "level", Value: "ERROR"},
					Range{Field: "latency", Bounds: Bounds{GTE: strptr("100")}},
				},
			},
			want: "fields @timestamp, @message | filter (level like /ERROR/ and latency >= 100)",
		},
		{
			desc: "must-not-only",
			node: Bool{
				MustNot: []Node{Term{Field: "env", Value: "dev"}, Term{Field: "env", Value: "test"}},
			},
			want: `fields @timestamp, @message | filter not (env = "dev") and not (env = "test")`,
		},
		{
			desc: "empty-bool-falls-back-to-match-all",
			node: Bool{},
			want: "fields @timestamp, @message | limit 1000",
		},
		{
			// A MatchAll sub-query has no filter predicate to extract, so it
			// contributes nothing to the parent's condition list.
			desc: "match-all-child-dropped",
			node: Bool{Must: []Node{MatchAll{}, Term{Field: "a", Value: "1"}}},
			want: `fields @timestamp, @message | filter (a = "1")`,
		},
		{
			desc: "only-match-all-children-falls-back",
			node: Bool{Must: []Node{MatchAll{}}, Should: []Node{MatchAll{}}},
			want: "fields @timestamp, @message | limit 1000",
		},
		{
			desc: "nested-bool",
			node: Bool{
				Must: []Node{
					Bool{Should: []Node{Term{Field: "b", Value: "2"}, Term{Field: "b", Value: "3"}}},
					Term{Field: "a", Value: "1"},
				},
			},
			want: `fields @timestamp, @message | filter ((b = "2" or b = "3") and a = "1")`,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.want, Translate(tC.node))
		})
	}
}

func TestTranslateIsPure(t *testing.T) {
	nodes := []Node{
		MatchAll{},
		Match{Field: "level", Value: "ERROR"},
		Terms{Field: "status", Values: []string{"500", "503"}},
		Bool{
			Must:    []Node{Term{Field: "a", Value: "1"}},
			MustNot: []Node{Wildcard{Field: "f", Pattern: "x*"}},
		},
	}
	for _, n := range nodes {
		assert.Equal(t, Translate(n), Translate(n))
	}
}
