package bench

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil" // Prometheus metric test helpers.
	"github.com/stretchr/testify/assert"                      // Test assertions e.g. equality.
	"github.com/stretchr/testify/require"                     // Like assert but fails the test.

	kingpin "gopkg.in/alecthomas/kingpin.v2" // Command line flag parsing.

	"github.com/sjolander/cloudwatch-search/pkg/cwsearch"
)

func TestInstrumentationObserve(t *testing.T) {
	m := NewInstrumentation("test")

	success := &cwsearch.Response{
		Hits: cwsearch.Hits{Hits: []cwsearch.Hit{{}, {}, {}}},
	}
	failure := &cwsearch.Response{
		TimedOut: true,
		Error:    &cwsearch.ErrorInfo{Type: "client_timeout", Reason: "gave up"},
	}

	m.Observe(success, 100*time.Millisecond)
	m.Observe(success, 200*time.Millisecond)
	m.Observe(failure, 5*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Searches.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues("client_timeout")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.Hits))
}

func TestFlagsQueryDefaultsToMatchAll(t *testing.T) {
	app := kingpin.New("testapp", "usage")
	f := NewFlags(app)
	_, err := app.Parse([]string{"--log-group", "/g"})
	require.NoError(t, err)
	assert.Equal(t, cwsearch.MatchAll{}, f.Query())
	assert.Equal(t, 4, f.Clients)
	assert.Equal(t, 100, f.Iterations)
}
