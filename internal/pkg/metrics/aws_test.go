package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus" // Prometheus metrics.
	"github.com/stretchr/testify/assert"             // Test assertions e.g. equality.
	"github.com/stretchr/testify/require"            // Like assert but fails the test.

	"github.com/aws/aws-sdk-go/aws/request"
)

func TestInstrumentAWS(t *testing.T) {
	var h request.Handlers
	reg := prometheus.NewRegistry()

	err := InstrumentAWS(&h, reg, "test", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Send.Len())
	assert.Equal(t, 1, h.Retry.Len())

	// The collectors are already registered the second time around.
	err = InstrumentAWS(&h, reg, "test", nil)
	assert.Error(t, err)
}
