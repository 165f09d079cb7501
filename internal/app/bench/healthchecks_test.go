package bench

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus" // Prometheus metrics.
	"github.com/stretchr/testify/assert"             // Test assertions e.g. equality.
)

func TestHealthchecks(t *testing.T) {
	h := NewHealthchecks(prometheus.NewRegistry())

	// Alive from the start.
	w := httptest.NewRecorder()
	h.Handler.LiveEndpoint(w, httptest.NewRequest("GET", "/livez", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Not ready until the AWS session exists.
	w = httptest.NewRecorder()
	h.Handler.ReadyEndpoint(w, httptest.NewRequest("GET", "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	h.AWSSessionCreated = true
	w = httptest.NewRecorder()
	h.Handler.ReadyEndpoint(w, httptest.NewRequest("GET", "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
