package bench

import (
	"github.com/heptiolabs/healthcheck" // Healthchecks framework.
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sjolander/cloudwatch-search/internal/pkg/cmd" // Common command line app tools.
)

type Healthchecks struct {
	Handler healthcheck.Handler

	// Flag to be set true once an AWS session
	// has been successfully created.
	AWSSessionCreated bool
}

// NewHealthchecks returns the bench app's healthchecks: the shared
// liveness check plus a readiness check that holds until the AWS session
// exists.
func NewHealthchecks(r prometheus.Registerer) *Healthchecks {
	h := &Healthchecks{
		Handler: cmd.NewHealthchecksHandler(r, Name),
	}

	h.Handler.AddReadinessCheck("aws-session", func() error {
		if !h.AWSSessionCreated {
			return errors.New("AWS session not yet ready")
		}
		return nil
	})

	return h
}
