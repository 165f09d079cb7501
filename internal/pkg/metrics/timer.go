package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// VecTimer is a helper type to time functions.
// It is similar to prometheus.Timer, but takes a prometheus.ObserverVec,
// and can add labels to it when the VecTimer is observed.
// Use NewVecTimer to create new instances.
type VecTimer struct {
	begin time.Time
	vec   prometheus.ObserverVec
}

// NewVecTimer creates a new VecTimer. The provided ObserverVec is used to
// observe a duration in seconds.
func NewVecTimer(v prometheus.ObserverVec) *VecTimer {
	return &VecTimer{
		begin: time.Now(),
		vec:   v,
	}
}

// ObserveWith records the duration passed since the VecTimer was created.
// It derives an Observer from the ObserverVec passed during construction
// from the provided labels. It calls the Observe method of the Observer
// with the duration in seconds as an argument. The observed duration is
// also returned.
func (t *VecTimer) ObserveWith(labels prometheus.Labels) time.Duration {
	d := time.Since(t.begin)
	if t.vec != nil {
		t.vec.With(labels).Observe(d.Seconds())
	}
	return d
}
