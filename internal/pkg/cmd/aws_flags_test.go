package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert" // Test assertions e.g. equality.

	kingpin "gopkg.in/alecthomas/kingpin.v2" // Command line flag parsing.
)

func TestNewAWSFlags(t *testing.T) {
	app := kingpin.New("testapp", "usage")
	f := NewAWSFlags(app, 5)
	_, err := app.Parse([]string{
		"--aws.region", "us-east-2",
		"--aws.profile", "foobar",
		"--aws.max-retries", "1",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, f.MaxRetries)
	assert.Equal(t, "us-east-2", f.Region)
	assert.Equal(t, "foobar", f.Profile)
}

func TestNewMonitoringFlags(t *testing.T) {
	app := kingpin.New("testapp", "usage")
	f := NewMonitoringFlags(app, 9700)
	_, err := app.Parse([]string{"--serve.port", "8080"})
	assert.NoError(t, err)
	assert.Equal(t, uint16(8080), f.Port)
	assert.Equal(t, "/metrics", f.MetricsPath)
	assert.Equal(t, "/livez", f.LivePath)
	assert.Equal(t, "/readyz", f.ReadyPath)
}
