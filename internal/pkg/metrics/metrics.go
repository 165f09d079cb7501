// Package metrics holds constants and utilities for instrumenting
// cloudwatch-search with Prometheus metrics.
package metrics

const (
	// LabelMethod is the Prometheus label name for HTTP method.
	LabelMethod = "method"

	// LabelStatusCode is the Prometheus label name for HTTP status codes.
	LabelStatusCode = "code"

	// LabelService is the Prometheus label name for AWS API names.
	LabelService = "service"

	// LabelOperation is the Prometheus label name for operations within
	// an AWS API.
	LabelOperation = "operation"

	// LabelRegion is the Prometheus label name for the AWS region label.
	LabelRegion = "region"
)
