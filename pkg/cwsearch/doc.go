// Package cwsearch runs Elasticsearch-style queries against AWS CloudWatch
// Logs.
//
// A query document (a subset of the Elasticsearch Query DSL) is parsed once
// into a Node, translated to a CloudWatch Logs Insights query string,
// submitted as an asynchronous job, and polled to completion. The results
// come back reshaped as an Elasticsearch-compatible search response
// envelope, on both the success and the failure path, so callers built
// against Elasticsearch can consume them unchanged.
package cwsearch
