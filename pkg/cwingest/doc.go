// Package cwingest batch-loads JSON documents into a CloudWatch Logs log
// group so they can be queried back out with Logs Insights.
package cwingest
