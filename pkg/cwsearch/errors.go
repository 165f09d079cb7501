package cwsearch

// ErrorKind classifies terminal search failures.
type ErrorKind string

const (
	// KindSubmissionRejected means the remote service refused to start the
	// query (malformed query string, bad parameters, unknown log group).
	KindSubmissionRejected ErrorKind = "submission_rejected"

	// KindRemoteFailure means the query job reached the Failed status.
	KindRemoteFailure ErrorKind = "remote_execution_failure"

	// KindRemoteCancelled means the query job was cancelled or timed out on
	// the remote side.
	KindRemoteCancelled ErrorKind = "remote_cancelled"

	// KindClientTimeout means the local wall-clock budget ran out before
	// the job reached a terminal status.
	KindClientTimeout ErrorKind = "client_timeout"

	// KindTransportFailure covers network and auth errors on any remote call.
	KindTransportFailure ErrorKind = "transport_failure"
)

// Error is a terminal search failure carrying one of the five ErrorKinds.
// It never escapes Search; it is folded into the failure envelope.
type Error struct {
	Kind   ErrorKind
	Reason string
	Cause  error // underlying error, if any
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Reason
}
