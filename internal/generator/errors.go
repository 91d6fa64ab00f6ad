package generator

// ValidationError is a caller input failure. No upstream call is made when
// validation fails.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// UpstreamError is a failure of the upstream image generation call: network
// error, timeout, non-2xx status, or an unparseable response body.
type UpstreamError struct {
	StatusCode int // 0 when no HTTP response was received
	Message    string
	Timeout    bool
}

func (e *UpstreamError) Error() string {
	return e.Message
}
