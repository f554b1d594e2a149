// Package types holds the wire envelopes shared by every CampusPrint
// endpoint.
package types

// SuccessEnvelope wraps every successful response body under "data".
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape; Code carries the taxonomy value from
// pkg/errors and Details optional per-field validation context.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
