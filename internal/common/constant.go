// Package common contains shared constants and sentinel errors used across
// the portal client packages. Callers should use errors.Is to match the
// sentinel values.
package common

const (
	// CSRFHeaderName is the request header carrying the anti-forgery token
	// on outbound calls.
	CSRFHeaderName = "X-CSRFToken"

	// CSRFTokenField is the JSON field in which the backend may return a
	// refreshed anti-forgery token on any response body.
	CSRFTokenField = "csrf_token"

	// RequestIDHeaderName carries a per-request id so the backend can
	// deduplicate accidental resubmissions.
	RequestIDHeaderName = "X-Request-ID"
)
