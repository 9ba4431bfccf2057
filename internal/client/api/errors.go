package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// APIError is a structured HTTP error carrying the status code and the
// first human-readable detail extracted from the server's error payload.
// It unwraps to one of the package sentinels so callers can match with
// errors.Is.
type APIError struct {
	StatusCode int
	Detail     string
	Fields     map[string]any
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode >= 500:
		return ErrUnavailable
	}
	return nil
}

// firstDetail walks a decoded error payload and returns the first
// human-readable message it finds. Validation errors arrive as nested maps
// of field name to message list; a top-level "detail" string wins when
// present. Map keys are visited in sorted order so the result is
// deterministic.
func firstDetail(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		for _, item := range val {
			if s := firstDetail(item); s != "" {
				return s
			}
		}
	case map[string]any:
		if d, ok := val["detail"].(string); ok && d != "" {
			return d
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s := firstDetail(val[k]); s != "" {
				return s
			}
		}
	}
	return ""
}
