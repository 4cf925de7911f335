package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// HTTPError is returned for every non-2xx backend response.
type HTTPError struct {
	StatusCode int
	Method     string
	Path       string
	// Message is the backend's explanation when the body carried one.
	Message string
	Body    []byte
}

func (e *HTTPError) Error() string {
	status := fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message == "" {
		return fmt.Sprintf("api: %s %s: %s", e.Method, e.Path, status)
	}
	return fmt.Sprintf("api: %s %s: %s: %s", e.Method, e.Path, status, e.Message)
}

// IsRetryable reports whether err is a transport failure or a 5xx response.
// Caller cancellation is never retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}

// errorMessage pulls a readable message out of the backend's error shapes:
// {"error": "..."}, {"detail": "..."} and field validation maps.
func errorMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var shaped struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &shaped); err == nil {
		if shaped.Error != "" {
			return shaped.Error
		}
		if shaped.Detail != "" {
			return shaped.Detail
		}
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil && len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for key := range fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", key, flatten(fields[key])))
		}
		return strings.Join(parts, "; ")
	}

	var list []string
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 {
		return strings.Join(list, "; ")
	}

	if strings.HasPrefix(trimmed, "<") {
		return ""
	}
	const limit = 200
	if len(trimmed) > limit {
		trimmed = trimmed[:limit] + "..."
	}
	return trimmed
}

func flatten(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, flatten(item))
		}
		return strings.Join(parts, ", ")
	default:
		encoded, _ := json.Marshal(v)
		return string(encoded)
	}
}
