package trclient

import (
	"fmt"
	"net/http"
	"time"
)

// StatusError is returned when the provisioning service responds with a
// status code outside of the 2xx range.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

// Error returns a string describing the error.
func (e StatusError) Error() string {
	status := fmt.Sprintf("%d %s", e.Code, http.StatusText(e.Code))
	if e.Body == "" {
		return fmt.Sprintf("%s %s: the server responded with %s", e.Method, e.URL, status)
	}
	return fmt.Sprintf("%s %s: the server responded with %s: %s", e.Method, e.URL, status, e.Body)
}

// TokenExpiredError is returned when an access token has expired.
type TokenExpiredError struct {
	Expired time.Time
}

// Error returns a string describing the error.
func (e TokenExpiredError) Error() string {
	return fmt.Sprintf("the access token expired at %s", e.Expired.Format(time.RFC3339))
}
