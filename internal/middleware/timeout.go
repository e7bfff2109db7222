package middleware

import (
	"net/http"
	"time"
)

// Timeout bounds handler execution. The websocket route must not sit behind
// it since http.TimeoutHandler does not support hijacking.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	message := `{"statusCode":503,"success":false,"message":"request timed out","error":{"code":"REQUEST_TIMEOUT"}}`

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, message)
	}
}
