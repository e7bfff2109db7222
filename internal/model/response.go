package model

// APIResponse is the envelope written for every JSON response. Failures carry
// success=false, the HTTP status mirrored in statusCode and a human readable
// message; error holds the machine readable code.
type APIResponse struct {
	StatusCode int       `json:"statusCode"`
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	Data       any       `json:"data,omitempty"`
	Error      *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
