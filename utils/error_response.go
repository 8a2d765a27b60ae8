package utils

// ErrorResponse is a struct for error response. Details carries structured
// data the client needs to render feedback, like the hours remaining before
// a reschedule cutoff.
type ErrorResponse struct {
	Message string                 `json:"message"`
	Error   string                 `json:"error,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
