package dto

// ErrorResponse represents a standardized error response for the API.
// Class tells clients whether to show a permission message, disable the
// action or retry.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Class   string `json:"class"`
	Message string `json:"message"`
}
