package handlers

// ErrorResponse is the body returned by the game endpoints when a request
// cannot be served. Clients display Error verbatim.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewErrorResponse builds an ErrorResponse with the given message.
func NewErrorResponse(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}
