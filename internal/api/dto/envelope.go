package dto

// Envelope is the uniform response shape: {message, data, error}. Error is
// null on success and carries the error code otherwise.
type Envelope struct {
	Message string  `json:"message"`
	Data    any     `json:"data"`
	Error   *string `json:"error"`
}

// OK wraps a successful payload.
func OK(message string, data any) Envelope {
	return Envelope{Message: message, Data: data}
}

// Fail wraps an error response.
func Fail(message, code string) Envelope {
	return Envelope{Message: message, Error: &code}
}
