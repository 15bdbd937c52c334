package dto

// Envelope is the uniform success wrapper returned by every endpoint:
// a success flag plus the affected entity (or list).
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// NewEnvelope wraps a payload in the success envelope.
func NewEnvelope(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
