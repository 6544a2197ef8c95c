package common

// Envelope is the single response shape of this API: one JSON object
// with a boolean success flag and, on failure, a short human-readable
// message.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Failure builds a failure envelope
func Failure(message string) Envelope {
	return Envelope{Success: false, Message: message}
}
