package models

// Respond is the JSON envelope every endpoint answers with.
type Respond struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// NewRespond builds the envelope. Data passes through untouched, so a
// nil payload serializes as null rather than an empty object.
func NewRespond(status int, data any, message string) Respond {
	return Respond{
		Success: status < 400,
		Status:  status,
		Data:    data,
		Message: message,
	}
}
