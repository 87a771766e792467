// ABOUTME: Wire envelopes shared by every endpoint
// ABOUTME: Success bodies carry data or a message, failures carry a status word and message

package response

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Envelope is the body of every failed request. It satisfies huma.StatusError
// so handlers can return it directly.
type Envelope struct {
	code int

	Status  string `json:"status" enum:"fail,error" doc:"fail for caller mistakes, error for server faults"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *Envelope) Error() string {
	return e.Message
}

// GetStatus returns the HTTP status code of the envelope
func (e *Envelope) GetStatus() int {
	return e.code
}

// Fail builds a client-side failure envelope
func Fail(code int, message string) *Envelope {
	return &Envelope{code: code, Status: StatusFail, Message: message}
}

// ServerError builds a server-side failure envelope
func ServerError(code int, message string) *Envelope {
	return &Envelope{code: code, Status: StatusError, Message: message}
}

// Data is a success body carrying a payload
type Data[T any] struct {
	Status string `json:"status" example:"success"`
	Data   T      `json:"data"`
}

// Message is a success body carrying only a message
type Message struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message"`
}

// MessageData is a success body carrying a message and a payload
type MessageData[T any] struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// OK wraps a payload into a success body
func OK[T any](data T) Data[T] {
	return Data[T]{Status: StatusSuccess, Data: data}
}

// Text wraps a message into a success body
func Text(message string) Message {
	return Message{Status: StatusSuccess, Message: message}
}

// Created wraps a message and a payload into a success body
func Created[T any](message string, data T) MessageData[T] {
	return MessageData[T]{Status: StatusSuccess, Message: message, Data: data}
}
