package errutil

import "fmt"

// BaseError is the error shape services hand to the HTTP layer. Code
// selects the response status, Message is safe to show to clients, and
// Err carries the underlying cause for logs and error chains.
type BaseError struct {
	Code    CoreStatus `json:"code"`
	Message string     `json:"message"`
	Err     error      `json:"-"`
}

func (e BaseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.describe())
}

func (e BaseError) Unwrap() error {
	return e.Err
}

// JSON is the body the error middleware renders.
func (e BaseError) JSON() interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"code":    e.Code,
			"message": e.describe(),
		},
	}
}

func (e BaseError) describe() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func New(code CoreStatus, message string, err error) error {
	return BaseError{Code: code, Message: message, Err: err}
}

func BadRequest(msg string, err error) error {
	return New(StatusBadRequest, msg, err)
}

func Unauthorized(msg string, err error) error {
	return New(StatusUnauthorized, msg, err)
}

func Forbidden(msg string, err error) error {
	return New(StatusForbidden, msg, err)
}

func NotFound(msg string, err error) error {
	return New(StatusNotFound, msg, err)
}

func Conflict(msg string, err error) error {
	return New(StatusConflict, msg, err)
}

func UnprocessableEntity(msg string, err error) error {
	return New(StatusUnprocessableEntity, msg, err)
}

func Internal(msg string, err error) error {
	return New(StatusInternal, msg, err)
}

func BadGateway(msg string, err error) error {
	return New(StatusBadGateway, msg, err)
}
