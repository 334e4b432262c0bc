package lookup

import (
	"errors"
	"net/http"
)

// 错误码：对外稳定，HTTP 层据此映射状态码
const (
	CodeInvalidInput = "invalid_input"
	CodeUnknownKind  = "unknown_kind"
	CodeNotFound     = "not_found"
	CodeUpstream     = "upstream"
)

// Error：分发层的类型化错误；Message 为用户可见信息
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Status：错误码对应的 HTTP 状态码
func (e *Error) Status() int {
	switch e.Code {
	case CodeInvalidInput, CodeUnknownKind:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func invalid(msg string) error { return &Error{Code: CodeInvalidInput, Message: msg} }

// AsError：提取 *Error；其他错误按上游错误处理
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Code: CodeUpstream, Message: "Lookup failed", Err: err}
}
