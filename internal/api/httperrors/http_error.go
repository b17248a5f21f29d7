package httperrors

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPError RFC7807 风格的错误响应体
type HTTPError struct {
	Code   int    `json:"status"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`

	Internal error `json:"-"`
}

func (e *HTTPError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("HTTPError %d (%s): %s: %v", e.Code, e.Type, e.Title, e.Internal)
	}
	return fmt.Sprintf("HTTPError %d (%s): %s", e.Code, e.Type, e.Title)
}

func (e *HTTPError) Unwrap() error {
	return e.Internal
}

// NewHTTPError 创建 HTTPError
func NewHTTPError(code int, errorType string, title string) *HTTPError {
	return &HTTPError{
		Code:  code,
		Type:  errorType,
		Title: title,
	}
}

// NewHTTPErrorWithDetail 创建带 detail 的 HTTPError
func NewHTTPErrorWithDetail(code int, errorType string, title string, detail string) *HTTPError {
	return &HTTPError{
		Code:   code,
		Type:   errorType,
		Title:  title,
		Detail: detail,
	}
}

// NewFromEcho 从 echo.HTTPError 转换
func NewFromEcho(e *echo.HTTPError) *HTTPError {
	return &HTTPError{
		Code:  e.Code,
		Type:  "GENERIC",
		Title: fmt.Sprintf("%v", e.Message),
	}
}

// HTTPValidationError 请求体校验失败
type HTTPValidationError struct {
	HTTPError
	ValidationErrors []string `json:"validation_errors,omitempty"`
}

// NewHTTPValidationError 从 go-openapi 校验错误创建 400 响应
func NewHTTPValidationError(err error) *HTTPValidationError {
	return &HTTPValidationError{
		HTTPError: HTTPError{
			Code:  http.StatusBadRequest,
			Type:  "VALIDATION_ERROR",
			Title: "Request payload validation failed",
		},
		ValidationErrors: []string{err.Error()},
	}
}
