package zklogin

import (
	"context"
	"errors"
	"net/url"
)

// classifyTransportError 把传输层错误归入规范中的瞬态错误类别
func classifyTransportError(service string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Service: service, Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &TimeoutError{Service: service, Err: err}
	}

	return &NetworkError{Service: service, Err: err}
}
