package zklogin

import (
	"errors"
	"net/http"

	"github.com/SafeMPC/zklogin-service/internal/api/httperrors"
	zkl "github.com/SafeMPC/zklogin-service/internal/zklogin"
)

// mapLoginError 把流水线错误翻译成对外的 HTTP 错误
//
// 瞬态的上游失败映射到 502/504，调用方可以带同一令牌重试 complete；
// 认证类失败映射到 400，必须用新会话重新登录。
func mapLoginError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, zkl.ErrUnknownProvider):
		return httperrors.ErrBadRequestUnknownProvider
	case errors.Is(err, zkl.ErrSessionNotFound):
		return httperrors.ErrNotFoundLoginSession
	case errors.Is(err, zkl.ErrSessionConsumed):
		return httperrors.ErrConflictSessionConsumed
	}

	var authErr *zkl.AuthenticationError
	if errors.As(err, &authErr) {
		return httperrors.NewHTTPErrorWithDetail(
			http.StatusBadRequest,
			"ZKLOGIN_AUTHENTICATION_FAILED",
			"Authentication failed.",
			authErr.Error(),
		)
	}

	var timeoutErr *zkl.TimeoutError
	if errors.As(err, &timeoutErr) {
		return httperrors.ErrGatewayTimeoutUpstream
	}

	var netErr *zkl.NetworkError
	if errors.As(err, &netErr) {
		return httperrors.ErrBadGatewayUpstream
	}

	var svcErr *zkl.ServiceError
	if errors.As(err, &svcErr) {
		return httperrors.NewHTTPErrorWithDetail(
			http.StatusBadGateway,
			"ZKLOGIN_UPSTREAM_FAILURE",
			"An upstream zkLogin service returned an invalid response.",
			svcErr.Error(),
		)
	}

	return err
}
