package httperrors

import (
	"net/http"
)

var (
	ErrBadRequestUnknownProvider   = NewHTTPError(http.StatusBadRequest, "ZKLOGIN_UNKNOWN_PROVIDER", "The requested identity provider is not configured.")
	ErrBadRequestMalformedRedirect = NewHTTPError(http.StatusBadRequest, "ZKLOGIN_MALFORMED_REDIRECT", "The redirect response could not be parsed.")
	ErrNotFoundLoginSession        = NewHTTPError(http.StatusNotFound, "ZKLOGIN_SESSION_NOT_FOUND", "Login session does not exist or has expired.")
	ErrConflictSessionConsumed     = NewHTTPError(http.StatusConflict, "ZKLOGIN_SESSION_CONSUMED", "Login session has already been consumed.")
	ErrBadGatewayUpstream          = NewHTTPError(http.StatusBadGateway, "ZKLOGIN_UPSTREAM_FAILURE", "An upstream zkLogin service returned an invalid response or was unreachable.")
	ErrGatewayTimeoutUpstream      = NewHTTPError(http.StatusGatewayTimeout, "ZKLOGIN_UPSTREAM_TIMEOUT", "An upstream zkLogin service did not answer in time.")
)
