package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/SafeMPC/zklogin-service/internal/api"
	"github.com/SafeMPC/zklogin-service/internal/api/handlers"
	"github.com/SafeMPC/zklogin-service/internal/api/httperrors"
	"github.com/SafeMPC/zklogin-service/internal/api/middleware"
)

// Init 初始化 echo 实例、中间件与全部路由
func Init(s *api.Server) {
	s.Echo = echo.New()
	s.Echo.Debug = false
	s.Echo.HideBanner = true
	s.Echo.HTTPErrorHandler = errorHandler(s.Config.Echo.HideInternalServerErrorDetails)

	s.Echo.Pre(echoMiddleware.RemoveTrailingSlash())

	s.Echo.Use(echoMiddleware.Recover())
	s.Echo.Use(echoMiddleware.RequestID())
	s.Echo.Use(middleware.Logger())

	s.Router = &api.Router{
		Root:         s.Echo.Group(""),
		APIV1ZkLogin: s.Echo.Group("/api/v1/zklogin"),
	}

	s.Router.Routes = handlers.AttachAllRoutes(s)

	for _, route := range s.Router.Routes {
		log.Debug().Str("method", route.Method).Str("path", route.Path).Msg("Registered route")
	}
}

// errorHandler 统一错误响应：httperrors 类型原样输出，其余折叠成 RFC7807 风格
func errorHandler(hideInternalDetails bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var payload *httperrors.HTTPError

		var validationErr *httperrors.HTTPValidationError
		var httpErr *httperrors.HTTPError
		var echoErr *echo.HTTPError

		switch {
		case errors.As(err, &validationErr):
			writeError(c, validationErr.Code, validationErr)
			return
		case errors.As(err, &httpErr):
			payload = httpErr
		case errors.As(err, &echoErr):
			payload = httperrors.NewFromEcho(echoErr)
		default:
			payload = httperrors.NewHTTPError(http.StatusInternalServerError, "GENERIC", http.StatusText(http.StatusInternalServerError))
			if !hideInternalDetails {
				payload.Detail = err.Error()
			}
		}

		if payload.Code >= http.StatusInternalServerError {
			log.Error().Err(err).Int("status", payload.Code).Msg("Request failed")
		}

		writeError(c, payload.Code, payload)
	}
}

func writeError(c echo.Context, code int, payload interface{}) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, payload)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to write error response")
	}
}
