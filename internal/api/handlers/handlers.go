package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/SafeMPC/zklogin-service/internal/api"
	"github.com/SafeMPC/zklogin-service/internal/api/handlers/wellknown"
	"github.com/SafeMPC/zklogin-service/internal/api/handlers/zklogin"
)

// AttachAllRoutes 挂载全部路由
func AttachAllRoutes(s *api.Server) []*echo.Route {
	return []*echo.Route{
		// zklogin
		zklogin.PostBeginLoginRoute(s),
		zklogin.PostCompleteLoginRoute(s),
		zklogin.GetLoginSessionRoute(s),

		// well-known
		wellknown.GetHealthyRoute(s),
		wellknown.GetReadyRoute(s),
	}
}
