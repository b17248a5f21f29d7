package wellknown

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SafeMPC/zklogin-service/internal/api"
)

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Root.GET("/-/healthy", getHealthyHandler(s))
}

// getHealthyHandler 存活探针，进程能应答即为健康
func getHealthyHandler(_ *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, "OK.")
	}
}
