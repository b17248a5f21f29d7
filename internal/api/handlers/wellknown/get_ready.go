package wellknown

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SafeMPC/zklogin-service/internal/api"
	"github.com/SafeMPC/zklogin-service/internal/util"
)

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Root.GET("/-/ready", getReadyHandler(s))
}

// getReadyHandler 就绪探针：组件装配完成，且启用的 redis 可达
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		if !s.Ready() {
			log.Warn().Msg("Readiness probe hit before components were initialized")
			return c.String(http.StatusServiceUnavailable, "Not ready.")
		}

		if s.Redis != nil {
			if err := s.Redis.Ping(ctx).Err(); err != nil {
				log.Warn().Err(err).Msg("Readiness probe failed to ping redis")
				return c.String(http.StatusServiceUnavailable, "Not ready.")
			}
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
