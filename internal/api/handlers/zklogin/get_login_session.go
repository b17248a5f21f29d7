package zklogin

import (
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"

	"github.com/SafeMPC/zklogin-service/internal/api"
	"github.com/SafeMPC/zklogin-service/internal/types"
	"github.com/SafeMPC/zklogin-service/internal/util"
)

func GetLoginSessionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1ZkLogin.GET("/sessions/:id", getLoginSessionHandler(s))
}

// getLoginSessionHandler 查询在途会话的公开状态
// 不返回任何密钥材料
func getLoginSessionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := s.ZkLogin.GetSession(c.Param("id"))
		if err != nil {
			return mapLoginError(err)
		}

		response := &types.LoginSessionResponse{
			SessionID: swag.String(session.ID),
			Provider:  swag.String(session.Provider),
			Nonce:     swag.String(session.Nonce),
			MaxEpoch:  int64(session.MaxEpoch),
			Consumed:  session.Consumed(),
			CreatedAt: strfmt.DateTime(session.CreatedAt),
		}

		return util.ValidateAndReturn(c, 200, response)
	}
}
