package zklogin

import (
	"encoding/hex"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"

	"github.com/SafeMPC/zklogin-service/internal/api"
	"github.com/SafeMPC/zklogin-service/internal/types"
	"github.com/SafeMPC/zklogin-service/internal/util"
	zkl "github.com/SafeMPC/zklogin-service/internal/zklogin"
)

func PostBeginLoginRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1ZkLogin.POST("/begin", postBeginLoginHandler(s))
}

// postBeginLoginHandler 创建登录会话并返回绑定 nonce 的授权 URL
// 调用方负责把用户带到授权 URL，拿到重定向后调用 complete
func postBeginLoginHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostBeginLoginPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		session, authorizeURL, err := s.ZkLogin.BeginLogin(
			ctx,
			swag.StringValue(body.Provider),
			uint64(swag.Int64Value(body.CurrentEpoch)),
			zkl.LoginOptions{
				LoginHint: body.LoginHint,
				Prompt:    body.Prompt,
			},
		)
		if err != nil {
			return mapLoginError(err)
		}

		log.Debug().
			Str("session_id", session.ID).
			Str("provider", session.Provider).
			Msg("Created login session")

		response := &types.BeginLoginResponse{
			SessionID:          swag.String(session.ID),
			AuthorizeURL:       swag.String(authorizeURL),
			Nonce:              swag.String(session.Nonce),
			MaxEpoch:           int64(session.MaxEpoch),
			EphemeralPublicKey: swag.String(hex.EncodeToString(session.KeyPair.PublicKey)),
		}

		return util.ValidateAndReturn(c, 200, response)
	}
}
