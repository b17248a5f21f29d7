package zklogin

import (
	"encoding/hex"
	"net/url"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"

	"github.com/SafeMPC/zklogin-service/internal/api"
	"github.com/SafeMPC/zklogin-service/internal/api/httperrors"
	"github.com/SafeMPC/zklogin-service/internal/types"
	"github.com/SafeMPC/zklogin-service/internal/util"
	zkl "github.com/SafeMPC/zklogin-service/internal/zklogin"
)

func PostCompleteLoginRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1ZkLogin.POST("/complete", postCompleteLoginHandler(s))
}

// postCompleteLoginHandler 消费会话并完成盐解析与证明装配
//
// 调用方可以直接提交 id_token，也可以提交提供方重定向回来的完整 URL，
// 由服务端从 fragment 中提取令牌。会话只允许完成一次。
func postCompleteLoginHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostCompleteLoginPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		idToken := body.IDToken
		if idToken == "" {
			redirect, err := url.Parse(body.RedirectURL)
			if err != nil {
				return httperrors.ErrBadRequestMalformedRedirect
			}

			idToken, err = zkl.ExtractIDToken(redirect)
			if err != nil {
				return mapLoginError(err)
			}
		}

		result, err := s.ZkLogin.CompleteLogin(ctx, swag.StringValue(body.SessionID), idToken)
		if err != nil {
			return mapLoginError(err)
		}

		log.Info().
			Str("session_id", result.Session.ID).
			Str("address", result.Address).
			Msg("Login session completed")

		response := &types.CompleteLoginResponse{
			Address:             swag.String(result.Address),
			Salt:                swag.String(result.Salt.String()),
			MaxEpoch:            int64(result.Session.MaxEpoch),
			EphemeralPublicKey:  swag.String(hex.EncodeToString(result.Session.KeyPair.PublicKey)),
			EphemeralPrivateKey: swag.String(hex.EncodeToString(result.Session.KeyPair.PrivateKey)),
			Issuer:              result.Claims.Issuer,
			Subject:             result.Claims.Subject,
			PartialSignature:    result.PartialSignature,
		}

		return util.ValidateAndReturn(c, 200, response)
	}
}
