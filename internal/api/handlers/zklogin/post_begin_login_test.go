package zklogin_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SafeMPC/zklogin-service/internal/api"
	"github.com/SafeMPC/zklogin-service/internal/test"
	"github.com/SafeMPC/zklogin-service/internal/types"
)

func TestPostBeginLogin(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		payload := &types.PostBeginLoginPayload{
			Provider:     swag.String("google"),
			CurrentEpoch: swag.Int64(5),
		}

		res := test.PerformRequest(t, s, "POST", "/api/v1/zklogin/begin", payload, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var response types.BeginLoginResponse
		test.ParseResponseBody(t, res, &response)

		require.NotNil(t, response.SessionID)
		assert.NotEmpty(t, *response.SessionID)
		assert.Equal(t, int64(7), response.MaxEpoch)
		require.NotNil(t, response.EphemeralPublicKey)
		assert.Len(t, *response.EphemeralPublicKey, 64)

		authorizeURL, err := url.Parse(swag.StringValue(response.AuthorizeURL))
		require.NoError(t, err)
		assert.Equal(t, "accounts.google.com", authorizeURL.Host)
		assert.Equal(t, "test-client-id", authorizeURL.Query().Get("client_id"))
		assert.Equal(t, "id_token", authorizeURL.Query().Get("response_type"))
		assert.Equal(t, swag.StringValue(response.Nonce), authorizeURL.Query().Get("nonce"))
	})
}

func TestPostBeginLoginUnknownProvider(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		payload := &types.PostBeginLoginPayload{
			Provider:     swag.String("github"),
			CurrentEpoch: swag.Int64(5),
		}

		res := test.PerformRequest(t, s, "POST", "/api/v1/zklogin/begin", payload, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestPostBeginLoginValidation(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		// provider 与 current_epoch 均为必填
		res := test.PerformRequest(t, s, "POST", "/api/v1/zklogin/begin", map[string]interface{}{}, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)

		res = test.PerformRequest(t, s, "POST", "/api/v1/zklogin/begin", map[string]interface{}{
			"provider":      "google",
			"current_epoch": -3,
		}, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestGetLoginSession(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		payload := &types.PostBeginLoginPayload{
			Provider:     swag.String("google"),
			CurrentEpoch: swag.Int64(5),
		}

		res := test.PerformRequest(t, s, "POST", "/api/v1/zklogin/begin", payload, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var created types.BeginLoginResponse
		test.ParseResponseBody(t, res, &created)

		res = test.PerformRequest(t, s, "GET", "/api/v1/zklogin/sessions/"+swag.StringValue(created.SessionID), nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var session types.LoginSessionResponse
		test.ParseResponseBody(t, res, &session)

		assert.Equal(t, swag.StringValue(created.SessionID), swag.StringValue(session.SessionID))
		assert.Equal(t, "google", swag.StringValue(session.Provider))
		assert.False(t, session.Consumed)
	})
}

func TestGetLoginSessionNotFound(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/api/v1/zklogin/sessions/no-such-session", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}
