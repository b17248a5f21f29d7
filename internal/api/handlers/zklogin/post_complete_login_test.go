package zklogin_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-openapi/swag"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SafeMPC/zklogin-service/internal/api"
	"github.com/SafeMPC/zklogin-service/internal/test"
	"github.com/SafeMPC/zklogin-service/internal/types"
	"github.com/SafeMPC/zklogin-service/internal/zklogin"
)

// stubUpstreams 伪造盐注册服务与证明服务
func stubUpstreams(t *testing.T) (saltURL string, proverURL string, cleanup func()) {
	t.Helper()

	saltServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"salt": "42"})
	}))

	proverServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(&zklogin.PartialSignature{
			ProofPoints: zklogin.ProofPoints{
				PiA: []string{"1", "2", "1"},
				PiB: [][]string{{"3", "4"}, {"5", "6"}, {"1", "0"}},
				PiC: []string{"7", "8", "1"},
			},
			AddressSeed:  "1455168356914865112049127478944982135668577694314471907221299851045837689705",
			HeaderBase64: "eyJhbGciOiJSUzI1NiJ9",
		})
	}))

	return saltServer.URL, proverServer.URL, func() {
		saltServer.Close()
		proverServer.Close()
	}
}

func mintIDToken(t *testing.T, nonce string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":   "https://accounts.google.com",
		"sub":   "1234567890",
		"aud":   "test-client-id",
		"nonce": nonce,
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return signed
}

func TestPostCompleteLogin(t *testing.T) {
	saltURL, proverURL, cleanup := stubUpstreams(t)
	defer cleanup()

	cfg := test.DefaultTestConfig()
	cfg.ZkLogin.SaltServiceURL = saltURL
	cfg.ZkLogin.ProverServiceURL = proverURL

	test.WithTestServerConfigurable(t, cfg, func(s *api.Server) {
		// 未启用 Consul 时上游地址经由静态 Resolver 解析
		endpoint, err := s.Resolver.Resolve(context.Background(), s.Config.Consul.SaltServiceName)
		require.NoError(t, err)
		require.Equal(t, saltURL, endpoint)

		res := test.PerformRequest(t, s, "POST", "/api/v1/zklogin/begin", &types.PostBeginLoginPayload{
			Provider:     swag.String("google"),
			CurrentEpoch: swag.Int64(5),
		}, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var begin types.BeginLoginResponse
		test.ParseResponseBody(t, res, &begin)

		res = test.PerformRequest(t, s, "POST", "/api/v1/zklogin/complete", &types.PostCompleteLoginPayload{
			SessionID: begin.SessionID,
			IDToken:   mintIDToken(t, swag.StringValue(begin.Nonce)),
		}, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var complete types.CompleteLoginResponse
		test.ParseResponseBody(t, res, &complete)

		assert.Contains(t, swag.StringValue(complete.Address), "0x")
		assert.Equal(t, "42", swag.StringValue(complete.Salt))
		assert.Equal(t, int64(7), complete.MaxEpoch)
		assert.Equal(t, "https://accounts.google.com", complete.Issuer)
		assert.Equal(t, "1234567890", complete.Subject)
		require.NotNil(t, complete.PartialSignature)
		assert.NotEmpty(t, complete.PartialSignature.ProofPoints.PiA)
		assert.NotEmpty(t, complete.PartialSignature.AddressSeed)
		assert.NotEmpty(t, complete.PartialSignature.HeaderBase64)
		assert.NotEmpty(t, swag.StringValue(complete.EphemeralPrivateKey))

		// 会话单次使用：重复提交同一会话被拒绝
		res = test.PerformRequest(t, s, "POST", "/api/v1/zklogin/complete", &types.PostCompleteLoginPayload{
			SessionID: begin.SessionID,
			IDToken:   mintIDToken(t, swag.StringValue(begin.Nonce)),
		}, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestPostCompleteLoginFromRedirectURL(t *testing.T) {
	saltURL, proverURL, cleanup := stubUpstreams(t)
	defer cleanup()

	cfg := test.DefaultTestConfig()
	cfg.ZkLogin.SaltServiceURL = saltURL
	cfg.ZkLogin.ProverServiceURL = proverURL

	test.WithTestServerConfigurable(t, cfg, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/zklogin/begin", &types.PostBeginLoginPayload{
			Provider:     swag.String("google"),
			CurrentEpoch: swag.Int64(5),
		}, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var begin types.BeginLoginResponse
		test.ParseResponseBody(t, res, &begin)

		redirectURL := "http://localhost:8484/auth/callback#id_token=" + mintIDToken(t, swag.StringValue(begin.Nonce))

		res = test.PerformRequest(t, s, "POST", "/api/v1/zklogin/complete", &types.PostCompleteLoginPayload{
			SessionID:   begin.SessionID,
			RedirectURL: redirectURL,
		}, nil)
		assert.Equal(t, http.StatusOK, res.Code)
	})
}

func TestPostCompleteLoginNonceMismatch(t *testing.T) {
	saltURL, proverURL, cleanup := stubUpstreams(t)
	defer cleanup()

	cfg := test.DefaultTestConfig()
	cfg.ZkLogin.SaltServiceURL = saltURL
	cfg.ZkLogin.ProverServiceURL = proverURL

	test.WithTestServerConfigurable(t, cfg, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/zklogin/begin", &types.PostBeginLoginPayload{
			Provider:     swag.String("google"),
			CurrentEpoch: swag.Int64(5),
		}, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var begin types.BeginLoginResponse
		test.ParseResponseBody(t, res, &begin)

		res = test.PerformRequest(t, s, "POST", "/api/v1/zklogin/complete", &types.PostCompleteLoginPayload{
			SessionID: begin.SessionID,
			IDToken:   mintIDToken(t, "stale-nonce"),
		}, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestPostCompleteLoginUpstreamTimeout(t *testing.T) {
	// 盐注册服务不可达，complete 应映射为 502/504 且可重试
	cfg := test.DefaultTestConfig()
	cfg.ZkLogin.SaltServiceURL = "http://127.0.0.1:1"
	cfg.ZkLogin.ProverServiceURL = "http://127.0.0.1:1"

	test.WithTestServerConfigurable(t, cfg, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/zklogin/begin", &types.PostBeginLoginPayload{
			Provider:     swag.String("google"),
			CurrentEpoch: swag.Int64(5),
		}, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var begin types.BeginLoginResponse
		test.ParseResponseBody(t, res, &begin)

		res = test.PerformRequest(t, s, "POST", "/api/v1/zklogin/complete", &types.PostCompleteLoginPayload{
			SessionID: begin.SessionID,
			IDToken:   mintIDToken(t, swag.StringValue(begin.Nonce)),
		}, nil)
		assert.Contains(t, []int{http.StatusBadGateway, http.StatusGatewayTimeout}, res.Code)
	})
}

func TestPostCompleteLoginUnknownSession(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/zklogin/complete", &types.PostCompleteLoginPayload{
			SessionID: swag.String("no-such-session"),
			IDToken:   "header.payload.sig",
		}, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestPostCompleteLoginValidation(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		// session_id 必填，redirect_url 与 id_token 至少其一
		res := test.PerformRequest(t, s, "POST", "/api/v1/zklogin/complete", &types.PostCompleteLoginPayload{
			SessionID: swag.String("some-session"),
		}, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}
