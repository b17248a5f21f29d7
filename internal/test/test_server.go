package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/SafeMPC/zklogin-service/internal/api"
	"github.com/SafeMPC/zklogin-service/internal/config"
	"github.com/SafeMPC/zklogin-service/internal/util/command"
)

// DefaultTestConfig 测试用配置：内存会话、静态端点、google 提供方
func DefaultTestConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Logger.Level = "warn"
	cfg.Redis.Enabled = false
	cfg.Consul.Enabled = false
	cfg.ZkLogin.GoogleClientID = "test-client-id"

	return cfg
}

// WithTestServer 装配一个完整初始化、不监听端口的测试服务实例
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()
	WithTestServerConfigurable(t, DefaultTestConfig(), closure)
}

// WithTestServerConfigurable 同 WithTestServer，使用调用方给定的配置
func WithTestServerConfigurable(t *testing.T, cfg config.Server, closure func(s *api.Server)) {
	t.Helper()

	err := command.WithServer(context.Background(), cfg, func(_ context.Context, s *api.Server) error {
		closure(s)
		return nil
	})
	require.NoError(t, err)
}

// PerformRequest 对测试服务执行一次 HTTP 请求，body 非 nil 时按 JSON 编码
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body interface{}, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	return rec
}

// ParseResponseBody 解析 JSON 响应体
func ParseResponseBody(t *testing.T, res *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(res.Body).Decode(v))
}
