package zklogin

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIDToken(t *testing.T) string {
	t.Helper()

	return mintIDToken(t, jwt.MapClaims{
		"iss":   "https://accounts.google.com",
		"sub":   "1234567890",
		"aud":   "test-client-id",
		"nonce": "abc123",
	})
}

func TestResolveSaltSuccess(t *testing.T) {
	var requests int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)

		var req saltRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Token)

		_ = json.NewEncoder(w).Encode(&saltResponse{Salt: "129390038577185583942388216820280642146"})
	}))
	defer server.Close()

	resolver := NewRegistrySaltResolver(SaltResolverConfig{
		Endpoint: server.URL,
		Timeout:  5 * time.Second,
	})

	salt, err := resolver.ResolveSalt(context.Background(), testIDToken(t))
	require.NoError(t, err)

	expected, _ := new(big.Int).SetString("129390038577185583942388216820280642146", 10)
	assert.Zero(t, expected.Cmp(salt))
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestResolveSaltCached(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&requests, 1)
		_ = json.NewEncoder(w).Encode(&saltResponse{Salt: "42"})
	}))
	defer server.Close()

	resolver := NewRegistrySaltResolver(SaltResolverConfig{
		Endpoint: server.URL,
		Timeout:  5 * time.Second,
		Cache:    cache,
		CacheTTL: time.Hour,
	})

	idToken := testIDToken(t)

	first, err := resolver.ResolveSalt(context.Background(), idToken)
	require.NoError(t, err)

	second, err := resolver.ResolveSalt(context.Background(), idToken)
	require.NoError(t, err)

	assert.Zero(t, first.Cmp(second))
	// 第二次命中缓存，注册服务只被访问一次
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestResolveSaltUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal failure", http.StatusInternalServerError)
	}))
	defer server.Close()

	resolver := NewRegistrySaltResolver(SaltResolverConfig{
		Endpoint: server.URL,
		Timeout:  5 * time.Second,
	})

	_, err := resolver.ResolveSalt(context.Background(), testIDToken(t))
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusInternalServerError, svcErr.StatusCode)
	assert.False(t, IsRetryable(err))
}

func TestResolveSaltMalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing salt field", `{}`},
		{"non decimal salt", `{"salt": "0xdeadbeef"}`},
		{"negative salt", `{"salt": "-5"}`},
		{"invalid json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			resolver := NewRegistrySaltResolver(SaltResolverConfig{
				Endpoint: server.URL,
				Timeout:  5 * time.Second,
			})

			_, err := resolver.ResolveSalt(context.Background(), testIDToken(t))
			require.Error(t, err)

			var svcErr *ServiceError
			assert.ErrorAs(t, err, &svcErr)
		})
	}
}

func TestResolveSaltTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(&saltResponse{Salt: "42"})
	}))
	defer server.Close()

	resolver := NewRegistrySaltResolver(SaltResolverConfig{
		Endpoint: server.URL,
		Timeout:  20 * time.Millisecond,
	})

	_, err := resolver.ResolveSalt(context.Background(), testIDToken(t))
	require.Error(t, err)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.True(t, IsRetryable(err))
}

func TestResolveSaltUnreachable(t *testing.T) {
	resolver := NewRegistrySaltResolver(SaltResolverConfig{
		// 保留地址，连接必然被拒绝
		Endpoint: "http://127.0.0.1:1",
		Timeout:  time.Second,
	})

	_, err := resolver.ResolveSalt(context.Background(), testIDToken(t))
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
}
