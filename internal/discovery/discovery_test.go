package discovery

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticResolver(t *testing.T) {
	resolver := NewStaticResolver(map[string]string{
		"zklogin-salt":   "http://localhost:5001/get_salt",
		"zklogin-prover": "http://localhost:5002/v1",
	})
	defer resolver.Close()

	endpoint, err := resolver.Resolve(context.Background(), "zklogin-salt")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5001/get_salt", endpoint)

	_, err = resolver.Resolve(context.Background(), "unknown-service")
	assert.Error(t, err)
}

func TestConsulResolver(t *testing.T) {
	addr := os.Getenv("CONSUL_HTTP_ADDR")
	if addr == "" {
		t.Skip("CONSUL_HTTP_ADDR not set")
	}

	resolver, err := NewConsulResolver(addr)
	require.NoError(t, err)
	defer resolver.Close()

	_, err = resolver.Resolve(context.Background(), "zklogin-salt")
	// 服务未注册也算联通性验证通过，只要不是客户端装配错误
	t.Logf("resolve result: %v", err)
}
