package discovery

import (
	"context"
	"fmt"

	"github.com/hashicorp/consul/api"
	"github.com/rs/zerolog/log"
)

// ConsulResolver Consul 实现的 Resolver，按健康实例解析服务地址
type ConsulResolver struct {
	client *api.Client
	config *api.Config
}

// NewConsulResolver 创建 Consul Resolver 实例
func NewConsulResolver(address string) (*ConsulResolver, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}

	return &ConsulResolver{
		client: client,
		config: config,
	}, nil
}

// Resolve 发现健康的服务实例并返回第一个实例的基础 URL
// 实例可通过 Meta["scheme"] 指定协议，默认 http
func (r *ConsulResolver) Resolve(ctx context.Context, serviceName string) (string, error) {
	services, _, err := r.client.Health().Service(serviceName, "", true, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to discover service %s: %w", serviceName, err)
	}

	if len(services) == 0 {
		return "", fmt.Errorf("no healthy instances for service %s", serviceName)
	}

	entry := services[0].Service

	scheme := "http"
	if s, ok := entry.Meta["scheme"]; ok && s != "" {
		scheme = s
	}

	address := entry.Address
	if address == "" {
		address = services[0].Node.Address
	}

	endpoint := fmt.Sprintf("%s://%s:%d", scheme, address, entry.Port)
	if path, ok := entry.Meta["path"]; ok && path != "" {
		endpoint += path
	}

	log.Debug().
		Str("service_name", serviceName).
		Str("endpoint", endpoint).
		Int("healthy_instances", len(services)).
		Msg("Service discovery completed")

	return endpoint, nil
}

// Close 关闭Consul连接
func (r *ConsulResolver) Close() error {
	// Consul客户端通常不需要显式关闭
	return nil
}
