package discovery

import (
	"context"
	"fmt"
)

// StaticResolver 静态 URL 映射实现的 Resolver，未启用服务发现时使用
type StaticResolver struct {
	endpoints map[string]string
}

// NewStaticResolver 创建静态 Resolver
func NewStaticResolver(endpoints map[string]string) *StaticResolver {
	cloned := make(map[string]string, len(endpoints))
	for name, endpoint := range endpoints {
		cloned[name] = endpoint
	}

	return &StaticResolver{endpoints: cloned}
}

// Resolve 查静态映射
func (r *StaticResolver) Resolve(ctx context.Context, serviceName string) (string, error) {
	endpoint, ok := r.endpoints[serviceName]
	if !ok || endpoint == "" {
		return "", fmt.Errorf("no endpoint configured for service %s", serviceName)
	}

	return endpoint, nil
}

// Close 无连接可关
func (r *StaticResolver) Close() error {
	return nil
}
