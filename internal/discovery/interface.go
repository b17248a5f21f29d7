package discovery

import (
	"context"
)

// Resolver 将逻辑服务名解析为可用的基础 URL
type Resolver interface {
	// 解析服务基础 URL
	Resolve(ctx context.Context, serviceName string) (string, error)

	// 关闭连接
	Close() error
}
