package util

import (
	"context"

	"github.com/rs/zerolog"
)

// LogFromContext 返回请求作用域的 logger
// 中间件未注入时返回全局禁用的 logger，调用方无需判空
func LogFromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
