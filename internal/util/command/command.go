package command

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/SafeMPC/zklogin-service/internal/api"
	"github.com/SafeMPC/zklogin-service/internal/api/router"
	"github.com/SafeMPC/zklogin-service/internal/config"
)

// NewSubcommandGroup 创建只承载子命令的分组命令
func NewSubcommandGroup(use string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use: use,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	cmd.AddCommand(subcommands...)

	return cmd
}

// WithServer 装配一个完整初始化的服务实例并交给回调使用，返回时关停
// 用于一次性命令与测试，不启动 HTTP 监听
func WithServer(ctx context.Context, cfg config.Server, fn func(ctx context.Context, s *api.Server) error) error {
	s := api.NewServer(cfg)

	if err := s.InitComponents(); err != nil {
		return err
	}
	router.Init(s)

	defer func() {
		_ = s.Shutdown(context.Background())
	}()

	return fn(ctx, s)
}
