package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/SafeMPC/zklogin-service/internal/config"
	"github.com/SafeMPC/zklogin-service/internal/discovery"
	"github.com/SafeMPC/zklogin-service/internal/zklogin"
)

// Router 路由分组，初始化后由各 handler 挂载路由
type Router struct {
	Routes []*echo.Route

	Root         *echo.Group
	APIV1ZkLogin *echo.Group
}

// Server 聚合服务的全部组件，按配置初始化一次后只读
type Server struct {
	Config   config.Server
	Echo     *echo.Echo
	Router   *Router
	Redis    *redis.Client
	Resolver discovery.Resolver
	ZkLogin  *zklogin.Service
}

// NewServer 创建未初始化的服务实例
func NewServer(cfg config.Server) *Server {
	return &Server{
		Config: cfg,
	}
}

// Ready 所有组件是否就绪
func (s *Server) Ready() bool {
	return s.Echo != nil && s.Router != nil && s.ZkLogin != nil
}

// InitComponents 按配置装配 redis、服务发现与 zkLogin 流水线
func (s *Server) InitComponents() error {
	if s.Config.Redis.Enabled {
		opts, err := redis.ParseURL(s.Config.Redis.URL)
		if err != nil {
			return errors.Wrap(err, "failed to parse redis URL")
		}
		s.Redis = redis.NewClient(opts)

		log.Info().Str("url", s.Config.Redis.URL).Msg("Salt cache enabled")
	}

	if s.Config.Consul.Enabled {
		resolver, err := discovery.NewConsulResolver(s.Config.Consul.Address)
		if err != nil {
			return errors.Wrap(err, "failed to init consul resolver")
		}
		s.Resolver = resolver

		log.Info().Str("address", s.Config.Consul.Address).Msg("Consul service discovery enabled")
	} else {
		// 未启用 Consul 时用配置里的静态端点走同一条解析路径
		s.Resolver = discovery.NewStaticResolver(map[string]string{
			s.Config.Consul.SaltServiceName:   s.Config.ZkLogin.SaltServiceURL,
			s.Config.Consul.ProverServiceName: s.Config.ZkLogin.ProverServiceURL,
		})
	}

	saltResolver := zklogin.NewRegistrySaltResolver(zklogin.SaltResolverConfig{
		Endpoint:    s.Config.ZkLogin.SaltServiceURL,
		Resolver:    s.Resolver,
		ServiceName: s.Config.Consul.SaltServiceName,
		Timeout:     s.Config.ZkLogin.RequestTimeout,
		Cache:       s.Redis,
		CacheTTL:    s.Config.Redis.SaltCacheTTL,
	})

	prover := zklogin.NewProverAssembler(zklogin.ProverConfig{
		Endpoint:    s.Config.ZkLogin.ProverServiceURL,
		Resolver:    s.Resolver,
		ServiceName: s.Config.Consul.ProverServiceName,
		Timeout:     s.Config.ZkLogin.RequestTimeout,
	})

	providers := make(map[string]zklogin.ProviderConfig)
	for name, p := range s.Config.ZkLogin.Providers() {
		providers[name] = zklogin.ProviderConfig{
			Name:              name,
			ClientID:          p.ClientID,
			AuthorizeEndpoint: p.AuthorizeURL,
			RedirectURI:       s.Config.ZkLogin.RedirectURI,
		}
	}

	// 服务端模式不配置交互式 agent，交互由宿主（前端或 CLI）驱动
	s.ZkLogin = zklogin.NewService(
		providers,
		saltResolver,
		prover,
		nil,
		s.Config.ZkLogin.SessionTTL,
		s.Config.ZkLogin.DefaultKeyClaim,
	)

	return nil
}

// Start 启动 HTTP 监听，阻塞直到出错或 Shutdown
func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	return s.Echo.Start(s.Config.Echo.ListenAddress)
}

// Shutdown 优雅关停，释放 redis 与服务发现连接
func (s *Server) Shutdown(ctx context.Context) error {
	log.Warn().Msg("Shutting down server")

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close redis client")
		}
	}

	if s.Resolver != nil {
		if err := s.Resolver.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close service discovery resolver")
		}
	}

	if s.Echo != nil {
		return s.Echo.Shutdown(ctx)
	}

	return nil
}
