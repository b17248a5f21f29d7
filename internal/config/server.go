package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

// EchoServer echo 服务配置
type EchoServer struct {
	ListenAddress                  string `env:"SERVER_ECHO_LISTEN_ADDRESS" envDefault:":8080"`
	HideInternalServerErrorDetails bool   `env:"SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS" envDefault:"true"`
	GracefulShutdownTimeout        time.Duration `env:"SERVER_ECHO_GRACEFUL_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Logger 日志配置
type Logger struct {
	Level              string `env:"SERVER_LOGGER_LEVEL" envDefault:"info"`
	PrettyPrintConsole bool   `env:"SERVER_LOGGER_PRETTY_PRINT_CONSOLE" envDefault:"false"`
}

// Provider 单个身份提供方的不可变配置
// 按 provider key (google/twitch/facebook) 注入 IdentityFlow，不使用全局可变状态
type Provider struct {
	ClientID     string
	AuthorizeURL string
}

// ZkLogin zkLogin 凭证派生流水线配置
type ZkLogin struct {
	RedirectURI       string        `env:"SERVER_ZKLOGIN_REDIRECT_URI" envDefault:"http://localhost:8484/auth/callback"`
	SaltServiceURL    string        `env:"SERVER_ZKLOGIN_SALT_SERVICE_URL" envDefault:"http://localhost:5001/get_salt"`
	ProverServiceURL  string        `env:"SERVER_ZKLOGIN_PROVER_SERVICE_URL" envDefault:"http://localhost:5002/v1"`
	RequestTimeout    time.Duration `env:"SERVER_ZKLOGIN_REQUEST_TIMEOUT" envDefault:"30s"`
	SessionTTL        time.Duration `env:"SERVER_ZKLOGIN_SESSION_TTL" envDefault:"10m"`
	DefaultKeyClaim   string        `env:"SERVER_ZKLOGIN_DEFAULT_KEY_CLAIM" envDefault:"sub"`
	GoogleClientID    string        `env:"SERVER_ZKLOGIN_GOOGLE_CLIENT_ID"`
	TwitchClientID    string        `env:"SERVER_ZKLOGIN_TWITCH_CLIENT_ID"`
	FacebookClientID  string        `env:"SERVER_ZKLOGIN_FACEBOOK_CLIENT_ID"`
}

// Providers 构建 provider -> 配置 的不可变映射
// 只包含配置了 client id 的提供方
func (z ZkLogin) Providers() map[string]Provider {
	providers := make(map[string]Provider)

	if z.GoogleClientID != "" {
		providers["google"] = Provider{
			ClientID:     z.GoogleClientID,
			AuthorizeURL: "https://accounts.google.com/o/oauth2/v2/auth",
		}
	}
	if z.TwitchClientID != "" {
		providers["twitch"] = Provider{
			ClientID:     z.TwitchClientID,
			AuthorizeURL: "https://id.twitch.tv/oauth2/authorize",
		}
	}
	if z.FacebookClientID != "" {
		providers["facebook"] = Provider{
			ClientID:     z.FacebookClientID,
			AuthorizeURL: "https://www.facebook.com/v17.0/dialog/oauth",
		}
	}

	return providers
}

// Redis salt 缓存配置（可选）
type Redis struct {
	Enabled      bool          `env:"SERVER_REDIS_ENABLED" envDefault:"false"`
	URL          string        `env:"SERVER_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SaltCacheTTL time.Duration `env:"SERVER_REDIS_SALT_CACHE_TTL" envDefault:"24h"`
}

// Consul 服务发现配置（可选，未启用时使用静态 URL）
type Consul struct {
	Enabled           bool   `env:"SERVER_CONSUL_ENABLED" envDefault:"false"`
	Address           string `env:"SERVER_CONSUL_ADDRESS" envDefault:"127.0.0.1:8500"`
	SaltServiceName   string `env:"SERVER_CONSUL_SALT_SERVICE_NAME" envDefault:"zklogin-salt"`
	ProverServiceName string `env:"SERVER_CONSUL_PROVER_SERVICE_NAME" envDefault:"zklogin-prover"`
}

// Server 服务全量配置，启动时从环境变量解析一次，之后只读
type Server struct {
	Echo    EchoServer
	Logger  Logger
	ZkLogin ZkLogin
	Redis   Redis
	Consul  Consul
}

// DefaultServiceConfigFromEnv 从环境变量解析服务配置
func DefaultServiceConfigFromEnv() Server {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse server config from env")
	}

	return cfg
}
