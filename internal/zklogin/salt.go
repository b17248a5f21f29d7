package zklogin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/SafeMPC/zklogin-service/internal/discovery"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const saltServiceName = "salt-registry"

// SaltResolver 将身份令牌兑换为稳定的用户盐值
// 盐值对同一 (用户, 提供方) 必须跨登录保持不变，否则派生地址会漂移
type SaltResolver interface {
	ResolveSalt(ctx context.Context, idToken string) (*big.Int, error)
}

// SaltResolverConfig 盐注册服务客户端配置
type SaltResolverConfig struct {
	// 静态端点，Resolver 为 nil 时使用
	Endpoint string

	// 可选的服务发现
	Resolver    discovery.Resolver
	ServiceName string

	// 单次请求超时
	Timeout time.Duration

	// 可选的盐缓存，按 (iss, aud, sub) 摘要缓存
	Cache    *redis.Client
	CacheTTL time.Duration
}

// RegistrySaltResolver 调用外部盐注册服务的 SaltResolver 实现
type RegistrySaltResolver struct {
	cfg    SaltResolverConfig
	client *http.Client
}

// NewRegistrySaltResolver 创建盐注册服务客户端
func NewRegistrySaltResolver(cfg SaltResolverConfig) *RegistrySaltResolver {
	if cfg.ServiceName == "" {
		cfg.ServiceName = saltServiceName
	}

	return &RegistrySaltResolver{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type saltRequest struct {
	Token string `json:"token"`
}

type saltResponse struct {
	Salt string `json:"salt"`
}

// ResolveSalt 单次请求/响应兑换盐值
// NetworkError/TimeoutError 可重试，ServiceError 需要新令牌或人工介入
func (r *RegistrySaltResolver) ResolveSalt(ctx context.Context, idToken string) (*big.Int, error) {
	claims, err := ParseTokenClaims(idToken)
	if err != nil {
		return nil, err
	}

	cacheKey := "zklogin:salt:" + claims.CacheKey()
	if r.cfg.Cache != nil {
		if cached, err := r.cfg.Cache.Get(ctx, cacheKey).Result(); err == nil {
			if salt, ok := new(big.Int).SetString(cached, 10); ok {
				log.Debug().Str("issuer", claims.Issuer).Msg("Salt served from cache")
				return salt, nil
			}
		}
	}

	endpoint := r.cfg.Endpoint
	if r.cfg.Resolver != nil {
		endpoint, err = r.cfg.Resolver.Resolve(ctx, r.cfg.ServiceName)
		if err != nil {
			return nil, &NetworkError{Service: saltServiceName, Err: err}
		}
	}

	body, err := json.Marshal(&saltRequest{Token: idToken})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal salt request")
	}

	reqCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create salt request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(saltServiceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ServiceError{Service: saltServiceName, StatusCode: resp.StatusCode, Message: string(msg)}
	}

	var saltResp saltResponse
	if err := json.NewDecoder(resp.Body).Decode(&saltResp); err != nil {
		return nil, &ServiceError{Service: saltServiceName, StatusCode: resp.StatusCode, Message: "malformed response body: " + err.Error()}
	}

	if saltResp.Salt == "" {
		return nil, &ServiceError{Service: saltServiceName, StatusCode: resp.StatusCode, Message: "response missing salt field"}
	}

	salt, ok := new(big.Int).SetString(saltResp.Salt, 10)
	if !ok || salt.Sign() < 0 {
		return nil, &ServiceError{Service: saltServiceName, StatusCode: resp.StatusCode, Message: "salt is not a non-negative decimal integer"}
	}

	if r.cfg.Cache != nil {
		if err := r.cfg.Cache.Set(ctx, cacheKey, salt.String(), r.cfg.CacheTTL).Err(); err != nil {
			log.Warn().Err(err).Msg("Failed to cache user salt")
		}
	}

	log.Debug().Str("issuer", claims.Issuer).Msg("Salt resolved from registry")

	return salt, nil
}
