package zklogin

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// State IdentityFlow 状态机状态
type State int

const (
	StateIdle State = iota
	StateAuthorizationRequested
	StateRedirectReceived
	StateTokenExtracted
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAuthorizationRequested:
		return "authorization_requested"
	case StateRedirectReceived:
		return "redirect_received"
	case StateTokenExtracted:
		return "token_extracted"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ProviderConfig 身份提供方的不可变配置，构造时注入
type ProviderConfig struct {
	Name              string
	ClientID          string
	AuthorizeEndpoint string
	RedirectURI       string
	Scopes            []string
}

// defaultScopes OAuth 请求的默认 scope
var defaultScopes = []string{"openid", "email", "profile"}

// LoginOptions 可选的 OAuth 透传参数
// 对 nonce 绑定没有安全语义，只影响提供方的交互行为
type LoginOptions struct {
	LoginHint string
	Prompt    string
}

// AuthorizeURL 构建隐式流程授权 URL，将 nonce 绑定到本次请求
func (p ProviderConfig) AuthorizeURL(nonce string, opts LoginOptions) (string, error) {
	base, err := url.Parse(p.AuthorizeEndpoint)
	if err != nil {
		return "", errors.Wrapf(err, "malformed authorize URL for provider %s", p.Name)
	}

	scopes := p.Scopes
	if len(scopes) == 0 {
		scopes = defaultScopes
	}

	q := base.Query()
	q.Set("client_id", p.ClientID)
	q.Set("response_type", "id_token")
	q.Set("redirect_uri", p.RedirectURI)
	q.Set("scope", strings.Join(scopes, " "))
	q.Set("nonce", nonce)
	if opts.LoginHint != "" {
		q.Set("login_hint", opts.LoginHint)
	}
	if opts.Prompt != "" {
		q.Set("prompt", opts.Prompt)
	}
	base.RawQuery = q.Encode()

	return base.String(), nil
}

// UserAgent 驱动交互式认证的用户代理
// Authenticate 阻塞直到提供方重定向回来或用户中止；中止时返回 ErrUserAborted
type UserAgent interface {
	Authenticate(ctx context.Context, authorizeURL string) (*url.URL, error)
}

// Flow 单次 OAuth 隐式流程的状态机
// 与其绑定的 nonce 一样只服务一次尝试，不可复用
type Flow struct {
	provider ProviderConfig
	agent    UserAgent
	state    State
}

// NewFlow 创建身份流程
func NewFlow(provider ProviderConfig, agent UserAgent) *Flow {
	return &Flow{
		provider: provider,
		agent:    agent,
		state:    StateIdle,
	}
}

// State 当前状态
func (f *Flow) State() State {
	return f.state
}

// Run 执行完整流程：构建授权 URL -> 交互式认证 -> 从重定向提取身份令牌
// 任何失败都会进入 Failed 状态；调用方必须用新会话从 Idle 重新开始
func (f *Flow) Run(ctx context.Context, nonce string, opts LoginOptions) (string, error) {
	if f.state != StateIdle {
		return "", errors.Errorf("identity flow already ran (state %s)", f.state)
	}

	authorizeURL, err := f.provider.AuthorizeURL(nonce, opts)
	if err != nil {
		f.state = StateFailed
		return "", &AuthenticationError{Stage: StageAuthorization, Reason: "failed to build authorize URL", Err: err}
	}
	f.state = StateAuthorizationRequested

	log.Debug().
		Str("provider", f.provider.Name).
		Str("state", f.state.String()).
		Msg("Launching interactive authentication")

	redirect, err := f.agent.Authenticate(ctx, authorizeURL)
	if err != nil {
		f.state = StateFailed
		if IsUserAborted(err) {
			return "", err
		}
		return "", &AuthenticationError{Stage: StageRedirect, Reason: "interactive authentication failed", Err: err}
	}
	f.state = StateRedirectReceived

	token, err := ExtractIDToken(redirect)
	if err != nil {
		f.state = StateFailed
		return "", err
	}
	f.state = StateTokenExtracted

	f.state = StateSucceeded
	return token, nil
}

// ExtractIDToken 把重定向 URI 的 fragment 按查询参数解析并取出身份令牌
func ExtractIDToken(redirect *url.URL) (string, error) {
	if redirect == nil {
		return "", &AuthenticationError{Stage: StageRedirect, Reason: "no redirect response"}
	}

	fragment := redirect.Fragment
	if fragment == "" {
		// 回环中继会把 fragment 转成查询参数送回
		fragment = redirect.RawQuery
	}

	values, err := url.ParseQuery(fragment)
	if err != nil {
		return "", &AuthenticationError{Stage: StageRedirect, Reason: "malformed redirect fragment", Err: err}
	}

	token := values.Get("id_token")
	if token == "" {
		return "", &AuthenticationError{Stage: StageToken, Reason: "redirect response missing id_token"}
	}

	return token, nil
}
