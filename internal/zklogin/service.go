package zklogin

import (
	"context"
	"math/big"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// LoginResult 一次成功登录的产物
// 部分签名与临时密钥对一起交给下游交易签名方；两者缺一不可
type LoginResult struct {
	Session          *Session
	Claims           *TokenClaims
	Salt             *big.Int
	PartialSignature *PartialSignature
	Address          string
}

// Service zkLogin 凭证派生流水线的编排入口
//
// 每次登录尝试独立持有自己的会话，尝试之间没有共享可变状态；
// 多个尝试可以并行在途，互不阻塞
type Service struct {
	providers    map[string]ProviderConfig
	salt         SaltResolver
	prover       ProofAssembler
	agent        UserAgent
	sessions     *Store
	keyClaimName string
}

// NewService 创建编排服务
// agent 可为 nil（宿主自行驱动用户代理，只用 BeginLogin/CompleteLogin）
func NewService(
	providers map[string]ProviderConfig,
	salt SaltResolver,
	prover ProofAssembler,
	agent UserAgent,
	sessionTTL time.Duration,
	keyClaimName string,
) *Service {
	if keyClaimName == "" {
		keyClaimName = "sub"
	}

	return &Service{
		providers:    providers,
		salt:         salt,
		prover:       prover,
		agent:        agent,
		sessions:     NewStore(sessionTTL),
		keyClaimName: keyClaimName,
	}
}

// BeginLogin 创建登录会话并返回绑定 nonce 的授权 URL
// 宿主负责驱动用户代理完成交互，之后调用 CompleteLogin
func (s *Service) BeginLogin(ctx context.Context, provider string, currentEpoch uint64, opts LoginOptions) (*Session, string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, "", errors.Wrapf(ErrUnknownProvider, "provider %q", provider)
	}

	session, err := NewSession(provider, currentEpoch)
	if err != nil {
		return nil, "", err
	}

	authorizeURL, err := p.AuthorizeURL(session.Nonce, opts)
	if err != nil {
		return nil, "", &AuthenticationError{Stage: StageAuthorization, Reason: "failed to build authorize URL", Err: err}
	}

	s.sessions.Put(session)

	log.Info().
		Str("session_id", session.ID).
		Str("provider", provider).
		Uint64("max_epoch", session.MaxEpoch).
		Msg("Login session created")

	return session, authorizeURL, nil
}

// GetSession 查询在途会话
func (s *Service) GetSession(id string) (*Session, error) {
	return s.sessions.Get(id)
}

// CompleteLogin 消费会话：校验令牌的 nonce 绑定后完成盐解析与证明装配
// 会话只允许完成一次，无论结果如何都会从注册表移除
func (s *Service) CompleteLogin(ctx context.Context, sessionID string, idToken string) (*LoginResult, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.Consume(); err != nil {
		return nil, err
	}
	defer s.sessions.Delete(sessionID)

	return s.finish(ctx, session, idToken)
}

// Login 驱动完整的交互式登录（CLI 模式）
func (s *Service) Login(ctx context.Context, provider string, currentEpoch uint64, opts LoginOptions) (*LoginResult, error) {
	if s.agent == nil {
		return nil, errors.New("no interactive user agent configured")
	}

	p, ok := s.providers[provider]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownProvider, "provider %q", provider)
	}

	session, err := NewSession(provider, currentEpoch)
	if err != nil {
		return nil, err
	}

	flow := NewFlow(p, s.agent)
	idToken, err := flow.Run(ctx, session.Nonce, opts)
	if err != nil {
		// 认证失败不得继续装配签名
		return nil, err
	}

	if err := session.Consume(); err != nil {
		return nil, err
	}

	return s.finish(ctx, session, idToken)
}

// finish 盐解析与证明装配并发执行，两者都成功登录才算完成
//
// 证明请求以盐值为输入，对应任务先在组内等待盐任务的结果；
// 第一个失败会取消组上下文，另一个在途调用随之收敛，不泄漏资源。
// 部分成功（只有盐或只有证明）不会暴露给调用方。
func (s *Service) finish(ctx context.Context, session *Session, idToken string) (*LoginResult, error) {
	claims, err := ParseTokenClaims(idToken)
	if err != nil {
		return nil, err
	}

	// nonce 绑定校验：令牌必须是为本会话的 nonce 签发的
	if claims.Nonce != session.Nonce {
		return nil, &AuthenticationError{Stage: StageToken, Reason: "token nonce does not match session nonce"}
	}

	g, gctx := errgroup.WithContext(ctx)
	saltCh := make(chan *big.Int, 1)

	var salt *big.Int
	var sig *PartialSignature

	g.Go(func() error {
		resolved, err := s.salt.ResolveSalt(gctx, idToken)
		if err != nil {
			return err
		}
		salt = resolved
		saltCh <- resolved
		return nil
	})

	g.Go(func() error {
		var resolved *big.Int
		select {
		case resolved = <-saltCh:
		case <-gctx.Done():
			return gctx.Err()
		}

		assembled, err := s.prover.AssembleProof(gctx, session, idToken, resolved, s.keyClaimName)
		if err != nil {
			return err
		}
		sig = assembled
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Info().
			Err(err).
			Str("session_id", session.ID).
			Msg("Login attempt failed")
		return nil, err
	}

	seed, ok := new(big.Int).SetString(sig.AddressSeed, 10)
	if !ok {
		return nil, &ServiceError{Service: proverServiceName, Message: "address_seed is not a decimal integer"}
	}

	address, err := DeriveAddress(claims.Issuer, seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive address")
	}

	log.Info().
		Str("session_id", session.ID).
		Str("provider", session.Provider).
		Str("address", address).
		Msg("Login completed")

	return &LoginResult{
		Session:          session,
		Claims:           claims,
		Salt:             salt,
		PartialSignature: sig,
		Address:          address,
	}, nil
}
