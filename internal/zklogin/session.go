package zklogin

import (
	"math/big"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Session 一次登录尝试的聚合：临时密钥对、randomness、maxEpoch 与 nonce
// 构造后不可变，nonce 是 (publicKey, maxEpoch, randomness) 的纯函数
// 一次使用后即废弃，跨尝试复用会削弱单次 nonce 保证
type Session struct {
	ID         string
	Provider   string
	KeyPair    *EphemeralKeyPair
	Randomness *big.Int
	MaxEpoch   uint64
	Nonce      string
	CreatedAt  time.Time

	consumed atomic.Bool
}

// NewSession 为一次登录尝试创建会话
func NewSession(provider string, currentEpoch uint64) (*Session, error) {
	kp, err := GenerateEphemeralKeyPair()
	if err != nil {
		return nil, err
	}

	randomness, err := GenerateRandomness()
	if err != nil {
		return nil, err
	}

	maxEpoch := MaxEpoch(currentEpoch)

	nonce, err := ComputeNonce(kp.PublicKey, maxEpoch, randomness)
	if err != nil {
		return nil, err
	}

	return &Session{
		ID:         uuid.NewString(),
		Provider:   provider,
		KeyPair:    kp,
		Randomness: randomness,
		MaxEpoch:   maxEpoch,
		Nonce:      nonce,
		CreatedAt:  time.Now(),
	}, nil
}

// Consume 标记会话已使用，只允许成功一次
func (s *Session) Consume() error {
	if !s.consumed.CompareAndSwap(false, true) {
		return ErrSessionConsumed
	}
	return nil
}

// Consumed 会话是否已被使用
func (s *Session) Consumed() bool {
	return s.consumed.Load()
}
