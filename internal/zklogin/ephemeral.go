package zklogin

import (
	"crypto/ed25519"
	"crypto/rand"
	"math/big"
)

// 临时公钥的规范编码为 flag || 原始公钥，ed25519 的 scheme flag 为 0x00
const ed25519SchemeFlag = 0x00

// randomness 至少 128 位
const randomnessSize = 16

// EphemeralKeyPair 单次登录尝试专用的临时签名密钥对，不做长期持久化
type EphemeralKeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// GenerateEphemeralKeyPair 生成全新的临时密钥对
// 唯一的失败模式是熵源耗尽
func GenerateEphemeralKeyPair() (*EphemeralKeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, &EntropyError{Err: err}
	}

	return &EphemeralKeyPair{
		PublicKey:  pub,
		PrivateKey: priv,
	}, nil
}

// GenerateRandomness 生成独立的 128 位 JWT randomness
func GenerateRandomness() (*big.Int, error) {
	buf := make([]byte, randomnessSize)
	if _, err := rand.Read(buf); err != nil {
		return nil, &EntropyError{Err: err}
	}

	return new(big.Int).SetBytes(buf), nil
}

// ExtendedBytes 返回临时公钥的规范字节编码（flag || 公钥，共 33 字节）
func (kp *EphemeralKeyPair) ExtendedBytes() []byte {
	out := make([]byte, 0, 1+ed25519.PublicKeySize)
	out = append(out, ed25519SchemeFlag)
	out = append(out, kp.PublicKey...)
	return out
}

// PublicKeyDecimal 返回规范编码按大端无符号整数解读的十进制字符串
// 证明电路在整数域上工作，请求序列化必须使用该形式而非原始字节
func (kp *EphemeralKeyPair) PublicKeyDecimal() string {
	return new(big.Int).SetBytes(kp.ExtendedBytes()).String()
}
