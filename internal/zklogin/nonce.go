package zklogin

import (
	"crypto/ed25519"
	"encoding/base64"
	"math/big"

	"github.com/iden3/go-iden3-crypto/poseidon"
	"github.com/pkg/errors"
)

// EpochLookahead 临时密钥有效窗口：maxEpoch = currentEpoch + EpochLookahead
const EpochLookahead = 2

// nonce 取 poseidon 输出的低 160 位（20 字节）
const nonceByteLength = 20

// MaxEpoch 计算临时密钥的过期 epoch
func MaxEpoch(currentEpoch uint64) uint64 {
	return currentEpoch + EpochLookahead
}

// ComputeNonce 由临时公钥、过期 epoch 和 randomness 确定性地派生单次 nonce
//
// 规范编码后的公钥按大端整数拆成高低两个域元素，与 maxEpoch、randomness 一起
// 送入 poseidon，输出取低 160 位做 base64url。同样输入必得同样 nonce；
// 任一输入变化则 nonce 失效，需要新会话。
func ComputeNonce(publicKey ed25519.PublicKey, maxEpoch uint64, randomness *big.Int) (string, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return "", errors.Errorf("malformed ephemeral public key: got %d bytes, want %d", len(publicKey), ed25519.PublicKeySize)
	}
	if randomness == nil || randomness.Sign() < 0 {
		return "", errors.New("malformed randomness: must be a non-negative integer")
	}

	kp := &EphemeralKeyPair{PublicKey: publicKey}
	pk := new(big.Int).SetBytes(kp.ExtendedBytes())

	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	pkHigh := new(big.Int).Rsh(pk, 128)
	pkLow := new(big.Int).And(pk, mask)

	digest, err := poseidon.Hash([]*big.Int{
		pkHigh,
		pkLow,
		new(big.Int).SetUint64(maxEpoch),
		randomness,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to compute poseidon digest")
	}

	nonceMask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), nonceByteLength*8), big.NewInt(1))
	reduced := new(big.Int).And(digest, nonceMask)

	buf := make([]byte, nonceByteLength)
	reduced.FillBytes(buf)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
