package zklogin

import (
	"crypto/ed25519"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateEphemeralKeyPairDistinct(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 32; i++ {
		kp, err := GenerateEphemeralKeyPair()
		require.NoError(t, err)
		require.Len(t, kp.PublicKey, ed25519.PublicKeySize)

		key := string(kp.PublicKey)
		assert.False(t, seen[key], "generated duplicate ephemeral key")
		seen[key] = true
	}
}

func TestGenerateRandomnessDistinct(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 32; i++ {
		r, err := GenerateRandomness()
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.True(t, r.Sign() >= 0)
		assert.LessOrEqual(t, r.BitLen(), randomnessSize*8)

		key := r.String()
		assert.False(t, seen[key], "generated duplicate randomness")
		seen[key] = true
	}
}

func TestExtendedBytes(t *testing.T) {
	kp, err := GenerateEphemeralKeyPair()
	require.NoError(t, err)

	ext := kp.ExtendedBytes()
	require.Len(t, ext, 1+ed25519.PublicKeySize)
	assert.Equal(t, byte(ed25519SchemeFlag), ext[0])
	assert.Equal(t, []byte(kp.PublicKey), ext[1:])
}

func TestPublicKeyDecimalRoundTrip(t *testing.T) {
	kp, err := GenerateEphemeralKeyPair()
	require.NoError(t, err)

	decimal, ok := new(big.Int).SetString(kp.PublicKeyDecimal(), 10)
	require.True(t, ok)

	// 十进制形式还原回 33 字节规范编码（scheme flag 为 0 的前导字节由 FillBytes 补齐）
	buf := make([]byte, 1+ed25519.PublicKeySize)
	decimal.FillBytes(buf)
	assert.Equal(t, kp.ExtendedBytes(), buf)
}
