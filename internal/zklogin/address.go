package zklogin

import (
	"encoding/hex"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// zkLogin 地址的 scheme flag
const zkLoginAddressFlag = 0x05

// DeriveAddress 由 issuer 与 address seed 确定性地派生链上地址
//
// address = 0x || blake2b256(flag || len(iss) || iss || seed_32)
// 盐值参与了 seed 的派生，因此地址与令牌的易变声明无关
func DeriveAddress(issuer string, addressSeed *big.Int) (string, error) {
	if issuer == "" {
		return "", errors.New("issuer is required for address derivation")
	}
	if len(issuer) > 255 {
		return "", errors.Errorf("issuer too long: %d bytes", len(issuer))
	}
	if addressSeed == nil || addressSeed.Sign() < 0 || addressSeed.BitLen() > 256 {
		return "", errors.New("address seed must be a non-negative integer of at most 256 bits")
	}

	seed := make([]byte, 32)
	addressSeed.FillBytes(seed)

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create blake2b hasher")
	}

	h.Write([]byte{zkLoginAddressFlag})
	h.Write([]byte{byte(len(issuer))})
	h.Write([]byte(issuer))
	h.Write(seed)

	return "0x" + hex.EncodeToString(h.Sum(nil)), nil
}
