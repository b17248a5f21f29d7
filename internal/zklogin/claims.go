package zklogin

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims 身份令牌中流水线关心的声明
// 令牌本身保持未验证状态，签名验证交给证明电路与链上验证方
type TokenClaims struct {
	Issuer   string
	Subject  string
	Audience string
	Nonce    string
	Email    string
}

// ParseTokenClaims 从身份令牌提取声明（不验证签名）
func ParseTokenClaims(idToken string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return nil, &AuthenticationError{Stage: StageToken, Reason: "malformed identity token", Err: err}
	}

	out := &TokenClaims{}
	if iss, ok := claims["iss"].(string); ok {
		out.Issuer = iss
	}
	if sub, ok := claims["sub"].(string); ok {
		out.Subject = sub
	}
	if nonce, ok := claims["nonce"].(string); ok {
		out.Nonce = nonce
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}

	switch aud := claims["aud"].(type) {
	case string:
		out.Audience = aud
	case []interface{}:
		if len(aud) > 0 {
			if first, ok := aud[0].(string); ok {
				out.Audience = first
			}
		}
	}

	if out.Issuer == "" || out.Subject == "" {
		return nil, &AuthenticationError{Stage: StageToken, Reason: "identity token missing issuer or subject claim"}
	}

	return out, nil
}

// CacheKey 盐缓存键：对 (iss, aud, sub) 做摘要，令牌的易变声明不参与
func (c *TokenClaims) CacheKey() string {
	h := sha256.New()
	h.Write([]byte(c.Issuer))
	h.Write([]byte{0})
	h.Write([]byte(c.Audience))
	h.Write([]byte{0})
	h.Write([]byte(c.Subject))
	return hex.EncodeToString(h.Sum(nil))
}
