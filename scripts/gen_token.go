//go:build ignore

// 本地调试用：签发带指定 nonce 的测试身份令牌，配合 complete 接口手工联调
//
//	go run scripts/gen_token.go <nonce>
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	nonce := "test-nonce"
	if len(os.Args) > 1 {
		nonce = os.Args[1]
	}

	claims := jwt.MapClaims{
		"iss":   "https://accounts.google.com",
		"sub":   "1234567890",
		"aud":   "test-client-id",
		"nonce": nonce,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("local-dev-secret"))
	if err != nil {
		panic(err)
	}

	fmt.Println(signed)
}
