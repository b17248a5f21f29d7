package zklogin

import (
	"errors"
	"fmt"
)

// Stage 标识登录尝试失败发生的阶段
type Stage string

const (
	StageEphemeralKey  Stage = "ephemeral_key"
	StageAuthorization Stage = "authorization"
	StageRedirect      Stage = "redirect"
	StageToken         Stage = "token"
	StageSalt          Stage = "salt"
	StageProof         Stage = "proof"
)

// ErrUserAborted 用户主动中断了交互式认证，调用方可用新会话重新发起
var ErrUserAborted = errors.New("user aborted interactive authentication")

// ErrSessionConsumed 会话只允许使用一次
var ErrSessionConsumed = errors.New("login session already consumed")

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("login session not found")

// ErrUnknownProvider 请求了未配置的身份提供方
var ErrUnknownProvider = errors.New("unknown identity provider")

// EntropyError 熵源耗尽，本地不可恢复
type EntropyError struct {
	Err error
}

func (e *EntropyError) Error() string {
	return fmt.Sprintf("entropy source failure: %v", e.Err)
}

func (e *EntropyError) Unwrap() error {
	return e.Err
}

// AuthenticationError 身份流程在某个阶段失败（重定向缺字段、令牌缺失或格式错误等）
// 可通过新会话重新发起登录恢复
type AuthenticationError struct {
	Stage  Stage
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed at stage %s: %s: %v", e.Stage, e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed at stage %s: %s", e.Stage, e.Reason)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// NetworkError 外部服务传输失败，瞬态，可用同一令牌重试
type NetworkError struct {
	Service string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure calling %s: %v", e.Service, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TimeoutError 外部服务在限定时间内未响应，瞬态，可用同一令牌重试
type TimeoutError struct {
	Service string
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout calling %s: %v", e.Service, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// ServiceError 外部服务返回了格式合法但内容无效的响应
// 原样透出给调用方做诊断，不自动重试
type ServiceError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("service %s returned invalid response (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("service %s returned invalid response: %s", e.Service, e.Message)
}

// IsRetryable 判断错误是否可以不重跑交互式流程直接重试
func IsRetryable(err error) bool {
	var netErr *NetworkError
	var timeoutErr *TimeoutError
	return errors.As(err, &netErr) || errors.As(err, &timeoutErr)
}

// IsUserAborted 判断错误是否源自用户中断
func IsUserAborted(err error) bool {
	return errors.Is(err, ErrUserAborted)
}
