package types

import (
	"context"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"

	"github.com/SafeMPC/zklogin-service/internal/zklogin"
)

// PostBeginLoginPayload 开始登录请求
type PostBeginLoginPayload struct {
	Provider     *string `json:"provider"`
	CurrentEpoch *int64  `json:"current_epoch"`
	LoginHint    string  `json:"login_hint,omitempty"`
	Prompt       string  `json:"prompt,omitempty"`
}

// Validate validates PostBeginLoginPayload
func (m *PostBeginLoginPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.RequiredString("provider", "body", swag.StringValue(m.Provider)); err != nil {
		res = append(res, err)
	}

	if m.CurrentEpoch == nil {
		res = append(res, errors.Required("current_epoch", "body", m.CurrentEpoch))
	} else if *m.CurrentEpoch < 0 {
		res = append(res, errors.New(422, "current_epoch must be >= 0"))
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this payload based on context it is used
func (m *PostBeginLoginPayload) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// BeginLoginResponse 开始登录响应
type BeginLoginResponse struct {
	SessionID          *string `json:"session_id"`
	AuthorizeURL       *string `json:"authorize_url"`
	Nonce              *string `json:"nonce"`
	MaxEpoch           int64   `json:"max_epoch"`
	EphemeralPublicKey *string `json:"ephemeral_public_key"` // hex
}

// Validate validates BeginLoginResponse
func (m *BeginLoginResponse) Validate(formats strfmt.Registry) error {
	return nil
}

// ContextValidate validates this payload based on context it is used
func (m *BeginLoginResponse) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// PostCompleteLoginPayload 完成登录请求
// redirect_url 与 id_token 二选一
type PostCompleteLoginPayload struct {
	SessionID   *string `json:"session_id"`
	RedirectURL string  `json:"redirect_url,omitempty"`
	IDToken     string  `json:"id_token,omitempty"`
}

// Validate validates PostCompleteLoginPayload
func (m *PostCompleteLoginPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.RequiredString("session_id", "body", swag.StringValue(m.SessionID)); err != nil {
		res = append(res, err)
	}

	if m.RedirectURL == "" && m.IDToken == "" {
		res = append(res, errors.New(422, "either redirect_url or id_token is required"))
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this payload based on context it is used
func (m *PostCompleteLoginPayload) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// CompleteLoginResponse 完成登录响应
// 部分签名与临时密钥对一起交给调用方做最终签名
type CompleteLoginResponse struct {
	Address             *string                   `json:"address"`
	Salt                *string                   `json:"salt"`
	MaxEpoch            int64                     `json:"max_epoch"`
	EphemeralPublicKey  *string                   `json:"ephemeral_public_key"`  // hex
	EphemeralPrivateKey *string                   `json:"ephemeral_private_key"` // hex
	Issuer              string                    `json:"issuer"`
	Subject             string                    `json:"subject"`
	PartialSignature    *zklogin.PartialSignature `json:"partial_signature"`
}

// Validate validates CompleteLoginResponse
func (m *CompleteLoginResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.RequiredString("address", "body", swag.StringValue(m.Address)); err != nil {
		res = append(res, err)
	}

	if err := validate.RequiredString("salt", "body", swag.StringValue(m.Salt)); err != nil {
		res = append(res, err)
	}

	if m.PartialSignature == nil {
		res = append(res, errors.Required("partial_signature", "body", m.PartialSignature))
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this payload based on context it is used
func (m *CompleteLoginResponse) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// MarshalBinary interface implementation
func (m *CompleteLoginResponse) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *CompleteLoginResponse) UnmarshalBinary(b []byte) error {
	var res CompleteLoginResponse
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}

// LoginSessionResponse 在途会话状态
type LoginSessionResponse struct {
	SessionID *string         `json:"session_id"`
	Provider  *string         `json:"provider"`
	Nonce     *string         `json:"nonce"`
	MaxEpoch  int64           `json:"max_epoch"`
	Consumed  bool            `json:"consumed"`
	CreatedAt strfmt.DateTime `json:"created_at"`
}

// Validate validates LoginSessionResponse
func (m *LoginSessionResponse) Validate(formats strfmt.Registry) error {
	return nil
}

// ContextValidate validates this payload based on context it is used
func (m *LoginSessionResponse) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}
