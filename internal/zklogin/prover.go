package zklogin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/SafeMPC/zklogin-service/internal/discovery"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const proverServiceName = "prover"

// ProofRequest 提交给证明服务的请求体
// eph_public_key 必须是规范字节编码按大端整数解读的十进制字符串
type ProofRequest struct {
	JWT                string `json:"jwt"`
	EphemeralPublicKey string `json:"eph_public_key"`
	MaxEpoch           uint64 `json:"max_epoch"`
	JWTRandomness      string `json:"jwt_randomness"`
	SubjectPin         string `json:"subject_pin"`
	KeyClaimName       string `json:"key_claim_name"`
}

// ProofPoints 证明系统点（不在本组件内做密码学验证）
type ProofPoints struct {
	PiA []string   `json:"pi_a"`
	PiB [][]string `json:"pi_b"`
	PiC []string   `json:"pi_c"`
}

// SignatureClaim 部分签名携带的声明
type SignatureClaim struct {
	Name        string `json:"name"`
	ValueBase64 string `json:"value_base64"`
	IndexMod4   int    `json:"index_mod_4"`
}

// PartialSignature 流水线的最终产物，构造后不再修改
// 单独不足以上链执行，需与临时密钥对交易的签名合并
type PartialSignature struct {
	ProofPoints  ProofPoints      `json:"proof_points"`
	AddressSeed  string           `json:"address_seed"`
	Claims       []SignatureClaim `json:"claims"`
	HeaderBase64 string           `json:"header_base64"`
}

// ProofAssembler 向外部证明服务提交材料并取回部分签名
type ProofAssembler interface {
	AssembleProof(ctx context.Context, session *Session, idToken string, salt *big.Int, keyClaimName string) (*PartialSignature, error)
}

// ProverConfig 证明服务客户端配置
type ProverConfig struct {
	Endpoint    string
	Resolver    discovery.Resolver
	ServiceName string
	Timeout     time.Duration
}

// ProverAssembler 调用外部证明服务的 ProofAssembler 实现
type ProverAssembler struct {
	cfg    ProverConfig
	client *http.Client
}

// NewProverAssembler 创建证明服务客户端
func NewProverAssembler(cfg ProverConfig) *ProverAssembler {
	if cfg.ServiceName == "" {
		cfg.ServiceName = proverServiceName
	}

	return &ProverAssembler{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// AssembleProof 单次请求/响应装配部分签名
// 本组件只保证传输与响应形状正确，证明本身由链上验证方校验
func (p *ProverAssembler) AssembleProof(ctx context.Context, session *Session, idToken string, salt *big.Int, keyClaimName string) (*PartialSignature, error) {
	if keyClaimName != "sub" && keyClaimName != "email" {
		return nil, errors.Errorf("unsupported key claim name %q: must be sub or email", keyClaimName)
	}
	if salt == nil {
		return nil, errors.New("salt is required for proof assembly")
	}

	proofReq := &ProofRequest{
		JWT:                idToken,
		EphemeralPublicKey: session.KeyPair.PublicKeyDecimal(),
		MaxEpoch:           session.MaxEpoch,
		JWTRandomness:      session.Randomness.String(),
		SubjectPin:         salt.String(),
		KeyClaimName:       keyClaimName,
	}

	body, err := json.Marshal(proofReq)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal proof request")
	}

	endpoint := p.cfg.Endpoint
	if p.cfg.Resolver != nil {
		endpoint, err = p.cfg.Resolver.Resolve(ctx, p.cfg.ServiceName)
		if err != nil {
			return nil, &NetworkError{Service: proverServiceName, Err: err}
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create proof request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(proverServiceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ServiceError{Service: proverServiceName, StatusCode: resp.StatusCode, Message: string(msg)}
	}

	var sig PartialSignature
	if err := json.NewDecoder(resp.Body).Decode(&sig); err != nil {
		return nil, &ServiceError{Service: proverServiceName, StatusCode: resp.StatusCode, Message: "malformed response body: " + err.Error()}
	}

	if err := validateSignatureShape(&sig); err != nil {
		return nil, &ServiceError{Service: proverServiceName, StatusCode: resp.StatusCode, Message: err.Error()}
	}

	log.Debug().
		Uint64("max_epoch", session.MaxEpoch).
		Str("key_claim_name", keyClaimName).
		Msg("Partial signature assembled")

	return &sig, nil
}

// validateSignatureShape 检查响应的必需字段是否齐全
func validateSignatureShape(sig *PartialSignature) error {
	if len(sig.ProofPoints.PiA) == 0 || len(sig.ProofPoints.PiB) == 0 || len(sig.ProofPoints.PiC) == 0 {
		return errors.New("response missing proof points")
	}
	if sig.AddressSeed == "" {
		return errors.New("response missing address_seed")
	}
	if sig.HeaderBase64 == "" {
		return errors.New("response missing header_base64")
	}
	return nil
}
