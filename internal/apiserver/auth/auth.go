// Package auth 访问令牌：签发、校验与管理员角色检查
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// contextKey context 键类型
type contextKey string

const ctxKeyClaims contextKey = "auth_claims"

// DefaultTokenTTL 令牌默认有效期
const DefaultTokenTTL = 24 * time.Hour

// Config 认证配置
type Config struct {
	Secret   string        // 签名密钥，来自 ACCESS_TOKEN 环境变量
	TokenTTL time.Duration // <=0 时使用 DefaultTokenTTL
}

func (c Config) ttl() time.Duration {
	if c.TokenTTL <= 0 {
		return DefaultTokenTTL
	}
	return c.TokenTTL
}

// ErrNoSecret 未配置签名密钥
var ErrNoSecret = errors.New("auth: signing secret is empty")

// ============================================================================
// JWT Token
// ============================================================================

// Claims 从令牌解析出的调用方信息
type Claims struct {
	Email   string                 // payload 中的 email，可能为空
	Payload map[string]interface{} // 完整的解码后 payload（含 iat/exp/jti）
}

// IssueToken 签发令牌
//
// payload 原样写入令牌，不做任何身份校验。iat/exp/jti 由签发方设置，
// 调用方传入的同名字段会被覆盖；jti 保证同一 payload 两次签发得到不同令牌。
func IssueToken(cfg Config, payload map[string]interface{}) (string, error) {
	if cfg.Secret == "" {
		return "", ErrNoSecret
	}

	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	now := time.Now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(cfg.ttl()).Unix()
	claims["jti"] = uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ParseToken 解析并验证令牌（只接受 HS256，必须带 exp）
func ParseToken(cfg Config, tokenString string) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, ErrNoSecret
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	email, _ := claims["email"].(string)
	return &Claims{Email: email, Payload: claims}, nil
}

// ============================================================================
// Context 辅助函数
// ============================================================================

// WithClaims 将令牌信息注入 context
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims, c)
}

// ClaimsFromContext 从 context 获取令牌信息，未经过 Verify 时返回 nil
func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(ctxKeyClaims).(*Claims)
	return c
}
