package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"school-portal/internal/shared/model"
	"school-portal/pkg/logging"
)

const (
	msgUnauthorized = "Unauthorized access"
	msgForbidden    = "forbidden message"
)

// 拒绝原因，用于指标标签
const (
	ReasonMissingHeader = "missing_header"
	ReasonInvalidToken  = "invalid_token"
	ReasonNoClaims      = "no_claims"
	ReasonNotAdmin      = "not_admin"
	ReasonLookupError   = "lookup_error"
)

// UserLookup 管理员检查所需的最小用户存储接口
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (model.Document, error)
}

// Gate 路由守卫：Verify 校验令牌，RequireAdmin 检查存储中的角色
type Gate struct {
	cfg      Config
	users    UserLookup
	onReject func(reason string)
}

// NewGate 创建路由守卫
func NewGate(cfg Config, users UserLookup) *Gate {
	return &Gate{cfg: cfg, users: users}
}

// OnReject 注册拒绝回调（指标计数）
func (g *Gate) OnReject(fn func(reason string)) {
	g.onReject = fn
}

func (g *Gate) reject(w http.ResponseWriter, status int, reason, message string) {
	if g.onReject != nil {
		g.onReject(reason)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"error": true, "message": message})
}

// Verify 令牌校验中间件
//
// 只解析令牌，不访问存储；成功后把 Claims 注入 request context。
func (g *Gate) Verify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			g.reject(w, http.StatusUnauthorized, ReasonMissingHeader, msgUnauthorized)
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			g.reject(w, http.StatusUnauthorized, ReasonMissingHeader, msgUnauthorized)
			return
		}

		claims, err := ParseToken(g.cfg, strings.TrimSpace(parts[1]))
		if err != nil {
			log.Printf("[auth] token parse error: %v", err)
			g.reject(w, http.StatusUnauthorized, ReasonInvalidToken, msgUnauthorized)
			return
		}

		ctx := WithClaims(r.Context(), claims)
		if claims.Email != "" {
			ctx = context.WithValue(ctx, logging.EmailKey, claims.Email)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin 管理员检查中间件，必须放在 Verify 之后
//
// 每次请求都按令牌中的 email 重新读取用户，角色变更立即生效。
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			g.reject(w, http.StatusForbidden, ReasonNoClaims, msgForbidden)
			return
		}

		user, err := g.users.GetUserByEmail(r.Context(), claims.Email)
		if err != nil {
			log.Printf("[auth] admin lookup for %q failed: %v", claims.Email, err)
			if g.onReject != nil {
				g.onReject(ReasonLookupError)
			}
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if !model.HasRole(user, model.UserRoleAdmin) {
			g.reject(w, http.StatusForbidden, ReasonNotAdmin, msgForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Admin 组合 Verify + RequireAdmin
func (g *Gate) Admin(h http.HandlerFunc) http.Handler {
	return g.Verify(g.RequireAdmin(h))
}
