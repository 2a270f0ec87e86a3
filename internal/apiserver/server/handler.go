package server

import (
	"net/http"

	"school-portal/internal/apiserver/application"
	"school-portal/internal/apiserver/auth"
	"school-portal/internal/apiserver/notice"
	"school-portal/internal/apiserver/result"
	"school-portal/internal/apiserver/user"
)

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 基础:
//   - GET /              - 首页
//   - GET /health        - 服务健康检查
//   - GET /metrics       - Prometheus 指标
//   - GET /openapi.json  - 接口文档
//
// 认证:
//   - POST /jwt          - 签发令牌
//
// 用户、通知、申请、成绩接口见各领域包的 RegisterRoutes。
//
// WebSocket:
//   - GET /ws/notices    - 通知变更推送
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", h.metrics.Handler())
	if h.docs != nil {
		mux.Handle("GET /openapi.json", h.docs)
	}

	gate := auth.NewGate(h.authCfg, h.store)
	gate.OnReject(h.metrics.RecordAuthRejection)

	authHandler := auth.NewHandler(h.authCfg)
	authHandler.RegisterRoutes(mux)

	userHandler := user.NewHandler(h.store, h.logger)
	userHandler.RegisterRoutes(mux, gate)

	noticeHandler := notice.NewHandler(h.store, h.cache, h.feed, h.logger)
	noticeHandler.RegisterRoutes(mux)

	appHandler := application.NewHandler(h.store, h.objects, h.logger)
	appHandler.RegisterRoutes(mux, gate)

	resultHandler := result.NewHandler(h.store, h.logger)
	resultHandler.RegisterRoutes(mux)

	// 指标在内层，日志在外层，CORS 最外
	apiHandler := h.metrics.MetricsMiddleware(mux)
	loggedHandler := requestLogMiddleware(h.logger.Component("http"))(apiHandler)
	corsHandler := corsMiddleware(loggedHandler)

	// 创建顶层路由，WebSocket 绕过 metrics 中间件（避免 http.Hijacker 问题）
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /ws/notices", h.feed.HandleWebSocket)
	topMux.Handle("/", corsHandler)

	return topMux
}
