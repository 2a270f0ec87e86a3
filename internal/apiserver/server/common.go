// Package server 路由配置与核心基础设施
//
// 文件组织：
//   - common.go: Handler 定义、健康检查、首页
//   - handler.go: 路由注册
//   - middleware.go: 请求日志与 CORS
//   - metrics.go: Prometheus 指标
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"school-portal/internal/apiserver/application"
	"school-portal/internal/apiserver/auth"
	"school-portal/internal/apiserver/docs"
	"school-portal/internal/apiserver/notice"
	"school-portal/internal/shared/cache"
	"school-portal/internal/shared/storage"
	"school-portal/pkg/logging"
)

// Banner GET / 返回的文本
const Banner = "Al-Azam school and college server is running successfully!"

const healthTimeout = 2 * time.Second

// Options Handler 依赖
//
// Cache 为空时使用不缓存的实现；Objects 为空时附件接口返回 503；
// Docs 为空时不注册 /openapi.json。
type Options struct {
	Store   storage.PersistentStore
	Cache   cache.NoticeCache
	Objects application.ObjectStore
	Auth    auth.Config
	Logger  *logging.Logger
	Docs    *docs.Spec
}

// Handler API 处理器
//
// Handler 是所有 HTTP API 的入口，负责：
//   - 路由请求到各领域包
//   - 持有存储层、缓存和对象存储
//   - 管理通知推送和指标
type Handler struct {
	store   storage.PersistentStore
	cache   cache.NoticeCache
	objects application.ObjectStore
	authCfg auth.Config
	docs    *docs.Spec

	logger  *logging.Logger
	feed    *notice.Feed
	metrics *Metrics
}

// NewHandler 创建 Handler 实例
func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default("")
	}
	noticeCache := opts.Cache
	if noticeCache == nil {
		noticeCache = cache.NewNoOpCache()
	}

	h := &Handler{
		store:   opts.Store,
		cache:   noticeCache,
		objects: opts.Objects,
		authCfg: opts.Auth,
		docs:    opts.Docs,
		logger:  logger,
		feed:    notice.NewFeed(),
		metrics: NewMetrics("portal"),
	}
	h.feed.OnConnectionChange(h.metrics.SetWSConnections)
	return h
}

// ObserveQuery 记录一次数据库操作，供存储层回调
func (h *Handler) ObserveQuery(operation, collection string, duration time.Duration) {
	h.metrics.RecordDBQuery(operation, collection, duration)
	h.logger.DBQueryLog(operation, collection, duration)
}

// Close 断开所有 WebSocket 客户端
func (h *Handler) Close() {
	h.feed.Close()
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Home 首页
//
// 路由: GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(Banner))
}

// Health 健康检查接口
//
// 路由: GET /health
//
// 数据库不可达时返回 503。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Warn("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
