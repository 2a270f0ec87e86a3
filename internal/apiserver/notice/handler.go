// Package notice 通知领域 - HTTP 处理与实时推送
package notice

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"school-portal/internal/shared/cache"
	"school-portal/internal/shared/storage"
	"school-portal/pkg/logging"
)

// Handler 通知领域 HTTP 处理器
type Handler struct {
	store  storage.NoticeStore
	cache  cache.NoticeCache
	feed   *Feed
	logger *logging.Logger

	// generation 每次失效加一；列表回填前比对，防止旧快照覆盖失效
	cacheMu    sync.Mutex
	generation uint64
}

// NewHandler 创建通知处理器
//
// noticeCache 为 nil 时不缓存；feed 为 nil 时不推送。
func NewHandler(store storage.NoticeStore, noticeCache cache.NoticeCache, feed *Feed, logger *logging.Logger) *Handler {
	if noticeCache == nil {
		noticeCache = cache.NewNoOpCache()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{store: store, cache: noticeCache, feed: feed, logger: logger.Component("notice")}
}

// RegisterRoutes 注册通知相关路由（全部公开）
//
// WebSocket 路由 /ws/notices 由 server 包注册在指标中间件之外。
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /getNoticeById/{id}", h.GetNotice)
	mux.HandleFunc("GET /getAllNotices", h.ListNotices)
	mux.HandleFunc("POST /postNotices", h.CreateNotice)
	mux.HandleFunc("PATCH /noticeUpdate/{id}", h.UpdateNotice)
	mux.HandleFunc("DELETE /deleteNotice/{id}", h.DeleteNotice)
}

// GetNotice 不存在时返回 null
func (h *Handler) GetNotice(w http.ResponseWriter, r *http.Request) {
	notice, err := h.store.GetNotice(r.Context(), r.PathValue("id"))
	if err != nil {
		h.storeFailed(w, r, "get_notice", err)
		return
	}
	writeJSON(w, http.StatusOK, notice)
}

// ListNotices 列出全部通知，读穿缓存
func (h *Handler) ListNotices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.WithContext(ctx)

	data, ok, err := h.cache.GetNoticeList(ctx)
	if err != nil {
		log.WithError(err).Warn("notice cache read failed")
	}
	if ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	gen := h.cacheGeneration()
	notices, err := h.store.ListNotices(ctx)
	if err != nil {
		h.storeFailed(w, r, "list_notices", err)
		return
	}
	data, err = json.Marshal(notices)
	if err != nil {
		h.storeFailed(w, r, "marshal_notices", err)
		return
	}
	data = append(data, '\n')
	if err := h.fillCache(ctx, gen, data); err != nil {
		log.WithError(err).Warn("notice cache write failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) CreateNotice(w http.ResponseWriter, r *http.Request) {
	notice, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.store.CreateNotice(r.Context(), notice)
	if err != nil {
		h.storeFailed(w, r, "create_notice", err)
		return
	}
	h.invalidate(r)
	h.feed.Broadcast(EventCreated, result.InsertedID, notice)
	writeJSON(w, http.StatusOK, result)
}

// UpdateNotice 用请求体整体 $set
func (h *Handler) UpdateNotice(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	result, err := h.store.UpdateNotice(r.Context(), id, fields)
	if err != nil {
		h.storeFailed(w, r, "update_notice", err)
		return
	}
	h.invalidate(r)
	if result.MatchedCount > 0 {
		h.feed.Broadcast(EventUpdated, id, fields)
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) DeleteNotice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	result, err := h.store.DeleteNotice(r.Context(), id)
	if err != nil {
		h.storeFailed(w, r, "delete_notice", err)
		return
	}
	h.invalidate(r)
	if result.DeletedCount > 0 {
		h.feed.Broadcast(EventDeleted, id, nil)
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) cacheGeneration() uint64 {
	h.cacheMu.Lock()
	defer h.cacheMu.Unlock()
	return h.generation
}

// fillCache 仅当读取存储期间没有发生失效时回填列表缓存
func (h *Handler) fillCache(ctx context.Context, gen uint64, data []byte) error {
	h.cacheMu.Lock()
	defer h.cacheMu.Unlock()
	if h.generation != gen {
		return nil
	}
	return h.cache.SetNoticeList(ctx, data)
}

// invalidate 写操作成功后清除列表缓存，失败只记录日志
func (h *Handler) invalidate(r *http.Request) {
	h.cacheMu.Lock()
	defer h.cacheMu.Unlock()
	h.generation++
	if err := h.cache.InvalidateNotices(r.Context()); err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Warn("notice cache invalidate failed")
	}
}
