// Package result 考试成绩领域 - HTTP 处理
package result

import (
	"net/http"

	"school-portal/internal/shared/model"
	"school-portal/internal/shared/storage"
	"school-portal/pkg/logging"
)

// Handler 成绩 HTTP 处理器
type Handler struct {
	store  storage.ResultStore
	logger *logging.Logger
}

// NewHandler 创建成绩处理器
func NewHandler(store storage.ResultStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{store: store, logger: logger.Component("result")}
}

// RegisterRoutes 注册成绩相关路由（全部公开）
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /getAllResults", h.ListResults)
	mux.HandleFunc("POST /postResult", h.CreateResult)
	mux.HandleFunc("GET /findResult", h.FindResult)
}

func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.store.ListResults(r.Context())
	if err != nil {
		h.storeFailed(w, r, "list_results", err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) CreateResult(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.store.CreateResult(r.Context(), doc)
	if err != nil {
		h.storeFailed(w, r, "create_result", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// FindResult 按 roll / class / passingYear 查询单个学生成绩
//
// 任一参数缺失、为 0 或不是整数，以及查不到记录，都返回同样的 404。
func (h *Handler) FindResult(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	roll, ok1 := positiveInt(q.Get("roll"))
	studentClass, ok2 := positiveInt(q.Get("class"))
	passingYear, ok3 := positiveInt(q.Get("passingYear"))
	if !ok1 || !ok2 || !ok3 {
		writeInvalidInfo(w)
		return
	}

	student, err := h.store.FindResult(r.Context(), roll, studentClass, passingYear)
	if err != nil {
		h.storeFailed(w, r, "find_result", err)
		return
	}
	if student == nil {
		writeInvalidInfo(w)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func positiveInt(s string) (int, bool) {
	n, err := model.ParseInt(s)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

func writeInvalidInfo(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Information is invalid"})
}
