package auth

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"school-portal/internal/shared/model"
)

// Handler 令牌签发 HTTP 处理器
type Handler struct {
	cfg Config
}

// NewHandler 创建令牌签发处理器
func NewHandler(cfg Config) *Handler {
	return &Handler{cfg: cfg}
}

// RegisterRoutes 注册认证相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /jwt", h.IssueJWT)
}

type tokenResponse struct {
	Token string `json:"token"`
}

// IssueJWT 以请求体为 payload 签发令牌
//
// 不校验调用方身份，也不检查 payload 内容；空请求体按 {} 签发。
func (h *Handler) IssueJWT(w http.ResponseWriter, r *http.Request) {
	payload, err := model.DecodeDocument(r.Body)
	if errors.Is(err, io.EOF) {
		payload, err = model.Document{}, nil
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := IssueToken(h.cfg, payload)
	if err != nil {
		log.Printf("[auth.jwt] IssueToken error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
