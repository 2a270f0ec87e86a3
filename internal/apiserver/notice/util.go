package notice

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"school-portal/internal/shared/model"
	"school-portal/internal/shared/storage"
)

// writeJSON 写入 JSON 响应
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError 写入错误响应，格式与认证错误一致
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"error": true, "message": message})
}

// decodeBody 解析请求体，空请求体视为空文档
func decodeBody(r *http.Request) (model.Document, error) {
	doc, err := model.DecodeDocument(r.Body)
	if errors.Is(err, io.EOF) {
		return model.Document{}, nil
	}
	return doc, err
}

// storeFailed 存储错误统一处理：非法 id 返回 400，其余 500
func (h *Handler) storeFailed(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, storage.ErrInvalidID) {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.logger.WithContext(r.Context()).WithError(err).Error("store operation failed", "op", op)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
