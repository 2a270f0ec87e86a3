// Package application 入学申请领域 - HTTP 处理
package application

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"time"

	"school-portal/internal/apiserver/auth"
	"school-portal/internal/shared/model"
	"school-portal/internal/shared/objstore"
	"school-portal/internal/shared/storage"
	"school-portal/pkg/logging"
)

// MaxUploadSize 单个附件上限
const MaxUploadSize = 10 << 20

// ObjectStore 附件对象存储
type ObjectStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key, filename string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Handler 入学申请 HTTP 处理器
type Handler struct {
	store   storage.ApplicationStore
	objects ObjectStore // 为 nil 时附件接口返回 503
	logger  *logging.Logger
}

// NewHandler 创建入学申请处理器
func NewHandler(store storage.ApplicationStore, objects ObjectStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{store: store, objects: objects, logger: logger.Component("application")}
}

// RegisterRoutes 注册入学申请相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux, gate *auth.Gate) {
	mux.Handle("GET /getAllApplication", gate.Admin(h.ListApplications))
	mux.HandleFunc("GET /getApplicationById/{id}", h.GetApplication)
	mux.HandleFunc("POST /postApplication", h.CreateApplication)
	mux.HandleFunc("PATCH /applicationStatusUpdate/{id}", h.UpdateStatus)
	mux.HandleFunc("DELETE /deleteApplication/{id}", h.DeleteApplication)

	// 附件
	mux.HandleFunc("POST /uploadApplicationDocument/{id}", h.UploadDocument)
	mux.HandleFunc("GET /getApplicationDocumentUrl/{id}", h.GetDocumentURL)
}

// ============================================================================
// 申请
// ============================================================================

func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.store.ListApplications(r.Context())
	if err != nil {
		h.storeFailed(w, r, "list_applications", err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// GetApplication 不存在时返回 null
func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := h.store.GetApplication(r.Context(), r.PathValue("id"))
	if err != nil {
		h.storeFailed(w, r, "get_application", err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *Handler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	app, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.store.CreateApplication(r.Context(), app)
	if err != nil {
		h.storeFailed(w, r, "create_application", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// UpdateStatus 只写入请求体中的 status，缺失时写入 null
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.store.UpdateApplicationStatus(r.Context(), r.PathValue("id"), body[model.FieldStatus])
	if err != nil {
		h.storeFailed(w, r, "update_application_status", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	result, err := h.store.DeleteApplication(r.Context(), r.PathValue("id"))
	if err != nil {
		h.storeFailed(w, r, "delete_application", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ============================================================================
// 附件
// ============================================================================

// UploadDocument 上传申请附件
//
// 表单字段 file。对象写入成功后追加到申请的 documents 数组；
// 登记失败时删除已上传的对象。
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if h.objects == nil {
		writeError(w, http.StatusServiceUnavailable, "document storage is not configured")
		return
	}

	ctx := r.Context()
	id := r.PathValue("id")
	app, err := h.store.GetApplication(ctx, id)
	if err != nil {
		h.storeFailed(w, r, "get_application", err)
		return
	}
	if app == nil {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()
	if header.Size > MaxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	attachment := model.ApplicationAttachment{
		Key:         objstore.ApplicationKey(id, header.Filename),
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		UploadedAt:  time.Now().UTC(),
	}
	log := h.logger.WithContext(ctx)

	if err := h.objects.Upload(ctx, attachment.Key, file, attachment.Size, attachment.ContentType); err != nil {
		log.WithError(err).Error("document upload failed", "key", attachment.Key)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	result, err := h.store.AddApplicationDocument(ctx, id, attachment.Document())
	if err != nil {
		if delErr := h.objects.Delete(ctx, attachment.Key); delErr != nil {
			log.WithError(delErr).Warn("orphan document cleanup failed", "key", attachment.Key)
		}
		h.storeFailed(w, r, "add_application_document", err)
		return
	}

	log.Info("document uploaded", "application", id, "key", attachment.Key, "size", attachment.Size)
	writeJSON(w, http.StatusOK, result)
}

// GetDocumentURL 返回附件的临时下载链接
//
// key 必须属于该申请。
func (h *Handler) GetDocumentURL(w http.ResponseWriter, r *http.Request) {
	if h.objects == nil {
		writeError(w, http.StatusServiceUnavailable, "document storage is not configured")
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	app, err := h.store.GetApplication(r.Context(), r.PathValue("id"))
	if err != nil {
		h.storeFailed(w, r, "get_application", err)
		return
	}
	if app == nil {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}
	if !slices.Contains(model.AttachmentKeys(app), key) {
		writeError(w, http.StatusBadRequest, "document does not belong to this application")
		return
	}

	url, err := h.objects.PresignGet(r.Context(), key, objstore.FilenameFromKey(key))
	if err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Error("presign failed", "key", key)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
