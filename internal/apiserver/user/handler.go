// Package user 用户领域 - HTTP 处理
package user

import (
	"net/http"

	"school-portal/internal/apiserver/auth"
	"school-portal/internal/shared/model"
	"school-portal/internal/shared/storage"
	"school-portal/pkg/logging"
)

// Handler 用户领域 HTTP 处理器
type Handler struct {
	store  storage.UserStore
	logger *logging.Logger
}

// NewHandler 创建用户处理器
func NewHandler(store storage.UserStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{store: store, logger: logger.Component("user")}
}

// RegisterRoutes 注册用户相关路由
//
// 列表路由需要管理员；角色变更路由不做认证。
func (h *Handler) RegisterRoutes(mux *http.ServeMux, gate *auth.Gate) {
	mux.Handle("GET /users", gate.Admin(h.ListUsers))
	mux.Handle("GET /getAllAdmins", gate.Admin(h.listByRole(model.UserRoleAdmin)))
	mux.Handle("GET /getAllTeachers", gate.Admin(h.listByRole(model.UserRoleTeacher)))
	mux.Handle("GET /getAllStudents", gate.Admin(h.listByRole(model.UserRoleStudent)))

	mux.HandleFunc("GET /getUserById/{id}", h.GetUserByID)
	mux.HandleFunc("GET /getUserByEmail/{email}", h.GetUserByEmail)

	mux.HandleFunc("GET /getAdminUser/{email}", h.hasRole(model.UserRoleAdmin))
	mux.HandleFunc("GET /getTeacherUser/{email}", h.hasRole(model.UserRoleTeacher))
	mux.HandleFunc("GET /getStudentUser/{email}", h.hasRole(model.UserRoleStudent))

	mux.HandleFunc("POST /users", h.CreateUser)
	mux.HandleFunc("PATCH /userUpdate/{id}", h.UpdateUser)
	mux.HandleFunc("PATCH /makeAdmin/{id}", h.setRole(model.UserRoleAdmin))
	mux.HandleFunc("PATCH /removeAdmin/{id}", h.setRole(model.UserRoleTeacher))
	mux.HandleFunc("DELETE /deleteUser/{id}", h.DeleteUser)
}

// ============================================================================
// 查询
// ============================================================================

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.storeFailed(w, r, "list_users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) listByRole(role model.UserRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.store.ListUsersByRole(r.Context(), role)
		if err != nil {
			h.storeFailed(w, r, "list_users_by_role", err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

// GetUserByID 不存在时返回 null
func (h *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUserByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.storeFailed(w, r, "get_user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetUserByEmail 不存在时返回 null
func (h *Handler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUserByEmail(r.Context(), r.PathValue("email"))
	if err != nil {
		h.storeFailed(w, r, "get_user_by_email", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// hasRole 返回 {"<role>": bool}，用户不存在时为 false
func (h *Handler) hasRole(role model.UserRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.store.GetUserByEmail(r.Context(), r.PathValue("email"))
		if err != nil {
			h.storeFailed(w, r, "get_user_by_email", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{string(role): model.HasRole(user, role)})
	}
}

// ============================================================================
// 写操作
// ============================================================================

// CreateUser 注册用户
//
// 先按 email 查询，已存在则不插入。查询与插入之间没有锁，
// 并发的同邮箱注册可能都成功。
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	user, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	existing, err := h.store.GetUserByEmail(r.Context(), model.EmailOf(user))
	if err != nil {
		h.storeFailed(w, r, "get_user_by_email", err)
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "user already exists"})
		return
	}

	result, err := h.store.CreateUser(r.Context(), user)
	if err != nil {
		h.storeFailed(w, r, "create_user", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// UpdateUser 用请求体整体 $set
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.store.UpdateUser(r.Context(), r.PathValue("id"), fields)
	if err != nil {
		h.storeFailed(w, r, "update_user", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) setRole(role model.UserRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.store.SetUserRole(r.Context(), r.PathValue("id"), role)
		if err != nil {
			h.storeFailed(w, r, "set_user_role", err)
			return
		}
		h.logger.WithContext(r.Context()).Info("user role changed", "id", r.PathValue("id"), "role", string(role))
		writeJSON(w, http.StatusOK, result)
	}
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	result, err := h.store.DeleteUser(r.Context(), r.PathValue("id"))
	if err != nil {
		h.storeFailed(w, r, "delete_user", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
