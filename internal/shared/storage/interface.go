// Package storage 定义持久化存储层抽象接口
//
// 设计原则：依赖倒置 (DIP)
//   - 调用方只依赖接口，不知道具体实现
//   - 具体实现在子包中：mongostore/
//   - 启动时构造一个 Store 实例，通过依赖注入传给各 Handler，不使用全局连接
package storage

import (
	"context"

	"school-portal/internal/shared/model"
)

// ============================================================================
// 写操作结果
//
// 与驱动返回值一一对应，JSON 字段名沿用门户前端已经依赖的格式
// （acknowledged / insertedId / matchedCount ...）。
// ============================================================================

// InsertResult insertOne 结果
type InsertResult struct {
	Acknowledged bool        `json:"acknowledged"`
	InsertedID   interface{} `json:"insertedId"`
}

// UpdateResult updateOne 结果
type UpdateResult struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId"`
}

// DeleteResult deleteOne 结果
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// ============================================================================
// 领域存储接口
// ============================================================================

// UserStore 用户（身份）存储
//
// 查询单个文档时，不存在返回 (nil, nil)。
type UserStore interface {
	CreateUser(ctx context.Context, user model.Document) (*InsertResult, error)
	GetUserByID(ctx context.Context, id string) (model.Document, error)
	GetUserByEmail(ctx context.Context, email string) (model.Document, error)
	ListUsers(ctx context.Context) ([]model.Document, error)
	ListUsersByRole(ctx context.Context, role model.UserRole) ([]model.Document, error)
	UpdateUser(ctx context.Context, id string, fields model.Document) (*UpdateResult, error)
	SetUserRole(ctx context.Context, id string, role model.UserRole) (*UpdateResult, error)
	DeleteUser(ctx context.Context, id string) (*DeleteResult, error)
}

// NoticeStore 通知存储
type NoticeStore interface {
	CreateNotice(ctx context.Context, notice model.Document) (*InsertResult, error)
	GetNotice(ctx context.Context, id string) (model.Document, error)
	ListNotices(ctx context.Context) ([]model.Document, error)
	UpdateNotice(ctx context.Context, id string, fields model.Document) (*UpdateResult, error)
	DeleteNotice(ctx context.Context, id string) (*DeleteResult, error)
}

// ApplicationStore 入学申请存储
type ApplicationStore interface {
	CreateApplication(ctx context.Context, app model.Document) (*InsertResult, error)
	GetApplication(ctx context.Context, id string) (model.Document, error)
	ListApplications(ctx context.Context) ([]model.Document, error)
	UpdateApplicationStatus(ctx context.Context, id string, status interface{}) (*UpdateResult, error)
	AddApplicationDocument(ctx context.Context, id string, doc model.Document) (*UpdateResult, error)
	DeleteApplication(ctx context.Context, id string) (*DeleteResult, error)
}

// ResultStore 考试成绩存储
type ResultStore interface {
	CreateResult(ctx context.Context, result model.Document) (*InsertResult, error)
	ListResults(ctx context.Context) ([]model.Document, error)
	FindResult(ctx context.Context, roll, studentClass, passingYear int) (model.Document, error)
}

// PersistentStore 全部持久化接口
type PersistentStore interface {
	UserStore
	NoticeStore
	ApplicationStore
	ResultStore

	Ping(ctx context.Context) error
	Close() error
}
