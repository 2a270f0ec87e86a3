// Package storage 定义存储层领域错误
//
// 这些错误用于隔离业务层与底层存储引擎的错误类型，
// 驱动实现（mongostore）负责将底层错误转换为这些领域错误。
package storage

import "errors"

var (
	// ErrNotFound 实体不存在
	// 替代 mongo.ErrNoDocuments
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate 唯一键冲突（INSERT 重复 _id）
	ErrDuplicate = errors.New("duplicate: entity already exists")

	// ErrInvalidID 路由中的 id 不是 24 位十六进制 ObjectID
	ErrInvalidID = errors.New("invalid id: must be a 24-character hex string")
)
