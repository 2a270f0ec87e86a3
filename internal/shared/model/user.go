package model

// UserRole 用户角色
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleTeacher UserRole = "teacher"
	UserRoleStudent UserRole = "student"
	UserRoleUnset   UserRole = ""
)

// User 字段名（users 集合中的文档结构是开放的，只有这几个字段有固定含义）
const (
	FieldID     = "_id"
	FieldEmail  = "email"
	FieldRole   = "role"
	FieldStatus = "status"
)

// RoleOf 读取用户文档中的角色
// 文档为 nil 或 role 不是字符串时返回 UserRoleUnset
func RoleOf(user Document) UserRole {
	if user == nil {
		return UserRoleUnset
	}
	role, _ := user[FieldRole].(string)
	return UserRole(role)
}

// EmailOf 读取用户文档中的邮箱
func EmailOf(user Document) string {
	if user == nil {
		return ""
	}
	email, _ := user[FieldEmail].(string)
	return email
}

// HasRole 判断文档角色是否与 role 完全一致（大小写敏感）
func HasRole(user Document, role UserRole) bool {
	return user != nil && RoleOf(user) == role
}
