package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
)

// buildDatabaseURL 构建 MongoDB 连接字符串
//
// URI 非空时直接使用；否则由 host/port/srv/options 与 DB_USER/DB_PASS 拼接。
func buildDatabaseURL(db DatabaseConfig) string {
	if db.URI != "" {
		return db.URI
	}
	if db.Host == "" {
		return ""
	}

	u := url.URL{Scheme: "mongodb", Host: db.Host, Path: "/"}
	if db.SRV {
		u.Scheme = "mongodb+srv"
	} else if db.Port > 0 {
		u.Host = fmt.Sprintf("%s:%d", db.Host, db.Port)
	}
	if db.User != "" {
		if db.Password != "" {
			u.User = url.UserPassword(db.User, db.Password)
		} else {
			u.User = url.User(db.User)
		}
	}
	u.RawQuery = db.Options
	return u.String()
}

// buildRedisURL 构建 Redis 连接字符串
// 如果 URL 字段非空，直接使用；否则从 host/port/db/password 构建
func buildRedisURL(redis RedisConfig) string {
	if redis.URL != "" {
		return redis.URL
	}
	if redis.Password != "" {
		return fmt.Sprintf("redis://:%s@%s:%d/%d", redis.Password, redis.Host, redis.Port, redis.DB)
	}
	return fmt.Sprintf("redis://%s:%d/%d", redis.Host, redis.Port, redis.DB)
}

var passwordPattern = regexp.MustCompile(`(://[^:/@]*:)([^@]+)(@)`)

// maskPassword 隐藏密码
func maskPassword(u string) string {
	return passwordPattern.ReplaceAllString(u, "${1}***${3}")
}

// parseEnv 解析环境字符串
func parseEnv(env string) Environment {
	switch strings.ToLower(env) {
	case "test":
		return EnvTest
	case "prod", "production":
		return EnvProduction
	default:
		return EnvDevelopment
	}
}

// getEnv 获取环境变量，支持默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// RedisEnabled 是否启用 Redis 缓存
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

// Enabled 是否启用附件对象存储
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

// String 返回配置摘要（隐藏密码）
func (c *Config) String() string {
	redis := "disabled"
	if c.RedisURL != "" {
		redis = maskPassword(c.RedisURL)
	}
	minio := "disabled"
	if c.MinIO.Enabled() {
		minio = c.MinIO.Endpoint
	}
	return fmt.Sprintf("Config{Env: %s, Port: %s, DB: %s/%s, Redis: %s, MinIO: %s}",
		c.Env, c.Port, maskPassword(c.DatabaseURL), c.DatabaseName, redis, minio)
}
