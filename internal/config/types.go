// Package config 统一配置管理
//
// 配置加载优先级（高→低）：
//  1. 环境变量（通过 .env 文件或 shell/systemd 注入）
//  2. YAML 配置文件（{env}.yaml，如 dev.yaml、test.yaml、prod.yaml）
//  3. 代码硬编码默认值
//
// 凭据单一数据源：
//
//	数据库密码、JWT 签名密钥、MinIO 密钥只存在环境变量 / .env 文件中，
//	YAML 中不存储任何密码。
//
// 配置路径确定策略：
//  1. --config 命令行参数（显式路径）
//  2. CONFIG_DIR 环境变量
//  3. 按 APP_ENV 选择默认路径：
//     - prod → /etc/school-portal/
//     - dev/test → ./configs/
package config

import "time"

// Environment 环境类型
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
	EnvDevelopment Environment = "dev"
)

// YAMLConfig YAML 配置文件结构
type YAMLConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Auth     AuthConfig     `yaml:"auth"`
	Cache    CacheConfig    `yaml:"cache"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port string `yaml:"port"` // 可被 PORT 环境变量覆盖
}

// DatabaseConfig MongoDB 配置
type DatabaseConfig struct {
	URI      string `yaml:"uri"`     // 完整连接 URI（优先于 host/port），可被 MONGODB_URI 覆盖
	Host     string `yaml:"host"`    // 主机或 Atlas 集群地址，如 cluster0.xxxx.mongodb.net
	Port     int    `yaml:"port"`    // SRV 模式下忽略
	SRV      bool   `yaml:"srv"`     // 使用 mongodb+srv:// 协议
	Options  string `yaml:"options"` // URI 查询参数，如 retryWrites=true&w=majority
	Name     string `yaml:"name"`    // 数据库名称
	User     string `yaml:"-"`       // 只从 DB_USER 环境变量读取
	Password string `yaml:"-"`       // 只从 DB_PASS 环境变量读取
}

// RedisConfig Redis 配置（通知列表缓存）
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DB       int    `yaml:"db"`
	Password string `yaml:"-"`   // 只从 REDIS_PASSWORD 环境变量读取
	URL      string `yaml:"url"` // 直接指定 URL（优先于 host/port/db）
}

// MinIOConfig MinIO 对象存储配置（入学申请附件）
type MinIOConfig struct {
	Endpoint   string        `yaml:"endpoint"` // 例如 localhost:9000，为空表示不启用
	AccessKey  string        `yaml:"-"`        // 只从 MINIO_ROOT_USER 环境变量读取
	SecretKey  string        `yaml:"-"`        // 只从 MINIO_ROOT_PASSWORD 环境变量读取
	UseSSL     bool          `yaml:"use_ssl"`
	Bucket     string        `yaml:"bucket"`
	PresignTTL time.Duration `yaml:"presign_ttl"` // 附件下载链接有效期
}

// AuthConfig 认证配置
// 注意：Secret 只从 ACCESS_TOKEN 环境变量读取，不存储在 YAML 中
type AuthConfig struct {
	Secret   string        `yaml:"-"`
	TokenTTL time.Duration `yaml:"token_ttl"` // 可被 TOKEN_TTL 覆盖，默认 24h
}

// CacheConfig 缓存配置
type CacheConfig struct {
	NoticeTTL time.Duration `yaml:"notice_ttl"`
}

// Config 应用配置（最终使用的配置）
type Config struct {
	Env            Environment
	Port           string
	DatabaseURL    string
	DatabaseName   string
	RedisURL       string // 为空表示不启用 Redis
	NoticeCacheTTL time.Duration
	Auth           AuthConfig
	MinIO          MinIOConfig
	ConfigFilePath string // 实际加载的配置文件路径
}

// yamlConfigInternal 内部包装，记录配置文件来源（不参与 YAML 序列化）
type yamlConfigInternal struct {
	YAMLConfig `yaml:",inline"`
	loadedFrom string
}
