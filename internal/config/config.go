package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingSecret 未配置 JWT 签名密钥
var ErrMissingSecret = errors.New("ACCESS_TOKEN is required")

// Load 加载配置
//  1. 解析 APP_ENV
//  2. 加载 .env.{env}（开发/测试环境）
//  3. 加载 {env}.yaml
//  4. 环境变量覆盖
func Load() *Config {
	env := parseEnv(getEnv("APP_ENV", "dev"))
	loadEnvFiles(env)

	yamlCfg := loadYAMLConfig(env)

	db := yamlCfg.Database
	db.User = os.Getenv("DB_USER")
	db.Password = os.Getenv("DB_PASS")
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		db.URI = uri
	}

	redisCfg := yamlCfg.Redis
	redisCfg.Password = os.Getenv("REDIS_PASSWORD")
	if u := os.Getenv("REDIS_URL"); u != "" {
		redisCfg.URL = u
		redisCfg.Enabled = true
	}

	minioCfg := yamlCfg.MinIO
	minioCfg.AccessKey = os.Getenv("MINIO_ROOT_USER")
	minioCfg.SecretKey = os.Getenv("MINIO_ROOT_PASSWORD")

	authCfg := yamlCfg.Auth
	authCfg.Secret = os.Getenv("ACCESS_TOKEN")
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			authCfg.TokenTTL = d
		} else {
			log.Printf("WARNING: invalid TOKEN_TTL %q, using %s", ttl, authCfg.TokenTTL)
		}
	}

	cfg := &Config{
		Env:            env,
		Port:           getEnv("PORT", yamlCfg.Server.Port),
		DatabaseURL:    buildDatabaseURL(db),
		DatabaseName:   db.Name,
		NoticeCacheTTL: yamlCfg.Cache.NoticeTTL,
		Auth:           authCfg,
		MinIO:          minioCfg,
		ConfigFilePath: yamlCfg.loadedFrom,
	}
	if redisCfg.Enabled {
		cfg.RedisURL = buildRedisURL(redisCfg)
	}

	cfg.applyDefaults()
	return cfg
}

// Validate 检查启动必需的配置
func (c *Config) Validate() error {
	if c.Auth.Secret == "" {
		return ErrMissingSecret
	}
	if c.DatabaseURL == "" {
		return errors.New("database uri or host is required")
	}
	return nil
}

// defaultYAMLConfig 代码内置默认值
func defaultYAMLConfig() YAMLConfig {
	return YAMLConfig{
		Server:   ServerConfig{Port: "5000"},
		Database: DatabaseConfig{Host: "localhost", Port: 27017, Name: "instituteDB", Options: "retryWrites=true&w=majority"},
		Redis:    RedisConfig{Host: "localhost", Port: 6379, DB: 0},
		MinIO:    MinIOConfig{Bucket: "school-portal", PresignTTL: 15 * time.Minute},
		Auth:     AuthConfig{TokenTTL: 24 * time.Hour},
		Cache:    CacheConfig{NoticeTTL: 5 * time.Minute},
	}
}

// loadYAMLConfig 加载 YAML 配置文件
// 加载顺序：默认值 → {env}.yaml
func loadYAMLConfig(env Environment) *yamlConfigInternal {
	cfg := &yamlConfigInternal{YAMLConfig: defaultYAMLConfig()}

	filename := ConfigFileNameFor(env)
	for _, base := range effectiveConfigPaths(env) {
		path := filepath.Join(base, filename)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg.YAMLConfig); err != nil {
			log.Printf("WARNING: failed to parse %s: %v", path, err)
			continue
		}
		cfg.loadedFrom = path
		break
	}

	return cfg
}

// ConfigFileNameFor 返回指定环境的配置文件名
func ConfigFileNameFor(env Environment) string {
	return fmt.Sprintf("%s.yaml", env)
}

// applyDefaults 填充零值字段
func (c *Config) applyDefaults() {
	def := defaultYAMLConfig()
	if c.Port == "" {
		c.Port = def.Server.Port
	}
	if c.DatabaseName == "" {
		c.DatabaseName = def.Database.Name
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = def.Auth.TokenTTL
	}
	if c.NoticeCacheTTL <= 0 {
		c.NoticeCacheTTL = def.Cache.NoticeTTL
	}
	if c.MinIO.Bucket == "" {
		c.MinIO.Bucket = def.MinIO.Bucket
	}
	if c.MinIO.PresignTTL <= 0 {
		c.MinIO.PresignTTL = def.MinIO.PresignTTL
	}
}
