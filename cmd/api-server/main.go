// Package main API Server 入口
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"school-portal/internal/apiserver/application"
	"school-portal/internal/apiserver/auth"
	"school-portal/internal/apiserver/docs"
	"school-portal/internal/apiserver/server"
	"school-portal/internal/config"
	"school-portal/internal/shared/cache"
	rediscache "school-portal/internal/shared/cache/redis"
	"school-portal/internal/shared/objstore"
	"school-portal/internal/shared/storage/mongostore"
	"school-portal/pkg/logging"
)

func main() {
	configDir := flag.String("config", "", "配置文件目录（覆盖 CONFIG_DIR）")
	flag.Parse()
	if *configDir != "" {
		config.SetConfigDir(*configDir)
	}

	// 加载配置（dev/test 自动加载 .env.{env}）
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	log.Printf("Starting API Server... [env=%s]", cfg.Env)
	log.Printf("Config: %s", cfg.String())

	// 根日志器不带 component，各领域包自行派生
	logger := logging.New(logging.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	})

	// 初始化 MongoDB
	store, err := mongostore.NewStore(cfg.DatabaseURL, cfg.DatabaseName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer store.Close()
	log.Printf("Connected to MongoDB [db=%s]", cfg.DatabaseName)

	// 初始化 Redis（可选，通知列表缓存）
	var noticeCache cache.NoticeCache = cache.NewNoOpCache()
	if cfg.RedisEnabled() {
		redisStore, err := rediscache.NewStoreFromURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		redisStore.SetTTL(cfg.NoticeCacheTTL)
		defer redisStore.Close()
		noticeCache = redisStore
		log.Println("Connected to Redis")
	} else {
		log.Println("Redis disabled, notice list is not cached")
	}

	// 初始化 MinIO（可选，申请附件）
	var objects application.ObjectStore
	if cfg.MinIO.Enabled() {
		mc, err := objstore.NewClient(cfg.MinIO)
		if err != nil {
			log.Fatalf("Failed to create MinIO client: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = mc.EnsureBucket(ctx)
		cancel()
		if err != nil {
			log.Fatalf("Failed to prepare MinIO bucket %s: %v", mc.Bucket(), err)
		}
		objects = mc
		log.Printf("Connected to MinIO [bucket=%s]", mc.Bucket())
	} else {
		log.Println("MinIO disabled, application uploads return 503")
	}

	spec, err := docs.Load(context.Background())
	if err != nil {
		log.Fatalf("Failed to load OpenAPI document: %v", err)
	}

	h := server.NewHandler(server.Options{
		Store:   store,
		Cache:   noticeCache,
		Objects: objects,
		Auth:    auth.Config{Secret: cfg.Auth.Secret, TokenTTL: cfg.Auth.TokenTTL},
		Logger:  logger,
		Docs:    spec,
	})
	store.SetObserver(h.ObserveQuery)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 优雅关闭
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		h.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("API Server listening on :%s [openapi=%s]", cfg.Port, spec.Version())
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server stopped")
}
