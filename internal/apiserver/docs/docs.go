// Package docs 加载、校验并提供内嵌的 OpenAPI 文档
package docs

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"school-portal/api"
)

// Spec 已校验的 OpenAPI 文档
type Spec struct {
	doc  *openapi3.T
	json []byte
}

// Load 读取内嵌 YAML 并校验，启动时调用，失败即退出
func Load(ctx context.Context) (*Spec, error) {
	data, err := api.OpenAPIFS.ReadFile(api.OpenAPIFile)
	if err != nil {
		return nil, fmt.Errorf("read openapi: %w", err)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("parse openapi: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi: %w", err)
	}

	out, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal openapi: %w", err)
	}
	return &Spec{doc: doc, json: out}, nil
}

// Version 文档中的 API 版本
func (s *Spec) Version() string {
	return s.doc.Info.Version
}

// Routes 以 ServeMux 模式（"GET /path/{id}"）列出文档中的全部操作，已排序
func (s *Spec) Routes() []string {
	var routes []string
	for path, item := range s.doc.Paths.Map() {
		for method := range item.Operations() {
			routes = append(routes, method+" "+path)
		}
	}
	sort.Strings(routes)
	return routes
}

// Secured 需要 bearer 令牌的操作（同 Routes 格式）
func (s *Spec) Secured() []string {
	var routes []string
	for path, item := range s.doc.Paths.Map() {
		for method, op := range item.Operations() {
			if op.Security != nil && len(*op.Security) > 0 {
				routes = append(routes, method+" "+path)
			}
		}
	}
	sort.Strings(routes)
	return routes
}

// ServeHTTP 输出 JSON 格式文档
//
// 路由: GET /openapi.json
func (s *Spec) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(s.json)
}
