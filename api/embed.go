// Package api 内嵌 OpenAPI 文档
package api

import "embed"

//go:embed openapi/*.yaml
var OpenAPIFS embed.FS

// OpenAPIFile 门户 API 文档在 OpenAPIFS 中的路径
const OpenAPIFile = "openapi/openapi.yaml"
