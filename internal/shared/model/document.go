// Package model 定义门户的数据模型
//
// 除用户角色外，notices / applications / results 都是结构松散的文档，
// 按客户端提交的 JSON 原样存储。
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Document 结构松散的文档
type Document = bson.M

// ErrNotObject 请求体不是 JSON 对象
var ErrNotObject = errors.New("request body must be a JSON object")

// DecodeDocument 从 JSON 读取一个文档
//
// 数字与 Node 驱动落库方式一致：值为整数且在 int32 范围内存 int32（1.0 也是），
// 其余（小数、超出 int32 的整数）存 double。嵌套对象递归转换为 Document。
func DecodeDocument(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, ErrNotObject
	}
	return normalizeObject(obj), nil
}

// DecodeDocumentBytes 同 DecodeDocument，输入为字节
func DecodeDocumentBytes(data []byte) (Document, error) {
	return DecodeDocument(bytes.NewReader(data))
}

func normalizeObject(obj map[string]interface{}) Document {
	doc := make(Document, len(obj))
	for k, v := range obj {
		doc[k] = normalizeValue(v)
	}
	return doc
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return normalizeObject(val)
	case []interface{}:
		arr := make(bson.A, len(val))
		for i, item := range val {
			arr[i] = normalizeValue(item)
		}
		return arr
	case json.Number:
		return normalizeNumber(val)
	default:
		return val
	}
}

func normalizeNumber(n json.Number) interface{} {
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	if f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
		return int32(f)
	}
	return f
}

// ParseInt 把文档值或查询参数转换为整数
// 接受 int32/int64/float64（必须是整数值）以及十进制字符串
func ParseInt(v interface{}) (int, error) {
	switch val := v.(type) {
	case int32:
		return int(val), nil
	case int64:
		return int(val), nil
	case int:
		return val, nil
	case float64:
		if val != math.Trunc(val) {
			return 0, fmt.Errorf("not an integer: %v", val)
		}
		return int(val), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", val)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
