package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// FieldDocuments 申请文档中的附件列表字段
const FieldDocuments = "documents"

// ApplicationAttachment 入学申请附件（对象存储中的一个文件）
type ApplicationAttachment struct {
	Key         string    `bson:"key" json:"key"`
	Name        string    `bson:"name" json:"name"`
	Size        int64     `bson:"size" json:"size"`
	ContentType string    `bson:"content_type" json:"content_type"`
	UploadedAt  time.Time `bson:"uploaded_at" json:"uploaded_at"`
}

// Document 转换为可写入 documents 数组的文档
func (a ApplicationAttachment) Document() Document {
	return Document{
		"key":          a.Key,
		"name":         a.Name,
		"size":         a.Size,
		"content_type": a.ContentType,
		"uploaded_at":  a.UploadedAt,
	}
}

// AttachmentKeys 返回申请文档中已登记的附件 key
func AttachmentKeys(app Document) []string {
	if app == nil {
		return nil
	}
	var items []interface{}
	switch docs := app[FieldDocuments].(type) {
	case bson.A:
		items = docs
	case []interface{}:
		items = docs
	}

	keys := make([]string, 0, len(items))
	for _, item := range items {
		var key interface{}
		switch d := item.(type) {
		case bson.M:
			key = d["key"]
		case bson.D:
			for _, e := range d {
				if e.Key == "key" {
					key = e.Value
				}
			}
		}
		if k, ok := key.(string); ok && k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
