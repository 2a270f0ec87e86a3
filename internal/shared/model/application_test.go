package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestApplicationAttachment_Document(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	a := ApplicationAttachment{
		Key:         "applications/abc/1-photo.jpg",
		Name:        "photo.jpg",
		Size:        2048,
		ContentType: "image/jpeg",
		UploadedAt:  now,
	}

	doc := a.Document()
	assert.Equal(t, "applications/abc/1-photo.jpg", doc["key"])
	assert.Equal(t, int64(2048), doc["size"])
	assert.Equal(t, now, doc["uploaded_at"])
}

func TestAttachmentKeys(t *testing.T) {
	tests := []struct {
		name string
		app  Document
		want []string
	}{
		{"nil 文档", nil, nil},
		{"没有附件", Document{"name": "x"}, []string{}},
		{
			name: "bson.A + bson.M",
			app: Document{FieldDocuments: bson.A{
				bson.M{"key": "applications/1/a.pdf"},
				bson.M{"key": "applications/1/b.pdf"},
			}},
			want: []string{"applications/1/a.pdf", "applications/1/b.pdf"},
		},
		{
			name: "bson.D 元素",
			app: Document{FieldDocuments: []interface{}{
				bson.D{{Key: "key", Value: "applications/1/c.pdf"}},
				"garbage",
				bson.M{"key": ""},
			}},
			want: []string{"applications/1/c.pdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AttachmentKeys(tt.app))
		})
	}
}
