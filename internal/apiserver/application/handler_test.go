package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"school-portal/internal/apiserver/auth"
	"school-portal/internal/shared/model"
	"school-portal/internal/shared/storage"
)

// ============================================================================
// mock
// ============================================================================

type mockStore struct {
	mu     sync.Mutex
	apps   []model.Document
	users  map[string]model.Document
	addErr error
}

func (m *mockStore) find(id string) (model.Document, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrInvalidID
	}
	for _, a := range m.apps {
		if a[model.FieldID] == oid {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockStore) CreateApplication(ctx context.Context, app model.Document) (*storage.InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := bson.NewObjectID()
	app[model.FieldID] = id
	m.apps = append(m.apps, app)
	return &storage.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (m *mockStore) GetApplication(ctx context.Context, id string) (model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(id)
}

func (m *mockStore) ListApplications(ctx context.Context) ([]model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Document{}, m.apps...), nil
}

func (m *mockStore) UpdateApplicationStatus(ctx context.Context, id string, status interface{}) (*storage.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, err := m.find(id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return &storage.UpdateResult{Acknowledged: true}, nil
	}
	app[model.FieldStatus] = status
	return &storage.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockStore) AddApplicationDocument(ctx context.Context, id string, doc model.Document) (*storage.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return nil, m.addErr
	}
	app, err := m.find(id)
	if err != nil {
		return nil, err
	}
	docs, _ := app[model.FieldDocuments].(bson.A)
	app[model.FieldDocuments] = append(docs, doc)
	return &storage.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockStore) DeleteApplication(ctx context.Context, id string) (*storage.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrInvalidID
	}
	for i, a := range m.apps {
		if a[model.FieldID] == oid {
			m.apps = append(m.apps[:i], m.apps[i+1:]...)
			return &storage.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return &storage.DeleteResult{Acknowledged: true}, nil
}

func (m *mockStore) GetUserByEmail(ctx context.Context, email string) (model.Document, error) {
	return m.users[email], nil
}

var _ storage.ApplicationStore = (*mockStore)(nil)

type mockObjects struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
}

func newMockObjects() *mockObjects {
	return &mockObjects{objects: map[string][]byte{}}
}

func (m *mockObjects) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *mockObjects) PresignGet(ctx context.Context, key, filename string) (string, error) {
	return "https://minio.local/school-portal/" + key + "?X-Amz-Signature=abc&name=" + filename, nil
}

func (m *mockObjects) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// ============================================================================
// 辅助
// ============================================================================

var authCfg = auth.Config{Secret: "test-secret"}

func setup(objects ObjectStore) (*mockStore, *http.ServeMux) {
	store := &mockStore{users: map[string]model.Document{
		"admin@school.edu":   {"email": "admin@school.edu", "role": "admin"},
		"student@school.edu": {"email": "student@school.edu", "role": "student"},
	}}
	mux := http.NewServeMux()
	NewHandler(store, objects, nil).RegisterRoutes(mux, auth.NewGate(authCfg, store))
	return store, mux
}

func do(t *testing.T, mux *http.ServeMux, req *http.Request, email string) *httptest.ResponseRecorder {
	t.Helper()
	if email != "" {
		token, err := auth.IssueToken(authCfg, map[string]interface{}{"email": email})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func jsonReq(method, path, body string) *http.Request {
	return httptest.NewRequest(method, path, strings.NewReader(body))
}

func uploadReq(t *testing.T, id, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	part.Write([]byte(content))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploadApplicationDocument/"+id, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func createApp(t *testing.T, mux *http.ServeMux) string {
	t.Helper()
	rec := do(t, mux, jsonReq(http.MethodPost, "/postApplication", `{"studentName":"Rahim","class":6,"status":"pending"}`), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		InsertedID string `json:"insertedId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res.InsertedID
}

// ============================================================================
// 测试
// ============================================================================

func TestApplicationCRUD(t *testing.T) {
	store, mux := setup(nil)
	id := createApp(t, mux)

	rec := do(t, mux, jsonReq(http.MethodGet, "/getApplicationById/"+id, ""), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"studentName":"Rahim"`)

	rec = do(t, mux, jsonReq(http.MethodPatch, "/applicationStatusUpdate/"+id, `{"status":"approved","studentName":"ignored"}`), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"matchedCount":1`)
	assert.Equal(t, "approved", store.apps[0]["status"])
	assert.Equal(t, "Rahim", store.apps[0]["studentName"], "只更新 status")

	rec = do(t, mux, jsonReq(http.MethodDelete, "/deleteApplication/"+id, ""), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":1}`, rec.Body.String())
	assert.Empty(t, store.apps)
}

func TestUpdateStatus_MissingSetsNull(t *testing.T) {
	store, mux := setup(nil)
	id := createApp(t, mux)

	rec := do(t, mux, jsonReq(http.MethodPatch, "/applicationStatusUpdate/"+id, `{}`), "")
	require.Equal(t, http.StatusOK, rec.Code)
	v, ok := store.apps[0]["status"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestListApplications_AdminOnly(t *testing.T) {
	_, mux := setup(nil)
	createApp(t, mux)

	rec := do(t, mux, jsonReq(http.MethodGet, "/getAllApplication", ""), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, mux, jsonReq(http.MethodGet, "/getAllApplication", ""), "student@school.edu")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, mux, jsonReq(http.MethodGet, "/getAllApplication", ""), "admin@school.edu")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestApplication_InvalidID(t *testing.T) {
	_, mux := setup(nil)

	rec := do(t, mux, jsonReq(http.MethodGet, "/getApplicationById/123", ""), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":true,"message":"invalid id"}`, rec.Body.String())
}

func TestUploadDocument(t *testing.T) {
	objects := newMockObjects()
	store, mux := setup(objects)
	id := createApp(t, mux)

	rec := do(t, mux, uploadReq(t, id, "birth-certificate.pdf", "%PDF-1.4"), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"modifiedCount":1`)

	keys := model.AttachmentKeys(store.apps[0])
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "applications/"+id+"/"))
	assert.True(t, strings.HasSuffix(keys[0], "-birth-certificate.pdf"))
	assert.Equal(t, []byte("%PDF-1.4"), objects.objects[keys[0]])

	docs := store.apps[0][model.FieldDocuments].(bson.A)
	att := docs[0].(model.Document)
	assert.Equal(t, "birth-certificate.pdf", att["name"])
	assert.Equal(t, int64(8), att["size"])
	assert.Equal(t, "application/pdf", att["content_type"])

	// 下载链接
	rec = do(t, mux, jsonReq(http.MethodGet, "/getApplicationDocumentUrl/"+id+"?key="+keys[0], ""), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["url"], keys[0])
	assert.Contains(t, resp["url"], "name=birth-certificate.pdf")
}

func TestUploadDocument_Errors(t *testing.T) {
	t.Run("未配置对象存储", func(t *testing.T) {
		_, mux := setup(nil)
		id := createApp(t, mux)
		rec := do(t, mux, uploadReq(t, id, "a.pdf", "x"), "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("申请不存在", func(t *testing.T) {
		_, mux := setup(newMockObjects())
		rec := do(t, mux, uploadReq(t, bson.NewObjectID().Hex(), "a.pdf", "x"), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("缺少 file 字段", func(t *testing.T) {
		_, mux := setup(newMockObjects())
		id := createApp(t, mux)
		rec := do(t, mux, jsonReq(http.MethodPost, "/uploadApplicationDocument/"+id, `{}`), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("对象存储失败", func(t *testing.T) {
		objects := newMockObjects()
		objects.uploadErr = errors.New("bucket unreachable")
		store, mux := setup(objects)
		id := createApp(t, mux)
		rec := do(t, mux, uploadReq(t, id, "a.pdf", "x"), "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, model.AttachmentKeys(store.apps[0]))
	})

	t.Run("登记失败时删除对象", func(t *testing.T) {
		objects := newMockObjects()
		store, mux := setup(objects)
		id := createApp(t, mux)
		store.addErr = errors.New("write conflict")
		rec := do(t, mux, uploadReq(t, id, "a.pdf", "x"), "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, objects.objects)
	})
}

func TestGetDocumentURL_Errors(t *testing.T) {
	objects := newMockObjects()
	_, mux := setup(objects)
	id := createApp(t, mux)
	other := createApp(t, mux)

	rec := do(t, mux, uploadReq(t, other, "other.pdf", "x"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var foreignKey string
	for k := range objects.objects {
		foreignKey = k
	}

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"缺少 key", "/getApplicationDocumentUrl/" + id, http.StatusBadRequest},
		{"key 属于其他申请", "/getApplicationDocumentUrl/" + id + "?key=" + foreignKey, http.StatusBadRequest},
		{"申请不存在", "/getApplicationDocumentUrl/" + bson.NewObjectID().Hex() + "?key=x", http.StatusNotFound},
		{"非法 id", "/getApplicationDocumentUrl/zzz?key=x", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, mux, jsonReq(http.MethodGet, tt.path, ""), "")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
