package mongostore

import (
	"context"

	"school-portal/internal/shared/model"
	"school-portal/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// ApplicationStore
// ============================================================================

func (s *Store) CreateApplication(ctx context.Context, app model.Document) (*storage.InsertResult, error) {
	defer s.track("insert", ColApplications)()
	return insertOne(ctx, s.col(ColApplications), app)
}

func (s *Store) GetApplication(ctx context.Context, id string) (model.Document, error) {
	defer s.track("find_one", ColApplications)()
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	return findOne(ctx, s.col(ColApplications), filter)
}

func (s *Store) ListApplications(ctx context.Context) ([]model.Document, error) {
	defer s.track("find", ColApplications)()
	return findMany(ctx, s.col(ColApplications), bson.D{})
}

// UpdateApplicationStatus 只更新 status 字段，status 为 nil 时写入 null
func (s *Store) UpdateApplicationStatus(ctx context.Context, id string, status interface{}) (*storage.UpdateResult, error) {
	defer s.track("update", ColApplications)()
	return updateSet(ctx, s.col(ColApplications), id, bson.D{{Key: model.FieldStatus, Value: status}})
}

// AddApplicationDocument 向申请的 documents 数组追加一条附件记录
func (s *Store) AddApplicationDocument(ctx context.Context, id string, doc model.Document) (*storage.UpdateResult, error) {
	defer s.track("update", ColApplications)()
	return updateOne(ctx, s.col(ColApplications), id, bson.D{
		{Key: "$push", Value: bson.D{{Key: model.FieldDocuments, Value: doc}}},
	})
}

func (s *Store) DeleteApplication(ctx context.Context, id string) (*storage.DeleteResult, error) {
	defer s.track("delete", ColApplications)()
	return deleteOne(ctx, s.col(ColApplications), id)
}
