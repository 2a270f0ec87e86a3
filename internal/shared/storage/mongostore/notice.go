package mongostore

import (
	"context"

	"school-portal/internal/shared/model"
	"school-portal/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// NoticeStore
// ============================================================================

func (s *Store) CreateNotice(ctx context.Context, notice model.Document) (*storage.InsertResult, error) {
	defer s.track("insert", ColNotices)()
	return insertOne(ctx, s.col(ColNotices), notice)
}

func (s *Store) GetNotice(ctx context.Context, id string) (model.Document, error) {
	defer s.track("find_one", ColNotices)()
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	return findOne(ctx, s.col(ColNotices), filter)
}

func (s *Store) ListNotices(ctx context.Context) ([]model.Document, error) {
	defer s.track("find", ColNotices)()
	return findMany(ctx, s.col(ColNotices), bson.D{})
}

func (s *Store) UpdateNotice(ctx context.Context, id string, fields model.Document) (*storage.UpdateResult, error) {
	defer s.track("update", ColNotices)()
	return updateSet(ctx, s.col(ColNotices), id, fields)
}

func (s *Store) DeleteNotice(ctx context.Context, id string) (*storage.DeleteResult, error) {
	defer s.track("delete", ColNotices)()
	return deleteOne(ctx, s.col(ColNotices), id)
}
