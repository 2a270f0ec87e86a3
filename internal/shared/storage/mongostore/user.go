package mongostore

import (
	"context"

	"school-portal/internal/shared/model"
	"school-portal/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// UserStore
// ============================================================================

func (s *Store) CreateUser(ctx context.Context, user model.Document) (*storage.InsertResult, error) {
	defer s.track("insert", ColUsers)()
	return insertOne(ctx, s.col(ColUsers), user)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (model.Document, error) {
	defer s.track("find_one", ColUsers)()
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	return findOne(ctx, s.col(ColUsers), filter)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.Document, error) {
	defer s.track("find_one", ColUsers)()
	return findOne(ctx, s.col(ColUsers), bson.D{{Key: model.FieldEmail, Value: email}})
}

func (s *Store) ListUsers(ctx context.Context) ([]model.Document, error) {
	defer s.track("find", ColUsers)()
	return findMany(ctx, s.col(ColUsers), bson.D{})
}

func (s *Store) ListUsersByRole(ctx context.Context, role model.UserRole) ([]model.Document, error) {
	defer s.track("find", ColUsers)()
	return findMany(ctx, s.col(ColUsers), bson.D{{Key: model.FieldRole, Value: string(role)}})
}

func (s *Store) UpdateUser(ctx context.Context, id string, fields model.Document) (*storage.UpdateResult, error) {
	defer s.track("update", ColUsers)()
	return updateSet(ctx, s.col(ColUsers), id, fields)
}

func (s *Store) SetUserRole(ctx context.Context, id string, role model.UserRole) (*storage.UpdateResult, error) {
	defer s.track("update", ColUsers)()
	return updateSet(ctx, s.col(ColUsers), id, bson.D{{Key: model.FieldRole, Value: string(role)}})
}

func (s *Store) DeleteUser(ctx context.Context, id string) (*storage.DeleteResult, error) {
	defer s.track("delete", ColUsers)()
	return deleteOne(ctx, s.col(ColUsers), id)
}
