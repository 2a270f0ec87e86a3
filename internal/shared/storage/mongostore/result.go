package mongostore

import (
	"context"

	"school-portal/internal/shared/model"
	"school-portal/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// ResultStore
// ============================================================================

func (s *Store) CreateResult(ctx context.Context, result model.Document) (*storage.InsertResult, error) {
	defer s.track("insert", ColResults)()
	return insertOne(ctx, s.col(ColResults), result)
}

func (s *Store) ListResults(ctx context.Context) ([]model.Document, error) {
	defer s.track("find", ColResults)()
	return findMany(ctx, s.col(ColResults), bson.D{})
}

// FindResult 按学号、班级、毕业年份查询成绩
//
// 查询值用 int64，不截断；MongoDB 对数字做跨类型比较，
// int32/int64/double 存储的记录都能匹配。
func (s *Store) FindResult(ctx context.Context, roll, studentClass, passingYear int) (model.Document, error) {
	defer s.track("find_one", ColResults)()
	return findOne(ctx, s.col(ColResults), bson.D{
		{Key: "roll", Value: int64(roll)},
		{Key: "studentClass", Value: int64(studentClass)},
		{Key: "passingYear", Value: int64(passingYear)},
	})
}
