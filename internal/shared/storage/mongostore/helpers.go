package mongostore

import (
	"context"
	"errors"
	"fmt"

	"school-portal/internal/shared/model"
	"school-portal/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// wrapError 将 MongoDB 错误转换为领域错误
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrDuplicate
	}
	return err
}

// parseID 将路由参数解析为 ObjectID
func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("%w: %q", storage.ErrInvalidID, id)
	}
	return oid, nil
}

// byID 构造 _id 过滤条件
func byID(id string) (bson.D, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return bson.D{{Key: "_id", Value: oid}}, nil
}

// findOne 查找单个文档
// 文档不存在时返回 (nil, nil)
func findOne(ctx context.Context, col *mongo.Collection, filter bson.D) (model.Document, error) {
	var result model.Document
	err := col.FindOne(ctx, filter).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, wrapError(err)
	}
	return result, nil
}

// findMany 查找多个文档，结果为空时返回空切片而不是 nil
func findMany(ctx context.Context, col *mongo.Collection, filter bson.D, opts ...options.Lister[options.FindOptions]) ([]model.Document, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, wrapError(err)
	}
	defer cursor.Close(ctx)

	results := []model.Document{}
	for cursor.Next(ctx) {
		var item model.Document
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// insertOne 插入单个文档
// 文档没有 _id 时先生成 ObjectID 并写回 doc，调用方可以直接拿到完整文档
func insertOne(ctx context.Context, col *mongo.Collection, doc model.Document) (*storage.InsertResult, error) {
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = bson.NewObjectID()
	}
	res, err := col.InsertOne(ctx, doc)
	if err != nil {
		return nil, wrapError(err)
	}
	return &storage.InsertResult{
		Acknowledged: res.Acknowledged,
		InsertedID:   res.InsertedID,
	}, nil
}

// updateOne 按 _id 执行更新；未匹配不视为错误，由 MatchedCount 体现
func updateOne(ctx context.Context, col *mongo.Collection, id string, update bson.D) (*storage.UpdateResult, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	res, err := col.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, wrapError(err)
	}
	return &storage.UpdateResult{
		Acknowledged:  res.Acknowledged,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

// updateSet 按 _id 执行 $set
func updateSet(ctx context.Context, col *mongo.Collection, id string, fields interface{}) (*storage.UpdateResult, error) {
	return updateOne(ctx, col, id, bson.D{{Key: "$set", Value: fields}})
}

// deleteOne 按 _id 删除；未匹配返回 DeletedCount=0 而不是错误
func deleteOne(ctx context.Context, col *mongo.Collection, id string) (*storage.DeleteResult, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	res, err := col.DeleteOne(ctx, filter)
	if err != nil {
		return nil, wrapError(err)
	}
	return &storage.DeleteResult{
		Acknowledged: res.Acknowledged,
		DeletedCount: res.DeletedCount,
	}, nil
}
