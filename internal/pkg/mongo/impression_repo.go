package mongo

import (
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	impressionCollection = "feed_impressions"
	impressionTTL        = 30 * 24 * time.Hour
	impressionTimeout    = 2 * time.Second
)

type ImpressionRepo interface {
	RecordImpression(ctx context.Context, userID uint64, source string, page int, videoIDs []uint64)
	GetRecentImpressions(ctx context.Context, userID uint64, limit int64) ([]*ImpressionModel, error)
}

type impressionRepoImpl struct {
	col *mongo.Collection
	now func() time.Time
}

func NewImpressionRepo(db *mongo.Database) ImpressionRepo {
	return &impressionRepoImpl{
		col: db.Collection(impressionCollection),
		now: time.Now,
	}
}

// ensureImpressionIndexes 按用户倒序查询，过期文档由 TTL 索引清理
func ensureImpressionIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(impressionCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(impressionTTL / time.Second)),
		},
	})
	return err
}

// RecordImpression 曝光日志尽力写入，失败只记日志
func (s *impressionRepoImpl) RecordImpression(ctx context.Context, userID uint64, source string, page int, videoIDs []uint64) {
	ctx, cancel := context.WithTimeout(ctx, impressionTimeout)
	defer cancel()

	doc := &ImpressionModel{
		UserID:    userID,
		Source:    source,
		Page:      page,
		VideoIDs:  videoIDs,
		CreatedAt: s.now(),
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		log.WarnContext(ctx, "record feed impression failed", "user_id", userID, "err", err)
	}
}

// GetRecentImpressions 按时间倒序获取用户最近的曝光
func (s *impressionRepoImpl) GetRecentImpressions(ctx context.Context, userID uint64, limit int64) ([]*ImpressionModel, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*ImpressionModel
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
