package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImpressionModel 一次推荐流曝光
type ImpressionModel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    uint64             `bson:"user_id" json:"userId"` // 匿名为 0
	Source    string             `bson:"source" json:"source"`  // cache / live
	Page      int                `bson:"page" json:"page"`
	VideoIDs  []uint64           `bson:"video_ids" json:"videoIds"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
