package dto

const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 50
)

// ForYouQueryDTO 推荐流查询参数，非法值在 Normalize 中修正
type ForYouQueryDTO struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize page 至少为 1，limit 落在 [1, 50]，缺省 20
func (q *ForYouQueryDTO) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.Limit == 0:
		q.Limit = DefaultFeedLimit
	case q.Limit < 1:
		q.Limit = 1
	case q.Limit > MaxFeedLimit:
		q.Limit = MaxFeedLimit
	}
}

// FeedDTO 推荐流响应
type FeedDTO struct {
	Videos  []*VideoDTO `json:"videos"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
	HasMore bool        `json:"hasMore"`
	Total   int         `json:"total"`
	Source  string      `json:"source"`
}
