package consts

const (
	InteractionLike    = "like"
	InteractionComment = "comment"
	InteractionShare   = "share"
	InteractionFollow  = "follow"
)

const (
	AbuseActionView        = "view"
	AbuseReasonRateLimited = "rate_limited"
)

const (
	FeedSourceCache = "cache"
	FeedSourceLive  = "live"
)

const (
	DefaultAvatarURL = "default_avatar.png"
)

// UserIDKey gin 上下文与 request context 中的用户 ID 键
const UserIDKey = "user_id"
