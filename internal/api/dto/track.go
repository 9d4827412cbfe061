package dto

// TrackViewDTO 观看上报
type TrackViewDTO struct {
	VideoID       *uint64 `json:"videoId"`
	WatchTime     float64 `json:"watchTime"`     // 秒
	VideoDuration float64 `json:"videoDuration"` // 秒，0 表示客户端未知
	Completed     bool    `json:"completed"`
	Replayed      bool    `json:"replayed"`
	ReplayCount   int     `json:"replayCount" validate:"gte=0"`
}

type TrackViewResultDTO struct {
	OK           bool `json:"ok"`
	Deduplicated bool `json:"deduplicated,omitempty"`
}

// TrackInteractionDTO 互动上报，type 为 like / comment / share / follow
type TrackInteractionDTO struct {
	VideoID *uint64             `json:"videoId"`
	Type    string              `json:"type" validate:"required"`
	Data    *InteractionDataDTO `json:"data"`
}

type InteractionDataDTO struct {
	Text     string `json:"text"`
	Platform string `json:"platform" validate:"max=32"`
}

type TrackInteractionResultDTO struct {
	OK bool `json:"ok"`
}
