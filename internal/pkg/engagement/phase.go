package engagement

import (
	"Foryou/internal/model"
	"Foryou/internal/pkg/util"
)

const (
	TestGroupMin             = 200
	TestGroupMax             = 500
	EngagementThreshold      = 0.15
	ExpandingThresholdFactor = 0.8
	ExpansionMultiplier      = 5
)

// PhaseController 视频分发阶段状态机：
// test -> expanding | limited，expanding -> viral | stable，其余为终态
type PhaseController struct {
	rand util.Random
}

func NewPhaseController(rand util.Random) *PhaseController {
	return &PhaseController{rand: rand}
}

// NewScoreRow 首次计算得分时创建的初始行，测试组规模在 [TestGroupMin, TestGroupMax] 内随机
func (s *PhaseController) NewScoreRow(videoID uint64) *model.VideoScore {
	size := int64(TestGroupMin + s.rand.IntN(TestGroupMax-TestGroupMin+1))
	return &model.VideoScore{
		VideoID:           videoID,
		TestGroupSize:     size,
		DistributionPhase: model.PhaseTest,
		MaxReach:          size,
	}
}

// Advance 写入最新聚合计数与得分，并推进至多一次阶段迁移，返回是否发生迁移
// countEvent 为 false 时只刷新数据，不计入测试组曝光
func (s *PhaseController) Advance(row *model.VideoScore, c Counts, countEvent bool) bool {
	row.TotalWatchTime = c.WatchTime
	row.TotalLikes = c.Likes
	row.TotalComments = c.Comments
	row.TotalShares = c.Shares
	row.TotalCompletions = c.Completions
	row.TotalViews = c.Views
	row.Score = Score(c)
	if countEvent {
		row.TestGroupViews++
	}

	switch row.DistributionPhase {
	case model.PhaseTest:
		if row.TestGroupViews < row.TestGroupSize {
			return false
		}
		row.TestGroupEngagement = EngagementRatio(c)
		if row.TestGroupEngagement >= EngagementThreshold {
			row.DistributionPhase = model.PhaseExpanding
			row.MaxReach *= ExpansionMultiplier
		} else {
			row.DistributionPhase = model.PhaseLimited
			row.MaxReach /= 2
		}
		return true
	case model.PhaseExpanding:
		if row.TotalViews < row.MaxReach {
			return false
		}
		if EngagementRatio(c) >= EngagementThreshold*ExpandingThresholdFactor {
			row.DistributionPhase = model.PhaseViral
			row.MaxReach *= ExpansionMultiplier
		} else {
			row.DistributionPhase = model.PhaseStable
		}
		return true
	default:
		return false
	}
}

// Eligible 只有限流阶段的视频不进入通用候选池
func Eligible(phase model.DistributionPhase) bool {
	return phase != model.PhaseLimited
}
