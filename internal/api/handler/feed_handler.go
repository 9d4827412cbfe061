package handler

import (
	"Foryou/internal/api/dto"
	"Foryou/internal/pkg/consts"
	"Foryou/internal/pkg/response"
	"Foryou/internal/pkg/util"
	"Foryou/internal/service"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedSvc  service.FeedService
	trackSvc service.TrackService
	scoreSvc service.ScoreService
	ipSalt   string
}

func NewFeedHandler(feedSvc service.FeedService, trackSvc service.TrackService, scoreSvc service.ScoreService, ipSalt string) *FeedHandler {
	return &FeedHandler{
		feedSvc:  feedSvc,
		trackSvc: trackSvc,
		scoreSvc: scoreSvc,
		ipSalt:   ipSalt,
	}
}

// ForYou GET /api/feed/foryou
func (s *FeedHandler) ForYou(c *gin.Context) {
	// 非数字参数按缺省处理，由 Normalize 修正
	query := dto.ForYouQueryDTO{
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	}
	query.Normalize()

	userID := c.GetUint64(consts.UserIDKey)
	feed, err := s.feedSvc.GetForYou(c.Request.Context(), userID, query.Page, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// TrackView POST /api/feed/track-view
func (s *FeedHandler) TrackView(c *gin.Context) {
	var req dto.TrackViewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, fmt.Errorf("%w: %v", service.ErrParamInvalid, err))
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	userID := c.GetUint64(consts.UserIDKey)
	ipHash := util.HashIP(c.ClientIP(), s.ipSalt)
	res, err := s.trackSvc.TrackView(c.Request.Context(), userID, ipHash, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// TrackInteraction POST /api/feed/track-interaction
func (s *FeedHandler) TrackInteraction(c *gin.Context) {
	var req dto.TrackInteractionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, fmt.Errorf("%w: %v", service.ErrParamInvalid, err))
		return
	}
	if req.Type == "" {
		response.Error(c, service.ErrInteractionType)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	userID := c.GetUint64(consts.UserIDKey)
	res, err := s.trackSvc.TrackInteraction(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetScore GET /api/feed/score/:videoId
func (s *FeedHandler) GetScore(c *gin.Context) {
	videoID, err := strconv.ParseUint(c.Param("videoId"), 10, 64)
	if err != nil || videoID == 0 {
		response.Error(c, service.ErrVideoIDRequired)
		return
	}

	score, err := s.scoreSvc.GetScore(c.Request.Context(), videoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.VideoScoreResultDTO{Score: score})
}

func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return v
}
