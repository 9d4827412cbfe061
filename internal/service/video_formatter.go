package service

import (
	"Foryou/internal/api/dto"
	"Foryou/internal/model"
	"Foryou/internal/pkg/consts"
	"Foryou/internal/pkg/util"
	"Foryou/internal/repository"
	"context"
	"time"
)

const originalSoundTitle = "Original Sound"

// MediaURLResolver 把存储中的对象键解析为客户端可访问的地址
type MediaURLResolver interface {
	Resolve(ctx context.Context, key string) string
}

// VideoFormatter 把视频模型组装为对外 DTO，并批量补齐当前用户的点赞/收藏/关注状态
type VideoFormatter struct {
	resolver        MediaURLResolver
	interactionRepo repository.InteractionRepo
}

func NewVideoFormatter(resolver MediaURLResolver, interactionRepo repository.InteractionRepo) *VideoFormatter {
	return &VideoFormatter{resolver: resolver, interactionRepo: interactionRepo}
}

// Format following 为当前用户的关注集合，匿名用户传 nil 且 userID 为 0
func (s *VideoFormatter) Format(ctx context.Context, userID uint64, videos []*model.Video, following map[uint64]struct{}) ([]*dto.VideoDTO, error) {
	out := make([]*dto.VideoDTO, 0, len(videos))
	if len(videos) == 0 {
		return out, nil
	}

	liked := map[uint64]struct{}{}
	saved := map[uint64]struct{}{}
	if userID != 0 {
		ids := make([]uint64, 0, len(videos))
		for _, v := range videos {
			ids = append(ids, v.ID)
		}

		likedIDs, err := s.interactionRepo.GetLikedVideoIDs(ctx, userID, ids)
		if err != nil {
			return nil, classifyStoreErr("load liked videos", err)
		}
		savedIDs, err := s.interactionRepo.GetSavedVideoIDs(ctx, userID, ids)
		if err != nil {
			return nil, classifyStoreErr("load saved videos", err)
		}
		liked = toSet(likedIDs)
		saved = toSet(savedIDs)
	}

	for _, v := range videos {
		item := s.formatOne(ctx, v)
		_, item.IsLiked = liked[v.ID]
		_, item.IsSaved = saved[v.ID]
		_, item.IsFollowing = following[v.UserID]
		out = append(out, item)
	}
	return out, nil
}

func (s *VideoFormatter) formatOne(ctx context.Context, v *model.Video) *dto.VideoDTO {
	name := v.User.Nickname
	if name == "" {
		name = v.User.Username
	}
	avatar := v.User.AvatarURL
	if avatar == "" {
		avatar = consts.DefaultAvatarURL
	}

	music := dto.VideoMusicDTO{Title: originalSoundTitle, Author: name}
	if v.MusicTitle != nil && *v.MusicTitle != "" {
		music.Title = *v.MusicTitle
	}

	hashtags := make([]string, 0, len(v.Hashtags))
	hashtags = append(hashtags, v.Hashtags...)

	return &dto.VideoDTO{
		ID:        v.ID,
		URL:       s.resolve(ctx, v.VideoURL),
		Thumbnail: s.resolve(ctx, v.ThumbnailURL),
		Duration:  util.FormatDuration(v.Duration),
		User: dto.VideoUserDTO{
			ID:         v.UserID,
			Username:   v.User.Username,
			Name:       name,
			Avatar:     s.resolve(ctx, avatar),
			IsVerified: v.User.IsVerified,
			Followers:  v.User.FollowersCount,
			Following:  v.User.FollowingCount,
		},
		Description: v.Caption,
		Hashtags:    hashtags,
		Music:       music,
		Stats: dto.VideoStatsDTO{
			Views:    v.ViewsCount,
			Likes:    v.LikesCount,
			Comments: v.CommentsCount,
			Shares:   v.SharesCount,
			Saves:    v.SavesCount,
		},
		CreatedAt:       v.CreatedAt.UTC().Format(time.RFC3339),
		EngagementScore: v.EngagementScore,
	}
}

func (s *VideoFormatter) resolve(ctx context.Context, key string) string {
	if key == "" || s.resolver == nil {
		return key
	}
	return s.resolver.Resolve(ctx, key)
}

func toSet(ids []uint64) map[uint64]struct{} {
	out := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
