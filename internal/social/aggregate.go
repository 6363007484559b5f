// internal/social/aggregate.go

// Package social holds the pure reshaping logic behind the platform's social
// surfaces: per-content interaction rollups and comment thread assembly.
// Everything here is side-effect free; fetching and invalidation live in the
// service layer.
package social

import "archnet/internal/models"

// InteractionSummary is what every content card and detail page renders:
// the aggregate like count plus the viewer's own membership state.
type InteractionSummary struct {
	LikesCount    int  `json:"likes_count"`
	IsLiked       bool `json:"is_liked"`
	IsSaved       bool `json:"is_saved"`
	CommentsCount int  `json:"comments_count"`
}

// Aggregate combines three independently fetched collections into one
// summary for (targetType, targetId). Any input may be nil when its fetch
// has not completed or the viewer is a guest; missing data reads as zero
// and false rather than blocking.
func Aggregate(
	targetType models.ContentType,
	targetID string,
	count *models.LikeCount,
	userLikes []models.LikeRecord,
	saved []models.SavedItem,
	commentsCount int,
) InteractionSummary {
	summary := InteractionSummary{CommentsCount: commentsCount}

	if count != nil {
		summary.LikesCount = count.Count
	}
	for _, like := range userLikes {
		if like.TargetType == targetType && like.TargetID == targetID {
			summary.IsLiked = true
			break
		}
	}
	for _, item := range saved {
		if item.TargetType == targetType && item.TargetID == targetID {
			summary.IsSaved = true
			break
		}
	}
	return summary
}

// ContainsLike reports membership of (targetType, targetId) in a like list.
func ContainsLike(likes []models.LikeRecord, targetType models.ContentType, targetID string) bool {
	for _, like := range likes {
		if like.TargetType == targetType && like.TargetID == targetID {
			return true
		}
	}
	return false
}

// ContainsSaved reports membership of (targetType, targetId) in a saved list.
func ContainsSaved(saved []models.SavedItem, targetType models.ContentType, targetID string) bool {
	for _, item := range saved {
		if item.TargetType == targetType && item.TargetID == targetID {
			return true
		}
	}
	return false
}
