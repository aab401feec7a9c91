package controllers

import (
	"context"
	"fmt"

	"Warbler/api/cache"
	"Warbler/api/models"

	"gorm.io/gorm"
)

const timelineCachePrefix = "timeline:"

func timelineCacheKey(userID uint) string {
	if userID == 0 {
		return timelineCachePrefix + "anon"
	}
	return fmt.Sprintf("%s%d", timelineCachePrefix, userID)
}

func invalidateTimelines(userIDs ...uint) {
	if !cache.Enabled() || len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, timelineCacheKey(id))
	}
	_ = cache.Delete(context.Background(), keys...)
}

// invalidateAuthorTimelines drops every cached timeline the author's
// messages appear on.
func invalidateAuthorTimelines(db *gorm.DB, author *models.User) {
	if !cache.Enabled() {
		return
	}
	ids, err := author.FollowerIDs(db)
	if err != nil {
		ids = nil
	}
	invalidateTimelines(append(ids, author.ID, 0)...)
}

func invalidateAllTimelines() {
	_ = cache.DeleteByPrefix(context.Background(), timelineCachePrefix)
}
