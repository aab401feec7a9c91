package models

import (
	"time"

	"Warbler/api/sqlerr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Follow is a directed edge: FollowerID follows FollowedID.
type Follow struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false;index:idx_follows_follower_created,priority:1;check:chk_follows_no_self_follow,follower_id <> followed_id" json:"follower_id"`
	FollowedID uint      `gorm:"primaryKey;autoIncrement:false;index:idx_follows_followed_created,priority:1" json:"followed_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_follows_followed_created,priority:2;index:idx_follows_follower_created,priority:2" json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Followed User `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"-"`
}

func createFollow(db *gorm.DB, followerID, followedID uint) (bool, error) {
	if followerID == followedID {
		return false, ErrSelfFollow
	}

	result := db.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Follow{FollowerID: followerID, FollowedID: followedID})
	if result.Error != nil {
		return false, sqlerr.Convert(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func deleteFollow(db *gorm.DB, followerID, followedID uint) (bool, error) {
	result := db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).Delete(&Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func followExists(db *gorm.DB, followerID, followedID uint) (bool, error) {
	var exists bool
	err := db.Raw(
		"SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = ? AND followed_id = ?)",
		followerID, followedID,
	).Scan(&exists).Error
	return exists, err
}
