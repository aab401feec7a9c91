package models

import (
	"time"

	"Warbler/api/sqlerr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Like struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_message,priority:1" json:"user_id"`
	MessageID uint      `gorm:"not null;uniqueIndex:idx_likes_user_message,priority:2;index" json:"message_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User    User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Message Message `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func createLike(db *gorm.DB, userID uint, msg *Message) (bool, error) {
	if msg.UserID == userID {
		return false, ErrOwnMessage
	}

	result := db.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Like{UserID: userID, MessageID: msg.ID})
	if result.Error != nil {
		return false, sqlerr.Convert(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func deleteLike(db *gorm.DB, userID, messageID uint) (bool, error) {
	result := db.Where("user_id = ? AND message_id = ?", userID, messageID).Delete(&Like{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
