package models

import (
	"errors"
	"strings"
	"time"

	"Warbler/api/sqlerr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const MaxMessageLength = 140

type Message struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Text      string    `gorm:"size:140;not null;check:chk_messages_text_not_empty,text <> ''" json:"text"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (m *Message) Prepare() {
	m.Text = strings.TrimSpace(m.Text)
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return nil
}

// Create inserts the message. A missing or unknown owner is rejected by
// the foreign key.
func (m *Message) Create(db *gorm.DB) error {
	m.Prepare()
	if err := db.Omit(clause.Associations).Create(m).Error; err != nil {
		return sqlerr.Convert(err)
	}
	return nil
}

func FindMessageByID(db *gorm.DB, id uint) (*Message, error) {
	var msg Message
	err := db.Preload("User").Take(&msg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Delete removes the message and every like on it.
func (m *Message) Delete(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", m.ID).Delete(&Like{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Message{}, m.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMessageNotFound
		}
		return nil
	})
}

func (m *Message) LikeCount(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&Like{}).Where("message_id = ?", m.ID).Count(&count).Error
	return count, err
}

// LikeCounts returns the like count for each of ids.
func LikeCounts(db *gorm.DB, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		MessageID uint
		Count     int64
	}
	err := db.Model(&Like{}).
		Select("message_id, COUNT(*) AS count").
		Where("message_id IN ?", ids).
		Group("message_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.MessageID] = row.Count
	}
	return counts, nil
}

// Timeline returns the latest messages written by userID or by anyone
// userID follows.
func Timeline(db *gorm.DB, userID uint, limit int) ([]Message, error) {
	followed := db.Model(&Follow{}).Select("followed_id").Where("follower_id = ?", userID)

	var messages []Message
	err := db.Preload("User").
		Where("user_id = ? OR user_id IN (?)", userID, followed).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// LatestMessages is the timeline shown to anonymous visitors.
func LatestMessages(db *gorm.DB, limit int) ([]Message, error) {
	var messages []Message
	err := db.Preload("User").
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
