package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResetPassword struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"size:255;not null;index" json:"email"`
	Token     string    `gorm:"size:255;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IssueResetToken stores a fresh single-use token for email. Earlier tokens
// for the same address are discarded.
func IssueResetToken(db *gorm.DB, email string, ttl time.Duration) (*ResetPassword, error) {
	reset := &ResetPassword{
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Token:     strings.ReplaceAll(uuid.NewString(), "-", ""),
		ExpiresAt: time.Now().UTC().Add(ttl),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", reset.Email).Delete(&ResetPassword{}).Error; err != nil {
			return err
		}
		return tx.Create(reset).Error
	})
	if err != nil {
		return nil, err
	}
	return reset, nil
}

// ConsumeResetToken sets a new password for the token's owner and burns
// the token.
func ConsumeResetToken(db *gorm.DB, token, newPassword string) (*User, error) {
	if newPassword == "" {
		return nil, ErrInvalidPassword
	}

	var user *User
	err := db.Transaction(func(tx *gorm.DB) error {
		var reset ResetPassword
		err := tx.Where("token = ? AND expires_at > ?", token, time.Now().UTC()).Take(&reset).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		if err != nil {
			return err
		}

		user, err = FindUserByEmail(tx, reset.Email)
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		if err != nil {
			return err
		}

		if err := user.SetPassword(tx, newPassword); err != nil {
			return err
		}
		return tx.Where("email = ?", reset.Email).Delete(&ResetPassword{}).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// PurgeExpiredResetTokens deletes tokens that expired before now.
func PurgeExpiredResetTokens(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at <= ?", now.UTC()).Delete(&ResetPassword{})
	return result.RowsAffected, result.Error
}
