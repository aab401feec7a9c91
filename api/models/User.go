package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"Warbler/api/security"
	"Warbler/api/sqlerr"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

type User struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username       string    `gorm:"size:255;not null;uniqueIndex;check:chk_users_username_not_empty,username <> ''" json:"username"`
	Email          string    `gorm:"size:255;not null;uniqueIndex;check:chk_users_email_not_empty,email <> ''" json:"email"`
	Password       string    `gorm:"size:255;not null" json:"-"`
	ImageURL       string    `gorm:"type:text" json:"image_url"`
	HeaderImageURL string    `gorm:"type:text" json:"header_image_url"`
	Bio            string    `gorm:"type:text" json:"bio"`
	Location       string    `gorm:"type:text" json:"location"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type SignupParams struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

// ProfileUpdate carries the editable profile fields. Empty image URLs fall
// back to the defaults.
type ProfileUpdate struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
}

// UserStats are the counters shown on a profile page.
type UserStats struct {
	Messages  int64 `json:"messages"`
	Following int64 `json:"following"`
	Followers int64 `json:"followers"`
	Likes     int64 `json:"likes"`
}

func (u *User) String() string {
	return fmt.Sprintf("<User #%d: %s, %s>", u.ID, u.Username, u.Email)
}

func (u *User) Prepare() {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if strings.TrimSpace(u.ImageURL) == "" {
		u.ImageURL = DefaultImageURL
	}
	if strings.TrimSpace(u.HeaderImageURL) == "" {
		u.HeaderImageURL = DefaultHeaderImageURL
	}
}

// Signup hashes the password and inserts the user. Uniqueness and empty
// username or email are rejected by the database.
func Signup(db *gorm.DB, params SignupParams) (*User, error) {
	hashedPassword, err := hashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username: params.Username,
		Email:    params.Email,
		Password: string(hashedPassword),
		ImageURL: params.ImageURL,
	}
	user.Prepare()

	if err := db.Create(user).Error; err != nil {
		return nil, sqlerr.Convert(err)
	}
	return user, nil
}

// Authenticate returns the user whose username and password match.
func Authenticate(db *gorm.DB, username, password string) (*User, error) {
	user, err := FindUserByUsername(db, username)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := security.VerifyPassword(user.Password, password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return security.VerifyPassword(u.Password, password) == nil
}

func FindUserByID(db *gorm.DB, id uint) (*User, error) {
	var user User
	err := db.Take(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByUsername(db *gorm.DB, username string) (*User, error) {
	var user User
	err := db.Where("username = ?", username).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByIdentifier accepts a numeric id or a username.
func FindUserByIdentifier(db *gorm.DB, identifier string) (*User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrUserNotFound
	}
	if id, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		user, err := FindUserByID(db, uint(id))
		if !errors.Is(err, ErrUserNotFound) {
			return user, err
		}
	}
	return FindUserByUsername(db, identifier)
}

func FindUserByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// SearchUsers matches usernames case-insensitively; an empty query lists
// everyone.
func SearchUsers(db *gorm.DB, q string, limit int) ([]User, error) {
	query := db.Model(&User{}).Order("username ASC")
	if q = strings.TrimSpace(q); q != "" {
		query = query.Where(`LOWER(username) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(q))+"%")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var users []User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (u *User) Follow(db *gorm.DB, other *User) (bool, error) {
	return createFollow(db, u.ID, other.ID)
}

func (u *User) Unfollow(db *gorm.DB, other *User) (bool, error) {
	return deleteFollow(db, u.ID, other.ID)
}

// IsFollowing reports whether u follows other.
func (u *User) IsFollowing(db *gorm.DB, other *User) (bool, error) {
	return followExists(db, u.ID, other.ID)
}

// IsFollowedBy reports whether other follows u.
func (u *User) IsFollowedBy(db *gorm.DB, other *User) (bool, error) {
	return followExists(db, other.ID, u.ID)
}

// Following lists the users u follows, most recent first.
func (u *User) Following(db *gorm.DB) ([]User, error) {
	var users []User
	err := db.Model(&User{}).
		Select("users.*").
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", u.ID).
		Order("follows.created_at DESC").
		Order("users.id DESC").
		Find(&users).Error
	return users, err
}

// Followers lists the users following u, most recent first.
func (u *User) Followers(db *gorm.DB) ([]User, error) {
	var users []User
	err := db.Model(&User{}).
		Select("users.*").
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", u.ID).
		Order("follows.created_at DESC").
		Order("users.id DESC").
		Find(&users).Error
	return users, err
}

// Messages lists u's messages, newest first. limit <= 0 means all.
func (u *User) Messages(db *gorm.DB, limit int) ([]Message, error) {
	query := db.Where("user_id = ?", u.ID).Order("timestamp DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var messages []Message
	err := query.Find(&messages).Error
	return messages, err
}

// LikedMessages lists the messages u liked, most recently liked first.
func (u *User) LikedMessages(db *gorm.DB) ([]Message, error) {
	var messages []Message
	err := db.Model(&Message{}).
		Select("messages.*").
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", u.ID).
		Order("likes.created_at DESC").
		Order("likes.id DESC").
		Preload("User").
		Find(&messages).Error
	return messages, err
}

func (u *User) Like(db *gorm.DB, msg *Message) (bool, error) {
	return createLike(db, u.ID, msg)
}

func (u *User) Unlike(db *gorm.DB, msg *Message) (bool, error) {
	return deleteLike(db, u.ID, msg.ID)
}

// ToggleLike likes msg if u has not, otherwise removes the like. It
// reports whether the message is liked afterwards.
func (u *User) ToggleLike(db *gorm.DB, msg *Message) (bool, error) {
	if msg.UserID == u.ID {
		return false, ErrOwnMessage
	}

	liked := false
	err := db.Transaction(func(tx *gorm.DB) error {
		removed, err := deleteLike(tx, u.ID, msg.ID)
		if err != nil {
			return err
		}
		if removed {
			return nil
		}
		liked, err = createLike(tx, u.ID, msg)
		return err
	})
	return liked, err
}

func (u *User) HasLiked(db *gorm.DB, msg *Message) (bool, error) {
	var count int64
	err := db.Model(&Like{}).
		Where("user_id = ? AND message_id = ?", u.ID, msg.ID).
		Count(&count).Error
	return count > 0, err
}

// LikedMessageIDs returns the subset of ids u has liked.
func (u *User) LikedMessageIDs(db *gorm.DB, ids []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool, len(ids))
	if len(ids) == 0 {
		return liked, nil
	}

	var rows []uint
	err := db.Model(&Like{}).
		Where("user_id = ? AND message_id IN ?", u.ID, ids).
		Pluck("message_id", &rows).Error
	if err != nil {
		return nil, err
	}
	for _, id := range rows {
		liked[id] = true
	}
	return liked, nil
}

func (u *User) Stats(db *gorm.DB) (UserStats, error) {
	var stats UserStats
	if err := db.Model(&Message{}).Where("user_id = ?", u.ID).Count(&stats.Messages).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&Follow{}).Where("follower_id = ?", u.ID).Count(&stats.Following).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&Follow{}).Where("followed_id = ?", u.ID).Count(&stats.Followers).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&Like{}).Where("user_id = ?", u.ID).Count(&stats.Likes).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

// FollowerIDs lists the ids of everyone following u.
func (u *User) FollowerIDs(db *gorm.DB) ([]uint, error) {
	var ids []uint
	err := db.Model(&Follow{}).Where("followed_id = ?", u.ID).Pluck("follower_id", &ids).Error
	return ids, err
}

func (u *User) UpdateProfile(db *gorm.DB, update ProfileUpdate) error {
	updated := *u
	updated.Username = update.Username
	updated.Email = update.Email
	updated.ImageURL = update.ImageURL
	updated.HeaderImageURL = update.HeaderImageURL
	updated.Bio = strings.TrimSpace(update.Bio)
	updated.Location = strings.TrimSpace(update.Location)
	updated.Prepare()

	err := db.Model(&User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"username":         updated.Username,
		"email":            updated.Email,
		"image_url":        updated.ImageURL,
		"header_image_url": updated.HeaderImageURL,
		"bio":              updated.Bio,
		"location":         updated.Location,
	}).Error
	if err != nil {
		return sqlerr.Convert(err)
	}

	*u = updated
	return nil
}

// SetImage replaces either the avatar or the header image.
func (u *User) SetImage(db *gorm.DB, header bool, url string) error {
	column := "image_url"
	if header {
		column = "header_image_url"
	}
	if err := db.Model(&User{}).Where("id = ?", u.ID).Update(column, url).Error; err != nil {
		return err
	}
	if header {
		u.HeaderImageURL = url
	} else {
		u.ImageURL = url
	}
	return nil
}

func (u *User) SetPassword(db *gorm.DB, password string) error {
	hashedPassword, err := hashPassword(password)
	if err != nil {
		return err
	}

	if err := db.Model(&User{}).Where("id = ?", u.ID).Update("password", string(hashedPassword)).Error; err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// Delete removes the user along with their messages, the likes on those
// messages, their own likes and every follow edge touching them.
func (u *User) Delete(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		ownMessages := tx.Model(&Message{}).Select("id").Where("user_id = ?", u.ID)
		if err := tx.Where("message_id IN (?)", ownMessages).Delete(&Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", u.ID, u.ID).Delete(&Follow{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&User{}, u.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func hashPassword(password string) ([]byte, error) {
	if password == "" || len(password) > security.MaxPasswordBytes {
		return nil, ErrInvalidPassword
	}
	hashed, err := security.Hash(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrInvalidPassword
	}
	return hashed, err
}
