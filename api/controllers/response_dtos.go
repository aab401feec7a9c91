package controllers

import (
	"time"

	"Warbler/api/models"
)

type UserDTO struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	ImageURL       string    `json:"image_url"`
	HeaderImageURL string    `json:"header_image_url"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"created_at"`
}

// ProfileDTO is only ever returned to the profile's owner.
type ProfileDTO struct {
	UserDTO
	Email string `json:"email"`
}

type UserSummaryDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	ImageURL string `json:"image_url"`
}

type UserDetailDTO struct {
	UserDTO
	Stats        models.UserStats `json:"stats"`
	IsFollowing  bool             `json:"is_following"`
	IsFollowedBy bool             `json:"is_followed_by"`
	Messages     []MessageDTO     `json:"messages"`
}

type MessageDTO struct {
	ID        uint           `json:"id"`
	Text      string         `json:"text"`
	Timestamp time.Time      `json:"timestamp"`
	User      UserSummaryDTO `json:"user"`
	Likes     int64          `json:"likes"`
	Liked     bool           `json:"liked"`
}

type AuthDTO struct {
	Token string     `json:"token"`
	User  ProfileDTO `json:"user"`
}
