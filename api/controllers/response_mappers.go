package controllers

import (
	"Warbler/api/models"

	"gorm.io/gorm"
)

func userToDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Username:       user.Username,
		ImageURL:       user.ImageURL,
		HeaderImageURL: user.HeaderImageURL,
		Bio:            user.Bio,
		Location:       user.Location,
		CreatedAt:      user.CreatedAt,
	}
}

func usersToDTO(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, userToDTO(&users[i]))
	}
	return out
}

func profileToDTO(user *models.User) ProfileDTO {
	return ProfileDTO{UserDTO: userToDTO(user), Email: user.Email}
}

func userSummaryToDTO(user *models.User) UserSummaryDTO {
	return UserSummaryDTO{ID: user.ID, Username: user.Username, ImageURL: user.ImageURL}
}

// messagesToDTO attaches like counts and, for a signed-in viewer, whether
// the viewer liked each message. Messages must have User preloaded.
func messagesToDTO(db *gorm.DB, viewerID uint, messages []models.Message) ([]MessageDTO, error) {
	out := make([]MessageDTO, 0, len(messages))
	if len(messages) == 0 {
		return out, nil
	}

	ids := make([]uint, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.ID)
	}

	counts, err := models.LikeCounts(db, ids)
	if err != nil {
		return nil, err
	}

	liked := map[uint]bool{}
	if viewerID != 0 {
		viewer := &models.User{ID: viewerID}
		if liked, err = viewer.LikedMessageIDs(db, ids); err != nil {
			return nil, err
		}
	}

	for i := range messages {
		msg := &messages[i]
		out = append(out, MessageDTO{
			ID:        msg.ID,
			Text:      msg.Text,
			Timestamp: msg.Timestamp,
			User:      userSummaryToDTO(&msg.User),
			Likes:     counts[msg.ID],
			Liked:     liked[msg.ID],
		})
	}
	return out, nil
}
