package forms

// MessageForm posts a new message.
type MessageForm struct {
	Text string `form:"text" json:"text" binding:"required,max=140"`
}

// UserAddForm signs up a new user.
type UserAddForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Email    string `form:"email" json:"email" binding:"required,mailformat"`
	Password string `form:"password" json:"password" binding:"min=6,max=72"`
	ImageURL string `form:"image_url" json:"image_url"`
}

type LoginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"min=6,max=72"`
}

// EditUserForm edits the current profile. Password is the current password
// and must match before anything is saved.
type EditUserForm struct {
	Email          string `form:"email" json:"email" binding:"required,mailformat"`
	Username       string `form:"username" json:"username" binding:"required,min=3,max=20"`
	ImageURL       string `form:"image_url" json:"image_url"`
	HeaderImageURL string `form:"header_image_url" json:"header_image_url"`
	Bio            string `form:"bio" json:"bio" binding:"max=150"`
	Location       string `form:"location" json:"location"`
	Password       string `form:"password" json:"password" binding:"required,max=72"`
}

// AddLikesForm toggles a like. Update is the page the client returns to.
type AddLikesForm struct {
	ID     uint   `form:"id" json:"id" binding:"required"`
	Update string `form:"update" json:"update" binding:"required"`
}

type ForgotPasswordForm struct {
	Email string `form:"email" json:"email" binding:"required,mailformat"`
}

type ResetPasswordForm struct {
	Token       string `form:"token" json:"token" binding:"required"`
	NewPassword string `form:"new_password" json:"new_password" binding:"min=6,max=72"`
}
