package forms

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
	m.Run()
}

func fields(errs []FieldError) map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field] = e.Error
	}
	return out
}

func TestMessageForm(t *testing.T) {
	assert.Nil(t, Validate(&MessageForm{Text: "hello"}))

	errs := fields(Validate(&MessageForm{}))
	assert.Equal(t, "is required", errs["text"])

	errs = fields(Validate(&MessageForm{Text: strings.Repeat("a", 141)}))
	assert.Equal(t, "must not exceed 140 characters", errs["text"])
}

func TestUserAddForm(t *testing.T) {
	valid := UserAddForm{Username: "testuser", Email: "test@test.com", Password: "password"}
	assert.Nil(t, Validate(&valid))

	errs := fields(Validate(&UserAddForm{}))
	assert.Equal(t, "is required", errs["username"])
	assert.Equal(t, "is required", errs["email"])
	assert.Equal(t, "must be at least 6 characters", errs["password"])
	assert.NotContains(t, errs, "image_url")

	errs = fields(Validate(&UserAddForm{Username: "u", Email: "not-an-email", Password: "12345"}))
	assert.Equal(t, "must be a valid email address", errs["email"])
	assert.Equal(t, "must be at least 6 characters", errs["password"])

	errs = fields(Validate(&UserAddForm{Username: "u", Email: "test@test.com", Password: strings.Repeat("a", 73)}))
	assert.Equal(t, "must not exceed 72 characters", errs["password"])
	assert.Nil(t, Validate(&UserAddForm{Username: "u", Email: "test@test.com", Password: strings.Repeat("a", 72)}))
}

func TestLoginForm(t *testing.T) {
	assert.Nil(t, Validate(&LoginForm{Username: "testuser", Password: "password"}))

	errs := fields(Validate(&LoginForm{Password: "short"}))
	assert.Equal(t, "is required", errs["username"])
	assert.Equal(t, "must be at least 6 characters", errs["password"])
}

func TestEditUserForm(t *testing.T) {
	valid := EditUserForm{Email: "test@test.com", Username: "testuser", Password: "password"}
	assert.Nil(t, Validate(&valid))

	errs := fields(Validate(&EditUserForm{
		Email:    "test@test.com",
		Username: "ab",
		Bio:      strings.Repeat("b", 151),
	}))
	assert.Equal(t, "must be at least 3 characters", errs["username"])
	assert.Equal(t, "must not exceed 150 characters", errs["bio"])
	assert.Equal(t, "is required", errs["password"])

	errs = fields(Validate(&EditUserForm{Email: "test@test.com", Username: strings.Repeat("u", 21), Password: "x"}))
	assert.Equal(t, "must not exceed 20 characters", errs["username"])
}

func TestAddLikesForm(t *testing.T) {
	assert.Nil(t, Validate(&AddLikesForm{ID: 1, Update: "/"}))

	errs := fields(Validate(&AddLikesForm{}))
	assert.Equal(t, "is required", errs["id"])
	assert.Equal(t, "is required", errs["update"])
}

func TestPasswordForms(t *testing.T) {
	assert.Nil(t, Validate(&ForgotPasswordForm{Email: "test@test.com"}))
	assert.Contains(t, fields(Validate(&ForgotPasswordForm{Email: "nope"})), "email")

	assert.Nil(t, Validate(&ResetPasswordForm{Token: "abc", NewPassword: "password"}))
	errs := fields(Validate(&ResetPasswordForm{}))
	assert.Equal(t, "is required", errs["token"])
	assert.Equal(t, "must be at least 6 characters", errs["new_password"])

	errs = fields(Validate(&ResetPasswordForm{Token: "abc", NewPassword: strings.Repeat("a", 80)}))
	assert.Equal(t, "must not exceed 72 characters", errs["new_password"])
}

func TestBindJSON(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"username":"u","email":"u@test.com","password":"password"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var form UserAddForm
	require.Nil(t, Bind(c, &form))
	assert.Equal(t, "u", form.Username)
}

func TestBindForm(t *testing.T) {
	values := url.Values{"id": {"12"}, "update": {"/users/3"}}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/users/add_like", strings.NewReader(values.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var form AddLikesForm
	require.Nil(t, Bind(c, &form))
	assert.Equal(t, uint(12), form.ID)
	assert.Equal(t, "/users/3", form.Update)
}

func TestBindMalformedBody(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"username":`))
	c.Request.Header.Set("Content-Type", "application/json")

	var form UserAddForm
	errs := Bind(c, &form)
	require.Len(t, errs, 1)
	assert.Equal(t, "body", errs[0].Field)
}
