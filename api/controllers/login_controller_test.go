package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Warbler/api/auth"
	"Warbler/api/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/signup", map[string]string{
		"username": "testuser",
		"email":    "TestUser@Test.com",
		"password": "password",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	response := responseOf(t, w)
	assert.NotEmpty(t, response["token"])
	user := response["user"].(map[string]interface{})
	assert.Equal(t, "testuser", user["username"])
	assert.Equal(t, "testuser@test.com", user["email"])
	assert.Equal(t, "/static/images/default-pic.png", user["image_url"])
	assert.NotContains(t, user, "password")

	assert.Contains(t, w.Header().Get("Set-Cookie"), auth.CookieName+"=")
}

func TestSignupDuplicateUsername(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "testuser")

	w := ts.do(t, http.MethodPost, "/signup", map[string]string{
		"username": "testuser",
		"email":    "other@test.com",
		"password": "password",
	}, "")
	require.Equal(t, http.StatusConflict, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Username already taken", body["error"])
	assert.Contains(t, body["errors"], "Taken_username")
}

func TestSignupDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "testuser")

	w := ts.do(t, http.MethodPost, "/signup", map[string]string{
		"username": "someoneelse",
		"email":    "testuser@test.com",
		"password": "password",
	}, "")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, decode(t, w)["errors"], "Taken_email")
}

func TestSignupValidation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/signup", map[string]string{
		"username": "testuser",
		"email":    "not-an-email",
		"password": "short",
	}, "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Validation failed", body["error"])
	fields := map[string]bool{}
	for _, e := range body["errors"].([]interface{}) {
		fields[e.(map[string]interface{})["field"].(string)] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
}

func TestSignupRejectsOverlongPassword(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/signup", map[string]string{
		"username": "testuser",
		"email":    "testuser@test.com",
		"password": strings.Repeat("a", 80),
	}, "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Equal(t, "Validation failed", decode(t, w)["error"])

	w = ts.do(t, http.MethodPost, "/login", map[string]string{"username": "testuser", "password": strings.Repeat("a", 80)}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	_, id := ts.signup(t, "testuser")

	w := ts.do(t, http.MethodPost, "/login", map[string]string{"username": "testuser", "password": "password"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token := responseOf(t, w)["token"].(string)
	tokenID, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, tokenID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "testuser")

	w := ts.do(t, http.MethodPost, "/login", map[string]string{"username": "testuser", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials.", decode(t, w)["error"])

	w = ts.do(t, http.MethodPost, "/login", map[string]string{"username": "nobody", "password": "password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/logout", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, auth.CookieName+"=;")
	assert.Contains(t, cookie, "Max-Age=0")
}

func TestCookieAuthentication(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.signup(t, "testuser")

	req := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "testuser", responseOf(t, w)["username"])
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimit.AuthInterval = time.Hour
		cfg.RateLimit.AuthBurst = 2
	})

	login := map[string]string{"username": "nobody", "password": "password"}
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/login", login, "").Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/login", login, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, ts.do(t, http.MethodPost, "/login", login, "").Code)

	// signup shares the same bucket
	assert.Equal(t, http.StatusTooManyRequests, ts.do(t, http.MethodPost, "/signup", login, "").Code)
}
