package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"Warbler/api/auth"
	"Warbler/api/config"
	"Warbler/api/controllers"
	"Warbler/api/database"
	"Warbler/api/security"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	security.Cost = bcrypt.MinCost
	if err := auth.Configure("controllers-secret", time.Hour); err != nil {
		panic(err)
	}
	m.Run()
}

type sentMail struct {
	Name  string
	Email string
	Link  string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, toName, toEmail, resetLink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{Name: toName, Email: toEmail, Link: resetLink})
	return nil
}

type fakeImages struct {
	keys         []string
	contentTypes []string
}

func (f *fakeImages) Put(_ context.Context, key string, _ []byte, contentType string) (string, error) {
	f.keys = append(f.keys, key)
	f.contentTypes = append(f.contentTypes, contentType)
	return "https://cdn.test/" + key, nil
}

type testServer struct {
	*controllers.Server
	mail   *fakeMailer
	images *fakeImages
}

func testConfig() *config.Config {
	return &config.Config{
		Env: "test",
		Server: config.ServerConfig{
			CORSAllowedOrigins: []string{"http://localhost:3000"},
		},
		Auth: config.AuthConfig{Secret: "controllers-secret", TokenTTL: time.Hour},
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 1000,
			Burst:             1000,
			AuthInterval:      time.Millisecond,
			AuthBurst:         1000,
		},
		Redis:   config.RedisConfig{TimelineTTL: time.Second},
		Storage: config.StorageConfig{MaxImageBytes: 500 * 1024},
		Mail: config.MailConfig{
			ResetURL:      "http://localhost:3000/password/reset",
			ResetTokenTTL: time.Hour,
		},
	}
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := testConfig()
	for _, fn := range mutate {
		fn(cfg)
	}

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	ts := &testServer{mail: &fakeMailer{}, images: &fakeImages{}}
	ts.Server = &controllers.Server{
		DB:     db,
		Config: cfg,
		Logger: zerolog.Nop(),
		Mailer: ts.mail,
		Images: ts.images,
	}
	require.NoError(t, ts.SetupRouter())
	return ts
}

// do sends body as JSON when it is not nil.
func (ts *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func responseOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := decode(t, w)
	response, ok := body["response"].(map[string]interface{})
	require.True(t, ok, "response is not an object: %s", w.Body.String())
	return response
}

// signup registers username with password "password" and returns its token
// and id.
func (ts *testServer) signup(t *testing.T, username string) (string, uint) {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/signup", map[string]string{
		"username": username,
		"email":    username + "@test.com",
		"password": "password",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	response := responseOf(t, w)
	user := response["user"].(map[string]interface{})
	return response["token"].(string), uint(user["id"].(float64))
}

func (ts *testServer) post(t *testing.T, token, text string) uint {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/messages/new", map[string]string{"text": text}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return uint(responseOf(t, w)["id"].(float64))
}

func messagePath(id uint, suffix string) string {
	return fmt.Sprintf("/messages/%d%s", id, suffix)
}

func messageTexts(t *testing.T, list interface{}) []string {
	t.Helper()
	items, ok := list.([]interface{})
	require.True(t, ok)

	texts := make([]string, 0, len(items))
	for _, item := range items {
		texts = append(texts, item.(map[string]interface{})["text"].(string))
	}
	return texts
}

func usernames(t *testing.T, list interface{}) []string {
	t.Helper()
	items, ok := list.([]interface{})
	require.True(t, ok)

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.(map[string]interface{})["username"].(string))
	}
	return names
}
