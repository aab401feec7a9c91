package controllers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMessage(t *testing.T) {
	ts := newTestServer(t)
	token, id := ts.signup(t, "testuser")

	w := ts.do(t, http.MethodPost, "/messages/new", map[string]string{"text": "Hello"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/messages/new", map[string]string{"text": "Hello"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	msg := responseOf(t, w)
	assert.Equal(t, "Hello", msg["text"])
	assert.NotEmpty(t, msg["timestamp"])
	author := msg["user"].(map[string]interface{})
	assert.Equal(t, float64(id), author["id"])
	assert.Equal(t, "testuser", author["username"])
}

func TestCreateMessageValidation(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.signup(t, "testuser")

	w := ts.do(t, http.MethodPost, "/messages/new", map[string]string{"text": strings.Repeat("a", 141)}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = ts.do(t, http.MethodPost, "/messages/new", map[string]string{}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = ts.do(t, http.MethodPost, "/messages/new", map[string]string{"text": "   "}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetMessage(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.signup(t, "testuser")
	id := ts.post(t, token, "Hello")

	w := ts.do(t, http.MethodGet, messagePath(id, ""), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	msg := responseOf(t, w)
	assert.Equal(t, "Hello", msg["text"])
	assert.Equal(t, float64(0), msg["likes"])
	assert.Equal(t, false, msg["liked"])
	assert.Equal(t, "testuser", msg["user"].(map[string]interface{})["username"])

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/messages/9999", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/messages/abc", nil, "").Code)
}

func TestDeleteMessageOwnerOnly(t *testing.T) {
	ts := newTestServer(t)
	owner, _ := ts.signup(t, "owner")
	other, _ := ts.signup(t, "other")
	id := ts.post(t, owner, "Hello")

	w := ts.do(t, http.MethodPost, messagePath(id, "/delete"), nil, other)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access unauthorized.", decode(t, w)["error"])

	w = ts.do(t, http.MethodPost, messagePath(id, "/delete"), nil, owner)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, messagePath(id, ""), nil, "").Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, messagePath(id, "/delete"), nil, owner).Code)
}

func TestDeleteMessageRemovesLikes(t *testing.T) {
	ts := newTestServer(t)
	owner, _ := ts.signup(t, "owner")
	fan, _ := ts.signup(t, "fan")
	id := ts.post(t, owner, "Hello")

	w := ts.do(t, http.MethodPost, "/users/add_like", map[string]interface{}{"id": id, "update": "/"}, fan)
	require.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, messagePath(id, "/delete"), nil, owner).Code)

	w = ts.do(t, http.MethodGet, "/users/fan/likes", nil, fan)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, responseOf(t, w)["likes"])
}
