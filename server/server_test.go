package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swapshelf/bookswap/config"
	"github.com/swapshelf/bookswap/db"
	"github.com/swapshelf/bookswap/services"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("GIN_MODE", "test")
	gin.SetMode(gin.TestMode)

	conf := &config.Config{
		Env:             "test",
		SessionSecret:   "test-secret",
		SessionTTLHours: 1,
	}

	gormDB, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "bookswap_test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	gdb := &db.GormDB{DB: gormDB}

	authRepo := db.NewAuthRepo(gdb)
	listingRepo := db.NewListingRepo(gdb)
	messageRepo := db.NewMessageRepo(gdb)

	s := &Server{
		Config:            conf,
		AuthRepository:    authRepo,
		AuthService:       services.NewAuthService(authRepo, conf),
		ListingRepository: listingRepo,
		ListingService:    services.NewListingService(listingRepo, conf),
		MessageRepository: messageRepo,
		MessageService:    services.NewMessageService(messageRepo, listingRepo, conf),
		DB:                *gdb,
	}
	return s.setupRouter()
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func registerAndLogin(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "reading1",
		"confirm":  "reading1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": username,
		"password": "reading1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := envelope(t, w)["data"].(map[string]interface{})
	token := data["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestSignupRejectsDuplicateUsername(t *testing.T) {
	router := setupTestRouter(t)
	registerAndLogin(t, router, "alice")

	w := doRequest(t, router, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"username": "alice",
		"email":    "elsewhere@example.com",
		"password": "reading1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, envelope(t, w)["errors"], "username already taken")
}

func TestLoginRejectsBadPassword(t *testing.T) {
	router := setupTestRouter(t)
	registerAndLogin(t, router, "alice")

	w := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "alice",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthorizedRoutesNeedToken(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/me", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExchangeFlow(t *testing.T) {
	router := setupTestRouter(t)
	aliceToken := registerAndLogin(t, router, "alice")
	bobToken := registerAndLogin(t, router, "bob")

	// Alice profile resolves from the token.
	w := doRequest(t, router, http.MethodGet, "/api/v1/me", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := envelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "alice", profile["username"])

	// Alice posts a book.
	w = doRequest(t, router, http.MethodPost, "/api/v1/listings", aliceToken, gin.H{
		"title":     "Dune",
		"author":    "Frank Herbert",
		"genre":     "Science Fiction",
		"condition": "Good",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := envelope(t, w)["data"].(map[string]interface{})
	listingID := created["id"].(float64)
	assert.Equal(t, "alice", created["owner_username"])

	// Anyone can browse and filter.
	w = doRequest(t, router, http.MethodGet, "/api/v1/listings?q=dune", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	results := envelope(t, w)["data"].([]interface{})
	require.Len(t, results, 1)

	w = doRequest(t, router, http.MethodGet, "/api/v1/listings?q=zzz-no-match", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, envelope(t, w)["data"])

	// Bob messages Alice about the listing.
	w = doRequest(t, router, http.MethodPost, "/api/v1/messages", bobToken, gin.H{
		"listing_id": listingID,
		"body":       "Is this still available?",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Alice cannot message herself about it.
	w = doRequest(t, router, http.MethodPost, "/api/v1/messages", aliceToken, gin.H{
		"listing_id": listingID,
		"body":       "hello me",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Bob sees the thread in order.
	threadPath := "/api/v1/listings/" + strconv.FormatFloat(listingID, 'f', -1, 64) + "/thread"
	w = doRequest(t, router, http.MethodGet, threadPath, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	thread := envelope(t, w)["data"].([]interface{})
	require.Len(t, thread, 1)
	first := thread[0].(map[string]interface{})
	assert.Equal(t, "Is this still available?", first["body"])

	// The owner sees the same thread.
	w = doRequest(t, router, http.MethodGet, threadPath, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, envelope(t, w)["data"], 1)

	// Alice's overview shows bob as the counterpart.
	w = doRequest(t, router, http.MethodGet, "/api/v1/messages/overview", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	overview := envelope(t, w)["data"].([]interface{})
	require.Len(t, overview, 1)
	conversation := overview[0].(map[string]interface{})
	assert.Equal(t, "bob", conversation["counterpart_username"])
	assert.Equal(t, "Dune", conversation["listing_title"])
}

func TestLogoutBlacklistsToken(t *testing.T) {
	router := setupTestRouter(t)
	token := registerAndLogin(t, router, "alice")

	w := doRequest(t, router, http.MethodGet, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnknownAPIRouteReturnsJSON(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not Found", envelope(t, w)["status"])
}
