package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shinyyama/social-inbox/internal/db"
	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func get(t *testing.T, h http.Handler, path, uid string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if uid != "" {
		req.Header.Set("X-User-ID", uid)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))

	acc := model.SocialAccount{UserID: "u1", Platform: "twitter", PlatformUserID: "1", PlatformUsername: "@acme", IsActive: true}
	require.NoError(t, gdb.WithContext(context.Background()).Create(&acc).Error)
	require.NoError(t, gdb.Create(&model.Message{SocialAccountID: acc.ID, PlatformMessageID: "m1", SenderID: "s", SenderName: "Sam", Content: "hello"}).Error)
	return gdb
}

func TestServerBeforeAndAfterDB(t *testing.T) {
	srv := New(nil, Options{GitSHA: "abc"})

	rec := get(t, srv.Handler(), "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, false, health["db_ready"])
	assert.Equal(t, "abc", health["git_sha"])

	rec = get(t, srv.Handler(), "/api/messages", "u1")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = get(t, srv.Handler(), "/api/messages", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	srv.SetDB(seededDB(t))
	rec = get(t, srv.Handler(), "/api/messages?status=unread", "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hello"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = get(t, srv.Handler(), "/api/profile", "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"u1"`)

	rec = get(t, srv.Handler(), "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "inbox_fetches_total")
}

// Run with -race: the database arrives while requests are already being
// served, the way cmd/api connects in the background.
func TestSetDBWhileServing(t *testing.T) {
	srv := New(nil, Options{})
	gdb := seededDB(t)

	var wg sync.WaitGroup
	codes := make(chan int, 50)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			codes <- get(t, srv.Handler(), "/api/messages", "u1").Code
		}
		close(codes)
	}()
	srv.SetDB(gdb)
	wg.Wait()

	for code := range codes {
		assert.Contains(t, []int{http.StatusOK, http.StatusServiceUnavailable}, code)
	}
	assert.Equal(t, http.StatusOK, get(t, srv.Handler(), "/api/messages", "u1").Code)
}

func TestAllowOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:3000", true},
		{"https://inbox-dashboard.vercel.app", true},
		{"https://example.com", false},
		{"ftp://localhost", false},
	}
	for _, tt := range tests {
		got, err := allowOrigin(tt.origin)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.origin)
	}
}
