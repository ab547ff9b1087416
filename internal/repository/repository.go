package repository

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

// dbHandle holds the connection a repository runs on. The API server starts
// before the database is reachable and installs the handle later, so it is
// read and written atomically.
type dbHandle struct {
	p atomic.Pointer[gorm.DB]
}

func (h *dbHandle) SetDB(db *gorm.DB) {
	h.p.Store(db)
}

// conn loads the handle once for the whole call.
func (h *dbHandle) conn(ctx context.Context) (*gorm.DB, error) {
	db := h.p.Load()
	if db == nil {
		return nil, ErrDBNotReady
	}
	return db.WithContext(ctx), nil
}

// likeEscape is the ESCAPE character used for LIKE patterns; '!' behaves the
// same on mysql, postgres and sqlite.
const likeEscape = "!"

// containsPattern builds a lower-cased LIKE pattern matching s as a literal
// substring. sqlite's LOWER() folds ASCII only, so non-ASCII case-insensitive
// search needs mysql or postgres.
func containsPattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
