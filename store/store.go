// Package store persists logged-in sessions between CLI invocations so a
// command can resume a session instead of authenticating again.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/initializ/untis/client"
	"github.com/initializ/untis/types"
)

// ErrNotFound is returned when no record exists for a key.
var ErrNotFound = errors.New("session record not found")

// Record is a saved session.
type Record struct {
	Key     string      `json:"key"`
	Infos   types.Infos `json:"infos"`
	SavedAt time.Time   `json:"savedAt"`
}

// Store saves, loads and deletes session records.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context, key string) (Record, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key identifies the session of one user at one school. Server addresses
// are normalized and everything is compared case-insensitively.
func Key(server, school, username string) string {
	return strings.ToLower(client.NormalizeServer(server) + "|" + strings.TrimSpace(school) + "|" + strings.TrimSpace(username))
}

// KeyOf returns the key of the session described by infos.
func KeyOf(infos types.Infos) string {
	return Key(infos.Server, infos.School, infos.Username)
}

// NewRecord builds a record for infos saved at now.
func NewRecord(infos types.Infos, now time.Time) Record {
	return Record{Key: KeyOf(infos), Infos: infos, SavedAt: now.UTC()}
}

// Fresh reports whether the record was saved less than maxAge ago. A
// non-positive maxAge means records never go stale.
func (r Record) Fresh(now time.Time, maxAge time.Duration) bool {
	return maxAge <= 0 || now.Sub(r.SavedAt) < maxAge
}
