package store

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNoKey is returned when a SQLite store is opened without a secret.
var ErrNoKey = errors.New("session store key is required")

// SQLiteStore keeps records in a SQLite database. The serialized record,
// which carries the session id, is encrypted with AES-GCM.
type SQLiteStore struct {
	db  *sql.DB
	key []byte
}

// DeriveKey turns a secret into a 32 byte AES key. A base64 value that
// decodes to exactly 32 bytes is used as is; anything else is hashed.
func DeriveKey(raw string) ([]byte, error) {
	if raw == "" {
		return nil, ErrNoKey
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil && len(decoded) >= 16 {
		if len(decoded) == 32 {
			return decoded, nil
		}
		h := sha256.Sum256(decoded)
		return h[:], nil
	}
	h := sha256.Sum256([]byte(raw))
	return h[:], nil
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string, key []byte) (*SQLiteStore, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("session store key must be 32 bytes, got %d", len(key))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating session store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, err
	}
	const schema = `CREATE TABLE IF NOT EXISTS sessions(
		session_key TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		data BLOB NOT NULL,
		saved_at INTEGER NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating session table: %w", err)
	}
	return &SQLiteStore{db: db, key: key}, nil
}

// Save inserts or replaces rec.
func (s *SQLiteStore) Save(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	enc, err := seal(s.key, data)
	if err != nil {
		return fmt.Errorf("encrypting session: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions(session_key, username, data, saved_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_key) DO UPDATE SET username=excluded.username, data=excluded.data, saved_at=excluded.saved_at`,
		rec.Key, rec.Infos.Username, enc, rec.SavedAt.Unix())
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load returns the record stored under key.
func (s *SQLiteStore) Load(ctx context.Context, key string) (Record, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE session_key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("loading session: %w", err)
	}
	pt, err := unseal(s.key, blob)
	if err != nil {
		return Record{}, fmt.Errorf("decrypting session: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(pt, &rec); err != nil {
		return Record{}, fmt.Errorf("decoding session: %w", err)
	}
	return rec, nil
}

// Delete removes the record stored under key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_key = ?`, key); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func seal(key, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func unseal(key, blob []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	n := gcm.NonceSize()
	if len(blob) < n {
		return nil, errors.New("ciphertext too short")
	}
	return gcm.Open(nil, blob[:n], blob[n:], nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
