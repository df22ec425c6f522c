// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/sirseerhq/sirseer-pulls/internal/github"
)

// Entry is one cached result set for an (owner, repo, status) triple.
// Records holds the JSON-encoded pull request array exactly as fetched;
// the whole row is replaced when the entry goes stale.
type Entry struct {
	Fingerprint string    `gorm:"primaryKey"`
	Owner       string    `gorm:"not null;index:idx_repo"`
	Repo        string    `gorm:"not null;index:idx_repo"`
	Status      string    `gorm:"not null"`
	FetchedAt   time.Time `gorm:"not null;index:idx_fetched_at"`
	Records     []byte    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Fingerprint derives the deterministic cache key for an
// (owner, repo, status) triple.
func Fingerprint(owner, repo, status string) string {
	sum := sha256.Sum256([]byte(owner + "/" + repo + "@" + status))
	return hex.EncodeToString(sum[:])
}

// Store provides durable access to cached pull request result sets.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStore opens (creating if necessary) the cache database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	// Expand home directory if present
	if len(dbPath) > 0 && dbPath[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, dbPath[1:])
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// WAL mode keeps readers from blocking on a concurrent refresh
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cache schema: %w", err)
	}

	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Get retrieves the cached result set for the triple. It returns the decoded
// records together with the entry's fetch time. Any failure, including a
// missing entry, an unreadable database, or a corrupt record payload,
// degrades to a miss.
func (s *Store) Get(ctx context.Context, owner, repo, status string) ([]github.PullRequest, time.Time, bool) {
	var entry Entry
	err := withRetry(func() error {
		return s.db.WithContext(ctx).First(&entry, "fingerprint = ?", Fingerprint(owner, repo, status)).Error
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Err(err).Str("repo", owner+"/"+repo).Msg("cache read failed; treating as miss")
		}
		return nil, time.Time{}, false
	}

	var records []github.PullRequest
	if err := json.Unmarshal(entry.Records, &records); err != nil {
		log.Warn().Err(err).Str("repo", owner+"/"+repo).Msg("cache entry corrupt; treating as miss")
		return nil, time.Time{}, false
	}

	return records, entry.FetchedAt, true
}

// Put stores the result set for the triple, overwriting any existing entry.
func (s *Store) Put(ctx context.Context, owner, repo, status string, records []github.PullRequest) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	entry := Entry{
		Fingerprint: Fingerprint(owner, repo, status),
		Owner:       owner,
		Repo:        repo,
		Status:      status,
		FetchedAt:   s.now(),
		Records:     data,
	}

	err = withRetry(func() error {
		return s.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&entry).Error
	})
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Purge removes all cached entries for a repository regardless of status.
func (s *Store) Purge(ctx context.Context, owner, repo string) error {
	err := withRetry(func() error {
		return s.db.WithContext(ctx).
			Where("owner = ? AND repo = ?", owner, repo).
			Delete(&Entry{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to purge cache entries: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// withRetry retries an operation when SQLite reports the database is busy.
func withRetry(op func() error) error {
	const maxAttempts = 3

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if !errors.As(err, &sqliteErr) || (sqliteErr.Code != sqlite3.ErrBusy && sqliteErr.Code != sqlite3.ErrLocked) {
			return err
		}

		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return err
}
