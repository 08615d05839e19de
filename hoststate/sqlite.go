package hoststate

import (
	"database/sql"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"investment_contract/hoststate/migrations"
	"investment_contract/sdk"
)

// SQLiteState persists host state in a single sqlite table with a read-through LRU cache.
type SQLiteState struct {
	sqlDB *sql.DB
	cache *lru.Cache[cacheKey, sdk.Entry]
}

type cacheKey struct {
	tier sdk.Tier
	key  string
}

// OpenSQLite opens (or creates) the database at path and applies embedded migrations.
func OpenSQLite(path string, cacheSize int) (*SQLiteState, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	cache, err := lru.New[cacheKey, sdk.Entry](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to init cache")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "ping sqlite db")
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "run migrations")
	}
	return &SQLiteState{sqlDB: sqlDB, cache: cache}, nil
}

func (s *SQLiteState) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteState) Get(tier sdk.Tier, key string) (*sdk.Entry, error) {
	ck := cacheKey{tier: tier, key: key}
	if e, ok := s.cache.Get(ck); ok {
		return &e, nil
	}
	var e sdk.Entry
	err := s.sqlDB.QueryRow(
		`SELECT value, live_until FROM entries WHERE tier = ? AND key = ?`,
		int(tier), []byte(key),
	).Scan(&e.Value, &e.LiveUntil)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s entry", tier)
	}
	s.cache.Add(ck, e)
	return &e, nil
}

// Apply writes all entries in one transaction and only touches the cache after commit.
func (s *SQLiteState) Apply(writes []sdk.Write) error {
	tx, err := s.sqlDB.Begin()
	if err != nil {
		return errors.Wrap(err, "begin apply")
	}
	for _, w := range writes {
		if w.Value == nil {
			_, err = tx.Exec(`DELETE FROM entries WHERE tier = ? AND key = ?`, int(w.Tier), []byte(w.Key))
		} else {
			_, err = tx.Exec(
				`INSERT INTO entries (tier, key, value, live_until) VALUES (?, ?, ?, ?)
				 ON CONFLICT (tier, key) DO UPDATE SET value = excluded.value, live_until = excluded.live_until`,
				int(w.Tier), []byte(w.Key), *w.Value, w.LiveUntil,
			)
		}
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "apply %s entry", w.Tier)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit apply")
	}
	for _, w := range writes {
		ck := cacheKey{tier: w.Tier, key: w.Key}
		if w.Value == nil {
			s.cache.Remove(ck)
			continue
		}
		s.cache.Add(ck, sdk.Entry{Value: *w.Value, LiveUntil: w.LiveUntil})
	}
	return nil
}

// PruneTemporary deletes temporary entries whose lifetime ended before now.
func (s *SQLiteState) PruneTemporary(now int64) (int64, error) {
	rows, err := s.sqlDB.Query(
		`SELECT key FROM entries WHERE tier = ? AND live_until < ?`, int(sdk.TierTemporary), now)
	if err != nil {
		return 0, errors.Wrap(err, "list lapsed entries")
	}
	var keys []string
	for rows.Next() {
		var k []byte
		if err := rows.Scan(&k); err != nil {
			_ = rows.Close()
			return 0, errors.Wrap(err, "scan lapsed entry")
		}
		keys = append(keys, string(k))
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return 0, errors.Wrap(err, "iterate lapsed entries")
	}

	writes := make([]sdk.Write, 0, len(keys))
	for _, k := range keys {
		writes = append(writes, sdk.Write{Tier: sdk.TierTemporary, Key: k})
	}
	if err := s.Apply(writes); err != nil {
		return 0, err
	}
	return int64(len(keys)), nil
}
