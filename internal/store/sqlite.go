package store

import (
	"context"
	"database/sql"

	"github.com/hpungsan/radar/internal/db"
)

// SQLite stores values in the kv table of baseDir/radar.db.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite initializes (and migrates) the database under baseDir.
func OpenSQLite(baseDir string) (*SQLite, error) {
	database, err := db.Init(baseDir)
	if err != nil {
		return nil, err
	}
	return &SQLite{db: database}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return db.GetValue(ctx, s.db, key)
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	return db.PutValue(ctx, s.db, key, value)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
