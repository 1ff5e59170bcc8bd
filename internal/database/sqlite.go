package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// NewSQLite opens an embedded sqlite database at path (":memory:" for a
// throwaway one). The pool is pinned to one connection: sqlite serializes
// writers and an in-memory database exists per connection.
func NewSQLite(path string) (*Database, error) {
	gdb, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %q: %w", path, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &Database{Gorm: gdb, sql: sqlDB}, nil
}
