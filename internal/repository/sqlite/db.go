package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"account-api/internal/repository"
)

// Open opens (or creates) a sqlite database at the given path and ensures directories exist.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// a single connection keeps PRAGMA state and serialises writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return db, nil
}

// Store is the sqlite backed credential store.
type Store struct {
	db       *sql.DB
	users    *UserRepository
	profiles *ProfileRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		users:    NewUserRepository(db),
		profiles: NewProfileRepository(db),
	}
}

func (s *Store) Init(ctx context.Context) error {
	if err := s.users.Init(ctx); err != nil {
		return err
	}
	return s.profiles.Init(ctx)
}

func (s *Store) Users() repository.UserRepository {
	return s.users
}

func (s *Store) Profiles() repository.ProfileRepository {
	return s.profiles
}

func (s *Store) Close() error {
	return s.db.Close()
}
