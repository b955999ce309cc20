package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"account-api/internal/repository"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open connects to PostgreSQL through the pgx stdlib driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres db: %w", err)
	}

	return db, nil
}

// Store is the PostgreSQL backed credential store.
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

// Init applies the embedded goose migrations.
func (s *Store) Init(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
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
