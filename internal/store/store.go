package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	"github.com/jmoiron/sqlx"

	"github.com/frostline/holidayquest/internal/apperr"

	// PostgreSQL driver for multi-instance deployments.
	_ "github.com/lib/pq"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Options selects the database backend.
type Options struct {
	// Driver is "sqlite" or "postgres".
	Driver string
	// DSN is a file path (or file: URI) for sqlite and a connection URL for
	// postgres.
	DSN string
	// SkipMigrations leaves the schema untouched. Used by the migrate command.
	SkipMigrations bool
}

// Store holds the database handle and hands out repositories bound to it.
type Store struct {
	db      *sqlx.DB
	dialect string
}

// Open connects to the configured database, applies connection settings and
// runs pending migrations.
func Open(ctx context.Context, opts Options) (*Store, error) {
	var (
		driverName string
		dsn        string
		dia        string
	)
	switch opts.Driver {
	case "", "sqlite":
		driverName, dsn, dia = "sqlite", sqliteDSN(opts.DSN), dialect.SQLite
	case "postgres":
		driverName, dsn, dia = "postgres", opts.DSN, dialect.Postgres
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dia == dialect.SQLite {
		// SQLite allows one writer; a single connection also keeps
		// transactions from deadlocking against each other.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	s := &Store{db: sqlx.NewDb(db, driverName), dialect: dia}
	if !opts.SkipMigrations {
		if err := s.Migrate(); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

// DB returns the underlying handle for raw queries.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Dialect returns the ent dialect name in use.
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return apperr.Unavailable("ping", s.db.PingContext(ctx))
}

// Repos groups the repositories sharing one connection or transaction.
type Repos struct {
	Users        UserRepo
	Progress     ProgressRepo
	Certificates CertificateRepo
	Achievements AchievementRepo
	Photos       PhotoRepo
	Wishes       WishRepo
	Stats        StatsRepo
}

// Repos returns repositories bound to the store's connection pool.
func (s *Store) Repos() Repos {
	return s.reposOn(s.db)
}

// UserRepo returns a UserRepo backed by this store.
func (s *Store) UserRepo() UserRepo { return &userRepo{q: s.db, d: s.dialect} }

// ProgressRepo returns a ProgressRepo backed by this store.
func (s *Store) ProgressRepo() ProgressRepo { return &progressRepo{q: s.db, d: s.dialect} }

// CertificateRepo returns a CertificateRepo backed by this store.
func (s *Store) CertificateRepo() CertificateRepo { return &certificateRepo{q: s.db, d: s.dialect} }

// AchievementRepo returns an AchievementRepo backed by this store.
func (s *Store) AchievementRepo() AchievementRepo { return &achievementRepo{q: s.db, d: s.dialect} }

// PhotoRepo returns a PhotoRepo backed by this store.
func (s *Store) PhotoRepo() PhotoRepo { return &photoRepo{q: s.db, d: s.dialect} }

// WishRepo returns a WishRepo backed by this store.
func (s *Store) WishRepo() WishRepo { return &wishRepo{q: s.db, d: s.dialect} }

// StatsRepo returns a StatsRepo backed by this store.
func (s *Store) StatsRepo() StatsRepo { return &statsRepo{q: s.db, d: s.dialect} }

func (s *Store) reposOn(q sqlx.ExtContext) Repos {
	return Repos{
		Users:        &userRepo{q: q, d: s.dialect},
		Progress:     &progressRepo{q: q, d: s.dialect},
		Certificates: &certificateRepo{q: q, d: s.dialect},
		Achievements: &achievementRepo{q: q, d: s.dialect},
		Photos:       &photoRepo{q: q, d: s.dialect},
		Wishes:       &wishRepo{q: q, d: s.dialect},
		Stats:        &statsRepo{q: q, d: s.dialect},
	}
}

// InTx runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(Repos) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Unavailable("begin transaction", err)
	}

	if err := fn(s.reposOn(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperr.Unavailable("commit transaction", err)
	}
	return nil
}

// sqliteDSN turns a file path into a modernc DSN with the pragmas the
// service relies on. Pragmas already present in dsn win.
func sqliteDSN(dsn string) string {
	path, query, _ := strings.Cut(dsn, "?")
	q, err := url.ParseQuery(query)
	if err != nil {
		return dsn
	}

	have := map[string]bool{}
	for _, p := range q["_pragma"] {
		name, _, _ := strings.Cut(p, "(")
		have[strings.ToLower(strings.TrimSpace(name))] = true
	}
	for _, p := range []struct{ name, value string }{
		{"busy_timeout", "5000"},
		{"foreign_keys", "ON"},
		{"synchronous", "NORMAL"},
		{"journal_mode", "WAL"},
	} {
		if !have[p.name] {
			q.Add("_pragma", fmt.Sprintf("%s(%s)", p.name, p.value))
		}
	}
	if q.Get("_time_format") == "" {
		q.Set("_time_format", "sqlite")
	}
	return path + "?" + q.Encode()
}

// DefaultDBPath resolves the SQLite database file path in priority order:
// 1. HOLIDAYQUEST_DB environment variable
// 2. $XDG_DATA_HOME/holidayquest/holidayquest.db
// 3. ~/.local/share/holidayquest/holidayquest.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("HOLIDAYQUEST_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "holidayquest", "holidayquest.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
