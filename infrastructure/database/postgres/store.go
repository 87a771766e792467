// ABOUTME: PostgreSQL implementation of the catalog store using pgxpool and squirrel
// ABOUTME: Schema migrations are embedded and applied with golang-migrate on startup

package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	apperrors "openmusic-api/core/errors"
	"openmusic-api/core/interfaces"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Store implements interfaces.Store on PostgreSQL
type Store struct {
	pool   *pgxpool.Pool
	logger interfaces.Logger
}

var _ interfaces.Store = (*Store)(nil)

// NewStore applies pending migrations and opens a connection pool
func NewStore(ctx context.Context, dsn string, logger interfaces.Logger) (*Store, error) {
	if err := runMigrations(dsn, logger); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	logger.Info("PostgreSQL pool initialized", map[string]interface{}{
		"host":      cfg.ConnConfig.Host,
		"database":  cfg.ConnConfig.Database,
		"max_conns": cfg.MaxConns,
	})

	return &Store{pool: pool, logger: logger}, nil
}

func runMigrations(dsn string, logger interfaces.Logger) error {
	// golang-migrate needs a database/sql handle, separate from the pool
	sqldb, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("sql.Open pgx: %w", err)
	}
	defer sqldb.Close()

	driver, err := migratepg.WithInstance(sqldb, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("postgres driver: %w", err)
	}

	src, err := iofs.New(embeddedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate.New: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Debug("No new migrations to apply", nil)
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("Migrations applied", nil)
	return nil
}

// Ping checks the pool
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) qb() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// exec runs a statement and returns the number of affected rows
func (s *Store) exec(ctx context.Context, op string, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: build query: %w", op, err)
	}

	start := time.Now()
	tag, err := s.pool.Exec(ctx, query, args...)
	s.logQuery(op, query, start, err)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// queryRow runs a single-row query
func (s *Store) queryRow(ctx context.Context, op string, b sq.Sqlizer, dest ...any) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", op, err)
	}

	start := time.Now()
	err = s.pool.QueryRow(ctx, query, args...).Scan(dest...)
	s.logQuery(op, query, start, err)
	return err
}

func (s *Store) query(ctx context.Context, op string, b sq.Sqlizer) (pgx.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	start := time.Now()
	rows, err := s.pool.Query(ctx, query, args...)
	s.logQuery(op, query, start, err)
	return rows, err
}

func (s *Store) logQuery(op, query string, start time.Time, err error) {
	fields := map[string]interface{}{
		"op":          op,
		"query":       query,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		fields["error"] = err.Error()
		s.logger.Warn("Query failed", fields)
		return
	}
	s.logger.Debug("Query executed", fields)
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func notFound(resource, id string) error {
	return &apperrors.NotFoundError{Resource: resource, ID: id}
}
