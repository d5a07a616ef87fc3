package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options configures the embedded store.
type Options struct {
	// Path of the database file. ":memory:" gives a private in-memory store.
	Path        string
	BusyTimeout time.Duration
	LogLevel    logger.LogLevel

	// SeedDevData adds the development fixtures during Initialize.
	SeedDevData bool
	// Clock and Location date the development fixtures.
	Clock    clockwork.Clock
	Location *time.Location
}

// Store is the single handle onto the embedded database. Open it once at
// startup, hand the pointer to every service, and Close it on shutdown.
type Store struct {
	db   *gorm.DB
	opts Options
}

func Open(opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	db, err := gorm.Open(sqlite.Open(dsn(opts)), &gorm.Config{
		Logger: logger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// One connection for the process lifetime: SQLite serializes writers
	// anyway, and an in-memory database lives only as long as its connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	slog.Info("database opened", "path", opts.Path)
	return &Store{db: db, opts: opts}, nil
}

func dsn(opts Options) string {
	return fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=%d", opts.Path, opts.BusyTimeout.Milliseconds())
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Initialize creates missing tables and fills the seed data. It is safe to call
// on every start and never modifies existing rows.
func (s *Store) Initialize(ctx context.Context) error {
	for _, stmt := range schemaStatements() {
		if err := s.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	if err := SeedCategories(ctx, s); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	if s.opts.SeedDevData {
		if err := SeedDevData(ctx, s, s.opts.Clock.Now().In(s.opts.Location)); err != nil {
			return fmt.Errorf("failed to seed dev data: %w", err)
		}
	}

	return nil
}

// Exec runs a mutating statement with positional parameters.
func (s *Store) Exec(ctx context.Context, statement string, args ...any) error {
	_, err := s.ExecAffected(ctx, statement, args...)
	return err
}

// ExecAffected is Exec returning the number of rows the statement touched.
func (s *Store) ExecAffected(ctx context.Context, statement string, args ...any) (int64, error) {
	res := s.db.WithContext(ctx).Exec(statement, args...)
	return res.RowsAffected, res.Error
}

// Create inserts record and fills in its engine-assigned primary key.
func (s *Store) Create(ctx context.Context, record any) error {
	return s.db.WithContext(ctx).Create(record).Error
}

// UpdateColumns sets only the given columns on the row of table with the given id.
func (s *Store) UpdateColumns(ctx context.Context, table string, id any, columns map[string]any) error {
	if len(columns) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Table(table).Where("id = ?", id).Updates(columns).Error
}

// QueryAll returns every row of a read statement in engine order. Statements
// that need a stable order must say so in ORDER BY.
func QueryAll[T any](ctx context.Context, s *Store, statement string, args ...any) ([]T, error) {
	rows := make([]T, 0)
	if err := s.db.WithContext(ctx).Raw(statement, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// QueryOne returns the first row of a read statement. ok is false when the
// statement matched nothing; that case is not an error.
func QueryOne[T any](ctx context.Context, s *Store, statement string, args ...any) (row T, ok bool, err error) {
	res := s.db.WithContext(ctx).Raw(statement, args...).Scan(&row)
	if res.Error != nil {
		return row, false, res.Error
	}
	return row, res.RowsAffected > 0, nil
}

// ParseLogLevel maps a DB_LOG_LEVEL value to a GORM logger level, defaulting
// to warn.
func ParseLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
