package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"autoboard/internal/models"
)

// ErrNotFound is returned when a looked up row does not exist.
var ErrNotFound = errors.New("not found")

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store wraps access to the relational database and exposes high level helpers.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open connects to the database selected by driver and runs the required migrations.
func Open(driver, dsn string, logger *slog.Logger) (*Store, error) {
	if dsn == "" {
		return nil, goerr.New("empty database dsn", goerr.V("driver", driver))
	}
	if logger == nil {
		logger = slog.Default()
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite, "":
		if err := ensureDir(dsn); err != nil {
			return nil, goerr.Wrap(err, "create database directory", goerr.V("path", dsn))
		}
		dialector = sqlite.New(sqlite.Config{
			DriverName: "sqlite3",
			DSN:        fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=ON", dsn),
		})
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, goerr.New("unsupported database driver", goerr.V("driver", driver))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(slogWriter{logger}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogLevel(logger),
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "open database", goerr.V("driver", driver))
	}

	if driver != DriverPostgres {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, goerr.Wrap(err, "get sql handle")
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn inside a single database transaction. The Store handed
// to fn is bound to that transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&Store{db: db, logger: s.logger})
	})
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate() error {
	if err := s.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.TaskStatus{},
		&models.Task{},
		&models.ActivityLog{},
	); err != nil {
		return goerr.Wrap(err, "migration failed")
	}
	return s.seedStatuses()
}

// seedStatuses inserts the default board columns into an empty status table.
func (s *Store) seedStatuses() error {
	var count int64
	if err := s.db.Model(&models.TaskStatus{}).Count(&count).Error; err != nil {
		return goerr.Wrap(err, "count task statuses")
	}
	if count > 0 {
		return nil
	}
	for _, name := range models.DefaultTaskStatuses {
		if err := s.db.Create(&models.TaskStatus{Name: name}).Error; err != nil {
			return goerr.Wrap(err, "seed task status", goerr.V("name", name))
		}
	}
	s.logger.Info("seeded task statuses", slog.Int("count", len(models.DefaultTaskStatuses)))
	return nil
}

// notFound converts gorm's missing row error into ErrNotFound.
func notFound(err error, entity string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return goerr.Wrap(ErrNotFound, entity+" not found", goerr.V("id", id))
	}
	return goerr.Wrap(err, "get "+entity, goerr.V("id", id))
}

// IsConflict reports whether err comes from a unique or foreign key constraint.
func IsConflict(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated)
}

// slogWriter routes gorm's printf style logging into slog.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), slog.String("component", "gorm"))
}

func gormLogLevel(logger *slog.Logger) gormlogger.LogLevel {
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		return gormlogger.Info
	}
	return gormlogger.Warn
}
