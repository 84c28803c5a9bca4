package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/timada-org/todos/internal/core"
)

type Store struct {
	db    *gorm.DB
	Users *Users
	Todos *Todos
}

// Open connects to databaseURL. sqlite:///<path> opens a local file (or
// sqlite://:memory:), postgres:// and postgresql:// are handed to pgx.
func Open(databaseURL string, log *logrus.Logger) (*Store, error) {
	dialector, err := dialectorFor(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &Store{
		db:    db,
		Users: &Users{db},
		Todos: &Todos{db},
	}, nil
}

func dialectorFor(databaseURL string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite://"):
		path := strings.TrimPrefix(databaseURL, "sqlite://")
		if strings.HasPrefix(path, "/") && path != "/" {
			path = path[1:]
		}

		if path == "" {
			return nil, fmt.Errorf("%w: sqlite url %q has no path", core.ErrInvalid, databaseURL)
		}

		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}

		return sqlite.Open(path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), nil
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgres.Open(databaseURL), nil
	default:
		return nil, fmt.Errorf("%w: unsupported database url %q", core.ErrInvalid, databaseURL)
	}
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&core.User{}, &core.Todo{})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func newGormLogger(log *logrus.Logger) logger.Interface {
	if log == nil {
		return logger.Default.LogMode(logger.Silent)
	}

	level := logger.Warn
	if log.IsLevelEnabled(logrus.DebugLevel) {
		level = logger.Info
	}

	return logger.New(log, logger.Config{
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
