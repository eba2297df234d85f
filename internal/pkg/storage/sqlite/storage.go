package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"

	"solana-course/internal/pkg/config_types"
	"solana-course/internal/pkg/log"
)

const (
	driver = "sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Storage struct {
	db *sql.DB
}

func New(ctx context.Context, cfg config_types.SQLiteConfig) (s *Storage, err error) {
	db, err := sql.Open(driver, fmt.Sprintf("file:%s?mode=rwc&_fk=1&_timeout=10000&_cache_size=-10000&_synchronous=NORMAL&_journal_mode=WAL", cfg.DBPath))
	if err != nil {
		return s, fmt.Errorf("sql.Open: %s", err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return s, fmt.Errorf("ping: %s", err)
	}

	migrations := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationsFS,
		Root:       "migrations",
	}

	appliedMigrations, err := migrate.Exec(db, driver, migrations, migrate.Up)
	if err != nil {
		db.Close()
		return s, errors.Wrap(err, "migrate.Exec")
	}

	log.Logger.Storage.Infof("sqlite: applied migrations: %d", appliedMigrations)

	return &Storage{
		db: db,
	}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
