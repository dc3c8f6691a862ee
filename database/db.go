package database

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path"

	"github.com/rms-local/rms-server/config"
	"github.com/rms-local/rms-server/database/model"
	"github.com/rms-local/rms-server/util/common"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

func initModels() error {
	models := []any{
		&model.User{},
		&model.Session{},
		&model.UserRole{},
		&model.Event{},
		&model.EventLog{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return err
		}
	}
	return nil
}

// initIndexes creates the partial unique index that guarantees at most one
// global ADMIN role row. AutoMigrate cannot express partial indexes.
func initIndexes() error {
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_roles_one_global_admin
		 ON user_roles(role) WHERE role = 'ADMIN' AND event_code IS NULL;`,
	).Error
}

// InitDB opens the registry database, applies pragmas and migrates the
// schema. The registry stays open for the lifetime of the process.
func InitDB(dbPath string) error {
	dir := path.Dir(dbPath)
	err := os.MkdirAll(dir, fs.ModePerm)
	if err != nil {
		return err
	}

	// Opening a corrupted or foreign file would let gorm clobber it during
	// migration. Refuse anything that is not an SQLite database.
	if info, statErr := os.Stat(dbPath); statErr == nil && info.Size() > 0 {
		file, err := os.Open(dbPath)
		if err != nil {
			return err
		}
		ok, err := IsSQLiteDB(file)
		file.Close()
		if err != nil {
			return err
		}
		if !ok {
			return common.NewErrorf("%s is not a SQLite database", dbPath)
		}
	}

	var gormLogger logger.Interface

	if config.IsDebug() {
		gormLogger = logger.Default
	} else {
		gormLogger = logger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}

	// Foreign keys are a per-connection setting in SQLite; the DSN is the
	// only place that reaches every connection the pool opens. Cascading
	// role deletion depends on it.
	dsn := dbPath + "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"
	db, err = gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	_, err = sqlDB.Exec("PRAGMA cache_size = -64000;")
	if err != nil {
		return err
	}
	_, err = sqlDB.Exec("PRAGMA temp_store = MEMORY;")
	if err != nil {
		return err
	}

	if err := initModels(); err != nil {
		return err
	}
	return initIndexes()
}

// CloseDB checkpoints and closes the registry database.
func CloseDB() error {
	if db != nil {
		if err := Checkpoint(); err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}

func IsSQLiteDB(file io.ReaderAt) (bool, error) {
	signature := []byte("SQLite format 3\x00")
	buf := make([]byte, len(signature))
	_, err := file.ReadAt(buf, 0)
	if err != nil {
		return false, err
	}
	return bytes.Equal(buf, signature), nil
}

// Checkpoint flushes the WAL into the main database file.
func Checkpoint() error {
	return db.Exec("PRAGMA wal_checkpoint;").Error
}
