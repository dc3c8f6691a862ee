// Package eventdb manages the isolated per-event database files. Each
// tournament event gets its own SQLite file next to the registry database;
// the file's existence on disk is authoritative for "this event has a store".
package eventdb

import (
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// FileName returns the deterministic database filename for an event code.
func FileName(code string) string {
	return "event-" + code + ".db"
}

// Path returns the absolute path of the event database for code inside dir.
func Path(dir, code string) (string, error) {
	return filepath.Abs(filepath.Join(dir, FileName(code)))
}

// ApplySchema opens the database file at dbPath, creates the fixed event
// table set and closes the handle again. The file must already exist.
func ApplySchema(dbPath string) error {
	db, err := gorm.Open(sqlite.Open(dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"), &gorm.Config{
		Logger:                 logger.Discard,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if _, err := sqlDB.Exec(schema); err != nil {
		return err
	}

	// Flush the WAL so the provisioned file is self-contained on disk.
	_, err = sqlDB.Exec("PRAGMA wal_checkpoint(TRUNCATE);")
	return err
}
