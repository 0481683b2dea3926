package sqlite

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"backline.dev/launcher/internal/folder"
)

var ErrNotOpened = errors.New("journal database not opened")

type SQLiteDelegate struct {
	BasePath string
	database *gorm.DB
}

func (sqliteDelegate *SQLiteDelegate) Open() (err error) {
	databasePath := filepath.Join(sqliteDelegate.BasePath, folder.JournalPath)
	if err = os.MkdirAll(filepath.Dir(databasePath), 0755); err != nil {
		return
	}
	dialector := sqlite.Open(databasePath)
	if sqliteDelegate.database, err = gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	}); err != nil {
		return
	}
	return
}

func (sqliteDelegate *SQLiteDelegate) Migrate() (err error) {
	if sqliteDelegate.database == nil {
		return ErrNotOpened
	}
	return sqliteDelegate.database.AutoMigrate(&Transfer{})
}

func (sqliteDelegate *SQLiteDelegate) Close() (err error) {
	if sqliteDelegate.database == nil {
		return ErrNotOpened
	}
	var database *sql.DB
	if database, err = sqliteDelegate.database.DB(); err != nil {
		return
	}
	if err = database.Close(); err != nil {
		return
	}
	sqliteDelegate.database = nil
	return
}
