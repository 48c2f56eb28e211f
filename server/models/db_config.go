package models

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Daskott/rolodex/server/logger"
	"github.com/Daskott/rolodex/utils"
	sqliteEncrypt "github.com/Daskott/gorm-sqlite-cipher"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const DB_NAME = "rolodex.db"

var logg = logger.NewLogger()
var db *gorm.DB

// AutoMigrate auto-migrates the db schema and inserts seed data
func AutoMigrate(passPhrase string, dbRootDir string, defaultGroups map[string]string) error {
	dbDSNVal, err := dbDSN(passPhrase, dbRootDir)
	if err != nil {
		return fmt.Errorf("failed to set sqlite DSN: %v", err)
	}

	err = openDB(dbDSNVal)
	if err != nil {
		return err
	}

	return migrateAndSeed(defaultGroups)
}

// InitializeTestDb points the package at a fresh in-memory database.
func InitializeTestDb() {
	err := openDB(fmt.Sprintf("file:%v?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		log.Panic(err)
	}

	// every connection to an in-memory db gets its own database
	sqlDB, err := db.DB()
	if err != nil {
		log.Panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = migrateAndSeed(map[string]string{"contact-users": "Contact Users"})
	if err != nil {
		log.Panic(err)
	}
}

// CheckpointDB flushes the write-ahead log into the main db file, so the file
// can be copied safely.
func CheckpointDB() error {
	return db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error
}

func DbDirectory(dbRootDir string) (string, error) {
	dbDir := filepath.Join(dbRootDir, "db")

	err := utils.CreateDirIfNotExist(dbDir)
	if err != nil {
		return "", err
	}

	return dbDir, nil
}

func DbFilePath(dbRootDir string) (string, error) {
	dbDir, err := DbDirectory(dbRootDir)
	if err != nil {
		return "", err
	}

	return filepath.Join(dbDir, DB_NAME), nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func openDB(dsn string) error {
	var err error

	db, err = gorm.Open(sqliteEncrypt.Open(dsn), &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				LogLevel:                  gormLogger.Silent,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %v", err)
	}

	return nil
}

func migrateAndSeed(defaultGroups map[string]string) error {
	err := db.AutoMigrate(
		&Group{}, &Permission{}, &Member{},
		&ContactTag{}, &ContactList{}, &Contact{},
		&ContactLocation{}, &ContactNote{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}

	err = seedGroups(defaultGroups)
	if err != nil {
		return fmt.Errorf("failed to insert seed data: %v", err)
	}

	return nil
}

func dbDSN(passPhrase string, dbRootDir string) (string, error) {
	dbFilePath, err := DbFilePath(dbRootDir)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"file:%v?_pragma_key=%s&_pragma_cipher_page_size=4096&_journal_mode=WAL",
		dbFilePath,
		passPhrase,
	), nil
}
