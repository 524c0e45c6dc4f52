// database_utils should be the canonical place to put shared DB utils.
// It should not include:
// 1. Any util that doesn't manipulate DB
// 2. Any util that contains business logic
package utils

import (
	"fmt"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/Luismorlan/hackernews/model"
	"github.com/Luismorlan/hackernews/utils/config"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestDBPrefix         = "testonlydb_"
	TestDBNameCharLength = 8

	// TestDBBackendEnv selects the database used by CreateTempDB, sqlite
	// in-memory unless set to "postgres".
	TestDBBackendEnv = "TEST_DB_BACKEND"
)

func isTempDB(dbName string) bool {
	return strings.HasPrefix(dbName, TestDBPrefix)
}

func randomTestDBName() string {
	return TestDBPrefix + RandomAlphabetString(TestDBNameCharLength)
}

// GetDBConnection get a connection to the database specified by cfg.
func GetDBConnection(cfg config.DBConfig) (*gorm.DB, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		return GetCustomizedConnection(cfg, cfg.Name)
	case config.BackendSQLite:
		return GetSQLiteConnection(cfg.SQLitePath)
	}
	return nil, errors.Errorf("backend %q is not a database", cfg.Backend)
}

// GetDefaultDBConnection connect to database "postgres" to manage all dbs
func GetDefaultDBConnection() (*gorm.DB, error) {
	return GetCustomizedConnection(defaultDBConfig(), os.Getenv("DEFAULT_DB_NAME"))
}

// defaultDBConfig is the administrative postgres account used to create and
// drop test databases.
func defaultDBConfig() config.DBConfig {
	return config.DBConfig{
		Backend: config.BackendPostgres,
		Host:    os.Getenv("DB_HOST"),
		Port:    os.Getenv("DB_PORT"),
		User:    os.Getenv("DEFAULT_DB_USER"),
		Pass:    os.Getenv("DEFAULT_DB_PASS"),
	}
}

// testDBConfig is the account owning the test databases.
func testDBConfig() config.DBConfig {
	return config.DBConfig{
		Backend: config.BackendPostgres,
		Host:    os.Getenv("DB_HOST"),
		Port:    os.Getenv("DB_PORT"),
		User:    os.Getenv("DB_USER"),
		Pass:    os.Getenv("DB_PASS"),
	}
}

// GetCustomizedConnection connect to any postgres db
func GetCustomizedConnection(cfg config.DBConfig, dbName string) (*gorm.DB, error) {
	return getDB(postgres.Open(cfg.DSN(dbName)))
}

// GetSQLiteConnection opens the sqlite database at path, which can be a file
// name or a "file:" URI.
func GetSQLiteConnection(path string) (*gorm.DB, error) {
	db, err := getDB(sqlite.Open(path))
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer, queueing on one connection avoids
	// "database is locked" errors.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Create a temp DB for testing, note that this function should only be called
// in a testing environment with test state manager testing.T
// It is guaranteed that this table will be dropped after each test case, user
// will not need to drop the database explicitly.
//
// The DB is an in-memory sqlite database unless TEST_DB_BACKEND=postgres, in
// which case a postgres database is created with the DEFAULT_DB_* account.
// There are 2 cases where a postgres database won't be cleaned up:
// 1. Test fail due to timeout
// 2. Exit with signal Ctrl+C
// In both cases you should log into the database and do a manual cleanup for
// databases with prefix "testonlydb_".
func CreateTempDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	if os.Getenv(TestDBBackendEnv) == config.BackendPostgres {
		return createTempPostgresDB(t)
	}
	return createTempSQLiteDB(t)
}

func createTempSQLiteDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	dbName := randomTestDBName()
	// Named shared-cache memory DB, private to this test.
	db, err := GetSQLiteConnection(fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName))
	if err != nil {
		t.Fatalf("fail to open sqlite DB %s: %v", dbName, err)
	}
	if err := DatabaseSetupAndMigration(db); err != nil {
		t.Fatalf("fail to migrate sqlite DB %s: %v", dbName, err)
	}
	t.Cleanup(func() {
		conn, _ := db.DB()
		conn.Close()
	})
	return db, dbName
}

func createTempPostgresDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	db, err := GetDefaultDBConnection()
	if err != nil {
		log.Fatalln("cannot connect to DB")
	}
	dbName := randomTestDBName()
	err = db.Exec("CREATE DATABASE " + dbName).Error
	if err != nil {
		log.Fatalln("fail to create temp DB with name: ", dbName)
	}
	newDB, err := GetCustomizedConnection(testDBConfig(), dbName)
	if err != nil {
		log.Fatalln("fail to connect to newly created DB: ", dbName)
	}
	if err := DatabaseSetupAndMigration(newDB); err != nil {
		log.Fatalln("fail to migrate temp DB: ", dbName, err)
	}
	t.Cleanup(func() {
		dropTempDB(newDB, dbName)

		// Also proactively clean up the DB connections instead of deferring to GC.
		// Otherwise, we might exceed the DB max connection limit in test and
		// causing some tests to fail.
		conn, _ := db.DB()
		conn.Close()
		conn, _ = newDB.DB()
		conn.Close()
	})

	return newDB, dbName
}

// dropTempDB drops a temp db with given name. This will always be called after
// CreateTempDB. Abort program on any failure. This function can be called
// multiple times. It won't fail on deleting non-existing DB.
func dropTempDB(curDB *gorm.DB, dbName string) {
	if !isTempDB(dbName) {
		log.Fatalln("cannot delete a non-testing DB")
	}

	exists, err := IsDatabaseExist(dbName)
	if err != nil {
		log.Fatalln("cannot connect to DB")
	}

	if !exists {
		return
	}

	// We need to close the current DB connection first. Otherwise it's not
	// possible to drop it. However we don't check if sqlDB is closed successfully
	// because fail to close will still produce error when we try to drop it.
	sqlDB, err := curDB.DB()
	if err != nil {
		log.Fatalln("cannot get the current SQL DB")
	}
	if err := sqlDB.Close(); err != nil {
		log.Println("cannot close DB", err)
	}

	db, err := GetDefaultDBConnection()
	if err != nil {
		log.Fatalln("cannot connect to DB")
	}
	db.Exec("DROP DATABASE " + dbName)
}

func getDB(dialector gorm.Dialector) (db *gorm.DB, err error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// DatabaseSetupAndMigration registers the join tables and creates or updates
// the schema of all models.
func DatabaseSetupAndMigration(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.Link{}, "Voters", &model.Vote{}); err != nil {
		return errors.Wrap(err, "setup join table for Link.Voters")
	}
	if err := db.SetupJoinTable(&model.User{}, "Votes", &model.Vote{}); err != nil {
		return errors.Wrap(err, "setup join table for User.Votes")
	}
	if err := db.AutoMigrate(&model.User{}, &model.Link{}, &model.Vote{}); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return nil
}

// IsDatabaseExist returns true on postgres DB exist, returns false on not
// exist or error
func IsDatabaseExist(dbName string) (bool, error) {
	db, err := GetDefaultDBConnection()
	if err != nil {
		return false, err
	}

	var exists bool
	res := db.Raw("SELECT TRUE FROM pg_catalog.pg_database WHERE lower(datname) = lower(?) limit 1;", dbName).Scan(&exists)
	if res.Error != nil {
		return false, res.Error
	}

	return exists, nil
}
