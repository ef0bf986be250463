// Package sqlite opens SQLite databases for the rule lexicon through either
// a pure Go or a CGO driver.
//
// Build modes:
//   - Default: pure Go modernc.org/sqlite
//   - CGO_ENABLED=1 -tags cgo_sqlite: mattn/go-sqlite3
//
// Use Open instead of sql.Open so the compiled-in driver is used.
package sqlite

import (
	"database/sql"
	"strings"

	"github.com/FocuswithJustin/correctir/core/errors"
)

// Memory is the data source name of a private in-memory database.
const Memory = ":memory:"

// DriverName returns the registered database/sql driver name.
func DriverName() string {
	return driverName
}

// DriverType returns "cgo" for mattn/go-sqlite3 and "purego" for
// modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// IsCGO reports whether the CGO driver is compiled in.
func IsCGO() bool {
	return driverType == "cgo"
}

// Open opens a SQLite database and verifies the connection.
//
// An in-memory database exists per connection, so the pool is limited to a
// single connection for ":memory:".
func Open(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, errors.NewIO("open", dataSourceName, err)
	}
	if isMemory(dataSourceName) {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.NewIO("open", dataSourceName, err)
	}
	return db, nil
}

// OpenReadOnly opens an existing SQLite database in read-only mode.
func OpenReadOnly(path string) (*sql.DB, error) {
	return Open("file:" + path + "?mode=ro")
}

func isMemory(dsn string) bool {
	return dsn == Memory || strings.Contains(dsn, "mode=memory")
}

// Info describes the compiled-in driver.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	IsCGO      bool   `json:"is_cgo"`
	Package    string `json:"package"`
}

// GetInfo returns information about the compiled-in driver.
func GetInfo() Info {
	return Info{
		DriverName: driverName,
		DriverType: driverType,
		IsCGO:      IsCGO(),
		Package:    driverPackage,
	}
}
