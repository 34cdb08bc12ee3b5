// Package dbconfig loads spoke chain and hub asset configuration from Postgres.
package dbconfig

import (
	"database/sql"

	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

type DBConfig struct {
	dbConnStr string
}

// NewDBConfig creates a new DBConfig instance with the provided connection string.
//
// Parameters:
// - connStr: the database connection string.
//
// Returns:
// - *DBConfig: a pointer to the newly created DBConfig instance.
// - error: an error if the connection string is empty.
func NewDBConfig(connStr string) (*DBConfig, error) {
	if connStr == "" {
		return nil, errors.Wrap(commonerrors.ErrInvalidConfig, "database connection string is empty")
	}
	return &DBConfig{
		dbConnStr: connStr,
	}, nil
}

func (r *DBConfig) open() (*sql.DB, error) {
	db, err := sql.Open("postgres", r.dbConnStr)
	if err != nil {
		return nil, dbError(err)
	}
	return db, nil
}

// dbError wraps err so callers can match ErrDatabaseConnect.
func dbError(err error) error {
	return errors.Wrap(commonerrors.ErrDatabaseConnect, err.Error())
}
