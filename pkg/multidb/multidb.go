package multidb

import (
	"io"

	"github.com/jmoiron/sqlx"
)

// MultiDB hands out the sqlx connection registered under a config label.
type MultiDB interface {
	GetSqlx(driver Driver, key string) (*sqlx.DB, error)
	io.Closer
}
