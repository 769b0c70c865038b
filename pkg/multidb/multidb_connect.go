package multidb

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/jmoiron/sqlx"
	"github.com/joaop06/jcoder/pkg/validator"
	sqldblogger "github.com/simukti/sqldb-logger"
)

type SqlDbConnMakerConfig struct {
	Config DatabaseResources `validate:"required"`
}

type SqlDbConnMaker struct {
	conf     DatabaseResources
	disabled map[string]struct{} // labels that are configured but turned off
	dbSQL    map[string]*sqlx.DB // db label => real connection
	dbDriver map[string]Driver   // db label => driver name
	closer   []Closer
}

var _ MultiDB = (*SqlDbConnMaker)(nil)

func NewSqlDbConnMaker(conf SqlDbConnMakerConfig) (*SqlDbConnMaker, error) {
	err := validator.Validate(conf)
	if err != nil {
		err = fmt.Errorf("sql db connection maker failed: %w", err)
		return nil, err
	}

	instance := &SqlDbConnMaker{
		conf:     conf.Config,
		disabled: make(map[string]struct{}),
		dbSQL:    make(map[string]*sqlx.DB),
		dbDriver: make(map[string]Driver),
		closer:   make([]Closer, 0),
	}

	err = instance.connect()
	if err != nil {
		// close previous opened connection if error happen
		if _err := instance.Close(); _err != nil {
			err = fmt.Errorf("close db sql error: %w: %s", err, _err)
		}

		return nil, err
	}

	return instance, nil
}

func (i *SqlDbConnMaker) GetSqlx(driver Driver, key string) (*sqlx.DB, error) {
	_, exists := i.disabled[key]
	if exists {
		return nil, fmt.Errorf("db with key '%s' is disabled", key)
	}

	dbConnection, ok := i.dbSQL[key]
	if !ok {
		return nil, fmt.Errorf("key '%s' is not exist on db list", key)
	}

	registeredDriver, ok := i.dbDriver[key]
	if ok && driver == registeredDriver {
		return dbConnection, nil
	}

	return nil, fmt.Errorf("db key '%s' not using driver %s", key, driver)
}

func (i *SqlDbConnMaker) Close() error {
	var err error
	for _, c := range i.closer {
		if c == nil {
			continue
		}

		if e := c.Close(); e != nil {
			err = fmt.Errorf("%v: %w", err, e)
		}
	}

	return err
}

func (i *SqlDbConnMaker) connect() error {
	for dbLabel, dbConfig := range i.conf {
		dbLabel = strings.TrimSpace(strings.ToLower(dbLabel))
		if err := validator.Var(dbLabel, "required,alphanum"); err != nil {
			return fmt.Errorf("error connecting to database dbLabel '%s': %w", dbLabel, err)
		}

		if dbConfig.Disable {
			i.disabled[dbLabel] = struct{}{}
			continue
		}

		var sqlxConn *sqlx.DB

		switch dbConfig.Driver {
		case Postgres:
			driver := dbConfig.Driver.String()
			dsn := dbConfig.Postgres.DSN

			db, err := sql.Open(driver, dsn)
			if err != nil {
				return fmt.Errorf("cannot open db connection '%s': %w", dbLabel, err)
			}

			if dbConfig.Postgres.Debug {
				db = sqldblogger.OpenDriver(dsn, db.Driver(), &QueryLogger{}, sqldblogger.WithConnectionIDFieldname(dbLabel))
			}

			sqlxConn = sqlx.NewDb(db, driver)

		default:
			return fmt.Errorf("not supported driver '%s'", dbConfig.Driver)
		}

		// don't forget to register in closer, using unique name to track in the log
		i.dbSQL[dbLabel] = sqlxConn
		i.dbDriver[dbLabel] = dbConfig.Driver
		i.closer = append(i.closer, newNamedCloser(dbLabel, sqlxConn))
	}

	return nil
}
