package container

import (
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"go.uber.org/multierr"

	"github.com/joaop06/jcoder/internal/svc/applicationrepo"
	"github.com/joaop06/jcoder/internal/svc/componentrepo"
	"github.com/joaop06/jcoder/internal/svc/userrepo"
	"github.com/joaop06/jcoder/pkg/multidb"
	"github.com/joaop06/jcoder/pkg/validator"
)

// Repositories is an abstraction layer to list down all repositories.
// This only will connect and save the repository.
// To use this, you must select the db label based on config file
type Repositories interface {
	io.Closer

	SqlxConn(dbLabel string) (*sqlx.DB, error)
	UserRepo(dbLabel string) (userrepo.Repo, error)
	ApplicationRepo(dbLabel string) (applicationrepo.Repo, error)
	ComponentRepo(dbLabel string) (componentrepo.Repo, error)
}

// RepositoryImpl the real implementation of Repositories
type RepositoryImpl struct {
	dbResourceMap ConfigDatabaseResources `validate:"required,structonly"`
	dbSqlConn     multidb.MultiDB         `validate:"required"` // all database connection
}

// Ensure that RepositoryImpl implements Repositories
var _ Repositories = (*RepositoryImpl)(nil)

// SetupRepositories return pointer because it heavily used.
// This will initialize all required dependencies to run.
// This will return RepositoryImpl instead Repositories,
// the reason is when SetupRepositories called it must be close in deferred mode, any passed value using interface
// won't let user Close any dependencies during run-time.
func SetupRepositories(conf ConfigDatabaseResources) (*RepositoryImpl, error) {
	sqlDbConfig := multidb.DatabaseResources{}
	for name, conn := range conf {
		sqlDbConfig[name] = multidb.DatabaseResource{
			Disable:  conn.Disable,
			Driver:   multidb.Driver(conn.Driver),
			Postgres: multidb.GoSqlDb(conn.Postgres),
		}
	}

	dbSqlConn, err := multidb.NewSqlDbConnMaker(multidb.SqlDbConnMakerConfig{Config: sqlDbConfig})
	if err != nil {
		return nil, err
	}

	dep := &RepositoryImpl{
		dbResourceMap: conf,
		dbSqlConn:     dbSqlConn,
	}

	err = validator.Validate(dep)
	if err != nil {
		return nil, err
	}

	return dep, nil
}

// SqlxConn exposes the raw connection of one label. The application service
// needs it to begin transactions spanning multiple repositories.
func (r *RepositoryImpl) SqlxConn(dbLabel string) (conn *sqlx.DB, err error) {
	repoConnInfo, ok := r.dbResourceMap[dbLabel]
	if !ok {
		err = fmt.Errorf("unknown database key %s", dbLabel)
		return
	}

	switch repoConnInfo.Driver {
	case "postgres":
		return r.dbSqlConn.GetSqlx(multidb.Postgres, dbLabel)

	default:
		err = fmt.Errorf("not supported db driver '%s' on label '%s'", repoConnInfo.Driver, dbLabel)
		return
	}
}

// UserRepo return userrepo.Repo and return error when connection is closed or nil.
// This should never have caused panic.
func (r *RepositoryImpl) UserRepo(dbLabel string) (repo userrepo.Repo, err error) {
	sqlConn, err := r.SqlxConn(dbLabel)
	if err != nil {
		return
	}

	return userrepo.Postgres(userrepo.RepoPostgresConfig{
		Connection: sqlConn,
	})
}

func (r *RepositoryImpl) ApplicationRepo(dbLabel string) (repo applicationrepo.Repo, err error) {
	sqlConn, err := r.SqlxConn(dbLabel)
	if err != nil {
		return
	}

	return applicationrepo.Postgres(applicationrepo.RepoPostgresConfig{
		Connection: sqlConn,
	})
}

func (r *RepositoryImpl) ComponentRepo(dbLabel string) (repo componentrepo.Repo, err error) {
	sqlConn, err := r.SqlxConn(dbLabel)
	if err != nil {
		return
	}

	return componentrepo.Postgres(componentrepo.RepoPostgresConfig{
		Connection: sqlConn,
	})
}

// Close will close all dependencies.
func (r *RepositoryImpl) Close() error {
	if r == nil {
		return nil
	}

	if r.dbSqlConn == nil {
		return nil
	}

	var err error
	if _err := r.dbSqlConn.Close(); _err != nil {
		err = multierr.Append(err, fmt.Errorf("close db error: %w", _err))
	}

	return err
}
