package userrepo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/joaop06/jcoder/pkg/validator"
)

const (
	sqlGetUserByID = `SELECT * FROM users WHERE id = $1 AND deleted_at = 0 LIMIT 1;`
)

type RepoPostgresConfig struct {
	Connection sqlx.ExtContext `validate:"required"`
}

type RepoPostgres struct {
	Config RepoPostgresConfig
}

var _ Repo = (*RepoPostgres)(nil)

// Postgres return repo interface which implements using PgSQL
func Postgres(conf RepoPostgresConfig) (service *RepoPostgres, err error) {
	err = validator.Validate(conf)
	if err != nil {
		return nil, err
	}

	service = &RepoPostgres{
		Config: conf,
	}
	return
}

func (p *RepoPostgres) GetByID(ctx context.Context, in InputGetByID) (out OutGetByID, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	user := User{}
	err = sqlx.GetContext(ctx, p.Config.Connection, &user, sqlGetUserByID, in.ID)
	if err != nil {
		return
	}

	out = OutGetByID{
		User: user,
	}
	return
}
