package userrepo

import (
	"context"
	"errors"
)

var (
	ErrValidation = errors.New("validation error")
)

// Repo is the User lookup collaborator. The lifecycle service only needs to
// verify ownership, so the surface is intentionally small.
type Repo interface {
	GetByID(ctx context.Context, in InputGetByID) (out OutGetByID, err error)
}

type InputGetByID struct {
	ID int64 `validate:"required"`
}

type OutGetByID struct {
	User User
}
