package applicationrepo

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrValidation = errors.New("validation error")
)

// Repo is the Application table repository. Row-absent conditions surface as
// sql.ErrNoRows so callers can map them to their own not-found semantics.
type Repo interface {
	// WithTx returns a copy of the repository bound to the given connection,
	// typically a *sqlx.Tx, so a caller can group writes in one transaction.
	WithTx(conn sqlx.ExtContext) Repo

	Create(ctx context.Context, in InputCreate) (out OutCreate, err error)
	GetByID(ctx context.Context, in InputGetByID) (out OutGetByID, err error)
	GetByName(ctx context.Context, in InputGetByName) (out OutGetByName, err error)
	ListByOwner(ctx context.Context, in InputListByOwner) (out OutListByOwner, err error)
	UpdateScalars(ctx context.Context, in InputUpdateScalars) (out OutUpdateScalars, err error)
	SoftDeleteByID(ctx context.Context, in InputSoftDeleteByID) (out OutSoftDeleteByID, err error)

	// LockOwner takes row locks on all live applications of one owner.
	// Every ordering mutation for that owner must acquire this first, it is
	// the serialization point that keeps display orders dense under
	// concurrent requests.
	LockOwner(ctx context.Context, in InputLockOwner) (err error)

	CountByOwner(ctx context.Context, in InputCountByOwner) (out OutCountByOwner, err error)
	MaxDisplayOrder(ctx context.Context, in InputMaxDisplayOrder) (out OutMaxDisplayOrder, err error)

	// ShiftOrdersDown decrements display_order by one for live rows with
	// FromExclusive < display_order <= ToInclusive.
	ShiftOrdersDown(ctx context.Context, in InputShiftOrdersDown) (err error)

	// ShiftOrdersUp increments display_order by one for live rows with
	// FromInclusive <= display_order < ToExclusive.
	ShiftOrdersUp(ctx context.Context, in InputShiftOrdersUp) (err error)

	// CloseOrderGap decrements display_order by one for live rows with
	// display_order > RemovedOrder.
	CloseOrderGap(ctx context.Context, in InputCloseOrderGap) (err error)

	SetDisplayOrder(ctx context.Context, in InputSetDisplayOrder) (err error)
}

type InputCreate struct {
	Application Application `validate:"required"`
}

type OutCreate struct {
	Application Application
}

type InputGetByID struct {
	ID int64 `validate:"required"`
}

type OutGetByID struct {
	Application Application
}

type InputGetByName struct {
	Name string `validate:"required"`
}

type OutGetByName struct {
	Application Application
}

type InputListByOwner struct {
	OwnerUserID int64 `validate:"required"`
}

type OutListByOwner struct {
	Applications []Application
}

type InputUpdateScalars struct {
	Application Application `validate:"required"`
}

type OutUpdateScalars struct {
	Application Application
}

type InputSoftDeleteByID struct {
	ID        int64 `validate:"required"`
	DeletedAt int64 `validate:"required"`
}

type OutSoftDeleteByID struct {
	Application Application
	Success     bool
}

type InputLockOwner struct {
	OwnerUserID int64 `validate:"required"`
}

type InputCountByOwner struct {
	OwnerUserID int64 `validate:"required"`
}

type OutCountByOwner struct {
	Total int
}

type InputMaxDisplayOrder struct {
	OwnerUserID int64 `validate:"required"`
}

type OutMaxDisplayOrder struct {
	Max int
}

type InputShiftOrdersDown struct {
	OwnerUserID   int64 `validate:"required"`
	FromExclusive int   `validate:"min=0"`
	ToInclusive   int   `validate:"required,min=1"`
}

type InputShiftOrdersUp struct {
	OwnerUserID   int64 `validate:"required"`
	FromInclusive int   `validate:"required,min=1"`
	ToExclusive   int   `validate:"required,min=1"`
}

type InputCloseOrderGap struct {
	OwnerUserID  int64 `validate:"required"`
	RemovedOrder int   `validate:"required,min=1"`
}

type InputSetDisplayOrder struct {
	ID           int64 `validate:"required"`
	DisplayOrder int   `validate:"required,min=1"`
	UpdatedAt    int64 `validate:"required"`
}
