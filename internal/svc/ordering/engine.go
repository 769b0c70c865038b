package ordering

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrValidation = errors.New("validation error")

	// ErrOutOfBounds means a reorder target fell outside [1, N] for the
	// owner's live applications. The caller derives a valid target, the
	// engine never clamps.
	ErrOutOfBounds = errors.New("display order out of bounds")
)

// Engine keeps each owner's display orders dense: the live applications of
// one owner always hold exactly the orders 1..N, no gaps, no duplicates.
//
// Every mutating call must run inside a transaction that already holds the
// per-owner row lock (applicationrepo.Repo.LockOwner). Two concurrent
// mutations for the same owner would otherwise compute shifts against the
// same stale snapshot and corrupt the sequence.
type Engine interface {
	// WithTx returns a copy of the engine whose repository is bound to the
	// given connection.
	WithTx(conn sqlx.ExtContext) Engine

	// AppendNext returns the order for a newly created application:
	// max(display_order)+1, or 1 when the owner has none.
	AppendNext(ctx context.Context, in InputAppendNext) (out OutAppendNext, err error)

	// CloseGapAfterDelete shifts every application ordered after the removed
	// one down by one, restoring density. Must run in the same transaction
	// as the delete.
	CloseGapAfterDelete(ctx context.Context, in InputCloseGapAfterDelete) (err error)

	// Move relocates one application to a new order, shifting only the rows
	// between the two positions. No-op when from == to.
	Move(ctx context.Context, in InputMove) (err error)
}

type InputAppendNext struct {
	OwnerUserID int64 `validate:"required"`
}

type OutAppendNext struct {
	Next int
}

type InputCloseGapAfterDelete struct {
	OwnerUserID  int64 `validate:"required"`
	RemovedOrder int   `validate:"required,min=1"`
}

type InputMove struct {
	OwnerUserID   int64 `validate:"required"`
	ApplicationID int64 `validate:"required"`
	FromOrder     int   `validate:"required,min=1"`
	ToOrder       int   `validate:"required,min=1"`
	UpdatedAt     int64 `validate:"required"`
}
