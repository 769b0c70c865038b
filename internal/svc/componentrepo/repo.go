package componentrepo

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrValidation = errors.New("validation error")
)

// Repo is the component store: per-slot persistence keyed 1:1 by the owning
// application id. Upserts create-or-replace, so writing a slot twice for the
// same application can never yield two rows.
type Repo interface {
	// WithTx returns a copy of the repository bound to the given connection,
	// typically a *sqlx.Tx.
	WithTx(conn sqlx.ExtContext) Repo

	UpsertApi(ctx context.Context, in InputUpsertApi) (out OutUpsertApi, err error)
	UpsertMobile(ctx context.Context, in InputUpsertMobile) (out OutUpsertMobile, err error)
	UpsertLibrary(ctx context.Context, in InputUpsertLibrary) (out OutUpsertLibrary, err error)
	UpsertFrontend(ctx context.Context, in InputUpsertFrontend) (out OutUpsertFrontend, err error)

	// GetByApplicationID hydrates every slot that exists for the application.
	// Absent slots are nil, never an error.
	GetByApplicationID(ctx context.Context, in InputGetByApplicationID) (out OutGetByApplicationID, err error)

	// DeleteSlots removes only the named slots for the application.
	DeleteSlots(ctx context.Context, in InputDeleteSlots) (err error)

	// DeleteByApplicationID removes every slot of the application.
	DeleteByApplicationID(ctx context.Context, in InputDeleteByApplicationID) (err error)
}

type InputUpsertApi struct {
	Component ApiComponent `validate:"required"`
}

type OutUpsertApi struct {
	Component ApiComponent
}

type InputUpsertMobile struct {
	Component MobileComponent `validate:"required"`
}

type OutUpsertMobile struct {
	Component MobileComponent
}

type InputUpsertLibrary struct {
	Component LibraryComponent `validate:"required"`
}

type OutUpsertLibrary struct {
	Component LibraryComponent
}

type InputUpsertFrontend struct {
	Component FrontendComponent `validate:"required"`
}

type OutUpsertFrontend struct {
	Component FrontendComponent
}

type InputGetByApplicationID struct {
	ApplicationID int64 `validate:"required"`
}

type OutGetByApplicationID struct {
	Components Components
}

type InputDeleteSlots struct {
	ApplicationID int64  `validate:"required"`
	Slots         []Slot `validate:"required,min=1"`
}

type InputDeleteByApplicationID struct {
	ApplicationID int64 `validate:"required"`
}
