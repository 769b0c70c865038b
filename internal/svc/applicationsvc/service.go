package applicationsvc

import (
	"context"
	"errors"

	"github.com/joaop06/jcoder/internal/svc/componentsvc"
)

var (
	ErrValidation = errors.New("validation error")

	// ErrNotFound means the application id does not resolve to a live row.
	ErrNotFound = errors.New("application not found")

	// ErrUserNotFound means the owner id does not resolve to a user.
	ErrUserNotFound = errors.New("user not found")

	// ErrAlreadyExists means another live application already holds the name
	// (compared case-insensitively).
	ErrAlreadyExists = errors.New("application name already exists")
)

// Service is the application lifecycle: typed create, cached reads, strict
// update, idempotent delete and dense reordering. Every mutation runs in one
// transaction serialized per owner, so a failure anywhere leaves both the
// application rows and the component rows untouched.
type Service interface {
	CreateApplication(ctx context.Context, in InputCreateApplication) (out OutCreateApplication, err error)
	GetApplication(ctx context.Context, in InputGetApplication) (out OutGetApplication, err error)
	ListApplications(ctx context.Context, in InputListApplications) (out OutListApplications, err error)
	UpdateApplication(ctx context.Context, in InputUpdateApplication) (out OutUpdateApplication, err error)
	DeleteApplication(ctx context.Context, in InputDeleteApplication) (out OutDeleteApplication, err error)
	ReorderApplication(ctx context.Context, in InputReorderApplication) (out OutReorderApplication, err error)
}

type InputCreateApplication struct {
	OwnerUserID     int64                 `validate:"required"`
	Name            string                `validate:"required,min=1,max=120"`
	Description     string                `validate:"max=2000"`
	ApplicationType string                `validate:"required"`
	GithubURL       string                `validate:"omitempty,url"`
	IsActive        bool                  `validate:"-"`
	Images          []string              `validate:"dive,url"`
	Payloads        componentsvc.Payloads `validate:"-"`
}

type OutCreateApplication struct {
	Application Application
}

type InputGetApplication struct {
	ID int64 `validate:"required"`
}

type OutGetApplication struct {
	Application Application
}

type InputListApplications struct {
	OwnerUserID int64 `validate:"required"`
	Limit       int   `validate:"min=0,max=100"`
	Offset      int   `validate:"min=0"`
}

type OutListApplications struct {
	Applications []Application
	Total        int
}

type InputUpdateApplication struct {
	ID              int64                 `validate:"required"`
	Name            string                `validate:"required,min=1,max=120"`
	Description     string                `validate:"max=2000"`
	ApplicationType string                `validate:"required"`
	GithubURL       string                `validate:"omitempty,url"`
	IsActive        bool                  `validate:"-"`
	Images          []string              `validate:"dive,url"`
	Payloads        componentsvc.Payloads `validate:"-"`
}

type OutUpdateApplication struct {
	Application Application
}

type InputDeleteApplication struct {
	ID int64 `validate:"required"`
}

type OutDeleteApplication struct {
	// AlreadyDeleted is true when the id resolved to nothing, deleting twice
	// is not an error.
	AlreadyDeleted bool
}

type InputReorderApplication struct {
	ID           int64 `validate:"required"`
	DisplayOrder int   `validate:"required,min=1"`
}

type OutReorderApplication struct {
	Application Application
}
