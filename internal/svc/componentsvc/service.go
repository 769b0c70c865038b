package componentsvc

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/joaop06/jcoder/internal/svc/applicationrepo"
	"github.com/joaop06/jcoder/internal/svc/componentrepo"
)

var (
	ErrValidation = errors.New("validation error")

	ErrUnknownApplicationType = errors.New("unknown application type")

	ErrRequiredApiComponent             = errors.New("application of type API requires an api component")
	ErrRequiredMobileComponent          = errors.New("application of type MOBILE requires a mobile component")
	ErrRequiredLibraryComponent         = errors.New("application of type LIBRARY requires a library component")
	ErrRequiredFrontendComponent        = errors.New("application of type FRONTEND requires a frontend component")
	ErrRequiredApiAndFrontendComponents = errors.New("application of type FULLSTACK requires both api and frontend components")

	// ErrAssociatedAPIInvalid means a mobile/frontend payload referenced a
	// backing application that does not exist or is not of type API.
	ErrAssociatedAPIInvalid = errors.New("associated api must reference an existing application of type API")
)

// Orchestrator decides which component slots an application type mandates,
// validates their presence, and persists exactly that subset. Slots not
// required by the type are never touched, so a call is idempotent.
type Orchestrator interface {
	// WithTx returns a copy of the orchestrator whose repositories are bound
	// to the given connection.
	WithTx(conn sqlx.ExtContext) Orchestrator

	// ValidateForType checks presence of the mandated payload(s) without
	// touching storage. Callers run this before any write so a failing
	// request never starts a transaction.
	ValidateForType(applicationType applicationrepo.ApplicationType, payloads Payloads) error

	// SaveForType validates then create-or-replaces the mandated slot rows
	// keyed by the application id.
	SaveForType(ctx context.Context, in InputSaveForType) (out OutSaveForType, err error)

	// ObsoleteSlots lists the slots NOT required by the type. Used by the
	// lifecycle service to clean up rows left behind by a type change.
	ObsoleteSlots(applicationType applicationrepo.ApplicationType) []componentrepo.Slot
}

// Payloads mirrors the four optional component slots of the request DTO.
type ApiPayload struct {
	Domain              string `validate:"required"`
	ApiURL              string `validate:"required,url"`
	DocumentationURL    string `validate:"omitempty,url"`
	HealthCheckEndpoint string `validate:"-"`
}

type MobilePayload struct {
	Platform        string `validate:"required,oneof=ANDROID IOS CROSS_PLATFORM"`
	DownloadURL     string `validate:"omitempty,url"`
	AssociatedApiID int64  `validate:"min=0"`
}

type LibraryPayload struct {
	PackageManagerURL string `validate:"required,url"`
	ReadmeContent     string `validate:"-"`
}

type FrontendPayload struct {
	FrontendURL     string `validate:"required,url"`
	ScreenshotURL   string `validate:"omitempty,url"`
	AssociatedApiID int64  `validate:"min=0"`
}

type Payloads struct {
	Api      *ApiPayload      `validate:"omitempty"`
	Mobile   *MobilePayload   `validate:"omitempty"`
	Library  *LibraryPayload  `validate:"omitempty"`
	Frontend *FrontendPayload `validate:"omitempty"`
}

type InputSaveForType struct {
	ApplicationID   int64                           `validate:"required"`
	ApplicationType applicationrepo.ApplicationType `validate:"required"`
	Payloads        Payloads                        `validate:"-"`
}

type OutSaveForType struct {
	Components componentrepo.Components
}
