package applicationrepo

import (
	"github.com/lib/pq"
)

type ApplicationType string

const (
	TypeAPI       ApplicationType = "API"
	TypeMobile    ApplicationType = "MOBILE"
	TypeLibrary   ApplicationType = "LIBRARY"
	TypeFrontend  ApplicationType = "FRONTEND"
	TypeFullstack ApplicationType = "FULLSTACK"
)

func (t ApplicationType) String() string {
	return string(t)
}

func (t ApplicationType) Valid() bool {
	switch t {
	case TypeAPI, TypeMobile, TypeLibrary, TypeFrontend, TypeFullstack:
		return true
	}

	return false
}

// Application is one user-owned project. DisplayOrder is dense per owner:
// the live rows of one owner always hold exactly 1..N.
// Json tag is used for caching.
type Application struct {
	ID              int64           `json:"id" db:"id" validate:"required"`
	OwnerUserID     int64           `json:"owner_user_id" db:"owner_user_id" validate:"required"`
	Name            string          `json:"name" db:"name" validate:"required"`
	Description     string          `json:"description" db:"description" validate:"-"`
	ApplicationType ApplicationType `json:"application_type" db:"application_type" validate:"required"`
	DisplayOrder    int             `json:"display_order" db:"display_order" validate:"required,min=1"`
	GithubURL       string          `json:"github_url" db:"github_url" validate:"omitempty,url"`
	IsActive        bool            `json:"is_active" db:"is_active" validate:"-"`
	Images          pq.StringArray  `json:"images" db:"images" validate:"-"`

	// Timestamp using integer as unix microsecond in UTC
	CreatedAt int64 `json:"created_at" db:"created_at" validate:"required"`
	UpdatedAt int64 `json:"updated_at" db:"updated_at" validate:"required"`
	DeletedAt int64 `json:"deleted_at" db:"deleted_at" validate:"-"`
}
