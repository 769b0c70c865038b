package applicationsvc

import (
	"github.com/joaop06/jcoder/internal/svc/applicationrepo"
	"github.com/joaop06/jcoder/internal/svc/componentrepo"
)

// Application is the hydrated read model: the application row plus whatever
// component slots exist for it. Json tag is used for caching.
type Application struct {
	ID              int64                    `json:"id"`
	OwnerUserID     int64                    `json:"owner_user_id"`
	Name            string                   `json:"name"`
	Description     string                   `json:"description"`
	ApplicationType string                   `json:"application_type"`
	DisplayOrder    int                      `json:"display_order"`
	GithubURL       string                   `json:"github_url"`
	IsActive        bool                     `json:"is_active"`
	Images          []string                 `json:"images"`
	Components      componentrepo.Components `json:"components"`
	CreatedAt       int64                    `json:"created_at"`
	UpdatedAt       int64                    `json:"updated_at"`
}

func toApplication(row applicationrepo.Application, components componentrepo.Components) Application {
	return Application{
		ID:              row.ID,
		OwnerUserID:     row.OwnerUserID,
		Name:            row.Name,
		Description:     row.Description,
		ApplicationType: row.ApplicationType.String(),
		DisplayOrder:    row.DisplayOrder,
		GithubURL:       row.GithubURL,
		IsActive:        row.IsActive,
		Images:          []string(row.Images),
		Components:      components,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
