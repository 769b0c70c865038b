package httptyped

import (
	"github.com/joaop06/jcoder/internal/svc/applicationsvc"
	"github.com/joaop06/jcoder/internal/svc/componentrepo"
)

type ApiComponentEntity struct {
	Domain              string `json:"domain"`
	ApiURL              string `json:"api_url"`
	DocumentationURL    string `json:"documentation_url,omitempty"`
	HealthCheckEndpoint string `json:"health_check_endpoint,omitempty"`
}

type MobileComponentEntity struct {
	Platform        string `json:"platform"`
	DownloadURL     string `json:"download_url,omitempty"`
	AssociatedApiID int64  `json:"associated_api_id,omitempty"`
}

type LibraryComponentEntity struct {
	PackageManagerURL string `json:"package_manager_url"`
	ReadmeContent     string `json:"readme_content,omitempty"`
}

type FrontendComponentEntity struct {
	FrontendURL     string `json:"frontend_url"`
	ScreenshotURL   string `json:"screenshot_url,omitempty"`
	AssociatedApiID int64  `json:"associated_api_id,omitempty"`
}

type ApplicationEntity struct {
	ID              int64                    `json:"id"`
	OwnerUserID     int64                    `json:"owner_user_id"`
	Name            string                   `json:"name"`
	Description     string                   `json:"description,omitempty"`
	ApplicationType string                   `json:"application_type"`
	DisplayOrder    int                      `json:"display_order"`
	GithubURL       string                   `json:"github_url,omitempty"`
	IsActive        bool                     `json:"is_active"`
	Images          []string                 `json:"images"`
	Api             *ApiComponentEntity      `json:"api,omitempty"`
	Mobile          *MobileComponentEntity   `json:"mobile,omitempty"`
	Library         *LibraryComponentEntity  `json:"library,omitempty"`
	Frontend        *FrontendComponentEntity `json:"frontend,omitempty"`
	CreatedAt       int64                    `json:"created_at"`
	UpdatedAt       int64                    `json:"updated_at"`
}

func ApplicationEntityFromSvc(app applicationsvc.Application) ApplicationEntity {
	entity := ApplicationEntity{
		ID:              app.ID,
		OwnerUserID:     app.OwnerUserID,
		Name:            app.Name,
		Description:     app.Description,
		ApplicationType: app.ApplicationType,
		DisplayOrder:    app.DisplayOrder,
		GithubURL:       app.GithubURL,
		IsActive:        app.IsActive,
		Images:          app.Images,
		CreatedAt:       app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
	}

	if entity.Images == nil {
		entity.Images = make([]string, 0)
	}

	entity.Api = apiEntity(app.Components.Api)
	entity.Mobile = mobileEntity(app.Components.Mobile)
	entity.Library = libraryEntity(app.Components.Library)
	entity.Frontend = frontendEntity(app.Components.Frontend)
	return entity
}

func apiEntity(c *componentrepo.ApiComponent) *ApiComponentEntity {
	if c == nil {
		return nil
	}

	return &ApiComponentEntity{
		Domain:              c.Domain,
		ApiURL:              c.ApiURL,
		DocumentationURL:    c.DocumentationURL,
		HealthCheckEndpoint: c.HealthCheckEndpoint,
	}
}

func mobileEntity(c *componentrepo.MobileComponent) *MobileComponentEntity {
	if c == nil {
		return nil
	}

	return &MobileComponentEntity{
		Platform:        string(c.Platform),
		DownloadURL:     c.DownloadURL,
		AssociatedApiID: c.AssociatedApiID,
	}
}

func libraryEntity(c *componentrepo.LibraryComponent) *LibraryComponentEntity {
	if c == nil {
		return nil
	}

	return &LibraryComponentEntity{
		PackageManagerURL: c.PackageManagerURL,
		ReadmeContent:     c.ReadmeContent,
	}
}

func frontendEntity(c *componentrepo.FrontendComponent) *FrontendComponentEntity {
	if c == nil {
		return nil
	}

	return &FrontendComponentEntity{
		FrontendURL:     c.FrontendURL,
		ScreenshotURL:   c.ScreenshotURL,
		AssociatedApiID: c.AssociatedApiID,
	}
}
