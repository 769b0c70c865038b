package componentrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/joaop06/jcoder/pkg/validator"
)

const (
	sqlUpsertApiComponent = `
		INSERT INTO application_api_components
			(application_id, domain, api_url, documentation_url, health_check_endpoint)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (application_id)
		DO UPDATE SET
			domain = EXCLUDED.domain,
			api_url = EXCLUDED.api_url,
			documentation_url = EXCLUDED.documentation_url,
			health_check_endpoint = EXCLUDED.health_check_endpoint
		RETURNING *;`

	sqlUpsertMobileComponent = `
		INSERT INTO application_mobile_components
			(application_id, platform, download_url, associated_api_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (application_id)
		DO UPDATE SET
			platform = EXCLUDED.platform,
			download_url = EXCLUDED.download_url,
			associated_api_id = EXCLUDED.associated_api_id
		RETURNING *;`

	sqlUpsertLibraryComponent = `
		INSERT INTO application_library_components
			(application_id, package_manager_url, readme_content)
		VALUES ($1, $2, $3)
		ON CONFLICT (application_id)
		DO UPDATE SET
			package_manager_url = EXCLUDED.package_manager_url,
			readme_content = EXCLUDED.readme_content
		RETURNING *;`

	sqlUpsertFrontendComponent = `
		INSERT INTO application_frontend_components
			(application_id, frontend_url, screenshot_url, associated_api_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (application_id)
		DO UPDATE SET
			frontend_url = EXCLUDED.frontend_url,
			screenshot_url = EXCLUDED.screenshot_url,
			associated_api_id = EXCLUDED.associated_api_id
		RETURNING *;`

	sqlGetApiComponent      = `SELECT * FROM application_api_components WHERE application_id = $1 LIMIT 1;`
	sqlGetMobileComponent   = `SELECT * FROM application_mobile_components WHERE application_id = $1 LIMIT 1;`
	sqlGetLibraryComponent  = `SELECT * FROM application_library_components WHERE application_id = $1 LIMIT 1;`
	sqlGetFrontendComponent = `SELECT * FROM application_frontend_components WHERE application_id = $1 LIMIT 1;`

	sqlDeleteApiComponent      = `DELETE FROM application_api_components WHERE application_id = $1;`
	sqlDeleteMobileComponent   = `DELETE FROM application_mobile_components WHERE application_id = $1;`
	sqlDeleteLibraryComponent  = `DELETE FROM application_library_components WHERE application_id = $1;`
	sqlDeleteFrontendComponent = `DELETE FROM application_frontend_components WHERE application_id = $1;`
)

var deleteSlotSQL = map[Slot]string{
	SlotApi:      sqlDeleteApiComponent,
	SlotMobile:   sqlDeleteMobileComponent,
	SlotLibrary:  sqlDeleteLibraryComponent,
	SlotFrontend: sqlDeleteFrontendComponent,
}

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

func (p *RepoPostgres) WithTx(conn sqlx.ExtContext) Repo {
	return &RepoPostgres{
		Config: RepoPostgresConfig{
			Connection: conn,
		},
	}
}

func (p *RepoPostgres) UpsertApi(ctx context.Context, in InputUpsertApi) (out OutUpsertApi, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	c := in.Component
	saved := ApiComponent{}
	err = sqlx.GetContext(ctx, p.Config.Connection, &saved, sqlUpsertApiComponent,
		c.ApplicationID, c.Domain, c.ApiURL, c.DocumentationURL, c.HealthCheckEndpoint,
	)
	if err != nil {
		return
	}

	out = OutUpsertApi{
		Component: saved,
	}
	return
}

func (p *RepoPostgres) UpsertMobile(ctx context.Context, in InputUpsertMobile) (out OutUpsertMobile, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	c := in.Component
	saved := MobileComponent{}
	err = sqlx.GetContext(ctx, p.Config.Connection, &saved, sqlUpsertMobileComponent,
		c.ApplicationID, c.Platform, c.DownloadURL, c.AssociatedApiID,
	)
	if err != nil {
		return
	}

	out = OutUpsertMobile{
		Component: saved,
	}
	return
}

func (p *RepoPostgres) UpsertLibrary(ctx context.Context, in InputUpsertLibrary) (out OutUpsertLibrary, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	c := in.Component
	saved := LibraryComponent{}
	err = sqlx.GetContext(ctx, p.Config.Connection, &saved, sqlUpsertLibraryComponent,
		c.ApplicationID, c.PackageManagerURL, c.ReadmeContent,
	)
	if err != nil {
		return
	}

	out = OutUpsertLibrary{
		Component: saved,
	}
	return
}

func (p *RepoPostgres) UpsertFrontend(ctx context.Context, in InputUpsertFrontend) (out OutUpsertFrontend, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	c := in.Component
	saved := FrontendComponent{}
	err = sqlx.GetContext(ctx, p.Config.Connection, &saved, sqlUpsertFrontendComponent,
		c.ApplicationID, c.FrontendURL, c.ScreenshotURL, c.AssociatedApiID,
	)
	if err != nil {
		return
	}

	out = OutUpsertFrontend{
		Component: saved,
	}
	return
}

func (p *RepoPostgres) GetByApplicationID(ctx context.Context, in InputGetByApplicationID) (out OutGetByApplicationID, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	api := ApiComponent{}
	err = sqlx.GetContext(ctx, p.Config.Connection, &api, sqlGetApiComponent, in.ApplicationID)
	switch {
	case err == nil:
		out.Components.Api = &api
	case errors.Is(err, sql.ErrNoRows):
		err = nil
	default:
		return
	}

	mobile := MobileComponent{}
	err = sqlx.GetContext(ctx, p.Config.Connection, &mobile, sqlGetMobileComponent, in.ApplicationID)
	switch {
	case err == nil:
		out.Components.Mobile = &mobile
	case errors.Is(err, sql.ErrNoRows):
		err = nil
	default:
		return
	}

	library := LibraryComponent{}
	err = sqlx.GetContext(ctx, p.Config.Connection, &library, sqlGetLibraryComponent, in.ApplicationID)
	switch {
	case err == nil:
		out.Components.Library = &library
	case errors.Is(err, sql.ErrNoRows):
		err = nil
	default:
		return
	}

	frontend := FrontendComponent{}
	err = sqlx.GetContext(ctx, p.Config.Connection, &frontend, sqlGetFrontendComponent, in.ApplicationID)
	switch {
	case err == nil:
		out.Components.Frontend = &frontend
	case errors.Is(err, sql.ErrNoRows):
		err = nil
	default:
		return
	}

	return
}

func (p *RepoPostgres) DeleteSlots(ctx context.Context, in InputDeleteSlots) (err error) {
	err = validator.Validate(in)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}

	for _, slot := range in.Slots {
		stmt, ok := deleteSlotSQL[slot]
		if !ok {
			return fmt.Errorf("%w: unknown component slot '%s'", ErrValidation, slot)
		}

		_, err = p.Config.Connection.ExecContext(ctx, stmt, in.ApplicationID)
		if err != nil {
			return fmt.Errorf("cannot delete %s component of application %d: %w", slot, in.ApplicationID, err)
		}
	}

	return nil
}

func (p *RepoPostgres) DeleteByApplicationID(ctx context.Context, in InputDeleteByApplicationID) (err error) {
	err = validator.Validate(in)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}

	return p.DeleteSlots(ctx, InputDeleteSlots{
		ApplicationID: in.ApplicationID,
		Slots:         AllSlots(),
	})
}
