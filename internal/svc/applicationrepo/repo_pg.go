package applicationrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joaop06/jcoder/pkg/validator"
)

const (
	sqlCreateApplication = `
		INSERT INTO applications
			(id, owner_user_id, name, description, application_type, display_order, github_url, is_active, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING *;`

	sqlGetApplicationByID = `SELECT * FROM applications WHERE id = $1 AND deleted_at = 0 LIMIT 1;`

	sqlGetApplicationByName = `SELECT * FROM applications WHERE LOWER(name) = $1 AND deleted_at = 0 LIMIT 1;`

	sqlListApplicationsByOwner = `SELECT * FROM applications WHERE owner_user_id = $1 AND deleted_at = 0 ORDER BY display_order ASC;`

	sqlUpdateApplicationScalars = `
		UPDATE applications
		SET name = $2, description = $3, application_type = $4, github_url = $5, is_active = $6, images = $7, updated_at = $8
		WHERE id = $1 AND deleted_at = 0
		RETURNING *;`

	sqlSoftDeleteApplication = `UPDATE applications SET deleted_at = $2 WHERE id = $1 AND deleted_at = 0 RETURNING *;`

	sqlLockOwnerApplications = `SELECT id FROM applications WHERE owner_user_id = $1 AND deleted_at = 0 FOR UPDATE;`

	sqlCountApplicationsByOwner = `SELECT COUNT(*) AS total FROM applications WHERE owner_user_id = $1 AND deleted_at = 0;`

	sqlMaxDisplayOrderByOwner = `SELECT COALESCE(MAX(display_order), 0) AS max_order FROM applications WHERE owner_user_id = $1 AND deleted_at = 0;`

	sqlShiftOrdersDown = `
		UPDATE applications SET display_order = display_order - 1
		WHERE owner_user_id = $1 AND deleted_at = 0 AND display_order > $2 AND display_order <= $3;`

	sqlShiftOrdersUp = `
		UPDATE applications SET display_order = display_order + 1
		WHERE owner_user_id = $1 AND deleted_at = 0 AND display_order >= $2 AND display_order < $3;`

	sqlCloseOrderGap = `
		UPDATE applications SET display_order = display_order - 1
		WHERE owner_user_id = $1 AND deleted_at = 0 AND display_order > $2;`

	sqlSetDisplayOrder = `UPDATE applications SET display_order = $2, updated_at = $3 WHERE id = $1 AND deleted_at = 0;`
)

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

func (p *RepoPostgres) Create(ctx context.Context, in InputCreate) (out OutCreate, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	app := in.Application
	app.Name = strings.TrimSpace(app.Name)

	inserted := Application{}
	err = sqlx.GetContext(ctx, p.Config.Connection, &inserted, sqlCreateApplication,
		app.ID, app.OwnerUserID, app.Name, app.Description, app.ApplicationType,
		app.DisplayOrder, app.GithubURL, app.IsActive, app.Images,
		app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return
	}

	out = OutCreate{
		Application: inserted,
	}
	return
}

func (p *RepoPostgres) GetByID(ctx context.Context, in InputGetByID) (out OutGetByID, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	app := Application{}
	err = sqlx.GetContext(ctx, p.Config.Connection, &app, sqlGetApplicationByID, in.ID)
	if err != nil {
		return
	}

	out = OutGetByID{
		Application: app,
	}
	return
}

func (p *RepoPostgres) GetByName(ctx context.Context, in InputGetByName) (out OutGetByName, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	name := strings.ToLower(strings.TrimSpace(in.Name))

	app := Application{}
	err = sqlx.GetContext(ctx, p.Config.Connection, &app, sqlGetApplicationByName, name)
	if err != nil {
		return
	}

	out = OutGetByName{
		Application: app,
	}
	return
}

func (p *RepoPostgres) ListByOwner(ctx context.Context, in InputListByOwner) (out OutListByOwner, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	apps := make([]Application, 0)
	err = sqlx.SelectContext(ctx, p.Config.Connection, &apps, sqlListApplicationsByOwner, in.OwnerUserID)
	if err != nil {
		err = fmt.Errorf("cannot list applications of owner %d: %w", in.OwnerUserID, err)
		return
	}

	out = OutListByOwner{
		Applications: apps,
	}
	return
}

func (p *RepoPostgres) UpdateScalars(ctx context.Context, in InputUpdateScalars) (out OutUpdateScalars, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	app := in.Application
	app.Name = strings.TrimSpace(app.Name)

	updated := Application{}
	err = sqlx.GetContext(ctx, p.Config.Connection, &updated, sqlUpdateApplicationScalars,
		app.ID, app.Name, app.Description, app.ApplicationType,
		app.GithubURL, app.IsActive, app.Images, app.UpdatedAt,
	)
	if err != nil {
		return
	}

	out = OutUpdateScalars{
		Application: updated,
	}
	return
}

func (p *RepoPostgres) SoftDeleteByID(ctx context.Context, in InputSoftDeleteByID) (out OutSoftDeleteByID, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	app := Application{}
	err = sqlx.GetContext(ctx, p.Config.Connection, &app, sqlSoftDeleteApplication, in.ID, in.DeletedAt)
	if err != nil {
		return
	}

	out = OutSoftDeleteByID{
		Application: app,
		Success:     app.ID == in.ID && app.DeletedAt == in.DeletedAt,
	}
	return
}

func (p *RepoPostgres) LockOwner(ctx context.Context, in InputLockOwner) (err error) {
	err = validator.Validate(in)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}

	rows, err := p.Config.Connection.QueryxContext(ctx, sqlLockOwnerApplications, in.OwnerUserID)
	if err != nil {
		return fmt.Errorf("cannot lock applications of owner %d: %w", in.OwnerUserID, err)
	}

	return rows.Close()
}

func (p *RepoPostgres) CountByOwner(ctx context.Context, in InputCountByOwner) (out OutCountByOwner, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	count := struct {
		Total int `db:"total"`
	}{}
	err = sqlx.GetContext(ctx, p.Config.Connection, &count, sqlCountApplicationsByOwner, in.OwnerUserID)
	if err != nil {
		err = fmt.Errorf("cannot count applications of owner %d: %w", in.OwnerUserID, err)
		return
	}

	out = OutCountByOwner{
		Total: count.Total,
	}
	return
}

func (p *RepoPostgres) MaxDisplayOrder(ctx context.Context, in InputMaxDisplayOrder) (out OutMaxDisplayOrder, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	max := struct {
		MaxOrder int `db:"max_order"`
	}{}
	err = sqlx.GetContext(ctx, p.Config.Connection, &max, sqlMaxDisplayOrderByOwner, in.OwnerUserID)
	if err != nil {
		err = fmt.Errorf("cannot get max display order of owner %d: %w", in.OwnerUserID, err)
		return
	}

	out = OutMaxDisplayOrder{
		Max: max.MaxOrder,
	}
	return
}

func (p *RepoPostgres) ShiftOrdersDown(ctx context.Context, in InputShiftOrdersDown) (err error) {
	err = validator.Validate(in)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}

	_, err = p.Config.Connection.ExecContext(ctx, sqlShiftOrdersDown, in.OwnerUserID, in.FromExclusive, in.ToInclusive)
	return
}

func (p *RepoPostgres) ShiftOrdersUp(ctx context.Context, in InputShiftOrdersUp) (err error) {
	err = validator.Validate(in)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}

	_, err = p.Config.Connection.ExecContext(ctx, sqlShiftOrdersUp, in.OwnerUserID, in.FromInclusive, in.ToExclusive)
	return
}

func (p *RepoPostgres) CloseOrderGap(ctx context.Context, in InputCloseOrderGap) (err error) {
	err = validator.Validate(in)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}

	_, err = p.Config.Connection.ExecContext(ctx, sqlCloseOrderGap, in.OwnerUserID, in.RemovedOrder)
	return
}

func (p *RepoPostgres) SetDisplayOrder(ctx context.Context, in InputSetDisplayOrder) (err error) {
	err = validator.Validate(in)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}

	_, err = p.Config.Connection.ExecContext(ctx, sqlSetDisplayOrder, in.ID, in.DisplayOrder, in.UpdatedAt)
	return
}
