package applicationsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/joaop06/jcoder/internal/svc/applicationrepo"
	"github.com/joaop06/jcoder/internal/svc/componentrepo"
	"github.com/joaop06/jcoder/internal/svc/componentsvc"
	"github.com/joaop06/jcoder/internal/svc/ordering"
	"github.com/joaop06/jcoder/internal/svc/userrepo"
	"github.com/joaop06/jcoder/pkg/cache"
	"github.com/joaop06/jcoder/pkg/logger"
	"github.com/joaop06/jcoder/pkg/uid"
	"github.com/joaop06/jcoder/pkg/validator"
)

const DefaultCacheExpiry = 5 * time.Minute

type DefaultServiceConfig struct {
	DB              *sqlx.DB                  `validate:"required"`
	UIDGen          uid.UID                   `validate:"required"`
	UserRepo        userrepo.Repo             `validate:"required"`
	ApplicationRepo applicationrepo.Repo      `validate:"required"`
	ComponentRepo   componentrepo.Repo        `validate:"required"`
	Orchestrator    componentsvc.Orchestrator `validate:"required"`
	Ordering        ordering.Engine           `validate:"required"`
	Cache           cache.Cache               `validate:"required"`
	CacheExpiry     time.Duration             `validate:"-"`
}

type DefaultService struct {
	Config DefaultServiceConfig
}

var _ Service = (*DefaultService)(nil)

func New(conf DefaultServiceConfig) (*DefaultService, error) {
	err := validator.Validate(conf)
	if err != nil {
		return nil, fmt.Errorf("application service config error: %w", err)
	}

	if conf.CacheExpiry <= 0 {
		conf.CacheExpiry = DefaultCacheExpiry
	}

	return &DefaultService{Config: conf}, nil
}

func cacheKeyApplication(id int64) string {
	return fmt.Sprintf("application:%d", id)
}

func cacheKeyOwnerList(ownerUserID int64) string {
	return fmt.Sprintf("applications:owner:%d", ownerUserID)
}

// runInTx begins a transaction, hands tx-bound collaborators to fn and
// commits when fn succeeds. Any error rolls everything back.
func (d *DefaultService) runInTx(ctx context.Context, fn func(txCtx txContext) error) error {
	tx, err := d.Config.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cannot begin transaction: %w", err)
	}

	txCtx := txContext{
		Applications: d.Config.ApplicationRepo.WithTx(tx),
		Components:   d.Config.ComponentRepo.WithTx(tx),
		Orchestrator: d.Config.Orchestrator.WithTx(tx),
		Ordering:     d.Config.Ordering.WithTx(tx),
	}

	err = fn(txCtx)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			logger.Error(ctx, "transaction rollback error", logger.KV("error", rollbackErr))
		}

		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("cannot commit transaction: %w", err)
	}

	return nil
}

type txContext struct {
	Applications applicationrepo.Repo
	Components   componentrepo.Repo
	Orchestrator componentsvc.Orchestrator
	Ordering     ordering.Engine
}

// lockedApplication loads the row, takes the owner lock, then reads the row
// again. A blocked transaction resumes here after the lock holder commits, so
// the display order it goes on to use must come from the second read, not the
// first. sql.ErrNoRows passes through for callers that treat absence specially.
func lockedApplication(ctx context.Context, txCtx txContext, id int64) (app applicationrepo.Application, err error) {
	currentOut, err := txCtx.Applications.GetByID(ctx, applicationrepo.InputGetByID{ID: id})
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("cannot fetch application %d: %w", id, err)
		}

		return
	}

	err = txCtx.Applications.LockOwner(ctx, applicationrepo.InputLockOwner{
		OwnerUserID: currentOut.Application.OwnerUserID,
	})
	if err != nil {
		err = fmt.Errorf("cannot lock applications of owner %d: %w", currentOut.Application.OwnerUserID, err)
		return
	}

	freshOut, err := txCtx.Applications.GetByID(ctx, applicationrepo.InputGetByID{ID: id})
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("cannot fetch application %d: %w", id, err)
		}

		return
	}

	app = freshOut.Application
	return
}

func (d *DefaultService) CreateApplication(ctx context.Context, in InputCreateApplication) (out OutCreateApplication, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	appType := applicationrepo.ApplicationType(strings.ToUpper(strings.TrimSpace(in.ApplicationType)))
	if !appType.Valid() {
		err = fmt.Errorf("%w: %s", componentsvc.ErrUnknownApplicationType, in.ApplicationType)
		return
	}

	// reject incomplete requests before touching the database
	err = d.Config.Orchestrator.ValidateForType(appType, in.Payloads)
	if err != nil {
		return
	}

	_, err = d.Config.UserRepo.GetByID(ctx, userrepo.InputGetByID{ID: in.OwnerUserID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("%w: id %d", ErrUserNotFound, in.OwnerUserID)
			return
		}

		err = fmt.Errorf("cannot fetch owner %d: %w", in.OwnerUserID, err)
		return
	}

	id, err := d.Config.UIDGen.NextID()
	if err != nil {
		err = fmt.Errorf("cannot generate application id: %w", err)
		return
	}

	now := time.Now().UTC().UnixMicro()

	var created applicationrepo.Application
	var components componentrepo.Components

	err = d.runInTx(ctx, func(txCtx txContext) error {
		lockErr := txCtx.Applications.LockOwner(ctx, applicationrepo.InputLockOwner{
			OwnerUserID: in.OwnerUserID,
		})
		if lockErr != nil {
			return lockErr
		}

		_, dupErr := txCtx.Applications.GetByName(ctx, applicationrepo.InputGetByName{
			Name: in.Name,
		})
		if dupErr == nil {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, in.Name)
		}

		if !errors.Is(dupErr, sql.ErrNoRows) {
			return fmt.Errorf("cannot check name uniqueness: %w", dupErr)
		}

		nextOut, nextErr := txCtx.Ordering.AppendNext(ctx, ordering.InputAppendNext{
			OwnerUserID: in.OwnerUserID,
		})
		if nextErr != nil {
			return nextErr
		}

		createOut, createErr := txCtx.Applications.Create(ctx, applicationrepo.InputCreate{
			Application: applicationrepo.Application{
				ID:              int64(id),
				OwnerUserID:     in.OwnerUserID,
				Name:            in.Name,
				Description:     in.Description,
				ApplicationType: appType,
				DisplayOrder:    nextOut.Next,
				GithubURL:       in.GithubURL,
				IsActive:        in.IsActive,
				Images:          pq.StringArray(in.Images),
				CreatedAt:       now,
				UpdatedAt:       now,
			},
		})
		if createErr != nil {
			return fmt.Errorf("cannot insert application: %w", createErr)
		}

		created = createOut.Application

		saveOut, saveErr := txCtx.Orchestrator.SaveForType(ctx, componentsvc.InputSaveForType{
			ApplicationID:   created.ID,
			ApplicationType: appType,
			Payloads:        in.Payloads,
		})
		if saveErr != nil {
			return saveErr
		}

		components = saveOut.Components
		return nil
	})
	if err != nil {
		return
	}

	d.invalidate(ctx, cacheKeyOwnerList(in.OwnerUserID))

	out = OutCreateApplication{
		Application: toApplication(created, components),
	}
	return
}

func (d *DefaultService) GetApplication(ctx context.Context, in InputGetApplication) (out OutGetApplication, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	cached := Application{}
	cacheErr := d.Config.Cache.GetAs(ctx, cacheKeyApplication(in.ID), &cached)
	if cacheErr == nil {
		out = OutGetApplication{Application: cached}
		return
	}

	if !errors.Is(cacheErr, cache.ErrKeyNotExist) {
		logger.Error(ctx, "application cache read error", logger.KV("error", cacheErr))
	}

	app, err := d.fetchApplication(ctx, in.ID)
	if err != nil {
		return
	}

	setErr := d.Config.Cache.SetExp(ctx, cacheKeyApplication(in.ID), app, d.Config.CacheExpiry)
	if setErr != nil {
		logger.Error(ctx, "application cache write error", logger.KV("error", setErr))
	}

	out = OutGetApplication{Application: app}
	return
}

func (d *DefaultService) ListApplications(ctx context.Context, in InputListApplications) (out OutListApplications, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	apps := make([]Application, 0)
	cacheErr := d.Config.Cache.GetAs(ctx, cacheKeyOwnerList(in.OwnerUserID), &apps)
	if cacheErr != nil {
		if !errors.Is(cacheErr, cache.ErrKeyNotExist) {
			logger.Error(ctx, "application list cache read error", logger.KV("error", cacheErr))
		}

		apps, err = d.fetchOwnerApplications(ctx, in.OwnerUserID)
		if err != nil {
			return
		}

		setErr := d.Config.Cache.SetExp(ctx, cacheKeyOwnerList(in.OwnerUserID), apps, d.Config.CacheExpiry)
		if setErr != nil {
			logger.Error(ctx, "application list cache write error", logger.KV("error", setErr))
		}
	}

	total := len(apps)

	// pagination over the hydrated list, portfolios stay small
	offset := in.Offset
	if offset > total {
		offset = total
	}

	limit := in.Limit
	if limit <= 0 || offset+limit > total {
		limit = total - offset
	}

	out = OutListApplications{
		Applications: apps[offset : offset+limit],
		Total:        total,
	}
	return
}

func (d *DefaultService) UpdateApplication(ctx context.Context, in InputUpdateApplication) (out OutUpdateApplication, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	appType := applicationrepo.ApplicationType(strings.ToUpper(strings.TrimSpace(in.ApplicationType)))
	if !appType.Valid() {
		err = fmt.Errorf("%w: %s", componentsvc.ErrUnknownApplicationType, in.ApplicationType)
		return
	}

	// an update must be complete for the (possibly new) type
	err = d.Config.Orchestrator.ValidateForType(appType, in.Payloads)
	if err != nil {
		return
	}

	now := time.Now().UTC().UnixMicro()

	var updated applicationrepo.Application
	var components componentrepo.Components
	var ownerUserID int64

	err = d.runInTx(ctx, func(txCtx txContext) error {
		currentOut, getErr := txCtx.Applications.GetByID(ctx, applicationrepo.InputGetByID{
			ID: in.ID,
		})
		if getErr != nil {
			if errors.Is(getErr, sql.ErrNoRows) {
				return fmt.Errorf("%w: id %d", ErrNotFound, in.ID)
			}

			return fmt.Errorf("cannot fetch application %d: %w", in.ID, getErr)
		}

		current := currentOut.Application
		ownerUserID = current.OwnerUserID

		lockErr := txCtx.Applications.LockOwner(ctx, applicationrepo.InputLockOwner{
			OwnerUserID: current.OwnerUserID,
		})
		if lockErr != nil {
			return lockErr
		}

		byName, dupErr := txCtx.Applications.GetByName(ctx, applicationrepo.InputGetByName{
			Name: in.Name,
		})
		if dupErr == nil && byName.Application.ID != in.ID {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, in.Name)
		}

		if dupErr != nil && !errors.Is(dupErr, sql.ErrNoRows) {
			return fmt.Errorf("cannot check name uniqueness: %w", dupErr)
		}

		updateOut, updateErr := txCtx.Applications.UpdateScalars(ctx, applicationrepo.InputUpdateScalars{
			Application: applicationrepo.Application{
				ID:              current.ID,
				OwnerUserID:     current.OwnerUserID,
				Name:            in.Name,
				Description:     in.Description,
				ApplicationType: appType,
				DisplayOrder:    current.DisplayOrder,
				GithubURL:       in.GithubURL,
				IsActive:        in.IsActive,
				Images:          pq.StringArray(in.Images),
				CreatedAt:       current.CreatedAt,
				UpdatedAt:       now,
			},
		})
		if updateErr != nil {
			return fmt.Errorf("cannot update application %d: %w", in.ID, updateErr)
		}

		updated = updateOut.Application

		saveOut, saveErr := txCtx.Orchestrator.SaveForType(ctx, componentsvc.InputSaveForType{
			ApplicationID:   updated.ID,
			ApplicationType: appType,
			Payloads:        in.Payloads,
		})
		if saveErr != nil {
			return saveErr
		}

		components = saveOut.Components

		// a type change leaves rows in slots the new type does not mandate
		obsolete := txCtx.Orchestrator.ObsoleteSlots(appType)
		if len(obsolete) > 0 {
			cleanErr := txCtx.Components.DeleteSlots(ctx, componentrepo.InputDeleteSlots{
				ApplicationID: updated.ID,
				Slots:         obsolete,
			})
			if cleanErr != nil {
				return fmt.Errorf("cannot delete obsolete component slots: %w", cleanErr)
			}
		}

		return nil
	})
	if err != nil {
		return
	}

	d.invalidate(ctx, cacheKeyApplication(in.ID), cacheKeyOwnerList(ownerUserID))

	out = OutUpdateApplication{
		Application: toApplication(updated, components),
	}
	return
}

func (d *DefaultService) DeleteApplication(ctx context.Context, in InputDeleteApplication) (out OutDeleteApplication, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	now := time.Now().UTC().UnixMicro()

	var ownerUserID int64
	alreadyDeleted := false

	err = d.runInTx(ctx, func(txCtx txContext) error {
		current, getErr := lockedApplication(ctx, txCtx, in.ID)
		if getErr != nil {
			if errors.Is(getErr, sql.ErrNoRows) {
				alreadyDeleted = true
				return nil
			}

			return getErr
		}

		ownerUserID = current.OwnerUserID

		_, delErr := txCtx.Applications.SoftDeleteByID(ctx, applicationrepo.InputSoftDeleteByID{
			ID:        in.ID,
			DeletedAt: now,
		})
		if delErr != nil {
			if errors.Is(delErr, sql.ErrNoRows) {
				alreadyDeleted = true
				return nil
			}

			return fmt.Errorf("cannot delete application %d: %w", in.ID, delErr)
		}

		compErr := txCtx.Components.DeleteByApplicationID(ctx, componentrepo.InputDeleteByApplicationID{
			ApplicationID: in.ID,
		})
		if compErr != nil {
			return fmt.Errorf("cannot delete components of application %d: %w", in.ID, compErr)
		}

		return txCtx.Ordering.CloseGapAfterDelete(ctx, ordering.InputCloseGapAfterDelete{
			OwnerUserID:  current.OwnerUserID,
			RemovedOrder: current.DisplayOrder,
		})
	})
	if err != nil {
		return
	}

	if !alreadyDeleted {
		d.invalidate(ctx, cacheKeyApplication(in.ID), cacheKeyOwnerList(ownerUserID))
	}

	out = OutDeleteApplication{
		AlreadyDeleted: alreadyDeleted,
	}
	return
}

func (d *DefaultService) ReorderApplication(ctx context.Context, in InputReorderApplication) (out OutReorderApplication, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	now := time.Now().UTC().UnixMicro()

	var moved applicationrepo.Application
	var ownerUserID int64

	err = d.runInTx(ctx, func(txCtx txContext) error {
		current, getErr := lockedApplication(ctx, txCtx, in.ID)
		if getErr != nil {
			if errors.Is(getErr, sql.ErrNoRows) {
				return fmt.Errorf("%w: id %d", ErrNotFound, in.ID)
			}

			return getErr
		}

		ownerUserID = current.OwnerUserID

		moveErr := txCtx.Ordering.Move(ctx, ordering.InputMove{
			OwnerUserID:   current.OwnerUserID,
			ApplicationID: current.ID,
			FromOrder:     current.DisplayOrder,
			ToOrder:       in.DisplayOrder,
			UpdatedAt:     now,
		})
		if moveErr != nil {
			return moveErr
		}

		movedOut, refetchErr := txCtx.Applications.GetByID(ctx, applicationrepo.InputGetByID{
			ID: in.ID,
		})
		if refetchErr != nil {
			return fmt.Errorf("cannot refetch application %d: %w", in.ID, refetchErr)
		}

		moved = movedOut.Application
		return nil
	})
	if err != nil {
		return
	}

	d.invalidate(ctx, cacheKeyApplication(in.ID), cacheKeyOwnerList(ownerUserID))

	components, err := d.fetchComponents(ctx, moved.ID)
	if err != nil {
		return
	}

	out = OutReorderApplication{
		Application: toApplication(moved, components),
	}
	return
}

func (d *DefaultService) fetchApplication(ctx context.Context, id int64) (app Application, err error) {
	rowOut, err := d.Config.ApplicationRepo.GetByID(ctx, applicationrepo.InputGetByID{ID: id})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("%w: id %d", ErrNotFound, id)
			return
		}

		err = fmt.Errorf("cannot fetch application %d: %w", id, err)
		return
	}

	components, err := d.fetchComponents(ctx, id)
	if err != nil {
		return
	}

	app = toApplication(rowOut.Application, components)
	return
}

func (d *DefaultService) fetchOwnerApplications(ctx context.Context, ownerUserID int64) (apps []Application, err error) {
	listOut, err := d.Config.ApplicationRepo.ListByOwner(ctx, applicationrepo.InputListByOwner{
		OwnerUserID: ownerUserID,
	})
	if err != nil {
		return
	}

	apps = make([]Application, 0, len(listOut.Applications))
	for _, row := range listOut.Applications {
		components, compErr := d.fetchComponents(ctx, row.ID)
		if compErr != nil {
			err = compErr
			return
		}

		apps = append(apps, toApplication(row, components))
	}

	return
}

func (d *DefaultService) fetchComponents(ctx context.Context, applicationID int64) (components componentrepo.Components, err error) {
	compOut, err := d.Config.ComponentRepo.GetByApplicationID(ctx, componentrepo.InputGetByApplicationID{
		ApplicationID: applicationID,
	})
	if err != nil {
		err = fmt.Errorf("cannot fetch components of application %d: %w", applicationID, err)
		return
	}

	components = compOut.Components
	return
}

// invalidate drops cache keys after a committed mutation. Cache errors are
// logged, the database already holds the truth.
func (d *DefaultService) invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		err := d.Config.Cache.Delete(ctx, key)
		if err != nil && !errors.Is(err, cache.ErrKeyNotExist) {
			logger.Error(ctx, "cache invalidation error", logger.KV("key", key), logger.KV("error", err))
		}
	}
}
