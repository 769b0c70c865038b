package ordering

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/joaop06/jcoder/internal/svc/applicationrepo"
	"github.com/joaop06/jcoder/pkg/validator"
)

type DefaultEngineConfig struct {
	Applications applicationrepo.Repo `validate:"required"`
}

type DefaultEngine struct {
	Config DefaultEngineConfig
}

var _ Engine = (*DefaultEngine)(nil)

func New(cfg DefaultEngineConfig) (*DefaultEngine, error) {
	if err := validator.Validate(cfg); err != nil {
		return nil, err
	}

	return &DefaultEngine{
		Config: cfg,
	}, nil
}

func (d *DefaultEngine) WithTx(conn sqlx.ExtContext) Engine {
	return &DefaultEngine{
		Config: DefaultEngineConfig{
			Applications: d.Config.Applications.WithTx(conn),
		},
	}
}

func (d *DefaultEngine) AppendNext(ctx context.Context, in InputAppendNext) (out OutAppendNext, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	maxOut, err := d.Config.Applications.MaxDisplayOrder(ctx, applicationrepo.InputMaxDisplayOrder{
		OwnerUserID: in.OwnerUserID,
	})
	if err != nil {
		err = fmt.Errorf("cannot compute next display order: %w", err)
		return
	}

	out = OutAppendNext{
		Next: maxOut.Max + 1,
	}
	return
}

func (d *DefaultEngine) CloseGapAfterDelete(ctx context.Context, in InputCloseGapAfterDelete) (err error) {
	err = validator.Validate(in)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}

	err = d.Config.Applications.CloseOrderGap(ctx, applicationrepo.InputCloseOrderGap{
		OwnerUserID:  in.OwnerUserID,
		RemovedOrder: in.RemovedOrder,
	})
	if err != nil {
		return fmt.Errorf("cannot close display order gap at %d: %w", in.RemovedOrder, err)
	}

	return nil
}

// Move shifts only the range between FromOrder and ToOrder, so the touched
// rows plus the untouched tail stay a permutation of 1..N at every step.
func (d *DefaultEngine) Move(ctx context.Context, in InputMove) (err error) {
	err = validator.Validate(in)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}

	if in.FromOrder == in.ToOrder {
		return nil
	}

	countOut, err := d.Config.Applications.CountByOwner(ctx, applicationrepo.InputCountByOwner{
		OwnerUserID: in.OwnerUserID,
	})
	if err != nil {
		return fmt.Errorf("cannot count applications before move: %w", err)
	}

	if in.ToOrder < 1 || in.ToOrder > countOut.Total {
		return fmt.Errorf("%w: target %d not in [1, %d]", ErrOutOfBounds, in.ToOrder, countOut.Total)
	}

	if in.ToOrder > in.FromOrder {
		// moving later: everything in (from, to] steps one position earlier
		err = d.Config.Applications.ShiftOrdersDown(ctx, applicationrepo.InputShiftOrdersDown{
			OwnerUserID:   in.OwnerUserID,
			FromExclusive: in.FromOrder,
			ToInclusive:   in.ToOrder,
		})
	} else {
		// moving earlier: everything in [to, from) steps one position later
		err = d.Config.Applications.ShiftOrdersUp(ctx, applicationrepo.InputShiftOrdersUp{
			OwnerUserID:   in.OwnerUserID,
			FromInclusive: in.ToOrder,
			ToExclusive:   in.FromOrder,
		})
	}
	if err != nil {
		return fmt.Errorf("cannot shift display orders: %w", err)
	}

	err = d.Config.Applications.SetDisplayOrder(ctx, applicationrepo.InputSetDisplayOrder{
		ID:           in.ApplicationID,
		DisplayOrder: in.ToOrder,
		UpdatedAt:    in.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("cannot pin moved application to order %d: %w", in.ToOrder, err)
	}

	return nil
}
