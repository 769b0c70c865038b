package componentsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/joaop06/jcoder/internal/svc/applicationrepo"
	"github.com/joaop06/jcoder/internal/svc/componentrepo"
	"github.com/joaop06/jcoder/pkg/validator"
)

// requiredSlots is the single source of truth for which component rows each
// application type mandates. Adding a new type means adding one entry here
// plus its missing-slot error in missingSlotErr.
var requiredSlots = map[applicationrepo.ApplicationType][]componentrepo.Slot{
	applicationrepo.TypeAPI:       {componentrepo.SlotApi},
	applicationrepo.TypeMobile:    {componentrepo.SlotMobile},
	applicationrepo.TypeLibrary:   {componentrepo.SlotLibrary},
	applicationrepo.TypeFrontend:  {componentrepo.SlotFrontend},
	applicationrepo.TypeFullstack: {componentrepo.SlotApi, componentrepo.SlotFrontend},
}

var missingSlotErr = map[applicationrepo.ApplicationType]error{
	applicationrepo.TypeAPI:       ErrRequiredApiComponent,
	applicationrepo.TypeMobile:    ErrRequiredMobileComponent,
	applicationrepo.TypeLibrary:   ErrRequiredLibraryComponent,
	applicationrepo.TypeFrontend:  ErrRequiredFrontendComponent,
	applicationrepo.TypeFullstack: ErrRequiredApiAndFrontendComponents,
}

type DefaultOrchestratorConfig struct {
	ComponentRepo   componentrepo.Repo   `validate:"required"`
	ApplicationRepo applicationrepo.Repo `validate:"required"`
}

type DefaultOrchestrator struct {
	Config DefaultOrchestratorConfig
}

var _ Orchestrator = (*DefaultOrchestrator)(nil)

func NewDefaultOrchestrator(conf DefaultOrchestratorConfig) (*DefaultOrchestrator, error) {
	err := validator.Validate(conf)
	if err != nil {
		return nil, fmt.Errorf("component orchestrator config error: %w", err)
	}

	return &DefaultOrchestrator{Config: conf}, nil
}

func (d *DefaultOrchestrator) WithTx(conn sqlx.ExtContext) Orchestrator {
	return &DefaultOrchestrator{
		Config: DefaultOrchestratorConfig{
			ComponentRepo:   d.Config.ComponentRepo.WithTx(conn),
			ApplicationRepo: d.Config.ApplicationRepo.WithTx(conn),
		},
	}
}

func (d *DefaultOrchestrator) ValidateForType(applicationType applicationrepo.ApplicationType, payloads Payloads) error {
	slots, ok := requiredSlots[applicationType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownApplicationType, applicationType)
	}

	for _, slot := range slots {
		if !payloads.has(slot) {
			return missingSlotErr[applicationType]
		}
	}

	for _, slot := range slots {
		var err error
		switch slot {
		case componentrepo.SlotApi:
			err = validator.Validate(*payloads.Api)
		case componentrepo.SlotMobile:
			err = validator.Validate(*payloads.Mobile)
		case componentrepo.SlotLibrary:
			err = validator.Validate(*payloads.Library)
		case componentrepo.SlotFrontend:
			err = validator.Validate(*payloads.Frontend)
		}

		if err != nil {
			return fmt.Errorf("%w: %s component: %s", ErrValidation, slot, err)
		}
	}

	return nil
}

func (d *DefaultOrchestrator) SaveForType(ctx context.Context, in InputSaveForType) (out OutSaveForType, err error) {
	err = validator.Validate(in)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrValidation, err)
		return
	}

	err = d.ValidateForType(in.ApplicationType, in.Payloads)
	if err != nil {
		return
	}

	for _, slot := range requiredSlots[in.ApplicationType] {
		switch slot {
		case componentrepo.SlotApi:
			var saved componentrepo.OutUpsertApi
			saved, err = d.Config.ComponentRepo.UpsertApi(ctx, componentrepo.InputUpsertApi{
				Component: componentrepo.ApiComponent{
					ApplicationID:       in.ApplicationID,
					Domain:              in.Payloads.Api.Domain,
					ApiURL:              in.Payloads.Api.ApiURL,
					DocumentationURL:    in.Payloads.Api.DocumentationURL,
					HealthCheckEndpoint: in.Payloads.Api.HealthCheckEndpoint,
				},
			})
			if err != nil {
				err = fmt.Errorf("upsert api component error: %w", err)
				return
			}

			out.Components.Api = &saved.Component

		case componentrepo.SlotMobile:
			err = d.checkAssociatedAPI(ctx, in.Payloads.Mobile.AssociatedApiID)
			if err != nil {
				return
			}

			var saved componentrepo.OutUpsertMobile
			saved, err = d.Config.ComponentRepo.UpsertMobile(ctx, componentrepo.InputUpsertMobile{
				Component: componentrepo.MobileComponent{
					ApplicationID:   in.ApplicationID,
					Platform:        componentrepo.MobilePlatform(in.Payloads.Mobile.Platform),
					DownloadURL:     in.Payloads.Mobile.DownloadURL,
					AssociatedApiID: in.Payloads.Mobile.AssociatedApiID,
				},
			})
			if err != nil {
				err = fmt.Errorf("upsert mobile component error: %w", err)
				return
			}

			out.Components.Mobile = &saved.Component

		case componentrepo.SlotLibrary:
			var saved componentrepo.OutUpsertLibrary
			saved, err = d.Config.ComponentRepo.UpsertLibrary(ctx, componentrepo.InputUpsertLibrary{
				Component: componentrepo.LibraryComponent{
					ApplicationID:     in.ApplicationID,
					PackageManagerURL: in.Payloads.Library.PackageManagerURL,
					ReadmeContent:     in.Payloads.Library.ReadmeContent,
				},
			})
			if err != nil {
				err = fmt.Errorf("upsert library component error: %w", err)
				return
			}

			out.Components.Library = &saved.Component

		case componentrepo.SlotFrontend:
			err = d.checkAssociatedAPI(ctx, in.Payloads.Frontend.AssociatedApiID)
			if err != nil {
				return
			}

			var saved componentrepo.OutUpsertFrontend
			saved, err = d.Config.ComponentRepo.UpsertFrontend(ctx, componentrepo.InputUpsertFrontend{
				Component: componentrepo.FrontendComponent{
					ApplicationID:   in.ApplicationID,
					FrontendURL:     in.Payloads.Frontend.FrontendURL,
					ScreenshotURL:   in.Payloads.Frontend.ScreenshotURL,
					AssociatedApiID: in.Payloads.Frontend.AssociatedApiID,
				},
			})
			if err != nil {
				err = fmt.Errorf("upsert frontend component error: %w", err)
				return
			}

			out.Components.Frontend = &saved.Component
		}
	}

	return
}

func (d *DefaultOrchestrator) ObsoleteSlots(applicationType applicationrepo.ApplicationType) []componentrepo.Slot {
	required := map[componentrepo.Slot]bool{}
	for _, slot := range requiredSlots[applicationType] {
		required[slot] = true
	}

	obsolete := make([]componentrepo.Slot, 0, len(componentrepo.AllSlots()))
	for _, slot := range componentrepo.AllSlots() {
		if !required[slot] {
			obsolete = append(obsolete, slot)
		}
	}

	return obsolete
}

// checkAssociatedAPI verifies the optional backing-API link. A zero id means
// the link is absent and is always fine.
func (d *DefaultOrchestrator) checkAssociatedAPI(ctx context.Context, associatedApiID int64) error {
	if associatedApiID == 0 {
		return nil
	}

	apiApp, err := d.Config.ApplicationRepo.GetByID(ctx, applicationrepo.InputGetByID{
		ID: associatedApiID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: application %d not found", ErrAssociatedAPIInvalid, associatedApiID)
		}

		return fmt.Errorf("fetch associated api error: %w", err)
	}

	if apiApp.Application.ApplicationType != applicationrepo.TypeAPI {
		return fmt.Errorf("%w: application %d is of type %s",
			ErrAssociatedAPIInvalid, associatedApiID, apiApp.Application.ApplicationType)
	}

	return nil
}

func (p Payloads) has(slot componentrepo.Slot) bool {
	switch slot {
	case componentrepo.SlotApi:
		return p.Api != nil
	case componentrepo.SlotMobile:
		return p.Mobile != nil
	case componentrepo.SlotLibrary:
		return p.Library != nil
	case componentrepo.SlotFrontend:
		return p.Frontend != nil
	}

	return false
}
