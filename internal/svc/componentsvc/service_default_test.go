package componentsvc_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaop06/jcoder/internal/svc/applicationrepo"
	"github.com/joaop06/jcoder/internal/svc/componentrepo"
	"github.com/joaop06/jcoder/internal/svc/componentsvc"
)

type fakeComponentRepo struct {
	componentrepo.Repo

	savedApi      []componentrepo.ApiComponent
	savedMobile   []componentrepo.MobileComponent
	savedLibrary  []componentrepo.LibraryComponent
	savedFrontend []componentrepo.FrontendComponent
}

func (f *fakeComponentRepo) UpsertApi(ctx context.Context, in componentrepo.InputUpsertApi) (componentrepo.OutUpsertApi, error) {
	f.savedApi = append(f.savedApi, in.Component)
	return componentrepo.OutUpsertApi{Component: in.Component}, nil
}

func (f *fakeComponentRepo) UpsertMobile(ctx context.Context, in componentrepo.InputUpsertMobile) (componentrepo.OutUpsertMobile, error) {
	f.savedMobile = append(f.savedMobile, in.Component)
	return componentrepo.OutUpsertMobile{Component: in.Component}, nil
}

func (f *fakeComponentRepo) UpsertLibrary(ctx context.Context, in componentrepo.InputUpsertLibrary) (componentrepo.OutUpsertLibrary, error) {
	f.savedLibrary = append(f.savedLibrary, in.Component)
	return componentrepo.OutUpsertLibrary{Component: in.Component}, nil
}

func (f *fakeComponentRepo) UpsertFrontend(ctx context.Context, in componentrepo.InputUpsertFrontend) (componentrepo.OutUpsertFrontend, error) {
	f.savedFrontend = append(f.savedFrontend, in.Component)
	return componentrepo.OutUpsertFrontend{Component: in.Component}, nil
}

// fakeAppRepo serves the associated-API lookup. Applications listed in apps
// resolve, everything else is a missing row.
type fakeAppRepo struct {
	applicationrepo.Repo

	apps map[int64]applicationrepo.Application
}

func (f *fakeAppRepo) GetByID(ctx context.Context, in applicationrepo.InputGetByID) (applicationrepo.OutGetByID, error) {
	app, ok := f.apps[in.ID]
	if !ok {
		return applicationrepo.OutGetByID{}, sql.ErrNoRows
	}

	return applicationrepo.OutGetByID{Application: app}, nil
}

func newOrchestrator(t *testing.T, comps *fakeComponentRepo, apps *fakeAppRepo) *componentsvc.DefaultOrchestrator {
	t.Helper()

	orch, err := componentsvc.NewDefaultOrchestrator(componentsvc.DefaultOrchestratorConfig{
		ComponentRepo:   comps,
		ApplicationRepo: apps,
	})
	require.NoError(t, err)
	return orch
}

func apiPayload() *componentsvc.ApiPayload {
	return &componentsvc.ApiPayload{
		Domain:              "api.jcoder.dev",
		ApiURL:              "https://api.jcoder.dev",
		DocumentationURL:    "https://api.jcoder.dev/docs",
		HealthCheckEndpoint: "/health",
	}
}

func mobilePayload() *componentsvc.MobilePayload {
	return &componentsvc.MobilePayload{
		Platform:    "ANDROID",
		DownloadURL: "https://play.google.com/store/apps/details?id=dev.jcoder",
	}
}

func libraryPayload() *componentsvc.LibraryPayload {
	return &componentsvc.LibraryPayload{
		PackageManagerURL: "https://www.npmjs.com/package/jcoder-sdk",
		ReadmeContent:     "# jcoder-sdk",
	}
}

func frontendPayload() *componentsvc.FrontendPayload {
	return &componentsvc.FrontendPayload{
		FrontendURL:   "https://jcoder.dev",
		ScreenshotURL: "https://cdn.jcoder.dev/shots/home.png",
	}
}

func TestValidateForType(t *testing.T) {
	orch := newOrchestrator(t, &fakeComponentRepo{}, &fakeAppRepo{})

	testCases := []struct {
		name     string
		appType  applicationrepo.ApplicationType
		payloads componentsvc.Payloads
		wantErr  error
	}{
		{
			name:    "api requires api payload",
			appType: applicationrepo.TypeAPI,
			wantErr: componentsvc.ErrRequiredApiComponent,
		},
		{
			name:    "mobile requires mobile payload",
			appType: applicationrepo.TypeMobile,
			wantErr: componentsvc.ErrRequiredMobileComponent,
		},
		{
			name:    "library requires library payload",
			appType: applicationrepo.TypeLibrary,
			wantErr: componentsvc.ErrRequiredLibraryComponent,
		},
		{
			name:    "frontend requires frontend payload",
			appType: applicationrepo.TypeFrontend,
			wantErr: componentsvc.ErrRequiredFrontendComponent,
		},
		{
			name:     "fullstack with only api is incomplete",
			appType:  applicationrepo.TypeFullstack,
			payloads: componentsvc.Payloads{Api: apiPayload()},
			wantErr:  componentsvc.ErrRequiredApiAndFrontendComponents,
		},
		{
			name:     "fullstack with only frontend is incomplete",
			appType:  applicationrepo.TypeFullstack,
			payloads: componentsvc.Payloads{Frontend: frontendPayload()},
			wantErr:  componentsvc.ErrRequiredApiAndFrontendComponents,
		},
		{
			name:    "unknown type",
			appType: applicationrepo.ApplicationType("DESKTOP"),
			wantErr: componentsvc.ErrUnknownApplicationType,
		},
		{
			name:     "api complete",
			appType:  applicationrepo.TypeAPI,
			payloads: componentsvc.Payloads{Api: apiPayload()},
		},
		{
			name:    "fullstack complete",
			appType: applicationrepo.TypeFullstack,
			payloads: componentsvc.Payloads{
				Api:      apiPayload(),
				Frontend: frontendPayload(),
			},
		},
		{
			name:    "extraneous payload does not satisfy the requirement",
			appType: applicationrepo.TypeLibrary,
			payloads: componentsvc.Payloads{
				Api:      apiPayload(),
				Mobile:   mobilePayload(),
				Frontend: frontendPayload(),
			},
			wantErr: componentsvc.ErrRequiredLibraryComponent,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := orch.ValidateForType(tc.appType, tc.payloads)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestValidateForTypeFieldRules(t *testing.T) {
	orch := newOrchestrator(t, &fakeComponentRepo{}, &fakeAppRepo{})

	t.Run("api url must be a url", func(t *testing.T) {
		payload := apiPayload()
		payload.ApiURL = "not-a-url"

		err := orch.ValidateForType(applicationrepo.TypeAPI, componentsvc.Payloads{Api: payload})
		assert.ErrorIs(t, err, componentsvc.ErrValidation)
	})

	t.Run("mobile platform enum", func(t *testing.T) {
		payload := mobilePayload()
		payload.Platform = "WINDOWS_PHONE"

		err := orch.ValidateForType(applicationrepo.TypeMobile, componentsvc.Payloads{Mobile: payload})
		assert.ErrorIs(t, err, componentsvc.ErrValidation)
	})
}

func TestSaveForType(t *testing.T) {
	ctx := context.Background()

	t.Run("saves only the required slot", func(t *testing.T) {
		comps := &fakeComponentRepo{}
		orch := newOrchestrator(t, comps, &fakeAppRepo{})

		// the extraneous frontend payload must be ignored
		out, err := orch.SaveForType(ctx, componentsvc.InputSaveForType{
			ApplicationID:   42,
			ApplicationType: applicationrepo.TypeLibrary,
			Payloads: componentsvc.Payloads{
				Library:  libraryPayload(),
				Frontend: frontendPayload(),
			},
		})
		require.NoError(t, err)

		require.Len(t, comps.savedLibrary, 1)
		assert.Equal(t, int64(42), comps.savedLibrary[0].ApplicationID)
		assert.Empty(t, comps.savedFrontend)
		assert.NotNil(t, out.Components.Library)
		assert.Nil(t, out.Components.Frontend)
	})

	t.Run("fullstack saves api and frontend", func(t *testing.T) {
		comps := &fakeComponentRepo{}
		orch := newOrchestrator(t, comps, &fakeAppRepo{})

		out, err := orch.SaveForType(ctx, componentsvc.InputSaveForType{
			ApplicationID:   42,
			ApplicationType: applicationrepo.TypeFullstack,
			Payloads: componentsvc.Payloads{
				Api:      apiPayload(),
				Frontend: frontendPayload(),
			},
		})
		require.NoError(t, err)

		assert.Len(t, comps.savedApi, 1)
		assert.Len(t, comps.savedFrontend, 1)
		assert.NotNil(t, out.Components.Api)
		assert.NotNil(t, out.Components.Frontend)
	})

	t.Run("incomplete payloads write nothing", func(t *testing.T) {
		comps := &fakeComponentRepo{}
		orch := newOrchestrator(t, comps, &fakeAppRepo{})

		_, err := orch.SaveForType(ctx, componentsvc.InputSaveForType{
			ApplicationID:   42,
			ApplicationType: applicationrepo.TypeFullstack,
			Payloads:        componentsvc.Payloads{Api: apiPayload()},
		})
		assert.ErrorIs(t, err, componentsvc.ErrRequiredApiAndFrontendComponents)
		assert.Empty(t, comps.savedApi)
	})
}

func TestSaveForTypeAssociatedAPI(t *testing.T) {
	ctx := context.Background()

	apps := &fakeAppRepo{
		apps: map[int64]applicationrepo.Application{
			10: {ID: 10, ApplicationType: applicationrepo.TypeAPI},
			11: {ID: 11, ApplicationType: applicationrepo.TypeLibrary},
		},
	}

	t.Run("link to a live api is accepted", func(t *testing.T) {
		comps := &fakeComponentRepo{}
		orch := newOrchestrator(t, comps, apps)

		payload := frontendPayload()
		payload.AssociatedApiID = 10

		_, err := orch.SaveForType(ctx, componentsvc.InputSaveForType{
			ApplicationID:   42,
			ApplicationType: applicationrepo.TypeFrontend,
			Payloads:        componentsvc.Payloads{Frontend: payload},
		})
		require.NoError(t, err)
		require.Len(t, comps.savedFrontend, 1)
		assert.Equal(t, int64(10), comps.savedFrontend[0].AssociatedApiID)
	})

	t.Run("link to a non-api application is rejected", func(t *testing.T) {
		comps := &fakeComponentRepo{}
		orch := newOrchestrator(t, comps, apps)

		payload := mobilePayload()
		payload.AssociatedApiID = 11

		_, err := orch.SaveForType(ctx, componentsvc.InputSaveForType{
			ApplicationID:   42,
			ApplicationType: applicationrepo.TypeMobile,
			Payloads:        componentsvc.Payloads{Mobile: payload},
		})
		assert.ErrorIs(t, err, componentsvc.ErrAssociatedAPIInvalid)
		assert.Empty(t, comps.savedMobile)
	})

	t.Run("link to a missing application is rejected", func(t *testing.T) {
		comps := &fakeComponentRepo{}
		orch := newOrchestrator(t, comps, apps)

		payload := frontendPayload()
		payload.AssociatedApiID = 999

		_, err := orch.SaveForType(ctx, componentsvc.InputSaveForType{
			ApplicationID:   42,
			ApplicationType: applicationrepo.TypeFrontend,
			Payloads:        componentsvc.Payloads{Frontend: payload},
		})
		assert.ErrorIs(t, err, componentsvc.ErrAssociatedAPIInvalid)
	})
}

func TestObsoleteSlots(t *testing.T) {
	orch := newOrchestrator(t, &fakeComponentRepo{}, &fakeAppRepo{})

	assert.ElementsMatch(t,
		[]componentrepo.Slot{componentrepo.SlotMobile, componentrepo.SlotLibrary, componentrepo.SlotFrontend},
		orch.ObsoleteSlots(applicationrepo.TypeAPI),
	)

	assert.ElementsMatch(t,
		[]componentrepo.Slot{componentrepo.SlotMobile, componentrepo.SlotLibrary},
		orch.ObsoleteSlots(applicationrepo.TypeFullstack),
	)
}
