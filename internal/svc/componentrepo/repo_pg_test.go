package componentrepo_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaop06/jcoder/internal/svc/componentrepo"
)

func newRepo(t *testing.T) (*componentrepo.RepoPostgres, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	repo, err := componentrepo.Postgres(componentrepo.RepoPostgresConfig{
		Connection: sqlx.NewDb(mockDB, "sqlmock"),
	})
	require.NoError(t, err)
	return repo, mock
}

func TestUpsertApi(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO application_api_components")).
		WillReturnRows(sqlmock.NewRows([]string{
			"application_id", "domain", "api_url", "documentation_url", "health_check_endpoint",
		}).AddRow(42, "api.jcoder.dev", "https://api.jcoder.dev", "", "/health"))

	out, err := repo.UpsertApi(ctx, componentrepo.InputUpsertApi{
		Component: componentrepo.ApiComponent{
			ApplicationID:       42,
			Domain:              "api.jcoder.dev",
			ApiURL:              "https://api.jcoder.dev",
			HealthCheckEndpoint: "/health",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), out.Component.ApplicationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByApplicationID(t *testing.T) {
	ctx := context.Background()

	t.Run("absent slots are nil not errors", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM application_api_components")).
			WillReturnRows(sqlmock.NewRows([]string{
				"application_id", "domain", "api_url", "documentation_url", "health_check_endpoint",
			}).AddRow(42, "api.jcoder.dev", "https://api.jcoder.dev", "", ""))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM application_mobile_components")).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM application_library_components")).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM application_frontend_components")).
			WillReturnError(sql.ErrNoRows)

		out, err := repo.GetByApplicationID(ctx, componentrepo.InputGetByApplicationID{ApplicationID: 42})
		require.NoError(t, err)
		assert.NotNil(t, out.Components.Api)
		assert.Nil(t, out.Components.Mobile)
		assert.Nil(t, out.Components.Library)
		assert.Nil(t, out.Components.Frontend)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteSlots(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM application_mobile_components")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM application_library_components")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteSlots(ctx, componentrepo.InputDeleteSlots{
		ApplicationID: 42,
		Slots:         []componentrepo.Slot{componentrepo.SlotMobile, componentrepo.SlotLibrary},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
