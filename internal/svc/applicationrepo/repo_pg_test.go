package applicationrepo_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaop06/jcoder/internal/svc/applicationrepo"
)

func newRepo(t *testing.T) (*applicationrepo.RepoPostgres, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	repo, err := applicationrepo.Postgres(applicationrepo.RepoPostgresConfig{
		Connection: sqlx.NewDb(mockDB, "sqlmock"),
	})
	require.NoError(t, err)
	return repo, mock
}

var columns = []string{
	"id", "owner_user_id", "name", "description", "application_type",
	"display_order", "github_url", "is_active", "images",
	"created_at", "updated_at", "deleted_at",
}

func TestPostgres(t *testing.T) {
	t.Run("missing connection", func(t *testing.T) {
		repo, err := applicationrepo.Postgres(applicationrepo.RepoPostgresConfig{})
		assert.Error(t, err)
		assert.Nil(t, repo)
	})
}

func TestCreateTrimsName(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO applications")).
		WithArgs(int64(1), int64(7), "jcoder-api", "", applicationrepo.TypeAPI,
			1, "", true, sqlmock.AnyArg(), int64(1689200100000000), int64(1689200100000000)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, 7, "jcoder-api", "", "API", 1, "", true, "{}", 1689200100000000, 1689200100000000, 0))

	out, err := repo.Create(ctx, applicationrepo.InputCreate{
		Application: applicationrepo.Application{
			ID:              1,
			OwnerUserID:     7,
			Name:            "  jcoder-api  ",
			ApplicationType: applicationrepo.TypeAPI,
			DisplayOrder:    1,
			IsActive:        true,
			CreatedAt:       1689200100000000,
			UpdatedAt:       1689200100000000,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "jcoder-api", out.Application.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByNameLowercasesInput(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("LOWER(name) = $1")).
		WithArgs("jcoder-api").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, 7, "JCoder-API", "", "API", 1, "", true, "{}", 1689200100000000, 1689200100000000, 0))

	out, err := repo.GetByName(ctx, applicationrepo.InputGetByName{Name: "  JCoder-API "})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Application.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success flag set when the row was live", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE applications SET deleted_at")).
			WithArgs(int64(1), int64(1689200999000000)).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(1, 7, "jcoder-api", "", "API", 1, "", true, "{}", 1689200100000000, 1689200100000000, 1689200999000000))

		out, err := repo.SoftDeleteByID(ctx, applicationrepo.InputSoftDeleteByID{
			ID:        1,
			DeletedAt: 1689200999000000,
		})
		require.NoError(t, err)
		assert.True(t, out.Success)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already deleted surfaces as no rows", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE applications SET deleted_at")).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.SoftDeleteByID(ctx, applicationrepo.InputSoftDeleteByID{
			ID:        1,
			DeletedAt: 1689200999000000,
		})
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestShiftRanges(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("display_order = display_order - 1")).
		WithArgs(int64(7), 2, 5).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := repo.ShiftOrdersDown(ctx, applicationrepo.InputShiftOrdersDown{
		OwnerUserID:   7,
		FromExclusive: 2,
		ToInclusive:   5,
	})
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("display_order = display_order + 1")).
		WithArgs(int64(7), 1, 4).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err = repo.ShiftOrdersUp(ctx, applicationrepo.InputShiftOrdersUp{
		OwnerUserID:   7,
		FromInclusive: 1,
		ToExclusive:   4,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationTypeValid(t *testing.T) {
	valid := []applicationrepo.ApplicationType{
		applicationrepo.TypeAPI,
		applicationrepo.TypeMobile,
		applicationrepo.TypeLibrary,
		applicationrepo.TypeFrontend,
		applicationrepo.TypeFullstack,
	}
	for _, appType := range valid {
		assert.True(t, appType.Valid(), appType)
	}

	assert.False(t, applicationrepo.ApplicationType("DESKTOP").Valid())
	assert.False(t, applicationrepo.ApplicationType("api").Valid())
	assert.False(t, applicationrepo.ApplicationType("").Valid())
}
