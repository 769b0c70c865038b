package ordering_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaop06/jcoder/internal/svc/applicationrepo"
	"github.com/joaop06/jcoder/internal/svc/ordering"
)

// fakeAppRepo records the order mutations the engine issues. Methods the
// engine never calls stay on the embedded nil interface and panic loudly.
type fakeAppRepo struct {
	applicationrepo.Repo

	total int
	max   int

	shiftsDown []applicationrepo.InputShiftOrdersDown
	shiftsUp   []applicationrepo.InputShiftOrdersUp
	gapsClosed []applicationrepo.InputCloseOrderGap
	pinned     []applicationrepo.InputSetDisplayOrder
}

func (f *fakeAppRepo) CountByOwner(ctx context.Context, in applicationrepo.InputCountByOwner) (applicationrepo.OutCountByOwner, error) {
	return applicationrepo.OutCountByOwner{Total: f.total}, nil
}

func (f *fakeAppRepo) MaxDisplayOrder(ctx context.Context, in applicationrepo.InputMaxDisplayOrder) (applicationrepo.OutMaxDisplayOrder, error) {
	return applicationrepo.OutMaxDisplayOrder{Max: f.max}, nil
}

func (f *fakeAppRepo) ShiftOrdersDown(ctx context.Context, in applicationrepo.InputShiftOrdersDown) error {
	f.shiftsDown = append(f.shiftsDown, in)
	return nil
}

func (f *fakeAppRepo) ShiftOrdersUp(ctx context.Context, in applicationrepo.InputShiftOrdersUp) error {
	f.shiftsUp = append(f.shiftsUp, in)
	return nil
}

func (f *fakeAppRepo) CloseOrderGap(ctx context.Context, in applicationrepo.InputCloseOrderGap) error {
	f.gapsClosed = append(f.gapsClosed, in)
	return nil
}

func (f *fakeAppRepo) SetDisplayOrder(ctx context.Context, in applicationrepo.InputSetDisplayOrder) error {
	f.pinned = append(f.pinned, in)
	return nil
}

func newEngine(t *testing.T, repo *fakeAppRepo) *ordering.DefaultEngine {
	t.Helper()

	engine, err := ordering.New(ordering.DefaultEngineConfig{
		Applications: repo,
	})
	require.NoError(t, err)
	return engine
}

func TestNew(t *testing.T) {
	t.Run("missing repo", func(t *testing.T) {
		engine, err := ordering.New(ordering.DefaultEngineConfig{})
		assert.Error(t, err)
		assert.Nil(t, engine)
	})

	t.Run("ok", func(t *testing.T) {
		engine, err := ordering.New(ordering.DefaultEngineConfig{
			Applications: &fakeAppRepo{},
		})
		assert.NoError(t, err)
		assert.NotNil(t, engine)
	})
}

func TestAppendNext(t *testing.T) {
	ctx := context.Background()

	t.Run("first application gets order 1", func(t *testing.T) {
		engine := newEngine(t, &fakeAppRepo{max: 0})

		out, err := engine.AppendNext(ctx, ordering.InputAppendNext{OwnerUserID: 7})
		require.NoError(t, err)
		assert.Equal(t, 1, out.Next)
	})

	t.Run("appends after the current tail", func(t *testing.T) {
		engine := newEngine(t, &fakeAppRepo{max: 4})

		out, err := engine.AppendNext(ctx, ordering.InputAppendNext{OwnerUserID: 7})
		require.NoError(t, err)
		assert.Equal(t, 5, out.Next)
	})

	t.Run("validation", func(t *testing.T) {
		engine := newEngine(t, &fakeAppRepo{})

		_, err := engine.AppendNext(ctx, ordering.InputAppendNext{})
		assert.ErrorIs(t, err, ordering.ErrValidation)
	})
}

func TestMove(t *testing.T) {
	ctx := context.Background()

	t.Run("same position is a no-op", func(t *testing.T) {
		repo := &fakeAppRepo{total: 5}
		engine := newEngine(t, repo)

		err := engine.Move(ctx, ordering.InputMove{
			OwnerUserID:   7,
			ApplicationID: 100,
			FromOrder:     3,
			ToOrder:       3,
			UpdatedAt:     1689200200000000,
		})
		require.NoError(t, err)
		assert.Empty(t, repo.shiftsDown)
		assert.Empty(t, repo.shiftsUp)
		assert.Empty(t, repo.pinned)
	})

	t.Run("target beyond the tail is rejected", func(t *testing.T) {
		repo := &fakeAppRepo{total: 3}
		engine := newEngine(t, repo)

		err := engine.Move(ctx, ordering.InputMove{
			OwnerUserID:   7,
			ApplicationID: 100,
			FromOrder:     1,
			ToOrder:       4,
			UpdatedAt:     1689200200000000,
		})
		assert.ErrorIs(t, err, ordering.ErrOutOfBounds)
		assert.Empty(t, repo.shiftsDown)
		assert.Empty(t, repo.shiftsUp)
		assert.Empty(t, repo.pinned)
	})

	t.Run("moving later shifts the in-between rows down", func(t *testing.T) {
		repo := &fakeAppRepo{total: 5}
		engine := newEngine(t, repo)

		err := engine.Move(ctx, ordering.InputMove{
			OwnerUserID:   7,
			ApplicationID: 100,
			FromOrder:     2,
			ToOrder:       4,
			UpdatedAt:     1689200200000000,
		})
		require.NoError(t, err)

		require.Len(t, repo.shiftsDown, 1)
		assert.Equal(t, 2, repo.shiftsDown[0].FromExclusive)
		assert.Equal(t, 4, repo.shiftsDown[0].ToInclusive)
		assert.Empty(t, repo.shiftsUp)

		require.Len(t, repo.pinned, 1)
		assert.Equal(t, int64(100), repo.pinned[0].ID)
		assert.Equal(t, 4, repo.pinned[0].DisplayOrder)
	})

	t.Run("moving earlier shifts the in-between rows up", func(t *testing.T) {
		repo := &fakeAppRepo{total: 5}
		engine := newEngine(t, repo)

		err := engine.Move(ctx, ordering.InputMove{
			OwnerUserID:   7,
			ApplicationID: 100,
			FromOrder:     5,
			ToOrder:       1,
			UpdatedAt:     1689200200000000,
		})
		require.NoError(t, err)

		require.Len(t, repo.shiftsUp, 1)
		assert.Equal(t, 1, repo.shiftsUp[0].FromInclusive)
		assert.Equal(t, 5, repo.shiftsUp[0].ToExclusive)
		assert.Empty(t, repo.shiftsDown)

		require.Len(t, repo.pinned, 1)
		assert.Equal(t, 1, repo.pinned[0].DisplayOrder)
	})
}

func TestCloseGapAfterDelete(t *testing.T) {
	ctx := context.Background()

	repo := &fakeAppRepo{}
	engine := newEngine(t, repo)

	err := engine.CloseGapAfterDelete(ctx, ordering.InputCloseGapAfterDelete{
		OwnerUserID:  7,
		RemovedOrder: 2,
	})
	require.NoError(t, err)

	require.Len(t, repo.gapsClosed, 1)
	assert.Equal(t, int64(7), repo.gapsClosed[0].OwnerUserID)
	assert.Equal(t, 2, repo.gapsClosed[0].RemovedOrder)
}
