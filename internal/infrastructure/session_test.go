package infrastructure

import (
	"context"
	"testing"
	"time"

	"project_turnos/internal/entities"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState(phone string) *entities.ConversationState {
	return &entities.ConversationState{
		TenantID:    1,
		Phone:       phone,
		Step:        entities.StepSelectDate,
		ServiceID:   3,
		LastTouched: time.Now().Truncate(time.Second),
	}
}

// Both store implementations must behave identically from the engine's
// point of view.
func runStateStoreSuite(t *testing.T, store interface {
	Get(ctx context.Context, tenantID int, phone string) (*entities.ConversationState, error)
	Put(ctx context.Context, state *entities.ConversationState) error
	Delete(ctx context.Context, tenantID int, phone string) error
}) {
	ctx := context.Background()

	got, err := store.Get(ctx, 1, "5491100000000")
	require.NoError(t, err)
	assert.Nil(t, got, "missing state comes back nil without error")

	state := testState("5491100000000")
	require.NoError(t, store.Put(ctx, state))

	got, err = store.Get(ctx, 1, "5491100000000")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entities.StepSelectDate, got.Step)
	assert.Equal(t, 3, got.ServiceID)

	// Put replaces, keeping at most one state per identity.
	state.Step = entities.StepFinalConfirmation
	require.NoError(t, store.Put(ctx, state))
	got, err = store.Get(ctx, 1, "5491100000000")
	require.NoError(t, err)
	assert.Equal(t, entities.StepFinalConfirmation, got.Step)

	require.NoError(t, store.Delete(ctx, 1, "5491100000000"))
	got, err = store.Get(ctx, 1, "5491100000000")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting a missing state is not an error.
	assert.NoError(t, store.Delete(ctx, 1, "5491100000000"))
}

func TestMemoryStateStore(t *testing.T) {
	store := NewMemoryStateStore()
	defer store.Close()
	runStateStoreSuite(t, store)
}

func TestRedisStateStore(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStateStore(mr.Addr())
	require.NoError(t, err)
	defer store.Close()
	runStateStoreSuite(t, store)
}

func TestRedisStateStoreKeysExpire(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStateStore(mr.Addr())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, testState("5491100000001")))

	mr.FastForward(2*entities.DialogTTL + time.Second)

	got, err := store.Get(ctx, 1, "5491100000001")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStateStoreIsolatesCopies(t *testing.T) {
	store := NewMemoryStateStore()
	defer store.Close()
	ctx := context.Background()

	state := testState("5491100000002")
	require.NoError(t, store.Put(ctx, state))

	// Mutating the caller's struct after Put must not leak into the store.
	state.Step = entities.StepCancelSelection
	got, err := store.Get(ctx, 1, "5491100000002")
	require.NoError(t, err)
	assert.Equal(t, entities.StepSelectDate, got.Step)
}
