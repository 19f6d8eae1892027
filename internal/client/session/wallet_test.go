package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduline/studyshop/internal/client/api"
	"github.com/eduline/studyshop/internal/client/models"
	"github.com/eduline/studyshop/internal/client/storage"
)

func TestAddSubscribedGroup_SetSemantics(t *testing.T) {
	store, _, st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddSubscribedGroup(ctx, 42))
	require.NoError(t, store.AddSubscribedGroup(ctx, "42"))
	require.NoError(t, store.AddSubscribedGroup(ctx, 42))

	groups := store.Snapshot().SubscribedGroups
	assert.Equal(t, []string{"42"}, groups)

	persisted, err := st.Get(ctx, storage.KeySubscribedGroups)
	require.NoError(t, err)
	assert.JSONEq(t, `["42"]`, persisted)

	assert.True(t, store.IsSubscribed(42))
	assert.True(t, store.IsSubscribed("42"))
	assert.False(t, store.IsSubscribed(43))
}

func TestSpendFromWallet_InsufficientFunds(t *testing.T) {
	store, client, st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Login(ctx, models.Identity{Token: "tok", WalletBalance: 10}))
	store.WaitForRefresh()

	err := store.SpendFromWallet(ctx, 10.5, 7)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 10.0, store.WalletBalance())
	assert.False(t, store.IsSubscribed(7))
	assert.Zero(t, client.payLectureCalls, "server must not be called")

	money, err := st.Get(ctx, storage.KeyMoney)
	require.NoError(t, err)
	assert.Equal(t, "10", money)
}

func TestSpendFromWallet_DecrementsExactlyAndUnlocks(t *testing.T) {
	store, client, st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Login(ctx, models.Identity{Token: "tok", WalletBalance: 100}))
	store.WaitForRefresh()

	var paidGroup string
	client.payLecturesFn = func(ctx context.Context, id string) error {
		paidGroup = id
		return nil
	}

	require.NoError(t, store.SpendFromWallet(ctx, 37.5, 7))

	assert.Equal(t, "7", paidGroup)
	assert.Equal(t, 62.5, store.WalletBalance())
	assert.True(t, store.IsSubscribed(7))

	money, err := st.Get(ctx, storage.KeyMoney)
	require.NoError(t, err)
	assert.Equal(t, "62.5", money)

	groups, err := st.Get(ctx, storage.KeySubscribedGroups)
	require.NoError(t, err)
	assert.JSONEq(t, `["7"]`, groups)
}

func TestSpendFromWallet_ServerFailureLeavesStateUntouched(t *testing.T) {
	store, client, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Login(ctx, models.Identity{Token: "tok", WalletBalance: 100}))
	store.WaitForRefresh()

	client.payLecturesFn = func(ctx context.Context, id string) error {
		return api.ErrUnavailable
	}

	err := store.SpendFromWallet(ctx, 20, 7)
	assert.ErrorIs(t, err, api.ErrUnavailable)
	assert.Equal(t, 100.0, store.WalletBalance())
	assert.False(t, store.IsSubscribed(7))
}

func TestSpendFromWallet_RequiresToken(t *testing.T) {
	store, _, _ := newTestStore(t)
	err := store.SpendFromWallet(context.Background(), 5, 7)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSpendFromWallet_ExactBalanceAllowed(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Login(ctx, models.Identity{Token: "tok", WalletBalance: 25}))
	store.WaitForRefresh()

	require.NoError(t, store.SpendFromWallet(ctx, 25, "g1"))
	assert.Zero(t, store.WalletBalance())
}
