package service

import (
	"braingain_backend/internal/model"
	"braingain_backend/internal/testutil"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantIsIdempotentPerMaterial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	material := f.addMaterial(t, model.MaterialVideo, 2000, nil)

	minutes, err := f.ledger.Grant(ctx, material)
	require.NoError(t, err)
	assert.Equal(t, 26, minutes)

	minutes, err = f.ledger.Grant(ctx, material)
	require.NoError(t, err)
	assert.Zero(t, minutes)

	assert.Equal(t, 26, f.ledger.TotalRewards(ctx))
}

func TestGrantStoresUnclaimedReward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	material := f.addMaterial(t, model.MaterialVideo, 2000, nil)

	_, err := f.ledger.Grant(ctx, material)
	require.NoError(t, err)

	reward, err := f.rewards.FindByMaterial(ctx, material.ID)
	require.NoError(t, err)
	require.NotNil(t, reward)
	assert.Equal(t, 26, reward.Minutes)
	assert.False(t, reward.Claimed)
}

func TestGrantUsesFixedReward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fixed := 45
	material := f.addMaterial(t, model.MaterialDocument, 50, &fixed)

	minutes, err := f.ledger.Grant(ctx, material)
	require.NoError(t, err)
	assert.Equal(t, 45, minutes)
}

func TestGrantSurfacesWriteErrors(t *testing.T) {
	f := newFixture(t)
	material := f.addMaterial(t, model.MaterialVideo, 100, nil)
	testutil.BreakTable(t, f.db, &model.Reward{})

	minutes, err := f.ledger.Grant(context.Background(), material)
	assert.Error(t, err)
	assert.Zero(t, minutes)
}

func TestTotalRewardsFailsOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assert.Zero(t, f.ledger.TotalRewards(ctx))

	testutil.BreakTable(t, f.db, &model.Reward{})
	assert.Zero(t, f.ledger.TotalRewards(ctx))

	assert.NotPanics(t, func() { f.ledger.RefreshLedgerGauge(ctx) })
}
