package service

import (
	"braingain_backend/internal/model"
	"braingain_backend/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCooldownWithoutAttempts(t *testing.T) {
	f := newFixture(t)

	status := f.cooldown.CheckCooldown(context.Background(), "m1")
	assert.True(t, status.Allowed)
	assert.Nil(t, status.LastAttempt)
	assert.False(t, status.Degraded)
}

func TestCheckCooldownAfterFailedAttempt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	failedAt := f.now
	f.addAttempt(t, "m1", 5, failedAt)

	f.now = failedAt.Add(300 * time.Second)
	status := f.cooldown.CheckCooldown(ctx, "m1")
	assert.False(t, status.Allowed)
	assert.Equal(t, 300, status.RemainingSeconds)
	require.NotNil(t, status.LastAttempt)
	assert.True(t, status.LastAttempt.Equal(failedAt))

	f.now = failedAt.Add(599*time.Second + 900*time.Millisecond)
	status = f.cooldown.CheckCooldown(ctx, "m1")
	assert.False(t, status.Allowed)
	assert.Equal(t, 1, status.RemainingSeconds)

	f.now = failedAt.Add(600 * time.Second)
	assert.True(t, f.cooldown.CheckCooldown(ctx, "m1").Allowed)

	f.now = failedAt.Add(601 * time.Second)
	assert.True(t, f.cooldown.CheckCooldown(ctx, "m1").Allowed)
}

func TestCheckCooldownIgnoresPassedAttempts(t *testing.T) {
	f := newFixture(t)
	f.addAttempt(t, "m1", 10, f.now)

	status := f.cooldown.CheckCooldown(context.Background(), "m1")
	assert.True(t, status.Allowed)
}

func TestCheckCooldownUsesLatestFailure(t *testing.T) {
	f := newFixture(t)
	f.addAttempt(t, "m1", 2, f.now.Add(-20*time.Minute))
	f.addAttempt(t, "m1", 6, f.now.Add(-2*time.Minute))
	f.addAttempt(t, "m2", 6, f.now.Add(-1*time.Minute))

	status := f.cooldown.CheckCooldown(context.Background(), "m1")
	assert.False(t, status.Allowed)
	assert.Equal(t, 480, status.RemainingSeconds)
}

func TestCheckCooldownClampsFutureAttempts(t *testing.T) {
	f := newFixture(t)
	f.addAttempt(t, "m1", 3, f.now.Add(30*time.Second))

	status := f.cooldown.CheckCooldown(context.Background(), "m1")
	assert.False(t, status.Allowed)
	assert.Equal(t, model.CooldownSeconds, status.RemainingSeconds)
}

func TestCooldownFailsOpenOnStorageError(t *testing.T) {
	f := newFixture(t)
	testutil.BreakTable(t, f.db, &model.Attempt{})

	status := f.cooldown.CheckCooldown(context.Background(), "m1")
	assert.True(t, status.Allowed)
	assert.True(t, status.Degraded)

	assert.False(t, f.cooldown.CheckPassed(context.Background(), "m1"))
}

func TestCheckPassed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.False(t, f.cooldown.CheckPassed(ctx, "m1"))

	f.addAttempt(t, "m1", 8, f.now)
	assert.False(t, f.cooldown.CheckPassed(ctx, "m1"))

	f.addAttempt(t, "m1", 9, f.now.Add(time.Minute))
	assert.True(t, f.cooldown.CheckPassed(ctx, "m1"))
}
