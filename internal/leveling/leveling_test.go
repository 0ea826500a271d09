package leveling

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-coach/internal/store"
	"github.com/jonathan/career-coach/internal/types"
)

func TestCalculate_Fixtures(t *testing.T) {
	tests := []struct {
		totalXP        int
		level          int
		currentLevelXP int
		xpToNextLevel  int
	}{
		{0, 1, 0, 100},
		{50, 1, 50, 50},
		{99, 1, 99, 1},
		{100, 2, 0, 200},
		{250, 2, 150, 50},
		{299, 2, 199, 1},
		{300, 3, 0, 300},
		{600, 4, 0, 400},
		{1000, 5, 0, 500},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("totalXP=%d", tt.totalXP), func(t *testing.T) {
			info := Calculate(tt.totalXP)
			assert.Equal(t, tt.level, info.Level)
			assert.Equal(t, tt.currentLevelXP, info.CurrentLevelXP)
			assert.Equal(t, tt.xpToNextLevel, info.XPToNextLevel)
		})
	}
}

func TestCalculate_Monotonic(t *testing.T) {
	prev := Calculate(0)
	for xp := 1; xp <= 2000; xp++ {
		info := Calculate(xp)
		assert.GreaterOrEqual(t, info.Level, prev.Level, "level decreased at xp=%d", xp)
		prev = info
	}
}

func TestCalculate_RoundTrip(t *testing.T) {
	// CurrentLevelXP must stay within [0, Requirement(level)) and the
	// accumulated thresholds must bracket the total.
	for xp := 0; xp <= 5000; xp += 7 {
		info := Calculate(xp)

		accumulated := 0
		for l := 1; l < info.Level; l++ {
			accumulated += Requirement(l)
		}

		assert.GreaterOrEqual(t, xp, accumulated)
		assert.Less(t, xp, accumulated+Requirement(info.Level))
		assert.GreaterOrEqual(t, info.CurrentLevelXP, 0)
		assert.Less(t, info.CurrentLevelXP, Requirement(info.Level))
		assert.Equal(t, xp-accumulated, info.CurrentLevelXP)
	}
}

func TestCalculate_NegativeClamped(t *testing.T) {
	info := Calculate(-10)
	assert.Equal(t, 1, info.Level)
	assert.Equal(t, 0, info.CurrentLevelXP)
}

// recordingSyncer captures sync attempts and optionally fails them.
type recordingSyncer struct {
	calls []int
	fail  bool
}

func (s *recordingSyncer) AddXP(_ context.Context, amount int, _ string) (*types.ExperienceState, error) {
	s.calls = append(s.calls, amount)
	if s.fail {
		return nil, errors.New("backend unreachable")
	}
	return &types.ExperienceState{}, nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestEngine_LoadZeroState(t *testing.T) {
	engine := NewEngine(newTestStore(t), nil, nil, "user-1")

	state, err := engine.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, state.TotalXP)
	assert.Equal(t, 1, state.Level)
	assert.Equal(t, 0, state.CurrentLevelXP)
	assert.Equal(t, 100, state.XPToNextLevel)
}

func TestEngine_AddXP(t *testing.T) {
	syncer := &recordingSyncer{}
	engine := NewEngine(newTestStore(t), syncer, nil, "user-1")

	state, err := engine.AddXP(context.Background(), 50, "daily")
	require.NoError(t, err)

	assert.Equal(t, 50, state.TotalXP)
	assert.Equal(t, 1, state.Level)
	assert.Equal(t, 50, state.CurrentLevelXP)
	assert.Equal(t, 50, state.XPToNextLevel)
	require.Len(t, state.RecentGains, 1)
	assert.Equal(t, "daily", state.RecentGains[0].Source)
	assert.Equal(t, []int{50}, syncer.calls)
}

func TestEngine_AddXP_NonPositiveIsNoOp(t *testing.T) {
	syncer := &recordingSyncer{}
	engine := NewEngine(newTestStore(t), syncer, nil, "user-1")
	ctx := context.Background()

	for _, amount := range []int{0, -5} {
		state, err := engine.AddXP(ctx, amount, "bogus")
		require.NoError(t, err)
		assert.Equal(t, 0, state.TotalXP)
		assert.Empty(t, state.RecentGains)
	}
	assert.Empty(t, syncer.calls, "no sync attempted for no-op grants")
}

func TestEngine_AddXP_SyncFailureKeepsLocalState(t *testing.T) {
	st := newTestStore(t)
	engine := NewEngine(st, &recordingSyncer{fail: true}, nil, "user-1")
	ctx := context.Background()

	state, err := engine.AddXP(ctx, 120, "streak")
	require.NoError(t, err, "sync failure must not surface")
	assert.Equal(t, 120, state.TotalXP)
	assert.Equal(t, 2, state.Level)

	// A fresh engine sees the persisted state.
	reloaded, err := NewEngine(st, nil, nil, "user-1").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 120, reloaded.TotalXP)
	assert.Equal(t, 2, reloaded.Level)
}

func TestEngine_RecentGainsBounded(t *testing.T) {
	engine := NewEngine(newTestStore(t), nil, nil, "user-1")
	ctx := context.Background()

	for i := 1; i <= 8; i++ {
		_, err := engine.AddXP(ctx, i, fmt.Sprintf("source-%d", i))
		require.NoError(t, err)
	}

	state, err := engine.Load(ctx)
	require.NoError(t, err)
	require.Len(t, state.RecentGains, types.MaxRecentGains)
	// Newest first.
	assert.Equal(t, 8, state.RecentGains[0].Amount)
	assert.Equal(t, 4, state.RecentGains[4].Amount)
}

func TestEngine_IdentityIsolation(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := NewEngine(st, nil, nil, "user-a").AddXP(ctx, 500, "grind")
	require.NoError(t, err)

	state, err := NewEngine(st, nil, nil, "user-b").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, state.TotalXP, "identities must not share XP state")
}
