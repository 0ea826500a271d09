// Package leveling maps total experience points to levels and owns the atomic
// add-XP operation with local persistence and best-effort backend sync.
package leveling

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/store"
	"github.com/jonathan/career-coach/internal/types"
)

// Requirement returns the points required to complete the given level.
func Requirement(level int) int {
	return level * 100
}

// Info is the level decomposition of a total XP value.
type Info struct {
	Level          int
	CurrentLevelXP int
	XPToNextLevel  int
}

// Calculate walks the level thresholds from level 1, consuming XP until the
// remainder no longer covers the current level's requirement.
// CurrentLevelXP is always in [0, Requirement(Level)).
func Calculate(totalXP int) Info {
	if totalXP < 0 {
		totalXP = 0
	}

	level := 1
	accumulated := 0
	for totalXP >= accumulated+Requirement(level) {
		accumulated += Requirement(level)
		level++
	}

	current := totalXP - accumulated
	return Info{
		Level:          level,
		CurrentLevelXP: current,
		XPToNextLevel:  Requirement(level) - current,
	}
}

// Syncer reports XP grants to the backend. Failures are absorbed; local state
// stays authoritative.
type Syncer interface {
	AddXP(ctx context.Context, amount int, source string) (*types.ExperienceState, error)
}

// Engine is the stateful XP engine for one identity.
type Engine struct {
	mu       sync.Mutex
	store    *store.Store
	syncer   Syncer
	log      *zap.Logger
	identity string
}

// NewEngine creates an engine scoped to identity. syncer may be nil for
// offline use.
func NewEngine(st *store.Store, syncer Syncer, log *zap.Logger, identity string) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: st, syncer: syncer, log: log, identity: identity}
}

// Load returns the cached experience state, or the zero state for a fresh
// identity.
func (e *Engine) Load(ctx context.Context) (*types.ExperienceState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadLocked(ctx)
}

func (e *Engine) loadLocked(ctx context.Context) (*types.ExperienceState, error) {
	var state types.ExperienceState
	err := e.store.Get(ctx, e.identity, store.BucketXPData, &state)
	if errors.Is(err, store.ErrNotFound) {
		return zeroState(), nil
	}
	if err != nil {
		return nil, err
	}

	// Level fields are derived; recompute in case the cached record predates
	// a curve change.
	applyTotals(&state)
	return &state, nil
}

// AddXP grants amount points from source. Non-positive amounts are a no-op.
// The new state is persisted locally before the backend sync is attempted; a
// sync failure is logged and the locally computed state returned.
func (e *Engine) AddXP(ctx context.Context, amount int, source string) (*types.ExperienceState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return state, nil
	}

	state.TotalXP += amount
	applyTotals(state)

	gain := types.XPGain{Amount: amount, Source: source, Timestamp: time.Now().UTC()}
	state.RecentGains = append([]types.XPGain{gain}, state.RecentGains...)
	if len(state.RecentGains) > types.MaxRecentGains {
		state.RecentGains = state.RecentGains[:types.MaxRecentGains]
	}

	if err := e.store.Put(ctx, e.identity, store.BucketXPData, state); err != nil {
		return nil, err
	}

	if e.syncer != nil {
		if _, err := e.syncer.AddXP(ctx, amount, source); err != nil {
			e.log.Warn("xp sync failed, keeping local state",
				zap.String("source", source),
				zap.Int("amount", amount),
				zap.Error(err))
		}
	}

	return state, nil
}

func applyTotals(state *types.ExperienceState) {
	info := Calculate(state.TotalXP)
	state.Level = info.Level
	state.CurrentLevelXP = info.CurrentLevelXP
	state.XPToNextLevel = info.XPToNextLevel
}

func zeroState() *types.ExperienceState {
	return &types.ExperienceState{
		TotalXP:        0,
		Level:          1,
		CurrentLevelXP: 0,
		XPToNextLevel:  Requirement(1),
	}
}
