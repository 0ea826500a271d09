// Package rewards grants one-time XP rewards when progress scores cross
// milestone thresholds. Grants are idempotent per (category, threshold) pair
// per identity, backed by a durable ledger.
package rewards

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/store"
	"github.com/jonathan/career-coach/internal/types"
)

// XPGranter is the slice of the leveling engine the evaluator needs.
type XPGranter interface {
	AddXP(ctx context.Context, amount int, source string) (*types.ExperienceState, error)
}

// Result lists the rewards newly granted by one evaluation.
type Result struct {
	Granted []types.RewardMilestone
	TotalXP int
}

// Evaluator checks progress snapshots against the milestone table.
type Evaluator struct {
	store      *store.Store
	engine     XPGranter
	log        *zap.Logger
	milestones []types.RewardMilestone
}

// NewEvaluator creates an evaluator over the default milestone table.
func NewEvaluator(st *store.Store, engine XPGranter, log *zap.Logger) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{
		store:      st,
		engine:     engine,
		log:        log,
		milestones: types.DefaultMilestones(),
	}
}

// Evaluate grants XP for every milestone the snapshot crosses for the first
// time for this identity. Re-evaluating the same or an increasing snapshot
// never double-grants: the ledger insert is the atomic check-and-set.
func (e *Evaluator) Evaluate(ctx context.Context, identity string, snapshot *types.ProgressSnapshot) (*Result, error) {
	result := &Result{}
	if snapshot == nil {
		return result, nil
	}

	for _, m := range e.milestones {
		if snapshot.Score(m.Category) < m.Threshold {
			continue
		}

		granted, err := e.store.TryGrant(ctx, identity, m.Category, m.Threshold)
		if err != nil {
			return nil, fmt.Errorf("failed to check milestone %s/%d: %w", m.Category, m.Threshold, err)
		}
		if !granted {
			continue
		}

		source := fmt.Sprintf("milestone:%s:%d", m.Category, m.Threshold)
		if _, err := e.engine.AddXP(ctx, m.XP, source); err != nil {
			// Roll the ledger row back so a retry can grant the XP; an
			// orphaned row would lose the milestone for good.
			if revokeErr := e.store.RevokeGrant(ctx, identity, m.Category, m.Threshold); revokeErr != nil {
				e.log.Error("failed to revoke ledger row after failed grant",
					zap.String("category", m.Category),
					zap.Int("threshold", m.Threshold),
					zap.Error(revokeErr))
			}
			return nil, fmt.Errorf("failed to grant milestone %s/%d: %w", m.Category, m.Threshold, err)
		}

		e.log.Info("milestone crossed",
			zap.String("category", m.Category),
			zap.Int("threshold", m.Threshold),
			zap.Int("xp", m.XP))

		result.Granted = append(result.Granted, m)
		result.TotalXP += m.XP
	}

	return result, nil
}
