package progress

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-coach/internal/types"
)

// Backend is the slice of the API client the aggregator reads from.
type Backend interface {
	GetProfile(ctx context.Context) (*types.ProfilePayload, error)
	ListResumes(ctx context.Context) ([]types.ResumeRecord, error)
	ListAnalyses(ctx context.Context) ([]types.AnalysisRecord, error)
}

// Aggregator recomputes the progress snapshot on demand from the latest
// backend reads. Nothing is persisted; a failed sub-fetch contributes zero to
// its category instead of blocking the others.
type Aggregator struct {
	backend Backend
	log     *zap.Logger
}

// NewAggregator creates an aggregator over the given backend.
func NewAggregator(backend Backend, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{backend: backend, log: log}
}

// Snapshot runs the five sub-fetches concurrently and combines them.
// Sub-fetch failures are logged and absorbed, so Snapshot always returns a
// complete snapshot with every score in [0,100].
func (a *Aggregator) Snapshot(ctx context.Context) *types.ProgressSnapshot {
	var profile, socialLinks, resume, analysis, interview int

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := a.backend.GetProfile(gCtx)
		if err != nil {
			a.log.Warn("profile fetch failed, scoring category zero",
				zap.String("category", types.CategoryProfile), zap.Error(err))
			return nil
		}
		profile = ProfileCompletion(p)
		return nil
	})

	g.Go(func() error {
		p, err := a.backend.GetProfile(gCtx)
		if err != nil {
			a.log.Warn("social links fetch failed, scoring category zero",
				zap.String("category", types.CategorySocialLinks), zap.Error(err))
			return nil
		}
		socialLinks = SocialLinksProgress(p.SocialLinks)
		return nil
	})

	g.Go(func() error {
		resumes, err := a.backend.ListResumes(gCtx)
		if err != nil {
			a.log.Warn("resume list fetch failed, scoring category zero",
				zap.String("category", types.CategoryResume), zap.Error(err))
			return nil
		}
		resume = ResumeProgress(resumes)
		return nil
	})

	g.Go(func() error {
		analyses, err := a.backend.ListAnalyses(gCtx)
		if err != nil {
			a.log.Warn("analysis list fetch failed, scoring category zero",
				zap.String("category", types.CategoryAnalysis), zap.Error(err))
			return nil
		}
		analysis = AnalysisProgress(analyses)
		return nil
	})

	g.Go(func() error {
		// No backend endpoint yet; scores zero until one exists.
		interview = InterviewProgress(InterviewStats{})
		return nil
	})

	// Sub-fetch errors are absorbed above, so Wait never fails.
	_ = g.Wait()

	return &types.ProgressSnapshot{
		Profile:     profile,
		SocialLinks: socialLinks,
		Resume:      resume,
		Analysis:    analysis,
		Interview:   interview,
		Overall:     Overall(profile, socialLinks, resume, analysis, interview),
	}
}
