// Package onboarding implements the multi-step onboarding wizard: per-step
// validation, optimistic local persistence, and best-effort backend sync.
// The locally persisted record is the source of truth until finalization.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/store"
	"github.com/jonathan/career-coach/internal/types"
)

// Wizard steps. StepComplete means every collected step is done and the
// record is ready to finalize.
const (
	StepName          = 1
	StepProfession    = 2
	StepCareerChoices = 3
	StepUniversity    = 4
	StepComplete      = 5
)

// ProfileSyncer pushes profile fields to the backend. Step saves treat sync
// failures as best-effort; Complete does not.
type ProfileSyncer interface {
	UpdateProfile(ctx context.Context, payload *types.ProfilePayload) error
}

// Wizard is the onboarding state machine for one identity.
type Wizard struct {
	store    *store.Store
	syncer   ProfileSyncer
	log      *zap.Logger
	identity string

	mu     sync.Mutex
	record types.OnboardingRecord
	step   int
}

// NewWizard creates a wizard scoped to identity. Call Load before use.
func NewWizard(st *store.Store, syncer ProfileSyncer, log *zap.Logger, identity string) *Wizard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Wizard{store: st, syncer: syncer, log: log, identity: identity, step: StepName}
}

// Load restores the persisted in-progress record and derives the resumption
// step from the data itself, most-advanced field first. A record is never
// trusted to carry its own step number.
func (w *Wizard) Load(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var record types.OnboardingRecord
	err := w.store.Get(ctx, w.identity, store.BucketOnboardingData, &record)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	w.record = record
	w.step = StepForRecord(&record)
	return nil
}

// StepForRecord computes the resumption step for a persisted record.
func StepForRecord(r *types.OnboardingRecord) int {
	switch {
	case r.CollegeName != "" || r.CollegeEmail != "":
		return StepComplete
	case len(r.CareerChoices) > 0:
		return StepUniversity
	case r.Profession != "":
		return StepCareerChoices
	case r.Name != "":
		return StepProfession
	}
	return StepName
}

// CurrentStep returns the wizard's current step.
func (w *Wizard) CurrentStep() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Record returns a copy of the accumulated record.
func (w *Wizard) Record() types.OnboardingRecord {
	w.mu.Lock()
	defer w.mu.Unlock()

	record := w.record
	record.CareerChoices = append([]string(nil), w.record.CareerChoices...)
	return record
}

// Completed reports whether onboarding has been finalized for this identity.
func (w *Wizard) Completed(ctx context.Context) (bool, error) {
	var done bool
	err := w.store.Get(ctx, w.identity, store.BucketOnboardingComplete, &done)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return done, nil
}

// SaveName records the step 1 answer.
func (w *Wizard) SaveName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if err := validate.Struct(step1Payload{Name: name}); err != nil {
		return stepError(StepName, "name", err)
	}

	return w.saveStep(ctx, StepName, func(r *types.OnboardingRecord) {
		r.Name = name
	})
}

// SaveProfession records the step 2 answer.
func (w *Wizard) SaveProfession(ctx context.Context, profession string) error {
	if err := validate.Struct(step2Payload{Profession: profession}); err != nil {
		return stepError(StepProfession, "profession", err)
	}

	return w.saveStep(ctx, StepProfession, func(r *types.OnboardingRecord) {
		r.Profession = profession
	})
}

// SaveCareerChoices records the step 3 answer: one to three selections from
// the career catalog. Extra selections are rejected, never truncated.
func (w *Wizard) SaveCareerChoices(ctx context.Context, choices []string) error {
	if err := validate.Struct(step3Payload{Choices: choices}); err != nil {
		return stepError(StepCareerChoices, "career_choices", err)
	}

	chosen := append([]string(nil), choices...)
	return w.saveStep(ctx, StepCareerChoices, func(r *types.OnboardingRecord) {
		r.CareerChoices = chosen
	})
}

// SaveUniversity records the step 4 answer. The email is optional but must be
// well-formed when present.
func (w *Wizard) SaveUniversity(ctx context.Context, collegeName, collegeEmail string) error {
	collegeName = strings.TrimSpace(collegeName)
	collegeEmail = strings.TrimSpace(collegeEmail)
	if err := validate.Struct(step4Payload{CollegeName: collegeName, CollegeEmail: collegeEmail}); err != nil {
		return stepError(StepUniversity, "university", err)
	}

	return w.saveStep(ctx, StepUniversity, func(r *types.OnboardingRecord) {
		r.CollegeName = collegeName
		r.CollegeEmail = collegeEmail
	})
}

// saveStep applies the already-validated mutation in strict order: local
// persistence first, then a best-effort backend sync whose failure never
// rolls back the committed local write. The step advances only after the
// local write succeeds.
func (w *Wizard) saveStep(ctx context.Context, step int, mutate func(*types.OnboardingRecord)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	merged := w.record
	merged.CareerChoices = append([]string(nil), w.record.CareerChoices...)
	mutate(&merged)

	if err := w.store.Put(ctx, w.identity, store.BucketOnboardingData, &merged); err != nil {
		return fmt.Errorf("failed to persist onboarding step %d: %w", step, err)
	}

	w.record = merged
	w.step = step + 1

	if w.syncer != nil {
		if err := w.syncer.UpdateProfile(ctx, payloadForRecord(&merged)); err != nil {
			w.log.Warn("onboarding sync failed, local record remains authoritative",
				zap.Int("step", step),
				zap.Error(err))
		}
	}

	return nil
}

// Complete finalizes onboarding. When the record was already transmitted at
// account creation the backend sync is skipped; otherwise the accumulated
// record is pushed once, and a push failure leaves all state unchanged.
func (w *Wizard) Complete(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var syncedAtSignup bool
	err := w.store.Get(ctx, w.identity, store.BucketSignupSynced, &syncedAtSignup)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if !syncedAtSignup {
		if w.syncer == nil {
			return fmt.Errorf("cannot finalize onboarding: no backend available")
		}
		if err := w.syncer.UpdateProfile(ctx, payloadForRecord(&w.record)); err != nil {
			return fmt.Errorf("failed to finalize onboarding: %w", err)
		}
	}

	if err := w.store.Put(ctx, w.identity, store.BucketOnboardingComplete, true); err != nil {
		return err
	}
	if err := w.store.Delete(ctx, w.identity, store.BucketOnboardingData); err != nil {
		return err
	}

	w.record = types.OnboardingRecord{}
	w.step = StepName
	return nil
}

// Reset discards the in-progress record and returns to step 1.
func (w *Wizard) Reset(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.store.Delete(ctx, w.identity, store.BucketOnboardingData); err != nil {
		return err
	}
	w.record = types.OnboardingRecord{}
	w.step = StepName
	return nil
}

// SkipToStep jumps to step n, clamped to [StepName, StepComplete].
func (w *Wizard) SkipToStep(n int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if n < StepName {
		n = StepName
	}
	if n > StepComplete {
		n = StepComplete
	}
	w.step = n
}

// SkipCurrentStep advances past the current step without recording an answer.
func (w *Wizard) SkipCurrentStep() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step < StepComplete {
		w.step++
	}
}

// PreviousStep moves one step back, never below step 1.
func (w *Wizard) PreviousStep() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step > StepName {
		w.step--
	}
}

func payloadForRecord(r *types.OnboardingRecord) *types.ProfilePayload {
	return &types.ProfilePayload{
		Name:          r.Name,
		Profession:    r.Profession,
		CareerChoices: append([]string(nil), r.CareerChoices...),
		CollegeName:   r.CollegeName,
		CollegeEmail:  r.CollegeEmail,
	}
}
