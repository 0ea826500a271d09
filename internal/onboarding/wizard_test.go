package onboarding

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-coach/internal/store"
	"github.com/jonathan/career-coach/internal/types"
)

// recordingSyncer captures profile pushes and optionally fails them.
type recordingSyncer struct {
	payloads []*types.ProfilePayload
	fail     bool
}

func (s *recordingSyncer) UpdateProfile(_ context.Context, payload *types.ProfilePayload) error {
	if s.fail {
		return errors.New("backend unreachable")
	}
	s.payloads = append(s.payloads, payload)
	return nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestWizard(t *testing.T, st *store.Store, syncer ProfileSyncer) *Wizard {
	t.Helper()
	w := NewWizard(st, syncer, nil, "user-1")
	require.NoError(t, w.Load(context.Background()))
	return w
}

func TestSaveName_Valid(t *testing.T) {
	w := newTestWizard(t, newTestStore(t), nil)

	require.NoError(t, w.SaveName(context.Background(), "  Mary-Jane O'Brien  "))
	assert.Equal(t, StepProfession, w.CurrentStep())
	assert.Equal(t, "Mary-Jane O'Brien", w.Record().Name)
}

func TestSaveName_Invalid(t *testing.T) {
	w := newTestWizard(t, newTestStore(t), nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"too short", "A"},
		{"digits", "Robot 9000"},
		{"symbols", "Jane@Doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.SaveName(ctx, tt.input)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, StepName, verr.Step)
			assert.Equal(t, StepName, w.CurrentStep(), "step must not advance")
		})
	}
}

func TestSaveProfession(t *testing.T) {
	w := newTestWizard(t, newTestStore(t), nil)
	ctx := context.Background()

	err := w.SaveProfession(ctx, "astronaut")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	require.NoError(t, w.SaveProfession(ctx, types.ProfessionDataScientist))
	assert.Equal(t, StepCareerChoices, w.CurrentStep())
}

func TestSaveCareerChoices_RejectsFourChoices(t *testing.T) {
	st := newTestStore(t)
	w := newTestWizard(t, st, nil)
	ctx := context.Background()

	catalog := types.CareerCatalog()
	err := w.SaveCareerChoices(ctx, catalog[:4])
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	// Nothing persisted: a reloaded wizard sees an empty record.
	reloaded := newTestWizard(t, st, nil)
	rec := reloaded.Record()
	assert.True(t, rec.IsEmpty())
}

func TestSaveCareerChoices_Invalid(t *testing.T) {
	w := newTestWizard(t, newTestStore(t), nil)
	ctx := context.Background()

	catalog := types.CareerCatalog()
	for _, choices := range [][]string{
		nil,
		{},
		{"underwater_basket_weaving"},
		{catalog[0], catalog[0]},
	} {
		err := w.SaveCareerChoices(ctx, choices)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "choices %v", choices)
	}
}

func TestSaveCareerChoices_Valid(t *testing.T) {
	w := newTestWizard(t, newTestStore(t), nil)

	catalog := types.CareerCatalog()
	require.NoError(t, w.SaveCareerChoices(context.Background(), catalog[:3]))
	assert.Equal(t, StepUniversity, w.CurrentStep())
	assert.Equal(t, catalog[:3], w.Record().CareerChoices)
}

func TestSaveUniversity(t *testing.T) {
	w := newTestWizard(t, newTestStore(t), nil)
	ctx := context.Background()

	var verr *ValidationError
	require.ErrorAs(t, w.SaveUniversity(ctx, "  ", ""), &verr, "college name required")
	require.ErrorAs(t, w.SaveUniversity(ctx, "MIT", "not-an-email"), &verr)

	require.NoError(t, w.SaveUniversity(ctx, "MIT", ""), "email is optional")
	require.NoError(t, w.SaveUniversity(ctx, "MIT", "ada@mit.edu"))
	assert.Equal(t, StepComplete, w.CurrentStep())
}

func TestSaveStep_SyncFailureStillAdvances(t *testing.T) {
	st := newTestStore(t)
	w := newTestWizard(t, st, &recordingSyncer{fail: true})
	ctx := context.Background()

	require.NoError(t, w.SaveName(ctx, "Ada Lovelace"))
	assert.Equal(t, StepProfession, w.CurrentStep())

	// Local persistence committed despite sync failure.
	reloaded := newTestWizard(t, st, nil)
	assert.Equal(t, "Ada Lovelace", reloaded.Record().Name)
}

func TestStepForRecord_ResumptionDeterminism(t *testing.T) {
	catalog := types.CareerCatalog()

	tests := []struct {
		name   string
		record types.OnboardingRecord
		step   int
	}{
		{"empty", types.OnboardingRecord{}, StepName},
		{"name only", types.OnboardingRecord{Name: "Ada"}, StepProfession},
		{"through profession", types.OnboardingRecord{Name: "Ada", Profession: types.ProfessionStudent}, StepCareerChoices},
		{"through careers", types.OnboardingRecord{Name: "Ada", Profession: types.ProfessionStudent, CareerChoices: catalog[:1]}, StepUniversity},
		{"through university", types.OnboardingRecord{Name: "Ada", Profession: types.ProfessionStudent, CareerChoices: catalog[:1], CollegeName: "MIT"}, StepComplete},
		{"skipped middle steps", types.OnboardingRecord{CollegeName: "MIT"}, StepComplete},
		{"profession skipped", types.OnboardingRecord{Name: "Ada", CareerChoices: catalog[:2]}, StepUniversity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.step, StepForRecord(&tt.record))
		})
	}
}

func TestLoad_ResumesFromPersistedRecord(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	w := newTestWizard(t, st, nil)
	require.NoError(t, w.SaveName(ctx, "Grace Hopper"))
	require.NoError(t, w.SaveProfession(ctx, types.ProfessionSoftwareEngineer))

	// Simulates a force-quit: a brand new wizard derives the step from data.
	resumed := newTestWizard(t, st, nil)
	assert.Equal(t, StepCareerChoices, resumed.CurrentStep())
	assert.Equal(t, "Grace Hopper", resumed.Record().Name)
}

func TestComplete_PushesRecordOnce(t *testing.T) {
	st := newTestStore(t)
	syncer := &recordingSyncer{}
	w := newTestWizard(t, st, syncer)
	ctx := context.Background()

	require.NoError(t, w.SaveName(ctx, "Ada Lovelace"))
	pushes := len(syncer.payloads)

	require.NoError(t, w.Complete(ctx))
	require.Len(t, syncer.payloads, pushes+1)
	assert.Equal(t, "Ada Lovelace", syncer.payloads[len(syncer.payloads)-1].Name)

	done, err := w.Completed(ctx)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, StepName, w.CurrentStep(), "wizard reset after finalization")
	finalRec := w.Record()
	assert.True(t, finalRec.IsEmpty())

	// In-progress record cleared from persistence.
	var record types.OnboardingRecord
	err = st.Get(ctx, "user-1", store.BucketOnboardingData, &record)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestComplete_BackendFailureLeavesStateUnchanged(t *testing.T) {
	st := newTestStore(t)
	w := newTestWizard(t, st, &recordingSyncer{fail: true})
	ctx := context.Background()

	require.NoError(t, w.SaveName(ctx, "Ada Lovelace"))
	require.Error(t, w.Complete(ctx))

	done, err := w.Completed(ctx)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, "Ada Lovelace", w.Record().Name, "record retained on failed finalization")
}

func TestComplete_SignupPathSkipsSync(t *testing.T) {
	st := newTestStore(t)
	syncer := &recordingSyncer{fail: true} // would fail if contacted
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, "user-1", store.BucketSignupSynced, true))

	w := newTestWizard(t, st, syncer)
	require.NoError(t, w.Complete(ctx), "signup path must not touch the backend")

	done, err := w.Completed(ctx)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestAdministrativeTransitions(t *testing.T) {
	w := newTestWizard(t, newTestStore(t), nil)

	w.SkipToStep(99)
	assert.Equal(t, StepComplete, w.CurrentStep())
	w.SkipToStep(-3)
	assert.Equal(t, StepName, w.CurrentStep())

	w.PreviousStep()
	assert.Equal(t, StepName, w.CurrentStep(), "never below step 1")

	w.SkipCurrentStep()
	assert.Equal(t, StepProfession, w.CurrentStep())
	w.PreviousStep()
	assert.Equal(t, StepName, w.CurrentStep())
}

func TestReset(t *testing.T) {
	st := newTestStore(t)
	w := newTestWizard(t, st, nil)
	ctx := context.Background()

	require.NoError(t, w.SaveName(ctx, "Ada Lovelace"))
	require.NoError(t, w.Reset(ctx))

	assert.Equal(t, StepName, w.CurrentStep())
	resetRec := w.Record()
	assert.True(t, resetRec.IsEmpty())

	reloaded := newTestWizard(t, st, nil)
	rec := reloaded.Record()
	assert.True(t, rec.IsEmpty())
}
