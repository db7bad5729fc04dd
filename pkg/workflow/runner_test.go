package workflow

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/helmcode/strategy-ai/pkg/client"
	"github.com/helmcode/strategy-ai/pkg/model"
	"github.com/helmcode/strategy-ai/pkg/profile"
	"github.com/helmcode/strategy-ai/pkg/store"
)

type fakeAnalyzer struct {
	mu       sync.Mutex
	requests []profile.Phase1Request
	report   *model.Report
	err      error
	during   func()
}

func (f *fakeAnalyzer) AnalyzePhase1(ctx context.Context, req profile.Phase1Request) (*model.Report, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.during != nil {
		f.during()
	}
	return f.report, f.err
}

type countingSource struct {
	loads int
	data  store.AssessmentData
	err   error
}

func (s *countingSource) Load(ctx context.Context) (*store.AssessmentData, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	data := s.data
	return &data, nil
}

func TestRunner_AdvanceSuccess(t *testing.T) {
	ctrl := NewController()
	fake := &fakeAnalyzer{report: &model.Report{StartupName: "Acme"}}
	fake.during = func() {
		assert.Equal(t, model.StatusLoading, ctrl.Status(PhaseCurrentPosition))
		assert.False(t, ctrl.CanNavigate(PhaseDirection))
	}
	src := &countingSource{data: store.AssessmentData{CompanyInfo: &store.CompanyInfo{CompanyName: "Acme"}}}
	r := NewRunner(ctrl, src, fake, zaptest.NewLogger(t))

	require.NoError(t, r.Advance(context.Background(), PhaseCurrentPosition))

	assert.Equal(t,
		[]model.PhaseStatus{model.StatusIdle, model.StatusLoading, model.StatusCompleted},
		ctrl.History(PhaseCurrentPosition))
	assert.True(t, ctrl.CanNavigate(PhaseDirection))
	assert.Equal(t, "Acme", ctrl.Report().StartupName)

	require.Len(t, fake.requests, 1)
	assert.Equal(t, "Acme", fake.requests[0].StartupData.StartupName)
	assert.Equal(t, "pre_seed", fake.requests[0].StartupData.FundingStage)
	assert.Equal(t, 10, fake.requests[0].StartupData.TeamSizeFullTime)
}

func TestRunner_AdvanceFailureThenRetry(t *testing.T) {
	ctrl := NewController()
	fake := &fakeAnalyzer{err: errors.New("Phase 1 analysis failed: Service Unavailable")}
	src := &countingSource{}
	r := NewRunner(ctrl, src, fake, zaptest.NewLogger(t))

	err := r.Advance(context.Background(), PhaseCurrentPosition)
	require.Error(t, err)
	assert.Equal(t, model.StatusError, ctrl.Status(PhaseCurrentPosition))
	assert.Equal(t, "Phase 1 analysis failed: Service Unavailable", ctrl.ErrorMessage())

	// Retry re-enters loading and rereads the source.
	fake.err = nil
	fake.report = &model.Report{StartupName: "Your Company"}
	src.data = store.AssessmentData{CompanyInfo: &store.CompanyInfo{CompanyName: "Edited"}}
	fake.during = func() {
		assert.Equal(t, model.StatusLoading, ctrl.Status(PhaseCurrentPosition))
	}

	require.NoError(t, r.Advance(context.Background(), PhaseCurrentPosition))
	assert.Equal(t, 2, src.loads)
	require.Len(t, fake.requests, 2)
	assert.Equal(t, "Edited", fake.requests[1].StartupData.StartupName)
	assert.Equal(t,
		[]model.PhaseStatus{
			model.StatusIdle, model.StatusLoading, model.StatusError,
			model.StatusLoading, model.StatusCompleted,
		},
		ctrl.History(PhaseCurrentPosition))
}

func TestRunner_SourceFailure(t *testing.T) {
	ctrl := NewController()
	fake := &fakeAnalyzer{}
	r := NewRunner(ctrl, &countingSource{err: errors.New("configmap not found")}, fake, nil)

	err := r.Advance(context.Background(), PhaseCurrentPosition)
	require.Error(t, err)
	assert.Empty(t, fake.requests, "no call without an assessment")
	assert.Equal(t, model.StatusError, ctrl.Status(PhaseCurrentPosition))
	assert.Equal(t, "failed to load assessment: configmap not found", ctrl.ErrorMessage())
}

func TestRunner_NilSourceUsesDefaults(t *testing.T) {
	fake := &fakeAnalyzer{report: &model.Report{}}
	r := NewRunner(NewController(), nil, fake, nil)

	require.NoError(t, r.Advance(context.Background(), PhaseCurrentPosition))
	require.Len(t, fake.requests, 1)
	assert.Equal(t, profile.DefaultStartupName, fake.requests[0].StartupData.StartupName)
}

func TestRunner_UnavailablePhase(t *testing.T) {
	fake := &fakeAnalyzer{}
	r := NewRunner(NewController(), nil, fake, nil)

	assert.ErrorIs(t, r.Advance(context.Background(), PhaseDirection), ErrPhaseUnavailable)
	assert.Empty(t, fake.requests)
}

func TestRunner_LateResultAfterClose(t *testing.T) {
	ctrl := NewController()
	fake := &fakeAnalyzer{report: &model.Report{StartupName: "late"}}
	r := NewRunner(ctrl, nil, fake, zaptest.NewLogger(t))

	attempt, err := r.Start(PhaseCurrentPosition)
	require.NoError(t, err)

	_, err = r.Start(PhaseCurrentPosition)
	assert.ErrorIs(t, err, ErrInFlight, "duplicate start while loading")

	ctrl.Close()
	res := attempt.Run(context.Background())
	require.NoError(t, res.Err)

	assert.False(t, r.Apply(res))
	assert.Nil(t, ctrl.Report())
}

func TestRunner_AdvanceAfterCloseDuringCall(t *testing.T) {
	ctrl := NewController()
	fake := &fakeAnalyzer{report: &model.Report{}}
	fake.during = ctrl.Close
	r := NewRunner(ctrl, nil, fake, nil)

	assert.ErrorIs(t, r.Advance(context.Background(), PhaseCurrentPosition), ErrControllerClosed)
	assert.Nil(t, ctrl.Report())
}

func TestRunner_WithHTTPClient(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"startup_name":"Acme","analysis_date":"2024-05-01","phase1":{"executive_summary":"ok","frameworks_analysis":[],"current_position_narrative":"","context":{"industry":"x","stage":"y","key_challenges":[],"strategic_inflection":"z"}},"frameworks_selected":[]}`))
		}))
		defer ts.Close()

		ctrl := NewController()
		r := NewRunner(ctrl, nil, client.New(ts.URL), zaptest.NewLogger(t))
		require.NoError(t, r.Advance(context.Background(), PhaseCurrentPosition))
		assert.Equal(t, model.StatusCompleted, ctrl.Status(PhaseCurrentPosition))
		assert.True(t, ctrl.CanNavigate(PhaseDirection))
	})

	t.Run("non-2xx", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer ts.Close()

		ctrl := NewController()
		r := NewRunner(ctrl, nil, client.New(ts.URL), zaptest.NewLogger(t))
		err := r.Advance(context.Background(), PhaseCurrentPosition)
		assert.ErrorIs(t, err, client.ErrUnexpectedStatus)
		assert.Equal(t,
			[]model.PhaseStatus{model.StatusIdle, model.StatusLoading, model.StatusError},
			ctrl.History(PhaseCurrentPosition))
		assert.Equal(t, "Phase 1 analysis failed: Internal Server Error", ctrl.ErrorMessage())
		assert.False(t, ctrl.CanNavigate(PhaseDirection))

		_, err = r.Start(PhaseCurrentPosition)
		require.NoError(t, err)
		assert.Equal(t, model.StatusLoading, ctrl.Status(PhaseCurrentPosition))
	})
}

func TestRunner_LogsStatusTransitions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctrl := NewController()
	r := NewRunner(ctrl, nil, &fakeAnalyzer{report: &model.Report{}}, zap.New(core))

	require.NoError(t, r.Advance(context.Background(), PhaseCurrentPosition))

	changes := logs.FilterMessage("Phase status changed").All()
	require.Len(t, changes, 2)
	assert.Equal(t, "loading", changes[0].ContextMap()["status"])
	assert.Equal(t, "completed", changes[1].ContextMap()["status"])
	assert.Equal(t,
		[]model.PhaseStatus{model.StatusIdle, model.StatusLoading, model.StatusCompleted},
		changes[1].ContextMap()["history"])
}

func TestRunner_ApplyAfterCloseIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctrl := NewController()
	r := NewRunner(ctrl, nil, &fakeAnalyzer{report: &model.Report{}}, zap.New(core))

	attempt, err := r.Start(PhaseCurrentPosition)
	require.NoError(t, err)
	res := attempt.Run(context.Background())
	ctrl.Close()

	assert.False(t, r.Apply(res))
	discarded := logs.FilterMessage("Discarded late phase result").All()
	require.Len(t, discarded, 1)
	assert.Equal(t, true, discarded[0].ContextMap()["closed"])
	assert.Equal(t, model.StatusLoading, ctrl.Status(PhaseCurrentPosition))
}
