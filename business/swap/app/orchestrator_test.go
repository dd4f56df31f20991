package app

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/sui-swap-bot/business/swap/domain"
	"github.com/fd1az/sui-swap-bot/business/swap/infra/registryfile"
	"github.com/fd1az/sui-swap-bot/internal/apperror"
)

type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
	cancel context.CancelFunc // called on the n-th sleep when set
	after  int
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	n := len(s.delays)
	s.mu.Unlock()
	if s.cancel != nil && n >= s.after {
		s.cancel()
	}
	return ctx.Err()
}

type scriptedExecutor struct {
	calls []string
	fail  map[int]error // by 1-based call number
	panic map[int]bool
}

func (e *scriptedExecutor) Execute(_ context.Context, _ Account, route domain.Route, _ *decimal.Decimal) (*SwapResult, error) {
	e.calls = append(e.calls, route.String())
	n := len(e.calls)
	if e.panic[n] {
		panic("boom")
	}
	if err := e.fail[n]; err != nil {
		return nil, err
	}
	return &SwapResult{Route: route, Amount: big.NewInt(1_500_000_000), Digest: "digest"}, nil
}

type captureReporter struct {
	started, stopped bool
	accounts         []int
	cycles           []int
	entries          []int
	outcomes         []domain.Outcome
	summary          *domain.RunSummary
}

func (r *captureReporter) Start(context.Context) error { r.started = true; return nil }
func (r *captureReporter) RunStarted(string, int, int) {}
func (r *captureReporter) AccountStarted(i, _ int, _ Account) {
	r.accounts = append(r.accounts, i)
}
func (r *captureReporter) CycleStarted(c, _ int) { r.cycles = append(r.cycles, c) }
func (r *captureReporter) EntryStarted(_, i int, _ domain.PlanEntry) {
	r.entries = append(r.entries, i)
}
func (r *captureReporter) Report(o domain.Outcome)          { r.outcomes = append(r.outcomes, o) }
func (r *captureReporter) RunFinished(s domain.RunSummary) { r.summary = &s }
func (r *captureReporter) Stop() error                     { r.stopped = true; return nil }

type memJournal struct{ rows []domain.Outcome }

func (j *memJournal) Record(_ context.Context, o domain.Outcome) error {
	j.rows = append(j.rows, o)
	return nil
}

func testConfig(cycles int) OrchestratorConfig {
	return OrchestratorConfig{
		Plan:   domain.DefaultPlan(),
		Cycles: cycles,
		Retry:  DefaultRetryPolicy(),
		Pacing: DefaultPacing(),
	}
}

func newTestOrchestrator(t *testing.T, exec SwapExecutor, rep ProgressReporter, j Journal, s Sleeper, cfg OrchestratorConfig) *Orchestrator {
	t.Helper()
	reg, err := registryfile.Load("")
	require.NoError(t, err)
	o, err := NewOrchestrator(reg, exec, rep, j, s, cfg, discard())
	require.NoError(t, err)
	return o
}

func TestOrchestrator_FailedEntryDoesNotStopCycle(t *testing.T) {
	exec := &scriptedExecutor{fail: map[int]error{
		3: apperror.New(apperror.CodeTransactionFailed, apperror.WithContext("abort")),
	}}
	rep := &captureReporter{}
	journal := &memJournal{}
	sleeper := &recordingSleeper{}
	o := newTestOrchestrator(t, exec, rep, journal, sleeper, testConfig(1))

	summary, err := o.Run(context.Background(), []Account{newTestAccount(t)})
	require.NoError(t, err)

	assert.Equal(t, []string{"SUI→USDC", "USDC→SUI", "SUI→WAL", "WAL→SUI", "SUI→STSUI", "STSUI→SUI"}, exec.calls)
	assert.Equal(t, 5, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 6, summary.Total())

	require.Len(t, rep.outcomes, 6)
	for i, out := range rep.outcomes {
		assert.Equal(t, i+1, out.Index)
		assert.Equal(t, 1, out.Cycle)
		assert.Equal(t, summary.RunID, out.RunID)
	}
	assert.Equal(t, domain.StatusFailed, rep.outcomes[2].Status)
	assert.Equal(t, 1, rep.outcomes[2].Attempts)
	assert.Equal(t, "1.5", rep.outcomes[0].Amount)
	assert.Equal(t, "WAL", rep.outcomes[3].Source)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, rep.entries)
	assert.True(t, rep.started)
	assert.True(t, rep.stopped)
	require.NotNil(t, rep.summary)
	assert.Len(t, journal.rows, 6)
}

func TestOrchestrator_SkipsAndPanics(t *testing.T) {
	exec := &scriptedExecutor{
		fail: map[int]error{
			1: apperror.New(apperror.CodeInsufficientBalance),
			2: apperror.New(apperror.CodeZeroAmount),
		},
		panic: map[int]bool{4: true},
	}
	rep := &captureReporter{}
	o := newTestOrchestrator(t, exec, rep, nil, &recordingSleeper{}, testConfig(1))

	summary, err := o.Run(context.Background(), []Account{newTestAccount(t)})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, domain.StatusFailed, rep.outcomes[3].Status)
	assert.Contains(t, rep.outcomes[3].ErrorText(), "boom")
	assert.Len(t, exec.calls, 6)
}

func TestOrchestrator_CyclesAccountsAndPacing(t *testing.T) {
	exec := &scriptedExecutor{}
	rep := &captureReporter{}
	sleeper := &recordingSleeper{}
	cfg := testConfig(2)
	cfg.Pacing = Pacing{
		SettleDelay:  time.Second,
		SwapDelayMin: 10 * time.Second,
		SwapDelayMax: 10 * time.Second,
		CycleDelay:   time.Minute,
		AccountDelay: time.Hour,
	}
	o := newTestOrchestrator(t, exec, rep, nil, sleeper, cfg)

	summary, err := o.Run(context.Background(), []Account{newTestAccount(t), newTestAccount(t)})
	require.NoError(t, err)

	assert.Equal(t, 24, summary.Succeeded)
	assert.Equal(t, []int{1, 2}, rep.accounts)
	assert.Equal(t, []int{1, 2, 1, 2}, rep.cycles)

	count := func(d time.Duration) int {
		n := 0
		for _, got := range sleeper.delays {
			if got == d {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 24, count(time.Second))
	assert.Equal(t, 20, count(10*time.Second))
	assert.Equal(t, 2, count(time.Minute))
	assert.Equal(t, 1, count(time.Hour))
}

func TestOrchestrator_CancelStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exec := &scriptedExecutor{}
	rep := &captureReporter{}
	sleeper := &recordingSleeper{cancel: cancel, after: 3}
	o := newTestOrchestrator(t, exec, rep, nil, sleeper, testConfig(5))

	summary, err := o.Run(ctx, []Account{newTestAccount(t)})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Len(t, exec.calls, 2)
	require.NotNil(t, rep.summary)
}

func TestOrchestrator_RetriesTransientSwap(t *testing.T) {
	exec := &scriptedExecutor{fail: map[int]error{
		1: apperror.New(apperror.CodeServiceUnavailable),
		2: errors.New("dial tcp: connection reset"),
	}}
	rep := &captureReporter{}
	cfg := testConfig(1)
	cfg.Plan = domain.Plan{{Pool: "SUI_USDC"}}
	o := newTestOrchestrator(t, exec, rep, nil, &recordingSleeper{}, cfg)

	summary, err := o.Run(context.Background(), []Account{newTestAccount(t)})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 3, rep.outcomes[0].Attempts)
}

func TestNewOrchestrator_RejectsBadConfig(t *testing.T) {
	reg, err := registryfile.Load("")
	require.NoError(t, err)

	cfg := testConfig(0)
	_, err = NewOrchestrator(reg, &scriptedExecutor{}, &captureReporter{}, nil, nil, cfg, discard())
	assert.True(t, apperror.HasCode(err, apperror.CodeConfigurationError))

	cfg = testConfig(1)
	cfg.Plan = domain.Plan{{Pool: "SUI_DOGE"}}
	_, err = NewOrchestrator(reg, &scriptedExecutor{}, &captureReporter{}, nil, nil, cfg, discard())
	assert.True(t, apperror.HasCode(err, apperror.CodeConfigurationError))
}
