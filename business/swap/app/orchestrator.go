package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/sui-swap-bot/business/swap/domain"
	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/logger"
)

// OrchestratorConfig holds the run parameters.
type OrchestratorConfig struct {
	Plan   domain.Plan
	Cycles int
	Retry  RetryPolicy
	Pacing Pacing
}

// Orchestrator runs the swap plan for every account, one swap at a time.
type Orchestrator struct {
	registry *domain.Registry
	executor SwapExecutor
	reporter ProgressReporter
	journal  Journal
	sleeper  Sleeper
	config   OrchestratorConfig
	logger   logger.LoggerInterface

	tracer  trace.Tracer
	metrics *swapMetrics
	now     func() time.Time
	newID   func() string
}

// NewOrchestrator creates a new Orchestrator. journal may be nil.
func NewOrchestrator(
	registry *domain.Registry,
	executor SwapExecutor,
	reporter ProgressReporter,
	journal Journal,
	sleeper Sleeper,
	config OrchestratorConfig,
	log logger.LoggerInterface,
) (*Orchestrator, error) {
	if config.Cycles <= 0 {
		return nil, apperror.Validation(apperror.CodeConfigurationError, "cycles must be positive")
	}
	if err := config.Plan.Validate(registry); err != nil {
		return nil, apperror.New(apperror.CodeConfigurationError, apperror.WithCause(err))
	}
	if sleeper == nil {
		sleeper = ClockSleeper{}
	}

	m, err := newSwapMetrics()
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return &Orchestrator{
		registry: registry,
		executor: executor,
		reporter: reporter,
		journal:  journal,
		sleeper:  sleeper,
		config:   config,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
		metrics:  m,
		now:      time.Now,
		newID:    uuid.NewString,
	}, nil
}

// Run processes accounts in order. Per-swap failures are reported, never
// returned; only cancellation ends a run early, with a partial summary.
func (o *Orchestrator) Run(ctx context.Context, accounts []Account) (domain.RunSummary, error) {
	summary := domain.RunSummary{
		RunID:    o.newID(),
		Accounts: len(accounts),
		Started:  o.now(),
	}

	if err := o.reporter.Start(ctx); err != nil {
		return summary, err
	}
	defer func() {
		if err := o.reporter.Stop(); err != nil {
			o.logger.Warn(ctx, "stopping reporter", "error", err)
		}
	}()

	o.logger.Info(ctx, "starting swap run",
		"run_id", summary.RunID,
		"accounts", len(accounts),
		"cycles", o.config.Cycles,
		"entries", len(o.config.Plan),
	)
	o.reporter.RunStarted(summary.RunID, len(accounts), o.config.Cycles)

	var err error
	for i, acct := range accounts {
		if i > 0 {
			o.logger.Info(ctx, "waiting before next account", "delay", o.config.Pacing.AccountDelay.String())
			if err = o.sleeper.Sleep(ctx, o.config.Pacing.AccountDelay); err != nil {
				break
			}
		}

		o.reporter.AccountStarted(i+1, len(accounts), acct)
		if err = o.RunAccount(ctx, summary.RunID, acct, &summary); err != nil {
			break
		}
	}

	summary.Finished = o.now()
	o.reporter.RunFinished(summary)
	o.logger.Info(ctx, "swap run finished",
		"run_id", summary.RunID,
		"succeeded", summary.Succeeded,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"elapsed", summary.Finished.Sub(summary.Started).String(),
	)
	return summary, err
}

// RunAccount runs every cycle for acct, adding outcomes to summary. It only
// fails when ctx is done.
func (o *Orchestrator) RunAccount(ctx context.Context, runID string, acct Account, summary *domain.RunSummary) error {
	ctx, span := o.tracer.Start(ctx, "swap.RunAccount", trace.WithAttributes(
		attribute.String("account", acct.Address().String()),
	))
	defer span.End()

	o.logger.Info(ctx, "processing account",
		"account", acct.Address().String(),
		"label", acct.Label(),
		"cycles", o.config.Cycles,
	)

	for cycle := 1; cycle <= o.config.Cycles; cycle++ {
		if cycle > 1 {
			if err := o.sleeper.Sleep(ctx, o.config.Pacing.CycleDelay); err != nil {
				return err
			}
		}

		outcomes, err := o.RunCycle(ctx, runID, acct, cycle)
		for _, out := range outcomes {
			summary.Add(out)
		}
		if err != nil {
			return err
		}
	}

	o.logger.Info(ctx, "account done", "account", acct.Address().String())
	return nil
}

// RunCycle runs the plan once for acct. Entries run strictly in order and a
// failed entry never stops the ones after it.
func (o *Orchestrator) RunCycle(ctx context.Context, runID string, acct Account, cycle int) ([]domain.Outcome, error) {
	o.reporter.CycleStarted(cycle, o.config.Cycles)
	o.logger.Info(ctx, "starting swap cycle",
		"account", acct.Address().String(),
		"cycle", cycle,
		"of", o.config.Cycles,
	)

	outcomes := make([]domain.Outcome, 0, len(o.config.Plan))
	for i, entry := range o.config.Plan {
		if i > 0 {
			if err := o.sleeper.Sleep(ctx, o.config.Pacing.SwapDelay()); err != nil {
				return outcomes, err
			}
		}

		o.reporter.EntryStarted(cycle, i+1, entry)
		out := o.runEntry(ctx, acct, entry)
		out.RunID, out.Cycle, out.Index = runID, cycle, i+1

		o.metrics.recordOutcome(ctx, out)
		o.reporter.Report(out)
		o.record(ctx, out)
		outcomes = append(outcomes, out)

		if ctx.Err() != nil {
			return outcomes, ctx.Err()
		}
		if out.Status == domain.StatusSucceeded {
			if err := o.sleeper.Sleep(ctx, o.config.Pacing.SettleDelay); err != nil {
				return outcomes, err
			}
		}
	}
	return outcomes, nil
}

// runEntry executes one plan entry with retry and turns every error,
// including a panic, into an outcome.
func (o *Orchestrator) runEntry(ctx context.Context, acct Account, entry domain.PlanEntry) (out domain.Outcome) {
	out = domain.Outcome{
		Account: acct.Address().String(),
		Label:   acct.Label(),
		Entry:   entry,
		Started: o.now(),
	}
	defer func() {
		if r := recover(); r != nil {
			out.Status = domain.StatusFailed
			out.Err = apperror.New(apperror.CodeInternalError, apperror.WithContext(fmt.Sprintf("panic: %v", r)))
		}
		out.Duration = o.now().Sub(out.Started)
		o.logOutcome(ctx, out)
	}()

	route, err := o.registry.Route(entry.Pool, entry.Reverse)
	if err != nil {
		out.Status, out.Err = domain.StatusSkipped, err
		return out
	}
	out.Route = route.String()
	out.Source, out.Target = route.Source().Symbol(), route.Target().Symbol()

	var res *SwapResult
	out.Attempts, err = o.config.Retry.Do(ctx, o.sleeper, func(ctx context.Context, attempt int) error {
		if attempt > 1 {
			o.logger.Warn(ctx, "retrying swap",
				"route", out.Route,
				"attempt", attempt,
				"of", o.config.Retry.Attempts,
			)
		}
		var err error
		res, err = o.executor.Execute(ctx, acct, route, entry.Amount)
		return err
	})

	switch {
	case err == nil:
		out.Status = domain.StatusSucceeded
		out.Digest = res.Digest
		out.Amount = res.AmountText()
	case apperror.GetCode(err).Skippable():
		out.Status, out.Err = domain.StatusSkipped, err
	default:
		out.Status, out.Err = domain.StatusFailed, err
	}
	return out
}

func (o *Orchestrator) logOutcome(ctx context.Context, out domain.Outcome) {
	args := []any{
		"account", out.Account,
		"pool", out.Entry.Pool,
		"route", out.Route,
		"status", string(out.Status),
		"attempts", out.Attempts,
		"duration", out.Duration.String(),
	}
	switch out.Status {
	case domain.StatusSucceeded:
		o.logger.Info(ctx, "swap succeeded", append(args, "amount", out.Amount, "digest", out.Digest)...)
	case domain.StatusSkipped:
		o.logger.Warn(ctx, "swap skipped", append(args, "reason", out.ErrorText())...)
	default:
		o.logger.Error(ctx, "swap failed", append(args, "error", out.ErrorText())...)
	}
}

func (o *Orchestrator) record(ctx context.Context, out domain.Outcome) {
	if o.journal == nil {
		return
	}
	// The run may be cancelled; the journal still gets the outcome.
	jctx := context.WithoutCancel(ctx)
	if err := o.journal.Record(jctx, out); err != nil && !errors.Is(err, context.Canceled) {
		o.logger.Warn(ctx, "journal write failed", "error", err)
	}
}
