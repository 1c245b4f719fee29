package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/robfig/cron/v3"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/ranking"
)

// Scheduler re-runs the evaluation cycle on a cron schedule.
type Scheduler struct {
	Cron         *cron.Cron
	Collector    *collector.Collector
	Evaluator    *ranking.Evaluator
	Sinks        []notifier.Sink
	CycleTimeout time.Duration
	Ctx          context.Context

	now func() time.Time
	wg  sync.WaitGroup
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, ev *ranking.Evaluator, timeout time.Duration, sinks ...notifier.Sink) *Scheduler {
	logger := cron.PrintfLogger(log.Default())
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		Collector:    col,
		Evaluator:    ev,
		Sinks:        sinks,
		CycleTimeout: timeout,
		Ctx:          ctx,
		now:          time.Now,
	}
}

// Register adds the refresh task.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running cycles to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	log.Println("[INFO] scheduler stopped")
}

// Trigger runs one refresh cycle in the background. Stop waits for it.
func (s *Scheduler) Trigger() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.refreshTask()
	}()
}

func (s *Scheduler) refreshTask() {
	if _, err := s.RunOnce(s.Ctx); err != nil {
		log.Printf("[ERROR] refresh: %v", err)
	}
}

// RunOnce evaluates the universe and publishes the report to every sink.
func (s *Scheduler) RunOnce(ctx context.Context) (model.RankedReport, error) {
	started := s.now()
	report, err := s.Evaluate(ctx)
	if err != nil {
		return report, err
	}
	s.publish(ctx, notifier.FormatReport(report, started))
	return report, nil
}

// Evaluate collects both series for the universe and ranks it. Symbols still
// fetching at the cycle deadline are reported as NO_DATA; only cancellation of
// ctx itself fails the cycle.
func (s *Scheduler) Evaluate(ctx context.Context) (model.RankedReport, error) {
	id := ulid.Make()
	started := s.now()
	log.Printf("[INFO] cycle %s: evaluating %d symbols", id, len(s.Collector.Universe))

	cycleCtx := ctx
	if s.CycleTimeout > 0 {
		var cancel context.CancelFunc
		cycleCtx, cancel = context.WithTimeout(ctx, s.CycleTimeout)
		defer cancel()
	}

	inputs := s.Collector.CollectUniverse(cycleCtx)
	if err := ctx.Err(); err != nil {
		return model.RankedReport{}, fmt.Errorf("cycle %s: collect: %w", id, err)
	}
	if err := cycleCtx.Err(); err != nil {
		log.Printf("[WARN] cycle %s: collect deadline hit, unfinished symbols have no data: %v", id, err)
	}

	report := s.Evaluator.Evaluate(inputs)
	if best, ok := report.Best(); ok {
		log.Printf("[INFO] cycle %s: %d results, best %s score=%d grade=%s (%v)",
			id, len(report.Results), best.Symbol, best.Score, best.Grade, s.now().Sub(started))
	} else {
		log.Printf("[INFO] cycle %s: no signal, %d symbols skipped", id, len(report.Skipped))
	}
	for _, o := range report.Skipped {
		log.Printf("[WARN] cycle %s: skipped %s (%s) %s", id, o.Symbol, o.Status, o.Reason)
	}
	return report, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	cmd := strings.ToLower(command)
	switch cmd {
	case "/best", "/report":
		report, err := s.Evaluate(ctx)
		if err != nil {
			return fmt.Sprintf("❌ evaluation failed: %v", err)
		}
		if cmd == "/best" {
			return notifier.FormatBest(report)
		}
		return notifier.FormatReport(report, s.now())
	default:
		return "Available commands:\n• /best\n• /report"
	}
}

func (s *Scheduler) publish(ctx context.Context, text string) {
	for _, sink := range s.Sinks {
		if err := sink.Publish(ctx, text); err != nil {
			log.Printf("[ERROR] publish report: %v", err)
		}
	}
}
