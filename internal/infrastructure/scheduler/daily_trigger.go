package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/erp/logistics/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantProvider lists the tenants a digest runs for
type TenantProvider interface {
	ActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// DailyTrigger submits the digest jobs once a day at the configured time
type DailyTrigger struct {
	config    config.SchedulerConfig
	scheduler *Scheduler
	tenants   TenantProvider
	kinds     []JobKind
	logger    *zap.Logger
	now       func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewDailyTrigger creates a trigger for the given job kinds
func NewDailyTrigger(cfg config.SchedulerConfig, scheduler *Scheduler, tenants TenantProvider, kinds []JobKind, logger *zap.Logger) *DailyTrigger {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}
	return &DailyTrigger{
		config:    cfg,
		scheduler: scheduler,
		tenants:   tenants,
		kinds:     kinds,
		logger:    logger,
		now:       time.Now,
	}
}

// Start starts the trigger loop
func (t *DailyTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Daily digest trigger started",
		zap.Int("daily_hour", t.config.DailyHour),
		zap.Int("daily_minute", t.config.DailyMinute),
		zap.Duration("check_interval", t.config.CheckInterval),
	)
	return nil
}

// Stop stops the trigger loop
func (t *DailyTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *DailyTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger fires at most once per calendar day, on the first tick at
// or after the configured time.
func (t *DailyTrigger) checkAndTrigger(ctx context.Context) bool {
	now := t.now()
	today := now.Format("2006-01-02")

	t.mu.Lock()
	if t.lastRunDate == today {
		t.mu.Unlock()
		return false
	}
	due := time.Date(now.Year(), now.Month(), now.Day(), t.config.DailyHour, t.config.DailyMinute, 0, 0, now.Location())
	if now.Before(due) {
		t.mu.Unlock()
		return false
	}
	t.lastRunDate = today
	t.mu.Unlock()

	t.RunNow(ctx, now)
	return true
}

// RunNow submits the digest jobs for every tenant immediately
func (t *DailyTrigger) RunNow(ctx context.Context, asOf time.Time) {
	tenantIDs, err := t.tenants.ActiveTenantIDs(ctx)
	if err != nil {
		t.logger.Error("Failed to list tenants for daily digest", zap.Error(err))
		return
	}

	t.logger.Info("Scheduling daily digest", zap.Int("tenant_count", len(tenantIDs)))
	for _, tenantID := range tenantIDs {
		if err := t.scheduler.Schedule(tenantID, asOf, t.kinds...); err != nil {
			t.logger.Error("Failed to schedule daily digest for tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
		}
	}
}
