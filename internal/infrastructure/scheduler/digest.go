package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxDigestRefs caps the references written to a single log entry
const maxDigestRefs = 20

// Digest is the outcome of one collector run
type Digest struct {
	Count  int
	Amount decimal.Decimal
	// Refs are document numbers or equipment codes
	Refs []string
}

// Collector gathers one kind of digest for a tenant
type Collector func(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (Digest, error)

// DigestExecutor dispatches jobs to the collector registered for their kind
// and writes the result to the log.
type DigestExecutor struct {
	mu         sync.RWMutex
	collectors map[JobKind]Collector
	logger     *zap.Logger
}

// NewDigestExecutor creates an executor with no collectors
func NewDigestExecutor(logger *zap.Logger) *DigestExecutor {
	return &DigestExecutor{
		collectors: make(map[JobKind]Collector),
		logger:     logger,
	}
}

// Register binds a collector to a job kind, replacing any earlier one
func (e *DigestExecutor) Register(kind JobKind, c Collector) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.collectors[kind] = c
}

// Kinds lists the registered job kinds in a stable order
func (e *DigestExecutor) Kinds() []JobKind {
	e.mu.RLock()
	defer e.mu.RUnlock()
	kinds := make([]JobKind, 0, len(e.collectors))
	for k := range e.collectors {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Execute implements JobExecutor
func (e *DigestExecutor) Execute(ctx context.Context, job *Job) error {
	e.mu.RLock()
	collect, ok := e.collectors[job.Kind]
	e.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJobKind, job.Kind)
	}

	d, err := collect(ctx, job.TenantID, job.AsOf)
	if err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("tenant_id", job.TenantID.String()),
		zap.String("kind", string(job.Kind)),
		zap.Time("as_of", job.AsOf),
		zap.Int("count", d.Count),
	}
	if d.Count == 0 {
		e.logger.Info("Daily digest: nothing outstanding", fields...)
		return nil
	}
	if !d.Amount.IsZero() {
		fields = append(fields, zap.String("amount", d.Amount.StringFixed(2)))
	}
	refs := d.Refs
	if len(refs) > maxDigestRefs {
		refs = refs[:maxDigestRefs]
	}
	if len(refs) > 0 {
		fields = append(fields, zap.Strings("refs", refs))
	}
	e.logger.Warn("Daily digest", fields...)
	return nil
}
