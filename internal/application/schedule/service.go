// Package schedule serves the company calendar.
package schedule

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/domain/schedule"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxRange bounds a calendar query
const maxRange = 366 * 24 * time.Hour

// Service handles calendar entries
type Service struct {
	repo schedule.ScheduleRepository
}

// NewService creates a new schedule Service
func NewService(repo schedule.ScheduleRepository) *Service {
	return &Service{repo: repo}
}

// Create adds an entry. Without an owner it belongs to the creating user.
func (s *Service) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateScheduleRequest) (*ScheduleResponse, error) {
	owner := req.OwnerID
	if owner == nil && userID != uuid.Nil {
		owner = &userID
	}
	entry, err := schedule.NewSchedule(tenantID, schedule.Entry{
		Title:       req.Title,
		Description: req.Description,
		Category:    schedule.Category(req.Category),
		ProjectName: req.ProjectName,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		AllDay:      req.AllDay,
		Color:       req.Color,
		OwnerID:     owner,
		Location:    req.Location,
	})
	if err != nil {
		return nil, err
	}
	if userID != uuid.Nil {
		entry.SetCreatedBy(userID)
	}
	if err := s.repo.Save(ctx, entry); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("schedule created",
		zap.String("category", string(entry.Category)),
		zap.Time("start_date", entry.StartDate),
	)
	resp := ToScheduleResponse(entry)
	return &resp, nil
}

// GetByID retrieves an entry
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ScheduleResponse, error) {
	entry, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToScheduleResponse(entry)
	return &resp, nil
}

// List retrieves entries with filtering and pagination
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter ScheduleListFilter) ([]ScheduleResponse, int64, error) {
	f := filter.Filter()
	if filter.OrderBy == "" {
		f.OrderBy = "start_date"
		f.OrderDir = "asc"
	}
	if filter.Category != "" {
		f = f.With("category", filter.Category)
	}
	if filter.OwnerID != nil {
		f = f.With("owner_id", *filter.OwnerID)
	}
	if filter.From != nil {
		f = f.With("from", *filter.From)
	}
	if filter.To != nil {
		f = f.With("to", *filter.To)
	}

	items, err := s.repo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return ToScheduleResponses(items), total, nil
}

func checkRange(from, to time.Time) error {
	if to.Before(from) {
		return shared.NewValidationError("to must not be before from")
	}
	if to.Sub(from) > maxRange {
		return shared.NewValidationError("range cannot exceed 366 days")
	}
	return nil
}

// Range returns the active entries overlapping the requested days. The to
// date is inclusive.
func (s *Service) Range(ctx context.Context, tenantID uuid.UUID, req RangeRequest) ([]ScheduleResponse, error) {
	to := req.To
	if to.Equal(truncateDay(to)) {
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if err := checkRange(req.From, to); err != nil {
		return nil, err
	}
	items, err := s.repo.FindInRange(ctx, tenantID, schedule.RangeQuery{
		From:     req.From,
		To:       to,
		Category: schedule.Category(req.Category),
		OwnerID:  req.OwnerID,
	})
	if err != nil {
		return nil, err
	}
	return ToScheduleResponses(items), nil
}

// Conflicts lists the owner's entries that overlap a candidate range
func (s *Service) Conflicts(ctx context.Context, tenantID uuid.UUID, req ConflictRequest) ([]ScheduleResponse, error) {
	if err := checkRange(req.From, req.To); err != nil {
		return nil, err
	}
	owner := req.OwnerID
	items, err := s.repo.FindInRange(ctx, tenantID, schedule.RangeQuery{
		From:      req.From,
		To:        req.To,
		OwnerID:   &owner,
		ExcludeID: req.ExcludeID,
	})
	if err != nil {
		return nil, err
	}
	return ToScheduleResponses(items), nil
}

// Update edits an entry
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateScheduleRequest) (*ScheduleResponse, error) {
	entry, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	e := schedule.Entry{
		Title:       entry.Title,
		Description: entry.Description,
		Category:    entry.Category,
		ProjectName: entry.ProjectName,
		StartDate:   entry.StartDate,
		EndDate:     entry.EndDate,
		AllDay:      entry.AllDay,
		Color:       entry.Color,
		OwnerID:     entry.OwnerID,
		Location:    entry.Location,
	}
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Category != nil || req.ProjectName != nil {
		// a new category or project gets its derived color unless one is given
		e.Color = ""
	}
	if req.Category != nil {
		e.Category = schedule.Category(*req.Category)
	}
	if req.ProjectName != nil {
		e.ProjectName = *req.ProjectName
	}
	if req.StartDate != nil {
		e.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		e.EndDate = *req.EndDate
	}
	if req.AllDay != nil {
		e.AllDay = *req.AllDay
	}
	if req.Color != nil {
		e.Color = *req.Color
	}
	if req.OwnerID != nil {
		e.OwnerID = req.OwnerID
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if err := entry.Update(e); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, entry); err != nil {
		return nil, err
	}
	resp := ToScheduleResponse(entry)
	return &resp, nil
}

// Delete hides an entry, or removes it when hard is set
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID, hard bool) error {
	if hard {
		return s.repo.DeleteForTenant(ctx, tenantID, id)
	}
	entry, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	entry.SoftDelete()
	return s.repo.SaveWithLock(ctx, entry)
}

// Restore brings back a hidden entry
func (s *Service) Restore(ctx context.Context, tenantID, id uuid.UUID) (*ScheduleResponse, error) {
	entry, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	entry.Restore()
	if err := s.repo.SaveWithLock(ctx, entry); err != nil {
		return nil, err
	}
	resp := ToScheduleResponse(entry)
	return &resp, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
