package schedule

import (
	"time"

	"github.com/erp/logistics/internal/application/common"
	"github.com/erp/logistics/internal/domain/schedule"
	"github.com/google/uuid"
)

// CreateScheduleRequest represents a request to create a calendar entry
type CreateScheduleRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	Category    string     `json:"category" binding:"required,oneof=project company personal maintenance"`
	ProjectName string     `json:"project_name" binding:"max=100"`
	StartDate   time.Time  `json:"start_date" binding:"required"`
	EndDate     time.Time  `json:"end_date" binding:"required"`
	AllDay      bool       `json:"all_day"`
	Color       string     `json:"color" binding:"omitempty,len=7"`
	OwnerID     *uuid.UUID `json:"owner_id"`
	Location    string     `json:"location" binding:"max=200"`
}

// UpdateScheduleRequest edits an entry. Nil fields keep their value. An
// empty color re-derives it from category and project.
type UpdateScheduleRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Category    *string    `json:"category" binding:"omitempty,oneof=project company personal maintenance"`
	ProjectName *string    `json:"project_name" binding:"omitempty,max=100"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	AllDay      *bool      `json:"all_day"`
	Color       *string    `json:"color" binding:"omitempty,max=7"`
	OwnerID     *uuid.UUID `json:"owner_id"`
	Location    *string    `json:"location" binding:"omitempty,max=200"`
}

// ScheduleListFilter is the paged list query
type ScheduleListFilter struct {
	common.ListQuery
	Category string     `form:"category" binding:"omitempty,oneof=project company personal maintenance"`
	OwnerID  *uuid.UUID `form:"owner_id"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
}

// RangeRequest selects the entries shown in a calendar view
type RangeRequest struct {
	From     time.Time  `form:"from" binding:"required" time_format:"2006-01-02"`
	To       time.Time  `form:"to" binding:"required" time_format:"2006-01-02"`
	Category string     `form:"category" binding:"omitempty,oneof=project company personal maintenance"`
	OwnerID  *uuid.UUID `form:"owner_id"`
}

// ConflictRequest checks a candidate range against an owner's entries
type ConflictRequest struct {
	From      time.Time  `form:"from" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	To        time.Time  `form:"to" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	OwnerID   uuid.UUID  `form:"owner_id" binding:"required"`
	ExcludeID *uuid.UUID `form:"exclude_id"`
}

// ScheduleResponse represents a calendar entry in API responses
type ScheduleResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	ProjectName string     `json:"project_name,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	AllDay      bool       `json:"all_day"`
	Color       string     `json:"color"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
	Location    string     `json:"location"`
	IsActive    bool       `json:"is_active"`
	Version     int        `json:"version"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToScheduleResponse converts a domain entry to a response
func ToScheduleResponse(s *schedule.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Category:    string(s.Category),
		ProjectName: s.ProjectName,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		AllDay:      s.AllDay,
		Color:       s.Color,
		OwnerID:     s.OwnerID,
		Location:    s.Location,
		IsActive:    s.IsActive,
		Version:     s.Version,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToScheduleResponses converts a slice of entries
func ToScheduleResponses(items []schedule.Schedule) []ScheduleResponse {
	out := make([]ScheduleResponse, len(items))
	for i := range items {
		out[i] = ToScheduleResponse(&items[i])
	}
	return out
}
