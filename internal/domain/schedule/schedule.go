// Package schedule implements the shared company calendar.
package schedule

import (
	"hash/fnv"
	"regexp"
	"strings"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
)

// Category groups calendar entries
type Category string

const (
	CategoryProject     Category = "project"
	CategoryCompany     Category = "company"
	CategoryPersonal    Category = "personal"
	CategoryMaintenance Category = "maintenance"
)

// IsValid checks if the category is a known value
func (c Category) IsValid() bool {
	switch c {
	case CategoryProject, CategoryCompany, CategoryPersonal, CategoryMaintenance:
		return true
	}
	return false
}

// Fixed colors for categories other than project
var categoryColors = map[Category]string{
	CategoryProject:     "#1677FF",
	CategoryCompany:     "#F5222D",
	CategoryPersonal:    "#52C41A",
	CategoryMaintenance: "#FA8C16",
}

// ProjectPalette is cycled through by project name
var ProjectPalette = []string{
	"#1677FF", "#13C2C2", "#722ED1", "#EB2F96",
	"#FAAD14", "#2F54EB", "#A0D911", "#FA541C",
	"#08979C", "#9254DE",
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// AssignColor picks the display color of an entry. An explicit #RRGGBB wins.
// Project entries with a name map to a stable palette slot so every entry of
// the same project shares a color.
func AssignColor(explicit string, category Category, projectName string) (string, error) {
	explicit = strings.TrimSpace(explicit)
	if explicit != "" {
		if !hexColor.MatchString(explicit) {
			return "", shared.NewValidationError("color must be #RRGGBB, got %q", explicit)
		}
		return strings.ToUpper(explicit), nil
	}
	name := strings.ToLower(strings.TrimSpace(projectName))
	if category == CategoryProject && name != "" {
		h := fnv.New32a()
		_, _ = h.Write([]byte(name))
		return ProjectPalette[h.Sum32()%uint32(len(ProjectPalette))], nil
	}
	return categoryColors[category], nil
}

// Schedule is one calendar entry
type Schedule struct {
	shared.TenantAggregateRoot
	shared.Activatable
	Title       string
	Description string
	Category    Category
	ProjectName string
	StartDate   time.Time
	EndDate     time.Time
	AllDay      bool
	Color       string
	OwnerID     *uuid.UUID
	Location    string
}

// Entry holds the editable fields of a schedule
type Entry struct {
	Title       string
	Description string
	Category    Category
	ProjectName string
	StartDate   time.Time
	EndDate     time.Time
	AllDay      bool
	Color       string
	OwnerID     *uuid.UUID
	Location    string
}

// NewSchedule creates a calendar entry
func NewSchedule(tenantID uuid.UUID, e Entry) (*Schedule, error) {
	s := &Schedule{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Activatable:         shared.NewActivatable(),
	}
	if err := s.apply(e); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Schedule) apply(e Entry) error {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		return shared.NewValidationError("title is required")
	}
	if len(title) > 200 {
		return shared.NewValidationError("title cannot exceed 200 characters")
	}
	if !e.Category.IsValid() {
		return shared.NewValidationError("invalid category: %s", e.Category)
	}
	if e.StartDate.IsZero() || e.EndDate.IsZero() {
		return shared.NewValidationError("start and end dates are required")
	}
	start, end := e.StartDate, e.EndDate
	if e.AllDay {
		start = startOfDay(start)
		end = endOfDay(end)
	}
	if end.Before(start) {
		return shared.NewValidationError("end date must not be before start date")
	}
	projectName := strings.TrimSpace(e.ProjectName)
	if e.Category == CategoryProject && projectName == "" {
		return shared.NewValidationError("project name is required for project schedules")
	}
	color, err := AssignColor(e.Color, e.Category, projectName)
	if err != nil {
		return err
	}
	s.Title = title
	s.Description = e.Description
	s.Category = e.Category
	s.ProjectName = projectName
	s.StartDate = start
	s.EndDate = end
	s.AllDay = e.AllDay
	s.Color = color
	s.OwnerID = e.OwnerID
	s.Location = strings.TrimSpace(e.Location)
	return nil
}

// Update replaces the entry and re-derives its color
func (s *Schedule) Update(e Entry) error {
	if err := s.apply(e); err != nil {
		return err
	}
	s.IncrementVersion()
	return nil
}

// Overlaps reports whether the entry intersects [from, to], bounds inclusive
func (s *Schedule) Overlaps(from, to time.Time) bool {
	return Overlaps(s.StartDate, s.EndDate, from, to)
}

// Overlaps reports whether two inclusive ranges intersect
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// SoftDelete hides the entry from the calendar
func (s *Schedule) SoftDelete() {
	if s.Deactivate() {
		s.IncrementVersion()
	}
}

// Restore brings a hidden entry back
func (s *Schedule) Restore() {
	if s.Activate() {
		s.IncrementVersion()
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
