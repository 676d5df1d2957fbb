// Package menu holds the navigation lookup table rendered by the frontend sidebar.
package menu

import (
	"regexp"
	"sort"
	"strings"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
)

// Section groups menu codes in the navigation
type Section string

const (
	SectionDashboard  Section = "dashboard"
	SectionSales      Section = "sales"
	SectionPurchasing Section = "purchasing"
	SectionAccounting Section = "accounting"
	SectionWarehouse  Section = "warehouse"
	SectionEquipment  Section = "equipment"
	SectionSchedule   Section = "schedule"
	SectionSystem     Section = "system"
)

// AllSections lists sections in navigation order
func AllSections() []Section {
	return []Section{
		SectionDashboard,
		SectionSales,
		SectionPurchasing,
		SectionAccounting,
		SectionWarehouse,
		SectionEquipment,
		SectionSchedule,
		SectionSystem,
	}
}

// IsValid checks if the section is a known value
func (s Section) IsValid() bool {
	for _, v := range AllSections() {
		if s == v {
			return true
		}
	}
	return false
}

func (s Section) rank() int {
	for i, v := range AllSections() {
		if s == v {
			return i
		}
	}
	return len(AllSections())
}

const AggregateTypeMenuCode = "MenuCode"

var codePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{0,49}$`)

// MenuCode is one navigation entry
type MenuCode struct {
	shared.TenantAggregateRoot
	shared.Activatable
	Code       string
	Name       string
	Path       string
	Section    Section
	Order      int
	Icon       string
	ParentCode string
}

// NewMenuCode creates an active menu code. The code is upper-cased.
func NewMenuCode(tenantID uuid.UUID, code, name, path string, section Section, order int) (*MenuCode, error) {
	code = NormalizeCode(code)
	if !codePattern.MatchString(code) {
		return nil, shared.NewValidationError("menu code must be 1-50 characters of A-Z, 0-9, '_' or '-'")
	}
	m := &MenuCode{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Activatable:         shared.NewActivatable(),
		Code:                code,
	}
	if err := m.apply(name, path, section, order); err != nil {
		return nil, err
	}
	return m, nil
}

// NormalizeCode trims and upper-cases a code before lookups
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (m *MenuCode) apply(name, path string, section Section, order int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("menu name is required")
	}
	if len(name) > 100 {
		return shared.NewValidationError("menu name cannot exceed 100 characters")
	}
	if !strings.HasPrefix(path, "/") {
		return shared.NewValidationError("menu path must start with '/'")
	}
	if !section.IsValid() {
		return shared.NewValidationError("invalid menu section: %s", section)
	}
	if order < 0 {
		return shared.NewValidationError("menu order cannot be negative")
	}
	m.Name = name
	m.Path = path
	m.Section = section
	m.Order = order
	return nil
}

// Update replaces the editable fields. The code itself is immutable.
func (m *MenuCode) Update(name, path string, section Section, order int, icon, parentCode string) error {
	if err := m.apply(name, path, section, order); err != nil {
		return err
	}
	parentCode = NormalizeCode(parentCode)
	if parentCode == m.Code {
		return shared.NewValidationError("menu code cannot be its own parent")
	}
	m.Icon = strings.TrimSpace(icon)
	m.ParentCode = parentCode
	m.IncrementVersion()
	return nil
}

// SetDecoration sets icon and parent on a freshly created code
func (m *MenuCode) SetDecoration(icon, parentCode string) error {
	parentCode = NormalizeCode(parentCode)
	if parentCode == m.Code {
		return shared.NewValidationError("menu code cannot be its own parent")
	}
	m.Icon = strings.TrimSpace(icon)
	m.ParentCode = parentCode
	return nil
}

// SoftDelete hides the code from navigation without removing it
func (m *MenuCode) SoftDelete() {
	if m.Deactivate() {
		m.IncrementVersion()
	}
}

// Restore re-activates a soft-deleted code
func (m *MenuCode) Restore() {
	if m.Activate() {
		m.IncrementVersion()
	}
}

// NavigationGroup is one section of the sidebar
type NavigationGroup struct {
	Section Section
	Items   []MenuCode
}

// BuildNavigation groups active codes by section, ordered by Order then Code.
// Sections with no active codes are omitted.
func BuildNavigation(codes []MenuCode) []NavigationGroup {
	bySection := make(map[Section][]MenuCode)
	for _, c := range codes {
		if !c.IsActive {
			continue
		}
		bySection[c.Section] = append(bySection[c.Section], c)
	}

	sections := make([]Section, 0, len(bySection))
	for s := range bySection {
		sections = append(sections, s)
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].rank() < sections[j].rank() })

	groups := make([]NavigationGroup, 0, len(sections))
	for _, s := range sections {
		items := bySection[s]
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Order != items[j].Order {
				return items[i].Order < items[j].Order
			}
			return items[i].Code < items[j].Code
		})
		groups = append(groups, NavigationGroup{Section: s, Items: items})
	}
	return groups
}
