package menu

import (
	"time"

	"github.com/erp/logistics/internal/application/common"
	"github.com/erp/logistics/internal/domain/menu"
	"github.com/google/uuid"
)

// CreateMenuCodeRequest represents a request to create a menu code
type CreateMenuCodeRequest struct {
	Code       string `json:"code" binding:"required,min=1,max=50"`
	Name       string `json:"name" binding:"required,min=1,max=100"`
	Path       string `json:"path" binding:"required,max=200"`
	Section    string `json:"section" binding:"required,oneof=dashboard sales purchasing accounting warehouse equipment schedule system"`
	Order      int    `json:"order" binding:"min=0"`
	Icon       string `json:"icon" binding:"max=50"`
	ParentCode string `json:"parent_code" binding:"max=50"`
}

// UpdateMenuCodeRequest represents a partial update of a menu code.
// The code itself is immutable.
type UpdateMenuCodeRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=100"`
	Path       *string `json:"path" binding:"omitempty,max=200"`
	Section    *string `json:"section" binding:"omitempty,oneof=dashboard sales purchasing accounting warehouse equipment schedule system"`
	Order      *int    `json:"order" binding:"omitempty,min=0"`
	Icon       *string `json:"icon" binding:"omitempty,max=50"`
	ParentCode *string `json:"parent_code" binding:"omitempty,max=50"`
	IsActive   *bool   `json:"is_active"`
}

// MenuCodeListFilter represents the list query
type MenuCodeListFilter struct {
	common.ListQuery
	Section string `form:"section" binding:"omitempty,oneof=dashboard sales purchasing accounting warehouse equipment schedule system"`
}

// MenuCodeResponse represents a menu code in API responses
type MenuCodeResponse struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Section    string    `json:"section"`
	Order      int       `json:"order"`
	Icon       string    `json:"icon,omitempty"`
	ParentCode string    `json:"parent_code,omitempty"`
	IsActive   bool      `json:"is_active"`
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NavigationGroupResponse is one sidebar section
type NavigationGroupResponse struct {
	Section string             `json:"section"`
	Items   []MenuCodeResponse `json:"items"`
}

// ToMenuCodeResponse converts a domain menu code to a response
func ToMenuCodeResponse(m *menu.MenuCode) MenuCodeResponse {
	return MenuCodeResponse{
		ID:         m.ID,
		Code:       m.Code,
		Name:       m.Name,
		Path:       m.Path,
		Section:    string(m.Section),
		Order:      m.Order,
		Icon:       m.Icon,
		ParentCode: m.ParentCode,
		IsActive:   m.IsActive,
		Version:    m.Version,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// ToMenuCodeResponses converts a slice of menu codes
func ToMenuCodeResponses(codes []menu.MenuCode) []MenuCodeResponse {
	out := make([]MenuCodeResponse, len(codes))
	for i := range codes {
		out[i] = ToMenuCodeResponse(&codes[i])
	}
	return out
}
