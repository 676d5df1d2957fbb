package partner

import (
	"time"

	"github.com/erp/logistics/internal/application/common"
	"github.com/erp/logistics/internal/domain/partner"
	"github.com/google/uuid"
)

// CreatePartnerRequest represents a request to create a partner
type CreatePartnerRequest struct {
	Code           string `json:"code" binding:"required,min=1,max=50"`
	Name           string `json:"name" binding:"required,min=1,max=200"`
	Type           string `json:"type" binding:"required,oneof=supplier customer both"`
	ContactName    string `json:"contact_name" binding:"max=100"`
	Phone          string `json:"phone" binding:"max=50"`
	Email          string `json:"email" binding:"omitempty,email,max=200"`
	Address        string `json:"address" binding:"max=500"`
	BusinessNumber string `json:"business_number" binding:"max=50"`
	Remark         string `json:"remark"`
}

// UpdatePartnerRequest represents a partial update of a partner
type UpdatePartnerRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=1,max=200"`
	Type           *string `json:"type" binding:"omitempty,oneof=supplier customer both"`
	ContactName    *string `json:"contact_name" binding:"omitempty,max=100"`
	Phone          *string `json:"phone" binding:"omitempty,max=50"`
	Email          *string `json:"email" binding:"omitempty,email,max=200"`
	Address        *string `json:"address" binding:"omitempty,max=500"`
	BusinessNumber *string `json:"business_number" binding:"omitempty,max=50"`
	Remark         *string `json:"remark"`
}

// PartnerListFilter represents the list query. Type supplier or customer also
// matches partners of type both.
type PartnerListFilter struct {
	common.ListQuery
	Type string `form:"type" binding:"omitempty,oneof=supplier customer both"`
}

// PartnerResponse represents a partner in API responses
type PartnerResponse struct {
	ID             uuid.UUID  `json:"id"`
	Code           string     `json:"code"`
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	ContactName    string     `json:"contact_name"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	Address        string     `json:"address"`
	BusinessNumber string     `json:"business_number"`
	Remark         string     `json:"remark"`
	IsActive       bool       `json:"is_active"`
	Version        int        `json:"version"`
	CreatedBy      *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToPartnerResponse converts a domain partner to a response
func ToPartnerResponse(p *partner.Partner) PartnerResponse {
	return PartnerResponse{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		Type:           string(p.Type),
		ContactName:    p.ContactName,
		Phone:          p.Phone,
		Email:          p.Email,
		Address:        p.Address,
		BusinessNumber: p.BusinessNumber,
		Remark:         p.Remark,
		IsActive:       p.IsActive,
		Version:        p.Version,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToPartnerResponses converts a slice of partners
func ToPartnerResponses(partners []partner.Partner) []PartnerResponse {
	out := make([]PartnerResponse, len(partners))
	for i := range partners {
		out[i] = ToPartnerResponse(&partners[i])
	}
	return out
}
