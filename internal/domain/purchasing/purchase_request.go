package purchasing

import (
	"strings"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseRequestStatus represents the approval state of a purchase request
type PurchaseRequestStatus string

const (
	PurchaseRequestStatusDraft     PurchaseRequestStatus = "draft"
	PurchaseRequestStatusSubmitted PurchaseRequestStatus = "submitted"
	PurchaseRequestStatusApproved  PurchaseRequestStatus = "approved"
	PurchaseRequestStatusRejected  PurchaseRequestStatus = "rejected"
	PurchaseRequestStatusConverted PurchaseRequestStatus = "converted"
)

// IsValid checks if the status is a known value
func (s PurchaseRequestStatus) IsValid() bool {
	switch s {
	case PurchaseRequestStatusDraft, PurchaseRequestStatusSubmitted, PurchaseRequestStatusApproved,
		PurchaseRequestStatusRejected, PurchaseRequestStatusConverted:
		return true
	}
	return false
}

func (s PurchaseRequestStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can move to target
func (s PurchaseRequestStatus) CanTransitionTo(target PurchaseRequestStatus) bool {
	switch s {
	case PurchaseRequestStatusDraft:
		return target == PurchaseRequestStatusSubmitted
	case PurchaseRequestStatusSubmitted:
		return target == PurchaseRequestStatusApproved || target == PurchaseRequestStatusRejected
	case PurchaseRequestStatusApproved:
		return target == PurchaseRequestStatusConverted
	case PurchaseRequestStatusRejected:
		return target == PurchaseRequestStatusDraft
	}
	return false
}

const AggregateTypePurchaseRequest = "PurchaseRequest"

// PurchaseRequestItem is a requested part
type PurchaseRequestItem struct {
	ItemLine
	Quantity decimal.Decimal
	Amount   decimal.Decimal
}

// PurchaseRequest is an internal request to buy parts, approved before it becomes a purchase order
type PurchaseRequest struct {
	shared.TenantAggregateRoot
	RequestNumber   string
	RequesterID     *uuid.UUID
	RequesterName   string
	Department      string
	LocationID      *uuid.UUID
	Reason          string
	RequiredDate    *time.Time
	Items           []PurchaseRequestItem
	TotalAmount     decimal.Decimal
	Status          PurchaseRequestStatus
	SubmittedAt     *time.Time
	ApprovedBy      *uuid.UUID
	ApprovedAt      *time.Time
	RejectedBy      *uuid.UUID
	RejectedAt      *time.Time
	RejectionReason string
	PurchaseOrderID *uuid.UUID
	ConvertedAt     *time.Time
}

// NewPurchaseRequest creates a draft purchase request
func NewPurchaseRequest(tenantID uuid.UUID, requestNumber, requesterName, department string) (*PurchaseRequest, error) {
	if requestNumber == "" {
		return nil, shared.NewValidationError("request number is required")
	}
	if strings.TrimSpace(requesterName) == "" {
		return nil, shared.NewValidationError("requester name is required")
	}
	return &PurchaseRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RequestNumber:       requestNumber,
		RequesterName:       strings.TrimSpace(requesterName),
		Department:          strings.TrimSpace(department),
		Items:               make([]PurchaseRequestItem, 0),
		TotalAmount:         decimal.Zero,
		Status:              PurchaseRequestStatusDraft,
	}, nil
}

// CanModify reports whether header and items are still editable
func (r *PurchaseRequest) CanModify() bool {
	return r.Status == PurchaseRequestStatusDraft
}

func (r *PurchaseRequest) ensureDraft() error {
	if !r.CanModify() {
		return shared.NewStateError("cannot modify purchase request in %s status", r.Status)
	}
	return nil
}

// Draft edits do not bump the version; the caller does once per update.

// SetDetails updates the descriptive header fields
func (r *PurchaseRequest) SetDetails(department, reason string, locationID *uuid.UUID, requiredDate *time.Time) error {
	if err := r.ensureDraft(); err != nil {
		return err
	}
	r.Department = strings.TrimSpace(department)
	r.Reason = strings.TrimSpace(reason)
	r.LocationID = locationID
	r.RequiredDate = requiredDate
	return nil
}

// SetRequester records who asked for the parts
func (r *PurchaseRequest) SetRequester(userID uuid.UUID) {
	if userID != uuid.Nil {
		r.RequesterID = &userID
	}
}

// AddItem appends a requested part. UnitPrice is the estimate.
func (r *PurchaseRequest) AddItem(in LineInput) (*PurchaseRequestItem, error) {
	if err := r.ensureDraft(); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	item := PurchaseRequestItem{
		ItemLine: newItemLine(in),
		Quantity: in.Quantity,
		Amount:   in.Quantity.Mul(in.UnitPrice).Round(2),
	}
	r.Items = append(r.Items, item)
	r.recalculate()
	return &r.Items[len(r.Items)-1], nil
}

// ReplaceItems swaps the whole item list, used by full updates
func (r *PurchaseRequest) ReplaceItems(inputs []LineInput) error {
	if err := r.ensureDraft(); err != nil {
		return err
	}
	for _, in := range inputs {
		if err := in.validate(); err != nil {
			return err
		}
	}
	r.Items = make([]PurchaseRequestItem, 0, len(inputs))
	for _, in := range inputs {
		if _, err := r.AddItem(in); err != nil {
			return err
		}
	}
	return nil
}

// RemoveItem removes a line by ID
func (r *PurchaseRequest) RemoveItem(itemID uuid.UUID) error {
	if err := r.ensureDraft(); err != nil {
		return err
	}
	for i := range r.Items {
		if r.Items[i].ID == itemID {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			r.recalculate()
			return nil
		}
	}
	return shared.NewNotFoundError("purchase request item")
}

func (r *PurchaseRequest) recalculate() {
	r.TotalAmount = sumAmounts(r.Items, func(it PurchaseRequestItem) decimal.Decimal { return it.Amount })
}

// Submit sends a draft for approval
func (r *PurchaseRequest) Submit() error {
	if !r.Status.CanTransitionTo(PurchaseRequestStatusSubmitted) {
		return shared.NewStateError("cannot submit purchase request in %s status", r.Status)
	}
	if len(r.Items) == 0 {
		return shared.NewValidationError("cannot submit purchase request without items")
	}
	now := time.Now()
	r.Status = PurchaseRequestStatusSubmitted
	r.SubmittedAt = &now
	r.IncrementVersion()
	r.AddDomainEvent(NewPurchaseRequestStatusChangedEvent(r))
	return nil
}

// Approve accepts a submitted request
func (r *PurchaseRequest) Approve(approverID uuid.UUID) error {
	if !r.Status.CanTransitionTo(PurchaseRequestStatusApproved) {
		return shared.NewStateError("cannot approve purchase request in %s status", r.Status)
	}
	now := time.Now()
	r.Status = PurchaseRequestStatusApproved
	if approverID != uuid.Nil {
		r.ApprovedBy = &approverID
	}
	r.ApprovedAt = &now
	r.IncrementVersion()
	r.AddDomainEvent(NewPurchaseRequestStatusChangedEvent(r))
	return nil
}

// Reject declines a submitted request. A reason is mandatory.
func (r *PurchaseRequest) Reject(userID uuid.UUID, reason string) error {
	if !r.Status.CanTransitionTo(PurchaseRequestStatusRejected) {
		return shared.NewStateError("cannot reject purchase request in %s status", r.Status)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError("rejection reason is required")
	}
	now := time.Now()
	r.Status = PurchaseRequestStatusRejected
	if userID != uuid.Nil {
		r.RejectedBy = &userID
	}
	r.RejectedAt = &now
	r.RejectionReason = reason
	r.IncrementVersion()
	r.AddDomainEvent(NewPurchaseRequestStatusChangedEvent(r))
	return nil
}

// Reopen moves a rejected request back to draft so it can be fixed and resubmitted
func (r *PurchaseRequest) Reopen() error {
	if !r.Status.CanTransitionTo(PurchaseRequestStatusDraft) {
		return shared.NewStateError("cannot reopen purchase request in %s status", r.Status)
	}
	r.Status = PurchaseRequestStatusDraft
	r.SubmittedAt = nil
	r.RejectedAt = nil
	r.RejectedBy = nil
	r.RejectionReason = ""
	r.IncrementVersion()
	return nil
}

// MarkConverted links the request to the purchase order created from it
func (r *PurchaseRequest) MarkConverted(purchaseOrderID uuid.UUID) error {
	if !r.Status.CanTransitionTo(PurchaseRequestStatusConverted) {
		return shared.NewStateError("cannot convert purchase request in %s status", r.Status)
	}
	now := time.Now()
	r.Status = PurchaseRequestStatusConverted
	r.PurchaseOrderID = &purchaseOrderID
	r.ConvertedAt = &now
	r.IncrementVersion()
	r.AddDomainEvent(NewPurchaseRequestStatusChangedEvent(r))
	return nil
}

// CanDelete reports whether the request may be removed
func (r *PurchaseRequest) CanDelete() bool {
	return r.Status == PurchaseRequestStatusDraft || r.Status == PurchaseRequestStatusRejected
}
