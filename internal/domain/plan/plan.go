package plan

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Plan is a commercial service plan
type Plan struct {
	shared.BaseAggregateRoot
	Code             string
	Description      string
	PaymentMethodID  uuid.UUID
	ConnectionTypeID uuid.UUID
	BaseAmount       decimal.Decimal
	BillingPeriod    string
	StartDate        time.Time
	EndDate          *time.Time
	Active           bool
	ItemCode         string
}

// PlanTerms groups the mutable commercial fields of a plan
type PlanTerms struct {
	Description      string
	PaymentMethodID  uuid.UUID
	ConnectionTypeID uuid.UUID
	BaseAmount       decimal.Decimal
	BillingPeriod    string
	StartDate        time.Time
	EndDate          *time.Time
	ItemCode         string
}

// NewPlan creates an active plan
func NewPlan(code string, terms PlanTerms) (*Plan, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Plan code cannot be empty")
	}
	if len(code) > 20 {
		return nil, shared.NewDomainError("INVALID_CODE", "Plan code cannot exceed 20 characters")
	}

	p := &Plan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Active:            true,
	}
	if err := p.Update(terms); err != nil {
		return nil, err
	}
	p.Version = 1
	return p, nil
}

// Update replaces the commercial terms
func (p *Plan) Update(terms PlanTerms) error {
	if strings.TrimSpace(terms.Description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Plan description cannot be empty")
	}
	if terms.PaymentMethodID == uuid.Nil {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is required")
	}
	if terms.ConnectionTypeID == uuid.Nil {
		return shared.NewDomainError("INVALID_CONNECTION_TYPE", "Connection type is required")
	}
	if terms.BaseAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Base amount cannot be negative")
	}
	if strings.TrimSpace(terms.BillingPeriod) == "" {
		return shared.NewDomainError("INVALID_BILLING_PERIOD", "Billing period cannot be empty")
	}
	if terms.StartDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Start date is required")
	}
	if terms.EndDate != nil && terms.EndDate.Before(terms.StartDate) {
		return shared.NewDomainError("INVALID_DATE", "End date cannot be before start date")
	}

	p.Description = strings.TrimSpace(terms.Description)
	p.PaymentMethodID = terms.PaymentMethodID
	p.ConnectionTypeID = terms.ConnectionTypeID
	p.BaseAmount = terms.BaseAmount.Round(2)
	p.BillingPeriod = strings.TrimSpace(terms.BillingPeriod)
	p.StartDate = terms.StartDate
	p.EndDate = terms.EndDate
	p.ItemCode = strings.TrimSpace(terms.ItemCode)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetActive toggles the plan
func (p *Plan) SetActive(active bool) {
	p.Active = active
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsAvailableOn reports whether the plan can be contracted on the given day
func (p *Plan) IsAvailableOn(day time.Time) bool {
	if !p.Active || day.Before(p.StartDate) {
		return false
	}
	return p.EndDate == nil || !day.After(*p.EndDate)
}
