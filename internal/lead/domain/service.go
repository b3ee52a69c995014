package domain

import (
	"context"
	"errors"
)

type CreateLeadRequest struct {
	LeadName          string
	OrganizationID    string
	Product           string
	SalesOwner        string
	OfferedPrice      *float64
	AgreedPrice       *float64
	ExpectedVolume    *int64
	Stage             string
	Status            string
	Probability       *int
	ExpectedCloseDate string
	Source            string
	Remarks           string
	Tags              []string
}

// UpdateLeadRequest is a patch; nil fields are left unchanged.
type UpdateLeadRequest struct {
	LeadName          *string
	OrganizationID    *string
	Product           *string
	SalesOwner        *string
	OfferedPrice      *float64
	AgreedPrice       *float64
	ExpectedVolume    *int64
	Stage             *string
	Status            *string
	Probability       *int
	ExpectedCloseDate *string
	Source            *string
	Remarks           *string
	Tags              []string
}

type ListLeadRequest struct {
	Stage          string
	Status         string
	OrganizationID string
	SalesOwner     string
}

type Service interface {
	Create(ctx context.Context, req CreateLeadRequest) (*LeadResponse, error)
	List(ctx context.Context, req ListLeadRequest) ([]LeadResponse, error)
	GetByID(ctx context.Context, id string) (*LeadResponse, error)
	Update(ctx context.Context, id string, req UpdateLeadRequest) (*LeadResponse, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID             = errors.New("invalid_id")
	ErrInvalidLeadName       = errors.New("invalid_lead_name")
	ErrInvalidOrganizationID = errors.New("invalid_organization_id")
	ErrInvalidProduct        = errors.New("invalid_product")
	ErrInvalidSalesOwner     = errors.New("invalid_sales_owner")
	ErrInvalidStage          = errors.New("invalid_stage")
	ErrInvalidStatus         = errors.New("invalid_status")
	ErrInvalidProbability    = errors.New("invalid_probability")
	ErrInvalidOfferedPrice   = errors.New("invalid_offered_price")
	ErrInvalidAgreedPrice    = errors.New("invalid_agreed_price")
	ErrInvalidVolume         = errors.New("invalid_expected_volume")
	ErrInvalidCloseDate      = errors.New("invalid_expected_close_date")
	ErrEmptyUpdate           = errors.New("empty_update")
	ErrNotFound              = errors.New("not_found")
	ErrOrganizationNotFound  = errors.New("organization_not_found")
)
