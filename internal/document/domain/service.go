package domain

import (
	"context"
	"errors"
)

type CreateDocumentRequest struct {
	LeadID     string
	Type       string
	CustomName string
	Status     string
}

// UpdateDocumentRequest is a patch; nil fields are left unchanged.
type UpdateDocumentRequest struct {
	Type       *string
	CustomName *string
	Status     *string
}

type Service interface {
	Create(ctx context.Context, req CreateDocumentRequest) (Document, error)
	ListByLead(ctx context.Context, leadID string) ([]Document, error)
	Update(ctx context.Context, id string, req UpdateDocumentRequest) (Document, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidLeadID = errors.New("invalid_lead_id")
	ErrInvalidType   = errors.New("invalid_type")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrEmptyUpdate   = errors.New("empty_update")
	ErrNotFound      = errors.New("not_found")
	ErrLeadNotFound  = errors.New("lead_not_found")
)
