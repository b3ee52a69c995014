package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	TypeProposal  = "PROPOSAL"
	TypeQuotation = "QUOTATION"
	TypeMOU       = "MOU"
	TypeAgreement = "AGREEMENT"
	TypePO        = "PO"
	TypeInvoice   = "INVOICE"
	TypeOther     = "OTHER"

	StatusDraft  = "DRAFT"
	StatusShared = "SHARED"
	StatusSigned = "SIGNED"
)

var StandardTypes = []string{TypeProposal, TypeQuotation, TypeMOU, TypeAgreement, TypePO, TypeInvoice, TypeOther}

// Document tracks a commercial paper attached to a lead. SharedAt and
// SignedAt record the first time the document reached that status.
type Document struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	LeadID     snowflake.ID `gorm:"not null;index" json:"lead_id"`
	Type       string       `gorm:"type:varchar(64);not null" json:"type"`
	CustomName string       `gorm:"type:text" json:"custom_name"`
	Status     string       `gorm:"type:varchar(16);not null" json:"status"`
	SharedAt   *time.Time   `json:"shared_at"`
	SignedAt   *time.Time   `json:"signed_at"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Document) TableName() string { return "documents" }

func IsStandardType(t string) bool {
	for _, standard := range StandardTypes {
		if t == standard {
			return true
		}
	}
	return false
}

func IsValidStatus(status string) bool {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case StatusDraft, StatusShared, StatusSigned:
		return true
	default:
		return false
	}
}
