package authorization

import (
	"context"
	"errors"
	"strings"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
	RoleViewer  = "viewer"
)

const (
	ObjectOrganization = "organization"
	ObjectOrgType      = "org_type"
	ObjectLead         = "lead"
	ObjectLeadStage    = "lead_stage"
	ObjectMilestone    = "milestone"
	ObjectDocument     = "document"
	ObjectLeadNote     = "lead_note"
	ObjectSalesFlow    = "sales_flow"
	ObjectTeam         = "team"
	ObjectAnalytics    = "analytics"
	ObjectReference    = "reference"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

var (
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidRole   = errors.New("invalid_role")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
)

type Service interface {
	Authorize(ctx context.Context, role string, object string, action string) error
}

// Roles lists the assignable roles from most to least privileged.
func Roles() []string {
	return []string{RoleAdmin, RoleManager, RoleUser, RoleViewer}
}

func IsValidRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAdmin, RoleManager, RoleUser, RoleViewer:
		return true
	default:
		return false
	}
}

func roleSubject(role string) string {
	return "role:" + strings.ToLower(strings.TrimSpace(role))
}
