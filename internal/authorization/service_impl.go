package authorization

import (
	"context"
	_ "embed"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	obsmetrics "github.com/smallbiznis/fluxcrm/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

var Module = fx.Module("authorization",
	fx.Provide(NewEnforcer),
	fx.Provide(NewService),
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	metrics  *obsmetrics.Metrics
}

// NewEnforcer builds a policy-persisting enforcer and seeds the capability table.
func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	return enforcer, nil
}

// NewMemoryEnforcer builds an enforcer without persistence.
func NewMemoryEnforcer() (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		metrics:  p.Metrics,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, role string, object string, action string) error {
	role = strings.ToLower(strings.TrimSpace(role))
	if !IsValidRole(role) {
		return ErrInvalidRole
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	allowed, err := s.enforcer.Enforce(roleSubject(role), object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("role", role),
			zap.String("object", object),
			zap.String("action", action),
		)
		s.metrics.RecordAuthorizationDenied(ctx, role, object, action)
		return ErrForbidden
	}
	return nil
}

// Role inheritance: admin > manager > user > viewer.
var roleHierarchy = [][]string{
	{roleSubject(RoleAdmin), roleSubject(RoleManager)},
	{roleSubject(RoleManager), roleSubject(RoleUser)},
	{roleSubject(RoleUser), roleSubject(RoleViewer)},
}

func capabilityPolicies() [][]string {
	policies := [][]string{}

	for _, object := range []string{
		ObjectOrganization, ObjectOrgType, ObjectLead, ObjectLeadStage, ObjectMilestone,
		ObjectDocument, ObjectLeadNote, ObjectSalesFlow, ObjectAnalytics, ObjectReference,
	} {
		policies = append(policies, []string{roleSubject(RoleViewer), object, ActionView})
	}

	writes := []string{ActionCreate, ActionUpdate, ActionDelete}
	for _, object := range []string{ObjectLead, ObjectOrganization, ObjectMilestone, ObjectDocument, ObjectLeadNote} {
		for _, action := range writes {
			policies = append(policies, []string{roleSubject(RoleUser), object, action})
		}
	}
	for _, object := range []string{ObjectOrgType, ObjectLeadStage, ObjectSalesFlow} {
		for _, action := range writes {
			policies = append(policies, []string{roleSubject(RoleManager), object, action})
		}
	}
	for _, action := range append([]string{ActionView}, writes...) {
		policies = append(policies, []string{roleSubject(RoleAdmin), ObjectTeam, action})
	}

	return policies
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	for _, policy := range capabilityPolicies() {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	for _, link := range roleHierarchy {
		if _, err := enforcer.AddGroupingPolicy(link); err != nil {
			return err
		}
	}
	return nil
}
