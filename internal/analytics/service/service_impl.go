package service

import (
	"context"

	"github.com/smallbiznis/fluxcrm/internal/analytics/domain"
	"github.com/smallbiznis/fluxcrm/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	DataLoad *config.DataLoadConfigHolder
	Repo     domain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	dataLoad *config.DataLoadConfigHolder
	repo     domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("analytics.service"),
		dataLoad: p.DataLoad,
		repo:     p.Repo,
	}
}

func (s *Service) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	leads, err := s.repo.ListLeads(ctx, s.db)
	if err != nil {
		return domain.Dashboard{}, err
	}
	orgs, err := s.repo.ListOrganizations(ctx, s.db)
	if err != nil {
		return domain.Dashboard{}, err
	}
	stages, err := s.repo.ListStageNames(ctx, s.db)
	if err != nil {
		return domain.Dashboard{}, err
	}
	orgTypes, err := s.repo.ListOrgTypeNames(ctx, s.db)
	if err != nil {
		return domain.Dashboard{}, err
	}

	return BuildDashboard(leads, int64(len(orgs)), stages, orgTypes, s.dataLoad.Get()), nil
}

func (s *Service) Geography(ctx context.Context) (domain.Geography, error) {
	leads, err := s.repo.ListLeads(ctx, s.db)
	if err != nil {
		return domain.Geography{}, err
	}
	orgs, err := s.repo.ListOrganizations(ctx, s.db)
	if err != nil {
		return domain.Geography{}, err
	}

	return BuildGeography(orgs, leads, s.dataLoad.Get()), nil
}
