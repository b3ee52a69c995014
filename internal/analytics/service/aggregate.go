package service

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/fluxcrm/internal/analytics/domain"
	"github.com/smallbiznis/fluxcrm/internal/config"
	leaddomain "github.com/smallbiznis/fluxcrm/internal/lead/domain"
	referencedomain "github.com/smallbiznis/fluxcrm/internal/reference/domain"
)

// BuildDashboard folds leads and organizations into dashboard totals. Every
// stage in stages, every type in orgTypes and every lead status is present in
// the result even when its count is zero.
func BuildDashboard(leads []domain.LeadRow, orgCount int64, stages, orgTypes []string, cfg config.DataLoadConfig) domain.Dashboard {
	dash := domain.Dashboard{
		TotalLeads:         int64(len(leads)),
		TotalOrganizations: orgCount,
		LeadsByStage:       make(map[string]int64, len(stages)),
		LeadsByStatus: map[string]int64{
			leaddomain.StatusOpen: 0,
			leaddomain.StatusWon:  0,
			leaddomain.StatusLost: 0,
		},
		LeadsByOrgType: make(map[string]int64, len(orgTypes)),
	}
	for _, stage := range stages {
		dash.LeadsByStage[stage] = 0
	}
	for _, orgType := range orgTypes {
		dash.LeadsByOrgType[orgType] = 0
	}

	var (
		pipeline    = decimal.Zero
		won         = decimal.Zero
		probability = decimal.Zero
		totals      leaddomain.DerivedAmounts
		openCount   int64
	)

	for _, row := range leads {
		dash.LeadsByStage[row.Stage]++
		dash.LeadsByStatus[row.Status]++

		orgType := domain.UnassignedType
		if row.OrgType != nil && *row.OrgType != "" {
			orgType = *row.OrgType
		}
		dash.LeadsByOrgType[orgType]++

		switch row.Status {
		case leaddomain.StatusOpen:
			openCount++
			pipeline = pipeline.Add(decimal.NewFromFloat(row.OfferedPrice))
			probability = probability.Add(decimal.NewFromInt(int64(row.Probability)))
		case leaddomain.StatusWon:
			won = won.Add(decimal.NewFromFloat(row.AgreedPrice))
			totals = addAmounts(totals, leaddomain.ComputeAmounts(toLead(row), cfg))
		}
	}

	dash.PipelineValue = leaddomain.Round2(pipeline)
	dash.WonValue = leaddomain.Round2(won)
	dash.WinRate = WinRate(dash.LeadsByStatus[leaddomain.StatusWon], dash.LeadsByStatus[leaddomain.StatusLost])
	if openCount > 0 {
		dash.AvgProbability = probability.Div(decimal.NewFromInt(openCount)).Round(1).InexactFloat64()
	}

	rounded := totals.Rounded()
	dash.MonthlyRevenue = rounded.MonthlyRevenue
	dash.AnnualRevenue = rounded.AnnualRevenue
	dash.DailyDataLoadGB = rounded.DailyDataLoadGB
	dash.MonthlyDataLoadGB = rounded.MonthlyDataLoadGB
	return dash
}

// WinRate is won / (won + lost) as a percentage at one decimal place. It is
// zero when no lead has been decided.
func WinRate(won, lost int64) float64 {
	decided := won + lost
	if decided == 0 {
		return 0
	}
	return decimal.NewFromInt(won).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(decided)).
		Round(1).
		InexactFloat64()
}

// BuildGeography summarizes organizations and leads per Indian state.
// Organizations with an unrecognized state land in Unmapped, as do their leads.
func BuildGeography(orgs []domain.OrganizationRow, leads []domain.LeadRow, cfg config.DataLoadConfig) domain.Geography {
	type bucket struct {
		orgs    int64
		leads   int64
		revenue decimal.Decimal
	}

	buckets := make(map[string]*bucket, len(referencedomain.IndianStates))
	for _, state := range referencedomain.IndianStates {
		buckets[state.Name] = &bucket{}
	}
	unmapped := &bucket{}

	lookup := func(raw *string) *bucket {
		if raw == nil {
			return unmapped
		}
		name, ok := referencedomain.MatchState(*raw)
		if !ok {
			return unmapped
		}
		return buckets[name]
	}

	for _, org := range orgs {
		state := org.State
		lookup(&state).orgs++
	}
	for _, row := range leads {
		b := lookup(row.OrgState)
		b.leads++
		if row.Status == leaddomain.StatusWon {
			b.revenue = b.revenue.Add(leaddomain.ComputeAmounts(toLead(row), cfg).MonthlyRevenue)
		}
	}

	names := referencedomain.StateNames()
	sort.Strings(names)

	geo := domain.Geography{
		States: make([]domain.StateSummary, 0, len(names)),
		Unmapped: domain.StateSummary{
			State:          "unmapped",
			Organizations:  unmapped.orgs,
			Leads:          unmapped.leads,
			MonthlyRevenue: leaddomain.Round2(unmapped.revenue),
		},
	}
	for _, name := range names {
		b := buckets[name]
		geo.States = append(geo.States, domain.StateSummary{
			State:          name,
			Organizations:  b.orgs,
			Leads:          b.leads,
			MonthlyRevenue: leaddomain.Round2(b.revenue),
		})
	}
	return geo
}

func toLead(row domain.LeadRow) leaddomain.Lead {
	return leaddomain.Lead{
		Status:         row.Status,
		AgreedPrice:    row.AgreedPrice,
		OfferedPrice:   row.OfferedPrice,
		ExpectedVolume: row.ExpectedVolume,
		Probability:    row.Probability,
	}
}

func addAmounts(a, b leaddomain.DerivedAmounts) leaddomain.DerivedAmounts {
	return leaddomain.DerivedAmounts{
		MonthlyRevenue:    a.MonthlyRevenue.Add(b.MonthlyRevenue),
		AnnualRevenue:     a.AnnualRevenue.Add(b.AnnualRevenue),
		DailyDataLoadMB:   a.DailyDataLoadMB.Add(b.DailyDataLoadMB),
		MonthlyDataLoadMB: a.MonthlyDataLoadMB.Add(b.MonthlyDataLoadMB),
		DailyDataLoadGB:   a.DailyDataLoadGB.Add(b.DailyDataLoadGB),
		MonthlyDataLoadGB: a.MonthlyDataLoadGB.Add(b.MonthlyDataLoadGB),
	}
}
