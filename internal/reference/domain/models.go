package domain

import (
	"strings"
	"time"
)

// IndianState is a state or union territory keyed by its ISO 3166-2:IN subdivision code.
type IndianState struct {
	Code           string    `json:"code" gorm:"type:varchar(4);primaryKey;column:code"`
	Name           string    `json:"name" gorm:"type:text;not null;uniqueIndex"`
	UnionTerritory bool      `json:"union_territory" gorm:"not null;default:false"`
	CreatedAt      time.Time `json:"created_at,omitempty" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (IndianState) TableName() string { return "indian_states" }

// IndianStates is the seeded list of 28 states and 8 union territories.
var IndianStates = []IndianState{
	{Code: "AP", Name: "Andhra Pradesh"},
	{Code: "AR", Name: "Arunachal Pradesh"},
	{Code: "AS", Name: "Assam"},
	{Code: "BR", Name: "Bihar"},
	{Code: "CG", Name: "Chhattisgarh"},
	{Code: "GA", Name: "Goa"},
	{Code: "GJ", Name: "Gujarat"},
	{Code: "HR", Name: "Haryana"},
	{Code: "HP", Name: "Himachal Pradesh"},
	{Code: "JH", Name: "Jharkhand"},
	{Code: "KA", Name: "Karnataka"},
	{Code: "KL", Name: "Kerala"},
	{Code: "MP", Name: "Madhya Pradesh"},
	{Code: "MH", Name: "Maharashtra"},
	{Code: "MN", Name: "Manipur"},
	{Code: "ML", Name: "Meghalaya"},
	{Code: "MZ", Name: "Mizoram"},
	{Code: "NL", Name: "Nagaland"},
	{Code: "OD", Name: "Odisha"},
	{Code: "PB", Name: "Punjab"},
	{Code: "RJ", Name: "Rajasthan"},
	{Code: "SK", Name: "Sikkim"},
	{Code: "TN", Name: "Tamil Nadu"},
	{Code: "TS", Name: "Telangana"},
	{Code: "TR", Name: "Tripura"},
	{Code: "UP", Name: "Uttar Pradesh"},
	{Code: "UK", Name: "Uttarakhand"},
	{Code: "WB", Name: "West Bengal"},
	{Code: "AN", Name: "Andaman and Nicobar Islands", UnionTerritory: true},
	{Code: "CH", Name: "Chandigarh", UnionTerritory: true},
	{Code: "DH", Name: "Dadra and Nagar Haveli and Daman and Diu", UnionTerritory: true},
	{Code: "DL", Name: "Delhi", UnionTerritory: true},
	{Code: "JK", Name: "Jammu and Kashmir", UnionTerritory: true},
	{Code: "LA", Name: "Ladakh", UnionTerritory: true},
	{Code: "LD", Name: "Lakshadweep", UnionTerritory: true},
	{Code: "PY", Name: "Puducherry", UnionTerritory: true},
}

// StateNames returns the state names in seed order.
func StateNames() []string {
	names := make([]string, 0, len(IndianStates))
	for _, state := range IndianStates {
		names = append(names, state.Name)
	}
	return names
}

// MatchState resolves a free-text state to its canonical name, ignoring case
// and surrounding whitespace.
func MatchState(raw string) (string, bool) {
	needle := strings.TrimSpace(raw)
	for _, state := range IndianStates {
		if strings.EqualFold(state.Name, needle) {
			return state.Name, true
		}
	}
	return "", false
}
