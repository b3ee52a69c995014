package domain

import "context"

type Repository interface {
	ListIndianStates(ctx context.Context) ([]IndianState, error)
}
