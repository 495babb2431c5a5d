package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is a bookable catalog entry.
type Service struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
}

// ServiceQuote is the price and duration of a service as currently stored.
type ServiceQuote struct {
	Price           decimal.Decimal
	DurationMinutes int
}

// ServiceIDSet returns the ids of services as a lookup set.
func ServiceIDSet(services []Service) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(services))
	for _, s := range services {
		set[s.ID] = struct{}{}
	}
	return set
}
