package services

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/srgjo27/garage_booking/internal/core/domain"
)

// TotalDuration sums the duration in minutes of the selected services.
// Ids that are not in services contribute nothing.
func TotalDuration(ids []uuid.UUID, services []domain.Service) int {
	total := 0
	for _, s := range selected(ids, services) {
		total += s.DurationMinutes
	}
	return total
}

func TotalPrice(ids []uuid.UUID, services []domain.Service) decimal.Decimal {
	total := decimal.Zero
	for _, s := range selected(ids, services) {
		total = total.Add(s.Price)
	}
	return total
}

// EndTime adds the duration to start, wrapping at midnight.
func EndTime(start domain.ClockTime, durationMinutes int) domain.ClockTime {
	return start.Add(durationMinutes)
}

func selected(ids []uuid.UUID, services []domain.Service) []domain.Service {
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	var out []domain.Service
	for _, s := range services {
		if _, ok := want[s.ID]; ok {
			out = append(out, s)
			delete(want, s.ID)
		}
	}
	return out
}
