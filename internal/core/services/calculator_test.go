package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/srgjo27/garage_booking/internal/core/domain"
	"github.com/srgjo27/garage_booking/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func catalogFixture() (domain.Service, domain.Service, domain.Service) {
	oil := domain.Service{ID: uuid.New(), Name: "Oil change", DurationMinutes: 30, Price: decimal.NewFromInt(1200)}
	brakes := domain.Service{ID: uuid.New(), Name: "Brake inspection", DurationMinutes: 60, Price: decimal.NewFromInt(1500)}
	tyres := domain.Service{ID: uuid.New(), Name: "Tyre rotation", DurationMinutes: 45, Price: decimal.RequireFromString("799.50")}
	return oil, brakes, tyres
}

func TestTotals(t *testing.T) {
	oil, brakes, tyres := catalogFixture()
	catalog := []domain.Service{oil, brakes, tyres}

	t.Run("sums selected services", func(t *testing.T) {
		ids := []uuid.UUID{oil.ID, brakes.ID}
		assert.Equal(t, 90, services.TotalDuration(ids, catalog))
		assert.True(t, decimal.NewFromInt(2700).Equal(services.TotalPrice(ids, catalog)))
	})

	t.Run("order of selection does not matter", func(t *testing.T) {
		a := []uuid.UUID{oil.ID, brakes.ID, tyres.ID}
		b := []uuid.UUID{tyres.ID, oil.ID, brakes.ID}
		assert.Equal(t, services.TotalDuration(a, catalog), services.TotalDuration(b, catalog))
		assert.True(t, services.TotalPrice(a, catalog).Equal(services.TotalPrice(b, catalog)))
		assert.Equal(t, "3499.5", services.TotalPrice(a, catalog).String())
	})

	t.Run("empty selection is zero", func(t *testing.T) {
		assert.Equal(t, 0, services.TotalDuration(nil, catalog))
		assert.True(t, services.TotalPrice(nil, catalog).IsZero())
	})

	t.Run("unknown ids contribute nothing", func(t *testing.T) {
		ids := []uuid.UUID{uuid.New(), oil.ID}
		assert.Equal(t, 30, services.TotalDuration(ids, catalog))
		assert.True(t, decimal.NewFromInt(1200).Equal(services.TotalPrice(ids, catalog)))
	})
}

func TestEndTime(t *testing.T) {
	tests := []struct {
		start    string
		duration int
		want     string
	}{
		{"09:00", 90, "10:30"},
		{"10:00", 90, "11:30"},
		{"23:30", 45, "00:15"},
		{"17:00", 0, "17:00"},
		{"22:00", 24*60 + 30, "22:30"},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			got := services.EndTime(domain.MustParseClock(tt.start), tt.duration)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
