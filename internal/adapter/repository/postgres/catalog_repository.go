package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/srgjo27/garage_booking/internal/core/domain"
)

type serviceRow struct {
	ID              uuid.UUID       `db:"id"`
	Name            string          `db:"name"`
	DurationMinutes int             `db:"duration_minutes"`
	Price           decimal.Decimal `db:"price"`
}

// CatalogRepository reads the services table on every call.
type CatalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListAll(ctx context.Context) ([]domain.Service, error) {
	query := `
	SELECT id, name, duration_minutes, price
	FROM services
	ORDER BY name
	`

	var rows []serviceRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	services := make([]domain.Service, 0, len(rows))
	for _, row := range rows {
		services = append(services, domain.Service{
			ID:              row.ID,
			Name:            row.Name,
			DurationMinutes: row.DurationMinutes,
			Price:           row.Price,
		})
	}

	return services, nil
}

// PriceAndDuration returns the stored price and duration of each id that still
// exists. Missing ids are absent from the map.
func (r *CatalogRepository) PriceAndDuration(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.ServiceQuote, error) {
	quotes := make(map[uuid.UUID]domain.ServiceQuote, len(ids))
	if len(ids) == 0 {
		return quotes, nil
	}

	query := `
	SELECT id, name, duration_minutes, price
	FROM services
	WHERE id = ANY($1::uuid[])
	`

	var rows []serviceRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(uuidStrings(ids))); err != nil {
		return nil, fmt.Errorf("failed to load service prices: %w", err)
	}

	for _, row := range rows {
		quotes[row.ID] = domain.ServiceQuote{Price: row.Price, DurationMinutes: row.DurationMinutes}
	}

	return quotes, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
