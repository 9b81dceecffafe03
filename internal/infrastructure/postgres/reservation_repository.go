package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo implementación del rastro de reservas sobre PostgreSQL
// (usable con pool o tx). Solo inserta: la liberación son filas de negación,
// nunca updates ni deletes.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

// CreateBatch inserta las filas de reserva de una transición.
func (r *ReservationRepo) CreateBatch(ctx context.Context, reservations []entity.Reservation) error {
	query := `
		INSERT INTO reservations
			(id, journal_id, journal_code, line_num, key_hash, dimension,
			 delta_qty, delta_cost, delta_purchase, delta_revenue, reversal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, res := range reservations {
		if res.ID == "" {
			res.ID = uuid.New().String()
		}
		_, err := r.q.Exec(ctx, query,
			res.ID, res.JournalID, res.JournalCode, res.LineNum,
			res.Key.Canonical(), res.Key,
			res.DeltaQty, res.DeltaCost, res.DeltaPurchase, res.DeltaRevenue,
			res.Reversal,
		)
		if err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
	}
	return nil
}

// ListByJournal devuelve las filas del diario en orden de inserción.
func (r *ReservationRepo) ListByJournal(ctx context.Context, journalID string) ([]entity.Reservation, error) {
	query := `
		SELECT id, journal_id, journal_code, line_num, dimension,
		       delta_qty, delta_cost, delta_purchase, delta_revenue, reversal, created_at
		FROM reservations
		WHERE journal_id = $1
		ORDER BY seq`
	rows, err := r.q.Query(ctx, query, journalID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var list []entity.Reservation
	for rows.Next() {
		var res entity.Reservation
		if err := rows.Scan(
			&res.ID, &res.JournalID, &res.JournalCode, &res.LineNum, &res.Key,
			&res.DeltaQty, &res.DeltaCost, &res.DeltaPurchase, &res.DeltaRevenue,
			&res.Reversal, &res.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, res)
	}
	return list, rows.Err()
}
