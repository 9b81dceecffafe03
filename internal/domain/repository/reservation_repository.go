package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ReservationRepository define el puerto del rastro de reservas provisionales
// (contribuciones escritas al confirmar y liberadas al cancelar o postear).
type ReservationRepository interface {
	// CreateBatch inserta las filas de reserva de una transición.
	CreateBatch(ctx context.Context, reservations []entity.Reservation) error
	// ListByJournal devuelve todas las filas (originales y de liberación) de
	// un diario, en orden de inserción.
	ListByJournal(ctx context.Context, journalID string) ([]entity.Reservation, error)
}
