package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation es la contribución provisional que escribe la confirmación de un
// diario: un delta por pata (cantidad + valores) etiquetado con la identidad
// del diario para trazabilidad. La liberación (cancel o post) no borra filas:
// inserta filas de negación con Reversal=true, dejando un rastro firmado.
type Reservation struct {
	ID            string
	JournalID     string
	JournalCode   string
	LineNum       int
	Key           DimensionKey
	DeltaQty      decimal.Decimal
	DeltaCost     decimal.Decimal
	DeltaPurchase decimal.Decimal
	DeltaRevenue  decimal.Decimal
	Reversal      bool
	CreatedAt     time.Time
}

// Negate devuelve la fila de liberación (mismos montos con signo invertido).
func (r Reservation) Negate() Reservation {
	return Reservation{
		JournalID:     r.JournalID,
		JournalCode:   r.JournalCode,
		LineNum:       r.LineNum,
		Key:           r.Key,
		DeltaQty:      r.DeltaQty.Neg(),
		DeltaCost:     r.DeltaCost.Neg(),
		DeltaPurchase: r.DeltaPurchase.Neg(),
		DeltaRevenue:  r.DeltaRevenue.Neg(),
		Reversal:      true,
	}
}
