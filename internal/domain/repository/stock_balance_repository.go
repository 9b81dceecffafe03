package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// StockBalanceRepository define el puerto del almacén de balances de stock
// (una fila por DimensionKey). Toda mutación pasa por ApplyDelta dentro de
// una transacción: nunca por escritura directa de los callers.
type StockBalanceRepository interface {
	// Get devuelve el balance de la llave o nil si no existe.
	Get(ctx context.Context, key entity.DimensionKey) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) y la devuelve, o nil si
	// no existe. Solo tiene sentido dentro de una transacción.
	GetForUpdate(ctx context.Context, key entity.DimensionKey) (*entity.StockBalance, error)
	// ApplyDelta es el incremento atómico: crea la fila si no existe, suma el
	// delta a los totales existentes, recalcula el costo promedio con los
	// totales nuevos y devuelve el snapshot resultante. La carrera de primer
	// insert se resuelve en una sola sentencia (upsert por llave canónica).
	ApplyDelta(ctx context.Context, key entity.DimensionKey, delta entity.BalanceDelta) (*entity.StockBalance, error)
	// ListAll devuelve todos los balances (para el reconciliador provisional).
	ListAll(ctx context.Context) ([]*entity.StockBalance, error)
}
