package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo implementación de StockBalanceRepository sobre PostgreSQL
// (usable con pool o tx). La llave dimensional se guarda como jsonb junto a
// su codificación canónica (key_hash), que es la PK: a lo sumo una fila por
// DimensionKey distinta.
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

const balanceColumns = `dimension, quantity, total_cost_value, cost_price,
		total_purchase_value, total_revenue_value, total_reserve_value, updated_at`

func scanBalance(row pgx.Row) (*entity.StockBalance, error) {
	var b entity.StockBalance
	err := row.Scan(
		&b.Key, &b.Quantity, &b.TotalCostValue, &b.CostPrice,
		&b.TotalPurchaseValue, &b.TotalRevenueValue, &b.TotalReserveValue, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// Get obtiene el balance de una llave, o nil si no existe.
func (r *StockBalanceRepo) Get(ctx context.Context, key entity.DimensionKey) (*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM stock_balances WHERE key_hash = $1`
	b, err := scanBalance(r.q.QueryRow(ctx, query, key.Canonical()))
	if err != nil {
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return b, nil
}

// GetForUpdate obtiene el balance y bloquea la fila (SELECT FOR UPDATE).
func (r *StockBalanceRepo) GetForUpdate(ctx context.Context, key entity.DimensionKey) (*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM stock_balances WHERE key_hash = $1 FOR UPDATE`
	b, err := scanBalance(r.q.QueryRow(ctx, query, key.Canonical()))
	if err != nil {
		return nil, fmt.Errorf("get stock balance for update: %w", err)
	}
	return b, nil
}

// ApplyDelta es el incremento atómico en una sola sentencia: crea la fila si
// no existe, suma los deltas a los totales existentes y recalcula el costo
// promedio con los totales NUEVOS (reset a 0 cuando la cantidad resultante
// es <= 0). ON CONFLICT resuelve la carrera de primer insert reintentando
// como update dentro del mismo statement; dos patas de la misma transición
// sobre la misma llave quedan serializadas por el lock de fila de la tx.
func (r *StockBalanceRepo) ApplyDelta(ctx context.Context, key entity.DimensionKey, delta entity.BalanceDelta) (*entity.StockBalance, error) {
	query := `
		INSERT INTO stock_balances
			(key_hash, dimension, quantity, total_cost_value, total_purchase_value,
			 total_revenue_value, total_reserve_value, cost_price, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			CASE WHEN $3::numeric > 0 THEN $4::numeric / $3::numeric ELSE 0 END, now())
		ON CONFLICT (key_hash) DO UPDATE SET
			quantity             = stock_balances.quantity + EXCLUDED.quantity,
			total_cost_value     = stock_balances.total_cost_value + EXCLUDED.total_cost_value,
			total_purchase_value = stock_balances.total_purchase_value + EXCLUDED.total_purchase_value,
			total_revenue_value  = stock_balances.total_revenue_value + EXCLUDED.total_revenue_value,
			total_reserve_value  = stock_balances.total_reserve_value + EXCLUDED.total_reserve_value,
			cost_price = CASE
				WHEN stock_balances.quantity + EXCLUDED.quantity > 0
				THEN (stock_balances.total_cost_value + EXCLUDED.total_cost_value)
					/ (stock_balances.quantity + EXCLUDED.quantity)
				ELSE 0 END,
			updated_at = now()
		RETURNING ` + balanceColumns
	b, err := scanBalance(r.q.QueryRow(ctx, query,
		key.Canonical(), key,
		delta.Quantity, delta.CostValue, delta.PurchaseValue,
		delta.RevenueValue, delta.ReserveValue,
	))
	if err != nil {
		return nil, fmt.Errorf("apply balance delta: %w", err)
	}
	return b, nil
}

// ListAll devuelve todos los balances.
func (r *StockBalanceRepo) ListAll(ctx context.Context) ([]*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM stock_balances ORDER BY key_hash`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stock balances: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(
			&b.Key, &b.Quantity, &b.TotalCostValue, &b.CostPrice,
			&b.TotalPurchaseValue, &b.TotalRevenueValue, &b.TotalReserveValue, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
