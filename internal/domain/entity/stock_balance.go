package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance es el balance autoritativo de una posición de stock (una fila
// por DimensionKey). Solo se muta vía apply/reverse del ciclo de vida de
// diarios; nunca directamente por los callers. Nunca se borra.
type StockBalance struct {
	Key                DimensionKey
	Quantity           decimal.Decimal
	TotalCostValue     decimal.Decimal
	CostPrice          decimal.Decimal // derivado: TotalCostValue/Quantity si Quantity > 0, si no 0
	TotalPurchaseValue decimal.Decimal
	TotalRevenueValue  decimal.Decimal
	TotalReserveValue  decimal.Decimal
	UpdatedAt          time.Time
}

// NewStockBalance crea un balance en cero para una llave (upsert inicial).
func NewStockBalance(key DimensionKey) *StockBalance {
	return &StockBalance{
		Key:                key,
		Quantity:           decimal.Zero,
		TotalCostValue:     decimal.Zero,
		CostPrice:          decimal.Zero,
		TotalPurchaseValue: decimal.Zero,
		TotalRevenueValue:  decimal.Zero,
		TotalReserveValue:  decimal.Zero,
	}
}

// BalanceDelta agrupa los incrementos que una pata aplica sobre un balance.
type BalanceDelta struct {
	Quantity      decimal.Decimal
	CostValue     decimal.Decimal
	PurchaseValue decimal.Decimal
	RevenueValue  decimal.Decimal
	ReserveValue  decimal.Decimal
}

// Neg devuelve el delta con todos los signos invertidos (para reversar).
func (d BalanceDelta) Neg() BalanceDelta {
	return BalanceDelta{
		Quantity:      d.Quantity.Neg(),
		CostValue:     d.CostValue.Neg(),
		PurchaseValue: d.PurchaseValue.Neg(),
		RevenueValue:  d.RevenueValue.Neg(),
		ReserveValue:  d.ReserveValue.Neg(),
	}
}

// Apply suma el delta a los totales y recalcula el costo promedio con los
// totales NUEVOS. Si la cantidad resultante es <= 0 el costo se resetea a 0:
// al agotar la posición se descarta el historial de base de costo
// (simplificación deliberada del modelo, no un bug).
// Esta es la única aritmética de incremento: la usan tanto el adaptador
// PostgreSQL como los dobles de prueba en memoria.
func (b *StockBalance) Apply(d BalanceDelta) {
	b.Quantity = b.Quantity.Add(d.Quantity)
	b.TotalCostValue = b.TotalCostValue.Add(d.CostValue)
	b.TotalPurchaseValue = b.TotalPurchaseValue.Add(d.PurchaseValue)
	b.TotalRevenueValue = b.TotalRevenueValue.Add(d.RevenueValue)
	b.TotalReserveValue = b.TotalReserveValue.Add(d.ReserveValue)

	if b.Quantity.GreaterThan(decimal.Zero) {
		b.CostPrice = b.TotalCostValue.Div(b.Quantity)
	} else {
		b.CostPrice = decimal.Zero
	}
}
