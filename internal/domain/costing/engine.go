// Package costing implementa el motor de costeo: la política de valoración
// que convierte una línea de diario en una o dos "patas" (deltas por llave
// dimensional). Es un servicio de dominio puro: no persiste nada; el costo
// existente lo lee a través de un CostLookup que el caller respalda con la
// transacción (post) o con un snapshot inmutable (consultas).
//
// Tabla de política por tipo/condición de línea:
//
//	COUNTING                 → 1 pata (origen): solo delta de cantidad.
//	qty == 0 + load definido → 1 pata (origen o destino): solo delta de costo.
//	TRANSFER                 → 2 patas: el costo promedio del origen viaja con
//	                           el traslado; el destino nunca usa su costo previo.
//	INOUT/ADJUSTMENT qty > 0 → entrada: compra = qty*precioCompra; el costo se
//	                           rebasa desde el precio de compra.
//	INOUT/ADJUSTMENT qty < 0 → salida: ingreso = |qty|*precioVenta; costo =
//	                           -|qty|*costoPromedio existente.
//
// Invariante: el delta de costo de toda pata se calcula con un costo promedio
// leído ANTES de que la mutación de esa misma pata sea visible.
package costing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Leg es un delta con alcance de una DimensionKey producido desde una línea
// de diario. Los traslados producen dos.
type Leg struct {
	Key           entity.DimensionKey
	Quantity      decimal.Decimal
	CostValue     decimal.Decimal
	PurchaseValue decimal.Decimal
	RevenueValue  decimal.Decimal
}

// Delta convierte la pata en el delta de balance equivalente.
func (l Leg) Delta() entity.BalanceDelta {
	return entity.BalanceDelta{
		Quantity:      l.Quantity,
		CostValue:     l.CostValue,
		PurchaseValue: l.PurchaseValue,
		RevenueValue:  l.RevenueValue,
	}
}

// CostLookup devuelve el costo promedio vigente de una llave. En el camino de
// post se respalda con GetForUpdate dentro de la transacción; en los motores
// de consulta, con un snapshot de solo lectura.
type CostLookup func(key entity.DimensionKey) (decimal.Decimal, error)

// ComputeLegs aplica la tabla de política y devuelve las patas de la línea.
// Match exhaustivo sobre el conjunto cerrado de tipos: un tipo desconocido es
// ErrInvalidInput, nunca cae en silencio a una valoración equivocada.
func ComputeLegs(journalType string, line entity.JournalLine, costs CostLookup) ([]Leg, error) {
	switch journalType {
	case entity.JournalTypeCOUNTING:
		// Conteo físico: ajusta cantidad sin tocar valores.
		return []Leg{{Key: line.EffectiveKey(), Quantity: line.Quantity}}, nil

	case entity.JournalTypeTRANSFER:
		return transferLegs(line, costs)

	case entity.JournalTypeINOUT, entity.JournalTypeADJUSTMENT:
		if line.Quantity.IsZero() {
			return loadValueLeg(line)
		}
		if line.Quantity.GreaterThan(decimal.Zero) {
			return []Leg{receiptLeg(line)}, nil
		}
		return issueLegs(line, costs)

	default:
		return nil, fmt.Errorf("%w: tipo de diario %q", domain.ErrInvalidInput, journalType)
	}
}

// loadValueLeg: línea de cantidad cero con carga directa de valor al
// inventario (LoadOnInventoryValue). Una sola pata, solo delta de costo.
func loadValueLeg(line entity.JournalLine) ([]Leg, error) {
	if line.LoadOnInventoryValue == nil {
		return nil, fmt.Errorf("%w: línea %d con cantidad cero y sin load_on_inventory_value", domain.ErrInvalidInput, line.LineNum)
	}
	return []Leg{{Key: line.EffectiveKey(), CostValue: *line.LoadOnInventoryValue}}, nil
}

// receiptLeg: entrada. La base de costo se rebasa desde el precio de compra.
func receiptLeg(line entity.JournalLine) Leg {
	purchase := line.Quantity.Mul(line.PurchasePrice)
	return Leg{
		Key:           line.EffectiveKey(),
		Quantity:      line.Quantity,
		PurchaseValue: purchase,
		CostValue:     purchase,
	}
}

// issueLegs: salida. El ingreso se valora al precio de venta; el costo sale
// del promedio existente, leído antes del decremento.
func issueLegs(line entity.JournalLine, costs CostLookup) ([]Leg, error) {
	key := line.EffectiveKey()
	costPrice, err := costs(key)
	if err != nil {
		return nil, err
	}
	abs := line.Quantity.Abs()
	return []Leg{{
		Key:          key,
		Quantity:     line.Quantity,
		RevenueValue: abs.Mul(line.SalesPrice),
		CostValue:    abs.Mul(costPrice).Neg(),
	}}, nil
}

// transferLegs: dos patas. El costo promedio del ORIGEN se lee antes de mutar
// cualquiera de las dos y viaja con el traslado: misma magnitud de delta de
// costo en ambas (negativa en origen, positiva en destino).
func transferLegs(line entity.JournalLine, costs CostLookup) ([]Leg, error) {
	if line.From.IsZero() || line.To.IsZero() {
		return nil, fmt.Errorf("%w: TRANSFER requiere coordenadas de origen y destino", domain.ErrInvalidInput)
	}
	fromKey, toKey := line.FromKey(), line.ToKey()
	fromCost, err := costs(fromKey)
	if err != nil {
		return nil, err
	}
	qty := line.Quantity
	moved := qty.Mul(fromCost)
	return []Leg{
		{Key: fromKey, Quantity: qty.Neg(), CostValue: moved.Neg()},
		{Key: toKey, Quantity: qty, CostValue: moved},
	}, nil
}
