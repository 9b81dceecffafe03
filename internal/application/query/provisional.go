package query

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/kardex-api/internal/domain/costing"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// Contributor es el rastro de auditoría de un delta provisional: qué línea de
// qué diario contribuyó cuánto.
type Contributor struct {
	JournalCode   string          `json:"journal_code"`
	LineNum       int             `json:"line_num"`
	DeltaQty      decimal.Decimal `json:"delta_qty"`
	DeltaCost     decimal.Decimal `json:"delta_cost_value"`
	DeltaPurchase decimal.Decimal `json:"delta_purchase_value"`
	DeltaRevenue  decimal.Decimal `json:"delta_revenue_value"`
}

// ProvisionalRow es una fila de la vista "qué pasaría si todo se posteara":
// balance autoritativo + efecto agregado de los diarios DRAFT/CONFIRMED.
type ProvisionalRow struct {
	Key entity.DimensionKey `json:"key"`

	Quantity           decimal.Decimal `json:"quantity"`
	TotalCostValue     decimal.Decimal `json:"total_cost_value"`
	CostPrice          decimal.Decimal `json:"cost_price"`
	TotalPurchaseValue decimal.Decimal `json:"total_purchase_value"`
	TotalRevenueValue  decimal.Decimal `json:"total_revenue_value"`

	DeltaQty      decimal.Decimal `json:"delta_qty"`
	DeltaCost     decimal.Decimal `json:"delta_cost_value"`
	DeltaPurchase decimal.Decimal `json:"delta_purchase_value"`
	DeltaRevenue  decimal.Decimal `json:"delta_revenue_value"`

	ProvisionalQty           decimal.Decimal `json:"provisional_qty"`
	ProvisionalCostValue     decimal.Decimal `json:"provisional_cost_value"`
	ProvisionalCostPrice     decimal.Decimal `json:"provisional_cost_price"`
	ProvisionalPurchaseValue decimal.Decimal `json:"provisional_purchase_value"`
	ProvisionalRevenueValue  decimal.Decimal `json:"provisional_revenue_value"`

	Contributors []Contributor `json:"contributors,omitempty"`
}

// ProvisionalUseCase es el reconciliador provisional: una consulta pura que
// fusiona los balances autoritativos con los deltas de los diarios aún no
// posteados, sin mutar nada. El resultado puede servirse desde un caché de
// TTL corto (la vista tolera obsolescencia por diseño).
type ProvisionalUseCase struct {
	balanceRepo repository.StockBalanceRepository
	journalRepo repository.JournalRepository
	cache       *ttlCache[[]ProvisionalRow]
}

// NewProvisionalUseCase construye el caso de uso. ttl <= 0 desactiva el caché.
func NewProvisionalUseCase(balanceRepo repository.StockBalanceRepository, journalRepo repository.JournalRepository, ttl time.Duration) *ProvisionalUseCase {
	return &ProvisionalUseCase{
		balanceRepo: balanceRepo,
		journalRepo: journalRepo,
		cache:       newTTLCache[[]ProvisionalRow](ttl),
	}
}

// Invalidate implementa journal.CacheInvalidator: toda mutación descarta la
// vista cacheada de inmediato.
func (uc *ProvisionalUseCase) Invalidate() { uc.cache.Invalidate() }

// ProvisionalBalances devuelve una fila por cada llave con balance
// autoritativo o con actividad pendiente. Algoritmo:
//  1. cargar balances; 2. cargar diarios DRAFT/CONFIRMED; 3. recalcular las
//  patas de cada línea contra un snapshot de costos de solo lectura;
//  4. acumular deltas por llave con rastro de contribuyentes; 5. fusionar,
//  sintetizando filas en cero para llaves solo con actividad de borrador.
func (uc *ProvisionalUseCase) ProvisionalBalances(ctx context.Context) ([]ProvisionalRow, error) {
	if rows, ok := uc.cache.get(); ok {
		return rows, nil
	}

	balances, err := uc.balanceRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := uc.journalRepo.ListByStatuses(ctx, entity.JournalStatusDRAFT, entity.JournalStatusCONFIRMED)
	if err != nil {
		return nil, err
	}

	// Snapshot inmutable de costos: la exploración de borradores nunca muta
	// el costo autoritativo a mitad de cómputo.
	costSnapshot := make(map[entity.DimensionKey]decimal.Decimal, len(balances))
	byKey := make(map[entity.DimensionKey]*entity.StockBalance, len(balances))
	for _, b := range balances {
		costSnapshot[b.Key] = b.CostPrice
		byKey[b.Key] = b
	}
	lookup := func(key entity.DimensionKey) (decimal.Decimal, error) {
		return costSnapshot[key], nil
	}

	type delta struct {
		qty, cost, purchase, revenue decimal.Decimal
		contributors                 []Contributor
	}
	deltas := make(map[entity.DimensionKey]*delta)
	for _, j := range pending {
		for _, line := range j.Lines {
			legs, err := costing.ComputeLegs(j.Type, line, lookup)
			if err != nil {
				return nil, err
			}
			for _, leg := range legs {
				d := deltas[leg.Key]
				if d == nil {
					d = &delta{}
					deltas[leg.Key] = d
				}
				d.qty = d.qty.Add(leg.Quantity)
				d.cost = d.cost.Add(leg.CostValue)
				d.purchase = d.purchase.Add(leg.PurchaseValue)
				d.revenue = d.revenue.Add(leg.RevenueValue)
				d.contributors = append(d.contributors, Contributor{
					JournalCode:   j.Code,
					LineNum:       line.LineNum,
					DeltaQty:      leg.Quantity,
					DeltaCost:     leg.CostValue,
					DeltaPurchase: leg.PurchaseValue,
					DeltaRevenue:  leg.RevenueValue,
				})
			}
		}
	}

	rows := make([]ProvisionalRow, 0, len(byKey)+len(deltas))
	emit := func(b *entity.StockBalance) {
		d := deltas[b.Key]
		if d == nil {
			d = &delta{}
		}
		provQty := b.Quantity.Add(d.qty)
		provCost := b.TotalCostValue.Add(d.cost)
		// Piso en 1 para evitar división por cero. Con cantidad provisional
		// cero esto produce un precio nominal distinto de cero: peculiaridad
		// conocida y aceptada, no "arreglarla" en silencio.
		divisor := provQty
		if divisor.LessThan(decimal.NewFromInt(1)) {
			divisor = decimal.NewFromInt(1)
		}
		rows = append(rows, ProvisionalRow{
			Key:                      b.Key,
			Quantity:                 b.Quantity,
			TotalCostValue:           b.TotalCostValue,
			CostPrice:                b.CostPrice,
			TotalPurchaseValue:       b.TotalPurchaseValue,
			TotalRevenueValue:        b.TotalRevenueValue,
			DeltaQty:                 d.qty,
			DeltaCost:                d.cost,
			DeltaPurchase:            d.purchase,
			DeltaRevenue:             d.revenue,
			ProvisionalQty:           provQty,
			ProvisionalCostValue:     provCost,
			ProvisionalCostPrice:     provCost.Div(divisor),
			ProvisionalPurchaseValue: b.TotalPurchaseValue.Add(d.purchase),
			ProvisionalRevenueValue:  b.TotalRevenueValue.Add(d.revenue),
			Contributors:             d.contributors,
		})
	}

	for _, b := range balances {
		emit(b)
	}
	// Llaves con actividad de borrador pero sin fila autoritativa: se
	// sintetizan en cero antes de la misma fusión.
	for key := range deltas {
		if _, ok := byKey[key]; !ok {
			emit(entity.NewStockBalance(key))
		}
	}

	sort.Slice(rows, func(i, k int) bool {
		return rows[i].Key.Canonical() < rows[k].Key.Canonical()
	})

	uc.cache.set(rows)
	return rows, nil
}
