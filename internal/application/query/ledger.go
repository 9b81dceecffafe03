package query

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// LedgerRow es una fila del kardex: el efecto de una línea de diario sobre el
// filtro consultado, más los acumulados corridos en orden cronológico.
type LedgerRow struct {
	JournalID   string    `json:"journal_id"`
	JournalCode string    `json:"journal_code"`
	JournalType string    `json:"journal_type"`
	Status      string    `json:"status"`
	LineNum     int       `json:"line_num"`
	LineDate    time.Time `json:"line_date"`
	Item        string    `json:"item"`

	PostedIn  decimal.Decimal `json:"posted_in"`
	PostedOut decimal.Decimal `json:"posted_out"`
	DraftIn   decimal.Decimal `json:"draft_in"`
	DraftOut  decimal.Decimal `json:"draft_out"`

	PurchaseValue decimal.Decimal `json:"purchase_value"`
	SalesValue    decimal.Decimal `json:"sales_value"`
	CostValue     decimal.Decimal `json:"cost_value"`

	PostedCumulative decimal.Decimal `json:"posted_cumulative"`
	DraftCumulative  decimal.Decimal `json:"draft_cumulative"`
	Net              decimal.Decimal `json:"net"`

	CumPurchaseValue decimal.Decimal `json:"cum_purchase_value"`
	CumSalesValue    decimal.Decimal `json:"cum_sales_value"`
	CumCostValue     decimal.Decimal `json:"cum_cost_value"`
}

// LedgerUseCase reconstruye el kardex (libro de existencias) para un filtro
// dimensional arbitrario: la secuencia ordenada de efectos de líneas de
// diario con totales corridos. Solo lectura.
type LedgerUseCase struct {
	balanceRepo repository.StockBalanceRepository
	journalRepo repository.JournalRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(balanceRepo repository.StockBalanceRepository, journalRepo repository.JournalRepository) *LedgerUseCase {
	return &LedgerUseCase{balanceRepo: balanceRepo, journalRepo: journalRepo}
}

// Ledger arma el kardex del filtro. Coordenadas vacías del filtro coinciden
// con cualquier valor; las de almacenamiento resuelven contra origen O
// destino de la línea. El costo de las salidas se valora al costo promedio
// autoritativo ACTUAL (reconstrucción a valor presente, no histórica:
// limitación conocida y documentada).
func (uc *LedgerUseCase) Ledger(ctx context.Context, filter entity.DimensionKey) ([]LedgerRow, error) {
	journals, err := uc.journalRepo.ListByItem(ctx, filter.Item,
		entity.JournalStatusDRAFT, entity.JournalStatusCONFIRMED, entity.JournalStatusPOSTED)
	if err != nil {
		return nil, err
	}

	// Snapshot de costos actuales para valorar salidas y traslados.
	balances, err := uc.balanceRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	costs := make(map[entity.DimensionKey]decimal.Decimal, len(balances))
	for _, b := range balances {
		costs[b.Key] = b.CostPrice
	}

	var rows []LedgerRow
	for _, j := range journals {
		for _, line := range j.Lines {
			row, ok := uc.lineRow(j, line, filter, costs)
			if !ok {
				continue
			}
			rows = append(rows, row)
		}
	}

	// Orden determinista: fecha, código de diario, número de línea.
	sort.Slice(rows, func(i, k int) bool {
		if !rows[i].LineDate.Equal(rows[k].LineDate) {
			return rows[i].LineDate.Before(rows[k].LineDate)
		}
		if rows[i].JournalCode != rows[k].JournalCode {
			return rows[i].JournalCode < rows[k].JournalCode
		}
		return rows[i].LineNum < rows[k].LineNum
	})

	// Pasada única hacia adelante: acumulados corridos.
	var postedCum, draftCum, cumPurchase, cumSales, cumCost decimal.Decimal
	for i := range rows {
		r := &rows[i]
		postedCum = postedCum.Add(r.PostedIn).Sub(r.PostedOut)
		draftCum = draftCum.Add(r.DraftIn).Sub(r.DraftOut)
		cumPurchase = cumPurchase.Add(r.PurchaseValue)
		cumSales = cumSales.Add(r.SalesValue)
		cumCost = cumCost.Add(r.CostValue)

		r.PostedCumulative = postedCum
		r.DraftCumulative = draftCum
		r.Net = postedCum.Add(draftCum)
		r.CumPurchaseValue = cumPurchase
		r.CumSalesValue = cumSales
		r.CumCostValue = cumCost
	}
	return rows, nil
}

// lineRow resuelve la línea contra el filtro y, si sobrevive, calcula su
// efecto en cantidades y valores.
func (uc *LedgerUseCase) lineRow(j *entity.Journal, line entity.JournalLine, filter entity.DimensionKey, costs map[entity.DimensionKey]decimal.Decimal) (LedgerRow, bool) {
	fromMatch := line.FromKey().Matches(filter)
	toMatch := line.ToKey().Matches(filter)
	if !fromMatch && !toMatch {
		return LedgerRow{}, false
	}

	row := LedgerRow{
		JournalID:   j.ID,
		JournalCode: j.Code,
		JournalType: j.Type,
		Status:      j.Status,
		LineNum:     line.LineNum,
		LineDate:    line.LineDate,
		Item:        line.Item,
	}
	posted := j.Status == entity.JournalStatusPOSTED

	in := func(qty decimal.Decimal) {
		if posted {
			row.PostedIn = row.PostedIn.Add(qty)
		} else {
			row.DraftIn = row.DraftIn.Add(qty)
		}
	}
	out := func(qty decimal.Decimal) {
		if posted {
			row.PostedOut = row.PostedOut.Add(qty)
		} else {
			row.DraftOut = row.DraftOut.Add(qty)
		}
	}

	switch j.Type {
	case entity.JournalTypeTRANSFER:
		// El lado que cae dentro del filtro decide la dirección; si ambos
		// caen, la línea aparece con entrada y salida (efecto neto cero).
		qty := line.Quantity
		moved := qty.Mul(costs[line.FromKey()])
		if fromMatch {
			out(qty)
			row.CostValue = row.CostValue.Sub(moved)
		}
		if toMatch {
			in(qty)
			row.CostValue = row.CostValue.Add(moved)
		}

	case entity.JournalTypeCOUNTING:
		if line.Quantity.GreaterThanOrEqual(decimal.Zero) {
			in(line.Quantity)
		} else {
			out(line.Quantity.Abs())
		}

	default: // INOUT / ADJUSTMENT
		switch {
		case line.Quantity.GreaterThan(decimal.Zero):
			in(line.Quantity)
			row.PurchaseValue = line.Quantity.Mul(line.PurchasePrice)
			row.CostValue = row.PurchaseValue
		case line.Quantity.LessThan(decimal.Zero):
			abs := line.Quantity.Abs()
			out(abs)
			row.SalesValue = abs.Mul(line.SalesPrice)
			row.CostValue = abs.Mul(costs[line.EffectiveKey()]).Neg()
		default:
			if line.LoadOnInventoryValue != nil {
				row.CostValue = *line.LoadOnInventoryValue
			}
		}
	}
	return row, true
}
