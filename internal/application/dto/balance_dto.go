package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// BalanceResponse snapshot de un balance autoritativo.
type BalanceResponse struct {
	Key                entity.DimensionKey `json:"key"`
	Quantity           decimal.Decimal     `json:"quantity"`
	TotalCostValue     decimal.Decimal     `json:"total_cost_value"`
	CostPrice          decimal.Decimal     `json:"cost_price"`
	TotalPurchaseValue decimal.Decimal     `json:"total_purchase_value"`
	TotalRevenueValue  decimal.Decimal     `json:"total_revenue_value"`
	TotalReserveValue  decimal.Decimal     `json:"total_reserve_value"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// NewBalanceResponse arma la respuesta desde la entidad.
func NewBalanceResponse(b *entity.StockBalance) BalanceResponse {
	return BalanceResponse{
		Key:                b.Key,
		Quantity:           b.Quantity,
		TotalCostValue:     b.TotalCostValue,
		CostPrice:          b.CostPrice,
		TotalPurchaseValue: b.TotalPurchaseValue,
		TotalRevenueValue:  b.TotalRevenueValue,
		TotalReserveValue:  b.TotalReserveValue,
		UpdatedAt:          b.UpdatedAt,
	}
}
