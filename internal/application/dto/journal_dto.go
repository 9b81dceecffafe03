package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// CreateJournalRequest body para POST /api/journals.
type CreateJournalRequest struct {
	Type  string               `json:"type" validate:"required,oneof=INOUT ADJUSTMENT COUNTING TRANSFER"`
	Notes string               `json:"notes,omitempty"`
	Lines []JournalLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// JournalLineRequest una línea del diario a crear. Quantity con signo:
// positivo entrada, negativo salida, cero = ajuste solo de valor.
type JournalLineRequest struct {
	Item                 string                `json:"item" validate:"required"`
	Quantity             decimal.Decimal       `json:"quantity"`
	PurchasePrice        decimal.Decimal       `json:"purchase_price"`
	SalesPrice           decimal.Decimal       `json:"sales_price"`
	CostPrice            decimal.Decimal       `json:"cost_price"`
	LoadOnInventoryValue *decimal.Decimal      `json:"load_on_inventory_value,omitempty"`
	From                 entity.StorageCoords  `json:"from,omitempty"`
	To                   entity.StorageCoords  `json:"to,omitempty"`
	Product              entity.ProductCoords  `json:"product,omitempty"`
	Tracking             entity.TrackingCoords `json:"tracking,omitempty"`
	LineDate             *time.Time            `json:"line_date,omitempty"`
}

// ToLines convierte el request a líneas de dominio.
func (r CreateJournalRequest) ToLines() []entity.JournalLine {
	lines := make([]entity.JournalLine, 0, len(r.Lines))
	for i, l := range r.Lines {
		line := entity.JournalLine{
			LineNum:              i + 1,
			Item:                 l.Item,
			Quantity:             l.Quantity,
			PurchasePrice:        l.PurchasePrice,
			SalesPrice:           l.SalesPrice,
			CostPrice:            l.CostPrice,
			LoadOnInventoryValue: l.LoadOnInventoryValue,
			From:                 l.From,
			To:                   l.To,
			Product:              l.Product,
			Tracking:             l.Tracking,
		}
		if l.LineDate != nil {
			line.LineDate = *l.LineDate
		}
		lines = append(lines, line)
	}
	return lines
}

// JournalLineResponse línea de diario serializada.
type JournalLineResponse struct {
	LineNum              int                   `json:"line_num"`
	Item                 string                `json:"item"`
	Quantity             decimal.Decimal       `json:"quantity"`
	PurchasePrice        decimal.Decimal       `json:"purchase_price"`
	SalesPrice           decimal.Decimal       `json:"sales_price"`
	CostPrice            decimal.Decimal       `json:"cost_price"`
	LoadOnInventoryValue *decimal.Decimal      `json:"load_on_inventory_value,omitempty"`
	From                 entity.StorageCoords  `json:"from,omitempty"`
	To                   entity.StorageCoords  `json:"to,omitempty"`
	Product              entity.ProductCoords  `json:"product,omitempty"`
	Tracking             entity.TrackingCoords `json:"tracking,omitempty"`
	LineDate             time.Time             `json:"line_date"`
}

// JournalResponse diario serializado.
type JournalResponse struct {
	ID        string                `json:"id"`
	Code      string                `json:"code"`
	Type      string                `json:"type"`
	Status    string                `json:"status"`
	Notes     string                `json:"notes,omitempty"`
	Lines     []JournalLineResponse `json:"lines"`
	CreatedBy string                `json:"created_by"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// NewJournalResponse arma la respuesta desde la entidad.
func NewJournalResponse(j *entity.Journal) JournalResponse {
	lines := make([]JournalLineResponse, 0, len(j.Lines))
	for _, l := range j.Lines {
		lines = append(lines, JournalLineResponse{
			LineNum:              l.LineNum,
			Item:                 l.Item,
			Quantity:             l.Quantity,
			PurchasePrice:        l.PurchasePrice,
			SalesPrice:           l.SalesPrice,
			CostPrice:            l.CostPrice,
			LoadOnInventoryValue: l.LoadOnInventoryValue,
			From:                 l.From,
			To:                   l.To,
			Product:              l.Product,
			Tracking:             l.Tracking,
			LineDate:             l.LineDate,
		})
	}
	return JournalResponse{
		ID:        j.ID,
		Code:      j.Code,
		Type:      j.Type,
		Status:    j.Status,
		Notes:     j.Notes,
		Lines:     lines,
		CreatedBy: j.CreatedBy,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}
