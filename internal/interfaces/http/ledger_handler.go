package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/query"
)

// KardexGenerator genera el reporte kardex en PDF.
type KardexGenerator interface {
	GenerateKardexPDF(item string, rows []query.LedgerRow) ([]byte, error)
}

// LedgerHandler maneja las consultas del kardex (mayor de existencias).
type LedgerHandler struct {
	ledger *query.LedgerUseCase
	pdf    KardexGenerator
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(ledger *query.LedgerUseCase, pdf KardexGenerator) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, pdf: pdf}
}

// GetLedger godoc
// @Summary      Consultar el kardex de un artículo con totales acumulados
// @Description  Líneas de diarios DRAFT, CONFIRMED y POSTED que tocan el filtro, en orden cronológico
// @Tags         ledger
// @Produce      json
// @Param        item       query  string  true   "código de artículo"
// @Param        warehouse  query  string  false  "almacén"
// @Success      200  {array}  query.LedgerRow
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger [get]
func (h *LedgerHandler) GetLedger(c *fiber.Ctx) error {
	filter := keyFromQuery(c)
	if filter.Item == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item es requerido"})
	}
	rows, err := h.ledger.Ledger(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// GetLedgerPDF godoc
// @Summary      Descargar el kardex de un artículo en PDF
// @Tags         ledger
// @Produce      application/pdf
// @Param        item  query  string  true  "código de artículo"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/pdf [get]
func (h *LedgerHandler) GetLedgerPDF(c *fiber.Ctx) error {
	filter := keyFromQuery(c)
	if filter.Item == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item es requerido"})
	}
	rows, err := h.ledger.Ledger(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	pdfBytes, err := h.pdf.GenerateKardexPDF(filter.Item, rows)
	if err != nil {
		return respondError(c, err)
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="kardex_%s.pdf"`, filter.Item))
	return c.Send(pdfBytes)
}
