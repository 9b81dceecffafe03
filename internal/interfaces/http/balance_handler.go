package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/query"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// BalanceHandler maneja las consultas de balances posteados y provisionales.
type BalanceHandler struct {
	balances    *query.BalanceUseCase
	provisional *query.ProvisionalUseCase
}

// NewBalanceHandler construye el handler.
func NewBalanceHandler(balances *query.BalanceUseCase, provisional *query.ProvisionalUseCase) *BalanceHandler {
	return &BalanceHandler{balances: balances, provisional: provisional}
}

// GetBalance godoc
// @Summary      Consultar el balance posteado de una posición exacta
// @Tags         balances
// @Produce      json
// @Param        item       query  string  true   "código de artículo"
// @Param        site       query  string  false  "sitio"
// @Param        warehouse  query  string  false  "almacén"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/balances [get]
func (h *BalanceHandler) GetBalance(c *fiber.Ctx) error {
	key := keyFromQuery(c)
	if key.Item == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item es requerido"})
	}
	b, err := h.balances.Balance(c.Context(), key)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewBalanceResponse(b))
}

// GetProvisional godoc
// @Summary      Consultar balances provisionales (posteado + pendiente)
// @Description  Combina los balances posteados con los diarios DRAFT y CONFIRMED
// @Tags         balances
// @Produce      json
// @Success      200  {array}  query.ProvisionalRow
// @Router       /api/balances/provisional [get]
func (h *BalanceHandler) GetProvisional(c *fiber.Ctx) error {
	rows, err := h.provisional.ProvisionalBalances(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// keyFromQuery arma la llave dimensional desde los query params. Los params
// ausentes quedan como coordenada vacía, que solo coincide consigo misma.
func keyFromQuery(c *fiber.Ctx) entity.DimensionKey {
	return entity.DimensionKey{
		Item:      c.Query("item"),
		Site:      c.Query("site"),
		Warehouse: c.Query("warehouse"),
		Zone:      c.Query("zone"),
		Location:  c.Query("location"),
		Aisle:     c.Query("aisle"),
		Rack:      c.Query("rack"),
		Shelf:     c.Query("shelf"),
		Bin:       c.Query("bin"),
		Config:    c.Query("config"),
		Color:     c.Query("color"),
		Size:      c.Query("size"),
		Style:     c.Query("style"),
		Version:   c.Query("version"),
		Batch:     c.Query("batch"),
		Serial:    c.Query("serial"),
	}
}
