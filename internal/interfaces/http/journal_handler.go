package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	appjournal "github.com/jhoicas/kardex-api/internal/application/journal"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/pkg/validator"
)

// JournalHandler maneja las peticiones HTTP del ciclo de vida de diarios.
type JournalHandler struct {
	uc *appjournal.UseCase
}

// NewJournalHandler construye el handler.
func NewJournalHandler(uc *appjournal.UseCase) *JournalHandler {
	return &JournalHandler{uc: uc}
}

// Create godoc
// @Summary      Crear diario de inventario (nace en DRAFT)
// @Tags         journals
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateJournalRequest  true  "type, lines[]"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/journals [post]
func (h *JournalHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateJournalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"code": "VALIDATION", "fields": errs})
	}

	ctx := appjournal.WithActor(c.Context(), ActorFromLocals(c))
	j, warnings, err := h.uc.Create(ctx, appjournal.CreateInput{
		Type:  in.Type,
		Notes: in.Notes,
		Lines: in.ToLines(),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"journal":            dto.NewJournalResponse(j),
		"duplicate_warnings": warnings,
	})
}

// GetByID godoc
// @Summary      Consultar un diario por ID
// @Tags         journals
// @Produce      json
// @Param        id  path  string  true  "journal id"
// @Success      200  {object}  dto.JournalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/journals/{id} [get]
func (h *JournalHandler) GetByID(c *fiber.Ctx) error {
	j, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewJournalResponse(j))
}

// Confirm godoc
// @Summary      Confirmar un diario (DRAFT → CONFIRMED)
// @Tags         journals
// @Produce      json
// @Param        id  path  string  true  "journal id"
// @Success      200  {object}  dto.JournalResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/journals/{id}/confirm [post]
func (h *JournalHandler) Confirm(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Confirm)
}

// Cancel godoc
// @Summary      Cancelar un diario (DRAFT|CONFIRMED → CANCELLED)
// @Tags         journals
// @Produce      json
// @Param        id  path  string  true  "journal id"
// @Success      200  {object}  dto.JournalResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/journals/{id}/cancel [post]
func (h *JournalHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Cancel)
}

// Post godoc
// @Summary      Postear un diario (CONFIRMED → POSTED); única transición que muta balances
// @Tags         journals
// @Produce      json
// @Param        id  path  string  true  "journal id"
// @Success      200  {object}  dto.JournalResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/journals/{id}/post [post]
func (h *JournalHandler) Post(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Post)
}

// Reverse godoc
// @Summary      Reversar un diario posteado (POSTED → REVERSED)
// @Tags         journals
// @Produce      json
// @Param        id  path  string  true  "journal id"
// @Success      200  {object}  dto.JournalResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/journals/{id}/reverse [post]
func (h *JournalHandler) Reverse(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Reverse)
}

func (h *JournalHandler) transition(c *fiber.Ctx, fn func(ctx context.Context, id string) (*entity.Journal, error)) error {
	ctx := appjournal.WithActor(c.Context(), ActorFromLocals(c))
	j, err := fn(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewJournalResponse(j))
}

// respondError mapea errores de dominio a códigos HTTP.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrStateTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STATE_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrIntegrity):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTEGRITY", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
