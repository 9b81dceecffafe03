package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// JournalRepository define el puerto de persistencia de diarios y sus líneas.
type JournalRepository interface {
	// Create persiste el diario con todas sus líneas.
	Create(ctx context.Context, journal *entity.Journal) error
	// GetByID devuelve el diario con líneas, o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Journal, error)
	// GetByIDForUpdate bloquea la fila del diario (FOR UPDATE) y la devuelve
	// con líneas. Usado por las transiciones de estado.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Journal, error)
	// UpdateStatus cambia el estado del diario.
	UpdateStatus(ctx context.Context, id, status string) error
	// ListByStatuses devuelve los diarios (con líneas) en los estados dados.
	ListByStatuses(ctx context.Context, statuses ...string) ([]*entity.Journal, error)
	// ListByItem devuelve los diarios (con líneas) que referencian el artículo
	// en alguna línea y están en los estados dados. Prefiltro del kardex.
	ListByItem(ctx context.Context, item string, statuses ...string) ([]*entity.Journal, error)
	// CountDraftLinesByDupKey cuenta líneas de OTROS diarios en DRAFT cuya
	// llave reducida coincide (consulta indexada sobre dup_key, no scan en
	// memoria). Detección de duplicados advisoria.
	CountDraftLinesByDupKey(ctx context.Context, dupKey, excludeJournalID string) (int, error)
}
