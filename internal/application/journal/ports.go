package journal

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que toda transición de diario sea
// todo-o-nada: mutaciones de balance + escritura de estado se confirman
// juntas o ninguna persiste.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		balanceRepo repository.StockBalanceRepository,
		journalRepo repository.JournalRepository,
		reservationRepo repository.ReservationRepository,
	) error) error
}

// AuditEntry es el registro que se envía al colector de auditoría después de
// cada operación de cambio de estado exitosa.
type AuditEntry struct {
	Actor    entity.Actor
	Module   string
	Action   string
	RecordID string
	Changes  map[string]any
}

// AuditSink es el colaborador externo de auditoría (interfaz solamente; la
// implementación vive fuera del motor).
type AuditSink interface {
	Record(ctx context.Context, e AuditEntry)
}

// CacheInvalidator invalida cachés de vistas derivadas en cada mutación.
type CacheInvalidator interface {
	Invalidate()
}

type actorCtxKey struct{}

// WithActor adjunta el actor al contexto (lo hace el middleware HTTP).
func WithActor(ctx context.Context, a entity.Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, a)
}

// ActorFromContext devuelve el actor del contexto, o la identidad de sistema
// si el caller no aportó una.
func ActorFromContext(ctx context.Context) entity.Actor {
	if a, ok := ctx.Value(actorCtxKey{}).(entity.Actor); ok && !a.IsZero() {
		return a
	}
	return entity.SystemActor
}
