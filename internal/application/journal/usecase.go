package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/costing"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

// UseCase orquesta el ciclo de vida de los diarios de inventario:
// DRAFT → CONFIRMED → POSTED → REVERSED (y DRAFT|CONFIRMED → CANCELLED).
// Cada transición corre dentro de una transacción (TxRunner); POSTED y
// REVERSED son las únicas que mutan balances autoritativos.
type UseCase struct {
	txRunner TxRunner
	audit    AuditSink
	caches   []CacheInvalidator
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, audit AuditSink, log *logger.Logger, caches ...CacheInvalidator) *UseCase {
	return &UseCase{txRunner: txRunner, audit: audit, caches: caches, log: log}
}

// CreateInput entrada para crear un diario (siempre nace en DRAFT).
type CreateInput struct {
	Type  string
	Notes string
	Lines []entity.JournalLine
}

// DuplicateWarning advertencia de posible línea duplicada. Es advisoria:
// nunca bloquea el guardado.
type DuplicateWarning struct {
	LineNum int    `json:"line_num"`
	DupKey  string `json:"dup_key"`
	Reason  string `json:"reason"`
}

// Create valida la entrada, persiste el diario en DRAFT y corre la detección
// de duplicados: (a) dos líneas del mismo diario con la misma llave reducida,
// (b) líneas que coinciden con líneas de otros diarios en DRAFT (consulta
// indexada por dup_key). Las advertencias se devuelven al caller.
func (uc *UseCase) Create(ctx context.Context, input CreateInput) (*entity.Journal, []DuplicateWarning, error) {
	if err := validateCreate(input); err != nil {
		return nil, nil, err
	}

	now := time.Now()
	j := &entity.Journal{
		ID:        uuid.New().String(),
		Code:      newJournalCode(),
		Type:      input.Type,
		Status:    entity.JournalStatusDRAFT,
		Notes:     input.Notes,
		Lines:     input.Lines,
		CreatedBy: ActorFromContext(ctx).ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := range j.Lines {
		if j.Lines[i].ID == "" {
			j.Lines[i].ID = uuid.New().String()
		}
		if j.Lines[i].LineNum == 0 {
			j.Lines[i].LineNum = i + 1
		}
		if j.Lines[i].LineDate.IsZero() {
			j.Lines[i].LineDate = now
		}
	}

	var warnings []DuplicateWarning
	err := uc.txRunner.Run(ctx, func(
		_ repository.StockBalanceRepository,
		journalRepo repository.JournalRepository,
		_ repository.ReservationRepository,
	) error {
		if err := journalRepo.Create(ctx, j); err != nil {
			return err
		}
		var err error
		warnings, err = uc.detectDuplicates(ctx, journalRepo, j)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	uc.afterMutation(ctx, j, "create", map[string]any{"status": j.Status, "type": j.Type})
	return j, warnings, nil
}

// Confirm pasa un diario de DRAFT a CONFIRMED: calcula las patas de cada
// línea contra un snapshot de costos de solo lectura y las escribe como
// contribuciones de reserva. Los balances autoritativos no se tocan.
func (uc *UseCase) Confirm(ctx context.Context, journalID string) (*entity.Journal, error) {
	var j *entity.Journal
	err := uc.txRunner.Run(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		journalRepo repository.JournalRepository,
		reservationRepo repository.ReservationRepository,
	) error {
		var err error
		j, err = uc.lockForTransition(ctx, journalRepo, journalID, entity.JournalStatusCONFIRMED)
		if err != nil {
			return err
		}

		lookup := snapshotCostLookup(ctx, balanceRepo)
		var reservations []entity.Reservation
		for _, line := range j.Lines {
			legs, err := costing.ComputeLegs(j.Type, line, lookup)
			if err != nil {
				return err
			}
			for _, leg := range legs {
				reservations = append(reservations, entity.Reservation{
					JournalID:     j.ID,
					JournalCode:   j.Code,
					LineNum:       line.LineNum,
					Key:           leg.Key,
					DeltaQty:      leg.Quantity,
					DeltaCost:     leg.CostValue,
					DeltaPurchase: leg.PurchaseValue,
					DeltaRevenue:  leg.RevenueValue,
				})
			}
		}
		if err := reservationRepo.CreateBatch(ctx, reservations); err != nil {
			return err
		}
		return uc.setStatus(ctx, journalRepo, j, entity.JournalStatusCONFIRMED)
	})
	if err != nil {
		return nil, err
	}
	uc.afterMutation(ctx, j, "confirm", map[string]any{"status": j.Status})
	return j, nil
}

// Cancel pasa un diario de DRAFT o CONFIRMED a CANCELLED. Si venía de
// CONFIRMED, libera la reserva escrita al confirmar (filas de negación:
// rastro firmado de la reversión). Los balances autoritativos nunca se
// tocan: un diario cancelado jamás fue POSTED.
func (uc *UseCase) Cancel(ctx context.Context, journalID string) (*entity.Journal, error) {
	var j *entity.Journal
	err := uc.txRunner.Run(ctx, func(
		_ repository.StockBalanceRepository,
		journalRepo repository.JournalRepository,
		reservationRepo repository.ReservationRepository,
	) error {
		var err error
		j, err = uc.lockForTransition(ctx, journalRepo, journalID, entity.JournalStatusCANCELLED)
		if err != nil {
			return err
		}
		if j.Status == entity.JournalStatusCONFIRMED {
			if err := releaseReservations(ctx, reservationRepo, j.ID); err != nil {
				return err
			}
		}
		return uc.setStatus(ctx, journalRepo, j, entity.JournalStatusCANCELLED)
	})
	if err != nil {
		return nil, err
	}
	uc.afterMutation(ctx, j, "cancel", map[string]any{"status": j.Status})
	return j, nil
}

// Post pasa un diario de CONFIRMED a POSTED: libera la reserva de la
// confirmación y aplica las patas de cada línea al almacén de balances vía
// el incremento atómico. Única transición que muta balances hacia arriba.
// Las líneas se aplican en orden de LineNum; dentro de una línea las patas
// se aplican secuencialmente, leyendo el costo requerido antes de que el
// incremento de la otra pata sea visible.
func (uc *UseCase) Post(ctx context.Context, journalID string) (*entity.Journal, error) {
	var j *entity.Journal
	err := uc.txRunner.Run(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		journalRepo repository.JournalRepository,
		reservationRepo repository.ReservationRepository,
	) error {
		var err error
		j, err = uc.lockForTransition(ctx, journalRepo, journalID, entity.JournalStatusPOSTED)
		if err != nil {
			return err
		}
		if err := releaseReservations(ctx, reservationRepo, j.ID); err != nil {
			return err
		}

		lookup := lockingCostLookup(ctx, balanceRepo)
		for _, line := range j.Lines {
			legs, err := costing.ComputeLegs(j.Type, line, lookup)
			if err != nil {
				return err
			}
			for _, leg := range legs {
				if _, err := balanceRepo.ApplyDelta(ctx, leg.Key, leg.Delta()); err != nil {
					return err
				}
			}
		}
		return uc.setStatus(ctx, journalRepo, j, entity.JournalStatusPOSTED)
	})
	if err != nil {
		return nil, err
	}
	uc.afterMutation(ctx, j, "post", map[string]any{"status": j.Status})
	return j, nil
}

// Reverse pasa un diario de POSTED a REVERSED: recalcula las mismas patas
// desde las líneas almacenadas y aplica su negación al almacén de balances.
// Reversar una llave sin registro de balance es un error de integridad
// fatal: solo puede ocurrir si se violó un invariante previo.
func (uc *UseCase) Reverse(ctx context.Context, journalID string) (*entity.Journal, error) {
	var j *entity.Journal
	err := uc.txRunner.Run(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		journalRepo repository.JournalRepository,
		_ repository.ReservationRepository,
	) error {
		var err error
		j, err = uc.lockForTransition(ctx, journalRepo, journalID, entity.JournalStatusREVERSED)
		if err != nil {
			return err
		}

		lookup := lockingCostLookup(ctx, balanceRepo)
		for _, line := range j.Lines {
			legs, err := costing.ComputeLegs(j.Type, line, lookup)
			if err != nil {
				return err
			}
			for _, leg := range legs {
				existing, err := balanceRepo.GetForUpdate(ctx, leg.Key)
				if err != nil {
					return err
				}
				if existing == nil {
					uc.log.Error().
						Str("journal", j.Code).
						Str("key", leg.Key.Canonical()).
						Msg("reverse sobre llave sin balance: invariante violado")
					return fmt.Errorf("%w: reverse de %s sobre llave sin balance", domain.ErrIntegrity, j.Code)
				}
				if _, err := balanceRepo.ApplyDelta(ctx, leg.Key, leg.Delta().Neg()); err != nil {
					return err
				}
			}
		}
		return uc.setStatus(ctx, journalRepo, j, entity.JournalStatusREVERSED)
	})
	if err != nil {
		return nil, err
	}
	uc.afterMutation(ctx, j, "reverse", map[string]any{"status": j.Status})
	return j, nil
}

// Get devuelve un diario por ID.
func (uc *UseCase) Get(ctx context.Context, journalID string) (*entity.Journal, error) {
	var j *entity.Journal
	err := uc.txRunner.Run(ctx, func(
		_ repository.StockBalanceRepository,
		journalRepo repository.JournalRepository,
		_ repository.ReservationRepository,
	) error {
		var err error
		j, err = journalRepo.GetByID(ctx, journalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, domain.ErrNotFound
	}
	return j, nil
}

// ── Internos ─────────────────────────────────────────────────────────────────

// lockForTransition bloquea el diario y valida la transición pedida.
func (uc *UseCase) lockForTransition(ctx context.Context, journalRepo repository.JournalRepository, id, to string) (*entity.Journal, error) {
	j, err := journalRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, domain.ErrNotFound
	}
	if !j.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrStateTransition, j.Status, to)
	}
	return j, nil
}

func (uc *UseCase) setStatus(ctx context.Context, journalRepo repository.JournalRepository, j *entity.Journal, status string) error {
	if err := journalRepo.UpdateStatus(ctx, j.ID, status); err != nil {
		return err
	}
	j.Status = status
	j.UpdatedAt = time.Now()
	return nil
}

// releaseReservations inserta la negación de cada fila viva (neta) del diario.
func releaseReservations(ctx context.Context, reservationRepo repository.ReservationRepository, journalID string) error {
	rows, err := reservationRepo.ListByJournal(ctx, journalID)
	if err != nil {
		return err
	}
	var releases []entity.Reservation
	for _, r := range rows {
		if !r.Reversal {
			releases = append(releases, r.Negate())
		}
	}
	if len(releases) == 0 {
		return nil
	}
	return reservationRepo.CreateBatch(ctx, releases)
}

// snapshotCostLookup lee el costo promedio sin bloquear filas (exploración de
// borradores: nunca muta el costo autoritativo a mitad de cómputo).
func snapshotCostLookup(ctx context.Context, balanceRepo repository.StockBalanceRepository) costing.CostLookup {
	return func(key entity.DimensionKey) (decimal.Decimal, error) {
		b, err := balanceRepo.Get(ctx, key)
		if err != nil {
			return decimal.Zero, err
		}
		if b == nil {
			return decimal.Zero, nil
		}
		return b.CostPrice, nil
	}
}

// lockingCostLookup lee el costo promedio bloqueando la fila (FOR UPDATE)
// dentro de la transacción de post/reverse: el costo se lee siempre antes de
// que el incremento correspondiente se vuelva visible.
func lockingCostLookup(ctx context.Context, balanceRepo repository.StockBalanceRepository) costing.CostLookup {
	return func(key entity.DimensionKey) (decimal.Decimal, error) {
		b, err := balanceRepo.GetForUpdate(ctx, key)
		if err != nil {
			return decimal.Zero, err
		}
		if b == nil {
			return decimal.Zero, nil
		}
		return b.CostPrice, nil
	}
}

// detectDuplicates: (a) colisiones de llave reducida dentro del diario,
// (b) coincidencias contra líneas de otros diarios en DRAFT.
func (uc *UseCase) detectDuplicates(ctx context.Context, journalRepo repository.JournalRepository, j *entity.Journal) ([]DuplicateWarning, error) {
	var warnings []DuplicateWarning

	seen := make(map[string]int, len(j.Lines))
	for _, line := range j.Lines {
		dupKey := line.DupKey()
		if first, ok := seen[dupKey]; ok {
			warnings = append(warnings, DuplicateWarning{
				LineNum: line.LineNum,
				DupKey:  dupKey,
				Reason:  fmt.Sprintf("coincide con la línea %d del mismo diario", first),
			})
		} else {
			seen[dupKey] = line.LineNum
		}

		n, err := journalRepo.CountDraftLinesByDupKey(ctx, dupKey, j.ID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			warnings = append(warnings, DuplicateWarning{
				LineNum: line.LineNum,
				DupKey:  dupKey,
				Reason:  fmt.Sprintf("coincide con %d línea(s) de otros diarios en borrador", n),
			})
		}
	}
	return warnings, nil
}

func (uc *UseCase) afterMutation(ctx context.Context, j *entity.Journal, action string, changes map[string]any) {
	uc.log.Info().
		Str("journal", j.Code).
		Str("action", action).
		Str("status", j.Status).
		Msg("transición de diario aplicada")
	if uc.audit != nil {
		uc.audit.Record(ctx, AuditEntry{
			Actor:    ActorFromContext(ctx),
			Module:   "inventory",
			Action:   action,
			RecordID: j.ID,
			Changes:  changes,
		})
	}
	for _, c := range uc.caches {
		c.Invalidate()
	}
}

// validateCreate rechaza la entrada antes de cualquier trabajo del motor.
func validateCreate(input CreateInput) error {
	if !entity.ValidJournalType(input.Type) {
		return fmt.Errorf("%w: tipo de diario %q", domain.ErrInvalidInput, input.Type)
	}
	if len(input.Lines) == 0 {
		return fmt.Errorf("%w: el diario requiere al menos una línea", domain.ErrInvalidInput)
	}
	for i, line := range input.Lines {
		if line.Item == "" {
			return fmt.Errorf("%w: la línea %d no tiene artículo", domain.ErrInvalidInput, i+1)
		}
		switch input.Type {
		case entity.JournalTypeTRANSFER:
			if line.From.IsZero() || line.To.IsZero() {
				return fmt.Errorf("%w: TRANSFER requiere coordenadas de origen y destino (línea %d)", domain.ErrInvalidInput, i+1)
			}
			if !line.Quantity.GreaterThan(decimal.Zero) {
				return fmt.Errorf("%w: TRANSFER requiere cantidad positiva (línea %d)", domain.ErrInvalidInput, i+1)
			}
		case entity.JournalTypeINOUT, entity.JournalTypeADJUSTMENT:
			if line.Quantity.IsZero() && line.LoadOnInventoryValue == nil {
				return fmt.Errorf("%w: línea %d con cantidad cero y sin load_on_inventory_value", domain.ErrInvalidInput, i+1)
			}
		}
	}
	return nil
}

// newJournalCode genera un código corto legible para el diario.
func newJournalCode() string {
	return "KDX-" + strings.ToUpper(uuid.New().String()[:8])
}
