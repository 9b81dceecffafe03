package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.JournalRepository = (*JournalRepo)(nil)

// JournalRepo implementación de JournalRepository sobre PostgreSQL (usable
// con pool o tx). Las coordenadas de las líneas se guardan como jsonb; la
// llave reducida de duplicados se materializa en dup_key (indexada) para que
// la detección sea una consulta y no un scan en memoria.
type JournalRepo struct {
	q Querier
}

// NewJournalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJournalRepository(q Querier) *JournalRepo {
	return &JournalRepo{q: q}
}

// Create persiste el diario con todas sus líneas. Una colisión de código se
// reporta como ErrConflict.
func (r *JournalRepo) Create(ctx context.Context, j *entity.Journal) error {
	query := `
		INSERT INTO journals (id, code, type, status, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		j.ID, j.Code, j.Type, j.Status, j.Notes, j.CreatedBy, j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código de diario %s", domain.ErrConflict, j.Code)
		}
		return fmt.Errorf("insert journal: %w", err)
	}

	lineQuery := `
		INSERT INTO journal_lines
			(id, journal_id, line_num, item, quantity, purchase_price, sales_price,
			 cost_price, load_on_inventory_value, from_coords, to_coords, product,
			 tracking, dup_key, line_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	for _, l := range j.Lines {
		_, err := r.q.Exec(ctx, lineQuery,
			l.ID, j.ID, l.LineNum, l.Item, l.Quantity, l.PurchasePrice, l.SalesPrice,
			l.CostPrice, l.LoadOnInventoryValue, l.From, l.To, l.Product,
			l.Tracking, l.DupKey(), l.LineDate,
		)
		if err != nil {
			return fmt.Errorf("insert journal line %d: %w", l.LineNum, err)
		}
	}
	return nil
}

const journalColumns = `id, code, type, status, notes, created_by, created_at, updated_at`

func scanJournal(row pgx.Row) (*entity.Journal, error) {
	var j entity.Journal
	err := row.Scan(&j.ID, &j.Code, &j.Type, &j.Status, &j.Notes, &j.CreatedBy, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &j, nil
}

// GetByID devuelve el diario con líneas, o nil si no existe.
func (r *JournalRepo) GetByID(ctx context.Context, id string) (*entity.Journal, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate bloquea la fila del diario (FOR UPDATE) y la devuelve con líneas.
func (r *JournalRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Journal, error) {
	return r.getByID(ctx, id, true)
}

func (r *JournalRepo) getByID(ctx context.Context, id string, forUpdate bool) (*entity.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	j, err := scanJournal(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get journal: %w", err)
	}
	if j == nil {
		return nil, nil
	}
	if err := r.loadLines(ctx, map[string]*entity.Journal{j.ID: j}); err != nil {
		return nil, err
	}
	return j, nil
}

// UpdateStatus cambia el estado del diario.
func (r *JournalRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE journals SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update journal status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByStatuses devuelve los diarios (con líneas) en los estados dados.
func (r *JournalRepo) ListByStatuses(ctx context.Context, statuses ...string) ([]*entity.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE status = ANY($1) ORDER BY created_at`
	return r.list(ctx, query, statuses)
}

// ListByItem devuelve los diarios (con líneas) que referencian el artículo en
// alguna línea y están en los estados dados.
func (r *JournalRepo) ListByItem(ctx context.Context, item string, statuses ...string) ([]*entity.Journal, error) {
	query := `
		SELECT DISTINCT j.id, j.code, j.type, j.status, j.notes, j.created_by, j.created_at, j.updated_at
		FROM journals j
		JOIN journal_lines l ON l.journal_id = j.id
		WHERE l.item = $1 AND j.status = ANY($2)
		ORDER BY j.created_at`
	return r.list(ctx, query, item, statuses)
}

// CountDraftLinesByDupKey cuenta líneas de otros diarios en DRAFT con la
// misma llave reducida (consulta indexada sobre dup_key).
func (r *JournalRepo) CountDraftLinesByDupKey(ctx context.Context, dupKey, excludeJournalID string) (int, error) {
	query := `
		SELECT count(*)
		FROM journal_lines l
		JOIN journals j ON j.id = l.journal_id
		WHERE l.dup_key = $1 AND j.status = $2 AND j.id <> $3`
	var n int
	err := r.q.QueryRow(ctx, query, dupKey, entity.JournalStatusDRAFT, excludeJournalID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count draft lines by dup key: %w", err)
	}
	return n, nil
}

func (r *JournalRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Journal, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	defer rows.Close()

	var list []*entity.Journal
	byID := make(map[string]*entity.Journal)
	for rows.Next() {
		var j entity.Journal
		if err := rows.Scan(&j.ID, &j.Code, &j.Type, &j.Status, &j.Notes, &j.CreatedBy, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		list = append(list, &j)
		byID[j.ID] = &j
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	if err := r.loadLines(ctx, byID); err != nil {
		return nil, err
	}
	return list, nil
}

// loadLines carga las líneas de los diarios dados en una sola consulta.
func (r *JournalRepo) loadLines(ctx context.Context, byID map[string]*entity.Journal) error {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	query := `
		SELECT id, journal_id, line_num, item, quantity, purchase_price, sales_price,
		       cost_price, load_on_inventory_value, from_coords, to_coords, product,
		       tracking, line_date
		FROM journal_lines
		WHERE journal_id = ANY($1)
		ORDER BY journal_id, line_num`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load journal lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l entity.JournalLine
		var journalID string
		if err := rows.Scan(
			&l.ID, &journalID, &l.LineNum, &l.Item, &l.Quantity, &l.PurchasePrice, &l.SalesPrice,
			&l.CostPrice, &l.LoadOnInventoryValue, &l.From, &l.To, &l.Product,
			&l.Tracking, &l.LineDate,
		); err != nil {
			return fmt.Errorf("scan journal line: %w", err)
		}
		j := byID[journalID]
		j.Lines = append(j.Lines, l)
	}
	return rows.Err()
}
