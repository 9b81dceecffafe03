package query_test

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Dobles de solo lectura para los motores de consulta.

type fakeBalanceRepo struct {
	balances []*entity.StockBalance
}

func (r *fakeBalanceRepo) Get(_ context.Context, key entity.DimensionKey) (*entity.StockBalance, error) {
	for _, b := range r.balances {
		if b.Key == key {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBalanceRepo) GetForUpdate(ctx context.Context, key entity.DimensionKey) (*entity.StockBalance, error) {
	return r.Get(ctx, key)
}

func (r *fakeBalanceRepo) ApplyDelta(_ context.Context, key entity.DimensionKey, delta entity.BalanceDelta) (*entity.StockBalance, error) {
	for _, b := range r.balances {
		if b.Key == key {
			b.Apply(delta)
			cp := *b
			return &cp, nil
		}
	}
	b := entity.NewStockBalance(key)
	b.Apply(delta)
	r.balances = append(r.balances, b)
	cp := *b
	return &cp, nil
}

func (r *fakeBalanceRepo) ListAll(_ context.Context) ([]*entity.StockBalance, error) {
	out := make([]*entity.StockBalance, 0, len(r.balances))
	for _, b := range r.balances {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

type fakeJournalRepo struct {
	journals []*entity.Journal
}

func (r *fakeJournalRepo) Create(_ context.Context, j *entity.Journal) error {
	cp := *j
	r.journals = append(r.journals, &cp)
	return nil
}

func (r *fakeJournalRepo) GetByID(_ context.Context, id string) (*entity.Journal, error) {
	for _, j := range r.journals {
		if j.ID == id {
			cp := *j
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeJournalRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Journal, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeJournalRepo) UpdateStatus(_ context.Context, id, status string) error {
	for _, j := range r.journals {
		if j.ID == id {
			j.Status = status
		}
	}
	return nil
}

func (r *fakeJournalRepo) ListByStatuses(_ context.Context, statuses ...string) ([]*entity.Journal, error) {
	var out []*entity.Journal
	for _, j := range r.journals {
		for _, st := range statuses {
			if j.Status == st {
				cp := *j
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeJournalRepo) ListByItem(_ context.Context, item string, statuses ...string) ([]*entity.Journal, error) {
	js, err := r.ListByStatuses(context.Background(), statuses...)
	if err != nil {
		return nil, err
	}
	var out []*entity.Journal
	for _, j := range js {
		for _, l := range j.Lines {
			if l.Item == item {
				out = append(out, j)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeJournalRepo) CountDraftLinesByDupKey(_ context.Context, dupKey, excludeJournalID string) (int, error) {
	n := 0
	for _, j := range r.journals {
		if j.ID == excludeJournalID || j.Status != entity.JournalStatusDRAFT {
			continue
		}
		for _, l := range j.Lines {
			if l.DupKey() == dupKey {
				n++
			}
		}
	}
	return n, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func balanceAt(key entity.DimensionKey, qty, cost string) *entity.StockBalance {
	b := entity.NewStockBalance(key)
	b.Apply(entity.BalanceDelta{Quantity: dec(qty), CostValue: dec(cost), PurchaseValue: dec(cost)})
	return b
}
