package query

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// BalanceUseCase consulta balances autoritativos por llave dimensional.
type BalanceUseCase struct {
	balanceRepo repository.StockBalanceRepository
}

// NewBalanceUseCase construye el caso de uso.
func NewBalanceUseCase(balanceRepo repository.StockBalanceRepository) *BalanceUseCase {
	return &BalanceUseCase{balanceRepo: balanceRepo}
}

// Balance devuelve el snapshot del balance o ErrNotFound si la llave no
// tiene registro.
func (uc *BalanceUseCase) Balance(ctx context.Context, key entity.DimensionKey) (*entity.StockBalance, error) {
	b, err := uc.balanceRepo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return b, nil
}
