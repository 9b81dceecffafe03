package query_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/query"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

func keyBod01(item string) entity.DimensionKey {
	return entity.DimensionKey{Item: item, Site: "LIMA", Warehouse: "BOD-01"}
}

func draftJournal(id, jtype, status string, lines ...entity.JournalLine) *entity.Journal {
	return &entity.Journal{
		ID:     id,
		Code:   "KDX-" + id,
		Type:   jtype,
		Status: status,
		Lines:  lines,
	}
}

func TestProvisional_SinPendientesIgualaElAutoritativo(t *testing.T) {
	key := keyBod01("SKU-001")
	balances := &fakeBalanceRepo{balances: []*entity.StockBalance{balanceAt(key, "10", "50")}}
	journals := &fakeJournalRepo{}

	uc := query.NewProvisionalUseCase(balances, journals, 0)
	rows, err := uc.ProvisionalBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, key, r.Key)
	assert.True(t, r.DeltaQty.IsZero())
	assert.True(t, r.ProvisionalQty.Equal(r.Quantity), "sin diarios pendientes la vista iguala el autoritativo")
	assert.True(t, r.ProvisionalCostValue.Equal(r.TotalCostValue))
	assert.Empty(t, r.Contributors)
}

func TestProvisional_AcumulaDeltasConContribuyentes(t *testing.T) {
	key := keyBod01("SKU-001")
	balances := &fakeBalanceRepo{balances: []*entity.StockBalance{balanceAt(key, "10", "50")}}

	entrada := entity.JournalLine{
		LineNum: 1, Item: "SKU-001", Quantity: dec("5"), PurchasePrice: dec("6"),
		From: entity.StorageCoords{Site: "LIMA", Warehouse: "BOD-01"},
	}
	salida := entity.JournalLine{
		LineNum: 1, Item: "SKU-001", Quantity: dec("-2"), SalesPrice: dec("9"),
		From: entity.StorageCoords{Site: "LIMA", Warehouse: "BOD-01"},
	}
	journals := &fakeJournalRepo{journals: []*entity.Journal{
		draftJournal("j1", entity.JournalTypeINOUT, entity.JournalStatusDRAFT, entrada),
		draftJournal("j2", entity.JournalTypeINOUT, entity.JournalStatusCONFIRMED, salida),
		draftJournal("j3", entity.JournalTypeINOUT, entity.JournalStatusPOSTED, entrada), // ya posteado: no cuenta
	}}

	uc := query.NewProvisionalUseCase(balances, journals, 0)
	rows, err := uc.ProvisionalBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.True(t, r.DeltaQty.Equal(dec("3")), "+5 del borrador, -2 del confirmado")
	// Entrada: +30 de compra. Salida: -2 * costo promedio autoritativo (5) = -10.
	assert.True(t, r.DeltaCost.Equal(dec("20")))
	assert.True(t, r.DeltaRevenue.Equal(dec("18")))
	assert.True(t, r.ProvisionalQty.Equal(dec("13")))
	assert.True(t, r.ProvisionalCostValue.Equal(dec("70")))
	require.Len(t, r.Contributors, 2, "rastro de auditoría: una entrada por pata contribuyente")
	codes := []string{r.Contributors[0].JournalCode, r.Contributors[1].JournalCode}
	assert.ElementsMatch(t, []string{"KDX-j1", "KDX-j2"}, codes)
}

func TestProvisional_SintetizaFilasEnCeroParaLlavesNuevas(t *testing.T) {
	balances := &fakeBalanceRepo{}
	entrada := entity.JournalLine{
		LineNum: 1, Item: "SKU-NUEVO", Quantity: dec("4"), PurchasePrice: dec("3"),
		From: entity.StorageCoords{Site: "LIMA", Warehouse: "BOD-01"},
	}
	journals := &fakeJournalRepo{journals: []*entity.Journal{
		draftJournal("j1", entity.JournalTypeINOUT, entity.JournalStatusDRAFT, entrada),
	}}

	uc := query.NewProvisionalUseCase(balances, journals, 0)
	rows, err := uc.ProvisionalBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.True(t, r.Quantity.IsZero(), "la base autoritativa se sintetiza en cero")
	assert.True(t, r.DeltaQty.Equal(dec("4")))
	assert.True(t, r.ProvisionalQty.Equal(dec("4")))
	assert.True(t, r.ProvisionalCostValue.Equal(dec("12")))
	assert.True(t, r.ProvisionalCostPrice.Equal(dec("3")))
}

func TestProvisional_PisoDelDivisorEnUno(t *testing.T) {
	// Carga directa de valor pendiente sobre una llave sin existencias: la
	// cantidad provisional queda en cero pero el valor no.
	load := dec("120")
	carga := entity.JournalLine{
		LineNum: 1, Item: "SKU-001", LoadOnInventoryValue: &load,
		From: entity.StorageCoords{Site: "LIMA", Warehouse: "BOD-01"},
	}
	balances := &fakeBalanceRepo{}
	journals := &fakeJournalRepo{journals: []*entity.Journal{
		draftJournal("j1", entity.JournalTypeADJUSTMENT, entity.JournalStatusDRAFT, carga),
	}}

	uc := query.NewProvisionalUseCase(balances, journals, 0)
	rows, err := uc.ProvisionalBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.True(t, r.ProvisionalQty.IsZero())
	assert.True(t, r.ProvisionalCostValue.Equal(dec("120")))
	// Con cantidad provisional cero el divisor se fija en 1: el precio nominal
	// reportado es el valor completo, no cero. Peculiaridad aceptada.
	assert.True(t, r.ProvisionalCostPrice.Equal(dec("120")))
}

func TestProvisional_CacheEInvalidacion(t *testing.T) {
	key := keyBod01("SKU-001")
	balances := &fakeBalanceRepo{balances: []*entity.StockBalance{balanceAt(key, "10", "50")}}
	journals := &fakeJournalRepo{}

	uc := query.NewProvisionalUseCase(balances, journals, time.Minute)

	rows, err := uc.ProvisionalBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Mutación directa del doble: la vista cacheada no la ve todavía.
	balances.balances = append(balances.balances, balanceAt(keyBod01("SKU-002"), "1", "1"))
	rows, err = uc.ProvisionalBalances(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1, "dentro del TTL se sirve la vista cacheada")

	uc.Invalidate()
	rows, err = uc.ProvisionalBalances(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2, "la invalidación fuerza el recálculo")
}
