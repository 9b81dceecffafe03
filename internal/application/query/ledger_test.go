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

func day(n int) time.Time {
	return time.Date(2026, 3, n, 0, 0, 0, 0, time.UTC)
}

func TestLedger_OrdenYAcumulados(t *testing.T) {
	key := keyBod01("SKU-001")
	balances := &fakeBalanceRepo{balances: []*entity.StockBalance{balanceAt(key, "10", "50")}}

	entrada := entity.JournalLine{
		LineNum: 1, Item: "SKU-001", Quantity: dec("10"), PurchasePrice: dec("5"),
		From: entity.StorageCoords{Site: "LIMA", Warehouse: "BOD-01"}, LineDate: day(1),
	}
	salida := entity.JournalLine{
		LineNum: 1, Item: "SKU-001", Quantity: dec("-4"), SalesPrice: dec("9"),
		From: entity.StorageCoords{Site: "LIMA", Warehouse: "BOD-01"}, LineDate: day(2),
	}
	borrador := entity.JournalLine{
		LineNum: 1, Item: "SKU-001", Quantity: dec("3"), PurchasePrice: dec("6"),
		From: entity.StorageCoords{Site: "LIMA", Warehouse: "BOD-01"}, LineDate: day(3),
	}
	journals := &fakeJournalRepo{journals: []*entity.Journal{
		{ID: "j2", Code: "KDX-0002", Type: entity.JournalTypeINOUT, Status: entity.JournalStatusPOSTED, Lines: []entity.JournalLine{salida}},
		{ID: "j1", Code: "KDX-0001", Type: entity.JournalTypeINOUT, Status: entity.JournalStatusPOSTED, Lines: []entity.JournalLine{entrada}},
		{ID: "j3", Code: "KDX-0003", Type: entity.JournalTypeINOUT, Status: entity.JournalStatusDRAFT, Lines: []entity.JournalLine{borrador}},
	}}

	uc := query.NewLedgerUseCase(balances, journals)
	rows, err := uc.Ledger(context.Background(), entity.DimensionKey{Item: "SKU-001"})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Orden cronológico aunque los diarios llegaron desordenados.
	assert.Equal(t, "KDX-0001", rows[0].JournalCode)
	assert.Equal(t, "KDX-0002", rows[1].JournalCode)
	assert.Equal(t, "KDX-0003", rows[2].JournalCode)

	// Fila 1: entrada posteada.
	assert.True(t, rows[0].PostedIn.Equal(dec("10")))
	assert.True(t, rows[0].PostedCumulative.Equal(dec("10")))
	assert.True(t, rows[0].PurchaseValue.Equal(dec("50")))

	// Fila 2: salida posteada, valorada al costo promedio actual (5).
	assert.True(t, rows[1].PostedOut.Equal(dec("4")))
	assert.True(t, rows[1].SalesValue.Equal(dec("36")))
	assert.True(t, rows[1].CostValue.Equal(dec("-20")))
	assert.True(t, rows[1].PostedCumulative.Equal(dec("6")))
	assert.True(t, rows[1].CumCostValue.Equal(dec("30")))

	// Fila 3: entrada en borrador; corre por el acumulado de borradores.
	assert.True(t, rows[2].DraftIn.Equal(dec("3")))
	assert.True(t, rows[2].PostedCumulative.Equal(dec("6")), "el borrador no mueve el acumulado posteado")
	assert.True(t, rows[2].DraftCumulative.Equal(dec("3")))
	assert.True(t, rows[2].Net.Equal(dec("9")), "neto = posteado + borrador")
}

func TestLedger_FiltroResuelveContraOrigenODestino(t *testing.T) {
	from := entity.StorageCoords{Site: "LIMA", Warehouse: "BOD-01"}
	to := entity.StorageCoords{Site: "LIMA", Warehouse: "BOD-02"}
	traslado := entity.JournalLine{
		LineNum: 1, Item: "SKU-001", Quantity: dec("6"),
		From: from, To: to, LineDate: day(1),
	}
	fromKey := traslado.FromKey()
	balances := &fakeBalanceRepo{balances: []*entity.StockBalance{balanceAt(fromKey, "10", "50")}}
	journals := &fakeJournalRepo{journals: []*entity.Journal{
		{ID: "j1", Code: "KDX-0001", Type: entity.JournalTypeTRANSFER, Status: entity.JournalStatusPOSTED, Lines: []entity.JournalLine{traslado}},
	}}
	uc := query.NewLedgerUseCase(balances, journals)

	// Visto desde el almacén de origen: salida.
	rows, err := uc.Ledger(context.Background(), entity.DimensionKey{Item: "SKU-001", Warehouse: "BOD-01"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].PostedOut.Equal(dec("6")))
	assert.True(t, rows[0].PostedIn.IsZero())
	assert.True(t, rows[0].CostValue.Equal(dec("-30")), "sale al costo promedio del origen")

	// Visto desde el almacén de destino: entrada.
	rows, err = uc.Ledger(context.Background(), entity.DimensionKey{Item: "SKU-001", Warehouse: "BOD-02"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].PostedIn.Equal(dec("6")))
	assert.True(t, rows[0].PostedOut.IsZero())
	assert.True(t, rows[0].CostValue.Equal(dec("30")))

	// Sin filtro de almacén ambos lados caen: entrada y salida, neto cero.
	rows, err = uc.Ledger(context.Background(), entity.DimensionKey{Item: "SKU-001"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].PostedIn.Equal(dec("6")))
	assert.True(t, rows[0].PostedOut.Equal(dec("6")))
	assert.True(t, rows[0].PostedCumulative.IsZero())
	assert.True(t, rows[0].CostValue.IsZero())
}

func TestLedger_LineasDeOtroArticuloNoAparecen(t *testing.T) {
	entrada := entity.JournalLine{
		LineNum: 1, Item: "SKU-002", Quantity: dec("5"), PurchasePrice: dec("2"),
		From: entity.StorageCoords{Site: "LIMA", Warehouse: "BOD-01"}, LineDate: day(1),
	}
	balances := &fakeBalanceRepo{}
	journals := &fakeJournalRepo{journals: []*entity.Journal{
		{ID: "j1", Code: "KDX-0001", Type: entity.JournalTypeINOUT, Status: entity.JournalStatusPOSTED, Lines: []entity.JournalLine{entrada}},
	}}
	uc := query.NewLedgerUseCase(balances, journals)

	rows, err := uc.Ledger(context.Background(), entity.DimensionKey{Item: "SKU-001"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLedger_ConteoYCargaDeValor(t *testing.T) {
	conteo := entity.JournalLine{
		LineNum: 1, Item: "SKU-001", Quantity: dec("-2"),
		From: entity.StorageCoords{Site: "LIMA", Warehouse: "BOD-01"}, LineDate: day(1),
	}
	load := dec("80")
	carga := entity.JournalLine{
		LineNum: 1, Item: "SKU-001", LoadOnInventoryValue: &load,
		From: entity.StorageCoords{Site: "LIMA", Warehouse: "BOD-01"}, LineDate: day(2),
	}
	balances := &fakeBalanceRepo{}
	journals := &fakeJournalRepo{journals: []*entity.Journal{
		{ID: "j1", Code: "KDX-0001", Type: entity.JournalTypeCOUNTING, Status: entity.JournalStatusPOSTED, Lines: []entity.JournalLine{conteo}},
		{ID: "j2", Code: "KDX-0002", Type: entity.JournalTypeADJUSTMENT, Status: entity.JournalStatusPOSTED, Lines: []entity.JournalLine{carga}},
	}}
	uc := query.NewLedgerUseCase(balances, journals)

	rows, err := uc.Ledger(context.Background(), entity.DimensionKey{Item: "SKU-001"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].PostedOut.Equal(dec("2")), "conteo negativo registra salida")
	assert.True(t, rows[0].CostValue.IsZero(), "el conteo no mueve valores")
	assert.True(t, rows[1].CostValue.Equal(dec("80")), "la carga de valor solo mueve costo")
	assert.True(t, rows[1].PostedIn.IsZero())
	assert.True(t, rows[1].CumCostValue.Equal(dec("80")))
}
