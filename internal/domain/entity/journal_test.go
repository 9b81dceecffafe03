package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

func TestCanTransition_MaquinaDeEstados(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{entity.JournalStatusDRAFT, entity.JournalStatusCONFIRMED, true},
		{entity.JournalStatusDRAFT, entity.JournalStatusCANCELLED, true},
		{entity.JournalStatusDRAFT, entity.JournalStatusPOSTED, false},
		{entity.JournalStatusDRAFT, entity.JournalStatusREVERSED, false},
		{entity.JournalStatusCONFIRMED, entity.JournalStatusPOSTED, true},
		{entity.JournalStatusCONFIRMED, entity.JournalStatusCANCELLED, true},
		{entity.JournalStatusCONFIRMED, entity.JournalStatusREVERSED, false},
		{entity.JournalStatusPOSTED, entity.JournalStatusREVERSED, true},
		{entity.JournalStatusPOSTED, entity.JournalStatusCANCELLED, false},
		{entity.JournalStatusPOSTED, entity.JournalStatusCONFIRMED, false},
		{entity.JournalStatusCANCELLED, entity.JournalStatusCONFIRMED, false},
		{entity.JournalStatusCANCELLED, entity.JournalStatusPOSTED, false},
		{entity.JournalStatusREVERSED, entity.JournalStatusPOSTED, false},
		{entity.JournalStatusREVERSED, entity.JournalStatusCANCELLED, false},
	}
	for _, tc := range cases {
		j := &entity.Journal{Status: tc.from}
		assert.Equal(t, tc.ok, j.CanTransition(tc.to), "%s → %s", tc.from, tc.to)
	}
}

func TestValidJournalType(t *testing.T) {
	assert.True(t, entity.ValidJournalType(entity.JournalTypeINOUT))
	assert.True(t, entity.ValidJournalType(entity.JournalTypeADJUSTMENT))
	assert.True(t, entity.ValidJournalType(entity.JournalTypeCOUNTING))
	assert.True(t, entity.ValidJournalType(entity.JournalTypeTRANSFER))
	assert.False(t, entity.ValidJournalType("PRODUCTION"))
	assert.False(t, entity.ValidJournalType(""))
}

func TestEffectiveKey_PrefiereOrigenYCaeADestino(t *testing.T) {
	line := entity.JournalLine{
		Item: "SKU-001",
		From: entity.StorageCoords{Warehouse: "BOD-01"},
	}
	assert.Equal(t, "BOD-01", line.EffectiveKey().Warehouse)

	line = entity.JournalLine{
		Item: "SKU-001",
		To:   entity.StorageCoords{Warehouse: "BOD-02"},
	}
	assert.Equal(t, "BOD-02", line.EffectiveKey().Warehouse, "sin origen, la llave efectiva es el destino")
}

func TestDupKey_SoloUsaLaLlaveReducida(t *testing.T) {
	a := entity.JournalLine{
		Item:     "SKU-001",
		From:     entity.StorageCoords{Site: "LIMA", Warehouse: "BOD-01", Bin: "B-17"},
		Product:  entity.ProductCoords{Color: "ROJO", Style: "SLIM"},
		Tracking: entity.TrackingCoords{Batch: "L-9", Serial: "S-1"},
	}
	b := a
	b.From.Bin = "B-99"       // fuera de la llave reducida
	b.Product.Style = "WIDE"  // fuera de la llave reducida
	b.Tracking.Serial = "S-2" // fuera de la llave reducida

	assert.Equal(t, a.DupKey(), b.DupKey(), "coordenadas fuera del subconjunto reducido no distinguen duplicados")

	c := a
	c.Product.Color = "AZUL"
	assert.NotEqual(t, a.DupKey(), c.DupKey())
}
