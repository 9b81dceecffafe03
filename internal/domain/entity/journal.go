package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de diario de inventario (conjunto cerrado; el motor de costeo hace
// match exhaustivo sobre estos valores).
const (
	JournalTypeINOUT      = "INOUT"      // entradas y salidas valorizadas
	JournalTypeADJUSTMENT = "ADJUSTMENT" // ajustes de cantidad o de valor
	JournalTypeCOUNTING   = "COUNTING"   // conteo físico (solo cantidad)
	JournalTypeTRANSFER   = "TRANSFER"   // traslado entre posiciones
)

// Estados del ciclo de vida de un diario.
const (
	JournalStatusDRAFT     = "DRAFT"
	JournalStatusCONFIRMED = "CONFIRMED"
	JournalStatusPOSTED    = "POSTED"
	JournalStatusCANCELLED = "CANCELLED"
	JournalStatusREVERSED  = "REVERSED"
)

// ValidJournalType indica si el tipo pertenece al conjunto cerrado.
func ValidJournalType(t string) bool {
	switch t {
	case JournalTypeINOUT, JournalTypeADJUSTMENT, JournalTypeCOUNTING, JournalTypeTRANSFER:
		return true
	}
	return false
}

// Journal es un lote ordenado de líneas que representa un evento de inventario.
// Se crea siempre en DRAFT; sus líneas son inmutables desde POSTED.
type Journal struct {
	ID        string
	Code      string
	Type      string
	Status    string
	Notes     string
	Lines     []JournalLine
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// JournalLine es una línea de diario. Quantity con signo: positivo = entrada,
// negativo = salida, cero = ajuste solo de valor (con LoadOnInventoryValue).
type JournalLine struct {
	ID                   string
	LineNum              int
	Item                 string
	Quantity             decimal.Decimal
	PurchasePrice        decimal.Decimal
	SalesPrice           decimal.Decimal
	CostPrice            decimal.Decimal // informativo; el costo real sale del balance
	LoadOnInventoryValue *decimal.Decimal
	From                 StorageCoords
	To                   StorageCoords
	Product              ProductCoords
	Tracking             TrackingCoords
	LineDate             time.Time
}

// FromKey arma la DimensionKey de la línea en las coordenadas de origen.
func (l JournalLine) FromKey() DimensionKey {
	return NewDimensionKey(l.Item, l.From, l.Product, l.Tracking)
}

// ToKey arma la DimensionKey de la línea en las coordenadas de destino.
func (l JournalLine) ToKey() DimensionKey {
	return NewDimensionKey(l.Item, l.To, l.Product, l.Tracking)
}

// EffectiveKey devuelve la llave donde la línea surte efecto para tipos de
// una sola pata: origen si está definido, si no destino.
func (l JournalLine) EffectiveKey() DimensionKey {
	if l.From.IsZero() && !l.To.IsZero() {
		return l.ToKey()
	}
	return l.FromKey()
}

// DupKey devuelve la llave reducida de detección de duplicados de la línea
// (item + from.site + from.warehouse + config + color + size + batch).
func (l JournalLine) DupKey() string {
	k := DimensionKey{
		Item:      l.Item,
		Site:      l.From.Site,
		Warehouse: l.From.Warehouse,
		Config:    l.Product.Config,
		Color:     l.Product.Color,
		Size:      l.Product.Size,
		Batch:     l.Tracking.Batch,
	}
	return k.ReducedDup()
}

// CanTransition valida la máquina de estados:
// DRAFT → CONFIRMED → POSTED → REVERSED; DRAFT|CONFIRMED → CANCELLED.
// POSTED y REVERSED son los únicos estados que tocan balances autoritativos;
// CANCELLED y REVERSED son terminales.
func (j *Journal) CanTransition(to string) bool {
	switch to {
	case JournalStatusCONFIRMED:
		return j.Status == JournalStatusDRAFT
	case JournalStatusCANCELLED:
		return j.Status == JournalStatusDRAFT || j.Status == JournalStatusCONFIRMED
	case JournalStatusPOSTED:
		return j.Status == JournalStatusCONFIRMED
	case JournalStatusREVERSED:
		return j.Status == JournalStatusPOSTED
	}
	return false
}
