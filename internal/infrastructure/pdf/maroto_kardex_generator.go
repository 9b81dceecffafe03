// Package pdf implementa la generación del reporte imprimible del kardex
// (libro de existencias) usando Maroto v2.
//
// Layout de la página A4 apaisada:
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│  HEADER: título + artículo filtrado + fecha de generación        │
//	│  ────────────────────────────────────────────────────────────    │
//	│  TABLA: Fecha | Diario | Tipo | Estado | Ent | Sal | Saldo | $   │
//	│  ────────────────────────────────────────────────────────────    │
//	│  TOTALES: acumulados de compra / venta / costo                   │
//	└──────────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/kardex-api/internal/application/query"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoKardexGenerator genera el PDF del kardex desde las filas del
// Ledger Builder.
type MarotoKardexGenerator struct{}

// NewMarotoKardexGenerator construye el generador.
func NewMarotoKardexGenerator() *MarotoKardexGenerator {
	return &MarotoKardexGenerator{}
}

// GenerateKardexPDF genera el PDF y devuelve sus bytes.
func (g *MarotoKardexGenerator) GenerateKardexPDF(item string, rows []query.LedgerRow) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Kardex de inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(item))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range rows {
		m.AddRows(detailRow(r))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	if len(rows) > 0 {
		m.AddRows(totalsRow(rows[len(rows)-1]))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(item string) core.Row {
	return row.New(12).Add(
		col.New(8).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("Artículo: "+item, props.Text{Size: 9, Top: 8, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+time.Now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := func(size int, label string) core.Col {
		return col.New(size).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8}))
	}
	return row.New(6).Add(
		header(1, "Fecha"),
		header(2, "Diario"),
		header(1, "Tipo"),
		header(1, "Estado"),
		header(1, "Ent."),
		header(1, "Sal."),
		header(1, "Saldo"),
		header(1, "Borrador"),
		header(1, "Neto"),
		header(1, "Compra"),
		header(1, "Costo"),
	)
}

func detailRow(r query.LedgerRow) core.Row {
	cell := func(size int, value string, a align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{Size: 7, Align: a}))
	}
	in := r.PostedIn.Add(r.DraftIn)
	out := r.PostedOut.Add(r.DraftOut)
	return row.New(5).Add(
		cell(1, r.LineDate.Format("02/01/2006"), align.Left),
		cell(2, r.JournalCode, align.Left),
		cell(1, r.JournalType, align.Left),
		cell(1, r.Status, align.Left),
		cell(1, in.String(), align.Right),
		cell(1, out.String(), align.Right),
		cell(1, r.PostedCumulative.String(), align.Right),
		cell(1, r.DraftCumulative.String(), align.Right),
		cell(1, r.Net.String(), align.Right),
		cell(1, r.CumPurchaseValue.String(), align.Right),
		cell(1, r.CumCostValue.String(), align.Right),
	)
}

func totalsRow(last query.LedgerRow) core.Row {
	label := func(size int, value string) core.Col {
		return col.New(size).Add(text.New(value, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right,
		}))
	}
	return row.New(7).Add(
		label(6, "Totales acumulados:"),
		label(2, "Compra "+last.CumPurchaseValue.String()),
		label(2, "Venta "+last.CumSalesValue.String()),
		label(2, "Costo "+last.CumCostValue.String()),
	)
}
