// Package pdf renderiza los reportes de inventario y ventas con Maroto v2.
//
// Layout A4 compartido:
//
//	┌──────────────────────────────────────────────────────┐
//	│  HEADER: nombre de la farmacia + fecha de generación │
//	│  ──────────────────────────────────────────────────  │
//	│  TABLA del reporte (inventario o ventas)             │
//	│  ──────────────────────────────────────────────────  │
//	│  TOTALES                                             │
//	└──────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lipms-client/internal/application/reports"
	"github.com/jhoicas/lipms-client/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 13, Green: 94, Blue: 83}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 40, Blue: 40}
)

// MarotoReportGenerator implementa reports.PDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

func newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()
	return maroto.New(cfg)
}

// GenerateInventoryReport genera el PDF del reporte de inventario.
func (g *MarotoReportGenerator) GenerateInventoryReport(_ context.Context, rep reports.InventoryReport) ([]byte, error) {
	m := newDocument("Inventory Report")

	m.AddRows(headerRow(rep.PharmacyName, "INVENTORY REPORT", rep.GeneratedAt.Format("02/01/2006 15:04")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(inventoryTableHeader())
	for _, med := range rep.Medicines {
		m.AddRows(inventoryRow(med))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(
		col.New(8).Add(text.New(fmt.Sprintf("Total units: %d", rep.TotalUnits), props.Text{Size: 9, Top: 1})),
		col.New(4).Add(text.New("Stock value: $"+rep.StockValue.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1, Color: colorPrimary,
		})),
	))

	if len(rep.LowStock) > 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("LOW STOCK ALERTS", props.Text{Style: fontstyle.Bold, Size: 10, Top: 3, Color: colorAlert}),
		)))
		for _, med := range rep.LowStock {
			m.AddRows(row.New(6).Add(col.New(12).Add(
				text.New(fmt.Sprintf("%s — %d left (minimum %d)", med.Name, med.Stock, med.MinStockLevel),
					props.Text{Size: 8, Color: colorAlert}),
			)))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte de inventario: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateSalesReport genera el PDF del reporte de ventas.
func (g *MarotoReportGenerator) GenerateSalesReport(_ context.Context, rep reports.SalesReport) ([]byte, error) {
	m := newDocument("Sales Report")

	period := "all time"
	if !rep.From.IsZero() || !rep.To.IsZero() {
		period = rep.From.Format("02/01/2006") + " — " + rep.To.Format("02/01/2006")
	}
	m.AddRows(headerRow(rep.PharmacyName, "SALES REPORT", period))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(salesTableHeader())
	for _, sale := range rep.Sales {
		m.AddRows(salesRow(sale))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for method, amount := range rep.ByPaymentMethod {
		m.AddRows(row.New(6).Add(
			col.New(8).Add(text.New(method, props.Text{Size: 8, Color: colorGray})),
			col.New(4).Add(text.New("$"+amount.StringFixed(2), props.Text{Size: 8, Align: align.Right})),
		))
	}
	m.AddRows(row.New(9).Add(
		col.New(8).Add(text.New("TOTAL", props.Text{Style: fontstyle.Bold, Size: 10, Top: 1})),
		col.New(4).Add(text.New("$"+rep.Total.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1, Color: colorPrimary,
		})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte de ventas: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow nombre de la farmacia (izq) y título + subtítulo (der).
func headerRow(pharmacy, title, subtitle string) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(pharmacy, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		),
		col.New(5).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(subtitle, props.Text{Size: 8, Align: align.Right, Top: 7, Color: colorGray}),
		),
	)
}

func inventoryTableHeader() core.Row {
	return row.New(7).Add(
		col.New(4).Add(text.New("Medicine", props.Text{Style: fontstyle.Bold, Size: 8})),
		col.New(2).Add(text.New("Category", props.Text{Style: fontstyle.Bold, Size: 8})),
		col.New(2).Add(text.New("Price", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right})),
		col.New(2).Add(text.New("Stock", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right})),
		col.New(2).Add(text.New("Value", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right})),
	)
}

func inventoryRow(m entity.Medicine) core.Row {
	value := m.Price.Mul(decimal.NewFromInt(int64(m.Stock)))
	stockColor := colorGray
	if m.IsLowStock() {
		stockColor = colorAlert
	}
	return row.New(6).Add(
		col.New(4).Add(text.New(m.Name, props.Text{Size: 8})),
		col.New(2).Add(text.New(m.Category, props.Text{Size: 8, Color: colorGray})),
		col.New(2).Add(text.New("$"+m.Price.StringFixed(2), props.Text{Size: 8, Align: align.Right})),
		col.New(2).Add(text.New(fmt.Sprintf("%d", m.Stock), props.Text{Size: 8, Align: align.Right, Color: stockColor})),
		col.New(2).Add(text.New("$"+value.StringFixed(2), props.Text{Size: 8, Align: align.Right})),
	)
}

func salesTableHeader() core.Row {
	return row.New(7).Add(
		col.New(3).Add(text.New("Sale #", props.Text{Style: fontstyle.Bold, Size: 8})),
		col.New(3).Add(text.New("Date", props.Text{Style: fontstyle.Bold, Size: 8})),
		col.New(3).Add(text.New("Payment", props.Text{Style: fontstyle.Bold, Size: 8})),
		col.New(3).Add(text.New("Amount", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right})),
	)
}

func salesRow(s entity.Sale) core.Row {
	return row.New(6).Add(
		col.New(3).Add(text.New(s.SaleNumber, props.Text{Size: 8})),
		col.New(3).Add(text.New(s.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Color: colorGray})),
		col.New(3).Add(text.New(s.PaymentMethod, props.Text{Size: 8, Color: colorGray})),
		col.New(3).Add(text.New("$"+s.TotalAmount.StringFixed(2), props.Text{Size: 8, Align: align.Right})),
	)
}
