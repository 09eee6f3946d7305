package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lipms-client/internal/application/reports"
	"github.com/jhoicas/lipms-client/internal/domain/entity"
)

// ── fakes ─────────────────────────────────────────────────────────────────────

type fakeInventory struct {
	medicines []entity.Medicine
}

func (f *fakeInventory) Medicines() []entity.Medicine { return f.medicines }

func (f *fakeInventory) LowStock() []entity.Medicine {
	var low []entity.Medicine
	for _, m := range f.medicines {
		if m.IsLowStock() {
			low = append(low, m)
		}
	}
	return low
}

type fakeSales struct {
	sales []entity.Sale
}

func (f *fakeSales) Sales() []entity.Sale { return f.sales }

type fakePDF struct {
	ultimoInventario reports.InventoryReport
	ultimoVentas     reports.SalesReport
}

func (f *fakePDF) GenerateInventoryReport(_ context.Context, rep reports.InventoryReport) ([]byte, error) {
	f.ultimoInventario = rep
	return []byte("%PDF-inventario"), nil
}

func (f *fakePDF) GenerateSalesReport(_ context.Context, rep reports.SalesReport) ([]byte, error) {
	f.ultimoVentas = rep
	return []byte("%PDF-ventas"), nil
}

func nombreFijo() string { return "Farmacia de Prueba" }

// ── tests ─────────────────────────────────────────────────────────────────────

func TestUseCase_ReporteDeInventario(t *testing.T) {
	inv := &fakeInventory{medicines: []entity.Medicine{
		{ID: "1", Name: "A", Stock: 10, Price: decimal.RequireFromString("2.50")},
		{ID: "2", Name: "B", Stock: 4, MinStockLevel: 5, Price: decimal.RequireFromString("10.00")},
	}}
	uc := reports.NewUseCase(inv, &fakeSales{}, &fakePDF{}, nombreFijo)

	rep := uc.BuildInventoryReport()

	assert.Equal(t, "Farmacia de Prueba", rep.PharmacyName)
	assert.Equal(t, 14, rep.TotalUnits)
	assert.True(t, decimal.RequireFromString("65.00").Equal(rep.StockValue),
		"valor de stock = Σ precio × unidades (2.50×10 + 10.00×4)")
	require.Len(t, rep.LowStock, 1)
	assert.Equal(t, "2", rep.LowStock[0].ID)
}

func TestUseCase_ReporteDeVentasPorRango(t *testing.T) {
	dia := func(d int) time.Time { return time.Date(2026, 8, d, 10, 0, 0, 0, time.UTC) }
	ventas := &fakeSales{sales: []entity.Sale{
		{ID: "1", TotalAmount: decimal.RequireFromString("10.00"), PaymentMethod: "cash", CreatedAt: dia(1)},
		{ID: "2", TotalAmount: decimal.RequireFromString("20.00"), PaymentMethod: "card", CreatedAt: dia(10)},
		{ID: "3", TotalAmount: decimal.RequireFromString("5.00"), PaymentMethod: "cash", CreatedAt: dia(20)},
	}}
	uc := reports.NewUseCase(&fakeInventory{}, ventas, &fakePDF{}, nombreFijo)

	rep := uc.BuildSalesReport(dia(5), dia(15))

	require.Len(t, rep.Sales, 1, "solo la venta dentro de [from, to)")
	assert.Equal(t, "2", rep.Sales[0].ID)
	assert.True(t, decimal.RequireFromString("20.00").Equal(rep.Total))
	assert.True(t, decimal.RequireFromString("20.00").Equal(rep.ByPaymentMethod["card"]))
}

func TestUseCase_RangoVacioIncluyeTodo(t *testing.T) {
	ventas := &fakeSales{sales: []entity.Sale{
		{ID: "1", TotalAmount: decimal.RequireFromString("10.00"), PaymentMethod: "cash"},
		{ID: "2", TotalAmount: decimal.RequireFromString("20.00"), PaymentMethod: "cash"},
	}}
	uc := reports.NewUseCase(&fakeInventory{}, ventas, &fakePDF{}, nombreFijo)

	rep := uc.BuildSalesReport(time.Time{}, time.Time{})

	assert.Len(t, rep.Sales, 2)
	assert.True(t, decimal.RequireFromString("30.00").Equal(rep.ByPaymentMethod["cash"]),
		"los totales por método de pago acumulan todas las ventas del rango")
}

func TestUseCase_PDFRecibeElReporteArmado(t *testing.T) {
	pdf := &fakePDF{}
	inv := &fakeInventory{medicines: []entity.Medicine{
		{ID: "1", Stock: 3, Price: decimal.RequireFromString("1.00")},
	}}
	uc := reports.NewUseCase(inv, &fakeSales{}, pdf, nombreFijo)

	data, err := uc.InventoryPDF(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, 3, pdf.ultimoInventario.TotalUnits,
		"el generador recibe el reporte ya calculado")
}
