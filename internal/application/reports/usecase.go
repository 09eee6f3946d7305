// Package reports arma los reportes de inventario y ventas a partir de
// las cachés locales y delega el render PDF al generador inyectado.
package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lipms-client/internal/domain/entity"
)

// InventoryReader caché de inventario consultada por los reportes.
type InventoryReader interface {
	Medicines() []entity.Medicine
	LowStock() []entity.Medicine
}

// SalesReader historial de ventas consultado por los reportes.
type SalesReader interface {
	Sales() []entity.Sale
}

// PDFGenerator render PDF de los reportes.
type PDFGenerator interface {
	GenerateInventoryReport(ctx context.Context, rep InventoryReport) ([]byte, error)
	GenerateSalesReport(ctx context.Context, rep SalesReport) ([]byte, error)
}

// InventoryReport valoración de stock + sección de stock bajo.
type InventoryReport struct {
	PharmacyName string
	GeneratedAt  time.Time
	Medicines    []entity.Medicine
	LowStock     []entity.Medicine
	TotalUnits   int
	StockValue   decimal.Decimal // Σ precio × stock
}

// SalesReport ventas del rango con totales por método de pago.
type SalesReport struct {
	PharmacyName    string
	From, To        time.Time
	Sales           []entity.Sale
	Total           decimal.Decimal
	ByPaymentMethod map[string]decimal.Decimal
}

// UseCase casos de uso de reportes.
type UseCase struct {
	inventory    InventoryReader
	sales        SalesReader
	pdf          PDFGenerator
	pharmacyName func() string
}

// NewUseCase construye el caso de uso. pharmacyName se resuelve en cada
// reporte para reflejar los ajustes vigentes.
func NewUseCase(inventory InventoryReader, sales SalesReader, pdf PDFGenerator, pharmacyName func() string) *UseCase {
	return &UseCase{
		inventory:    inventory,
		sales:        sales,
		pdf:          pdf,
		pharmacyName: pharmacyName,
	}
}

// BuildInventoryReport arma el reporte de inventario sobre la caché actual.
func (uc *UseCase) BuildInventoryReport() InventoryReport {
	medicines := uc.inventory.Medicines()
	rep := InventoryReport{
		PharmacyName: uc.pharmacyName(),
		GeneratedAt:  time.Now(),
		Medicines:    medicines,
		LowStock:     uc.inventory.LowStock(),
		StockValue:   decimal.Zero,
	}
	for _, m := range medicines {
		rep.TotalUnits += m.Stock
		rep.StockValue = rep.StockValue.Add(m.Price.Mul(decimal.NewFromInt(int64(m.Stock))))
	}
	return rep
}

// BuildSalesReport arma el reporte de ventas del rango [from, to).
// Un rango en cero incluye todas las ventas del historial.
func (uc *UseCase) BuildSalesReport(from, to time.Time) SalesReport {
	rep := SalesReport{
		PharmacyName:    uc.pharmacyName(),
		From:            from,
		To:              to,
		Total:           decimal.Zero,
		ByPaymentMethod: map[string]decimal.Decimal{},
	}
	for _, sale := range uc.sales.Sales() {
		if !from.IsZero() && sale.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !sale.CreatedAt.Before(to) {
			continue
		}
		rep.Sales = append(rep.Sales, sale)
		rep.Total = rep.Total.Add(sale.TotalAmount)
		prev, ok := rep.ByPaymentMethod[sale.PaymentMethod]
		if !ok {
			prev = decimal.Zero
		}
		rep.ByPaymentMethod[sale.PaymentMethod] = prev.Add(sale.TotalAmount)
	}
	return rep
}

// InventoryPDF arma y renderiza el reporte de inventario.
func (uc *UseCase) InventoryPDF(ctx context.Context) ([]byte, error) {
	return uc.pdf.GenerateInventoryReport(ctx, uc.BuildInventoryReport())
}

// SalesPDF arma y renderiza el reporte de ventas del rango.
func (uc *UseCase) SalesPDF(ctx context.Context, from, to time.Time) ([]byte, error) {
	return uc.pdf.GenerateSalesReport(ctx, uc.BuildSalesReport(from, to))
}
