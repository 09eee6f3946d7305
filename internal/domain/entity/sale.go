package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem línea del carrito POS. Efímera: vive en memoria de la sesión
// hasta completar la venta. Total = Quantity×UnitPrice − Discount.
type CartItem struct {
	MedicineID   string          `json:"medicineId"`
	MedicineName string          `json:"medicineName"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int             `json:"quantity"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
}

// Recalculate recalcula Total a partir de cantidad, precio y descuento.
func (ci *CartItem) Recalculate() {
	ci.Total = ci.UnitPrice.Mul(decimal.NewFromInt(int64(ci.Quantity))).Sub(ci.Discount)
}

// Sale venta completada en el punto de venta. Inmutable una vez creada.
type Sale struct {
	ID            string          `json:"id"`
	SaleNumber    string          `json:"saleNumber"`
	CustomerName  string          `json:"customerName,omitempty"`
	Items         []CartItem      `json:"items"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentMethod string          `json:"paymentMethod"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}
