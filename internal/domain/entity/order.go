package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de un pedido. Avanza de forma monótona:
// pending → processing → dispatched → delivered, o → cancelled desde
// cualquier estado no terminal. No hay transiciones hacia atrás.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderDispatched OrderStatus = "dispatched"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// rank posición del estado en la cadena de avance; terminales no avanzan.
func (s OrderStatus) rank() int {
	switch s {
	case OrderPending:
		return 0
	case OrderProcessing:
		return 1
	case OrderDispatched:
		return 2
	case OrderDelivered:
		return 3
	default:
		return -1
	}
}

// Valid indica si el estado es uno de los conocidos.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderDispatched, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Terminal indica si el pedido ya no admite transiciones.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransition valida el avance monótono de estados.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	if next == OrderCancelled {
		return true
	}
	return next.rank() > s.rank()
}

// OrderItem línea de un pedido; Total = Price × Quantity, fijado en la creación.
type OrderItem struct {
	MedicineID   string          `json:"medicineId"`
	MedicineName string          `json:"medicineName"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Total        decimal.Decimal `json:"total"`
}

// Order pedido del portal de clientes. TotalAmount es inmutable una vez creado.
type Order struct {
	ID             string          `json:"id"`
	CustomerID     string          `json:"customerId"`
	CustomerName   string          `json:"customerName"`
	CustomerEmail  string          `json:"customerEmail,omitempty"`
	CompanyName    string          `json:"companyName,omitempty"`
	Items          []OrderItem     `json:"items"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Status         OrderStatus     `json:"status"`
	OrderDate      time.Time       `json:"orderDate"`
	DispatchedDate *time.Time      `json:"dispatchedDate,omitempty"`
	DeliveredDate  *time.Time      `json:"deliveredDate,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	TrackingNumber string          `json:"trackingNumber,omitempty"`
}

// TotalQuantity suma de unidades de todas las líneas.
func (o Order) TotalQuantity() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
