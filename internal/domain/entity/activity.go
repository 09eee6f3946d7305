package entity

import "time"

// ActivityType tipo de evento registrado en el feed de actividad.
type ActivityType string

const (
	ActivityOrderPlaced     ActivityType = "order_placed"
	ActivityOrderDispatched ActivityType = "order_dispatched"
	ActivityOrderDelivered  ActivityType = "order_delivered"
	ActivityStockReduced    ActivityType = "stock_reduced"
	ActivityLowStock        ActivityType = "low_stock"
	ActivityRestock         ActivityType = "restock"
)

// Activity entrada del feed de actividad (append-only, máximo 100 entradas).
type Activity struct {
	ID         string       `json:"id"`
	Type       ActivityType `json:"type"`
	Message    string       `json:"message"`
	Timestamp  time.Time    `json:"timestamp"`
	OrderID    string       `json:"orderId,omitempty"`
	CustomerID string       `json:"customerId,omitempty"`
	MedicineID string       `json:"medicineId,omitempty"`
	Quantity   int          `json:"quantity,omitempty"`
}
