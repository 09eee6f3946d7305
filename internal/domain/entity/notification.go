package entity

import "time"

// AdminRecipient identificador fijo del destinatario administrador.
const AdminRecipient = "admin"

// NotificationType tipo de evento que originó la notificación.
type NotificationType string

const (
	NotifOrderPlaced     NotificationType = "order_placed"
	NotifOrderDispatched NotificationType = "order_dispatched"
	NotifOrderDelivered  NotificationType = "order_delivered"
	NotifOrderCancelled  NotificationType = "order_cancelled"
)

// Notification aviso para un destinatario ("admin" o un id de cliente).
// Read es monótono: false → true, nunca se "des-lee".
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"customerId"` // el snapshot serializa el destinatario como customerId
	OrderID     string           `json:"orderId,omitempty"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"createdAt"`
}
