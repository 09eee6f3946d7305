// Package notifications mantiene la lista local de notificaciones por
// destinatario. No consume red: el backend no tiene tabla de
// notificaciones; el estado vive solo en la persistencia local.
package notifications

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/lipms-client/internal/domain/entity"
	"github.com/jhoicas/lipms-client/internal/events"
	"github.com/jhoicas/lipms-client/internal/infrastructure/localstore"
	"github.com/jhoicas/lipms-client/pkg/logger"
)

// Snapshots persistencia local del snapshot del store.
type Snapshots interface {
	Save(key string, v any) error
	Load(key string, v any) (found bool, err error)
}

// snapshot forma persistida del estado del store.
type snapshot struct {
	Notifications []entity.Notification `json:"notifications"`
}

// Store lista de notificaciones con seguimiento leído/no leído.
type Store struct {
	snaps Snapshots
	log   *logger.Logger
	now   func() time.Time

	mu            sync.RWMutex
	notifications []entity.Notification
}

// NewStore construye el store, recarga el snapshot y se suscribe a los
// eventos de pedido para emitir el par de avisos cliente/admin.
func NewStore(snaps Snapshots, bus *events.Bus, log *logger.Logger) *Store {
	s := &Store{
		snaps: snaps,
		log:   log,
		now:   time.Now,
	}
	s.Reload()
	bus.Subscribe(events.TopicOrderPlaced, s.onOrderPlaced)
	bus.Subscribe(events.TopicOrderDispatched, s.onOrderDispatched)
	return s
}

// Reload recarga el snapshot persistido.
func (s *Store) Reload() {
	var snap snapshot
	found, err := s.snaps.Load(localstore.KeyNotifications, &snap)
	if err != nil {
		s.log.Warn().Err(err).Msg("notificaciones: recargar snapshot")
		return
	}
	if !found {
		return
	}
	s.mu.Lock()
	s.notifications = snap.Notifications
	s.mu.Unlock()
}

func (s *Store) persist() {
	s.mu.RLock()
	snap := snapshot{Notifications: s.notifications}
	s.mu.RUnlock()
	if err := s.snaps.Save(localstore.KeyNotifications, snap); err != nil {
		s.log.Warn().Err(err).Msg("notificaciones: persistir snapshot")
	}
}

// NewNotification datos de una notificación a crear.
type NewNotification struct {
	RecipientID string
	OrderID     string
	Type        entity.NotificationType
	Title       string
	Message     string
}

// Add asigna id y fecha de creación, marca read=false y agrega al final.
// La lista se ordena en lectura, no en escritura.
func (s *Store) Add(n NewNotification) entity.Notification {
	notif := entity.Notification{
		ID:          "NOTIF-" + uuid.New().String(),
		RecipientID: n.RecipientID,
		OrderID:     n.OrderID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		Read:        false,
		CreatedAt:   s.now(),
	}
	s.mu.Lock()
	s.notifications = append(s.notifications, notif)
	s.mu.Unlock()
	s.persist()
	return notif
}

// MarkAsRead marca una notificación como leída. Idempotente: re-marcar una
// ya leída no tiene efecto.
func (s *Store) MarkAsRead(id string) {
	s.mu.Lock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			break
		}
	}
	s.mu.Unlock()
	s.persist()
}

// MarkAllAsRead marca como leídas todas las del destinatario, sin tocar
// las de otros destinatarios.
func (s *Store) MarkAllAsRead(recipientID string) {
	s.mu.Lock()
	for i := range s.notifications {
		if s.notifications[i].RecipientID == recipientID {
			s.notifications[i].Read = true
		}
	}
	s.mu.Unlock()
	s.persist()
}

// UnreadCount número de no leídas del destinatario.
func (s *Store) UnreadCount(recipientID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, notif := range s.notifications {
		if notif.RecipientID == recipientID && !notif.Read {
			n++
		}
	}
	return n
}

// ByRecipient notificaciones del destinatario ordenadas de más reciente a
// más antigua.
func (s *Store) ByRecipient(recipientID string) []entity.Notification {
	s.mu.RLock()
	var out []entity.Notification
	for _, notif := range s.notifications {
		if notif.RecipientID == recipientID {
			out = append(out, notif)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Clear elimina todas las notificaciones del destinatario.
func (s *Store) Clear(recipientID string) {
	s.mu.Lock()
	kept := s.notifications[:0]
	for _, notif := range s.notifications {
		if notif.RecipientID != recipientID {
			kept = append(kept, notif)
		}
	}
	s.notifications = kept
	s.mu.Unlock()
	s.persist()
}

// onOrderPlaced emite exactamente dos avisos: uno al cliente que hizo el
// pedido y otro al destinatario fijo "admin".
func (s *Store) onOrderPlaced(_ context.Context, ev events.Event) error {
	placed, ok := ev.(events.OrderPlaced)
	if !ok {
		return nil
	}
	order := placed.Order

	s.Add(NewNotification{
		RecipientID: order.CustomerID,
		OrderID:     order.ID,
		Type:        entity.NotifOrderPlaced,
		Title:       "Order Placed Successfully",
		Message:     fmt.Sprintf("Your order #%s has been placed and is being processed.", order.ID),
	})
	s.Add(NewNotification{
		RecipientID: entity.AdminRecipient,
		OrderID:     order.ID,
		Type:        entity.NotifOrderPlaced,
		Title:       "New Order Received",
		Message: fmt.Sprintf("New order #%s from %s (%s) - $%s",
			order.ID, order.CompanyName, order.CustomerName, order.TotalAmount.StringFixed(2)),
	})
	return nil
}

// onOrderDispatched emite el par de avisos de despacho.
func (s *Store) onOrderDispatched(_ context.Context, ev events.Event) error {
	dispatched, ok := ev.(events.OrderDispatched)
	if !ok {
		return nil
	}
	order := dispatched.Order

	customerMsg := fmt.Sprintf("Your order #%s has been dispatched", order.ID)
	adminMsg := fmt.Sprintf("Order #%s has been dispatched to %s", order.ID, order.CompanyName)
	if dispatched.TrackingNumber != "" {
		customerMsg += fmt.Sprintf(" with tracking number: %s", dispatched.TrackingNumber)
		adminMsg += fmt.Sprintf(" with tracking number: %s", dispatched.TrackingNumber)
	}
	customerMsg += ". You should receive it soon!"

	s.Add(NewNotification{
		RecipientID: order.CustomerID,
		OrderID:     order.ID,
		Type:        entity.NotifOrderDispatched,
		Title:       "Order Dispatched",
		Message:     customerMsg,
	})
	s.Add(NewNotification{
		RecipientID: entity.AdminRecipient,
		OrderID:     order.ID,
		Type:        entity.NotifOrderDispatched,
		Title:       "Order Dispatched",
		Message:     adminMsg,
	})
	return nil
}
