// Package orders mantiene la caché local de pedidos. La creación publica
// OrderPlaced en el bus: el descuento de stock, la entrada de actividad y
// las notificaciones son efectos independientes de los suscriptores, sin
// transacción que los abarque (un suscriptor que falla no revierte el
// pedido).
package orders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/lipms-client/internal/application/dto"
	"github.com/jhoicas/lipms-client/internal/domain"
	"github.com/jhoicas/lipms-client/internal/domain/entity"
	"github.com/jhoicas/lipms-client/internal/events"
	"github.com/jhoicas/lipms-client/internal/infrastructure/localstore"
	"github.com/jhoicas/lipms-client/pkg/logger"
)

// snapshot forma persistida del estado del store.
type snapshot struct {
	Orders []entity.Order `json:"orders"`
}

// Store caché de pedidos con persistencia local.
type Store struct {
	api   OrdersAPI
	snaps Snapshots
	bus   *events.Bus
	log   *logger.Logger

	mu     sync.RWMutex
	orders []entity.Order
}

// NewStore construye el store y recarga el snapshot persistido si existe.
func NewStore(api OrdersAPI, snaps Snapshots, bus *events.Bus, log *logger.Logger) *Store {
	s := &Store{
		api:   api,
		snaps: snaps,
		bus:   bus,
		log:   log,
	}
	s.Reload()
	return s
}

// Reload recarga el snapshot persistido, reemplazando la caché en memoria.
func (s *Store) Reload() {
	var snap snapshot
	found, err := s.snaps.Load(localstore.KeyOrders, &snap)
	if err != nil {
		s.log.Warn().Err(err).Msg("pedidos: recargar snapshot")
		return
	}
	if !found {
		return
	}
	s.mu.Lock()
	s.orders = snap.Orders
	s.mu.Unlock()
}

func (s *Store) persist() {
	s.mu.RLock()
	snap := snapshot{Orders: s.orders}
	s.mu.RUnlock()
	if err := s.snaps.Save(localstore.KeyOrders, snap); err != nil {
		s.log.Warn().Err(err).Msg("pedidos: persistir snapshot")
	}
}

// FetchAll reemplaza la caché con la lista del servidor. Si falla, la
// caché queda intacta y el error solo se registra.
func (s *Store) FetchAll(ctx context.Context) {
	orders, err := s.api.List(ctx, dto.OrderListParams{})
	if err != nil {
		s.log.Warn().Err(err).Msg("pedidos: fetch")
		return
	}
	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
	s.persist()
}

// Create crea el pedido en el backend, lo agrega a la caché con los
// valores asignados por el servidor (id, estado pending, fecha, total) y
// publica OrderPlaced para que inventario, actividad y notificaciones
// reaccionen de forma independiente.
func (s *Store) Create(ctx context.Context, items []dto.OrderItemInput, notes string) (entity.Order, error) {
	if len(items) == 0 {
		return entity.Order{}, fmt.Errorf("%w: pedido sin líneas", domain.ErrInvalidInput)
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return entity.Order{}, fmt.Errorf("%w: cantidad %d", domain.ErrInvalidInput, it.Quantity)
		}
	}

	order, err := s.api.Create(ctx, items, notes)
	if err != nil {
		return entity.Order{}, err
	}

	s.mu.Lock()
	s.orders = append(s.orders, order)
	s.mu.Unlock()
	s.persist()

	s.bus.Publish(ctx, events.OrderPlaced{Order: order})
	return order, nil
}

// UpdateStatus cambia el estado en el backend y refleja el cambio local,
// estampando dispatchedDate/deliveredDate según corresponda. La transición
// se valida primero contra la caché: solo avance monótono (o cancelación).
func (s *Store) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, trackingNumber string) (entity.Order, error) {
	if !status.Valid() {
		return entity.Order{}, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	if cached, ok := s.ByID(id); ok && !cached.Status.CanTransition(status) {
		return entity.Order{}, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, cached.Status, status)
	}

	updated, err := s.api.UpdateStatus(ctx, id, status, trackingNumber)
	if err != nil {
		return entity.Order{}, err
	}

	now := time.Now()
	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}
		s.orders[i].Status = updated.Status
		switch updated.Status {
		case entity.OrderDispatched:
			s.orders[i].DispatchedDate = &now
		case entity.OrderDelivered:
			s.orders[i].DeliveredDate = &now
		}
		if trackingNumber != "" {
			s.orders[i].TrackingNumber = trackingNumber
		}
		updated = s.orders[i]
		break
	}
	s.mu.Unlock()
	s.persist()
	return updated, nil
}

// Dispatch marca el pedido como despachado con tracking opcional y publica
// OrderDispatched (notificaciones y actividad específicas de despacho).
func (s *Store) Dispatch(ctx context.Context, id, trackingNumber string) (entity.Order, error) {
	order, err := s.UpdateStatus(ctx, id, entity.OrderDispatched, trackingNumber)
	if err != nil {
		return entity.Order{}, err
	}
	s.bus.Publish(ctx, events.OrderDispatched{Order: order, TrackingNumber: trackingNumber})
	return order, nil
}

// Orders copia de la caché actual.
func (s *Store) Orders() []entity.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// ByStatus filtro puro sobre la caché; no toca la red.
func (s *Store) ByStatus(status entity.OrderStatus) []entity.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Order
	for _, o := range s.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// ByCustomer filtro puro sobre la caché; no toca la red.
func (s *Store) ByCustomer(customerID string) []entity.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Order
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out
}

// ByID búsqueda pura sobre la caché; no toca la red.
func (s *Store) ByID(id string) (entity.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return entity.Order{}, false
}

// Pending pedidos en estado pending.
func (s *Store) Pending() []entity.Order {
	return s.ByStatus(entity.OrderPending)
}
