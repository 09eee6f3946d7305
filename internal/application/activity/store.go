// Package activity mantiene el feed de actividad: lista acotada a las 100
// entradas más recientes, orden de más nueva a más vieja por construcción.
package activity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/lipms-client/internal/domain/entity"
	"github.com/jhoicas/lipms-client/internal/events"
	"github.com/jhoicas/lipms-client/internal/infrastructure/localstore"
	"github.com/jhoicas/lipms-client/pkg/logger"
)

// maxEntries tope del feed; al insertar la 101 se descarta la más vieja.
const maxEntries = 100

// Snapshots persistencia local del snapshot del store.
type Snapshots interface {
	Save(key string, v any) error
	Load(key string, v any) (found bool, err error)
}

// snapshot forma persistida del estado del store.
type snapshot struct {
	Activities []entity.Activity `json:"activities"`
}

// Store feed de actividad acotado.
type Store struct {
	snaps Snapshots
	log   *logger.Logger
	now   func() time.Time

	mu         sync.RWMutex
	activities []entity.Activity
}

// NewStore construye el store, recarga el snapshot y se suscribe a los
// eventos de dominio que alimentan el feed.
func NewStore(snaps Snapshots, bus *events.Bus, log *logger.Logger) *Store {
	s := &Store{
		snaps: snaps,
		log:   log,
		now:   time.Now,
	}
	s.Reload()
	bus.Subscribe(events.TopicOrderPlaced, s.onOrderPlaced)
	bus.Subscribe(events.TopicOrderDispatched, s.onOrderDispatched)
	bus.Subscribe(events.TopicStockLow, s.onStockLow)
	return s
}

// Reload recarga el snapshot persistido.
func (s *Store) Reload() {
	var snap snapshot
	found, err := s.snaps.Load(localstore.KeyActivity, &snap)
	if err != nil {
		s.log.Warn().Err(err).Msg("actividad: recargar snapshot")
		return
	}
	if !found {
		return
	}
	s.mu.Lock()
	s.activities = snap.Activities
	s.mu.Unlock()
}

func (s *Store) persist() {
	s.mu.RLock()
	snap := snapshot{Activities: s.activities}
	s.mu.RUnlock()
	if err := s.snaps.Save(localstore.KeyActivity, snap); err != nil {
		s.log.Warn().Err(err).Msg("actividad: persistir snapshot")
	}
}

// NewActivity datos de una entrada a registrar.
type NewActivity struct {
	Type       entity.ActivityType
	Message    string
	OrderID    string
	CustomerID string
	MedicineID string
	Quantity   int
}

// Add asigna id y timestamp, antepone la entrada y trunca a las 100 más
// recientes.
func (s *Store) Add(a NewActivity) entity.Activity {
	act := entity.Activity{
		ID:         "ACT-" + uuid.New().String(),
		Type:       a.Type,
		Message:    a.Message,
		Timestamp:  s.now(),
		OrderID:    a.OrderID,
		CustomerID: a.CustomerID,
		MedicineID: a.MedicineID,
		Quantity:   a.Quantity,
	}
	s.mu.Lock()
	s.activities = append([]entity.Activity{act}, s.activities...)
	if len(s.activities) > maxEntries {
		s.activities = s.activities[:maxEntries]
	}
	s.mu.Unlock()
	s.persist()
	return act
}

// Recent primeras limit entradas (ya ordenadas de más reciente a más vieja).
func (s *Store) Recent(limit int) []entity.Activity {
	if limit <= 0 {
		limit = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit > len(s.activities) {
		limit = len(s.activities)
	}
	out := make([]entity.Activity, limit)
	copy(out, s.activities[:limit])
	return out
}

// ClearOld elimina las entradas más viejas que el corte en días.
func (s *Store) ClearOld(daysOld int) {
	if daysOld <= 0 {
		daysOld = 30
	}
	cutoff := s.now().AddDate(0, 0, -daysOld)

	s.mu.Lock()
	kept := s.activities[:0]
	for _, act := range s.activities {
		if act.Timestamp.After(cutoff) {
			kept = append(kept, act)
		}
	}
	s.activities = kept
	s.mu.Unlock()
	s.persist()
}

// FormatTimeAgo expresa un timestamp como tiempo relativo grueso:
// segundos (<60s), minutos (<1h), horas (<24h), días en otro caso.
func FormatTimeAgo(timestamp, now time.Time) string {
	seconds := int(now.Sub(timestamp).Seconds())
	if seconds < 0 {
		seconds = 0
	}
	switch {
	case seconds < 60:
		return fmt.Sprintf("%d seconds ago", seconds)
	case seconds < 3600:
		return plural(seconds/60, "minute")
	case seconds < 86400:
		return plural(seconds/3600, "hour")
	default:
		return plural(seconds/86400, "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

func (s *Store) onOrderPlaced(_ context.Context, ev events.Event) error {
	placed, ok := ev.(events.OrderPlaced)
	if !ok {
		return nil
	}
	order := placed.Order
	s.Add(NewActivity{
		Type: entity.ActivityOrderPlaced,
		Message: fmt.Sprintf("New order #%s placed by %s - $%s",
			order.ID, order.CompanyName, order.TotalAmount.StringFixed(2)),
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Quantity:   order.TotalQuantity(),
	})
	return nil
}

func (s *Store) onOrderDispatched(_ context.Context, ev events.Event) error {
	dispatched, ok := ev.(events.OrderDispatched)
	if !ok {
		return nil
	}
	order := dispatched.Order
	msg := fmt.Sprintf("Order #%s dispatched to %s", order.ID, order.CompanyName)
	if dispatched.TrackingNumber != "" {
		msg += fmt.Sprintf(" (tracking %s)", dispatched.TrackingNumber)
	}
	s.Add(NewActivity{
		Type:       entity.ActivityOrderDispatched,
		Message:    msg,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
	})
	return nil
}

func (s *Store) onStockLow(_ context.Context, ev events.Event) error {
	low, ok := ev.(events.StockLow)
	if !ok {
		return nil
	}
	m := low.Medicine
	s.Add(NewActivity{
		Type: entity.ActivityLowStock,
		Message: fmt.Sprintf("%s is low on stock (%d left, minimum %d)",
			m.Name, m.Stock, m.MinStockLevel),
		MedicineID: m.ID,
		Quantity:   m.Stock,
	})
	return nil
}
