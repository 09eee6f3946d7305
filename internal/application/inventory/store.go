// Package inventory mantiene la caché local de medicamentos y las
// mutaciones de stock contra el backend. La caché se muta solo después de
// que el servidor confirma; el valor de stock devuelto por el servidor es
// la autoridad (nunca se calcula en el cliente).
package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/lipms-client/internal/application/dto"
	"github.com/jhoicas/lipms-client/internal/domain"
	"github.com/jhoicas/lipms-client/internal/domain/entity"
	"github.com/jhoicas/lipms-client/internal/events"
	"github.com/jhoicas/lipms-client/internal/infrastructure/localstore"
	"github.com/jhoicas/lipms-client/pkg/logger"
)

// snapshot forma persistida del estado del store.
type snapshot struct {
	Medicines []entity.Medicine `json:"medicines"`
}

// Store caché de medicamentos con persistencia local.
type Store struct {
	api   MedicinesAPI
	snaps Snapshots
	bus   *events.Bus
	log   *logger.Logger

	mu        sync.RWMutex
	medicines []entity.Medicine
}

// NewStore construye el store y recarga el snapshot persistido si existe.
// Se suscribe a OrderPlaced para descontar stock por cada línea del pedido.
func NewStore(api MedicinesAPI, snaps Snapshots, bus *events.Bus, log *logger.Logger) *Store {
	s := &Store{
		api:   api,
		snaps: snaps,
		bus:   bus,
		log:   log,
	}
	s.Reload()
	bus.Subscribe(events.TopicOrderPlaced, s.onOrderPlaced)
	return s
}

// Reload recarga el snapshot persistido, reemplazando la caché en memoria.
// Se usa al construir y cuando el watcher detecta un cambio externo.
func (s *Store) Reload() {
	var snap snapshot
	found, err := s.snaps.Load(localstore.KeyInventory, &snap)
	if err != nil {
		s.log.Warn().Err(err).Msg("inventario: recargar snapshot")
		return
	}
	if !found {
		return
	}
	s.mu.Lock()
	s.medicines = snap.Medicines
	s.mu.Unlock()
}

// persist guarda el snapshot. Un fallo de persistencia no corrompe la
// caché; solo se registra.
func (s *Store) persist() {
	s.mu.RLock()
	snap := snapshot{Medicines: s.medicines}
	s.mu.RUnlock()
	if err := s.snaps.Save(localstore.KeyInventory, snap); err != nil {
		s.log.Warn().Err(err).Msg("inventario: persistir snapshot")
	}
}

// FetchAll reemplaza la caché con la lista del servidor. Si la petición
// falla, la caché queda intacta y el error solo se registra.
func (s *Store) FetchAll(ctx context.Context) {
	medicines, err := s.api.List(ctx, dto.MedicineListParams{})
	if err != nil {
		s.log.Warn().Err(err).Msg("inventario: fetch de medicamentos")
		return
	}
	s.mu.Lock()
	s.medicines = medicines
	s.mu.Unlock()
	s.persist()
}

// Medicines copia de la caché actual.
func (s *Store) Medicines() []entity.Medicine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Medicine, len(s.medicines))
	copy(out, s.medicines)
	return out
}

// MedicineByID busca en la caché local; no toca la red.
func (s *Store) MedicineByID(id string) (entity.Medicine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.medicines {
		if m.ID == id {
			return m, true
		}
	}
	return entity.Medicine{}, false
}

// LowStock derivación pura sobre la caché: medicamentos con umbral
// configurado y stock en o por debajo del umbral.
func (s *Store) LowStock() []entity.Medicine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var low []entity.Medicine
	for _, m := range s.medicines {
		if m.IsLowStock() {
			low = append(low, m)
		}
	}
	return low
}

// Categories categorías distintas presentes en la caché, ordenadas.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]bool{}
	var cats []string
	for _, m := range s.medicines {
		if m.Category != "" && !seen[m.Category] {
			seen[m.Category] = true
			cats = append(cats, m.Category)
		}
	}
	sort.Strings(cats)
	return cats
}

// UpdateStock aplica add/subtract en el backend y fija el stock local al
// valor devuelto por el servidor. Publica StockLow si el resultado queda
// en o por debajo del umbral.
func (s *Store) UpdateStock(ctx context.Context, id string, quantity int, op entity.StockOperation) (entity.Medicine, error) {
	if quantity <= 0 {
		return entity.Medicine{}, fmt.Errorf("%w: cantidad %d", domain.ErrInvalidInput, quantity)
	}
	updated, err := s.api.UpdateStock(ctx, id, quantity, op)
	if err != nil {
		return entity.Medicine{}, err
	}

	s.replace(updated)
	s.persist()

	if updated.IsLowStock() {
		s.bus.Publish(ctx, events.StockLow{Medicine: updated})
	}
	return updated, nil
}

// ReduceStock descuenta stock (atajo de UpdateStock subtract).
func (s *Store) ReduceStock(ctx context.Context, id string, quantity int) (entity.Medicine, error) {
	return s.UpdateStock(ctx, id, quantity, entity.StockSubtract)
}

// AddStock repone stock (atajo de UpdateStock add).
func (s *Store) AddStock(ctx context.Context, id string, quantity int) (entity.Medicine, error) {
	return s.UpdateStock(ctx, id, quantity, entity.StockAdd)
}

// AddMedicine crea el medicamento en el backend y lo agrega a la caché
// solo tras la confirmación.
func (s *Store) AddMedicine(ctx context.Context, m entity.Medicine) (entity.Medicine, error) {
	created, err := s.api.Create(ctx, m)
	if err != nil {
		return entity.Medicine{}, err
	}
	s.mu.Lock()
	s.medicines = append(s.medicines, created)
	s.mu.Unlock()
	s.persist()
	return created, nil
}

// UpdateMedicine actualiza en el backend y refleja la versión del servidor.
func (s *Store) UpdateMedicine(ctx context.Context, m entity.Medicine) (entity.Medicine, error) {
	updated, err := s.api.Update(ctx, m)
	if err != nil {
		return entity.Medicine{}, err
	}
	s.replace(updated)
	s.persist()
	return updated, nil
}

// DeleteMedicine elimina en el backend y retira de la caché.
func (s *Store) DeleteMedicine(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	for i, m := range s.medicines {
		if m.ID == id {
			s.medicines = append(s.medicines[:i], s.medicines[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.persist()
	return nil
}

// replace sustituye la entrada de la caché con el mismo id.
func (s *Store) replace(m entity.Medicine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.medicines {
		if s.medicines[i].ID == m.ID {
			s.medicines[i] = m
			return
		}
	}
	s.medicines = append(s.medicines, m)
}

// onOrderPlaced descuenta stock por cada línea del pedido. Es deliberado
// que un fallo aquí no revierta el pedido: el evento ya ocurrió y el error
// solo se registra.
func (s *Store) onOrderPlaced(ctx context.Context, ev events.Event) error {
	placed, ok := ev.(events.OrderPlaced)
	if !ok {
		return nil
	}
	for _, item := range placed.Order.Items {
		if _, err := s.ReduceStock(ctx, item.MedicineID, item.Quantity); err != nil {
			s.log.Warn().
				Err(err).
				Str("order_id", placed.Order.ID).
				Str("medicine_id", item.MedicineID).
				Int("quantity", item.Quantity).
				Msg("inventario: descuento de stock por pedido falló")
		}
	}
	return nil
}
