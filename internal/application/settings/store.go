// Package settings mantiene la configuración local de la farmacia. El PIN
// de supervisor (autorización de descuentos POS) se guarda solo como hash
// bcrypt.
package settings

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/lipms-client/internal/domain"
	"github.com/jhoicas/lipms-client/internal/domain/entity"
	"github.com/jhoicas/lipms-client/internal/infrastructure/localstore"
	"github.com/jhoicas/lipms-client/pkg/logger"
)

// Snapshots persistencia local del snapshot del store.
type Snapshots interface {
	Save(key string, v any) error
	Load(key string, v any) (found bool, err error)
}

// Store configuración local con persistencia.
type Store struct {
	snaps Snapshots
	log   *logger.Logger

	mu       sync.RWMutex
	settings entity.Settings
}

// NewStore construye el store con los valores por defecto y recarga el
// snapshot persistido si existe.
func NewStore(snaps Snapshots, log *logger.Logger) *Store {
	s := &Store{
		snaps:    snaps,
		log:      log,
		settings: entity.DefaultSettings(),
	}
	s.Reload()
	return s
}

// Reload recarga el snapshot persistido.
func (s *Store) Reload() {
	var snap entity.Settings
	found, err := s.snaps.Load(localstore.KeySettings, &snap)
	if err != nil {
		s.log.Warn().Err(err).Msg("ajustes: recargar snapshot")
		return
	}
	if !found {
		return
	}
	s.mu.Lock()
	s.settings = snap
	s.mu.Unlock()
}

func (s *Store) persist() {
	s.mu.RLock()
	snap := s.settings
	s.mu.RUnlock()
	if err := s.snaps.Save(localstore.KeySettings, snap); err != nil {
		s.log.Warn().Err(err).Msg("ajustes: persistir snapshot")
	}
}

// Settings copia de la configuración vigente.
func (s *Store) Settings() entity.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update aplica los cambios de perfil de la farmacia. El hash del PIN no
// se modifica por esta vía.
func (s *Store) Update(updated entity.Settings) {
	s.mu.Lock()
	updated.SupervisorPINHash = s.settings.SupervisorPINHash
	s.settings = updated
	s.mu.Unlock()
	s.persist()
}

// MaxDiscountPct porcentaje de descuento sobre el cual el POS exige PIN.
func (s *Store) MaxDiscountPct() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.MaxDiscountPct
}

// SetSupervisorPIN fija el PIN de supervisor; se persiste solo su hash.
func (s *Store) SetSupervisorPIN(pin string) error {
	if len(pin) < 4 {
		return fmt.Errorf("%w: el PIN debe tener al menos 4 dígitos", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ajustes: hash del PIN: %w", err)
	}
	s.mu.Lock()
	s.settings.SupervisorPINHash = string(hash)
	s.mu.Unlock()
	s.persist()
	return nil
}

// VerifySupervisorPIN compara el PIN contra el hash almacenado. Sin PIN
// configurado no hay autorización posible.
func (s *Store) VerifySupervisorPIN(pin string) error {
	s.mu.RLock()
	hash := s.settings.SupervisorPINHash
	s.mu.RUnlock()

	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) != nil {
		return domain.ErrInvalidPIN
	}
	return nil
}
