// Package auth mantiene la sesión autenticada (token + usuario). Hay dos
// instancias con claves de persistencia separadas: la sesión del panel
// administrativo y la del portal de clientes.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/lipms-client/internal/application/dto"
	"github.com/jhoicas/lipms-client/internal/domain"
	"github.com/jhoicas/lipms-client/internal/domain/entity"
	"github.com/jhoicas/lipms-client/pkg/logger"
	"github.com/jhoicas/lipms-client/pkg/token"
)

// AuthAPI backend de autenticación que consume el store.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (token string, user entity.User, err error)
	Me(ctx context.Context) (entity.User, error)
	UpdateMe(ctx context.Context, upd dto.ProfileUpdate) (entity.User, error)
}

// Snapshots persistencia local del snapshot de sesión.
type Snapshots interface {
	Save(key string, v any) error
	Load(key string, v any) (found bool, err error)
	Delete(key string) error
}

// snapshot forma persistida de la sesión.
type snapshot struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user,omitempty"`
}

// Store sesión de un ámbito (admin o cliente).
type Store struct {
	api   AuthAPI
	snaps Snapshots
	key   string // clave de persistencia: lipms-auth-storage o lipms-customer-auth-storage
	log   *logger.Logger

	mu    sync.RWMutex
	token string
	user  *entity.User
}

// NewStore construye el store y recarga la sesión persistida si existe.
func NewStore(api AuthAPI, snaps Snapshots, key string, log *logger.Logger) *Store {
	s := &Store{
		api:   api,
		snaps: snaps,
		key:   key,
		log:   log,
	}
	s.Reload()
	return s
}

// Reload recarga la sesión persistida.
func (s *Store) Reload() {
	var snap snapshot
	found, err := s.snaps.Load(s.key, &snap)
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("auth: recargar sesión")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !found {
		s.token = ""
		s.user = nil
		return
	}
	s.token = snap.Token
	s.user = snap.User
}

// Login autentica contra el backend, guarda token y usuario y persiste la
// sesión. El estado local no se toca si el backend rechaza.
func (s *Store) Login(ctx context.Context, email, password string) (entity.User, error) {
	tok, user, err := s.api.Login(ctx, email, password)
	if err != nil {
		return entity.User{}, err
	}

	s.mu.Lock()
	s.token = tok
	s.user = &user
	s.mu.Unlock()

	if err := s.snaps.Save(s.key, snapshot{Token: tok, User: &user}); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("auth: persistir sesión")
	}
	return user, nil
}

// Logout descarta la sesión en memoria y su snapshot.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.snaps.Delete(s.key); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("auth: borrar sesión")
	}
}

// Token bearer token vigente, o cadena vacía si no hay sesión.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User usuario de la sesión, si hay.
func (s *Store) User() (entity.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return entity.User{}, false
	}
	return *s.user, true
}

// CheckAuth valida la sesión localmente: hay token y su claim exp no está
// vencido. La validación real de firma la hace el backend en cada petición.
func (s *Store) CheckAuth() error {
	s.mu.RLock()
	tok := s.token
	s.mu.RUnlock()

	if tok == "" {
		return domain.ErrUnauthorized
	}
	if token.Expired(tok, time.Now()) {
		return domain.ErrSessionExpired
	}
	return nil
}

// UpdateProfile actualiza el perfil en el backend y refleja la versión del
// servidor en la sesión.
func (s *Store) UpdateProfile(ctx context.Context, upd dto.ProfileUpdate) (entity.User, error) {
	user, err := s.api.UpdateMe(ctx, upd)
	if err != nil {
		return entity.User{}, err
	}

	s.mu.Lock()
	s.user = &user
	tok := s.token
	s.mu.Unlock()

	if err := s.snaps.Save(s.key, snapshot{Token: tok, User: &user}); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("auth: persistir sesión")
	}
	return user, nil
}
