// Package localstore persiste snapshots JSON del estado de cada store.
//
// Cada clave lipms-*-storage es un blob JSON independiente en el
// directorio de estado. Otro proceso que escriba el mismo directorio
// actúa como una segunda sesión concurrente: el
// Watcher notifica la clave modificada y el store afectado recarga solo su
// snapshot.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Claves de almacenamiento local, una por store.
const (
	KeyAuth          = "lipms-auth-storage"
	KeyCustomerAuth  = "lipms-customer-auth-storage"
	KeyInventory     = "lipms-inventory-storage"
	KeyOrders        = "lipms-orders-storage"
	KeyNotifications = "lipms-notifications-storage"
	KeyActivity      = "lipms-activity-storage"
	KeySettings      = "lipms-settings-storage"
)

// Store lee y escribe snapshots JSON por clave. Las escrituras son
// atómicas (archivo temporal + rename) para que un lector concurrente
// nunca vea un snapshot a medias.
type Store struct {
	dir string

	mu         sync.Mutex
	selfWrites map[string]int // claves escritas por este proceso, para que el Watcher las ignore
}

// New crea el Store y asegura que el directorio de estado exista.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("localstore: crear directorio %s: %w", dir, err)
	}
	return &Store{
		dir:        dir,
		selfWrites: make(map[string]int),
	}, nil
}

// Dir devuelve el directorio de estado.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Save serializa v y lo escribe de forma atómica bajo la clave dada.
func (s *Store) Save(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("localstore: serializar %s: %w", key, err)
	}

	s.markSelfWrite(key)

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("localstore: escribir %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("localstore: publicar %s: %w", key, err)
	}
	return nil
}

// Load deserializa el snapshot de la clave en v. Una clave inexistente no
// es error: v queda sin tocar y found es false.
func (s *Store) Load(key string, v any) (found bool, err error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("localstore: leer %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("localstore: deserializar %s: %w", key, err)
	}
	return true, nil
}

// Delete elimina el snapshot de la clave. Inexistente no es error.
func (s *Store) Delete(key string) error {
	s.markSelfWrite(key)
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("localstore: eliminar %s: %w", key, err)
	}
	return nil
}

func (s *Store) markSelfWrite(key string) {
	s.mu.Lock()
	s.selfWrites[key]++
	s.mu.Unlock()
}

// consumeSelfWrite descuenta una escritura propia pendiente para la clave.
// Devuelve true si el evento observado fue generado por este proceso.
func (s *Store) consumeSelfWrite(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selfWrites[key] > 0 {
		s.selfWrites[key]--
		return true
	}
	return false
}
