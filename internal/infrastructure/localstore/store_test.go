package localstore_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lipms-client/internal/infrastructure/localstore"
	"github.com/jhoicas/lipms-client/pkg/logger"
)

type estadoPrueba struct {
	Nombre string `json:"nombre"`
	Conteo int    `json:"conteo"`
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := localstore.New(t.TempDir())
	require.NoError(t, err)

	original := estadoPrueba{Nombre: "inventario", Conteo: 42}
	require.NoError(t, store.Save(localstore.KeyInventory, original))

	var cargado estadoPrueba
	found, err := store.Load(localstore.KeyInventory, &cargado)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, original, cargado)
}

func TestStore_ClaveInexistenteNoEsError(t *testing.T) {
	store, err := localstore.New(t.TempDir())
	require.NoError(t, err)

	var cargado estadoPrueba
	found, err := store.Load(localstore.KeyOrders, &cargado)
	require.NoError(t, err, "una clave sin snapshot no debe reportar error")
	assert.False(t, found)
	assert.Zero(t, cargado, "el destino debe quedar sin tocar")
}

func TestStore_DeleteIdempotente(t *testing.T) {
	store, err := localstore.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(localstore.KeyAuth, estadoPrueba{Nombre: "sesión"}))
	require.NoError(t, store.Delete(localstore.KeyAuth))
	require.NoError(t, store.Delete(localstore.KeyAuth), "borrar una clave inexistente no es error")

	found, err := store.Load(localstore.KeyAuth, &estadoPrueba{})
	require.NoError(t, err)
	assert.False(t, found)
}

// TestStore_EscrituraAtomicaSinTemporales valida que Save publica vía
// rename: tras guardar no queda ningún archivo .tmp en el directorio.
func TestStore_EscrituraAtomicaSinTemporales(t *testing.T) {
	dir := t.TempDir()
	store, err := localstore.New(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(localstore.KeySettings, estadoPrueba{Nombre: "ajustes"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp", "no deben quedar temporales publicados")
	}
}

// ── Watcher ───────────────────────────────────────────────────────────────────

// TestWatcher_CambioExternoNotifica simula una segunda sesión: un archivo
// escrito directamente en el directorio (sin pasar por este Store) debe
// disparar el handler de la clave afectada.
func TestWatcher_CambioExternoNotifica(t *testing.T) {
	dir := t.TempDir()
	store, err := localstore.New(dir)
	require.NoError(t, err)

	watcher, err := localstore.NewWatcher(store, logger.Nop())
	require.NoError(t, err)
	defer watcher.Close()

	cambios := make(chan struct{}, 1)
	watcher.OnChange(localstore.KeyOrders, func() {
		select {
		case cambios <- struct{}{}:
		default:
		}
	})

	// Escritura externa: otro proceso publica el snapshot de pedidos.
	path := filepath.Join(dir, localstore.KeyOrders+".json")
	require.NoError(t, os.WriteFile(path, []byte(`{"orders":[]}`), 0o600))

	select {
	case <-cambios:
	case <-time.After(3 * time.Second):
		t.Fatal("el watcher no notificó el cambio externo")
	}
}

// TestWatcher_EscrituraPropiaNoNotifica valida el filtro de escrituras
// propias: guardar vía el Store del mismo proceso no debe rebotar como
// cambio externo.
func TestWatcher_EscrituraPropiaNoNotifica(t *testing.T) {
	store, err := localstore.New(t.TempDir())
	require.NoError(t, err)

	watcher, err := localstore.NewWatcher(store, logger.Nop())
	require.NoError(t, err)
	defer watcher.Close()

	cambios := make(chan struct{}, 4)
	watcher.OnChange(localstore.KeyInventory, func() {
		cambios <- struct{}{}
	})

	require.NoError(t, store.Save(localstore.KeyInventory, estadoPrueba{Nombre: "propio"}))

	select {
	case <-cambios:
		t.Fatal("una escritura del propio proceso no debe notificarse")
	case <-time.After(500 * time.Millisecond):
	}
}
