package localstore

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/jhoicas/lipms-client/pkg/logger"
)

// Watcher observa el directorio de estado y avisa cuando otro proceso
// modifica el snapshot de una clave. Las escrituras del propio proceso se
// descartan, así cada proceso solo reacciona a cambios externos.
type Watcher struct {
	store *Store
	fsw   *fsnotify.Watcher
	log   *logger.Logger

	mu       sync.RWMutex
	handlers map[string][]func()

	done chan struct{}
}

// NewWatcher crea el watcher sobre el directorio del Store y arranca el
// loop de eventos. Llamar a Close al terminar.
func NewWatcher(store *Store, log *logger.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("localstore: crear watcher: %w", err)
	}
	if err := fsw.Add(store.Dir()); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("localstore: observar %s: %w", store.Dir(), err)
	}

	w := &Watcher{
		store:    store,
		fsw:      fsw,
		log:      log,
		handlers: make(map[string][]func()),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// OnChange registra un handler para los cambios externos de una clave.
func (w *Watcher) OnChange(key string, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[key] = append(w.handlers[key], fn)
}

// Close detiene el loop de eventos.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watcher de estado local")
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	// Solo interesan escrituras publicadas: el rename del .tmp sobre el
	// destino llega como Create/Rename del archivo final.
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Rename) {
		return
	}

	name := filepath.Base(ev.Name)
	if strings.HasSuffix(name, ".tmp") || !strings.HasSuffix(name, ".json") {
		return
	}
	key := strings.TrimSuffix(name, ".json")

	if w.store.consumeSelfWrite(key) {
		return
	}

	w.mu.RLock()
	hs := w.handlers[key]
	w.mu.RUnlock()

	if len(hs) == 0 {
		return
	}
	w.log.Debug().Str("key", key).Msg("cambio externo de estado local")
	for _, fn := range hs {
		fn()
	}
}
