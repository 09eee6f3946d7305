package events

import (
	"context"
	"sync"

	"github.com/jhoicas/lipms-client/pkg/logger"
)

// Handler procesa un evento. El error se registra pero no se propaga al
// publicador: los suscriptores son independientes entre sí.
type Handler func(ctx context.Context, ev Event) error

// Bus mediador en memoria. Los handlers se ejecutan de forma síncrona en
// orden de suscripción, dentro de la goroutine del publicador.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Topic][]Handler
	log      *logger.Logger
}

// NewBus construye el bus.
func NewBus(log *logger.Logger) *Bus {
	return &Bus{
		handlers: make(map[Topic][]Handler),
		log:      log,
	}
}

// Subscribe registra un handler para un topic.
func (b *Bus) Subscribe(topic Topic, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

// Publish entrega el evento a todos los suscriptores del topic. Un handler
// que retorna error no interrumpe a los siguientes.
func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	hs := b.handlers[ev.Topic()]
	b.mu.RUnlock()

	for _, h := range hs {
		if err := h(ctx, ev); err != nil {
			b.log.Warn().
				Err(err).
				Str("topic", string(ev.Topic())).
				Msg("suscriptor de evento falló")
		}
	}
}
