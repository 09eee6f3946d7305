package notifications_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lipms-client/internal/application/notifications"
	"github.com/jhoicas/lipms-client/internal/domain/entity"
	"github.com/jhoicas/lipms-client/internal/events"
	"github.com/jhoicas/lipms-client/pkg/logger"
)

type fakeSnaps struct {
	m map[string]json.RawMessage
}

func newFakeSnaps() *fakeSnaps {
	return &fakeSnaps{m: map[string]json.RawMessage{}}
}

func (f *fakeSnaps) Save(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.m[key] = b
	return nil
}

func (f *fakeSnaps) Load(key string, v any) (bool, error) {
	b, ok := f.m[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, v)
}

func newStore(t *testing.T) *notifications.Store {
	t.Helper()
	return notifications.NewStore(newFakeSnaps(), events.NewBus(logger.Nop()), logger.Nop())
}

func TestStore_AddAsignaIDYNoLeida(t *testing.T) {
	store := newStore(t)

	n := store.Add(notifications.NewNotification{
		RecipientID: "9",
		Type:        entity.NotifOrderPlaced,
		Title:       "Order Placed Successfully",
	})

	assert.NotEmpty(t, n.ID)
	assert.False(t, n.Read, "toda notificación nace sin leer")
	assert.False(t, n.CreatedAt.IsZero())
	assert.Equal(t, 1, store.UnreadCount("9"))
}

// TestStore_MarkAllAsReadPorDestinatario valida el aislamiento entre
// destinatarios: marcar todas las del admin no toca las del cliente.
func TestStore_MarkAllAsReadPorDestinatario(t *testing.T) {
	store := newStore(t)
	store.Add(notifications.NewNotification{RecipientID: entity.AdminRecipient, Title: "a"})
	store.Add(notifications.NewNotification{RecipientID: entity.AdminRecipient, Title: "b"})
	store.Add(notifications.NewNotification{RecipientID: "9", Title: "c"})

	store.MarkAllAsRead(entity.AdminRecipient)

	assert.Zero(t, store.UnreadCount(entity.AdminRecipient))
	assert.Equal(t, 1, store.UnreadCount("9"),
		"las notificaciones de otros destinatarios quedan intactas")
}

func TestStore_MarkAsReadIdempotente(t *testing.T) {
	store := newStore(t)
	n := store.Add(notifications.NewNotification{RecipientID: "9", Title: "x"})

	store.MarkAsRead(n.ID)
	store.MarkAsRead(n.ID)
	store.MarkAsRead("NOTIF-inexistente")

	assert.Zero(t, store.UnreadCount("9"))
}

func TestStore_ByRecipientOrdenaMasRecientePrimero(t *testing.T) {
	store := newStore(t)
	primera := store.Add(notifications.NewNotification{RecipientID: "9", Title: "vieja"})
	time.Sleep(2 * time.Millisecond)
	segunda := store.Add(notifications.NewNotification{RecipientID: "9", Title: "nueva"})

	lista := store.ByRecipient("9")
	require.Len(t, lista, 2)
	assert.Equal(t, segunda.ID, lista[0].ID, "la más reciente va primero")
	assert.Equal(t, primera.ID, lista[1].ID)
}

func TestStore_ClearSoloDelDestinatario(t *testing.T) {
	store := newStore(t)
	store.Add(notifications.NewNotification{RecipientID: "9", Title: "a"})
	store.Add(notifications.NewNotification{RecipientID: entity.AdminRecipient, Title: "b"})

	store.Clear("9")

	assert.Empty(t, store.ByRecipient("9"))
	assert.Len(t, store.ByRecipient(entity.AdminRecipient), 1)
}

func TestStore_SobreviveAlSnapshot(t *testing.T) {
	snaps := newFakeSnaps()
	bus := events.NewBus(logger.Nop())

	primero := notifications.NewStore(snaps, bus, logger.Nop())
	n := primero.Add(notifications.NewNotification{RecipientID: "9", Title: "persistida"})
	primero.MarkAsRead(n.ID)

	// Un proceso nuevo sobre el mismo snapshot ve el mismo estado.
	segundo := notifications.NewStore(snaps, events.NewBus(logger.Nop()), logger.Nop())
	lista := segundo.ByRecipient("9")
	require.Len(t, lista, 1)
	assert.Equal(t, "persistida", lista[0].Title)
	assert.True(t, lista[0].Read)
}
