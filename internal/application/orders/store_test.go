package orders_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lipms-client/internal/application/activity"
	"github.com/jhoicas/lipms-client/internal/application/dto"
	"github.com/jhoicas/lipms-client/internal/application/notifications"
	"github.com/jhoicas/lipms-client/internal/application/orders"
	"github.com/jhoicas/lipms-client/internal/domain"
	"github.com/jhoicas/lipms-client/internal/domain/entity"
	"github.com/jhoicas/lipms-client/internal/events"
	"github.com/jhoicas/lipms-client/pkg/logger"
)

// ── fakes ─────────────────────────────────────────────────────────────────────

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

type fakeOrdersAPI struct {
	orders    []entity.Order
	createErr error
	created   entity.Order
	updated   entity.Order
	updateErr error
}

func (f *fakeOrdersAPI) List(_ context.Context, _ dto.OrderListParams) ([]entity.Order, error) {
	return f.orders, nil
}

func (f *fakeOrdersAPI) Create(_ context.Context, items []dto.OrderItemInput, notes string) (entity.Order, error) {
	if f.createErr != nil {
		return entity.Order{}, f.createErr
	}
	return f.created, nil
}

func (f *fakeOrdersAPI) UpdateStatus(_ context.Context, id string, status entity.OrderStatus, _ string) (entity.Order, error) {
	if f.updateErr != nil {
		return entity.Order{}, f.updateErr
	}
	out := f.updated
	out.ID = id
	out.Status = status
	return out, nil
}

func pedidoServidor() entity.Order {
	return entity.Order{
		ID:           "31",
		CustomerID:   "9",
		CustomerName: "Luis Rojas",
		CompanyName:  "Farmacia Central",
		Status:       entity.OrderPending,
		TotalAmount:  decimal.RequireFromString("25.00"),
		Items: []entity.OrderItem{
			{MedicineID: "7", MedicineName: "Amoxicillin", Quantity: 2, Price: decimal.RequireFromString("12.50")},
		},
	}
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestStore_CreateValidaAntesDeRed(t *testing.T) {
	api := &fakeOrdersAPI{}
	store := orders.NewStore(api, newFakeSnaps(), events.NewBus(logger.Nop()), logger.Nop())

	_, err := store.Create(context.Background(), nil, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "un pedido sin líneas se rechaza localmente")

	_, err = store.Create(context.Background(), []dto.OrderItemInput{{MedicineID: "7", Quantity: 0}}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero se rechaza localmente")
}

// TestStore_CreateDisparaEfectos es el recorrido completo del fan-out de
// creación: un pedido nuevo produce exactamente dos notificaciones (una al
// cliente, otra al admin) y una entrada de actividad, todas derivadas del
// mismo evento.
func TestStore_CreateDisparaEfectos(t *testing.T) {
	bus := events.NewBus(logger.Nop())
	snaps := newFakeSnaps()

	notifStore := notifications.NewStore(snaps, bus, logger.Nop())
	actStore := activity.NewStore(snaps, bus, logger.Nop())

	api := &fakeOrdersAPI{created: pedidoServidor()}
	store := orders.NewStore(api, snaps, bus, logger.Nop())

	order, err := store.Create(context.Background(), []dto.OrderItemInput{
		{MedicineID: "7", Quantity: 2},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "31", order.ID)

	// Notificación al cliente que hizo el pedido.
	delCliente := notifStore.ByRecipient("9")
	require.Len(t, delCliente, 1)
	assert.Equal(t, "Order Placed Successfully", delCliente[0].Title)
	assert.Equal(t, "Your order #31 has been placed and is being processed.", delCliente[0].Message)
	assert.False(t, delCliente[0].Read)

	// Notificación al destinatario fijo admin.
	delAdmin := notifStore.ByRecipient(entity.AdminRecipient)
	require.Len(t, delAdmin, 1)
	assert.Equal(t, "New Order Received", delAdmin[0].Title)
	assert.Equal(t, "New order #31 from Farmacia Central (Luis Rojas) - $25.00", delAdmin[0].Message)

	// Una entrada de actividad.
	recientes := actStore.Recent(10)
	require.Len(t, recientes, 1)
	assert.Equal(t, entity.ActivityOrderPlaced, recientes[0].Type)
	assert.Equal(t, "31", recientes[0].OrderID)

	// Y el pedido quedó en la caché local.
	cached, ok := store.ByID("31")
	require.True(t, ok)
	assert.Equal(t, entity.OrderPending, cached.Status)
}

func TestStore_CreateFallidoNoPublicaNada(t *testing.T) {
	bus := events.NewBus(logger.Nop())
	publicados := 0
	bus.Subscribe(events.TopicOrderPlaced, func(_ context.Context, _ events.Event) error {
		publicados++
		return nil
	})

	api := &fakeOrdersAPI{createErr: errors.New("backend caído")}
	store := orders.NewStore(api, newFakeSnaps(), bus, logger.Nop())

	_, err := store.Create(context.Background(), []dto.OrderItemInput{{MedicineID: "7", Quantity: 1}}, "")
	require.Error(t, err)
	assert.Zero(t, publicados, "sin confirmación del servidor no hay evento ni efectos")
	assert.Empty(t, store.Orders())
}

func TestStore_DispatchEstampaFechaYTracking(t *testing.T) {
	bus := events.NewBus(logger.Nop())
	api := &fakeOrdersAPI{created: pedidoServidor(), updated: pedidoServidor()}
	store := orders.NewStore(api, newFakeSnaps(), bus, logger.Nop())

	_, err := store.Create(context.Background(), []dto.OrderItemInput{{MedicineID: "7", Quantity: 2}}, "")
	require.NoError(t, err)

	order, err := store.Dispatch(context.Background(), "31", "TRACK123")
	require.NoError(t, err)

	assert.Equal(t, entity.OrderDispatched, order.Status)
	assert.Equal(t, "TRACK123", order.TrackingNumber)
	require.NotNil(t, order.DispatchedDate, "despachar debe estampar la fecha de despacho")
	assert.Nil(t, order.DeliveredDate)
}

func TestStore_DispatchNotificaConTracking(t *testing.T) {
	bus := events.NewBus(logger.Nop())
	snaps := newFakeSnaps()
	notifStore := notifications.NewStore(snaps, bus, logger.Nop())

	api := &fakeOrdersAPI{created: pedidoServidor(), updated: pedidoServidor()}
	store := orders.NewStore(api, snaps, bus, logger.Nop())

	_, err := store.Create(context.Background(), []dto.OrderItemInput{{MedicineID: "7", Quantity: 2}}, "")
	require.NoError(t, err)
	_, err = store.Dispatch(context.Background(), "31", "TRACK123")
	require.NoError(t, err)

	delCliente := notifStore.ByRecipient("9")
	require.Len(t, delCliente, 2, "creación + despacho")
	assert.Equal(t, "Order Dispatched", delCliente[0].Title)
	assert.Equal(t,
		"Your order #31 has been dispatched with tracking number: TRACK123. You should receive it soon!",
		delCliente[0].Message)
}

func TestStore_TransicionInvalidaRechazadaLocalmente(t *testing.T) {
	api := &fakeOrdersAPI{created: pedidoServidor(), updated: pedidoServidor()}
	store := orders.NewStore(api, newFakeSnaps(), events.NewBus(logger.Nop()), logger.Nop())

	_, err := store.Create(context.Background(), []dto.OrderItemInput{{MedicineID: "7", Quantity: 2}}, "")
	require.NoError(t, err)

	_, err = store.UpdateStatus(context.Background(), "31", entity.OrderDelivered, "")
	require.NoError(t, err)

	// Entregado es terminal: ningún cambio posterior es válido.
	_, err = store.UpdateStatus(context.Background(), "31", entity.OrderDispatched, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = store.UpdateStatus(context.Background(), "31", entity.OrderCancelled, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"un pedido entregado tampoco puede cancelarse")
}

func TestStore_FiltrosPuros(t *testing.T) {
	api := &fakeOrdersAPI{orders: []entity.Order{
		{ID: "1", CustomerID: "9", Status: entity.OrderPending},
		{ID: "2", CustomerID: "9", Status: entity.OrderDelivered},
		{ID: "3", CustomerID: "4", Status: entity.OrderPending},
	}}
	store := orders.NewStore(api, newFakeSnaps(), events.NewBus(logger.Nop()), logger.Nop())
	store.FetchAll(context.Background())

	assert.Len(t, store.Pending(), 2)
	assert.Len(t, store.ByCustomer("9"), 2)
	assert.Len(t, store.ByStatus(entity.OrderDelivered), 1)

	_, ok := store.ByID("99")
	assert.False(t, ok)
}
