package inventory_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lipms-client/internal/application/dto"
	"github.com/jhoicas/lipms-client/internal/application/inventory"
	"github.com/jhoicas/lipms-client/internal/domain/entity"
	"github.com/jhoicas/lipms-client/internal/events"
	"github.com/jhoicas/lipms-client/internal/infrastructure/localstore"
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

type fakeMedicinesAPI struct {
	medicines []entity.Medicine
	listErr   error

	stockCalls []stockCall
	stockFn    func(id string, quantity int, op entity.StockOperation) (entity.Medicine, error)
}

type stockCall struct {
	ID       string
	Quantity int
	Op       entity.StockOperation
}

func (f *fakeMedicinesAPI) List(_ context.Context, _ dto.MedicineListParams) ([]entity.Medicine, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.medicines, nil
}

func (f *fakeMedicinesAPI) Create(_ context.Context, m entity.Medicine) (entity.Medicine, error) {
	m.ID = "100"
	return m, nil
}

func (f *fakeMedicinesAPI) Update(_ context.Context, m entity.Medicine) (entity.Medicine, error) {
	return m, nil
}

func (f *fakeMedicinesAPI) Delete(_ context.Context, _ string) error { return nil }

func (f *fakeMedicinesAPI) UpdateStock(_ context.Context, id string, quantity int, op entity.StockOperation) (entity.Medicine, error) {
	f.stockCalls = append(f.stockCalls, stockCall{ID: id, Quantity: quantity, Op: op})
	if f.stockFn != nil {
		return f.stockFn(id, quantity, op)
	}
	return entity.Medicine{ID: id}, nil
}

func (f *fakeMedicinesAPI) LowStock(_ context.Context) ([]entity.Medicine, error) {
	return nil, nil
}

func medicina(id, name string, stock, minimo int) entity.Medicine {
	return entity.Medicine{
		ID: id, Name: name, Stock: stock, MinStockLevel: minimo,
		Price: decimal.RequireFromString("5.00"), Category: "General",
	}
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestStore_FetchAllReemplazaCache(t *testing.T) {
	api := &fakeMedicinesAPI{medicines: []entity.Medicine{
		medicina("1", "Paracetamol", 40, 10),
		medicina("2", "Ibuprofen", 5, 10),
	}}
	store := inventory.NewStore(api, newFakeSnaps(), events.NewBus(logger.Nop()), logger.Nop())

	store.FetchAll(context.Background())

	assert.Len(t, store.Medicines(), 2)
	m, ok := store.MedicineByID("2")
	require.True(t, ok)
	assert.Equal(t, "Ibuprofen", m.Name)
}

// TestStore_FetchFallidoNoTocaCache valida que la caché sobrevive a un
// backend caído: el fetch fallido deja el estado anterior intacto.
func TestStore_FetchFallidoNoTocaCache(t *testing.T) {
	snaps := newFakeSnaps()
	snaps.m[localstore.KeyInventory] = json.RawMessage(
		`{"medicines":[{"id":"1","name":"Paracetamol","price":"5.00","stock":40,"category":"General"}]}`)

	api := &fakeMedicinesAPI{listErr: errors.New("backend caído")}
	store := inventory.NewStore(api, snaps, events.NewBus(logger.Nop()), logger.Nop())
	require.Len(t, store.Medicines(), 1, "el snapshot persistido se recarga al construir")

	store.FetchAll(context.Background())

	assert.Len(t, store.Medicines(), 1, "un fetch fallido no debe vaciar la caché")
}

func TestStore_UpdateStockUsaValorDelServidor(t *testing.T) {
	api := &fakeMedicinesAPI{
		medicines: []entity.Medicine{medicina("1", "Paracetamol", 30, 5)},
		stockFn: func(id string, _ int, _ entity.StockOperation) (entity.Medicine, error) {
			// El servidor hace clamp a 0: nunca devuelve stock negativo.
			return medicina(id, "Paracetamol", 0, 5), nil
		},
	}
	store := inventory.NewStore(api, newFakeSnaps(), events.NewBus(logger.Nop()), logger.Nop())
	store.FetchAll(context.Background())

	m, err := store.ReduceStock(context.Background(), "1", 50)
	require.NoError(t, err)

	assert.Equal(t, 0, m.Stock, "el stock local es el valor devuelto por el servidor, no un cálculo propio")
	cached, _ := store.MedicineByID("1")
	assert.Equal(t, 0, cached.Stock)
}

func TestStore_UpdateStockPublicaStockLow(t *testing.T) {
	bus := events.NewBus(logger.Nop())
	var bajos []entity.Medicine
	bus.Subscribe(events.TopicStockLow, func(_ context.Context, ev events.Event) error {
		bajos = append(bajos, ev.(events.StockLow).Medicine)
		return nil
	})

	api := &fakeMedicinesAPI{
		stockFn: func(id string, _ int, _ entity.StockOperation) (entity.Medicine, error) {
			return medicina(id, "Amoxicillin", 3, 10), nil
		},
	}
	store := inventory.NewStore(api, newFakeSnaps(), bus, logger.Nop())

	_, err := store.ReduceStock(context.Background(), "7", 2)
	require.NoError(t, err)

	require.Len(t, bajos, 1, "quedar en o bajo el umbral debe publicar StockLow")
	assert.Equal(t, "7", bajos[0].ID)
}

func TestStore_UpdateStockCantidadInvalida(t *testing.T) {
	api := &fakeMedicinesAPI{}
	store := inventory.NewStore(api, newFakeSnaps(), events.NewBus(logger.Nop()), logger.Nop())

	_, err := store.AddStock(context.Background(), "1", 0)
	assert.Error(t, err)
	assert.Empty(t, api.stockCalls, "la validación debe ocurrir antes de tocar la red")
}

// TestStore_PedidoDescuentaStockPorLinea valida el efecto de OrderPlaced:
// el store descuenta stock por cada línea del pedido, y un fallo en una
// línea no detiene las demás ni revierte nada.
func TestStore_PedidoDescuentaStockPorLinea(t *testing.T) {
	bus := events.NewBus(logger.Nop())
	api := &fakeMedicinesAPI{
		stockFn: func(id string, _ int, _ entity.StockOperation) (entity.Medicine, error) {
			if id == "2" {
				return entity.Medicine{}, errors.New("medicamento congelado")
			}
			return medicina(id, "X", 10, 0), nil
		},
	}
	inventory.NewStore(api, newFakeSnaps(), bus, logger.Nop())

	bus.Publish(context.Background(), events.OrderPlaced{Order: entity.Order{
		ID: "31",
		Items: []entity.OrderItem{
			{MedicineID: "1", Quantity: 3},
			{MedicineID: "2", Quantity: 1},
			{MedicineID: "3", Quantity: 2},
		},
	}})

	require.Len(t, api.stockCalls, 3, "cada línea del pedido genera un descuento")
	assert.Equal(t, stockCall{ID: "1", Quantity: 3, Op: entity.StockSubtract}, api.stockCalls[0])
	assert.Equal(t, stockCall{ID: "3", Quantity: 2, Op: entity.StockSubtract}, api.stockCalls[2],
		"el fallo de la línea 2 no debe impedir descontar la línea 3")
}

func TestStore_DerivacionesPuras(t *testing.T) {
	api := &fakeMedicinesAPI{medicines: []entity.Medicine{
		{ID: "1", Name: "A", Stock: 3, MinStockLevel: 10, Category: "Analgesics"},
		{ID: "2", Name: "B", Stock: 50, MinStockLevel: 10, Category: "Antibiotics"},
		{ID: "3", Name: "C", Stock: 0, MinStockLevel: 0, Category: "Analgesics"},
	}}
	store := inventory.NewStore(api, newFakeSnaps(), events.NewBus(logger.Nop()), logger.Nop())
	store.FetchAll(context.Background())

	low := store.LowStock()
	require.Len(t, low, 1, "sin umbral configurado no hay alerta, ni con stock 0")
	assert.Equal(t, "1", low[0].ID)

	assert.Equal(t, []string{"Analgesics", "Antibiotics"}, store.Categories())
}
