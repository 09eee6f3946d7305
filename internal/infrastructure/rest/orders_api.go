package rest

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jhoicas/lipms-client/internal/application/dto"
	"github.com/jhoicas/lipms-client/internal/domain"
	"github.com/jhoicas/lipms-client/internal/domain/entity"
)

// OrdersAPI operaciones del recurso /orders del backend.
type OrdersAPI struct {
	client *Client
}

// NewOrdersAPI construye el grupo de endpoints de pedidos.
func NewOrdersAPI(client *Client) *OrdersAPI {
	return &OrdersAPI{client: client}
}

// List obtiene los pedidos visibles para el usuario autenticado.
func (a *OrdersAPI) List(ctx context.Context, params dto.OrderListParams) ([]entity.Order, error) {
	query := map[string]string{}
	if params.Skip > 0 {
		query["skip"] = strconv.Itoa(params.Skip)
	}
	if params.Limit > 0 {
		query["limit"] = strconv.Itoa(params.Limit)
	}
	if params.Status != "" {
		query["status"] = string(params.Status)
	}

	var wires []orderWire
	if err := a.client.get(ctx, "/orders/", query, &wires); err != nil {
		return nil, err
	}
	orders := make([]entity.Order, 0, len(wires))
	for _, w := range wires {
		orders = append(orders, w.toEntity())
	}
	return orders, nil
}

// Get obtiene un pedido por id.
func (a *OrdersAPI) Get(ctx context.Context, id string) (entity.Order, error) {
	var w orderWire
	if err := a.client.get(ctx, "/orders/"+id, nil, &w); err != nil {
		return entity.Order{}, err
	}
	return w.toEntity(), nil
}

// Create crea un pedido. El servidor asigna id, número, estado (pending),
// fecha y total.
func (a *OrdersAPI) Create(ctx context.Context, items []dto.OrderItemInput, notes string) (entity.Order, error) {
	body := orderCreateWire{Notes: notes}
	for _, it := range items {
		numericID, err := parseID(it.MedicineID)
		if err != nil {
			return entity.Order{}, fmt.Errorf("%w: medicine id %q", domain.ErrInvalidInput, it.MedicineID)
		}
		body.Items = append(body.Items, orderItemCreateWire{
			MedicineID: numericID,
			Quantity:   it.Quantity,
		})
	}
	var w orderWire
	if err := a.client.post(ctx, "/orders/", body, &w); err != nil {
		return entity.Order{}, err
	}
	return w.toEntity(), nil
}

// UpdateStatus cambia el estado de un pedido, con tracking number opcional.
func (a *OrdersAPI) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, trackingNumber string) (entity.Order, error) {
	body := orderStatusWire{
		Status:         string(status),
		TrackingNumber: trackingNumber,
	}
	var w orderWire
	if err := a.client.patch(ctx, "/orders/"+id+"/status", body, &w); err != nil {
		return entity.Order{}, err
	}
	return w.toEntity(), nil
}
