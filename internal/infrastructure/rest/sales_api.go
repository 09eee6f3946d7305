package rest

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jhoicas/lipms-client/internal/domain"
	"github.com/jhoicas/lipms-client/internal/domain/entity"
)

// SalesAPI operaciones del recurso /sales del backend.
type SalesAPI struct {
	client *Client
}

// NewSalesAPI construye el grupo de endpoints de ventas.
func NewSalesAPI(client *Client) *SalesAPI {
	return &SalesAPI{client: client}
}

// List obtiene el historial de ventas.
func (a *SalesAPI) List(ctx context.Context, skip, limit int) ([]entity.Sale, error) {
	query := map[string]string{}
	if skip > 0 {
		query["skip"] = strconv.Itoa(skip)
	}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}

	var wires []saleWire
	if err := a.client.get(ctx, "/sales/", query, &wires); err != nil {
		return nil, err
	}
	sales := make([]entity.Sale, 0, len(wires))
	for _, w := range wires {
		sales = append(sales, w.toEntity())
	}
	return sales, nil
}

// Get obtiene una venta por id.
func (a *SalesAPI) Get(ctx context.Context, id string) (entity.Sale, error) {
	var w saleWire
	if err := a.client.get(ctx, "/sales/"+id, nil, &w); err != nil {
		return entity.Sale{}, err
	}
	return w.toEntity(), nil
}

// Create registra una venta con las líneas del carrito. El servidor asigna
// id, sale_number, total y fecha.
func (a *SalesAPI) Create(ctx context.Context, customerName, paymentMethod, notes string, items []entity.CartItem) (entity.Sale, error) {
	body := saleCreateWire{
		CustomerName:  customerName,
		PaymentMethod: paymentMethod,
		Notes:         notes,
	}
	for _, it := range items {
		numericID, err := parseID(it.MedicineID)
		if err != nil {
			return entity.Sale{}, fmt.Errorf("%w: medicine id %q", domain.ErrInvalidInput, it.MedicineID)
		}
		body.Items = append(body.Items, saleItemCreateWire{
			MedicineID: numericID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			Discount:   it.Discount,
		})
	}
	var w saleWire
	if err := a.client.post(ctx, "/sales/", body, &w); err != nil {
		return entity.Sale{}, err
	}
	return w.toEntity(), nil
}
