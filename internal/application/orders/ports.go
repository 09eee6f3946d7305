package orders

import (
	"context"

	"github.com/jhoicas/lipms-client/internal/application/dto"
	"github.com/jhoicas/lipms-client/internal/domain/entity"
)

// OrdersAPI backend de pedidos que consume el store.
type OrdersAPI interface {
	List(ctx context.Context, params dto.OrderListParams) ([]entity.Order, error)
	Create(ctx context.Context, items []dto.OrderItemInput, notes string) (entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, trackingNumber string) (entity.Order, error)
}

// Snapshots persistencia local del snapshot del store.
type Snapshots interface {
	Save(key string, v any) error
	Load(key string, v any) (found bool, err error)
}
