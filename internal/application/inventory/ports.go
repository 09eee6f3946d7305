package inventory

import (
	"context"

	"github.com/jhoicas/lipms-client/internal/application/dto"
	"github.com/jhoicas/lipms-client/internal/domain/entity"
)

// MedicinesAPI backend de medicamentos que consume el store.
type MedicinesAPI interface {
	List(ctx context.Context, params dto.MedicineListParams) ([]entity.Medicine, error)
	Create(ctx context.Context, m entity.Medicine) (entity.Medicine, error)
	Update(ctx context.Context, m entity.Medicine) (entity.Medicine, error)
	Delete(ctx context.Context, id string) error
	UpdateStock(ctx context.Context, id string, quantity int, op entity.StockOperation) (entity.Medicine, error)
	LowStock(ctx context.Context) ([]entity.Medicine, error)
}

// Snapshots persistencia local del snapshot del store.
type Snapshots interface {
	Save(key string, v any) error
	Load(key string, v any) (found bool, err error)
}
