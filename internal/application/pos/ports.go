package pos

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lipms-client/internal/domain/entity"
)

// SalesAPI backend de ventas que consume el store.
type SalesAPI interface {
	List(ctx context.Context, skip, limit int) ([]entity.Sale, error)
	Create(ctx context.Context, customerName, paymentMethod, notes string, items []entity.CartItem) (entity.Sale, error)
}

// Inventory caché de medicamentos para validar disponibilidad del carrito.
type Inventory interface {
	MedicineByID(id string) (entity.Medicine, bool)
}

// Supervisor autorización de descuentos por encima del límite configurado.
type Supervisor interface {
	MaxDiscountPct() decimal.Decimal
	VerifySupervisorPIN(pin string) error
}
