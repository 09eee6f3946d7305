// Package pos implementa el punto de venta: carrito en memoria de la
// sesión (nunca persistido al backend hasta completar la venta) e
// historial de ventas completadas.
package pos

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lipms-client/internal/domain"
	"github.com/jhoicas/lipms-client/internal/domain/entity"
	"github.com/jhoicas/lipms-client/pkg/logger"
)

// Store carrito POS + historial de ventas.
type Store struct {
	api        SalesAPI
	inventory  Inventory
	supervisor Supervisor
	log        *logger.Logger

	mu    sync.RWMutex
	cart  []entity.CartItem
	sales []entity.Sale
}

// NewStore construye el store. El carrito inicia vacío.
func NewStore(api SalesAPI, inventory Inventory, supervisor Supervisor, log *logger.Logger) *Store {
	return &Store{
		api:        api,
		inventory:  inventory,
		supervisor: supervisor,
		log:        log,
	}
}

// AddToCart agrega una unidad del medicamento al carrito. Si ya hay una
// línea para ese medicamento, incrementa la cantidad. La disponibilidad se
// valida contra la caché de inventario antes de tocar el carrito.
func (s *Store) AddToCart(medicineID string) error {
	medicine, ok := s.inventory.MedicineByID(medicineID)
	if !ok {
		return fmt.Errorf("%w: medicamento %s", domain.ErrNotFound, medicineID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart {
		if s.cart[i].MedicineID != medicineID {
			continue
		}
		if s.cart[i].Quantity+1 > medicine.Stock {
			return fmt.Errorf("%w: %s (stock %d)", domain.ErrInsufficientStock, medicine.Name, medicine.Stock)
		}
		s.cart[i].Quantity++
		s.cart[i].Recalculate()
		return nil
	}

	if medicine.Stock < 1 {
		return fmt.Errorf("%w: %s (stock %d)", domain.ErrInsufficientStock, medicine.Name, medicine.Stock)
	}
	item := entity.CartItem{
		MedicineID:   medicine.ID,
		MedicineName: medicine.Name,
		UnitPrice:    medicine.Price,
		Quantity:     1,
		Discount:     decimal.Zero,
	}
	item.Recalculate()
	s.cart = append(s.cart, item)
	return nil
}

// UpdateCartItem fija cantidad y descuento de una línea y recalcula su
// total. Un descuento por encima del porcentaje máximo configurado exige
// el PIN de supervisor.
func (s *Store) UpdateCartItem(medicineID string, quantity int, discount decimal.Decimal, supervisorPIN string) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: cantidad %d", domain.ErrInvalidInput, quantity)
	}
	if discount.IsNegative() {
		return fmt.Errorf("%w: descuento negativo", domain.ErrInvalidInput)
	}
	if medicine, ok := s.inventory.MedicineByID(medicineID); ok && quantity > medicine.Stock {
		return fmt.Errorf("%w: %s (stock %d)", domain.ErrInsufficientStock, medicine.Name, medicine.Stock)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart {
		if s.cart[i].MedicineID != medicineID {
			continue
		}
		subtotal := s.cart[i].UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
		if err := s.authorizeDiscount(subtotal, discount, supervisorPIN); err != nil {
			return err
		}
		s.cart[i].Quantity = quantity
		s.cart[i].Discount = discount
		s.cart[i].Recalculate()
		return nil
	}
	return fmt.Errorf("%w: línea %s", domain.ErrNotFound, medicineID)
}

// authorizeDiscount exige PIN de supervisor cuando el descuento supera el
// porcentaje máximo del subtotal de la línea.
func (s *Store) authorizeDiscount(subtotal, discount decimal.Decimal, pin string) error {
	if discount.IsZero() || subtotal.IsZero() {
		return nil
	}
	maxPct := s.supervisor.MaxDiscountPct()
	pct := discount.Div(subtotal).Mul(decimal.NewFromInt(100))
	if pct.LessThanOrEqual(maxPct) {
		return nil
	}
	return s.supervisor.VerifySupervisorPIN(pin)
}

// RemoveFromCart elimina la línea del medicamento.
func (s *Store) RemoveFromCart(medicineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].MedicineID == medicineID {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return
		}
	}
}

// ClearCart vacía el carrito.
func (s *Store) ClearCart() {
	s.mu.Lock()
	s.cart = nil
	s.mu.Unlock()
}

// Cart copia de las líneas actuales.
func (s *Store) Cart() []entity.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.CartItem, len(s.cart))
	copy(out, s.cart)
	return out
}

// CartTotal suma de los totales de línea.
func (s *Store) CartTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, it := range s.cart {
		total = total.Add(it.Total)
	}
	return total
}

// CompleteSale registra la venta en el backend. Rechaza el carrito vacío
// antes de tocar la red. Solo si el servidor confirma se antepone la venta
// al historial y se vacía el carrito; si falla, el carrito queda intacto
// para reintentar.
func (s *Store) CompleteSale(ctx context.Context, customerName, paymentMethod, notes string) (entity.Sale, error) {
	s.mu.RLock()
	cart := make([]entity.CartItem, len(s.cart))
	copy(cart, s.cart)
	s.mu.RUnlock()

	if len(cart) == 0 {
		return entity.Sale{}, domain.ErrEmptyCart
	}
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	sale, err := s.api.Create(ctx, customerName, paymentMethod, notes, cart)
	if err != nil {
		return entity.Sale{}, err
	}
	// El backend no devuelve las líneas en la creación con el nombre del
	// medicamento resuelto; el snapshot del carrito es la referencia local.
	if len(sale.Items) == 0 {
		sale.Items = cart
	}

	s.mu.Lock()
	s.sales = append([]entity.Sale{sale}, s.sales...)
	s.cart = nil
	s.mu.Unlock()

	s.log.Info().
		Str("sale_number", sale.SaleNumber).
		Str("total", sale.TotalAmount.String()).
		Msg("venta completada")
	return sale, nil
}

// FetchSales reemplaza el historial con la lista del servidor. Si falla,
// el historial queda intacto y el error solo se registra.
func (s *Store) FetchSales(ctx context.Context) {
	sales, err := s.api.List(ctx, 0, 0)
	if err != nil {
		s.log.Warn().Err(err).Msg("ventas: fetch")
		return
	}
	s.mu.Lock()
	s.sales = sales
	s.mu.Unlock()
}

// Sales copia del historial actual.
func (s *Store) Sales() []entity.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Sale, len(s.sales))
	copy(out, s.sales)
	return out
}

// SaleByID búsqueda pura sobre el historial.
func (s *Store) SaleByID(id string) (entity.Sale, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sale := range s.sales {
		if sale.ID == id {
			return sale, true
		}
	}
	return entity.Sale{}, false
}
