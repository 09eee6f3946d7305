package rest

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lipms-client/internal/domain/entity"
)

// Tipos de cable del backend LIPMS (FastAPI): snake_case e ids numéricos.
// El mapeo a entidades (ids string) vive en este paquete; el resto del
// cliente no conoce el esquema de cable.

type medicineWire struct {
	ID                   int64           `json:"id"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	Price                decimal.Decimal `json:"price"`
	Stock                int             `json:"stock"`
	Category             string          `json:"category"`
	Manufacturer         string          `json:"manufacturer"`
	Dosage               string          `json:"dosage"`
	PrescriptionRequired bool            `json:"prescription_required"`
	MinStockLevel        int             `json:"min_stock_level"`
	MaxStockLevel        int             `json:"max_stock_level"`
}

func (w medicineWire) toEntity() entity.Medicine {
	return entity.Medicine{
		ID:                   strconv.FormatInt(w.ID, 10),
		Name:                 w.Name,
		Description:          w.Description,
		Price:                w.Price,
		Stock:                w.Stock,
		Category:             w.Category,
		Manufacturer:         w.Manufacturer,
		Dosage:               w.Dosage,
		PrescriptionRequired: w.PrescriptionRequired,
		MinStockLevel:        w.MinStockLevel,
		MaxStockLevel:        w.MaxStockLevel,
	}
}

type medicineCreateWire struct {
	Name                 string          `json:"name"`
	Description          string          `json:"description,omitempty"`
	Price                decimal.Decimal `json:"price"`
	Stock                int             `json:"stock"`
	Category             string          `json:"category"`
	Manufacturer         string          `json:"manufacturer"`
	Dosage               string          `json:"dosage,omitempty"`
	PrescriptionRequired bool            `json:"prescription_required"`
	MinStockLevel        int             `json:"min_stock_level"`
	MaxStockLevel        int             `json:"max_stock_level"`
}

type stockUpdateWire struct {
	MedicineID int64  `json:"medicine_id"`
	Quantity   int    `json:"quantity"`
	Operation  string `json:"operation"`
}

type orderItemWire struct {
	MedicineID   int64           `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

type orderWire struct {
	ID             int64           `json:"id"`
	OrderNumber    string          `json:"order_number"`
	Status         string          `json:"status"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Notes          string          `json:"notes"`
	TrackingNumber string          `json:"tracking_number"`
	CreatedAt      time.Time       `json:"created_at"`
	CustomerID     int64           `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	CustomerEmail  string          `json:"customer_email"`
	CompanyName    string          `json:"company_name"`
	Items          []orderItemWire `json:"items"`
}

func (w orderWire) toEntity() entity.Order {
	items := make([]entity.OrderItem, 0, len(w.Items))
	for _, it := range w.Items {
		items = append(items, entity.OrderItem{
			MedicineID:   strconv.FormatInt(it.MedicineID, 10),
			MedicineName: it.MedicineName,
			Price:        it.UnitPrice,
			Quantity:     it.Quantity,
			Total:        it.TotalPrice,
		})
	}
	return entity.Order{
		ID:             strconv.FormatInt(w.ID, 10),
		CustomerID:     strconv.FormatInt(w.CustomerID, 10),
		CustomerName:   w.CustomerName,
		CustomerEmail:  w.CustomerEmail,
		CompanyName:    w.CompanyName,
		Items:          items,
		TotalAmount:    w.TotalAmount,
		Status:         entity.OrderStatus(w.Status),
		OrderDate:      w.CreatedAt,
		Notes:          w.Notes,
		TrackingNumber: w.TrackingNumber,
	}
}

type orderItemCreateWire struct {
	MedicineID int64 `json:"medicine_id"`
	Quantity   int   `json:"quantity"`
}

type orderCreateWire struct {
	Items []orderItemCreateWire `json:"items"`
	Notes string                `json:"notes,omitempty"`
}

type orderStatusWire struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

type saleItemWire struct {
	MedicineID   int64           `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

type saleWire struct {
	ID            int64           `json:"id"`
	SaleNumber    string          `json:"sale_number"`
	CustomerName  string          `json:"customer_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	Items         []saleItemWire  `json:"items"`
}

func (w saleWire) toEntity() entity.Sale {
	items := make([]entity.CartItem, 0, len(w.Items))
	for _, it := range w.Items {
		items = append(items, entity.CartItem{
			MedicineID:   strconv.FormatInt(it.MedicineID, 10),
			MedicineName: it.MedicineName,
			UnitPrice:    it.UnitPrice,
			Quantity:     it.Quantity,
			Discount:     it.Discount,
			Total:        it.TotalPrice,
		})
	}
	return entity.Sale{
		ID:            strconv.FormatInt(w.ID, 10),
		SaleNumber:    w.SaleNumber,
		CustomerName:  w.CustomerName,
		Items:         items,
		TotalAmount:   w.TotalAmount,
		PaymentMethod: w.PaymentMethod,
		Notes:         w.Notes,
		CreatedAt:     w.CreatedAt,
	}
}

type saleItemCreateWire struct {
	MedicineID int64           `json:"medicine_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Discount   decimal.Decimal `json:"discount"`
}

type saleCreateWire struct {
	CustomerName  string               `json:"customer_name,omitempty"`
	PaymentMethod string               `json:"payment_method"`
	Items         []saleItemCreateWire `json:"items"`
	Notes         string               `json:"notes,omitempty"`
}

type userWire struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url"`
}

func (w userWire) toEntity() entity.User {
	return entity.User{
		ID:     strconv.FormatInt(w.ID, 10),
		Email:  w.Email,
		Name:   w.Name,
		Role:   entity.Role(w.Role),
		Avatar: w.AvatarURL,
	}
}

type loginWire struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenWire struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        userWire `json:"user"`
}

type userUpdateWire struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// parseID convierte un id de entidad (string) al id numérico del backend.
func parseID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}
