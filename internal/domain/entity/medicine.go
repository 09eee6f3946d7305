package entity

import "github.com/shopspring/decimal"

// Medicine representa un medicamento del inventario de la farmacia.
// Stock se muta únicamente vía la operación add/subtract del backend;
// MinStockLevel alimenta la derivación de stock bajo.
type Medicine struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Description          string          `json:"description,omitempty"`
	Price                decimal.Decimal `json:"price"`
	Stock                int             `json:"stock"` // nunca negativo; el backend hace clamp a 0
	Category             string          `json:"category"`
	Manufacturer         string          `json:"manufacturer"`
	Dosage               string          `json:"dosage,omitempty"`
	PrescriptionRequired bool            `json:"prescription"`
	MinStockLevel        int             `json:"minStockLevel,omitempty"` // 0 = sin umbral configurado
	MaxStockLevel        int             `json:"maxStockLevel,omitempty"`
}

// IsLowStock indica si el medicamento está en o por debajo de su umbral mínimo.
func (m Medicine) IsLowStock() bool {
	return m.MinStockLevel > 0 && m.Stock <= m.MinStockLevel
}

// StockOperation operación sobre el stock de un medicamento.
type StockOperation string

const (
	StockAdd      StockOperation = "add"
	StockSubtract StockOperation = "subtract"
)

// Valid indica si la operación es una de las soportadas por el backend.
func (op StockOperation) Valid() bool {
	return op == StockAdd || op == StockSubtract
}
