package entity

import "github.com/shopspring/decimal"

// Settings configuración local de la farmacia (página de ajustes).
// SupervisorPINHash guarda solo el hash bcrypt del PIN, nunca el PIN plano.
type Settings struct {
	PharmacyName      string          `json:"pharmacyName"`
	Address           string          `json:"address,omitempty"`
	Currency          string          `json:"currency"`
	LowStockAlerts    bool            `json:"lowStockAlerts"`
	MaxDiscountPct    decimal.Decimal `json:"maxDiscountPct"` // sobre este porcentaje se exige PIN de supervisor
	SupervisorPINHash string          `json:"supervisorPinHash,omitempty"`
}

// DefaultSettings valores iniciales antes de que el usuario configure nada.
func DefaultSettings() Settings {
	return Settings{
		PharmacyName:   "LIPMS Pharmacy",
		Currency:       "USD",
		LowStockAlerts: true,
		MaxDiscountPct: decimal.NewFromInt(10),
	}
}
