// Package dto tipos de entrada/salida compartidos entre los stores y el
// cliente REST.
package dto

import "github.com/jhoicas/lipms-client/internal/domain/entity"

// MedicineListParams filtros del listado de medicamentos.
type MedicineListParams struct {
	Skip     int
	Limit    int
	Search   string
	Category string
}

// OrderListParams filtros del listado de pedidos.
type OrderListParams struct {
	Skip   int
	Limit  int
	Status entity.OrderStatus
}

// OrderItemInput línea a incluir en la creación de un pedido.
type OrderItemInput struct {
	MedicineID string
	Quantity   int
}

// ProfileUpdate campos modificables del perfil; vacío = sin cambio.
type ProfileUpdate struct {
	Name   string
	Email  string
	Avatar string
}
