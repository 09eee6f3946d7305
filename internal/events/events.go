// Package events implementa el mediador de eventos de dominio.
//
// La creación de un pedido dispara efectos en otros módulos (descuento de
// stock, actividad, notificaciones). En lugar de llamadas cruzadas entre
// stores, el store de pedidos publica un evento y cada módulo interesado se
// suscribe de forma independiente. No hay transacción que abarque a los
// suscriptores: un suscriptor que falla se registra en el log y no detiene
// a los demás ni revierte el pedido.
package events

import (
	"github.com/jhoicas/lipms-client/internal/domain/entity"
)

// Topic identifica un tipo de evento.
type Topic string

const (
	TopicOrderPlaced     Topic = "order.placed"
	TopicOrderDispatched Topic = "order.dispatched"
	TopicStockLow        Topic = "stock.low"
)

// Event evento de dominio publicado en el bus.
type Event interface {
	Topic() Topic
}

// OrderPlaced se publica tras crear un pedido en el backend.
type OrderPlaced struct {
	Order entity.Order
}

func (OrderPlaced) Topic() Topic { return TopicOrderPlaced }

// OrderDispatched se publica tras marcar un pedido como despachado.
type OrderDispatched struct {
	Order          entity.Order
	TrackingNumber string
}

func (OrderDispatched) Topic() Topic { return TopicOrderDispatched }

// StockLow se publica cuando una mutación deja un medicamento en o por
// debajo de su umbral mínimo.
type StockLow struct {
	Medicine entity.Medicine
}

func (StockLow) Topic() Topic { return TopicStockLow }
