package domain

import "github.com/shopspring/decimal"

// OrderStatus is the server-assigned order state.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderItem is one line of a placed order.
type OrderItem struct {
	ProductID ID              `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Order is created by the server on checkout submission. The client treats
// it as read-only afterward; TotalPrice is the binding, server-computed
// total.
type Order struct {
	ID         ID              `json:"id"`
	Status     OrderStatus     `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Items      []OrderItem     `json:"items"`
}
