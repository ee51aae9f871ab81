// Package store is a fixture package: domain types of an online store and
// the converters that turn them into transfer objects.
package store

import "time"

// Customer represents the user placing orders.
type Customer struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	FullName string  `json:"full_name"`
	Address  *string `json:"address"`
}

// Order represents a transaction made by a customer.
type Order struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customer_id"`
	Status     OrderStatus `json:"status"`
	TotalCents int64       `json:"total_cents"`
	OrderedAt  time.Time   `json:"ordered_at"`
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// OrderDto is the transfer shape of Order.
type OrderDto struct {
	ID     int64
	Status string
	Total  float64
}

// CustomerDto is the transfer shape of Customer.
type CustomerDto struct {
	ID    int64
	Email string
}
