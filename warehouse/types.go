// Package warehouse is a fixture package whose type names deliberately repeat
// the ones in package store.
package warehouse

import (
	"time"

	"adapter-generator/convert"
)

// Order is a warehouse-side order awaiting shipment.
type Order struct {
	ID        uint
	Reference string
	PackedAt  *time.Time
}

// OrderDto is the transfer shape of Order.
type OrderDto struct {
	Reference string
	Packed    bool
}

// OrderMapper converts warehouse orders; its pair shares simple names with
// store.OrderMapper.
type OrderMapper struct{}

var _ convert.Converter[Order, OrderDto] = OrderMapper{}

func (OrderMapper) Convert(o Order) (OrderDto, error) {
	return OrderDto{Reference: o.Reference, Packed: o.PackedAt != nil}, nil
}

// Repository has a Convert method but is an interface, never a converter.
type Repository interface {
	Convert(o Order) (OrderDto, error)
}

// Shipment has a Convert method of the wrong shape.
type Shipment struct{}

func (Shipment) Convert(o Order, at time.Time) (OrderDto, error) {
	return OrderDto{Reference: o.Reference, Packed: !at.IsZero()}, nil
}

// Labeler returns no error, so it does not satisfy the capability.
type Labeler struct{}

func (Labeler) Convert(o Order) OrderDto {
	return OrderDto{Reference: o.Reference}
}
