package store

import (
	"errors"
	"strings"

	"adapter-generator/convert"
)

var (
	_ convert.Converter[Order, OrderDto]        = OrderMapper{}
	_ convert.Converter[*Customer, CustomerDto] = (*CustomerMapper)(nil)
	_ convert.Converter[string, OrderStatus]    = statusParser{}
)

// OrderMapper converts orders into transfer objects.
type OrderMapper struct{}

func (OrderMapper) Convert(o Order) (OrderDto, error) {
	return OrderDto{ID: o.ID, Status: string(o.Status), Total: float64(o.TotalCents) / 100}, nil
}

// CustomerMapper has a pointer receiver and a pointer source.
type CustomerMapper struct {
	lowercase bool
}

func (m *CustomerMapper) Convert(c *Customer) (CustomerDto, error) {
	if c == nil {
		return CustomerDto{}, errors.New("nil customer")
	}

	email := c.Email
	if m.lowercase {
		email = strings.ToLower(email)
	}

	return CustomerDto{ID: c.ID, Email: email}, nil
}

type statusParser struct{}

func (statusParser) Convert(s string) (OrderStatus, error) {
	return OrderStatus(strings.ToUpper(s)), nil
}
