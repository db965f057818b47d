// Package cart keeps the customer's selected items and prices them.
package cart

import (
	"context"
	"math"

	"sivik-storefront/shop-svc/internal/domain"
)

type Item struct {
	ID    string
	Name  string
	Price *float64
}

// Line is one distinct item in the cart. Quantity is always at least 1.
type Line struct {
	Item
	Quantity int
}

type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) AddItem(item Item) {
	for i := range c.lines {
		if c.lines[i].ID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{Item: item, Quantity: 1})
}

// UpdateQuantity applies delta to the line with the given id. The line is
// removed once its quantity drops to zero.
func (c *Cart) UpdateQuantity(id string, delta int) {
	for i := range c.lines {
		if c.lines[i].ID != id {
			continue
		}
		qty := c.lines[i].Quantity + delta
		if qty <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
		c.lines[i].Quantity = qty
		return
	}
}

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) Clear() { c.lines = nil }

type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`
}

func ComputeTotal(lines []Line, delivery domain.DeliverySettings) Totals {
	var subtotal float64
	for _, line := range lines {
		if line.Price == nil {
			continue
		}
		subtotal += *line.Price * float64(line.Quantity)
	}
	subtotal = RoundCents(subtotal)

	var fee float64
	if delivery.IsEnabled && subtotal >= delivery.MinOrderAmount {
		fee = RoundCents(delivery.DeliveryFee)
	}

	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       RoundCents(subtotal + fee),
	}
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Submitter places an order built from the cart.
type Submitter interface {
	Submit(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error)
}

// Submit fills req.Items from the cart and hands it to s. The cart is cleared
// only when the order was accepted.
func (c *Cart) Submit(ctx context.Context, s Submitter, req domain.CreateOrderRequest) (*domain.Order, error) {
	if err := ValidateDeliveryWindow(req.DeliveryTime); err != nil {
		return nil, err
	}

	req.Items = make([]domain.OrderItemInput, 0, len(c.lines))
	for _, line := range c.lines {
		req.Items = append(req.Items, domain.OrderItemInput{
			ID:       line.ID,
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}

	order, err := s.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	c.Clear()
	return order, nil
}
