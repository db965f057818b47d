package cart

import (
	"context"
	"errors"
	"testing"

	"sivik-storefront/shop-svc/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v float64) *float64 { return &v }

func TestCart_AddItemIncrementsExistingLine(t *testing.T) {
	for _, calls := range []int{1, 2, 5} {
		c := New()
		for i := 0; i < calls; i++ {
			c.AddItem(Item{ID: "c1", Name: "Czeburek", Price: price(10)})
		}

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, calls, lines[0].Quantity)
	}
}

func TestCart_AddItemKeepsDistinctLines(t *testing.T) {
	c := New()
	c.AddItem(Item{ID: "c1"})
	c.AddItem(Item{ID: "d1"})
	c.AddItem(Item{ID: "c1"})

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "c1", lines[0].ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "d1", lines[1].ID)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestCart_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		deltas  []int
		wantQty int
		removed bool
	}{
		{name: "increment", start: 1, deltas: []int{2}, wantQty: 3},
		{name: "decrement to zero removes", start: 2, deltas: []int{-1, -1}, removed: true},
		{name: "overshoot clamps and removes", start: 1, deltas: []int{-5}, removed: true},
		{name: "down then up", start: 3, deltas: []int{-2, 1}, wantQty: 2},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			c := New()
			for i := 0; i < testCase.start; i++ {
				c.AddItem(Item{ID: "p1"})
			}
			for _, delta := range testCase.deltas {
				c.UpdateQuantity("p1", delta)
			}

			if testCase.removed {
				assert.Equal(t, 0, c.Len())
				return
			}
			require.Equal(t, 1, c.Len())
			assert.Equal(t, testCase.wantQty, c.Lines()[0].Quantity)
		})
	}
}

func TestCart_UpdateQuantityNeverNegative(t *testing.T) {
	c := New()
	c.AddItem(Item{ID: "p1"})
	c.UpdateQuantity("p1", -1)
	c.UpdateQuantity("p1", -1)

	assert.Equal(t, 0, c.Len())
	for _, line := range c.Lines() {
		assert.GreaterOrEqual(t, line.Quantity, 1)
	}
}

func TestCart_UpdateQuantityUnknownID(t *testing.T) {
	c := New()
	c.AddItem(Item{ID: "p1"})
	c.UpdateQuantity("missing", -1)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Lines()[0].Quantity)
}

func TestComputeTotal(t *testing.T) {
	lines := []Line{
		{Item: Item{ID: "c1", Price: price(10)}, Quantity: 2},
		{Item: Item{ID: "d1", Price: price(5)}, Quantity: 1},
	}

	tests := []struct {
		name     string
		lines    []Line
		delivery domain.DeliverySettings
		want     Totals
	}{
		{
			name:     "delivery disabled",
			lines:    lines,
			delivery: domain.DeliverySettings{IsEnabled: false, MinOrderAmount: 0, DeliveryFee: 9.99},
			want:     Totals{Subtotal: 25, DeliveryFee: 0, Total: 25},
		},
		{
			name:     "below minimum adds no fee",
			lines:    lines,
			delivery: domain.DeliverySettings{IsEnabled: true, MinOrderAmount: 30, DeliveryFee: 7},
			want:     Totals{Subtotal: 25, DeliveryFee: 0, Total: 25},
		},
		{
			name:     "at minimum adds fee",
			lines:    lines,
			delivery: domain.DeliverySettings{IsEnabled: true, MinOrderAmount: 25, DeliveryFee: 7},
			want:     Totals{Subtotal: 25, DeliveryFee: 7, Total: 32},
		},
		{
			name:     "above minimum adds fee",
			lines:    lines,
			delivery: domain.DeliverySettings{IsEnabled: true, MinOrderAmount: 20, DeliveryFee: 7.5},
			want:     Totals{Subtotal: 25, DeliveryFee: 7.5, Total: 32.5},
		},
		{
			name: "missing price counts as zero",
			lines: []Line{
				{Item: Item{ID: "x"}, Quantity: 3},
				{Item: Item{ID: "y", Price: price(1.1)}, Quantity: 3},
			},
			want: Totals{Subtotal: 3.3, Total: 3.3},
		},
		{
			name: "empty cart",
			want: Totals{},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, ComputeTotal(testCase.lines, testCase.delivery))
		})
	}
}

func TestValidateDeliveryWindow(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"09:59", true},
		{"10:00", false},
		{"14:00", false},
		{"17:00", false},
		{"17:01", true},
		{"18:00", true},
		{"asap", true},
		{"", true},
	}

	for _, testCase := range tests {
		t.Run(testCase.input, func(t *testing.T) {
			err := ValidateDeliveryWindow(testCase.input)
			if !testCase.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "deliveryTime", verr.Field)
		})
	}
}

type stubSubmitter struct {
	calls int
	got   domain.CreateOrderRequest
	err   error
}

func (s *stubSubmitter) Submit(_ context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	s.calls++
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{ID: 1, Status: domain.StatusPending}, nil
}

func TestCart_Submit(t *testing.T) {
	t.Run("success clears cart", func(t *testing.T) {
		c := New()
		c.AddItem(Item{ID: "c1", Name: "Czeburek", Price: price(10)})
		c.AddItem(Item{ID: "c1", Name: "Czeburek", Price: price(10)})
		sub := &stubSubmitter{}

		order, err := c.Submit(context.Background(), sub, domain.CreateOrderRequest{DeliveryTime: "12:30"})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, order.Status)
		assert.Equal(t, 0, c.Len())
		require.Len(t, sub.got.Items, 1)
		assert.Equal(t, 2, sub.got.Items[0].Quantity)
	})

	t.Run("window error keeps cart and skips submit", func(t *testing.T) {
		c := New()
		c.AddItem(Item{ID: "c1"})
		sub := &stubSubmitter{}

		_, err := c.Submit(context.Background(), sub, domain.CreateOrderRequest{DeliveryTime: "18:00"})

		assert.Error(t, err)
		assert.Equal(t, 0, sub.calls)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("submit failure keeps cart", func(t *testing.T) {
		c := New()
		c.AddItem(Item{ID: "c1"})
		sub := &stubSubmitter{err: errors.New("boom")}

		_, err := c.Submit(context.Background(), sub, domain.CreateOrderRequest{DeliveryTime: "11:00"})

		assert.Error(t, err)
		assert.Equal(t, 1, c.Len())
	})
}
