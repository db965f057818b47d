package cart

import (
	"fmt"
	"time"

	"sivik-storefront/shop-svc/internal/domain"
)

// Delivery times are accepted between these bounds, both inclusive.
const (
	WindowOpen  = "10:00"
	WindowClose = "17:00"
)

func ValidateDeliveryWindow(hhmm string) error {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return domain.NewValidationError("deliveryTime", "delivery time must be in HH:MM format")
	}
	open, _ := time.Parse("15:04", WindowOpen)
	closing, _ := time.Parse("15:04", WindowClose)

	if t.Before(open) || t.After(closing) {
		return domain.NewValidationError("deliveryTime",
			fmt.Sprintf("delivery time must be between %s and %s", WindowOpen, WindowClose))
	}
	return nil
}
