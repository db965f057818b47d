package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sivik-storefront/shop-svc/internal/cart"
	"sivik-storefront/shop-svc/internal/domain"
	"sivik-storefront/shop-svc/internal/metrics"

	"github.com/google/uuid"
)

type OrderService struct {
	orders    OrderRepository
	payments  PaymentRepository
	settings  SettingsRepository
	publisher EventPublisher
	qr        QRGenerator
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

type OrderDeps struct {
	Orders    OrderRepository
	Payments  PaymentRepository
	Settings  SettingsRepository
	Publisher EventPublisher // optional
	QR        QRGenerator
	Metrics   *metrics.Metrics // optional
	Logger    *slog.Logger
	Now       func() time.Time // defaults to time.Now
}

func NewOrderService(deps OrderDeps) *OrderService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &OrderService{
		orders:    deps.Orders,
		payments:  deps.Payments,
		settings:  deps.Settings,
		publisher: deps.Publisher,
		qr:        deps.QR,
		metrics:   deps.Metrics,
		logger:    logger,
		now:       now,
	}
}

// Submit prices the order from the submitted lines and the current delivery
// settings. Any total the client computed is ignored.
func (s *OrderService) Submit(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Address = strings.TrimSpace(req.Address)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := cart.ValidateDeliveryWindow(req.DeliveryTime); err != nil {
		return nil, err
	}
	if err := s.checkDeliveryDate(req.DeliveryDate); err != nil {
		return nil, err
	}

	ordering, err := s.settings.GetOrderingSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ordering settings: %w", err)
	}
	if !ordering.IsEnabled {
		return nil, domain.NewValidationError("ordering", "online ordering is currently disabled")
	}

	method, err := s.payments.GetPaymentMethod(ctx, req.PaymentMethod)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewValidationError("paymentMethod", "unknown payment method")
	}
	if err != nil {
		return nil, fmt.Errorf("load payment method: %w", err)
	}
	if !method.IsEnabled {
		return nil, domain.NewValidationError("paymentMethod", "payment method is not available")
	}

	delivery, err := s.settings.GetDeliverySettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load delivery settings: %w", err)
	}

	lines := make([]cart.Line, 0, len(req.Items))
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, in := range req.Items {
		lines = append(lines, cart.Line{
			Item:     cart.Item{ID: in.ID, Name: in.Name, Price: in.Price},
			Quantity: in.Quantity,
		})
		var price float64
		if in.Price != nil {
			price = cart.RoundCents(*in.Price)
		}
		items = append(items, domain.OrderItem{ID: in.ID, Name: in.Name, Quantity: in.Quantity, Price: price})
	}
	totals := cart.ComputeTotal(lines, delivery)

	order := &domain.Order{
		PublicRef:     uuid.NewString(),
		CustomerName:  req.CustomerName,
		Address:       req.Address,
		Phone:         req.Phone,
		DeliveryDate:  req.DeliveryDate,
		DeliveryTime:  req.DeliveryTime,
		PaymentMethod: req.PaymentMethod,
		Items:         items,
		Subtotal:      totals.Subtotal,
		DeliveryFee:   totals.DeliveryFee,
		Total:         totals.Total,
		Status:        domain.StatusPending,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.metrics.OrderCreated()
	s.publish(ctx, order, domain.EventOrderCreated)
	return order, nil
}

// checkDeliveryDate accepts tomorrow onward, in the shop's local time.
func (s *OrderService) checkDeliveryDate(date string) error {
	now := s.now()
	day, err := time.ParseInLocation(domain.DateLayout, date, now.Location())
	if err != nil {
		return domain.NewValidationError("deliveryDate", "must match the "+domain.DateLayout+" format")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !day.After(today) {
		return domain.NewValidationError("deliveryDate", "must be tomorrow or later")
	}
	return nil
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}
	order, err := s.orders.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.metrics.StatusChanged(string(status))
	s.publish(ctx, order, domain.EventOrderStatusChanged)
	return order, nil
}

func (s *OrderService) Track(ctx context.Context, ref string) (*domain.OrderTracking, error) {
	order, err := s.findByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &domain.OrderTracking{
		PublicRef:    order.PublicRef,
		Status:       order.Status,
		DeliveryDate: order.DeliveryDate,
		DeliveryTime: order.DeliveryTime,
		Total:        order.Total,
		CreatedAt:    order.CreatedAt,
	}, nil
}

// QRCode renders a PNG that links to the tracking page of the order.
func (s *OrderService) QRCode(ctx context.Context, ref string) ([]byte, error) {
	order, err := s.findByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	png, err := s.qr.Generate(order.PublicRef)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}
	return png, nil
}

func (s *OrderService) findByRef(ctx context.Context, ref string) (*domain.Order, error) {
	if _, err := uuid.Parse(ref); err != nil {
		return nil, domain.ErrNotFound
	}
	return s.orders.GetOrderByRef(ctx, ref)
}

// publish is best effort: the order is already stored, so a broker failure
// is only logged.
func (s *OrderService) publish(ctx context.Context, order *domain.Order, eventType string) {
	if s.publisher == nil {
		return
	}
	event := domain.OrderEvent{
		Type:      eventType,
		OrderID:   order.ID,
		Status:    order.Status,
		Total:     order.Total,
		Timestamp: s.now().UTC(),
	}
	if eventType == domain.EventOrderCreated {
		for _, it := range order.Items {
			event.Items = append(event.Items, domain.OrderEventItem{Name: it.Name, Quantity: it.Quantity})
		}
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		s.logger.Warn("publish order event failed",
			"order_id", order.ID, "type", eventType, "error", err)
	}
}
