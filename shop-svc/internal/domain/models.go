package domain

import "time"

// DateLayout is the wire format of delivery dates.
const DateLayout = "2006-01-02"

type MenuItem struct {
	ID          int       `json:"id"`
	ExternalID  *string   `json:"external_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Calories    *int      `json:"calories"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	IsEnabled   bool      `json:"is_enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MenuItemRequest is the body of a new menu item. A missing IsEnabled means
// enabled.
type MenuItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Calories    *int    `json:"calories" validate:"omitnil,gte=0"`
	Category    string  `json:"category" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	IsEnabled   *bool   `json:"isEnabled"`
}

// MenuItemPatch carries a partial update; nil fields are left untouched.
// ClearCalories resets calories to unknown and cannot be combined with
// Calories.
type MenuItemPatch struct {
	Name          *string  `json:"name" validate:"omitnil,min=1"`
	Description   *string  `json:"description"`
	ImageURL      *string  `json:"imageUrl"`
	Calories      *int     `json:"calories" validate:"omitnil,gte=0"`
	ClearCalories bool     `json:"clearCalories" validate:"excluded_with=Calories"`
	Category      *string  `json:"category" validate:"omitnil,min=1"`
	Price         *float64 `json:"price" validate:"omitnil,gte=0"`
	IsEnabled     *bool    `json:"isEnabled"`
}

func (p MenuItemPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.ImageURL == nil && p.Calories == nil &&
		!p.ClearCalories && p.Category == nil && p.Price == nil && p.IsEnabled == nil
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusPreparing  OrderStatus = "preparing"
	StatusReady      OrderStatus = "ready"
	StatusInDelivery OrderStatus = "in_delivery"
	StatusDelivered  OrderStatus = "delivered"
	StatusPaid       OrderStatus = "paid"
	StatusCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	StatusPending, StatusPreparing, StatusReady, StatusInDelivery,
	StatusDelivered, StatusPaid, StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Order struct {
	ID            int         `json:"id"`
	PublicRef     string      `json:"public_ref"`
	CustomerName  string      `json:"customer_name"`
	Address       string      `json:"address"`
	Phone         *string     `json:"phone"`
	DeliveryDate  string      `json:"delivery_date"`
	DeliveryTime  string      `json:"delivery_time"`
	PaymentMethod string      `json:"payment_method"`
	Items         []OrderItem `json:"items"`
	Subtotal      float64     `json:"subtotal"`
	DeliveryFee   float64     `json:"delivery_fee"`
	Total         float64     `json:"total"`
	Status        OrderStatus `json:"status"`
	QRCode        string      `json:"qr_code,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// OrderItem is the snapshot of a cart line captured when the order is placed.
type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderTracking is the public view of an order looked up by its reference.
type OrderTracking struct {
	PublicRef    string      `json:"public_ref"`
	Status       OrderStatus `json:"status"`
	DeliveryDate string      `json:"delivery_date"`
	DeliveryTime string      `json:"delivery_time"`
	Total        float64     `json:"total"`
	CreatedAt    time.Time   `json:"created_at"`
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleWrite    Role = "write"
	RoleReadOnly Role = "read_only"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleWrite || r == RoleReadOnly
}

type Capabilities struct {
	CanManageUsers        bool `json:"can_manage_users"`
	CanManageIntegrations bool `json:"can_manage_integrations"`
	CanManagePayments     bool `json:"can_manage_payments"`
	CanManageDelivery     bool `json:"can_manage_delivery"`
}

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	Capabilities
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserPatch struct {
	Username              *string `json:"username"`
	Password              *string `json:"password"`
	Role                  *Role   `json:"role"`
	CanManageUsers        *bool   `json:"can_manage_users"`
	CanManageIntegrations *bool   `json:"can_manage_integrations"`
	CanManagePayments     *bool   `json:"can_manage_payments"`
	CanManageDelivery     *bool   `json:"can_manage_delivery"`
}

type PaymentMethod struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	IsEnabled   bool   `json:"is_enabled"`
}

type DeliverySettings struct {
	IsEnabled      bool    `json:"is_enabled"`
	MinOrderAmount float64 `json:"min_order_amount"`
	DeliveryFee    float64 `json:"delivery_fee"`
}

type DeliverySettingsPatch struct {
	IsEnabled      *bool    `json:"isEnabled"`
	MinOrderAmount *float64 `json:"minOrderAmount" validate:"omitnil,gte=0"`
	DeliveryFee    *float64 `json:"deliveryFee" validate:"omitnil,gte=0"`
}

type OrderingSettings struct {
	IsEnabled bool `json:"is_enabled"`
}

type IntegrationSettings struct {
	PlatformURL          string     `json:"platform_url"`
	APIKey               string     `json:"api_key"`
	RestaurantExternalID string     `json:"restaurant_external_id"`
	RestaurantAddress    string     `json:"restaurant_address"`
	RestaurantPhone      string     `json:"restaurant_phone"`
	Currency             string     `json:"currency"`
	LastSyncAt           *time.Time `json:"last_sync_at"`
}

type IntegrationSettingsPatch struct {
	PlatformURL          *string `json:"platformUrl"`
	APIKey               *string `json:"apiKey"`
	RestaurantExternalID *string `json:"restaurantExternalId"`
	RestaurantAddress    *string `json:"restaurantAddress"`
	RestaurantPhone      *string `json:"restaurantPhone"`
	Currency             *string `json:"currency"`
}

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
)

type OrderEventItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type OrderEvent struct {
	Type      string           `json:"type"`
	OrderID   int              `json:"order_id"`
	Status    OrderStatus      `json:"status"`
	Total     float64          `json:"total"`
	Items     []OrderEventItem `json:"items,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

type CreateOrderRequest struct {
	CustomerName  string           `json:"customerName" validate:"required,max=255"`
	Address       string           `json:"address" validate:"required"`
	Phone         *string          `json:"phone" validate:"omitempty,max=50"`
	DeliveryDate  string           `json:"deliveryDate" validate:"required,datetime=2006-01-02"`
	DeliveryTime  string           `json:"deliveryTime" validate:"required"`
	PaymentMethod string           `json:"paymentMethod" validate:"required"`
	Items         []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

type OrderItemInput struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name" validate:"required"`
	Quantity int      `json:"quantity" validate:"min=1"`
	Price    *float64 `json:"price" validate:"omitempty,gte=0"`
}
