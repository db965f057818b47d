package tests

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpapi "sivik-storefront/shop-svc/internal/api/http"
	"sivik-storefront/shop-svc/internal/auth"
	"sivik-storefront/shop-svc/internal/cart"
	"sivik-storefront/shop-svc/internal/domain"
	"sivik-storefront/shop-svc/internal/metrics"
	"sivik-storefront/shop-svc/internal/mocks"
	"sivik-storefront/shop-svc/internal/service"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	menu      *mocks.MenuRepository
	orders    *mocks.OrderRepository
	users     *mocks.UserRepository
	payments  *mocks.PaymentRepository
	settings  *mocks.SettingsRepository
	sessions  *mocks.SessionStore
	publisher *mocks.EventPublisher
	partner   *mocks.PartnerClient
	qr        *mocks.QRGenerator
	router    *mux.Router
}

func newAPI(t *testing.T) *apiFixture {
	f := &apiFixture{
		menu:      mocks.NewMenuRepository(t),
		orders:    mocks.NewOrderRepository(t),
		users:     mocks.NewUserRepository(t),
		payments:  mocks.NewPaymentRepository(t),
		settings:  mocks.NewSettingsRepository(t),
		sessions:  mocks.NewSessionStore(t),
		publisher: mocks.NewEventPublisher(t),
		partner:   mocks.NewPartnerClient(t),
		qr:        mocks.NewQRGenerator(t),
	}
	m := metrics.New()
	handler := httpapi.NewHandler(httpapi.Services{
		Auth: service.NewAuthService(f.users, f.sessions),
		Menu: service.NewMenuService(f.menu),
		Orders: service.NewOrderService(service.OrderDeps{
			Orders: f.orders, Payments: f.payments, Settings: f.settings,
			Publisher: f.publisher, QR: f.qr, Metrics: m, Logger: quietLogger,
			Now: fixedNow,
		}),
		Users:    service.NewUserService(f.users),
		Settings: service.NewSettingsService(f.settings, f.payments),
		Sync: service.NewSyncService(service.SyncDeps{
			Menu: f.menu, Settings: f.settings, Partner: f.partner,
			ImportKey: "import-key", RestaurantName: "SIVIK", Metrics: m, Logger: quietLogger,
		}),
	}, httpapi.Options{Metrics: m, Logger: quietLogger})

	f.router = mux.NewRouter()
	handler.RegisterRoutes(f.router)
	return f
}

// signIn makes the session store resolve sid to a principal with the role.
func (f *apiFixture) signIn(sid string, p *auth.Principal) {
	f.sessions.On("Get", mock.Anything, sid).Return(p, nil).Maybe()
}

func (f *apiFixture) do(method, path, body, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestPermissionGuards(t *testing.T) {
	readOnly := &auth.Principal{UserID: 1, Username: "viewer", Role: domain.RoleReadOnly}
	payments := &auth.Principal{UserID: 2, Username: "cashier", Role: domain.RoleReadOnly,
		Capabilities: domain.Capabilities{CanManagePayments: true}}
	writer := &auth.Principal{UserID: 3, Username: "cook", Role: domain.RoleWrite}

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		sid      string
		wantCode int
	}{
		{"no session on orders", "GET", "/api/orders", "", "", http.StatusUnauthorized},
		{"expired session", "GET", "/api/orders", "", "gone", http.StatusUnauthorized},
		{"read_only cannot change status", "PATCH", "/api/orders/1/status", `{"status":"ready"}`, "ro", http.StatusForbidden},
		{"read_only cannot list users", "GET", "/api/users", "", "ro", http.StatusForbidden},
		{"read_only cannot edit menu", "POST", "/api/admin/menu-items", `{"name":"x"}`, "ro", http.StatusForbidden},
		{"write cannot create menu items", "POST", "/api/admin/menu-items", `{"name":"x","category":"Zupy","price":1}`, "w", http.StatusForbidden},
		{"write cannot reprice menu items", "PATCH", "/api/admin/menu-items/4", `{"price":0}`, "w", http.StatusForbidden},
		{"write cannot delete menu items", "DELETE", "/api/admin/menu-items/4", "", "w", http.StatusForbidden},
		{"payments flag does not grant delivery", "PATCH", "/api/admin/delivery-settings", `{}`, "pay", http.StatusForbidden},
		{"payments flag does not grant integrations", "POST", "/api/admin/integration/sync", "", "pay", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPI(t)
			f.signIn("ro", readOnly)
			f.signIn("pay", payments)
			f.signIn("w", writer)
			f.sessions.On("Get", mock.Anything, "gone").Return(nil, nil).Maybe()

			w := f.do(tt.method, tt.path, tt.body, tt.sid)

			assert.Equal(t, tt.wantCode, w.Code)
			f.orders.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
			f.menu.AssertNotCalled(t, "CreateMenuItem", mock.Anything, mock.Anything)
			f.menu.AssertNotCalled(t, "UpdateMenuItem", mock.Anything, mock.Anything, mock.Anything)
			f.menu.AssertNotCalled(t, "DeleteMenuItem", mock.Anything, mock.Anything)
		})
	}
}

func TestPermissionGuards_CapabilityFlagGrantsAccess(t *testing.T) {
	f := newAPI(t)
	f.signIn("pay", &auth.Principal{UserID: 2, Role: domain.RoleReadOnly,
		Capabilities: domain.Capabilities{CanManagePayments: true}})
	f.payments.On("SetPaymentMethodEnabled", mock.Anything, "blik", false).
		Return(&domain.PaymentMethod{Name: "blik", IsEnabled: false}, nil).Once()

	w := f.do("PATCH", "/api/admin/payment-methods/blik", `{"isEnabled":false}`, "pay")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["is_enabled"])
}

func TestUpdateOrderStatusHandler(t *testing.T) {
	writer := &auth.Principal{UserID: 3, Username: "cook", Role: domain.RoleWrite}

	tests := []struct {
		name      string
		path      string
		body      string
		setupMock func(f *apiFixture)
		wantCode  int
	}{
		{
			name: "success",
			path: "/api/orders/7/status",
			body: `{"status":"ready"}`,
			setupMock: func(f *apiFixture) {
				f.orders.On("UpdateOrderStatus", mock.Anything, 7, domain.StatusReady).
					Return(&domain.Order{ID: 7, Status: domain.StatusReady}, nil).Once()
				f.publisher.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil).Once()
			},
			wantCode: http.StatusOK,
		},
		{
			name:      "unknown status",
			path:      "/api/orders/7/status",
			body:      `{"status":"eaten"}`,
			setupMock: func(f *apiFixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "bad id",
			path:      "/api/orders/abc/status",
			body:      `{"status":"ready"}`,
			setupMock: func(f *apiFixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "missing order",
			path: "/api/orders/99/status",
			body: `{"status":"ready"}`,
			setupMock: func(f *apiFixture) {
				f.orders.On("UpdateOrderStatus", mock.Anything, 99, domain.StatusReady).
					Return(nil, domain.ErrNotFound).Once()
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPI(t)
			f.signIn("w", writer)
			tt.setupMock(f)

			w := f.do("PATCH", tt.path, tt.body, "w")
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

// The storefront flow: a cart of two Czeburek and one Herbata comes to 25.00
// with delivery disabled; 18:00 is rejected and 14:00 is accepted.
func TestCheckoutEndToEnd(t *testing.T) {
	c := cart.New()
	c.AddItem(cart.Item{ID: "c1", Name: "Czeburek", Price: floatPtr(10)})
	c.AddItem(cart.Item{ID: "c1", Name: "Czeburek", Price: floatPtr(10)})
	c.AddItem(cart.Item{ID: "d1", Name: "Herbata", Price: floatPtr(5)})
	require.Equal(t, 25.0, cart.ComputeTotal(c.Lines(), domain.DeliverySettings{}).Total)

	body := func(deliveryTime string) string {
		items := make([]domain.OrderItemInput, 0, c.Len())
		for _, l := range c.Lines() {
			items = append(items, domain.OrderItemInput{ID: l.ID, Name: l.Name, Quantity: l.Quantity, Price: l.Price})
		}
		raw, _ := json.Marshal(domain.CreateOrderRequest{
			CustomerName: "Jan", Address: "Prosta 1", DeliveryDate: "2026-10-20",
			DeliveryTime: deliveryTime, PaymentMethod: "cash", Items: items,
		})
		return string(raw)
	}

	t.Run("18:00 is rejected", func(t *testing.T) {
		f := newAPI(t)
		w := f.do("POST", "/api/orders", body("18:00"), "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "deliveryTime", decodeBody(t, w)["field"])
		f.orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("14:00 creates a pending order", func(t *testing.T) {
		f := newAPI(t)
		f.settings.On("GetOrderingSettings", mock.Anything).Return(domain.OrderingSettings{IsEnabled: true}, nil).Once()
		f.payments.On("GetPaymentMethod", mock.Anything, "cash").
			Return(&domain.PaymentMethod{Name: "cash", IsEnabled: true}, nil).Once()
		f.settings.On("GetDeliverySettings", mock.Anything).Return(domain.DeliverySettings{IsEnabled: false}, nil).Once()
		f.orders.On("CreateOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
		f.publisher.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil).Once()

		w := f.do("POST", "/api/orders", body("14:00"), "")

		require.Equal(t, http.StatusCreated, w.Code)
		got := decodeBody(t, w)
		assert.Equal(t, "pending", got["status"])
		assert.Equal(t, 25.0, got["total"])
	})
}

func TestLoginHandler(t *testing.T) {
	hash, err := auth.HashPassword("s3cret!")
	require.NoError(t, err)

	t.Run("sets the session cookie", func(t *testing.T) {
		f := newAPI(t)
		f.users.On("GetUserByUsername", mock.Anything, "boss").
			Return(&domain.User{ID: 1, Username: "boss", PasswordHash: hash, Role: domain.RoleAdmin}, nil).Once()
		f.sessions.On("Create", mock.Anything, mock.Anything).Return("new-sid", nil).Once()

		w := f.do("POST", "/api/auth/login", `{"username":"boss","password":"s3cret!"}`, "")

		require.Equal(t, http.StatusOK, w.Code)
		cookie := w.Result().Cookies()[0]
		assert.Equal(t, "sid", cookie.Name)
		assert.Equal(t, "new-sid", cookie.Value)
		assert.True(t, cookie.HttpOnly)

		got := decodeBody(t, w)
		assert.Equal(t, true, got["isAuthenticated"])
		user := got["user"].(map[string]interface{})
		assert.Equal(t, true, user["can_manage_users"])
	})

	t.Run("bad password", func(t *testing.T) {
		f := newAPI(t)
		f.users.On("GetUserByUsername", mock.Anything, "boss").
			Return(&domain.User{ID: 1, Username: "boss", PasswordHash: hash, Role: domain.RoleAdmin}, nil).Once()

		w := f.do("POST", "/api/auth/login", `{"username":"boss","password":"guess"}`, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		f := newAPI(t)
		w := f.do("POST", "/api/auth/login", `{bad`, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSessionAndLogout(t *testing.T) {
	f := newAPI(t)
	f.signIn("live", &auth.Principal{UserID: 4, Username: "ola", Role: domain.RoleWrite})
	f.sessions.On("Delete", mock.Anything, "live").Return(nil).Once()

	w := f.do("GET", "/api/auth/session", "", "")
	assert.Equal(t, false, decodeBody(t, w)["isAuthenticated"])

	w = f.do("GET", "/api/auth/session", "", "live")
	assert.Equal(t, true, decodeBody(t, w)["isAuthenticated"])

	w = f.do("POST", "/api/auth/logout", "", "live")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, -1, w.Result().Cookies()[0].MaxAge)
}

func TestCreateUserHandler_Conflict(t *testing.T) {
	f := newAPI(t)
	f.signIn("admin", &auth.Principal{UserID: 1, Role: domain.RoleAdmin})
	f.users.On("CreateUser", mock.Anything, mock.Anything).Return(domain.ErrConflict).Once()

	w := f.do("POST", "/api/users", `{"username":"ola","password":"secret1","role":"write"}`, "admin")

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateUserHandler_AdminRoleNeedsAdmin(t *testing.T) {
	f := newAPI(t)
	f.signIn("mgr", &auth.Principal{UserID: 2, Username: "kierownik", Role: domain.RoleWrite,
		Capabilities: domain.Capabilities{CanManageUsers: true}})

	w := f.do("POST", "/api/users", `{"username":"ola","password":"secret1","role":"admin"}`, "mgr")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do("PATCH", "/api/users/2", `{"role":"admin"}`, "mgr")
	assert.Equal(t, http.StatusForbidden, w.Code)

	f.users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	f.users.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteUserHandler_Self(t *testing.T) {
	f := newAPI(t)
	f.signIn("admin", &auth.Principal{UserID: 1, Role: domain.RoleAdmin})

	w := f.do("DELETE", "/api/users/1", "", "admin")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.users.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}

func TestExportHandler_Upstream(t *testing.T) {
	f := newAPI(t)
	f.signIn("admin", &auth.Principal{UserID: 1, Role: domain.RoleAdmin})
	f.settings.On("GetIntegrationSettings", mock.Anything).
		Return(domain.IntegrationSettings{PlatformURL: "https://partner.example", APIKey: "k"}, nil).Once()
	f.menu.On("ListMenuItems", mock.Anything, false).Return([]domain.MenuItem{}, nil).Once()
	f.partner.On("PushMenu", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(503, nil).Once()

	w := f.do("POST", "/api/admin/integration/sync", "", "admin")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, 503.0, decodeBody(t, w)["upstream_status"])
}

func TestImportHandler(t *testing.T) {
	t.Run("wrong key", func(t *testing.T) {
		f := newAPI(t)
		req := httptest.NewRequest("POST", "/api/external-menu", strings.NewReader(`{"items":[]}`))
		req.Header.Set("x-api-key", "nope")
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid key", func(t *testing.T) {
		f := newAPI(t)
		f.menu.On("UpsertMenuItemByExternalID", mock.Anything, mock.MatchedBy(func(it *domain.MenuItem) bool {
			return *it.ExternalID == "x1" && it.Price == 9
		})).Return(nil).Once()

		req := httptest.NewRequest("POST", "/api/external-menu",
			strings.NewReader(`{"items":[{"id":"x1","name":"Barszcz","price":9},{"id":"x2","name":"No price"}]}`))
		req.Header.Set("x-api-key", "import-key")
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		got := decodeBody(t, w)
		assert.Equal(t, 1.0, got["processed"])
		assert.Equal(t, 1.0, got["skipped"])
	})
}

func TestQRCodeHandler(t *testing.T) {
	ref := "0b8a1c2e-3d4f-4a5b-8c6d-7e8f9a0b1c2d"
	f := newAPI(t)
	f.orders.On("GetOrderByRef", mock.Anything, ref).Return(&domain.Order{PublicRef: ref}, nil).Once()
	f.qr.On("Generate", ref).Return([]byte("\x89PNG"), nil).Once()

	w := f.do("GET", "/api/track/"+ref+"/qrcode", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func TestPublicMenuHandler_InternalError(t *testing.T) {
	f := newAPI(t)
	f.menu.On("ListMenuItems", mock.Anything, true).Return(nil, errors.New("db down")).Once()

	w := f.do("GET", "/api/menu-items", "", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestHealthAndMetrics(t *testing.T) {
	f := newAPI(t)

	w := f.do("GET", "/health", "", "")
	assert.Equal(t, "shop-svc", decodeBody(t, w)["service"])

	w = f.do("GET", "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
