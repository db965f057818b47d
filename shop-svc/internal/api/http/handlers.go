package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"sivik-storefront/shop-svc/internal/auth"
	"sivik-storefront/shop-svc/internal/domain"
	"sivik-storefront/shop-svc/internal/metrics"
	"sivik-storefront/shop-svc/internal/service"

	"github.com/gorilla/mux"
)

type Services struct {
	Auth     service.AuthServiceInterface
	Menu     service.MenuServiceInterface
	Orders   service.OrderServiceInterface
	Users    service.UserServiceInterface
	Settings service.SettingsServiceInterface
	Sync     service.SyncServiceInterface
}

type Options struct {
	SecureCookies bool
	SessionTTL    time.Duration
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
}

type Handler struct {
	Services
	opts   Options
	logger *slog.Logger
}

func NewHandler(svc Services, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SessionTTL == 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	return &Handler{Services: svc, opts: opts, logger: logger}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.Handle("/metrics", h.opts.Metrics.Handler()).Methods("GET")

	r.HandleFunc("/api/auth/login", h.login).Methods("POST")
	r.HandleFunc("/api/auth/logout", h.logout).Methods("POST")
	r.HandleFunc("/api/auth/session", h.session).Methods("GET")

	r.HandleFunc("/api/menu-items", h.listPublicMenu).Methods("GET")
	r.HandleFunc("/api/payment-methods", h.listPublicPaymentMethods).Methods("GET")
	r.HandleFunc("/api/delivery-settings", h.getDeliverySettings).Methods("GET")
	r.HandleFunc("/api/ordering-settings", h.getOrderingSettings).Methods("GET")

	r.HandleFunc("/api/orders", h.createOrder).Methods("POST")
	r.HandleFunc("/api/track/{ref}", h.trackOrder).Methods("GET")
	r.HandleFunc("/api/track/{ref}/qrcode", h.orderQRCode).Methods("GET")
	r.HandleFunc("/api/orders", h.require(auth.ActionReadOrders, h.listOrders)).Methods("GET")
	r.HandleFunc("/api/orders/{id}/status", h.require(auth.ActionWriteOrders, h.updateOrderStatus)).Methods("PATCH")

	r.HandleFunc("/api/users", h.require(auth.ActionManageUsers, h.listUsers)).Methods("GET")
	r.HandleFunc("/api/users", h.require(auth.ActionManageUsers, h.createUser)).Methods("POST")
	r.HandleFunc("/api/users/{id}", h.require(auth.ActionManageUsers, h.updateUser)).Methods("PATCH")
	r.HandleFunc("/api/users/{id}", h.require(auth.ActionManageUsers, h.deleteUser)).Methods("DELETE")

	r.HandleFunc("/api/admin/menu-items", h.require(auth.ActionManageMenu, h.listAllMenu)).Methods("GET")
	r.HandleFunc("/api/admin/menu-items", h.require(auth.ActionManageMenu, h.createMenuItem)).Methods("POST")
	r.HandleFunc("/api/admin/menu-items/{id}", h.require(auth.ActionManageMenu, h.updateMenuItem)).Methods("PATCH")
	r.HandleFunc("/api/admin/menu-items/{id}", h.require(auth.ActionManageMenu, h.deleteMenuItem)).Methods("DELETE")

	r.HandleFunc("/api/admin/payment-methods", h.require(auth.ActionManagePayments, h.listAllPaymentMethods)).Methods("GET")
	r.HandleFunc("/api/admin/payment-methods/{name}", h.require(auth.ActionManagePayments, h.setPaymentMethod)).Methods("PATCH")

	r.HandleFunc("/api/admin/delivery-settings", h.require(auth.ActionManageDelivery, h.getDeliverySettings)).Methods("GET")
	r.HandleFunc("/api/admin/delivery-settings", h.require(auth.ActionManageDelivery, h.updateDeliverySettings)).Methods("PATCH")
	r.HandleFunc("/api/admin/ordering-settings", h.require(auth.ActionManageDelivery, h.getOrderingSettings)).Methods("GET")
	r.HandleFunc("/api/admin/ordering-settings", h.require(auth.ActionManageDelivery, h.updateOrderingSettings)).Methods("PATCH")

	r.HandleFunc("/api/admin/integration", h.require(auth.ActionManageIntegrations, h.getIntegration)).Methods("GET")
	r.HandleFunc("/api/admin/integration", h.require(auth.ActionManageIntegrations, h.updateIntegration)).Methods("PATCH")
	r.HandleFunc("/api/admin/integration/sync", h.require(auth.ActionManageIntegrations, h.exportMenu)).Methods("POST")

	r.HandleFunc("/api/external-menu", h.importMenu).Methods("POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "shop-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	sid, p, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.setSessionCookie(w, sid)
	h.logger.Info("staff login", "user_id", p.UserID, "role", p.Role)
	respondWithJSON(w, http.StatusOK, auth.SessionView(p))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if err := h.Auth.Logout(r.Context(), c.Value); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	h.clearSessionCookie(w)
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	p, err := h.currentPrincipal(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, auth.SessionView(p))
}

func (h *Handler) listPublicMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.ListPublic(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

func (h *Handler) listAllMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.ListAll(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var req domain.MenuItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	item, err := h.Menu.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch domain.MenuItemPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	item, err := h.Menu.Update(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Menu.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	order, err := h.Orders.Submit(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, order)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	order, err := h.Orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.logger.Info("order status changed",
		"order_id", order.ID, "status", order.Status, "by", principalFrom(r.Context()).Username)
	respondWithJSON(w, http.StatusOK, order)
}

func (h *Handler) trackOrder(w http.ResponseWriter, r *http.Request) {
	tracking, err := h.Orders.Track(r.Context(), mux.Vars(r)["ref"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, tracking)
}

func (h *Handler) orderQRCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.Orders.QRCode(r.Context(), mux.Vars(r)["ref"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(png)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.Users.Create(r.Context(), principalFrom(r.Context()), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch domain.UserPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.Users.Update(r.Context(), principalFrom(r.Context()), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Users.Delete(r.Context(), principalFrom(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listPublicPaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.Settings.PaymentMethods(r.Context(), true)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, methods)
}

func (h *Handler) listAllPaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.Settings.PaymentMethods(r.Context(), false)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, methods)
}

type toggleRequest struct {
	IsEnabled *bool `json:"isEnabled"`
}

func (t toggleRequest) value() (bool, error) {
	if t.IsEnabled == nil {
		return false, domain.NewValidationError("isEnabled", "is required")
	}
	return *t.IsEnabled, nil
}

func (h *Handler) setPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	enabled, err := req.value()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	method, err := h.Settings.SetPaymentMethod(r.Context(), mux.Vars(r)["name"], enabled)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, method)
}

func (h *Handler) getDeliverySettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Delivery(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

func (h *Handler) updateDeliverySettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.DeliverySettingsPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	settings, err := h.Settings.UpdateDelivery(r.Context(), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

func (h *Handler) getOrderingSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Ordering(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

func (h *Handler) updateOrderingSettings(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	enabled, err := req.value()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	settings, err := h.Settings.SetOrdering(r.Context(), enabled)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

func (h *Handler) getIntegration(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Integration(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

func (h *Handler) updateIntegration(w http.ResponseWriter, r *http.Request) {
	var patch domain.IntegrationSettingsPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	settings, err := h.Settings.UpdateIntegration(r.Context(), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

func (h *Handler) exportMenu(w http.ResponseWriter, r *http.Request) {
	at, err := h.Sync.Export(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"lastSyncAt": at,
	})
}

func (h *Handler) importMenu(w http.ResponseWriter, r *http.Request) {
	var payload domain.MenuImport
	if err := decodeJSON(w, r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.Sync.Import(r.Context(), r.Header.Get("x-api-key"), payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}
