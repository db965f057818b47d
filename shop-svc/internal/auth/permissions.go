// Package auth resolves what a signed-in staff member may do.
//
// Permissions combine a coarse role with independent capability flags. The
// admin role implies every capability regardless of the flags stored on the
// user row.
package auth

import (
	"sivik-storefront/shop-svc/internal/domain"
)

// Principal is the identity attached to an authenticated session.
type Principal struct {
	UserID   int         `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	domain.Capabilities
}

func PrincipalFromUser(u *domain.User) *Principal {
	return &Principal{
		UserID:       u.ID,
		Username:     u.Username,
		Role:         u.Role,
		Capabilities: u.Capabilities,
	}
}

func (p *Principal) isAdmin() bool { return p != nil && p.Role == domain.RoleAdmin }

func CanManageUsers(p *Principal) bool {
	return p.isAdmin() || (p != nil && p.CanManageUsers)
}

func CanManageIntegrations(p *Principal) bool {
	return p.isAdmin() || (p != nil && p.CanManageIntegrations)
}

func CanManagePayments(p *Principal) bool {
	return p.isAdmin() || (p != nil && p.CanManagePayments)
}

func CanManageDelivery(p *Principal) bool {
	return p.isAdmin() || (p != nil && p.CanManageDelivery)
}

func CanWriteOrders(p *Principal) bool {
	return p.isAdmin() || (p != nil && p.Role == domain.RoleWrite)
}

func CanReadOrders(p *Principal) bool {
	return p != nil
}

// CanManageMenu is admin only. The write role runs the kitchen but does not
// price dishes.
func CanManageMenu(p *Principal) bool {
	return p.isAdmin()
}

type Action string

const (
	ActionReadOrders         Action = "read_orders"
	ActionWriteOrders        Action = "write_orders"
	ActionManageUsers        Action = "manage_users"
	ActionManageIntegrations Action = "manage_integrations"
	ActionManagePayments     Action = "manage_payments"
	ActionManageDelivery     Action = "manage_delivery"
	ActionManageMenu         Action = "manage_menu"
)

var checks = map[Action]func(*Principal) bool{
	ActionReadOrders:         CanReadOrders,
	ActionWriteOrders:        CanWriteOrders,
	ActionManageUsers:        CanManageUsers,
	ActionManageIntegrations: CanManageIntegrations,
	ActionManagePayments:     CanManagePayments,
	ActionManageDelivery:     CanManageDelivery,
	ActionManageMenu:         CanManageMenu,
}

// Authorize returns domain.ErrUnauthenticated for a nil principal and
// domain.ErrForbidden when the action is denied. Unknown actions are denied.
func Authorize(p *Principal, action Action) error {
	if p == nil {
		return domain.ErrUnauthenticated
	}
	check, ok := checks[action]
	if !ok || !check(p) {
		return domain.ErrForbidden
	}
	return nil
}

// View is what GET /api/auth/session reports to the back office, with the
// effective capabilities already resolved.
type View struct {
	IsAuthenticated bool       `json:"isAuthenticated"`
	User            *Principal `json:"user"`
}

func SessionView(p *Principal) View {
	if p == nil {
		return View{}
	}
	effective := *p
	effective.Capabilities = domain.Capabilities{
		CanManageUsers:        CanManageUsers(p),
		CanManageIntegrations: CanManageIntegrations(p),
		CanManagePayments:     CanManagePayments(p),
		CanManageDelivery:     CanManageDelivery(p),
	}
	return View{IsAuthenticated: true, User: &effective}
}
