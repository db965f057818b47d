package auth

import (
	"testing"

	"sivik-storefront/shop-svc/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	admin := &Principal{UserID: 1, Role: domain.RoleAdmin}
	writer := &Principal{UserID: 2, Role: domain.RoleWrite}
	reader := &Principal{UserID: 3, Role: domain.RoleReadOnly}
	payments := &Principal{UserID: 4, Role: domain.RoleReadOnly, Capabilities: domain.Capabilities{CanManagePayments: true}}
	allFlags := &Principal{UserID: 5, Role: domain.RoleReadOnly, Capabilities: domain.Capabilities{
		CanManageUsers: true, CanManageIntegrations: true, CanManagePayments: true, CanManageDelivery: true,
	}}

	tests := []struct {
		name      string
		principal *Principal
		action    Action
		wantErr   error
	}{
		{"anonymous read", nil, ActionReadOrders, domain.ErrUnauthenticated},
		{"anonymous users", nil, ActionManageUsers, domain.ErrUnauthenticated},
		{"admin manages users without flag", admin, ActionManageUsers, nil},
		{"admin manages integrations", admin, ActionManageIntegrations, nil},
		{"admin writes orders", admin, ActionWriteOrders, nil},
		{"writer writes orders", writer, ActionWriteOrders, nil},
		{"admin manages menu", admin, ActionManageMenu, nil},
		{"writer cannot manage menu", writer, ActionManageMenu, domain.ErrForbidden},
		{"flags never grant menu", allFlags, ActionManageMenu, domain.ErrForbidden},
		{"writer cannot manage users", writer, ActionManageUsers, domain.ErrForbidden},
		{"reader reads orders", reader, ActionReadOrders, nil},
		{"reader cannot write orders", reader, ActionWriteOrders, domain.ErrForbidden},
		{"reader cannot manage menu", reader, ActionManageMenu, domain.ErrForbidden},
		{"payments flag grants payments", payments, ActionManagePayments, nil},
		{"payments flag does not grant delivery", payments, ActionManageDelivery, domain.ErrForbidden},
		{"flags never grant order writes", allFlags, ActionWriteOrders, domain.ErrForbidden},
		{"flags grant users", allFlags, ActionManageUsers, nil},
		{"unknown action denied", admin, Action("launch_rockets"), domain.ErrForbidden},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := Authorize(testCase.principal, testCase.action)
			if testCase.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, testCase.wantErr)
		})
	}
}

func TestSessionView(t *testing.T) {
	assert.False(t, SessionView(nil).IsAuthenticated)
	assert.Nil(t, SessionView(nil).User)

	admin := &Principal{UserID: 1, Username: "admin", Role: domain.RoleAdmin}
	view := SessionView(admin)

	require.True(t, view.IsAuthenticated)
	assert.True(t, view.User.CanManageUsers)
	assert.True(t, view.User.CanManageDelivery)
	assert.False(t, admin.CanManageUsers, "stored flags must not be mutated")
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	ok, err := CheckPassword(hash, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CheckPassword("not-a-hash", "s3cret")
	assert.Error(t, err)
}
