// Package policy holds the role capability table for both services.  Every
// protected operation is listed here with the roles allowed to perform it;
// there is no role hierarchy.
package policy

import "github.com/iliyamo/flight-booking-admin/internal/model"

// Operation names a protected action.
type Operation string

const (
	NaveCreate Operation = "nave.create"
	NaveList   Operation = "nave.list"
	NaveUpdate Operation = "nave.update"
	NaveDelete Operation = "nave.delete"

	FlightCreate Operation = "flight.create"
	FlightList   Operation = "flight.list"
	FlightUpdate Operation = "flight.update"
	FlightDelete Operation = "flight.delete"

	ReservationCreate Operation = "reservation.create"
	ReservationList   Operation = "reservation.list"
	ReservationCancel Operation = "reservation.cancel"

	UserList     Operation = "user.list"
	UserUpdate   Operation = "user.update"
	UserRegister Operation = "user.register"

	SessionLogout Operation = "session.logout"
)

var (
	adminOnly  = []model.Role{model.RoleAdministrador}
	gestorOnly = []model.Role{model.RoleGestor}
	anyRole    = []model.Role{model.RoleAdministrador, model.RoleGestor}
)

// capabilities maps each operation to the roles permitted to run it.
// UserRegister covers registrations after the first user exists; the
// bootstrap registration is unauthenticated and handled by the caller.
var capabilities = map[Operation][]model.Role{
	NaveCreate: adminOnly,
	NaveList:   adminOnly,
	NaveUpdate: adminOnly,
	NaveDelete: adminOnly,

	FlightCreate: adminOnly,
	FlightList:   anyRole,
	FlightUpdate: adminOnly,
	FlightDelete: adminOnly,

	ReservationCreate: gestorOnly,
	ReservationList:   gestorOnly,
	ReservationCancel: gestorOnly,

	UserList:     adminOnly,
	UserUpdate:   adminOnly,
	UserRegister: adminOnly,

	SessionLogout: anyRole,
}

// AllowedRoles returns a copy of the roles allowed to perform op.  Unknown
// operations yield nil.
func AllowedRoles(op Operation) []model.Role {
	roles, ok := capabilities[op]
	if !ok {
		return nil
	}
	out := make([]model.Role, len(roles))
	copy(out, roles)
	return out
}

// Can reports whether role may perform op.
func Can(role model.Role, op Operation) bool {
	if !role.Valid() {
		return false
	}
	for _, r := range capabilities[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize reports whether user may perform op.  A nil user is always
// denied.
func Authorize(user *model.User, op Operation) bool {
	if user == nil {
		return false
	}
	return Can(user.Role, op)
}
