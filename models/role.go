package models

// Role is a closed set of actor roles. Capability checks are explicit
// functions below rather than data-driven permission tables.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleOwner      Role = "owner"
	RoleManager    Role = "manager"
	RoleStaff      Role = "staff"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleOwner, RoleManager, RoleStaff:
		return true
	}
	return false
}

// CanManageSchedule reports whether the role may edit weekly schedules,
// exceptions and calendar blocks.
func (r Role) CanManageSchedule() bool {
	return r == RoleSuperAdmin || r == RoleOwner || r == RoleManager
}

// CanManageStaff reports whether the role may create staff and toggle
// staff activation.
func (r Role) CanManageStaff() bool {
	return r == RoleSuperAdmin || r == RoleOwner || r == RoleManager
}

// CanManageServices reports whether the role may edit the service catalog.
func (r Role) CanManageServices() bool {
	return r == RoleSuperAdmin || r == RoleOwner || r == RoleManager
}

// CanActOnBooking reports whether an actor with this role may modify a
// booking assigned to staffID. Staff may only touch their own bookings.
func (r Role) CanActOnBooking(actorID, staffID uint) bool {
	if r == RoleStaff {
		return actorID == staffID
	}
	return r.Valid()
}

// TenantContext identifies the acting user and the business every query
// must be scoped to. It is built once per request by the auth middleware
// and passed explicitly; nothing in the core reads ambient tenant state.
type TenantContext struct {
	UserID     uint
	BusinessID uint
	Role       Role
}

func (t TenantContext) IsSuperAdmin() bool {
	return t.Role == RoleSuperAdmin
}

// SameBusiness reports whether an entity owned by businessID is visible
// to this tenant. Super admins see across tenants.
func (t TenantContext) SameBusiness(businessID uint) bool {
	if t.IsSuperAdmin() {
		return true
	}
	return businessID != 0 && businessID == t.BusinessID
}
