// Package authz holds the role/ministry permission matrix as pure predicates,
// kept free of HTTP and database concerns so the matrix is testable in
// isolation. Roles are fixed tiers with no inheritance; every check is an
// explicit enumeration.
package authz

// Fixed role tiers. The ids match the rows seeded into the rol table.
const (
	RoleGeneralAdmin   int64 = 1
	RoleMinistryLeader int64 = 2
	RoleStandardUser   int64 = 3
	RoleReaderGuest    int64 = 4
)

// Denial distinguishes why a create was refused so the API can surface a
// specific message for each case.
type Denial int

const (
	Allowed Denial = iota
	// DenyUploadRole: the role may not create file records at all.
	DenyUploadRole
	// DenyForeignMinistry: a ministry leader tried to create a record for a
	// ministry other than their own.
	DenyForeignMinistry
)

// CanModify reports whether the actor may edit or delete a file record owned
// by resourceMinistry. Admins always may; leaders only within their own
// ministry, and only when the record actually has one.
func CanModify(roleID int64, actorMinistry *int64, resourceMinistry *int64) bool {
	switch roleID {
	case RoleGeneralAdmin:
		return true
	case RoleMinistryLeader:
		if resourceMinistry == nil || actorMinistry == nil {
			return false
		}
		return *resourceMinistry == *actorMinistry
	default:
		return false
	}
}

// CanUpload is the coarse create permission: everyone except reader/guest.
func CanUpload(roleID int64) bool {
	switch roleID {
	case RoleGeneralAdmin, RoleMinistryLeader, RoleStandardUser:
		return true
	default:
		return false
	}
}

// CanCreateFor layers the ministry-ownership rule on top of CanUpload: a
// leader may only create records for the ministry they lead. The two denial
// reasons are distinct on purpose.
func CanCreateFor(roleID int64, actorMinistry *int64, resourceMinistry *int64) Denial {
	if !CanUpload(roleID) {
		return DenyUploadRole
	}

	if roleID == RoleMinistryLeader {
		if actorMinistry == nil || resourceMinistry == nil || *actorMinistry != *resourceMinistry {
			return DenyForeignMinistry
		}
	}

	return Allowed
}

// CanDownload is the most permissive check: only reader/guest is refused.
func CanDownload(roleID int64) bool {
	return roleID != RoleReaderGuest
}
