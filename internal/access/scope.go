package access

import "errors"

var ErrDenied = errors.New("access denied")

// Role mirrors the roles resolved by the auth layer upstream of this core.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleDeputy  Role = "DEPUTY_ADMIN"
)

// Scope narrows which tech cards and records a caller may see. It is resolved
// upstream (session/role lookup) and treated as an opaque predicate here.
type Scope struct {
	Role   Role
	UserID string

	// ObjectIDs is the set of objects assigned to a deputy admin.
	ObjectIDs []string

	// ObjectID is an optional admin-side filter to a single object.
	ObjectID string
}

// Admin returns an unrestricted scope, optionally filtered to one object.
func Admin(objectID string) Scope {
	return Scope{Role: RoleAdmin, ObjectID: objectID}
}

// Manager returns a scope covering objects managed by the given user.
func Manager(userID string) Scope {
	return Scope{Role: RoleManager, UserID: userID}
}

// Deputy returns a scope covering an explicit object assignment list.
func Deputy(userID string, objectIDs []string) Scope {
	return Scope{Role: RoleDeputy, UserID: userID, ObjectIDs: objectIDs}
}

// AllowsObject reports whether an object (with its responsible manager id)
// is visible under this scope.
func (s Scope) AllowsObject(objectID, managerID string) bool {
	switch s.Role {
	case RoleManager:
		return managerID != "" && managerID == s.UserID
	case RoleDeputy:
		for _, id := range s.ObjectIDs {
			if id == objectID {
				return true
			}
		}
		return false
	default:
		if s.ObjectID != "" {
			return s.ObjectID == objectID
		}
		return true
	}
}
