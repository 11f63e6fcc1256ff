package models

type Role int

const (
	RoleUnknown    Role = 0
	RoleAdmin      Role = 1
	RoleSupervisor Role = 2
	RoleFarmer     Role = 3
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleSupervisor:
		return "supervisor"
	case RoleFarmer:
		return "farmer"
	default:
		return "unknown"
	}
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSupervisor || r == RoleFarmer
}

// SeesAllRecords reports whether the role bypasses the managed-cow
// visibility filter entirely.
func (r Role) SeesAllRecords() bool {
	return r == RoleAdmin || r == RoleSupervisor
}

// Session is the authenticated identity attached to every request. It is
// read-only from the point of view of page logic.
type Session struct {
	UserID int    `json:"userId"`
	Role   Role   `json:"role"`
	Name   string `json:"name"`
}

type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	RoleID int    `json:"role_id"`
}

// UserRequest is the mutation payload for staff accounts. Password is
// the initial credential on create; left blank on update it keeps the
// upstream's stored one.
type UserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	RoleID   int    `json:"role_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
