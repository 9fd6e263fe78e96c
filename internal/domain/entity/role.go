package entity

// Role represents a staff role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants
const (
	RoleIDAdmin     = 1
	RoleIDDentist   = 2
	RoleIDFrontDesk = 3
)

// RoleNames constants
const (
	RoleAdmin     = "admin"
	RoleDentist   = "dentist"
	RoleFrontDesk = "front_desk"
)

// RoleIDByName maps a role name to its seeded ID
func RoleIDByName(name string) (int, bool) {
	switch name {
	case RoleAdmin:
		return RoleIDAdmin, true
	case RoleDentist:
		return RoleIDDentist, true
	case RoleFrontDesk:
		return RoleIDFrontDesk, true
	}
	return 0, false
}

// IsStaffRoleID reports whether id is one of the clinic staff roles
func IsStaffRoleID(id int) bool {
	switch id {
	case RoleIDAdmin, RoleIDDentist, RoleIDFrontDesk:
		return true
	}
	return false
}
