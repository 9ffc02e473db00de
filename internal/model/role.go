package model

// Role is a named bundle of permissions. Users get permissions only through
// roles (many-to-many on both sides).
type Role struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
}

// Role names as constants
const (
	RoleTaskUser      = "TASK_USER"
	RoleTaskAdmin     = "TASK_ADMIN"
	RoleAdministrator = "ADMINISTRATOR"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Name:        RoleTaskUser,
		Description: "Works on own tasks only",
	},
	{
		Name:        RoleTaskAdmin,
		Description: "Sees and updates every task",
	},
	{
		Name:        RoleAdministrator,
		Description: "Full access including cross-user deletion",
	},
}

// DefaultRolePermissions maps each default role to the permission IDs it
// grants. Applied at seed time, after both tables exist.
var DefaultRolePermissions = map[string][]uint{
	RoleTaskUser:      {PermCreateTask, PermReadTask, PermUpdateTask},
	RoleTaskAdmin:     {PermCreateTask, PermReadTask, PermReadAllTasks, PermUpdateTask, PermDeleteTask},
	RoleAdministrator: {PermCreateTask, PermReadTask, PermReadAllTasks, PermUpdateTask, PermDeleteTask, PermAdministratorRights},
}
