package model

// Permission represents an atomic capability a role can grant.
// Permission IDs are the stable numeric keys carried in the token payload;
// every authorization check is keyed on these numbers, never on names, so
// the values must never change once issued tokens exist.
type Permission struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// Fixed permission identifiers, shared by the API and the web UI.
const (
	PermCreateTask          uint = 1
	PermReadTask            uint = 2
	PermReadAllTasks        uint = 3
	PermUpdateTask          uint = 4
	PermDeleteTask          uint = 5
	PermAdministratorRights uint = 6
)

// DefaultPermissions is the full permission table, seeded with explicit
// primary keys so the IDs stay identical across environments.
var DefaultPermissions = []Permission{
	{ID: PermCreateTask, Name: "CREATE_TASK", Description: "Create a new task"},
	{ID: PermReadTask, Name: "READ_TASK", Description: "Read own tasks"},
	{ID: PermReadAllTasks, Name: "READ_ALL_TASKS", Description: "Read every user's tasks"},
	{ID: PermUpdateTask, Name: "UPDATE_TASK", Description: "Update tasks"},
	{ID: PermDeleteTask, Name: "DELETE_TASK", Description: "Soft-delete tasks"},
	{ID: PermAdministratorRights, Name: "ADMINISTRATOR_RIGHTS", Description: "Delete tasks owned by other users"},
}
