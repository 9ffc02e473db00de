package webui

import (
	"go-taskboard-ws/internal/model"
	"go-taskboard-ws/internal/service"
	"go-taskboard-ws/pkg/client"
)

// taskView decorates a task with the controls the current user should see.
type taskView struct {
	client.Task
	CanEdit   bool
	CanDelete bool
}

// visibleActions mirrors the server-side decisions purely for UX: it decides
// which controls to render, never whether an operation succeeds. The API
// stays authoritative.
func visibleActions(perms []uint, callerID string, t client.Task) (canEdit, canDelete bool) {
	owner := t.CreatedBy != nil && *t.CreatedBy == callerID

	canEdit = service.HasPermission(perms, model.PermUpdateTask) &&
		(service.HasPermission(perms, model.PermReadAllTasks) || owner)

	// Cross-user deletion needs the stricter escalation permission.
	canDelete = service.HasPermission(perms, model.PermDeleteTask) &&
		(service.HasPermission(perms, model.PermAdministratorRights) || owner)

	return canEdit, canDelete
}

type boardData struct {
	Username  string
	CanCreate bool
	Tasks     []taskView
}

func buildBoard(username, callerID string, perms []uint, tasks []client.Task) boardData {
	data := boardData{
		Username:  username,
		CanCreate: service.HasPermission(perms, model.PermCreateTask),
		Tasks:     make([]taskView, 0, len(tasks)),
	}
	for _, t := range tasks {
		edit, del := visibleActions(perms, callerID, t)
		data.Tasks = append(data.Tasks, taskView{Task: t, CanEdit: edit, CanDelete: del})
	}
	return data
}
