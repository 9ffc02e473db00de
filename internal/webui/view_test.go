package webui

import (
	"testing"

	"go-taskboard-ws/internal/model"
	"go-taskboard-ws/pkg/client"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func taskOwnedBy(id string) client.Task {
	return client.Task{ID: uuid.NewString(), Title: "t", CreatedBy: &id}
}

func TestVisibleActions(t *testing.T) {
	me := uuid.NewString()
	other := uuid.NewString()

	tests := []struct {
		name       string
		perms      []uint
		task       client.Task
		wantEdit   bool
		wantDelete bool
	}{
		{
			name:     "owner with update and delete",
			perms:    []uint{model.PermUpdateTask, model.PermDeleteTask},
			task:     taskOwnedBy(me),
			wantEdit: true, wantDelete: true,
		},
		{
			name:     "other's task without bypasses",
			perms:    []uint{model.PermUpdateTask, model.PermDeleteTask},
			task:     taskOwnedBy(other),
			wantEdit: false, wantDelete: false,
		},
		{
			// Edit control follows the read-all bypass, delete stays hidden
			// without administrator rights.
			name:     "other's task with read-all",
			perms:    []uint{model.PermUpdateTask, model.PermDeleteTask, model.PermReadAllTasks},
			task:     taskOwnedBy(other),
			wantEdit: true, wantDelete: false,
		},
		{
			name:     "other's task with administrator rights",
			perms:    []uint{model.PermUpdateTask, model.PermDeleteTask, model.PermAdministratorRights},
			task:     taskOwnedBy(other),
			wantEdit: false, wantDelete: true,
		},
		{
			name:     "owner without permissions",
			perms:    nil,
			task:     taskOwnedBy(me),
			wantEdit: false, wantDelete: false,
		},
		{
			name:     "orphaned task",
			perms:    []uint{model.PermUpdateTask, model.PermDeleteTask},
			task:     client.Task{ID: uuid.NewString(), Title: "t"},
			wantEdit: false, wantDelete: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edit, del := visibleActions(tt.perms, me, tt.task)
			assert.Equal(t, tt.wantEdit, edit, "edit")
			assert.Equal(t, tt.wantDelete, del, "delete")
		})
	}
}

func TestBuildBoard(t *testing.T) {
	me := uuid.NewString()
	tasks := []client.Task{taskOwnedBy(me), taskOwnedBy(uuid.NewString())}

	board := buildBoard("alice", me, []uint{model.PermCreateTask, model.PermUpdateTask}, tasks)

	assert.Equal(t, "alice", board.Username)
	assert.True(t, board.CanCreate)
	assert.Len(t, board.Tasks, 2)
	assert.True(t, board.Tasks[0].CanEdit)
	assert.False(t, board.Tasks[1].CanEdit)
}
