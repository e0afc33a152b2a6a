package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppState(t *testing.T) {
	state := DefaultAppState()
	assert.Equal(t, ViewLanding, state.View)
	assert.Equal(t, TaskFilterAll, state.InitialTaskFilter)
	assert.Nil(t, state.CurrentUser)
}

func TestApplyIsPure(t *testing.T) {
	original := DefaultAppState()
	_ = original.Apply(SessionEvent{Type: EventStart})
	assert.Equal(t, ViewLanding, original.View)
}

func TestApplyTransitions(t *testing.T) {
	user := &CurrentUser{Name: "שרה", Role: RoleManager}

	state := DefaultAppState().Apply(SessionEvent{Type: EventStart})
	assert.Equal(t, ViewLogin, state.View)

	state = state.Apply(SessionEvent{Type: EventLogin, User: user})
	assert.Equal(t, ViewDashboard, state.View)
	assert.Equal(t, user, state.CurrentUser)

	state = state.Apply(SessionEvent{Type: EventOpenHouse, HouseID: "marzuk"})
	assert.Equal(t, ViewHouse, state.View)
	assert.Equal(t, "marzuk", state.SelectedHouseID)

	state = state.Apply(SessionEvent{Type: EventOpenResident, ResidentID: "MA-1002"})
	assert.Equal(t, ViewResident, state.View)
	assert.Equal(t, "MA-1002", state.SelectedResidentID)

	state = state.Apply(SessionEvent{Type: EventOpenTasks, TaskFilter: string(TaskStatusOpen)})
	assert.Equal(t, ViewTasksBoard, state.View)
	assert.Equal(t, string(TaskStatusOpen), state.InitialTaskFilter)

	state = state.Apply(SessionEvent{Type: EventOpenDashboard})
	assert.Equal(t, ViewDashboard, state.View)
	assert.Empty(t, state.SelectedHouseID)

	state = state.Apply(SessionEvent{Type: EventLogout})
	assert.Equal(t, DefaultAppState(), state)
}

func TestApplyIgnoresInvalidTargets(t *testing.T) {
	state := DefaultAppState()

	// 登录事件缺少用户时不改变状态
	next := state.Apply(SessionEvent{Type: EventLogin})
	assert.Equal(t, state, next)

	// 不存在的住房单元不改变视图
	next = state.Apply(SessionEvent{Type: EventOpenHouse, HouseID: "no-such-house"})
	assert.Equal(t, state, next)

	// 未知事件保持原状
	next = state.Apply(SessionEvent{Type: "unknown"})
	assert.Equal(t, state, next)
}

func TestSessionEventTypeValid(t *testing.T) {
	for _, et := range []SessionEventType{
		EventStart, EventLogin, EventLogout, EventOpenDashboard,
		EventOpenHouse, EventOpenResident, EventOpenTasks,
	} {
		assert.True(t, et.Valid(), string(et))
	}
	assert.False(t, SessionEventType("bogus").Valid())
}
