package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookline/booking-api/internal/model"
)

func TestResolveLegalTransitions(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		from   model.AppointmentStatus
		actor  model.UserRole
		want   model.AppointmentStatus
	}{
		{name: "business approves pending", action: ActionApprove, from: model.AppointmentStatusPending, actor: model.UserRoleBusiness, want: model.AppointmentStatusConfirmed},
		{name: "business rejects pending", action: ActionReject, from: model.AppointmentStatusPending, actor: model.UserRoleBusiness, want: model.AppointmentStatusCancelled},
		{name: "customer cancels pending", action: ActionCancel, from: model.AppointmentStatusPending, actor: model.UserRoleCustomer, want: model.AppointmentStatusCancelled},
		{name: "customer cancels confirmed", action: ActionCancel, from: model.AppointmentStatusConfirmed, actor: model.UserRoleCustomer, want: model.AppointmentStatusCancelled},
		{name: "business completes confirmed", action: ActionComplete, from: model.AppointmentStatusConfirmed, actor: model.UserRoleBusiness, want: model.AppointmentStatusCompleted},
		{name: "customer completes confirmed", action: ActionComplete, from: model.AppointmentStatusConfirmed, actor: model.UserRoleCustomer, want: model.AppointmentStatusCompleted},
		{name: "business marks missed", action: ActionMarkMissed, from: model.AppointmentStatusConfirmed, actor: model.UserRoleBusiness, want: model.AppointmentStatusMissed},
		{name: "business marks incompleted", action: ActionMarkIncompleted, from: model.AppointmentStatusConfirmed, actor: model.UserRoleBusiness, want: model.AppointmentStatusIncompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			to, err := Resolve(tt.action, tt.from, tt.actor)
			require.NoError(t, err)
			assert.Equal(t, tt.want, to)
		})
	}
}

func TestResolveWrongActor(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		from   model.AppointmentStatus
		actor  model.UserRole
	}{
		{name: "customer cannot approve", action: ActionApprove, from: model.AppointmentStatusPending, actor: model.UserRoleCustomer},
		{name: "customer cannot reject", action: ActionReject, from: model.AppointmentStatusPending, actor: model.UserRoleCustomer},
		{name: "business cannot cancel", action: ActionCancel, from: model.AppointmentStatusConfirmed, actor: model.UserRoleBusiness},
		{name: "customer cannot mark missed", action: ActionMarkMissed, from: model.AppointmentStatusConfirmed, actor: model.UserRoleCustomer},
		{name: "customer cannot mark incompleted", action: ActionMarkIncompleted, from: model.AppointmentStatusConfirmed, actor: model.UserRoleCustomer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.action, tt.from, tt.actor)
			assert.Error(t, err)
		})
	}
}

func TestResolveWrongStatus(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		from   model.AppointmentStatus
		actor  model.UserRole
	}{
		{name: "approve confirmed", action: ActionApprove, from: model.AppointmentStatusConfirmed, actor: model.UserRoleBusiness},
		{name: "reject confirmed", action: ActionReject, from: model.AppointmentStatusConfirmed, actor: model.UserRoleBusiness},
		{name: "cancel completed", action: ActionCancel, from: model.AppointmentStatusCompleted, actor: model.UserRoleCustomer},
		{name: "cancel cancelled", action: ActionCancel, from: model.AppointmentStatusCancelled, actor: model.UserRoleCustomer},
		{name: "complete pending", action: ActionComplete, from: model.AppointmentStatusPending, actor: model.UserRoleBusiness},
		{name: "miss pending", action: ActionMarkMissed, from: model.AppointmentStatusPending, actor: model.UserRoleBusiness},
		{name: "incomplete completed", action: ActionMarkIncompleted, from: model.AppointmentStatusCompleted, actor: model.UserRoleBusiness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.action, tt.from, tt.actor)
			assert.Error(t, err)
		})
	}
}

func TestResolveUnknownAction(t *testing.T) {
	_, err := Resolve(Action("archive"), model.AppointmentStatusPending, model.UserRoleBusiness)
	assert.Error(t, err)
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	terminal := []model.AppointmentStatus{
		model.AppointmentStatusCancelled,
		model.AppointmentStatusCompleted,
		model.AppointmentStatusMissed,
		model.AppointmentStatusIncompleted,
	}
	actions := []Action{ActionApprove, ActionReject, ActionCancel, ActionComplete, ActionMarkMissed, ActionMarkIncompleted}
	roles := []model.UserRole{model.UserRoleCustomer, model.UserRoleBusiness}

	for _, status := range terminal {
		for _, action := range actions {
			for _, role := range roles {
				_, err := Resolve(action, status, role)
				assert.Error(t, err, "action %s from %s as %s", action, status, role)
			}
		}
	}
}
