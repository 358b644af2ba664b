package appointment

import (
	"fmt"

	"github.com/bookline/booking-api/internal/model"
)

// Action is one of the named transition procedures the backend exposes.
type Action string

const (
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionCancel          Action = "cancel"
	ActionComplete        Action = "complete"
	ActionMarkMissed      Action = "mark_missed"
	ActionMarkIncompleted Action = "mark_incompleted"
)

type transition struct {
	from []model.AppointmentStatus
	to   model.AppointmentStatus
	// empty means either role may perform the action
	actor model.UserRole
}

// The legal-transition table. The backend procedures stay the authority;
// this guard only fails fast with a precise error instead of a generic
// remote one.
var transitions = map[Action]transition{
	ActionApprove: {
		from:  []model.AppointmentStatus{model.AppointmentStatusPending},
		to:    model.AppointmentStatusConfirmed,
		actor: model.UserRoleBusiness,
	},
	ActionReject: {
		from:  []model.AppointmentStatus{model.AppointmentStatusPending},
		to:    model.AppointmentStatusCancelled,
		actor: model.UserRoleBusiness,
	},
	ActionCancel: {
		from:  []model.AppointmentStatus{model.AppointmentStatusPending, model.AppointmentStatusConfirmed},
		to:    model.AppointmentStatusCancelled,
		actor: model.UserRoleCustomer,
	},
	ActionComplete: {
		from: []model.AppointmentStatus{model.AppointmentStatusConfirmed},
		to:   model.AppointmentStatusCompleted,
	},
	ActionMarkMissed: {
		from:  []model.AppointmentStatus{model.AppointmentStatusConfirmed},
		to:    model.AppointmentStatusMissed,
		actor: model.UserRoleBusiness,
	},
	ActionMarkIncompleted: {
		from:  []model.AppointmentStatus{model.AppointmentStatusConfirmed},
		to:    model.AppointmentStatusIncompleted,
		actor: model.UserRoleBusiness,
	},
}

// Resolve checks that the action is legal from the current status and
// for the acting role, returning the resulting status.
func Resolve(action Action, from model.AppointmentStatus, actor model.UserRole) (model.AppointmentStatus, error) {
	t, ok := transitions[action]
	if !ok {
		return "", fmt.Errorf("unknown action %q", action)
	}

	if t.actor != "" && t.actor != actor {
		return "", fmt.Errorf("only the %s may %s an appointment", t.actor, action)
	}

	for _, f := range t.from {
		if f == from {
			return t.to, nil
		}
	}
	return "", fmt.Errorf("cannot %s an appointment in status %q", action, from)
}
