package rpc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Each appointment transition is a distinct named procedure. All of them
// return success or failure only; the client consumes no payload beyond
// the error.

func (c *Client) ApproveAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	return c.callTransition(ctx, "approve_appointment", appointmentID)
}

func (c *Client) RejectAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	return c.callTransition(ctx, "reject_appointment", appointmentID)
}

func (c *Client) CancelAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	return c.callTransition(ctx, "cancel_appointment", appointmentID)
}

func (c *Client) CompleteAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	return c.callTransition(ctx, "complete_appointment", appointmentID)
}

func (c *Client) MarkAppointmentMissed(ctx context.Context, appointmentID uuid.UUID) error {
	return c.callTransition(ctx, "mark_appointment_missed", appointmentID)
}

func (c *Client) MarkAppointmentIncompleted(ctx context.Context, appointmentID uuid.UUID) error {
	return c.callTransition(ctx, "mark_appointment_incompleted", appointmentID)
}

func (c *Client) callTransition(ctx context.Context, procedure string, appointmentID uuid.UUID) error {
	query := fmt.Sprintf("SELECT %s($1)", procedure)
	if _, err := c.db.ExecContext(ctx, query, appointmentID); err != nil {
		return fmt.Errorf("failed to call %s: %w", procedure, err)
	}
	return nil
}
