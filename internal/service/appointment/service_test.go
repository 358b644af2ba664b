package appointment

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookline/booking-api/internal/model"
	"github.com/bookline/booking-api/pkg/auth"
	"github.com/bookline/booking-api/pkg/errors"
	"github.com/bookline/booking-api/pkg/logger"
	"github.com/bookline/booking-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("appointment_test")

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	services     map[uuid.UUID][]model.Service
	listed       []*model.Appointment
	updated      map[uuid.UUID]model.AppointmentStatus
	updateErr    error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		appointments: make(map[uuid.UUID]*model.Appointment),
		services:     make(map[uuid.UUID][]model.Service),
		updated:      make(map[uuid.UUID]model.AppointmentStatus),
	}
}

func (f *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, stderrors.New("no rows")
	}
	copied := *apt
	return &copied, nil
}

func (f *fakeAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return f.listed, nil
}

func (f *fakeAppointmentRepo) GetServices(ctx context.Context, appointmentID uuid.UUID) ([]model.Service, error) {
	return f.services[appointmentID], nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated[id] = status
	if apt, ok := f.appointments[id]; ok {
		apt.Status = status
	}
	return nil
}

type fakeBusinessRepo struct {
	businesses map[uuid.UUID]*model.Business
}

func (f *fakeBusinessRepo) Get(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	b, ok := f.businesses[id]
	if !ok {
		return nil, stderrors.New("no rows")
	}
	return b, nil
}

func (f *fakeBusinessRepo) List(ctx context.Context) ([]*model.Business, error) {
	return nil, nil
}

func (f *fakeBusinessRepo) ListServices(ctx context.Context, businessID uuid.UUID) ([]model.Service, error) {
	return nil, nil
}

// fakeCaller records which procedures ran and can fail them all.
type fakeCaller struct {
	calls []string
	err   error
}

func (f *fakeCaller) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeCaller) ApproveAppointment(ctx context.Context, id uuid.UUID) error {
	return f.record("approve_appointment")
}

func (f *fakeCaller) RejectAppointment(ctx context.Context, id uuid.UUID) error {
	return f.record("reject_appointment")
}

func (f *fakeCaller) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	return f.record("cancel_appointment")
}

func (f *fakeCaller) CompleteAppointment(ctx context.Context, id uuid.UUID) error {
	return f.record("complete_appointment")
}

func (f *fakeCaller) MarkAppointmentMissed(ctx context.Context, id uuid.UUID) error {
	return f.record("mark_appointment_missed")
}

func (f *fakeCaller) MarkAppointmentIncompleted(ctx context.Context, id uuid.UUID) error {
	return f.record("mark_appointment_incompleted")
}

type fakeNotifier struct {
	recorded []Action
	owners   []uuid.UUID
}

func (f *fakeNotifier) RecordStatusChange(ctx context.Context, apt *model.Appointment, businessOwnerID uuid.UUID, action Action) error {
	f.recorded = append(f.recorded, action)
	f.owners = append(f.owners, businessOwnerID)
	return nil
}

type fakeEmitter struct {
	events []string
}

func (f *fakeEmitter) Emit(ctx context.Context, eventType string, payload interface{}) error {
	f.events = append(f.events, eventType)
	return nil
}

type fixture struct {
	svc      *Service
	repo     *fakeAppointmentRepo
	caller   *fakeCaller
	notifier *fakeNotifier
	emitter  *fakeEmitter
	apt      *model.Appointment
	ownerID  uuid.UUID
}

func newFixture(t *testing.T, status model.AppointmentStatus) *fixture {
	t.Helper()

	repo := newFakeAppointmentRepo()
	ownerID := uuid.New()
	business := &model.Business{
		Base:    model.Base{ID: uuid.New()},
		OwnerID: ownerID,
		Name:    "Fade Factory",
	}
	apt := &model.Appointment{
		Base:       model.Base{ID: uuid.New()},
		BusinessID: business.ID,
		CustomerID: uuid.New(),
		Status:     status,
	}
	repo.appointments[apt.ID] = apt

	caller := &fakeCaller{}
	notifier := &fakeNotifier{}
	emitter := &fakeEmitter{}
	svc := NewService(
		repo,
		&fakeBusinessRepo{businesses: map[uuid.UUID]*model.Business{business.ID: business}},
		caller,
		notifier,
		emitter,
		testMetrics,
		logger.NewLogger(nil),
	)

	return &fixture{svc: svc, repo: repo, caller: caller, notifier: notifier, emitter: emitter, apt: apt, ownerID: ownerID}
}

func businessClaims(id uuid.UUID) *auth.Claims {
	return &auth.Claims{UserID: id, Role: string(model.UserRoleBusiness)}
}

func customerClaims(id uuid.UUID) *auth.Claims {
	return &auth.Claims{UserID: id, Role: string(model.UserRoleCustomer)}
}

func TestTransitionApprove(t *testing.T) {
	f := newFixture(t, model.AppointmentStatusPending)

	apt, err := f.svc.Transition(context.Background(), f.apt.ID, ActionApprove, businessClaims(f.ownerID))
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, apt.Status)
	assert.Equal(t, []string{"approve_appointment"}, f.caller.calls)
	assert.Equal(t, model.AppointmentStatusConfirmed, f.repo.updated[f.apt.ID])
	assert.Equal(t, []string{"appointment.approve"}, f.emitter.events)
	assert.Equal(t, []Action{ActionApprove}, f.notifier.recorded)
	assert.Equal(t, []uuid.UUID{f.ownerID}, f.notifier.owners)
}

func TestTransitionRejectedByGuardSkipsBackend(t *testing.T) {
	f := newFixture(t, model.AppointmentStatusPending)

	// Customers may not approve; the guard rejects before any
	// procedure call.
	_, err := f.svc.Transition(context.Background(), f.apt.ID, ActionApprove, customerClaims(f.apt.CustomerID))
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrConflict, appErr.Code)
	assert.Empty(t, f.caller.calls)
	assert.Empty(t, f.emitter.events)
	assert.Empty(t, f.repo.updated)
}

func TestTransitionIllegalStatus(t *testing.T) {
	f := newFixture(t, model.AppointmentStatusCompleted)

	_, err := f.svc.Transition(context.Background(), f.apt.ID, ActionCancel, customerClaims(f.apt.CustomerID))
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrConflict, appErr.Code)
	assert.Empty(t, f.caller.calls)
}

func TestTransitionBackendFailureLeavesStatus(t *testing.T) {
	f := newFixture(t, model.AppointmentStatusPending)
	f.caller.err = stderrors.New("procedure failed")

	_, err := f.svc.Transition(context.Background(), f.apt.ID, ActionApprove, businessClaims(f.ownerID))
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrRemote, appErr.Code)

	// The local status still reads pending; nothing was projected.
	stored, err := f.repo.Get(context.Background(), f.apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, stored.Status)
	assert.Empty(t, f.repo.updated)
	assert.Empty(t, f.emitter.events)
	assert.Empty(t, f.notifier.recorded)
}

func TestTransitionLocalReflectionFailureStillSucceeds(t *testing.T) {
	f := newFixture(t, model.AppointmentStatusPending)
	f.repo.updateErr = stderrors.New("write failed")

	apt, err := f.svc.Transition(context.Background(), f.apt.ID, ActionApprove, businessClaims(f.ownerID))
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, apt.Status)
	assert.Equal(t, []string{"appointment.approve"}, f.emitter.events)
}

func TestTransitionProcedureDispatch(t *testing.T) {
	tests := []struct {
		action    Action
		from      model.AppointmentStatus
		claims    func(f *fixture) *auth.Claims
		procedure string
		to        model.AppointmentStatus
	}{
		{action: ActionApprove, from: model.AppointmentStatusPending, claims: func(f *fixture) *auth.Claims { return businessClaims(f.ownerID) }, procedure: "approve_appointment", to: model.AppointmentStatusConfirmed},
		{action: ActionReject, from: model.AppointmentStatusPending, claims: func(f *fixture) *auth.Claims { return businessClaims(f.ownerID) }, procedure: "reject_appointment", to: model.AppointmentStatusCancelled},
		{action: ActionCancel, from: model.AppointmentStatusConfirmed, claims: func(f *fixture) *auth.Claims { return customerClaims(f.apt.CustomerID) }, procedure: "cancel_appointment", to: model.AppointmentStatusCancelled},
		{action: ActionComplete, from: model.AppointmentStatusConfirmed, claims: func(f *fixture) *auth.Claims { return businessClaims(f.ownerID) }, procedure: "complete_appointment", to: model.AppointmentStatusCompleted},
		{action: ActionMarkMissed, from: model.AppointmentStatusConfirmed, claims: func(f *fixture) *auth.Claims { return businessClaims(f.ownerID) }, procedure: "mark_appointment_missed", to: model.AppointmentStatusMissed},
		{action: ActionMarkIncompleted, from: model.AppointmentStatusConfirmed, claims: func(f *fixture) *auth.Claims { return businessClaims(f.ownerID) }, procedure: "mark_appointment_incompleted", to: model.AppointmentStatusIncompleted},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			f := newFixture(t, tt.from)

			apt, err := f.svc.Transition(context.Background(), f.apt.ID, tt.action, tt.claims(f))
			require.NoError(t, err)
			assert.Equal(t, tt.to, apt.Status)
			assert.Equal(t, []string{tt.procedure}, f.caller.calls)
		})
	}
}

func TestTransitionUnknownAppointment(t *testing.T) {
	f := newFixture(t, model.AppointmentStatusPending)

	_, err := f.svc.Transition(context.Background(), uuid.New(), ActionApprove, businessClaims(f.ownerID))
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestGetAppointmentIncludesServices(t *testing.T) {
	f := newFixture(t, model.AppointmentStatusPending)
	f.repo.services[f.apt.ID] = []model.Service{
		{Name: "Haircut", Price: 40, Duration: 30},
		{Name: "Beard Trim", Price: 30, Duration: 60},
	}

	apt, err := f.svc.GetAppointment(context.Background(), f.apt.ID, customerClaims(f.apt.CustomerID))
	require.NoError(t, err)
	require.Len(t, apt.Services, 2)
	assert.Equal(t, "Haircut", apt.Services[0].Name)
}

func TestGetAppointmentScopedToParticipants(t *testing.T) {
	f := newFixture(t, model.AppointmentStatusPending)

	_, err := f.svc.GetAppointment(context.Background(), f.apt.ID, customerClaims(f.apt.CustomerID))
	assert.NoError(t, err)
	_, err = f.svc.GetAppointment(context.Background(), f.apt.ID, businessClaims(f.ownerID))
	assert.NoError(t, err)

	_, err = f.svc.GetAppointment(context.Background(), f.apt.ID, customerClaims(uuid.New()))
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	_, err = f.svc.GetAppointment(context.Background(), f.apt.ID, businessClaims(uuid.New()))
	appErr, ok = errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestTransitionForeignCustomerForbidden(t *testing.T) {
	f := newFixture(t, model.AppointmentStatusPending)

	// A customer who did not book the appointment cannot cancel it,
	// and the backend never hears about the attempt.
	_, err := f.svc.Transition(context.Background(), f.apt.ID, ActionCancel, customerClaims(uuid.New()))
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
	assert.Empty(t, f.caller.calls)
	assert.Empty(t, f.emitter.events)

	stored, err := f.repo.Get(context.Background(), f.apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, stored.Status)
}

func TestTransitionForeignBusinessForbidden(t *testing.T) {
	f := newFixture(t, model.AppointmentStatusPending)

	_, err := f.svc.Transition(context.Background(), f.apt.ID, ActionApprove, businessClaims(uuid.New()))
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
	assert.Empty(t, f.caller.calls)
	assert.Empty(t, f.repo.updated)
}

func TestListAppointmentsCustomerScopedToSelf(t *testing.T) {
	f := newFixture(t, model.AppointmentStatusPending)
	customerID := uuid.New()

	filters := &model.AppointmentFilters{CustomerID: uuid.New()}
	_, err := f.svc.ListAppointments(context.Background(), customerClaims(customerID), filters)
	require.NoError(t, err)

	// Whatever the caller put in the filter, a customer only ever sees
	// their own bookings.
	assert.Equal(t, customerID, filters.CustomerID)
}

func TestListAppointmentsBusinessRequiresOwnership(t *testing.T) {
	f := newFixture(t, model.AppointmentStatusPending)

	claims := &auth.Claims{UserID: uuid.New(), Role: string(model.UserRoleBusiness)}

	_, err := f.svc.ListAppointments(context.Background(), claims, &model.AppointmentFilters{})
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrBadRequest, appErr.Code)

	_, err = f.svc.ListAppointments(context.Background(), claims, &model.AppointmentFilters{BusinessID: f.apt.BusinessID})
	appErr, ok = errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	owner := &auth.Claims{UserID: f.ownerID, Role: string(model.UserRoleBusiness)}
	_, err = f.svc.ListAppointments(context.Background(), owner, &model.AppointmentFilters{BusinessID: f.apt.BusinessID})
	assert.NoError(t, err)
}
