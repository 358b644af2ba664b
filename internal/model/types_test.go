package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Money
		wantErr bool
	}{
		{name: "number", input: `40`, want: 40},
		{name: "decimal", input: `19.99`, want: 19.99},
		{name: "quoted number", input: `"30"`, want: 30},
		{name: "quoted decimal", input: `"12.5"`, want: 12.5},
		{name: "null", input: `null`, want: 0},
		{name: "empty string", input: `""`, want: 0},
		{name: "garbage", input: `"abc"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Money
			err := json.Unmarshal([]byte(tt.input), &m)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestMinutesUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Minutes
		wantErr bool
	}{
		{name: "number", input: `45`, want: 45},
		{name: "quoted number", input: `"60"`, want: 60},
		{name: "float coerced", input: `30.0`, want: 30},
		{name: "null", input: `null`, want: 0},
		{name: "garbage", input: `"soon"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Minutes
			err := json.Unmarshal([]byte(tt.input), &m)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestServiceUnmarshalStringNumbers(t *testing.T) {
	var svc Service
	err := json.Unmarshal([]byte(`{"name":"Haircut","price":"40","duration":"30"}`), &svc)
	require.NoError(t, err)
	assert.Equal(t, Money(40), svc.Price)
	assert.Equal(t, Minutes(30), svc.Duration)
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "1h 30m", FormatMinutes(90))
	assert.Equal(t, "2h", FormatMinutes(120))
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "0m", FormatMinutes(0))
}

func TestAppointmentStatusTerminal(t *testing.T) {
	assert.False(t, AppointmentStatusPending.Terminal())
	assert.False(t, AppointmentStatusConfirmed.Terminal())
	assert.True(t, AppointmentStatusCancelled.Terminal())
	assert.True(t, AppointmentStatusCompleted.Terminal())
	assert.True(t, AppointmentStatusMissed.Terminal())
	assert.True(t, AppointmentStatusIncompleted.Terminal())
}
