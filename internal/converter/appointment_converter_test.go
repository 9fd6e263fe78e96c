package converter

import (
	"testing"
	"time"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAppointmentToResponse(t *testing.T) {
	assert.Nil(t, AppointmentToResponse(nil))

	serviceID := uuid.New()
	appt := &entity.Appointment{
		ID:              uuid.New(),
		ServiceID:       serviceID,
		AppointmentDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		StartMinute:     9*60 + 45,
		DurationMinutes: 45,
		TotalCost:       decimal.RequireFromString("1500.00"),
		Status:          entity.AppointmentStatusScheduled,
		Service:         entity.Service{ID: serviceID, Name: "Cleaning"},
	}

	resp := AppointmentToResponse(appt)
	assert.Equal(t, "2024-06-10", resp.Date)
	assert.Equal(t, "09:45", resp.StartTime)
	assert.Equal(t, "10:30", resp.EndTime)
	assert.Equal(t, "Cleaning", resp.ServiceName)
	assert.Equal(t, "scheduled", resp.Status)
	assert.True(t, decimal.RequireFromString("1500").Equal(resp.TotalCost))
}
