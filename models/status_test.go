package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/XdebronneX/backend-TeamPOOR/models"
)

func TestOrderCurrentStatus(t *testing.T) {
	order := &models.Order{}
	assert.Equal(t, "", order.CurrentStatus())

	order.OrderStatus = []models.StatusEntry{
		models.NewStatusEntry(models.OrderStatusPending, ""),
		models.NewStatusEntry(models.OrderStatusToShip, models.OrderStatusMessage(models.OrderStatusToShip)),
	}
	assert.Equal(t, models.OrderStatusToShip, order.CurrentStatus())
}

func TestAppointmentCurrentStatus(t *testing.T) {
	appointment := &models.Appointment{}
	assert.Equal(t, "", appointment.CurrentStatus())

	appointment.AppointmentStatus = []models.StatusEntry{
		models.NewStatusEntry(models.AppointmentStatusPending, ""),
		models.NewStatusEntry(models.AppointmentStatusConfirmed, ""),
	}
	assert.Equal(t, models.AppointmentStatusConfirmed, appointment.CurrentStatus())
}

func TestOrderStatusMessage(t *testing.T) {
	assert.Equal(t, "Your order is currently out for delivery.", models.OrderStatusMessage(models.OrderStatusToReceived))
	assert.Equal(t, "Your order has been successfully delivered.", models.OrderStatusMessage(models.OrderStatusDelivered))
	// Labels outside the table carry no message.
	assert.Equal(t, "", models.OrderStatusMessage(models.OrderStatusPending))
	assert.Equal(t, "", models.OrderStatusMessage("UNKNOWN"))
}

func TestAppointmentStatusMessage(t *testing.T) {
	assert.Equal(t, "Back job requested. We will process your request shortly.", models.AppointmentStatusMessage(models.AppointmentStatusBackJobPending))
	assert.Equal(t, "Service completed", models.AppointmentStatusMessage(models.AppointmentStatusCompleted))
	assert.Equal(t, "", models.AppointmentStatusMessage("UNKNOWN"))
}
