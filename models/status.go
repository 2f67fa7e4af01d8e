package models

import "time"

// StatusEntry is one element of an append-only status history. The
// current status of an order or appointment is the last entry; prior
// entries are never mutated or removed.
type StatusEntry struct {
	Status    string    `json:"status" bson:"status"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Message   string    `json:"message" bson:"message"`
}

// Order status labels.
const (
	OrderStatusPending       = "Pending"
	OrderStatusToPay         = "TOPAY"
	OrderStatusToShip        = "TOSHIP"
	OrderStatusToReceived    = "TORECEIVED"
	OrderStatusFailedAttempt = "FAILEDATTEMPT"
	OrderStatusReturned      = "RETURNED"
	OrderStatusDelivered     = "DELIVERED"
	OrderStatusCancelled     = "CANCELLED"
	OrderStatusCompleted     = "COMPLETED"
	OrderStatusPaid          = "PAID"
)

// orderStatusMessages is the fixed label-to-message table used by the
// order status update endpoint. Labels outside the table get an empty
// message, same as the source system.
var orderStatusMessages = map[string]string{
	OrderStatusToPay:         "Please proceed to payment for your order.",
	OrderStatusToShip:        "Your order is prepared and ready for shipping.",
	OrderStatusToReceived:    "Your order is currently out for delivery.",
	OrderStatusFailedAttempt: "Your recent delivery attempt was unsuccessful.",
	OrderStatusReturned:      "Unfortunately, we were unable to deliver your order despite multiple attempts. It has been returned to our facility.",
	OrderStatusDelivered:     "Your order has been successfully delivered.",
	OrderStatusCancelled:     "Your order has been cancelled",
	OrderStatusCompleted:     "Your order has been completed.",
}

// OrderStatusMessage returns the canned message for an order status label.
func OrderStatusMessage(status string) string {
	return orderStatusMessages[status]
}

// Appointment status labels, including the back-job sub-flow labels
// which share the same history list.
const (
	AppointmentStatusPending          = "PENDING"
	AppointmentStatusConfirmed        = "CONFIRMED"
	AppointmentStatusInProgress       = "INPROGRESS"
	AppointmentStatusDone             = "DONE"
	AppointmentStatusCompleted        = "COMPLETED"
	AppointmentStatusCancelled        = "CANCELLED"
	AppointmentStatusRescheduled      = "RESCHEDULED"
	AppointmentStatusDelayed          = "DELAYED"
	AppointmentStatusNoShow           = "NOSHOW"
	AppointmentStatusBackJobPending   = "BACKJOBPENDING"
	AppointmentStatusBackJobConfirmed = "BACKJOBCONFIRMED"
	AppointmentStatusBackJobCompleted = "BACKJOBCOMPLETED"
)

var appointmentStatusMessages = map[string]string{
	AppointmentStatusPending:          "Appointment scheduled successfully. Awaiting confirmation.",
	AppointmentStatusConfirmed:        "Appointment confirmed. See you at the scheduled time!",
	AppointmentStatusInProgress:       "Service in progress. Your motorcycle is being serviced.",
	AppointmentStatusDone:             "Mechanic has completed servicing. Final checks in progress.",
	AppointmentStatusCompleted:        "Service completed",
	AppointmentStatusCancelled:        "Appointment cancelled. Please contact us for further assistance.",
	AppointmentStatusRescheduled:      "Appointment rescheduled successfully. New date and time confirmed.",
	AppointmentStatusDelayed:          "Apologies for the delay. Your appointment is being rescheduled.",
	AppointmentStatusNoShow:           "You missed your appointment. Please reschedule if needed.",
	AppointmentStatusBackJobPending:   "Back job requested. We will process your request shortly.",
	AppointmentStatusBackJobConfirmed: "Back job confirmed. Please proceed with the schedule back job.",
	AppointmentStatusBackJobCompleted: "Back job completed.",
}

// AppointmentStatusMessage returns the canned message for an
// appointment status label.
func AppointmentStatusMessage(status string) string {
	return appointmentStatusMessages[status]
}

// NewStatusEntry builds a history entry stamped with the current time.
func NewStatusEntry(status, message string) StatusEntry {
	return StatusEntry{Status: status, Timestamp: time.Now(), Message: message}
}
