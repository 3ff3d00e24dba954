package model

import (
	"consultly/shared/constant"
	"consultly/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID           = "id"
	FieldClientID     = "client_id"
	FieldConsultantID = "consultant_id"
	FieldSlotID       = "slot_id"
	FieldReason       = "reason"
	FieldMeetingLink  = "meeting_link"
	FieldStatus       = "status"
)

type Booking struct {
	ID           string  `db:"id"`
	ClientID     string  `db:"client_id"`
	ConsultantID string  `db:"consultant_id"`
	SlotID       string  `db:"slot_id"`
	Reason       string  `db:"reason"`
	MeetingLink  *string `db:"meeting_link"`
	Status       string  `db:"status"`
	model.Metadata
}

// allowedTransitions is the booking state machine. COMPLETED and CANCELLED
// are terminal.
var allowedTransitions = map[string][]string{
	constant.BookingStatusPending:   {constant.BookingStatusConfirmed, constant.BookingStatusCancelled},
	constant.BookingStatusConfirmed: {constant.BookingStatusCompleted, constant.BookingStatusCancelled},
}

// CanTransition reports whether moving from one booking status to another is legal.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// IsValidStatus reports whether the value is a known booking status.
func IsValidStatus(status string) bool {
	switch status {
	case constant.BookingStatusPending,
		constant.BookingStatusConfirmed,
		constant.BookingStatusCompleted,
		constant.BookingStatusCancelled:
		return true
	}

	return false
}
