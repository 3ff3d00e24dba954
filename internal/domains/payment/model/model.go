package model

import (
	"consultly/shared/model"
	"time"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID        = "id"
	FieldBookingID = "booking_id"
	FieldAmount    = "amount"
	FieldReference = "reference"
	FieldStatus    = "status"
	FieldPaidAt    = "paid_at"
)

type Payment struct {
	ID        string     `db:"id"`
	BookingID string     `db:"booking_id"`
	Amount    int64      `db:"amount"`
	Reference string     `db:"reference"`
	Status    string     `db:"status"`
	PaidAt    *time.Time `db:"paid_at"`
	model.Metadata
}
