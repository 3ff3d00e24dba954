package model

import (
	"consultly/shared/model"
)

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID           = "id"
	FieldBookingID    = "booking_id"
	FieldClientID     = "client_id"
	FieldConsultantID = "consultant_id"
	FieldRating       = "rating"
	FieldComment      = "comment"
)

type Review struct {
	ID           string `db:"id"`
	BookingID    string `db:"booking_id"`
	ClientID     string `db:"client_id"`
	ConsultantID string `db:"consultant_id"`
	Rating       int    `db:"rating"`
	Comment      string `db:"comment"`
	model.Metadata
}
