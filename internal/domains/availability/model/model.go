package model

import (
	"consultly/shared/model"
	"time"
)

const (
	TableName  = "availability_slots"
	EntityName = "availability slot"

	FieldID           = "id"
	FieldConsultantID = "consultant_id"
	FieldDate         = "date"
	FieldCapacity     = "capacity"
)

// DefaultCapacity is used when a slot is published without an explicit capacity.
const DefaultCapacity = 10

type Slot struct {
	ID           string    `db:"id"`
	ConsultantID string    `db:"consultant_id"`
	Date         time.Time `db:"date"`
	Capacity     int       `db:"capacity"`
	model.Metadata
}
