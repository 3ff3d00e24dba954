package model

import "consultly/shared/model"

const (
	TableName  = "consultant_profiles"
	EntityName = "consultant profile"

	FieldID              = "id"
	FieldUserID          = "user_id"
	FieldSpecialization  = "specialization"
	FieldBio             = "bio"
	FieldMeetingPlatform = "meeting_platform"
	FieldMeetingLink     = "meeting_link"
	FieldIsActive        = "is_active"
)

type Profile struct {
	ID              string  `db:"id"`
	UserID          string  `db:"user_id"`
	Specialization  string  `db:"specialization"`
	Bio             *string `db:"bio"`
	MeetingPlatform *string `db:"meeting_platform"`
	MeetingLink     *string `db:"meeting_link"`
	IsActive        bool    `db:"is_active"`
	model.Metadata
}
