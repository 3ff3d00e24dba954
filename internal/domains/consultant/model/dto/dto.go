package dto

import (
	"consultly/internal/domains/consultant/model"
	"consultly/shared"
	gDto "consultly/shared/dto"
	gModel "consultly/shared/model"
	"consultly/shared/timezone"

	"github.com/google/uuid"
)

type UpdateProfileRequest struct {
	Specialization  string  `db:"specialization"   json:"specialization"   validate:"omitempty,max=100"`
	Bio             *string `db:"bio"              json:"bio"              validate:"omitempty"`
	MeetingPlatform *string `db:"meeting_platform" json:"meeting_platform" validate:"omitempty,max=50"`
	MeetingLink     *string `db:"meeting_link"     json:"meeting_link"     validate:"omitempty,url,max=255"`
}

// NewProfileModel builds the default profile created on a consultant's first access.
func NewProfileModel(userID string) model.Profile {
	return model.Profile{
		ID:       uuid.NewString(),
		UserID:   userID,
		IsActive: true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  userID,
			ModifiedBy: userID,
		},
	}
}

type ProfileResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	Specialization  string  `json:"specialization"`
	Bio             *string `json:"bio,omitempty"`
	MeetingPlatform *string `json:"meeting_platform,omitempty"`
	MeetingLink     *string `json:"meeting_link,omitempty"`
	IsActive        bool    `json:"is_active"`
	gDto.Metadata
}

func (r *ProfileResponse) FromModel(mod model.Profile) {
	r.ID = mod.ID
	r.UserID = mod.UserID
	r.Specialization = mod.Specialization
	r.Bio = mod.Bio
	r.MeetingPlatform = mod.MeetingPlatform
	r.MeetingLink = mod.MeetingLink
	r.IsActive = mod.IsActive
	r.Metadata.FromModel(mod.Metadata)
}

type GetProfilesResponse struct {
	Profiles  []ProfileResponse `json:"profiles"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetProfilesResponse) FromModels(models []model.Profile, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Profiles = make([]ProfileResponse, len(models))
	for i, mod := range models {
		r.Profiles[i].FromModel(mod)
	}
}
