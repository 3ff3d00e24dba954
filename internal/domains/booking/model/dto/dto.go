package dto

import (
	"consultly/internal/domains/booking/model"
	"consultly/shared"
	"consultly/shared/constant"
	gDto "consultly/shared/dto"
	gModel "consultly/shared/model"
	"consultly/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	SlotID string `json:"slot_id" validate:"required"`
	Reason string `json:"reason"  validate:"required"`
}

func (c *CreateBookingRequest) ToModel(clientID, consultantID string) model.Booking {
	return model.Booking{
		ID:           uuid.NewString(),
		ClientID:     clientID,
		ConsultantID: consultantID,
		SlotID:       c.SlotID,
		Reason:       c.Reason,
		Status:       constant.BookingStatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  clientID,
			ModifiedBy: clientID,
		},
	}
}

type TransitionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

type UpdateStatusFields struct {
	Status string `db:"status" json:"status"`
}

type AttachMeetingLinkRequest struct {
	MeetingLink string `json:"meeting_link" validate:"required,url,max=255"`
}

type UpdateMeetingLinkFields struct {
	MeetingLink string `db:"meeting_link" json:"meeting_link"`
}

type BookingResponse struct {
	ID           string  `json:"id"`
	ClientID     string  `json:"client_id"`
	ConsultantID string  `json:"consultant_id"`
	SlotID       string  `json:"slot_id"`
	Reason       string  `json:"reason"`
	MeetingLink  *string `json:"meeting_link,omitempty"`
	Status       string  `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.ClientID = mod.ClientID
	r.ConsultantID = mod.ConsultantID
	r.SlotID = mod.SlotID
	r.Reason = mod.Reason
	r.MeetingLink = mod.MeetingLink
	r.Status = mod.Status
	r.Metadata.FromModel(mod.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
