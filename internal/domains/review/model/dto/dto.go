package dto

import (
	"consultly/internal/domains/review/model"
	"consultly/shared"
	gDto "consultly/shared/dto"
	gModel "consultly/shared/model"
	"consultly/shared/timezone"

	"github.com/google/uuid"
)

type SubmitReviewRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
	Rating    int    `json:"rating"     validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment"    validate:"max=2000"`
}

func (s *SubmitReviewRequest) ToModel(clientID, consultantID string) model.Review {
	return model.Review{
		ID:           uuid.NewString(),
		BookingID:    s.BookingID,
		ClientID:     clientID,
		ConsultantID: consultantID,
		Rating:       s.Rating,
		Comment:      s.Comment,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  clientID,
			ModifiedBy: clientID,
		},
	}
}

type ReviewResponse struct {
	ID           string `json:"id"`
	BookingID    string `json:"booking_id"`
	ClientID     string `json:"client_id"`
	ConsultantID string `json:"consultant_id"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment,omitempty"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(mod model.Review) {
	r.ID = mod.ID
	r.BookingID = mod.BookingID
	r.ClientID = mod.ClientID
	r.ConsultantID = mod.ConsultantID
	r.Rating = mod.Rating
	r.Comment = mod.Comment
	r.Metadata.FromModel(mod.Metadata)
}

type GetReviewsResponse struct {
	Reviews   []ReviewResponse `json:"reviews"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetReviewsResponse) FromModels(models []model.Review, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reviews = make([]ReviewResponse, len(models))
	for i, mod := range models {
		r.Reviews[i].FromModel(mod)
	}
}
